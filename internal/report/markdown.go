package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zjy-dev/coveralls/internal/coverage"
)

// MarkdownReporter implements the Reporter interface with a markdown table.
type MarkdownReporter struct {
	outputDir string
	now       func() time.Time
}

// NewMarkdownReporter creates a new MarkdownReporter saving into outputDir.
func NewMarkdownReporter(outputDir string) *MarkdownReporter {
	return &MarkdownReporter{
		outputDir: outputDir,
		now:       time.Now,
	}
}

// Render writes the coverage summary of job to w.
func (r *MarkdownReporter) Render(w io.Writer, job *coverage.Job) error {
	summary := Summarize(job)

	var b strings.Builder
	b.WriteString("# Coverage Report\n\n")

	if meta := metadata(job); len(meta) > 0 {
		for _, line := range meta {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString("| File | Lines | Covered | Line % | Branches | Taken | Branch % |\n")
	b.WriteString("|------|------:|--------:|-------:|---------:|------:|---------:|\n")
	for _, fs := range summary.Files {
		writeRow(&b, fmt.Sprintf("`%s`", fs.Name), fs)
	}
	writeRow(&b, "**Total**", summary.Total)

	_, err := io.WriteString(w, b.String())
	return err
}

// Save writes the coverage summary of job to a new file in the output
// directory and returns its path.
func (r *MarkdownReporter) Save(job *coverage.Job) (string, error) {
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, job); err != nil {
		return "", err
	}

	reportName := fmt.Sprintf("coverage_%d.md", r.now().UnixNano())
	reportPath := filepath.Join(r.outputDir, reportName)
	if err := os.WriteFile(reportPath, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return reportPath, nil
}

func metadata(job *coverage.Job) []string {
	var lines []string
	add := func(label, value string) {
		if value != "" {
			lines = append(lines, fmt.Sprintf("- **%s:** %s\n", label, value))
		}
	}

	add("Service", job.ServiceName)
	add("Job", job.ServiceJobID)
	add("Flag", job.FlagName)
	if job.Git != nil {
		add("Branch", job.Git.Branch)
		if job.Git.Head != nil {
			add("Commit", job.Git.Head.ID)
		}
	} else {
		add("Commit", job.CommitSha)
	}
	if job.RunAt != nil {
		add("Run at", job.RunAt.Format(time.RFC3339))
	}
	return lines
}

func writeRow(b *strings.Builder, name string, fs FileSummary) {
	fmt.Fprintf(b, "| %s | %d | %d | %s | %d | %d | %s |\n",
		name, fs.Relevant, fs.Covered, formatPercent(fs.LinePercent()),
		fs.Branches, fs.Taken, formatPercent(fs.BranchPercent()))
}

func formatPercent(p float64) string {
	if p < 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f%%", p)
}
