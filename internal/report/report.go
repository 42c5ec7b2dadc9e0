// Package report renders human-readable summaries of coverage jobs.
package report

import (
	"io"

	"github.com/zjy-dev/coveralls/internal/coverage"
)

// Reporter renders a coverage job.
type Reporter interface {
	// Render writes the summary of job to w.
	Render(w io.Writer, job *coverage.Job) error
}

// FileSummary holds the totals of a single source file.
type FileSummary struct {
	Name string
	// Relevant is the number of lines carrying coverage data.
	Relevant int
	Covered  int
	Branches int
	Taken    int
}

// LinePercent returns the percentage of covered lines, or -1 when no line
// is relevant.
func (s FileSummary) LinePercent() float64 {
	return percent(s.Covered, s.Relevant)
}

// BranchPercent returns the percentage of taken branches, or -1 when there
// are no branches.
func (s FileSummary) BranchPercent() float64 {
	return percent(s.Taken, s.Branches)
}

func percent(n, total int) float64 {
	if total == 0 {
		return -1
	}
	return float64(n) * 100 / float64(total)
}

// Summary holds the per-file and overall totals of a job.
type Summary struct {
	Files []FileSummary
	Total FileSummary
}

// Summarize computes the totals of a job.
func Summarize(job *coverage.Job) Summary {
	s := Summary{Total: FileSummary{Name: "Total"}}
	for _, f := range job.SourceFiles {
		fs := FileSummary{Name: f.Name}
		for _, h := range f.Coverage {
			n, ok := h.Count()
			if !ok {
				continue
			}
			fs.Relevant++
			if n > 0 {
				fs.Covered++
			}
		}
		fs.Branches = f.BranchCount()
		for i := 0; i < fs.Branches; i++ {
			if _, _, _, taken := f.Branch(i); taken > 0 {
				fs.Taken++
			}
		}

		s.Files = append(s.Files, fs)
		s.Total.Relevant += fs.Relevant
		s.Total.Covered += fs.Covered
		s.Total.Branches += fs.Branches
		s.Total.Taken += fs.Taken
	}
	return s
}
