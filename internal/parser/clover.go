package parser

import (
	"encoding/xml"
	"fmt"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/zjy-dev/coveralls/internal/coverage"
)

// statementLine is the type of the Clover line nodes counted for line coverage.
const statementLine = "stmt"

type cloverReport struct {
	XMLName  xml.Name        `xml:"coverage"`
	Projects []cloverProject `xml:"project"`
}

type cloverProject struct {
	Name     string          `xml:"name,attr"`
	Files    []cloverFile    `xml:"file"`
	Packages []cloverPackage `xml:"package"`
	// Other holds the remaining child elements, such as metrics.
	Other []cloverNode `xml:",any"`
}

type cloverNode struct {
	XMLName xml.Name
}

func (p cloverProject) empty() bool {
	return len(p.Files) == 0 && len(p.Packages) == 0 && len(p.Other) == 0
}

type cloverPackage struct {
	Name  string       `xml:"name,attr"`
	Files []cloverFile `xml:"file"`
}

type cloverFile struct {
	Name  *string      `xml:"name,attr"`
	Lines []cloverLine `xml:"line"`
}

// Attributes are kept as text: malformed numbers are read leniently.
type cloverLine struct {
	Num   string `xml:"num,attr"`
	Type  string `xml:"type,attr"`
	Count string `xml:"count,attr"`
}

// ParseClover parses a Clover XML report.
func ParseClover(report string, opts ...Option) (*coverage.Job, error) {
	o := newOptions(opts)

	var doc cloverReport
	decoder := xml.NewDecoder(strings.NewReader(report))
	decoder.CharsetReader = charset.NewReaderLabel
	if err := decoder.Decode(&doc); err != nil {
		return nil, &coverage.InvalidReportError{Reason: "the Clover report does not parse", Err: err}
	}
	if len(doc.Projects) == 0 {
		return nil, &coverage.InvalidReportError{Reason: "the Clover report has no project", Node: "<coverage>"}
	}
	if doc.Projects[0].empty() {
		return nil, &coverage.InvalidReportError{Reason: "the Clover project is empty", Node: fmt.Sprintf("<project> %q", doc.Projects[0].Name)}
	}

	files := collectCloverFiles(doc)
	paths := make([]string, len(files))
	for i, f := range files {
		if f.file.Name == nil {
			return nil, &coverage.InvalidReportError{Reason: "file entry without a name", Node: f.describe()}
		}
		paths[i] = *f.file.Name
	}

	sources, err := o.loadSources(paths)
	if err != nil {
		return nil, err
	}

	sourceFiles := make([]*coverage.SourceFile, len(files))
	for i, f := range files {
		src := sources[i]
		cov := coverage.NewCoverage(coverage.CountLines(src.text))

		for _, line := range f.file.Lines {
			if line.Type != statementLine {
				continue
			}
			num := max(1, leadingInt(line.Num))
			if num > len(cov) {
				log.Warnf("Ignoring line %d of %s: the source has %d lines", num, paths[i], len(cov))
				continue
			}
			cov[num-1] = coverage.HitsOf(max(0, leadingInt(line.Count)))
		}

		sourceFiles[i] = coverage.NewSourceFile(o.normalize(paths[i]), src.digest, src.text, cov, nil)
	}

	log.Debugf("Parsed %d files from the Clover report", len(sourceFiles))
	return coverage.NewJob(sourceFiles), nil
}

type cloverEntry struct {
	file    cloverFile
	project string
	pkg     string
	index   int
}

func (e cloverEntry) describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "<file> #%d", e.index+1)
	if e.project != "" {
		fmt.Fprintf(&b, " in project %q", e.project)
	}
	if e.pkg != "" {
		fmt.Fprintf(&b, " in package %q", e.pkg)
	}
	return b.String()
}

// collectCloverFiles lists the files of every project, then the files
// nested in the packages of every project.
func collectCloverFiles(doc cloverReport) []cloverEntry {
	var entries []cloverEntry
	for _, project := range doc.Projects {
		for _, file := range project.Files {
			entries = append(entries, cloverEntry{file: file, project: project.Name, index: len(entries)})
		}
	}
	for _, project := range doc.Projects {
		for _, pkg := range project.Packages {
			for _, file := range pkg.Files {
				entries = append(entries, cloverEntry{file: file, project: project.Name, pkg: pkg.Name, index: len(entries)})
			}
		}
	}
	return entries
}

// leadingInt reads the integer at the start of s, ignoring leading
// whitespace and anything after the digits. Text without digits reads as 0.
func leadingInt(s string) int {
	s = strings.TrimLeft(s, " \t\r\n")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}

	n := 0
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
		if n > 1<<31 {
			break
		}
	}
	if neg {
		return -n
	}
	return n
}
