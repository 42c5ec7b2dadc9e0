package parser

import (
	"fmt"

	"github.com/zjy-dev/coveralls/internal/coverage"
	"github.com/zjy-dev/coveralls/internal/lcov"
)

// ParseLcov parses an LCOV tracefile.
func ParseLcov(report string, opts ...Option) (*coverage.Job, error) {
	o := newOptions(opts)

	tracefile, err := lcov.Parse(report)
	if err != nil {
		return nil, &coverage.InvalidReportError{Reason: "the LCOV report does not parse", Err: err}
	}

	paths := make([]string, len(tracefile.Records))
	for i, rec := range tracefile.Records {
		paths[i] = rec.SourceFile
	}

	sources, err := o.loadSources(paths)
	if err != nil {
		return nil, err
	}

	sourceFiles := make([]*coverage.SourceFile, len(tracefile.Records))
	for i, rec := range tracefile.Records {
		src := sources[i]
		cov := coverage.NewCoverage(coverage.CountLines(src.text))

		if rec.Lines != nil {
			for _, d := range rec.Lines.Data {
				if d.LineNumber > len(cov) {
					return nil, &coverage.InvalidReportError{
						Reason: fmt.Sprintf("line %d is beyond the %d lines of the source file", d.LineNumber, len(cov)),
						Node:   fmt.Sprintf("%s:%s", lcov.TokenSourceFile, rec.SourceFile),
					}
				}
				cov[d.LineNumber-1] = coverage.HitsOf(d.ExecutionCount)
			}
		}

		var branches []int
		if rec.Branches != nil && len(rec.Branches.Data) > 0 {
			branches = make([]int, 0, len(rec.Branches.Data)*4)
			for _, d := range rec.Branches.Data {
				branches = append(branches, d.LineNumber, d.BlockNumber, d.BranchNumber, d.Taken)
			}
		}

		sourceFiles[i] = coverage.NewSourceFile(o.normalize(rec.SourceFile), src.digest, src.text, cov, branches)
	}

	log.Debugf("Parsed %d records from the LCOV report", len(sourceFiles))
	return coverage.NewJob(sourceFiles), nil
}
