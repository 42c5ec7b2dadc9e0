// Package parser turns Clover and LCOV coverage reports into coverage jobs.
//
// The two parsers apply different strictness: Clover reports are known to
// carry noisy attributes and are clamped, LCOV records are validated by the
// lcov decoder and used as-is.
package parser

import (
	"os"
	"runtime"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/zjy-dev/coveralls/internal/coverage"
	"github.com/zjy-dev/coveralls/internal/logger"
)

var log = logger.Named("parser")

// Format identifies a coverage report format.
type Format int

const (
	FormatUnknown Format = iota
	FormatClover
	FormatLcov
)

func (f Format) String() string {
	switch f {
	case FormatClover:
		return "clover"
	case FormatLcov:
		return "lcov"
	default:
		return "unknown"
	}
}

// DetectFormat guesses the format of a report from its first characters.
func DetectFormat(report string) Format {
	report = strings.TrimSpace(report)
	switch {
	case strings.HasPrefix(report, "<?xml"), strings.HasPrefix(report, "<coverage"):
		return FormatClover
	case strings.HasPrefix(report, "TN:"), strings.HasPrefix(report, "SF:"):
		return FormatLcov
	default:
		return FormatUnknown
	}
}

// Parse detects the format of report and parses it.
func Parse(report string, opts ...Option) (*coverage.Job, error) {
	if strings.TrimSpace(report) == "" {
		return nil, &coverage.InvalidReportError{Reason: "the coverage report is empty"}
	}

	format := DetectFormat(report)
	log.Debugf("Detected %s coverage report", format)

	switch format {
	case FormatClover:
		return ParseClover(report, opts...)
	case FormatLcov:
		return ParseLcov(report, opts...)
	default:
		return nil, &coverage.InvalidReportError{Reason: "the coverage format is not supported"}
	}
}

// Option configures a parser.
type Option func(*options)

type options struct {
	concurrency int
	workingDir  string
}

// WithConcurrency bounds the number of source files read at the same time.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithWorkingDir sets the directory absolute source paths are made relative to.
func WithWorkingDir(dir string) Option {
	return func(o *options) {
		o.workingDir = dir
	}
}

func newOptions(opts []Option) *options {
	o := &options{concurrency: runtime.NumCPU()}
	for _, opt := range opts {
		opt(o)
	}
	if o.workingDir == "" {
		if wd, err := os.Getwd(); err == nil {
			o.workingDir = wd
		}
	}
	return o
}

func (o *options) normalize(path string) string {
	return coverage.RelativeTo(path, o.workingDir)
}

type loadedSource struct {
	text   string
	digest string
}

// loadSources reads the given files with bounded parallelism. Results are
// indexed like paths; on failure the error of the lowest index is returned.
func (o *options) loadSources(paths []string) ([]loadedSource, error) {
	results := make([]loadedSource, len(paths))
	errs := make([]error, len(paths))

	// Lowest index that failed so far. Higher entries are skipped, lower
	// ones still run so that their error takes precedence.
	var failed atomic.Int64
	failed.Store(int64(len(paths)))

	var g errgroup.Group
	g.SetLimit(o.concurrency)
	for i, path := range paths {
		g.Go(func() error {
			if int64(i) > failed.Load() {
				return nil
			}
			text, digest, err := coverage.LoadSource(path)
			if err != nil {
				errs[i] = err
				for {
					cur := failed.Load()
					if int64(i) >= cur || failed.CompareAndSwap(cur, int64(i)) {
						break
					}
				}
				return nil
			}
			results[i] = loadedSource{text: text, digest: digest}
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
