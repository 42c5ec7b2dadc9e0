package coverage

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is.
var (
	ErrInvalidReport = errors.New("invalid coverage report")
	ErrNotFound      = errors.New("source file not found")
	ErrEmptyFile     = errors.New("source file empty")
)

// InvalidReportError is returned when a report does not have the expected
// structure: it does not parse, its root or project nodes are missing, or an
// entry lacks its file name.
type InvalidReportError struct {
	Reason string
	// Node identifies the offending report node, if any.
	Node string
	Err  error
}

func (e *InvalidReportError) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrInvalidReport, e.Reason)
	if e.Node != "" {
		msg += fmt.Sprintf(" (%s)", e.Node)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *InvalidReportError) Is(target error) bool {
	return target == ErrInvalidReport
}

func (e *InvalidReportError) Unwrap() error {
	return e.Err
}

// NotFoundError is returned when a source file named by a report cannot be
// opened for reading.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrNotFound, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrNotFound, e.Path)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// EmptyFileError is returned when a source file named by a report has no content.
type EmptyFileError struct {
	Path string
}

func (e *EmptyFileError) Error() string {
	return fmt.Sprintf("%s: %s", ErrEmptyFile, e.Path)
}

func (e *EmptyFileError) Is(target error) bool {
	return target == ErrEmptyFile
}
