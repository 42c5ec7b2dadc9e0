// Package lcov decodes LCOV tracefiles into records.
//
// A tracefile is a sequence of records, one per source file:
//
//	TN:test name
//	SF:/path/to/source.c
//	FN:10,function_name
//	FNDA:5,function_name
//	FNF:1
//	FNH:1
//	DA:10,5
//	BRDA:10,0,0,1
//	BRF:1
//	BRH:1
//	LF:1
//	LH:1
//	end_of_record
package lcov

import (
	"fmt"
	"strings"
)

// Tokens of the tracefile format.
const (
	TokenTestName       = "TN"
	TokenSourceFile     = "SF"
	TokenFunctionName   = "FN"
	TokenFunctionData   = "FNDA"
	TokenFunctionsFound = "FNF"
	TokenFunctionsHit   = "FNH"
	TokenLineData       = "DA"
	TokenLinesFound     = "LF"
	TokenLinesHit       = "LH"
	TokenBranchData     = "BRDA"
	TokenBranchesFound  = "BRF"
	TokenBranchesHit    = "BRH"
	TokenEndOfRecord    = "end_of_record"
)

// Report is a decoded tracefile.
type Report struct {
	TestName string
	Records  []*Record
}

// Record holds the coverage of one source file.
type Record struct {
	SourceFile string
	Functions  *FunctionCoverage
	Lines      *LineCoverage
	Branches   *BranchCoverage
}

// FunctionCoverage is the function section of a record.
type FunctionCoverage struct {
	Found int
	Hit   int
	Data  []FunctionData
}

// FunctionData is one FN entry, with the count of its matching FNDA entry.
type FunctionData struct {
	FunctionName   string
	LineNumber     int
	ExecutionCount int
}

// LineCoverage is the line section of a record.
type LineCoverage struct {
	Found int
	Hit   int
	Data  []LineData
}

// LineData is one DA entry.
type LineData struct {
	LineNumber     int
	ExecutionCount int
	Checksum       string
}

// BranchCoverage is the branch section of a record.
type BranchCoverage struct {
	Found int
	Hit   int
	Data  []BranchData
}

// BranchData is one BRDA entry. A "-" taken count is decoded as 0.
type BranchData struct {
	LineNumber   int
	BlockNumber  int
	BranchNumber int
	Taken        int
}

// ParseError reports a malformed tracefile line.
type ParseError struct {
	// Line is the 1-based line number in the tracefile.
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("lcov: line %d: %s", e.Line, e.Msg)
}

// String renders the report back to the tracefile format.
func (r *Report) String() string {
	var b strings.Builder
	for _, rec := range r.Records {
		if r.TestName != "" {
			fmt.Fprintf(&b, "%s:%s\n", TokenTestName, r.TestName)
		}
		b.WriteString(rec.String())
	}
	return b.String()
}

// String renders the record to the tracefile format, ending with end_of_record.
func (r *Record) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%s\n", TokenSourceFile, r.SourceFile)

	if fn := r.Functions; fn != nil {
		for _, d := range fn.Data {
			fmt.Fprintf(&b, "%s:%d,%s\n", TokenFunctionName, d.LineNumber, d.FunctionName)
		}
		for _, d := range fn.Data {
			fmt.Fprintf(&b, "%s:%d,%s\n", TokenFunctionData, d.ExecutionCount, d.FunctionName)
		}
		fmt.Fprintf(&b, "%s:%d\n%s:%d\n", TokenFunctionsFound, fn.Found, TokenFunctionsHit, fn.Hit)
	}

	if br := r.Branches; br != nil {
		for _, d := range br.Data {
			fmt.Fprintf(&b, "%s:%d,%d,%d,%d\n", TokenBranchData, d.LineNumber, d.BlockNumber, d.BranchNumber, d.Taken)
		}
		fmt.Fprintf(&b, "%s:%d\n%s:%d\n", TokenBranchesFound, br.Found, TokenBranchesHit, br.Hit)
	}

	if ln := r.Lines; ln != nil {
		for _, d := range ln.Data {
			if d.Checksum != "" {
				fmt.Fprintf(&b, "%s:%d,%d,%s\n", TokenLineData, d.LineNumber, d.ExecutionCount, d.Checksum)
			} else {
				fmt.Fprintf(&b, "%s:%d,%d\n", TokenLineData, d.LineNumber, d.ExecutionCount)
			}
		}
		fmt.Fprintf(&b, "%s:%d\n%s:%d\n", TokenLinesFound, ln.Found, TokenLinesHit, ln.Hit)
	}

	b.WriteString(TokenEndOfRecord + "\n")
	return b.String()
}
