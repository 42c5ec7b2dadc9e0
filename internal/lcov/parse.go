package lcov

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

const maxLineSize = 1024 * 1024

// Parse decodes a tracefile. The decoder is strict: a malformed number, a
// data line outside of a record or a record without SF yields a *ParseError.
// Unknown tokens are skipped.
func Parse(text string) (*Report, error) {
	report := &Report{}
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		current  *Record
		lineNum  int
		fnCounts map[string]int
	)

	fail := func(format string, args ...interface{}) error {
		return &ParseError{Line: lineNum, Msg: fmt.Sprintf(format, args...)}
	}

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if line == TokenEndOfRecord {
			if current == nil {
				return nil, fail("%s without a record", TokenEndOfRecord)
			}
			applyFunctionCounts(current, fnCounts)
			report.Records = append(report.Records, current)
			current, fnCounts = nil, nil
			continue
		}

		token, data, found := strings.Cut(line, ":")
		if !found {
			return nil, fail("missing ':' separator in %q", line)
		}

		switch token {
		case TokenTestName:
			if report.TestName == "" {
				report.TestName = data
			}
			continue
		case TokenSourceFile:
			if current != nil {
				return nil, fail("%s before %s of the previous record", TokenSourceFile, TokenEndOfRecord)
			}
			if data == "" {
				return nil, fail("empty source file path")
			}
			current = &Record{SourceFile: data}
			fnCounts = make(map[string]int)
			continue
		}

		if current == nil {
			if isKnownToken(token) {
				return nil, fail("%s outside of a record", token)
			}
			continue
		}

		var err error
		switch token {
		case TokenFunctionName:
			err = parseFunctionName(current, data)
		case TokenFunctionData:
			err = parseFunctionData(fnCounts, data)
		case TokenFunctionsFound:
			err = parseCounter(&functions(current).Found, data)
		case TokenFunctionsHit:
			err = parseCounter(&functions(current).Hit, data)
		case TokenLineData:
			err = parseLineData(current, data)
		case TokenLinesFound:
			err = parseCounter(&lines(current).Found, data)
		case TokenLinesHit:
			err = parseCounter(&lines(current).Hit, data)
		case TokenBranchData:
			err = parseBranchData(current, data)
		case TokenBranchesFound:
			err = parseCounter(&branches(current).Found, data)
		case TokenBranchesHit:
			err = parseCounter(&branches(current).Hit, data)
		}
		if err != nil {
			return nil, fail("%s: %v", token, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("lcov: failed to read report: %w", err)
	}
	if current != nil {
		return nil, fail("record for %s is missing %s", current.SourceFile, TokenEndOfRecord)
	}
	if len(report.Records) == 0 {
		return nil, &ParseError{Line: lineNum, Msg: "no records found"}
	}

	return report, nil
}

func isKnownToken(token string) bool {
	switch token {
	case TokenFunctionName, TokenFunctionData, TokenFunctionsFound, TokenFunctionsHit,
		TokenLineData, TokenLinesFound, TokenLinesHit,
		TokenBranchData, TokenBranchesFound, TokenBranchesHit:
		return true
	}
	return false
}

func functions(r *Record) *FunctionCoverage {
	if r.Functions == nil {
		r.Functions = &FunctionCoverage{}
	}
	return r.Functions
}

func lines(r *Record) *LineCoverage {
	if r.Lines == nil {
		r.Lines = &LineCoverage{}
	}
	return r.Lines
}

func branches(r *Record) *BranchCoverage {
	if r.Branches == nil {
		r.Branches = &BranchCoverage{}
	}
	return r.Branches
}

func applyFunctionCounts(r *Record, counts map[string]int) {
	if r.Functions == nil {
		return
	}
	for i := range r.Functions.Data {
		r.Functions.Data[i].ExecutionCount = counts[r.Functions.Data[i].FunctionName]
	}
}

// FN:<line>,<name>
func parseFunctionName(r *Record, data string) error {
	lineStr, name, found := strings.Cut(data, ",")
	if !found || name == "" {
		return fmt.Errorf("expected <line>,<name>, got %q", data)
	}
	line, err := parsePositive(lineStr)
	if err != nil {
		return err
	}
	fn := functions(r)
	fn.Data = append(fn.Data, FunctionData{FunctionName: name, LineNumber: line})
	return nil
}

// FNDA:<count>,<name>
func parseFunctionData(counts map[string]int, data string) error {
	countStr, name, found := strings.Cut(data, ",")
	if !found || name == "" {
		return fmt.Errorf("expected <count>,<name>, got %q", data)
	}
	count, err := parseCount(countStr)
	if err != nil {
		return err
	}
	counts[name] = count
	return nil
}

// DA:<line>,<count>[,<checksum>]
func parseLineData(r *Record, data string) error {
	parts := strings.Split(data, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return fmt.Errorf("expected <line>,<count>[,<checksum>], got %q", data)
	}
	line, err := parsePositive(parts[0])
	if err != nil {
		return err
	}
	count, err := parseCount(parts[1])
	if err != nil {
		return err
	}
	d := LineData{LineNumber: line, ExecutionCount: count}
	if len(parts) == 3 {
		d.Checksum = parts[2]
	}
	ln := lines(r)
	ln.Data = append(ln.Data, d)
	return nil
}

// BRDA:<line>,<block>,<branch>,<taken>
func parseBranchData(r *Record, data string) error {
	parts := strings.Split(data, ",")
	if len(parts) != 4 {
		return fmt.Errorf("expected <line>,<block>,<branch>,<taken>, got %q", data)
	}
	line, err := parsePositive(parts[0])
	if err != nil {
		return err
	}
	block, err := parseCount(parts[1])
	if err != nil {
		return err
	}
	branch, err := parseCount(parts[2])
	if err != nil {
		return err
	}
	taken := 0
	if parts[3] != "-" {
		if taken, err = parseCount(parts[3]); err != nil {
			return err
		}
	}
	br := branches(r)
	br.Data = append(br.Data, BranchData{LineNumber: line, BlockNumber: block, BranchNumber: branch, Taken: taken})
	return nil
}

func parseCounter(dst *int, data string) error {
	n, err := parseCount(data)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative number %d", n)
	}
	return n, nil
}

func parsePositive(s string) (int, error) {
	n, err := parseCount(s)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("line numbers start at 1")
	}
	return n, nil
}
