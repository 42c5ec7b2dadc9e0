package lcov

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReport = `TN:Example
SF:/home/cedx/lcov.php/fixture.php
FN:4,main
FNDA:2,main
FNF:1
FNH:1
BRDA:8,0,0,-
BRDA:8,0,1,1
BRF:2
BRH:1
DA:6,2
DA:9,0,PF4Rz2r7RTliO9u6bZ7h6g
LF:2
LH:1
end_of_record
TN:Example
SF:/home/cedx/lcov.php/func2.php
DA:1,3
LF:1
LH:1
end_of_record
`

func TestParse(t *testing.T) {
	report, err := Parse(sampleReport)
	require.NoError(t, err)

	assert.Equal(t, "Example", report.TestName)
	require.Len(t, report.Records, 2)

	first := report.Records[0]
	assert.Equal(t, "/home/cedx/lcov.php/fixture.php", first.SourceFile)

	require.NotNil(t, first.Functions)
	assert.Equal(t, 1, first.Functions.Found)
	assert.Equal(t, 1, first.Functions.Hit)
	assert.Equal(t, []FunctionData{{FunctionName: "main", LineNumber: 4, ExecutionCount: 2}}, first.Functions.Data)

	require.NotNil(t, first.Branches)
	assert.Equal(t, 2, first.Branches.Found)
	assert.Equal(t, []BranchData{
		{LineNumber: 8, BlockNumber: 0, BranchNumber: 0, Taken: 0},
		{LineNumber: 8, BlockNumber: 0, BranchNumber: 1, Taken: 1},
	}, first.Branches.Data)

	require.NotNil(t, first.Lines)
	assert.Equal(t, 2, first.Lines.Found)
	assert.Equal(t, 1, first.Lines.Hit)
	assert.Equal(t, []LineData{
		{LineNumber: 6, ExecutionCount: 2},
		{LineNumber: 9, ExecutionCount: 0, Checksum: "PF4Rz2r7RTliO9u6bZ7h6g"},
	}, first.Lines.Data)

	second := report.Records[1]
	assert.Nil(t, second.Functions)
	assert.Nil(t, second.Branches)
	require.NotNil(t, second.Lines)
	assert.Equal(t, []LineData{{LineNumber: 1, ExecutionCount: 3}}, second.Lines.Data)
}

func TestParse_Tolerance(t *testing.T) {
	report, err := Parse("\r\nSF:a.c\r\nXYZ:unknown token\r\nDA:1,1\r\n\r\nend_of_record\r\n")
	require.NoError(t, err)
	require.Len(t, report.Records, 1)
	assert.Equal(t, "a.c", report.Records[0].SourceFile)
	assert.Len(t, report.Records[0].Lines.Data, 1)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		report string
		line   int
		msg    string
	}{
		{"empty report", "", 0, "no records"},
		{"end without record", "end_of_record\n", 1, "without a record"},
		{"data outside record", "DA:1,1\n", 1, "outside of a record"},
		{"missing separator", "SF:a.c\nDA\n", 2, "missing ':'"},
		{"invalid line number", "SF:a.c\nDA:x,1\nend_of_record\n", 2, "invalid number"},
		{"zero line number", "SF:a.c\nDA:0,1\nend_of_record\n", 2, "start at 1"},
		{"negative count", "SF:a.c\nDA:1,-1\nend_of_record\n", 2, "negative"},
		{"short branch", "SF:a.c\nBRDA:1,0,1\nend_of_record\n", 2, "BRDA"},
		{"nested record", "SF:a.c\nSF:b.c\n", 2, "previous record"},
		{"unterminated record", "SF:a.c\nDA:1,1\n", 2, "missing end_of_record"},
		{"empty path", "SF:\n", 1, "empty source file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.report)
			require.Error(t, err)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.line, perr.Line)
			assert.Contains(t, perr.Error(), tt.msg)
		})
	}
}

func TestReport_String(t *testing.T) {
	report, err := Parse(sampleReport)
	require.NoError(t, err)

	again, err := Parse(report.String())
	require.NoError(t, err)
	assert.Equal(t, report, again)
}

func TestRecord_String(t *testing.T) {
	rec := &Record{
		SourceFile: "b.php",
		Lines:      &LineCoverage{Found: 1, Hit: 1, Data: []LineData{{LineNumber: 1, ExecutionCount: 3}}},
		Branches:   &BranchCoverage{Found: 1, Hit: 1, Data: []BranchData{{LineNumber: 1, Taken: 1}}},
	}
	assert.Equal(t, "SF:b.php\nBRDA:1,0,0,1\nBRF:1\nBRH:1\nDA:1,3\nLF:1\nLH:1\nend_of_record\n", rec.String())
}
