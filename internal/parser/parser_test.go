package parser

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjy-dev/coveralls/internal/coverage"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		report string
		want   Format
	}{
		{`<?xml version="1.0"?><coverage/>`, FormatClover},
		{"  \n<coverage generated=\"1\">", FormatClover},
		{"TN:\nSF:a.c", FormatLcov},
		{"SF:a.c\nend_of_record", FormatLcov},
		{"end_of_record", FormatUnknown},
		{"mode: set", FormatUnknown},
		{"", FormatUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectFormat(tt.report), "%q", tt.report)
	}
	assert.Equal(t, "clover", FormatClover.String())
	assert.Equal(t, "lcov", FormatLcov.String())
	assert.Equal(t, "unknown", FormatUnknown.String())
}

func TestParse(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "main.php", "a\nb")

	t.Run("clover", func(t *testing.T) {
		job, err := Parse(cloverDoc(fmt.Sprintf(`<file name=%q><line num="2" type="stmt" count="1"/></file>`, path)), WithWorkingDir(dir))
		require.NoError(t, err)
		require.Len(t, job.SourceFiles, 1)
		assert.Equal(t, []coverage.Hits{coverage.NoData, coverage.HitsOf(1)}, job.SourceFiles[0].Coverage)
	})

	t.Run("lcov", func(t *testing.T) {
		job, err := Parse(fmt.Sprintf("SF:%s\nDA:1,4\nend_of_record\n", path), WithWorkingDir(dir))
		require.NoError(t, err)
		require.Len(t, job.SourceFiles, 1)
		assert.Equal(t, []coverage.Hits{coverage.HitsOf(4), coverage.NoData}, job.SourceFiles[0].Coverage)
	})

	t.Run("empty report", func(t *testing.T) {
		_, err := Parse(" \n")
		assert.True(t, errors.Is(err, coverage.ErrInvalidReport))
		assert.Contains(t, err.Error(), "empty")
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := Parse("end_of_record")
		assert.True(t, errors.Is(err, coverage.ErrInvalidReport))
		assert.Contains(t, err.Error(), "not supported")
	})
}
