package coverage

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjy-dev/coveralls/internal/git"
)

func TestJob_MarshalJSON(t *testing.T) {
	t.Run("new job", func(t *testing.T) {
		data, err := json.Marshal(NewJob(nil))
		require.NoError(t, err)
		assert.JSONEq(t, `{"source_files":[]}`, string(data))
	})

	t.Run("initialized job", func(t *testing.T) {
		runAt := time.Date(2017, 1, 29, 3, 43, 30, 0, time.UTC)
		job := NewJob([]*SourceFile{NewSourceFile("/home/cedx/coveralls.php", "", "", nil, nil)})
		job.Git = &git.Data{Branch: "develop", Head: &git.Commit{}}
		job.Parallel = true
		job.RepoToken = "yYPv4mMlfjKgUK0rJPgN0AwNXhfzXpVwt"
		job.RunAt = &runAt

		data, err := json.Marshal(job)
		require.NoError(t, err)

		var m map[string]any
		require.NoError(t, json.Unmarshal(data, &m))
		assert.Len(t, m, 5)
		assert.Equal(t, true, m["parallel"])
		assert.Equal(t, "yYPv4mMlfjKgUK0rJPgN0AwNXhfzXpVwt", m["repo_token"])
		assert.Equal(t, "2017-01-29T03:43:30Z", m["run_at"])
		assert.Equal(t, "develop", m["git"].(map[string]any)["branch"])
		files := m["source_files"].([]any)
		require.Len(t, files, 1)
		assert.Equal(t, "/home/cedx/coveralls.php", files[0].(map[string]any)["name"])
	})
}

func TestJob_UnmarshalJSON(t *testing.T) {
	var job Job
	require.NoError(t, json.Unmarshal([]byte(`{}`), &job))
	assert.Nil(t, job.Git)
	assert.False(t, job.Parallel)
	assert.Empty(t, job.RepoToken)
	assert.Nil(t, job.RunAt)
	assert.Empty(t, job.SourceFiles)

	require.NoError(t, json.Unmarshal([]byte(`{
		"git": {"branch": "develop"},
		"parallel": true,
		"repo_token": "yYPv4mMlfjKgUK0rJPgN0AwNXhfzXpVwt",
		"run_at": "2017-01-29T03:43:30Z",
		"source_files": [{"name": "/home/cedx/coveralls.php"}]
	}`), &job))
	assert.True(t, job.Parallel)
	assert.Equal(t, "yYPv4mMlfjKgUK0rJPgN0AwNXhfzXpVwt", job.RepoToken)
	require.NotNil(t, job.Git)
	assert.Equal(t, "develop", job.Git.Branch)
	require.NotNil(t, job.RunAt)
	assert.Equal(t, "2017-01-29T03:43:30Z", job.RunAt.UTC().Format(time.RFC3339))
	require.Len(t, job.SourceFiles, 1)
	assert.Equal(t, "/home/cedx/coveralls.php", job.SourceFiles[0].Name)

	assert.Error(t, json.Unmarshal([]byte(`{"run_at":"yesterday"}`), &job))
}

func TestJob_RoundTrip(t *testing.T) {
	job := NewJob([]*SourceFile{
		NewSourceFile("a.php", "d1", "x\ny\nz", []Hits{NoData, HitsOf(5), NoData}, nil),
		NewSourceFile("b.php", "d2", "", []Hits{HitsOf(3), NoData}, []int{1, 0, 0, 1}),
	})
	job.ServiceName = "github"
	job.CommitSha = "abc"

	data, err := json.Marshal(job)
	require.NoError(t, err)

	var out Job
	require.NoError(t, json.Unmarshal(data, &out))
	require.Len(t, out.SourceFiles, 2)
	for i, f := range job.SourceFiles {
		assert.Equal(t, f.Name, out.SourceFiles[i].Name)
		assert.Equal(t, f.SourceDigest, out.SourceFiles[i].SourceDigest)
		assert.Equal(t, f.Coverage, out.SourceFiles[i].Coverage)
		assert.Equal(t, f.Branches, out.SourceFiles[i].Branches)
	}
	assert.Equal(t, "github", out.ServiceName)
	assert.Equal(t, "abc", out.CommitSha)
}
