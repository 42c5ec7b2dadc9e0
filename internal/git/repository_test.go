package git

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjy-dev/coveralls/internal/exec"
)

type fakeExecutor struct {
	outputs map[string]*exec.ExecutionResult
	err     error
}

func (f *fakeExecutor) Run(_ context.Context, command string, args ...string) (*exec.ExecutionResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	key := command + " " + strings.Join(args, " ")
	if res, ok := f.outputs[key]; ok {
		return res, nil
	}
	return &exec.ExecutionResult{ExitCode: 128, Stderr: "unexpected: " + key}, nil
}

func ok(stdout string) *exec.ExecutionResult {
	return &exec.ExecutionResult{Stdout: stdout}
}

func TestFromRepository(t *testing.T) {
	executor := &fakeExecutor{outputs: map[string]*exec.ExecutionResult{
		"git log -1 --pretty=format:%ae":  ok("ann@example.com"),
		"git log -1 --pretty=format:%aN":  ok("Ann"),
		"git log -1 --pretty=format:%ce":  ok("bob@example.com"),
		"git log -1 --pretty=format:%cN":  ok("Bob"),
		"git log -1 --pretty=format:%H":   ok("2ef7bde608ce5404e97d5f042f95f89f1c232871"),
		"git log -1 --pretty=format:%s":   ok("Fix the parser\n"),
		"git rev-parse --abbrev-ref HEAD": ok("main\n"),
		"git remote -v": ok("origin\tgit@github.com:zjy-dev/coveralls.git (fetch)\n" +
			"origin\tgit@github.com:zjy-dev/coveralls.git (push)\n" +
			"upstream\thttps://example.com/up.git (fetch)\n"),
	}}

	data, err := FromRepository(context.Background(), executor)
	require.NoError(t, err)

	assert.Equal(t, "main", data.Branch)
	require.NotNil(t, data.Head)
	assert.Equal(t, "2ef7bde608ce5404e97d5f042f95f89f1c232871", data.Head.ID)
	assert.Equal(t, "Ann", data.Head.AuthorName)
	assert.Equal(t, "ann@example.com", data.Head.AuthorEmail)
	assert.Equal(t, "Bob", data.Head.CommitterName)
	assert.Equal(t, "bob@example.com", data.Head.CommitterEmail)
	assert.Equal(t, "Fix the parser", data.Head.Message)

	require.Len(t, data.Remotes, 2)
	assert.Equal(t, "origin", data.Remotes[0].Name)
	assert.Equal(t, "ssh://git@github.com/zjy-dev/coveralls.git", data.Remotes[0].URL)
	assert.Equal(t, "upstream", data.Remotes[1].Name)
}

func TestFromRepository_Errors(t *testing.T) {
	t.Run("executor failure", func(t *testing.T) {
		_, err := FromRepository(context.Background(), &fakeExecutor{err: errors.New("boom")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("non-zero exit code", func(t *testing.T) {
		_, err := FromRepository(context.Background(), &fakeExecutor{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exited with code 128")
	})
}

func TestParseRemotes(t *testing.T) {
	assert.Empty(t, ParseRemotes(""))

	remotes := ParseRemotes("origin  https://a/b.git (fetch)\r\norigin  https://a/b.git (push)\r\nlocal\n")
	require.Len(t, remotes, 2)
	assert.Equal(t, Remote{Name: "origin", URL: "https://a/b.git"}, remotes[0])
	assert.Equal(t, Remote{Name: "local"}, remotes[1])
}
