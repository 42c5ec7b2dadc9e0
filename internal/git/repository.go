package git

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/zjy-dev/coveralls/internal/exec"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// FromRepository reads the Git data of the repository the executor runs in.
// It needs the git executable.
func FromRepository(ctx context.Context, executor exec.Executor) (*Data, error) {
	run := func(args ...string) (string, error) {
		res, err := executor.Run(ctx, "git", args...)
		if err != nil {
			return "", fmt.Errorf("failed to run git %s: %w", strings.Join(args, " "), err)
		}
		if res.ExitCode != 0 {
			return "", fmt.Errorf("git %s exited with code %d: %s", strings.Join(args, " "), res.ExitCode, strings.TrimSpace(res.Stderr))
		}
		return strings.TrimSpace(res.Stdout), nil
	}

	logField := func(format string) (string, error) {
		return run("log", "-1", "--pretty=format:"+format)
	}

	commit := &Commit{}
	fields := []struct {
		format string
		dst    *string
	}{
		{"%ae", &commit.AuthorEmail},
		{"%aN", &commit.AuthorName},
		{"%ce", &commit.CommitterEmail},
		{"%cN", &commit.CommitterName},
		{"%H", &commit.ID},
		{"%s", &commit.Message},
	}
	for _, f := range fields {
		value, err := logField(f.format)
		if err != nil {
			return nil, err
		}
		*f.dst = value
	}

	branch, err := run("rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return nil, err
	}

	remoteOutput, err := run("remote", "-v")
	if err != nil {
		return nil, err
	}

	return &Data{Branch: branch, Head: commit, Remotes: ParseRemotes(remoteOutput)}, nil
}

// ParseRemotes parses the output of "git remote -v". Each remote is listed
// once, with the URL of its first line.
func ParseRemotes(output string) []Remote {
	remotes := []Remote{}
	seen := make(map[string]bool)
	for _, line := range strings.Split(strings.ReplaceAll(output, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.Split(whitespaceRe.ReplaceAllString(line, " "), " ")
		if seen[parts[0]] {
			continue
		}
		seen[parts[0]] = true

		url := ""
		if len(parts) > 1 {
			url = parts[1]
		}
		remotes = append(remotes, NewRemote(parts[0], url))
	}
	return remotes
}
