package config

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
)

var gitRefRe = regexp.MustCompile(`^refs/\w+/`)

// gitHubEvent is the part of the webhook payload we read.
type gitHubEvent struct {
	Number int `json:"number"`
}

func gitHub(env map[string]string) *Configuration {
	c := New()
	commitSha := env["GITHUB_SHA"]
	repository := env["GITHUB_REPOSITORY"]
	jobID := commitSha

	var prNumber string
	if env["GITHUB_EVENT_NAME"] == "pull_request" {
		if event, err := readGitHubEvent(env["GITHUB_EVENT_PATH"]); err != nil {
			log.Warnf("Failed to read the GitHub event: %v", err)
		} else if event.Number > 0 {
			prNumber = fmt.Sprint(event.Number)
			jobID = fmt.Sprintf("%s-PR-%s", commitSha, prNumber)
		}
	}

	setOrNil := func(key, value string) {
		if value != "" {
			c.Set(key, value)
		} else {
			c.SetNil(key)
		}
	}

	setOrNil("commit_sha", commitSha)
	if ref := env["GITHUB_REF"]; gitRefRe.MatchString(ref) {
		c.Set("service_branch", gitRefRe.ReplaceAllString(ref, ""))
	} else {
		c.SetNil("service_branch")
	}
	if commitSha != "" && repository != "" {
		c.Set("service_build_url", fmt.Sprintf("https://github.com/%s/commit/%s/checks", repository, commitSha))
	} else {
		c.SetNil("service_build_url")
	}
	c.Set("service_name", "github")
	setOrNil("service_job_id", jobID)
	setOrNil("service_pull_request", prNumber)
	return c
}

func readGitHubEvent(path string) (*gitHubEvent, error) {
	if path == "" {
		return nil, fmt.Errorf("GITHUB_EVENT_PATH is not set")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var event gitHubEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("invalid event payload %s: %w", path, err)
	}
	return &event, nil
}
