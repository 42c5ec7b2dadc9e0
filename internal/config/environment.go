package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
)

var pullRequestRe = regexp.MustCompile(`(\d+)$`)

// Environ returns the process environment as a map.
func Environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if key, value, ok := strings.Cut(kv, "="); ok {
			env[key] = value
		}
	}
	return env
}

// LoadEnvFile adds the variables of a .env file to the process environment.
// Variables already set are left untouched.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// FromEnvironment creates a configuration from environment variables.
func FromEnvironment(env map[string]string) *Configuration {
	c := New()
	copyVar := func(key, name string) {
		if v, ok := env[name]; ok {
			c.Set(key, v)
		}
	}

	// Standard.
	serviceName := env["CI_NAME"]
	if serviceName != "" {
		c.Set("service_name", serviceName)
	}
	copyVar("service_branch", "CI_BRANCH")
	copyVar("service_number", "CI_BUILD_NUMBER")
	copyVar("service_build_url", "CI_BUILD_URL")
	copyVar("commit_sha", "CI_COMMIT")
	copyVar("service_job_id", "CI_JOB_ID")
	if pr, ok := env["CI_PULL_REQUEST"]; ok {
		if m := pullRequestRe.FindStringSubmatch(pr); m != nil {
			c.Set("service_pull_request", m[1])
		}
	}

	// Coveralls.
	if token, ok := env["COVERALLS_REPO_TOKEN"]; ok {
		c.Set("repo_token", token)
	} else if token, ok := env["COVERALLS_TOKEN"]; ok {
		c.Set("repo_token", token)
	}
	copyVar("commit_sha", "COVERALLS_COMMIT_SHA")
	copyVar("flag_name", "COVERALLS_FLAG_NAME")
	copyVar("parallel", "COVERALLS_PARALLEL")
	copyVar("run_at", "COVERALLS_RUN_AT")
	copyVar("service_branch", "COVERALLS_SERVICE_BRANCH")
	copyVar("service_job_id", "COVERALLS_SERVICE_JOB_ID")
	copyVar("service_name", "COVERALLS_SERVICE_NAME")

	// Git.
	copyVar("git_author_email", "GIT_AUTHOR_EMAIL")
	copyVar("git_author_name", "GIT_AUTHOR_NAME")
	copyVar("service_branch", "GIT_BRANCH")
	copyVar("git_committer_email", "GIT_COMMITTER_EMAIL")
	copyVar("git_committer_name", "GIT_COMMITTER_NAME")
	copyVar("commit_sha", "GIT_ID")
	copyVar("git_message", "GIT_MESSAGE")

	// CI services.
	if service := detectService(env); service != nil {
		c.Merge(service.configure(env))
		if service.name == "travis-ci" && serviceName != "" && serviceName != "travis-ci" {
			c.Set("service_name", serviceName)
		}
	}

	return c
}

// lookup returns the address of an environment value, or nil when unset.
func lookup(env map[string]string, name string) *string {
	if v, ok := env[name]; ok {
		return &v
	}
	return nil
}
