package config

import (
	"fmt"
	"strconv"
)

// service maps the environment of a CI service to configuration parameters.
type service struct {
	name      string
	detect    func(env map[string]string) bool
	configure func(env map[string]string) *Configuration
}

func isSet(name string) func(map[string]string) bool {
	return func(env map[string]string) bool {
		_, ok := env[name]
		return ok
	}
}

// services are tried in order; the first detected one wins.
var services = []service{
	{name: "travis-ci", detect: isSet("TRAVIS"), configure: travisCI},
	{name: "appveyor", detect: isSet("APPVEYOR"), configure: appVeyor},
	{name: "circleci", detect: isSet("CIRCLECI"), configure: circleCI},
	{name: "codeship", detect: func(env map[string]string) bool { return env["CI_NAME"] == "codeship" }, configure: codeship},
	{name: "github", detect: isSet("GITHUB_WORKFLOW"), configure: gitHub},
	{name: "gitlab-ci", detect: isSet("GITLAB_CI"), configure: gitLabCI},
	{name: "jenkins", detect: isSet("JENKINS_URL"), configure: jenkins},
	{name: "semaphore", detect: isSet("SEMAPHORE"), configure: semaphore},
	{name: "surf", detect: isSet("SURF_SHA1"), configure: surf},
	{name: "tddium", detect: isSet("TDDIUM"), configure: solanoCI},
	{name: "wercker", detect: isSet("WERCKER"), configure: wercker},
}

func detectService(env map[string]string) *service {
	for i := range services {
		if services[i].detect(env) {
			return &services[i]
		}
	}
	return nil
}

// fromVars builds a configuration from (key, variable) pairs. Unset
// variables become nil entries.
func fromVars(env map[string]string, pairs ...[2]string) *Configuration {
	c := New()
	for _, p := range pairs {
		c.put(p[0], lookup(env, p[1]))
	}
	return c
}

func travisCI(env map[string]string) *Configuration {
	c := fromVars(env,
		[2]string{"commit_sha", "TRAVIS_COMMIT"},
		[2]string{"flag_name", "TRAVIS_JOB_NAME"},
		[2]string{"git_message", "TRAVIS_COMMIT_MESSAGE"},
		[2]string{"service_branch", "TRAVIS_BRANCH"},
		[2]string{"service_build_url", "TRAVIS_BUILD_WEB_URL"},
		[2]string{"service_job_id", "TRAVIS_JOB_ID"},
	)
	c.Set("service_name", "travis-ci")

	if pr := env["TRAVIS_PULL_REQUEST"]; pr != "" && pr != "false" {
		c.Set("service_pull_request", pr)
	}
	return c
}

func appVeyor(env map[string]string) *Configuration {
	c := fromVars(env,
		[2]string{"commit_sha", "APPVEYOR_REPO_COMMIT"},
		[2]string{"git_author_email", "APPVEYOR_REPO_COMMIT_AUTHOR_EMAIL"},
		[2]string{"git_author_name", "APPVEYOR_REPO_COMMIT_AUTHOR"},
		[2]string{"git_message", "APPVEYOR_REPO_COMMIT_MESSAGE"},
		[2]string{"service_branch", "APPVEYOR_REPO_BRANCH"},
		[2]string{"service_job_id", "APPVEYOR_BUILD_ID"},
		[2]string{"service_job_number", "APPVEYOR_BUILD_NUMBER"},
	)
	c.Set("service_name", "appveyor")

	repo, version := env["APPVEYOR_REPO_NAME"], env["APPVEYOR_BUILD_VERSION"]
	if repo != "" && version != "" {
		c.Set("service_build_url", fmt.Sprintf("https://ci.appveyor.com/project/%s/build/%s", repo, version))
	}
	return c
}

func circleCI(env map[string]string) *Configuration {
	c := fromVars(env,
		[2]string{"commit_sha", "CIRCLE_SHA1"},
		[2]string{"service_branch", "CIRCLE_BRANCH"},
		[2]string{"service_build_url", "CIRCLE_BUILD_URL"},
		[2]string{"service_job_number", "CIRCLE_BUILD_NUM"},
		[2]string{"service_number", "CIRCLE_WORKFLOW_ID"},
	)
	c.Set("service_name", "circleci")

	total, err := strconv.Atoi(env["CIRCLE_NODE_TOTAL"])
	c.Set("parallel", strconv.FormatBool(err == nil && total > 1))
	return c
}

func codeship(env map[string]string) *Configuration {
	c := fromVars(env,
		[2]string{"commit_sha", "CI_COMMIT_ID"},
		[2]string{"git_committer_email", "CI_COMMITTER_EMAIL"},
		[2]string{"git_committer_name", "CI_COMMITTER_NAME"},
		[2]string{"git_message", "CI_COMMIT_MESSAGE"},
		[2]string{"service_job_id", "CI_BUILD_ID"},
	)
	c.Set("service_name", "codeship")
	return c
}

func gitLabCI(env map[string]string) *Configuration {
	c := fromVars(env,
		[2]string{"commit_sha", "CI_BUILD_REF"},
		[2]string{"service_branch", "CI_BUILD_REF_NAME"},
		[2]string{"service_job_id", "CI_BUILD_ID"},
		[2]string{"service_job_number", "CI_BUILD_NAME"},
	)
	c.Set("service_name", "gitlab-ci")
	return c
}

func jenkins(env map[string]string) *Configuration {
	c := fromVars(env,
		[2]string{"commit_sha", "GIT_COMMIT"},
		[2]string{"service_branch", "GIT_BRANCH"},
		[2]string{"service_build_url", "BUILD_URL"},
		[2]string{"service_job_id", "BUILD_ID"},
		[2]string{"service_number", "BUILD_NUMBER"},
		[2]string{"service_pull_request", "ghprbPullId"},
	)
	c.Set("service_name", "jenkins")
	return c
}

func semaphore(env map[string]string) *Configuration {
	c := fromVars(env,
		[2]string{"commit_sha", "REVISION"},
		[2]string{"service_branch", "BRANCH_NAME"},
		[2]string{"service_number", "SEMAPHORE_BUILD_NUMBER"},
		[2]string{"service_pull_request", "PULL_REQUEST_NUMBER"},
	)
	c.Set("service_name", "semaphore")
	return c
}

func surf(env map[string]string) *Configuration {
	c := fromVars(env,
		[2]string{"commit_sha", "SURF_SHA1"},
		[2]string{"service_branch", "SURF_REF"},
	)
	c.Set("service_name", "surf")
	return c
}

func solanoCI(env map[string]string) *Configuration {
	c := fromVars(env,
		[2]string{"service_branch", "TDDIUM_CURRENT_BRANCH"},
		[2]string{"service_job_id", "TDDIUM_SESSION_ID"},
		[2]string{"service_job_number", "TDDIUM_TID"},
		[2]string{"service_pull_request", "TDDIUM_PR_ID"},
	)
	c.Set("service_name", "tddium")
	return c
}

func wercker(env map[string]string) *Configuration {
	c := fromVars(env,
		[2]string{"commit_sha", "WERCKER_GIT_COMMIT"},
		[2]string{"service_branch", "WERCKER_GIT_BRANCH"},
		[2]string{"service_job_id", "WERCKER_BUILD_ID"},
	)
	c.Set("service_name", "wercker")
	return c
}
