package coverage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/zjy-dev/coveralls/internal/git"
)

// Job is the coverage data from a single run of a test suite.
// Parsers only fill SourceFiles; the remaining fields are merged in later
// from the CI environment.
type Job struct {
	// CommitSha overrides the commit of the git data.
	CommitSha string
	// FlagName is the job name.
	FlagName string
	Git      *git.Data
	// Parallel means the build is not done until a webhook is sent.
	Parallel  bool
	RepoToken string
	RunAt     *time.Time
	// ServiceJobID is the job identifier on the CI service.
	ServiceJobID string
	// ServiceName is the CI service the suite ran on.
	ServiceName   string
	ServiceNumber string
	// ServicePullRequest is the pull request of the build, if any.
	ServicePullRequest string
	SourceFiles        []*SourceFile
}

// NewJob creates a job holding the given files.
func NewJob(files []*SourceFile) *Job {
	if files == nil {
		files = []*SourceFile{}
	}
	return &Job{SourceFiles: files}
}

type jobJSON struct {
	CommitSha          string        `json:"commit_sha,omitempty"`
	FlagName           string        `json:"flag_name,omitempty"`
	Git                *git.Data     `json:"git,omitempty"`
	Parallel           bool          `json:"parallel,omitempty"`
	RepoToken          string        `json:"repo_token,omitempty"`
	RunAt              string        `json:"run_at,omitempty"`
	ServiceName        string        `json:"service_name,omitempty"`
	ServiceNumber      string        `json:"service_number,omitempty"`
	ServiceJobID       string        `json:"service_job_id,omitempty"`
	ServicePullRequest string        `json:"service_pull_request,omitempty"`
	SourceFiles        []*SourceFile `json:"source_files"`
}

// MarshalJSON encodes the job in the shape expected by the Coveralls API.
// Empty metadata fields are omitted; source_files is always present.
func (j *Job) MarshalJSON() ([]byte, error) {
	out := jobJSON{
		CommitSha:          j.CommitSha,
		FlagName:           j.FlagName,
		Git:                j.Git,
		Parallel:           j.Parallel,
		RepoToken:          j.RepoToken,
		ServiceName:        j.ServiceName,
		ServiceNumber:      j.ServiceNumber,
		ServiceJobID:       j.ServiceJobID,
		ServicePullRequest: j.ServicePullRequest,
		SourceFiles:        j.SourceFiles,
	}
	if j.RunAt != nil {
		out.RunAt = j.RunAt.Format(time.RFC3339)
	}
	if out.SourceFiles == nil {
		out.SourceFiles = []*SourceFile{}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a job previously encoded with MarshalJSON.
func (j *Job) UnmarshalJSON(data []byte) error {
	var raw jobJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*j = Job{
		CommitSha:          raw.CommitSha,
		FlagName:           raw.FlagName,
		Git:                raw.Git,
		Parallel:           raw.Parallel,
		RepoToken:          raw.RepoToken,
		ServiceJobID:       raw.ServiceJobID,
		ServiceName:        raw.ServiceName,
		ServiceNumber:      raw.ServiceNumber,
		ServicePullRequest: raw.ServicePullRequest,
		SourceFiles:        raw.SourceFiles,
	}
	if j.SourceFiles == nil {
		j.SourceFiles = []*SourceFile{}
	}
	if raw.RunAt != "" {
		runAt, err := time.Parse(time.RFC3339, raw.RunAt)
		if err != nil {
			return fmt.Errorf("invalid run_at %q: %w", raw.RunAt, err)
		}
		j.RunAt = &runAt
	}
	return nil
}
