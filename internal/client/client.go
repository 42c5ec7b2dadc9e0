// Package client uploads coverage reports to the Coveralls API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/zjy-dev/coveralls/internal/config"
	"github.com/zjy-dev/coveralls/internal/coverage"
	"github.com/zjy-dev/coveralls/internal/exec"
	"github.com/zjy-dev/coveralls/internal/git"
	"github.com/zjy-dev/coveralls/internal/logger"
	"github.com/zjy-dev/coveralls/internal/parser"
)

var log = logger.Named("client")

// ErrJobRequirements is returned when a job has neither a repository token
// nor a service name.
var ErrJobRequirements = errors.New("the job does not meet the requirements: a repo token or a service name is required")

// maxErrorBody bounds the response body kept in an Error.
const maxErrorBody = 64 << 10

// Error is returned when the API answers with a non-2xx status.
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("api request failed with status %d: %s", e.StatusCode, e.Body)
}

// Client uploads coverage jobs.
type Client struct {
	endpoint      *url.URL
	httpClient    *http.Client
	configuration *config.Configuration
	coverallsFile string
	git           exec.Executor
	parserOpts    []parser.Option
	onRequest     func(*http.Request)
	onResponse    func(*http.Request, *http.Response)
	now           func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for uploads.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRequestHook registers a function called before each request is sent.
func WithRequestHook(fn func(*http.Request)) Option {
	return func(c *Client) { c.onRequest = fn }
}

// WithResponseHook registers a function called after each response is
// received.
func WithResponseHook(fn func(*http.Request, *http.Response)) Option {
	return func(c *Client) { c.onResponse = fn }
}

// WithConfiguration sets the configuration merged onto uploaded jobs,
// instead of the one loaded from the environment and the coveralls file.
func WithConfiguration(cfg *config.Configuration) Option {
	return func(c *Client) { c.configuration = cfg }
}

// WithCoverallsFile sets the path of the YAML file read by LoadDefaults.
func WithCoverallsFile(path string) Option {
	return func(c *Client) { c.coverallsFile = path }
}

// WithGitExecutor sets the executor used to read the git data. A nil
// executor disables git data collection.
func WithGitExecutor(e exec.Executor) Option {
	return func(c *Client) { c.git = e }
}

// WithParserOptions sets the options passed to the report parser.
func WithParserOptions(opts ...parser.Option) Option {
	return func(c *Client) { c.parserOpts = opts }
}

// New creates a client for the API at endpoint. A nil endpoint means
// config.DefaultEndpoint.
func New(endpoint *url.URL, opts ...Option) *Client {
	if endpoint == nil {
		endpoint, _ = url.Parse(config.DefaultEndpoint)
	}
	u := *endpoint
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	c := &Client{
		endpoint:      &u,
		httpClient:    &http.Client{Timeout: 60 * time.Second},
		coverallsFile: config.DefaultCoverallsFile,
		now:           time.Now,
	}
	if exec.Available("git") {
		c.git = exec.NewCommandExecutor("")
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the base URL of the API.
func (c *Client) Endpoint() *url.URL {
	u := *c.endpoint
	return &u
}

// Upload parses a Clover or LCOV report and uploads the resulting job.
func (c *Client) Upload(ctx context.Context, report string) error {
	job, err := c.PrepareJob(ctx, report)
	if err != nil {
		return err
	}
	return c.UploadJob(ctx, job)
}

// PrepareJob parses a report and merges the configuration, the run time and
// the git data onto the job, without uploading it.
func (c *Client) PrepareJob(ctx context.Context, report string) (*coverage.Job, error) {
	job, err := parser.Parse(report, c.parserOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse the coverage report: %w", err)
	}
	log.Debugf("Parsed %d source files", len(job.SourceFiles))
	if logger.Enabled(logger.DEBUG) {
		for _, f := range job.SourceFiles {
			log.Debugf("  %s: %d lines, %d branches", f.Name, len(f.Coverage), f.BranchCount())
		}
	}

	cfg := c.configuration
	if cfg == nil {
		cfg = config.LoadDefaults(config.Environ(), c.coverallsFile)
	}
	if err := UpdateJob(job, cfg); err != nil {
		return nil, err
	}
	if job.RunAt == nil {
		now := c.now()
		job.RunAt = &now
	}

	if c.git != nil {
		data, err := git.FromRepository(ctx, c.git)
		if err != nil {
			log.Warnf("Failed to read the git data: %v", err)
			return job, nil
		}
		if data.Branch == "HEAD" && job.Git != nil && job.Git.Branch != "" {
			data.Branch = job.Git.Branch
		}
		job.Git = data
	}
	return job, nil
}

// UploadJob sends a job to the API.
func (c *Client) UploadJob(ctx context.Context, job *coverage.Job) error {
	if job.RepoToken == "" && job.ServiceName == "" {
		return ErrJobRequirements
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="json_file"; filename="coveralls.json"`)
	header.Set("Content-Type", "application/json")
	part, err := form.CreatePart(header)
	if err != nil {
		return fmt.Errorf("failed to create multipart body: %w", err)
	}
	if _, err := part.Write(payload); err != nil {
		return fmt.Errorf("failed to create multipart body: %w", err)
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("failed to create multipart body: %w", err)
	}

	target := c.endpoint.ResolveReference(&url.URL{Path: "jobs"})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), &body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	if c.onRequest != nil {
		c.onRequest(req)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to perform request: %w", err)
	}
	defer resp.Body.Close()
	if c.onResponse != nil {
		c.onResponse(req, resp)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Errorf("Upload to %s rejected with status %d", target, resp.StatusCode)
		return &Error{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	log.Infof("Uploaded %d source files to %s", len(job.SourceFiles), target)
	return nil
}

// UpdateJob merges configuration parameters onto a job.
func UpdateJob(job *coverage.Job, cfg *config.Configuration) error {
	if v, ok := cfg.Get("repo_token"); ok {
		job.RepoToken = v
	} else if v, ok := cfg.Get("repo_secret_token"); ok {
		job.RepoToken = v
	}

	if v, ok := cfg.Get("parallel"); ok {
		job.Parallel = v == "true"
	}
	if v, ok := cfg.Get("run_at"); ok {
		runAt, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return fmt.Errorf("invalid run_at %q: %w", v, err)
		}
		job.RunAt = &runAt
	}

	fields := []struct {
		key string
		dst *string
	}{
		{"service_job_id", &job.ServiceJobID},
		{"service_name", &job.ServiceName},
		{"service_number", &job.ServiceNumber},
		{"service_pull_request", &job.ServicePullRequest},
		{"flag_name", &job.FlagName},
	}
	for _, f := range fields {
		if v, ok := cfg.Get(f.key); ok {
			*f.dst = v
		}
	}

	if hasGitData(cfg) {
		job.Git = &git.Data{
			Branch: cfg.Value("service_branch"),
			Head: &git.Commit{
				ID:             cfg.Value("commit_sha"),
				AuthorEmail:    cfg.Value("git_author_email"),
				AuthorName:     cfg.Value("git_author_name"),
				CommitterEmail: cfg.Value("git_committer_email"),
				CommitterName:  cfg.Value("git_committer_name"),
				Message:        cfg.Value("git_message"),
			},
		}
	} else if v, ok := cfg.Get("commit_sha"); ok {
		job.CommitSha = v
	}
	return nil
}

func hasGitData(cfg *config.Configuration) bool {
	for _, key := range cfg.Keys() {
		if (key == "service_branch" || strings.HasPrefix(key, "git_")) && cfg.Has(key) {
			return true
		}
	}
	return false
}
