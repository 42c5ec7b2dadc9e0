package app

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjy-dev/coveralls/internal/client"
	"github.com/zjy-dev/coveralls/internal/parser"
)

// NewUploadCommand creates the "upload" subcommand.
func NewUploadCommand(opts *globalOptions) *cobra.Command {
	var (
		endpoint string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Send a coverage report to the Coveralls service.",
		Long: `This command parses a Clover or LCOV coverage report and uploads it.

The build information is read from the environment (CI services, COVERALLS_*
and GIT_* variables), then from the .coveralls.yml file.

Examples:
  # Upload an LCOV report
  coveralls upload coverage/lcov.info

  # Print the job instead of sending it
  coveralls upload --dry-run build/clover.xml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read coverage report: %w", err)
			}

			if endpoint == "" {
				endpoint = opts.settings.Endpoint
			}
			u, err := url.Parse(endpoint)
			if err != nil {
				return fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
			}

			c := client.New(u,
				client.WithCoverallsFile(opts.settings.CoverallsFile),
				client.WithParserOptions(parser.WithConcurrency(opts.settings.Concurrency)),
			)

			out := cmd.OutOrStdout()
			if dryRun {
				job, err := c.PrepareJob(cmd.Context(), string(data))
				if err != nil {
					return err
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(job)
			}

			fmt.Fprintf(out, "[Coveralls] Submitting to %s\n", c.Endpoint())
			return c.Upload(cmd.Context(), string(data))
		},
	}

	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Base URL of the Coveralls API (default from settings)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the job as JSON instead of uploading it")

	return cmd
}
