package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjy-dev/coveralls/internal/client"
	"github.com/zjy-dev/coveralls/internal/config"
	"github.com/zjy-dev/coveralls/internal/parser"
	"github.com/zjy-dev/coveralls/internal/report"
)

// NewReportCommand creates the "report" subcommand.
func NewReportCommand(opts *globalOptions) *cobra.Command {
	var (
		output    string
		outputDir string
	)

	cmd := &cobra.Command{
		Use:   "report <file>",
		Short: "Print a Markdown summary of a coverage report.",
		Long: `This command parses a Clover or LCOV coverage report and writes a Markdown
table with the line and branch coverage of every source file.

Examples:
  # Print the summary
  coveralls report coverage/lcov.info

  # Write it to a file
  coveralls report --output coverage.md build/clover.xml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read coverage report: %w", err)
			}

			job, err := parser.Parse(string(data), parser.WithConcurrency(opts.settings.Concurrency))
			if err != nil {
				return fmt.Errorf("failed to parse the coverage report: %w", err)
			}
			if err := client.UpdateJob(job, config.LoadDefaults(config.Environ(), opts.settings.CoverallsFile)); err != nil {
				return err
			}

			reporter := report.NewMarkdownReporter(outputDir)
			switch {
			case outputDir != "":
				path, err := reporter.Save(job)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "[Report] Saved to %s\n", path)
				return nil
			case output != "":
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer f.Close()
				return reporter.Render(f, job)
			default:
				return reporter.Render(cmd.OutOrStdout(), job)
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write the summary to (default stdout)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory to save a timestamped summary into")
	cmd.MarkFlagsMutuallyExclusive("output", "output-dir")

	return cmd
}
