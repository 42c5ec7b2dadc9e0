package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjy-dev/coveralls/internal/config"
	"github.com/zjy-dev/coveralls/internal/logger"
)

// globalOptions holds the persistent flags and the settings they resolve to.
type globalOptions struct {
	logLevel   string
	configFile string
	envFile    string

	settings *config.Settings
}

// NewCoverallsCommand creates the root command for the coveralls tool.
func NewCoverallsCommand() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "coveralls",
		Short: "Send coverage reports to the Coveralls service.",
		Long: `Coveralls parses Clover and LCOV coverage reports and uploads them to the
Coveralls service, along with the build information found in the CI environment,
the .coveralls.yml file and the Git repository.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.envFile != "" {
				if err := config.LoadEnvFile(opts.envFile); err != nil {
					return err
				}
			}

			settings, err := config.LoadSettings(opts.configFile)
			if err != nil {
				return fmt.Errorf("failed to load settings: %w", err)
			}
			if cmd.Flags().Changed("log-level") {
				settings.LogLevel = opts.logLevel
			}
			opts.settings = settings

			logger.Init(settings.LogLevel)
			logger.Named("cli").Debugf("Using endpoint %s", settings.Endpoint)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Path of the tool settings file (YAML)")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "Path of a .env file to load before reading the environment")

	cmd.AddCommand(NewUploadCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))

	return cmd
}
