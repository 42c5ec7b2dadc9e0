package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// DefaultEndpoint is the base URL of the Coveralls API.
const DefaultEndpoint = "https://coveralls.io/api/v1/"

// Settings holds the options of the command line tool.
type Settings struct {
	Endpoint      string `mapstructure:"endpoint"`
	LogLevel      string `mapstructure:"log_level"`
	CoverallsFile string `mapstructure:"coveralls_file"`
	// Concurrency bounds the number of source files read at once.
	// Zero means one per CPU.
	Concurrency int `mapstructure:"concurrency"`
}

// LoadSettings reads the tool settings. Values come, by increasing
// priority, from the defaults, the optional YAML file at path, and the
// COVERALLS_* environment variables.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	v.SetDefault("endpoint", DefaultEndpoint)
	v.SetDefault("log_level", "info")
	v.SetDefault("coveralls_file", DefaultCoverallsFile)
	v.SetDefault("concurrency", 0)

	v.SetEnvPrefix("coveralls")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data: %w", err)
	}
	if s.Concurrency < 0 {
		return nil, fmt.Errorf("concurrency must not be negative, got %d", s.Concurrency)
	}
	return &s, nil
}
