package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zjy-dev/coveralls/internal/logger"
)

var log = logger.Named("config")

// DefaultCoverallsFile is the name of the per-project configuration file.
const DefaultCoverallsFile = ".coveralls.yml"

// ErrInvalidYAML is returned when a document is not a YAML mapping of
// scalar values.
var ErrInvalidYAML = errors.New("invalid YAML configuration")

// FromYAML creates a configuration from a YAML mapping of scalars.
func FromYAML(document string) (*Configuration, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(document), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: the document is not a mapping", ErrInvalidYAML)
	}

	c := New()
	mapping := doc.Content[0]
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key, value := mapping.Content[i], mapping.Content[i+1]
		if value.Kind == yaml.AliasNode {
			value = value.Alias
		}
		if value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: the value of %q is not a scalar", ErrInvalidYAML, key.Value)
		}
		if value.Tag == "!!null" {
			c.SetNil(key.Value)
		} else {
			c.Set(key.Value, value.Value)
		}
	}
	return c, nil
}

// LoadDefaults creates the default configuration: the environment merged
// with the file at path. A missing or invalid file leaves the environment
// configuration unchanged.
func LoadDefaults(env map[string]string, path string) *Configuration {
	defaults := FromEnvironment(env)
	if path == "" {
		return defaults
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Debugf("No configuration file loaded from %s: %v", path, err)
		return defaults
	}

	file, err := FromYAML(string(data))
	if err != nil {
		log.Warnf("Ignoring %s: %v", path, err)
		return defaults
	}
	defaults.Merge(file)
	return defaults
}
