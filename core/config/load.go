package config

import (
	"fmt"
	"os"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"
)

// matches $(VAR_NAME)
var envPattern = regexp.MustCompile(`\$\(([A-Za-z0-9_]+)\)`)

// replaces $(VAR) with os.Getenv(VAR)
func expandEnvVars(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(m string) string {
		return os.Getenv(envPattern.FindStringSubmatch(m)[1])
	})
}

// Load reads the YAML file at path on top of Default. Keys missing from the
// file keep their default value.
func Load(path string) (*Config, error) {
	// read raw YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// expand $(ENV_VAR) placeholders
	expanded := expandEnvVars(string(data))

	cfg := Default()
	if err = yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config file %s: %w", path, err)
	}

	if err = cfg.Check(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Check rejects the values a command cannot run with.
func (c *Config) Check() error {
	if c.Generate.Readers < 1 {
		return fmt.Errorf("generate.readers must be greater than 0. got %d", c.Generate.Readers)
	}
	if c.Generate.Writers < 1 {
		return fmt.Errorf("generate.writers must be greater than 0. got %d", c.Generate.Writers)
	}
	if c.Validate.Validators < 1 {
		return fmt.Errorf("validate.validators must be greater than 0. got %d", c.Validate.Validators)
	}
	if !slices.Contains([]string{"table", "json"}, c.Output.Format) {
		return fmt.Errorf("invalid output format: %s. expect [table|json]", c.Output.Format)
	}
	return nil
}
