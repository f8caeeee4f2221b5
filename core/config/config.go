package config

// Config holds the defaults for every subcommand. Command line flags take
// precedence over the values loaded from a file.
type Config struct {
	Generate GenerateConfig `yaml:"generate"`
	Validate ValidateConfig `yaml:"validate"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type GenerateConfig struct {
	Readers          int      `yaml:"readers"`
	Writers          int      `yaml:"writers"`
	Ignore           []string `yaml:"ignore"`           // gitignore-style patterns
	RespectGitignore bool     `yaml:"respectGitignore"` // also read <source>/.gitignore
	Hash             bool     `yaml:"hash"`
	Extended         bool     `yaml:"extended"`
}

type ValidateConfig struct {
	Validators int    `yaml:"validators"`
	Report     string `yaml:"report"` // error report file
	Progress   bool   `yaml:"progress"`
}

type OutputConfig struct {
	Format string `yaml:"format"` // "table", "json"
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "text", "json"
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Generate: GenerateConfig{Readers: 1, Writers: 1},
		Validate: ValidateConfig{Validators: 16, Report: "./error_report.txt", Progress: true},
		Output:   OutputConfig{Format: "table"},
		Logging:  LoggingConfig{Level: "info", Format: "text"},
	}
}
