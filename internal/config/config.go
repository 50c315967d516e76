package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete analysis configuration (v1 schema)
type Config struct {
	Version     int    `json:"version" mapstructure:"version"`
	ProjectRoot string `json:"projectRoot" mapstructure:"projectRoot"`

	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis"`
	Output   OutputConfig   `json:"output" mapstructure:"output"`
	History  HistoryConfig  `json:"history" mapstructure:"history"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// AnalysisConfig controls file discovery and extraction
type AnalysisConfig struct {
	Extensions []string `json:"extensions" mapstructure:"extensions"`
	IgnoreDirs []string `json:"ignoreDirs" mapstructure:"ignoreDirs"`
	Workers    int      `json:"workers" mapstructure:"workers"`
}

// OutputConfig controls where artifacts and reports are written
type OutputConfig struct {
	Dir          string `json:"dir" mapstructure:"dir"`
	ArtifactName string `json:"artifactName" mapstructure:"artifactName"`
	Compress     bool   `json:"compress" mapstructure:"compress"`
}

// HistoryConfig controls the run-history database
type HistoryConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" mapstructure:"path"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:     1,
		ProjectRoot: ".",
		Analysis: AnalysisConfig{
			Extensions: []string{".py", ".js", ".mjs", ".html", ".htm"},
			IgnoreDirs: []string{"node_modules", "vendor", "__pycache__", "dist", "build"},
			Workers:    0,
		},
		Output: OutputConfig{
			Dir:          "output",
			ArtifactName: "cbsf.json",
			Compress:     false,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    ".eris/history.db",
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .eris/config.json
func LoadConfig(projectRoot string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("version", 1)
	v.SetDefault("projectRoot", ".")

	// Configure viper
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, ".eris"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// If config doesn't exist, return default config
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// applyDefaults fills fields a partial config file left empty
func applyDefaults(cfg *Config) {
	def := DefaultConfig()
	if len(cfg.Analysis.Extensions) == 0 {
		cfg.Analysis.Extensions = def.Analysis.Extensions
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = def.Output.Dir
	}
	if cfg.Output.ArtifactName == "" {
		cfg.Output.ArtifactName = def.Output.ArtifactName
	}
	if cfg.History.Path == "" {
		cfg.History.Path = def.History.Path
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = def.Logging.Format
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
}

// Save writes the configuration to .eris/config.json
func (c *Config) Save(projectRoot string) error {
	configDir := filepath.Join(projectRoot, ".eris")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	// Marshal to JSON with indentation
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	// Write to file
	return os.WriteFile(filepath.Join(configDir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Analysis.Workers < 0 {
		return &ConfigError{Field: "analysis.workers", Message: "workers must not be negative"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
