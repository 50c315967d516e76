package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Beo-Alvaro/contra-eris/internal/config"
	"github.com/Beo-Alvaro/contra-eris/internal/logging"
	"github.com/Beo-Alvaro/contra-eris/internal/version"
)

var (
	// logFormatFlag is the CLI --log-format flag value
	logFormatFlag string
	// logLevelFlag is the CLI --log-level flag value
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "eris",
	Short: "Contra Eris - codebase summarization and evaluation",
	Long: `Contra Eris converts a multi-language source tree into a compact summary
corpus (CBSF), derives a file-level dependency graph from it, and scores the
graph with structural metrics: coupling, centrality, modularity, and entropy.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("eris version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "",
		"Log output format: json or human (default from config)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn, or error (default from config)")
}

// newLogger builds the command logger from config, with CLI flags taking
// precedence over the config file.
func newLogger(cfg *config.Config) *logging.Logger {
	format := cfg.Logging.Format
	if logFormatFlag != "" {
		format = logFormatFlag
	}
	level := cfg.Logging.Level
	if logLevelFlag != "" {
		level = logLevelFlag
	}

	f := logging.HumanFormat
	if format == string(logging.JSONFormat) {
		f = logging.JSONFormat
	}
	return logging.NewLogger(logging.Config{
		Format: f,
		Level:  logging.ParseLevel(level),
	})
}

// mustLoadConfig loads the project config or exits with a usable message.
func mustLoadConfig(projectRoot string) *config.Config {
	cfg, err := config.LoadConfig(projectRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
