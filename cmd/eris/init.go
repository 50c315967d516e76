package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Beo-Alvaro/contra-eris/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init [project]",
	Short: "Write a default configuration file",
	Long:  `Create .eris/config.json with default settings in the project root.`,
	Args:  cobra.MaximumNArgs(1),
	Run:   runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false,
		"Overwrite an existing configuration")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) {
	project := "."
	if len(args) > 0 {
		project = args[0]
	}

	configPath := filepath.Join(project, ".eris", "config.json")
	if _, err := os.Stat(configPath); err == nil && !initForce {
		fmt.Fprintf(os.Stderr, "Error: %s already exists (use --force to overwrite)\n", configPath)
		os.Exit(1)
	}

	cfg := config.DefaultConfig()
	cfg.ProjectRoot = project
	if err := cfg.Save(project); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Configuration written to %s\n", configPath)
}
