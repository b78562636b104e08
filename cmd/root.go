package main

import (
	"fmt"
	"os"

	"task_tracker/internal/config"
	"task_tracker/internal/repository/db"

	"github.com/spf13/cobra"
)

var (
	configDir string
	envFile   string
)

// rootCmd starts the HTTP server when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:   "task_tracker",
	Short: "Multi-user task tracker API",
	Long: `Multi-user task tracker API. Usage:

	task_tracker serve
	task_tracker migrate up|down
	task_tracker user promote|demote --email user@example.com
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "configs", "directory holding config.yml")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment is read")
}

// loadConfig reads the dotenv file, config.yml and environment overrides.
func loadConfig() (config.Config, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return config.Config{}, err
	}
	return config.Load(configDir)
}

func dbConfig(c config.DBConfig) db.Config {
	return db.Config{Driver: c.Driver, Path: c.Path, DSN: c.DSN}
}
