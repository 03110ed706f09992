package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/scorm/internal/logging"
	"github.com/aretw0/scorm/pkg/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "scorm",
	Short: "SCORM 1.2, SCORM 2004 and AICC runtime",
	Long: `scorm hosts learner sessions for SCORM 1.2, SCORM 2004 and AICC content.
It can replay recorded API calls, serve sessions over HTTP or MCP, and manage
the commits sessions have persisted.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultPath, "Configuration file (YAML or JSON)")
	rootCmd.PersistentFlags().Bool("debug", false, "Log debug output to stderr")
}

func loadConfig(cmd *cobra.Command) (config.File, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

func newLogger(cmd *cobra.Command, cfg config.File) *slog.Logger {
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		return logging.New(slog.LevelDebug)
	}
	level, _ := logging.ParseLevel(cfg.Settings.LogLevel)
	return logging.New(level)
}
