package cmd

import (
	"levelcat/internal/store"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "levelcat",
	Short: "Terminal client for adaptive English placement tests",
	Long:  "LevelCat — a terminal client for computerized adaptive English placement tests, with section pauses, guarded listening playback, and a local result history.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("server", "", "Base URL of the scoring service (overrides LEVELCAT_SERVER env var)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite history file (overrides LEVELCAT_DB env var)")

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// resolveDBPath returns the history path using --db flag (highest priority),
// then LEVELCAT_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, envPath string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if envPath != "" {
		return envPath, store.EnsureDir(envPath)
	}
	return store.DefaultDBPath()
}
