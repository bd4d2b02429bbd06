package cmd

import (
	"fmt"
	"os"

	"levelcat/internal/api"
	"levelcat/internal/app"
	"levelcat/internal/config"
	"levelcat/internal/store"

	"github.com/spf13/cobra"
)

// runApp loads configuration, opens the history store, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	serverURL := cfg.ServerURL
	if s, _ := cmd.Flags().GetString("server"); s != "" {
		serverURL = s
	}

	opts := app.Options{
		Client: api.New(serverURL, cfg.Timeout),
	}

	// History is optional: a broken local database should not keep the
	// participant from taking a test.
	dbPath, err := resolveDBPath(cmd, cfg.DBPath)
	if err == nil {
		var st *store.Store
		st, err = store.Open(dbPath)
		if err == nil {
			defer st.Close()
			opts.Results = st.Results()
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "History unavailable:", err)
	}

	return app.Run(opts)
}
