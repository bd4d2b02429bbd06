package cmd

import (
	"fmt"
	"strings"

	"levelcat/internal/config"
	"levelcat/internal/store"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List completed tests from the local history",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		dbPath, err := resolveDBPath(cmd, cfg.DBPath)
		if err != nil {
			return fmt.Errorf("resolve history path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer st.Close()

		records, err := st.Results().List(cmd.Context(), 50)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No completed tests yet.")
			return nil
		}

		fmt.Printf("%-13s %-22s %-7s %-5s %-8s %s\n",
			"DATE", "NAME", "LEVEL", "CEFR", "T-SCORE", "DURATION")
		for _, rec := range records {
			name := strings.TrimSpace(rec.FirstName + " " + rec.LastName)
			fmt.Printf("%-13s %-22s %-7s %-5s %-8.1f %d:%02d\n",
				rec.TakenAt.Format("Jan 02, 2006"),
				name,
				rec.StartLevel,
				rec.CEFR,
				rec.TScore,
				rec.DurationSecs/60, rec.DurationSecs%60,
			)
		}
		return nil
	},
}
