package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/splitforge/internal/config"
	"github.com/ppiankov/splitforge/internal/state"
)

func newHistoryCmd() *cobra.Command {
	var (
		limit  int
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past split runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadSettings(configFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if !cmd.Flags().Changed("history-db") && cfg.HistoryDB != "" {
				dbPath = cfg.HistoryDB
			}
			if dbPath == "" {
				dbPath = state.DefaultPath()
			}

			store, err := state.Open(dbPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			runs, err := store.List(limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(os.Stdout, "no recorded runs")
				return nil
			}

			fmt.Fprintf(os.Stdout, "%-4s %-16s %-13s %7s %7s %-6s %s\n",
				"ID", "STARTED", "RATIO", "CLASSES", "IMAGES", "MODE", "DATA → OUT")
			for _, r := range runs {
				mode := "copy"
				if r.Moved {
					mode = "move"
				}
				fmt.Fprintf(os.Stdout, "%-4d %-16s %-13s %7d %7d %-6s %s → %s\n",
					r.ID, r.StartedAt.Local().Format("2006-01-02 15:04"),
					r.Ratio, r.Classes, r.Images, mode, r.DataDir, r.OutputDir)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "max runs to show (0 = all)")
	cmd.Flags().StringVar(&dbPath, "history-db", "", "path to run history database")

	return cmd
}
