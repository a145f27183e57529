package main

import (
	"fmt"

	"chronos/internal/app"
	"chronos/internal/core/model"
	"chronos/internal/storage"

	"github.com/spf13/cobra"
)

var statsLimit int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show completed session counts and recent sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveConfigDir()
		if err != nil {
			return err
		}
		history, err := storage.OpenHistory(storage.HistoryPath(dir))
		if err != nil {
			return err
		}
		defer history.Close()

		stats, err := history.Stats(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Sessions today: %d\n", stats.TodaySessions)
		fmt.Fprintf(out, "Sessions total: %d\n", stats.TotalSessions)

		records, err := history.Recent(cmd.Context(), statsLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		fmt.Fprintln(out, "\nRecent:")
		for _, record := range records {
			fmt.Fprintf(out, "  %s  work %s min  rest %s min\n",
				record.CompletedAt.Local().Format("2006-01-02 15:04"),
				model.FormatMinutes(record.WorkMinutes),
				model.FormatMinutes(record.RestMinutes))
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().IntVarP(&statsLimit, "limit", "n", 5, "number of recent sessions to list")
}

func resolveConfigDir() (string, error) {
	if configDir != "" {
		return configDir, nil
	}
	return storage.ConfigDir(app.Name)
}
