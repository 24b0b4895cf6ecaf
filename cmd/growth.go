package cmd

import (
	"time"

	"github.com/derickschaefer/streamify/internal/analyze"
	"github.com/derickschaefer/streamify/internal/model"
	"github.com/spf13/cobra"
)

var growthCmd = &cobra.Command{
	Use:   "growth",
	Short: "Show the monthly user growth series and its summary",
	Long: `Show total and active users per month with a summary: overall change,
average month-over-month growth, active ratio and the fitted trend.

The growth series is the same for every time range.`,
	Example: `  streamify growth
  streamify growth --format json | jq .data.summary`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		start := time.Now()
		_, snap, err := openSession(cmd.Context(), deps, drillDown{})
		if err != nil {
			return err
		}
		report := model.GrowthReport{Points: snap.UserGrowth, Summary: analyze.Growth(snap.UserGrowth)}
		result := newResult(deps, model.KindGrowth, "growth", snap.Range, report, len(report.Points), start)
		return emit(deps, result)
	},
}

func init() {
	rootCmd.AddCommand(growthCmd)
}
