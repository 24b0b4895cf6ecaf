package cmd

import (
	"time"

	"github.com/derickschaefer/streamify/internal/analyze"
	"github.com/derickschaefer/streamify/internal/model"
	"github.com/spf13/cobra"
)

var revenueCategory string

var revenueCmd = &cobra.Command{
	Use:   "revenue",
	Short: "Show the revenue distribution by category",
	Long: `Show each revenue category's amount and its share of total revenue for
the selected range. --category highlights one category the way clicking a
pie segment does.`,
	Example: `  streamify revenue
  streamify revenue --range year --category "Premium Subscriptions"
  streamify revenue --format csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		start := time.Now()
		c, snap, err := openSession(cmd.Context(), deps, drillDown{Category: revenueCategory})
		if err != nil {
			return err
		}
		active := c.State().RevenueCategory.OrElse("")
		shares := analyze.RevenueShares(snap.RevenueDistribution, snap.Metrics.Revenue, active)
		result := newResult(deps, model.KindRevenue, "revenue", snap.Range, shares, len(shares), start)
		return emit(deps, result)
	},
}

func init() {
	rootCmd.AddCommand(revenueCmd)
	revenueCmd.Flags().StringVar(&revenueCategory, "category", "", "highlight a revenue category")
}
