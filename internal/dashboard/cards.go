package dashboard

import (
	"github.com/derickschaefer/streamify/internal/model"
	"github.com/derickschaefer/streamify/internal/util"
)

// Cards returns the metric cards for m in display order.
func Cards(m model.Metrics) []model.Card {
	topArtist := m.TopArtist
	if topArtist == "" {
		topArtist = "N/A"
	}
	return []model.Card{
		{Title: "Total Users", Value: util.FormatNumber(m.TotalUsers), Trend: m.UserGrowth, ShowTrend: true},
		{Title: "Active Users", Value: util.FormatNumber(m.ActiveUsers), Trend: m.UserGrowth, ShowTrend: true},
		{Title: "Total Streams", Value: util.FormatNumber(m.TotalStreams), Trend: m.StreamGrowth, ShowTrend: true},
		{Title: "Revenue", Value: util.FormatCurrency(m.Revenue), Trend: m.RevenueGrowth, ShowTrend: true},
		{Title: "Top Artist", Value: topArtist},
	}
}
