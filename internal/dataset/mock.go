package dataset

import (
	"time"

	"github.com/derickschaefer/streamify/internal/model"
)

// Revenue category colours used by the distribution chart legend.
const (
	colorPremium = "#6366f1"
	colorAds     = "#10b981"
)

// asOf is the last day covered by the mock dataset.
var asOf = time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)

// Default returns the built-in mock dataset.
func Default() *Dataset {
	return &Dataset{
		Metrics:  defaultMetrics(),
		Revenue:  defaultRevenue(),
		TopSongs: defaultTopSongs(),
		Streams:  defaultStreams(),
		Growth:   defaultGrowth(),
	}
}

func defaultMetrics() map[model.TimeRange]model.Metrics {
	return map[model.TimeRange]model.Metrics{
		model.Range7d: {
			TotalUsers:    2850000,
			ActiveUsers:   2100000,
			TotalStreams:  42000000,
			Revenue:       1250000,
			TopArtist:     "Taylor Swift",
			UserGrowth:    1.2,
			RevenueGrowth: 2.1,
			StreamGrowth:  2.8,
		},
		model.Range30d: {
			TotalUsers:    2800000,
			ActiveUsers:   2000000,
			TotalStreams:  168000000,
			Revenue:       5200000,
			TopArtist:     "Taylor Swift",
			UserGrowth:    5.5,
			RevenueGrowth: 6.2,
			StreamGrowth:  7.8,
		},
		model.Range90d: {
			TotalUsers:    2600000,
			ActiveUsers:   1800000,
			TotalStreams:  486000000,
			Revenue:       15000000,
			TopArtist:     "Morgan Wallen",
			UserGrowth:    15.0,
			RevenueGrowth: 16.5,
			StreamGrowth:  18.4,
		},
		model.RangeYear: {
			TotalUsers:    2850000,
			ActiveUsers:   2100000,
			TotalStreams:  1920000000,
			Revenue:       58000000,
			TopArtist:     "Taylor Swift",
			UserGrowth:    32.0,
			RevenueGrowth: 35.2,
			StreamGrowth:  38.8,
		},
	}
}

func defaultRevenue() map[model.TimeRange][]model.RevenueSlice {
	return map[model.TimeRange][]model.RevenueSlice{
		model.Range7d: {
			{Name: "Premium Subscriptions", Amount: 1000000, Color: colorPremium},
			{Name: "Ad Revenue", Amount: 250000, Color: colorAds},
		},
		model.Range30d: {
			{Name: "Premium Subscriptions", Amount: 4150000, Color: colorPremium},
			{Name: "Ad Revenue", Amount: 1050000, Color: colorAds},
		},
		model.Range90d: {
			{Name: "Premium Subscriptions", Amount: 12000000, Color: colorPremium},
			{Name: "Ad Revenue", Amount: 3000000, Color: colorAds},
		},
		model.RangeYear: {
			{Name: "Premium Subscriptions", Amount: 46000000, Color: colorPremium},
			{Name: "Ad Revenue", Amount: 12000000, Color: colorAds},
		},
	}
}

func defaultTopSongs() map[model.TimeRange][]model.TopSong {
	return map[model.TimeRange][]model.TopSong{
		model.Range7d: {
			{Name: "Cruel Summer", Artist: "Taylor Swift", Streams: 3500000},
			{Name: "vampire", Artist: "Olivia Rodrigo", Streams: 3200000},
			{Name: "Last Night", Artist: "Morgan Wallen", Streams: 2800000},
			{Name: "Kill Bill", Artist: "SZA", Streams: 2500000},
			{Name: "Anti-Hero", Artist: "Taylor Swift", Streams: 2200000},
		},
		model.Range30d: {
			{Name: "Cruel Summer", Artist: "Taylor Swift", Streams: 14000000},
			{Name: "vampire", Artist: "Olivia Rodrigo", Streams: 12800000},
			{Name: "Last Night", Artist: "Morgan Wallen", Streams: 11200000},
			{Name: "Kill Bill", Artist: "SZA", Streams: 10000000},
			{Name: "Anti-Hero", Artist: "Taylor Swift", Streams: 8800000},
		},
		model.Range90d: {
			{Name: "Last Night", Artist: "Morgan Wallen", Streams: 42000000},
			{Name: "Cruel Summer", Artist: "Taylor Swift", Streams: 38400000},
			{Name: "vampire", Artist: "Olivia Rodrigo", Streams: 33600000},
			{Name: "Kill Bill", Artist: "SZA", Streams: 30000000},
			{Name: "Anti-Hero", Artist: "Taylor Swift", Streams: 26400000},
		},
		model.RangeYear: {
			{Name: "Last Night", Artist: "Morgan Wallen", Streams: 168000000},
			{Name: "Cruel Summer", Artist: "Taylor Swift", Streams: 153600000},
			{Name: "vampire", Artist: "Olivia Rodrigo", Streams: 134400000},
			{Name: "Kill Bill", Artist: "SZA", Streams: 120000000},
			{Name: "Anti-Hero", Artist: "Taylor Swift", Streams: 105600000},
		},
	}
}

// defaultStreams builds the recent streams tables. Each range's records
// are dated across that range's own window.
func defaultStreams() map[model.TimeRange][]model.StreamRecord {
	return map[model.TimeRange][]model.StreamRecord{
		model.Range7d: dated(7, []model.StreamRecord{
			{ID: 1, Song: "Cruel Summer", Artist: "Taylor Swift", DailyStreams: 500000, UniqueListeners: 420000, Trend: "+8.5%"},
			{ID: 2, Song: "vampire", Artist: "Olivia Rodrigo", DailyStreams: 457000, UniqueListeners: 380000, Trend: "+7.2%"},
			{ID: 3, Song: "Last Night", Artist: "Morgan Wallen", DailyStreams: 400000, UniqueListeners: 340000, Trend: "+5.8%"},
			{ID: 4, Song: "Kill Bill", Artist: "SZA", DailyStreams: 357000, UniqueListeners: 305000, Trend: "+4.5%"},
			{ID: 5, Song: "Anti-Hero", Artist: "Taylor Swift", DailyStreams: 314000, UniqueListeners: 275000, Trend: "+3.2%"},
			{ID: 6, Song: "Rich Flex", Artist: "Drake", DailyStreams: 298000, UniqueListeners: 258000, Trend: "+2.8%"},
			{ID: 7, Song: "Flowers", Artist: "Miley Cyrus", DailyStreams: 285000, UniqueListeners: 245000, Trend: "+2.1%"},
			{ID: 8, Song: "As It Was", Artist: "Harry Styles", DailyStreams: 275000, UniqueListeners: 238000, Trend: "-1.5%"},
			{ID: 9, Song: "About Damn Time", Artist: "Lizzo", DailyStreams: 268000, UniqueListeners: 232000, Trend: "-2.3%"},
			{ID: 10, Song: "Bad Habit", Artist: "Steve Lacy", DailyStreams: 262000, UniqueListeners: 228000, Trend: "-3.1%"},
		}),
		model.Range30d: dated(30, []model.StreamRecord{
			{ID: 1, Song: "Cruel Summer", Artist: "Taylor Swift", DailyStreams: 466000, UniqueListeners: 390000, Trend: "+12.5%"},
			{ID: 2, Song: "vampire", Artist: "Olivia Rodrigo", DailyStreams: 427000, UniqueListeners: 355000, Trend: "+11.2%"},
			{ID: 3, Song: "Last Night", Artist: "Morgan Wallen", DailyStreams: 373000, UniqueListeners: 315000, Trend: "+9.8%"},
			{ID: 4, Song: "Kill Bill", Artist: "SZA", DailyStreams: 333000, UniqueListeners: 282000, Trend: "+8.5%"},
			{ID: 5, Song: "Anti-Hero", Artist: "Taylor Swift", DailyStreams: 293000, UniqueListeners: 250000, Trend: "+7.2%"},
			{ID: 6, Song: "Rich Flex", Artist: "Drake", DailyStreams: 278000, UniqueListeners: 238000, Trend: "+5.8%"},
			{ID: 7, Song: "Flowers", Artist: "Miley Cyrus", DailyStreams: 265000, UniqueListeners: 228000, Trend: "+4.5%"},
			{ID: 8, Song: "As It Was", Artist: "Harry Styles", DailyStreams: 255000, UniqueListeners: 220000, Trend: "-2.8%"},
			{ID: 9, Song: "About Damn Time", Artist: "Lizzo", DailyStreams: 248000, UniqueListeners: 215000, Trend: "-3.5%"},
			{ID: 10, Song: "Bad Habit", Artist: "Steve Lacy", DailyStreams: 242000, UniqueListeners: 210000, Trend: "-4.2%"},
		}),
		model.Range90d: dated(90, []model.StreamRecord{
			{ID: 1, Song: "Last Night", Artist: "Morgan Wallen", DailyStreams: 466000, UniqueListeners: 390000, Trend: "+18.5%"},
			{ID: 2, Song: "Cruel Summer", Artist: "Taylor Swift", DailyStreams: 427000, UniqueListeners: 355000, Trend: "+16.8%"},
			{ID: 3, Song: "vampire", Artist: "Olivia Rodrigo", DailyStreams: 373000, UniqueListeners: 315000, Trend: "+15.2%"},
			{ID: 4, Song: "Kill Bill", Artist: "SZA", DailyStreams: 333000, UniqueListeners: 282000, Trend: "+13.5%"},
			{ID: 5, Song: "Anti-Hero", Artist: "Taylor Swift", DailyStreams: 293000, UniqueListeners: 250000, Trend: "+12.2%"},
			{ID: 6, Song: "Rich Flex", Artist: "Drake", DailyStreams: 278000, UniqueListeners: 238000, Trend: "+10.8%"},
			{ID: 7, Song: "Flowers", Artist: "Miley Cyrus", DailyStreams: 265000, UniqueListeners: 228000, Trend: "-5.5%"},
			{ID: 8, Song: "As It Was", Artist: "Harry Styles", DailyStreams: 255000, UniqueListeners: 220000, Trend: "-6.8%"},
			{ID: 9, Song: "About Damn Time", Artist: "Lizzo", DailyStreams: 248000, UniqueListeners: 215000, Trend: "-7.5%"},
			{ID: 10, Song: "Bad Habit", Artist: "Steve Lacy", DailyStreams: 242000, UniqueListeners: 210000, Trend: "-8.2%"},
		}),
		model.RangeYear: dated(365, []model.StreamRecord{
			{ID: 1, Song: "Last Night", Artist: "Morgan Wallen", DailyStreams: 460000, UniqueListeners: 385000, Trend: "+35.5%"},
			{ID: 2, Song: "Cruel Summer", Artist: "Taylor Swift", DailyStreams: 421000, UniqueListeners: 350000, Trend: "+32.8%"},
			{ID: 3, Song: "vampire", Artist: "Olivia Rodrigo", DailyStreams: 368000, UniqueListeners: 310000, Trend: "+30.2%"},
			{ID: 4, Song: "Kill Bill", Artist: "SZA", DailyStreams: 328000, UniqueListeners: 278000, Trend: "+28.5%"},
			{ID: 5, Song: "Anti-Hero", Artist: "Taylor Swift", DailyStreams: 288000, UniqueListeners: 245000, Trend: "+25.2%"},
			{ID: 6, Song: "Rich Flex", Artist: "Drake", DailyStreams: 273000, UniqueListeners: 233000, Trend: "+22.8%"},
			{ID: 7, Song: "Flowers", Artist: "Miley Cyrus", DailyStreams: 260000, UniqueListeners: 223000, Trend: "-12.5%"},
			{ID: 8, Song: "As It Was", Artist: "Harry Styles", DailyStreams: 250000, UniqueListeners: 215000, Trend: "-15.8%"},
			{ID: 9, Song: "About Damn Time", Artist: "Lizzo", DailyStreams: 243000, UniqueListeners: 210000, Trend: "-18.5%"},
			{ID: 10, Song: "Bad Habit", Artist: "Steve Lacy", DailyStreams: 237000, UniqueListeners: 205000, Trend: "-20.2%"},
		}),
	}
}

func defaultGrowth() []model.GrowthPoint {
	return []model.GrowthPoint{
		{Month: "Feb 2023", TotalUsers: 2160000, ActiveUsers: 1580000},
		{Month: "Mar 2023", TotalUsers: 2250000, ActiveUsers: 1650000},
		{Month: "Apr 2023", TotalUsers: 2320000, ActiveUsers: 1720000},
		{Month: "May 2023", TotalUsers: 2380000, ActiveUsers: 1780000},
		{Month: "Jun 2023", TotalUsers: 2450000, ActiveUsers: 1820000},
		{Month: "Jul 2023", TotalUsers: 2520000, ActiveUsers: 1850000},
		{Month: "Aug 2023", TotalUsers: 2580000, ActiveUsers: 1890000},
		{Month: "Sep 2023", TotalUsers: 2630000, ActiveUsers: 1920000},
		{Month: "Oct 2023", TotalUsers: 2680000, ActiveUsers: 1950000},
		{Month: "Nov 2023", TotalUsers: 2720000, ActiveUsers: 1980000},
		{Month: "Dec 2023", TotalUsers: 2780000, ActiveUsers: 2020000},
		{Month: "Jan 2024", TotalUsers: 2850000, ActiveUsers: 2100000},
	}
}

// dated stamps records with dates walking back from asOf, spread evenly
// over a window of the given number of days.
func dated(window int, recs []model.StreamRecord) []model.StreamRecord {
	for i := range recs {
		recs[i].Date = asOf.AddDate(0, 0, -i*window/len(recs))
	}
	return recs
}
