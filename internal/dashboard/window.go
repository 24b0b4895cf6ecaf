package dashboard

import (
	"time"

	"github.com/derickschaefer/streamify/internal/model"
	"github.com/derickschaefer/streamify/internal/util"
)

// MonthWindow derives the full-month window for a growth-series month label.
// "Jan 2024" spans 2024-01-01T00:00:00Z through the last nanosecond of
// January, both inclusive.
func MonthWindow(label string) (model.TimeWindow, error) {
	t, err := util.ParseMonthLabel(label)
	if err != nil {
		return model.TimeWindow{}, err
	}
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return model.TimeWindow{
		Start: start,
		End:   end,
		Label: util.FormatMonthLabel(start),
	}, nil
}
