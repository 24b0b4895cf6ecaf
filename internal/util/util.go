// Package util provides shared utilities: display formatting, date and
// month-label parsing, trend parsing, and error collection.
package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ─── Number Formatting ────────────────────────────────────────────────────────

// printer groups digits the way the dashboard's en-US locale does.
var printer = message.NewPrinter(language.AmericanEnglish)

// FormatNumber abbreviates large counts for display.
//
//	>= 1,000,000 → "{n/1e6:.1f}M"
//	>= 1,000     → "{n/1e3:.1f}K"
//	otherwise    → plain integer
func FormatNumber(n int64) string {
	switch {
	case n >= 1_000_000:
		return toFixed1(float64(n)/1e6) + "M"
	case n >= 1_000:
		return toFixed1(float64(n)/1e3) + "K"
	default:
		return strconv.FormatInt(n, 10)
	}
}

// toFixed1 formats f with one decimal place, rounding exact halves up.
// strconv rounds exact ties to even; the only exact ties at one decimal are
// odd multiples of 0.25, so those are nudged up explicitly.
func toFixed1(f float64) string {
	q := f * 4
	if f >= 0 && q == math.Trunc(q) && math.Mod(q, 2) == 1 {
		return strconv.FormatFloat(math.Ceil(f*10)/10, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'f', 1, 64)
}

// FormatCount formats n with en-US digit grouping ("2,800,000").
func FormatCount(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatCurrency formats a whole-dollar amount as en-US currency with zero
// decimal places ("$5,200,000", "-$1,250").
func FormatCurrency(n int64) string {
	if n < 0 {
		return "-$" + printer.Sprintf("%d", -n)
	}
	return "$" + printer.Sprintf("%d", n)
}

// FormatPercent formats a growth percentage with an explicit sign ("+5.5%").
func FormatPercent(v float64) string {
	if math.IsNaN(v) {
		return "N/A"
	}
	if v >= 0 {
		return "+" + strconv.FormatFloat(v, 'f', 1, 64) + "%"
	}
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

// ─── Trend Parsing ────────────────────────────────────────────────────────────

// ParseTrend parses a signed percentage display value such as "+8.5%" or
// "-2.3%". Returns (NaN, false) when s is not a percentage.
func ParseTrend(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	if s == "" {
		return math.NaN(), false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN(), false
	}
	return v, true
}

// ─── Date Parsing ─────────────────────────────────────────────────────────────

const (
	dateLayout  = "2006-01-02"
	monthLayout = "Jan 2006"
)

// ParseDate parses a YYYY-MM-DD string into a time.Time (UTC midnight).
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatDate formats a time.Time as YYYY-MM-DD, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// ParseMonthLabel parses a growth-series month label ("Jan 2024").
// Full month names ("January 2024") and YYYY-MM are accepted too.
func ParseMonthLabel(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{monthLayout, "January 2006", "2006-01"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid month %q: expected e.g. \"Jan 2024\"", s)
}

// FormatMonthLabel formats t as a growth-series month label ("Jan 2024").
func FormatMonthLabel(t time.Time) string {
	return t.Format(monthLayout)
}

// ─── Error Helpers ────────────────────────────────────────────────────────────

// MultiError collects multiple errors and presents them as one.
type MultiError struct {
	Errors []error
}

func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

func (m *MultiError) Err() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}

func (m *MultiError) Error() string {
	msgs := make([]string, len(m.Errors))
	for i, e := range m.Errors {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}
