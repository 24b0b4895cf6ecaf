package util_test

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/derickschaefer/streamify/internal/util"
)

// ─── FormatNumber ─────────────────────────────────────────────────────────────

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0K"},
		{466000, "466.0K"},
		{999999, "1000.0K"},
		{1000000, "1.0M"},
		{1250000, "1.3M"},
		{1350000, "1.4M"},
		{2800000, "2.8M"},
		{168000000, "168.0M"},
		{-5, "-5"},
	}
	for _, c := range cases {
		if got := util.FormatNumber(c.in); got != c.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	cases := map[int64]string{
		0:       "$0",
		950:     "$950",
		5200000: "$5,200,000",
		-1250:   "-$1,250",
	}
	for in, want := range cases {
		if got := util.FormatCurrency(in); got != want {
			t.Errorf("FormatCurrency(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatCount(t *testing.T) {
	if got := util.FormatCount(2850000); got != "2,850,000" {
		t.Errorf("got %q", got)
	}
}

func TestFormatPercent(t *testing.T) {
	if got := util.FormatPercent(5.5); got != "+5.5%" {
		t.Errorf("got %q", got)
	}
	if got := util.FormatPercent(-1.25); !strings.HasPrefix(got, "-1.") {
		t.Errorf("got %q", got)
	}
	if got := util.FormatPercent(math.NaN()); got != "N/A" {
		t.Errorf("NaN: got %q", got)
	}
}

// ─── Parsing ──────────────────────────────────────────────────────────────────

func TestParseTrend(t *testing.T) {
	if v, ok := util.ParseTrend("+8.5%"); !ok || v != 8.5 {
		t.Errorf("+8.5%%: %v %v", v, ok)
	}
	if v, ok := util.ParseTrend(" -2.3% "); !ok || v != -2.3 {
		t.Errorf("-2.3%%: %v %v", v, ok)
	}
	if _, ok := util.ParseTrend("rising"); ok {
		t.Error("expected failure for non-numeric trend")
	}
}

func TestParseMonthLabel(t *testing.T) {
	for _, in := range []string{"Jan 2024", "January 2024", "2024-01"} {
		got, err := util.ParseMonthLabel(in)
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if got.Year() != 2024 || got.Month() != time.January {
			t.Errorf("%q: got %s", in, got)
		}
	}
	if _, err := util.ParseMonthLabel("13/2024"); err == nil {
		t.Error("expected error")
	}
}

func TestFormatDateZero(t *testing.T) {
	if got := util.FormatDate(time.Time{}); got != "" {
		t.Errorf("zero date: got %q", got)
	}
	d, err := util.ParseDate("2024-01-31")
	if err != nil || util.FormatDate(d) != "2024-01-31" {
		t.Errorf("round trip: %v %v", d, err)
	}
}

// ─── MultiError ───────────────────────────────────────────────────────────────

func TestMultiError(t *testing.T) {
	var m util.MultiError
	m.Add(nil)
	if m.Err() != nil {
		t.Fatal("empty MultiError should be nil")
	}
	m.Add(errors.New("a"))
	m.Add(errors.New("b"))
	if err := m.Err(); err == nil || err.Error() != "a; b" {
		t.Fatalf("got %v", err)
	}
}
