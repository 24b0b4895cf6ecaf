package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func runScript(t *testing.T, script string) string {
	t.Helper()
	var out bytes.Buffer
	if err := runSession(t.Context(), testDeps(t), strings.NewReader(script), &out); err != nil {
		t.Fatalf("runSession: %v", err)
	}
	return out.String()
}

func TestSessionDrillDownToggles(t *testing.T) {
	out := runScript(t, strings.Join([]string{
		"artist Taylor Swift",
		"month Jan 2024",
		"artist Taylor Swift",
		"clear",
		"quit",
	}, "\n"))

	for _, want := range []string{
		"Last 30 days  •  artist: Taylor Swift  •  2 matching streams",
		"Last 30 days  •  artist: Taylor Swift  •  month: Jan 2024  •  2 matching streams",
		"Last 30 days  •  month: Jan 2024  •  10 matching streams",
		"Last 30 days  •  10 matching streams",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestSessionPickSelectsSongAndArtist(t *testing.T) {
	out := runScript(t, "pick 2\npick 9\n")
	if !strings.Contains(out, "artist: Olivia Rodrigo  •  song: vampire  •  1 matching streams") {
		t.Errorf("pick 2 status missing\n%s", out)
	}
	if !strings.Contains(out, "error: rank 9 out of range (1-5)") {
		t.Errorf("expected out-of-range error\n%s", out)
	}
}

func TestSessionRangeSwitch(t *testing.T) {
	out := runScript(t, "range 5d\nrange 7d\n")
	if !strings.Contains(out, "error:") {
		t.Errorf("unknown range should report an error\n%s", out)
	}
	if !strings.Contains(out, "Last 7 days  •  10 matching streams") {
		t.Errorf("range 7d status missing\n%s", out)
	}
}

func TestSessionTableCommands(t *testing.T) {
	out := runScript(t, "search vamp\nsearch\nsize 20\nsort trend\nsort trend\nnext\n")
	for _, want := range []string{
		"vampire",
		"Page 1 of 1 • 1 rows • 10 per page",
		"Page 1 of 1 • 10 rows • 20 per page",
		"sorted by trend asc",
		"sorted by trend desc",
		"▲ 7 rising  ▼ 3 falling",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestSessionUnknownCommand(t *testing.T) {
	out := runScript(t, "dance\n")
	if !strings.Contains(out, `error: unknown command "dance"`) {
		t.Errorf("expected unknown command error\n%s", out)
	}
}
