package sources

import (
	"math"
	"testing"
	"time"

	"github.com/af-corp/autodaily/internal/types"
)

func TestNewTimeWindow_Invariants(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, loc)

	for _, hours := range []int{0, 24, 48, 72, 168, 336, 720} {
		w := NewTimeWindow(now, hours)

		if w.From.After(w.To) {
			t.Errorf("hours=%d: From %s after To %s", hours, w.From, w.To)
		}
		if h, m, s := w.To.Clock(); h != 23 || m != 59 || s != 59 {
			t.Errorf("hours=%d: To %s is not end of day", hours, w.To)
		}
		if w.To.Nanosecond() != int(999*time.Millisecond) {
			t.Errorf("hours=%d: To nanoseconds = %d", hours, w.To.Nanosecond())
		}
		if h, m, s := w.From.Clock(); h != 0 || m != 0 || s != 0 || w.From.Nanosecond() != 0 {
			t.Errorf("hours=%d: From %s is not start of day", hours, w.From)
		}
		if y, mo, d := w.To.Date(); y != 2024 || mo != 3 || d != 15 {
			t.Errorf("hours=%d: To should stay on the current day, got %s", hours, w.To)
		}
	}
}

func TestNewTimeWindow_Bounds(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		hours    int
		fromDate string
	}{
		{0, "2024-03-15"},
		{-5, "2024-03-15"},
		{24, "2024-03-14"},
		{48, "2024-03-13"},
		{72, "2024-03-12"},
		{168, "2024-03-08"},
		{336, "2024-03-01"},
		{720, "2024-02-14"},
		{15, "2024-03-14"}, // 23:30 the day before
		{14, "2024-03-15"},
	}

	for _, tt := range tests {
		from, to := NewTimeWindow(now, tt.hours).Dates()
		if from != tt.fromDate {
			t.Errorf("hours=%d: from = %s, want %s", tt.hours, from, tt.fromDate)
		}
		if to != "2024-03-15" {
			t.Errorf("hours=%d: to = %s, want 2024-03-15", tt.hours, to)
		}
	}
}

func TestNewTimeWindow_ClampsLongPeriods(t *testing.T) {
	now := time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)
	capped := NewTimeWindow(now, types.MaxPeriodHours)

	for _, hours := range []int{types.MaxPeriodHours, types.MaxPeriodHours + 1, 3_000_000, 5_000_000, math.MaxInt} {
		w := NewTimeWindow(now, hours)
		if w.From.After(w.To) {
			t.Errorf("hours=%d: From %s after To %s", hours, w.From, w.To)
		}
		if !w.From.Equal(capped.From) {
			t.Errorf("hours=%d: From = %s, want clamped %s", hours, w.From, capped.From)
		}
	}

	if from, _ := capped.Dates(); from != "2023-01-09" {
		t.Errorf("capped from = %s, want 2023-01-09", from)
	}
}

func TestTimeWindow_ISO(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	w := NewTimeWindow(time.Date(2024, 1, 10, 9, 0, 0, 0, loc), 24)

	from, to := w.ISO()
	if from != "2024-01-09T03:00:00.000Z" {
		t.Errorf("from = %s", from)
	}
	if to != "2024-01-11T02:59:59.999Z" {
		t.Errorf("to = %s", to)
	}
}
