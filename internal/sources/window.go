package sources

import (
	"time"

	"github.com/af-corp/autodaily/internal/types"
)

// TimeWindow is the inclusive range used to scope an upstream query.
type TimeWindow struct {
	From time.Time
	To   time.Time
}

// NewTimeWindow anchors a window of the given length to now. To is the end of
// now's day; From is the start of the day reached by going back hours from
// now. Zero (or negative) hours yields today only; hours beyond
// types.MaxPeriodHours are clamped to it.
func NewTimeWindow(now time.Time, hours int) TimeWindow {
	to := endOfDay(now)
	if hours <= 0 {
		return TimeWindow{From: startOfDay(now), To: to}
	}
	hours = min(hours, types.MaxPeriodHours)
	from := now.AddDate(0, 0, -(hours / 24)).Add(-time.Duration(hours%24) * time.Hour)
	return TimeWindow{From: startOfDay(from), To: to}
}

// ISO renders the bounds as UTC RFC 3339 timestamps with millisecond precision.
func (w TimeWindow) ISO() (from, to string) {
	const layout = "2006-01-02T15:04:05.000Z07:00"
	return w.From.UTC().Format(layout), w.To.UTC().Format(layout)
}

// Dates renders the bounds as calendar dates in the window's own zone.
func (w TimeWindow) Dates() (from, to string) {
	return w.From.Format(time.DateOnly), w.To.Format(time.DateOnly)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}
