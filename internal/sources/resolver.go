package sources

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/af-corp/autodaily/internal/telemetry"
	"github.com/af-corp/autodaily/internal/types"
)

// Availability records which credential sets the caller supplied.
type Availability struct {
	Commits     bool
	TimeEntries bool
}

// AvailabilityOf derives availability from a credentials bundle.
func AvailabilityOf(creds types.Credentials) Availability {
	return Availability{
		Commits:     creds.Azure.Present(),
		TimeEntries: creds.Harvest.Present(),
	}
}

// Selection says which adapters to invoke for a request.
type Selection struct {
	Commits     bool
	TimeEntries bool
}

// Concurrent reports whether both adapters run, in which case they run together.
func (s Selection) Concurrent() bool { return s.Commits && s.TimeEntries }

// None reports whether no adapter would run.
func (s Selection) None() bool { return !s.Commits && !s.TimeEntries }

// SelectSources maps a mode and the available credential sets to the adapters
// to invoke. Single-source modes never touch the other source; combined modes
// use whatever is present.
func SelectSources(mode types.Mode, avail Availability) Selection {
	switch mode {
	case types.ModeCommitsOnly:
		return Selection{Commits: avail.Commits}
	case types.ModeTimeOnly:
		return Selection{TimeEntries: avail.TimeEntries}
	case types.ModeCombinedDefault, types.ModeCombinedCustom:
		return Selection{Commits: avail.Commits, TimeEntries: avail.TimeEntries}
	default:
		return Selection{}
	}
}

// Outcome holds what each selected adapter produced. A failed adapter leaves
// its slice nil and records its error; the other side is unaffected.
type Outcome struct {
	Sources        types.Sources
	CommitErr      error
	TimeEntriesErr error
}

// Failed reports whether any selected adapter failed.
func (o Outcome) Failed() bool { return o.CommitErr != nil || o.TimeEntriesErr != nil }

// Fetcher runs the selected adapters.
type Fetcher struct {
	mu          sync.RWMutex
	commits     CommitSource
	timeEntries TimeEntrySource
	metrics     *telemetry.Metrics
}

func NewFetcher(commits CommitSource, timeEntries TimeEntrySource, metrics *telemetry.Metrics) *Fetcher {
	return &Fetcher{commits: commits, timeEntries: timeEntries, metrics: metrics}
}

// Swap replaces both adapters. Fetches already running keep the adapters
// they started with.
func (f *Fetcher) Swap(commits CommitSource, timeEntries TimeEntrySource) {
	f.mu.Lock()
	f.commits = commits
	f.timeEntries = timeEntries
	f.mu.Unlock()
}

// Fetch invokes the adapters named by sel and waits for all of them. When both
// are selected they run concurrently; neither failure cancels the other.
func (f *Fetcher) Fetch(ctx context.Context, sel Selection, creds types.Credentials, hours int) Outcome {
	var (
		out Outcome
		g   errgroup.Group
	)

	f.mu.RLock()
	commitSrc, timeSrc := f.commits, f.timeEntries
	f.mu.RUnlock()

	if sel.Commits && commitSrc != nil {
		g.Go(func() error {
			start := time.Now()
			commits, err := commitSrc.FetchCommits(ctx, creds.Azure, hours)
			f.record(commitSrc.Name(), start, len(commits), err)
			if err != nil {
				out.CommitErr = err
				return nil
			}
			out.Sources.Commits = commits
			return nil
		})
	}

	if sel.TimeEntries && timeSrc != nil {
		g.Go(func() error {
			start := time.Now()
			entries, err := timeSrc.FetchTimeEntries(ctx, creds.Harvest, hours)
			f.record(timeSrc.Name(), start, len(entries), err)
			if err != nil {
				out.TimeEntriesErr = err
				return nil
			}
			out.Sources.TimeEntries = entries
			return nil
		})
	}

	// Goroutines never return errors; failures travel in Outcome.
	_ = g.Wait()
	return out
}

func (f *Fetcher) record(source string, start time.Time, count int, err error) {
	duration := time.Since(start)
	outcome := "success"
	if err != nil {
		outcome = string(types.KindOf(err))
		e := types.AsError(err)
		slog.Warn("source fetch failed",
			"source", source,
			"kind", e.Kind,
			"error", e.Message,
			"details", e.Details,
			"duration_ms", duration.Milliseconds(),
		)
	} else {
		slog.Info("source fetch completed",
			"source", source,
			"count", count,
			"duration_ms", duration.Milliseconds(),
		)
	}
	if f.metrics != nil {
		f.metrics.RecordSourceFetch(source, outcome, float64(duration.Milliseconds()), count)
	}
}
