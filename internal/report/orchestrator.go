// Package report runs the end-to-end report pipeline: source selection,
// fetch, prompt assembly and text generation.
package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/af-corp/autodaily/internal/config"
	"github.com/af-corp/autodaily/internal/filter/injection"
	"github.com/af-corp/autodaily/internal/prompt"
	"github.com/af-corp/autodaily/internal/sources"
	"github.com/af-corp/autodaily/internal/telemetry"
	"github.com/af-corp/autodaily/internal/types"
)

// TextGenerator produces report text from a prompt.
type TextGenerator interface {
	Available() bool
	Generate(ctx context.Context, prompt string) (string, error)
}

// SourceFetcher runs the selected source adapters.
type SourceFetcher interface {
	Fetch(ctx context.Context, sel sources.Selection, creds types.Credentials, hours int) sources.Outcome
}

// Redactor masks secrets in the copy of the sources that goes into the prompt.
type Redactor interface {
	RedactSources(src types.Sources) (types.Sources, int)
}

// Screener neutralizes prompt injection attempts in commit messages and
// notes before they reach the prompt.
type Screener interface {
	ScreenSources(src types.Sources) (types.Sources, injection.Summary)
}

// Filters are applied in order to the prompt copy of the sources. Either
// may be nil.
type Filters struct {
	Redactor Redactor
	Screener Screener
}

// Result is a generated report and the records that backed it. On failure
// after sources were fetched, Generate still returns a Result carrying them.
type Result struct {
	Text    string
	Sources types.Sources
}

// Orchestrator composes the pipeline. It holds no per-request state.
type Orchestrator struct {
	fetcher   SourceFetcher
	generator TextGenerator
	filters   Filters
	cfg       func() config.ReportConfig
	metrics   *telemetry.Metrics
}

// New creates an Orchestrator. metrics may be nil.
func New(fetcher SourceFetcher, generator TextGenerator, filters Filters, cfg func() config.ReportConfig, metrics *telemetry.Metrics) *Orchestrator {
	return &Orchestrator{
		fetcher:   fetcher,
		generator: generator,
		filters:   filters,
		cfg:       cfg,
		metrics:   metrics,
	}
}

// Generate produces a report for req using creds. Every returned error is a
// *types.Error.
func (o *Orchestrator) Generate(ctx context.Context, req types.GenerationRequest, creds types.Credentials) (*Result, error) {
	start := time.Now()
	res, err := o.generate(ctx, req, creds)

	outcome := "success"
	if err != nil {
		outcome = string(types.KindOf(err))
	}
	if o.metrics != nil {
		o.metrics.RecordReport(modeLabel(req.Mode), styleLabel(req.Style), outcome)
	}

	attrs := []any{
		"request_id", req.RequestID,
		"mode", req.Mode,
		"style", req.Style,
		"period_hours", req.PeriodHours,
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if err != nil {
		e := types.AsError(err)
		slog.Warn("report failed", append(attrs, "kind", e.Kind, "source", e.Source, "details", e.Details)...)
	} else {
		slog.Info("report generated", append(attrs,
			"commits", len(res.Sources.Commits),
			"time_entries", len(res.Sources.TimeEntries),
		)...)
	}
	return res, err
}

func (o *Orchestrator) generate(ctx context.Context, req types.GenerationRequest, creds types.Credentials) (*Result, error) {
	if req.Mode == "" {
		return nil, types.NewError(types.KindModeMissing, "Generation mode not specified", "")
	}
	mode, ok := types.ParseMode(string(req.Mode))
	if !ok {
		return nil, types.NewError(types.KindInvalidMode, "Invalid generation mode", "unknown mode "+string(req.Mode))
	}
	style, ok := types.ParseStyle(string(req.Style))
	if !ok {
		return nil, types.NewError(types.KindInvalidRequest, "Invalid report style", "unknown style "+string(req.Style))
	}
	if req.PeriodHours < 0 || req.PeriodHours > types.MaxPeriodHours {
		return nil, types.NewError(types.KindInvalidRequest, "Invalid period",
			fmt.Sprintf("period_hours must be between 0 and %d", types.MaxPeriodHours))
	}

	if o.generator == nil || !o.generator.Available() {
		return nil, types.NewError(types.KindServiceUnavailable, "Generation service not configured",
			"No API key is configured for the text-generation provider")
	}

	avail := sources.AvailabilityOf(creds)
	switch {
	case mode.RequiresCommits() && !avail.Commits:
		return nil, types.NewError(types.KindConfigIncomplete, "Incomplete configuration",
			"Azure DevOps credentials are required for mode "+string(mode))
	case mode.RequiresTimeEntries() && !avail.TimeEntries:
		return nil, types.NewError(types.KindConfigIncomplete, "Incomplete configuration",
			"Harvest credentials are required for mode "+string(mode))
	}

	sel := sources.SelectSources(mode, avail)
	out := o.fetcher.Fetch(ctx, sel, creds, req.PeriodHours)
	res := &Result{Sources: out.Sources}

	if out.Sources.Empty() {
		if o.cfg().PropagateSourceErrors && out.Failed() {
			return res, types.MostSpecific(out.CommitErr, out.TimeEntriesErr)
		}
		return res, types.NewError(types.KindNoDataFound, "No data found",
			"No commits or time entries were found for the selected period")
	}
	if out.Failed() {
		slog.Warn("continuing with partial data",
			"request_id", req.RequestID,
			"commits_failed", out.CommitErr != nil,
			"time_entries_failed", out.TimeEntriesErr != nil,
		)
	}

	promptSources := o.filterForPrompt(req.RequestID, out.Sources)

	var custom string
	if mode.AllowsCustomInstruction() {
		custom = req.CustomInstruction
	}
	text, err := o.generator.Generate(ctx, prompt.Build(promptSources, req.PeriodHours, style, custom))
	if err != nil {
		var te *types.Error
		if !errors.As(err, &te) {
			te = types.NewError(types.KindGenerationFailed, "Failed to generate report", err.Error())
		}
		return res, te
	}

	res.Text = text
	return res, nil
}

// filterForPrompt returns the copy of src that is rendered into the prompt.
// The sources returned to the caller are never filtered.
func (o *Orchestrator) filterForPrompt(requestID string, src types.Sources) types.Sources {
	if o.filters.Redactor != nil {
		var redacted int
		src, redacted = o.filters.Redactor.RedactSources(src)
		if redacted > 0 {
			slog.Warn("secrets redacted from prompt", "request_id", requestID, "detections", redacted)
			o.recordFilterAction("secrets", "redact", redacted)
		}
	}

	if o.filters.Screener != nil {
		var sum injection.Summary
		src, sum = o.filters.Screener.ScreenSources(src)
		if sum.Flagged+sum.Neutralized > 0 {
			slog.Warn("prompt injection detected in sources",
				"request_id", requestID,
				"detections", sum.Detections,
				"flagged", sum.Flagged,
				"neutralized", sum.Neutralized,
				"score", sum.Score,
			)
			o.recordFilterAction("injection", "flag", sum.Flagged)
			o.recordFilterAction("injection", "neutralize", sum.Neutralized)
		}
	}
	return src
}

func (o *Orchestrator) recordFilterAction(filter, action string, n int) {
	if o.metrics != nil {
		o.metrics.RecordFilterAction(filter, action, n)
	}
}

// Metric labels use canonical names; unparseable input is labelled "invalid".
func modeLabel(m types.Mode) string {
	if mode, ok := types.ParseMode(string(m)); ok {
		return string(mode)
	}
	return "invalid"
}

func styleLabel(s types.Style) string {
	if style, ok := types.ParseStyle(string(s)); ok {
		return string(style)
	}
	return "invalid"
}
