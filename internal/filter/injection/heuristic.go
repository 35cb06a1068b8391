// Package injection screens commit messages and time-entry notes for text
// that tries to steer the model. Commits may come from every contributor to
// a shared repository, so their messages are untrusted prompt input.
package injection

import (
	"sort"
	"strings"

	"github.com/af-corp/autodaily/internal/config"
	"github.com/af-corp/autodaily/internal/types"
)

// Detection records a matched injection pattern.
type Detection struct {
	RuleName string
	Severity float64
	Category string
	Start    int
	End      int
}

// Action is what the scanner did with one record.
type Action string

const (
	ActionPass       Action = "pass"
	ActionFlag       Action = "flag"
	ActionNeutralize Action = "neutralize"
)

// Summary totals a ScreenSources pass.
type Summary struct {
	Detections  int
	Flagged     int     // records kept verbatim but logged
	Neutralized int     // records whose matched text was replaced
	Score       float64 // highest severity seen
}

// Scanner scans text for prompt injection patterns.
type Scanner struct {
	rules []Rule
	cfg   func() config.InjectionFilterConfig
}

// NewScanner creates a prompt injection scanner. cfg is read on every call.
func NewScanner(cfg func() config.InjectionFilterConfig) *Scanner {
	return &Scanner{rules: DefaultRules(), cfg: cfg}
}

func (s *Scanner) Name() string  { return "injection" }
func (s *Scanner) Enabled() bool { return s.cfg().Enabled }

// Scan checks a single text string and returns all detections.
func (s *Scanner) Scan(text string) []Detection {
	var detections []Detection
	for _, r := range s.rules {
		locs := r.Regex.FindAllStringIndex(text, -1)
		for _, loc := range locs {
			detections = append(detections, Detection{
				RuleName: r.Name,
				Severity: r.Severity,
				Category: r.Category,
				Start:    loc[0],
				End:      loc[1],
			})
		}
	}
	return detections
}

// Screen scans text and applies the configured thresholds. The returned text
// has every match replaced with [FILTERED:<rule>] when the highest severity
// reaches the neutralize threshold, and is unchanged otherwise.
func (s *Scanner) Screen(text string) (string, []Detection, Action) {
	detections := s.Scan(text)
	score := maxSeverity(detections)
	cfg := s.cfg()

	switch {
	case len(detections) == 0:
		return text, nil, ActionPass
	case score >= cfg.NeutralizeThreshold:
		return neutralize(text, detections), detections, ActionNeutralize
	case score >= cfg.FlagThreshold:
		return text, detections, ActionFlag
	}
	return text, detections, ActionPass
}

// ScreenSources returns a copy of src with commit messages and notes
// screened. src is not modified. When the scanner is disabled src is returned
// as is.
func (s *Scanner) ScreenSources(src types.Sources) (types.Sources, Summary) {
	var sum Summary
	if !s.Enabled() {
		return src, sum
	}

	apply := func(text string) string {
		out, detections, action := s.Screen(text)
		sum.Detections += len(detections)
		sum.Score = max(sum.Score, maxSeverity(detections))
		switch action {
		case ActionFlag:
			sum.Flagged++
		case ActionNeutralize:
			sum.Neutralized++
		}
		return out
	}

	var out types.Sources
	if src.Commits != nil {
		out.Commits = make([]types.NormalizedCommit, len(src.Commits))
		for i, c := range src.Commits {
			c.Message = apply(c.Message)
			out.Commits[i] = c
		}
	}
	if src.TimeEntries != nil {
		out.TimeEntries = make([]types.NormalizedTimeEntry, len(src.TimeEntries))
		for i, e := range src.TimeEntries {
			e.Notes = apply(e.Notes)
			out.TimeEntries[i] = e
		}
	}
	return out, sum
}

func maxSeverity(detections []Detection) float64 {
	score := 0.0
	for _, d := range detections {
		score = max(score, d.Severity)
	}
	return score
}

// neutralize replaces each detection with a placeholder; overlapping matches
// collapse into the earliest one.
func neutralize(text string, detections []Detection) string {
	sorted := append([]Detection(nil), detections...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End > sorted[j].End
	})

	var b strings.Builder
	last := 0
	for _, d := range sorted {
		if d.Start < last {
			last = max(last, d.End)
			continue
		}
		b.WriteString(text[last:d.Start])
		b.WriteString("[FILTERED:" + d.RuleName + "]")
		last = d.End
	}
	b.WriteString(text[last:])
	return b.String()
}
