// Package secrets finds well-known credential shapes in free text so they can
// be masked before activity data leaves the process.
package secrets

import (
	"sort"
	"strings"

	"github.com/af-corp/autodaily/internal/types"
)

// Detection represents a detected secret in text.
type Detection struct {
	PatternName string // e.g. "aws-access-key"
	Start       int    // byte offset
	End         int    // byte offset
}

// Scanner scans text for secrets using pre-compiled regex patterns.
type Scanner struct {
	patterns []Pattern
}

// NewScanner creates a scanner with the default secret patterns.
func NewScanner() *Scanner {
	return &Scanner{patterns: DefaultPatterns()}
}

// Scan checks a single text string for secrets and returns all detections.
func (s *Scanner) Scan(text string) []Detection {
	var detections []Detection
	for _, p := range s.patterns {
		locs := p.Regex.FindAllStringIndex(text, -1)
		for _, loc := range locs {
			detections = append(detections, Detection{
				PatternName: p.Name,
				Start:       loc[0],
				End:         loc[1],
			})
		}
	}
	return detections
}

// Redact replaces every detection in text with [REDACTED:<pattern>].
// Overlapping detections collapse into one placeholder named after the
// earliest match.
func (s *Scanner) Redact(text string) (string, []Detection) {
	detections := s.Scan(text)
	if len(detections) == 0 {
		return text, nil
	}

	sort.SliceStable(detections, func(i, j int) bool {
		if detections[i].Start != detections[j].Start {
			return detections[i].Start < detections[j].Start
		}
		return detections[i].End > detections[j].End
	})

	var b strings.Builder
	last := 0
	for _, d := range detections {
		if d.Start < last {
			if d.End > last {
				last = d.End
			}
			continue
		}
		b.WriteString(text[last:d.Start])
		b.WriteString("[REDACTED:" + d.PatternName + "]")
		last = d.End
	}
	b.WriteString(text[last:])
	return b.String(), detections
}

// RedactSources returns a copy of src with secrets masked in commit messages
// and time-entry notes, plus the number of detections. src is not modified.
func (s *Scanner) RedactSources(src types.Sources) (types.Sources, int) {
	var (
		out   types.Sources
		count int
	)

	if src.Commits != nil {
		out.Commits = make([]types.NormalizedCommit, len(src.Commits))
		for i, c := range src.Commits {
			msg, found := s.Redact(c.Message)
			c.Message = msg
			count += len(found)
			out.Commits[i] = c
		}
	}

	if src.TimeEntries != nil {
		out.TimeEntries = make([]types.NormalizedTimeEntry, len(src.TimeEntries))
		for i, e := range src.TimeEntries {
			notes, found := s.Redact(e.Notes)
			e.Notes = notes
			count += len(found)
			out.TimeEntries[i] = e
		}
	}

	return out, count
}
