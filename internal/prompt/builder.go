// Package prompt renders the text sent to the generation provider from the
// normalized activity of a reporting period.
package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/af-corp/autodaily/internal/types"
)

const (
	// NoCommitsNotice replaces the commit list when there is nothing to show.
	NoCommitsNotice = "_Commits: none found for the period._"
	// NoTimeEntriesNotice replaces the time entry list when there is nothing to show.
	NoTimeEntriesNotice = "_Time entries: none found for the period._"

	closingLine = "Based on this data, write the report following the instructions above:"
)

// Build renders the full prompt: an instruction block followed by the data
// appendix. A non-blank customInstruction replaces the built-in instruction
// entirely; callers decide whether the mode allows one.
//
// Build does no I/O and is deterministic for a given input. Records appear in
// input order and projects in order of first appearance.
func Build(src types.Sources, hours int, style types.Style, customInstruction string) string {
	var b strings.Builder

	if custom := strings.TrimSpace(customInstruction); custom != "" {
		b.WriteString(custom)
	} else {
		b.WriteString(baseInstruction(hours, style))
	}

	b.WriteString("\n\n---\n\n")
	b.WriteString("## Available data:\n\n")

	writeCommits(&b, src.Commits)
	b.WriteString("\n")
	writeTimeEntries(&b, src.TimeEntries)

	b.WriteString("\n---\n\n")
	b.WriteString(closingLine)
	return b.String()
}

func writeCommits(b *strings.Builder, commits []types.NormalizedCommit) {
	b.WriteString("### Commits:\n\n")
	if len(commits) == 0 {
		b.WriteString(NoCommitsNotice + "\n")
		return
	}
	for _, c := range commits {
		fmt.Fprintf(b, "- **%s**: %s\n", c.ID, c.Message)
		fmt.Fprintf(b, "  - Author: %s | Date: %s\n", c.Author, c.Date)
		fmt.Fprintf(b, "  - Changes: %s\n", c.Changes)
	}
}

type projectGroup struct {
	name    string
	total   float64
	entries []types.NormalizedTimeEntry
}

func writeTimeEntries(b *strings.Builder, entries []types.NormalizedTimeEntry) {
	b.WriteString("### Time entries:\n")
	if len(entries) == 0 {
		b.WriteString("\n" + NoTimeEntriesNotice + "\n")
		return
	}

	for _, g := range groupByProject(entries) {
		fmt.Fprintf(b, "\n**%s** (%.2fh total):\n", g.name, g.total)
		for _, e := range g.entries {
			fmt.Fprintf(b, "- %s: %sh\n", e.Task, strconv.FormatFloat(e.Hours, 'f', -1, 64))
			if e.Notes != "" && e.Notes != types.NoDescription {
				fmt.Fprintf(b, "  - Notes: %s\n", e.Notes)
			}
		}
	}
}

func groupByProject(entries []types.NormalizedTimeEntry) []*projectGroup {
	var groups []*projectGroup
	index := make(map[string]*projectGroup)
	for _, e := range entries {
		g, ok := index[e.Project]
		if !ok {
			g = &projectGroup{name: e.Project}
			index[e.Project] = g
			groups = append(groups, g)
		}
		g.total += e.Hours
		g.entries = append(g.entries, e)
	}
	return groups
}
