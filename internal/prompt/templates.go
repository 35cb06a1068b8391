package prompt

import (
	"fmt"
	"strings"

	"github.com/af-corp/autodaily/internal/types"
)

// tier is a band of reporting periods that share framing and headings.
type tier int

const (
	tierDay              tier = iota // up to 24h
	tierTwoDays                      // up to 48h
	tierSinceLastStandup             // up to 72h, covers a weekend
	tierWeek                         // up to 168h
	tierSprint                       // up to 336h
	tierExtended                     // beyond two weeks
)

// Breakpoints are inclusive upper bounds in hours.
const (
	breakpointDay              = 24
	breakpointTwoDays          = 48
	breakpointSinceLastStandup = 72
	breakpointWeek             = 168
	breakpointSprint           = 336
)

func tierFor(hours int) tier {
	switch {
	case hours <= breakpointDay:
		return tierDay
	case hours <= breakpointTwoDays:
		return tierTwoDays
	case hours <= breakpointSinceLastStandup:
		return tierSinceLastStandup
	case hours <= breakpointWeek:
		return tierWeek
	case hours <= breakpointSprint:
		return tierSprint
	default:
		return tierExtended
	}
}

// periodLabel renders hours as the phrase used inside instructions.
func periodLabel(hours int) string {
	switch {
	case hours <= 0:
		return "today"
	case hours%24 != 0:
		return fmt.Sprintf("the last %d hours", hours)
	}
	switch days := hours / 24; days {
	case 1:
		return "the last 24 hours"
	case 7:
		return "the last week"
	case 14:
		return "the last two weeks"
	default:
		return fmt.Sprintf("the last %d days", days)
	}
}

type standupTemplate struct {
	role      string
	done      string
	next      string
	blockers  string
	guidance  []string
	summary   bool
	noBlocker string
}

var standupTemplates = map[tier]standupTemplate{
	tierDay: {
		role:      "You help a software developer prepare for today's Daily Scrum (standup).",
		done:      "What I did yesterday/today",
		next:      "What I will do today",
		blockers:  "Blockers",
		guidance:  []string{"Keep it tactical and short enough to read aloud in under a minute.", "Group related commits into a single activity."},
		noBlocker: "No blockers at the moment",
	},
	tierTwoDays: {
		role:      "You help a software developer prepare a standup covering the last two working days.",
		done:      "What I did over the last two days",
		next:      "What I will do next",
		blockers:  "Blockers",
		guidance:  []string{"Order activities from most to least recent.", "Group related commits into a single activity."},
		noBlocker: "No blockers at the moment",
	},
	tierSinceLastStandup: {
		role:      "You help a software developer prepare a standup covering everything since the last one, including any weekend or day off.",
		done:      "What I did since the last standup",
		next:      "What I will do today",
		blockers:  "Blockers",
		guidance:  []string{"Call out work that is still in progress from the previous days.", "Group related commits into a single activity."},
		noBlocker: "No blockers at the moment",
	},
	tierWeek: {
		role:      "You help a software developer write a weekly status update.",
		done:      "Highlights of the week",
		next:      "Plans for next week",
		blockers:  "Blockers and risks",
		guidance:  []string{"Summarize by theme or feature instead of listing every commit.", "Mention the hours spent on each main theme when available."},
		noBlocker: "No blockers or risks identified",
	},
	tierSprint: {
		role:      "You help a software developer write a sprint review summary.",
		done:      "Sprint accomplishments",
		next:      "Focus for the next sprint",
		blockers:  "Blockers and risks",
		guidance:  []string{"Summarize by deliverable and leave out routine maintenance unless it was significant.", "Report total hours per project when available."},
		summary:   true,
		noBlocker: "No blockers or risks identified",
	},
	tierExtended: {
		role:      "You help a software developer write an executive report covering a long period of work.",
		done:      "Key deliverables",
		next:      "Upcoming priorities",
		blockers:  "Risks and dependencies",
		guidance:  []string{"Focus on outcomes and their impact rather than individual tasks.", "Report total hours per project and highlight where most of the time went."},
		summary:   true,
		noBlocker: "No significant risks identified",
	},
}

var executiveTitles = map[tier]string{
	tierDay:              "Daily executive summary",
	tierTwoDays:          "Two-day executive summary",
	tierSinceLastStandup: "Executive summary since the last standup",
	tierWeek:             "Weekly executive summary",
	tierSprint:           "Sprint executive summary",
	tierExtended:         "Period executive summary",
}

// baseInstruction renders the built-in instruction for a style and period.
func baseInstruction(hours int, style types.Style) string {
	if style == types.StyleExecutive {
		return executiveInstruction(hours)
	}
	return standupInstruction(hours)
}

func standupInstruction(hours int) string {
	t := tierFor(hours)
	tmpl := standupTemplates[t]
	period := periodLabel(hours)

	var b strings.Builder
	b.WriteString(tmpl.role + "\n")
	fmt.Fprintf(&b, "Using the data provided, write a professional and concise report covering %s.\n\n", period)

	if tmpl.summary {
		b.WriteString("Open with a short summary paragraph (two or three sentences) describing the overall progress of the period.\n\n")
		b.WriteString("Then write 3 sections:\n\n")
	} else {
		b.WriteString("The report must have 3 sections:\n\n")
	}

	fmt.Fprintf(&b, "## %s\n", tmpl.done)
	b.WriteString("- List the completed activities clearly and objectively\n")
	for _, g := range tmpl.guidance {
		b.WriteString("- " + g + "\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n", tmpl.next)
	b.WriteString("- Suggest logical next steps based on the completed activities\n")
	b.WriteString("- Be specific but do not invent tasks\n\n")

	fmt.Fprintf(&b, "## %s\n", tmpl.blockers)
	b.WriteString("- List possible blockers identified in the data\n")
	fmt.Fprintf(&b, "- If none are apparent, state %q\n\n", tmpl.noBlocker)

	b.WriteString("Keep the tone professional and objective. Use bullet points to make it easy to read.")
	return b.String()
}

func executiveInstruction(hours int) string {
	t := tierFor(hours)
	period := periodLabel(hours)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", executiveTitles[t])
	fmt.Fprintf(&b, "You write status updates for engineering managers. Summarize the work of %s in a compact executive format.\n\n", period)

	if t >= tierSprint {
		b.WriteString("Start with an opening summary paragraph of at most three sentences focused on business impact.\n\n")
	}

	b.WriteString("Use exactly these sections:\n\n")
	b.WriteString("**Summary:** one sentence with the main outcome\n")
	b.WriteString("**Delivered:** up to five bullets, each a finished result\n")
	b.WriteString("**Next:** up to three bullets\n")
	b.WriteString("**Risks:** blockers or dependencies, or \"None\"\n\n")

	if t <= tierSinceLastStandup {
		b.WriteString("Stay at the level of today's priorities; skip implementation details.")
	} else {
		b.WriteString("Aggregate by theme and include hour totals where they show where effort went.")
	}
	return b.String()
}
