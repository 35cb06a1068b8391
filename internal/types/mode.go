package types

// Mode selects which sources feed a report and whether a custom instruction
// is honored.
type Mode string

const (
	ModeCommitsOnly     Mode = "commits-only"
	ModeTimeOnly        Mode = "time-only"
	ModeCombinedDefault Mode = "combined-default"
	ModeCombinedCustom  Mode = "combined-custom"
)

// Modes lists every mode in display order.
var Modes = []Mode{ModeCommitsOnly, ModeTimeOnly, ModeCombinedDefault, ModeCombinedCustom}

// ParseMode accepts the canonical names and the legacy names used by older
// clients (azure-only, harvest-only, combined-auto).
func ParseMode(s string) (Mode, bool) {
	switch s {
	case string(ModeCommitsOnly), "azure-only":
		return ModeCommitsOnly, true
	case string(ModeTimeOnly), "harvest-only":
		return ModeTimeOnly, true
	case string(ModeCombinedDefault), "combined-auto":
		return ModeCombinedDefault, true
	case string(ModeCombinedCustom):
		return ModeCombinedCustom, true
	default:
		return "", false
	}
}

// Combined reports whether the mode pulls from both sources.
func (m Mode) Combined() bool {
	return m == ModeCombinedDefault || m == ModeCombinedCustom
}

// AllowsCustomInstruction reports whether a caller-supplied instruction may
// replace the built-in one.
func (m Mode) AllowsCustomInstruction() bool {
	return m == ModeCombinedCustom
}

// RequiresCommits returns true if the mode cannot run without commit credentials.
func (m Mode) RequiresCommits() bool { return m == ModeCommitsOnly }

// RequiresTimeEntries returns true if the mode cannot run without time credentials.
func (m Mode) RequiresTimeEntries() bool { return m == ModeTimeOnly }

// ModeInfo describes a mode for clients building a picker.
type ModeInfo struct {
	Mode                Mode   `json:"mode"`
	Label               string `json:"label"`
	Description         string `json:"description"`
	RequiresCommits     bool   `json:"requires_commits"`
	RequiresTimeEntries bool   `json:"requires_time_entries"`
}

// Catalogue returns every mode with its label and credential requirements.
// Combined modes list both sources as required because they are only useful
// with both, even though either may be absent at run time.
func Catalogue() []ModeInfo {
	return []ModeInfo{
		{ModeCommitsOnly, "Commits only", "Report based only on Azure DevOps commits", true, false},
		{ModeTimeOnly, "Time entries only", "Report based only on Harvest time entries", false, true},
		{ModeCombinedDefault, "Combined", "Combine commits and time entries with the built-in instruction", true, true},
		{ModeCombinedCustom, "Combined (custom)", "Combine commits and time entries with your own instruction", true, true},
	}
}

// Style selects the built-in instruction template.
type Style string

const (
	StyleStandup   Style = "standup"
	StyleExecutive Style = "executive"
)

// ParseStyle accepts the canonical names and the legacy names
// (standard, professional). Empty input yields the standup style.
func ParseStyle(s string) (Style, bool) {
	switch s {
	case "", string(StyleStandup), "standard":
		return StyleStandup, true
	case string(StyleExecutive), "professional":
		return StyleExecutive, true
	default:
		return "", false
	}
}
