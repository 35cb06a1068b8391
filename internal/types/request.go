package types

// DefaultPeriodHours is used when a request omits the period.
const DefaultPeriodHours = 24

// MaxPeriodHours is the longest period a report may cover (366 days).
const MaxPeriodHours = 366 * 24

// GenerationRequest is the canonical representation of a report request.
type GenerationRequest struct {
	Mode              Mode   `json:"mode"`
	CustomInstruction string `json:"custom_instruction,omitempty"`
	PeriodHours       int    `json:"period_hours"`
	Style             Style  `json:"report_style"`

	// Set by the HTTP layer
	RequestID string `json:"-"`
}

// AzureCredentials addresses one Azure DevOps repository.
type AzureCredentials struct {
	PAT          string
	Organization string
	Project      string
	Repository   string
	UserEmail    string // optional author filter
}

// Present reports whether the caller supplied this credential set at all.
func (c AzureCredentials) Present() bool { return c.PAT != "" }

// Complete reports whether every required field is set.
func (c AzureCredentials) Complete() bool {
	return c.PAT != "" && c.Organization != "" && c.Project != "" && c.Repository != ""
}

// HarvestCredentials addresses one Harvest account.
type HarvestCredentials struct {
	Token     string
	AccountID string
}

func (c HarvestCredentials) Present() bool  { return c.Token != "" }
func (c HarvestCredentials) Complete() bool { return c.Token != "" && c.AccountID != "" }

// Credentials is the per-call bundle supplied by the caller. It is never stored.
type Credentials struct {
	Azure   AzureCredentials
	Harvest HarvestCredentials
}
