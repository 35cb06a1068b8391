package types

// NoDescription is the notes placeholder for time entries without notes.
const NoDescription = "No description"

// NormalizedCommit is a provider-agnostic view of one commit.
type NormalizedCommit struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	Author  string `json:"author"`
	Date    string `json:"date"`
	Changes string `json:"changes"`
}

// NormalizedTimeEntry is a provider-agnostic view of one time entry.
type NormalizedTimeEntry struct {
	ID      int64   `json:"id"`
	Project string  `json:"project"`
	Task    string  `json:"task"`
	Hours   float64 `json:"hours"`
	Notes   string  `json:"notes"`
	Client  string  `json:"client"`
	Date    string  `json:"date"`
}

// Sources is the provenance returned alongside generated text.
// A nil slice means the source was not queried or yielded nothing usable.
type Sources struct {
	Commits     []NormalizedCommit    `json:"commits,omitempty"`
	TimeEntries []NormalizedTimeEntry `json:"time_entries,omitempty"`
}

// Empty reports whether neither source holds any record.
func (s Sources) Empty() bool {
	return len(s.Commits) == 0 && len(s.TimeEntries) == 0
}

// GenerationResponse is the envelope returned to callers on success and failure.
type GenerationResponse struct {
	Success bool      `json:"success"`
	Text    string    `json:"text,omitempty"`
	Error   string    `json:"error,omitempty"`
	Code    ErrorKind `json:"code,omitempty"`
	Details string    `json:"details,omitempty"`
	Sources *Sources  `json:"sources,omitempty"`

	RequestID string `json:"request_id,omitempty"`
}

// FetchResponse is the envelope of the direct commit and time entry endpoints.
type FetchResponse struct {
	Success     bool                  `json:"success"`
	Commits     []NormalizedCommit    `json:"commits,omitempty"`
	TimeEntries []NormalizedTimeEntry `json:"time_entries,omitempty"`
	Error       string                `json:"error,omitempty"`
	Code        ErrorKind             `json:"code,omitempty"`
	Details     string                `json:"details,omitempty"`
	RequestID   string                `json:"request_id,omitempty"`
}
