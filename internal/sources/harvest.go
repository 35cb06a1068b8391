package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/af-corp/autodaily/internal/config"
	"github.com/af-corp/autodaily/internal/locale"
	"github.com/af-corp/autodaily/internal/types"
)

// SourceHarvest names the time provider in logs, metrics and errors.
const SourceHarvest = "harvest"

// Harvest reads time entries from the Harvest v2 REST API.
type Harvest struct {
	cfg    config.HarvestConfig
	client *http.Client
	locale locale.Locale
	now    func() time.Time
}

func NewHarvest(cfg config.HarvestConfig, client *http.Client, loc locale.Locale) *Harvest {
	return &Harvest{cfg: cfg, client: client, locale: loc, now: loc.Now}
}

func (h *Harvest) Name() string { return SourceHarvest }

// FetchTimeEntries returns the entries spent within the last hours, at day
// granularity. Every failure is returned as a *types.Error.
func (h *Harvest) FetchTimeEntries(ctx context.Context, creds types.HarvestCredentials, hours int) ([]types.NormalizedTimeEntry, error) {
	if !creds.Complete() {
		return nil, h.fail(types.KindConfigIncomplete, "Incomplete configuration",
			"Token and account ID are required")
	}

	window := NewTimeWindow(h.now(), hours)
	from, to := window.Dates()

	params := url.Values{}
	params.Set("from", from)
	params.Set("to", to)
	params.Set("per_page", strconv.Itoa(h.pageSize()))
	endpoint := strings.TrimRight(h.cfg.BaseURL, "/") + "/time_entries?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, h.fail(types.KindInternalError, "Internal error", fmt.Sprintf("create http request: %v", err))
	}
	req.Header.Set("Authorization", "Bearer "+creds.Token)
	req.Header.Set("Harvest-Account-Id", creds.AccountID)
	req.Header.Set("Accept", "application/json")
	if h.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", h.cfg.UserAgent)
	}

	slog.Debug("fetching time entries", "source", SourceHarvest, "from", from, "to", to)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, h.fail(types.KindInternalError, "Internal error", err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, h.fail(types.KindInternalError, "Internal error", fmt.Sprintf("read harvest response: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("harvest returned error", "source", SourceHarvest, "status", resp.StatusCode)
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return nil, h.fail(types.KindInvalidCredentials, "Invalid or expired token",
				"Check your Harvest personal access token")
		case http.StatusForbidden:
			return nil, h.fail(types.KindAccessDenied, "Access denied",
				"Check the Harvest account ID")
		}
		return nil, h.fail(types.KindUpstreamError, "Failed to fetch time entries", string(body))
	}

	if !hasJSONContentType(resp.Header) {
		return nil, h.fail(types.KindUnexpectedResponse, "Unexpected response from Harvest",
			fmt.Sprintf("server returned %q instead of JSON", resp.Header.Get("Content-Type")))
	}

	var page harvestTimeEntriesResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, h.fail(types.KindInternalError, "Internal error", fmt.Sprintf("unmarshal harvest response: %v", err))
	}

	entries := make([]types.NormalizedTimeEntry, 0, len(page.TimeEntries))
	for _, e := range page.TimeEntries {
		entries = append(entries, h.normalize(e))
	}
	return entries, nil
}

func (h *Harvest) normalize(e harvestTimeEntry) types.NormalizedTimeEntry {
	notes := types.NoDescription
	if e.Notes != nil && *e.Notes != "" {
		notes = *e.Notes
	}

	date := e.SpentDate
	if d, err := h.locale.ParseDate(e.SpentDate); err == nil {
		date = h.locale.Date(d)
	}

	return types.NormalizedTimeEntry{
		ID:      e.ID,
		Project: e.Project.Name,
		Task:    e.Task.Name,
		Hours:   e.Hours,
		Notes:   notes,
		Client:  e.Client.Name,
		Date:    date,
	}
}

func (h *Harvest) pageSize() int {
	if h.cfg.PageSize <= 0 || h.cfg.PageSize > 100 {
		return 100
	}
	return h.cfg.PageSize
}

func (h *Harvest) fail(kind types.ErrorKind, message, details string) *types.Error {
	return types.NewError(kind, message, details).WithSource(SourceHarvest)
}

type harvestTimeEntriesResponse struct {
	TimeEntries  []harvestTimeEntry `json:"time_entries"`
	TotalEntries int                `json:"total_entries"`
}

type harvestTimeEntry struct {
	ID        int64   `json:"id"`
	SpentDate string  `json:"spent_date"`
	Hours     float64 `json:"hours"`
	Notes     *string `json:"notes"`
	Project   struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"project"`
	Task struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"task"`
	Client struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"client"`
}
