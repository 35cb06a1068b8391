package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/af-corp/autodaily/internal/auth"
	"github.com/af-corp/autodaily/internal/config"
	"github.com/af-corp/autodaily/internal/httputil"
	"github.com/af-corp/autodaily/internal/report"
	"github.com/af-corp/autodaily/internal/sources"
	"github.com/af-corp/autodaily/internal/types"
)

const maxBodyBytes = 1 << 20

// ReportGenerator is the report pipeline as seen by the HTTP layer.
type ReportGenerator interface {
	Generate(ctx context.Context, req types.GenerationRequest, creds types.Credentials) (*report.Result, error)
}

// Handler holds dependencies for the autodaily HTTP handlers.
type Handler struct {
	reports ReportGenerator
	fetcher report.SourceFetcher
	cfg     func() *config.Config
	version string
}

func NewHandler(reports ReportGenerator, fetcher report.SourceFetcher, cfg func() *config.Config, version string) *Handler {
	return &Handler{
		reports: reports,
		fetcher: fetcher,
		cfg:     cfg,
		version: version,
	}
}

type reportRequest struct {
	Mode              types.Mode  `json:"mode"`
	CustomInstruction string      `json:"custom_instruction"`
	PeriodHours       *int        `json:"period_hours"`
	Style             types.Style `json:"report_style"`
}

// Reports handles POST /v1/reports
func (h *Handler) Reports(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		httputil.WriteBadRequestError(w, reqID, "Failed to read request body")
		return
	}
	defer r.Body.Close()

	var in reportRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &in); err != nil {
			httputil.WriteBadRequestError(w, reqID, "Invalid JSON: "+err.Error())
			return
		}
	}

	req := types.GenerationRequest{
		Mode:              in.Mode,
		CustomInstruction: in.CustomInstruction,
		PeriodHours:       types.DefaultPeriodHours,
		Style:             in.Style,
		RequestID:         reqID,
	}
	if in.PeriodHours != nil {
		req.PeriodHours = *in.PeriodHours
	}

	creds, _ := auth.CredentialsFromContext(r.Context())

	ctx := r.Context()
	if timeout := h.cfg().Report.Timeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, err := h.reports.Generate(ctx, req, creds)
	if err != nil {
		var src *types.Sources
		if res != nil {
			src = &res.Sources
		}
		httputil.WriteError(w, reqID, types.AsError(err), src)
		return
	}

	httputil.WriteJSON(w, reqID, http.StatusOK, types.GenerationResponse{
		Success:   true,
		Text:      res.Text,
		Sources:   &res.Sources,
		RequestID: reqID,
	})
}

// Commits handles GET /v1/commits
func (h *Handler) Commits(w http.ResponseWriter, r *http.Request) {
	h.fetchOne(w, r, sources.Selection{Commits: true})
}

// TimeEntries handles GET /v1/time-entries
func (h *Handler) TimeEntries(w http.ResponseWriter, r *http.Request) {
	h.fetchOne(w, r, sources.Selection{TimeEntries: true})
}

func (h *Handler) fetchOne(w http.ResponseWriter, r *http.Request, sel sources.Selection) {
	reqID := w.Header().Get("X-Request-ID")

	hours, err := periodParam(r)
	if err != nil {
		httputil.WriteFetchError(w, reqID, types.NewError(types.KindInvalidRequest, "Invalid period", err.Error()))
		return
	}

	creds, _ := auth.CredentialsFromContext(r.Context())
	start := time.Now()
	out := h.fetcher.Fetch(r.Context(), sel, creds, hours)

	fetchErr := out.CommitErr
	if sel.TimeEntries {
		fetchErr = out.TimeEntriesErr
	}
	if fetchErr != nil {
		httputil.WriteFetchError(w, reqID, types.AsError(fetchErr))
		return
	}

	slog.Info("source request completed",
		"request_id", reqID,
		"period_hours", hours,
		"commits", len(out.Sources.Commits),
		"time_entries", len(out.Sources.TimeEntries),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, reqID, http.StatusOK, types.FetchResponse{
		Success:     true,
		Commits:     out.Sources.Commits,
		TimeEntries: out.Sources.TimeEntries,
		RequestID:   reqID,
	})
}

// periodParam reads ?period_hours, defaulting to one day.
func periodParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("period_hours")
	if raw == "" {
		return types.DefaultPeriodHours, nil
	}
	hours, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("period_hours must be an integer")
	}
	if hours < 0 || hours > types.MaxPeriodHours {
		return 0, fmt.Errorf("period_hours must be between 0 and %d", types.MaxPeriodHours)
	}
	return hours, nil
}

// ListModes handles GET /v1/modes
func (h *Handler) ListModes(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, w.Header().Get("X-Request-ID"), http.StatusOK, modeListResponse{
		Object: "list",
		Data:   types.Catalogue(),
	})
}

type modeListResponse struct {
	Object string           `json:"object"`
	Data   []types.ModeInfo `json:"data"`
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"version": h.version,
	})
}
