package sources

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/af-corp/autodaily/internal/config"
	"github.com/af-corp/autodaily/internal/locale"
	"github.com/af-corp/autodaily/internal/types"
)

// SourceAzureDevOps names the commit provider in logs, metrics and errors.
const SourceAzureDevOps = "azure_devops"

// AzureDevOps reads commit history from the Azure DevOps Git REST API.
type AzureDevOps struct {
	cfg    config.AzureDevOpsConfig
	client *http.Client
	locale locale.Locale
	now    func() time.Time
}

func NewAzureDevOps(cfg config.AzureDevOpsConfig, client *http.Client, loc locale.Locale) *AzureDevOps {
	return &AzureDevOps{cfg: cfg, client: client, locale: loc, now: loc.Now}
}

func (a *AzureDevOps) Name() string { return SourceAzureDevOps }

// FetchCommits returns the commits authored within the last hours. Every
// failure is returned as a *types.Error; nothing panics past this method.
func (a *AzureDevOps) FetchCommits(ctx context.Context, creds types.AzureCredentials, hours int) ([]types.NormalizedCommit, error) {
	if !creds.Complete() {
		return nil, a.fail(types.KindConfigIncomplete, "Incomplete configuration",
			"PAT, organization, project and repository are required")
	}

	window := NewTimeWindow(a.now(), hours)
	req, err := a.newRequest(ctx, creds, window)
	if err != nil {
		return nil, a.fail(types.KindInternalError, "Internal error", err.Error())
	}

	slog.Debug("fetching commits",
		"source", SourceAzureDevOps,
		"organization", creds.Organization,
		"project", creds.Project,
		"repository", creds.Repository,
		"from", window.From,
		"to", window.To,
	)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, a.fail(types.KindInternalError, "Internal error", err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, a.fail(types.KindInternalError, "Internal error", fmt.Sprintf("read azure devops response: %v", err))
	}

	isJSON := hasJSONContentType(resp.Header)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("azure devops returned error",
			"source", SourceAzureDevOps,
			"status", resp.StatusCode,
		)
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return nil, a.fail(types.KindInvalidCredentials, "Invalid or expired token",
				"Check your Azure DevOps personal access token. It may have expired or lack the Code (Read) scope.")
		case http.StatusNotFound:
			return nil, a.fail(types.KindNotFound, "Resource not found",
				"Check the organization, project and repository names")
		}
		details := fmt.Sprintf("Status: %d", resp.StatusCode)
		if isJSON && len(body) > 0 {
			details = string(body)
		} else if !isJSON {
			details = fmt.Sprintf("Status: %d; server returned non-JSON response (%s)", resp.StatusCode, resp.Header.Get("Content-Type"))
		}
		return nil, a.fail(types.KindUpstreamError, "Failed to fetch commits", details)
	}

	if !isJSON {
		return nil, a.fail(types.KindUnexpectedResponse, "Unexpected response from Azure DevOps",
			fmt.Sprintf("server returned %q instead of JSON", resp.Header.Get("Content-Type")))
	}

	var page azureCommitsResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, a.fail(types.KindInternalError, "Internal error", fmt.Sprintf("unmarshal azure devops response: %v", err))
	}

	commits := make([]types.NormalizedCommit, 0, len(page.Value))
	for _, c := range page.Value {
		commits = append(commits, a.normalize(c))
	}
	return commits, nil
}

func (a *AzureDevOps) newRequest(ctx context.Context, creds types.AzureCredentials, window TimeWindow) (*http.Request, error) {
	from, to := window.ISO()
	params := url.Values{}
	params.Set("api-version", a.cfg.APIVersion)
	params.Set("searchCriteria.fromDate", from)
	params.Set("searchCriteria.toDate", to)
	params.Set("$top", strconv.Itoa(a.pageSize()))
	if creds.UserEmail != "" {
		params.Set("searchCriteria.author", creds.UserEmail)
	}

	endpoint := fmt.Sprintf("%s/%s/%s/_apis/git/repositories/%s/commits?%s",
		strings.TrimRight(a.cfg.BaseURL, "/"),
		escapeSegment(creds.Organization),
		escapeSegment(creds.Project),
		escapeSegment(creds.Repository),
		params.Encode(),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(":"+creds.PAT)))
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (a *AzureDevOps) normalize(c azureCommit) types.NormalizedCommit {
	id := c.CommitID
	if len(id) > 8 {
		id = id[:8]
	}
	message, _, _ := strings.Cut(c.Comment, "\n")

	date := c.Author.Date
	if t, err := time.Parse(time.RFC3339, c.Author.Date); err == nil {
		date = a.locale.DateTime(t)
	}

	var add, edit, del int
	if c.ChangeCounts != nil {
		add, edit, del = c.ChangeCounts.Add, c.ChangeCounts.Edit, c.ChangeCounts.Delete
	}

	return types.NormalizedCommit{
		ID:      id,
		Message: strings.TrimRight(message, "\r"),
		Author:  c.Author.Name,
		Date:    date,
		Changes: fmt.Sprintf("+%d ~%d -%d", add, edit, del),
	}
}

func (a *AzureDevOps) pageSize() int {
	if a.cfg.PageSize <= 0 || a.cfg.PageSize > 100 {
		return 100
	}
	return a.cfg.PageSize
}

func (a *AzureDevOps) fail(kind types.ErrorKind, message, details string) *types.Error {
	return types.NewError(kind, message, details).WithSource(SourceAzureDevOps)
}

func hasJSONContentType(h http.Header) bool {
	mediaType, _, err := mime.ParseMediaType(h.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

type azureCommitsResponse struct {
	Count int           `json:"count"`
	Value []azureCommit `json:"value"`
}

type azureCommit struct {
	CommitID string `json:"commitId"`
	Comment  string `json:"comment"`
	Author   struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Date  string `json:"date"`
	} `json:"author"`
	ChangeCounts *struct {
		Add    int `json:"Add"`
		Edit   int `json:"Edit"`
		Delete int `json:"Delete"`
	} `json:"changeCounts"`
	URL string `json:"url"`
}
