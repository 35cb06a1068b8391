package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/af-corp/autodaily/internal/types"
)

// Credential headers. Values are passed through to the upstream APIs and are
// never stored.
const (
	HeaderAzurePAT          = "X-Azure-Pat"
	HeaderAzureOrganization = "X-Azure-Organization"
	HeaderAzureProject      = "X-Azure-Project"
	HeaderAzureRepository   = "X-Azure-Repository"
	HeaderAzureUserEmail    = "X-Azure-User-Email"
	HeaderHarvestToken      = "X-Harvest-Token"
	HeaderHarvestAccountID  = "X-Harvest-Account-Id"
)

// Environment variables read by CredentialsFromEnv.
const (
	EnvAzurePAT          = "AZURE_DEVOPS_PAT"
	EnvAzureOrganization = "AZURE_DEVOPS_ORG"
	EnvAzureProject      = "AZURE_DEVOPS_PROJECT"
	EnvAzureRepository   = "AZURE_DEVOPS_REPOSITORY"
	EnvAzureUserEmail    = "AZURE_DEVOPS_USER_EMAIL"
	EnvHarvestToken      = "HARVEST_TOKEN"
	EnvHarvestAccountID  = "HARVEST_ACCOUNT_ID"
)

// Middleware returns a chi middleware that lifts the per-request upstream
// credentials out of the headers into the request context. Missing
// credentials are not an error here; the report pipeline decides what each
// mode requires.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			creds := CredentialsFromRequest(r)

			slog.Debug("request credentials",
				"request_id", w.Header().Get("X-Request-ID"),
				"azure_pat", safePrefix(creds.Azure.PAT),
				"azure_organization", creds.Azure.Organization,
				"harvest_token", safePrefix(creds.Harvest.Token),
				"harvest_account_id", creds.Harvest.AccountID,
			)

			ctx := ContextWithCredentials(r.Context(), creds)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CredentialsFromRequest reads the credential headers of r.
func CredentialsFromRequest(r *http.Request) types.Credentials {
	return CredentialsFromEnv(func(key string) string {
		return strings.TrimSpace(r.Header.Get(headerFor[key]))
	})
}

var headerFor = map[string]string{
	EnvAzurePAT:          HeaderAzurePAT,
	EnvAzureOrganization: HeaderAzureOrganization,
	EnvAzureProject:      HeaderAzureProject,
	EnvAzureRepository:   HeaderAzureRepository,
	EnvAzureUserEmail:    HeaderAzureUserEmail,
	EnvHarvestToken:      HeaderHarvestToken,
	EnvHarvestAccountID:  HeaderHarvestAccountID,
}

// CredentialsFromEnv builds credentials from environment-style lookups, such
// as os.Getenv.
func CredentialsFromEnv(getenv func(string) string) types.Credentials {
	return types.Credentials{
		Azure: types.AzureCredentials{
			PAT:          getenv(EnvAzurePAT),
			Organization: getenv(EnvAzureOrganization),
			Project:      getenv(EnvAzureProject),
			Repository:   getenv(EnvAzureRepository),
			UserEmail:    getenv(EnvAzureUserEmail),
		},
		Harvest: types.HarvestCredentials{
			Token:     getenv(EnvHarvestToken),
			AccountID: getenv(EnvHarvestAccountID),
		},
	}
}

// safePrefix returns a safe-to-log prefix of a token (never the full value).
func safePrefix(token string) string {
	if token == "" {
		return ""
	}
	if len(token) > 4 {
		return token[:4] + "..."
	}
	return "..."
}
