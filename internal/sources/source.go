package sources

import (
	"context"

	"github.com/af-corp/autodaily/internal/types"
)

// CommitSource fetches normalized commits for a time window.
// Implementations return *types.Error for every failure.
type CommitSource interface {
	Name() string
	FetchCommits(ctx context.Context, creds types.AzureCredentials, hours int) ([]types.NormalizedCommit, error)
}

// TimeEntrySource fetches normalized time entries for a time window.
// Implementations return *types.Error for every failure.
type TimeEntrySource interface {
	Name() string
	FetchTimeEntries(ctx context.Context, creds types.HarvestCredentials, hours int) ([]types.NormalizedTimeEntry, error)
}
