package types

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("fetch: %w", NewError(KindNotFound, "Resource not found", ""))

	tests := []struct {
		err  error
		want ErrorKind
	}{
		{nil, ""},
		{NewError(KindAccessDenied, "Access denied", ""), KindAccessDenied},
		{wrapped, KindNotFound},
		{errors.New("boom"), KindInternalError},
	}

	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestMostSpecific(t *testing.T) {
	internal := NewError(KindInternalError, "Internal error", "dial tcp")
	invalid := NewError(KindInvalidCredentials, "Invalid token", "")
	upstream := NewError(KindUpstreamError, "Upstream error", "500")

	if got := MostSpecific(internal, nil, invalid); got != invalid {
		t.Errorf("expected invalid credentials to win, got %v", got)
	}
	if got := MostSpecific(upstream, internal); got != upstream {
		t.Errorf("expected upstream error to win over internal, got %v", got)
	}
	if got := MostSpecific(nil, nil); got != nil {
		t.Errorf("expected nil for no errors, got %v", got)
	}
}

func TestError_Error(t *testing.T) {
	e := NewError(KindUpstreamError, "Failed to fetch commits", "Status: 500")
	if got := e.Error(); got != "upstream_error: Failed to fetch commits (Status: 500)" {
		t.Errorf("unexpected message %q", got)
	}

	tagged := e.WithSource("azure_devops")
	if tagged.Source != "azure_devops" {
		t.Errorf("expected source azure_devops, got %q", tagged.Source)
	}
	if e.Source != "" {
		t.Error("WithSource should not mutate the receiver")
	}
}

func TestSources_Empty(t *testing.T) {
	if !(Sources{}).Empty() {
		t.Error("zero Sources should be empty")
	}
	s := Sources{Commits: []NormalizedCommit{}, TimeEntries: []NormalizedTimeEntry{}}
	if !s.Empty() {
		t.Error("empty slices should count as empty")
	}
	s.TimeEntries = append(s.TimeEntries, NormalizedTimeEntry{ID: 1})
	if s.Empty() {
		t.Error("expected non-empty with one time entry")
	}
}
