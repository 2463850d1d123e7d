// Package search retrieves supporting references for a generated report.
// Everything here is best-effort: callers must treat any failure as a
// degraded report, never an aborted one.
package search

import (
	"context"
	"errors"
)

// ErrUnavailable wraps any transport, status, or parse failure from the
// search backend.
var ErrUnavailable = errors.New("search unavailable")

// Reference is one piece of supporting evidence, in the backend's own
// ranking order. No re-ranking happens locally.
type Reference struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

type Searcher interface {
	Search(ctx context.Context, query string) ([]Reference, error)
}

// QueryStrategy derives search queries from report text. The extraction
// heuristic is pluggable; the pipeline only depends on this interface.
type QueryStrategy interface {
	Queries(report string) []string
}
