// Package search maps a normalized track query to a single downloadable locator.
package search

import (
	"context"
	"log/slog"
)

// Result is one search hit.
type Result struct {
	Locator string `json:"locator"`
	Title   string `json:"title,omitempty"`
}

// Provider runs a search and returns at most limit ordered results.
// No results is an empty slice, not an error.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
}

// Matcher takes the first hit of a single search call.
type Matcher struct {
	provider Provider
}

// NewMatcher creates a Matcher around an injected provider.
func NewMatcher(provider Provider) *Matcher {
	return &Matcher{provider: provider}
}

// Match returns the locator of the first result for searchText.
// Provider failures are logged and reported as no match.
func (m *Matcher) Match(ctx context.Context, searchText string) (string, bool) {
	results, err := m.provider.Search(ctx, searchText, 1)
	if err != nil {
		slog.Warn("Search failed", "query", searchText, "error", err)
		return "", false
	}
	if len(results) == 0 || results[0].Locator == "" {
		slog.Debug("Search returned nothing", "query", searchText)
		return "", false
	}
	return results[0].Locator, true
}
