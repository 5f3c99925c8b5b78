// Package websearch defines the port for the external web search provider.
package websearch

import (
	"context"

	"github.com/s-a-yu/auraPerfumeRec/internal/domain/research"
)

// Provider executes a web search and returns up to limit results.
// "No results" is an empty slice, not an error; an error means the provider
// itself could not be reached. Callers degrade a provider error to an empty
// result list with a logged warning.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]research.SearchResult, error)
}
