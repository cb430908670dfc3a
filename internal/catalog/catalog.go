package catalog

import (
	"context"

	"github.com/jlcsearch/jlcsearch-mcp/internal/query"
	"github.com/jlcsearch/jlcsearch-mcp/pkg/types"
)

// Store is the read surface of the component catalog consumed by the
// search layer. The catalog is queried read-only; only the ingestor
// writes to it.
type Store interface {
	// SearchComponents executes a built query and materializes the
	// candidate rows with their computed match score, in query order.
	SearchComponents(ctx context.Context, q query.Query) ([]types.Candidate, error)

	// GetComponent returns a single component by its part identifier,
	// or types.ErrNotFound.
	GetComponent(ctx context.Context, lcsc string) (*types.Component, error)

	// GetPriceTiers returns the catalog price ladder for a component,
	// ordered by quantity lower bound.
	GetPriceTiers(ctx context.Context, lcsc string) ([]types.PriceTier, error)

	// Stats returns catalog-wide counters for status reporting.
	Stats(ctx context.Context) (*Stats, error)

	Close() error
}

// Stats describes the current state of the local catalog.
type Stats struct {
	Components int64
	BasicParts int64
	PriceRows  int64
	SizeMB     float64
}
