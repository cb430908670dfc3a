package searcher

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/jlcsearch/jlcsearch-mcp/internal/catalog"
	"github.com/jlcsearch/jlcsearch-mcp/internal/live"
	"github.com/jlcsearch/jlcsearch-mcp/internal/query"
	"github.com/jlcsearch/jlcsearch-mcp/pkg/types"
)

// DefaultWorkers bounds concurrent live lookups per search.
const DefaultWorkers = 4

// maxDisplayTiers caps how many live price breaks attach to a candidate.
const maxDisplayTiers = 3

// LiveFetcher is the live-detail surface the searcher depends on.
type LiveFetcher interface {
	FetchComponentDetails(ctx context.Context, lcsc string) (*live.ProductDetail, error)
}

// Searcher runs the full search pipeline: catalog query, concurrent live
// enrichment, and the price-first re-rank.
type Searcher struct {
	store catalog.Store
	live  LiveFetcher
	pool  *ants.Pool
	log   *zap.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithWorkers sets the live-enrichment pool size.
func WithWorkers(n int) Option {
	return func(s *Searcher) error {
		if n <= 0 {
			return nil
		}
		pool, err := ants.NewPool(n)
		if err != nil {
			return err
		}
		s.pool.Release()
		s.pool = pool
		return nil
	}
}

// WithLogger attaches a logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Searcher) error {
		if log != nil {
			s.log = log
		}
		return nil
	}
}

// New builds a Searcher over the given catalog store and live fetcher.
func New(store catalog.Store, fetcher LiveFetcher, opts ...Option) (*Searcher, error) {
	pool, err := ants.NewPool(DefaultWorkers)
	if err != nil {
		return nil, err
	}

	s := &Searcher{
		store: store,
		live:  fetcher,
		pool:  pool,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			s.pool.Release()
			return nil, err
		}
	}
	return s, nil
}

// Close releases the enrichment pool.
func (s *Searcher) Close() {
	s.pool.Release()
}

// SearchResponse carries the final ranked candidates. Message is set
// instead of an error when the search simply matched nothing.
type SearchResponse struct {
	Query      string
	Candidates []types.Candidate
	Message    string
}

// Search runs one request through the pipeline. Candidates come back
// enriched where the live endpoint answered and degraded to catalog data
// where it did not, re-ranked price-first and truncated to the request's
// result cap.
func (s *Searcher) Search(ctx context.Context, req *types.SearchRequest) (*SearchResponse, error) {
	req.Normalize()

	q := query.FromRequest(req).Build(req.MaxResults)
	candidates, err := s.store.SearchComponents(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("catalog search failed: %w", err)
	}

	if len(candidates) == 0 {
		return &SearchResponse{
			Query:   req.Query,
			Message: fmt.Sprintf("No components found matching %q", req.Query),
		}, nil
	}

	s.enrich(ctx, candidates)
	rerank(candidates)

	if len(candidates) > req.MaxResults {
		candidates = candidates[:req.MaxResults]
	}

	return &SearchResponse{Query: req.Query, Candidates: candidates}, nil
}

// enrich fetches live details for every candidate through the worker
// pool. Each task writes only its own index; the WaitGroup is the sole
// synchronization point.
func (s *Searcher) enrich(ctx context.Context, candidates []types.Candidate) {
	var wg sync.WaitGroup
	for i := range candidates {
		i := i
		wg.Add(1)
		task := func() {
			defer wg.Done()
			s.enrichOne(ctx, &candidates[i])
		}
		if err := s.pool.Submit(task); err != nil {
			// Pool saturated or released; run inline rather than drop.
			task()
		}
	}
	wg.Wait()
}

// enrichOne attaches the live snapshot to one candidate, or leaves the
// catalog-derived fallback values in place.
func (s *Searcher) enrichOne(ctx context.Context, c *types.Candidate) {
	detail, err := s.live.FetchComponentDetails(ctx, c.LCSC)
	if err != nil {
		s.log.Debug("live enrichment skipped",
			zap.String("lcsc", c.LCSC), zap.Error(err))
		c.CurrentStock = c.Stock
		c.DatasheetURL = c.Datasheet
		return
	}

	c.LiveData = true

	if detail.StockNumber != nil {
		c.CurrentStock = *detail.StockNumber
	} else {
		c.CurrentStock = c.Stock
	}

	tiers := detail.PriceList
	if len(tiers) > maxDisplayTiers {
		tiers = tiers[:maxDisplayTiers]
	}
	c.Pricing = c.Pricing[:0]
	for _, t := range tiers {
		c.Pricing = append(c.Pricing, types.PriceBreak{Qty: t.Ladder, Price: t.USDPrice})
	}

	if detail.PdfURL != "" {
		c.DatasheetURL = detail.PdfURL
	} else {
		c.DatasheetURL = c.Datasheet
	}
}

// rerank orders candidates price-first: anything with live pricing beats
// anything without, cheaper first-tier price wins within the priced
// group, and the database match score breaks remaining ties. The sort is
// stable so equal keys keep their database order.
func rerank(candidates []types.Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := &candidates[i], &candidates[j]

		if a.HasPricing() != b.HasPricing() {
			return a.HasPricing()
		}
		if a.FirstTierPrice() != b.FirstTierPrice() {
			return a.FirstTierPrice() < b.FirstTierPrice()
		}
		return a.MatchScore > b.MatchScore
	})
}

// DetailResponse carries one component's catalog row plus, when the live
// endpoint answered, its live snapshot. CatalogTiers is populated as the
// pricing fallback when Live is nil. Message is set for unknown parts.
type DetailResponse struct {
	Component    *types.Component
	Live         *live.ProductDetail
	CatalogTiers []types.PriceTier
	Message      string
}

// Detail looks up one part by identifier, tolerating a missing C prefix
// and surrounding whitespace.
func (s *Searcher) Detail(ctx context.Context, lcsc string) (*DetailResponse, error) {
	id := NormalizeLCSC(lcsc)

	comp, err := s.store.GetComponent(ctx, id)
	if errors.Is(err, types.ErrNotFound) {
		return &DetailResponse{
			Message: fmt.Sprintf("Component %s not found in the local database", id),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalog lookup failed: %w", err)
	}

	resp := &DetailResponse{Component: comp}

	detail, err := s.live.FetchComponentDetails(ctx, id)
	if err != nil {
		s.log.Debug("live detail unavailable", zap.String("lcsc", id), zap.Error(err))
		tiers, terr := s.store.GetPriceTiers(ctx, id)
		if terr == nil {
			resp.CatalogTiers = tiers
		}
		return resp, nil
	}

	resp.Live = detail
	return resp, nil
}

// NormalizeLCSC canonicalizes a part identifier: trimmed, uppercased,
// C prefix added when absent.
func NormalizeLCSC(lcsc string) string {
	id := strings.ToUpper(strings.TrimSpace(lcsc))
	if id == "" {
		return id
	}
	if !strings.HasPrefix(id, "C") {
		id = "C" + id
	}
	return id
}
