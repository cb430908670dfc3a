package searcher

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlcsearch/jlcsearch-mcp/internal/catalog"
	"github.com/jlcsearch/jlcsearch-mcp/internal/live"
	"github.com/jlcsearch/jlcsearch-mcp/internal/query"
	"github.com/jlcsearch/jlcsearch-mcp/pkg/types"
)

type mockStore struct {
	candidates []types.Candidate
	components map[string]*types.Component
	tiers      map[string][]types.PriceTier
}

func (m *mockStore) SearchComponents(_ context.Context, _ query.Query) ([]types.Candidate, error) {
	out := make([]types.Candidate, len(m.candidates))
	copy(out, m.candidates)
	return out, nil
}

func (m *mockStore) GetComponent(_ context.Context, lcsc string) (*types.Component, error) {
	if c, ok := m.components[lcsc]; ok {
		return c, nil
	}
	return nil, types.ErrNotFound
}

func (m *mockStore) GetPriceTiers(_ context.Context, lcsc string) ([]types.PriceTier, error) {
	return m.tiers[lcsc], nil
}

func (m *mockStore) Stats(_ context.Context) (*catalog.Stats, error) {
	return &catalog.Stats{}, nil
}

func (m *mockStore) Close() error { return nil }

type mockFetcher struct {
	mu      sync.Mutex
	details map[string]*live.ProductDetail
	calls   []string
}

func (m *mockFetcher) FetchComponentDetails(_ context.Context, lcsc string) (*live.ProductDetail, error) {
	m.mu.Lock()
	m.calls = append(m.calls, lcsc)
	m.mu.Unlock()

	if d, ok := m.details[lcsc]; ok {
		return d, nil
	}
	return nil, live.ErrNoLiveData
}

func stock(n int64) *int64 { return &n }

func cand(lcsc string, score float64, declaredStock int64) types.Candidate {
	return types.Candidate{
		Component: types.Component{
			LCSC:      lcsc,
			MfrPart:   "PART-" + lcsc,
			Stock:     declaredStock,
			Datasheet: "https://example.com/" + lcsc + ".pdf",
		},
		MatchScore:   score,
		CurrentStock: declaredStock,
		DatasheetURL: "https://example.com/" + lcsc + ".pdf",
	}
}

func newSearcher(t *testing.T, store catalog.Store, fetcher LiveFetcher) *Searcher {
	t.Helper()
	s, err := New(store, fetcher, WithWorkers(2))
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestSearchPriceFirstRerank(t *testing.T) {
	store := &mockStore{candidates: []types.Candidate{
		cand("C1", 15, 100), // highest score, no live pricing
		cand("C2", 12, 100), // cheaper
		cand("C3", 10, 100), // priced but more expensive
	}}
	fetcher := &mockFetcher{details: map[string]*live.ProductDetail{
		"C2": {StockNumber: stock(5000), PriceList: []live.PriceEntry{{Ladder: 1, USDPrice: 0.002}}},
		"C3": {StockNumber: stock(9000), PriceList: []live.PriceEntry{{Ladder: 1, USDPrice: 0.010}}},
	}}

	s := newSearcher(t, store, fetcher)
	resp, err := s.Search(context.Background(), &types.SearchRequest{Query: "resistor"})
	require.NoError(t, err)

	// Priced candidates first, cheapest leading; the unpriced top scorer
	// drops to the bottom despite its score.
	require.Len(t, resp.Candidates, 3)
	assert.Equal(t, "C2", resp.Candidates[0].LCSC)
	assert.Equal(t, "C3", resp.Candidates[1].LCSC)
	assert.Equal(t, "C1", resp.Candidates[2].LCSC)
}

func TestSearchScoreBreaksPriceTies(t *testing.T) {
	store := &mockStore{candidates: []types.Candidate{
		cand("C1", 10, 100),
		cand("C2", 18, 100),
	}}
	fetcher := &mockFetcher{details: map[string]*live.ProductDetail{
		"C1": {PriceList: []live.PriceEntry{{Ladder: 1, USDPrice: 0.005}}},
		"C2": {PriceList: []live.PriceEntry{{Ladder: 1, USDPrice: 0.005}}},
	}}

	s := newSearcher(t, store, fetcher)
	resp, err := s.Search(context.Background(), &types.SearchRequest{Query: "x"})
	require.NoError(t, err)

	require.Len(t, resp.Candidates, 2)
	assert.Equal(t, "C2", resp.Candidates[0].LCSC)
}

func TestSearchLiveFailureFallsBackToCatalog(t *testing.T) {
	store := &mockStore{candidates: []types.Candidate{cand("C1", 10, 4200)}}
	fetcher := &mockFetcher{} // every lookup fails

	s := newSearcher(t, store, fetcher)
	resp, err := s.Search(context.Background(), &types.SearchRequest{Query: "x"})
	require.NoError(t, err)

	require.Len(t, resp.Candidates, 1)
	c := resp.Candidates[0]
	assert.False(t, c.LiveData)
	assert.Equal(t, int64(4200), c.CurrentStock)
	assert.Equal(t, "https://example.com/C1.pdf", c.DatasheetURL)
	assert.False(t, c.HasPricing())
	assert.Equal(t, types.MissingPriceSentinel, c.FirstTierPrice())
}

func TestSearchEnrichmentFields(t *testing.T) {
	store := &mockStore{candidates: []types.Candidate{cand("C1", 10, 100)}}
	fetcher := &mockFetcher{details: map[string]*live.ProductDetail{
		"C1": {
			StockNumber: stock(77000),
			PriceList: []live.PriceEntry{
				{Ladder: 1, USDPrice: 0.01},
				{Ladder: 10, USDPrice: 0.009},
				{Ladder: 100, USDPrice: 0.008},
				{Ladder: 1000, USDPrice: 0.007},
			},
			PdfURL: "https://live.example.com/C1.pdf",
		},
	}}

	s := newSearcher(t, store, fetcher)
	resp, err := s.Search(context.Background(), &types.SearchRequest{Query: "x"})
	require.NoError(t, err)

	c := resp.Candidates[0]
	assert.True(t, c.LiveData)
	assert.Equal(t, int64(77000), c.CurrentStock)
	// Display pricing caps at three tiers.
	require.Len(t, c.Pricing, 3)
	assert.Equal(t, int64(1), c.Pricing[0].Qty)
	assert.Equal(t, "https://live.example.com/C1.pdf", c.DatasheetURL)
}

func TestSearchMissingLiveStockKeepsCatalogStock(t *testing.T) {
	store := &mockStore{candidates: []types.Candidate{cand("C1", 10, 321)}}
	fetcher := &mockFetcher{details: map[string]*live.ProductDetail{
		"C1": {PriceList: []live.PriceEntry{{Ladder: 1, USDPrice: 0.01}}},
	}}

	s := newSearcher(t, store, fetcher)
	resp, err := s.Search(context.Background(), &types.SearchRequest{Query: "x"})
	require.NoError(t, err)

	// stockNumber absent from the payload: fall back, stay enriched.
	c := resp.Candidates[0]
	assert.True(t, c.LiveData)
	assert.Equal(t, int64(321), c.CurrentStock)
}

func TestSearchTruncatesToResultCap(t *testing.T) {
	store := &mockStore{}
	for i := 0; i < 6; i++ {
		store.candidates = append(store.candidates, cand(fmt.Sprintf("C%d", i+1), float64(20-i), 100))
	}
	fetcher := &mockFetcher{}

	s := newSearcher(t, store, fetcher)
	resp, err := s.Search(context.Background(), &types.SearchRequest{Query: "x", MaxResults: 3})
	require.NoError(t, err)

	require.Len(t, resp.Candidates, 3)
	// No pricing anywhere, so database score order survives the re-rank.
	assert.Equal(t, "C1", resp.Candidates[0].LCSC)
}

func TestSearchNoMatches(t *testing.T) {
	s := newSearcher(t, &mockStore{}, &mockFetcher{})

	resp, err := s.Search(context.Background(), &types.SearchRequest{Query: "unobtainium"})
	require.NoError(t, err)
	assert.Empty(t, resp.Candidates)
	assert.Equal(t, `No components found matching "unobtainium"`, resp.Message)
}

func TestDetailNormalizesIdentifier(t *testing.T) {
	store := &mockStore{components: map[string]*types.Component{
		"C17976": {LCSC: "C17976", MfrPart: "STM32F103C8T6"},
	}}
	fetcher := &mockFetcher{}

	s := newSearcher(t, store, fetcher)

	for _, input := range []string{"C17976", "17976", " c17976 "} {
		resp, err := s.Detail(context.Background(), input)
		require.NoError(t, err)
		require.NotNil(t, resp.Component, "input %q", input)
		assert.Equal(t, "C17976", resp.Component.LCSC)
	}
}

func TestDetailLiveFallbackToCatalogTiers(t *testing.T) {
	store := &mockStore{
		components: map[string]*types.Component{"C1": {LCSC: "C1"}},
		tiers: map[string][]types.PriceTier{
			"C1": {{LCSC: "C1", QtyFrom: 1, QtyTo: 99, Price: 0.005}},
		},
	}
	fetcher := &mockFetcher{}

	s := newSearcher(t, store, fetcher)
	resp, err := s.Detail(context.Background(), "C1")
	require.NoError(t, err)

	assert.Nil(t, resp.Live)
	require.Len(t, resp.CatalogTiers, 1)
	assert.InDelta(t, 0.005, resp.CatalogTiers[0].Price, 1e-9)
}

func TestDetailNotFound(t *testing.T) {
	s := newSearcher(t, &mockStore{}, &mockFetcher{})

	resp, err := s.Detail(context.Background(), "404")
	require.NoError(t, err)
	assert.Nil(t, resp.Component)
	assert.Equal(t, "Component C404 not found in the local database", resp.Message)
}

func TestNormalizeLCSC(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"C25804", "C25804"},
		{"25804", "C25804"},
		{"c25804", "C25804"},
		{"  17976\n", "C17976"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeLCSC(tt.in), "input %q", tt.in)
	}
}
