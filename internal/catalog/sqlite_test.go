package catalog

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlcsearch/jlcsearch-mcp/internal/query"
	"github.com/jlcsearch/jlcsearch-mcp/pkg/types"
)

func setupTestDB(t *testing.T) *SQLiteStore {
	// Use in-memory database for testing
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	require.NotNil(t, store)
	return store
}

type fixture struct {
	lcsc       string
	mfrPart    string
	category   string
	subcat     string
	mfr        string
	pkg        string
	basic      bool
	stock      int64
	attributes types.AttributeBag
}

func insertFixture(t *testing.T, store *SQLiteStore, f fixture) {
	t.Helper()

	var attrJSON any
	if f.attributes != nil {
		b, err := json.Marshal(f.attributes)
		require.NoError(t, err)
		attrJSON = string(b)
	}

	_, err := store.db.Exec(`
		INSERT INTO components
			(lcsc, mfr_part, category, subcategory, description, stock,
			 datasheet, image, basic, manufacturer, package, attributes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.lcsc, f.mfrPart, f.category, f.subcat, "", f.stock,
		"https://example.com/"+f.lcsc+".pdf", "", boolToInt(f.basic),
		f.mfr, f.pkg, attrJSON)
	require.NoError(t, err)
}

func resistanceBag(ohms float64) types.AttributeBag {
	return types.AttributeBag{
		"Resistance": map[string]any{
			"values": map[string]any{
				"resistance": []any{ohms},
			},
		},
	}
}

func TestNewSQLiteStore(t *testing.T) {
	store := setupTestDB(t)
	defer func() { _ = store.Close() }()

	assert.NotNil(t, store.db)

	// Migrations recorded
	var version string
	err := store.db.QueryRow("SELECT version FROM schema_version ORDER BY applied_at DESC LIMIT 1").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, version)
}

func TestSearchComponents_ResistanceWindow(t *testing.T) {
	store := setupTestDB(t)
	defer func() { _ = store.Close() }()

	insertFixture(t, store, fixture{lcsc: "C1", mfrPart: "RC0805-10K", category: "Resistors",
		stock: 1000, attributes: resistanceBag(10000)})
	insertFixture(t, store, fixture{lcsc: "C2", mfrPart: "RC0805-10K5", category: "Resistors",
		stock: 1000, attributes: resistanceBag(10500)})
	insertFixture(t, store, fixture{lcsc: "C3", mfrPart: "RC0805-12K", category: "Resistors",
		stock: 1000, attributes: resistanceBag(12000)})

	q := query.New().Resistance("10k").Build(10)
	got, err := store.SearchComponents(context.Background(), q)
	require.NoError(t, err)

	// 10500 sits on the +5% boundary and is included; 12000 is outside.
	require.Len(t, got, 2)
	ids := []string{got[0].LCSC, got[1].LCSC}
	assert.Contains(t, ids, "C1")
	assert.Contains(t, ids, "C2")
}

func TestSearchComponents_ScoringOrder(t *testing.T) {
	store := setupTestDB(t)
	defer func() { _ = store.Close() }()

	// Basic beats extended regardless of stock; among equals stock breaks
	// the tie through the log term.
	insertFixture(t, store, fixture{lcsc: "C10", mfrPart: "EXT-HUGE", category: "Resistors", basic: false, stock: 9000000})
	insertFixture(t, store, fixture{lcsc: "C11", mfrPart: "BASIC-SMALL", category: "Resistors", basic: true, stock: 100})
	insertFixture(t, store, fixture{lcsc: "C12", mfrPart: "BASIC-BIG", category: "Resistors", basic: true, stock: 50000})

	q := query.New().Text("resistors").Build(10)
	got, err := store.SearchComponents(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "C12", got[0].LCSC)
	assert.Equal(t, "C11", got[1].LCSC)
	assert.Equal(t, "C10", got[2].LCSC)
	assert.Greater(t, got[0].MatchScore, got[2].MatchScore)
}

func TestSearchComponents_ExactMatchBonus(t *testing.T) {
	store := setupTestDB(t)
	defer func() { _ = store.Close() }()

	insertFixture(t, store, fixture{lcsc: "C20", mfrPart: "R-EXACT", category: "Resistors",
		stock: 1000, attributes: resistanceBag(10000)})
	insertFixture(t, store, fixture{lcsc: "C21", mfrPart: "R-NEAR", category: "Resistors",
		stock: 1000, attributes: resistanceBag(10400)})

	q := query.New().Resistance("10k").Build(10)
	got, err := store.SearchComponents(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// The exact hit ranks first with a 5-point edge over the in-window one.
	assert.Equal(t, "C20", got[0].LCSC)
	assert.InDelta(t, 5.0, got[0].MatchScore-got[1].MatchScore, 1e-9)
}

func TestSearchComponents_FetchHeadroom(t *testing.T) {
	store := setupTestDB(t)
	defer func() { _ = store.Close() }()

	for i := 0; i < 10; i++ {
		insertFixture(t, store, fixture{
			lcsc: string(rune('A'+i)) + "1", mfrPart: "PART", category: "Caps", stock: int64(i)})
	}

	// Cap of 3 fetches 6 rows for the re-rank.
	q := query.New().Build(3)
	got, err := store.SearchComponents(context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, got, 6)
}

func TestGetComponent(t *testing.T) {
	store := setupTestDB(t)
	defer func() { _ = store.Close() }()

	insertFixture(t, store, fixture{lcsc: "C25804", mfrPart: "RC0805FR-0710KL",
		category: "Resistors", subcat: "Chip Resistor - Surface Mount",
		mfr: "YAGEO", pkg: "0805", basic: true, stock: 500000,
		attributes: resistanceBag(10000)})

	got, err := store.GetComponent(context.Background(), "C25804")
	require.NoError(t, err)
	assert.Equal(t, "RC0805FR-0710KL", got.MfrPart)
	assert.Equal(t, "YAGEO", got.Manufacturer)
	assert.True(t, got.Basic)

	r, ok := got.Attributes.FirstFloat(types.AttrResistance, "resistance")
	require.True(t, ok)
	assert.InDelta(t, 10000.0, r, 1e-9)
}

func TestGetComponent_NotFound(t *testing.T) {
	store := setupTestDB(t)
	defer func() { _ = store.Close() }()

	_, err := store.GetComponent(context.Background(), "C0")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestGetPriceTiers(t *testing.T) {
	store := setupTestDB(t)
	defer func() { _ = store.Close() }()

	insertFixture(t, store, fixture{lcsc: "C1", mfrPart: "PART", category: "Resistors"})
	// Inserted out of order to verify the ordering clause.
	_, err := store.db.Exec("INSERT INTO prices (lcsc, qty_from, qty_to, price) VALUES ('C1', 100, 999, 0.002)")
	require.NoError(t, err)
	_, err = store.db.Exec("INSERT INTO prices (lcsc, qty_from, qty_to, price) VALUES ('C1', 1, 99, 0.005)")
	require.NoError(t, err)

	tiers, err := store.GetPriceTiers(context.Background(), "C1")
	require.NoError(t, err)
	require.Len(t, tiers, 2)
	assert.Equal(t, int64(1), tiers[0].QtyFrom)
	assert.InDelta(t, 0.005, tiers[0].Price, 1e-9)
	assert.Equal(t, int64(100), tiers[1].QtyFrom)
}

func TestStats(t *testing.T) {
	store := setupTestDB(t)
	defer func() { _ = store.Close() }()

	insertFixture(t, store, fixture{lcsc: "C1", mfrPart: "A", category: "Resistors", basic: true})
	insertFixture(t, store, fixture{lcsc: "C2", mfrPart: "B", category: "Resistors"})
	_, err := store.db.Exec("INSERT INTO prices (lcsc, qty_from, qty_to, price) VALUES ('C1', 1, 99, 0.005)")
	require.NoError(t, err)

	stats, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Components)
	assert.Equal(t, int64(1), stats.BasicParts)
	assert.Equal(t, int64(1), stats.PriceRows)
}

func TestSearchComponents_MalformedAttributesDegrade(t *testing.T) {
	store := setupTestDB(t)
	defer func() { _ = store.Close() }()

	_, err := store.db.Exec(`
		INSERT INTO components (lcsc, mfr_part, category, stock, basic, attributes)
		VALUES ('C9', 'BROKEN', 'Resistors', 10, 0, 'not json')`)
	require.NoError(t, err)

	q := query.New().Text("resistors").Build(10)
	got, err := store.SearchComponents(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Attributes)
}
