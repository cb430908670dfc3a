package catalog

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jlcsearch/jlcsearch-mcp/pkg/types"
)

const (
	// DefaultMirrorURL serves the nightly parts-database snapshot as one
	// index file plus one gzipped component file per subcategory.
	DefaultMirrorURL = "https://yaqwsx.github.io/jlcparts/data"

	// DefaultIngestWorkers bounds concurrent subcategory downloads.
	DefaultIngestWorkers = 4

	downloadTimeout = 5 * time.Minute
)

// mirrorIndex maps category -> subcategory -> data file reference.
type mirrorIndex struct {
	Categories map[string]map[string]subcategoryRef `json:"categories"`
}

type subcategoryRef struct {
	Sourcename string `json:"sourcename"`
}

// subcategoryData is the payload of one {sourcename}.json.gz file. Each
// component is a positional array, not an object.
type subcategoryData struct {
	Components []json.RawMessage `json:"components"`
}

// priceEntry is the mirror's price ladder element.
type priceEntry struct {
	QtyFrom int64    `json:"qFrom"`
	QtyTo   *int64   `json:"qTo"`
	Price   *float64 `json:"price"`
}

// Ingestor downloads the mirror snapshot and rebuilds the local catalog.
type Ingestor struct {
	store      *SQLiteStore
	httpClient *http.Client
	baseURL    string
	workers    int
	log        *zap.Logger
}

// IngestOption configures an Ingestor.
type IngestOption func(*Ingestor)

// WithMirrorURL overrides the snapshot base URL.
func WithMirrorURL(u string) IngestOption {
	return func(i *Ingestor) {
		if u != "" {
			i.baseURL = u
		}
	}
}

// WithIngestWorkers sets the number of concurrent subcategory downloads.
func WithIngestWorkers(n int) IngestOption {
	return func(i *Ingestor) {
		if n > 0 {
			i.workers = n
		}
	}
}

// WithIngestLogger attaches a logger.
func WithIngestLogger(log *zap.Logger) IngestOption {
	return func(i *Ingestor) {
		if log != nil {
			i.log = log
		}
	}
}

// WithIngestHTTPClient overrides the HTTP client, primarily for tests.
func WithIngestHTTPClient(c *http.Client) IngestOption {
	return func(i *Ingestor) {
		if c != nil {
			i.httpClient = c
		}
	}
}

// NewIngestor builds an Ingestor writing into the given store.
func NewIngestor(store *SQLiteStore, opts ...IngestOption) *Ingestor {
	ing := &Ingestor{
		store:      store,
		httpClient: &http.Client{Timeout: downloadTimeout},
		baseURL:    DefaultMirrorURL,
		workers:    DefaultIngestWorkers,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(ing)
	}
	return ing
}

// Update rebuilds the catalog from the mirror. Existing rows are dropped
// first so the snapshot fully replaces the previous state. Downloads run
// concurrently; writes serialize on the store's single connection.
func (i *Ingestor) Update(ctx context.Context) error {
	start := time.Now()

	index, err := i.fetchIndex(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch mirror index: %w", err)
	}

	if _, err := i.store.db.ExecContext(ctx, "DELETE FROM prices"); err != nil {
		return fmt.Errorf("failed to clear prices: %w", err)
	}
	if _, err := i.store.db.ExecContext(ctx, "DELETE FROM components"); err != nil {
		return fmt.Errorf("failed to clear components: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.workers)

	for category, subcats := range index.Categories {
		for subcategory, ref := range subcats {
			category, subcategory, ref := category, subcategory, ref
			g.Go(func() error {
				// A failed subcategory loses only its own rows; the rest
				// of the snapshot still loads.
				if err := i.ingestSubcategory(gctx, category, subcategory, ref.Sourcename); err != nil {
					i.log.Warn("subcategory skipped",
						zap.String("category", category),
						zap.String("subcategory", subcategory),
						zap.Error(err))
				}
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return err
	}

	stats, err := i.store.Stats(ctx)
	if err == nil {
		i.log.Info("catalog update complete",
			zap.Int64("components", stats.Components),
			zap.Int64("basic_parts", stats.BasicParts),
			zap.Duration("elapsed", time.Since(start)))
	}
	return nil
}

// fetchIndex downloads and decodes the mirror's category index.
func (i *Ingestor) fetchIndex(ctx context.Context) (*mirrorIndex, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.baseURL+"/index.json", nil)
	if err != nil {
		return nil, err
	}

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mirror index returned status %d", resp.StatusCode)
	}

	var index mirrorIndex
	if err := json.NewDecoder(resp.Body).Decode(&index); err != nil {
		return nil, fmt.Errorf("failed to decode mirror index: %w", err)
	}
	return &index, nil
}

// ingestSubcategory downloads one subcategory's gzipped component file and
// writes its rows in a single transaction.
func (i *Ingestor) ingestSubcategory(ctx context.Context, category, subcategory, sourcename string) error {
	url := fmt.Sprintf("%s/%s.json.gz", i.baseURL, sourcename)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", sourcename, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s returned status %d", sourcename, resp.StatusCode)
	}

	gz, err := gzip.NewReader(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to decompress %s: %w", sourcename, err)
	}
	defer func() { _ = gz.Close() }()

	var data subcategoryData
	if err := json.NewDecoder(gz).Decode(&data); err != nil {
		return fmt.Errorf("failed to decode %s: %w", sourcename, err)
	}

	inserted, skipped, err := i.writeBatch(ctx, category, subcategory, data.Components)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", sourcename, err)
	}

	i.log.Debug("subcategory ingested",
		zap.String("category", category),
		zap.String("subcategory", subcategory),
		zap.Int("components", inserted),
		zap.Int("skipped", skipped))
	return nil
}

// writeBatch inserts one subcategory's components and price ladders in a
// single transaction. Malformed rows are skipped individually, never
// failing the batch.
func (i *Ingestor) writeBatch(ctx context.Context, category, subcategory string, rows []json.RawMessage) (int, int, error) {
	tx, err := i.store.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = tx.Rollback() }()

	compStmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO components
			(lcsc, mfr_part, category, subcategory, description, stock,
			 datasheet, image, basic, manufacturer, package, attributes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = compStmt.Close() }()

	priceStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO prices (lcsc, qty_from, qty_to, price) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = priceStmt.Close() }()

	inserted, skipped := 0, 0
	for _, raw := range rows {
		comp, tiers, ok := decodeRow(raw, category, subcategory)
		if !ok {
			skipped++
			continue
		}

		attrJSON, err := json.Marshal(comp.Attributes)
		if err != nil {
			skipped++
			continue
		}

		_, err = compStmt.ExecContext(ctx,
			comp.LCSC, comp.MfrPart, comp.Category, comp.Subcategory,
			comp.Description, comp.Stock, comp.Datasheet, comp.Image,
			boolToInt(comp.Basic), comp.Manufacturer, comp.Package,
			string(attrJSON))
		if err != nil {
			return inserted, skipped, err
		}

		for _, t := range tiers {
			if t.Price == nil {
				continue
			}
			var qtyTo any
			if t.QtyTo != nil {
				qtyTo = *t.QtyTo
			}
			if _, err := priceStmt.ExecContext(ctx, comp.LCSC, t.QtyFrom, qtyTo, *t.Price); err != nil {
				return inserted, skipped, err
			}
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return inserted, skipped, err
	}
	return inserted, skipped, nil
}

// decodeRow unpacks one positional component array from the mirror format:
//
//	[0] lcsc number (no C prefix)
//	[1] manufacturer part number
//	[2] declared stock
//	[3] description
//	[4] datasheet URL
//	[5] price ladder
//	[6] image URL
//	[8] attribute bag
//
// Rows that are too short or carry a non-positive part number are
// rejected.
func decodeRow(raw json.RawMessage, category, subcategory string) (*types.Component, []priceEntry, bool) {
	var fields []json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, nil, false
	}
	if len(fields) < 9 {
		return nil, nil, false
	}

	var lcscNum int64
	if err := json.Unmarshal(fields[0], &lcscNum); err != nil || lcscNum <= 0 {
		return nil, nil, false
	}

	comp := &types.Component{
		LCSC:        fmt.Sprintf("C%d", lcscNum),
		Category:    category,
		Subcategory: subcategory,
	}

	var mfrPart string
	if err := json.Unmarshal(fields[1], &mfrPart); err != nil {
		return nil, nil, false
	}
	comp.MfrPart = mfrPart

	var stock json.Number
	if err := json.Unmarshal(fields[2], &stock); err == nil {
		comp.Stock = cast.ToInt64(stock.String())
	}

	_ = json.Unmarshal(fields[3], &comp.Description)
	_ = json.Unmarshal(fields[4], &comp.Datasheet)
	_ = json.Unmarshal(fields[6], &comp.Image)

	var tiers []priceEntry
	_ = json.Unmarshal(fields[5], &tiers)

	var bag types.AttributeBag
	if err := json.Unmarshal(fields[8], &bag); err == nil {
		comp.Attributes = bag
		comp.Basic = bag.FirstString(types.AttrBasicExtended, types.DefaultValueGroup) == "Basic"
		comp.Manufacturer = bag.FirstString(types.AttrManufacturer, types.DefaultValueGroup)
		comp.Package = bag.FirstString(types.AttrPackage, types.DefaultValueGroup)
	}

	return comp, tiers, true
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
