package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jlcsearch/jlcsearch-mcp/internal/query"
	"github.com/jlcsearch/jlcsearch-mcp/pkg/types"
)

// SQLiteStore implements Store over a local SQLite catalog database.
type SQLiteStore struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite benefits from single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStore opens (or creates) the catalog database and applies any
// pending migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SearchComponents executes a built query and scans the candidate rows.
// The query's column order is fixed by the query builder.
func (s *SQLiteStore) SearchComponents(ctx context.Context, q query.Query) ([]types.Candidate, error) {
	rows, err := s.db.QueryContext(ctx, q.SQL, q.Params...)
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	candidates := make([]types.Candidate, 0)
	for rows.Next() {
		var (
			c          types.Candidate
			mfrPart    sql.NullString
			category   sql.NullString
			subcat     sql.NullString
			mfr        sql.NullString
			pkg        sql.NullString
			basic      int64
			datasheet  sql.NullString
			attributes sql.NullString
		)
		err := rows.Scan(
			&c.LCSC, &mfrPart, &category, &subcat, &mfr, &pkg,
			&basic, &c.Stock, &datasheet, &attributes, &c.MatchScore,
		)
		if err != nil {
			return nil, err
		}

		c.MfrPart = mfrPart.String
		c.Category = category.String
		c.Subcategory = subcat.String
		c.Manufacturer = mfr.String
		c.Package = pkg.String
		c.Basic = basic == 1
		c.Datasheet = datasheet.String
		c.Attributes = decodeAttributes(attributes)

		// Until enrichment the displayed stock is the declared stock.
		c.CurrentStock = c.Stock
		c.DatasheetURL = c.Datasheet

		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// GetComponent returns a single catalog row by part identifier.
func (s *SQLiteStore) GetComponent(ctx context.Context, lcsc string) (*types.Component, error) {
	sqlQuery := `
		SELECT lcsc, mfr_part, category, subcategory, description, stock,
		       datasheet, image, basic, manufacturer, package, attributes
		FROM components
		WHERE lcsc = ?
	`
	var (
		c          types.Component
		mfrPart    sql.NullString
		category   sql.NullString
		subcat     sql.NullString
		desc       sql.NullString
		datasheet  sql.NullString
		image      sql.NullString
		basic      int64
		mfr        sql.NullString
		pkg        sql.NullString
		attributes sql.NullString
	)
	err := s.db.QueryRowContext(ctx, sqlQuery, lcsc).Scan(
		&c.LCSC, &mfrPart, &category, &subcat, &desc, &c.Stock,
		&datasheet, &image, &basic, &mfr, &pkg, &attributes,
	)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	c.MfrPart = mfrPart.String
	c.Category = category.String
	c.Subcategory = subcat.String
	c.Description = desc.String
	c.Datasheet = datasheet.String
	c.Image = image.String
	c.Basic = basic == 1
	c.Manufacturer = mfr.String
	c.Package = pkg.String
	c.Attributes = decodeAttributes(attributes)

	return &c, nil
}

// GetPriceTiers returns the catalog price ladder for a component.
func (s *SQLiteStore) GetPriceTiers(ctx context.Context, lcsc string) ([]types.PriceTier, error) {
	sqlQuery := `
		SELECT lcsc, qty_from, qty_to, price
		FROM prices
		WHERE lcsc = ?
		ORDER BY qty_from
	`
	rows, err := s.db.QueryContext(ctx, sqlQuery, lcsc)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	tiers := make([]types.PriceTier, 0)
	for rows.Next() {
		var (
			tier    types.PriceTier
			qtyFrom sql.NullInt64
			qtyTo   sql.NullInt64
			price   sql.NullFloat64
		)
		if err := rows.Scan(&tier.LCSC, &qtyFrom, &qtyTo, &price); err != nil {
			return nil, err
		}
		tier.QtyFrom = qtyFrom.Int64
		tier.QtyTo = qtyTo.Int64
		tier.Price = price.Float64
		tiers = append(tiers, tier)
	}
	return tiers, rows.Err()
}

// Stats returns catalog-wide counters for status reporting.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM components").Scan(&stats.Components); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM components WHERE basic = 1").Scan(&stats.BasicParts); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM prices").Scan(&stats.PriceRows); err != nil {
		return nil, err
	}

	var pageCount, pageSize int64
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err == nil {
		_ = s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize)
		stats.SizeMB = float64(pageCount*pageSize) / (1024 * 1024)
	}

	return stats, nil
}

// decodeAttributes unpacks the serialized attribute bag. A missing or
// malformed bag degrades to nil rather than failing the row.
func decodeAttributes(raw sql.NullString) types.AttributeBag {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	var bag types.AttributeBag
	if err := json.Unmarshal([]byte(raw.String), &bag); err != nil {
		return nil
	}
	return bag
}
