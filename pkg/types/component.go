package types

// Component is a single row of the local parts catalog. Rows are immutable
// once ingested; the catalog store owns them exclusively.
type Component struct {
	LCSC         string
	MfrPart      string
	Category     string
	Subcategory  string
	Description  string
	Stock        int64
	Datasheet    string
	Image        string
	Basic        bool
	Manufacturer string
	Package      string
	Attributes   AttributeBag
}

// PriceTier is one quantity break of a component's catalog price ladder.
type PriceTier struct {
	LCSC    string
	QtyFrom int64
	QtyTo   int64
	Price   float64
}

// PriceBreak is one live quantity/price point from the parts API.
type PriceBreak struct {
	Qty   int64
	Price float64
}

// MissingPriceSentinel sorts candidates without live pricing after every
// realistically priced candidate in the final re-rank.
const MissingPriceSentinel = 999999.0

// Candidate is a component materialized for a single search. It carries the
// database-level match score and, after enrichment, a live snapshot. A
// candidate lives only for the duration of one request.
type Candidate struct {
	Component

	MatchScore float64

	// Live snapshot. CurrentStock falls back to the catalog's declared
	// stock when the live lookup fails; Pricing stays empty in that case.
	CurrentStock int64
	Pricing      []PriceBreak
	DatasheetURL string
	LiveData     bool
}

// HasPricing reports whether live price tiers were attached.
func (c *Candidate) HasPricing() bool { return len(c.Pricing) > 0 }

// FirstTierPrice returns the unit price at the lowest quantity break, or
// MissingPriceSentinel when no live pricing is available.
func (c *Candidate) FirstTierPrice() float64 {
	if len(c.Pricing) == 0 {
		return MissingPriceSentinel
	}
	return c.Pricing[0].Price
}
