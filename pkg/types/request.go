package types

// Result cap bounds for a single search.
const (
	MinSearchResults     = 1
	MaxSearchResults     = 50
	DefaultSearchResults = 10
)

// SearchRequest describes one component search. The free-text query is
// split on whitespace and every term must match at least one text field.
// Parametric fields are raw human-written unit strings ("10k", "100nF",
// "3.3V"); unparseable values simply apply no constraint.
type SearchRequest struct {
	Query      string
	Category   string
	Package    string
	BasicOnly  bool
	MinStock   *int64
	MaxResults int

	// Parametric filters.
	Resistance      string
	Capacitance     string
	VoltageRating   string
	InputVoltageMin string
	InputVoltageMax string
	OutputVoltage   string
	OutputCurrent   string
	PowerRating     string
}

// Normalize clamps MaxResults into [MinSearchResults, MaxSearchResults],
// defaulting when unset.
func (r *SearchRequest) Normalize() {
	if r.MaxResults == 0 {
		r.MaxResults = DefaultSearchResults
	}
	if r.MaxResults < MinSearchResults {
		r.MaxResults = MinSearchResults
	}
	if r.MaxResults > MaxSearchResults {
		r.MaxResults = MaxSearchResults
	}
}
