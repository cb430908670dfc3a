package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jlcsearch/jlcsearch-mcp/internal/units"
	"github.com/jlcsearch/jlcsearch-mcp/pkg/types"
)

// Tolerance windows and scoring weights. Resistance and capacitance are
// tolerance-windowed; voltage, current and power filters use >= semantics
// so a part always meets or exceeds the requested rating. The exact-match
// band is deliberately tighter than the filter windows that admit the
// candidate in the first place.
const (
	ResistanceTolerance    = 0.05
	CapacitanceTolerance   = 0.10
	OutputVoltageTolerance = 0.10
	ExactMatchBand         = 0.01

	basicScore      = 10
	exactMatchScore = 5
)

// JSON paths into the serialized attribute bag. Voltage and output-current
// attributes appear under two known spellings depending on category.
const (
	resistancePath     = `$.Resistance.values.resistance[0]`
	capacitancePath    = `$.Capacitance.values.capacitance[0]`
	voltageRatedPath   = `$."Voltage Rated".values."voltage rated"[0]`
	voltageRatingPath  = `$."Voltage Rating".values."voltage rating"[0]`
	powerPath          = `$.Power.values.power[0]`
	inputVoltagePath   = `$."Input voltage".values.default[0]`
	outputVoltagePath  = `$."Output voltage".values.voltage[0]`
	outputCurrentPath  = `$."Output current (max)".values.current[0]`
	outputCurrent2Path = `$."Output current (max)".values.current2[0]`
)

// Query is an executable catalog query: SQL text with bound parameters.
// The limit is already folded into Params.
type Query struct {
	SQL    string
	Params []any
}

// Builder accumulates a conjunctive predicate set, bound parameters and
// additive scoring terms, joining each list once when Build is called.
// User-derived values are always bound parameters; only numeric literals
// computed internally (tolerance bounds, exact-match bands) are inlined.
type Builder struct {
	conditions []string
	params     []any
	scoreParts []string
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{}
}

// FromRequest normalizes the request and translates every populated field
// into its filter and scoring terms.
func FromRequest(req *types.SearchRequest) *Builder {
	req.Normalize()

	b := New()
	b.Text(req.Query)
	b.Category(req.Category)
	b.Package(req.Package)
	if req.BasicOnly {
		b.BasicOnly()
	}
	if req.MinStock != nil {
		b.MinStock(*req.MinStock)
	}
	b.Resistance(req.Resistance)
	b.Capacitance(req.Capacitance)
	b.VoltageRating(req.VoltageRating)
	b.PowerRating(req.PowerRating)
	b.InputVoltageMin(req.InputVoltageMin)
	b.OutputVoltage(req.OutputVoltage)
	b.OutputCurrent(req.OutputCurrent)
	return b
}

// Text adds the free-text predicate: the query is split on whitespace and
// every term must match at least one of mfr_part, category, subcategory or
// manufacturer by case-insensitive substring. An empty query adds nothing.
func (b *Builder) Text(query string) *Builder {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return b
	}

	termConds := make([]string, 0, len(terms))
	for _, term := range terms {
		like := "%" + term + "%"
		termConds = append(termConds,
			"(mfr_part LIKE ? OR category LIKE ? OR subcategory LIKE ? OR manufacturer LIKE ?)")
		b.params = append(b.params, like, like, like, like)
	}
	b.conditions = append(b.conditions, "("+strings.Join(termConds, " AND ")+")")
	return b
}

// Category filters by substring match against category or subcategory.
func (b *Builder) Category(category string) *Builder {
	if category == "" {
		return b
	}
	like := "%" + category + "%"
	b.conditions = append(b.conditions, "(category LIKE ? OR subcategory LIKE ?)")
	b.params = append(b.params, like, like)
	return b
}

// Package filters by substring match against the package field.
func (b *Builder) Package(pkg string) *Builder {
	if pkg == "" {
		return b
	}
	b.conditions = append(b.conditions, "package LIKE ?")
	b.params = append(b.params, "%"+pkg+"%")
	return b
}

// BasicOnly restricts results to Basic-classified parts.
func (b *Builder) BasicOnly() *Builder {
	b.conditions = append(b.conditions, "basic = 1")
	return b
}

// MinStock requires declared stock at or above the threshold.
func (b *Builder) MinStock(n int64) *Builder {
	b.conditions = append(b.conditions, "stock >= ?")
	b.params = append(b.params, n)
	return b
}

// Resistance filters the resistance attribute into a ±5% window around the
// parsed value and adds the 1% exact-match bonus term. Unparseable input
// applies no constraint.
func (b *Builder) Resistance(raw string) *Builder {
	r, ok := units.ParseResistance(raw)
	if !ok {
		return b
	}

	b.conditions = append(b.conditions,
		fmt.Sprintf("json_extract(attributes, '%s') BETWEEN ? AND ?", resistancePath))
	b.params = append(b.params, r*(1-ResistanceTolerance), r*(1+ResistanceTolerance))

	b.scoreParts = append(b.scoreParts, exactMatchTerm(resistancePath, r))
	return b
}

// Capacitance filters the capacitance attribute into a ±10% window and adds
// the 1% exact-match bonus term.
func (b *Builder) Capacitance(raw string) *Builder {
	c, ok := units.ParseCapacitance(raw)
	if !ok {
		return b
	}

	b.conditions = append(b.conditions,
		fmt.Sprintf("json_extract(attributes, '%s') BETWEEN ? AND ?", capacitancePath))
	b.params = append(b.params, c*(1-CapacitanceTolerance), c*(1+CapacitanceTolerance))

	b.scoreParts = append(b.scoreParts, exactMatchTerm(capacitancePath, c))
	return b
}

// VoltageRating keeps parts whose rated voltage meets or exceeds the
// requested value, checking both known attribute-key spellings. This is
// safety-margin semantics, not a tolerance window.
func (b *Builder) VoltageRating(raw string) *Builder {
	v, ok := units.ParseVoltage(raw)
	if !ok {
		return b
	}

	b.conditions = append(b.conditions, fmt.Sprintf(
		"(json_extract(attributes, '%s') >= ? OR json_extract(attributes, '%s') >= ?)",
		voltageRatedPath, voltageRatingPath))
	b.params = append(b.params, v, v)
	return b
}

// PowerRating keeps parts whose power attribute meets or exceeds the
// requested value.
func (b *Builder) PowerRating(raw string) *Builder {
	w, ok := units.ParsePower(raw)
	if !ok {
		return b
	}

	b.conditions = append(b.conditions,
		fmt.Sprintf("json_extract(attributes, '%s') >= ?", powerPath))
	b.params = append(b.params, w)
	return b
}

// InputVoltageMin keeps power parts that declare an input-voltage range
// containing the requested volt figure.
func (b *Builder) InputVoltageMin(raw string) *Builder {
	v, ok := units.ParseVoltage(raw)
	if !ok {
		return b
	}

	b.conditions = append(b.conditions, fmt.Sprintf(
		"attributes LIKE ? AND json_extract(attributes, '%s') LIKE ?", inputVoltagePath))
	b.params = append(b.params, "%Input voltage%", fmt.Sprintf("%%%sV%%", formatVolts(v)))
	return b
}

// formatVolts renders a parsed voltage the way the attribute strings
// spell it: whole numbers keep one decimal place ("5" -> "5.0"), so the
// containment match lines up with values like "3.6V~5.0V".
func formatVolts(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// OutputVoltage filters the output-voltage attribute into a ±10% window.
func (b *Builder) OutputVoltage(raw string) *Builder {
	v, ok := units.ParseVoltage(raw)
	if !ok {
		return b
	}

	b.conditions = append(b.conditions,
		fmt.Sprintf("json_extract(attributes, '%s') BETWEEN ? AND ?", outputVoltagePath))
	b.params = append(b.params, v*(1-OutputVoltageTolerance), v*(1+OutputVoltageTolerance))
	return b
}

// OutputCurrent keeps parts whose output-current attribute, under either
// known sub-key spelling, meets or exceeds the requested value.
func (b *Builder) OutputCurrent(raw string) *Builder {
	a, ok := units.ParseCurrent(raw)
	if !ok {
		return b
	}

	b.conditions = append(b.conditions, fmt.Sprintf(
		"(json_extract(attributes, '%s') >= ? OR json_extract(attributes, '%s') >= ?)",
		outputCurrentPath, outputCurrent2Path))
	b.params = append(b.params, a, a)
	return b
}

// exactMatchTerm builds the scoring fragment awarding the precision bonus
// when the stored attribute lands within 1% of the requested value.
func exactMatchTerm(path string, v float64) string {
	return fmt.Sprintf(
		"(CASE WHEN ABS(json_extract(attributes, '%s') - %g) < %g THEN %d ELSE 0 END)",
		path, v, v*ExactMatchBand, exactMatchScore)
}

// Build joins the accumulated fragments into one SELECT ordered by match
// score, basic flag and stock. The store fetches 2x the requested result
// cap so the later price re-rank can discard less competitive candidates
// without shrinking below the requested count.
func (b *Builder) Build(maxResults int) Query {
	where := "1=1"
	if len(b.conditions) > 0 {
		where = strings.Join(b.conditions, " AND ")
	}

	scoreParts := append([]string{
		fmt.Sprintf("(CASE WHEN basic = 1 THEN %d ELSE 0 END)", basicScore),
		"(CASE WHEN stock > 0 THEN MIN(5, LOG10(stock + 1)) ELSE 0 END)",
	}, b.scoreParts...)

	sql := fmt.Sprintf(`
		SELECT lcsc, mfr_part, category, subcategory, manufacturer, package,
		       basic, stock, datasheet, attributes,
		       (%s) AS match_score
		FROM components
		WHERE %s
		ORDER BY match_score DESC, basic DESC, stock DESC
		LIMIT ?`,
		strings.Join(scoreParts, " + "), where)

	params := append(append([]any{}, b.params...), maxResults*2)
	return Query{SQL: sql, Params: params}
}
