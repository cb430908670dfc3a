// Package query builds parameterized catalog queries from search requests.
//
// A Builder accumulates three lists: conjunctive predicate fragments, their
// bound parameters, and additive scoring terms. Build joins each list once
// and returns the final SELECT with its parameters, so user-derived values
// never touch the SQL text.
//
// # Filters
//
// Free text is split on whitespace; every term must match one of mfr_part,
// category, subcategory or manufacturer (AND across terms, OR across fields
// per term). Structured filters AND onto that:
//
//   - category/package: substring match
//   - basic-only: exact flag equality
//   - min stock: declared stock >= threshold
//   - resistance: ±5% window, capacitance: ±10%, output voltage: ±10%
//   - voltage/power/output-current ratings: >= requested (safety margin)
//   - input voltage: declared range must contain the requested figure
//
// # Scoring
//
// Every candidate's match score sums:
//
//   - +10 when the part is Basic
//   - +min(5, log10(stock+1)) when stock is positive
//   - +5 per exact parametric match within 1% of the requested value
//
// Database ordering is score desc, basic desc, stock desc, with a fetch
// size of twice the requested cap to leave headroom for the live-price
// re-rank.
package query
