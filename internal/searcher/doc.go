// Package searcher orchestrates the search pipeline: translate the
// request into a catalog query, enrich the returned candidates with live
// stock and pricing through a bounded worker pool, then re-rank
// price-first and truncate to the requested cap.
//
// Live enrichment is strictly best-effort. A candidate whose lookup
// fails keeps its catalog stock and datasheet and sorts after every
// candidate with real pricing.
package searcher
