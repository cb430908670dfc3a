// Package live fetches current stock, pricing and specifications for a
// part from the public product-detail endpoint. Nothing is cached: every
// lookup is a fresh request, and every failure collapses to ErrNoLiveData
// so the search layer has a single fallback path to catalog data.
package live
