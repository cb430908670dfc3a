// Package types defines the shared data model for the component search
// server: catalog components and price tiers, per-search candidates with
// their live snapshots, the search request, and the open attribute bag.
package types
