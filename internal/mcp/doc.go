// Package mcp exposes the component search pipeline as an MCP server
// over stdio.
//
// # Tools
//
// Four tools are registered:
//
//	search_components     - free-text plus parametric catalog search,
//	                        live-enriched and ranked price-first
//	get_component_details - one part's full catalog and live detail
//	update_database       - rebuild the catalog from the public snapshot
//	get_status            - catalog statistics
//
// Search and detail responses are rendered as markdown; update and
// status responses as indented JSON.
//
// # Startup
//
// NewServer opens the catalog database under the configured data
// directory. When the database is missing or empty, the full snapshot is
// downloaded before the server starts accepting requests, so the first
// search never races an empty catalog.
//
// # Error handling
//
// Parameter problems map to JSON-RPC code -32602 and pipeline failures
// to -32603. A search that merely matches nothing is not an error; the
// tool returns a plain-text message instead.
package mcp
