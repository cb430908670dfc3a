package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jlcsearch/jlcsearch-mcp/internal/report"
	"github.com/jlcsearch/jlcsearch-mcp/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
)

// handleSearchComponents handles the search_components tool invocation
func (s *Server) handleSearchComponents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	req := decodeSearchRequest(args)

	resp, err := s.searcher.Search(ctx, req)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if resp.Message != "" {
		return mcp.NewToolResultText(resp.Message), nil
	}

	return mcp.NewToolResultText(report.SearchResults(resp.Query, resp.Candidates)), nil
}

// handleGetComponentDetails handles the get_component_details tool invocation
func (s *Server) handleGetComponentDetails(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	lcsc, ok := args["lcsc"].(string)
	if !ok || lcsc == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "lcsc parameter is required", map[string]interface{}{
			"param":  "lcsc",
			"reason": "missing or empty",
		})
	}

	resp, err := s.searcher.Detail(ctx, lcsc)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "detail lookup failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if resp.Message != "" {
		return mcp.NewToolResultText(resp.Message), nil
	}

	return mcp.NewToolResultText(report.ComponentDetail(resp.Component, resp.Live, resp.CatalogTiers)), nil
}

// handleUpdateDatabase handles the update_database tool invocation
func (s *Server) handleUpdateDatabase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()
	s.log.Info("catalog update requested")

	if err := s.ingestor.Update(ctx); err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "catalog update failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to read catalog statistics", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"updated":     true,
		"components":  stats.Components,
		"basic_parts": stats.BasicParts,
		"price_rows":  stats.PriceRows,
		"duration_ms": time.Since(start).Milliseconds(),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to read catalog statistics", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"database_path": s.cfg.DatabasePath,
		"components":    stats.Components,
		"basic_parts":   stats.BasicParts,
		"price_rows":    stats.PriceRows,
		"size_mb":       fmt.Sprintf("%.2f", stats.SizeMB),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// decodeSearchRequest maps tool arguments onto a search request. Every
// field is optional; an empty request matches the whole catalog.
func decodeSearchRequest(args map[string]interface{}) *types.SearchRequest {
	req := &types.SearchRequest{
		Query:           getStringDefault(args, "query", ""),
		Category:        getStringDefault(args, "category", ""),
		Package:         getStringDefault(args, "package", ""),
		BasicOnly:       getBoolDefault(args, "basic_only", false),
		MaxResults:      getIntDefault(args, "max_results", types.DefaultSearchResults),
		Resistance:      getStringDefault(args, "resistance", ""),
		Capacitance:     getStringDefault(args, "capacitance", ""),
		VoltageRating:   getStringDefault(args, "voltage_rating", ""),
		InputVoltageMin: getStringDefault(args, "input_voltage_min", ""),
		InputVoltageMax: getStringDefault(args, "input_voltage_max", ""),
		OutputVoltage:   getStringDefault(args, "output_voltage", ""),
		OutputCurrent:   getStringDefault(args, "output_current", ""),
		PowerRating:     getStringDefault(args, "power_rating", ""),
	}

	if v, ok := args["min_stock"].(float64); ok {
		n := int64(v)
		req.MinStock = &n
	}

	return req
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
