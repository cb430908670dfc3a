package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// searchComponentsTool returns the tool definition for search_components
func searchComponentsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_components",
		Description: "Search the JLCPCB parts catalog with free text and parametric filters, ranked by live price and availability",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Free-text search over part number, category and manufacturer (e.g. '10k resistor 0805')",
				},
				"category": map[string]interface{}{
					"type":        "string",
					"description": "Filter by category or subcategory name",
				},
				"package": map[string]interface{}{
					"type":        "string",
					"description": "Filter by package (e.g. '0805', 'SOT-23', 'LQFP-48')",
				},
				"basic_only": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, return only Basic parts (no extended-part fee)",
					"default":     false,
				},
				"min_stock": map[string]interface{}{
					"type":        "integer",
					"description": "Minimum declared stock level",
				},
				"max_results": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-50)",
					"default":     10,
					"minimum":     1,
					"maximum":     50,
				},
				"resistance": map[string]interface{}{
					"type":        "string",
					"description": "Resistance value with optional unit (e.g. '10k', '4.7M', '100R'), matched within 5%",
				},
				"capacitance": map[string]interface{}{
					"type":        "string",
					"description": "Capacitance value with optional unit (e.g. '10uF', '22pF', '100n'), matched within 10%",
				},
				"voltage_rating": map[string]interface{}{
					"type":        "string",
					"description": "Minimum voltage rating (e.g. '16V'); parts at or above this rating match",
				},
				"input_voltage_min": map[string]interface{}{
					"type":        "string",
					"description": "Input voltage a regulator must accept (e.g. '5V')",
				},
				"input_voltage_max": map[string]interface{}{
					"type":        "string",
					"description": "Upper input voltage of interest (accepted for compatibility, not used for filtering)",
				},
				"output_voltage": map[string]interface{}{
					"type":        "string",
					"description": "Regulator output voltage (e.g. '3.3V'), matched within 10%",
				},
				"output_current": map[string]interface{}{
					"type":        "string",
					"description": "Minimum output current (e.g. '500mA', '1A'); parts at or above match",
				},
				"power_rating": map[string]interface{}{
					"type":        "string",
					"description": "Minimum power rating (e.g. '250mW', '1W'); parts at or above match",
				},
			},
		},
	}
}

// getComponentDetailsTool returns the tool definition for get_component_details
func getComponentDetailsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_component_details",
		Description: "Get full details for one part by its LCSC number, including live stock, pricing and specifications",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"lcsc": map[string]interface{}{
					"type":        "string",
					"description": "LCSC part number, with or without the C prefix (e.g. 'C25804' or '25804')",
				},
			},
			Required: []string{"lcsc"},
		},
	}
}

// updateDatabaseTool returns the tool definition for update_database
func updateDatabaseTool() mcp.Tool {
	return mcp.Tool{
		Name:        "update_database",
		Description: "Rebuild the local parts catalog from the latest public snapshot. Takes several minutes",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Report local catalog statistics: component count, Basic part count, price rows and database size",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
