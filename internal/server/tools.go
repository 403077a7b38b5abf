package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file. Defaults to the image set by image_load",
	}
}

func toleranceProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"description": "Maximum Euclidean RGBA distance (0-510) for a pixel to count as the same color. 0 means exact match. Defaults to the server's configured tolerance",
		"minimum":     0,
		"maximum":     510,
	}
}

func intProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
	}
}

// regionSelectorProperties describes the two ways to pick a region: a seed
// point measured with rays, or two corners refined as a rectangle.
func regionSelectorProperties() map[string]interface{} {
	return map[string]interface{}{
		"path":      pathProperty(),
		"x":         intProperty("Seed X coordinate (0-based). Use with y to measure from a point"),
		"y":         intProperty("Seed Y coordinate (0-based)"),
		"x1":        intProperty("First corner X. Use x1, y1, x2, y2 to refine a rectangle instead of a seed"),
		"y1":        intProperty("First corner Y"),
		"x2":        intProperty("Second corner X"),
		"y2":        intProperty("Second corner Y"),
		"tolerance": toleranceProperty(),
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	overlayProps := regionSelectorProperties()
	overlayProps["color"] = map[string]interface{}{
		"type":        "string",
		"description": "Outline color as hex #RRGGBB or #RRGGBBAA. Defaults to the configured overlay color",
	}

	cropProps := regionSelectorProperties()
	cropProps["padding"] = map[string]interface{}{
		"type":        "integer",
		"description": "Pixels of context to include around the region (default 0)",
		"default":     0,
	}
	cropProps["scale"] = map[string]interface{}{
		"type":        "number",
		"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
		"default":     1.0,
	}

	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. Sets this as the active image for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
			},
		},

		// Color Operations
		{
			Name:        "image_sample_color",
			Description: "Get the exact color value at a specific pixel coordinate.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x":    intProperty("X coordinate (0-based, from left)"),
					"y":    intProperty("Y coordinate (0-based, from top)"),
				},
				"required": []string{"x", "y"},
			},
		},
		{
			Name:        "color_distance",
			Description: "Compare two colors and report their RGBA distance, whether they match at a tolerance, and their perceptual (CIE76) difference. Use this to pick a tolerance before measuring.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"color_a": map[string]interface{}{
						"type":        "string",
						"description": "First color as hex #RRGGBB or #RRGGBBAA",
					},
					"color_b": map[string]interface{}{
						"type":        "string",
						"description": "Second color as hex #RRGGBB or #RRGGBBAA",
					},
					"tolerance": toleranceProperty(),
				},
				"required": []string{"color_a", "color_b"},
			},
		},

		// Region Operations
		{
			Name:        "region_measure",
			Description: "Measure the run of same-colored pixels through a seed point. Scans up, down, left and right along the seed's row and column only and returns the inclusive top, bottom, left and right edges plus width and height. This is not a flood fill: the result is exact for axis-aligned solid shapes.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":      pathProperty(),
					"x":         intProperty("Seed X coordinate (0-based, from left)"),
					"y":         intProperty("Seed Y coordinate (0-based, from top)"),
					"tolerance": toleranceProperty(),
				},
				"required": []string{"x", "y"},
			},
		},
		{
			Name:        "region_rectangle",
			Description: "Find the tightest rectangle inside a rough selection. Starting from each side of the sub-region spanned by two corners, returns the first row or column that is not entirely the color of the top-left corner. Corners may be given in any order. A uniform selection reports empty: true.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":      pathProperty(),
					"x1":        intProperty("First corner X (0-based)"),
					"y1":        intProperty("First corner Y (0-based)"),
					"x2":        intProperty("Second corner X (0-based)"),
					"y2":        intProperty("Second corner Y (0-based)"),
					"tolerance": toleranceProperty(),
				},
				"required": []string{"x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "region_overlay",
			Description: "Measure a region (from a seed point or two corners) and return the image as base64 PNG with the result outlined and labeled WxH. For seed measurements the scanned row and column are also marked.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": overlayProps,
			},
		},
		{
			Name:        "region_crop",
			Description: "Measure a region (from a seed point or two corners) and return just that region as base64 PNG, optionally padded and scaled.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": cropProps,
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
