package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// imageProperties describes how a tool names and converts its image.
func imageProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to a 2-D image file (PNG, JPEG, GIF, TIFF)",
		},
		"paths": map[string]interface{}{
			"type":        "array",
			"items":       map[string]interface{}{"type": "string"},
			"description": "Absolute paths of a Z stack, one file per plane in Z order. Overrides path.",
		},
		"calibration": map[string]interface{}{
			"type":        "array",
			"items":       map[string]interface{}{"type": "number"},
			"description": "Physical pixel size per axis [x, y] or [x, y, z]. Defaults to the server configuration.",
		},
		"intensity": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"luma", "lightness", "red", "green", "blue"},
			"description": "How color pixels become intensities. Grayscale images always use their stored value.",
		},
		"smooth": map[string]interface{}{
			"type":        "number",
			"description": "Gaussian blur radius in pixels applied before measuring. 0 disables it.",
		},
	}
}

// spotProperties describes one spot in physical units.
func spotProperties() map[string]interface{} {
	return map[string]interface{}{
		"id": map[string]interface{}{
			"type":        "integer",
			"description": "Spot identifier echoed in results",
		},
		"x": map[string]interface{}{
			"type":        "number",
			"description": "Spot center X in physical units",
		},
		"y": map[string]interface{}{
			"type":        "number",
			"description": "Spot center Y in physical units",
		},
		"z": map[string]interface{}{
			"type":        "number",
			"description": "Spot center Z in physical units (required for Z stacks)",
		},
		"radius": map[string]interface{}{
			"type":        "number",
			"description": "Spot radius in physical units. Defaults to the server configuration.",
		},
		"quality": map[string]interface{}{
			"type":        "number",
			"description": "Optional detection quality, carried as a feature",
		},
		"roi": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x": map[string]interface{}{"type": "number"},
					"y": map[string]interface{}{"type": "number"},
				},
				"required": []string{"x", "y"},
			},
			"description": "Optional polygon contour: vertex offsets from the spot center in physical units (at least 3). Used for 2-D images only.",
		},
	}
}

func withProperties(sets ...map[string]interface{}) map[string]interface{} {
	out := map[string]interface{}{}
	for _, set := range sets {
		for k, v := range set {
			out[k] = v
		}
	}
	return out
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format, bit depth and whether it is grayscale. The decoded image is cached for later spot tools.",
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
			Name:        "image_crop",
			Description: "Crop a rectangle of an image (pixel coordinates, max exclusive) and return it as a base64 PNG, clipped to the image and enlarged with nearest-neighbor scaling. Use it to see the context around a group of spots.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"x1": map[string]interface{}{"type": "integer", "description": "Left edge (inclusive)"},
					"y1": map[string]interface{}{"type": "integer", "description": "Top edge (inclusive)"},
					"x2": map[string]interface{}{"type": "integer", "description": "Right edge (exclusive)"},
					"y2": map[string]interface{}{"type": "integer", "description": "Bottom edge (exclusive)"},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Enlargement factor (default 1.0)",
					},
				},
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},

		// Spot Detection
		{
			Name:        "spot_detect",
			Description: "Find bright spots in a 2-D image: 8-connected local maxima at or above threshold, brightest first, with peaks closer than radius to a brighter one dropped. Returned positions are physical units and can be passed straight to the other spot tools.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(imageProperties(), map[string]interface{}{
					"radius": map[string]interface{}{
						"type":        "number",
						"description": "Expected spot radius in physical units. Defaults to the server configuration.",
					},
					"threshold": map[string]interface{}{
						"type":        "number",
						"description": "Minimum peak intensity (default 0)",
					},
					"max_spots": map[string]interface{}{
						"type":        "integer",
						"description": "Keep only the brightest spots. 0 means no limit.",
					},
				}),
				"required": []string{"path"},
			},
		},

		// Spot Geometry
		{
			Name:        "spot_bounds",
			Description: "Resolve which pixels belong to a spot: the mode used (roi, radius or single-pixel), the pixel bounding box (max exclusive) and the member pixel count.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": withProperties(imageProperties(), spotProperties()),
				"required":   []string{"x", "y"},
			},
		},
		{
			Name:        "spot_pixels",
			Description: "List the member pixels of a spot with their intensity, in raster order (X fastest).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(imageProperties(), spotProperties(), map[string]interface{}{
					"max_samples": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of pixels to return. Defaults to the server configuration.",
					},
				}),
				"required": []string{"x", "y"},
			},
		},

		// Spot Measurement
		{
			Name:        "spot_intensity",
			Description: "Intensity statistics over the member pixels of a spot: count, calibrated area or volume, mean, median, min, max, total, standard deviation and intensity-weighted center of mass.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": withProperties(imageProperties(), spotProperties()),
				"required":   []string{"x", "y"},
			},
		},
		{
			Name:        "spot_measure_batch",
			Description: "Measure intensity statistics for many spots on the same image in one call. Fails on the first spot that cannot be measured.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(imageProperties(), map[string]interface{}{
					"spots": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type":       "object",
							"properties": spotProperties(),
							"required":   []string{"x", "y"},
						},
						"description": "Spots to measure",
					},
				}),
				"required": []string{"spots"},
			},
		},

		// Spot Preview
		{
			Name:        "spot_crop",
			Description: "Render the area around a spot as a base64 PNG with member pixels tinted and the bounding box outlined. For Z stacks the plane through the spot center is shown.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(imageProperties(), spotProperties(), map[string]interface{}{
					"padding": map[string]interface{}{
						"type":        "integer",
						"description": "Context pixels around the bounding box. Defaults to the server configuration.",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Enlargement factor (nearest-neighbor). Defaults to the server configuration.",
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Mask color as #RRGGBB. Defaults to the server configuration.",
					},
				}),
				"required": []string{"x", "y"},
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
