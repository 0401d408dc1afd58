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
		"description": "Absolute path to the image file",
	}
}

// tilingProperties are the optional arguments shared by every tool that
// plans tiles. Unset values come from the server configuration.
func tilingProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": pathProperty(),
		"slice_height": map[string]interface{}{
			"type":        "integer",
			"description": "Tile height in pixels. Set together with slice_width to override automatic sizing",
		},
		"slice_width": map[string]interface{}{
			"type":        "integer",
			"description": "Tile width in pixels",
		},
		"overlap_height_ratio": map[string]interface{}{
			"type":        "number",
			"description": "Vertical overlap between neighboring tiles, in [0, 1). Only used with an explicit tile size",
		},
		"overlap_width_ratio": map[string]interface{}{
			"type":        "number",
			"description": "Horizontal overlap between neighboring tiles, in [0, 1)",
		},
		"auto_slice_resolution": map[string]interface{}{
			"type":        "boolean",
			"description": "Choose tile size and overlap from the image resolution when no size is given",
		},
	}
}

func withProperties(base map[string]interface{}, extra map[string]interface{}) map[string]interface{} {
	for k, v := range extra {
		base[k] = v
	}
	return base
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_dimensions",
			Description: "Get the width, height, format and file size of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "slice_auto_params",
			Description: "Classify an image by orientation and resolution and return the tile size and overlap automatic slicing would use. Give either a path or width and height.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Image width in pixels, used when no path is given",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Image height in pixels, used when no path is given",
					},
				},
			},
		},
		{
			Name:        "slice_plan",
			Description: "Compute the tile rectangles an image would be cut into, without extracting pixels or writing files.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": tilingProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "slice_image",
			Description: "Cut an image into overlapping tiles and reproject its bounding-box annotations onto each tile. With output_dir set, writes {name}_{left}_{top}_{right}_{bottom}{ext} tiles and matching .txt annotation files. A '*' in output_dir becomes 'images' for tiles and 'labels' for annotation files.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(tilingProperties(), map[string]interface{}{
					"annotation_path": map[string]interface{}{
						"type":        "string",
						"description": "Annotation file for the whole image, one '{category} {cx} {cy} {w} {h}' line per box with normalized values",
					},
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory to write tiles to. When omitted, tiles are only computed",
					},
					"output_name": map[string]interface{}{
						"type":        "string",
						"description": "Naming root for written files. Defaults to the image file name without extension",
					},
					"min_area_ratio": map[string]interface{}{
						"type":        "number",
						"description": "Minimum fraction of an annotation's area that must fall inside a tile for it to be kept there",
					},
					"min_annotations": map[string]interface{}{
						"type":        "integer",
						"description": "Only write tiles with at least this many annotations; skip images with fewer in total",
					},
					"ext": map[string]interface{}{
						"type":        "string",
						"description": "Tile image extension, e.g. .jpg, .png or .webp",
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "slice_overlay",
			Description: "Render the tile plan and annotation boxes over the image and return it as base64-encoded PNG for visual inspection.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(tilingProperties(), map[string]interface{}{
					"annotation_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional annotation file whose boxes are drawn, colored by category",
					},
					"tile_color": map[string]interface{}{
						"type":        "string",
						"description": "Tile outline color in hex (#RRGGBB or #RRGGBBAA)",
					},
					"show_indices": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw each tile's index in its top-left corner",
					},
				}),
				"required": []string{"path"},
			},
		},
	}
}

func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return reply(req.ID, map[string]interface{}{"tools": GetToolDefinitions()})
}
