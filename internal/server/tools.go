package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

func imagePathSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": pathProperty("Absolute path to the image file"),
		},
		"required": []string{"path"},
	}
}

func directorySchema(withFilter bool) map[string]interface{} {
	props := map[string]interface{}{
		"path": pathProperty("Absolute path to the directory to scan"),
		"recursive": map[string]interface{}{
			"type":        "boolean",
			"description": "Descend into subdirectories. Defaults to true when omitted",
			"default":     true,
		},
	}
	if withFilter {
		props["query"] = map[string]interface{}{
			"type":        "string",
			"description": "Case-insensitive substring matched against file name or path",
		}
		props["format"] = map[string]interface{}{
			"type":        "string",
			"description": "Extension to keep (e.g. \"png\"), or \"all\"",
		}
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   []string{"path"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Metadata and Listing
		{
			Name:        "image_scan",
			Description: "Extract metadata from an image file: dimensions, format, color type and depth, file size, EXIF tags, a 10-color palette and a 256-bucket luminance histogram.",
			InputSchema: imagePathSchema(),
		},
		{
			Name:        "image_list_directory",
			Description: "List the image files (jpg, jpeg, png, webp, gif, bmp) under a directory.",
			InputSchema: directorySchema(false),
		},
		{
			Name:        "image_filter",
			Description: "List the image files under a directory, keeping only those matching a name query and format.",
			InputSchema: directorySchema(true),
		},

		// Cached Artifacts
		{
			Name:        "image_thumbnail",
			Description: "Create (or reuse) a JPEG thumbnail no larger than 100x100 and return its path in the artifact cache.",
			InputSchema: imagePathSchema(),
		},
		{
			Name:        "image_focus_heatmap",
			Description: "Create (or reuse) a transparent PNG overlay marking sharp edges in green and return its path in the artifact cache.",
			InputSchema: imagePathSchema(),
		},
		{
			Name:        "image_focus_score",
			Description: "Compute a sharpness score as the variance of the Laplacian response. Higher means sharper.",
			InputSchema: imagePathSchema(),
		},

		// File Operations
		{
			Name:        "image_transform",
			Description: "Rotate, flip, or strip metadata from an image file, overwriting it in place.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
					"action": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"rotate90", "rotate180", "rotate270", "flip_h", "flip_v", "strip_meta"},
						"description": "Transform to apply; rotations are clockwise",
					},
				},
				"required": []string{"path", "action"},
			},
		},
		{
			Name:        "image_reveal",
			Description: "Open the system file manager at the folder containing a file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to a file or directory"),
				},
				"required": []string{"path"},
			},
		},

		// Text and Color
		{
			Name:        "image_ocr",
			Description: "Recognize text in an image. Detected lines are returned top to bottom, joined by newlines. Models are downloaded on first use.",
			InputSchema: imagePathSchema(),
		},
		{
			Name:        "image_export_palette",
			Description: "Sample an image's 10-color palette and render it as CSS variables, JSON, CSV or plain text.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"css", "json", "csv", "text"},
						"description": "Output format (default: text)",
					},
				},
				"required": []string{"path"},
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
