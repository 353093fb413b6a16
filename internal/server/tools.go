package server

import "github.com/ironsheep/icon-mosaic/internal/mosaic"

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

func strategyNames() []string {
	names := make([]string, 0, 4)
	for _, s := range mosaic.Strategies() {
		names = append(names, s.String())
	}
	return names
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Asset Library
		{
			Name:        "mosaic_load_assets",
			Description: "Load every PNG, JPEG, GIF, BMP and WebP file in a directory as the icon library used by mosaic_generate. Replaces any previously loaded library. Files that cannot be decoded are skipped and listed.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"dir": pathProperty("Absolute path to the directory holding the icon images"),
				},
				"required": []string{"dir"},
			},
		},
		{
			Name:        "mosaic_list_assets",
			Description: "List the icons of the loaded library with their display names and average colors.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Mosaic Operations
		{
			Name:        "mosaic_generate",
			Description: "Turn an image into a mosaic of library icons. The image is split into square chunks and each chunk is replaced by the best matching icon. Returns the used icons, a fidelity score against the input, and either the saved output path or the mosaic as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the input image"),
					"chunk_size": map[string]interface{}{
						"type":        "integer",
						"description": "Edge length of a chunk in pixels",
						"default":     mosaic.DefaultChunkSize,
						"minimum":     1,
					},
					"strategy": map[string]interface{}{
						"type":        "string",
						"description": "ColorMatch compares average colors, HistogramMatch compares luminance histograms, PatternMatch uses both and shifts tiles by overlap, RotateMatch uses both and rotates tiles randomly",
						"enum":        strategyNames(),
						"default":     mosaic.ColorMatch.String(),
					},
					"overlap": map[string]interface{}{
						"type":        "integer",
						"description": "PatternMatch only: tile shift in percent of the chunk size",
						"default":     0,
						"minimum":     0,
						"maximum":     mosaic.MaxOverlap,
					},
					"seed": map[string]interface{}{
						"type":        "integer",
						"description": "Seed for RotateMatch rotations; equal seeds give identical mosaics",
						"default":     0,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Scale factor applied to the input before processing (e.g., 0.5 halves both edges)",
						"default":     1.0,
					},
					"output_path": pathProperty("Optional path to save the mosaic to; the format follows the extension. When omitted the mosaic is returned inline"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "mosaic_preview_grid",
			Description: "Draw the chunk boundaries a mosaic run would use on top of the input image. Use this to pick a chunk size before generating.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the input image"),
					"chunk_size": map[string]interface{}{
						"type":        "integer",
						"description": "Edge length of a chunk in pixels",
						"default":     mosaic.DefaultChunkSize,
					},
					"grid_color": map[string]interface{}{
						"type":        "string",
						"description": "Line color in hex format",
						"default":     "#FF0000",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Scale factor applied to the input first",
						"default":     1.0,
					},
				},
				"required": []string{"path"},
			},
		},

		// Analysis Helpers
		{
			Name:        "mosaic_image_info",
			Description: "Get the dimensions, pixel count and format of an image, with a warning when it is large enough to make mosaic generation slow.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "mosaic_compare",
			Description: "Compare two images of identical dimensions pixel by pixel. Use it to measure how faithfully a saved mosaic reproduces its input.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path1": pathProperty("Absolute path to the first image"),
					"path2": pathProperty("Absolute path to the second image"),
				},
				"required": []string{"path1", "path2"},
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
