package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the netpbm file (.pbm, .pgm, .ppm or .pnm, optionally .gz or .zst compressed)",
}

var outputProperty = map[string]interface{}{
	"type":        "string",
	"description": "Optional path to save the result as netpbm. A .gz or .zst suffix compresses it. If omitted, a PNG preview is returned instead.",
}

var modeProperty = map[string]interface{}{
	"type":        "string",
	"enum":        []string{"ascii", "binary"},
	"description": "Pixel data encoding of the saved file. ASCII is limited to 70 pixels wide. Default binary.",
	"default":     "binary",
}

var regionProperty = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"x1": map[string]interface{}{"type": "integer"},
		"y1": map[string]interface{}{"type": "integer"},
		"x2": map[string]interface{}{"type": "integer"},
		"y2": map[string]interface{}{"type": "integer"},
	},
	"description": "Optional region (x2, y2 exclusive). If omitted, the entire image is used.",
}

// withImageOutput adds the output and mode properties shared by tools that
// produce a new image.
func withImageOutput(props map[string]interface{}) map[string]interface{} {
	props["output"] = outputProperty
	props["mode"] = modeProperty
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// File Information
		{
			Name:        "netpbm_load",
			Description: "Read a netpbm file's header and return its dimensions, format (pbm/pgm/ppm), encoding (ascii/binary), color depth, max-value and compression. Pixel data is not read.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "netpbm_dimensions",
			Description: "Get the width and height of a netpbm image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "netpbm_header",
			Description: "Parse the header of a netpbm file and return the raw header fields, including the magic number and the byte offset where pixel data starts.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},

		// Conversion
		{
			Name:        "netpbm_recode",
			Description: "Re-encode a netpbm file: switch between ascii and binary, change the sample depth, or convert to another netpbm format.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Path to write the re-encoded file to",
					},
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"pbm", "pgm", "ppm"},
						"description": "Target format. Default: same as the source.",
					},
					"mode": modeProperty,
					"depth": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"8", "16"},
						"description": "Bits per sample for pgm and ppm. Default: same as the source.",
					},
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Brightness (0-255) below which pixels become black when converting to pbm. Default 128.",
						"default":     128,
					},
				},
				"required": []string{"path", "output"},
			},
		},
		{
			Name:        "netpbm_export",
			Description: "Convert a netpbm image to PNG, JPEG, GIF, BMP or TIFF. The format is chosen from the output file extension.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Path to write to, ending in .png, .jpg, .gif, .bmp or .tif",
					},
					"quality": map[string]interface{}{
						"type":        "integer",
						"description": "JPEG quality 1-100. Default 90.",
						"default":     90,
					},
					"uncompressed": map[string]interface{}{
						"type":        "boolean",
						"description": "Write TIFF without deflate compression",
					},
				},
				"required": []string{"path", "output"},
			},
		},
		{
			Name:        "netpbm_import",
			Description: "Convert a PNG, JPEG, GIF, BMP or TIFF image to netpbm.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the source image",
					},
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Path to write the netpbm file to",
					},
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"pbm", "pgm", "ppm"},
						"description": "Target format. Default ppm.",
					},
					"mode": modeProperty,
					"depth": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"8", "16"},
						"description": "Bits per sample for pgm and ppm. Default 8.",
					},
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Brightness (0-255) below which pixels become black for pbm. Default 128.",
						"default":     128,
					},
				},
				"required": []string{"path", "output"},
			},
		},
		{
			Name:        "netpbm_preview",
			Description: "Render a netpbm image as a base64-encoded PNG for viewing.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"max_size": map[string]interface{}{
						"type":        "integer",
						"description": "Optional limit for the longer side; larger images are scaled down",
					},
				},
				"required": []string{"path"},
			},
		},

		// Color Operations
		{
			Name:        "netpbm_sample_color",
			Description: "Get the raw samples and the displayed color at a specific pixel coordinate.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "netpbm_sample_colors_multi",
			Description: "Get samples and colors at multiple pixel coordinates in a single call.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"points": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x":     map[string]interface{}{"type": "integer"},
								"y":     map[string]interface{}{"type": "integer"},
								"label": map[string]interface{}{"type": "string", "description": "Optional label for this point"},
							},
							"required": []string{"x", "y"},
						},
						"description": "Array of points to sample",
					},
				},
				"required": []string{"path", "points"},
			},
		},
		{
			Name:        "netpbm_dominant_colors",
			Description: "Analyze an image and return the N most dominant colors (color palette extraction).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of dominant colors to return (default 5)",
						"default":     5,
					},
					"region": regionProperty,
				},
				"required": []string{"path"},
			},
		},

		// Geometry
		{
			Name:        "netpbm_crop",
			Description: "Crop a rectangular region from an image. Samples are copied exactly.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withImageOutput(map[string]interface{}{
					"path": pathProperty,
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge X coordinate (0-based)",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge Y coordinate (0-based)",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Right edge X coordinate (exclusive)",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Bottom edge Y coordinate (exclusive)",
					},
				}),
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "netpbm_crop_quadrant",
			Description: "Crop a named region of the image (top-left, top-right, bottom-left, bottom-right, top-half, bottom-half, left-half, right-half, center).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withImageOutput(map[string]interface{}{
					"path": pathProperty,
					"region": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"top-left", "top-right", "bottom-left", "bottom-right", "top-half", "bottom-half", "left-half", "right-half", "center"},
						"description": "Named region to extract",
					},
				}),
				"required": []string{"path", "region"},
			},
		},
		{
			Name:        "netpbm_resize",
			Description: "Scale an image to a new size. Give only width or height to keep the aspect ratio.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withImageOutput(map[string]interface{}{
					"path":   pathProperty,
					"width":  map[string]interface{}{"type": "integer", "description": "Target width in pixels, 0 to keep aspect"},
					"height": map[string]interface{}{"type": "integer", "description": "Target height in pixels, 0 to keep aspect"},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "netpbm_transform",
			Description: "Flip or rotate an image. Rotations are counter-clockwise. Samples are copied exactly.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withImageOutput(map[string]interface{}{
					"path": pathProperty,
					"operation": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"flip_h", "flip_v", "rotate90", "rotate180", "rotate270", "transpose"},
						"description": "Transformation to apply",
					},
				}),
				"required": []string{"path", "operation"},
			},
		},

		// Analysis
		{
			Name:        "netpbm_edge_map",
			Description: "Detect edges and return them as a black-on-white bitmap.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withImageOutput(map[string]interface{}{
					"path": pathProperty,
					"radius": map[string]interface{}{
						"type":        "number",
						"description": "Edge kernel radius in pixels (default 1)",
						"default":     1,
					},
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Edge strength 1-255 a pixel must reach (default 64)",
						"default":     64,
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "netpbm_compare",
			Description: "Compare two images pixel by pixel and report how many pixels differ and by how much (CIEDE2000).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path1": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the first netpbm file",
					},
					"path2": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the second netpbm file",
					},
					"tolerance": map[string]interface{}{
						"type":        "number",
						"description": "Color distance below which pixels count as equal (default 0.01)",
						"default":     0.01,
					},
				},
				"required": []string{"path1", "path2"},
			},
		},

		// OCR Operations
		{
			Name:        "netpbm_ocr",
			Description: "Extract text from an image using OCR. Returns all text and word bounding boxes.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"language": map[string]interface{}{
						"type":        "string",
						"description": "Tesseract language code (default: eng)",
						"default":     "eng",
					},
					"whitelist": map[string]interface{}{
						"type":        "string",
						"description": "Optional set of characters to restrict recognition to",
					},
					"region": regionProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "netpbm_detect_text_regions",
			Description: "Find text blocks in an image without returning their text.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"min_confidence": map[string]interface{}{
						"type":        "number",
						"description": "Minimum confidence 0-1 (default 0.5)",
						"default":     0.5,
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
