// Package server implements the MCP (Model Context Protocol) server for netpbm tools.
//
// This package provides a JSON-RPC 2.0 server that exposes PBM, PGM and PPM
// processing through the MCP protocol, so MCP-compatible clients can inspect,
// convert and analyze netpbm images.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// Logs go to stderr so they never mix with responses.
//
// # Available Tools
//
// File Information:
//   - netpbm_load: Header metadata without reading pixels
//   - netpbm_dimensions: Width and height
//   - netpbm_header: Raw header fields and data offset
//
// Conversion:
//   - netpbm_recode: Change encoding, depth or format
//   - netpbm_export: Write PNG, JPEG, GIF, BMP or TIFF
//   - netpbm_import: Read PNG, JPEG, GIF, BMP or TIFF into netpbm
//   - netpbm_preview: Base64 PNG for display
//
// Color Operations:
//   - netpbm_sample_color, netpbm_sample_colors_multi, netpbm_dominant_colors
//
// Geometry:
//   - netpbm_crop, netpbm_crop_quadrant, netpbm_resize, netpbm_transform
//
// Analysis:
//   - netpbm_edge_map: Edges as a bitmap
//   - netpbm_compare: Pixel difference using CIEDE2000
//
// OCR Operations:
//   - netpbm_ocr, netpbm_detect_text_regions
//
// Geometry tools and netpbm_edge_map save their result when given an output
// path and return a PNG preview otherwise.
//
// # Image Caching
//
// Decoded images are cached by path and reused across tool calls. Writing a
// tool result to a path evicts that path from the cache.
//
// # Error Handling
//
// Errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	logger, _ := logging.NewLogger("netpbm-tools", "info")
//	srv := server.New(logger, server.Config{Version: version})
//	if err := srv.Run(); err != nil {
//	    logger.Fatal(err)
//	}
package server
