package server

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/ironsheep/netpbm-tools/internal/imaging"
	"github.com/ironsheep/netpbm-tools/internal/netpbm"
	"github.com/ironsheep/netpbm-tools/internal/ocr"
	"github.com/ironsheep/netpbm-tools/internal/pnmfile"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "netpbm_load", "netpbm_crop").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Errorw("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}
	s.logger.Debugw("tool succeeded", "tool", params.Name)

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images from cache as needed
//  4. Calls the appropriate imaging/ocr function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// File Information
	case "netpbm_load":
		return s.handleLoad(args)
	case "netpbm_dimensions":
		return s.handleDimensions(args)
	case "netpbm_header":
		return s.handleHeader(args)

	// Conversion
	case "netpbm_recode":
		return s.handleRecode(args)
	case "netpbm_export":
		return s.handleExport(args)
	case "netpbm_import":
		return s.handleImport(args)
	case "netpbm_preview":
		return s.handlePreview(args)

	// Color Operations
	case "netpbm_sample_color":
		return s.handleSampleColor(args)
	case "netpbm_sample_colors_multi":
		return s.handleSampleColorsMulti(args)
	case "netpbm_dominant_colors":
		return s.handleDominantColors(args)

	// Geometry
	case "netpbm_crop":
		return s.handleCrop(args)
	case "netpbm_crop_quadrant":
		return s.handleCropQuadrant(args)
	case "netpbm_resize":
		return s.handleResize(args)
	case "netpbm_transform":
		return s.handleTransform(args)

	// Analysis
	case "netpbm_edge_map":
		return s.handleEdgeMap(args)
	case "netpbm_compare":
		return s.handleCompare(args)

	// OCR Operations
	case "netpbm_ocr":
		return s.handleOCR(args)
	case "netpbm_detect_text_regions":
		return s.handleDetectTextRegions(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
// An empty data string is left out of the response.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{
		Code:    code,
		Message: message,
	}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   e,
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// regionArg is the JSON form of an imaging.Region.
type regionArg struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

func (r *regionArg) region() *imaging.Region {
	if r == nil {
		return nil
	}
	return &imaging.Region{X1: r.X1, Y1: r.Y1, X2: r.X2, Y2: r.Y2}
}

// parseMode maps an optional mode argument, defaulting to binary.
func parseMode(s string) (netpbm.Mode, error) {
	if s == "" {
		return netpbm.Binary, nil
	}
	return netpbm.ParseMode(s)
}

// thresholdOr returns the brightness threshold argument or the default.
func thresholdOr(t *int) int {
	if t == nil {
		return imaging.DefaultBitmapThreshold
	}
	return *t
}

// savedImage describes a netpbm file written by a tool.
type savedImage struct {
	Path string `json:"path"`
	*imaging.ImageInfo
}

// save writes img to path and drops any stale cached copy of that path.
func (s *Server) save(path string, img *netpbm.Image, mode netpbm.Mode) (*savedImage, error) {
	if err := pnmfile.Save(path, img, mode); err != nil {
		return nil, err
	}
	s.cache.Evict(path)

	info, err := imaging.LoadImageInfo(path)
	if err != nil {
		return nil, err
	}
	s.logger.Infow("saved image", "path", path, "format", info.Format,
		"width", info.Width, "height", info.Height)
	return &savedImage{Path: path, ImageInfo: info}, nil
}

// imageOutputArgs are shared by the tools that produce a new image.
type imageOutputArgs struct {
	Path   string `json:"path"`
	Output string `json:"output"`
	Mode   string `json:"mode"`
}

// emit saves img when an output path was given, and otherwise returns a PNG
// preview of it.
func (s *Server) emit(img *netpbm.Image, a imageOutputArgs) (interface{}, error) {
	mode, err := parseMode(a.Mode)
	if err != nil {
		return nil, err
	}
	if a.Output == "" {
		return imaging.Preview(img, s.cfg.PreviewMaxSize)
	}
	return s.save(a.Output, img, mode)
}

// === File Information Handlers ===

type pathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleLoad(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(a.Path)
}

func (s *Server) handleDimensions(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// headerResult is the raw header of a netpbm file.
type headerResult struct {
	Magic       string `json:"magic"`
	Format      string `json:"format"`
	Encoding    string `json:"encoding"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	MaxValue    int    `json:"max_value"`
	DataOffset  int    `json:"data_offset"`
	Compression string `json:"compression"`
}

func (s *Server) handleHeader(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	h, comp, err := pnmfile.LoadHeader(a.Path)
	if err != nil {
		return nil, err
	}
	magic := h.Variant.Magic(h.Mode)
	return &headerResult{
		Magic:       string(magic[:]),
		Format:      h.Variant.Extension(),
		Encoding:    h.Mode.String(),
		Width:       h.Width,
		Height:      h.Height,
		MaxValue:    h.MaxValue,
		DataOffset:  h.DataOffset,
		Compression: comp.String(),
	}, nil
}

// === Conversion Handlers ===

type recodeArgs struct {
	Path      string `json:"path"`
	Output    string `json:"output"`
	Format    string `json:"format"`
	Mode      string `json:"mode"`
	Depth     string `json:"depth"`
	Threshold *int   `json:"threshold"`
}

func (s *Server) handleRecode(args json.RawMessage) (interface{}, error) {
	var a recodeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Output == "" {
		return nil, errors.New("output path is required")
	}
	mode, err := parseMode(a.Mode)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	variant, depth := img.Variant, img.Depth
	if a.Format != "" {
		if variant, err = netpbm.ParseVariant(a.Format); err != nil {
			return nil, err
		}
	}
	if a.Depth != "" {
		if depth, err = netpbm.ParseDepth(a.Depth); err != nil {
			return nil, err
		}
	}

	out, err := imaging.Recode(img, variant, depth, thresholdOr(a.Threshold))
	if err != nil {
		return nil, err
	}
	return s.save(a.Output, out, mode)
}

type exportArgs struct {
	Path         string `json:"path"`
	Output       string `json:"output"`
	Quality      int    `json:"quality"`
	Uncompressed bool   `json:"uncompressed"`
}

// exportResult describes a file written in a common image format.
type exportResult struct {
	Path          string `json:"path"`
	Format        string `json:"format"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	FileSizeBytes int64  `json:"file_size_bytes"`
}

func (s *Server) handleExport(args json.RawMessage) (interface{}, error) {
	var a exportArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Output == "" {
		return nil, errors.New("output path is required")
	}
	if a.Quality == 0 {
		a.Quality = imaging.DefaultJPEGQuality
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	opts := imaging.ExportOptions{Quality: a.Quality, Uncompressed: a.Uncompressed}
	if err := imaging.ExportFile(img, a.Output, opts); err != nil {
		return nil, err
	}
	stat, err := os.Stat(a.Output)
	if err != nil {
		return nil, errors.Wrap(err, "failed to stat exported file")
	}
	return &exportResult{
		Path:          a.Output,
		Format:        strings.ToLower(strings.TrimPrefix(filepath.Ext(a.Output), ".")),
		Width:         img.Width,
		Height:        img.Height,
		FileSizeBytes: stat.Size(),
	}, nil
}

type importArgs struct {
	Path      string `json:"path"`
	Output    string `json:"output"`
	Format    string `json:"format"`
	Mode      string `json:"mode"`
	Depth     string `json:"depth"`
	Threshold *int   `json:"threshold"`
}

func (s *Server) handleImport(args json.RawMessage) (interface{}, error) {
	var a importArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Output == "" {
		return nil, errors.New("output path is required")
	}
	mode, err := parseMode(a.Mode)
	if err != nil {
		return nil, err
	}

	variant, depth := netpbm.Pixmap, netpbm.Eight
	if a.Format != "" {
		if variant, err = netpbm.ParseVariant(a.Format); err != nil {
			return nil, err
		}
	}
	if a.Depth != "" {
		if depth, err = netpbm.ParseDepth(a.Depth); err != nil {
			return nil, err
		}
	}

	img, err := imaging.Import(a.Path, variant, depth, thresholdOr(a.Threshold))
	if err != nil {
		return nil, err
	}
	return s.save(a.Output, img, mode)
}

type previewArgs struct {
	Path    string `json:"path"`
	MaxSize int    `json:"max_size"`
}

func (s *Server) handlePreview(args json.RawMessage) (interface{}, error) {
	var a previewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.MaxSize == 0 {
		a.MaxSize = s.cfg.PreviewMaxSize
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Preview(img, a.MaxSize)
}

// === Color Operation Handlers ===

type sampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleSampleColor(args json.RawMessage) (interface{}, error) {
	var a sampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

type sampleColorsMultiArgs struct {
	Path   string `json:"path"`
	Points []struct {
		X     int    `json:"x"`
		Y     int    `json:"y"`
		Label string `json:"label,omitempty"`
	} `json:"points"`
}

func (s *Server) handleSampleColorsMulti(args json.RawMessage) (interface{}, error) {
	var a sampleColorsMultiArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	points := make([]imaging.LabeledPoint, len(a.Points))
	for i, p := range a.Points {
		points[i] = imaging.LabeledPoint{X: p.X, Y: p.Y, Label: p.Label}
	}
	return imaging.SampleColorsMulti(img, points)
}

type dominantColorsArgs struct {
	Path   string     `json:"path"`
	Count  int        `json:"count"`
	Region *regionArg `json:"region,omitempty"`
}

func (s *Server) handleDominantColors(args json.RawMessage) (interface{}, error) {
	var a dominantColorsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.DominantColors(img, a.Count, a.Region.region())
}

// === Geometry Handlers ===

type cropArgs struct {
	imageOutputArgs
	regionArg
}

func (s *Server) handleCrop(args json.RawMessage) (interface{}, error) {
	var a cropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	out, err := imaging.Crop(img, *a.regionArg.region())
	if err != nil {
		return nil, err
	}
	return s.emit(out, a.imageOutputArgs)
}

type cropQuadrantArgs struct {
	imageOutputArgs
	Region string `json:"region"`
}

func (s *Server) handleCropQuadrant(args json.RawMessage) (interface{}, error) {
	var a cropQuadrantArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	out, err := imaging.CropQuadrant(img, a.Region)
	if err != nil {
		return nil, err
	}
	return s.emit(out, a.imageOutputArgs)
}

type resizeArgs struct {
	imageOutputArgs
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s *Server) handleResize(args json.RawMessage) (interface{}, error) {
	var a resizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	out, err := imaging.Resize(img, a.Width, a.Height)
	if err != nil {
		return nil, err
	}
	return s.emit(out, a.imageOutputArgs)
}

type transformArgs struct {
	imageOutputArgs
	Operation string `json:"operation"`
}

func (s *Server) handleTransform(args json.RawMessage) (interface{}, error) {
	var a transformArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	out, err := imaging.Transform(img, a.Operation)
	if err != nil {
		return nil, err
	}
	return s.emit(out, a.imageOutputArgs)
}

// === Analysis Handlers ===

type edgeMapArgs struct {
	imageOutputArgs
	Radius    float64 `json:"radius"`
	Threshold int     `json:"threshold"`
}

func (s *Server) handleEdgeMap(args json.RawMessage) (interface{}, error) {
	var a edgeMapArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Radius == 0 {
		a.Radius = imaging.DefaultEdgeRadius
	}
	if a.Threshold == 0 {
		a.Threshold = imaging.DefaultEdgeThreshold
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	out, err := imaging.EdgeMap(img, a.Radius, a.Threshold)
	if err != nil {
		return nil, err
	}
	return s.emit(out, a.imageOutputArgs)
}

type compareArgs struct {
	Path1     string   `json:"path1"`
	Path2     string   `json:"path2"`
	Tolerance *float64 `json:"tolerance"`
}

func (s *Server) handleCompare(args json.RawMessage) (interface{}, error) {
	var a compareArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	tolerance := imaging.DefaultCompareTolerance
	if a.Tolerance != nil {
		tolerance = *a.Tolerance
	}

	img1, err := s.cache.Load(a.Path1)
	if err != nil {
		return nil, errors.Wrap(err, "first image")
	}
	img2, err := s.cache.Load(a.Path2)
	if err != nil {
		return nil, errors.Wrap(err, "second image")
	}
	return imaging.Compare(img1, img2, tolerance)
}

// === OCR Handlers ===

type ocrArgs struct {
	Path      string     `json:"path"`
	Language  string     `json:"language"`
	Whitelist string     `json:"whitelist"`
	Region    *regionArg `json:"region,omitempty"`
}

func (s *Server) handleOCR(args json.RawMessage) (interface{}, error) {
	var a ocrArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	opts := ocr.Options{
		Language:       a.Language,
		Whitelist:      a.Whitelist,
		TessdataPrefix: s.cfg.TessdataPrefix,
	}
	if r := a.Region.region(); r != nil {
		return ocr.ExtractTextFromRegion(img, *r, opts)
	}
	return ocr.ExtractText(img, opts)
}

type detectTextRegionsArgs struct {
	Path          string   `json:"path"`
	MinConfidence *float64 `json:"min_confidence"`
	Language      string   `json:"language"`
}

func (s *Server) handleDetectTextRegions(args json.RawMessage) (interface{}, error) {
	var a detectTextRegionsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	minConfidence := 0.5
	if a.MinConfidence != nil {
		minConfidence = *a.MinConfidence
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	opts := ocr.Options{Language: a.Language, TessdataPrefix: s.cfg.TessdataPrefix}
	return ocr.DetectTextRegions(img, minConfidence, opts)
}
