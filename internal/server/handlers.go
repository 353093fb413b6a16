package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"strings"

	"github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"

	"github.com/ironsheep/icon-mosaic/internal/imaging"
	"github.com/ironsheep/icon-mosaic/internal/mosaic"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "mosaic_generate").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`

	// Meta carries the optional progress token.
	Meta *struct {
		ProgressToken interface{} `json:"progressToken,omitempty"`
	} `json:"_meta,omitempty"`
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
// When the request carries _meta.progressToken, long-running tools emit
// notifications/progress while they work.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	var progress mosaic.ProgressFunc = mosaic.ProgressIgnore
	if params.Meta != nil && params.Meta.ProgressToken != nil {
		progress = s.progressNotifier(params.Meta.ProgressToken)
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments, progress)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

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

// progressNotifier sends notifications/progress at most once per whole
// percent.
func (s *Server) progressNotifier(token interface{}) mosaic.ProgressFunc {
	return mosaic.WholePercents(func(p float64) {
		s.notify("notifications/progress", map[string]interface{}{
			"progressToken": token,
			"progress":      p,
			"total":         100,
		})
	})
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images from cache as needed
//  4. Calls the appropriate imaging/mosaic function
//  5. Returns the result or error
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage, progress mosaic.ProgressFunc) (interface{}, error) {
	switch name {
	// Asset Library
	case "mosaic_load_assets":
		return s.handleLoadAssets(ctx, args)
	case "mosaic_list_assets":
		return s.handleListAssets(args)

	// Mosaic Operations
	case "mosaic_generate":
		return s.handleGenerate(ctx, args, progress)
	case "mosaic_preview_grid":
		return s.handlePreviewGrid(args)

	// Analysis Helpers
	case "mosaic_image_info":
		return s.handleImageInfo(args)
	case "mosaic_compare":
		return s.handleCompare(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	return json.Unmarshal(args, v)
}

// loadImage expands "~" in path and loads it through the cache.
func (s *Server) loadImage(path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	return s.cache.Load(expanded)
}

// === Asset Library Handlers ===

type loadAssetsArgs struct {
	Dir string `json:"dir"`
}

type librarySummary struct {
	Dir     string                `json:"dir"`
	Count   int                   `json:"count"`
	IDs     []string              `json:"ids"`
	Skipped []mosaic.SkippedAsset `json:"skipped,omitempty"`
}

func (s *Server) handleLoadAssets(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a loadAssetsArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Dir == "" {
		return nil, fmt.Errorf("dir is required")
	}
	dir, err := homedir.Expand(a.Dir)
	if err != nil {
		return nil, err
	}

	lib, err := s.LoadLibrary(ctx, dir)
	if err != nil {
		return nil, err
	}
	return &librarySummary{
		Dir:     dir,
		Count:   lib.Len(),
		IDs:     lib.IDs(),
		Skipped: lib.Skipped,
	}, nil
}

type assetInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	AverageColor string `json:"average_color"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}

type listAssetsResult struct {
	Dir     string                `json:"dir,omitempty"`
	Count   int                   `json:"count"`
	Assets  []assetInfo           `json:"assets"`
	Skipped []mosaic.SkippedAsset `json:"skipped,omitempty"`
}

func (s *Server) handleListAssets(args json.RawMessage) (interface{}, error) {
	if err := unmarshalArgs(args, &struct{}{}); err != nil {
		return nil, err
	}

	engine, dir := s.currentEngine()
	lib := engine.Library()
	result := &listAssetsResult{
		Dir:     dir,
		Count:   lib.Len(),
		Assets:  make([]assetInfo, 0, lib.Len()),
		Skipped: lib.Skipped,
	}
	for _, a := range lib.Assets {
		b := a.Bitmap.Bounds()
		result.Assets = append(result.Assets, assetInfo{
			ID:           a.ID,
			Name:         mosaic.DisplayName(a.ID),
			AverageColor: a.AverageColor().Hex(),
			Width:        b.Dx(),
			Height:       b.Dy(),
		})
	}
	return result, nil
}

// === Mosaic Operation Handlers ===

type generateArgs struct {
	Path       string  `json:"path"`
	ChunkSize  int     `json:"chunk_size"`
	Strategy   string  `json:"strategy"`
	Overlap    int     `json:"overlap"`
	Seed       int64   `json:"seed"`
	Scale      float64 `json:"scale"`
	OutputPath string  `json:"output_path"`
}

type generateResult struct {
	RunID      string                 `json:"run_id"`
	Width      int                    `json:"width"`
	Height     int                    `json:"height"`
	Chunks     int                    `json:"chunks"`
	Strategy   mosaic.Strategy        `json:"strategy"`
	ElapsedMs  int64                  `json:"elapsed_ms"`
	Used       []mosaic.UsageEntry    `json:"used"`
	Fidelity   *imaging.CompareResult `json:"fidelity"`
	OutputPath string                 `json:"output_path,omitempty"`
	Image      *imaging.EncodedImage  `json:"image,omitempty"`
	Warning    string                 `json:"warning,omitempty"`
}

func (a *generateArgs) params() (mosaic.Params, error) {
	if a.ChunkSize == 0 {
		a.ChunkSize = mosaic.DefaultChunkSize
	}
	if a.Strategy == "" {
		a.Strategy = mosaic.ColorMatch.String()
	}
	strategy, err := mosaic.ParseStrategy(a.Strategy)
	if err != nil {
		return mosaic.Params{}, err
	}
	p := mosaic.Params{
		ChunkSize: a.ChunkSize,
		Strategy:  strategy,
		Overlap:   a.Overlap,
		Seed:      a.Seed,
	}
	return p, p.Validate()
}

func (s *Server) handleGenerate(ctx context.Context, args json.RawMessage, progress mosaic.ProgressFunc) (interface{}, error) {
	var a generateArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	params, err := a.params()
	if err != nil {
		return nil, err
	}

	img, err := s.loadImage(a.Path)
	if err != nil {
		return nil, err
	}
	input, err := imaging.ScaleInput(img, a.Scale)
	if err != nil {
		return nil, err
	}

	var warnings []string
	b := input.Bounds()
	if w := largeImageWarning(b.Dx() * b.Dy()); w != "" {
		log.WithFields(log.Fields{
			"path":   a.Path,
			"pixels": b.Dx() * b.Dy(),
		}).Warn("Large mosaic input, generation may take a while")
		warnings = append(warnings, w)
	}

	engine, _ := s.currentEngine()
	res, err := engine.Generate(ctx, input, params, progress)
	if err != nil {
		return nil, err
	}

	fidelity, err := imaging.CompareImages(res.Image, input)
	if err != nil {
		return nil, err
	}

	out := &generateResult{
		RunID:     res.RunID,
		Width:     res.Image.Bounds().Dx(),
		Height:    res.Image.Bounds().Dy(),
		Chunks:    res.Chunks,
		Strategy:  params.Strategy,
		ElapsedMs: res.Elapsed.Milliseconds(),
		Used:      res.Used(),
		Fidelity:  fidelity,
	}
	if engine.Library().Len() == 0 {
		warnings = append(warnings, "asset library is empty; chunks were filled with their average color")
	}
	out.Warning = strings.Join(warnings, "; ")

	if a.OutputPath != "" {
		path, err := homedir.Expand(a.OutputPath)
		if err != nil {
			return nil, err
		}
		if err := imaging.SaveImage(res.Image, path); err != nil {
			return nil, err
		}
		out.OutputPath = path
	} else {
		encoded, err := imaging.EncodePNG(res.Image)
		if err != nil {
			return nil, err
		}
		out.Image = encoded
	}

	log.WithFields(log.Fields{
		"run":        res.RunID,
		"chunks":     res.Chunks,
		"strategy":   params.Strategy,
		"similarity": fidelity.SimilarityScore,
	}).Info("Mosaic generated")
	return out, nil
}

type previewGridArgs struct {
	Path      string  `json:"path"`
	ChunkSize int     `json:"chunk_size"`
	GridColor string  `json:"grid_color"`
	Scale     float64 `json:"scale"`
}

type previewGridResult struct {
	Columns int `json:"columns"`
	Rows    int `json:"rows"`
	Chunks  int `json:"chunks"`
	*imaging.EncodedImage
}

func (s *Server) handlePreviewGrid(args json.RawMessage) (interface{}, error) {
	var a previewGridArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.ChunkSize == 0 {
		a.ChunkSize = mosaic.DefaultChunkSize
	}
	if a.ChunkSize < 0 {
		return nil, mosaic.ErrInvalidChunkSize
	}
	if a.GridColor == "" {
		a.GridColor = "#FF0000"
	}
	gridColor, err := imaging.ParseHexColor(a.GridColor)
	if err != nil {
		return nil, err
	}

	img, err := s.loadImage(a.Path)
	if err != nil {
		return nil, err
	}
	input, err := imaging.ScaleInput(img, a.Scale)
	if err != nil {
		return nil, err
	}

	encoded, err := imaging.EncodePNG(imaging.ChunkGridOverlay(input, a.ChunkSize, gridColor))
	if err != nil {
		return nil, err
	}
	cols, rows := mosaic.GridSize(input.Bounds(), a.ChunkSize)
	return &previewGridResult{
		Columns:      cols,
		Rows:         rows,
		Chunks:       cols * rows,
		EncodedImage: encoded,
	}, nil
}

// === Analysis Helper Handlers ===

type imageInfoArgs struct {
	Path string `json:"path"`
}

type imageInfoResult struct {
	*imaging.ImageInfo
	Warning string `json:"warning,omitempty"`
}

func (s *Server) handleImageInfo(args json.RawMessage) (interface{}, error) {
	var a imageInfoArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	path, err := homedir.Expand(a.Path)
	if err != nil {
		return nil, err
	}
	info, err := imaging.LoadImageInfo(s.cache, path)
	if err != nil {
		return nil, err
	}

	return &imageInfoResult{ImageInfo: info, Warning: largeImageWarning(info.Pixels)}, nil
}

// largeImageWarning returns a warning for inputs above
// imaging.LargeImagePixels, or "".
func largeImageWarning(pixels int) string {
	if pixels <= imaging.LargeImagePixels {
		return ""
	}
	return fmt.Sprintf("image has %d pixels; consider a scale below 1.0", pixels)
}

type compareArgs struct {
	Path1 string `json:"path1"`
	Path2 string `json:"path2"`
}

func (s *Server) handleCompare(args json.RawMessage) (interface{}, error) {
	var a compareArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	img1, err := s.loadImage(a.Path1)
	if err != nil {
		return nil, err
	}
	img2, err := s.loadImage(a.Path2)
	if err != nil {
		return nil, err
	}
	return imaging.CompareImages(img1, img2)
}
