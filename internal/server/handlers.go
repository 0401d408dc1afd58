package server

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"path/filepath"
	"strings"

	"github.com/ironsheep/image-slicer/internal/imaging"
	"github.com/ironsheep/image-slicer/internal/slicing"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "slice_plan", "slice_image").
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
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return reply(req.ID, map[string]interface{}{
		"content": []map[string]interface{}{
			{"type": "text", "text": mustMarshalJSON(result)},
		},
	})
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "slice_auto_params":
		return s.handleSliceAutoParams(args)
	case "slice_plan":
		return s.handleSlicePlan(args)
	case "slice_image":
		return s.handleSliceImage(args)
	case "slice_overlay":
		return s.handleSliceOverlay(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse builds a JSON-RPC error; an empty data is omitted.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{Code: code, Message: message}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{JSONRPC: "2.0", ID: id, Error: e}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// tilingArgs holds the arguments shared by every tool that plans tiles.
// Nil fields keep the configured value.
type tilingArgs struct {
	Path                string   `json:"path"`
	SliceHeight         *int     `json:"slice_height"`
	SliceWidth          *int     `json:"slice_width"`
	OverlapHeightRatio  *float64 `json:"overlap_height_ratio"`
	OverlapWidthRatio   *float64 `json:"overlap_width_ratio"`
	AutoSliceResolution *bool    `json:"auto_slice_resolution"`
}

func (a tilingArgs) apply(opts slicing.Options) slicing.Options {
	if a.SliceHeight != nil {
		opts.SliceHeight = *a.SliceHeight
	}
	if a.SliceWidth != nil {
		opts.SliceWidth = *a.SliceWidth
	}
	if a.OverlapHeightRatio != nil {
		opts.OverlapHeightRatio = *a.OverlapHeightRatio
	}
	if a.OverlapWidthRatio != nil {
		opts.OverlapWidthRatio = *a.OverlapWidthRatio
	}
	if a.AutoSliceResolution != nil {
		opts.AutoSliceResolution = *a.AutoSliceResolution
	}
	return opts
}

func (s *Server) loadImage(path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	return s.cache.Load(path)
}

// === Image Information ===

type imagePathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === Tile Planning ===

type sliceAutoParamsArgs struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type autoParamsResult struct {
	Width  int            `json:"width"`
	Height int            `json:"height"`
	Factor int            `json:"resolution_factor"`
	Params slicing.Params `json:"params"`
}

func (s *Server) handleSliceAutoParams(args json.RawMessage) (interface{}, error) {
	var a sliceAutoParamsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	if a.Path != "" {
		dims, err := imaging.GetDimensions(s.cache, a.Path)
		if err != nil {
			return nil, err
		}
		a.Width, a.Height = dims.Width, dims.Height
	}
	if a.Width <= 0 || a.Height <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", slicing.ErrInvalidImage, a.Width, a.Height)
	}

	return &autoParamsResult{
		Width:  a.Width,
		Height: a.Height,
		Factor: slicing.ResolutionFactor(a.Height, a.Width),
		Params: slicing.SelectParams(a.Height, a.Width),
	}, nil
}

type slicePlanResult struct {
	Width  int            `json:"width"`
	Height int            `json:"height"`
	Params slicing.Params `json:"params"`
	Tiles  []slicing.Rect `json:"tiles"`
	Count  int            `json:"count"`
}

func (s *Server) handleSlicePlan(args json.RawMessage) (interface{}, error) {
	var a tilingArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loadImage(a.Path)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	params, tiles, err := slicing.Plan(b.Dy(), b.Dx(), a.apply(s.cfg.SliceOptions()))
	if err != nil {
		return nil, err
	}
	return &slicePlanResult{
		Width:  b.Dx(),
		Height: b.Dy(),
		Params: params,
		Tiles:  tiles,
		Count:  len(tiles),
	}, nil
}

// === Slicing ===

type sliceImageArgs struct {
	tilingArgs
	AnnotationPath string   `json:"annotation_path"`
	OutputDir      string   `json:"output_dir"`
	OutputName     string   `json:"output_name"`
	MinAreaRatio   *float64 `json:"min_area_ratio"`
	MinAnnotations *int     `json:"min_annotations"`
	Ext            string   `json:"ext"`
}

type sliceTileResult struct {
	Index       int          `json:"index"`
	Rect        slicing.Rect `json:"rect"`
	FileName    string       `json:"file_name,omitempty"`
	Exported    bool         `json:"exported"`
	Annotations []string     `json:"annotations,omitempty"`
}

type sliceImageResult struct {
	Skipped        bool                      `json:"skipped"`
	OriginalWidth  int                       `json:"original_width,omitempty"`
	OriginalHeight int                       `json:"original_height,omitempty"`
	ImageDir       string                    `json:"image_dir,omitempty"`
	Params         *slicing.Params           `json:"params,omitempty"`
	Tiles          []sliceTileResult         `json:"tiles,omitempty"`
	Events         map[slicing.EventKind]int `json:"events"`
	ExportError    string                    `json:"export_error,omitempty"`
}

func (s *Server) handleSliceImage(args json.RawMessage) (interface{}, error) {
	var a sliceImageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	// Slicing is the last step for an image; planning and previews before
	// it share the cached decode.
	defer s.cache.Evict(a.Path)

	opts := a.apply(s.cfg.SliceOptions())
	if a.MinAreaRatio != nil {
		opts.MinAreaRatio = *a.MinAreaRatio
	}
	if a.MinAnnotations != nil {
		opts.MinOutSliceAnnotations = *a.MinAnnotations
	}
	if a.Ext != "" {
		opts.OutExt = a.Ext
	}

	name := a.OutputName
	if a.OutputDir != "" && name == "" {
		name = strings.TrimSuffix(filepath.Base(a.Path), filepath.Ext(a.Path))
	}

	rec := &slicing.Recorder{}
	slicer := slicing.New(opts)
	slicer.SetCache(s.cache)
	slicer.SetReporter(slicing.MultiReporter{rec, slicing.NewLogReporter(log.Default(), s.verbose)})
	saver := imaging.NewSaver(opts.JPEGQuality)
	saver.Lossless = s.cfg.Output.LosslessWebP
	slicer.SetSaver(saver)

	res, err := slicer.Slice(slicing.Request{
		ImagePath:      a.Path,
		AnnotationPath: a.AnnotationPath,
		OutputName:     name,
		OutputDir:      a.OutputDir,
	})
	if res == nil && err != nil {
		return nil, err
	}

	out := &sliceImageResult{Events: eventCounts(rec)}
	if res == nil {
		out.Skipped = true
		return out, nil
	}

	params := res.Params
	out.OriginalWidth = res.OriginalWidth
	out.OriginalHeight = res.OriginalHeight
	out.ImageDir = res.ImageDir
	out.Params = &params
	for i, sl := range res.Slices() {
		t := sliceTileResult{Index: i, Rect: sl.Rect, FileName: sl.FileName, Exported: sl.Exported}
		for _, ann := range sl.Annotations {
			t.Annotations = append(t.Annotations, slicing.FormatAnnotation(ann))
		}
		out.Tiles = append(out.Tiles, t)
	}
	if err != nil {
		out.ExportError = err.Error()
	}
	return out, nil
}

func eventCounts(rec *slicing.Recorder) map[slicing.EventKind]int {
	counts := make(map[slicing.EventKind]int)
	for _, e := range rec.Events() {
		counts[e.Kind]++
	}
	return counts
}

// === Overlay ===

type sliceOverlayArgs struct {
	tilingArgs
	AnnotationPath string `json:"annotation_path"`
	TileColor      string `json:"tile_color"`
	ShowIndices    *bool  `json:"show_indices"`
}

func (s *Server) handleSliceOverlay(args json.RawMessage) (interface{}, error) {
	var a sliceOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.TileColor == "" {
		a.TileColor = s.cfg.Overlay.TileColor
	}
	showIndices := s.cfg.Overlay.ShowIndices
	if a.ShowIndices != nil {
		showIndices = *a.ShowIndices
	}

	img, err := s.loadImage(a.Path)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	_, tiles, err := slicing.Plan(b.Dy(), b.Dx(), a.apply(s.cfg.SliceOptions()))
	if err != nil {
		return nil, err
	}

	var boxes []imaging.OverlayBox
	if a.AnnotationPath != "" {
		anns, err := slicing.ReadImageAnnotations(a.AnnotationPath, b.Dx(), b.Dy())
		if err != nil {
			return nil, err
		}
		boxes = slicing.OverlayBoxes(anns)
	}

	return imaging.TileOverlay(img, slicing.TileBounds(tiles), boxes, a.TileColor, showIndices)
}
