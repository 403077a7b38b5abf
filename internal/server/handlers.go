package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/ironsheep/region-ruler-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "region_measure").
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
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	ctx, span := s.tracer.Start(ctx, "server.tools_call")
	defer span.End()
	span.SetAttributes(attribute.String("tool", params.Name))

	start := time.Now()
	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "tool execution failed")
		s.log.Debug("tool failed", "tool", params.Name, "err", err, "elapsed", time.Since(start))
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	s.log.Debug("tool call", "tool", params.Name, "elapsed", time.Since(start))

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
//  2. Resolves the image path, falling back to the active image
//  3. Applies the configured default tolerance and clamps it
//  4. Calls into the imaging package
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Color Operations
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "color_distance":
		return s.handleColorDistance(args)

	// Region Operations
	case "region_measure":
		return s.handleRegionMeasure(args)
	case "region_rectangle":
		return s.handleRegionRectangle(ctx, args)
	case "region_overlay":
		return s.handleRegionOverlay(ctx, args)
	case "region_crop":
		return s.handleRegionCrop(ctx, args)

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

// tolerance returns the configured default for a missing value, clamped to
// the configured range.
func (s *Server) tolerance(t *float64) float64 {
	if t == nil {
		return s.cfg.ClampTolerance(s.cfg.DefaultTolerance)
	}
	return s.cfg.ClampTolerance(*t)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	info, err := imaging.LoadImageInfo(s.cache, a.Path)
	if err != nil {
		return nil, err
	}
	s.setActive(a.Path)
	s.log.Info("active image", "path", a.Path, "width", info.Width, "height", info.Height)
	return info, nil
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	path, err := s.resolvePath(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, path)
}

// === Color Operation Handlers ===

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	path, err := s.resolvePath(a.Path)
	if err != nil {
		return nil, err
	}
	buf, err := s.cache.Buffer(path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(buf, a.X, a.Y)
}

type colorDistanceArgs struct {
	ColorA    string   `json:"color_a"`
	ColorB    string   `json:"color_b"`
	Tolerance *float64 `json:"tolerance"`
}

func (s *Server) handleColorDistance(args json.RawMessage) (interface{}, error) {
	var a colorDistanceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.CompareColors(a.ColorA, a.ColorB, s.tolerance(a.Tolerance))
}

// === Region Operation Handlers ===

type regionMeasureArgs struct {
	Path      string   `json:"path"`
	X         int      `json:"x"`
	Y         int      `json:"y"`
	Tolerance *float64 `json:"tolerance"`
}

func (s *Server) handleRegionMeasure(args json.RawMessage) (interface{}, error) {
	var a regionMeasureArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	path, err := s.resolvePath(a.Path)
	if err != nil {
		return nil, err
	}
	buf, err := s.cache.Buffer(path)
	if err != nil {
		return nil, err
	}
	return imaging.MeasureRegion(buf, a.X, a.Y, s.tolerance(a.Tolerance))
}

type regionRectangleArgs struct {
	Path      string   `json:"path"`
	X1        int      `json:"x1"`
	Y1        int      `json:"y1"`
	X2        int      `json:"x2"`
	Y2        int      `json:"y2"`
	Tolerance *float64 `json:"tolerance"`
}

func (s *Server) handleRegionRectangle(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a regionRectangleArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	path, err := s.resolvePath(a.Path)
	if err != nil {
		return nil, err
	}
	buf, err := s.cache.Buffer(path)
	if err != nil {
		return nil, err
	}
	return imaging.DetectRectangle(ctx, buf, s.tolerance(a.Tolerance), a.X1, a.Y1, a.X2, a.Y2, s.cfg.ConcurrentScans)
}

// regionArgs selects a region for rendering tools: a seed (x, y) is measured
// with rays, two corners (x1, y1, x2, y2) are refined as a rectangle.
type regionArgs struct {
	Path      string   `json:"path"`
	X         *int     `json:"x"`
	Y         *int     `json:"y"`
	X1        *int     `json:"x1"`
	Y1        *int     `json:"y1"`
	X2        *int     `json:"x2"`
	Y2        *int     `json:"y2"`
	Tolerance *float64 `json:"tolerance"`
}

// locate measures the region named by a and returns the source image, the
// measured box, and the seed when one was given.
func (s *Server) locate(ctx context.Context, a regionArgs) (image.Image, imaging.Box, *image.Point, error) {
	path, err := s.resolvePath(a.Path)
	if err != nil {
		return nil, imaging.Box{}, nil, err
	}
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, imaging.Box{}, nil, err
	}
	buf, err := s.cache.Buffer(path)
	if err != nil {
		return nil, imaging.Box{}, nil, err
	}
	tol := s.tolerance(a.Tolerance)

	switch {
	case a.X1 != nil && a.Y1 != nil && a.X2 != nil && a.Y2 != nil:
		r, err := imaging.DetectRectangle(ctx, buf, tol, *a.X1, *a.Y1, *a.X2, *a.Y2, s.cfg.ConcurrentScans)
		if err != nil {
			return nil, imaging.Box{}, nil, err
		}
		return img, r.Box(), nil, nil
	case a.X != nil && a.Y != nil:
		m, err := imaging.MeasureRegion(buf, *a.X, *a.Y, tol)
		if err != nil {
			return nil, imaging.Box{}, nil, err
		}
		return img, m.Box(), &image.Point{X: *a.X, Y: *a.Y}, nil
	default:
		return nil, imaging.Box{}, nil, fmt.Errorf("need either x and y or x1, y1, x2 and y2")
	}
}

type regionOverlayArgs struct {
	regionArgs
	Color string `json:"color"`
}

func (s *Server) handleRegionOverlay(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a regionOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Color == "" {
		a.Color = s.cfg.OverlayColor
	}
	img, box, seed, err := s.locate(ctx, a.regionArgs)
	if err != nil {
		return nil, err
	}
	return imaging.Overlay(img, box, seed, a.Color)
}

type regionCropArgs struct {
	regionArgs
	Padding int     `json:"padding"`
	Scale   float64 `json:"scale"`
}

func (s *Server) handleRegionCrop(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a regionCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, box, _, err := s.locate(ctx, a.regionArgs)
	if err != nil {
		return nil, err
	}
	return imaging.CropBox(img, box, a.Padding, a.Scale)
}
