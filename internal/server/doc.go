// Package server implements the MCP (Model Context Protocol) server for region measurement.
//
// This package provides a JSON-RPC 2.0 server that exposes the boundary
// engine through the MCP protocol, so a client can ask for pixel-exact sizes
// of shapes in a screenshot instead of estimating them.
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
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image, get metadata, and make it the active image
//   - image_dimensions: Get width and height
//
// Color Operations:
//   - image_sample_color: Get color at pixel
//   - color_distance: Compare two colors at a tolerance
//
// Region Operations:
//   - region_measure: Four-direction ray extent from a seed point
//   - region_rectangle: Tightest rectangle inside two corners
//   - region_overlay: Render either measurement outlined on the image
//   - region_crop: Extract either measurement as PNG
//
// # Active Image
//
// Every tool except image_load accepts an optional path. When it is omitted,
// the image most recently loaded with image_load is used.
//
// # Tolerance
//
// Tolerance is a Euclidean distance over the four RGBA channels. Requests
// without one use the configured default; all values are clamped to
// [0, max_tolerance] before reaching the engine.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(cfg, logger)
//	if err := srv.Run(ctx, os.Stdin, os.Stdout); err != nil {
//	    logger.Error("server stopped", "err", err)
//	}
package server
