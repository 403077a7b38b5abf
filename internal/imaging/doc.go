// Package imaging loads images and renders measurement results for the MCP server.
//
// It sits between image files on disk and the boundary engine: ImageCache
// decodes a file once and hands out the RGBA8 pixel buffer that boundary
// measures against, and the remaining functions turn a measured box back
// into something a client can look at (an outlined overlay, a padded crop,
// a color description).
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - A Box is inclusive on all four edges, matching boundary.Extent
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Overlay and CropBox never
// modify their input image.
//
// # Color Representation
//
// Colors are returned in multiple formats:
//   - Hex: 6-character format "#RRGGBB" (alpha excluded)
//   - RGBA: 8-bit straight-alpha components (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
//
// # Performance Considerations
//
// Each cached image keeps its decoded form and, once measured, an RGBA8 copy.
// Use Evict() or Clear() to manage memory for long-running processes.
package imaging
