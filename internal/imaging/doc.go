// Package imaging provides the pixel-level operations used by the slicer.
//
// This package decodes source images, copies tile regions out of them,
// encodes tiles to disk and renders tile-plan overlays for visual checks.
// All operations work with standard Go image.Image types and use a
// coordinate system where (0,0) is at the top-left corner, X increases
// rightward, and Y increases downward.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// Regions are relative to the image's top-left corner even when the
// image's bounds do not start at the origin.
//
// # Formats
//
// Decoding supports PNG, JPEG, GIF, BMP, TIFF and WebP. Encoding picks the
// format from the output file extension; WebP output uses libwebp through
// cgo.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. ExtractRegion never
// writes to its source, so one cached image can be sliced by several
// goroutines at once.
package imaging
