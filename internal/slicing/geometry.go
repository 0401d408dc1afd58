package slicing

import (
	"fmt"
	"image"
)

// Rect is a tile rectangle in original-image pixel coordinates.
// Left and Top are inclusive, Right and Bottom are exclusive.
type Rect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// Width returns the tile width in pixels.
func (r Rect) Width() int { return r.Right - r.Left }

// Height returns the tile height in pixels.
func (r Rect) Height() int { return r.Bottom - r.Top }

// Origin returns the top-left corner of the tile in the original image.
func (r Rect) Origin() image.Point { return image.Pt(r.Left, r.Top) }

// Bounds returns the tile as an image.Rectangle.
func (r Rect) Bounds() image.Rectangle { return image.Rect(r.Left, r.Top, r.Right, r.Bottom) }

// Suffix encodes the tile offsets as "left_top_right_bottom" for file naming.
func (r Rect) Suffix() string {
	return fmt.Sprintf("%d_%d_%d_%d", r.Left, r.Top, r.Right, r.Bottom)
}

// GenerateTiles computes the tile rectangles covering an image.
//
// Rows are walked top to bottom and columns left to right, stepping by the
// tile size minus the integer overlap (floor of ratio times tile size). A
// tile whose raw far edge passes the image bound is shifted back so that
// edge lands exactly on the bound; its size is kept unless the image itself
// is smaller than the tile. A row ends after the tile reaching the right
// edge, and the walk ends after the row reaching the bottom edge.
//
// The returned order is row-major and is relied on for file naming.
// Non-positive dimensions yield no tiles.
func GenerateTiles(imageHeight, imageWidth, tileHeight, tileWidth int, overlapHeightRatio, overlapWidthRatio float64) []Rect {
	if imageHeight <= 0 || imageWidth <= 0 || tileHeight <= 0 || tileWidth <= 0 {
		return nil
	}

	yStep := stride(tileHeight, overlapHeightRatio)
	xStep := stride(tileWidth, overlapWidthRatio)

	var tiles []Rect
	for top := 0; ; top += yStep {
		bottom := top + tileHeight
		for left := 0; ; left += xStep {
			right := left + tileWidth
			tiles = append(tiles, clampTile(left, top, right, bottom, imageWidth, imageHeight, tileWidth, tileHeight))
			if right >= imageWidth {
				break
			}
		}
		if bottom >= imageHeight {
			break
		}
	}
	return tiles
}

// stride returns the cursor step for one axis. It never drops below one
// pixel, so a full overlap still terminates.
func stride(tile int, ratio float64) int {
	overlap := int(ratio * float64(tile))
	if step := tile - overlap; step > 0 {
		return step
	}
	return 1
}

func clampTile(left, top, right, bottom, imageWidth, imageHeight, tileWidth, tileHeight int) Rect {
	if right <= imageWidth && bottom <= imageHeight {
		return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
	}
	right = min(right, imageWidth)
	bottom = min(bottom, imageHeight)
	return Rect{
		Left:   max(0, right-tileWidth),
		Top:    max(0, bottom-tileHeight),
		Right:  right,
		Bottom: bottom,
	}
}
