package slicing

import (
	"image"

	"github.com/ironsheep/image-slicer/internal/imaging"
)

// TileBounds converts tile rectangles for drawing.
func TileBounds(tiles []Rect) []image.Rectangle {
	out := make([]image.Rectangle, len(tiles))
	for i, t := range tiles {
		out[i] = t.Bounds()
	}
	return out
}

// OverlayBoxes converts image-space annotations into overlay boxes rounded
// to whole pixels.
func OverlayBoxes(anns []Annotation) []imaging.OverlayBox {
	boxes := make([]imaging.OverlayBox, len(anns))
	for i, a := range anns {
		boxes[i] = imaging.OverlayBox{Rect: a.BBox.Rect(), Category: a.Category}
	}
	return boxes
}

// RenderPlan draws the tile plan and annotations of one image for visual
// inspection.
func RenderPlan(img image.Image, tiles []Rect, anns []Annotation, tileColor string, showIndices bool) *image.RGBA {
	return imaging.RenderOverlay(img, TileBounds(tiles), OverlayBoxes(anns), tileColor, showIndices)
}
