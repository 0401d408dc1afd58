package slicing

// DefaultMinAreaRatio is the fraction of an annotation's area that must
// survive clipping for the fragment to be kept.
const DefaultMinAreaRatio = 0.1

// Overlaps reports whether the annotation shares a positive area with the
// tile. Touching edges do not count.
func (a Annotation) Overlaps(tile Rect) bool {
	right := a.BBox.X + a.BBox.W
	bottom := a.BBox.Y + a.BBox.H
	switch {
	case a.BBox.X >= float64(tile.Right):
		return false
	case a.BBox.Y >= float64(tile.Bottom):
		return false
	case right <= float64(tile.Left):
		return false
	case bottom <= float64(tile.Top):
		return false
	}
	return true
}

// Clip intersects the annotation with the tile and returns the result in
// tile-local pixel coordinates. The caller must check Overlaps first.
func (a Annotation) Clip(tile Rect) BBox {
	x1 := max(a.BBox.X, float64(tile.Left))
	y1 := max(a.BBox.Y, float64(tile.Top))
	x2 := min(a.BBox.X+a.BBox.W, float64(tile.Right))
	y2 := min(a.BBox.Y+a.BBox.H, float64(tile.Bottom))
	return BBox{
		X: x1 - float64(tile.Left),
		Y: y1 - float64(tile.Top),
		W: x2 - x1,
		H: y2 - y1,
	}
}

// Reproject re-expresses an image-space annotation in the normalized
// coordinate space of one tile.
//
// It returns false when the annotation does not overlap the tile, when it
// has no area, or when the clipped area is less than minAreaRatio of the
// original (unclipped) area. A ratio exactly equal to minAreaRatio is kept.
func Reproject(a Annotation, tile Rect, minAreaRatio float64) (TileAnnotation, bool) {
	if !a.BBox.valid() || !a.Overlaps(tile) {
		return TileAnnotation{}, false
	}

	clipped := a.Clip(tile)
	if clipped.Area()/a.BBox.Area() < minAreaRatio {
		return TileAnnotation{}, false
	}

	return TileAnnotation{
		Category: a.Category,
		Box:      ToCenterForm(clipped, float64(tile.Width()), float64(tile.Height())),
	}, true
}

// ReprojectAll applies Reproject to every annotation and returns the
// survivors in input order. The result is never nil.
func ReprojectAll(annotations []Annotation, tile Rect, minAreaRatio float64) []TileAnnotation {
	out := make([]TileAnnotation, 0, len(annotations))
	for _, a := range annotations {
		if t, ok := Reproject(a, tile, minAreaRatio); ok {
			out = append(out, t)
		}
	}
	return out
}
