package slicing

import (
	"image"
	"math"
)

// BBox is a corner-form bounding box in pixels: top-left corner plus size.
type BBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Area returns W*H.
func (b BBox) Area() float64 { return b.W * b.H }

// valid reports whether b has finite coordinates and a positive size.
func (b BBox) valid() bool {
	for _, v := range [...]float64{b.X, b.Y, b.W, b.H} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return b.W > 0 && b.H > 0
}

// CenterBox is a normalized center-form bounding box. All fields are
// fractions of the enclosing region's width or height.
type CenterBox struct {
	CX float64 `json:"cx"`
	CY float64 `json:"cy"`
	W  float64 `json:"w"`
	H  float64 `json:"h"`
}

// Annotation is an image-space annotation record.
type Annotation struct {
	Category string `json:"category"`
	BBox     BBox   `json:"bbox"`
}

// TileAnnotation is a tile-space annotation record normalized to the tile
// dimensions. It is also the on-disk line format.
type TileAnnotation struct {
	Category string    `json:"category"`
	Box      CenterBox `json:"box"`
}

// ToCornerForm converts a normalized center-form box to a pixel corner-form
// box in a region of refWidth x refHeight pixels.
func ToCornerForm(c CenterBox, refWidth, refHeight float64) BBox {
	return BBox{
		X: (c.CX - c.W/2) * refWidth,
		Y: (c.CY - c.H/2) * refHeight,
		W: c.W * refWidth,
		H: c.H * refHeight,
	}
}

// ToCenterForm converts a pixel corner-form box to a normalized center-form
// box in a region of refWidth x refHeight pixels. It is the inverse of
// ToCornerForm for the same reference size.
func ToCenterForm(b BBox, refWidth, refHeight float64) CenterBox {
	return CenterBox{
		CX: (b.X + b.W/2) / refWidth,
		CY: (b.Y + b.H/2) / refHeight,
		W:  b.W / refWidth,
		H:  b.H / refHeight,
	}
}

// ToImage converts a record normalized to a region of width x height
// pixels back into pixel corner form.
func (t TileAnnotation) ToImage(width, height int) Annotation {
	return Annotation{
		Category: t.Category,
		BBox:     ToCornerForm(t.Box, float64(width), float64(height)),
	}
}

// Normalize converts the record to center form relative to a region of
// width x height pixels.
func (a Annotation) Normalize(width, height int) TileAnnotation {
	return TileAnnotation{
		Category: a.Category,
		Box:      ToCenterForm(a.BBox, float64(width), float64(height)),
	}
}

// Rect rounds the box to whole pixels.
func (b BBox) Rect() image.Rectangle {
	return image.Rect(
		int(math.Round(b.X)), int(math.Round(b.Y)),
		int(math.Round(b.X+b.W)), int(math.Round(b.Y+b.H)),
	)
}
