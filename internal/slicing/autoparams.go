package slicing

import "math/bits"

// Orientation classifies an image by aspect ratio.
type Orientation string

const (
	Vertical   Orientation = "vertical"
	Horizontal Orientation = "horizontal"
	Square     Orientation = "square"
)

// Resolution is the size bucket an image falls into for automatic slicing.
type Resolution string

const (
	LowResolution       Resolution = "low"
	MediumResolution    Resolution = "medium"
	HighResolution      Resolution = "high"
	UltraHighResolution Resolution = "ultra-high"
)

// Params are the resolved tiling parameters for one image.
type Params struct {
	TileWidth          int     `json:"tile_width"`
	TileHeight         int     `json:"tile_height"`
	OverlapWidthRatio  float64 `json:"overlap_width_ratio"`
	OverlapHeightRatio float64 `json:"overlap_height_ratio"`

	// Set only when the params were chosen automatically.
	Orientation Orientation `json:"orientation,omitempty"`
	Resolution  Resolution  `json:"resolution,omitempty"`
}

// ClassifyOrientation reports whether an image is taller than wide, wider
// than tall, or square.
func ClassifyOrientation(height, width int) Orientation {
	switch {
	case width < height:
		return Vertical
	case width > height:
		return Horizontal
	default:
		return Square
	}
}

// ResolutionFactor returns floor(log2(width*height)).
func ResolutionFactor(height, width int) int {
	pixels := uint64(height) * uint64(width)
	if pixels == 0 {
		return 0
	}
	return bits.Len64(pixels) - 1
}

// ClassifyResolution maps a resolution factor to its bucket. A factor of
// exactly 18 is low.
func ClassifyResolution(factor int) Resolution {
	switch {
	case factor <= 18:
		return LowResolution
	case factor < 21:
		return MediumResolution
	case factor < 24:
		return HighResolution
	default:
		return UltraHighResolution
	}
}

// SelectParams derives tile size and overlap from the image dimensions
// alone.
//
//	bucket      split  overlap
//	low         1      1.0 (one tile, the whole image)
//	medium      1      0.8
//	high        2      0.4
//	ultra-high  4      0.4
//
// The split s becomes rows=s, cols=2s for vertical images, rows=2s, cols=s
// for horizontal ones and rows=cols=s for square ones. The tile height is
// height/cols and the tile width is width/rows, never less than a pixel.
func SelectParams(height, width int) Params {
	orientation := ClassifyOrientation(height, width)
	resolution := ClassifyResolution(ResolutionFactor(height, width))

	rows, cols, ratio := 1, 1, 1.0
	if resolution != LowResolution {
		var split int
		switch resolution {
		case MediumResolution:
			split, ratio = 1, 0.8
		case HighResolution:
			split, ratio = 2, 0.4
		default:
			split, ratio = 4, 0.4
		}
		rows, cols = splitCounts(orientation, split)
	}

	return Params{
		TileWidth:          max(1, width/rows),
		TileHeight:         max(1, height/cols),
		OverlapWidthRatio:  ratio,
		OverlapHeightRatio: ratio,
		Orientation:        orientation,
		Resolution:         resolution,
	}
}

func splitCounts(o Orientation, split int) (rows, cols int) {
	switch o {
	case Vertical:
		return split, split * 2
	case Horizontal:
		return split * 2, split
	default:
		return split, split
	}
}
