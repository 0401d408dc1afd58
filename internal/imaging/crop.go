package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ExtractRegion copies the pixels of region out of img.
//
// The region is given relative to the image's top-left corner, so (0,0) is
// always the first pixel even when img.Bounds().Min is not the origin. The
// upper bounds are exclusive. The returned image starts at (0,0), shares no
// memory with img, and img is never written to.
func ExtractRegion(img image.Image, region image.Rectangle) (*image.NRGBA, error) {
	bounds := img.Bounds()

	if region.Min.X >= region.Max.X || region.Min.Y >= region.Max.Y {
		return nil, fmt.Errorf("invalid region %v: min must be < max", region)
	}
	if region.Min.X < 0 || region.Min.Y < 0 || region.Max.X > bounds.Dx() || region.Max.Y > bounds.Dy() {
		return nil, fmt.Errorf("region %v outside image of size %dx%d", region, bounds.Dx(), bounds.Dy())
	}

	return imaging.Crop(img, region.Add(bounds.Min)), nil
}
