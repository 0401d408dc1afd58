package slicing

import (
	"fmt"
	"strings"
)

// Default values for Options.
const (
	DefaultOverlapRatio = 0.2
	DefaultOutExt       = ".jpg"
	DefaultJPEGQuality  = 95
)

// Options configures a Slicer.
type Options struct {
	// SliceHeight and SliceWidth are the explicit tile size. Both must be
	// set to use them; otherwise the size is chosen automatically when
	// AutoSliceResolution is true.
	SliceHeight int
	SliceWidth  int

	// Overlap ratios for explicit tile sizes, in [0, 1).
	OverlapHeightRatio float64
	OverlapWidthRatio  float64

	AutoSliceResolution bool

	// MinAreaRatio is the minimum clipped-to-original area ratio for an
	// annotation fragment to be kept.
	MinAreaRatio float64

	// MinOutSliceAnnotations, when positive, suppresses export of tiles
	// with fewer surviving annotations and skips images with fewer
	// annotations in total.
	MinOutSliceAnnotations int

	// OutExt is the image file extension for exported tiles.
	OutExt string

	JPEGQuality int
}

// DefaultOptions returns options with automatic slicing enabled.
func DefaultOptions() Options {
	return Options{
		OverlapHeightRatio:  DefaultOverlapRatio,
		OverlapWidthRatio:   DefaultOverlapRatio,
		AutoSliceResolution: true,
		MinAreaRatio:        DefaultMinAreaRatio,
		OutExt:              DefaultOutExt,
		JPEGQuality:         DefaultJPEGQuality,
	}
}

func (o Options) explicitSize() bool {
	return o.SliceHeight > 0 && o.SliceWidth > 0
}

// Validate checks the options independently of any image.
func (o Options) Validate() error {
	if o.SliceHeight < 0 || o.SliceWidth < 0 {
		return fmt.Errorf("%w: slice size must not be negative", ErrConfiguration)
	}
	if !o.explicitSize() && !o.AutoSliceResolution {
		return fmt.Errorf("%w: slice height and width are required when auto slicing is disabled", ErrConfiguration)
	}
	if o.explicitSize() {
		if err := checkRatio("overlap height ratio", o.OverlapHeightRatio); err != nil {
			return err
		}
		if err := checkRatio("overlap width ratio", o.OverlapWidthRatio); err != nil {
			return err
		}
	}
	if o.MinAreaRatio < 0 || o.MinAreaRatio > 1 {
		return fmt.Errorf("%w: min area ratio %v outside [0, 1]", ErrConfiguration, o.MinAreaRatio)
	}
	if o.MinOutSliceAnnotations < 0 {
		return fmt.Errorf("%w: min out slice annotations must not be negative", ErrConfiguration)
	}
	if o.JPEGQuality < 0 || o.JPEGQuality > 100 {
		return fmt.Errorf("%w: jpeg quality %d outside [0, 100]", ErrConfiguration, o.JPEGQuality)
	}
	return nil
}

func checkRatio(name string, v float64) error {
	if v < 0 || v >= 1 {
		return fmt.Errorf("%w: %s %v outside [0, 1)", ErrConfiguration, name, v)
	}
	return nil
}

// Resolve returns the tiling params for an image of the given size.
func (o Options) Resolve(height, width int) (Params, error) {
	if err := o.Validate(); err != nil {
		return Params{}, err
	}
	if o.explicitSize() {
		return Params{
			TileWidth:          o.SliceWidth,
			TileHeight:         o.SliceHeight,
			OverlapWidthRatio:  o.OverlapWidthRatio,
			OverlapHeightRatio: o.OverlapHeightRatio,
		}, nil
	}
	return SelectParams(height, width), nil
}

// Plan resolves the params for an image and generates its tiles.
func Plan(height, width int, opts Options) (Params, []Rect, error) {
	if height <= 0 || width <= 0 {
		return Params{}, nil, fmt.Errorf("%w: size %dx%d", ErrInvalidImage, width, height)
	}
	params, err := opts.Resolve(height, width)
	if err != nil {
		return Params{}, nil, err
	}
	tiles := GenerateTiles(height, width, params.TileHeight, params.TileWidth,
		params.OverlapHeightRatio, params.OverlapWidthRatio)
	return params, tiles, nil
}

// normalizeExt returns ext with a leading dot, or the default when empty.
func normalizeExt(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return DefaultOutExt
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
