package slicing

import "image"

// Slice is one produced tile. Image is an independent copy of the source
// pixels and may be modified freely by the caller.
type Slice struct {
	Image       image.Image
	Annotations []TileAnnotation
	Rect        Rect
	FileName    string // base name of the image file, set when a naming root was given
	Exported    bool
}

// Origin returns the tile's top-left corner in the original image.
func (s Slice) Origin() image.Point { return s.Rect.Origin() }

// Result holds the slices of one image in tile generation order. It is not
// modified after Slicer.Slice returns.
type Result struct {
	OriginalHeight int
	OriginalWidth  int
	ImageDir       string
	Params         Params

	slices []Slice
}

func newResult(height, width int, dir string, params Params, capacity int) *Result {
	return &Result{
		OriginalHeight: height,
		OriginalWidth:  width,
		ImageDir:       dir,
		Params:         params,
		slices:         make([]Slice, 0, capacity),
	}
}

func (r *Result) add(s Slice) { r.slices = append(r.slices, s) }

// Len returns the number of slices.
func (r *Result) Len() int { return len(r.slices) }

// Slices returns a copy of the slice list.
func (r *Result) Slices() []Slice { return append([]Slice(nil), r.slices...) }

// Slice returns the i-th slice.
func (r *Result) Slice(i int) Slice { return r.slices[i] }

// Images returns the pixel data of every slice.
func (r *Result) Images() []image.Image {
	out := make([]image.Image, len(r.slices))
	for i, s := range r.slices {
		out[i] = s.Image
	}
	return out
}

// Annotations returns the tile-space annotations of every slice.
func (r *Result) Annotations() [][]TileAnnotation {
	out := make([][]TileAnnotation, len(r.slices))
	for i, s := range r.slices {
		out[i] = append([]TileAnnotation(nil), s.Annotations...)
	}
	return out
}

// StartingPixels returns the origin of every slice.
func (r *Result) StartingPixels() []image.Point {
	out := make([]image.Point, len(r.slices))
	for i, s := range r.slices {
		out[i] = s.Origin()
	}
	return out
}

// Rects returns the tile rectangle of every slice.
func (r *Result) Rects() []Rect {
	out := make([]Rect, len(r.slices))
	for i, s := range r.slices {
		out[i] = s.Rect
	}
	return out
}

// Filenames returns the generated image file name of every slice.
func (r *Result) Filenames() []string {
	out := make([]string, len(r.slices))
	for i, s := range r.slices {
		out[i] = s.FileName
	}
	return out
}
