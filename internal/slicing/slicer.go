package slicing

import (
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/image-slicer/internal/imaging"
)

// Request describes one image to slice.
type Request struct {
	// Image is the decoded source. When nil, ImagePath is loaded.
	Image     image.Image
	ImagePath string

	// Annotations are image-space records. A non-nil slice, even an empty
	// one, counts as annotations having been supplied. When nil,
	// AnnotationPath is read instead: a line file normalized to the whole
	// image.
	Annotations    []Annotation
	AnnotationPath string

	// OutputName is the naming root for generated files and OutputDir the
	// destination. Files are written only when both are set.
	OutputName string
	OutputDir  string
}

func (r Request) exporting() bool { return r.OutputName != "" && r.OutputDir != "" }

func (r Request) label() string {
	if r.ImagePath != "" {
		return r.ImagePath
	}
	return r.OutputName
}

// Slicer cuts images into tiles and reprojects their annotations. A Slicer
// is safe for concurrent use on different images as long as its Reporter
// and ImageSaver are.
type Slicer struct {
	opts     Options
	reporter Reporter
	saver    ImageSaver
	cache    *imaging.ImageCache
}

// New creates a Slicer that reports nowhere and saves through
// imaging.Saver.
func New(opts Options) *Slicer {
	return &Slicer{
		opts:     opts,
		reporter: NopReporter{},
		saver:    imaging.NewSaver(opts.JPEGQuality),
	}
}

// SetReporter replaces the event reporter. A nil reporter discards events.
func (s *Slicer) SetReporter(r Reporter) {
	if r == nil {
		r = NopReporter{}
	}
	s.reporter = r
}

// SetSaver replaces the image writer used for export. A nil saver restores
// the default one for the Slicer's JPEG quality.
func (s *Slicer) SetSaver(saver ImageSaver) {
	if saver == nil {
		saver = imaging.NewSaver(s.opts.JPEGQuality)
	}
	s.saver = saver
}

// SetCache makes the Slicer load ImagePath sources through cache.
func (s *Slicer) SetCache(cache *imaging.ImageCache) { s.cache = cache }

// Options returns the Slicer's options.
func (s *Slicer) Options() Options { return s.opts }

// Slice cuts one image into tiles.
//
// Every tile is kept in the returned Result in row-major order, together
// with its copied pixels and the annotations that survive reprojection.
// When req names an output, each tile is then written as an image file and,
// if annotations were supplied, a sibling .txt file. Tiles with fewer than
// MinOutSliceAnnotations survivors stay in the Result but are not written.
//
// Slice returns nil, nil when exporting with annotations and the image has
// fewer than MinOutSliceAnnotations annotations in total.
//
// Errors before or during tiling abort the call with no Result. Export
// errors are collected across all tiles and returned joined, alongside the
// complete Result.
func (s *Slicer) Slice(req Request) (*Result, error) {
	img, err := s.source(req)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	params, tiles, err := Plan(height, width, s.opts)
	if err != nil {
		return nil, err
	}

	anns, supplied, err := s.annotations(req, width, height)
	if err != nil {
		return nil, err
	}

	minAnns := s.opts.MinOutSliceAnnotations
	if req.exporting() && supplied && minAnns > 0 && len(anns) < minAnns {
		s.reporter.Report(Event{Kind: EventImageSkipped, Annotations: len(anns), Path: req.label()})
		return nil, nil
	}

	var imageDir string
	if req.OutputDir != "" {
		imageDir, _ = OutputDirs(req.OutputDir)
	}
	res := newResult(height, width, imageDir, params, len(tiles))

	for _, tile := range tiles {
		pixels, err := imaging.ExtractRegion(img, tile.Bounds())
		if err != nil {
			s.reporter.Report(Event{Kind: EventTileError, Tile: tile, Err: err})
			return nil, fmt.Errorf("tile %s: %w", tile.Suffix(), err)
		}

		var tileAnns []TileAnnotation
		if supplied {
			tileAnns = ReprojectAll(anns, tile, s.opts.MinAreaRatio)
		}

		sl := Slice{Image: pixels, Annotations: tileAnns, Rect: tile}
		if req.OutputName != "" {
			sl.FileName = SliceFileName(req.OutputName, tile, s.opts.OutExt)
		}
		res.add(sl)
		s.reporter.Report(Event{Kind: EventTileProduced, Tile: tile, Annotations: len(tileAnns)})
	}

	if !req.exporting() {
		return res, nil
	}
	return res, s.export(res, req, supplied)
}

func (s *Slicer) source(req Request) (image.Image, error) {
	if req.Image != nil {
		return req.Image, nil
	}
	if req.ImagePath == "" {
		return nil, fmt.Errorf("%w: no image given", ErrInvalidImage)
	}

	var (
		img image.Image
		err error
	)
	if s.cache != nil {
		img, err = s.cache.Load(req.ImagePath)
	} else {
		img, err = imaging.Open(req.ImagePath)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return img, nil
}

// annotations returns the image-space annotations for req and whether any
// were supplied at all.
func (s *Slicer) annotations(req Request, width, height int) ([]Annotation, bool, error) {
	if req.Annotations != nil {
		return req.Annotations, true, nil
	}
	if req.AnnotationPath == "" {
		return nil, false, nil
	}

	anns, err := ReadImageAnnotations(req.AnnotationPath, width, height)
	if err != nil {
		return nil, false, err
	}
	return anns, true, nil
}

func (s *Slicer) export(res *Result, req Request, withLabels bool) error {
	e, err := newExporter(req.OutputName, req.OutputDir, s.opts.OutExt, withLabels, s.saver)
	if err != nil {
		return err
	}

	minAnns := s.opts.MinOutSliceAnnotations
	var errs []error
	for i := range res.slices {
		sl := &res.slices[i]
		if withLabels && minAnns > 0 && len(sl.Annotations) < minAnns {
			s.reporter.Report(Event{Kind: EventExportSkipped, Tile: sl.Rect, Annotations: len(sl.Annotations)})
			continue
		}
		if err := e.export(*sl); err != nil {
			s.reporter.Report(Event{Kind: EventTileError, Tile: sl.Rect, Err: err})
			errs = append(errs, fmt.Errorf("tile %s: %w", sl.Rect.Suffix(), err))
			continue
		}
		sl.Exported = true
		s.reporter.Report(Event{
			Kind:        EventTileExported,
			Tile:        sl.Rect,
			Annotations: len(sl.Annotations),
			Path:        e.imagePath(sl.Rect),
		})
	}

	if err := e.finish(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
