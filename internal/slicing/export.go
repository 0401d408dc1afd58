package slicing

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// dirPlaceholder in an output directory is replaced by imagesDir for image
// files and labelsDir for annotation files.
const (
	dirPlaceholder = "*"
	imagesDir      = "images"
	labelsDir      = "labels"
)

// ImageSaver writes one image file. The file must be created or truncated.
type ImageSaver interface {
	Save(img image.Image, path string) error
}

// OutputDirs returns the directories image and annotation files are written
// to. Every "*" in dir is replaced by "images" and "labels" respectively;
// without one, both are dir itself.
func OutputDirs(dir string) (imageDir, labelDir string) {
	return strings.ReplaceAll(dir, dirPlaceholder, imagesDir),
		strings.ReplaceAll(dir, dirPlaceholder, labelsDir)
}

// SliceFileName returns "{root}_{left}_{top}_{right}_{bottom}{ext}".
func SliceFileName(root string, tile Rect, ext string) string {
	return root + "_" + tile.Suffix() + normalizeExt(ext)
}

// manifest records the annotation files an output name has written into a
// labels directory. A file listed there is overwritten on re-runs; any other
// pre-existing file is a collision.
type manifest struct {
	path  string
	Files []string `json:"files"`
	owned map[string]bool
}

func manifestPath(labelDir, root string) string {
	return filepath.Join(labelDir, "."+root+".manifest.json")
}

func loadManifest(labelDir, root string) (*manifest, error) {
	m := &manifest{path: manifestPath(labelDir, root), owned: make(map[string]bool)}
	data, err := os.ReadFile(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", m.path, err)
	}
	for _, f := range m.Files {
		m.owned[f] = true
	}
	return m, nil
}

// add records name and reports whether it was new.
func (m *manifest) add(name string) bool {
	if m.owned[name] {
		return false
	}
	m.owned[name] = true
	m.Files = append(m.Files, name)
	return true
}

func (m *manifest) save() error {
	sort.Strings(m.Files)
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	// Replace by rename so an interrupted save never leaves a torn manifest.
	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := os.Rename(tmp, m.path); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// exporter writes the files of one image.
type exporter struct {
	root       string
	ext        string
	imageDir   string
	labelDir   string
	withLabels bool
	saver      ImageSaver
	manifest   *manifest
}

func newExporter(root, outputDir, ext string, withLabels bool, saver ImageSaver) (*exporter, error) {
	imageDir, labelDir := OutputDirs(outputDir)
	if err := os.MkdirAll(imageDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	e := &exporter{
		root:       root,
		ext:        normalizeExt(ext),
		imageDir:   imageDir,
		labelDir:   labelDir,
		withLabels: withLabels,
		saver:      saver,
	}
	if withLabels {
		if err := os.MkdirAll(labelDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create label directory: %w", err)
		}
		m, err := loadManifest(labelDir, root)
		if err != nil {
			return nil, err
		}
		e.manifest = m
	}
	return e, nil
}

func (e *exporter) imagePath(tile Rect) string {
	return filepath.Join(e.imageDir, SliceFileName(e.root, tile, e.ext))
}

func (e *exporter) labelPath(tile Rect) string {
	return filepath.Join(e.labelDir, SliceFileName(e.root, tile, ".txt"))
}

// export writes the image file and, when labels are enabled, the annotation
// file of one slice. Both are attempted; their errors are joined.
func (e *exporter) export(s Slice) error {
	var errs []error
	if err := e.saver.Save(s.Image, e.imagePath(s.Rect)); err != nil {
		errs = append(errs, err)
	}
	if e.withLabels {
		if err := e.writeLabels(e.labelPath(s.Rect), s.Annotations); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// writeLabels truncates and rewrites a label file this output already owns,
// and otherwise creates it exclusively. A newly created file is recorded in
// the manifest on disk before its content is written, so a run that stops
// partway still leaves every label file it created owned by this output.
func (e *exporter) writeLabels(path string, anns []TileAnnotation) error {
	name := filepath.Base(path)
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if e.manifest.owned[name] {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: %s", ErrFileExists, path)
	}
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if e.manifest.add(name) {
		if err := e.manifest.save(); err != nil {
			f.Close()
			return err
		}
	}

	if _, err := f.WriteString(FormatAnnotations(anns)); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func (e *exporter) finish() error {
	if e.manifest == nil {
		return nil
	}
	return e.manifest.save()
}
