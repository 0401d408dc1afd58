package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/chai2010/webp"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ImageCache provides thread-safe caching of decoded source images keyed by
// path.
//
// Slicing never mutates a source image, so a cached image can be handed to
// any number of concurrent slicing calls.
//
// # Memory Management
//
// Cached images remain in memory until explicitly removed via Evict() or
// Clear(). Source images for slicing are large; long-running processes
// should evict an image once all work on it is done.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	img, err := cache.Load("/data/raw/frame_0001.jpg")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// Slice img...
//	cache.Evict("/data/raw/frame_0001.jpg")
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load returns the decoded image at path, reading it from disk on first use.
//
// Parameters:
//   - path: File path to the image. Supported formats are PNG, JPEG, GIF,
//     BMP, TIFF and WebP.
//
// Returns:
//   - image.Image: The decoded image.
//   - error: Non-nil if the file cannot be opened or decoded.
//
// Paths are cleaned before lookup, so "a/./b.png" and "a/b.png" share an
// entry. Two goroutines missing on the same path may both decode it; the
// later store wins and both callers get a valid image.
func (c *ImageCache) Load(path string) (image.Image, error) {
	key := filepath.Clean(path)
	if img, ok := c.lookup(key); ok {
		return img, nil
	}

	img, err := Open(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.images[key] = img
	return img, nil
}

func (c *ImageCache) lookup(key string) (image.Image, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img, ok := c.images[key]
	return img, ok
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear drops every cached image.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.images)
}

// Evict drops the image cached for path. Unknown paths are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.images, filepath.Clean(path))
}

// Open decodes the image file at path.
func Open(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	img, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// Decode decodes an image from r using the registered decoders, falling
// back to the libwebp decoder for WebP variants x/image cannot read.
func Decode(r io.ReadSeeker) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err == nil {
		return img, nil
	}
	if _, serr := r.Seek(0, io.SeekStart); serr != nil {
		return nil, err
	}
	if wimg, werr := webp.Decode(r); werr == nil {
		return wimg, nil
	}
	return nil, err
}

// ImageInfo describes an image file without holding its pixels.
type ImageInfo struct {
	Dimensions

	// Format is detected from the file extension: "png", "jpeg", "gif",
	// "bmp", "tiff", "webp" or "unknown".
	Format string `json:"format"`

	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo reports the size, format and on-disk size of the image at
// path. Like GetDimensions it reads only the header unless the image is
// already cached.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	dims, err := GetDimensions(cache, path)
	if err != nil {
		return nil, err
	}
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return &ImageInfo{Dimensions: *dims, Format: FormatFromExt(path), FileSizeBytes: fi.Size()}, nil
}

// FormatFromExt maps a file extension to a format name.
func FormatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	case ".webp":
		return "webp"
	}
	return "unknown"
}

// Dimensions is the pixel size of an image.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions reports the size of the image at path. A cached image is
// measured directly; otherwise only the file header is read, so planning a
// large frame does not decode its pixels.
func GetDimensions(cache *ImageCache, path string) (*Dimensions, error) {
	if img, ok := cache.lookup(filepath.Clean(path)); ok {
		b := img.Bounds()
		return &Dimensions{Width: b.Dx(), Height: b.Dy()}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		if _, serr := f.Seek(0, io.SeekStart); serr != nil {
			return nil, serr
		}
		wcfg, werr := webp.DecodeConfig(f)
		if werr != nil {
			return nil, fmt.Errorf("failed to read image header %s: %w", path, err)
		}
		cfg = wcfg
	}
	return &Dimensions{Width: cfg.Width, Height: cfg.Height}, nil
}
