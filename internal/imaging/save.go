package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// Saver writes images to disk, choosing the encoder from the file
// extension. JPEG, PNG, GIF, BMP and TIFF go through disintegration/imaging;
// WebP goes through libwebp.
type Saver struct {
	// Quality is used for JPEG and lossy WebP output (1-100).
	Quality int

	// Lossless selects lossless WebP encoding.
	Lossless bool
}

// NewSaver returns a Saver with the given JPEG/WebP quality.
func NewSaver(quality int) *Saver {
	if quality <= 0 || quality > 100 {
		quality = 95
	}
	return &Saver{Quality: quality}
}

// Save encodes img to path. The file is created or truncated.
func (s *Saver) Save(img image.Image, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".webp":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		opts := &webp.Options{Lossless: s.Lossless, Quality: float32(s.Quality)}
		if err := webp.Encode(f, img, opts); err != nil {
			f.Close()
			return fmt.Errorf("failed to encode %s: %w", path, err)
		}
		return f.Close()
	case ".jpg", ".jpeg":
		if err := imaging.Save(img, path, imaging.JPEGQuality(s.Quality)); err != nil {
			return fmt.Errorf("failed to save %s: %w", path, err)
		}
		return nil
	default:
		if err := imaging.Save(img, path); err != nil {
			return fmt.Errorf("failed to save %s: %w", path, err)
		}
		return nil
	}
}

// EncodePNGBase64 encodes img as PNG and returns it base64-encoded.
func EncodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
