package imaging

import (
	"bytes"
	"encoding/base64"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestNewSaver_Quality(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 95},
		{-3, 95},
		{101, 95},
		{80, 80},
		{100, 100},
	}
	for _, tt := range tests {
		if got := NewSaver(tt.in).Quality; got != tt.want {
			t.Errorf("NewSaver(%d).Quality: got %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSaver_Save(t *testing.T) {
	dir := t.TempDir()
	img := createPatternImage(40, 30)
	saver := NewSaver(90)

	for _, ext := range []string{".png", ".jpg", ".jpeg", ".bmp", ".tiff", ".gif", ".webp"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(dir, "tile"+ext)
			if err := saver.Save(img, path); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			back, err := Open(path)
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			if b := back.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
				t.Errorf("dimensions: got %dx%d, want 40x30", b.Dx(), b.Dy())
			}
		})
	}
}

func TestSaver_SaveTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tile.png")
	saver := NewSaver(0)

	if err := saver.Save(createInMemoryImage(200, 200, color.White), path); err != nil {
		t.Fatal(err)
	}
	if err := saver.Save(createInMemoryImage(4, 4, color.Black), path); err != nil {
		t.Fatal(err)
	}

	back, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if back.Bounds().Dx() != 4 {
		t.Errorf("width: got %d, want 4", back.Bounds().Dx())
	}
}

func TestSaver_SaveUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tile.xyz")
	if err := NewSaver(0).Save(createInMemoryImage(4, 4, color.White), path); err == nil {
		t.Error("Save should fail for unsupported extension")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file created for unsupported extension: %v", err)
	}
}

func TestEncodePNGBase64(t *testing.T) {
	encoded, err := EncodePNGBase64(createInMemoryImage(12, 7, color.White))
	if err != nil {
		t.Fatalf("EncodePNGBase64 failed: %v", err)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 12 || b.Dy() != 7 {
		t.Errorf("dimensions: got %dx%d, want 12x7", b.Dx(), b.Dy())
	}
}
