package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/image-slicer/internal/config"
	"github.com/ironsheep/image-slicer/internal/slicing"
)

func writePNG(t *testing.T, path string, width, height int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func testGlobals() (*Globals, *bytes.Buffer) {
	var buf bytes.Buffer
	return &Globals{cfg: config.Default(), out: &buf}, &buf
}

func TestTilingFlags_Apply(t *testing.T) {
	base := slicing.DefaultOptions()

	unset := TilingFlags{SliceHeight: -1, SliceWidth: -1, OverlapHeight: -1, OverlapWidth: -1}
	if got := unset.apply(base); got != base {
		t.Errorf("unset flags changed options: %+v", got)
	}

	set := TilingFlags{SliceHeight: 100, SliceWidth: 200, OverlapHeight: 0, OverlapWidth: 0.5, NoAuto: true}
	got := set.apply(base)
	if got.SliceHeight != 100 || got.SliceWidth != 200 || got.OverlapHeightRatio != 0 ||
		got.OverlapWidthRatio != 0.5 || got.AutoSliceResolution {
		t.Errorf("apply: got %+v", got)
	}
}

func TestGlobals_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	cfg := config.Default()
	cfg.Output.Extension = ".png"
	if err := cfg.SaveToFile(path); err != nil {
		t.Fatal(err)
	}

	g := &Globals{Config: path}
	if err := g.load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if g.cfg.Output.Extension != ".png" {
		t.Errorf("Extension: got %s", g.cfg.Output.Extension)
	}

	missing := &Globals{Config: filepath.Join(dir, "missing.json")}
	if err := missing.load(); err == nil {
		t.Error("explicit missing config should fail")
	}
}

func TestSliceCmd_Run(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "scene.png")
	writePNG(t, imgPath, 256, 128)
	labels := filepath.Join(dir, "scene.txt")
	if err := os.WriteFile(labels, []byte("0 0.25 0.5 0.25 0.5"), 0o644); err != nil {
		t.Fatal(err)
	}

	g, out := testGlobals()
	cmd := &SliceCmd{
		TilingFlags:    TilingFlags{SliceHeight: 128, SliceWidth: 128, OverlapHeight: 0, OverlapWidth: 0},
		Image:          imgPath,
		Labels:         labels,
		Out:            filepath.Join(dir, "out"),
		MinAreaRatio:   -1,
		MinAnnotations: -1,
		Ext:            ".png",
	}
	if err := cmd.Run(g); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !strings.Contains(out.String(), "2 tiles") {
		t.Errorf("output: %q", out.String())
	}
	for _, name := range []string{"scene_0_0_128_128.png", "scene_0_0_128_128.txt", "scene_128_0_256_128.png"} {
		if _, err := os.Stat(filepath.Join(dir, "out", name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestPlanCmd_Run(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "scene.png")
	writePNG(t, imgPath, 1024, 1024)

	g, out := testGlobals()
	cmd := &PlanCmd{
		TilingFlags: TilingFlags{SliceHeight: 512, SliceWidth: 512, OverlapHeight: 0, OverlapWidth: 0},
		Image:       imgPath,
	}
	if err := cmd.Run(g); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "4 tiles of 512x512") || !strings.Contains(out.String(), "512_512_1024_1024") {
		t.Errorf("output: %q", out.String())
	}

	g, out = testGlobals()
	cmd.JSON = true
	if err := cmd.Run(g); err != nil {
		t.Fatalf("Run JSON: %v", err)
	}
	if !strings.Contains(out.String(), `"tiles"`) {
		t.Errorf("JSON output: %q", out.String())
	}
}

func TestOverlayCmd_Run(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "scene.png")
	writePNG(t, imgPath, 200, 100)

	g, _ := testGlobals()
	outPath := filepath.Join(dir, "overlay.png")
	cmd := &OverlayCmd{
		TilingFlags: TilingFlags{SliceHeight: 100, SliceWidth: 100, OverlapHeight: 0, OverlapWidth: 0},
		Image:       imgPath,
		Output:      outPath,
		TileColor:   "#0000FF",
	}
	if err := cmd.Run(g); err != nil {
		t.Fatalf("Run: %v", err)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if got := color.RGBAModel.Convert(img.At(100, 50)).(color.RGBA); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("tile edge pixel: got %v, want blue", got)
	}
}
