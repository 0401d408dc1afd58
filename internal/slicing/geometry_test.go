package slicing

import (
	"reflect"
	"testing"
)

func TestGenerateTiles_FourQuadrants(t *testing.T) {
	tiles := GenerateTiles(1024, 1024, 512, 512, 0, 0)

	want := []Rect{
		{0, 0, 512, 512},
		{512, 0, 1024, 512},
		{0, 512, 512, 1024},
		{512, 512, 1024, 1024},
	}
	if !reflect.DeepEqual(tiles, want) {
		t.Errorf("tiles: got %v, want %v", tiles, want)
	}
}

func TestGenerateTiles_Overlap(t *testing.T) {
	// overlap = floor(0.25*40) = 10, stride 30
	tiles := GenerateTiles(40, 100, 40, 40, 0.25, 0.25)

	want := []Rect{
		{0, 0, 40, 40},
		{30, 0, 70, 40},
		{60, 0, 100, 40},
	}
	if !reflect.DeepEqual(tiles, want) {
		t.Errorf("tiles: got %v, want %v", tiles, want)
	}
}

func TestGenerateTiles_BoundaryTileShiftedBack(t *testing.T) {
	tiles := GenerateTiles(100, 100, 40, 40, 0, 0)

	if len(tiles) != 9 {
		t.Fatalf("tile count: got %d, want 9", len(tiles))
	}
	// Third column would be 80-120; it is pulled back to 60-100.
	if got, want := tiles[2], (Rect{60, 0, 100, 40}); got != want {
		t.Errorf("last tile in first row: got %v, want %v", got, want)
	}
	if got, want := tiles[8], (Rect{60, 60, 100, 100}); got != want {
		t.Errorf("last tile: got %v, want %v", got, want)
	}
	for _, tile := range tiles {
		if tile.Width() != 40 || tile.Height() != 40 {
			t.Errorf("tile %v: size %dx%d, want 40x40", tile, tile.Width(), tile.Height())
		}
	}
}

func TestGenerateTiles_TileLargerThanImage(t *testing.T) {
	tests := []struct {
		name                      string
		imgH, imgW, tileH, tileW int
		want                      []Rect
	}{
		{"both larger", 50, 80, 100, 100, []Rect{{0, 0, 80, 50}}},
		{"equal size", 64, 64, 64, 64, []Rect{{0, 0, 64, 64}}},
		{"taller tile", 50, 100, 100, 50, []Rect{{0, 0, 50, 50}, {50, 0, 100, 50}}},
		{"wider tile", 100, 50, 50, 100, []Rect{{0, 0, 50, 50}, {0, 50, 50, 100}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateTiles(tt.imgH, tt.imgW, tt.tileH, tt.tileW, 0, 0)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("tiles: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGenerateTiles_FullOverlapTerminates(t *testing.T) {
	// The "low" auto bucket uses one full-image tile with ratio 1.0.
	tiles := GenerateTiles(300, 400, 300, 400, 1.0, 1.0)
	if want := []Rect{{0, 0, 400, 300}}; !reflect.DeepEqual(tiles, want) {
		t.Errorf("tiles: got %v, want %v", tiles, want)
	}

	// A full overlap on a smaller tile still ends, one pixel at a time.
	tiles = GenerateTiles(10, 12, 10, 10, 0, 1.0)
	if len(tiles) != 3 {
		t.Errorf("tile count: got %d, want 3", len(tiles))
	}
}

func TestGenerateTiles_InvalidDimensions(t *testing.T) {
	tests := []struct {
		name                      string
		imgH, imgW, tileH, tileW int
	}{
		{"zero height", 0, 100, 10, 10},
		{"zero width", 100, 0, 10, 10},
		{"zero tile height", 100, 100, 0, 10},
		{"negative tile width", 100, 100, 10, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GenerateTiles(tt.imgH, tt.imgW, tt.tileH, tt.tileW, 0, 0); len(got) != 0 {
				t.Errorf("expected no tiles, got %v", got)
			}
		})
	}
}

func TestGenerateTiles_CoversImage(t *testing.T) {
	sizes := [][2]int{{1, 1}, {7, 13}, {100, 100}, {99, 257}, {480, 640}}
	tileSizes := [][2]int{{1, 1}, {5, 9}, {32, 32}, {64, 100}, {500, 700}}
	ratios := []float64{0, 0.2, 0.5, 0.9}

	for _, size := range sizes {
		for _, ts := range tileSizes {
			for _, ratio := range ratios {
				h, w := size[0], size[1]
				tiles := GenerateTiles(h, w, ts[0], ts[1], ratio, ratio)
				checkCoverage(t, h, w, tiles)
			}
		}
	}
}

func checkCoverage(t *testing.T, h, w int, tiles []Rect) {
	t.Helper()
	covered := make([]bool, h*w)
	for _, tile := range tiles {
		if tile.Left < 0 || tile.Top < 0 || tile.Right > w || tile.Bottom > h {
			t.Fatalf("%dx%d: tile %v outside image", w, h, tile)
		}
		if tile.Left >= tile.Right || tile.Top >= tile.Bottom {
			t.Fatalf("%dx%d: empty tile %v", w, h, tile)
		}
		for y := tile.Top; y < tile.Bottom; y++ {
			for x := tile.Left; x < tile.Right; x++ {
				covered[y*w+x] = true
			}
		}
	}
	for i, ok := range covered {
		if !ok {
			t.Fatalf("%dx%d: pixel (%d,%d) not covered by %d tiles", w, h, i%w, i/w, len(tiles))
		}
	}
}

func TestGenerateTiles_Deterministic(t *testing.T) {
	first := GenerateTiles(1000, 1500, 256, 320, 0.3, 0.1)
	for i := 0; i < 5; i++ {
		if again := GenerateTiles(1000, 1500, 256, 320, 0.3, 0.1); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs from first run", i)
		}
	}
}

func TestGenerateTiles_RowMajorOrder(t *testing.T) {
	tiles := GenerateTiles(300, 300, 100, 100, 0, 0)
	for i := 1; i < len(tiles); i++ {
		prev, cur := tiles[i-1], tiles[i]
		sameRow := cur.Top == prev.Top
		if sameRow && cur.Left <= prev.Left {
			t.Errorf("tile %d %v not right of %v", i, cur, prev)
		}
		if !sameRow && (cur.Top <= prev.Top || cur.Left != 0) {
			t.Errorf("tile %d %v does not start a new row after %v", i, cur, prev)
		}
	}
}

func TestRect_Helpers(t *testing.T) {
	r := Rect{Left: 10, Top: 20, Right: 110, Bottom: 70}

	if r.Width() != 100 || r.Height() != 50 {
		t.Errorf("size: got %dx%d, want 100x50", r.Width(), r.Height())
	}
	if got := r.Suffix(); got != "10_20_110_70" {
		t.Errorf("Suffix: got %s, want 10_20_110_70", got)
	}
	if got := r.Origin(); got.X != 10 || got.Y != 20 {
		t.Errorf("Origin: got %v, want (10,20)", got)
	}
	if got := r.Bounds(); got.Dx() != 100 || got.Dy() != 50 {
		t.Errorf("Bounds: got %v", got)
	}
}
