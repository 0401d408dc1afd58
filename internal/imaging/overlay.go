package imaging

import (
	"fmt"
	"image"
	"image/color"
	"sort"
	"strconv"
	"strings"

	"github.com/anthonynsimon/bild/clone"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// OverlayBox is an annotation box drawn on an overlay, in image pixels.
type OverlayBox struct {
	Rect     image.Rectangle
	Category string
}

// OverlayResult contains a tile-plan overlay encoded as base64 PNG.
type OverlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	Tiles       int    `json:"tiles"`
	Boxes       int    `json:"boxes"`
}

// RenderOverlay draws tile outlines, tile indices and annotation boxes over
// a copy of img. Tiles are outlined in tileColorHex ("#RRGGBB" or
// "#RRGGBBAA"; semi-transparent red when invalid). Each annotation category
// gets its own color. img is not modified.
func RenderOverlay(img image.Image, tiles []image.Rectangle, boxes []OverlayBox, tileColorHex string, showIndices bool) *image.RGBA {
	result := clone.AsRGBA(img)
	origin := result.Bounds().Min

	tileColor, err := parseHexColor(tileColorHex)
	if err != nil {
		tileColor = color.RGBA{255, 0, 0, 128}
	}

	for _, t := range tiles {
		drawOutline(result, t.Add(origin), tileColor, 1)
	}

	palette := categoryPalette(boxes)
	for _, b := range boxes {
		drawOutline(result, b.Rect.Add(origin), palette[b.Category], 2)
	}

	if showIndices {
		labelColor := color.RGBA{255, 255, 255, 255}
		bgColor := color.RGBA{0, 0, 0, 180}
		for i, t := range tiles {
			p := t.Min.Add(origin)
			drawDigits(result, p.X+2, p.Y+2, strconv.Itoa(i), labelColor, bgColor)
		}
	}

	return result
}

// TileOverlay renders an overlay and encodes it as base64 PNG.
func TileOverlay(img image.Image, tiles []image.Rectangle, boxes []OverlayBox, tileColorHex string, showIndices bool) (*OverlayResult, error) {
	out := RenderOverlay(img, tiles, boxes, tileColorHex, showIndices)
	encoded, err := EncodePNGBase64(out)
	if err != nil {
		return nil, err
	}
	return &OverlayResult{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		ImageBase64: encoded,
		MimeType:    "image/png",
		Tiles:       len(tiles),
		Boxes:       len(boxes),
	}, nil
}

// categoryPalette assigns evenly spaced hues to the sorted category names,
// so the same set of categories always gets the same colors.
func categoryPalette(boxes []OverlayBox) map[string]color.RGBA {
	seen := make(map[string]bool)
	var names []string
	for _, b := range boxes {
		if !seen[b.Category] {
			seen[b.Category] = true
			names = append(names, b.Category)
		}
	}
	sort.Strings(names)

	palette := make(map[string]color.RGBA, len(names))
	for i, name := range names {
		hue := 360 * float64(i) / float64(len(names))
		r, g, b := colorful.Hsv(hue, 0.85, 0.95).RGB255()
		palette[name] = color.RGBA{r, g, b, 255}
	}
	return palette
}

// parseHexColor parses "#RRGGBB" or "#RRGGBBAA".
func parseHexColor(hex string) (color.RGBA, error) {
	hex = strings.TrimPrefix(hex, "#")

	alpha := uint8(255)
	switch len(hex) {
	case 6:
	case 8:
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return color.RGBA{}, err
		}
		alpha = uint8(a)
		hex = hex[:6]
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return color.RGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: alpha}, nil
}

// drawOutline draws the border of r, stroke pixels thick, clipped to img.
func drawOutline(img *image.RGBA, r image.Rectangle, c color.RGBA, stroke int) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for s := 0; s < stroke; s++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, r.Min.Y+s, c)
			img.SetRGBA(x, r.Max.Y-1-s, c)
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			img.SetRGBA(r.Min.X+s, y, c)
			img.SetRGBA(r.Max.X-1-s, y, c)
		}
	}
}

// drawDigits draws a number with a 3x5 pixel font on a filled background.
func drawDigits(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
	}

	const charWidth, labelHeight = 4, 7
	bounds := img.Bounds()
	set := func(px, py int, c color.RGBA) {
		if image.Pt(px, py).In(bounds) {
			img.SetRGBA(px, py, c)
		}
	}

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < len(text)*charWidth; dx++ {
			set(x+dx, y+dy, bg)
		}
	}

	cx := x
	for _, ch := range text {
		for row, line := range glyphs[ch] {
			for col, pixel := range line {
				if pixel == '1' {
					set(cx+col, y+row, fg)
				}
			}
		}
		cx += charWidth
	}
}
