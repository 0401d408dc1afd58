package slicing

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
)

// annotationPrecision is the number of decimal digits written per fraction.
const annotationPrecision = 7

// ParseAnnotations reads annotation lines of the form
//
//	{category} {center_x} {center_y} {width} {height}
//
// Blank lines are skipped. Any other line that does not have exactly five
// fields, whose last four fields are not finite numbers, or whose size is
// negative, fails the whole read with a *ParseError.
func ParseAnnotations(r io.Reader) ([]TileAnnotation, error) {
	scanner := bufio.NewScanner(r)
	var out []TileAnnotation
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		a, err := parseAnnotationLine(text)
		if err != nil {
			return nil, &ParseError{Line: line, Msg: err.Error()}
		}
		out = append(out, a)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read annotations: %w", err)
	}
	return out, nil
}

func parseAnnotationLine(text string) (TileAnnotation, error) {
	fields := strings.Fields(text)
	if len(fields) != 5 {
		return TileAnnotation{}, fmt.Errorf("expected 5 fields, got %d", len(fields))
	}

	var vals [4]float64
	for i, f := range fields[1:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return TileAnnotation{}, fmt.Errorf("field %d: %q is not a number", i+2, f)
		}
		vals[i] = v
	}
	// Zero sizes are accepted: a sliver written at 7 digits can round to 0.
	if vals[2] < 0 || vals[3] < 0 {
		return TileAnnotation{}, fmt.Errorf("negative box size %vx%v", vals[2], vals[3])
	}

	return TileAnnotation{
		Category: fields[0],
		Box:      CenterBox{CX: vals[0], CY: vals[1], W: vals[2], H: vals[3]},
	}, nil
}

// ReadAnnotationFile parses an annotation file. A file that does not exist
// reads as no annotations.
func ReadAnnotationFile(path string) ([]TileAnnotation, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []TileAnnotation{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open annotations: %w", err)
	}
	defer f.Close()

	anns, err := ParseAnnotations(f)
	var perr *ParseError
	if errors.As(err, &perr) {
		perr.Path = path
	}
	return anns, err
}

// ReadImageAnnotations reads an annotation file normalized to a whole
// image of width x height pixels and returns pixel corner-form records.
func ReadImageAnnotations(path string, width, height int) ([]Annotation, error) {
	lines, err := ReadAnnotationFile(path)
	if err != nil {
		return nil, err
	}
	anns := make([]Annotation, len(lines))
	for i, l := range lines {
		anns[i] = l.ToImage(width, height)
	}
	return anns, nil
}

// FormatAnnotation renders one annotation line without a newline.
func FormatAnnotation(a TileAnnotation) string {
	return strings.Join([]string{
		a.Category,
		formatFraction(a.Box.CX),
		formatFraction(a.Box.CY),
		formatFraction(a.Box.W),
		formatFraction(a.Box.H),
	}, " ")
}

// FormatAnnotations renders newline-separated lines with no trailing
// newline.
func FormatAnnotations(anns []TileAnnotation) string {
	lines := make([]string, len(anns))
	for i, a := range anns {
		lines[i] = FormatAnnotation(a)
	}
	return strings.Join(lines, "\n")
}

func formatFraction(v float64) string {
	return strconv.FormatFloat(v, 'f', annotationPrecision, 64)
}
