package slicing

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidImage is returned for a source image with zero area or one
	// that cannot be decoded. No tiles are produced.
	ErrInvalidImage = errors.New("invalid image")

	// ErrConfiguration is returned when tile dimensions are missing with
	// auto slicing disabled, or when a ratio is out of range.
	ErrConfiguration = errors.New("invalid slicing configuration")

	// ErrAnnotationParse is wrapped by every *ParseError.
	ErrAnnotationParse = errors.New("malformed annotation")

	// ErrFileExists is returned when an annotation export would overwrite a
	// file this output did not write.
	ErrFileExists = errors.New("file already exists")
)

// ParseError describes a malformed line in an annotation file.
type ParseError struct {
	Path string // empty when parsing from a reader
	Line int    // 1-based
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s:%d: %s: %s", e.Path, e.Line, ErrAnnotationParse, e.Msg)
	}
	return fmt.Sprintf("line %d: %s: %s", e.Line, ErrAnnotationParse, e.Msg)
}

func (e *ParseError) Unwrap() error { return ErrAnnotationParse }
