// Package common provides shared constants and errors for internal packages.
// The error values are re-exported by the public raycast package.
package common

import (
	"errors"
	"fmt"
)

const (
	// DefaultMaxObjects is the object limit applied when none is configured
	DefaultMaxObjects = 128
	// MaxStringLength is the longest string literal accepted in a scene file
	MaxStringLength = 128
	// MaxColor is the maximum channel value written to output images
	MaxColor = 255
)

// Scene and render errors (must match public API in raycast package)
var (
	// ErrUnexpectedEOF is returned when the scene text ends mid-token
	ErrUnexpectedEOF = errors.New("unexpected end of file")
	// ErrSyntax is returned for malformed punctuation, strings, or numbers
	ErrSyntax = errors.New("syntax error")
	// ErrUnknownType is returned for an unrecognised "type" value
	ErrUnknownType = errors.New("unknown object type")
	// ErrUnexpectedKey is returned when a known key is used on the wrong object kind
	ErrUnexpectedKey = errors.New("unexpected key")
	// ErrIncompleteObject is returned when an object closes without its required fields
	ErrIncompleteObject = errors.New("incomplete object")
	// ErrTooManyObjects is returned when a scene exceeds the object limit
	ErrTooManyObjects = errors.New("too many objects")
	// ErrCameraCount is returned when a scene does not have exactly one camera
	ErrCameraCount = errors.New("scene must contain exactly one camera")
	// ErrNoCamera wraps ErrCameraCount for scenes without a camera
	ErrNoCamera = fmt.Errorf("no camera found: %w", ErrCameraCount)
	// ErrMultipleCameras wraps ErrCameraCount for scenes with several cameras
	ErrMultipleCameras = fmt.Errorf("multiple cameras not supported: %w", ErrCameraCount)
	// ErrInvalidDimensions is returned for non-positive image dimensions
	ErrInvalidDimensions = errors.New("invalid dimensions")
)

// ParseError reports a scene parsing failure together with the source line.
type ParseError struct {
	Line int    // 1-based line where the error was detected
	Msg  string // human readable detail
	Err  error  // one of the sentinel errors above
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Msg, e.Err)
}

// Unwrap returns the sentinel so errors.Is works on parse errors.
func (e *ParseError) Unwrap() error {
	return e.Err
}
