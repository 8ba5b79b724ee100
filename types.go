package raycast

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ryanlewis/raycast/internal/common"
	"github.com/ryanlewis/raycast/internal/config"
	"github.com/ryanlewis/raycast/internal/renderer"
	"github.com/ryanlewis/raycast/internal/scene"
)

// Scene is a parsed, immutable scene that can be safely shared across
// goroutines and rendered any number of times.
type Scene struct {
	scene *scene.Scene
	// digest identifies the parsed content inside a Cache; empty otherwise
	digest string

	// Name is the scene file name without extension, when loaded from a file
	Name string

	// Warnings contains any non-fatal issues encountered during parsing
	Warnings []string
}

// Len returns the number of objects in the scene, cameras included.
func (s *Scene) Len() int {
	if s == nil {
		return 0
	}
	return s.scene.Len()
}

// Counts returns how many cameras, spheres and planes the scene declares,
// keyed by their "type" value.
func (s *Scene) Counts() map[string]int {
	out := make(map[string]int, 3)
	if s == nil {
		return out
	}
	for k, n := range s.scene.Counts() {
		out[string(k)] = n
	}
	return out
}

// Camera returns the view plane width and height of the scene's camera.
// It fails with ErrNoCamera or ErrMultipleCameras.
func (s *Scene) Camera() (width, height float64, err error) {
	if s == nil {
		return 0, 0, ErrNilScene
	}
	cam, err := s.scene.Camera()
	if err != nil {
		return 0, 0, err
	}
	return cam.Width, cam.Height, nil
}

// Frame is a rendered RGB image, row 0 at the top. It implements image.Image.
type Frame = renderer.Frame

// ParseError reports a scene parsing failure together with the source line.
type ParseError = common.ParseError

// Format selects the output image encoding.
type Format string

// Supported output formats
const (
	FormatP3  Format = config.FormatP3
	FormatP6  Format = config.FormatP6
	FormatPNG Format = config.FormatPNG
)

// ParseFormat converts a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatP3, FormatP6, FormatPNG:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatFromPath infers the format from an output file name: ".png" selects
// PNG and anything else the plain P3 pixmap.
func FormatFromPath(p string) Format {
	if strings.EqualFold(filepath.Ext(p), ".png") {
		return FormatPNG
	}
	return FormatP3
}

// Common errors returned by the raycast package
var (
	// ErrUnexpectedEOF is returned when the scene text ends mid-token
	ErrUnexpectedEOF = common.ErrUnexpectedEOF
	// ErrSyntax is returned for malformed punctuation, strings, or numbers
	ErrSyntax = common.ErrSyntax
	// ErrUnknownType is returned for a "type" other than camera, sphere or plane
	ErrUnknownType = common.ErrUnknownType
	// ErrUnexpectedKey is returned when a known key is used on the wrong object kind
	ErrUnexpectedKey = common.ErrUnexpectedKey
	// ErrIncompleteObject is returned when an object lacks, or repeats, a required key
	ErrIncompleteObject = common.ErrIncompleteObject
	// ErrTooManyObjects is returned when a scene exceeds the object limit
	ErrTooManyObjects = common.ErrTooManyObjects
	// ErrCameraCount is returned when a scene does not have exactly one camera
	ErrCameraCount = common.ErrCameraCount
	// ErrNoCamera wraps ErrCameraCount
	ErrNoCamera = common.ErrNoCamera
	// ErrMultipleCameras wraps ErrCameraCount
	ErrMultipleCameras = common.ErrMultipleCameras
	// ErrInvalidDimensions is returned for non-positive image dimensions
	ErrInvalidDimensions = common.ErrInvalidDimensions

	// ErrNilScene is returned when a nil scene is rendered
	ErrNilScene = errors.New("scene cannot be nil")
	// ErrNilFrame is returned when a nil frame is encoded
	ErrNilFrame = errors.New("frame cannot be nil")
	// ErrUnknownFormat is returned for an unsupported output format
	ErrUnknownFormat = errors.New("unknown image format")
)
