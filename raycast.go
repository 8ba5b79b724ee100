// Package raycast renders simple scenes of spheres and planes by casting one
// primary ray per pixel from a fixed camera at the origin.
//
// Scenes are described in a small JSON-like text format: a list of objects,
// each starting with a "type" key of camera, sphere or plane. Exactly one
// camera is required. Rendered frames can be written as plain (P3) or
// binary (P6) PPM, or as PNG.
package raycast

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ryanlewis/raycast/internal/debug"
	"github.com/ryanlewis/raycast/internal/parser"
	"github.com/ryanlewis/raycast/internal/ppm"
	"github.com/ryanlewis/raycast/internal/renderer"
)

// ParseScene reads a scene description from the provided reader.
// The returned Scene is immutable and safe for concurrent use across goroutines.
//
// Unknown keys do not fail the parse; they are reported in Scene.Warnings.
//
// Example:
//
//	file, err := os.Open("scene.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer file.Close()
//
//	s, err := raycast.ParseScene(file)
//	if err != nil {
//	    log.Fatal(err)
//	}
func ParseScene(r io.Reader, opts ...Option) (*Scene, error) {
	o := buildOptions(opts)
	res, err := parser.Parse(r, &parser.Options{
		MaxObjects: o.maxObjects,
		Debug:      o.debug,
	})
	if err != nil {
		return nil, err
	}
	return &Scene{scene: res.Scene, Warnings: res.Warnings}, nil
}

// ParseSceneBytes parses a scene held in memory.
func ParseSceneBytes(data []byte, opts ...Option) (*Scene, error) {
	return ParseScene(bytes.NewReader(data), opts...)
}

// LoadScene reads and parses the scene file at path.
func LoadScene(scenePath string, opts ...Option) (*Scene, error) {
	file, err := os.Open(scenePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	s, err := ParseScene(file, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse scene %s: %w", scenePath, err)
	}
	s.Name = strings.TrimSuffix(filepath.Base(scenePath), filepath.Ext(scenePath))
	return s, nil
}

// cleanFSPath validates and cleans a path for use with fs.FS.
// It ensures the path is valid according to fs.ValidPath rules and
// prevents directory traversal attacks.
func cleanFSPath(p string) (string, error) {
	if p == "" {
		return "", errors.New("path cannot be empty")
	}
	// fs.FS disallows leading slash and uses '/' only
	if strings.HasPrefix(p, "/") {
		return "", errors.New("absolute paths not allowed")
	}
	if strings.ContainsRune(p, '\\') {
		return "", errors.New("backslashes not allowed in fs paths")
	}
	if !fs.ValidPath(p) {
		// rejects ".", ".." segments, empty elements, etc.
		return "", fmt.Errorf("invalid fs path: %s", p)
	}
	clean := path.Clean(p)
	if clean == "." || strings.HasPrefix(clean, "../") {
		return "", errors.New("path traversal not allowed")
	}
	return clean, nil
}

// LoadSceneFS loads a scene from a filesystem at the specified path.
// Path traversal (e.g., "../") is not allowed.
//
// Example with embed.FS:
//
//	//go:embed scenes/*.json
//	var scenes embed.FS
//
//	s, err := raycast.LoadSceneFS(scenes, "scenes/spheres.json")
func LoadSceneFS(fsys fs.FS, scenePath string, opts ...Option) (*Scene, error) {
	if fsys == nil {
		return nil, fmt.Errorf("filesystem cannot be nil")
	}

	clean, err := cleanFSPath(scenePath)
	if err != nil {
		return nil, err
	}

	file, err := fsys.Open(clean)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	s, err := ParseScene(file, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse scene %s: %w", clean, err)
	}

	// Use path package for fs.FS paths (not filepath)
	s.Name = strings.TrimSuffix(path.Base(clean), path.Ext(clean))
	return s, nil
}

// Render casts one ray per pixel through s and returns a width x height frame.
// The camera count is checked before any pixel work, so a scene without
// exactly one camera fails with an error wrapping ErrCameraCount.
func Render(s *Scene, width, height int, opts ...Option) (*Frame, error) {
	if s == nil {
		return nil, ErrNilScene
	}
	o := buildOptions(opts)
	return renderer.Render(s.scene, width, height, o.toInternal())
}

// Encode writes f to w in the given format and returns the bytes written.
func Encode(w io.Writer, f *Frame, format Format) (int64, error) {
	if f == nil {
		return 0, ErrNilFrame
	}
	switch format {
	case FormatP3:
		return ppm.EncodeP3(w, f)
	case FormatP6:
		return ppm.EncodeP6(w, f)
	case FormatPNG:
		cw := &countingWriter{w: w}
		if err := png.Encode(cw, f); err != nil {
			return cw.n, fmt.Errorf("encoding png: %w", err)
		}
		return cw.n, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteFile encodes f and writes it to outPath. The image is encoded in
// memory first, so an encoding failure never leaves a partial file behind.
func WriteFile(outPath string, f *Frame, format Format, opts ...Option) error {
	var buf bytes.Buffer
	if _, err := Encode(&buf, f, format); err != nil {
		return err
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}

	o := buildOptions(opts)
	o.debug.Emit("write", "WriteDone", debug.WriteDoneData{
		Format:       string(format),
		Path:         outPath,
		BytesWritten: int64(buf.Len()),
	})
	return nil
}

// DecodePPM reads a P3 or P6 image, as written by Encode.
func DecodePPM(r io.Reader) (*Frame, error) {
	f, _, err := ppm.Decode(r)
	return f, err
}

// countingWriter tracks bytes that reach the destination
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
