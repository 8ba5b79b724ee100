package renderer

import (
	"image"
	"image/color"

	"github.com/ryanlewis/raycast/internal/debug"
	"github.com/ryanlewis/raycast/internal/scene"
)

// Options contains rendering options passed from the main package
type Options struct {
	// Workers is the number of row workers; 0 uses runtime.NumCPU()
	Workers int
	// Background is the color of pixels whose ray hits nothing (default black)
	Background scene.Color
	// Debug receives render events when non-nil
	Debug *debug.Session
}

// Frame is a rendered image: Width*Height RGB triples, row-major, with
// row 0 at the top.
type Frame struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewFrame allocates a black frame.
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
	}
}

// Row returns the bytes of output row y. Rows never overlap, so distinct
// rows may be written concurrently.
func (f *Frame) Row(y int) []uint8 {
	stride := f.Width * 3
	return f.Pix[y*stride : (y+1)*stride : (y+1)*stride]
}

// RGBAt returns the channels of the pixel at column x, row y.
func (f *Frame) RGBAt(x, y int) (r, g, b uint8) {
	i := (y*f.Width + x) * 3
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}

// ColorModel implements image.Image.
func (f *Frame) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (f *Frame) Bounds() image.Rectangle { return image.Rect(0, 0, f.Width, f.Height) }

// At implements image.Image. Pixels outside the frame are transparent.
func (f *Frame) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return color.RGBA{}
	}
	r, g, b := f.RGBAt(x, y)
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
