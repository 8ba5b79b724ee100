// Package ppm reads and writes rendered frames as Netpbm pixmaps: the
// plain-text P3 form and the binary P6 form, both with 8-bit channels.
package ppm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/ryanlewis/raycast/internal/common"
	"github.com/ryanlewis/raycast/internal/renderer"
)

// Magic numbers for the supported pixmap variants
const (
	MagicP3 = 3
	MagicP6 = 6
)

// Decode limits. Header dimensions are checked against them before any
// pixel buffer is allocated.
const (
	MaxDimension = 1 << 16
	MaxPixels    = 1 << 26
)

// ErrFormat is returned when decoding input that is not an 8-bit P3 or P6 pixmap
var ErrFormat = errors.New("ppm: invalid format")

// Header is the fixed preamble of a pixmap.
type Header struct {
	Magic    int
	Width    int
	Height   int
	MaxColor int
}

// NewHeader returns the header for a frame in the given variant.
func NewHeader(magic int, f *renderer.Frame) Header {
	return Header{Magic: magic, Width: f.Width, Height: f.Height, MaxColor: common.MaxColor}
}

// String formats the header as written: "P3\n<w> <h>\n255\n".
func (h Header) String() string {
	return fmt.Sprintf("P%d\n%d %d\n%d\n", h.Magic, h.Width, h.Height, h.MaxColor)
}

// EncodeP3 writes f as a plain pixmap with one decimal channel value per
// line, top row first. It returns the number of bytes written.
func EncodeP3(w io.Writer, f *renderer.Frame) (int64, error) {
	return encode(w, NewHeader(MagicP3, f), f, func(dst, row []byte) []byte {
		for _, v := range row {
			dst = strconv.AppendUint(dst, uint64(v), 10)
			dst = append(dst, '\n')
		}
		return dst
	})
}

// EncodeP6 writes f as a binary pixmap. It returns the number of bytes written.
func EncodeP6(w io.Writer, f *renderer.Frame) (int64, error) {
	return encode(w, NewHeader(MagicP6, f), f, func(dst, row []byte) []byte {
		return append(dst, row...)
	})
}

// encode writes the header and then each row as formatted by appendRow
func encode(w io.Writer, h Header, f *renderer.Frame, appendRow func(dst, row []byte) []byte) (int64, error) {
	cw := &countingWriter{w: w}
	bw := acquireWriter(cw)
	defer releaseWriter(bw)

	if _, err := bw.WriteString(h.String()); err != nil {
		return cw.n, fmt.Errorf("writing header: %w", err)
	}

	buf := acquireScratch()
	defer func() { releaseScratch(buf) }()

	for y := 0; y < f.Height; y++ {
		buf = appendRow(buf[:0], f.Row(y))
		if _, err := bw.Write(buf); err != nil {
			return cw.n, fmt.Errorf("writing row %d: %w", y, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return cw.n, fmt.Errorf("flushing image: %w", err)
	}
	return cw.n, nil
}

// Decode reads a P3 or P6 pixmap with a maximum value of 255.
// Comments introduced by '#' are accepted in the header.
func Decode(r io.Reader) (*renderer.Frame, Header, error) {
	br := bufio.NewReader(r)

	var h Header
	magic, err := readToken(br)
	if err != nil {
		return nil, h, err
	}
	switch magic {
	case "P3":
		h.Magic = MagicP3
	case "P6":
		h.Magic = MagicP6
	default:
		return nil, h, fmt.Errorf("%w: magic %q", ErrFormat, magic)
	}

	for _, dst := range []*int{&h.Width, &h.Height, &h.MaxColor} {
		if *dst, err = readInt(br); err != nil {
			return nil, h, err
		}
	}
	if h.Width <= 0 || h.Height <= 0 {
		return nil, h, fmt.Errorf("%w: dimensions %dx%d", ErrFormat, h.Width, h.Height)
	}
	if h.Width > MaxDimension || h.Height > MaxDimension ||
		int64(h.Width)*int64(h.Height) > MaxPixels {
		return nil, h, fmt.Errorf("%w: dimensions %dx%d exceed decode limit", ErrFormat, h.Width, h.Height)
	}
	if h.MaxColor != common.MaxColor {
		return nil, h, fmt.Errorf("%w: max value %d, want %d", ErrFormat, h.MaxColor, common.MaxColor)
	}

	f := renderer.NewFrame(h.Width, h.Height)
	if h.Magic == MagicP6 {
		// readInt consumed the single whitespace byte after the max value
		if _, err := io.ReadFull(br, f.Pix); err != nil {
			return nil, h, fmt.Errorf("%w: pixel data: %v", ErrFormat, err)
		}
		return f, h, nil
	}

	for i := range f.Pix {
		v, err := readInt(br)
		if err != nil {
			return nil, h, err
		}
		if v < 0 || v > h.MaxColor {
			return nil, h, fmt.Errorf("%w: value %d out of range", ErrFormat, v)
		}
		f.Pix[i] = uint8(v)
	}
	return f, h, nil
}

func readInt(br *bufio.Reader) (int, error) {
	tok, err := readToken(br)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%w: bad number %q", ErrFormat, tok)
	}
	return n, nil
}

// readToken skips whitespace and comments, then reads up to and including
// the next whitespace byte.
func readToken(br *bufio.Reader) (string, error) {
	var tok []byte
	for {
		c, err := br.ReadByte()
		if err == io.EOF && len(tok) > 0 {
			return string(tok), nil
		}
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrFormat, io.ErrUnexpectedEOF)
		}
		switch {
		case c == '#' && len(tok) == 0:
			if _, err := br.ReadString('\n'); err != nil {
				return "", fmt.Errorf("%w: unterminated comment", ErrFormat)
			}
		case isSpace(c):
			if len(tok) > 0 {
				return string(tok), nil
			}
		default:
			tok = append(tok, c)
		}
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
