package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/ryanlewis/raycast/internal/common"
)

const (
	// firstPrintableASCII is the first byte allowed inside a string (space)
	firstPrintableASCII = 32
	// lastPrintableASCII is the last byte allowed inside a string (~)
	lastPrintableASCII = 126
)

// Lexer reads scene text one byte at a time and tracks the current line.
// Peeking never consumes input, so a byte left unread by one call is the
// first byte seen by the next.
type Lexer struct {
	r       *bufio.Reader
	scratch []byte
	line    int
	closed  bool
}

// NewLexer creates a lexer over r. Call Close when done to recycle buffers.
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{
		r:       acquireReader(r),
		scratch: acquireScratch(),
		line:    1,
	}
}

// Close returns the lexer's buffers to their pools. The lexer must not be
// used afterwards.
func (l *Lexer) Close() {
	if l.closed {
		return
	}
	l.closed = true
	releaseReader(l.r)
	releaseScratch(l.scratch)
	l.r, l.scratch = nil, nil
}

// Line returns the current 1-based line number.
func (l *Lexer) Line() int {
	return l.line
}

// errorf builds a ParseError at the current line.
func (l *Lexer) errorf(sentinel error, format string, args ...interface{}) error {
	return &common.ParseError{
		Line: l.line,
		Msg:  fmt.Sprintf(format, args...),
		Err:  sentinel,
	}
}

// readErr converts an underlying read failure into the error returned to callers.
func (l *Lexer) readErr(err error) error {
	if errors.Is(err, io.EOF) {
		return &common.ParseError{Line: l.line, Err: common.ErrUnexpectedEOF}
	}
	return fmt.Errorf("line %d: reading scene: %w", l.line, err)
}

// peek returns the next byte without consuming it. io.EOF is returned as is.
func (l *Lexer) peek() (byte, error) {
	b, err := l.r.Peek(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Next consumes and returns the next byte.
func (l *Lexer) Next() (byte, error) {
	c, err := l.r.ReadByte()
	if err != nil {
		return 0, l.readErr(err)
	}
	if c == '\n' {
		l.line++
	}
	return c, nil
}

// Expect consumes one byte and fails with ErrSyntax unless it equals want.
func (l *Lexer) Expect(want byte) error {
	c, err := l.Next()
	if err != nil {
		return err
	}
	if c != want {
		return l.errorf(common.ErrSyntax, "expected '%c', got %q", want, c)
	}
	return nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// SkipWhitespace consumes a run of spaces, tabs, newlines and carriage
// returns. Running out of input here is ErrUnexpectedEOF: every caller
// expects another token.
func (l *Lexer) SkipWhitespace() error {
	for {
		c, err := l.peek()
		if err != nil {
			return l.readErr(err)
		}
		if !isSpace(c) {
			return nil
		}
		if _, err := l.Next(); err != nil {
			return err
		}
	}
}

// Drain consumes the rest of the input and reports whether anything other
// than whitespace was found.
func (l *Lexer) Drain() (bool, error) {
	junk := false
	for {
		c, err := l.r.ReadByte()
		if errors.Is(err, io.EOF) {
			return junk, nil
		}
		if err != nil {
			return junk, l.readErr(err)
		}
		if c == '\n' {
			l.line++
		}
		if !isSpace(c) {
			junk = true
		}
	}
}

// ReadString reads a double-quoted string. Escapes, bytes outside printable
// ASCII, and strings over common.MaxStringLength bytes are rejected.
func (l *Lexer) ReadString() (string, error) {
	c, err := l.Next()
	if err != nil {
		return "", err
	}
	if c != '"' {
		return "", l.errorf(common.ErrSyntax, "expected string, got %q", c)
	}

	buf := l.scratch[:0]
	for {
		c, err = l.Next()
		if err != nil {
			return "", err
		}
		if c == '"' {
			break
		}
		if len(buf) >= common.MaxStringLength {
			return "", l.errorf(common.ErrSyntax,
				"strings longer than %d characters are not supported", common.MaxStringLength)
		}
		if c == '\\' {
			return "", l.errorf(common.ErrSyntax, "strings with escape codes are not supported")
		}
		if c < firstPrintableASCII || c > lastPrintableASCII {
			return "", l.errorf(common.ErrSyntax, "strings may contain only printable ascii characters")
		}
		buf = append(buf, c)
	}
	l.scratch = buf
	return string(buf), nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// takeDigits appends a run of decimal digits to buf.
func (l *Lexer) takeDigits(buf []byte) ([]byte, int, error) {
	n := 0
	for {
		c, err := l.peek()
		if errors.Is(err, io.EOF) {
			return buf, n, nil
		}
		if err != nil {
			return buf, n, l.readErr(err)
		}
		if !isDigit(c) {
			return buf, n, nil
		}
		_, _ = l.r.ReadByte()
		buf = append(buf, c)
		n++
	}
}

// hasExponent reports whether the upcoming bytes form an exponent marker
// followed by at least one digit: e5, E-3, e+10.
func (l *Lexer) hasExponent() bool {
	b, _ := l.r.Peek(3)
	if len(b) < 2 || (b[0] != 'e' && b[0] != 'E') {
		return false
	}
	if isDigit(b[1]) {
		return true
	}
	return (b[1] == '+' || b[1] == '-') && len(b) == 3 && isDigit(b[2])
}

// ReadNumber reads a decimal floating point literal such as 5, -1.25, .5,
// 3. or 1e-3. It fails with ErrSyntax when no number starts at the cursor.
func (l *Lexer) ReadNumber() (float64, error) {
	buf := l.scratch[:0]

	c, err := l.peek()
	if err != nil {
		return 0, l.readErr(err)
	}
	if c == '+' || c == '-' {
		_, _ = l.r.ReadByte()
		buf = append(buf, c)
	}

	buf, intDigits, err := l.takeDigits(buf)
	if err != nil {
		return 0, err
	}
	fracDigits := 0
	if c, err := l.peek(); err == nil && c == '.' {
		_, _ = l.r.ReadByte()
		buf = append(buf, '.')
		if buf, fracDigits, err = l.takeDigits(buf); err != nil {
			return 0, err
		}
	}
	if intDigits+fracDigits == 0 {
		l.scratch = buf
		return 0, l.errorf(common.ErrSyntax, "could not read number")
	}

	if l.hasExponent() {
		e, _ := l.r.ReadByte()
		buf = append(buf, e)
		if c, err := l.peek(); err == nil && (c == '+' || c == '-') {
			_, _ = l.r.ReadByte()
			buf = append(buf, c)
		}
		if buf, _, err = l.takeDigits(buf); err != nil {
			return 0, err
		}
	}
	l.scratch = buf

	v, err := strconv.ParseFloat(string(buf), 64)
	if err != nil {
		return 0, l.errorf(common.ErrSyntax, "invalid number %q", buf)
	}
	return v, nil
}

// ReadVector3 reads a bracketed triple: [n, n, n].
func (l *Lexer) ReadVector3() ([3]float64, error) {
	var v [3]float64
	if err := l.Expect('['); err != nil {
		return v, err
	}
	for i := range v {
		if err := l.SkipWhitespace(); err != nil {
			return v, err
		}
		n, err := l.ReadNumber()
		if err != nil {
			return v, err
		}
		v[i] = n
		if err := l.SkipWhitespace(); err != nil {
			return v, err
		}
		sep := byte(',')
		if i == len(v)-1 {
			sep = ']'
		}
		if err := l.Expect(sep); err != nil {
			return v, err
		}
	}
	return v, nil
}

// SkipValue consumes a string, vector or number without interpreting it.
func (l *Lexer) SkipValue() error {
	c, err := l.peek()
	if err != nil {
		return l.readErr(err)
	}
	switch c {
	case '"':
		_, err = l.ReadString()
	case '[':
		_, err = l.ReadVector3()
	default:
		_, err = l.ReadNumber()
	}
	return err
}
