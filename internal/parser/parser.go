// Package parser implements the scene description format: a JSON-flavoured
// list of camera, sphere and plane objects read by a hand-rolled lexer.
package parser

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/ryanlewis/raycast/internal/common"
	"github.com/ryanlewis/raycast/internal/debug"
	"github.com/ryanlewis/raycast/internal/geom"
	"github.com/ryanlewis/raycast/internal/scene"
)

// field is a bit identifying one known object key
type field uint8

const (
	fieldWidth field = 1 << iota
	fieldHeight
	fieldRadius
	fieldColor
	fieldPosition
	fieldNormal
)

// knownFields maps key names to their field bits
var knownFields = map[string]field{
	"width":    fieldWidth,
	"height":   fieldHeight,
	"radius":   fieldRadius,
	"color":    fieldColor,
	"position": fieldPosition,
	"normal":   fieldNormal,
}

// requiredFields lists the keys each kind must supply, exactly once
var requiredFields = map[scene.Kind]field{
	scene.KindCamera: fieldWidth | fieldHeight,
	scene.KindSphere: fieldColor | fieldPosition | fieldRadius,
	scene.KindPlane:  fieldColor | fieldPosition | fieldNormal,
}

// fieldNames returns the key names set in f, in declaration order.
func fieldNames(f field) []string {
	order := []string{"width", "height", "radius", "color", "position", "normal"}
	var names []string
	for _, name := range order {
		if f&knownFields[name] != 0 {
			names = append(names, name)
		}
	}
	return names
}

// Options controls parsing.
type Options struct {
	// MaxObjects caps the number of objects; <= 0 means no limit
	MaxObjects int
	// Debug receives parse events when non-nil
	Debug *debug.Session
}

// Result is a parsed scene together with any non-fatal diagnostics.
type Result struct {
	Scene *scene.Scene
	// Warnings contains any non-fatal issues encountered during parsing
	Warnings []string
}

// Parse reads a scene description from r.
// A nil opts uses common.DefaultMaxObjects and no tracing.
func Parse(r io.Reader, opts *Options) (*Result, error) {
	p := &parser{
		lx:         NewLexer(r),
		maxObjects: common.DefaultMaxObjects,
	}
	defer p.lx.Close()
	if opts != nil {
		p.maxObjects = opts.MaxObjects
		p.debug = opts.Debug
	}

	objects, err := p.parseList()
	if err != nil {
		p.debug.Emit("parse", "Error", errorData(err, p.lx.Line()))
		return nil, err
	}

	s, err := scene.New(objects, p.maxObjects)
	if err != nil {
		return nil, err
	}

	if p.debug != nil {
		kinds := make(map[string]int, 3)
		for k, n := range s.Counts() {
			kinds[string(k)] = n
		}
		p.debug.Emit("parse", "SceneParsed", debug.SceneParsedData{
			Objects:  s.Len(),
			Kinds:    kinds,
			Warnings: len(p.warnings),
			Lines:    p.lx.Line(),
		})
	}

	return &Result{Scene: s, Warnings: p.warnings}, nil
}

// parser holds the state of a single Parse call
type parser struct {
	lx         *Lexer
	maxObjects int
	debug      *debug.Session
	warnings   []string
}

// warn records a non-fatal diagnostic at the current line
func (p *parser) warn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	line := p.lx.Line()
	p.warnings = append(p.warnings, fmt.Sprintf("line %d: %s", line, msg))
	p.debug.Emit("parse", "Warning", debug.WarningData{Line: line, Message: msg})
}

// parseList parses the top-level array and returns its objects in order
func (p *parser) parseList() ([]scene.Object, error) {
	lx := p.lx

	if err := lx.SkipWhitespace(); err != nil {
		return nil, err
	}
	if err := lx.Expect('['); err != nil {
		return nil, err
	}
	if err := lx.SkipWhitespace(); err != nil {
		return nil, err
	}

	// An empty list is rejected: a scene needs at least its camera
	c, err := lx.Next()
	if err != nil {
		return nil, err
	}
	if c == ']' {
		return nil, lx.errorf(common.ErrSyntax, "empty scene")
	}
	if c != '{' {
		return nil, lx.errorf(common.ErrSyntax, "expected '{', got %q", c)
	}

	var objects []scene.Object
	for {
		obj, err := p.parseObject(len(objects))
		if err != nil {
			return nil, err
		}
		objects = append(objects, obj)
		if p.maxObjects > 0 && len(objects) > p.maxObjects {
			return nil, lx.errorf(common.ErrTooManyObjects, "%d object limit exceeded", p.maxObjects)
		}

		if err := lx.SkipWhitespace(); err != nil {
			return nil, err
		}
		c, err := lx.Next()
		if err != nil {
			return nil, err
		}
		switch c {
		case ',':
			if err := lx.SkipWhitespace(); err != nil {
				return nil, err
			}
			if err := lx.Expect('{'); err != nil {
				return nil, err
			}
		case ']':
			junk, err := lx.Drain()
			if err != nil {
				return nil, err
			}
			if junk {
				p.warn("ignoring content after closing ']'")
			}
			return objects, nil
		default:
			return nil, lx.errorf(common.ErrSyntax, "expecting ',' or ']', got %q", c)
		}
	}
}

// builder accumulates the fields of the object being parsed
type builder struct {
	obj   scene.Object
	seen  field
	count int
}

// newObject allocates the variant named by a "type" value
func newObject(kind string) (scene.Object, bool) {
	switch scene.Kind(kind) {
	case scene.KindCamera:
		return &scene.Camera{}, true
	case scene.KindSphere:
		return &scene.Sphere{}, true
	case scene.KindPlane:
		return &scene.Plane{}, true
	}
	return nil, false
}

// parseObject parses one object body; the opening '{' is already consumed
func (p *parser) parseObject(index int) (scene.Object, error) {
	lx := p.lx
	startLine := lx.Line()

	if err := lx.SkipWhitespace(); err != nil {
		return nil, err
	}
	key, err := lx.ReadString()
	if err != nil {
		return nil, err
	}
	if key != "type" {
		return nil, lx.errorf(common.ErrSyntax, "expected \"type\" key, got %q", key)
	}
	if err := p.skipColon(); err != nil {
		return nil, err
	}
	value, err := lx.ReadString()
	if err != nil {
		return nil, err
	}
	obj, ok := newObject(value)
	if !ok {
		return nil, lx.errorf(common.ErrUnknownType, "unknown type %q", value)
	}
	b := &builder{obj: obj}

	if err := lx.SkipWhitespace(); err != nil {
		return nil, err
	}
	for {
		c, err := lx.Next()
		if err != nil {
			return nil, err
		}
		switch c {
		case '}':
			if err := p.finish(b); err != nil {
				return nil, err
			}
			p.debug.Emit("parse", "Object", debug.ObjectData{
				Index:  index,
				Kind:   string(obj.Kind()),
				Line:   startLine,
				Fields: b.count,
			})
			return obj, nil
		case ',':
			if err := lx.SkipWhitespace(); err != nil {
				return nil, err
			}
			key, err := lx.ReadString()
			if err != nil {
				return nil, err
			}
			if err := p.skipColon(); err != nil {
				return nil, err
			}
			if err := p.parseField(b, key); err != nil {
				return nil, err
			}
			if err := lx.SkipWhitespace(); err != nil {
				return nil, err
			}
		default:
			return nil, lx.errorf(common.ErrSyntax, "unexpected value %q", c)
		}
	}
}

// skipColon consumes the ':' between a key and its value, with optional
// whitespace on either side
func (p *parser) skipColon() error {
	if err := p.lx.SkipWhitespace(); err != nil {
		return err
	}
	if err := p.lx.Expect(':'); err != nil {
		return err
	}
	return p.lx.SkipWhitespace()
}

// parseField reads the value for key and stores it on the object.
// Unknown keys are skipped with a warning; known keys on the wrong kind fail.
func (p *parser) parseField(b *builder, key string) error {
	lx := p.lx
	f, known := knownFields[key]
	if !known {
		p.warn("unknown property %q on %s", key, b.obj.Kind())
		return lx.SkipValue()
	}

	var ok bool
	switch f {
	case fieldWidth, fieldHeight, fieldRadius:
		v, err := lx.ReadNumber()
		if err != nil {
			return err
		}
		ok = assignNumber(b.obj, f, v)
	default:
		v, err := lx.ReadVector3()
		if err != nil {
			return err
		}
		ok = assignVector(b.obj, f, v)
		if ok {
			p.checkVector(b.obj, f, v)
		}
	}
	if !ok {
		return lx.errorf(common.ErrUnexpectedKey, "key %q not valid for %s", key, b.obj.Kind())
	}

	b.seen |= f
	b.count++
	return nil
}

// assignNumber stores a scalar field, reporting false if obj has no such field
func assignNumber(obj scene.Object, f field, v float64) bool {
	switch o := obj.(type) {
	case *scene.Camera:
		switch f {
		case fieldWidth:
			o.Width = v
			return true
		case fieldHeight:
			o.Height = v
			return true
		}
	case *scene.Sphere:
		if f == fieldRadius {
			o.Radius = v
			return true
		}
	}
	return false
}

// assignVector stores a vector field, reporting false if obj has no such field
func assignVector(obj scene.Object, f field, v [3]float64) bool {
	switch o := obj.(type) {
	case *scene.Sphere:
		switch f {
		case fieldColor:
			o.Color = scene.Color(v)
			return true
		case fieldPosition:
			o.Position = geom.Vec(v)
			return true
		}
	case *scene.Plane:
		switch f {
		case fieldColor:
			o.Color = scene.Color(v)
			return true
		case fieldPosition:
			o.Position = geom.Vec(v)
			return true
		case fieldNormal:
			o.Normal = geom.Vec(v)
			return true
		}
	}
	return false
}

// checkVector warns about values that parse but will render oddly
func (p *parser) checkVector(obj scene.Object, f field, v [3]float64) {
	switch f {
	case fieldColor:
		if !scene.Color(v).InRange() {
			p.warn("%s color %v has components outside [0,1]", obj.Kind(), v)
		}
	case fieldNormal:
		if math.Sqrt(v[0]*v[0]+v[1]*v[1]+v[2]*v[2]) == 0 {
			p.warn("plane normal is zero length; the plane will never be hit")
		}
	}
}

// finish checks that the object received exactly its required fields
func (p *parser) finish(b *builder) error {
	kind := b.obj.Kind()
	want := requiredFields[kind]
	wantCount := len(fieldNames(want))

	if b.seen == want && b.count == wantCount {
		return nil
	}
	if missing := want &^ b.seen; missing != 0 {
		return p.lx.errorf(common.ErrIncompleteObject, "%s missing %s",
			kind, strings.Join(fieldNames(missing), ", "))
	}
	return p.lx.errorf(common.ErrIncompleteObject, "%s: bad value count %d, want %d",
		kind, b.count, wantCount)
}

// errorData converts a parse failure into a trace event payload
func errorData(err error, line int) debug.ErrorData {
	return debug.ErrorData{
		Type:    "parse",
		Message: err.Error(),
		Line:    line,
	}
}
