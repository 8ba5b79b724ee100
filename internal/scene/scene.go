// Package scene defines the scene object variants and the ordered store the
// renderer reads from.
package scene

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ryanlewis/raycast/internal/common"
)

// Kind names an object variant as it appears in the "type" key.
type Kind string

// Object kinds
const (
	KindCamera Kind = "camera"
	KindSphere Kind = "sphere"
	KindPlane  Kind = "plane"
)

// Object is one of *Camera, *Sphere or *Plane. The set is closed; the
// unexported method keeps other packages from adding variants.
type Object interface {
	Kind() Kind
	isObject()
}

// Color is a linear RGB triple, nominally in [0,1].
type Color [3]float64

// RGB scales the color to 8-bit channels. Components are truncated toward
// zero and wrap modulo 256 when outside [0,1]; nothing is clamped.
func (c Color) RGB() (r, g, b uint8) {
	return channel(c[0]), channel(c[1]), channel(c[2])
}

func channel(v float64) uint8 {
	return uint8(int(v * common.MaxColor))
}

// InRange reports whether every component lies in [0,1].
func (c Color) InRange() bool {
	for _, v := range c {
		if !(v >= 0 && v <= 1) {
			return false
		}
	}
	return true
}

// Camera defines the view plane size at unit distance from the origin.
type Camera struct {
	Width  float64
	Height float64
}

// Sphere is a solid sphere with a flat color.
type Sphere struct {
	Color    Color
	Position r3.Vec
	Radius   float64
}

// Plane is an infinite plane through Position with the given Normal.
// Normal is stored as written and need not be unit length.
type Plane struct {
	Color    Color
	Position r3.Vec
	Normal   r3.Vec
}

func (*Camera) Kind() Kind { return KindCamera }
func (*Sphere) Kind() Kind { return KindSphere }
func (*Plane) Kind() Kind  { return KindPlane }

func (*Camera) isObject() {}
func (*Sphere) isObject() {}
func (*Plane) isObject()  {}

// ColorOf returns the color of a renderable object. Cameras have none.
func ColorOf(o Object) (Color, bool) {
	switch v := o.(type) {
	case *Sphere:
		return v.Color, true
	case *Plane:
		return v.Color, true
	default:
		return Color{}, false
	}
}

// Scene is the ordered, immutable collection of parsed objects.
// Declaration order is preserved and is the order rays test objects in.
type Scene struct {
	objects []Object
}

// New builds a scene from objects in declaration order. maxObjects <= 0
// disables the limit.
func New(objects []Object, maxObjects int) (*Scene, error) {
	if maxObjects > 0 && len(objects) > maxObjects {
		return nil, fmt.Errorf("%d objects exceeds limit of %d: %w",
			len(objects), maxObjects, common.ErrTooManyObjects)
	}
	s := &Scene{objects: make([]Object, len(objects))}
	copy(s.objects, objects)
	return s, nil
}

// Len returns the number of objects, cameras included.
func (s *Scene) Len() int {
	if s == nil {
		return 0
	}
	return len(s.objects)
}

// At returns the i-th declared object, or false when i is out of range.
func (s *Scene) At(i int) (Object, bool) {
	if s == nil || i < 0 || i >= len(s.objects) {
		return nil, false
	}
	return s.objects[i], true
}

// Objects returns a copy of the object list.
func (s *Scene) Objects() []Object {
	if s == nil {
		return nil
	}
	out := make([]Object, len(s.objects))
	copy(out, s.objects)
	return out
}

// Counts returns how many objects of each kind the scene holds.
func (s *Scene) Counts() map[Kind]int {
	counts := make(map[Kind]int, 3)
	if s == nil {
		return counts
	}
	for _, o := range s.objects {
		counts[o.Kind()]++
	}
	return counts
}
