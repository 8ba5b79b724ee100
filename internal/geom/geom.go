// Package geom holds the ray type and small vector helpers shared by the
// scene and renderer packages. Vector arithmetic is gonum's r3.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Origin is the camera position; every primary ray starts here.
var Origin = r3.Vec{}

// Ray is a parametric line Origin + t*Direction with a unit Direction.
type Ray struct {
	Origin    r3.Vec
	Direction r3.Vec
}

// NewRay creates a ray, normalizing direction.
func NewRay(origin, direction r3.Vec) Ray {
	return Ray{Origin: origin, Direction: r3.Unit(direction)}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) r3.Vec {
	return r3.Add(r.Origin, r3.Scale(t, r.Direction))
}

// Vec converts a parsed triple into a vector.
func Vec(v [3]float64) r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

// Finite reports whether every component of v is a finite number.
func Finite(v r3.Vec) bool {
	return finite(v.X) && finite(v.Y) && finite(v.Z)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
