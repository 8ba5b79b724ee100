package renderer

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ryanlewis/raycast/internal/geom"
	"github.com/ryanlewis/raycast/internal/scene"
)

// parallelEpsilon is the smallest |N·D| treated as a real plane crossing
const parallelEpsilon = 1e-12

// Intersect returns the distance along ray to obj and whether it is hit in
// front of the origin at a finite point. Cameras are never hit.
func Intersect(ray geom.Ray, obj scene.Object) (float64, bool) {
	t := rawT(ray, obj)
	if t > 0 && geom.Finite(ray.At(t)) {
		return t, true
	}
	return 0, false
}

// rawT returns the unfiltered intersection parameter. Misses are negative
// or -Inf; degenerate cases (parallel rays, zero normals) are NaN or +Inf.
func rawT(ray geom.Ray, obj scene.Object) float64 {
	switch o := obj.(type) {
	case *scene.Sphere:
		return sphereT(ray, o.Position, o.Radius)
	case *scene.Plane:
		return planeT(ray, o.Position, o.Normal)
	default:
		return math.Inf(-1)
	}
}

// sphereT solves |O + tD - C|² = r² and returns the nearest positive root.
// If neither root is positive the larger one is returned.
func sphereT(ray geom.Ray, center r3.Vec, radius float64) float64 {
	oc := r3.Sub(ray.Origin, center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := r3.Dot(ray.Direction, ray.Direction)
	b := 2 * r3.Dot(ray.Direction, oc)
	c := r3.Dot(oc, oc) - radius*radius

	disc := b*b - 4*a*c
	if disc < 0 {
		return math.Inf(-1)
	}

	sqrtD := math.Sqrt(disc)
	t0 := (-b - sqrtD) / (2 * a)
	if t0 > 0 {
		return t0
	}
	return (-b + sqrtD) / (2 * a)
}

// planeT returns t = -N·(O-P) / N·D, or NaN when the ray runs parallel to
// the plane.
func planeT(ray geom.Ray, point, normal r3.Vec) float64 {
	denom := r3.Dot(normal, ray.Direction)
	if math.Abs(denom) < parallelEpsilon {
		return math.NaN()
	}
	return -r3.Dot(normal, r3.Sub(ray.Origin, point)) / denom
}
