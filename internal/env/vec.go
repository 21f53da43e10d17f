package env

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec is a point or direction in world units. +y points down.
type Vec = r2.Vec

// V is shorthand for constructing a Vec
func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

// Angle returns the heading of v in radians, measured clockwise from up
// (-y). It matches the thrust direction (sin a, -cos a).
func Angle(v Vec) float64 {
	return math.Atan2(v.X, -v.Y)
}

// Normalize returns v scaled to unit length, or the zero vector if v is zero
func Normalize(v Vec) Vec {
	n := r2.Norm(v)
	if n == 0 {
		return Vec{}
	}
	return r2.Scale(1/n, v)
}

// Negate returns -v
func Negate(v Vec) Vec {
	return r2.Scale(-1, v)
}

// Midpoint returns the point halfway between a and b
func Midpoint(a, b Vec) Vec {
	return r2.Scale(0.5, r2.Add(a, b))
}
