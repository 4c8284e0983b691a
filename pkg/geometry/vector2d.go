package geometry

import (
	"fmt"
	"math"
)

// Epsilon is the tolerance used by Eq and Normalize.
const Epsilon = 1e-9

// Vector2D is a point or a velocity on the flock canvas.
type Vector2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewVector is shorthand for Vector2D{X: x, Y: y}.
func NewVector(x, y float64) Vector2D {
	return Vector2D{X: x, Y: y}
}

func (v Vector2D) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", v.X, v.Y)
}

// Add returns v+o.
func (v Vector2D) Add(o Vector2D) Vector2D {
	return Vector2D{v.X + o.X, v.Y + o.Y}
}

// Sub returns v-o.
func (v Vector2D) Sub(o Vector2D) Vector2D {
	return Vector2D{v.X - o.X, v.Y - o.Y}
}

// Mul scales v by s.
func (v Vector2D) Mul(s float64) Vector2D {
	return Vector2D{v.X * s, v.Y * s}
}

// LenSqr avoids the square root when only comparisons are needed.
func (v Vector2D) LenSqr() float64 {
	return v.X*v.X + v.Y*v.Y
}

func (v Vector2D) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalize returns the unit vector of v, or the zero vector when v is (nearly) zero.
func (v Vector2D) Normalize() Vector2D {
	l := v.Len()
	if l < Epsilon {
		return Vector2D{}
	}
	return v.Mul(1 / l)
}

// Limit rescales v to length max when it is longer, keeping its direction.
func (v Vector2D) Limit(max float64) Vector2D {
	l := v.Len()
	if l <= max || l == 0 {
		return v
	}
	return v.Mul(max / l)
}

// DistanceTo is the plain Euclidean distance; wrapping is not taken into account.
func (v Vector2D) DistanceTo(o Vector2D) float64 {
	return v.Sub(o).Len()
}

// Angle is the heading of v in radians, in [-Pi, Pi].
func (v Vector2D) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// Rotate turns v by angle radians around the origin.
func (v Vector2D) Rotate(angle float64) Vector2D {
	sin, cos := math.Sincos(angle)
	return Vector2D{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// Wrap folds v back onto the torus [0,w) x [0,h).
func (v Vector2D) Wrap(w, h float64) Vector2D {
	return Vector2D{wrap(v.X, w), wrap(v.Y, h)}
}

func wrap(c, size float64) float64 {
	switch {
	case c < 0:
		c += size
	case c >= size:
		c -= size
	}
	if c < 0 || c >= size {
		c = math.Mod(c, size)
		if c < 0 {
			c += size
		}
	}
	// a tiny negative plus size can round up to size itself
	if c >= size {
		c = 0
	}
	return c
}

// Eq compares within Epsilon.
func (v Vector2D) Eq(o Vector2D) bool {
	return math.Abs(v.X-o.X) <= Epsilon && math.Abs(v.Y-o.Y) <= Epsilon
}
