package dynamo

import "math"

// Vec is a 2D vector in model coordinates (y grows downward).
// Methods without an InPlace suffix never modify the receiver.
type Vec struct {
	X, Y float64
}

func V(x, y float64) Vec { return Vec{X: x, Y: y} }

func (a Vec) Add(b Vec) Vec { return Vec{a.X + b.X, a.Y + b.Y} }

func (a Vec) Sub(b Vec) Vec { return Vec{a.X - b.X, a.Y - b.Y} }

func (a Vec) Scale(s float64) Vec { return Vec{a.X * s, a.Y * s} }

// Div returns a / s. Dividing by zero yields the zero vector.
func (a Vec) Div(s float64) Vec {
	if s == 0 {
		return Vec{}
	}
	return Vec{a.X / s, a.Y / s}
}

// Clone exists for call sites that want the copy to be explicit.
func (a Vec) Clone() Vec { return a }

func (a Vec) Len() float64 { return math.Hypot(a.X, a.Y) }

func (a Vec) Dist(b Vec) float64 { return a.Sub(b).Len() }

func (a Vec) DistSq(b Vec) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

func (a Vec) IsZero() bool { return a.X == 0 && a.Y == 0 }

func (a Vec) IsFinite() bool {
	return !math.IsNaN(a.X) && !math.IsNaN(a.Y) && !math.IsInf(a.X, 0) && !math.IsInf(a.Y, 0)
}

// AddInPlace adds b to a.
func (a *Vec) AddInPlace(b Vec) {
	a.X += b.X
	a.Y += b.Y
}

// SubInPlace subtracts b from a.
func (a *Vec) SubInPlace(b Vec) {
	a.X -= b.X
	a.Y -= b.Y
}

// ScaleInPlace multiplies a by s.
func (a *Vec) ScaleInPlace(s float64) {
	a.X *= s
	a.Y *= s
}
