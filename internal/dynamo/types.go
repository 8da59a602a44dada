package dynamo

import (
	"fmt"
	"math"
)

// State is a flat snapshot of a chain: [x0, y0, vx0, vy0, x1, y1, ...].
type State []float64

// StrideNode is the number of State entries per node.
const StrideNode = 4

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Nodes returns the number of whole nodes stored in s.
func (s State) Nodes() int { return len(s) / StrideNode }

func (s State) Position(i int) Vec {
	return Vec{X: s[i*StrideNode], Y: s[i*StrideNode+1]}
}

func (s State) Velocity(i int) Vec {
	return Vec{X: s[i*StrideNode+2], Y: s[i*StrideNode+3]}
}

// Configurable is implemented by anything exposing named scalar knobs.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// SimError is a per-frame failure kept in a run result.
type SimError struct {
	Frame int
	Time  float64
	Err   error
}

func (e SimError) Error() string {
	return fmt.Sprintf("frame %d (t=%.1fms): %v", e.Frame, e.Time, e.Err)
}

func (e SimError) Unwrap() error { return e.Err }
