package physics

import (
	"fmt"

	"github.com/san-kum/springchain/internal/dynamo"
	"github.com/san-kum/springchain/internal/params"
)

const (
	// DefaultFPS is the nominal frame rate the per-frame force is scaled to.
	DefaultFPS = 60.0
	// DefaultMaxStep caps the elapsed time fed into one step, in milliseconds.
	DefaultMaxStep = 17.0
)

// Integrator advances a chain with semi-implicit Euler. Time is in
// milliseconds; positions move by the new velocity once per step.
type Integrator struct {
	FPS     float64
	MaxStep float64

	vel []dynamo.Vec
}

func NewIntegrator() *Integrator {
	return &Integrator{FPS: DefaultFPS, MaxStep: DefaultMaxStep}
}

// ClampDt limits dt to [0, MaxStep].
func (in *Integrator) ClampDt(dt float64) float64 {
	if !(dt > 0) {
		return 0
	}
	if dt > in.MaxStep {
		return in.MaxStep
	}
	return dt
}

// Force returns the net force on node i computed from the given positions,
// after division by the force divisor. The weight enters once, on the net
// force.
func Force(nodes []Node, i int, p params.Params) dynamo.Vec {
	rest := dynamo.V(0, p.RestLength)
	pos := nodes[i].Pos

	var below, above dynamo.Vec
	if i+1 < len(nodes) {
		below = nodes[i+1].Pos.Sub(pos).Sub(rest).Scale(p.SpringConstant)
	}
	if i > 0 {
		above = pos.Sub(nodes[i-1].Pos).Sub(rest).Scale(p.SpringConstant)
	}

	f := below.Sub(above)
	f.Y += nodes[i].Mass * p.Gravity
	return f.Div(p.ForceDivisor)
}

// Advance moves every node that is neither pinned nor dragged forward by dt
// milliseconds. All forces come from the positions at entry. If the step
// would produce a non-finite value nothing is committed and ErrUnstable is
// returned, leaving the chain frozen.
func (in *Integrator) Advance(c *Chain, p params.Params, dt float64) error {
	if !(p.ForceDivisor > 0) || !(in.FPS > 0) {
		return fmt.Errorf("divisor %v fps %v: %w", p.ForceDivisor, in.FPS, dynamo.ErrParameterBounds)
	}
	dt = in.ClampDt(dt)

	n := c.Len()
	if cap(in.vel) < n {
		in.vel = make([]dynamo.Vec, n)
	}
	vel := in.vel[:n]

	dragged, dragging := c.Dragged()
	for i := range c.nodes {
		node := c.nodes[i]
		if c.IsPinned(i) || (dragging && i == dragged) {
			vel[i] = node.Vel
			continue
		}
		if !(node.Mass > 0) {
			return fmt.Errorf("node %d: %w", i, dynamo.ErrInvalidMass)
		}
		a := Force(c.nodes, i, p).Div(node.Mass).Div(in.FPS)
		v := node.Vel.Add(a.Scale(dt)).Scale(p.Friction)
		if !v.IsFinite() || !node.Pos.Add(v).IsFinite() {
			return fmt.Errorf("node %d: %w", i, dynamo.ErrUnstable)
		}
		vel[i] = v
	}

	for i := range c.nodes {
		if c.IsPinned(i) {
			c.nodes[i].Vel = dynamo.Vec{}
			continue
		}
		if dragging && i == dragged {
			continue
		}
		c.nodes[i].Vel = vel[i]
		c.nodes[i].Pos.AddInPlace(vel[i])
	}
	return nil
}
