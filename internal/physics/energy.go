package physics

import (
	"github.com/san-kum/springchain/internal/dynamo"
	"github.com/san-kum/springchain/internal/params"
)

// KineticEnergy sums 0.5*m*|v|^2 over all nodes.
func (c *Chain) KineticEnergy() float64 {
	e := 0.0
	for _, n := range c.nodes {
		e += 0.5 * n.Mass * (n.Vel.X*n.Vel.X + n.Vel.Y*n.Vel.Y)
	}
	return e
}

// Energy returns kinetic plus spring plus gravitational energy.
func (c *Chain) Energy(p params.Params) float64 {
	return Energy(c.nodes, p)
}

// MaxSpeed returns the largest node speed.
func (c *Chain) MaxSpeed() float64 {
	return MaxSpeed(c.nodes)
}

// Energy is the total energy of a node sequence. Height is measured
// upward, so gravitational energy falls as y grows.
func Energy(nodes []Node, p params.Params) float64 {
	e := 0.0
	rest := dynamo.V(0, p.RestLength)
	for i, n := range nodes {
		e += 0.5 * n.Mass * (n.Vel.X*n.Vel.X + n.Vel.Y*n.Vel.Y)
		e -= n.Mass * p.Gravity * n.Pos.Y
		if i == 0 {
			continue
		}
		stretch := n.Pos.Sub(nodes[i-1].Pos).Sub(rest)
		e += 0.5 * p.SpringConstant * (stretch.X*stretch.X + stretch.Y*stretch.Y)
	}
	return e
}

func MaxSpeed(nodes []Node) float64 {
	m := 0.0
	for _, n := range nodes {
		if s := n.Vel.Len(); s > m {
			m = s
		}
	}
	return m
}
