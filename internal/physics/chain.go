package physics

import (
	"fmt"
	"sort"

	"github.com/san-kum/springchain/internal/dynamo"
)

const (
	DefaultOriginX = 400.0
	DefaultOriginY = 40.0
	DefaultGap     = 120.0
	DefaultMass    = 0.5
	DefaultCount   = 10

	// AnchorIndex is the node pinned by construction and by Reset.
	AnchorIndex = 0

	noDrag = -1
)

// Node is one mass-point of the chain.
type Node struct {
	Pos  dynamo.Vec
	Vel  dynamo.Vec
	Mass float64
}

// Layout describes how a fresh chain is laid out: Count nodes stacked
// straight down from Origin, Gap apart.
type Layout struct {
	Origin dynamo.Vec
	Count  int
	Mass   float64
	Gap    float64
}

func DefaultLayout() Layout {
	return Layout{
		Origin: dynamo.V(DefaultOriginX, DefaultOriginY),
		Count:  DefaultCount,
		Mass:   DefaultMass,
		Gap:    DefaultGap,
	}
}

func (l Layout) Validate() error {
	if !(l.Mass > 0) {
		return fmt.Errorf("layout mass %v: %w", l.Mass, dynamo.ErrInvalidMass)
	}
	if l.Count < 1 {
		return fmt.Errorf("layout count %d: %w", l.Count, dynamo.ErrParameterBounds)
	}
	if !l.Origin.IsFinite() {
		return fmt.Errorf("layout origin %v: %w", l.Origin, dynamo.ErrParameterBounds)
	}
	return nil
}

// Construct returns count nodes hanging below origin at a fixed gap, at rest.
func Construct(origin dynamo.Vec, count int, mass, gap float64) ([]Node, error) {
	l := Layout{Origin: origin, Count: count, Mass: mass, Gap: gap}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	nodes := make([]Node, count)
	for i := range nodes {
		nodes[i] = Node{
			Pos:  origin.Add(dynamo.V(0, float64(i)*gap)),
			Mass: mass,
		}
	}
	return nodes, nil
}

// Chain is a single linear mass-spring chain. Adjacent nodes are joined by
// an implicit spring. Pinned nodes and the dragged node are left alone by
// the integrator.
//
// Chain is not safe for concurrent use; sim.Simulator serializes access.
type Chain struct {
	nodes   []Node
	pinned  map[int]struct{}
	dragged int
	layout  Layout
}

// NewChain builds a chain from l with the anchor pinned.
func NewChain(l Layout) (*Chain, error) {
	nodes, err := Construct(l.Origin, l.Count, l.Mass, l.Gap)
	if err != nil {
		return nil, err
	}
	return &Chain{
		nodes:   nodes,
		pinned:  map[int]struct{}{AnchorIndex: {}},
		dragged: noDrag,
		layout:  l,
	}, nil
}

func (c *Chain) Len() int        { return len(c.nodes) }
func (c *Chain) Layout() Layout  { return c.layout }
func (c *Chain) Node(i int) Node { return c.nodes[i] }

// Nodes returns a copy of every node.
func (c *Chain) Nodes() []Node {
	out := make([]Node, len(c.nodes))
	copy(out, c.nodes)
	return out
}

func (c *Chain) inRange(i int) error {
	if i < 0 || i >= len(c.nodes) {
		return fmt.Errorf("index %d of %d: %w", i, len(c.nodes), dynamo.ErrIndexOutOfRange)
	}
	return nil
}

func (c *Chain) SetPosition(i int, p dynamo.Vec) error {
	if err := c.inRange(i); err != nil {
		return err
	}
	c.nodes[i].Pos = p
	return nil
}

// Translate moves node i by d.
func (c *Chain) Translate(i int, d dynamo.Vec) error {
	if err := c.inRange(i); err != nil {
		return err
	}
	c.nodes[i].Pos.AddInPlace(d)
	return nil
}

// SetVelocity assigns v to node i. Pinned nodes keep a zero velocity.
func (c *Chain) SetVelocity(i int, v dynamo.Vec) error {
	if err := c.inRange(i); err != nil {
		return err
	}
	if c.IsPinned(i) {
		v = dynamo.Vec{}
	}
	c.nodes[i].Vel = v
	return nil
}

// Resize grows or shrinks the chain to n nodes. New nodes start on top of
// the current last node, at rest. Pins and the drag beyond n are dropped.
func (c *Chain) Resize(n int) error {
	if n < 1 {
		return fmt.Errorf("resize to %d: %w", n, dynamo.ErrParameterBounds)
	}
	switch {
	case n > len(c.nodes):
		tail := c.nodes[len(c.nodes)-1]
		for len(c.nodes) < n {
			c.nodes = append(c.nodes, Node{Pos: tail.Pos.Clone(), Mass: c.layout.Mass})
		}
	case n < len(c.nodes):
		c.nodes = c.nodes[:n:n]
		for i := range c.pinned {
			if i >= n {
				delete(c.pinned, i)
			}
		}
		if c.dragged >= n {
			c.dragged = noDrag
		}
	}
	return nil
}

// Reset rebuilds the chain from its layout, pins only the anchor and
// cancels any drag.
func (c *Chain) Reset() {
	nodes, err := Construct(c.layout.Origin, c.layout.Count, c.layout.Mass, c.layout.Gap)
	if err != nil {
		// layout was validated by NewChain
		panic(err)
	}
	c.nodes = nodes
	c.pinned = map[int]struct{}{AnchorIndex: {}}
	c.dragged = noDrag
}

func (c *Chain) IsPinned(i int) bool {
	_, ok := c.pinned[i]
	return ok
}

// Pin fixes node i in place and zeroes its velocity.
func (c *Chain) Pin(i int) error {
	if err := c.inRange(i); err != nil {
		return err
	}
	c.pinned[i] = struct{}{}
	c.nodes[i].Vel = dynamo.Vec{}
	return nil
}

func (c *Chain) Unpin(i int) error {
	if err := c.inRange(i); err != nil {
		return err
	}
	delete(c.pinned, i)
	return nil
}

// TogglePin flips the membership of i and reports whether it is now pinned.
func (c *Chain) TogglePin(i int) (bool, error) {
	if c.IsPinned(i) {
		return false, c.Unpin(i)
	}
	return true, c.Pin(i)
}

// Pinned returns the pinned indices in ascending order.
func (c *Chain) Pinned() []int {
	out := make([]int, 0, len(c.pinned))
	for i := range c.pinned {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Dragged returns the index under pointer control, if any.
func (c *Chain) Dragged() (int, bool) {
	return c.dragged, c.dragged != noDrag
}

func (c *Chain) SetDragged(i int) error {
	if err := c.inRange(i); err != nil {
		return err
	}
	c.dragged = i
	return nil
}

func (c *Chain) ClearDragged() { c.dragged = noDrag }

// Nearest returns the index of the node closest to p. Ties go to the lower
// index.
func (c *Chain) Nearest(p dynamo.Vec) int {
	best, bestDist := 0, c.nodes[0].Pos.DistSq(p)
	for i := 1; i < len(c.nodes); i++ {
		if d := c.nodes[i].Pos.DistSq(p); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// State flattens the chain into [x, y, vx, vy] per node.
func (c *Chain) State() dynamo.State {
	s := make(dynamo.State, 0, len(c.nodes)*dynamo.StrideNode)
	return c.AppendState(s)
}

// AppendState appends the flattened chain to dst.
func (c *Chain) AppendState(dst dynamo.State) dynamo.State {
	for _, n := range c.nodes {
		dst = append(dst, n.Pos.X, n.Pos.Y, n.Vel.X, n.Vel.Y)
	}
	return dst
}
