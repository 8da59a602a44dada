package analysis

import (
	"fmt"
	"strings"

	"github.com/san-kum/springchain/internal/dynamo"
)

// PhasePortrait holds position against velocity for one node along one
// axis.
type PhasePortrait struct {
	Node   int
	Axis   string
	Points []dynamo.Vec
}

// NewPhasePortrait collects (pos, vel) pairs for node along axis "x" or "y".
func NewPhasePortrait(states []dynamo.State, node int, axis string) (*PhasePortrait, error) {
	var pick func(v dynamo.Vec) float64
	switch axis {
	case "x":
		pick = func(v dynamo.Vec) float64 { return v.X }
	case "y":
		pick = func(v dynamo.Vec) float64 { return v.Y }
	default:
		return nil, fmt.Errorf("axis %q: %w", axis, dynamo.ErrParameterBounds)
	}

	portrait := &PhasePortrait{
		Node:   node,
		Axis:   axis,
		Points: make([]dynamo.Vec, 0, len(states)),
	}
	for _, x := range states {
		if node < 0 || node >= x.Nodes() {
			continue
		}
		portrait.Points = append(portrait.Points, dynamo.V(pick(x.Position(node)), pick(x.Velocity(node))))
	}
	if len(portrait.Points) == 0 {
		return nil, fmt.Errorf("node %d: %w", node, dynamo.ErrIndexOutOfRange)
	}
	return portrait, nil
}

// ASCII plots the portrait with velocity upward; the zero-velocity line
// is drawn when it is in view.
func (p *PhasePortrait) ASCII(width, height int) string {
	if len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	lo, hi := p.Points[0], p.Points[0]
	for _, pt := range p.Points {
		lo = dynamo.V(min(lo.X, pt.X), min(lo.Y, pt.Y))
		hi = dynamo.V(max(hi.X, pt.X), max(hi.Y, pt.Y))
	}
	size := hi.Sub(lo)
	if size.X == 0 {
		size.X = 1
	}
	if size.Y == 0 {
		size.Y = 1
	}
	pad := size.Scale(0.1)
	lo = lo.Sub(pad)
	hi = hi.Add(pad)
	size = hi.Sub(lo)

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	if lo.Y <= 0 && hi.Y >= 0 {
		row := height - 1 - int(-lo.Y/size.Y*float64(height-1))
		for col := range canvas[row] {
			canvas[row][col] = '─'
		}
	}

	for _, pt := range p.Points {
		col := int((pt.X - lo.X) / size.X * float64(width-1))
		row := height - 1 - int((pt.Y-lo.Y)/size.Y*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
