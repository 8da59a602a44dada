package viz

import (
	"math"

	"github.com/san-kum/springchain/internal/dynamo"
	"github.com/san-kum/springchain/internal/physics"
	"github.com/san-kum/springchain/internal/sim"
)

// Surface is anything that can draw the chain. Coordinates are in model
// space; the surface maps them to its own pixels.
type Surface interface {
	Clear()
	Circle(center dynamo.Vec, radius float64)
	Line(a, b dynamo.Vec)
}

// NodeRadius is the drawn radius of a node in model units.
const NodeRadius = 8.0

// Viewport maps model coordinates to surface pixels: pixel = (p - Origin) * Scale.
type Viewport struct {
	Origin dynamo.Vec
	Scale  float64
}

func (v Viewport) ToSurface(p dynamo.Vec) dynamo.Vec {
	return p.Sub(v.Origin).Scale(v.Scale)
}

func (v Viewport) ToModel(px dynamo.Vec) dynamo.Vec {
	if v.Scale == 0 {
		return v.Origin
	}
	return px.Div(v.Scale).Add(v.Origin)
}

func (v Viewport) subPixel(p dynamo.Vec) (int, int) {
	s := v.ToSurface(p)
	return int(math.Round(s.X)), int(math.Round(s.Y))
}

// FitViewport centres the model rectangle [lo, hi] inside a w x h pixel
// area, keeping the aspect ratio.
func FitViewport(lo, hi dynamo.Vec, w, h float64) Viewport {
	size := hi.Sub(lo)
	if size.X <= 0 || size.Y <= 0 || w <= 0 || h <= 0 {
		return Viewport{Origin: lo, Scale: 1}
	}
	scale := math.Min(w/size.X, h/size.Y)
	slack := dynamo.V(w/scale-size.X, h/scale-size.Y).Scale(0.5)
	return Viewport{Origin: lo.Sub(slack), Scale: scale}
}

// LayoutBounds is the model rectangle a layout needs when it hangs
// straight down, with room for the springs to sag.
func LayoutBounds(l physics.Layout, restLength float64) (dynamo.Vec, dynamo.Vec) {
	span := math.Max(l.Gap, restLength) * float64(l.Count) * 1.2
	half := math.Max(span/2, 4*NodeRadius)
	lo := dynamo.V(l.Origin.X-half, l.Origin.Y-2*NodeRadius)
	hi := dynamo.V(l.Origin.X+half, l.Origin.Y+span)
	return lo, hi
}

// DrawChain draws springs as lines and nodes as circles. Pinned nodes get
// a second ring, the dragged node a larger one.
func DrawChain(s Surface, f sim.Frame) {
	s.Clear()
	for i := 1; i < len(f.Nodes); i++ {
		s.Line(f.Nodes[i-1].Pos, f.Nodes[i].Pos)
	}
	for i, n := range f.Nodes {
		s.Circle(n.Pos, NodeRadius)
		if f.IsPinned(i) {
			s.Circle(n.Pos, NodeRadius/2)
		}
		if i == f.Dragged {
			s.Circle(n.Pos, NodeRadius*1.6)
		}
	}
}
