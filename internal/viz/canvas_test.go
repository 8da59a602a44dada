package viz

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/springchain/internal/dynamo"
	"github.com/san-kum/springchain/internal/physics"
	"github.com/san-kum/springchain/internal/sim"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(3, 5)

	if !c.IsSet(3, 5) {
		t.Error("expected (3,5) to be set")
	}
	if c.IsSet(2, 5) {
		t.Error("expected (2,5) to be clear")
	}
	if c.Grid[1][1] != brailleBase|0x10 {
		t.Errorf("expected rune %U, got %U", brailleBase|0x10, c.Grid[1][1])
	}

	c.Set(-1, 0)
	c.Set(100, 100)
	c.Clear()
	if c.IsSet(3, 5) {
		t.Error("expected clear canvas")
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(3, 2)
	s := c.String()
	lines := strings.Split(s, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if n := len([]rune(lines[0])); n != 3 {
		t.Errorf("expected 3 runes per line, got %d", n)
	}
	if strings.HasSuffix(s, "\n") {
		t.Error("expected no trailing newline")
	}
}

func TestDrawLine(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawLine(0, 0, 9, 0)
	for x := 0; x <= 9; x++ {
		if !c.IsSet(x, 0) {
			t.Errorf("expected (%d,0) set", x)
		}
	}
	c.Clear()
	c.DrawLine(0, 0, 7, 7)
	for i := 0; i <= 7; i++ {
		if !c.IsSet(i, i) {
			t.Errorf("expected (%d,%d) set on diagonal", i, i)
		}
	}
}

func TestDrawCircle(t *testing.T) {
	c := NewCanvas(20, 10)
	c.DrawCircle(20, 20, 6)

	for _, p := range [][2]int{{26, 20}, {14, 20}, {20, 26}, {20, 14}} {
		if !c.IsSet(p[0], p[1]) {
			t.Errorf("expected (%d,%d) on circle", p[0], p[1])
		}
	}
	if c.IsSet(20, 20) {
		t.Error("expected centre to stay clear")
	}
}

func TestViewportRoundTrip(t *testing.T) {
	v := Viewport{Origin: dynamo.V(-50, 10), Scale: 0.25}
	p := dynamo.V(123, 456)
	got := v.ToModel(v.ToSurface(p))
	if got.Dist(p) > 1e-9 {
		t.Errorf("expected %v, got %v", p, got)
	}
}

func TestFitViewport(t *testing.T) {
	lo, hi := dynamo.V(0, 0), dynamo.V(100, 50)
	v := FitViewport(lo, hi, 200, 200)

	if v.Scale != 2 {
		t.Errorf("expected scale 2, got %v", v.Scale)
	}
	// Wide box in a square area is centred vertically.
	top := v.ToSurface(lo)
	bottom := v.ToSurface(hi)
	if math.Abs(top.Y-50) > 1e-9 || math.Abs(bottom.Y-150) > 1e-9 {
		t.Errorf("expected y span [50,150], got [%v,%v]", top.Y, bottom.Y)
	}

	d := FitViewport(lo, lo, 10, 10)
	if d.Scale != 1 {
		t.Errorf("expected fallback scale 1, got %v", d.Scale)
	}
}

func TestLayoutBoundsContainChain(t *testing.T) {
	l := physics.DefaultLayout()
	lo, hi := LayoutBounds(l, 80)
	nodes, err := physics.Construct(l.Origin, l.Count, l.Mass, l.Gap)
	if err != nil {
		t.Fatal(err)
	}
	for i, n := range nodes {
		if n.Pos.X < lo.X || n.Pos.X > hi.X || n.Pos.Y < lo.Y || n.Pos.Y > hi.Y {
			t.Errorf("node %d at %v outside [%v,%v]", i, n.Pos, lo, hi)
		}
	}
}

type recorder struct {
	clears  int
	circles []float64
	lines   [][2]dynamo.Vec
}

func (r *recorder) Clear()                           { r.clears++ }
func (r *recorder) Circle(_ dynamo.Vec, rad float64) { r.circles = append(r.circles, rad) }
func (r *recorder) Line(a, b dynamo.Vec)             { r.lines = append(r.lines, [2]dynamo.Vec{a, b}) }

func TestDrawChain(t *testing.T) {
	nodes, err := physics.Construct(dynamo.V(0, 0), 3, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	f := sim.Frame{Nodes: nodes, Pinned: []int{0}, Dragged: 2}

	var r recorder
	DrawChain(&r, f)

	if r.clears != 1 {
		t.Errorf("expected 1 clear, got %d", r.clears)
	}
	if len(r.lines) != 2 {
		t.Fatalf("expected 2 springs, got %d", len(r.lines))
	}
	if r.lines[1][0] != nodes[1].Pos || r.lines[1][1] != nodes[2].Pos {
		t.Errorf("expected spring between nodes 1 and 2, got %v", r.lines[1])
	}
	// 3 nodes + pin ring + drag ring
	if len(r.circles) != 5 {
		t.Errorf("expected 5 circles, got %d", len(r.circles))
	}
}

func TestDrawChainNoDrag(t *testing.T) {
	nodes, _ := physics.Construct(dynamo.V(0, 0), 2, 1, 10)
	var r recorder
	DrawChain(&r, sim.Frame{Nodes: nodes, Dragged: -1})
	if len(r.circles) != 2 {
		t.Errorf("expected 2 circles, got %d", len(r.circles))
	}
}

func TestCanvasSkipsNonFinite(t *testing.T) {
	c := NewCanvas(10, 5)
	c.Line(dynamo.V(math.NaN(), 0), dynamo.V(1, 1))
	c.Circle(dynamo.V(math.Inf(1), 0), 3)
	if strings.Trim(c.String(), string(rune(brailleBase))+"\n") != "" {
		t.Error("expected nothing drawn for non-finite input")
	}
}
