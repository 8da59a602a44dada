package tui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/san-kum/springchain/internal/dynamo"
	"github.com/san-kum/springchain/internal/physics"
	"github.com/san-kum/springchain/internal/sim"
	"github.com/san-kum/springchain/internal/viz"
)

const (
	width       = 70
	height      = 20
	trailLength = 50
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer prints headless run frames to a terminal, at most
// frameRate times per second. The tail node leaves a dotted trail.
type LiveRenderer struct {
	out       io.Writer
	frameRate int
	lastFrame time.Time
	now       func() time.Time
	canvas    *viz.Canvas
	trail     []dynamo.Vec
	drawn     int
}

func NewLiveRenderer(l physics.Layout, restLength float64, frameRate int) *LiveRenderer {
	c := viz.NewCanvas(width, height)
	lo, hi := viz.LayoutBounds(l, restLength)
	c.View = viz.FitViewport(lo, hi, float64(c.SubWidth()), float64(c.SubHeight()))
	return &LiveRenderer{
		out:       os.Stdout,
		frameRate: frameRate,
		now:       time.Now,
		canvas:    c,
		trail:     make([]dynamo.Vec, 0, trailLength),
	}
}

// SetOutput redirects the renderer, mainly for tests.
func (r *LiveRenderer) SetOutput(w io.Writer) { r.out = w }

// Frames returns how many frames were actually printed.
func (r *LiveRenderer) Frames() int { return r.drawn }

func (r *LiveRenderer) OnFrame(x dynamo.State, t float64) {
	n := x.Nodes()
	if n == 0 {
		return
	}
	tail := x.Position(n - 1)
	r.trail = append(r.trail, tail)
	if len(r.trail) > trailLength {
		r.trail = r.trail[1:]
	}

	if r.frameRate > 0 && r.now().Sub(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = r.now()

	nodes := make([]physics.Node, n)
	for i := range nodes {
		nodes[i] = physics.Node{Pos: x.Position(i), Vel: x.Velocity(i)}
	}
	viz.DrawChain(r.canvas, sim.Frame{Nodes: nodes, Dragged: -1})
	for _, p := range r.trail {
		s := r.canvas.View.ToSurface(p)
		r.canvas.Set(int(s.X), int(s.Y))
	}
	r.render(tail, t)
}

func (r *LiveRenderer) render(tail dynamo.Vec, t float64) {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(r.canvas.String())
	fmt.Fprintf(&b, "\n t=%7.1fms  tail=(%.1f, %.1f)\n", t, tail.X, tail.Y)
	fmt.Fprint(r.out, b.String())
	r.drawn++
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
