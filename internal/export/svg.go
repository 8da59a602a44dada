package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/springchain/internal/dynamo"
	"github.com/san-kum/springchain/internal/physics"
	"github.com/san-kum/springchain/internal/sim"
	"github.com/san-kum/springchain/internal/viz"
)

const (
	background = "#0a0a0a"
	stroke     = "#00ff00"
)

// SVG is a viz.Surface that collects vector elements. Coordinates are
// mapped through View like on the terminal canvas.
type SVG struct {
	Width, Height int
	View          viz.Viewport
	Stroke        string
	elems         []string
}

func NewSVG(w, h int) *SVG {
	return &SVG{Width: w, Height: h, View: viz.Viewport{Scale: 1}, Stroke: stroke}
}

func (s *SVG) Clear() { s.elems = s.elems[:0] }

func (s *SVG) Circle(center dynamo.Vec, radius float64) {
	if !center.IsFinite() {
		return
	}
	c := s.View.ToSurface(center)
	s.elems = append(s.elems, fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>`, c.X, c.Y, radius*s.View.Scale))
}

func (s *SVG) Line(a, b dynamo.Vec) {
	if !a.IsFinite() || !b.IsFinite() {
		return
	}
	p, q := s.View.ToSurface(a), s.View.ToSurface(b)
	s.elems = append(s.elems, fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`, p.X, p.Y, q.X, q.Y))
}

func (s *SVG) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="none" stroke="%s" stroke-width="1.5">
`, s.Width, s.Height, s.Width, s.Height, background, s.Stroke)
	for _, e := range s.elems {
		sb.WriteString(e)
		sb.WriteByte('\n')
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// WriteFrame renders one chain frame, fitted to the area the layout needs.
func WriteFrame(w io.Writer, f sim.Frame, l physics.Layout, width, height int) error {
	s := NewSVG(width, height)
	lo, hi := viz.LayoutBounds(l, f.Params.RestLength)
	s.View = viz.FitViewport(lo, hi, float64(width), float64(height))
	viz.DrawChain(s, f)
	_, err := io.WriteString(w, s.String())
	return err
}

// TrajectoryToSVG draws a path through points, scaled to fill the image
// with a 10% margin.
func TrajectoryToSVG(points []dynamo.Vec, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	lo, hi := points[0], points[0]
	for _, p := range points {
		lo = dynamo.V(min(lo.X, p.X), min(lo.Y, p.Y))
		hi = dynamo.V(max(hi.X, p.X), max(hi.Y, p.Y))
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
	size = size.Add(pad.Scale(2))

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background, strokeColor)

	for i, p := range points {
		x := (p.X - lo.X) / size.X * float64(width)
		y := (p.Y - lo.Y) / size.Y * float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
