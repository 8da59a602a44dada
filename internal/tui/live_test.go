package tui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/springchain/internal/dynamo"
	"github.com/san-kum/springchain/internal/physics"
)

func chainState(n int) dynamo.State {
	s := make(dynamo.State, 0, n*dynamo.StrideNode)
	for i := 0; i < n; i++ {
		s = append(s, 400, 40+float64(i)*120, 0, 0)
	}
	return s
}

func TestLiveRendererFrameLimit(t *testing.T) {
	l := physics.DefaultLayout()
	r := NewLiveRenderer(l, 80, 10)
	var buf bytes.Buffer
	r.SetOutput(&buf)

	clock := time.Unix(0, 0)
	r.now = func() time.Time { return clock }
	r.lastFrame = clock.Add(-time.Second)

	x := chainState(l.Count)
	r.OnFrame(x, 0)
	clock = clock.Add(16 * time.Millisecond)
	r.OnFrame(x, 16)
	clock = clock.Add(100 * time.Millisecond)
	r.OnFrame(x, 116)

	if r.Frames() != 2 {
		t.Errorf("expected 2 printed frames, got %d", r.Frames())
	}
	if len(r.trail) != 3 {
		t.Errorf("expected 3 trail points, got %d", len(r.trail))
	}
	if !strings.Contains(buf.String(), "t=  116.0ms") {
		t.Errorf("expected status line for last frame, got %q", buf.String())
	}
}

func TestLiveRendererEmptyState(t *testing.T) {
	r := NewLiveRenderer(physics.DefaultLayout(), 80, 0)
	var buf bytes.Buffer
	r.SetOutput(&buf)
	r.OnFrame(nil, 0)
	if buf.Len() != 0 || r.Frames() != 0 {
		t.Error("expected nothing rendered for an empty state")
	}
}

func TestLiveRendererTrailCap(t *testing.T) {
	r := NewLiveRenderer(physics.DefaultLayout(), 80, 0)
	r.SetOutput(&bytes.Buffer{})
	x := chainState(3)
	for i := 0; i < trailLength+10; i++ {
		r.OnFrame(x, float64(i))
	}
	if len(r.trail) != trailLength {
		t.Errorf("expected trail capped at %d, got %d", trailLength, len(r.trail))
	}
	if r.Frames() != trailLength+10 {
		t.Errorf("expected every frame printed without a rate limit, got %d", r.Frames())
	}
}
