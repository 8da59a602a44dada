package sim

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/san-kum/springchain/internal/dynamo"
	"github.com/san-kum/springchain/internal/interact"
	"github.com/san-kum/springchain/internal/params"
	"github.com/san-kum/springchain/internal/physics"
)

func newSim(t *testing.T, count int, opts ...Option) *Simulator {
	t.Helper()
	store, err := params.NewStore(params.Defaults())
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	l := physics.DefaultLayout()
	l.Count = count
	s, err := New(l, store, opts...)
	if err != nil {
		t.Fatalf("new simulator: %v", err)
	}
	return s
}

type testMetric struct {
	count int
	last  float64
}

func (m *testMetric) Name() string { return "test" }
func (m *testMetric) Observe(c *physics.Chain, p params.Params, t float64) {
	m.count++
	m.last = t
}
func (m *testMetric) Value() float64 { return float64(m.count) }
func (m *testMetric) Reset()         { m.count = 0 }

type testObserver struct {
	frames int
	nodes  int
}

func (o *testObserver) OnFrame(x dynamo.State, t float64) {
	o.frames++
	o.nodes = x.Nodes()
}

func TestSimulatorRun(t *testing.T) {
	s := newSim(t, 4)
	metric := &testMetric{}
	obs := &testObserver{}
	s.AddMetric(metric)
	s.AddObserver(obs)

	cfg := Config{Frames: 10, Dt: 16, RecordEvery: 1}
	result, err := s.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.States) != 11 {
		t.Errorf("expected 11 states, got %d", len(result.States))
	}
	if len(result.Times) != 11 {
		t.Errorf("expected 11 times, got %d", len(result.Times))
	}
	if result.Times[10] != 160 {
		t.Errorf("expected final time 160ms, got %f", result.Times[10])
	}
	if result.FramesTaken != 10 {
		t.Errorf("expected 10 frames, got %d", result.FramesTaken)
	}
	if result.Metrics["test"] != 10 {
		t.Errorf("expected 10 observations, got %f", result.Metrics["test"])
	}
	if obs.frames != 10 || obs.nodes != 4 {
		t.Errorf("observer saw %d frames of %d nodes", obs.frames, obs.nodes)
	}
}

func TestSimulatorRun_RecordEvery(t *testing.T) {
	s := newSim(t, 3)
	result, err := s.Run(context.Background(), Config{Frames: 100, Dt: 16, RecordEvery: 10})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.States) != 11 {
		t.Errorf("expected 11 states, got %d", len(result.States))
	}
}

func TestSimulatorRun_RecordNone(t *testing.T) {
	s := newSim(t, 3)
	result, err := s.Run(context.Background(), Config{Frames: 50, Dt: 16})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.States) != 1 || result.FramesTaken != 50 {
		t.Errorf("expected only the starting state after 50 frames, got %d states, %d frames", len(result.States), result.FramesTaken)
	}
}

func TestSimulatorRun_Settles(t *testing.T) {
	s := newSim(t, 10)
	cfg := Config{Frames: 5000, Dt: 16, SettleSpeed: 1e-6, RecordEvery: 100, StopWhenSettled: true}
	result, err := s.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !result.Settled {
		t.Fatal("expected chain to settle")
	}
	if result.FramesTaken != result.SettledAt+1 {
		t.Errorf("expected stop at settle frame %d, took %d", result.SettledAt, result.FramesTaken)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	s := newSim(t, 2)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Frames: 10, Dt: 0}},
		{"negative dt", Config{Frames: 10, Dt: -1}},
		{"zero frames", Config{Frames: 0, Dt: 16}},
		{"negative record interval", Config{Frames: 10, Dt: 16, RecordEvery: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Run(context.Background(), tt.cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSimulatorRun_Canceled(t *testing.T) {
	s := newSim(t, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Run(ctx, DefaultConfig())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.FramesTaken != 0 {
		t.Errorf("expected empty partial result, got %+v", result)
	}
}

func TestSimulatorRun_UnstableStops(t *testing.T) {
	s := newSim(t, 3)
	if err := s.Params().SetSpringConstant(math.MaxFloat64); err != nil {
		t.Fatal(err)
	}
	before := s.State()

	result, err := s.Run(context.Background(), Config{Frames: 5, Dt: 16})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected one error, got %v", result.Errors)
	}
	if !errors.Is(result.Errors[0], dynamo.ErrUnstable) {
		t.Errorf("expected ErrUnstable, got %v", result.Errors[0])
	}
	if result.FramesTaken != 0 {
		t.Errorf("expected no frames, got %d", result.FramesTaken)
	}
	if !s.Snapshot().Frozen {
		t.Error("expected frozen chain")
	}
	after := s.State()
	for i := range before {
		if before[i] != after[i] {
			t.Fatal("frozen chain changed")
		}
	}
}

func TestSimulatorAdvance_AppliesNodeCount(t *testing.T) {
	s := newSim(t, 4)
	if err := s.Params().SetNodeCount(7); err != nil {
		t.Fatal(err)
	}
	if n := len(s.Snapshot().Nodes); n != 4 {
		t.Errorf("resize should wait for the next frame, got %d nodes", n)
	}
	if err := s.Advance(16); err != nil {
		t.Fatal(err)
	}
	if n := len(s.Snapshot().Nodes); n != 7 {
		t.Errorf("expected 7 nodes, got %d", n)
	}
}

func TestSimulatorTick_UsesWallClock(t *testing.T) {
	s := newSim(t, 3)
	start := time.Unix(1000, 0)

	_ = s.Tick(start)
	if f := s.Snapshot(); f.Time != 0 || f.Index != 1 {
		t.Errorf("first tick should not advance time, got %+v", f.Time)
	}

	_ = s.Tick(start.Add(10 * time.Millisecond))
	if got := s.Snapshot().Time; got != 10 {
		t.Errorf("expected 10ms, got %f", got)
	}

	_ = s.Tick(start.Add(10 * time.Second))
	if got := s.Snapshot().Time; got != 10+physics.DefaultMaxStep {
		t.Errorf("long frame should be clamped, got %f", got)
	}
}

func TestSimulatorPointerFlow(t *testing.T) {
	s := newSim(t, 5)
	target := s.Snapshot().Nodes[3].Pos

	if a, i := s.PointerDown(target, false); a != interact.Grabbed || i != 3 {
		t.Fatalf("expected grab of 3, got %v %d", a, i)
	}
	s.PointerMove(target.Add(dynamo.V(10, 0)))
	if err := s.Advance(16); err != nil {
		t.Fatal(err)
	}
	f := s.Snapshot()
	if f.Dragged != 3 || f.Mode != interact.Dragging {
		t.Errorf("expected node 3 dragged, got %d %v", f.Dragged, f.Mode)
	}
	if f.Nodes[3].Pos != target.Add(dynamo.V(10, 0)) {
		t.Errorf("dragged node drifted to %v", f.Nodes[3].Pos)
	}

	s.PointerUp(target.Add(dynamo.V(13, 0)))
	f = s.Snapshot()
	if f.Nodes[3].Vel != dynamo.V(6, 0) {
		t.Errorf("expected flick velocity (6,0), got %v", f.Nodes[3].Vel)
	}
	if f.Dragged != -1 {
		t.Errorf("expected no drag, got %d", f.Dragged)
	}
}

func TestSimulatorTogglePinNearest(t *testing.T) {
	s := newSim(t, 4)
	p := s.Snapshot().Nodes[2].Pos

	if a, _ := s.TogglePinNearest(p); a != interact.Pinned {
		t.Errorf("expected pinned, got %v", a)
	}
	if !s.Snapshot().IsPinned(2) {
		t.Error("node 2 should be pinned")
	}
}

func TestSimulatorReset(t *testing.T) {
	s := newSim(t, 4)
	fresh := s.State()

	_ = s.Params().SetNodeCount(9)
	for i := 0; i < 30; i++ {
		_ = s.Advance(16)
	}
	s.TogglePinNearest(s.Snapshot().Nodes[5].Pos)

	if err := s.Reset(); err != nil {
		t.Fatal(err)
	}
	f := s.Snapshot()
	if len(f.Nodes) != 4 || s.Params().Snapshot().NodeCount != 4 {
		t.Errorf("expected 4 nodes after reset, got %d", len(f.Nodes))
	}
	if len(f.Pinned) != 1 || f.Pinned[0] != 0 {
		t.Errorf("expected pinned [0], got %v", f.Pinned)
	}
	if f.Time != 0 || f.Index != 0 {
		t.Errorf("expected clock reset, got %f/%d", f.Time, f.Index)
	}
	got := s.State()
	for i := range fresh {
		if got[i] != fresh[i] {
			t.Fatalf("reset state differs at %d", i)
		}
	}
}

func TestSimulatorConcurrentAccess(t *testing.T) {
	s := newSim(t, 6)
	p := s.Snapshot().Nodes[4].Pos

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_ = s.Advance(16)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			s.PointerDown(p, false)
			s.PointerMove(p.Add(dynamo.V(1, 1)))
			s.PointerUp(p)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_ = s.Params().SetNodeCount(3 + i%5)
			_ = s.Snapshot()
		}
	}()
	wg.Wait()

	for _, n := range s.Snapshot().Nodes {
		if !n.Pos.IsFinite() || !n.Vel.IsFinite() {
			t.Fatalf("non-finite node %+v", n)
		}
	}
}

func TestSweep(t *testing.T) {
	soft := params.Defaults()
	soft.SpringConstant = 2
	stiff := params.Defaults()
	stiff.SpringConstant = 8
	stiff.NodeCount = 4

	sw := NewSweep(physics.DefaultLayout(), []Variant{{"soft", soft}, {"stiff", stiff}}).
		WithMetrics(func() []Metric { return []Metric{&testMetric{}} })
	results, err := sw.Run(context.Background(), Config{Frames: 20, Dt: 16, RecordEvery: 20})
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[1].Params.SpringConstant != 8 {
		t.Errorf("results out of order: %+v", results[1].Params)
	}
	if got := results[1].States[0].Nodes(); got != 4 {
		t.Errorf("expected 4 nodes in stiff variant, got %d", got)
	}
	if results[0].Metrics["test"] != 20 {
		t.Errorf("expected 20 observations, got %f", results[0].Metrics["test"])
	}
}

func TestSweep_InvalidVariant(t *testing.T) {
	bad := params.Defaults()
	bad.Friction = 3
	_, err := NewSweep(physics.DefaultLayout(), []Variant{{"bad", bad}}).Run(context.Background(), DefaultConfig())
	if !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}

func TestStatePool(t *testing.T) {
	pool := NewStatePool()
	s := pool.Get()
	*s = append(*s, 1, 2, 3)
	pool.Put(s)

	s2 := pool.Get()
	if len(*s2) != 0 {
		t.Errorf("expected empty buffer, got %v", *s2)
	}
}
