package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/springchain/internal/dynamo"
	"github.com/san-kum/springchain/internal/params"
	"github.com/san-kum/springchain/internal/sim"
)

func testResult() *sim.Result {
	p := params.Defaults()
	p.NodeCount = 2
	return &sim.Result{
		States: []dynamo.State{
			{400, 40, 0, 0, 400, 160, 0, 0},
			{400, 40, 0, 0, 400, 159.5, 0, -0.5},
		},
		Times:       []float64{0, 16},
		Metrics:     map[string]float64{"kinetic": 1.5},
		Params:      p,
		FramesTaken: 1,
		SettledAt:   -1,
		Errors:      []error{errors.New("boom")},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg := sim.Config{Frames: 1, Dt: 16}
	runID, err := st.Save("default", cfg, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Preset != "default" {
		t.Errorf("expected preset 'default', got '%s'", meta.Preset)
	}
	if meta.Nodes != 2 {
		t.Errorf("expected 2 nodes, got %d", meta.Nodes)
	}
	if meta.Params.SpringConstant != params.DefaultSpringConstant {
		t.Errorf("expected k %f, got %f", params.DefaultSpringConstant, meta.Params.SpringConstant)
	}
	if meta.Metrics["kinetic"] != 1.5 {
		t.Errorf("expected kinetic 1.5, got %f", meta.Metrics["kinetic"])
	}
	if len(meta.Errors) != 1 || meta.Errors[0] != "boom" {
		t.Errorf("expected recorded error, got %v", meta.Errors)
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		t.Fatalf("load states failed: %v", err)
	}
	if len(states) != 2 || len(times) != 2 {
		t.Fatalf("expected 2 states and times, got %d/%d", len(states), len(times))
	}
	if states[1].Position(1) != dynamo.V(400, 159.5) {
		t.Errorf("expected (400,159.5), got %v", states[1].Position(1))
	}
	if states[1].Velocity(1) != dynamo.V(0, -0.5) {
		t.Errorf("expected (0,-0.5), got %v", states[1].Velocity(1))
	}
	if times[1] != 16 {
		t.Errorf("expected time 16, got %f", times[1])
	}
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.Save("a", sim.Config{Frames: 1, Dt: 16}, testResult()); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Save("b", sim.Config{Frames: 1, Dt: 16}, testResult()); err != nil {
		t.Fatal(err)
	}
	// stray entries are skipped
	if err := os.Mkdir(filepath.Join(dir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreList_MissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
}

func TestStoreLoad_NotFound(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); err == nil {
		t.Error("expected error for missing run")
	}
}
