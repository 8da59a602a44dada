package sim

import (
	"fmt"

	"github.com/san-kum/springchain/internal/dynamo"
	"github.com/san-kum/springchain/internal/interact"
	"github.com/san-kum/springchain/internal/params"
	"github.com/san-kum/springchain/internal/physics"
)

const (
	DefaultFrames      = 600
	DefaultDt          = 16.0
	DefaultSettleSpeed = 1e-3
)

// Metric accumulates a scalar over the frames of a run.
type Metric interface {
	Name() string
	Observe(c *physics.Chain, p params.Params, t float64)
	Value() float64
	Reset()
}

// Observer sees the flattened chain after every frame. The state is only
// valid for the duration of the call.
type Observer interface {
	OnFrame(x dynamo.State, t float64)
}

// Config drives a headless run. Dt is in milliseconds.
type Config struct {
	Frames int
	Dt     float64
	// SettleSpeed is the max node speed under which the chain counts as
	// settled. Zero disables the check.
	SettleSpeed float64
	// RecordEvery keeps one snapshot per this many frames; 0 keeps only
	// the starting state.
	RecordEvery int
	// StopWhenSettled ends the run at the first settled frame.
	StopWhenSettled bool
}

func DefaultConfig() Config {
	return Config{
		Frames:      DefaultFrames,
		Dt:          DefaultDt,
		SettleSpeed: DefaultSettleSpeed,
		RecordEvery: 1,
	}
}

func (c Config) validate() error {
	if c.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", c.Frames)
	}
	if !(c.Dt > 0) {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.RecordEvery < 0 {
		return fmt.Errorf("record interval must not be negative, got %d", c.RecordEvery)
	}
	return nil
}

type Result struct {
	States      []dynamo.State
	Times       []float64
	Metrics     map[string]float64
	Params      params.Params
	FramesTaken int
	Settled     bool
	SettledAt   int
	Errors      []error
}

// Frame is a read-only copy of everything a renderer needs.
type Frame struct {
	Nodes   []physics.Node
	Pinned  []int
	Dragged int
	Mode    interact.Mode
	Params  params.Params
	Time    float64
	Index   int
	Frozen  bool
}

// IsPinned reports whether node i was pinned when the frame was taken.
func (f Frame) IsPinned(i int) bool {
	for _, p := range f.Pinned {
		if p == i {
			return true
		}
	}
	return false
}
