package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/springchain/internal/dynamo"
	"github.com/san-kum/springchain/internal/interact"
	"github.com/san-kum/springchain/internal/sim"
)

// Step actions.
const (
	ActionDown  = "down"
	ActionPin   = "pin"
	ActionMove  = "move"
	ActionUp    = "up"
	ActionSet   = "set"
	ActionReset = "reset"
)

// Scenario is a scripted interaction session: a fixed number of frames
// with pointer and parameter steps applied before given frames.
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Frames      int     `yaml:"frames"`
	Dt          float64 `yaml:"dt_ms"`
	Steps       []Step  `yaml:"steps"`
}

// Step is one scripted event. When Node is set the pointer goes to that
// node's current position offset by (X, Y); otherwise (X, Y) is absolute.
type Step struct {
	Frame  int     `yaml:"frame"`
	Action string  `yaml:"action"`
	Node   *int    `yaml:"node,omitempty"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Param  string  `yaml:"param,omitempty"`
	Value  float64 `yaml:"value,omitempty"`
}

// Outcome records what a step did. Err is set for rejected parameter
// writes; the run carries on.
type Outcome struct {
	Frame  int
	Action string
	Result interact.Action
	Node   int
	Err    error
}

type Report struct {
	Outcomes []Outcome
	Result   *sim.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if sc.Dt == 0 {
		sc.Dt = sim.DefaultDt
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	sort.SliceStable(sc.Steps, func(i, j int) bool { return sc.Steps[i].Frame < sc.Steps[j].Frame })
	return &sc, nil
}

func (sc *Scenario) Validate() error {
	var errs []error
	if sc.Frames < 1 {
		errs = append(errs, fmt.Errorf("frames %d: %w", sc.Frames, dynamo.ErrParameterBounds))
	}
	if !(sc.Dt >= 0) {
		errs = append(errs, fmt.Errorf("dt_ms %v: %w", sc.Dt, dynamo.ErrParameterBounds))
	}
	for i, st := range sc.Steps {
		if st.Frame < 0 || st.Frame >= sc.Frames {
			errs = append(errs, fmt.Errorf("step %d: frame %d outside [0,%d): %w", i+1, st.Frame, sc.Frames, dynamo.ErrParameterBounds))
		}
		switch st.Action {
		case ActionDown, ActionPin, ActionMove, ActionUp, ActionReset:
		case ActionSet:
			if st.Param == "" {
				errs = append(errs, fmt.Errorf("step %d: set needs a param", i+1))
			}
		default:
			errs = append(errs, fmt.Errorf("step %d: unknown action %q", i+1, st.Action))
		}
	}
	return errors.Join(errs...)
}

// Run plays the scenario against s, recording a state after every frame.
func Run(ctx context.Context, s *sim.Simulator, sc *Scenario, log *slog.Logger) (*Report, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	report := &Report{
		Outcomes: make([]Outcome, 0, len(sc.Steps)),
		Result: &sim.Result{
			States:    []dynamo.State{s.State()},
			Times:     []float64{s.Snapshot().Time},
			Metrics:   make(map[string]float64),
			Errors:    make([]error, 0),
			SettledAt: -1,
		},
	}
	res := report.Result

	next := 0
	for frame := 0; frame < sc.Frames; frame++ {
		if err := ctx.Err(); err != nil {
			res.Params = s.Params().Snapshot()
			return report, err
		}

		for next < len(sc.Steps) && sc.Steps[next].Frame == frame {
			o := apply(s, sc.Steps[next])
			if o.Err != nil {
				log.Warn("step rejected", "frame", frame, "action", o.Action, "err", o.Err)
			} else {
				log.Debug("step", "frame", frame, "action", o.Action, "result", o.Result, "node", o.Node)
			}
			report.Outcomes = append(report.Outcomes, o)
			next++
		}

		if err := s.Advance(sc.Dt); err != nil {
			res.Errors = append(res.Errors, err)
			break
		}
		res.FramesTaken++
		f := s.Snapshot()
		res.States = append(res.States, s.State())
		res.Times = append(res.Times, f.Time)
	}

	res.Params = s.Params().Snapshot()
	return report, nil
}

func apply(s *sim.Simulator, st Step) Outcome {
	o := Outcome{Frame: st.Frame, Action: st.Action, Node: -1}
	p := dynamo.V(st.X, st.Y)
	if st.Node != nil {
		f := s.Snapshot()
		if *st.Node < 0 || *st.Node >= len(f.Nodes) {
			o.Err = fmt.Errorf("node %d: %w", *st.Node, dynamo.ErrIndexOutOfRange)
			return o
		}
		p = f.Nodes[*st.Node].Pos.Add(p)
	}

	switch st.Action {
	case ActionDown:
		o.Result, o.Node = s.PointerDown(p, false)
	case ActionPin:
		o.Result, o.Node = s.PointerDown(p, true)
	case ActionMove:
		o.Result, o.Node = s.PointerMove(p)
	case ActionUp:
		o.Result, o.Node = s.PointerUp(p)
	case ActionSet:
		o.Err = s.Params().SetParam(st.Param, st.Value)
	case ActionReset:
		o.Err = s.Reset()
	}
	return o
}
