package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/san-kum/springchain/internal/dynamo"
	"github.com/san-kum/springchain/internal/interact"
	"github.com/san-kum/springchain/internal/params"
	"github.com/san-kum/springchain/internal/physics"
)

// Simulator owns one chain. Frame ticks, pointer events, resets and reads
// all go through one mutex, so callers on different goroutines never see
// a half-updated chain.
type Simulator struct {
	mu sync.Mutex

	chain *physics.Chain
	integ *physics.Integrator
	ctrl  *interact.Controller
	store *params.Store
	log   *slog.Logger

	metrics   []Metric
	observers []Observer
	pool      *StatePool

	interaction interact.Options
	lastTick    time.Time
	t           float64
	frame       int
	frozen      bool
}

type Option func(*Simulator)

func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) { s.log = l }
}

// WithIntegrator copies the integrator settings; every simulator keeps its
// own scratch buffers, so one value can seed a whole sweep.
func WithIntegrator(in *physics.Integrator) Option {
	return func(s *Simulator) { s.integ = &physics.Integrator{FPS: in.FPS, MaxStep: in.MaxStep} }
}

func WithInteraction(opts interact.Options) Option {
	return func(s *Simulator) { s.interaction = opts }
}

// New builds a simulator for a chain laid out by l. The store's node count
// is set to l.Count.
func New(l physics.Layout, store *params.Store, opts ...Option) (*Simulator, error) {
	chain, err := physics.NewChain(l)
	if err != nil {
		return nil, err
	}
	if err := store.SetNodeCount(l.Count); err != nil {
		return nil, err
	}
	s := &Simulator{
		chain:       chain,
		integ:       physics.NewIntegrator(),
		store:       store,
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:     make([]Metric, 0),
		observers:   make([]Observer, 0),
		pool:        NewStatePool(),
		interaction: interact.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ctrl = interact.New(chain, s.interaction)
	return s, nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Params is the live parameter store read at every frame.
func (s *Simulator) Params() *params.Store { return s.store }

// Advance runs one frame of dt milliseconds.
func (s *Simulator) Advance(dt float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.advance(dt)
	return err
}

func (s *Simulator) advance(dt float64) (params.Params, error) {
	p := s.store.Snapshot()
	if n := s.chain.Len(); p.NodeCount != n {
		if err := s.chain.Resize(p.NodeCount); err != nil {
			return p, err
		}
		s.log.Debug("chain resized", "from", n, "to", p.NodeCount)
	}

	if err := s.integ.Advance(s.chain, p, dt); err != nil {
		if !s.frozen {
			s.log.Warn("chain frozen", "frame", s.frame, "err", err)
		}
		s.frozen = true
		return p, &dynamo.SimulationError{Frame: s.frame, Time: s.t, Wrapped: err}
	}
	if s.frozen {
		s.log.Info("chain thawed", "frame", s.frame)
	}
	s.frozen = false
	s.t += s.integ.ClampDt(dt)
	s.frame++
	return p, nil
}

// Tick is the frame callback: it advances by the wall-clock time since the
// previous tick. The first tick only starts the clock.
func (s *Simulator) Tick(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dt := 0.0
	if !s.lastTick.IsZero() {
		dt = float64(now.Sub(s.lastTick)) / float64(time.Millisecond)
	}
	s.lastTick = now
	_, err := s.advance(dt)
	return err
}

func (s *Simulator) PointerDown(p dynamo.Vec, pin bool) (interact.Action, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, i := s.ctrl.PointerDown(p, pin)
	if a != interact.None {
		s.log.Debug("pointer down", "action", a, "node", i)
	}
	return a, i
}

func (s *Simulator) PointerMove(p dynamo.Vec) (interact.Action, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.PointerMove(p)
}

func (s *Simulator) PointerUp(p dynamo.Vec) (interact.Action, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, i := s.ctrl.PointerUp(p)
	if a != interact.None {
		s.log.Debug("pointer up", "action", a, "node", i)
	}
	return a, i
}

// TogglePinNearest toggles the pin on the node nearest p, honouring the
// anchor rule.
func (s *Simulator) TogglePinNearest(p dynamo.Vec) (interact.Action, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctrl.Mode() == interact.Dragging {
		return interact.None, -1
	}
	return s.ctrl.PointerDown(p, true)
}

// Reset rebuilds the chain from its layout and restores the node count.
func (s *Simulator) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chain.Reset()
	s.frozen = false
	s.lastTick = time.Time{}
	s.t = 0
	s.frame = 0
	if err := s.store.SetNodeCount(s.chain.Len()); err != nil {
		return err
	}
	s.log.Info("chain reset", "nodes", s.chain.Len())
	return nil
}

// Snapshot copies the current chain for rendering or inspection.
func (s *Simulator) Snapshot() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.chain.Dragged()
	if !ok {
		d = -1
	}
	return Frame{
		Nodes:   s.chain.Nodes(),
		Pinned:  s.chain.Pinned(),
		Dragged: d,
		Mode:    s.ctrl.Mode(),
		Params:  s.store.Snapshot(),
		Time:    s.t,
		Index:   s.frame,
		Frozen:  s.frozen,
	}
}

// State returns the flattened chain.
func (s *Simulator) State() dynamo.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chain.State()
}

// Run advances cfg.Frames frames of cfg.Dt milliseconds each, feeding
// metrics and observers, and records snapshots.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	every := cfg.RecordEvery
	capacity := 1
	if every > 0 {
		capacity += cfg.Frames / every
	}
	result := &Result{
		States:    make([]dynamo.State, 0, capacity),
		Times:     make([]float64, 0, capacity),
		Metrics:   make(map[string]float64),
		Params:    s.store.Snapshot(),
		Errors:    make([]error, 0),
		SettledAt: -1,
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result.States = append(result.States, s.chain.State())
	result.Times = append(result.Times, s.t)

	for i := 0; i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			s.finish(result)
			return result, ctx.Err()
		default:
		}

		p, err := s.advance(cfg.Dt)
		if err != nil {
			var simErr *dynamo.SimulationError
			if errors.As(err, &simErr) {
				result.Errors = append(result.Errors, dynamo.SimError{Frame: simErr.Frame, Time: simErr.Time, Err: simErr.Wrapped})
			} else {
				result.Errors = append(result.Errors, fmt.Errorf("frame %d: %w", i, err))
			}
			break
		}
		result.FramesTaken++

		for _, m := range s.metrics {
			m.Observe(s.chain, p, s.t)
		}
		if len(s.observers) > 0 {
			buf := s.pool.Get()
			*buf = s.chain.AppendState(*buf)
			for _, obs := range s.observers {
				obs.OnFrame(*buf, s.t)
			}
			s.pool.Put(buf)
		}

		if every > 0 && (i+1)%every == 0 {
			result.States = append(result.States, s.chain.State())
			result.Times = append(result.Times, s.t)
		}

		if cfg.SettleSpeed > 0 && !result.Settled && s.chain.MaxSpeed() < cfg.SettleSpeed {
			result.Settled = true
			result.SettledAt = i
			if cfg.StopWhenSettled {
				break
			}
		}
	}

	s.finish(result)
	return result, nil
}

func (s *Simulator) finish(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}
