package params

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/san-kum/springchain/internal/dynamo"
)

const (
	DefaultSpringConstant = 4.0
	DefaultRestLength     = 80.0
	DefaultGravity        = 9.8
	DefaultForceDivisor   = 10.0
	DefaultFriction       = 0.98
	DefaultNodeCount      = 10

	MaxNodeCount = 200
)

// Names accepted by Store.SetParam.
const (
	SpringConstant = "k"
	RestLength     = "rest"
	Gravity        = "gravity"
	ForceDivisor   = "divisor"
	Friction       = "friction"
	NodeCount      = "nodes"
)

// Params is one consistent reading of the tunable simulation scalars.
type Params struct {
	SpringConstant float64 `json:"spring_constant"`
	RestLength     float64 `json:"rest_length"`
	Gravity        float64 `json:"gravity"`
	ForceDivisor   float64 `json:"force_divisor"`
	Friction       float64 `json:"friction"`
	NodeCount      int     `json:"nodes"`
}

func Defaults() Params {
	return Params{
		SpringConstant: DefaultSpringConstant,
		RestLength:     DefaultRestLength,
		Gravity:        DefaultGravity,
		ForceDivisor:   DefaultForceDivisor,
		Friction:       DefaultFriction,
		NodeCount:      DefaultNodeCount,
	}
}

// Validate reports the first field that the integrator must never see.
func (p Params) Validate() error {
	if err := checkSpringConstant(p.SpringConstant); err != nil {
		return err
	}
	if err := checkRestLength(p.RestLength); err != nil {
		return err
	}
	if err := checkFinite(Gravity, p.Gravity); err != nil {
		return err
	}
	if err := checkForceDivisor(p.ForceDivisor); err != nil {
		return err
	}
	if err := checkFriction(p.Friction); err != nil {
		return err
	}
	return checkNodeCount(p.NodeCount)
}

// Store is the single mutation path for Params. Setters may run on any
// goroutine; a rejected write leaves the store unchanged.
type Store struct {
	mu sync.RWMutex
	p  Params
}

func NewStore(p Params) (*Store, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Store{p: p}, nil
}

// Snapshot returns the current values.
func (s *Store) Snapshot() Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.p
}

func (s *Store) SetSpringConstant(k float64) error {
	if err := checkSpringConstant(k); err != nil {
		return err
	}
	s.mu.Lock()
	s.p.SpringConstant = k
	s.mu.Unlock()
	return nil
}

func (s *Store) SetRestLength(l float64) error {
	if err := checkRestLength(l); err != nil {
		return err
	}
	s.mu.Lock()
	s.p.RestLength = l
	s.mu.Unlock()
	return nil
}

func (s *Store) SetGravity(g float64) error {
	if err := checkFinite(Gravity, g); err != nil {
		return err
	}
	s.mu.Lock()
	s.p.Gravity = g
	s.mu.Unlock()
	return nil
}

func (s *Store) SetForceDivisor(d float64) error {
	if err := checkForceDivisor(d); err != nil {
		return err
	}
	s.mu.Lock()
	s.p.ForceDivisor = d
	s.mu.Unlock()
	return nil
}

func (s *Store) SetFriction(f float64) error {
	if err := checkFriction(f); err != nil {
		return err
	}
	s.mu.Lock()
	s.p.Friction = f
	s.mu.Unlock()
	return nil
}

func (s *Store) SetNodeCount(n int) error {
	if err := checkNodeCount(n); err != nil {
		return err
	}
	s.mu.Lock()
	s.p.NodeCount = n
	s.mu.Unlock()
	return nil
}

// GetParams implements dynamo.Configurable
func (s *Store) GetParams() map[string]float64 {
	p := s.Snapshot()
	return map[string]float64{
		SpringConstant: p.SpringConstant,
		RestLength:     p.RestLength,
		Gravity:        p.Gravity,
		ForceDivisor:   p.ForceDivisor,
		Friction:       p.Friction,
		NodeCount:      float64(p.NodeCount),
	}
}

// SetParam implements dynamo.Configurable
func (s *Store) SetParam(name string, value float64) error {
	switch name {
	case SpringConstant:
		return s.SetSpringConstant(value)
	case RestLength:
		return s.SetRestLength(value)
	case Gravity:
		return s.SetGravity(value)
	case ForceDivisor:
		return s.SetForceDivisor(value)
	case Friction:
		return s.SetFriction(value)
	case NodeCount:
		if math.IsNaN(value) || math.IsInf(value, 0) || value != math.Trunc(value) {
			return fmt.Errorf("%s=%v: %w", name, value, dynamo.ErrParameterBounds)
		}
		return s.SetNodeCount(int(value))
	}
	return fmt.Errorf("%q: %w", name, dynamo.ErrUnknownParameter)
}

// Names lists the parameter names in a stable order.
func Names() []string {
	names := []string{SpringConstant, RestLength, Gravity, ForceDivisor, Friction, NodeCount}
	sort.Strings(names)
	return names
}

func checkFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s=%v: %w", name, v, dynamo.ErrParameterBounds)
	}
	return nil
}

func checkSpringConstant(k float64) error {
	if err := checkFinite(SpringConstant, k); err != nil {
		return err
	}
	if k <= 0 {
		return fmt.Errorf("%s=%v must be positive: %w", SpringConstant, k, dynamo.ErrParameterBounds)
	}
	return nil
}

func checkRestLength(l float64) error {
	if err := checkFinite(RestLength, l); err != nil {
		return err
	}
	if l <= 0 {
		return fmt.Errorf("%s=%v must be positive: %w", RestLength, l, dynamo.ErrParameterBounds)
	}
	return nil
}

func checkForceDivisor(d float64) error {
	if err := checkFinite(ForceDivisor, d); err != nil {
		return err
	}
	if d <= 0 {
		return fmt.Errorf("%s=%v must be positive: %w", ForceDivisor, d, dynamo.ErrParameterBounds)
	}
	return nil
}

func checkFriction(f float64) error {
	if err := checkFinite(Friction, f); err != nil {
		return err
	}
	if f < 0 || f > 1 {
		return fmt.Errorf("%s=%v outside [0,1]: %w", Friction, f, dynamo.ErrParameterBounds)
	}
	return nil
}

func checkNodeCount(n int) error {
	if n < 1 || n > MaxNodeCount {
		return fmt.Errorf("%s=%d outside [1,%d]: %w", NodeCount, n, MaxNodeCount, dynamo.ErrParameterBounds)
	}
	return nil
}
