package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/springchain/internal/dynamo"
	"github.com/san-kum/springchain/internal/params"
	"github.com/san-kum/springchain/internal/physics"
)

func newChain(t *testing.T, n int) *physics.Chain {
	t.Helper()
	l := physics.DefaultLayout()
	l.Count = n
	c, err := physics.NewChain(l)
	if err != nil {
		t.Fatalf("new chain failed: %v", err)
	}
	return c
}

func TestKinetic(t *testing.T) {
	c := newChain(t, 2)
	_ = c.SetVelocity(1, dynamo.V(3, 4))
	m := NewKinetic()

	m.Observe(c, params.Defaults(), 0)
	expected := 0.5 * physics.DefaultMass * 25
	if math.Abs(m.Value()-expected) > 1e-12 {
		t.Errorf("expected %f, got %f", expected, m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected 0 after reset, got %f", m.Value())
	}
}

func TestEnergyDrop(t *testing.T) {
	c := newChain(t, 5)
	p := params.Defaults()
	in := physics.NewIntegrator()
	m := NewEnergyDrop()

	for i := 0; i < 3000; i++ {
		_ = in.Advance(c, p, 16)
		m.Observe(c, p, float64(i)*16)
	}
	if m.Value() == 0 {
		t.Error("expected friction to change total energy")
	}
}

func TestPeakSpeed(t *testing.T) {
	c := newChain(t, 3)
	m := NewPeakSpeed()

	_ = c.SetVelocity(2, dynamo.V(0, 5))
	m.Observe(c, params.Defaults(), 0)
	_ = c.SetVelocity(2, dynamo.V(0, 1))
	m.Observe(c, params.Defaults(), 16)

	if m.Value() != 5 {
		t.Errorf("expected peak 5, got %f", m.Value())
	}
}

func TestStability(t *testing.T) {
	c := newChain(t, 3)
	p := params.Defaults()
	m := NewStability(1.0)

	m.Observe(c, p, 0)
	if m.Value() != 1.0 {
		t.Errorf("gap of %f is within threshold, got %f", physics.DefaultGap, m.Value())
	}

	_ = c.Translate(2, dynamo.V(0, 500))
	m.Observe(c, p, 16)
	if m.Value() != 0.5 {
		t.Errorf("expected 0.5, got %f", m.Value())
	}
}

func TestDefaults(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Defaults() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %s", m.Name())
		}
		seen[m.Name()] = true
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 metrics, got %d", len(seen))
	}
}
