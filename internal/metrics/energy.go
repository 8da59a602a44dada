package metrics

import (
	"math"

	"github.com/san-kum/springchain/internal/params"
	"github.com/san-kum/springchain/internal/physics"
)

// Kinetic reports the mean kinetic energy over the observed frames.
type Kinetic struct {
	name    string
	samples int
	total   float64
}

func NewKinetic() *Kinetic {
	return &Kinetic{name: "kinetic"}
}

func (k *Kinetic) Name() string { return k.name }

func (k *Kinetic) Observe(c *physics.Chain, _ params.Params, _ float64) {
	k.total += c.KineticEnergy()
	k.samples++
}

func (k *Kinetic) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

func (k *Kinetic) Reset() {
	k.total = 0
	k.samples = 0
}

// EnergyDrop is the relative loss of total energy between the first and
// the latest observed frame. Friction makes it grow towards the settled
// value.
type EnergyDrop struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	samples       int
}

func NewEnergyDrop() *EnergyDrop {
	return &EnergyDrop{name: "energy_drop"}
}

func (e *EnergyDrop) Name() string { return e.name }

func (e *EnergyDrop) Observe(c *physics.Chain, p params.Params, _ float64) {
	energy := c.Energy(p)
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.currentEnergy = energy
	e.samples++
}

func (e *EnergyDrop) Value() float64 {
	if e.samples == 0 || e.initialEnergy == 0 {
		return 0
	}
	return (e.initialEnergy - e.currentEnergy) / math.Abs(e.initialEnergy)
}

func (e *EnergyDrop) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.samples = 0
}

// PeakSpeed is the largest node speed seen.
type PeakSpeed struct {
	name string
	peak float64
}

func NewPeakSpeed() *PeakSpeed {
	return &PeakSpeed{name: "peak_speed"}
}

func (s *PeakSpeed) Name() string { return s.name }

func (s *PeakSpeed) Observe(c *physics.Chain, _ params.Params, _ float64) {
	s.peak = math.Max(s.peak, c.MaxSpeed())
}

func (s *PeakSpeed) Value() float64 { return s.peak }

func (s *PeakSpeed) Reset() { s.peak = 0 }
