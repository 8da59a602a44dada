package metrics

import (
	"github.com/san-kum/springchain/internal/dynamo"
	"github.com/san-kum/springchain/internal/params"
	"github.com/san-kum/springchain/internal/physics"
	"github.com/san-kum/springchain/internal/sim"
)

// Stability is the fraction of frames in which no spring deviates from its
// rest vector by more than threshold times the rest length.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(c *physics.Chain, p params.Params, _ float64) {
	s.samples++
	limit := s.threshold * p.RestLength
	rest := dynamo.V(0, p.RestLength)
	for i := 1; i < c.Len(); i++ {
		d := c.Node(i).Pos.Sub(c.Node(i - 1).Pos).Sub(rest)
		if d.Len() > limit {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// Defaults returns the metrics every run records.
func Defaults() []sim.Metric {
	return []sim.Metric{NewKinetic(), NewEnergyDrop(), NewPeakSpeed(), NewStability(1.0)}
}
