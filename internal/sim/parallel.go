package sim

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/springchain/internal/params"
	"github.com/san-kum/springchain/internal/physics"
)

// Variant is one parameter set of a sweep.
type Variant struct {
	Name   string
	Params params.Params
}

// Sweep runs one independent simulator per variant, in parallel, all from
// the same layout. Results come back in variant order.
type Sweep struct {
	layout   physics.Layout
	variants []Variant
	opts     []Option
	metrics  func() []Metric
}

func NewSweep(l physics.Layout, variants []Variant, opts ...Option) *Sweep {
	return &Sweep{layout: l, variants: variants, opts: opts}
}

// WithMetrics sets a factory for per-run metrics; metrics hold state, so
// each run gets fresh ones.
func (sw *Sweep) WithMetrics(factory func() []Metric) *Sweep {
	sw.metrics = factory
	return sw
}

func (sw *Sweep) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(sw.variants))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, v := range sw.variants {
		g.Go(func() error {
			store, err := params.NewStore(v.Params)
			if err != nil {
				return fmt.Errorf("variant %s: %w", v.Name, err)
			}
			l := sw.layout
			l.Count = v.Params.NodeCount

			s, err := New(l, store, sw.opts...)
			if err != nil {
				return fmt.Errorf("variant %s: %w", v.Name, err)
			}
			if sw.metrics != nil {
				for _, m := range sw.metrics() {
					s.AddMetric(m)
				}
			}

			res, err := s.Run(ctx, cfg)
			if err != nil {
				return fmt.Errorf("variant %s: %w", v.Name, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
