package optim

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/springchain/internal/dynamo"
	"github.com/san-kum/springchain/internal/params"
	"github.com/san-kum/springchain/internal/physics"
	"github.com/san-kum/springchain/internal/sim"
)

// SettleFrame scores a run by the frame it came to rest at; runs that
// never settle score +Inf.
const SettleFrame = "settle_frame"

// GridSearch tries every combination of parameter values and keeps the one
// with the lowest score. All combinations run in parallel as one sweep.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	metrics    func() []sim.Metric
}

func NewGridSearch(names []string, ranges [][]float64) (*GridSearch, error) {
	if len(names) == 0 || len(names) != len(ranges) {
		return nil, fmt.Errorf("grid needs one range per parameter, got %d names and %d ranges: %w",
			len(names), len(ranges), dynamo.ErrParameterBounds)
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("parameter %s has no values: %w", names[i], dynamo.ErrParameterBounds)
		}
	}
	return &GridSearch{paramNames: names, ranges: ranges}, nil
}

// WithMetrics sets the per-run metrics the score can be read from.
func (g *GridSearch) WithMetrics(factory func() []sim.Metric) *GridSearch {
	g.metrics = factory
	return g
}

type Candidate struct {
	Point  map[string]float64
	Score  float64
	Result *sim.Result
}

// Variants expands the grid on top of base. Points the parameter store
// rejects are returned as errors.
func (g *GridSearch) Variants(base params.Params) ([]sim.Variant, []map[string]float64, error) {
	var variants []sim.Variant
	var points []map[string]float64

	var walk func(depth int, current map[string]float64) error
	walk = func(depth int, current map[string]float64) error {
		if depth == len(g.paramNames) {
			st, err := params.NewStore(base)
			if err != nil {
				return err
			}
			labels := make([]string, 0, len(g.paramNames))
			for _, name := range g.paramNames {
				if err := st.SetParam(name, current[name]); err != nil {
					return err
				}
				labels = append(labels, fmt.Sprintf("%s=%g", name, current[name]))
			}
			point := make(map[string]float64, len(current))
			for k, v := range current {
				point[k] = v
			}
			variants = append(variants, sim.Variant{Name: strings.Join(labels, ","), Params: st.Snapshot()})
			points = append(points, point)
			return nil
		}

		name := g.paramNames[depth]
		for _, val := range g.ranges[depth] {
			current[name] = val
			if err := walk(depth+1, current); err != nil {
				return err
			}
		}
		delete(current, name)
		return nil
	}

	if err := walk(0, make(map[string]float64)); err != nil {
		return nil, nil, err
	}
	return variants, points, nil
}

// Search runs the grid and returns the best candidate and all of them in
// grid order. metricName is a metric name or SettleFrame.
func (g *GridSearch) Search(
	ctx context.Context,
	l physics.Layout,
	base params.Params,
	cfg sim.Config,
	metricName string,
	opts ...sim.Option,
) (Candidate, []Candidate, error) {
	variants, points, err := g.Variants(base)
	if err != nil {
		return Candidate{}, nil, err
	}

	sweep := sim.NewSweep(l, variants, opts...)
	if g.metrics != nil {
		sweep = sweep.WithMetrics(g.metrics)
	}
	results, err := sweep.Run(ctx, cfg)
	if err != nil {
		return Candidate{}, nil, err
	}

	all := make([]Candidate, len(results))
	best := -1
	for i, res := range results {
		score, err := scoreOf(res, metricName)
		if err != nil {
			return Candidate{}, nil, err
		}
		all[i] = Candidate{Point: points[i], Score: score, Result: res}
		if !math.IsNaN(score) && (best < 0 || score < all[best].Score) {
			best = i
		}
	}
	if best < 0 {
		return Candidate{}, all, fmt.Errorf("no candidate produced a finite %s", metricName)
	}
	return all[best], all, nil
}

func scoreOf(res *sim.Result, metricName string) (float64, error) {
	if metricName == SettleFrame {
		if !res.Settled {
			return math.Inf(1), nil
		}
		return float64(res.SettledAt), nil
	}
	v, ok := res.Metrics[metricName]
	if !ok {
		return 0, fmt.Errorf("metric %q not recorded", metricName)
	}
	return v, nil
}
