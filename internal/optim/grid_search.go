package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/san-kum/navcom/internal/config"
	"github.com/san-kum/navcom/internal/experiment"
)

var ErrNoCandidates = errors.New("optim: empty search grid")

// Apply writes one parameter set into a config.
type Apply func(cfg *config.Config, params map[string]float64) error

// GridSearch evaluates every combination of parameter values and keeps the
// one with the smallest metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Candidate is one evaluated parameter set.
type Candidate struct {
	Params map[string]float64
	Score  float64
}

// Combinations lists every parameter set of the grid in order.
func (g *GridSearch) Combinations() []map[string]float64 {
	if len(g.paramNames) == 0 || len(g.paramNames) != len(g.ranges) {
		return nil
	}
	var out []map[string]float64
	g.combine(0, map[string]float64{}, &out)
	return out
}

func (g *GridSearch) combine(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		*out = append(*out, current)
		return
	}
	for _, val := range g.ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[g.paramNames[depth]] = val
		g.combine(depth+1, next, out)
	}
}

// Search runs base with every combination applied, concurrently, and
// returns the best candidate by metricName followed by all candidates in
// grid order. Negative metric values (a never-settled run) and NaN rank last.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, apply Apply, metricName string, logger zerolog.Logger) (Candidate, []Candidate, error) {
	combos := g.Combinations()
	if len(combos) == 0 {
		return Candidate{}, nil, ErrNoCandidates
	}

	cfgs := make([]*config.Config, len(combos))
	for i, params := range combos {
		cfg := base.Clone()
		cfg.Name = fmt.Sprintf("%s#%d", base.Name, i)
		if err := apply(cfg, params); err != nil {
			return Candidate{}, nil, err
		}
		cfgs[i] = cfg
	}

	results, err := experiment.RunAll(ctx, cfgs, logger)
	if err != nil {
		return Candidate{}, nil, err
	}

	all := make([]Candidate, len(combos))
	best := -1
	for i, r := range results {
		score := r.Metrics[metricName]
		if score < 0 || math.IsNaN(score) || r.Stopped != nil {
			score = math.Inf(1)
		}
		all[i] = Candidate{Params: combos[i], Score: score}
		if best < 0 || score < all[best].Score {
			best = i
		}
	}
	return all[best], all, nil
}

// ApplyGains maps "kp", "ki" and "kd" onto both pitch and yaw gains.
func ApplyGains(cfg *config.Config, params map[string]float64) error {
	for name, v := range params {
		switch name {
		case "kp":
			cfg.Pitch.Kp, cfg.Yaw.Kp = v, v
		case "ki":
			cfg.Pitch.Ki, cfg.Yaw.Ki = v, v
		case "kd":
			cfg.Pitch.Kd, cfg.Yaw.Kd = v, v
		default:
			return fmt.Errorf("optim: unknown gain %q", name)
		}
	}
	return nil
}
