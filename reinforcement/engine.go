package reinforcement

import (
	"log"
	"math"

	"gridmdp/atomic_float"
	"gridmdp/grid_world"
	"gridmdp/models"

	"github.com/zyedidia/generic/mapset"
	"golang.org/x/sync/errgroup"
)

// Stats describes how an iteration went.
type Stats struct {
	Sweeps int
	// Residual is the largest per-cell change of the final sweep.
	Residual  float64
	Residuals []float64
	// Converged is false when MaxSweeps was hit first; the values are still usable.
	Converged bool
}

// SweepFunc is called after every sweep, e.g. to report progress.
type SweepFunc func(sweep int, residual float64)

// Option configures an Engine or a Solver.
type Option func(*options)

type options struct {
	logger   *log.Logger
	hazardFn HazardRewardFunc
	onSweep  SweepFunc
}

// WithLogger sets the logger warnings are written to.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithHazardReward overrides the hazard reward function built from the config.
func WithHazardReward(fn HazardRewardFunc) Option {
	return func(o *options) { o.hazardFn = fn }
}

// WithSweepFunc sets a hook called after every sweep.
func WithSweepFunc(fn SweepFunc) Option {
	return func(o *options) { o.onSweep = fn }
}

func buildOptions(opts []Option) *options {
	o := &options{logger: log.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Engine runs synchronous value iteration over a fixed grid. The traversable
// cells are laid out once in a slice, along with the slot of each cell's three
// successors under each action, so a sweep is plain slice arithmetic.
type Engine struct {
	model *TransitionModel
	cfg   SolverConfig
	opts  *options
	cells []grid_world.Coord
	// succ[i][a] holds the primary, left and right successor slots of cell i under Directions[a].
	succ [][4][3]int
}

// NewEngine builds an engine for the model's grid.
func NewEngine(model *TransitionModel, cfg SolverConfig, opts ...Option) *Engine {
	cells := model.Grid().Traversable()
	index := make(map[grid_world.Coord]int, len(cells))
	for i, c := range cells {
		index[c] = i
	}

	succ := make([][4][3]int, len(cells))
	for i, c := range cells {
		for a, d := range grid_world.Directions {
			outcomes := model.Successors(c, d)
			succ[i][a] = [3]int{
				index[outcomes.Primary.Coord],
				index[outcomes.Left.Coord],
				index[outcomes.Right.Coord],
			}
		}
	}

	return &Engine{
		model: model,
		cfg:   cfg,
		opts:  buildOptions(opts),
		cells: cells,
		succ:  succ,
	}
}

// Iterate sweeps until no cell changes by more than Epsilon, or MaxSweeps is reached.
// Terminal cells keep their reward throughout. Other cells start from initial
// when present there, else from their reward.
func (eng *Engine) Iterate(
	rewards models.RewardMap,
	terminals mapset.Set[grid_world.Coord],
	initial models.ValueMap,
) (models.ValueMap, Stats) {
	cur := make([]float64, len(eng.cells))
	// live are the slots that get swept
	live := make([]int, 0, len(eng.cells))
	for i, c := range eng.cells {
		cur[i] = rewards[c]
		if terminals.Has(c) {
			continue
		}
		if v, ok := initial[c]; ok {
			cur[i] = v
		}
		live = append(live, i)
	}
	next := make([]float64, len(cur))
	copy(next, cur)

	stats := Stats{}
	for stats.Sweeps < eng.cfg.MaxSweeps {
		residual := eng.sweep(cur, next, live)
		cur, next = next, cur
		stats.Sweeps++
		stats.Residual = residual
		stats.Residuals = append(stats.Residuals, residual)
		if eng.opts.onSweep != nil {
			eng.opts.onSweep(stats.Sweeps, residual)
		}
		if residual <= eng.cfg.Epsilon {
			stats.Converged = true
			break
		}
	}

	if !stats.Converged {
		eng.opts.logger.Printf("WARN value iteration hit the sweep cap (%d) with residual %g\n", eng.cfg.MaxSweeps, stats.Residual)
	}

	values := make(models.ValueMap, len(eng.cells))
	for i, c := range eng.cells {
		values[c] = cur[i]
	}
	return values, stats
}

// sweep writes one Jacobi update of cur into next and returns the largest change.
// Only slots in live are written; the rest of next already equals cur.
func (eng *Engine) sweep(cur, next []float64, live []int) float64 {
	workers := eng.cfg.Workers
	if workers <= 1 || len(live) < 2*workers {
		return eng.sweepRange(cur, next, live)
	}

	residual := 0.0
	chunk := (len(live) + workers - 1) / workers
	// Each worker writes disjoint slots of next and reads only cur; Wait is the
	// barrier before the next sweep reads them.
	var g errgroup.Group
	for lo := 0; lo < len(live); lo += chunk {
		hi := lo + chunk
		if hi > len(live) {
			hi = len(live)
		}
		part := live[lo:hi]
		g.Go(func() error {
			atomic_float.AtomicMax(&residual, eng.sweepRange(cur, next, part))
			return nil
		})
	}
	_ = g.Wait()
	return atomic_float.AtomicRead(&residual)
}

func (eng *Engine) sweepRange(cur, next []float64, slots []int) (residual float64) {
	p := eng.model.p
	drift := (1 - p) / 2
	for _, i := range slots {
		best := math.Inf(-1)
		for _, s := range eng.succ[i] {
			q := p*cur[s[0]] + drift*cur[s[1]] + drift*cur[s[2]]
			if q > best {
				best = q
			}
		}
		next[i] = eng.cfg.EmptyReward + eng.cfg.DiscountFactor*best
		if delta := math.Abs(next[i] - cur[i]); delta > residual {
			residual = delta
		}
	}
	return
}
