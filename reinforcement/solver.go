// Package reinforcement computes a pacman agent's moves by value iteration over
// a grid-world MDP. Each decision rebuilds the reward map from the current
// entities, iterates the value function to a fixed point and reads the best
// action off it at the agent's cell.
package reinforcement

import (
	"errors"
	"fmt"

	"gridmdp/grid_world"
	"gridmdp/models"
)

// ErrAgentOffGrid is returned when the agent is not on a traversable cell.
var ErrAgentOffGrid = errors.New("agent is not on a traversable cell")

// Decision is the result of a single solve.
type Decision struct {
	Direction grid_world.Direction
	// Expected is the expected value of Direction at the agent's cell.
	Expected  float64
	Rewards   models.RewardMap
	Values    models.ValueMap
	Terminals []grid_world.Coord
	Stats     Stats
}

// Solver holds everything fixed for an episode: the grid, the config and the
// models built from them. It is not safe for concurrent use.
type Solver struct {
	grid     *grid_world.Grid
	cfg      SolverConfig
	model    *TransitionModel
	engine   *Engine
	opts     *options
	radius   int
	previous models.ValueMap
}

// NewSolver validates cfg and builds a solver over grid.
func NewSolver(grid *grid_world.Grid, cfg SolverConfig, opts ...Option) (*Solver, error) {
	if grid == nil {
		return nil, grid_world.ErrEmptyGrid
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := buildOptions(opts)
	if o.hazardFn == nil {
		o.hazardFn = ScaredHazardReward(cfg.HazardBaseReward, cfg.HazardTimerMax, cfg.HazardTimerScale)
	}
	if cfg.DiscountFactor == 1 {
		o.logger.Printf("WARN discount factor is 1: convergence is bounded only by maxSweeps (%d)\n", cfg.MaxSweeps)
	}

	model := NewTransitionModel(grid, cfg.DirectionSuccessProbability)
	return &Solver{
		grid:   grid,
		cfg:    cfg,
		model:  model,
		engine: NewEngine(model, cfg, opts...),
		opts:   o,
		radius: cfg.Radius(grid),
	}, nil
}

// Model returns the solver's transition model.
func (s *Solver) Model() *TransitionModel {
	return s.model
}

// Radius returns the proximity radius in use.
func (s *Solver) Radius() int {
	return s.radius
}

// Reset forgets the previous decision's values, e.g. between episodes.
func (s *Solver) Reset() {
	s.previous = nil
}

// Decide returns the direction the agent at agent should attempt given ents.
// The solver only reads ents.
func (s *Solver) Decide(ents models.Entities, agent grid_world.Coord) (*Decision, error) {
	if !s.grid.IsTraversable(agent) {
		return nil, fmt.Errorf("%w: %v", ErrAgentOffGrid, agent)
	}

	rewards := ComputeRewards(s.grid, ents, s.cfg, s.radius, s.opts.hazardFn)
	terminals := Terminals(s.grid, ents, s.radius, s.cfg.ProximityTerminal)

	var initial models.ValueMap
	if s.cfg.WarmStart {
		initial = s.previous
	}
	values, stats := s.engine.Iterate(rewards, terminals, initial)
	s.previous = values

	dir, expected := BestAction(agent, values, s.model)
	decision := &Decision{
		Direction: dir,
		Expected:  expected,
		Rewards:   rewards,
		Values:    values,
		Stats:     stats,
	}
	for _, c := range s.grid.Traversable() {
		if terminals.Has(c) {
			decision.Terminals = append(decision.Terminals, c)
		}
	}
	return decision, nil
}
