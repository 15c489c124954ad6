package reinforcement

import (
	"gridmdp/grid_world"
)

// Outcome is one possible result of attempting a move.
type Outcome struct {
	Coord       grid_world.Coord
	Probability float64
}

// Outcomes are the three possible results of attempting a move: the intended
// step, or a drift to either side.
type Outcomes struct {
	Primary Outcome
	Left    Outcome
	Right   Outcome
}

// All returns the outcomes as a slice, primary first.
func (o Outcomes) All() []Outcome {
	return []Outcome{o.Primary, o.Left, o.Right}
}

// Total sums the outcome probabilities.
func (o Outcomes) Total() float64 {
	return o.Primary.Probability + o.Left.Probability + o.Right.Probability
}

// TransitionModel is the stochastic movement model over a fixed grid.
type TransitionModel struct {
	grid *grid_world.Grid
	p    float64
}

// NewTransitionModel builds a model in which the intended direction succeeds
// with probability p and each perpendicular is taken with probability (1-p)/2.
func NewTransitionModel(grid *grid_world.Grid, p float64) *TransitionModel {
	return &TransitionModel{grid: grid, p: p}
}

// Grid returns the model's grid.
func (tm *TransitionModel) Grid() *grid_world.Grid {
	return tm.grid
}

// Successors returns where attempting d from c may lead. Steps into a wall or
// off the board collapse onto c.
func (tm *TransitionModel) Successors(c grid_world.Coord, d grid_world.Direction) Outcomes {
	drift := (1 - tm.p) / 2
	return Outcomes{
		Primary: Outcome{Coord: tm.grid.Move(c, d), Probability: tm.p},
		Left:    Outcome{Coord: tm.grid.Move(c, d.Left()), Probability: drift},
		Right:   Outcome{Coord: tm.grid.Move(c, d.Right()), Probability: drift},
	}
}

// Blocked reports whether the intended step from c in direction d hits a wall.
func (tm *TransitionModel) Blocked(c grid_world.Coord, d grid_world.Direction) bool {
	return tm.grid.IsWall(tm.grid.Neighbor(c, d))
}
