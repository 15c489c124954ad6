// Package harness simulates a small pacman game to drive the solver: it owns
// the moving entities, executes the agent's chosen moves stochastically and
// publishes a snapshot of every decision.
package harness

import (
	"math/rand"

	"gridmdp/grid_world"
)

// Legal returns the directions whose step from c does not hit a wall, in evaluation order.
func Legal(grid *grid_world.Grid, c grid_world.Coord) (legal []grid_world.Direction) {
	for _, d := range grid_world.Directions {
		if grid.IsTraversable(grid.Neighbor(c, d)) {
			legal = append(legal, d)
		}
	}
	return
}

// MakeMove executes an intended move: the intended direction with probability
// p, otherwise one of its perpendiculars with equal chance. An outcome that is
// not legal leaves the agent where it is.
func MakeMove(
	intended grid_world.Direction,
	legal []grid_world.Direction,
	p float64,
	rng *rand.Rand,
) grid_world.Direction {
	if intended == grid_world.Stop {
		return grid_world.Stop
	}

	actual := intended
	if r := rng.Float64(); r >= p {
		if r < p+(1-p)/2 {
			actual = intended.Left()
		} else {
			actual = intended.Right()
		}
	}

	for _, d := range legal {
		if d == actual {
			return actual
		}
	}
	return grid_world.Stop
}
