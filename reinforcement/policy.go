package reinforcement

import (
	"math"

	"gridmdp/grid_world"
	"gridmdp/models"
)

// ExpectedValue returns the expected value of attempting d from c.
func ExpectedValue(
	c grid_world.Coord,
	d grid_world.Direction,
	values models.ValueMap,
	model *TransitionModel,
) (q float64) {
	for _, outcome := range model.Successors(c, d).All() {
		q += outcome.Probability * values[outcome.Coord]
	}
	return
}

// BestAction returns the direction maximizing expected value from c, and that
// value. Directions whose intended step hits a wall are never returned, and ties
// go to the earliest of Directions. A cell walled in on all four sides returns
// Stop with its own value.
func BestAction(
	c grid_world.Coord,
	values models.ValueMap,
	model *TransitionModel,
) (grid_world.Direction, float64) {
	best, bestVal := grid_world.Stop, math.Inf(-1)
	for _, d := range grid_world.Directions {
		if model.Blocked(c, d) {
			continue
		}
		if q := ExpectedValue(c, d, values, model); q > bestVal {
			best, bestVal = d, q
		}
	}
	if best == grid_world.Stop {
		return grid_world.Stop, values[c]
	}
	return best, bestVal
}

// Policy returns the best action of every traversable cell.
func Policy(values models.ValueMap, model *TransitionModel) map[grid_world.Coord]grid_world.Direction {
	policy := make(map[grid_world.Coord]grid_world.Direction, len(values))
	for _, c := range model.Grid().Traversable() {
		policy[c], _ = BestAction(c, values, model)
	}
	return policy
}
