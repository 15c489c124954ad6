package reinforcement

import (
	"gridmdp/grid_world"
	"gridmdp/models"

	"github.com/zyedidia/generic/mapset"
)

// HazardRewardFunc values a hazard from its own state.
type HazardRewardFunc func(models.HazardState) float64

// ScaredHazardReward returns base for a dangerous hazard. A scared hazard ramps
// linearly from (timerMax/2)/scale when freshly scared down to -(timerMax/2)/scale
// as its timer runs out, so the agent backs off before the hazard turns dangerous.
func ScaredHazardReward(base, timerMax, scale float64) HazardRewardFunc {
	return func(h models.HazardState) float64 {
		if h.Timer <= 0 {
			return base
		}
		return (float64(h.Timer) - timerMax/2) / scale
	}
}

// ComputeRewards assigns the immediate reward of every traversable cell. In
// priority order: hazard cells take the hazard's reward (the minimum if several
// share a cell), cells within radius of a hazard take half of it (the minimum
// over hazards in range), then food, then capsules, else emptyReward.
func ComputeRewards(
	grid *grid_world.Grid,
	ents models.Entities,
	cfg SolverConfig,
	radius int,
	hazardFn HazardRewardFunc,
) models.RewardMap {
	occupied := map[grid_world.Coord]float64{}
	proximity := map[grid_world.Coord]float64{}
	for _, h := range ents.Hazards {
		reward := hazardFn(h)
		if cur, ok := occupied[h.Pos]; !ok || reward < cur {
			occupied[h.Pos] = reward
		}
		for dx := -radius; dx <= radius; dx++ {
			for dy := -radius; dy <= radius; dy++ {
				c := h.Pos.Add(grid_world.Coord{X: dx, Y: dy})
				if c == h.Pos || grid.IsWall(c) {
					continue
				}
				if cur, ok := proximity[c]; !ok || reward/2 < cur {
					proximity[c] = reward / 2
				}
			}
		}
	}

	rewards := make(models.RewardMap, len(grid.Traversable()))
	for _, c := range grid.Traversable() {
		if r, ok := occupied[c]; ok {
			rewards[c] = r
		} else if r, ok := proximity[c]; ok {
			rewards[c] = r
		} else if ents.HasFood(c) {
			rewards[c] = cfg.FoodReward
		} else if ents.HasCapsule(c) {
			rewards[c] = cfg.CapsuleReward
		} else {
			rewards[c] = cfg.EmptyReward
		}
	}
	return rewards
}

// Terminals returns the cells whose values are pinned at their reward during
// iteration: food, capsules and hazards, plus the proximity ring when
// includeProximity is set. Walls are never swept and are not included.
func Terminals(
	grid *grid_world.Grid,
	ents models.Entities,
	radius int,
	includeProximity bool,
) mapset.Set[grid_world.Coord] {
	terminals := mapset.New[grid_world.Coord]()
	for _, c := range grid.Traversable() {
		if ents.HasFood(c) || ents.HasCapsule(c) {
			terminals.Put(c)
		}
	}
	for _, h := range ents.Hazards {
		if grid.IsTraversable(h.Pos) {
			terminals.Put(h.Pos)
		}
		if !includeProximity {
			continue
		}
		for _, c := range grid.Traversable() {
			if c.Chebyshev(h.Pos) <= radius {
				terminals.Put(c)
			}
		}
	}
	return terminals
}

