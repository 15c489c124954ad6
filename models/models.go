// models holds the data passed between the solver, the harness that drives it,
// and the views that display it. None of these types own behavior beyond
// copying and lookup; the solver treats all of them as read-only inputs.
package models

import (
	"gridmdp/grid_world"

	"github.com/zyedidia/generic/mapset"
)

// HazardState is a ghost's position and how long it remains scared.
// A zero timer means the ghost is dangerous.
type HazardState struct {
	Pos   grid_world.Coord
	Timer int
}

// Scared reports whether the hazard is currently edible.
func (h HazardState) Scared() bool {
	return h.Timer > 0
}

// Entities are the dynamic positions for a single decision step.
type Entities struct {
	Food     mapset.Set[grid_world.Coord]
	Capsules mapset.Set[grid_world.Coord]
	Hazards  []HazardState
}

// NewEntities builds an Entities from coordinate slices.
func NewEntities(food, capsules []grid_world.Coord, hazards []HazardState) Entities {
	ents := Entities{
		Food:     mapset.New[grid_world.Coord](),
		Capsules: mapset.New[grid_world.Coord](),
		Hazards:  append([]HazardState(nil), hazards...),
	}
	for _, c := range food {
		ents.Food.Put(c)
	}
	for _, c := range capsules {
		ents.Capsules.Put(c)
	}
	return ents
}

// HasFood reports whether c holds food. The zero Entities holds nothing.
func (e Entities) HasFood(c grid_world.Coord) bool {
	return e.Food.Size() > 0 && e.Food.Has(c)
}

// HasCapsule reports whether c holds a capsule.
func (e Entities) HasCapsule(c grid_world.Coord) bool {
	return e.Capsules.Size() > 0 && e.Capsules.Has(c)
}

// HazardsAt returns the hazards occupying c.
func (e Entities) HazardsAt(c grid_world.Coord) (hazards []HazardState) {
	for _, h := range e.Hazards {
		if h.Pos == c {
			hazards = append(hazards, h)
		}
	}
	return
}

// Marks returns the console glyph of each occupied cell, agent last so it wins.
func (e Entities) Marks(agent grid_world.Coord) map[grid_world.Coord]rune {
	marks := map[grid_world.Coord]rune{}
	if e.Food.Size() > 0 {
		e.Food.Each(func(c grid_world.Coord) { marks[c] = grid_world.FOOD })
	}
	if e.Capsules.Size() > 0 {
		e.Capsules.Each(func(c grid_world.Coord) { marks[c] = grid_world.CAPSULE })
	}
	for _, h := range e.Hazards {
		marks[h.Pos] = grid_world.GHOST
	}
	marks[agent] = grid_world.AGENT
	return marks
}

// RewardMap is the immediate reward of every traversable cell. Walls are absent.
type RewardMap map[grid_world.Coord]float64

// ValueMap is the utility of every traversable cell.
type ValueMap map[grid_world.Coord]float64

// Clone returns a copy of the map.
func (vm ValueMap) Clone() ValueMap {
	clone := make(ValueMap, len(vm))
	for c, v := range vm {
		clone[c] = v
	}
	return clone
}

// Snapshot is everything the views need to draw one decision.
type Snapshot struct {
	Episode   string
	Step      int
	Score     int
	Grid      *grid_world.Grid
	Entities  Entities
	Agent     grid_world.Coord
	Action    grid_world.Direction
	Values    ValueMap
	Policy    map[grid_world.Coord]grid_world.Direction
	Sweeps    int
	Residuals []float64
	Converged bool
}
