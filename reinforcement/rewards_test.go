package reinforcement

import (
	"testing"

	"gridmdp/grid_world"
	"gridmdp/models"

	. "github.com/smartystreets/goconvey/convey"
)

// openGrid is a 4x4 board whose only wall, at (3,3), fixes its bounds.
func openGrid() *grid_world.Grid {
	grid, err := grid_world.NewGrid([]grid_world.Coord{{X: 3, Y: 3}})
	if err != nil {
		panic(err)
	}
	return grid
}

func TestScaredHazardReward(t *testing.T) {
	Convey("When valuing a hazard by its timer", t, func() {
		fn := ScaredHazardReward(-8, 40, 2.5)

		Convey("A dangerous hazard takes the base reward", func() {
			So(fn(models.HazardState{Timer: 0}), ShouldEqual, -8.0)
		})

		Convey("A scared hazard falls from attractive toward dangerous as its timer runs out", func() {
			So(fn(models.HazardState{Timer: 40}), ShouldAlmostEqual, 8.0)
			So(fn(models.HazardState{Timer: 20}), ShouldAlmostEqual, 0.0)
			So(fn(models.HazardState{Timer: 1}), ShouldAlmostEqual, -7.6)
			for timer := 40; timer > 1; timer-- {
				So(fn(models.HazardState{Timer: timer}), ShouldBeGreaterThan, fn(models.HazardState{Timer: timer - 1}))
			}
		})
	})
}

func TestComputeRewards(t *testing.T) {
	Convey("When computing the reward map", t, func() {
		grid := openGrid()
		cfg := DefaultSolverConfig()
		hazardFn := ScaredHazardReward(cfg.HazardBaseReward, cfg.HazardTimerMax, cfg.HazardTimerScale)

		Convey("With a dangerous hazard at (1,1) and radius 1", func() {
			hazard := grid_world.Coord{X: 1, Y: 1}
			ents := models.NewEntities(nil, nil, []models.HazardState{{Pos: hazard, Timer: 0}})
			rewards := ComputeRewards(grid, ents, cfg, 1, hazardFn)

			Convey("The hazard cell takes the hazard reward", func() {
				So(rewards[hazard], ShouldEqual, -8.0)
			})

			Convey("All eight surrounding cells take half of it", func() {
				ring := 0
				for _, c := range grid.Traversable() {
					if c != hazard && c.Chebyshev(hazard) == 1 {
						So(rewards[c], ShouldEqual, -4.0)
						ring++
					}
				}
				So(ring, ShouldEqual, 8)
			})

			Convey("Cells outside the ring take the empty reward and walls are absent", func() {
				So(rewards[grid_world.Coord{X: 3, Y: 0}], ShouldEqual, cfg.EmptyReward)
				So(rewards[grid_world.Coord{X: 0, Y: 3}], ShouldEqual, cfg.EmptyReward)
				_, ok := rewards[grid_world.Coord{X: 3, Y: 3}]
				So(ok, ShouldBeFalse)
				So(len(rewards), ShouldEqual, 15)
			})

			Convey("The terminals are the hazard and, when pinned, its ring", func() {
				So(Terminals(grid, ents, 1, true).Size(), ShouldEqual, 9)
				unpinned := Terminals(grid, ents, 1, false)
				So(unpinned.Size(), ShouldEqual, 1)
				So(unpinned.Has(hazard), ShouldBeTrue)
			})
		})

		Convey("With a radius of zero only the hazard cell is affected", func() {
			ents := models.NewEntities(nil, nil, []models.HazardState{{Pos: grid_world.Coord{X: 1, Y: 1}}})
			rewards := ComputeRewards(grid, ents, cfg, 0, hazardFn)
			So(rewards[grid_world.Coord{X: 1, Y: 2}], ShouldEqual, cfg.EmptyReward)
		})

		Convey("Each hazard is valued by its own timer", func() {
			ents := models.NewEntities(nil, nil, []models.HazardState{
				{Pos: grid_world.Coord{X: 0, Y: 0}, Timer: 0},
				{Pos: grid_world.Coord{X: 2, Y: 2}, Timer: 40},
			})
			rewards := ComputeRewards(grid, ents, cfg, 1, hazardFn)
			So(rewards[grid_world.Coord{X: 0, Y: 0}], ShouldEqual, -8.0)
			So(rewards[grid_world.Coord{X: 2, Y: 2}], ShouldAlmostEqual, 8.0)
			So(rewards[grid_world.Coord{X: 2, Y: 3}], ShouldAlmostEqual, 4.0)

			Convey("A cell in range of both takes the smaller half-reward", func() {
				So(rewards[grid_world.Coord{X: 1, Y: 1}], ShouldEqual, -4.0)
			})
		})

		Convey("Hazards sharing a cell yield the smallest reward", func() {
			c := grid_world.Coord{X: 2, Y: 1}
			ents := models.NewEntities(nil, nil, []models.HazardState{{Pos: c, Timer: 40}, {Pos: c, Timer: 0}})
			rewards := ComputeRewards(grid, ents, cfg, 0, hazardFn)
			So(rewards[c], ShouldEqual, -8.0)
		})

		Convey("Proximity outranks food, food outranks capsules", func() {
			cfg.CapsuleReward = 2
			ents := models.NewEntities(
				[]grid_world.Coord{{X: 3, Y: 0}, {X: 1, Y: 0}},
				[]grid_world.Coord{{X: 0, Y: 3}, {X: 3, Y: 0}},
				[]models.HazardState{{Pos: grid_world.Coord{X: 0, Y: 0}}},
			)
			rewards := ComputeRewards(grid, ents, cfg, 1, hazardFn)
			So(rewards[grid_world.Coord{X: 1, Y: 0}], ShouldEqual, -4.0)
			So(rewards[grid_world.Coord{X: 3, Y: 0}], ShouldEqual, cfg.FoodReward)
			So(rewards[grid_world.Coord{X: 0, Y: 3}], ShouldEqual, 2.0)

			terminals := Terminals(grid, ents, 1, false)
			So(terminals.Has(grid_world.Coord{X: 3, Y: 0}), ShouldBeTrue)
			So(terminals.Has(grid_world.Coord{X: 0, Y: 3}), ShouldBeTrue)
			So(terminals.Has(grid_world.Coord{X: 2, Y: 2}), ShouldBeFalse)
		})
	})
}
