package reinforcement

import (
	"testing"

	"gridmdp/grid_world"
	"gridmdp/models"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBestAction(t *testing.T) {
	Convey("When choosing an action", t, func() {
		cfg := DefaultSolverConfig()
		cfg.Epsilon = 1e-12

		Convey("A cell walled on three sides takes the open direction", func() {
			layout, model, values, _ := solveLayout([]string{
				"%%%%%",
				"%P .%",
				"%%%%%",
			}, cfg)
			dir, expected := BestAction(layout.Agent, values, model)
			So(dir, ShouldEqual, grid_world.East)
			So(expected, ShouldAlmostEqual, ExpectedValue(layout.Agent, grid_world.East, values, model))

			Convey("Even when staying put looks better", func() {
				rigged := values.Clone()
				rigged[layout.Agent] = 10
				rigged[grid_world.Coord{X: 2, Y: 1}] = -10
				dir, _ := BestAction(layout.Agent, rigged, model)
				So(dir, ShouldEqual, grid_world.East)
			})
		})

		Convey("A fully enclosed cell stops and reports its own value", func() {
			grid, err := grid_world.NewGrid([]grid_world.Coord{
				{X: 0, Y: 1}, {X: 2, Y: 1}, {X: 1, Y: 0}, {X: 1, Y: 2}, {X: 2, Y: 2},
			})
			So(err, ShouldBeNil)
			model := NewTransitionModel(grid, cfg.DirectionSuccessProbability)
			cell := grid_world.Coord{X: 1, Y: 1}
			dir, value := BestAction(cell, models.ValueMap{cell: 0.75}, model)
			So(dir, ShouldEqual, grid_world.Stop)
			So(value, ShouldEqual, 0.75)
		})

		Convey("Ties go to the first direction in evaluation order", func() {
			grid := openGrid()
			model := NewTransitionModel(grid, cfg.DirectionSuccessProbability)
			values := models.ValueMap{}
			for _, c := range grid.Traversable() {
				values[c] = 0
			}
			dir, _ := BestAction(grid_world.Coord{X: 1, Y: 1}, values, model)
			So(dir, ShouldEqual, grid_world.North)
			// North is blocked along the top row
			dir, _ = BestAction(grid_world.Coord{X: 1, Y: 3}, values, model)
			So(dir, ShouldEqual, grid_world.South)
		})

		Convey("The agent heads for the food in an open interior", func() {
			layout, model, values, _ := solveLayout([]string{
				"%%%%%",
				"%  .%",
				"%   %",
				"%P  %",
				"%%%%%",
			}, cfg)
			dir, _ := BestAction(layout.Agent, values, model)
			So(dir, ShouldBeIn, []grid_world.Direction{grid_world.North, grid_world.East})
		})

		Convey("The policy never points into a wall", func() {
			layout, model, values, _ := solveLayout(grid_world.MediumLayout, cfg)
			policy := Policy(values, model)
			So(len(policy), ShouldEqual, len(layout.Grid.Traversable()))
			for c, d := range policy {
				if d != grid_world.Stop {
					So(model.Blocked(c, d), ShouldBeFalse)
				}
			}
		})
	})
}
