package reinforcement

import (
	"bytes"
	"io"
	"log"
	"testing"

	"gridmdp/grid_world"
	"gridmdp/models"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/zyedidia/generic/mapset"
)

var quiet = log.New(io.Discard, "", 0)

// solveLayout builds the layout's rewards and terminals and iterates them.
func solveLayout(rows []string, cfg SolverConfig, opts ...Option) (*grid_world.Layout, *TransitionModel, models.ValueMap, Stats) {
	layout, err := grid_world.FromLayout(rows)
	if err != nil {
		panic(err)
	}
	hazards := []models.HazardState{}
	for _, g := range layout.Ghosts {
		hazards = append(hazards, models.HazardState{Pos: g})
	}
	ents := models.NewEntities(layout.Food, layout.Capsules, hazards)
	hazardFn := ScaredHazardReward(cfg.HazardBaseReward, cfg.HazardTimerMax, cfg.HazardTimerScale)
	rewards := ComputeRewards(layout.Grid, ents, cfg, cfg.Radius(layout.Grid), hazardFn)
	terminals := Terminals(layout.Grid, ents, cfg.Radius(layout.Grid), cfg.ProximityTerminal)

	model := NewTransitionModel(layout.Grid, cfg.DirectionSuccessProbability)
	values, stats := NewEngine(model, cfg, append([]Option{WithLogger(quiet)}, opts...)...).Iterate(rewards, terminals, nil)
	return layout, model, values, stats
}

func TestIterate(t *testing.T) {
	Convey("When iterating the value function", t, func() {
		cfg := DefaultSolverConfig()
		cfg.Epsilon = 1e-12

		Convey("With no discount and zero rewards every open cell settles at the empty reward", func() {
			grid := openGrid()
			rewards := models.RewardMap{}
			for _, c := range grid.Traversable() {
				rewards[c] = 0
			}
			cfg.DiscountFactor = 0
			model := NewTransitionModel(grid, cfg.DirectionSuccessProbability)

			cfg.MaxSweeps = 1
			values, stats := NewEngine(model, cfg, WithLogger(quiet)).Iterate(rewards, mapset.New[grid_world.Coord](), nil)
			So(stats.Sweeps, ShouldEqual, 1)
			for _, c := range grid.Traversable() {
				So(values[c], ShouldEqual, cfg.EmptyReward)
			}

			cfg.MaxSweeps = 10
			_, stats = NewEngine(model, cfg, WithLogger(quiet)).Iterate(rewards, mapset.New[grid_world.Coord](), nil)
			So(stats.Converged, ShouldBeTrue)
			So(stats.Sweeps, ShouldEqual, 2)
		})

		Convey("Terminal cells keep their reward", func() {
			layout, _, values, stats := solveLayout(grid_world.SmallLayout, cfg)
			So(stats.Converged, ShouldBeTrue)
			So(values[grid_world.Coord{X: 3, Y: 3}], ShouldEqual, cfg.FoodReward)
			So(values[grid_world.Coord{X: 5, Y: 5}], ShouldEqual, cfg.CapsuleReward)
			So(values[layout.Ghosts[0]], ShouldEqual, cfg.HazardBaseReward)
			// food beside the ghost is inside its ring
			So(values[grid_world.Coord{X: 4, Y: 1}], ShouldEqual, cfg.HazardBaseReward/2)
			So(len(values), ShouldEqual, len(layout.Grid.Traversable()))
		})

		Convey("A converged map is a fixed point", func() {
			layout, model, values, _ := solveLayout(grid_world.SmallLayout, cfg)
			ents := models.NewEntities(layout.Food, layout.Capsules, []models.HazardState{{Pos: layout.Ghosts[0]}})
			hazardFn := ScaredHazardReward(cfg.HazardBaseReward, cfg.HazardTimerMax, cfg.HazardTimerScale)
			rewards := ComputeRewards(layout.Grid, ents, cfg, 1, hazardFn)
			terminals := Terminals(layout.Grid, ents, 1, true)

			again, stats := NewEngine(model, cfg, WithLogger(quiet)).Iterate(rewards, terminals, values)
			So(stats.Sweeps, ShouldEqual, 1)
			So(stats.Converged, ShouldBeTrue)
			for c, v := range values {
				So(again[c], ShouldAlmostEqual, v, 1e-10)
			}
		})

		Convey("Residuals never increase and the sweep count is bounded", func() {
			for _, gamma := range []float64{0.5, 0.9, 0.99} {
				cfg.DiscountFactor = gamma
				_, _, _, stats := solveLayout(grid_world.MediumLayout, cfg)
				So(stats.Sweeps, ShouldBeLessThanOrEqualTo, cfg.MaxSweeps)
				So(len(stats.Residuals), ShouldEqual, stats.Sweeps)
				for i := 1; i < len(stats.Residuals); i++ {
					So(stats.Residuals[i], ShouldBeLessThanOrEqualTo, stats.Residuals[i-1]+1e-12)
				}
			}
		})

		Convey("Values rise toward the food in an open interior", func() {
			_, _, values, _ := solveLayout([]string{
				"%%%%%",
				"%  .%",
				"%   %",
				"%P  %",
				"%%%%%",
			}, cfg)
			So(values[grid_world.Coord{X: 1, Y: 1}], ShouldBeLessThan, values[grid_world.Coord{X: 2, Y: 2}])
			So(values[grid_world.Coord{X: 2, Y: 2}], ShouldBeLessThan, values[grid_world.Coord{X: 2, Y: 3}])
			So(values[grid_world.Coord{X: 2, Y: 3}], ShouldBeLessThan, values[grid_world.Coord{X: 3, Y: 3}])
		})

		Convey("Parallel sweeps match sequential ones", func() {
			_, _, sequential, seqStats := solveLayout(grid_world.MediumLayout, cfg)
			cfg.Workers = 4
			_, _, parallel, parStats := solveLayout(grid_world.MediumLayout, cfg)
			So(parStats.Sweeps, ShouldEqual, seqStats.Sweeps)
			for c, v := range sequential {
				So(parallel[c], ShouldEqual, v)
			}
		})

		Convey("Hitting the sweep cap is reported, not fatal", func() {
			buf := &bytes.Buffer{}
			cfg.DiscountFactor = 1
			cfg.MaxSweeps = 3
			_, _, values, stats := solveLayout(grid_world.SmallLayout, cfg, WithLogger(log.New(buf, "", 0)))
			So(stats.Converged, ShouldBeFalse)
			So(stats.Sweeps, ShouldEqual, 3)
			So(len(values), ShouldBeGreaterThan, 0)
			So(buf.String(), ShouldContainSubstring, "sweep cap")
		})

		Convey("The sweep hook sees every sweep", func() {
			calls := 0
			_, _, _, stats := solveLayout(grid_world.SmallLayout, cfg, WithSweepFunc(func(sweep int, residual float64) {
				calls++
				So(sweep, ShouldEqual, calls)
			}))
			So(calls, ShouldEqual, stats.Sweeps)
		})
	})
}
