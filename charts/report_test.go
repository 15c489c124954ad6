package charts

import (
	"bytes"
	"testing"

	"gridmdp/grid_world"
	"gridmdp/models"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRender(t *testing.T) {
	Convey("When rendering a report", t, func() {
		layout, err := grid_world.FromLayout(grid_world.SmallLayout)
		So(err, ShouldBeNil)

		values := models.ValueMap{}
		for i, c := range layout.Grid.Traversable() {
			values[c] = float64(i) / 10
		}
		snap := models.Snapshot{
			Episode:   "test-episode",
			Grid:      layout.Grid,
			Agent:     layout.Agent,
			Action:    grid_world.North,
			Values:    values,
			Residuals: []float64{1, 0.5, 0.25},
		}

		Convey("The page holds all three charts", func() {
			buf := &bytes.Buffer{}
			So(Render(buf, snap, []int{12, 9, 4}), ShouldBeNil)
			html := buf.String()
			So(html, ShouldContainSubstring, "Value function")
			So(html, ShouldContainSubstring, "Residual per sweep")
			So(html, ShouldContainSubstring, "Sweeps per decision")
		})

		Convey("A snapshot without a grid is an error", func() {
			So(Render(&bytes.Buffer{}, models.Snapshot{}, nil), ShouldNotBeNil)
		})
	})
}
