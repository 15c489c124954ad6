// cell_views contains views derived from the Cell view-model.
package cell_views

import (
	"math"

	"gridmdp/grid_world"
	"gridmdp/models"
)

// Cell is a single board cell reduced to what the views draw, oriented in the
// svg coordinate system such that cells[0][0] is the top left cell as printed in
// the console. As a rule of thumb, Cell fields should be immediately usable as
// view parameters.
type Cell struct {
	X, Y  int
	Value float64
	// PolicyArrowRotation is in degrees clockwise from an upward arrow.
	PolicyArrowRotation int
	// PolicyArrowScale is zero where there is no action to show.
	PolicyArrowScale int
	Fill             string
	Mark             string
}

// Convert transforms a snapshot into cells indexed [x][y], with y flipped for svg.
// Walls take the lowest value on the board so the value surface dips at them.
func Convert(snap models.Snapshot) (cells [][]Cell) {
	grid := snap.Grid
	cells = make([][]Cell, grid.Width())
	for x := range cells {
		cells[x] = make([]Cell, grid.Height())
	}

	floor := math.Inf(1)
	for _, v := range snap.Values {
		floor = math.Min(floor, v)
	}
	if math.IsInf(floor, 1) {
		floor = 0
	}

	marks := snap.Entities.Marks(snap.Agent)
	for _, c := range grid.AllCells() {
		cell := Cell{
			X:     c.X,
			Y:     grid.MaxY() - c.Y,
			Value: floor,
			Fill:  getFill(grid, c, marks),
		}
		if mark, ok := marks[c]; ok {
			cell.Mark = string(mark)
		}
		if grid.IsTraversable(c) {
			cell.Value = snap.Values[c]
			if dir, ok := snap.Policy[c]; ok && dir != grid_world.Stop {
				cell.PolicyArrowRotation = getDegrees(dir)
				cell.PolicyArrowScale = 1
			}
		}
		cells[c.X][cell.Y] = cell
	}
	return
}

// getDegrees converts a direction into the rotation passed to svg's rotate()
// for an upward arrow rune.
func getDegrees(dir grid_world.Direction) int {
	switch dir {
	case grid_world.East:
		return 90
	case grid_world.South:
		return 180
	case grid_world.West:
		return 270
	}
	return 0
}

func getFill(grid *grid_world.Grid, c grid_world.Coord, marks map[grid_world.Coord]rune) string {
	if grid.IsWall(c) {
		return "dimgray"
	}
	switch marks[c] {
	case grid_world.AGENT:
		return "gold"
	case grid_world.GHOST:
		return "salmon"
	case grid_world.FOOD:
		return "lightyellow"
	case grid_world.CAPSULE:
		return "lightblue"
	}
	return "white"
}
