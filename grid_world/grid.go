// Package grid_world describes the static board: its bounds, its walls and the
// cells an agent can occupy. A Grid never changes after construction; the
// things that move around on it (food, capsules, ghosts) live in models.
package grid_world

import (
	"errors"
	"fmt"

	"github.com/zyedidia/generic/mapset"
)

var (
	// ErrEmptyGrid is returned when no walls are given, since the bounds are inferred from them.
	ErrEmptyGrid = errors.New("empty wall set: cannot infer grid bounds")
	// ErrNegativeCoord is returned for walls outside the first quadrant.
	ErrNegativeCoord = errors.New("negative wall coordinate")
)

// Grid is the immutable board for an episode. Every coordinate in
// [0, maxX] x [0, maxY] is either a wall or traversable.
type Grid struct {
	maxX, maxY  int
	walls       mapset.Set[Coord]
	traversable []Coord
}

// NewGrid builds a grid from its wall coordinates. The bounds are the largest
// wall coordinates seen, so a layout's enclosing walls define the board.
func NewGrid(walls []Coord) (*Grid, error) {
	if len(walls) == 0 {
		return nil, ErrEmptyGrid
	}

	grid := &Grid{walls: mapset.New[Coord]()}
	for _, wall := range walls {
		if wall.X < 0 || wall.Y < 0 {
			return nil, fmt.Errorf("%w: %v", ErrNegativeCoord, wall)
		}
		if wall.X > grid.maxX {
			grid.maxX = wall.X
		}
		if wall.Y > grid.maxY {
			grid.maxY = wall.Y
		}
		grid.walls.Put(wall)
	}

	for _, c := range grid.AllCells() {
		if !grid.walls.Has(c) {
			grid.traversable = append(grid.traversable, c)
		}
	}
	return grid, nil
}

// Width is the number of columns.
func (g *Grid) Width() int { return g.maxX + 1 }

// Height is the number of rows.
func (g *Grid) Height() int { return g.maxY + 1 }

// MaxX returns the largest column index.
func (g *Grid) MaxX() int { return g.maxX }

// MaxY returns the largest row index.
func (g *Grid) MaxY() int { return g.maxY }

// InBounds reports whether c lies within the board's rectangle.
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X <= g.maxX && c.Y >= 0 && c.Y <= g.maxY
}

// IsWall reports whether c is a wall. Coordinates off the board count as walls,
// since they are equally impassable.
func (g *Grid) IsWall(c Coord) bool {
	return !g.InBounds(c) || g.walls.Has(c)
}

// IsTraversable is the complement of IsWall.
func (g *Grid) IsTraversable(c Coord) bool {
	return !g.IsWall(c)
}

// AllCells returns every coordinate of the rectangle, x-major then y.
func (g *Grid) AllCells() []Coord {
	cells := make([]Coord, 0, g.Width()*g.Height())
	for x := 0; x <= g.maxX; x++ {
		for y := 0; y <= g.maxY; y++ {
			cells = append(cells, Coord{X: x, Y: y})
		}
	}
	return cells
}

// Traversable returns the non-wall cells in AllCells order.
// The returned slice is shared; callers must not modify it.
func (g *Grid) Traversable() []Coord {
	return g.traversable
}

// Walls returns the wall coordinates in AllCells order.
func (g *Grid) Walls() (walls []Coord) {
	for _, c := range g.AllCells() {
		if g.walls.Has(c) {
			walls = append(walls, c)
		}
	}
	return
}

// Neighbor returns the raw step from c in direction d, which may be a wall or off the board.
func (g *Grid) Neighbor(c Coord, d Direction) Coord {
	return c.Add(d.Offset())
}

// Move returns the cell reached by stepping from c in direction d. Steps into a
// wall or off the board leave the agent at c.
func (g *Grid) Move(c Coord, d Direction) Coord {
	next := g.Neighbor(c, d)
	if g.IsWall(next) {
		return c
	}
	return next
}
