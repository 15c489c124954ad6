package grid_world

import "fmt"

// Coord is a (column, row) position on the board. Row 0 is the bottom row,
// so that +Y is North, the same orientation the console output is flipped to.
type Coord struct {
	X, Y int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add returns the coordinate displaced by the passed offset.
func (c Coord) Add(offset Coord) Coord {
	return Coord{X: c.X + offset.X, Y: c.Y + offset.Y}
}

// Chebyshev returns the box distance between two coordinates.
func (c Coord) Chebyshev(other Coord) int {
	dx, dy := absInt(c.X-other.X), absInt(c.Y-other.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// Direction is one of the four cardinal moves, or Stop.
type Direction int

const (
	North Direction = iota
	South
	East
	West
	Stop
)

// Directions is the fixed evaluation order of the cardinal moves. Anything that
// breaks ties between directions does so by this order.
var Directions = []Direction{North, South, East, West}

var (
	offsets = map[Direction]Coord{
		North: {X: 0, Y: 1},
		South: {X: 0, Y: -1},
		East:  {X: 1, Y: 0},
		West:  {X: -1, Y: 0},
		Stop:  {X: 0, Y: 0},
	}

	// Facing a direction, left is a counter-clockwise quarter turn.
	lefts = map[Direction]Direction{
		North: West,
		West:  South,
		South: East,
		East:  North,
		Stop:  Stop,
	}

	rights = map[Direction]Direction{
		North: East,
		East:  South,
		South: West,
		West:  North,
		Stop:  Stop,
	}

	names = map[Direction]string{
		North: "North",
		South: "South",
		East:  "East",
		West:  "West",
		Stop:  "Stop",
	}
)

// Offset returns the unit displacement of the direction.
func (d Direction) Offset() Coord {
	return offsets[d]
}

// Left returns the direction perpendicular to d, counter-clockwise.
func (d Direction) Left() Direction {
	return lefts[d]
}

// Right returns the direction perpendicular to d, clockwise.
func (d Direction) Right() Direction {
	return rights[d]
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	return d.Left().Left()
}

func (d Direction) String() string {
	if name, ok := names[d]; ok {
		return name
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Arrow returns a console rune for the direction.
func (d Direction) Arrow() rune {
	switch d {
	case North:
		return '^'
	case South:
		return 'v'
	case East:
		return '>'
	case West:
		return '<'
	}
	return '='
}

// ParseDirection is the inverse of String.
func ParseDirection(name string) (Direction, error) {
	for d, n := range names {
		if n == name {
			return d, nil
		}
	}
	return Stop, fmt.Errorf("unknown direction %q", name)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
