package grid_world

import (
	"fmt"
	"io"

	"github.com/logrusorgru/aurora"
)

// Returns reversed indices of a slice, e.g. for ranging over rows top-down.
func Rev(length int) []int {
	indices := make([]int, length)
	for i := 0; i < length; i++ {
		indices[i] = length - i - 1
	}
	return indices
}

// ShowGrid prints the board for visual reference, top row first.
func ShowGrid(w io.Writer, grid *Grid, marks map[Coord]rune) {
	for _, y := range Rev(grid.Height()) {
		for x := 0; x < grid.Width(); x++ {
			c := Coord{X: x, Y: y}
			if grid.IsWall(c) {
				fmt.Fprintf(w, "%c ", WALL)
			} else if mark, ok := marks[c]; ok {
				fmt.Fprintf(w, "%c ", mark)
			} else {
				fmt.Fprintf(w, "%c ", EMPTY)
			}
		}
		fmt.Fprintln(w)
	}
}

// ShowValues prints the value of every traversable cell. Cells carrying a mark
// (ghost, food, agent...) print the mark instead, so the fixed cells stand out
// from the swept ones.
func ShowValues(w io.Writer, grid *Grid, values map[Coord]float64, marks map[Coord]rune) {
	for _, y := range Rev(grid.Height()) {
		for x := 0; x < grid.Width(); x++ {
			c := Coord{X: x, Y: y}
			switch mark, marked := marks[c]; {
			case grid.IsWall(c):
				fmt.Fprint(w, aurora.Gray(8, "[###]"))
			case marked:
				fmt.Fprint(w, colorMark(mark, fmt.Sprintf("  %c  ", mark)))
			default:
				fmt.Fprint(w, colorValue(values[c], fmt.Sprintf("%5.2f", values[c])))
			}
		}
		fmt.Fprintln(w)
	}
}

// ShowPolicy prints the chosen direction of every traversable cell.
func ShowPolicy(w io.Writer, grid *Grid, policy map[Coord]Direction) {
	for _, y := range Rev(grid.Height()) {
		fmt.Fprint(w, " ")
		for x := 0; x < grid.Width(); x++ {
			c := Coord{X: x, Y: y}
			if grid.IsWall(c) {
				fmt.Fprint(w, "- ")
				continue
			}
			dir, ok := policy[c]
			if !ok {
				dir = Stop
			}
			fmt.Fprintf(w, "%c ", dir.Arrow())
		}
		fmt.Fprintln(w)
	}
}

func colorMark(mark rune, s string) aurora.Value {
	switch mark {
	case GHOST:
		return aurora.Red(s)
	case FOOD, CAPSULE:
		return aurora.Yellow(s)
	case AGENT:
		return aurora.Green(s)
	}
	return aurora.White(s)
}

func colorValue(v float64, s string) aurora.Value {
	if v < 0 {
		return aurora.Magenta(s)
	}
	return aurora.Blue(s)
}
