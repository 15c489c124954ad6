package grid_world

import (
	"errors"
	"fmt"
)

const (
	// Layout cell types, as in the Berkeley pacman layout files.
	WALL    = '%'
	FOOD    = '.'
	CAPSULE = 'o'
	GHOST   = 'G'
	AGENT   = 'P'
	EMPTY   = ' '
)

// ErrBadLayout is returned for ragged or unparseable layouts.
var ErrBadLayout = errors.New("bad layout")

// The small debug board and a classic medium board.
var (
	SmallLayout []string = []string{
		"%%%%%%%",
		"%    o%",
		"% %%% %",
		"% %.  %",
		"% % %G%",
		"%P. . %",
		"%%%%%%%",
	}

	MediumLayout []string = []string{
		"%%%%%%%%%%%%%%%%%%%%",
		"%o...%........%....%",
		"%.%%.%.%%%%%%.%.%%.%",
		"%.%.......%........%",
		"%.%.%%.%%  %%.%%.%.%",
		"%......%G  G%......%",
		"%.%.%%.%%%%%%.%%.%.%",
		"%.%..........%.....%",
		"%.%%.%.%%%%%%.%.%%.%",
		"%....%...P....%...o%",
		"%%%%%%%%%%%%%%%%%%%%",
	}
)

// Layout is a parsed text board: the static grid plus the initial positions of
// the things that move or get eaten.
type Layout struct {
	Grid     *Grid
	Agent    Coord
	Food     []Coord
	Capsules []Coord
	Ghosts   []Coord
}

// FromLayout converts text rows into a Layout. The first row is the top of the
// board, so rows are flipped such that the bottom-left cell is (0,0). Unknown
// runes are treated as empty floor.
func FromLayout(rows []string) (*Layout, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrBadLayout)
	}

	width := len(rows[0])
	height := len(rows)
	layout := &Layout{}
	agentSeen := false
	var walls []Coord

	for row, line := range rows {
		if len(line) != width {
			return nil, fmt.Errorf("%w: row %d has width %d, expected %d", ErrBadLayout, row, len(line), width)
		}
		y := height - row - 1
		for x, cellType := range line {
			c := Coord{X: x, Y: y}
			switch cellType {
			case WALL:
				walls = append(walls, c)
			case FOOD:
				layout.Food = append(layout.Food, c)
			case CAPSULE:
				layout.Capsules = append(layout.Capsules, c)
			case GHOST:
				layout.Ghosts = append(layout.Ghosts, c)
			case AGENT:
				if agentSeen {
					return nil, fmt.Errorf("%w: more than one agent", ErrBadLayout)
				}
				layout.Agent = c
				agentSeen = true
			}
		}
	}

	if !agentSeen {
		return nil, fmt.Errorf("%w: no agent", ErrBadLayout)
	}

	grid, err := NewGrid(walls)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	layout.Grid = grid
	return layout, nil
}
