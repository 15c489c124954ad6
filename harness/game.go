package harness

import (
	"log"
	"math/rand"

	"gridmdp/grid_world"
	"gridmdp/models"

	"github.com/zyedidia/generic/mapset"
)

// Scoring, as in the classic pacman rules.
const (
	StepScore  = -1
	FoodScore  = 10
	GhostScore = 200
)

// Status is the state of a game.
type Status int

const (
	Running Status = iota
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case Won:
		return "won"
	case Lost:
		return "lost"
	}
	return "running"
}

// GameConfig holds the rules of a simulated game.
type GameConfig struct {
	// DirectionSuccessProbability is used to execute the agent's moves.
	DirectionSuccessProbability float64
	// ScaredTime is the number of steps ghosts stay scared after a capsule is eaten.
	ScaredTime int
	// MaxSteps bounds an episode run.
	MaxSteps int
	Logger   *log.Logger
}

// Game is a single pacman game on a fixed layout.
type Game struct {
	cfg      GameConfig
	grid     *grid_world.Grid
	rng      *rand.Rand
	agent    grid_world.Coord
	food     mapset.Set[grid_world.Coord]
	capsules mapset.Set[grid_world.Coord]
	ghosts   []models.HazardState
	spawns   []grid_world.Coord
	score    int
	steps    int
	status   Status
}

// NewGame starts a game from the layout's initial positions. Ghost movement
// and move execution draw from a generator seeded with seed.
func NewGame(layout *grid_world.Layout, cfg GameConfig, seed int64) *Game {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	game := &Game{
		cfg:      cfg,
		grid:     layout.Grid,
		rng:      rand.New(rand.NewSource(seed)),
		agent:    layout.Agent,
		food:     mapset.New[grid_world.Coord](),
		capsules: mapset.New[grid_world.Coord](),
		spawns:   append([]grid_world.Coord(nil), layout.Ghosts...),
	}
	for _, c := range layout.Food {
		game.food.Put(c)
	}
	for _, c := range layout.Capsules {
		game.capsules.Put(c)
	}
	for _, c := range layout.Ghosts {
		game.ghosts = append(game.ghosts, models.HazardState{Pos: c})
	}
	if game.food.Size() == 0 {
		game.status = Won
	}
	return game
}

func (g *Game) Grid() *grid_world.Grid  { return g.grid }
func (g *Game) Agent() grid_world.Coord { return g.agent }
func (g *Game) Score() int              { return g.score }
func (g *Game) Steps() int              { return g.steps }
func (g *Game) Status() Status          { return g.status }
func (g *Game) Config() GameConfig      { return g.cfg }

// Entities returns a copy of the current entities, so callers may keep it.
func (g *Game) Entities() models.Entities {
	ents := models.NewEntities(nil, nil, g.ghosts)
	g.food.Each(func(c grid_world.Coord) { ents.Food.Put(c) })
	g.capsules.Each(func(c grid_world.Coord) { ents.Capsules.Put(c) })
	return ents
}

// Step executes the agent's intended move and advances the ghosts, returning
// the direction actually taken. Steps after the game ends do nothing.
func (g *Game) Step(intended grid_world.Direction) grid_world.Direction {
	if g.status != Running {
		return grid_world.Stop
	}

	actual := MakeMove(intended, Legal(g.grid, g.agent), g.cfg.DirectionSuccessProbability, g.rng)
	g.agent = g.grid.Move(g.agent, actual)
	g.steps++
	g.score += StepScore
	g.eat()
	g.collide()

	if g.status == Running {
		g.moveGhosts()
		g.collide()
	}
	return actual
}

func (g *Game) eat() {
	if g.food.Has(g.agent) {
		g.food.Remove(g.agent)
		g.score += FoodScore
		if g.food.Size() == 0 {
			g.status = Won
		}
	}
	if g.capsules.Has(g.agent) {
		g.capsules.Remove(g.agent)
		for i := range g.ghosts {
			g.ghosts[i].Timer = g.cfg.ScaredTime
		}
	}
}

// collide resolves the agent sharing a cell with ghosts: scared ghosts are
// eaten and respawn, a dangerous one ends the game.
func (g *Game) collide() {
	for i, ghost := range g.ghosts {
		if ghost.Pos != g.agent {
			continue
		}
		if ghost.Scared() {
			g.score += GhostScore
			g.ghosts[i] = models.HazardState{Pos: g.spawns[i]}
			continue
		}
		g.status = Lost
		return
	}
}

// moveGhosts steps every ghost in a random legal direction and ticks its timer.
func (g *Game) moveGhosts() {
	for i := range g.ghosts {
		ghost := &g.ghosts[i]
		if legal := Legal(g.grid, ghost.Pos); len(legal) > 0 {
			ghost.Pos = g.grid.Move(ghost.Pos, legal[g.rng.Intn(len(legal))])
		}
		if ghost.Timer > 0 {
			ghost.Timer--
		}
	}
}
