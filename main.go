/*
Gridmdp plays pacman boards with an agent that re-solves the board as a Markov
decision process before every move: the food, capsules and ghosts are rewards,
moves are stochastic, and value iteration over the grid picks the direction
with the highest expected utility. Episodes print to the console, can be
plotted into a static report, and can be watched live in the browser.
*/

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"gridmdp/charts"
	"gridmdp/grid_world"
	"gridmdp/harness"
	"gridmdp/models"
	"gridmdp/reinforcement"
	"gridmdp/server"

	"github.com/logrusorgru/aurora"
	"golang.org/x/sync/errgroup"
)

var (
	dbg        = flag.Bool("debug", false, "debug mode: the small board and per-step console output")
	configPath = flag.String("config", "./config.yaml", "path to the solver config")
	host       = flag.String("host", "", "The host ip")
	port       = flag.String("port", "8080", "The host port")
	serve      = flag.Bool("serve", false, "serve live views of the episodes")
	episodes   = flag.Int("episodes", 1, "number of episodes to play")
	seed       = flag.Int64("seed", 1, "seed of the first episode; later episodes increment it")
	report     = flag.String("report", "", "write an html report of the last episode to this path")
	dumpConfig = flag.Bool("dump-config", false, "print the loaded solver config and exit")
)

func newLogger(prefix aurora.Value) *log.Logger {
	return log.New(os.Stdout, prefix.String()+" ", log.LstdFlags)
}

func selectLayout(debug bool) []string {
	if debug {
		return grid_world.SmallLayout
	}
	return grid_world.MediumLayout
}

// episodeLog holds what the report needs from the last episode played.
type episodeLog struct {
	last    models.Snapshot
	sweeps  []int
	results []harness.Result
}

// runEpisodes plays n episodes on layout, each bounded by the config's episode
// deadline. Every decision is passed to publish, if not nil.
func runEpisodes(
	ctx context.Context,
	cfg *reinforcement.Config,
	layout *grid_world.Layout,
	n int,
	firstSeed int64,
	publish harness.PublishFunc,
	solverLog, harnessLog *log.Logger,
) (*episodeLog, error) {
	solver, err := reinforcement.NewSolver(layout.Grid, cfg.Def, reinforcement.WithLogger(solverLog))
	if err != nil {
		return nil, err
	}
	gameCfg := harness.GameConfig{
		DirectionSuccessProbability: cfg.Def.DirectionSuccessProbability,
		ScaredTime:                  cfg.Episode.ScaredTime,
		MaxSteps:                    cfg.Episode.MaxSteps,
		Logger:                      harnessLog,
	}

	elog := &episodeLog{}
	for i := 0; i < n && ctx.Err() == nil; i++ {
		episodeCtx, cancel, err := cfg.WithEpisodeDeadline(ctx)
		if err != nil {
			return nil, err
		}

		elog.sweeps = elog.sweeps[:0]
		result, err := harness.Run(
			episodeCtx,
			harness.NewGame(layout, gameCfg, firstSeed+int64(i)),
			solver,
			func(snap models.Snapshot) {
				elog.last = snap
				elog.sweeps = append(elog.sweeps, snap.Sweeps)
				if publish != nil {
					publish(snap)
				}
			})
		cancel()
		if err != nil {
			return nil, err
		}
		if result.Unconverged > 0 {
			harnessLog.Printf("episode %s: %d decisions hit the sweep cap\n", result.Episode, result.Unconverged)
		}
		elog.results = append(elog.results, result)
	}
	return elog, nil
}

func writeReport(path string, elog *episodeLog) (err error) {
	var f *os.File
	if f, err = os.Create(path); err != nil {
		return
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	err = charts.Render(f, elog.last, elog.sweeps)
	return
}

func runApp() (err error) {
	var cfg *reinforcement.Config
	if cfg, err = reinforcement.FromYaml(*configPath); err != nil {
		return
	}
	if *dumpConfig {
		var out []byte
		if out, err = cfg.Def.ToYaml(); err == nil {
			fmt.Print(string(out))
		}
		return
	}

	appCtx, appCancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer appCancel()

	solverLog := newLogger(aurora.Cyan("[SOLVER]"))
	harnessLog := newLogger(aurora.Green("[HARNESS]"))
	serverLog := newLogger(aurora.Magenta("[SERVER]"))

	var layout *grid_world.Layout
	if layout, err = grid_world.FromLayout(selectLayout(*dbg)); err != nil {
		return
	}

	publish := func(snap models.Snapshot) {
		if *dbg {
			fmt.Printf("step %d: %v -> %v\n", snap.Step, snap.Agent, snap.Action)
			grid_world.ShowValues(os.Stdout, snap.Grid, snap.Values, snap.Entities.Marks(snap.Agent))
		}
	}

	group, groupCtx := errgroup.WithContext(appCtx)
	if *serve {
		snapshots := make(chan models.Snapshot, 1)
		initial := models.Snapshot{
			Grid:     layout.Grid,
			Entities: models.NewEntities(layout.Food, layout.Capsules, nil),
			Agent:    layout.Agent,
			Values:   models.ValueMap{},
		}

		var srv *server.Server
		if srv, err = server.NewServer(groupCtx, *host+":"+*port, initial, snapshots, serverLog); err != nil {
			return
		}
		group.Go(func() error {
			return srv.Serve(groupCtx)
		})

		console := publish
		publish = func(snap models.Snapshot) {
			console(snap)
			// Views only need the latest snapshot, so drop it if they lag.
			select {
			case snapshots <- snap:
			default:
			}
		}
	}

	group.Go(func() error {
		elog, runErr := runEpisodes(groupCtx, cfg, layout, *episodes, *seed, publish, solverLog, harnessLog)
		if runErr != nil {
			return runErr
		}
		for _, result := range elog.results {
			harnessLog.Printf("%s: %s, %d steps, score %d, truncated %t\n",
				result.Episode, result.Status, result.Steps, result.Score, result.Truncated)
		}
		if *report != "" && len(elog.results) > 0 {
			if runErr = writeReport(*report, elog); runErr != nil {
				return fmt.Errorf("report: %w", runErr)
			}
			harnessLog.Println("wrote report to", *report)
		}
		return nil
	})

	if err = group.Wait(); errors.Is(err, context.Canceled) {
		err = nil
	}
	return
}

func main() {
	flag.Parse()
	if err := runApp(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
