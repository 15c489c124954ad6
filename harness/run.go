package harness

import (
	"context"
	"fmt"

	"gridmdp/models"
	"gridmdp/reinforcement"

	"github.com/google/uuid"
)

// Result summarizes an episode.
type Result struct {
	Episode string
	Steps   int
	Score   int
	Status  Status
	// Truncated is set when the episode ran out of steps or time before ending.
	Truncated bool
	// Unconverged counts decisions made with a best-effort value map.
	Unconverged int
}

// PublishFunc receives a snapshot of every decision.
type PublishFunc func(models.Snapshot)

// Run plays game to completion with solver choosing every move, or until
// MaxSteps or ctx expires.
func Run(
	ctx context.Context,
	game *Game,
	solver *reinforcement.Solver,
	publish PublishFunc,
) (Result, error) {
	result := Result{Episode: uuid.New().String()}
	logger := game.cfg.Logger
	solver.Reset()

	for game.Status() == Running {
		if game.cfg.MaxSteps > 0 && game.Steps() >= game.cfg.MaxSteps {
			result.Truncated = true
			break
		}
		if ctx.Err() != nil {
			result.Truncated = true
			break
		}

		decision, err := solver.Decide(game.Entities(), game.Agent())
		if err != nil {
			return result, fmt.Errorf("episode %s step %d: %w", result.Episode, game.Steps(), err)
		}
		if !decision.Stats.Converged {
			result.Unconverged++
		}

		if publish != nil {
			publish(models.Snapshot{
				Episode:   result.Episode,
				Step:      game.Steps(),
				Score:     game.Score(),
				Grid:      game.Grid(),
				Entities:  game.Entities(),
				Agent:     game.Agent(),
				Action:    decision.Direction,
				Values:    decision.Values,
				Policy:    reinforcement.Policy(decision.Values, solver.Model()),
				Sweeps:    decision.Stats.Sweeps,
				Residuals: decision.Stats.Residuals,
				Converged: decision.Stats.Converged,
			})
		}

		game.Step(decision.Direction)
	}

	result.Steps = game.Steps()
	result.Score = game.Score()
	result.Status = game.Status()
	logger.Printf("episode %s %s after %d steps, score %d\n", result.Episode, result.Status, result.Steps, result.Score)
	return result, nil
}
