package tournament

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/lox/archerysim/internal/numstream"
)

// Config holds tournament settings.
type Config struct {
	Games             int
	RoundsPerGame     int
	MaxTieBreakRounds int
	Logger            *log.Logger
}

// Runner plays a sequence of games against one roster. Games run strictly in
// order because each depends on the experience earned in the ones before.
type Runner struct {
	config Config
	engine *Engine
}

// NewRunner creates a runner reading from stream.
func NewRunner(config Config, stream numstream.Stream) *Runner {
	if config.RoundsPerGame <= 0 {
		config.RoundsPerGame = RoundsPerGame
	}
	if config.Logger == nil {
		config.Logger = log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel})
	}
	return &Runner{
		config: config,
		engine: NewEngine(stream, config.MaxTieBreakRounds, config.Logger),
	}
}

// Run plays the configured number of games. On error the games completed
// before the failure are returned with it; a partially played game is
// discarded and the experience and points it awarded are taken back.
func (r *Runner) Run(ctx context.Context, roster *Roster) ([]Game, error) {
	if r.config.Games < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeGames, r.config.Games)
	}
	if err := roster.Validate(); err != nil {
		return nil, err
	}

	games := make([]Game, 0, r.config.Games)
	for n := 1; n <= r.config.Games; n++ {
		if err := ctx.Err(); err != nil {
			return games, err
		}

		saved := roster.snapshot()
		game, err := r.engine.PlayGame(n, roster, r.config.RoundsPerGame)
		if err != nil {
			roster.restore(saved)
			r.config.Logger.Warn("Run stopped early",
				"completed", len(games),
				"requested", r.config.Games,
				"error", err)
			return games, fmt.Errorf("play: %w", err)
		}
		games = append(games, game)

		r.config.Logger.Debug("Game finished",
			"game", n,
			"winner_team", game.WinnerTeam.Name,
			"winner", game.Winner.Name)
	}
	return games, nil
}

// playerState is the run-scoped state a game can change.
type playerState struct {
	experience  int
	totalPoints int
}

func (r *Roster) snapshot() []playerState {
	state := make([]playerState, len(r.Players))
	for i, p := range r.Players {
		state[i] = playerState{experience: p.Experience, totalPoints: p.TotalPoints}
	}
	return state
}

func (r *Roster) restore(state []playerState) {
	for i, p := range r.Players {
		p.Experience, p.TotalPoints = state[i].experience, state[i].totalPoints
	}
}
