package main

import (
	"fmt"
	"os"

	"github.com/coder/quartz"

	"github.com/lox/archerysim/internal/archive"
	"github.com/lox/archerysim/internal/configstore"
	"github.com/lox/archerysim/internal/generator"
	"github.com/lox/archerysim/internal/numstream"
	"github.com/lox/archerysim/internal/report"
	"github.com/lox/archerysim/internal/simulator"
)

type RunCmd struct {
	StreamFlags

	Games          int    `help:"Number of games to simulate" default:"10000" env:"ARCHERYSIM_GAMES"`
	Rounds         int    `help:"Rounds per game" default:"10" env:"ARCHERYSIM_ROUNDS"`
	PlayersPerTeam int    `help:"Players on each team" default:"5" env:"ARCHERYSIM_PLAYERS_PER_TEAM"`
	MaxTieBreak    int    `help:"Cap on simultaneous extra-shot rounds per tie-break" default:"1000" env:"ARCHERYSIM_MAX_TIE_BREAK"`
	MaxAttempts    int    `help:"Configurations to try before giving up (0 = two passes over the file)" env:"ARCHERYSIM_MAX_ATTEMPTS"`
	Numbers        string `help:"Replay a pre-recorded numbers file instead of generating a stream" type:"existingfile" env:"ARCHERYSIM_NUMBERS"`
	Archive        string `help:"SQLite file to record the run in" type:"path" env:"ARCHERYSIM_ARCHIVE"`
}

func (c *RunCmd) Run(g *Globals) error {
	logger := g.logger()
	ctx, cancel := signalContext(logger)
	defer cancel()

	clock := quartz.NewReal()
	config := simulator.Config{
		Games:             c.Games,
		RoundsPerGame:     c.Rounds,
		PlayersPerTeam:    c.PlayersPerTeam,
		MaxTieBreakRounds: c.MaxTieBreak,
		Logger:            logger,
		Clock:             clock,
	}

	if c.Numbers != "" {
		stream, err := numstream.LoadFile(c.Numbers)
		if err != nil {
			return err
		}
		config.Numbers = stream.Values()
	} else {
		store, err := configstore.Load(c.Configs, c.Cursor)
		if err != nil {
			return err
		}
		config.Generator = generator.New(generator.Config{
			Store:       store,
			MaxAttempts: c.MaxAttempts,
			Logger:      logger,
		})
	}

	outcome, err := simulator.New(config).Run(ctx)
	if err != nil {
		return err
	}

	if c.Archive != "" {
		store, err := archive.Open(c.Archive)
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := store.SaveRun(ctx, outcome, clock.Now())
		if err != nil {
			return err
		}
		logger.Info("Run archived", "id", id, "path", c.Archive)
	}

	if g.JSON {
		return report.WriteJSON(os.Stdout, outcome)
	}
	g.printer().Outcome(outcome)
	if outcome.Partial {
		fmt.Fprintln(os.Stderr, "results cover a partial run")
	}
	return nil
}
