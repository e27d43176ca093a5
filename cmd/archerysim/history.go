package main

import (
	"context"
	"os"

	"github.com/lox/archerysim/internal/archive"
	"github.com/lox/archerysim/internal/report"
)

type HistoryCmd struct {
	Archive string `help:"SQLite file runs were recorded in" required:"" type:"existingfile" env:"ARCHERYSIM_ARCHIVE"`
	Limit   int    `help:"Number of runs to list" default:"20"`
	ID      int64  `help:"Show the full results of one run"`
}

func (c *HistoryCmd) Run(g *Globals) error {
	ctx, cancel := signalContext(g.logger())
	defer cancel()
	return c.show(ctx, g)
}

func (c *HistoryCmd) show(ctx context.Context, g *Globals) error {
	store, err := archive.Open(c.Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	if c.ID > 0 {
		outcome, err := store.Outcome(ctx, c.ID)
		if err != nil {
			return err
		}
		if g.JSON {
			return report.WriteJSON(os.Stdout, outcome)
		}
		g.printer().Outcome(outcome)
		return nil
	}

	records, err := store.Recent(ctx, c.Limit)
	if err != nil {
		return err
	}
	if g.JSON {
		return report.WriteJSON(os.Stdout, records)
	}
	g.printer().History(records)
	return nil
}
