package main

import (
	"fmt"
	"os"

	"github.com/lox/archerysim/internal/configstore"
	"github.com/lox/archerysim/internal/generator"
	"github.com/lox/archerysim/internal/numstream"
	"github.com/lox/archerysim/internal/report"
)

// GenerateCmd records an accepted stream so later runs can replay it.
type GenerateCmd struct {
	StreamFlags

	Out         string `help:"Numbers file to write" default:"numbers.txt" type:"path" short:"o"`
	MaxAttempts int    `help:"Configurations to try before giving up (0 = two passes over the file)" env:"ARCHERYSIM_MAX_ATTEMPTS"`
}

func (c *GenerateCmd) Run(g *Globals) error {
	logger := g.logger()
	ctx, cancel := signalContext(logger)
	defer cancel()

	store, err := configstore.Load(c.Configs, c.Cursor)
	if err != nil {
		return err
	}
	res, err := generator.New(generator.Config{
		Store:       store,
		MaxAttempts: c.MaxAttempts,
		Logger:      logger,
	}).Generate(ctx)
	if err != nil {
		return err
	}

	if err := numstream.WriteFile(c.Out, res.Numbers); err != nil {
		return fmt.Errorf("write numbers: %w", err)
	}
	logger.Info("Numbers written", "path", c.Out, "size", len(res.Numbers))

	if g.JSON {
		return report.WriteJSON(os.Stdout, map[string]any{
			"configuration": res.Configuration.Name,
			"index":         res.Index,
			"attempts":      res.Attempts,
			"size":          len(res.Numbers),
			"path":          c.Out,
			"report":        res.Report,
		})
	}
	g.printer().Validation(res.Configuration.Name, res.Report)
	fmt.Printf("\nwrote %d values from %q (%d attempts) to %s\n", len(res.Numbers), res.Configuration.Name, res.Attempts, c.Out)
	return nil
}
