package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/lox/archerysim/internal/report"
)

// StreamFlags select where number streams come from.
type StreamFlags struct {
	Configs string `help:"HCL file of LCG configurations" default:"lcg.hcl" type:"path" env:"ARCHERYSIM_CONFIGS"`
	Cursor  string `help:"JSON file holding the configuration cursor" default:"nums_info.json" type:"path" env:"ARCHERYSIM_CURSOR"`
}

func (g *Globals) logger() *log.Logger {
	level := log.WarnLevel
	if g.Debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: g.Debug,
	})
}

func (g *Globals) printer() *report.Printer {
	return report.New(os.Stdout, g.NoColor)
}

// signalContext is cancelled on interrupt signals.
func signalContext(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Received signal, stopping", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}
