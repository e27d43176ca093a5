// Package generator produces a validated number stream by cycling through the
// configured LCG configurations until one passes the uniformity battery.
package generator

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/lox/archerysim/internal/lcg"
	"github.com/lox/archerysim/internal/uniformity"
)

// ErrNoAcceptableStream is returned when MaxAttempts candidates are rejected.
var ErrNoAcceptableStream = errors.New("no acceptable number stream")

// Store is the configuration collection and its cursor.
type Store interface {
	Configurations() []lcg.Configuration
	Current() lcg.Configuration
	Cursor() int
	// Advance moves to the next configuration (wrapping) and commits the cursor.
	Advance() error
}

// Config holds generator settings.
type Config struct {
	Store Store
	// MaxAttempts bounds the candidates tried; zero means two full passes
	// over the collection.
	MaxAttempts int
	// Validate defaults to uniformity.Validate.
	Validate func([]float64) uniformity.Report
	Logger   *log.Logger
}

// Result is an accepted stream and how it was obtained.
type Result struct {
	Numbers       []float64
	Configuration lcg.Configuration
	// Index is the cursor position of the accepted configuration.
	Index    int
	Attempts int
	Report   uniformity.Report
}

// Generator produces validated streams.
type Generator struct {
	config Config
}

// New creates a generator, filling in defaults.
func New(config Config) *Generator {
	if config.Validate == nil {
		config.Validate = uniformity.Validate
	}
	if config.Logger == nil {
		config.Logger = log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel})
	}
	return &Generator{config: config}
}

func (g *Generator) maxAttempts() int {
	if g.config.MaxAttempts > 0 {
		return g.config.MaxAttempts
	}
	return 2 * len(g.config.Store.Configurations())
}

// Generate builds a candidate from the active configuration, validates it and
// advances the cursor, repeating until a candidate is accepted or the attempt
// budget is spent. The cursor advances after every attempt, accepted or not.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	limit := g.maxAttempts()
	logger := g.config.Logger

	for attempt := 1; attempt <= limit; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		conf := g.config.Store.Current()
		index := g.config.Store.Cursor()

		nums, err := conf.Generate(ctx)
		if err != nil {
			return nil, fmt.Errorf("generate candidate %d: %w", attempt, err)
		}
		report := g.config.Validate(nums)

		if err := g.config.Store.Advance(); err != nil {
			return nil, err
		}

		if report.Passed() {
			logger.Info("Number stream accepted",
				"configuration", conf.Name,
				"index", index,
				"size", len(nums),
				"attempts", attempt)
			return &Result{
				Numbers:       nums,
				Configuration: conf,
				Index:         index,
				Attempts:      attempt,
				Report:        report,
			}, nil
		}

		logger.Debug("Number stream rejected",
			"configuration", conf.Name,
			"index", index,
			"failed", report.Failed())
	}

	return nil, fmt.Errorf("%w after %d attempts", ErrNoAcceptableStream, limit)
}
