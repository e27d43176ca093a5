package simulator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/archerysim/internal/generator"
	"github.com/lox/archerysim/internal/numstream"
	"github.com/lox/archerysim/internal/statistics"
	"github.com/lox/archerysim/internal/tournament"
	"github.com/lox/archerysim/internal/uniformity"
)

// Stream sources.
const (
	SourceGenerated = "generated"
	SourceFile      = "file"
)

// ErrRejectedStream is returned when pre-recorded numbers fail validation.
var ErrRejectedStream = errors.New("pre-recorded stream failed validation")

// StreamGenerator produces a validated number stream.
type StreamGenerator interface {
	Generate(ctx context.Context) (*generator.Result, error)
}

// Config holds configuration for running simulations
type Config struct {
	Games             int
	RoundsPerGame     int
	PlayersPerTeam    int
	MaxTieBreakRounds int

	// Numbers is a pre-recorded stream. When set, Generator is not used.
	Numbers []float64
	// Generator supplies the stream when Numbers is nil.
	Generator StreamGenerator

	Logger *log.Logger
	Clock  quartz.Clock
}

// StreamInfo describes the stream a run consumed.
type StreamInfo struct {
	Source        string            `json:"source"`
	Configuration string            `json:"configuration,omitempty"`
	Index         int               `json:"index"`
	Attempts      int               `json:"attempts"`
	Size          int               `json:"size"`
	Consumed      int               `json:"consumed"`
	Required      int               `json:"required"`
	Feasible      bool              `json:"feasible"`
	Report        uniformity.Report `json:"report"`
}

// Efficiency reports how long each phase took and the processing rates.
type Efficiency struct {
	Setup    time.Duration `json:"setup"`
	Play     time.Duration `json:"play"`
	Analysis time.Duration `json:"analysis"`
	Total    time.Duration `json:"total"`

	GamesPerSecond  float64 `json:"games_per_second"`
	RoundsPerSecond float64 `json:"rounds_per_second"`
	ShotsPerSecond  float64 `json:"shots_per_second"`
	LuckPerSecond   float64 `json:"luck_per_second"`
	ShotsPerRound   float64 `json:"shots_per_round"`
	ShotsPerGame    float64 `json:"shots_per_game"`

	// Shares of Total, in percent.
	SetupShare    float64 `json:"setup_share"`
	PlayShare     float64 `json:"play_share"`
	AnalysisShare float64 `json:"analysis_share"`
}

// Outcome is everything a run produced.
type Outcome struct {
	Requested  int                `json:"requested"`
	Partial    bool               `json:"partial"`
	StopReason string             `json:"stop_reason,omitempty"`
	Results    statistics.Results `json:"results"`
	Efficiency Efficiency         `json:"efficiency"`
	Stream     StreamInfo         `json:"stream"`
}

// Simulator runs archery tournament simulations
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.RoundsPerGame <= 0 {
		config.RoundsPerGame = tournament.RoundsPerGame
	}
	if config.PlayersPerTeam <= 0 {
		config.PlayersPerTeam = tournament.PlayersPerTeam
	}
	if config.Logger == nil {
		config.Logger = log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel})
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	return &Simulator{config: config}
}

// Run obtains a stream, plays the configured games and analyzes them. When
// the stream runs out mid-run the outcome covers the completed games and is
// marked Partial; that is not an error.
func (s *Simulator) Run(ctx context.Context) (*Outcome, error) {
	if s.config.Games < 0 {
		return nil, fmt.Errorf("%w: %d", tournament.ErrNegativeGames, s.config.Games)
	}

	clock := s.config.Clock
	logger := s.config.Logger
	start := clock.Now()

	stream, info, err := s.stream(ctx)
	if err != nil {
		return nil, err
	}

	info.Required = numstream.Required(s.config.Games, s.config.RoundsPerGame)
	info.Feasible = numstream.Feasible(info.Size, s.config.Games, s.config.RoundsPerGame)
	if !info.Feasible {
		logger.Warn("Number stream is likely too short",
			"available", info.Size,
			"required", info.Required,
			"games", s.config.Games)
	}

	roster, err := tournament.NewRoster(stream, s.config.PlayersPerTeam)
	if err != nil {
		return nil, fmt.Errorf("create roster: %w", err)
	}
	setupDone := clock.Now()

	runner := tournament.NewRunner(tournament.Config{
		Games:             s.config.Games,
		RoundsPerGame:     s.config.RoundsPerGame,
		MaxTieBreakRounds: s.config.MaxTieBreakRounds,
		Logger:            logger,
	}, stream)

	outcome := &Outcome{Requested: s.config.Games}
	games, err := runner.Run(ctx, roster)
	switch {
	case errors.Is(err, numstream.ErrExhausted):
		outcome.Partial = true
		outcome.StopReason = err.Error()
		logger.Warn("Reporting partial results",
			"completed", len(games),
			"requested", s.config.Games)
	case err != nil:
		return nil, err
	}
	playDone := clock.Now()

	outcome.Results = statistics.Analyze(roster, games)
	done := clock.Now()

	info.Consumed = stream.Consumed()
	outcome.Stream = info
	outcome.Efficiency = measure(setupDone.Sub(start), playDone.Sub(setupDone), done.Sub(playDone), outcome.Results)

	logger.Info("Simulation complete",
		"games", outcome.Results.Games,
		"rounds", outcome.Results.Rounds,
		"partial", outcome.Partial,
		"duration", outcome.Efficiency.Total)
	return outcome, nil
}

// stream returns the pre-recorded numbers after validating them, or asks the
// generator for a fresh stream.
func (s *Simulator) stream(ctx context.Context) (*numstream.Slice, StreamInfo, error) {
	if s.config.Numbers != nil {
		report := uniformity.Validate(s.config.Numbers)
		if !report.Passed() {
			return nil, StreamInfo{}, fmt.Errorf("%w: %s", ErrRejectedStream, report)
		}
		info := StreamInfo{
			Source: SourceFile,
			Size:   len(s.config.Numbers),
			Report: report,
		}
		return numstream.NewSlice(s.config.Numbers), info, nil
	}

	if s.config.Generator == nil {
		return nil, StreamInfo{}, errors.New("no number source configured")
	}
	res, err := s.config.Generator.Generate(ctx)
	if err != nil {
		return nil, StreamInfo{}, fmt.Errorf("generate stream: %w", err)
	}
	info := StreamInfo{
		Source:        SourceGenerated,
		Configuration: res.Configuration.Name,
		Index:         res.Index,
		Attempts:      res.Attempts,
		Size:          len(res.Numbers),
		Report:        res.Report,
	}
	return numstream.NewSlice(res.Numbers), info, nil
}

// measure derives rates and phase shares. Rates are zero when a phase took
// no measurable time.
func measure(setup, play, analysis time.Duration, res statistics.Results) Efficiency {
	e := Efficiency{
		Setup:    setup,
		Play:     play,
		Analysis: analysis,
		Total:    setup + play + analysis,
	}

	// Each round samples luck once per team.
	luck := 2 * res.Rounds

	if secs := play.Seconds(); secs > 0 {
		e.GamesPerSecond = float64(res.Games) / secs
		e.RoundsPerSecond = float64(res.Rounds) / secs
		e.ShotsPerSecond = float64(res.Shots) / secs
		e.LuckPerSecond = float64(luck) / secs
	}
	if res.Rounds > 0 {
		e.ShotsPerRound = float64(res.Shots) / float64(res.Rounds)
	}
	if res.Games > 0 {
		e.ShotsPerGame = float64(res.Shots) / float64(res.Games)
	}
	if e.Total > 0 {
		total := float64(e.Total)
		e.SetupShare = 100 * float64(setup) / total
		e.PlayShare = 100 * float64(play) / total
		e.AnalysisShare = 100 * float64(analysis) / total
	}
	return e
}
