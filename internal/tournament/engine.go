package tournament

import (
	"fmt"
	"math"
	"os"

	"github.com/charmbracelet/log"

	"github.com/lox/archerysim/internal/numstream"
)

const (
	luckMean   = 1.5
	luckStdDev = 1.0
	luckFloor  = 0.1

	// uniformClamp keeps Box-Muller inputs away from log(0).
	uniformClamp = 1e-10

	// DefaultMaxTieBreakRounds caps simultaneous extra-shot rounds.
	DefaultMaxTieBreakRounds = 1000
)

// Engine plays rounds against a number stream. Draw order is part of the
// contract: reordering any draw changes every downstream result.
type Engine struct {
	stream            numstream.Stream
	maxTieBreakRounds int
	logger            *log.Logger
}

// NewEngine returns an engine reading from stream. A non-positive
// maxTieBreakRounds selects DefaultMaxTieBreakRounds.
func NewEngine(stream numstream.Stream, maxTieBreakRounds int, logger *log.Logger) *Engine {
	if maxTieBreakRounds <= 0 {
		maxTieBreakRounds = DefaultMaxTieBreakRounds
	}
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel})
	}
	return &Engine{stream: stream, maxTieBreakRounds: maxTieBreakRounds, logger: logger}
}

// PlayRound resolves the next round of the current game. history holds the
// game's completed rounds, oldest first; it is empty for the first round.
// Player experience and total points are updated in place.
func (e *Engine) PlayRound(roster *Roster, history []Round) (Round, error) {
	if err := roster.Validate(); err != nil {
		return Round{}, err
	}
	round := Round{Number: len(history) + 1}

	luck, err := e.luckPhase(roster)
	if err != nil {
		return Round{}, err
	}
	round.Luck = luck

	// Endurance and normal shots are interleaved per player.
	tallies := make([]int, len(roster.Players))
	for i, p := range roster.Players {
		endurance, err := e.endurance(p, history)
		if err != nil {
			return Round{}, err
		}
		round.Endurance = append(round.Endurance, EnduranceValue{Player: p, Value: endurance})

		for remaining := endurance; remaining >= ShotCost; remaining -= ShotCost {
			shot, err := e.shoot(p, &round, NormalShot)
			if err != nil {
				return Round{}, err
			}
			tallies[i] += shot.Score
		}
	}

	for _, p := range luckyShooters(roster, &round, history) {
		if _, err := e.shoot(p, &round, LuckyShot); err != nil {
			return Round{}, err
		}
	}

	if len(history) >= 2 {
		for _, p := range roster.Players {
			if streak(p, history, 2) {
				if _, err := e.shoot(p, &round, AdvantageShot); err != nil {
					return Round{}, err
				}
			}
		}
	}

	if err := e.breakTie(roster, &round, tallies); err != nil {
		return Round{}, err
	}

	round.Winner, round.WinnerTeam = roster.ResolveRound(round.Shots)
	round.Winner.Experience += ExperienceGain
	return round, nil
}

// luckPhase samples every player's luck and keeps the best player per team,
// first in roster order on ties.
func (e *Engine) luckPhase(roster *Roster) ([]LuckValue, error) {
	best := make([]LuckValue, len(roster.Teams))
	for _, p := range roster.Players {
		v, err := e.normal(luckMean, luckStdDev)
		if err != nil {
			return nil, err
		}
		v = math.Max(luckFloor, v)

		i := roster.teamIndex(p.Team)
		if best[i].Player == nil || v > best[i].Value {
			best[i] = LuckValue{Player: p, Value: v}
		}
	}
	return best, nil
}

// normal draws one Box-Muller sample from two stream values.
func (e *Engine) normal(mu, sigma float64) (float64, error) {
	u1, err := e.stream.Next()
	if err != nil {
		return 0, err
	}
	u2, err := e.stream.Next()
	if err != nil {
		return 0, err
	}
	u1 = math.Max(uniformClamp, math.Min(1-uniformClamp, u1))
	u2 = math.Max(uniformClamp, math.Min(1-uniformClamp, u2))

	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mu + sigma*z, nil
}

// endurance computes p's starting endurance for the next round. Only the
// current game's history is consulted, so every game starts fresh.
func (e *Engine) endurance(p *Player, history []Round) (int, error) {
	if len(history) == 0 {
		return p.OriginalEndurance, nil
	}

	previous, _ := history[len(history)-1].EnduranceOf(p)
	before := p.OriginalEndurance
	if len(history) >= 2 {
		before, _ = history[len(history)-2].EnduranceOf(p)
	}
	spent := before - previous

	var value int
	if p.Experience >= VeteranExperience {
		value = p.OriginalEndurance - 1
	} else {
		u, err := e.stream.Next()
		if err != nil {
			return 0, err
		}
		value = previous + max(0, spent-RecoveryPenalty(u))
	}
	return max(0, value), nil
}

// RecoveryPenalty maps a uniform draw to 1, 2 or 3 with equal probability.
func RecoveryPenalty(u float64) int {
	switch {
	case u < 1.0/3.0:
		return 1
	case u < 2.0/3.0:
		return 2
	default:
		return 3
	}
}

// shoot draws one score for p and appends the shot to the round. Every shot
// counts toward the player's run total.
func (e *Engine) shoot(p *Player, round *Round, kind ShotType) (Shot, error) {
	u, err := e.stream.Next()
	if err != nil {
		return Shot{}, err
	}
	shot := Shot{
		Player: p,
		Score:  ShotScore(p.Male, u),
		Number: len(round.Shots) + 1,
		Type:   kind,
	}
	round.Shots = append(round.Shots, shot)
	p.TotalPoints += shot.Score
	return shot, nil
}

// luckyShooters lists LS recipients: this round's luckiest players, then
// anyone lucky in each of the last three rounds. A player may appear twice.
func luckyShooters(roster *Roster, round *Round, history []Round) []*Player {
	var out []*Player
	for _, p := range roster.Players {
		if round.Lucky(p) {
			out = append(out, p)
		}
	}
	if len(history) >= 3 {
		for _, p := range roster.Players {
			if streak(p, history, 3) {
				out = append(out, p)
			}
		}
	}
	return out
}

// streak reports whether p was lucky in each of the last n rounds.
func streak(p *Player, history []Round, n int) bool {
	if len(history) < n {
		return false
	}
	for i := len(history) - n; i < len(history); i++ {
		if !history[i].Lucky(p) {
			return false
		}
	}
	return true
}

// breakTie gives every player sharing the top normal-shot tally one ES shot
// at a time until their running tallies are pairwise distinct.
func (e *Engine) breakTie(roster *Roster, round *Round, tallies []int) error {
	top := math.MinInt
	for _, t := range tallies {
		top = max(top, t)
	}

	var tied []int
	for i, t := range tallies {
		if t == top {
			tied = append(tied, i)
		}
	}
	if len(tied) < 2 {
		return nil
	}

	running := make([]int, len(tied))
	for j, i := range tied {
		running[j] = tallies[i]
	}

	for iteration := 0; !distinct(running); iteration++ {
		if iteration >= e.maxTieBreakRounds {
			round.TieUnresolved = true
			e.logger.Warn("Tie-break cap reached",
				"round", round.Number,
				"players", len(tied),
				"cap", e.maxTieBreakRounds)
			return nil
		}
		for j, i := range tied {
			shot, err := e.shoot(roster.Players[i], round, ExtraShot)
			if err != nil {
				return fmt.Errorf("tie-break: %w", err)
			}
			running[j] += shot.Score
		}
	}
	return nil
}

func distinct(values []int) bool {
	seen := make(map[int]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			return false
		}
		seen[v] = struct{}{}
	}
	return true
}
