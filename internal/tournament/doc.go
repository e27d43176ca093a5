// Package tournament implements the two-team archery tournament engine.
//
// A run owns one Roster: two teams of players whose experience and total
// points accumulate across every game. Each Game is ten Rounds played by the
// Engine, which draws every random quantity from a single numstream.Stream in
// a fixed order, so a run is fully reproducible from its stream.
//
// # Round structure
//
// Engine.PlayRound resolves one round in phases:
//   - luck: one Box-Muller normal sample per player, best player per team
//   - endurance: reset at the first round of a game, recovered afterwards
//   - normal shots (NS) while endurance lasts, 5 units per shot
//   - lucky shots (LS) for this round's luckiest players and 3-round streaks
//   - advantage shots (AS) for players lucky in both previous rounds
//   - extra shots (ES) until tied top normal-shot tallies separate
//
// Team scores count NS, LS and AS shots. Individual scores count NS, ES and
// AS shots. The round winner gains ExperienceGain experience.
//
// # Basic Usage
//
//	stream := numstream.NewSlice(values)
//	roster, err := tournament.NewRoster(stream, 5)
//	runner := tournament.NewRunner(tournament.Config{Games: 100}, stream)
//	games, err := runner.Run(ctx, roster)
//
// When the stream runs dry mid-game, Run returns the games completed so far
// together with an error wrapping numstream.ErrExhausted.
package tournament
