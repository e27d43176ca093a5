package tournament

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/archerysim/internal/lcg"
	"github.com/lox/archerysim/internal/numstream"
)

func wideStream(t *testing.T) *numstream.Slice {
	t.Helper()
	conf := lcg.Configuration{
		Name:  "wide",
		Conf1: lcg.Params{K: 1234, G: 14, X0: 99, C: 12345},
		Conf2: lcg.Params{K: 5678, G: 14, X0: 17, C: 54321},
	}
	nums, err := conf.Generate(context.Background())
	require.NoError(t, err)
	return numstream.NewSlice(nums)
}

func TestNewRoster(t *testing.T) {
	stream := numstream.NewSlice([]float64{
		0.2, 0.00, // male, endurance 25
		0.7, 0.50, // female, endurance 35
		0.4, 0.99, // male, endurance 44
		0.5, 0.25, // female, endurance 30
	})

	roster, err := NewRoster(stream, 2)
	require.NoError(t, err)
	require.NoError(t, roster.Validate())
	require.Len(t, roster.Players, 4)

	want := []struct {
		name      string
		team      string
		male      bool
		endurance int
	}{
		{"Player 1 Team A", TeamA, true, 25},
		{"Player 2 Team A", TeamA, false, 35},
		{"Player 1 Team B", TeamB, true, 44},
		{"Player 2 Team B", TeamB, false, 30},
	}
	for i, w := range want {
		p := roster.Players[i]
		assert.Equal(t, w.name, p.Name)
		assert.Equal(t, w.team, p.Team.Name)
		assert.Equal(t, w.male, p.Male)
		assert.Equal(t, w.endurance, p.OriginalEndurance)
		assert.Equal(t, InitialExperience, p.Experience)
		assert.Zero(t, p.TotalPoints)
	}

	_, err = NewRoster(numstream.NewSlice([]float64{0.1}), 1)
	assert.ErrorIs(t, err, numstream.ErrExhausted)

	_, err = NewRoster(stream, 0)
	assert.ErrorIs(t, err, ErrEmptyRoster)
}

func TestResolveGame(t *testing.T) {
	roster := microRoster(0, 0, 0, 0)
	a1, a2, b1, b2 := roster.Players[0], roster.Players[1], roster.Players[2], roster.Players[3]
	teamA, teamB := roster.Teams[0], roster.Teams[1]

	rounds := []Round{
		{Winner: b1, Luck: []LuckValue{{Player: a2}, {Player: b2}}, Shots: []Shot{{Player: a1, Score: 10, Type: NormalShot}}},
		{Winner: a1, Luck: []LuckValue{{Player: a1}, {Player: b1}}, Shots: []Shot{{Player: b1, Score: 10, Type: LuckyShot}}},
		{Winner: a1, Luck: []LuckValue{{Player: a2}, {Player: b1}}, Shots: []Shot{{Player: b1, Score: 10, Type: ExtraShot}}},
		{Winner: b1, Luck: []LuckValue{{Player: a1}, {Player: b2}}},
	}

	team, winner, luckiest := roster.ResolveGame(rounds)

	// 10 vs 10 (the ES shot does not count): ties default to the second team
	assert.Same(t, teamB, team)
	// b1 and a1 both won twice; b1 was encountered first
	assert.Same(t, b1, winner)
	// a2, b2, a1 and b1 were each luckiest twice; a2 was encountered first
	assert.Same(t, a2, luckiest)

	rounds[0].Shots = append(rounds[0].Shots, Shot{Player: a2, Score: 1, Type: AdvantageShot})
	team, _, _ = roster.ResolveGame(rounds)
	assert.Same(t, teamA, team)
}

func TestRunnerInvariants(t *testing.T) {
	stream := wideStream(t)
	roster, err := NewRoster(stream, PlayersPerTeam)
	require.NoError(t, err)

	runner := NewRunner(Config{Games: 5, Logger: quietLogger()}, stream)
	games, err := runner.Run(context.Background(), roster)
	require.NoError(t, err)
	require.Len(t, games, 5)

	points := map[*Player]int{}
	roundWins := map[*Player]int{}
	for gi, game := range games {
		assert.Equal(t, gi+1, game.Number)
		require.Len(t, game.Rounds, RoundsPerGame)
		require.NotNil(t, game.WinnerTeam)
		require.NotNil(t, game.Winner)
		require.NotNil(t, game.Luckiest)

		for ri, round := range game.Rounds {
			assert.Equal(t, ri+1, round.Number)
			require.Len(t, round.Luck, 2)
			require.Len(t, round.Endurance, len(roster.Players))

			if ri == 0 {
				for _, ev := range round.Endurance {
					assert.Equal(t, ev.Player.OriginalEndurance, ev.Value,
						"game %d starts %s from original endurance", game.Number, ev.Player.Name)
				}
			}

			scores := roster.TeamScores(round.Shots)
			assert.Equal(t, scores[0] == scores[1], round.Tied(), "game %d round %d", game.Number, round.Number)

			for _, s := range round.Shots {
				points[s.Player] += s.Score
			}
			roundWins[round.Winner]++
		}
	}

	for _, p := range roster.Players {
		assert.Equal(t, points[p], p.TotalPoints, p.Name)
		assert.Equal(t, InitialExperience+ExperienceGain*roundWins[p], p.Experience, p.Name)
	}
}

func TestRunnerMonotonicState(t *testing.T) {
	stream := wideStream(t)
	roster, err := NewRoster(stream, PlayersPerTeam)
	require.NoError(t, err)

	engine := NewEngine(stream, 0, quietLogger())
	prevExp := make([]int, len(roster.Players))
	prevPts := make([]int, len(roster.Players))

	for g := 1; g <= 3; g++ {
		var history []Round
		for r := 0; r < RoundsPerGame; r++ {
			round, err := engine.PlayRound(roster, history)
			require.NoError(t, err)
			history = append(history, round)

			for i, p := range roster.Players {
				assert.GreaterOrEqual(t, p.Experience, prevExp[i])
				assert.GreaterOrEqual(t, p.TotalPoints, prevPts[i])
				prevExp[i], prevPts[i] = p.Experience, p.TotalPoints
			}
		}
	}
}

func TestRunnerStopsOnExhaustion(t *testing.T) {
	stream := wideStream(t)
	roster, err := NewRoster(stream, PlayersPerTeam)
	require.NoError(t, err)

	games, err := NewRunner(Config{Games: 10000, Logger: quietLogger()}, stream).Run(context.Background(), roster)
	require.ErrorIs(t, err, numstream.ErrExhausted)
	assert.NotEmpty(t, games)
	assert.Less(t, len(games), 10000)
	for _, g := range games {
		assert.Len(t, g.Rounds, RoundsPerGame)
	}
}

func TestRunnerExhaustionKeepsOnlyCompletedGames(t *testing.T) {
	stream := wideStream(t)
	roster, err := NewRoster(stream, PlayersPerTeam)
	require.NoError(t, err)

	games, err := NewRunner(Config{Games: 10000, Logger: quietLogger()}, stream).Run(context.Background(), roster)
	require.ErrorIs(t, err, numstream.ErrExhausted)
	require.NotEmpty(t, games)

	points := map[*Player]int{}
	wins := map[*Player]int{}
	for _, g := range games {
		for _, round := range g.Rounds {
			for _, shot := range round.Shots {
				points[shot.Player] += shot.Score
			}
			wins[round.Winner]++
		}
	}
	for _, p := range roster.Players {
		assert.Equal(t, points[p], p.TotalPoints, "%s points", p.Name)
		assert.Equal(t, InitialExperience+ExperienceGain*wins[p], p.Experience, "%s experience", p.Name)
	}
}

func TestRunnerRejectsNegativeGames(t *testing.T) {
	stream := wideStream(t)
	roster, err := NewRoster(stream, PlayersPerTeam)
	require.NoError(t, err)

	games, err := NewRunner(Config{Games: -1, Logger: quietLogger()}, stream).Run(context.Background(), roster)
	assert.ErrorIs(t, err, ErrNegativeGames)
	assert.Empty(t, games)
	assert.Equal(t, 2*2*PlayersPerTeam, stream.Consumed(), "no draws beyond the roster")
}

func TestRunnerHonoursCancellation(t *testing.T) {
	stream := wideStream(t)
	roster, err := NewRoster(stream, PlayersPerTeam)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	games, err := NewRunner(Config{Games: 3, Logger: quietLogger()}, stream).Run(ctx, roster)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, games)
}
