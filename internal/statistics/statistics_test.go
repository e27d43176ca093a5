package statistics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/archerysim/internal/tournament"
)

func TestSeries_Empty(t *testing.T) {
	var s Series
	assert.Zero(t, s.Mean())
	assert.Zero(t, s.Variance())
	assert.Zero(t, s.StdDev())
	assert.Zero(t, s.Correlation(&Series{}))
}

func TestSeries_Values(t *testing.T) {
	var s Series
	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		s.Add(v)
	}
	assert.Equal(t, 8, s.N)
	assert.InDelta(t, 5.0, s.Mean(), 1e-12)
	assert.InDelta(t, 4.0, s.Variance(), 1e-12)
	assert.InDelta(t, 2.0, s.StdDev(), 1e-12)
}

func TestSeries_Correlation(t *testing.T) {
	var x, y, z, c Series
	for i := 0; i < 5; i++ {
		x.Add(float64(i))
		y.Add(float64(3*i + 1))
		z.Add(float64(-i))
		c.Add(7)
	}
	assert.InDelta(t, 1.0, x.Correlation(&y), 1e-12)
	assert.InDelta(t, -1.0, x.Correlation(&z), 1e-12)
	assert.Zero(t, x.Correlation(&c), "constant series has no correlation")

	var short Series
	short.Add(1)
	assert.Zero(t, x.Correlation(&short))
}

type fixture struct {
	roster         *tournament.Roster
	a1, a2, b1, b2 *tournament.Player
}

func newFixture() fixture {
	a := &tournament.Team{Name: tournament.TeamA}
	b := &tournament.Team{Name: tournament.TeamB}
	f := fixture{
		a1: &tournament.Player{Name: "a1", Team: a, Male: true},
		a2: &tournament.Player{Name: "a2", Team: a, Male: false},
		b1: &tournament.Player{Name: "b1", Team: b, Male: true},
		b2: &tournament.Player{Name: "b2", Team: b, Male: false},
	}
	f.roster = &tournament.Roster{
		Teams:   []*tournament.Team{a, b},
		Players: []*tournament.Player{f.a1, f.a2, f.b1, f.b2},
	}
	return f
}

func shot(p *tournament.Player, score int, kind tournament.ShotType) tournament.Shot {
	return tournament.Shot{Player: p, Score: score, Type: kind}
}

func TestAnalyze(t *testing.T) {
	f := newFixture()
	a, b := f.roster.Teams[0], f.roster.Teams[1]

	games := []tournament.Game{
		{
			Number:     1,
			WinnerTeam: a,
			Winner:     f.a2,
			Luckiest:   f.b2,
			Rounds: []tournament.Round{
				{
					Winner: f.a2, WinnerTeam: a,
					Shots: []tournament.Shot{
						shot(f.a2, 10, tournament.NormalShot),
						shot(f.a1, 9, tournament.LuckyShot),
						shot(f.b1, 8, tournament.NormalShot),
					},
				},
				{
					Winner: f.b1, WinnerTeam: nil,
					Shots: []tournament.Shot{
						shot(f.a1, 8, tournament.NormalShot),
						shot(f.b1, 8, tournament.NormalShot),
						shot(f.b1, 10, tournament.ExtraShot),
					},
				},
			},
		},
		{
			Number:     2,
			WinnerTeam: b,
			Winner:     f.b1,
			Luckiest:   f.a1,
			Rounds: []tournament.Round{
				{
					Winner: f.b1, WinnerTeam: b,
					Shots: []tournament.Shot{
						shot(f.b1, 9, tournament.NormalShot),
						shot(f.b2, 9, tournament.AdvantageShot),
						shot(f.b2, 0, tournament.LuckyShot),
					},
				},
				{
					Winner: f.b2, WinnerTeam: b, TieUnresolved: true,
					Shots: []tournament.Shot{
						shot(f.b2, 10, tournament.NormalShot),
					},
				},
			},
		},
		{
			Number:     3,
			WinnerTeam: b,
			Winner:     f.b1,
			Luckiest:   f.b2,
			Rounds: []tournament.Round{
				{
					Winner: f.b1, WinnerTeam: b,
					Shots: []tournament.Shot{
						shot(f.b1, 10, tournament.NormalShot),
					},
				},
			},
		},
	}

	f.a2.Experience, f.a2.TotalPoints = 13, 10
	f.a1.Experience, f.a1.TotalPoints = 10, 17
	f.b1.Experience, f.b1.TotalPoints = 19, 45
	f.b2.Experience, f.b2.TotalPoints = 13, 19

	res := Analyze(f.roster, games)

	assert.Equal(t, 3, res.Games)
	assert.Equal(t, 5, res.Rounds)
	assert.Equal(t, 11, res.Shots)

	assert.Equal(t, PlayerCount{Player: "b2", Team: tournament.TeamB, Count: 2}, res.Luckiest)
	assert.Equal(t, PlayerCount{Player: "b1", Team: tournament.TeamB, Count: 19}, res.MostExperienced)

	assert.Equal(t, tournament.TeamB, res.TeamWinner.Team)
	assert.Equal(t, []TeamCount{{tournament.TeamA, 1}, {tournament.TeamB, 2}}, res.TeamWinner.Wins)
	assert.Equal(t, []PlayerCount{
		{Player: "b1", Team: tournament.TeamB, Count: 45},
		{Player: "b2", Team: tournament.TeamB, Count: 19},
	}, res.TeamWinner.PlayerPoints)

	assert.Equal(t, GenderWins{Gender: Male, Wins: 2, Male: 2, Female: 1}, res.GameGender)
	assert.Equal(t, GenderWins{Gender: Male, Wins: 3, Male: 3, Female: 2}, res.RoundGender)

	// Per-game points count every shot type.
	require.Len(t, res.PointsPerGame, 4)
	assert.Equal(t, []int{17, 0, 0}, res.PointsPerGame[0].Points)
	assert.Equal(t, []int{10, 0, 0}, res.PointsPerGame[1].Points)
	assert.Equal(t, []int{26, 9, 10}, res.PointsPerGame[2].Points)
	assert.Equal(t, []int{0, 19, 0}, res.PointsPerGame[3].Points)

	// Team scores skip ES shots: A 27/0/0, B 16/28/10.
	require.Len(t, res.TeamScores, 2)
	assert.Equal(t, []int{27, 0, 0}, res.TeamScores[0].Scores)
	assert.InDelta(t, 9.0, res.TeamScores[0].Mean, 1e-9)
	assert.InDelta(t, 162.0, res.TeamScores[0].Variance, 1e-9)
	assert.InDelta(t, math.Sqrt(162), res.TeamScores[0].StdDev, 1e-9)
	assert.Equal(t, []int{16, 28, 10}, res.TeamScores[1].Scores)
	assert.InDelta(t, 18.0, res.TeamScores[1].Mean, 1e-9)
	assert.InDelta(t, 56.0, res.TeamScores[1].Variance, 1e-9)

	require.Len(t, res.SpecialShots, 2)
	sa, sb := res.SpecialShots[0], res.SpecialShots[1]
	assert.Equal(t, 1, sa.Total)
	assert.InDelta(t, 1.0/3.0, sa.PerGame, 1e-9)
	assert.Equal(t, 3, sa.ExperienceGained)
	assert.InDelta(t, 0.003, sa.Factor, 1e-12)
	// A: special per game 1/0/0, gained per game 3/0/0
	assert.InDelta(t, 1.0, sa.Correlation, 1e-9)

	assert.Equal(t, 2, sb.Total)
	assert.Equal(t, 12, sb.ExperienceGained)
	assert.InDelta(t, 0.024, sb.Factor, 1e-12)
	// B: special per game 0/2/0, gained per game 3/6/3
	assert.InDelta(t, 1.0, sb.Correlation, 1e-9)

	assert.Equal(t, TiedRounds{Tied: 1, Total: 5, Percent: 20, NonTied: 4, NonTiedPercent: 80}, res.TiedRounds)
	assert.Equal(t, 1, res.Anomalies)
}

func TestAnalyze_TiesGoToSecondTeamAndFemale(t *testing.T) {
	f := newFixture()
	a, b := f.roster.Teams[0], f.roster.Teams[1]

	games := []tournament.Game{
		{WinnerTeam: a, Winner: f.a1, Luckiest: f.a2, Rounds: []tournament.Round{{Winner: f.a1, WinnerTeam: a}}},
		{WinnerTeam: b, Winner: f.b2, Luckiest: f.a1, Rounds: []tournament.Round{{Winner: f.b2, WinnerTeam: b}}},
	}
	res := Analyze(f.roster, games)

	assert.Equal(t, tournament.TeamB, res.TeamWinner.Team)
	assert.Equal(t, Female, res.GameGender.Gender)
	assert.Equal(t, 1, res.GameGender.Wins)
	assert.Equal(t, Female, res.RoundGender.Gender)
	// a2 and a1 were each luckiest once; a2 came first
	assert.Equal(t, "a2", res.Luckiest.Player)
	// no experience gained: no factor
	assert.Zero(t, res.SpecialShots[0].Factor)
}

func TestAnalyze_NoGames(t *testing.T) {
	f := newFixture()
	res := Analyze(f.roster, nil)

	assert.Zero(t, res.Games)
	assert.Zero(t, res.Rounds)
	assert.Empty(t, res.Luckiest.Player)
	assert.Zero(t, res.TiedRounds.Percent)
	require.Len(t, res.TeamScores, 2)
	assert.Zero(t, res.TeamScores[0].Mean)
	assert.Zero(t, res.SpecialShots[1].PerGame)

	assert.Equal(t, Results{}, Analyze(nil, nil))
}
