package statistics

import (
	"github.com/lox/archerysim/internal/tournament"
)

// Gender labels used in results.
const (
	Male   = "male"
	Female = "female"
)

// PlayerCount names a player with an associated count.
type PlayerCount struct {
	Player string `json:"player"`
	Team   string `json:"team"`
	Count  int    `json:"count"`
}

// TeamCount names a team with an associated count.
type TeamCount struct {
	Team  string `json:"team"`
	Count int    `json:"count"`
}

// TeamWinner is the team that won the most games. Ties go to the second team.
type TeamWinner struct {
	Team         string        `json:"team"`
	Wins         []TeamCount   `json:"wins"`
	PlayerPoints []PlayerCount `json:"player_points"`
}

// GenderWins is the gender with more wins. Ties go to Female.
type GenderWins struct {
	Gender string `json:"gender"`
	Wins   int    `json:"wins"`
	Male   int    `json:"male"`
	Female int    `json:"female"`
}

// PlayerPoints is a player's points in each game, in game order.
type PlayerPoints struct {
	Player string `json:"player"`
	Team   string `json:"team"`
	Points []int  `json:"points"`
}

// TeamDistribution summarizes a team's per-game scores.
type TeamDistribution struct {
	Team     string  `json:"team"`
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
	StdDev   float64 `json:"std_dev"`
	Scores   []int   `json:"scores"`
}

// SpecialShots relates a team's LS and AS shots to the experience it gained.
type SpecialShots struct {
	Team             string  `json:"team"`
	Total            int     `json:"total"`
	PerGame          float64 `json:"per_game"`
	ExperienceGained int     `json:"experience_gained"`
	// Factor is total*gained/1000, or 0 when no experience was gained.
	Factor float64 `json:"factor"`
	// Correlation is Pearson's r between per-game special shots and
	// per-game experience gained.
	Correlation float64 `json:"correlation"`
}

// TiedRounds counts rounds in which neither team won.
type TiedRounds struct {
	Tied           int     `json:"tied"`
	Total          int     `json:"total"`
	Percent        float64 `json:"percent"`
	NonTied        int     `json:"non_tied"`
	NonTiedPercent float64 `json:"non_tied_percent"`
}

// Results is the summary handed to presentation once per run.
type Results struct {
	Games           int                `json:"games"`
	Rounds          int                `json:"rounds"`
	Shots           int                `json:"shots"`
	Luckiest        PlayerCount        `json:"luckiest"`
	MostExperienced PlayerCount        `json:"most_experienced"`
	TeamWinner      TeamWinner         `json:"team_winner"`
	GameGender      GenderWins         `json:"game_gender"`
	RoundGender     GenderWins         `json:"round_gender"`
	PointsPerGame   []PlayerPoints     `json:"points_per_game"`
	TeamScores      []TeamDistribution `json:"team_scores"`
	SpecialShots    []SpecialShots     `json:"special_shots"`
	TiedRounds      TiedRounds         `json:"tied_rounds"`
	// Anomalies counts rounds whose tie-break hit its cap.
	Anomalies int `json:"anomalies"`
}

// Analyze reduces completed games to Results. It only looks at the games it
// is given, so a partial run is summarized over the games that finished.
func Analyze(roster *tournament.Roster, games []tournament.Game) Results {
	res := Results{Games: len(games)}
	if roster == nil {
		return res
	}

	playerIndex := make(map[*tournament.Player]int, len(roster.Players))
	for i, p := range roster.Players {
		playerIndex[p] = i
	}
	teamIndex := make(map[*tournament.Team]int, len(roster.Teams))
	for i, t := range roster.Teams {
		teamIndex[t] = i
	}

	luckiest := newTally()
	teamWins := make([]int, len(roster.Teams))
	points := make([][]int, len(roster.Players))
	scores := make([]Series, len(roster.Teams))
	special := make([]Series, len(roster.Teams))
	gained := make([]Series, len(roster.Teams))

	for _, game := range games {
		if game.Luckiest != nil {
			luckiest.add(game.Luckiest)
		}
		if i, ok := teamIndex[game.WinnerTeam]; ok {
			teamWins[i]++
		}
		if game.Winner != nil {
			countGender(&res.GameGender, game.Winner)
		}

		gamePoints := make([]int, len(roster.Players))
		gameScores := make([]int, len(roster.Teams))
		gameSpecial := make([]int, len(roster.Teams))
		gameGained := make([]int, len(roster.Teams))

		for _, round := range game.Rounds {
			res.Rounds++
			res.Shots += len(round.Shots)
			if round.Tied() {
				res.TiedRounds.Tied++
			}
			if round.TieUnresolved {
				res.Anomalies++
			}
			if round.Winner != nil {
				countGender(&res.RoundGender, round.Winner)
				if i, ok := teamIndex[round.Winner.Team]; ok {
					gameGained[i] += tournament.ExperienceGain
				}
			}

			for t, s := range roster.TeamScores(round.Shots) {
				gameScores[t] += s
			}
			for _, shot := range round.Shots {
				if i, ok := playerIndex[shot.Player]; ok {
					gamePoints[i] += shot.Score
				}
				if !shot.Type.Special() {
					continue
				}
				if i, ok := teamIndex[shot.Player.Team]; ok {
					gameSpecial[i]++
				}
			}
		}

		for i, v := range gamePoints {
			points[i] = append(points[i], v)
		}
		for t := range roster.Teams {
			scores[t].Add(float64(gameScores[t]))
			special[t].Add(float64(gameSpecial[t]))
			gained[t].Add(float64(gameGained[t]))
		}
	}

	if p, n := luckiest.top(); p != nil {
		res.Luckiest = PlayerCount{Player: p.Name, Team: p.Team.Name, Count: n}
	}
	res.MostExperienced = mostExperienced(roster)
	res.TeamWinner = teamWinner(roster, teamWins)
	finishGender(&res.GameGender)
	finishGender(&res.RoundGender)

	for i, p := range roster.Players {
		res.PointsPerGame = append(res.PointsPerGame, PlayerPoints{
			Player: p.Name,
			Team:   p.Team.Name,
			Points: points[i],
		})
	}

	for t, team := range roster.Teams {
		res.TeamScores = append(res.TeamScores, TeamDistribution{
			Team:     team.Name,
			Mean:     scores[t].Mean(),
			Variance: scores[t].Variance(),
			StdDev:   scores[t].StdDev(),
			Scores:   toInts(scores[t].Values),
		})
		res.SpecialShots = append(res.SpecialShots, specialShots(roster, team, &special[t], &gained[t]))
	}

	res.TiedRounds.Total = res.Rounds
	res.TiedRounds.NonTied = res.Rounds - res.TiedRounds.Tied
	if res.Rounds > 0 {
		res.TiedRounds.Percent = 100 * float64(res.TiedRounds.Tied) / float64(res.Rounds)
		res.TiedRounds.NonTiedPercent = 100 - res.TiedRounds.Percent
	}
	return res
}

func mostExperienced(roster *tournament.Roster) PlayerCount {
	var best *tournament.Player
	for _, p := range roster.Players {
		if best == nil || p.Experience > best.Experience {
			best = p
		}
	}
	if best == nil {
		return PlayerCount{}
	}
	return PlayerCount{Player: best.Name, Team: best.Team.Name, Count: best.Experience}
}

func teamWinner(roster *tournament.Roster, wins []int) TeamWinner {
	var out TeamWinner
	if len(roster.Teams) == 0 {
		return out
	}
	for i, t := range roster.Teams {
		out.Wins = append(out.Wins, TeamCount{Team: t.Name, Count: wins[i]})
	}

	winner := roster.Teams[len(roster.Teams)-1]
	if wins[0] > wins[len(wins)-1] {
		winner = roster.Teams[0]
	}
	out.Team = winner.Name
	for _, p := range roster.TeamPlayers(winner) {
		out.PlayerPoints = append(out.PlayerPoints, PlayerCount{Player: p.Name, Team: winner.Name, Count: p.TotalPoints})
	}
	return out
}

func specialShots(roster *tournament.Roster, team *tournament.Team, perGame, gainedPerGame *Series) SpecialShots {
	gained := 0
	for _, p := range roster.TeamPlayers(team) {
		gained += p.Experience - tournament.InitialExperience
	}

	out := SpecialShots{
		Team:             team.Name,
		Total:            int(perGame.Sum),
		PerGame:          perGame.Mean(),
		ExperienceGained: gained,
		Correlation:      perGame.Correlation(gainedPerGame),
	}
	if gained > 0 {
		out.Factor = float64(out.Total*gained) / 1000
	}
	return out
}

func countGender(g *GenderWins, p *tournament.Player) {
	if p.Male {
		g.Male++
	} else {
		g.Female++
	}
}

func finishGender(g *GenderWins) {
	if g.Male > g.Female {
		g.Gender, g.Wins = Male, g.Male
	} else {
		g.Gender, g.Wins = Female, g.Female
	}
}

func toInts(values []float64) []int {
	out := make([]int, len(values))
	for i, v := range values {
		out[i] = int(v)
	}
	return out
}

// tally counts players in first-encounter order.
type tally struct {
	players []*tournament.Player
	counts  map[*tournament.Player]int
}

func newTally() *tally {
	return &tally{counts: make(map[*tournament.Player]int)}
}

func (t *tally) add(p *tournament.Player) {
	if _, ok := t.counts[p]; !ok {
		t.players = append(t.players, p)
	}
	t.counts[p]++
}

func (t *tally) top() (*tournament.Player, int) {
	var best *tournament.Player
	most := 0
	for _, p := range t.players {
		if c := t.counts[p]; c > most {
			best, most = p, c
		}
	}
	return best, most
}
