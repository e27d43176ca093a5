package tournament

import "fmt"

// PlayGame plays rounds rounds in order and resolves the game. Endurance
// restarts from each player's original value; experience and points carry on.
func (e *Engine) PlayGame(number int, roster *Roster, rounds int) (Game, error) {
	game := Game{Number: number, Rounds: make([]Round, 0, rounds)}
	for i := 0; i < rounds; i++ {
		round, err := e.PlayRound(roster, game.Rounds)
		if err != nil {
			return Game{}, fmt.Errorf("game %d round %d: %w", number, i+1, err)
		}
		game.Rounds = append(game.Rounds, round)
	}
	game.WinnerTeam, game.Winner, game.Luckiest = roster.ResolveGame(game.Rounds)
	return game, nil
}

// ResolveGame returns the winning team (the second team unless the first
// scores strictly more), the player with most round wins and the player who
// was luckiest most often. Player ties go to whoever was encountered first
// in round order, not whoever reached the count first.
func (r *Roster) ResolveGame(rounds []Round) (*Team, *Player, *Player) {
	totals := make([]int, len(r.Teams))
	wins := &tally{}
	luck := &tally{}

	for i := range rounds {
		round := &rounds[i]
		for t, score := range r.TeamScores(round.Shots) {
			totals[t] += score
		}
		for _, lv := range round.Luck {
			luck.add(lv.Player)
		}
		wins.add(round.Winner)
	}

	team := r.Teams[len(r.Teams)-1]
	if totals[0] > totals[len(totals)-1] {
		team = r.Teams[0]
	}
	return team, wins.top(), luck.top()
}

// tally counts players in first-encounter order.
type tally struct {
	players []*Player
	counts  []int
}

func (t *tally) add(p *Player) {
	for i, q := range t.players {
		if q == p {
			t.counts[i]++
			return
		}
	}
	t.players = append(t.players, p)
	t.counts = append(t.counts, 1)
}

func (t *tally) top() *Player {
	var best *Player
	most := 0
	for i, c := range t.counts {
		if c > most {
			most, best = c, t.players[i]
		}
	}
	return best
}
