package tournament

// ShotScore maps a uniform draw to a score using the shooter's
// gender-specific distribution.
func ShotScore(male bool, u float64) int {
	if male {
		switch {
		case u <= 0.15:
			return 10
		case u <= 0.45:
			return 9
		case u <= 0.92:
			return 8
		default:
			return 0
		}
	}
	switch {
	case u <= 0.25:
		return 10
	case u <= 0.65:
		return 9
	case u <= 0.95:
		return 8
	default:
		return 0
	}
}

// TeamScores sums NS, LS and AS shot scores per team, indexed like r.Teams.
func (r *Roster) TeamScores(shots []Shot) []int {
	scores := make([]int, len(r.Teams))
	for _, s := range shots {
		if !s.Type.CountsForTeam() {
			continue
		}
		if i := r.teamIndex(s.Player.Team); i >= 0 {
			scores[i] += s.Score
		}
	}
	return scores
}

// PlayerScores sums NS, ES and AS shot scores per player, indexed like r.Players.
func (r *Roster) PlayerScores(shots []Shot) []int {
	index := make(map[*Player]int, len(r.Players))
	for i, p := range r.Players {
		index[p] = i
	}
	scores := make([]int, len(r.Players))
	for _, s := range shots {
		if !s.Type.CountsForPlayer() {
			continue
		}
		if i, ok := index[s.Player]; ok {
			scores[i] += s.Score
		}
	}
	return scores
}

// ResolveRound returns the individual winner (first highest scorer in roster
// order) and the winning team, or nil when the top team score is shared.
func (r *Roster) ResolveRound(shots []Shot) (*Player, *Team) {
	var winner *Player
	best := -1
	for i, score := range r.PlayerScores(shots) {
		if score > best {
			best = score
			winner = r.Players[i]
		}
	}

	var team *Team
	top, shared := -1, false
	for i, score := range r.TeamScores(shots) {
		switch {
		case score > top:
			top, shared, team = score, false, r.Teams[i]
		case score == top:
			shared = true
		}
	}
	if shared {
		team = nil
	}
	return winner, team
}
