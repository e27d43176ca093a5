package tournament

import (
	"errors"
	"fmt"

	"github.com/lox/archerysim/internal/numstream"
)

const (
	// RoundsPerGame is the fixed number of rounds in a game.
	RoundsPerGame = 10
	// PlayersPerTeam is the standard team size.
	PlayersPerTeam = 5
	// InitialExperience is every player's starting experience.
	InitialExperience = 10
	// ExperienceGain is awarded to the winner of each round.
	ExperienceGain = 3
	// VeteranExperience switches a player to the flat endurance rule.
	VeteranExperience = 19
	// ShotCost is the endurance spent on each normal shot.
	ShotCost = 5
)

// Team names.
const (
	TeamA = "Team A"
	TeamB = "Team B"
)

// ErrEmptyRoster is returned for rosters that cannot play a round.
var ErrEmptyRoster = errors.New("roster needs two teams with at least one player each")

// ErrNegativeGames is returned when a run is configured with fewer than zero games.
var ErrNegativeGames = errors.New("game count must not be negative")

// Team is immutable and identified by name.
type Team struct {
	Name string
}

// Player is a team member. Experience and TotalPoints are run-scoped and
// only ever increase, except when a runner rolls back an abandoned game.
type Player struct {
	Name              string
	Team              *Team
	Male              bool
	OriginalEndurance int
	Experience        int
	TotalPoints       int
}

// Gender returns "male" or "female".
func (p *Player) Gender() string {
	if p.Male {
		return "male"
	}
	return "female"
}

// ShotType classifies a shot by the totals it counts toward.
type ShotType int

const (
	NormalShot    ShotType = iota // NS
	LuckyShot                     // LS
	AdvantageShot                 // AS
	ExtraShot                     // ES
)

func (t ShotType) String() string {
	switch t {
	case NormalShot:
		return "NS"
	case LuckyShot:
		return "LS"
	case AdvantageShot:
		return "AS"
	case ExtraShot:
		return "ES"
	default:
		return fmt.Sprintf("ShotType(%d)", int(t))
	}
}

// CountsForTeam reports whether the shot adds to its team's score.
func (t ShotType) CountsForTeam() bool {
	return t == NormalShot || t == LuckyShot || t == AdvantageShot
}

// CountsForPlayer reports whether the shot adds to its player's individual score.
func (t ShotType) CountsForPlayer() bool {
	return t == NormalShot || t == ExtraShot || t == AdvantageShot
}

// Special reports whether the shot was a bonus granted by luck.
func (t ShotType) Special() bool {
	return t == LuckyShot || t == AdvantageShot
}

// Shot is an immutable record of one arrow.
type Shot struct {
	Player *Player
	Score  int
	Number int
	Type   ShotType
}

// LuckValue is the luck sample of a round's luckiest player on one team.
type LuckValue struct {
	Player *Player
	Value  float64
}

// EnduranceValue is a player's endurance at the start of a round.
type EnduranceValue struct {
	Player *Player
	Value  int
}

// Round is a resolved round. WinnerTeam is nil when team scores tie.
type Round struct {
	Number     int
	Shots      []Shot
	Luck       []LuckValue
	Endurance  []EnduranceValue
	Winner     *Player
	WinnerTeam *Team
	// TieUnresolved marks a round whose extra-shot tie-break hit its cap.
	TieUnresolved bool
}

// Lucky reports whether p was one of the round's luckiest players.
func (r *Round) Lucky(p *Player) bool {
	for _, lv := range r.Luck {
		if lv.Player == p {
			return true
		}
	}
	return false
}

// EnduranceOf returns p's endurance for the round.
func (r *Round) EnduranceOf(p *Player) (int, bool) {
	for _, ev := range r.Endurance {
		if ev.Player == p {
			return ev.Value, true
		}
	}
	return 0, false
}

// Tied reports whether neither team won the round.
func (r *Round) Tied() bool {
	return r.WinnerTeam == nil
}

// Game is ten resolved rounds plus the game-level outcome.
type Game struct {
	Number     int
	Rounds     []Round
	WinnerTeam *Team
	Winner     *Player
	Luckiest   *Player
}

// Roster is the run-scoped accumulator: the two teams and their players, in
// a fixed order that every tie-break relies on.
type Roster struct {
	Teams   []*Team
	Players []*Player
}

// NewRoster creates Team A and Team B with playersPerTeam players each. Every
// player consumes two draws: gender, then original endurance in [25, 45).
func NewRoster(stream numstream.Stream, playersPerTeam int) (*Roster, error) {
	if playersPerTeam < 1 {
		return nil, ErrEmptyRoster
	}

	r := &Roster{Teams: []*Team{{Name: TeamA}, {Name: TeamB}}}
	for _, team := range r.Teams {
		for i := 1; i <= playersPerTeam; i++ {
			g, err := stream.Next()
			if err != nil {
				return nil, fmt.Errorf("create player: %w", err)
			}
			e, err := stream.Next()
			if err != nil {
				return nil, fmt.Errorf("create player: %w", err)
			}
			r.Players = append(r.Players, &Player{
				Name:              fmt.Sprintf("Player %d %s", i, team.Name),
				Team:              team,
				Male:              g < 0.5,
				OriginalEndurance: int(25 + (45-25)*e),
				Experience:        InitialExperience,
			})
		}
	}
	return r, nil
}

// Validate checks that the roster can play: exactly two teams, each with at
// least one player, and every player on a roster team.
func (r *Roster) Validate() error {
	if r == nil || len(r.Teams) != 2 {
		return ErrEmptyRoster
	}
	for _, t := range r.Teams {
		if len(r.TeamPlayers(t)) == 0 {
			return fmt.Errorf("%w: %s has no players", ErrEmptyRoster, t.Name)
		}
	}
	for _, p := range r.Players {
		if r.teamIndex(p.Team) < 0 {
			return fmt.Errorf("%w: %s is not on a roster team", ErrEmptyRoster, p.Name)
		}
	}
	return nil
}

// TeamPlayers returns the players of t in roster order.
func (r *Roster) TeamPlayers(t *Team) []*Player {
	var out []*Player
	for _, p := range r.Players {
		if p.Team == t {
			out = append(out, p)
		}
	}
	return out
}

func (r *Roster) teamIndex(t *Team) int {
	for i, team := range r.Teams {
		if team == t {
			return i
		}
	}
	return -1
}
