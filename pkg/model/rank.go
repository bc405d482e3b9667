package model

import "github.com/shopspring/decimal"

// Rank is the position of a team (or a team's division fragment) in a ranking.
// Score and Explanation are accumulator slots updated while ties are resolved.
type Rank struct {
	Team        *Team
	Division    Division // empty for team-level ranks
	Score       int
	Explanation string
	Rank        int
}

func NewRank(team *Team, score int, explanation string) *Rank {
	return &Rank{Team: team, Score: score, Explanation: explanation}
}

// Name is used for the alphabetical tiebreak.
func (r *Rank) Name() string {
	if r.Division == "" {
		return r.Team.String()
	}
	return r.Team.String() + " " + string(r.Division)
}

// TeamRank is the win/loss/tie record of a team in team racing.
type TeamRank struct {
	Team        *Team
	Wins        int
	Losses      int
	Ties        int
	Rank        int
	Explanation string
}

func (r *TeamRank) Total() int {
	return r.Wins + r.Losses + r.Ties
}

// WinPercentage returns wins / total; zero without any races
func (r *TeamRank) WinPercentage() decimal.Decimal {
	total := r.Total()
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(r.Wins)).Div(decimal.NewFromInt(int64(total)))
}
