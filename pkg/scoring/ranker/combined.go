package ranker

import (
	"slices"

	"github.com/samber/lo"

	"github.com/mpapenbr/regatta-score-manager-go/log"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/model"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/regatta"
)

// raceNumbers returns the distinct race numbers in ascending order. Without
// races all combined scored race numbers are used.
func raceNumbers(reg regatta.Data, races []*model.Race) []int {
	if races == nil {
		return reg.GetCombinedScoredRaces()
	}
	ret := lo.Uniq(lo.Map(races, func(r *model.Race, _ int) int { return r.Number }))
	slices.Sort(ret)
	return ret
}

// CombinedRanker ranks whole teams over all divisions. A tiebreak column is
// a race number, the team's result in it is the sum over its divisions.
type CombinedRanker struct {
	cfg config
}

var _ Ranker = (*CombinedRanker)(nil)

func NewCombinedRanker(opts ...Option) *CombinedRanker {
	return &CombinedRanker{cfg: newConfig(opts...)}
}

func (r *CombinedRanker) Rank(reg regatta.Data, races []*model.Race) ([]*model.Rank, error) {
	numbers := raceNumbers(reg, races)
	divs := reg.GetDivisions()
	if races != nil {
		divs = divisionsOf(races)
	}
	teams := reg.GetTeams()

	places := func(rk *model.Rank, col int) []int {
		ret := make([]int, 0, len(divs))
		for _, d := range divs {
			race := reg.GetRace(d, numbers[col])
			if race == nil {
				continue
			}
			if f := reg.GetFinish(race, rk.Team); f != nil && f.IsScored() {
				ret = append(ret, f.ScoreValue())
			}
		}
		return ret
	}
	score := func(rk *model.Rank, col int) (int, bool) {
		p := places(rk, col)
		if len(p) == 0 {
			return 0, false
		}
		return lo.Sum(p), true
	}

	ranks := make([]*model.Rank, 0, len(teams))
	for _, t := range teams {
		rk := model.NewRank(t, 0, "")
		for col := range numbers {
			rk.Score += lo.Sum(places(rk, col))
		}
		rk.Score += penaltyPoints(reg, t, divs)
		ranks = append(ranks, rk)
	}
	ret := rankAll(ranks, raceSet{
		columns: len(numbers),
		fleet:   len(teams) * len(divs),
		score:   score,
		places:  places,
	})
	r.cfg.log.Debug("ranked combined teams",
		log.Int("teams", len(ret)),
		log.Int("raceNumbers", len(numbers)))
	return ret, nil
}

// SpecialCombinedRanker ranks every (team, division) pair of a combined
// regatta within its division. The ranks of each division are numbered
// from 1; the result lists the divisions in order.
type SpecialCombinedRanker struct {
	cfg config
}

var _ Ranker = (*SpecialCombinedRanker)(nil)

func NewSpecialCombinedRanker(opts ...Option) *SpecialCombinedRanker {
	return &SpecialCombinedRanker{cfg: newConfig(opts...)}
}

func (r *SpecialCombinedRanker) Rank(reg regatta.Data, races []*model.Race) (
	[]*model.Rank, error,
) {
	numbers := raceNumbers(reg, races)
	divs := reg.GetDivisions()
	if races != nil {
		divs = divisionsOf(races)
	}
	teams := reg.GetTeams()

	// racesByDiv[division][i] is the race with number numbers[i] in that
	// division, nil if the division has no such race
	racesByDiv := make(map[model.Division][]*model.Race, len(divs))
	for _, d := range divs {
		list := make([]*model.Race, len(numbers))
		for i, n := range numbers {
			list[i] = reg.GetRace(d, n)
		}
		racesByDiv[d] = list
	}
	score := func(rk *model.Rank, col int) (int, bool) {
		race := racesByDiv[rk.Division][col]
		if race == nil {
			return 0, false
		}
		f := reg.GetFinish(race, rk.Team)
		if f == nil || !f.IsScored() {
			return 0, false
		}
		return f.ScoreValue(), true
	}
	rs := raceSet{
		columns: len(numbers),
		fleet:   len(teams) * len(reg.GetDivisions()),
		score:   score,
		places:  singlePlace(score),
	}

	ret := make([]*model.Rank, 0, len(teams)*len(divs))
	for _, d := range divs {
		ranks := make([]*model.Rank, 0, len(teams))
		for _, t := range teams {
			rk := &model.Rank{Team: t, Division: d}
			for col := range numbers {
				if v, ok := score(rk, col); ok {
					rk.Score += v
				}
			}
			if p := reg.GetTeamPenalty(t, d); p != nil {
				rk.Score += p.Points()
			}
			ranks = append(ranks, rk)
		}
		ret = append(ret, rankAll(ranks, rs)...)
	}
	r.cfg.log.Debug("ranked division fragments",
		log.Int("entries", len(ret)),
		log.Int("divisions", len(divs)))
	return ret, nil
}
