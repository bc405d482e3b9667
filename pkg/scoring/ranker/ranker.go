// Package ranker turns race scores into standings.
package ranker

import (
	"errors"
	"slices"

	"github.com/samber/lo"

	"github.com/mpapenbr/regatta-score-manager-go/log"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/model"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/regatta"
)

// ErrTeamRaceContract is returned if a team race does not have exactly two
// distinct teams.
var ErrTeamRaceContract = errors.New("team race requires exactly two teams")

// Ranker ranks the teams of a regatta by the given races. A nil races slice
// means every scored race.
type Ranker interface {
	Rank(reg regatta.Data, races []*model.Race) ([]*model.Rank, error)
}

type Option func(c *config)

type config struct {
	log *log.Logger
}

func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		c.log = l
	}
}

func newConfig(opts ...Option) config {
	c := config{log: log.Default().Named("scoring.ranker")}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// ICSARanker ranks teams by the sum of their scores in the races.
type ICSARanker struct {
	cfg config
}

var _ Ranker = (*ICSARanker)(nil)

func NewICSARanker(opts ...Option) *ICSARanker {
	return &ICSARanker{cfg: newConfig(opts...)}
}

func (r *ICSARanker) Rank(reg regatta.Data, races []*model.Race) ([]*model.Rank, error) {
	if races == nil {
		races = reg.GetScoredRaces()
	}
	races = slices.Clone(races)
	slices.SortStableFunc(races, model.CompareRaces)

	teams := reg.GetTeams()
	ranks := make([]*model.Rank, 0, len(teams))
	for _, t := range teams {
		total := 0
		for _, race := range races {
			if f := reg.GetFinish(race, t); f != nil {
				total += f.ScoreValue()
			}
		}
		total += penaltyPoints(reg, t, divisionsOf(races))
		ranks = append(ranks, model.NewRank(t, total, ""))
	}

	score := func(rk *model.Rank, col int) (int, bool) {
		f := reg.GetFinish(races[col], rk.Team)
		if f == nil || !f.IsScored() {
			return 0, false
		}
		return f.ScoreValue(), true
	}
	ret := rankAll(ranks, raceSet{
		columns: len(races),
		fleet:   len(teams),
		score:   score,
		places:  singlePlace(score),
	})
	r.cfg.log.Debug("ranked teams",
		log.Int("teams", len(ret)),
		log.Int("races", len(races)))
	return ret, nil
}

func divisionsOf(races []*model.Race) []model.Division {
	ret := lo.Uniq(lo.Map(races, func(r *model.Race, _ int) model.Division {
		return r.Division
	}))
	slices.SortFunc(ret, model.Division.Compare)
	return ret
}

// penaltyPoints sums the team penalties of t in the given divisions
func penaltyPoints(reg regatta.Data, t *model.Team, divs []model.Division) int {
	total := 0
	for _, d := range divs {
		if p := reg.GetTeamPenalty(t, d); p != nil {
			total += p.Points()
		}
	}
	return total
}

func singlePlace(score func(*model.Rank, int) (int, bool)) func(*model.Rank, int) []int {
	return func(r *model.Rank, col int) []int {
		if v, ok := score(r, col); ok {
			return []int{v}
		}
		return nil
	}
}
