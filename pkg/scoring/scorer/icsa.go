package scorer

import (
	"github.com/samber/lo"

	"github.com/mpapenbr/regatta-score-manager-go/log"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/model"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/regatta"
)

// ICSAScorer scores every division on its own. The fleet is the number of
// teams in the regatta.
type ICSAScorer struct {
	cfg config
}

var _ Scorer = (*ICSAScorer)(nil)

func NewICSAScorer(opts ...Option) *ICSAScorer {
	return &ICSAScorer{cfg: newConfig(opts...)}
}

func (s *ICSAScorer) Score(reg regatta.Data, race *model.Race) error {
	if race == nil {
		return ErrNilRace
	}
	fleet := len(reg.GetTeams())
	finishes := reg.GetFinishes(race)
	walk(finishes, fleet, fleetPenalty)

	// averages depend on every scored race of the division, so all pending
	// finishes of the division are resolved again
	scored := lo.Filter(reg.GetAverageFinishes(race.Division),
		func(f *model.Finish, _ int) bool { return f.IsScored() })
	divRaces := reg.GetScoredRaces(race.Division)
	resolveAverages(scored, func(f *model.Finish) []*model.Finish {
		ret := make([]*model.Finish, 0, len(divRaces))
		for _, r := range divRaces {
			if o := reg.GetFinish(r, f.Team); o != nil {
				ret = append(ret, o)
			}
		}
		return ret
	})

	touched := append(finishes, lo.Without(scored, finishes...)...)
	s.cfg.log.Debug("scored race",
		log.String("race", race.String()),
		log.Int("fleet", fleet),
		log.Int("finishes", len(finishes)),
		log.Int("averaged", len(scored)))
	reg.CommitFinishes(touched)
	return nil
}
