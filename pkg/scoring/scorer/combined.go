package scorer

import (
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/mpapenbr/regatta-score-manager-go/log"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/model"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/regatta"
)

// TeamRacingPenalty is added to the earned place of a penalized finish in
// team racing if the penalty carries no amount.
const TeamRacingPenalty = 6

// pooledScorer scores all divisions sharing a race number as one fleet.
type pooledScorer struct {
	cfg      config
	name     string
	fleet    func(reg regatta.Data) int
	penalize penaltyFunc
}

func (s *pooledScorer) Score(reg regatta.Data, race *model.Race) error {
	if race == nil {
		return ErrNilRace
	}
	divs := reg.GetDivisions()
	fleet := s.fleet(reg)

	finishes := make([]*model.Finish, 0, fleet)
	for _, d := range divs {
		if r := reg.GetRace(d, race.Number); r != nil {
			finishes = append(finishes, reg.GetFinishes(r)...)
		}
	}
	if len(finishes) == 0 {
		s.cfg.log.Debug("no finishes for race number", log.Int("number", race.Number))
		return nil
	}
	if len(finishes) != fleet {
		return fmt.Errorf("%w: race %d has %d of %d finishes",
			ErrIncompleteCombinedRace, race.Number, len(finishes), fleet)
	}
	slices.SortStableFunc(finishes, func(a, b *model.Finish) int {
		return a.Entered.Compare(b.Entered)
	})
	walk(finishes, fleet, s.penalize)

	numbers := reg.GetCombinedScoredRaces(divs...)
	pending := make([]*model.Finish, 0)
	for _, d := range divs {
		pending = append(pending, lo.Filter(reg.GetAverageFinishes(d),
			func(f *model.Finish, _ int) bool {
				return f.IsScored() && slices.Contains(numbers, f.Race.Number)
			})...)
	}
	resolveAverages(pending, func(f *model.Finish) []*model.Finish {
		ret := make([]*model.Finish, 0, len(numbers))
		for _, n := range numbers {
			if r := reg.GetRace(f.Race.Division, n); r != nil {
				if o := reg.GetFinish(r, f.Team); o != nil {
					ret = append(ret, o)
				}
			}
		}
		return ret
	})

	touched := append(finishes, lo.Without(pending, finishes...)...)
	s.cfg.log.Debug("scored race number",
		log.String("scorer", s.name),
		log.Int("number", race.Number),
		log.Int("fleet", fleet),
		log.Int("averaged", len(pending)))
	reg.CommitFinishes(touched)
	return nil
}

// CombinedScorer pools the finishes of all divisions sharing a race number
// into one fleet of teams times divisions.
type CombinedScorer struct {
	pooledScorer
}

var _ Scorer = (*CombinedScorer)(nil)

func NewCombinedScorer(opts ...Option) *CombinedScorer {
	return &CombinedScorer{pooledScorer{
		cfg:  newConfig(opts...),
		name: "combined",
		fleet: func(reg regatta.Data) int {
			return len(reg.GetTeams()) * len(reg.GetDivisions())
		},
		penalize: fleetPenalty,
	}}
}

// TeamScorer scores a team race: the boats of both teams in all divisions
// form the fleet. Penalties add to the earned place and always displace.
type TeamScorer struct {
	pooledScorer
}

var _ Scorer = (*TeamScorer)(nil)

func NewTeamScorer(opts ...Option) *TeamScorer {
	return &TeamScorer{pooledScorer{
		cfg:  newConfig(opts...),
		name: "team",
		fleet: func(reg regatta.Data) int {
			return 2 * len(reg.GetDivisions())
		},
		penalize: teamPenalty,
	}}
}

func teamPenalty(p *model.FinishModifier, counter, _ int) (model.Score, bool) {
	amount := TeamRacingPenalty
	if p.IsAssigned() {
		amount = p.Amount
	}
	return model.NewPlacedScore(counter+amount, p.Type,
		explain(fmt.Sprintf("(%d, +%d)", counter+amount, amount), p.Comments)), true
}
