package regatta

import (
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/mpapenbr/regatta-score-manager-go/pkg/model"
)

var (
	// ErrNotLoaded is returned when a referenced entity is not part of the snapshot.
	ErrNotLoaded    = errors.New("entity not loaded")
	ErrDuplicate    = errors.New("duplicate entry")
	ErrUnknownTeam  = errors.New("team is not part of the regatta")
	ErrUnknownRace  = errors.New("race is not part of the regatta")
	ErrWrongRegatta = errors.New("entity belongs to another regatta")
)

// Data is what scorers and rankers need from a regatta.
type Data interface {
	Info() model.RegattaInfo
	GetTeams() []*model.Team
	GetDivisions() []model.Division
	GetRaces(div model.Division) []*model.Race
	// GetRace returns nil if there is no such race
	GetRace(div model.Division, number int) *model.Race
	// GetFinishes returns the finishes of the race in entry order
	GetFinishes(race *model.Race) []*model.Finish
	// GetFinish returns nil if the team has no finish in the race
	GetFinish(race *model.Race, team *model.Team) *model.Finish
	// GetScoredRaces returns the races having finishes ordered by number.
	// No divisions means all divisions.
	GetScoredRaces(divs ...model.Division) []*model.Race
	// GetCombinedScoredRaces returns the race numbers which have finishes in
	// every one of divs (all divisions if none given).
	GetCombinedScoredRaces(divs ...model.Division) []int
	GetTeamPenalty(team *model.Team, div model.Division) *model.TeamPenalty
	// GetTeamPenalties filters by team and division; nil team or empty
	// division match everything.
	GetTeamPenalties(team *model.Team, div model.Division) []*model.TeamPenalty
	// GetAverageFinishes returns the finishes of div carrying a breakdown
	// without an assigned amount.
	GetAverageFinishes(div model.Division) []*model.Finish
	CommitFinishes(finishes []*model.Finish)
}

// Regatta is an in-memory snapshot implementing Data.
type Regatta struct {
	info      model.RegattaInfo
	teams     []*model.Team
	divisions []model.Division
	races     map[model.Division][]*model.Race
	raceByID  map[int]*model.Race
	teamByID  map[int]*model.Team
	finishes  map[*model.Race][]*model.Finish
	penalties []*model.TeamPenalty
	committed []*model.Finish
	commitSet map[*model.Finish]struct{}
}

var _ Data = (*Regatta)(nil)

type Option func(r *Regatta) error

func WithTeams(teams ...*model.Team) Option {
	return func(r *Regatta) error {
		for _, t := range teams {
			if err := r.AddTeam(t); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithDivisions fixes the divisions of the regatta. Without this option the
// divisions are derived from the races.
func WithDivisions(divs ...model.Division) Option {
	return func(r *Regatta) error {
		for _, d := range divs {
			r.addDivision(d)
		}
		return nil
	}
}

func WithRaces(races ...*model.Race) Option {
	return func(r *Regatta) error {
		for _, race := range races {
			if err := r.AddRace(race); err != nil {
				return err
			}
		}
		return nil
	}
}

func WithFinishes(finishes ...*model.Finish) Option {
	return func(r *Regatta) error {
		for _, f := range finishes {
			if err := r.AddFinish(f); err != nil {
				return err
			}
		}
		return nil
	}
}

func WithTeamPenalties(penalties ...*model.TeamPenalty) Option {
	return func(r *Regatta) error {
		for _, p := range penalties {
			if err := r.AddTeamPenalty(p); err != nil {
				return err
			}
		}
		return nil
	}
}

func New(info model.RegattaInfo, opts ...Option) (*Regatta, error) {
	r := &Regatta{
		info:      info,
		races:     make(map[model.Division][]*model.Race),
		raceByID:  make(map[int]*model.Race),
		teamByID:  make(map[int]*model.Team),
		finishes:  make(map[*model.Race][]*model.Finish),
		commitSet: make(map[*model.Finish]struct{}),
	}
	if r.info.Scoring == "" {
		r.info.Scoring = model.ScoringStandard
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Regatta) AddTeam(t *model.Team) error {
	if lo.Contains(r.teams, t) {
		return fmt.Errorf("%w: team %s", ErrDuplicate, t)
	}
	r.teams = append(r.teams, t)
	if t.ID != 0 {
		r.teamByID[t.ID] = t
	}
	return nil
}

func (r *Regatta) AddRace(race *model.Race) error {
	if r.GetRace(race.Division, race.Number) != nil {
		return fmt.Errorf("%w: race %s", ErrDuplicate, race)
	}
	r.addDivision(race.Division)
	list := append(r.races[race.Division], race)
	slices.SortStableFunc(list, model.CompareRaces)
	r.races[race.Division] = list
	if race.ID != 0 {
		r.raceByID[race.ID] = race
	}
	return nil
}

func (r *Regatta) addDivision(d model.Division) {
	if slices.Contains(r.divisions, d) {
		return
	}
	r.divisions = append(r.divisions, d)
	slices.SortFunc(r.divisions, model.Division.Compare)
}

// AddFinish adds a finish. The race and team must be part of the regatta and
// there must be no other finish for the same race and team.
func (r *Regatta) AddFinish(f *model.Finish) error {
	if !lo.Contains(r.teams, f.Team) {
		return fmt.Errorf("%w: %v", ErrUnknownTeam, f.Team)
	}
	if !lo.Contains(r.races[f.Race.Division], f.Race) {
		return fmt.Errorf("%w: %v", ErrUnknownRace, f.Race)
	}
	if r.GetFinish(f.Race, f.Team) != nil {
		return fmt.Errorf("%w: finish for %s in %s", ErrDuplicate, f.Team, f.Race)
	}
	r.finishes[f.Race] = append(r.finishes[f.Race], f)
	return nil
}

func (r *Regatta) AddTeamPenalty(p *model.TeamPenalty) error {
	if !lo.Contains(r.teams, p.Team) {
		return fmt.Errorf("%w: %v", ErrUnknownTeam, p.Team)
	}
	r.penalties = append(r.penalties, p)
	return nil
}

// Team resolves a team reference by id.
func (r *Regatta) Team(id int) (*model.Team, error) {
	if t, ok := r.teamByID[id]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: team %d in regatta %d", ErrNotLoaded, id, r.info.ID)
}

// Race resolves a race reference by id.
func (r *Regatta) Race(id int) (*model.Race, error) {
	if race, ok := r.raceByID[id]; ok {
		return race, nil
	}
	return nil, fmt.Errorf("%w: race %d in regatta %d", ErrNotLoaded, id, r.info.ID)
}

func (r *Regatta) Info() model.RegattaInfo {
	return r.info
}

func (r *Regatta) GetTeams() []*model.Team {
	return slices.Clone(r.teams)
}

func (r *Regatta) GetDivisions() []model.Division {
	return slices.Clone(r.divisions)
}

func (r *Regatta) GetRaces(div model.Division) []*model.Race {
	return slices.Clone(r.races[div])
}

func (r *Regatta) GetRace(div model.Division, number int) *model.Race {
	for _, race := range r.races[div] {
		if race.Number == number {
			return race
		}
	}
	return nil
}

func (r *Regatta) GetFinishes(race *model.Race) []*model.Finish {
	ret := slices.Clone(r.finishes[race])
	slices.SortStableFunc(ret, func(a, b *model.Finish) int {
		return a.Entered.Compare(b.Entered)
	})
	return ret
}

func (r *Regatta) GetFinish(race *model.Race, team *model.Team) *model.Finish {
	for _, f := range r.finishes[race] {
		if f.Team == team {
			return f
		}
	}
	return nil
}

// AllFinishes returns every finish of the regatta ordered by race and entry.
func (r *Regatta) AllFinishes() []*model.Finish {
	ret := make([]*model.Finish, 0)
	for _, race := range r.GetScoredRaces() {
		ret = append(ret, r.GetFinishes(race)...)
	}
	return ret
}

func (r *Regatta) GetScoredRaces(divs ...model.Division) []*model.Race {
	if len(divs) == 0 {
		divs = r.divisions
	}
	ret := make([]*model.Race, 0)
	for _, d := range divs {
		for _, race := range r.races[d] {
			if len(r.finishes[race]) > 0 {
				ret = append(ret, race)
			}
		}
	}
	slices.SortStableFunc(ret, model.CompareRaces)
	return ret
}

func (r *Regatta) GetCombinedScoredRaces(divs ...model.Division) []int {
	if len(divs) == 0 {
		divs = r.divisions
	}
	if len(divs) == 0 {
		return []int{}
	}
	var ret []int
	for i, d := range divs {
		nums := lo.Map(r.GetScoredRaces(d), func(race *model.Race, _ int) int {
			return race.Number
		})
		if i == 0 {
			ret = nums
		} else {
			ret = lo.Intersect(ret, nums)
		}
	}
	slices.Sort(ret)
	return ret
}

func (r *Regatta) GetTeamPenalty(team *model.Team, div model.Division) *model.TeamPenalty {
	for _, p := range r.penalties {
		if p.Team == team && p.Division == div {
			return p
		}
	}
	return nil
}

func (r *Regatta) GetTeamPenalties(team *model.Team, div model.Division) []*model.TeamPenalty {
	return lo.Filter(r.penalties, func(p *model.TeamPenalty, _ int) bool {
		return (team == nil || p.Team == team) && (div == "" || p.Division == div)
	})
}

func (r *Regatta) GetAverageFinishes(div model.Division) []*model.Finish {
	ret := make([]*model.Finish, 0)
	for _, race := range r.races[div] {
		for _, f := range r.GetFinishes(race) {
			if b := f.Breakdown(); b != nil && !b.IsAssigned() {
				ret = append(ret, f)
			}
		}
	}
	return ret
}

// CommitFinishes marks the finishes as changed. Repeated commits of the same
// finish are recorded once.
func (r *Regatta) CommitFinishes(finishes []*model.Finish) {
	for _, f := range finishes {
		if _, ok := r.commitSet[f]; ok {
			continue
		}
		r.commitSet[f] = struct{}{}
		r.committed = append(r.committed, f)
	}
}

// Committed returns the finishes committed since the last reset.
func (r *Regatta) Committed() []*model.Finish {
	return slices.Clone(r.committed)
}

func (r *Regatta) ResetCommitted() {
	r.committed = nil
	r.commitSet = make(map[*model.Finish]struct{})
}
