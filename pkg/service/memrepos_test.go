package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mpapenbr/regatta-score-manager-go/pkg/model"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/notify"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/repository/api"
)

// memRepos keeps rows instead of model pointers. Every load creates fresh
// entities like the database backed repositories do.
type (
	memRepos struct {
		mu         sync.Mutex
		nextID     int
		regattas   map[int]model.RegattaInfo
		teams      []memTeam
		races      []memRace
		finishes   []*memFinish
		penalties  []memPenalty
		ranks      map[string]*model.Rank
		loads      int
		updateErr  error
		updateRuns int
	}
	memTeam struct {
		regattaID int
		team      model.Team
	}
	memRace struct {
		regattaID        int
		id               int
		div              model.Division
		number           int
		team1, team2     int
		ignore1, ignore2 bool
	}
	memFinish struct {
		id, raceID, teamID int
		entered            time.Time
		score              *model.Score
		earned             int
		modifier           *model.FinishModifier
	}
	memPenalty struct {
		teamID int
		p      model.TeamPenalty
	}
	memRegattaRepo     struct{ m *memRepos }
	memTeamRepo        struct{ m *memRepos }
	memRaceRepo        struct{ m *memRepos }
	memFinishRepo      struct{ m *memRepos }
	memTeamPenaltyRepo struct{ m *memRepos }
	memStandingRepo    struct{ m *memRepos }
)

var _ api.Repositories = (*memRepos)(nil)

func newMemRepos() *memRepos {
	return &memRepos{
		regattas: make(map[int]model.RegattaInfo),
		ranks:    make(map[string]*model.Rank),
	}
}

func (m *memRepos) Regatta() api.RegattaRepository         { return memRegattaRepo{m} }
func (m *memRepos) Team() api.TeamRepository               { return memTeamRepo{m} }
func (m *memRepos) Race() api.RaceRepository               { return memRaceRepo{m} }
func (m *memRepos) Finish() api.FinishRepository           { return memFinishRepo{m} }
func (m *memRepos) TeamPenalty() api.TeamPenaltyRepository { return memTeamPenaltyRepo{m} }
func (m *memRepos) Standing() api.StandingRepository       { return memStandingRepo{m} }

func (m *memRepos) id() int {
	m.nextID++
	return m.nextID
}

func (r memRegattaRepo) Create(_ context.Context, info *model.RegattaInfo) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	info.ID = r.m.id()
	if info.Key == uuid.Nil {
		info.Key = uuid.New()
	}
	r.m.regattas[info.ID] = *info
	return nil
}

func (r memRegattaRepo) LoadByID(_ context.Context, id int) (*model.RegattaInfo, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.loads++
	info, ok := r.m.regattas[id]
	if !ok {
		return nil, api.ErrNoRows
	}
	return &info, nil
}

func (r memRegattaRepo) DeleteByID(_ context.Context, id int) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.regattas[id]; !ok {
		return 0, nil
	}
	delete(r.m.regattas, id)
	return 1, nil
}

func (r memTeamRepo) Create(_ context.Context, regattaID int, team *model.Team) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	team.ID = r.m.id()
	r.m.teams = append(r.m.teams, memTeam{regattaID: regattaID, team: *team})
	return nil
}

func (r memTeamRepo) LoadByRegattaID(_ context.Context, regattaID int) ([]*model.Team, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	ret := make([]*model.Team, 0)
	for i := range r.m.teams {
		if r.m.teams[i].regattaID == regattaID {
			t := r.m.teams[i].team
			ret = append(ret, &t)
		}
	}
	return ret, nil
}

func (r memTeamRepo) UpdateRank(_ context.Context, team *model.Team) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i := range r.m.teams {
		if r.m.teams[i].team.ID == team.ID {
			r.m.teams[i].team = *team
			return nil
		}
	}
	return api.ErrNoRows
}

func (r memRaceRepo) Create(_ context.Context, regattaID int, race *model.Race) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	race.ID = r.m.id()
	row := memRace{
		regattaID: regattaID,
		id:        race.ID,
		div:       race.Division,
		number:    race.Number,
		ignore1:   race.TrIgnore1,
		ignore2:   race.TrIgnore2,
	}
	if race.TrTeam1 != nil {
		row.team1 = race.TrTeam1.ID
	}
	if race.TrTeam2 != nil {
		row.team2 = race.TrTeam2.ID
	}
	r.m.races = append(r.m.races, row)
	return nil
}

func (r memRaceRepo) LoadByRegattaID(_ context.Context, regattaID int, res api.Resolver) (
	[]*model.Race, error,
) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	ret := make([]*model.Race, 0)
	for _, row := range r.m.races {
		if row.regattaID != regattaID {
			continue
		}
		race := &model.Race{
			ID: row.id, Division: row.div, Number: row.number,
			TrIgnore1: row.ignore1, TrIgnore2: row.ignore2,
		}
		var err error
		if row.team1 != 0 {
			if race.TrTeam1, err = res.Team(row.team1); err != nil {
				return nil, err
			}
		}
		if row.team2 != 0 {
			if race.TrTeam2, err = res.Team(row.team2); err != nil {
				return nil, err
			}
		}
		ret = append(ret, race)
	}
	return ret, nil
}

func (r memFinishRepo) Create(_ context.Context, f *model.Finish) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	f.ID = r.m.id()
	row := &memFinish{id: f.ID, raceID: f.Race.ID, teamID: f.Team.ID, entered: f.Entered}
	if m := f.Modifier(); m != nil {
		c := *m
		row.modifier = &c
	}
	r.m.finishes = append(r.m.finishes, row)
	return nil
}

func (r memFinishRepo) LoadByRegattaID(_ context.Context, _ int, res api.Resolver) (
	[]*model.Finish, error,
) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	ret := make([]*model.Finish, 0)
	for _, row := range r.m.finishes {
		race, err := res.Race(row.raceID)
		if err != nil {
			// finish of another regatta
			continue
		}
		team, err := res.Team(row.teamID)
		if err != nil {
			return nil, err
		}
		f := model.NewFinish(race, team, row.entered)
		f.ID = row.id
		f.Earned = row.earned
		if row.score != nil {
			f.SetScore(*row.score)
		}
		if row.modifier != nil {
			c := *row.modifier
			f.SetModifier(&c)
		}
		ret = append(ret, f)
	}
	return ret, nil
}

func (r memFinishRepo) SetModifier(_ context.Context, finishID int, m *model.FinishModifier) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, row := range r.m.finishes {
		if row.id == finishID {
			row.modifier = nil
			if m != nil {
				c := *m
				row.modifier = &c
			}
			return nil
		}
	}
	return api.ErrNoRows
}

func (r memFinishRepo) UpdateScores(_ context.Context, finishes []*model.Finish) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.updateRuns++
	if r.m.updateErr != nil {
		return 0, r.m.updateErr
	}
	count := 0
	for _, f := range finishes {
		for _, row := range r.m.finishes {
			if row.id != f.ID {
				continue
			}
			row.score = nil
			if f.Score != nil {
				s := *f.Score
				row.score = &s
			}
			row.earned = f.Earned
			count++
		}
	}
	return count, nil
}

func (r memTeamPenaltyRepo) Create(_ context.Context, p *model.TeamPenalty) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.penalties = append(r.m.penalties, memPenalty{teamID: p.Team.ID, p: *p})
	return nil
}

func (r memTeamPenaltyRepo) LoadByRegattaID(_ context.Context, _ int, res api.Resolver) (
	[]*model.TeamPenalty, error,
) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	ret := make([]*model.TeamPenalty, 0)
	for _, row := range r.m.penalties {
		team, err := res.Team(row.teamID)
		if err != nil {
			continue
		}
		p := row.p
		p.Team = team
		ret = append(ret, &p)
	}
	return ret, nil
}

func (r memStandingRepo) UpsertDivisionRanks(_ context.Context, ranks []*model.Rank) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, rk := range ranks {
		if rk.Division == "" {
			continue
		}
		c := *rk
		r.m.ranks[rk.Team.String()+"/"+string(rk.Division)] = &c
	}
	return nil
}

func (r memStandingRepo) LoadDivisionRanks(_ context.Context, _ int, _ api.Resolver) (
	[]*model.Rank, error,
) {
	return nil, errors.New("not implemented")
}

// recordingPublisher keeps the published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []*notify.StandingsChanged
	err    error
}

func (p *recordingPublisher) PublishStandingsChanged(
	_ context.Context,
	evt *notify.StandingsChanged,
) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) Close() {}
