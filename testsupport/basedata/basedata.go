// Package basedata builds sample regattas for tests.
package basedata

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/mpapenbr/regatta-score-manager-go/pkg/model"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/regatta"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/repository/api"
)

func TestTime() time.Time {
	t, _ := time.Parse(time.RFC3339, "2024-04-28T11:10:12Z")
	return t
}

func SampleInfo(format model.ScoringFormat) model.RegattaInfo {
	return model.RegattaInfo{
		Key:       uuid.MustParse("6f1c2a4e-8d0b-4a51-9f3e-0c7d2b9a1e55"),
		Name:      "Sample Regatta",
		Scoring:   format,
		StartDate: TestTime(),
	}
}

// Builder creates an in-memory regatta. Teams and races get ids in order of
// creation, finishes are entered one second apart.
type Builder struct {
	reg     *regatta.Regatta
	teams   []*model.Team
	raceID  int
	entered time.Time
}

// NewBuilder creates a regatta with one team per name.
func NewBuilder(format model.ScoringFormat, names ...string) *Builder {
	reg, err := regatta.New(SampleInfo(format))
	if err != nil {
		log.Fatalf("NewBuilder: %v", err)
	}
	b := &Builder{reg: reg, entered: TestTime()}
	for i, name := range names {
		t := &model.Team{
			ID:     i + 1,
			Name:   name + " 1",
			School: model.School{ID: fmt.Sprintf("S%02d", i+1), Name: name},
		}
		if err := reg.AddTeam(t); err != nil {
			log.Fatalf("NewBuilder: %v", err)
		}
		b.teams = append(b.teams, t)
	}
	return b
}

// Team returns the team with the given 0-based index.
func (b *Builder) Team(i int) *model.Team {
	return b.teams[i]
}

// Race adds a race without finishes.
func (b *Builder) Race(div model.Division, number int) *model.Race {
	b.raceID++
	race := &model.Race{ID: b.raceID, Division: div, Number: number}
	if err := b.reg.AddRace(race); err != nil {
		log.Fatalf("Race: %v", err)
	}
	return race
}

// Finishes enters the finishes of race in the order of the given team
// indexes.
func (b *Builder) Finishes(race *model.Race, order ...int) []*model.Finish {
	ret := make([]*model.Finish, 0, len(order))
	for _, idx := range order {
		b.entered = b.entered.Add(time.Second)
		f := model.NewFinish(race, b.teams[idx], b.entered)
		if err := b.reg.AddFinish(f); err != nil {
			log.Fatalf("Finishes: %v", err)
		}
		ret = append(ret, f)
	}
	return ret
}

// Sail adds a race and its finishes in one step.
func (b *Builder) Sail(div model.Division, number int, order ...int) []*model.Finish {
	return b.Finishes(b.Race(div, number), order...)
}

// TeamRace adds a team race between the teams t1 and t2 in div. order holds
// the team index of each boat in finishing order.
func (b *Builder) TeamRace(div model.Division, number, t1, t2 int, order ...int) *model.Race {
	race := b.Race(div, number)
	race.TrTeam1 = b.teams[t1]
	race.TrTeam2 = b.teams[t2]
	b.Finishes(race, order...)
	return race
}

// Penalize attaches a penalty to f.
func (b *Builder) Penalize(f *model.Finish, typ string, amount int, displace bool) *model.Finish {
	m, err := model.NewPenalty(typ, amount, "", displace)
	if err != nil {
		log.Fatalf("Penalize: %v", err)
	}
	f.SetModifier(m)
	return f
}

// Breakdown attaches a breakdown to f.
func (b *Builder) Breakdown(f *model.Finish, typ string, amount int, displace bool) *model.Finish {
	m, err := model.NewBreakdown(typ, amount, "", displace)
	if err != nil {
		log.Fatalf("Breakdown: %v", err)
	}
	f.SetModifier(m)
	return f
}

// TeamPenalty adds a team penalty with the default amount.
func (b *Builder) TeamPenalty(team int, div model.Division, typ string) *model.TeamPenalty {
	p, err := model.NewTeamPenalty(b.teams[team], div, typ, "")
	if err != nil {
		log.Fatalf("TeamPenalty: %v", err)
	}
	if err := b.reg.AddTeamPenalty(p); err != nil {
		log.Fatalf("TeamPenalty: %v", err)
	}
	return p
}

func (b *Builder) Regatta() *regatta.Regatta {
	return b.reg
}

// SampleFleetRegatta has three teams sailing three races in divisions A
// and B. Team 0 wins every race in A, team 2 every race in B.
func SampleFleetRegatta(format model.ScoringFormat) *Builder {
	b := NewBuilder(format, "Navy", "Yale", "Tufts")
	for n := 1; n <= 3; n++ {
		b.Sail(model.DivisionA, n, 0, 1, 2)
		b.Sail(model.DivisionB, n, 2, 1, 0)
	}
	return b
}

// Persist stores a regatta built in memory. Ids are replaced by the ones
// assigned by the database.
func Persist(ctx context.Context, repos api.Repositories, reg *regatta.Regatta) (
	*model.RegattaInfo, error,
) {
	info := reg.Info()
	info.ID = 0
	if err := repos.Regatta().Create(ctx, &info); err != nil {
		return nil, err
	}
	for _, t := range reg.GetTeams() {
		if err := repos.Team().Create(ctx, info.ID, t); err != nil {
			return nil, err
		}
	}
	for _, d := range reg.GetDivisions() {
		for _, race := range reg.GetRaces(d) {
			if err := repos.Race().Create(ctx, info.ID, race); err != nil {
				return nil, err
			}
		}
	}
	for _, d := range reg.GetDivisions() {
		for _, race := range reg.GetRaces(d) {
			for _, f := range reg.GetFinishes(race) {
				if err := repos.Finish().Create(ctx, f); err != nil {
					return nil, err
				}
			}
		}
	}
	for _, p := range reg.GetTeamPenalties(nil, "") {
		if err := repos.TeamPenalty().Create(ctx, p); err != nil {
			return nil, err
		}
	}
	return &info, nil
}
