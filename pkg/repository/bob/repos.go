package bob

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/stephenafamo/bob"

	"github.com/mpapenbr/regatta-score-manager-go/pkg/repository/api"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/repository/bob/finish"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/repository/bob/penalty"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/repository/bob/race"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/repository/bob/regatta"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/repository/bob/standing"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/repository/bob/team"
)

type bobRepositories struct {
	regattaRepository     api.RegattaRepository
	teamRepository        api.TeamRepository
	raceRepository        api.RaceRepository
	finishRepository      api.FinishRepository
	teamPenaltyRepository api.TeamPenaltyRepository
	standingRepository    api.StandingRepository
}

var _ api.Repositories = (*bobRepositories)(nil)

func NewRepositoriesFromPool(pool *pgxpool.Pool) api.Repositories {
	db := bob.NewDB(stdlib.OpenDBFromPool(pool))
	return NewRepositories(db)
}

func NewRepositories(db bob.Executor) api.Repositories {
	return &bobRepositories{
		regattaRepository:     regatta.NewRegattaRepository(db),
		teamRepository:        team.NewTeamRepository(db),
		raceRepository:        race.NewRaceRepository(db),
		finishRepository:      finish.NewFinishRepository(db),
		teamPenaltyRepository: penalty.NewTeamPenaltyRepository(db),
		standingRepository:    standing.NewStandingRepository(db),
	}
}

func (r *bobRepositories) Regatta() api.RegattaRepository {
	return r.regattaRepository
}

func (r *bobRepositories) Team() api.TeamRepository {
	return r.teamRepository
}

func (r *bobRepositories) Race() api.RaceRepository {
	return r.raceRepository
}

func (r *bobRepositories) Finish() api.FinishRepository {
	return r.finishRepository
}

func (r *bobRepositories) TeamPenalty() api.TeamPenaltyRepository {
	return r.teamPenaltyRepository
}

func (r *bobRepositories) Standing() api.StandingRepository {
	return r.standingRepository
}
