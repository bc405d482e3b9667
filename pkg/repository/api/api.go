package api

import (
	"context"
	"errors"

	"github.com/mpapenbr/regatta-score-manager-go/pkg/model"
)

var ErrNoRows = errors.New("no rows in result set")

type Repositories interface {
	Regatta() RegattaRepository
	Team() TeamRepository
	Race() RaceRepository
	Finish() FinishRepository
	TeamPenalty() TeamPenaltyRepository
	Standing() StandingRepository
}

// Resolver maps stored ids to the entities of an already loaded regatta.
// Unknown ids yield an error wrapping regatta.ErrNotLoaded.
type Resolver interface {
	Team(id int) (*model.Team, error)
	Race(id int) (*model.Race, error)
}

type RegattaRepository interface {
	// Create stores the regatta and sets its ID and Key
	Create(ctx context.Context, info *model.RegattaInfo) error
	LoadByID(ctx context.Context, id int) (*model.RegattaInfo, error)
	DeleteByID(ctx context.Context, id int) (int, error)
}

type TeamRepository interface {
	Create(ctx context.Context, regattaID int, team *model.Team) error
	LoadByRegattaID(ctx context.Context, regattaID int) ([]*model.Team, error)
	// UpdateRank stores the Dt* fields of the team
	UpdateRank(ctx context.Context, team *model.Team) error
}

type RaceRepository interface {
	Create(ctx context.Context, regattaID int, race *model.Race) error
	// LoadByRegattaID needs the teams of the regatta to resolve team racing pairs
	LoadByRegattaID(ctx context.Context, regattaID int, res Resolver) ([]*model.Race, error)
}

type FinishRepository interface {
	Create(ctx context.Context, finish *model.Finish) error
	// LoadByRegattaID returns the finishes including modifiers and stored scores
	LoadByRegattaID(ctx context.Context, regattaID int, res Resolver) ([]*model.Finish, error)
	// SetModifier replaces the modifier of a finish. nil removes it.
	SetModifier(ctx context.Context, finishID int, m *model.FinishModifier) error
	// UpdateScores stores score, place, explanation and earned of the finishes.
	// Returns the number of updated rows.
	UpdateScores(ctx context.Context, finishes []*model.Finish) (int, error)
}

type TeamPenaltyRepository interface {
	Create(ctx context.Context, penalty *model.TeamPenalty) error
	LoadByRegattaID(ctx context.Context, regattaID int, res Resolver) (
		[]*model.TeamPenalty, error)
}

// StandingRepository stores the ranks per team and division.
type StandingRepository interface {
	UpsertDivisionRanks(ctx context.Context, ranks []*model.Rank) error
	LoadDivisionRanks(ctx context.Context, regattaID int, res Resolver) ([]*model.Rank, error)
}

type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
