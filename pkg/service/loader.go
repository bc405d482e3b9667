package service

import (
	"context"
	"fmt"

	"github.com/mpapenbr/regatta-score-manager-go/pkg/regatta"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/repository/api"
)

// LoadRegatta reads the complete regatta with the given id into a snapshot.
// Stored scores are part of the snapshot.
func LoadRegatta(ctx context.Context, repos api.Repositories, regattaID int) (
	*regatta.Regatta, error,
) {
	info, err := repos.Regatta().LoadByID(ctx, regattaID)
	if err != nil {
		return nil, fmt.Errorf("load regatta %d: %w", regattaID, err)
	}
	teams, err := repos.Team().LoadByRegattaID(ctx, regattaID)
	if err != nil {
		return nil, fmt.Errorf("load teams: %w", err)
	}
	reg, err := regatta.New(*info, regatta.WithTeams(teams...))
	if err != nil {
		return nil, err
	}
	races, err := repos.Race().LoadByRegattaID(ctx, regattaID, reg)
	if err != nil {
		return nil, fmt.Errorf("load races: %w", err)
	}
	for _, r := range races {
		if err := reg.AddRace(r); err != nil {
			return nil, err
		}
	}
	finishes, err := repos.Finish().LoadByRegattaID(ctx, regattaID, reg)
	if err != nil {
		return nil, fmt.Errorf("load finishes: %w", err)
	}
	for _, f := range finishes {
		if err := reg.AddFinish(f); err != nil {
			return nil, err
		}
	}
	penalties, err := repos.TeamPenalty().LoadByRegattaID(ctx, regattaID, reg)
	if err != nil {
		return nil, fmt.Errorf("load team penalties: %w", err)
	}
	for _, p := range penalties {
		if err := reg.AddTeamPenalty(p); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
