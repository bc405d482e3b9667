//nolint:funlen // ok for tests
package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/regatta-score-manager-go/log"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/model"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/regatta"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/repository/api"
	"github.com/mpapenbr/regatta-score-manager-go/testsupport/basedata"
)

type fixture struct {
	repos     *memRepos
	publisher *recordingPublisher
	svc       *ScoringService
	regattaID int
}

func setupFixture(t *testing.T, b *basedata.Builder, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{repos: newMemRepos(), publisher: &recordingPublisher{}}
	info, err := basedata.Persist(context.Background(), f.repos, b.Regatta())
	require.NoError(t, err)
	f.regattaID = info.ID
	f.svc = NewScoringService(append([]Option{
		WithRepositories(f.repos),
		WithPublisher(f.publisher),
	}, opts...)...)
	return f
}

func (f *fixture) reload(t *testing.T) *regatta.Regatta {
	t.Helper()
	reg, err := LoadRegatta(context.Background(), f.repos, f.regattaID)
	require.NoError(t, err)
	return reg
}

func TestLoadRegatta(t *testing.T) {
	b := basedata.SampleFleetRegatta(model.ScoringStandard)
	b.Penalize(b.Regatta().GetFinishes(b.Regatta().GetRace(model.DivisionA, 2))[0],
		model.PenaltyDSQ, 0, false)
	b.TeamPenalty(1, model.DivisionB, model.TeamPenaltyMRP)
	f := setupFixture(t, b)

	reg := f.reload(t)
	assert.Equal(t, model.ScoringStandard, reg.Info().Scoring)
	assert.Len(t, reg.GetTeams(), 3)
	assert.Equal(t, []model.Division{model.DivisionA, model.DivisionB}, reg.GetDivisions())
	assert.Len(t, reg.AllFinishes(), 18)
	first := reg.GetFinishes(reg.GetRace(model.DivisionA, 2))[0]
	require.NotNil(t, first.Penalty())
	assert.Equal(t, model.PenaltyDSQ, first.Penalty().Type)
	assert.Len(t, reg.GetTeamPenalties(nil, model.DivisionB), 1)
}

func TestLoadRegattaUnknown(t *testing.T) {
	_, err := LoadRegatta(context.Background(), newMemRepos(), 42)
	assert.ErrorIs(t, err, api.ErrNoRows)
}

func TestScoreRegatta(t *testing.T) {
	f := setupFixture(t, basedata.SampleFleetRegatta(model.ScoringStandard))

	got, err := f.svc.ScoreRegatta(context.Background(), f.regattaID)
	require.NoError(t, err)
	require.Len(t, got.Overall, 3)
	assert.Equal(t, "Tufts", got.Overall[0].Team.School.Name)
	assert.Equal(t, 1, f.repos.updateRuns)

	reg := f.reload(t)
	for _, fin := range reg.AllFinishes() {
		assert.True(t, fin.IsScored(), "finish %s %s", fin.Race, fin.Team)
	}
	tufts := reg.GetTeams()[2]
	assert.Equal(t, 1, tufts.DtRank)
	assert.Equal(t, 12, tufts.DtScore)
	// three teams in two divisions
	assert.Len(t, f.repos.ranks, 6)

	require.Len(t, f.publisher.events, 1)
	evt := f.publisher.events[0]
	assert.Equal(t, f.regattaID, evt.RegattaID)
	assert.Equal(t, reg.Info().Key, evt.RegattaKey)
	assert.Empty(t, evt.Races)
	require.Len(t, evt.Leaders, 3)
	assert.Equal(t, 1, evt.Leaders[0].Rank)
	assert.Equal(t, "Tufts Tufts 1", evt.Leaders[0].Team)
}

func TestScoreRace(t *testing.T) {
	f := setupFixture(t, basedata.SampleFleetRegatta(model.ScoringStandard))

	_, err := f.svc.ScoreRace(context.Background(), f.regattaID, model.DivisionA, 1)
	require.NoError(t, err)

	reg := f.reload(t)
	for _, fin := range reg.AllFinishes() {
		scored := fin.Race.Division == model.DivisionA && fin.Race.Number == 1
		assert.Equal(t, scored, fin.IsScored(), "finish %s %s", fin.Race, fin.Team)
	}
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, []string{"1A"}, f.publisher.events[0].Races)
}

func TestScoreRaceUnknown(t *testing.T) {
	f := setupFixture(t, basedata.SampleFleetRegatta(model.ScoringStandard))

	_, err := f.svc.ScoreRace(context.Background(), f.regattaID, model.DivisionC, 1)
	assert.ErrorIs(t, err, regatta.ErrUnknownRace)
	assert.Equal(t, 0, f.repos.updateRuns)
	assert.Empty(t, f.publisher.events)
}

func TestScoreRegattaStoreError(t *testing.T) {
	f := setupFixture(t, basedata.SampleFleetRegatta(model.ScoringStandard))
	errStore := errors.New("disk full")
	f.repos.updateErr = errStore

	_, err := f.svc.ScoreRegatta(context.Background(), f.regattaID)
	assert.ErrorIs(t, err, errStore)
	assert.Empty(t, f.publisher.events)
}

func TestScoreRegattaPublishErrorIsIgnored(t *testing.T) {
	f := setupFixture(t, basedata.SampleFleetRegatta(model.ScoringStandard))
	f.publisher.err = errors.New("no servers available")

	got, err := f.svc.ScoreRegatta(context.Background(), f.regattaID)
	require.NoError(t, err)
	assert.Len(t, got.Overall, 3)
}

func TestScoreRegattaLeaders(t *testing.T) {
	f := setupFixture(t, basedata.SampleFleetRegatta(model.ScoringStandard), WithLeaders(1))

	_, err := f.svc.ScoreRegatta(context.Background(), f.regattaID)
	require.NoError(t, err)
	require.Len(t, f.publisher.events, 1)
	assert.Len(t, f.publisher.events[0].Leaders, 1)
}

func TestRankUsesStoredScores(t *testing.T) {
	f := setupFixture(t, basedata.SampleFleetRegatta(model.ScoringStandard))
	ctx := context.Background()

	// nothing scored yet
	got, err := f.svc.Rank(ctx, f.regattaID)
	require.NoError(t, err)
	for _, r := range got.Overall {
		assert.Equal(t, 0, r.Score)
	}
	assert.Equal(t, 0, f.repos.updateRuns)

	_, err = f.svc.ScoreRegatta(ctx, f.regattaID)
	require.NoError(t, err)
	got, err = f.svc.Rank(ctx, f.regattaID)
	require.NoError(t, err)
	for _, r := range got.Overall {
		assert.Equal(t, 12, r.Score)
	}
}

func TestStandingsCache(t *testing.T) {
	f := setupFixture(t, basedata.SampleFleetRegatta(model.ScoringStandard))
	ctx := context.Background()

	first, err := f.svc.Standings(ctx, f.regattaID)
	require.NoError(t, err)
	second, err := f.svc.Standings(ctx, f.regattaID)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, f.repos.loads)

	_, err = f.svc.ScoreRegatta(ctx, f.regattaID)
	require.NoError(t, err)
	assert.Equal(t, 2, f.repos.loads)

	third, err := f.svc.Standings(ctx, f.regattaID)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Equal(t, 3, f.repos.loads)
	assert.Equal(t, 12, third.Overall[0].Score)
}

func TestStandingsUnknownRegatta(t *testing.T) {
	svc := NewScoringService(WithRepositories(newMemRepos()))
	_, err := svc.Standings(context.Background(), 42)
	assert.ErrorIs(t, err, api.ErrNoRows)
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		builder func() *basedata.Builder
	}{
		{
			name: "standard",
			builder: func() *basedata.Builder {
				return basedata.SampleFleetRegatta(model.ScoringStandard)
			},
		},
		{
			name: "combined",
			builder: func() *basedata.Builder {
				return basedata.SampleFleetRegatta(model.ScoringCombined)
			},
		},
		{
			name: "averaged breakdown",
			builder: func() *basedata.Builder {
				b := basedata.SampleFleetRegatta(model.ScoringStandard)
				race := b.Regatta().GetRace(model.DivisionB, 2)
				b.Breakdown(b.Regatta().GetFinishes(race)[2], model.BreakdownRDG, 0, false)
				return b
			},
		},
		{
			name: "team racing",
			builder: func() *basedata.Builder {
				b := basedata.NewBuilder(model.ScoringTeam, "Navy", "Yale", "Tufts")
				b.TeamRace(model.DivisionA, 1, 0, 1, 0, 1)
				b.TeamRace(model.DivisionB, 1, 0, 1, 1, 0)
				b.TeamRace(model.DivisionA, 2, 1, 2, 2, 1)
				b.TeamRace(model.DivisionB, 2, 1, 2, 2, 1)
				return b
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.builder()
			f := setupFixture(t, b)

			got, err := f.svc.Check(context.Background(), f.regattaID)
			require.NoError(t, err)
			assert.Equal(t, len(b.Regatta().AllFinishes()), got.Finishes)
			assert.Equal(t, len(b.Regatta().GetTeams()), got.Teams)
			assert.NotEmpty(t, got.Lines)
			// nothing is stored
			assert.Equal(t, 0, f.repos.updateRuns)
			assert.Empty(t, f.publisher.events)
		})
	}
}

func TestCompareFingerprints(t *testing.T) {
	a := []string{"finish 1A Navy 1", "overall 1 Navy 3"}
	assert.NoError(t, compareFingerprints("x", a, []string{"finish 1A Navy 1", "overall 1 Navy 3"}))

	err := compareFingerprints("x", a, []string{"finish 1A Navy 2", "overall 1 Navy 3"})
	assert.ErrorIs(t, err, ErrNotDeterministic)
	assert.Contains(t, err.Error(), "finish 1A Navy 2")

	err = compareFingerprints("x", a, a[:1])
	assert.ErrorIs(t, err, ErrNotDeterministic)
	assert.Contains(t, err.Error(), "2 lines != 1 lines")
}

func TestFingerprint(t *testing.T) {
	reg := basedata.SampleFleetRegatta(model.ScoringStandard).Regatta()
	first, err := scoreAndFingerprint(reg, log.Default())
	require.NoError(t, err)
	second, err := scoreAndFingerprint(reg, log.Default())
	require.NoError(t, err)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("fingerprint mismatch (-first +second):\n%s", diff)
	}
	// 18 finishes, 3 overall and 6 division ranks
	assert.Len(t, first, 27)
	assert.Contains(t, first, `finish 1A Navy Navy 1 1 "1" ""`)
	assert.Contains(t, first, `overall 1 Tufts Tufts 1 12 "According to last race"`)
	assert.Contains(t, first, `division B 3 Navy Navy 1 9 ""`)
}
