package scoring

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/regatta-score-manager-go/pkg/model"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/scoring/ranker"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/scoring/scorer"
	"github.com/mpapenbr/regatta-score-manager-go/testsupport/basedata"
)

func TestForFormat(t *testing.T) {
	tests := []struct {
		name         string
		format       model.ScoringFormat
		wantScorer   scorer.Scorer
		wantRanker   ranker.Ranker
		wantDivision bool
		wantErr      bool
	}{
		{
			name:         "standard",
			format:       model.ScoringStandard,
			wantScorer:   &scorer.ICSAScorer{},
			wantRanker:   &ranker.ICSARanker{},
			wantDivision: true,
		},
		{
			name:         "combined",
			format:       model.ScoringCombined,
			wantScorer:   &scorer.CombinedScorer{},
			wantRanker:   &ranker.CombinedRanker{},
			wantDivision: true,
		},
		{
			name:       "team",
			format:     model.ScoringTeam,
			wantScorer: &scorer.TeamScorer{},
			wantRanker: &ranker.TeamRanker{},
		},
		{name: "unknown", format: "match", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ForFormat(tt.format)
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantScorer, got.Scorer)
			assert.IsType(t, tt.wantRanker, got.Ranker)
			assert.Equal(t, tt.wantDivision, got.DivisionRanker != nil)
		})
	}
}

func TestScoreAllStandard(t *testing.T) {
	reg := basedata.SampleFleetRegatta(model.ScoringStandard).Regatta()
	e, err := ForRegatta(reg)
	require.NoError(t, err)

	require.NoError(t, e.ScoreAll(reg))
	assert.Len(t, reg.Committed(), 18)
	for _, f := range reg.AllFinishes() {
		assert.True(t, f.IsScored(), "finish %s %s", f.Race, f.Team)
	}
}

func TestScoreAllPooledScoresEachNumberOnce(t *testing.T) {
	reg := basedata.SampleFleetRegatta(model.ScoringCombined).Regatta()
	e, err := ForRegatta(reg)
	require.NoError(t, err)

	require.NoError(t, e.ScoreAll(reg))
	assert.Len(t, reg.Committed(), 18)
	// A and B of race 1 form one fleet of six
	race := reg.GetRace(model.DivisionB, 1)
	got := make([]int, 0)
	for _, f := range reg.GetFinishes(race) {
		got = append(got, f.Score.Value())
	}
	assert.Equal(t, []int{4, 5, 6}, got)
}

func TestScoreAllAbortsOnError(t *testing.T) {
	b := basedata.NewBuilder(model.ScoringCombined, "Navy", "Yale")
	b.Sail(model.DivisionA, 1, 0, 1)
	b.Sail(model.DivisionB, 1, 0)
	reg := b.Regatta()
	e, err := ForRegatta(reg)
	require.NoError(t, err)

	err = e.ScoreAll(reg)
	assert.ErrorIs(t, err, scorer.ErrIncompleteCombinedRace)
	assert.Empty(t, reg.Committed())
}

func TestRankStandard(t *testing.T) {
	reg := basedata.SampleFleetRegatta(model.ScoringStandard).Regatta()
	e, err := ForRegatta(reg)
	require.NoError(t, err)
	require.NoError(t, e.ScoreAll(reg))

	got, err := e.Rank(reg)
	require.NoError(t, err)
	require.Len(t, got.Overall, 3)
	assert.Empty(t, got.Records)
	assert.Equal(t, "Tufts", got.Overall[0].Team.School.Name)

	require.Len(t, got.Divisions, 2)
	divA := got.Divisions[model.DivisionA]
	require.Len(t, divA, 3)
	assert.Equal(t, "Navy", divA[0].Team.School.Name)
	assert.Equal(t, 3, divA[0].Score)
	for _, r := range divA {
		assert.Equal(t, model.DivisionA, r.Division)
	}

	navy := reg.GetTeams()[0]
	assert.Equal(t, 2, navy.DtRank)
	assert.Equal(t, 12, navy.DtScore)
	assert.Equal(t, "According to last race", navy.DtExplanation)
}

func TestRankCombined(t *testing.T) {
	reg := basedata.SampleFleetRegatta(model.ScoringCombined).Regatta()
	e, err := ForRegatta(reg)
	require.NoError(t, err)
	require.NoError(t, e.ScoreAll(reg))

	got, err := e.Rank(reg)
	require.NoError(t, err)
	require.Len(t, got.Overall, 3)
	for _, r := range got.Overall {
		assert.Equal(t, 21, r.Score, "team %s", r.Team)
	}
	divA := got.Divisions[model.DivisionA]
	require.Len(t, divA, 3)
	assert.Equal(t, []int{3, 6, 9}, []int{divA[0].Score, divA[1].Score, divA[2].Score})
	assert.Equal(t, "Navy", divA[0].Team.School.Name)
	assert.Len(t, got.Divisions[model.DivisionB], 3)
}

func TestRankTeam(t *testing.T) {
	b := basedata.NewBuilder(model.ScoringTeam, "Navy", "Yale", "Tufts")
	b.TeamRace(model.DivisionA, 1, 0, 1, 0, 1)
	b.TeamRace(model.DivisionB, 1, 0, 1, 0, 1)
	b.TeamRace(model.DivisionA, 2, 1, 2, 1, 2)
	b.TeamRace(model.DivisionB, 2, 1, 2, 1, 2)
	reg := b.Regatta()
	e, err := ForRegatta(reg)
	require.NoError(t, err)
	require.NoError(t, e.ScoreAll(reg))

	got, err := e.Rank(reg)
	require.NoError(t, err)
	assert.Empty(t, got.Divisions)
	require.Len(t, got.Records, 3)
	require.Len(t, got.Overall, 3)

	// Navy 1-0, Yale 1-1, Tufts 0-1
	names := make([]string, 0)
	for _, r := range got.Overall {
		names = append(names, r.Team.School.Name)
	}
	assert.Equal(t, []string{"Navy", "Yale", "Tufts"}, names)
	assert.Equal(t, 1, got.Overall[0].Score)

	yale := reg.GetTeams()[1]
	assert.Equal(t, 2, yale.DtRank)
	assert.Equal(t, 1, yale.DtWins)
	assert.Equal(t, 1, yale.DtLosses)
	assert.Equal(t, 0, yale.DtTies)
	assert.True(t, decimal.NewFromFloat(0.5).Equal(yale.DtWinPct), "got %s", yale.DtWinPct)
}
