//nolint:funlen // table driven tests
package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseDivision(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		want    Division
		wantErr bool
	}{
		{"upper", "A", DivisionA, false},
		{"lower", "d", DivisionD, false},
		{"spaces", " b ", DivisionB, false},
		{"unknown", "E", "", true},
		{"empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDivision(tt.arg)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseScoringFormat(t *testing.T) {
	for _, f := range []ScoringFormat{ScoringStandard, ScoringCombined, ScoringTeam} {
		got, err := ParseScoringFormat(string(f))
		assert.NoError(t, err)
		assert.Equal(t, f, got)
	}
	_, err := ParseScoringFormat("icsa")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseRaceLabel(t *testing.T) {
	tests := []struct {
		arg     string
		number  int
		div     Division
		wantErr bool
	}{
		{"3A", 3, DivisionA, false},
		{"12b", 12, DivisionB, false},
		{"A", 0, "", true},
		{"0A", 0, "", true},
		{"3E", 0, "", true},
		{"xA", 0, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			n, d, err := ParseRaceLabel(tt.arg)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.number, n)
			assert.Equal(t, tt.div, d)
			assert.Equal(t, tt.arg[:len(tt.arg)-1]+string(d),
				(&Race{Number: n, Division: d}).String())
		})
	}
}

func TestCompareRaces(t *testing.T) {
	r1a := &Race{Number: 1, Division: DivisionA}
	r1b := &Race{Number: 1, Division: DivisionB}
	r2a := &Race{Number: 2, Division: DivisionA}
	assert.Negative(t, CompareRaces(r1a, r1b))
	assert.Negative(t, CompareRaces(r1b, r2a))
	assert.Zero(t, CompareRaces(r2a, r2a))
}

func TestModifierVocabulary(t *testing.T) {
	tests := []struct {
		name    string
		kind    ModifierKind
		typ     string
		wantErr bool
	}{
		{"penalty DSQ", KindPenalty, PenaltyDSQ, false},
		{"penalty DNS", KindPenalty, PenaltyDNS, false},
		{"penalty with breakdown code", KindPenalty, BreakdownRDG, true},
		{"breakdown BYE", KindBreakdown, BreakdownBYE, false},
		{"breakdown with penalty code", KindBreakdown, PenaltyOCS, true},
		{"unknown code", KindBreakdown, "XYZ", true},
		{"unknown kind", ModifierKind(7), PenaltyDSQ, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewModifier(tt.kind, tt.typ, -1, "", false)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.kind, m.Kind)
			assert.False(t, m.IsAssigned())
		})
	}
}

func TestParseModifierKind(t *testing.T) {
	for _, k := range []ModifierKind{KindPenalty, KindBreakdown} {
		got, err := ParseModifierKind(k.String())
		assert.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseModifierKind("protest")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFinishModifierAccessors(t *testing.T) {
	f := NewFinish(&Race{Number: 1, Division: DivisionA}, &Team{Name: "T"}, time.Time{})
	assert.Nil(t, f.Penalty())
	assert.Nil(t, f.Breakdown())

	p, _ := NewPenalty(PenaltyDSQ, 0, "", true)
	f.SetModifier(p)
	assert.Same(t, p, f.Penalty())
	assert.Nil(t, f.Breakdown())

	b, _ := NewBreakdown(BreakdownRDG, 3, "", false)
	f.SetModifier(b)
	assert.Nil(t, f.Penalty())
	assert.Same(t, b, f.Breakdown())
	assert.True(t, b.IsAssigned())

	f.SetModifier(nil)
	assert.Nil(t, f.Modifier())
}

func TestScore(t *testing.T) {
	f := &Finish{}
	assert.False(t, f.IsScored())
	assert.Equal(t, 0, f.ScoreValue())

	f.SetScore(NewScore(4, ""))
	assert.Equal(t, "4", f.Score.Place())
	assert.False(t, f.Score.HasPlace())

	f.SetScore(NewPlacedScore(7, PenaltyDSQ, "(7, Fleet + 1)"))
	assert.Equal(t, 7, f.ScoreValue())
	assert.Equal(t, "DSQ", f.Score.Place())
	assert.True(t, f.Score.HasPlace())
}

func TestTeamPenalty(t *testing.T) {
	team := &Team{Name: "T"}
	p, err := NewTeamPenalty(team, DivisionA, TeamPenaltyPFD, "")
	assert.NoError(t, err)
	assert.Equal(t, TeamPenaltyPoints, p.Points())
	p.Amount = 5
	assert.Equal(t, 5, p.Points())
	p.Amount = 0
	assert.Equal(t, TeamPenaltyPoints, p.Points())

	_, err = NewTeamPenalty(team, DivisionA, PenaltyDSQ, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTeamRank(t *testing.T) {
	r := &TeamRank{}
	assert.True(t, r.WinPercentage().IsZero())
	r = &TeamRank{Wins: 1, Losses: 2, Ties: 1}
	assert.Equal(t, 4, r.Total())
	assert.True(t, decimal.RequireFromString("0.25").Equal(r.WinPercentage()))
}

func TestRankName(t *testing.T) {
	team := &Team{Name: "Navy 1", School: School{Name: "Navy"}}
	assert.Equal(t, "Navy Navy 1", NewRank(team, 0, "").Name())
	assert.Equal(t, "Navy Navy 1 B", (&Rank{Team: team, Division: DivisionB}).Name())
	assert.Equal(t, "Solo", (&Team{Name: "Solo"}).String())
}
