package rank

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
	gotest "gotest.tools/v3/assert"

	"github.com/mpapenbr/regatta-score-manager-go/pkg/model"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/scoring"
)

func sampleStandings() *scoring.Standings {
	navy := &model.Team{ID: 1, Name: "Navy 1", School: model.School{ID: "NAVY", Name: "Navy"}}
	yale := &model.Team{ID: 2, Name: "Yale 1"}
	return &scoring.Standings{
		Overall: []*model.Rank{
			{Team: navy, Score: 12, Rank: 1},
			{Team: yale, Score: 15, Rank: 2, Explanation: "Fewest points"},
		},
		Divisions: map[model.Division][]*model.Rank{
			model.DivisionB: {{Team: yale, Division: model.DivisionB, Score: 7, Rank: 1}},
			model.DivisionA: {{Team: navy, Division: model.DivisionA, Score: 5, Rank: 1}},
		},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, Write(&buf, outputJSON, sampleStandings()))

	var got standingsView
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	gotest.Equal(t, len(got.Overall), 2)
	gotest.Equal(t, got.Overall[0].Team, "Navy Navy 1")
	gotest.Equal(t, got.Overall[1].Explanation, "Fewest points")
	// divisions are written in division order
	gotest.Equal(t, got.Divisions[0].Division, "A")
	gotest.Equal(t, got.Divisions[1].Division, "B")
	assert.Empty(t, got.Records)
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, Write(&buf, outputYAML, sampleStandings()))

	var got standingsView
	assert.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 15, got.Overall[1].Score)
	assert.Len(t, got.Divisions, 2)
}

func TestWriteTextTeamRecords(t *testing.T) {
	a := &model.Team{ID: 1, Name: "A"}
	b := &model.Team{ID: 2, Name: "B"}
	s := &scoring.Standings{
		Records: []*model.TeamRank{
			{Team: a, Wins: 2, Losses: 1, Rank: 1},
			{Team: b, Wins: 1, Losses: 2, Rank: 2},
		},
	}
	var buf bytes.Buffer
	assert.NoError(t, Write(&buf, outputText, s))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[1], "0.667")
	assert.Contains(t, lines[2], "0.333")
}

func TestCheckOutput(t *testing.T) {
	assert.NoError(t, checkOutput("text"))
	assert.ErrorIs(t, checkOutput("xml"), model.ErrInvalidInput)
	assert.ErrorIs(t, Write(&bytes.Buffer{}, "xml", sampleStandings()), model.ErrInvalidInput)
}
