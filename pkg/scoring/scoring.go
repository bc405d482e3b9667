// Package scoring selects the scorer and rankers of a regatta by its
// scoring format and runs complete scoring passes.
package scoring

import (
	"fmt"

	"github.com/mpapenbr/regatta-score-manager-go/log"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/model"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/regatta"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/scoring/ranker"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/scoring/scorer"
)

// Engine bundles the strategies of one scoring format.
type Engine struct {
	Format model.ScoringFormat
	Scorer scorer.Scorer
	// Ranker produces the overall standings.
	Ranker ranker.Ranker
	// DivisionRanker produces the ranks per division. nil for team racing.
	DivisionRanker ranker.Ranker

	log *log.Logger
}

type Option func(e *Engine)

func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// ForFormat returns the engine for format.
func ForFormat(format model.ScoringFormat, opts ...Option) (*Engine, error) {
	e := &Engine{Format: format, log: log.Default().Named("scoring")}
	for _, opt := range opts {
		opt(e)
	}
	sOpts := []scorer.Option{scorer.WithLogger(e.log.Named("scorer"))}
	rOpts := []ranker.Option{ranker.WithLogger(e.log.Named("ranker"))}
	switch format {
	case model.ScoringStandard:
		e.Scorer = scorer.NewICSAScorer(sOpts...)
		e.Ranker = ranker.NewICSARanker(rOpts...)
		e.DivisionRanker = ranker.NewICSARanker(rOpts...)
	case model.ScoringCombined:
		e.Scorer = scorer.NewCombinedScorer(sOpts...)
		e.Ranker = ranker.NewCombinedRanker(rOpts...)
		e.DivisionRanker = ranker.NewSpecialCombinedRanker(rOpts...)
	case model.ScoringTeam:
		e.Scorer = scorer.NewTeamScorer(sOpts...)
		e.Ranker = ranker.NewTeamRanker(rOpts...)
	default:
		return nil, fmt.Errorf("%w: unknown scoring format %q", model.ErrInvalidInput, format)
	}
	return e, nil
}

// ForRegatta picks the engine by the scoring format of reg.
func ForRegatta(reg regatta.Data, opts ...Option) (*Engine, error) {
	return ForFormat(reg.Info().Scoring, opts...)
}

// ScoreRace scores a single race. For pooled formats the whole race number
// is scored.
func (e *Engine) ScoreRace(reg regatta.Data, race *model.Race) error {
	return e.Scorer.Score(reg, race)
}

// ScoreAll scores every race of the regatta having finishes. Pooled formats
// score each race number once. The first error aborts the pass.
func (e *Engine) ScoreAll(reg regatta.Data) error {
	races := reg.GetScoredRaces()
	if e.Format != model.ScoringStandard {
		seen := make(map[int]struct{})
		unique := make([]*model.Race, 0, len(races))
		for _, r := range races {
			if _, ok := seen[r.Number]; ok {
				continue
			}
			seen[r.Number] = struct{}{}
			unique = append(unique, r)
		}
		races = unique
	}
	for _, r := range races {
		if err := e.Scorer.Score(reg, r); err != nil {
			return fmt.Errorf("score race %s: %w", r, err)
		}
	}
	e.log.Debug("scored regatta",
		log.Int("regatta", reg.Info().ID),
		log.Int("races", len(races)))
	return nil
}

// Standings is the result of a ranking pass.
type Standings struct {
	Overall []*model.Rank
	// Divisions is empty for team racing
	Divisions map[model.Division][]*model.Rank
	// Records is only set for team racing
	Records []*model.TeamRank
}

// Rank computes the overall and per division standings over all scored
// races and copies the derived values onto the teams.
func (e *Engine) Rank(reg regatta.Data) (*Standings, error) {
	ret := &Standings{Divisions: make(map[model.Division][]*model.Rank)}
	if tr, ok := e.Ranker.(*ranker.TeamRanker); ok {
		records, err := tr.RankTeams(reg, nil)
		if err != nil {
			return nil, err
		}
		ret.Records = records
		for _, r := range records {
			r.Team.DtRank = r.Rank
			r.Team.DtScore = r.Wins
			r.Team.DtExplanation = r.Explanation
			r.Team.DtWins = r.Wins
			r.Team.DtLosses = r.Losses
			r.Team.DtTies = r.Ties
			r.Team.DtWinPct = r.WinPercentage()
		}
		ret.Overall = toRanks(records)
		return ret, nil
	}

	overall, err := e.Ranker.Rank(reg, nil)
	if err != nil {
		return nil, err
	}
	ret.Overall = overall
	for _, r := range overall {
		r.Team.DtRank = r.Rank
		r.Team.DtScore = r.Score
		r.Team.DtExplanation = r.Explanation
	}
	if e.DivisionRanker == nil {
		return ret, nil
	}
	switch e.Format {
	case model.ScoringCombined:
		ranks, err := e.DivisionRanker.Rank(reg, nil)
		if err != nil {
			return nil, err
		}
		for _, r := range ranks {
			ret.Divisions[r.Division] = append(ret.Divisions[r.Division], r)
		}
	default:
		for _, d := range reg.GetDivisions() {
			races := reg.GetScoredRaces(d)
			ranks, err := e.DivisionRanker.Rank(reg, races)
			if err != nil {
				return nil, err
			}
			for _, r := range ranks {
				r.Division = d
			}
			ret.Divisions[d] = ranks
		}
	}
	return ret, nil
}

func toRanks(records []*model.TeamRank) []*model.Rank {
	ret := make([]*model.Rank, len(records))
	for i, tr := range records {
		ret[i] = &model.Rank{
			Team: tr.Team, Score: tr.Wins, Explanation: tr.Explanation, Rank: tr.Rank,
		}
	}
	return ret
}
