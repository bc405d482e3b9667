package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/mpapenbr/regatta-score-manager-go/log"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/regatta"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/scoring"
)

// CheckResult summarizes a verification run.
type CheckResult struct {
	Finishes int
	Teams    int
	// Lines is the fingerprint of the first pass
	Lines []string
}

// Check scores and ranks the regatta twice on the same snapshot and once on a
// fresh one. All three passes must yield the same scores and standings.
// Nothing is stored.
func (s *ScoringService) Check(ctx context.Context, regattaID int) (*CheckResult, error) {
	ctx, span := s.tracer.Start(ctx, "check regatta")
	defer span.End()

	first, err := LoadRegatta(ctx, s.repos, regattaID)
	if err != nil {
		return nil, err
	}
	a, err := scoreAndFingerprint(first, s.l)
	if err != nil {
		return nil, err
	}
	b, err := scoreAndFingerprint(first, s.l)
	if err != nil {
		return nil, err
	}
	if err := compareFingerprints("rescore", a, b); err != nil {
		return nil, err
	}
	second, err := LoadRegatta(ctx, s.repos, regattaID)
	if err != nil {
		return nil, err
	}
	c, err := scoreAndFingerprint(second, s.l)
	if err != nil {
		return nil, err
	}
	if err := compareFingerprints("reload", a, c); err != nil {
		return nil, err
	}
	return &CheckResult{
		Finishes: len(first.AllFinishes()),
		Teams:    len(first.GetTeams()),
		Lines:    a,
	}, nil
}

func scoreAndFingerprint(reg *regatta.Regatta, l *log.Logger) ([]string, error) {
	engine, err := scoring.ForRegatta(reg, scoring.WithLogger(l.Named("engine")))
	if err != nil {
		return nil, err
	}
	if err := engine.ScoreAll(reg); err != nil {
		return nil, err
	}
	reg.ResetCommitted()
	standings, err := engine.Rank(reg)
	if err != nil {
		return nil, err
	}
	return Fingerprint(reg, standings), nil
}

// Fingerprint renders scores and standings as comparable lines.
func Fingerprint(reg *regatta.Regatta, standings *scoring.Standings) []string {
	ret := make([]string, 0)
	for _, f := range reg.AllFinishes() {
		if f.Score == nil {
			ret = append(ret, fmt.Sprintf("finish %s %s -", f.Race, f.Team))
			continue
		}
		ret = append(ret, fmt.Sprintf("finish %s %s %d %q %q", f.Race, f.Team,
			f.Score.Value(), f.Score.Place(), f.Score.Explanation()))
	}
	for _, r := range standings.Overall {
		ret = append(ret, fmt.Sprintf("overall %d %s %d %q",
			r.Rank, r.Team, r.Score, r.Explanation))
	}
	for _, d := range sortedDivisions(standings) {
		for _, r := range standings.Divisions[d] {
			ret = append(ret, fmt.Sprintf("division %s %d %s %d %q",
				d, r.Rank, r.Team, r.Score, r.Explanation))
		}
	}
	for _, r := range standings.Records {
		ret = append(ret, fmt.Sprintf("record %d %s %d-%d-%d",
			r.Rank, r.Team, r.Wins, r.Losses, r.Ties))
	}
	return ret
}

func compareFingerprints(what string, a, b []string) error {
	if slices.Equal(a, b) {
		return nil
	}
	for i := range min(len(a), len(b)) {
		if a[i] != b[i] {
			return fmt.Errorf("%w (%s): %q != %q", ErrNotDeterministic, what, a[i], b[i])
		}
	}
	return fmt.Errorf("%w (%s): %d lines != %d lines",
		ErrNotDeterministic, what, len(a), len(b))
}
