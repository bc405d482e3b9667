// Package scorer converts the finish order of races into scores.
package scorer

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/mpapenbr/regatta-score-manager-go/log"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/model"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/regatta"
)

// ErrIncompleteCombinedRace is returned if only some divisions of a combined
// race number carry finishes.
var ErrIncompleteCombinedRace = fmt.Errorf(
	"%w: some divisions missing combined finishes", model.ErrInvalidInput)

var ErrNilRace = errors.New("race is nil")

// Scorer computes the scores of a race and commits every finish it touched
// through reg.CommitFinishes. Nothing is committed if an error is returned.
type Scorer interface {
	Score(reg regatta.Data, race *model.Race) error
}

type Option func(c *config)

type config struct {
	log *log.Logger
}

func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		c.log = l
	}
}

func newConfig(opts ...Option) config {
	c := config{log: log.Default().Named("scoring.scorer")}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// penaltyFunc computes the score of a penalized finish. counter is the place
// the finish earned. The returned bool reports whether subsequent finishers
// are displaced.
type penaltyFunc func(p *model.FinishModifier, counter, fleet int) (model.Score, bool)

// fleetPenalty is the standard treatment: fleet+1 if no amount is assigned,
// otherwise the assigned amount but never better than the place earned.
func fleetPenalty(p *model.FinishModifier, counter, fleet int) (model.Score, bool) {
	if !p.IsAssigned() {
		return model.NewPlacedScore(fleet+1, p.Type,
			explain(fmt.Sprintf("(%d, Fleet + 1)", fleet+1), p.Comments)), p.Displace
	}
	if p.Amount >= counter {
		return model.NewPlacedScore(p.Amount, p.Type,
			explain(fmt.Sprintf("(%d, Assigned)", p.Amount), p.Comments)), p.Displace
	}
	return model.NewPlacedScore(counter, p.Type,
		explain(fmt.Sprintf("(%d, Assigned, no better than actual)", counter), p.Comments)),
		p.Displace
}

// assignedBreakdown never makes a finish worse than the place earned.
func assignedBreakdown(b *model.FinishModifier, counter int) model.Score {
	if b.Amount <= counter {
		return model.NewPlacedScore(b.Amount, b.Type,
			explain(fmt.Sprintf("(%d, Assigned)", b.Amount), b.Comments))
	}
	return model.NewPlacedScore(counter, b.Type,
		explain(fmt.Sprintf("(%d, Assigned, no better than actual)", counter), b.Comments))
}

// walk assigns scores to finishes which must be in entry order. Breakdowns
// without an amount get their earned place as provisional score and are
// returned for average resolution.
func walk(finishes []*model.Finish, fleet int, penalize penaltyFunc) (pending []*model.Finish) {
	counter := 1
	for _, f := range finishes {
		m := f.Modifier()
		f.Earned = counter
		switch {
		case m.IsPenalty():
			score, displace := penalize(m, counter, fleet)
			f.SetScore(score)
			if displace {
				counter++
			}
		case m.IsBreakdown():
			if m.IsAssigned() {
				f.SetScore(assignedBreakdown(m, counter))
			} else {
				f.SetScore(model.NewPlacedScore(counter, m.Type, "(average pending)"))
				pending = append(pending, f)
			}
			counter++
		default:
			f.SetScore(model.NewScore(counter, ""))
			counter++
		}
	}
	return pending
}

// othersFunc returns the finishes whose scores are averaged for f.
type othersFunc func(f *model.Finish) []*model.Finish

// resolveAverages scores the pending finishes in the given order. A finish
// which is pending itself never contributes to another average.
func resolveAverages(pending []*model.Finish, others othersFunc) {
	deferred := make(map[*model.Finish]struct{}, len(pending))
	for _, f := range pending {
		deferred[f] = struct{}{}
	}
	for _, f := range pending {
		b := f.Breakdown()
		total, count := 0, 0
		for _, o := range others(f) {
			if o == f || !o.IsScored() {
				continue
			}
			if _, ok := deferred[o]; ok {
				continue
			}
			total += o.ScoreValue()
			count++
		}
		if count == 0 {
			f.SetScore(model.NewPlacedScore(f.Earned, b.Type,
				explain(fmt.Sprintf("(%d, no other finishes to average)", f.Earned), b.Comments)))
			continue
		}
		avg := average(total, count)
		if avg < f.Earned {
			f.SetScore(model.NewPlacedScore(avg, b.Type,
				explain(fmt.Sprintf("(%d, average within division)", avg), b.Comments)))
		} else {
			f.SetScore(model.NewPlacedScore(f.Earned, b.Type,
				explain(fmt.Sprintf("(%d, average no better than actual)", f.Earned), b.Comments)))
		}
	}
}

// average rounds total/count half away from zero
func average(total, count int) int {
	return int(math.Round(float64(total) / float64(count)))
}

func explain(reason, comments string) string {
	return strings.TrimSpace(reason + " " + comments)
}
