//nolint:whitespace //can't make both the linter and editor happy :(
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/mpapenbr/regatta-score-manager-go/log"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/model"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/notify"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/regatta"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/repository/api"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/scoring"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/utils/cache"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/utils/cache/loadercache"
)

var meter = otel.Meter("rsm.scoring")

var ErrNotDeterministic = errors.New("repeated scoring produced different results")

type (
	Option         func(*ScoringService)
	ScoringService struct {
		repos     api.Repositories
		txMgr     api.TransactionManager
		publisher notify.Publisher
		tracer    trace.Tracer
		l         *log.Logger
		leaders   int
		standings cache.Cache[int, scoring.Standings]
		duration  metric.Float64Histogram
		scored    metric.Int64Counter
	}
)

func WithRepositories(arg api.Repositories) Option {
	return func(s *ScoringService) {
		s.repos = arg
	}
}

func WithTxManager(arg api.TransactionManager) Option {
	return func(s *ScoringService) {
		s.txMgr = arg
	}
}

func WithPublisher(arg notify.Publisher) Option {
	return func(s *ScoringService) {
		s.publisher = arg
	}
}

func WithTracer(arg trace.Tracer) Option {
	return func(s *ScoringService) {
		s.tracer = arg
	}
}

func WithLogger(arg *log.Logger) Option {
	return func(s *ScoringService) {
		s.l = arg
	}
}

// WithLeaders sets the number of leading teams sent with a notification.
func WithLeaders(n int) Option {
	return func(s *ScoringService) {
		s.leaders = n
	}
}

func NewScoringService(opts ...Option) *ScoringService {
	ret := &ScoringService{
		leaders: 3,
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.tracer == nil {
		ret.tracer = otel.Tracer("rsm")
	}
	if ret.l == nil {
		ret.l = log.Default().Named("service.scoring")
	}
	if ret.publisher == nil {
		ret.publisher = notify.NewNoopPublisher()
	}
	if ret.txMgr == nil {
		ret.txMgr = noTx{}
	}
	ret.duration, _ = meter.Float64Histogram("scoring_pass",
		metric.WithDescription("duration of a scoring or ranking pass"),
		metric.WithUnit("s"))
	ret.scored, _ = meter.Int64Counter("scored_finishes",
		metric.WithDescription("number of finishes stored by scoring passes"))
	ret.standings = loadercache.New(
		loadercache.WithLoader[int, scoring.Standings](ret.loadStandings),
		loadercache.WithLogger[int, scoring.Standings](ret.l.Named("cache")),
	)
	return ret
}

// ScoreRace scores the race div/number of the regatta and stores the changed
// finishes and the new standings. For combined and team racing the whole race
// number is scored.
func (s *ScoringService) ScoreRace(
	ctx context.Context,
	regattaID int,
	div model.Division,
	number int,
) (*scoring.Standings, error) {
	label := fmt.Sprintf("%d%s", number, div)
	return s.scoreAndStore(ctx, regattaID, "score race", []string{label},
		func(e *scoring.Engine, reg *regatta.Regatta) error {
			race := reg.GetRace(div, number)
			if race == nil {
				return fmt.Errorf("%w: %s", regatta.ErrUnknownRace, label)
			}
			return e.ScoreRace(reg, race)
		})
}

// ScoreRegatta rescores every race having finishes.
func (s *ScoringService) ScoreRegatta(ctx context.Context, regattaID int) (
	*scoring.Standings, error,
) {
	return s.scoreAndStore(ctx, regattaID, "score regatta", nil,
		func(e *scoring.Engine, reg *regatta.Regatta) error {
			return e.ScoreAll(reg)
		})
}

// Rank ranks the regatta by the stored scores and stores the standings.
func (s *ScoringService) Rank(ctx context.Context, regattaID int) (
	*scoring.Standings, error,
) {
	return s.scoreAndStore(ctx, regattaID, "rank regatta", nil, nil)
}

// Standings returns the standings computed from the stored scores. Results
// are cached until the regatta is scored again.
func (s *ScoringService) Standings(ctx context.Context, regattaID int) (
	*scoring.Standings, error,
) {
	return s.standings.Get(ctx, regattaID)
}

//nolint:funlen // steps belong together
func (s *ScoringService) scoreAndStore(
	ctx context.Context,
	regattaID int,
	op string,
	races []string,
	score func(e *scoring.Engine, reg *regatta.Regatta) error,
) (*scoring.Standings, error) {
	start := time.Now()
	attrs := []attribute.KeyValue{
		attribute.Int("regattaId", regattaID),
		attribute.String("op", op),
	}
	defer func() {
		s.duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(attrs...))
	}()
	ctx, span := s.tracer.Start(ctx, op, trace.WithAttributes(attrs...))
	defer span.End()

	var reg *regatta.Regatta
	var standings *scoring.Standings
	stored := 0
	err := s.txMgr.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		if reg, err = LoadRegatta(ctx, s.repos, regattaID); err != nil {
			return err
		}
		engine, err := scoring.ForRegatta(reg, scoring.WithLogger(s.l.Named("engine")))
		if err != nil {
			return err
		}
		if score != nil {
			if err = score(engine, reg); err != nil {
				return err
			}
			if stored, err = s.repos.Finish().UpdateScores(ctx, reg.Committed()); err != nil {
				return fmt.Errorf("store scores: %w", err)
			}
			reg.ResetCommitted()
		}
		if standings, err = engine.Rank(reg); err != nil {
			return err
		}
		return s.storeStandings(ctx, reg, standings)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	s.scored.Add(ctx, int64(stored), metric.WithAttributes(attrs...))
	s.standings.Invalidate(ctx, regattaID)
	s.l.Info(op,
		log.Int("regatta", regattaID),
		log.Strings("races", races),
		log.Int("finishes", stored),
		log.Duration("took", time.Since(start)))

	evt := s.newEvent(reg, races, standings)
	if err := s.publisher.PublishStandingsChanged(ctx, evt); err != nil {
		s.l.Warn("could not publish standings",
			log.Int("regatta", regattaID), log.ErrorField(err))
	}
	return standings, nil
}

func (s *ScoringService) storeStandings(
	ctx context.Context,
	reg *regatta.Regatta,
	standings *scoring.Standings,
) error {
	for _, t := range reg.GetTeams() {
		if err := s.repos.Team().UpdateRank(ctx, t); err != nil {
			return fmt.Errorf("store rank of %s: %w", t, err)
		}
	}
	for _, d := range sortedDivisions(standings) {
		if err := s.repos.Standing().UpsertDivisionRanks(ctx, standings.Divisions[d]); err != nil {
			return fmt.Errorf("store ranks of division %s: %w", d, err)
		}
	}
	return nil
}

func (s *ScoringService) loadStandings(ctx context.Context, regattaID int) (
	*scoring.Standings, error,
) {
	reg, err := LoadRegatta(ctx, s.repos, regattaID)
	if err != nil {
		return nil, err
	}
	engine, err := scoring.ForRegatta(reg, scoring.WithLogger(s.l.Named("engine")))
	if err != nil {
		return nil, err
	}
	return engine.Rank(reg)
}

func (s *ScoringService) newEvent(
	reg *regatta.Regatta,
	races []string,
	standings *scoring.Standings,
) *notify.StandingsChanged {
	info := reg.Info()
	top := standings.Overall
	if s.leaders >= 0 && len(top) > s.leaders {
		top = top[:s.leaders]
	}
	return &notify.StandingsChanged{
		RegattaID:  info.ID,
		RegattaKey: info.Key,
		Races:      races,
		Leaders: lo.Map(top, func(r *model.Rank, _ int) notify.StandingRow {
			return notify.StandingRow{
				Rank:        r.Rank,
				Team:        r.Team.String(),
				Score:       r.Score,
				Explanation: r.Explanation,
			}
		}),
		Timestamp: time.Now(),
	}
}

func sortedDivisions(standings *scoring.Standings) []model.Division {
	divs := lo.Keys(standings.Divisions)
	slices.SortFunc(divs, model.Division.Compare)
	return divs
}

// noTx is used when no transaction manager is configured.
type noTx struct{}

func (noTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
