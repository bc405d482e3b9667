package postgres

import (
	"context"
	"fmt"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpapenbr/regatta-score-manager-go/log"
)

type PoolConfigOption func(cfg *pgxpool.Config)

// WithTracer sets the query tracer of the pool. Use a
// pgxtrace.CompositeQueryTracer to combine several tracers.
func WithTracer(tracer pgx.QueryTracer) PoolConfigOption {
	return func(cfg *pgxpool.Config) {
		cfg.ConnConfig.Tracer = tracer
	}
}

func WithMaxConns(n int32) PoolConfigOption {
	return func(cfg *pgxpool.Config) {
		cfg.MaxConns = n
	}
}

// InitWithURL creates the pool and checks the connection.
func InitWithURL(ctx context.Context, url string, opts ...PoolConfigOption) (
	*pgxpool.Pool, error,
) {
	dbConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}
	for _, opt := range opts {
		opt(dbConfig)
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create the database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to get a valid database connection: %w", err)
	}
	return pool, nil
}

// NewOtlpTracer creates spans for every sql statement.
func NewOtlpTracer() pgx.QueryTracer {
	return otelpgx.NewTracer(otelpgx.WithTrimSQLInSpanName())
}

// NewMyTracer logs every sql statement with its args on the given level.
func NewMyTracer(logger *log.Logger, level log.Level) pgx.QueryTracer {
	return &myQueryTracer{log: logger, level: level}
}

type myQueryTracer struct {
	log   *log.Logger
	level log.Level
}

func (tracer *myQueryTracer) TraceQueryStart(
	ctx context.Context,
	_ *pgx.Conn,
	data pgx.TraceQueryStartData,
) context.Context {
	if tracer.log.Enabled(tracer.level) {
		tracer.log.Log(tracer.level, "Executing",
			log.String("sql", data.SQL),
			log.Any("args", data.Args))
	}
	return ctx
}

//nolint:whitespace // can't make the linters happy
func (tracer *myQueryTracer) TraceQueryEnd(
	ctx context.Context,
	conn *pgx.Conn,
	data pgx.TraceQueryEndData,
) {
	if data.Err != nil {
		tracer.log.Warn("query failed", log.ErrorField(data.Err))
	}
}
