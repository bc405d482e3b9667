// Package setup holds the startup steps shared by the commands.
package setup

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgx-contrib/pgxtrace"
	otlpruntime "go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/mpapenbr/regatta-score-manager-go/log"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/config"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/db/postgres"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/notify"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/repository/bob"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/service"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/utils"
)

// Env bundles the resources of a command run. Close releases them.
type Env struct {
	Pool      *pgxpool.Pool
	Service   *service.ScoringService
	SQLLogger *log.Logger
	telemetry *config.Telemetry
	publisher notify.Publisher
}

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// InitLogging replaces the default logger according to the log flags and
// returns the logger for sql statements.
func InitLogging() (*log.Logger, error) {
	opts := []log.Option{log.WithCaller(true), log.AddCallerSkip(1)}
	if config.LogFilter != "" {
		filter, err := log.WithFilterRules(config.LogFilter)
		if err != nil {
			return nil, fmt.Errorf("invalid log filter: %w", err)
		}
		opts = append(opts, filter)
	}
	var logger, sqlLogger *log.Logger
	switch config.LogFormat {
	case "json":
		logger = log.New(os.Stderr, parseLogLevel(config.LogLevel, log.InfoLevel), opts...)
		sqlLogger = log.New(os.Stderr, parseLogLevel(config.SQLLogLevel, log.InfoLevel), opts...)
	default:
		logger = log.DevLogger(os.Stderr,
			parseLogLevel(config.LogLevel, log.DebugLevel), opts...)
		sqlLogger = log.DevLogger(os.Stderr,
			parseLogLevel(config.SQLLogLevel, log.InfoLevel), opts...)
	}
	log.ResetDefault(logger)
	return sqlLogger.Named("sql"), nil
}

// WaitForRequiredServices blocks until the database (and nats, if
// configured) accept connections.
func WaitForRequiredServices(ctx context.Context) error {
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}
	if addr := utils.ExtractFromDBURL(config.DB); addr != "" {
		if err := utils.WaitForTCP(ctx, addr, timeout); err != nil {
			return fmt.Errorf("database not ready: %w", err)
		}
	}
	if config.NatsURL != "" {
		if addr := utils.ExtractFromNatsURL(config.NatsURL); addr != "" {
			if err := utils.WaitForTCP(ctx, addr, timeout); err != nil {
				return fmt.Errorf("nats not ready: %w", err)
			}
		}
	}
	return nil
}

// NewEnv sets up logging, telemetry, the database pool, the publisher and
// the scoring service.
//
//nolint:funlen // setup steps belong together
func NewEnv(ctx context.Context) (*Env, error) {
	sqlLogger, err := InitLogging()
	if err != nil {
		return nil, err
	}
	ret := &Env{SQLLogger: sqlLogger}
	if err := WaitForRequiredServices(ctx); err != nil {
		return nil, err
	}
	tracers := pgxtrace.CompositeQueryTracer{
		postgres.NewMyTracer(sqlLogger, log.DebugLevel),
	}
	if config.EnableTelemetry {
		log.Info("Enabling telemetry", log.String("endpoint", config.TelemetryEndpoint))
		if ret.telemetry, err = config.SetupTelemetry(ctx); err == nil {
			tracers = append(tracers, postgres.NewOtlpTracer())
		} else {
			log.Warn("Could not setup telemetry", log.ErrorField(err))
		}
		err = otlpruntime.Start(otlpruntime.WithMinimumReadMemStatsInterval(time.Second))
		if err != nil {
			log.Warn("Could not start runtime metrics", log.ErrorField(err))
		}
	}

	if ret.Pool, err = postgres.InitWithURL(ctx, config.DB,
		postgres.WithTracer(tracers)); err != nil {
		ret.Close()
		return nil, err
	}

	ret.publisher = notify.NewNoopPublisher()
	if config.NatsURL != "" {
		pub, err := notify.ConnectNats(config.NatsURL,
			notify.WithSubject(config.NatsSubject),
			notify.WithLogger(log.Default().Named("notify")))
		if err != nil {
			ret.Close()
			return nil, err
		}
		ret.publisher = pub
	}

	ret.Service = service.NewScoringService(
		service.WithRepositories(bob.NewRepositoriesFromPool(ret.Pool)),
		service.WithTxManager(bob.NewTransactionManagerFromPool(ret.Pool)),
		service.WithPublisher(ret.publisher),
	)
	return ret, nil
}

func (e *Env) Close() {
	if e.publisher != nil {
		e.publisher.Close()
	}
	if e.Pool != nil {
		e.Pool.Close()
	}
	if e.telemetry != nil {
		e.telemetry.Shutdown()
	}
	//nolint:errcheck // nothing to do on failure
	log.Sync()
}
