//nolint:errcheck // testsetup
package tcpostgres

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mpapenbr/regatta-score-manager-go/pkg/db/migrate"
	database "github.com/mpapenbr/regatta-score-manager-go/pkg/db/postgres"
)

// SetupTestDB starts (or reuses) a postgres container, applies the
// migrations and returns a pool for it.
func SetupTestDB() *pgxpool.Pool {
	ctx := context.Background()
	port, err := nat.NewPort("tcp", "5432")
	if err != nil {
		log.Fatal(err)
	}
	container, err := SetupPostgres(ctx,
		WithPort(port.Port()),
		WithInitialDatabase("postgres", "password", "postgres"),
		WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(10*time.Second)),
		WithName("regatta-score-manager-test"),
	)
	if err != nil {
		log.Fatal(err)
	}
	containerPort, _ := container.MappedPort(ctx, port)
	host, _ := container.Host(ctx)
	dbURL := fmt.Sprintf("postgresql://postgres:password@%s:%s/postgres?sslmode=disable",
		host, containerPort.Port())
	return setupWithURL(ctx, dbURL)
}

// SetupExternalTestDB uses the database referenced by TESTDB_URL.
func SetupExternalTestDB() *pgxpool.Pool {
	return setupWithURL(context.Background(), os.Getenv("TESTDB_URL"))
}

func setupWithURL(ctx context.Context, dbURL string) *pgxpool.Pool {
	if err := migrate.MigrateDB(dbURL); err != nil {
		log.Fatal(err)
	}
	pool, err := database.InitWithURL(ctx, dbURL)
	if err != nil {
		log.Fatal(err)
	}
	return pool
}

// ClearAllTables removes all rows. Tables are cleared in dependency order.
func ClearAllTables(pool *pgxpool.Pool) {
	for _, table := range []string{
		"dt_team_division",
		"team_penalty",
		"finish_modifier",
		"finish",
		"race",
		"team",
		"regatta",
	} {
		pool.Exec(context.Background(), "delete from "+table)
	}
}
