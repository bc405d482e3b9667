package migrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/regatta-score-manager-go/log"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/cmd/setup"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/config"
	"github.com/mpapenbr/regatta-score-manager-go/pkg/db/migrate"
)

func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "performs database migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startMigration(cmd.Context())
		},
	}
	return cmd
}

func startMigration(ctx context.Context) error {
	if _, err := setup.InitLogging(); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := setup.WaitForRequiredServices(ctx); err != nil {
		return err
	}
	dbURL := prepareURLForDB(config.DB)
	if err := migrate.MigrateDB(dbURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	version, dirty, err := migrate.Version(dbURL)
	if err != nil {
		return err
	}
	log.Info("Database migrated", log.Uint("version", version), log.Bool("dirty", dirty))
	return nil
}

func prepareURLForDB(url string) string {
	options := "sslmode=disable"
	if strings.Contains(url, "sslmode=") {
		return url
	}
	if strings.Contains(url, "?") {
		return fmt.Sprintf("%s&%s", url, options)
	}
	return fmt.Sprintf("%s?%s", url, options)
}
