package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ehc32/Cotizador-V1/internal/migrations"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Long:  "Apply the embedded SQL migrations to the database configured by DB_DRIVER and DB_PATH.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			database, driver, err := a.openDB(ctx)
			if err != nil {
				return err
			}
			defer database.Close()

			results, err := migrations.Up(ctx, database, driver)
			if err != nil {
				return err
			}
			for _, r := range results {
				a.logger.Debug("migration applied", zap.String("op", "migrations.Up"), zap.Int64("version", r.Source.Version), zap.Duration("took", r.Duration))
			}
			version, err := migrations.Version(ctx, database, driver)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migrations, schema version %d\n", len(results), version)
			return nil
		},
	}
}
