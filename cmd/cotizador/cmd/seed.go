package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ehc32/Cotizador-V1/internal/seed"
)

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the admin user and the catalog when missing",
		Long: `Insert the admin user (ADMIN_EMAIL / ADMIN_PASSWORD) and the pricing
catalog into the configured database. Existing rows are left untouched, so
running it again is safe. With --catalog the file is used instead of the
built-in catalog.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cat, err := a.catalog()
			if err != nil {
				return err
			}
			def := cat.Definition()

			database, driver, err := a.openDB(ctx)
			if err != nil {
				return err
			}
			defer database.Close()

			stats, err := seed.Run(ctx, database, driver, seed.Config{
				AdminEmail:    a.cfg.AdminEmail,
				AdminPassword: a.cfg.AdminPassword,
				Definition:    &def,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seed completed: %d rows inserted\n", stats.Inserts)
			return nil
		},
	}
}
