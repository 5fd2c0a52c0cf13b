package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ehc32/Cotizador-V1/internal/catalog"
)

func newCatalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and validate pricing catalogs",
	}
	cmd.AddCommand(newCatalogExportCmd(a), newCatalogValidateCmd())
	return cmd
}

func newCatalogExportCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the active catalog as YAML",
		Long: `Write the built-in catalog, or the one given with --catalog, as YAML.
The output can be edited and passed back with --catalog or CATALOG_FILE.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.catalog()
			if err != nil {
				return err
			}
			if output == "" {
				return catalog.Encode(cmd.OutOrStdout(), cat)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			if err := catalog.Encode(f, cat); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newCatalogValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check that a catalog file prices every bed type and space",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.LoadFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d base areas, %d bed types, %d additional spaces, base area %vm²)\n",
				args[0], len(cat.BaseAreas()), len(cat.BedTypes()), len(cat.Spaces()), cat.BaseAreaTotal())
			return nil
		},
	}
}
