// Package cmd provides the commands of the cotizador CLI.
package cmd

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ehc32/Cotizador-V1/internal/catalog"
	"github.com/ehc32/Cotizador-V1/internal/config"
	"github.com/ehc32/Cotizador-V1/internal/db"
	"github.com/ehc32/Cotizador-V1/internal/logging"
)

// app holds state shared by every subcommand once the root command has
// loaded configuration.
type app struct {
	cfgFile     string
	catalogFile string
	verbose     bool

	cfg    config.Config
	logger *zap.Logger
}

// NewRootCmd builds the command tree. Each call returns independent flag
// state.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "cotizador",
		Short: "Quote architecture design and construction for SAAVE Arquitectos",
		Long: `cotizador computes design and construction quotes from a house
description and renders them as PDF documents.

Examples:
  cotizador quote -r request.yaml
  cotizador quote -r request.json --format json
  cotizador quote -r request.yaml --pdf ./out/
  cotizador catalog export -o catalog.yaml
  cotizador migrate && cotizador seed`,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./.env when present)")
	root.PersistentFlags().StringVar(&a.catalogFile, "catalog", "", "catalog YAML file (default is the built-in catalog)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newQuoteCmd(a),
		newCatalogCmd(a),
		newMigrateCmd(a),
		newSeedCmd(a),
	)
	return root
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) init(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := "warn"
	if a.verbose {
		level = "debug"
	}
	logger, err := logging.New(logging.Config{Level: level, Format: "console", OutputFile: cfg.LogFile})
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

// catalog returns the catalog selected by --catalog or the built-in one.
func (a *app) catalog() (*catalog.Catalog, error) {
	if a.catalogFile == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.LoadFile(a.catalogFile)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", a.catalogFile, err)
	}
	return cat, nil
}

func (a *app) openDB(ctx context.Context) (*sql.DB, db.Driver, error) {
	driver, err := db.ParseDriver(a.cfg.DBDriver)
	if err != nil {
		return nil, "", err
	}
	database, err := db.Open(ctx, driver, a.cfg.DBPath)
	if err != nil {
		return nil, "", fmt.Errorf("open database: %w", err)
	}
	a.logger.Debug("database opened", zap.String("op", "db.Open"), zap.String("driver", string(driver)))
	return database, driver, nil
}
