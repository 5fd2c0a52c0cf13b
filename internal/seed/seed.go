package seed

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/ehc32/Cotizador-V1/internal/catalog"
	"github.com/ehc32/Cotizador-V1/internal/db"
)

// Config contains the values required by startup seed.
type Config struct {
	AdminEmail    string
	AdminPassword string
	// Definition overrides the built-in catalog used for first-time seeding.
	Definition *catalog.Definition
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run executes the startup seed in an idempotent way. Existing rows are never
// overwritten, so catalog edits made by an administrator survive restarts.
func Run(ctx context.Context, database *sql.DB, driver db.Driver, cfg Config) (Stats, error) {
	def := catalog.DefaultDefinition()
	if cfg.Definition != nil {
		def = *cfg.Definition
	}
	// Validate before touching the database.
	if _, err := catalog.New(def); err != nil {
		return Stats{}, fmt.Errorf("seed catalog: %w", err)
	}

	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	s := seeder{ctx: ctx, tx: tx, driver: driver}

	steps := []func() error{
		func() error { return s.seedAdmin(cfg.AdminEmail, cfg.AdminPassword) },
		func() error { return s.ensureRateConfig(def) },
		func() error { return s.ensureBaseAreas(def.BaseAreas) },
		func() error { return s.ensureBedTypes(def.BedTypes) },
		func() error { return s.ensureSpaces(def.Spaces) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return s.stats, nil
}

// HashPassword returns a bcrypt hash suitable for the users table.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

type seeder struct {
	ctx    context.Context
	tx     *sql.Tx
	driver db.Driver
	stats  Stats
}

func (s *seeder) exists(query string, args ...any) (bool, error) {
	var exists bool
	err := s.tx.QueryRowContext(s.ctx, s.driver.Rebind(query), args...).Scan(&exists)
	return exists, err
}

func (s *seeder) insert(query string, args ...any) error {
	if _, err := s.tx.ExecContext(s.ctx, s.driver.Rebind(query), args...); err != nil {
		return err
	}
	s.stats.Inserts++
	return nil
}

func (s *seeder) seedAdmin(email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	exists, err := s.exists(`SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`, email)
	if err != nil {
		return fmt.Errorf("check admin user existence: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	if err := s.insert(`INSERT INTO users (email, password_hash) VALUES (?, ?)`, email, hash); err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}
	return nil
}

func (s *seeder) ensureRateConfig(def catalog.Definition) error {
	exists, err := s.exists(`SELECT EXISTS(SELECT 1 FROM rate_config WHERE id = 1)`)
	if err != nil {
		return fmt.Errorf("check rate config existence: %w", err)
	}
	if exists {
		return nil
	}

	currency := def.Currency
	if currency == "" {
		currency = "COP"
	}
	if err := s.insert(`
		INSERT INTO rate_config (id, design_rate, construction_rate, currency)
		VALUES (1, ?, ?, ?)
	`, def.DesignRate, def.ConstructionRate, currency); err != nil {
		return fmt.Errorf("insert rate config singleton: %w", err)
	}
	return nil
}

func (s *seeder) ensureBaseAreas(areas []catalog.BaseArea) error {
	for i, a := range areas {
		exists, err := s.exists(`SELECT EXISTS(SELECT 1 FROM base_areas WHERE name = ?)`, a.Name)
		if err != nil {
			return fmt.Errorf("check base area %s: %w", a.Name, err)
		}
		if exists {
			continue
		}
		if err := s.insert(`
			INSERT INTO base_areas (name, label, area, sort_order)
			VALUES (?, ?, ?, ?)
		`, a.Name, a.Label, a.Area, i); err != nil {
			return fmt.Errorf("insert base area %s: %w", a.Name, err)
		}
	}
	return nil
}

func (s *seeder) ensureBedTypes(beds []catalog.BedSpec) error {
	for i, b := range beds {
		exists, err := s.exists(`SELECT EXISTS(SELECT 1 FROM bed_types WHERE id = ?)`, string(b.ID))
		if err != nil {
			return fmt.Errorf("check bed type %s: %w", b.ID, err)
		}
		if exists {
			continue
		}
		if err := s.insert(`
			INSERT INTO bed_types (id, area, primary_eligible, secondary_eligible, sort_order)
			VALUES (?, ?, ?, ?, ?)
		`, string(b.ID), b.Area, b.Primary, b.Secondary, i); err != nil {
			return fmt.Errorf("insert bed type %s: %w", b.ID, err)
		}
	}
	return nil
}

func (s *seeder) ensureSpaces(spaces []catalog.SpaceSpec) error {
	for i, sp := range spaces {
		exists, err := s.exists(`SELECT EXISTS(SELECT 1 FROM additional_spaces WHERE id = ?)`, string(sp.ID))
		if err != nil {
			return fmt.Errorf("check additional space %s: %w", sp.ID, err)
		}
		if exists {
			continue
		}
		if err := s.insert(`
			INSERT INTO additional_spaces (id, area, sort_order)
			VALUES (?, ?, ?)
		`, string(sp.ID), sp.Area, i); err != nil {
			return fmt.Errorf("insert additional space %s: %w", sp.ID, err)
		}
	}
	return nil
}
