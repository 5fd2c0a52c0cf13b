package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ehc32/Cotizador-V1/internal/db"
)

// ErrNotSeeded is returned by Store.Load when the catalog tables are empty.
var ErrNotSeeded = errors.New("catalog tables are not seeded")

// Store persists catalog definitions in the SQL schema created by the
// migrations package.
type Store struct {
	db     *sql.DB
	driver db.Driver
}

func NewStore(database *sql.DB, driver db.Driver) *Store {
	return &Store{db: database, driver: driver}
}

// Load reads the stored definition and validates it into a Catalog.
func (s *Store) Load(ctx context.Context) (*Catalog, error) {
	var def Definition
	err := s.db.QueryRowContext(ctx, `
		SELECT design_rate, construction_rate, currency
		FROM rate_config
		WHERE id = 1
	`).Scan(&def.DesignRate, &def.ConstructionRate, &def.Currency)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotSeeded
	}
	if err != nil {
		return nil, fmt.Errorf("load rate config: %w", err)
	}

	if def.BaseAreas, err = s.loadBaseAreas(ctx); err != nil {
		return nil, err
	}
	if def.BedTypes, err = s.loadBedTypes(ctx); err != nil {
		return nil, err
	}
	if def.Spaces, err = s.loadSpaces(ctx); err != nil {
		return nil, err
	}

	return New(def)
}

func (s *Store) loadBaseAreas(ctx context.Context) ([]BaseArea, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, label, area FROM base_areas ORDER BY sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("load base areas: %w", err)
	}
	defer rows.Close()

	var out []BaseArea
	for rows.Next() {
		var item BaseArea
		if err := rows.Scan(&item.Name, &item.Label, &item.Area); err != nil {
			return nil, fmt.Errorf("scan base area: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate base areas: %w", err)
	}
	return out, nil
}

func (s *Store) loadBedTypes(ctx context.Context) ([]BedSpec, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, area, primary_eligible, secondary_eligible
		FROM bed_types
		ORDER BY sort_order, id
	`)
	if err != nil {
		return nil, fmt.Errorf("load bed types: %w", err)
	}
	defer rows.Close()

	var out []BedSpec
	for rows.Next() {
		var item BedSpec
		if err := rows.Scan(&item.ID, &item.Area, &item.Primary, &item.Secondary); err != nil {
			return nil, fmt.Errorf("scan bed type: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bed types: %w", err)
	}
	return out, nil
}

func (s *Store) loadSpaces(ctx context.Context) ([]SpaceSpec, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, area FROM additional_spaces ORDER BY sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("load additional spaces: %w", err)
	}
	defer rows.Close()

	var out []SpaceSpec
	for rows.Next() {
		var item SpaceSpec
		if err := rows.Scan(&item.ID, &item.Area); err != nil {
			return nil, fmt.Errorf("scan additional space: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate additional spaces: %w", err)
	}
	return out, nil
}

// Save writes the full catalog definition in a single transaction.
func (s *Store) Save(ctx context.Context, c *Catalog) error {
	def := c.Definition()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin catalog transaction: %w", err)
	}

	if err := s.save(ctx, tx, def); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit catalog transaction: %w", err)
	}
	return nil
}

func (s *Store) save(ctx context.Context, tx *sql.Tx, def Definition) error {
	if _, err := tx.ExecContext(ctx, s.driver.Rebind(`
		INSERT INTO rate_config (id, design_rate, construction_rate, currency)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			design_rate = excluded.design_rate,
			construction_rate = excluded.construction_rate,
			currency = excluded.currency,
			updated_at = CURRENT_TIMESTAMP
	`), def.DesignRate, def.ConstructionRate, def.Currency); err != nil {
		return fmt.Errorf("save rate config: %w", err)
	}

	for i, item := range def.BaseAreas {
		if _, err := tx.ExecContext(ctx, s.driver.Rebind(`
			INSERT INTO base_areas (name, label, area, sort_order)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET
				label = excluded.label,
				area = excluded.area,
				sort_order = excluded.sort_order,
				updated_at = CURRENT_TIMESTAMP
		`), item.Name, item.Label, item.Area, i); err != nil {
			return fmt.Errorf("save base area %s: %w", item.Name, err)
		}
	}

	for i, item := range def.BedTypes {
		if _, err := tx.ExecContext(ctx, s.driver.Rebind(`
			INSERT INTO bed_types (id, area, primary_eligible, secondary_eligible, sort_order)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				area = excluded.area,
				primary_eligible = excluded.primary_eligible,
				secondary_eligible = excluded.secondary_eligible,
				sort_order = excluded.sort_order,
				updated_at = CURRENT_TIMESTAMP
		`), string(item.ID), item.Area, item.Primary, item.Secondary, i); err != nil {
			return fmt.Errorf("save bed type %s: %w", item.ID, err)
		}
	}

	for i, item := range def.Spaces {
		if _, err := tx.ExecContext(ctx, s.driver.Rebind(`
			INSERT INTO additional_spaces (id, area, sort_order)
			VALUES (?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				area = excluded.area,
				sort_order = excluded.sort_order,
				updated_at = CURRENT_TIMESTAMP
		`), string(item.ID), item.Area, i); err != nil {
			return fmt.Errorf("save additional space %s: %w", item.ID, err)
		}
	}

	return nil
}
