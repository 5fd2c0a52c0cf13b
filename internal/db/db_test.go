package db

import (
	"context"
	"path/filepath"
	"testing"
)

func TestParseDriver(t *testing.T) {
	t.Parallel()

	cases := map[string]Driver{
		"":           SQLite,
		"sqlite":     SQLite,
		"SQLite3":    SQLite,
		"postgres":   Postgres,
		" pgx ":      Postgres,
		"postgresql": Postgres,
	}
	for raw, want := range cases {
		got, err := ParseDriver(raw)
		if err != nil {
			t.Fatalf("ParseDriver(%q): %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseDriver(%q) = %q, want %q", raw, got, want)
		}
	}

	if _, err := ParseDriver("mysql"); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}

func TestRebind(t *testing.T) {
	t.Parallel()

	query := `UPDATE bed_types SET area = ? WHERE id = ?`
	if got := SQLite.Rebind(query); got != query {
		t.Fatalf("sqlite rebind changed query: %q", got)
	}
	want := `UPDATE bed_types SET area = $1 WHERE id = $2`
	if got := Postgres.Rebind(query); got != want {
		t.Fatalf("postgres rebind = %q, want %q", got, want)
	}
}

func TestOpenSQLite(t *testing.T) {
	t.Parallel()

	database, err := Open(context.Background(), SQLite, filepath.Join(t.TempDir(), "open.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer database.Close()

	var mode string
	if err := database.QueryRow(`PRAGMA journal_mode`).Scan(&mode); err != nil {
		t.Fatalf("read journal mode: %v", err)
	}
	if mode != "wal" {
		t.Fatalf("expected wal journal mode, got %q", mode)
	}
}
