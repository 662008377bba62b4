package seed

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Simplici0/marginguard/internal/db"
	"github.com/Simplici0/marginguard/internal/logistics"
	"github.com/Simplici0/marginguard/internal/migrations"
	"github.com/Simplici0/marginguard/internal/store"
)

func TestRunIsIdempotent(t *testing.T) {
	ctx := context.Background()

	dbPath := filepath.Join(t.TempDir(), "seed-test.db")
	database, err := db.Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(ctx, database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	defaults := logistics.DefaultCarriers()
	for i := 0; i < 10; i++ {
		stats, err := Run(ctx, database, defaults)
		if err != nil {
			t.Fatalf("run seed (iteration=%d): %v", i, err)
		}
		if i == 0 {
			if stats.Inserts != len(defaults) {
				t.Fatalf("expected %d inserts in first run, got %d", len(defaults), stats.Inserts)
			}
			continue
		}
		if stats.Inserts != 0 {
			t.Fatalf("expected 0 inserts in iteration %d, got %d", i, stats.Inserts)
		}
	}

	assertCount(t, database, `SELECT COUNT(*) FROM carriers`, nil, len(defaults))
	assertCount(t, database, `SELECT COUNT(*) FROM carriers WHERE name = ?`, "InPost", 1)

	carriers, err := store.New(database).ActiveCarriers(ctx)
	if err != nil {
		t.Fatalf("ActiveCarriers: %v", err)
	}
	best, err := logistics.SelectBest(1, carriers, logistics.DefaultWeights())
	if err != nil {
		t.Fatalf("SelectBest: %v", err)
	}
	if carriers[best].Name != "InPost" {
		t.Fatalf("best seeded carrier for 1kg = %q, want InPost", carriers[best].Name)
	}
}

func TestRunKeepsOperatorEdits(t *testing.T) {
	ctx := context.Background()
	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "seed-edit.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()
	if err := migrations.Up(ctx, database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	if _, err := Run(ctx, database, logistics.DefaultCarriers()); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if _, err := database.Exec(`UPDATE carriers SET base_price = 99, active = 0 WHERE name = 'DHL'`); err != nil {
		t.Fatalf("edit carrier: %v", err)
	}
	if _, err := Run(ctx, database, logistics.DefaultCarriers()); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	assertCount(t, database, `SELECT COUNT(*) FROM carriers WHERE name = 'DHL' AND base_price = 99 AND active = 0`, nil, 1)
}

func assertCount(t *testing.T, database *sql.DB, query string, args any, expected int) {
	t.Helper()

	var count int
	var err error
	switch v := args.(type) {
	case nil:
		err = database.QueryRow(query).Scan(&count)
	case []any:
		err = database.QueryRow(query, v...).Scan(&count)
	default:
		err = database.QueryRow(query, v).Scan(&count)
	}
	if err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != expected {
		t.Fatalf("expected count %d, got %d", expected, count)
	}
}
