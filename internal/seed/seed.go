package seed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Simplici0/marginguard/internal/logistics"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run executes the startup seed in an idempotent way. Existing carriers are
// left untouched.
func Run(ctx context.Context, db *sql.DB, carriers []logistics.Carrier) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}
	for _, c := range carriers {
		if err := ensureCarrier(ctx, tx, c, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureCarrier(ctx context.Context, tx *sql.Tx, c logistics.Carrier, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM carriers WHERE name = ? LIMIT 1)`, c.Name).Scan(&exists); err != nil {
		return fmt.Errorf("check carrier %q existence: %w", c.Name, err)
	}
	if exists {
		return nil
	}

	var reliability sql.NullFloat64
	if c.Reliability != nil {
		reliability = sql.NullFloat64{Float64: *c.Reliability, Valid: true}
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO carriers (name, base_price, price_per_kg, lead_time_days, reliability, active)
		VALUES (?, ?, ?, ?, ?, ?)
	`, c.Name, c.BasePrice, c.PricePerKg, c.LeadTimeDays, reliability, true); err != nil {
		return fmt.Errorf("insert carrier %q: %w", c.Name, err)
	}
	stats.Inserts++
	return nil
}
