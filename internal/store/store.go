// Package store keeps an audit trail of engine decisions and the carrier
// catalogue in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Simplici0/marginguard/internal/logistics"
)

const (
	KindMargin    = "margin"
	KindReprice   = "reprice"
	KindExecute   = "reprice_execute"
	KindBatch     = "reprice_batch"
	KindNegotiate = "negotiate"
	KindCarrier   = "carrier"
	KindAds       = "ads"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

var ErrEmptyKind = errors.New("decision kind is required")

type Entry struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	SKU       string          `json:"sku,omitempty"`
	Input     json.RawMessage `json:"input"`
	Output    json.RawMessage `json:"output"`
	CreatedAt time.Time       `json:"created_at"`
}

type Store struct {
	db  *sql.DB
	now func() time.Time
}

func New(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Record serializes input and output and appends them to the audit log.
func (s *Store) Record(ctx context.Context, kind, sku string, input, output any) (string, error) {
	if kind == "" {
		return "", ErrEmptyKind
	}
	in, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("encode decision input: %w", err)
	}
	out, err := json.Marshal(output)
	if err != nil {
		return "", fmt.Errorf("encode decision output: %w", err)
	}

	id := uuid.NewString()
	createdAt := s.now().UTC().Format(time.RFC3339Nano)
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO decisions (id, kind, sku, input, output, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, kind, sku, string(in), string(out), createdAt); err != nil {
		return "", fmt.Errorf("insert decision: %w", err)
	}
	return id, nil
}

// List returns the newest entries first. An empty kind lists every kind.
func (s *Store) List(ctx context.Context, kind string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	limit = min(limit, MaxListLimit)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, sku, input, output, created_at
		FROM decisions
		WHERE ? = '' OR kind = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, kind, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var (
			e         Entry
			in, out   string
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.Kind, &e.SKU, &in, &out, &createdAt); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		e.Input = json.RawMessage(in)
		e.Output = json.RawMessage(out)
		e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse decision timestamp %q: %w", createdAt, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decisions: %w", err)
	}
	return entries, nil
}

// ActiveCarriers returns the enabled carriers ordered by name.
func (s *Store) ActiveCarriers(ctx context.Context) ([]logistics.Carrier, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, base_price, price_per_kg, lead_time_days, reliability
		FROM carriers
		WHERE active = 1
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("query carriers: %w", err)
	}
	defer rows.Close()

	var carriers []logistics.Carrier
	for rows.Next() {
		var (
			c           logistics.Carrier
			reliability sql.NullFloat64
		)
		if err := rows.Scan(&c.Name, &c.BasePrice, &c.PricePerKg, &c.LeadTimeDays, &reliability); err != nil {
			return nil, fmt.Errorf("scan carrier: %w", err)
		}
		if reliability.Valid {
			r := reliability.Float64
			c.Reliability = &r
		}
		carriers = append(carriers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate carriers: %w", err)
	}
	return carriers, nil
}
