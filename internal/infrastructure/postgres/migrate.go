package postgres

import (
	"context"
	"fmt"
)

// schema tablas fuente, ledger y proyecciones. seq (BIGSERIAL) desempata registros con la misma fecha.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS partners (
		id          TEXT PRIMARY KEY,
		code        TEXT NOT NULL DEFAULT '',
		short_name  TEXT NOT NULL DEFAULT '',
		name        TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_partners_code ON partners (code)`,
	`CREATE TABLE IF NOT EXISTS inbound_records (
		id            TEXT PRIMARY KEY,
		seq           BIGSERIAL NOT NULL,
		product_key   TEXT NOT NULL DEFAULT '',
		quantity      NUMERIC(20,5),
		unit_cost     NUMERIC(20,5) NOT NULL DEFAULT 0,
		amount        NUMERIC(20,2),
		partner_code  TEXT NOT NULL DEFAULT '',
		partner_name  TEXT NOT NULL DEFAULT '',
		date          DATE NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_inbound_date_seq ON inbound_records (date, seq)`,
	`CREATE TABLE IF NOT EXISTS outbound_records (
		id            TEXT PRIMARY KEY,
		seq           BIGSERIAL NOT NULL,
		product_key   TEXT NOT NULL DEFAULT '',
		quantity      NUMERIC(20,5),
		unit_price    NUMERIC(20,5) NOT NULL DEFAULT 0,
		amount        NUMERIC(20,2),
		partner_code  TEXT NOT NULL DEFAULT '',
		partner_name  TEXT NOT NULL DEFAULT '',
		date          DATE NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_outbound_date_seq ON outbound_records (date, seq)`,
	`CREATE TABLE IF NOT EXISTS stock_adjustments (
		id            TEXT PRIMARY KEY,
		seq           BIGSERIAL NOT NULL,
		product_key   TEXT NOT NULL DEFAULT '',
		quantity      NUMERIC(20,5),
		reason        TEXT NOT NULL DEFAULT '',
		date          DATE NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_adjustments_date_seq ON stock_adjustments (date, seq)`,
	`CREATE TABLE IF NOT EXISTS stock_events (
		id              TEXT PRIMARY KEY,
		product_key     TEXT NOT NULL,
		quantity_delta  NUMERIC(20,5) NOT NULL,
		kind            TEXT NOT NULL CHECK (kind IN ('IN', 'OUT', 'ADJUSTMENT')),
		reference_id    TEXT NOT NULL,
		occurred_at     TIMESTAMPTZ NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_stock_events_reference ON stock_events (reference_id, kind)`,
	`CREATE INDEX IF NOT EXISTS idx_stock_events_product ON stock_events (product_key)`,
	`CREATE TABLE IF NOT EXISTS stock_projections (
		product_key  TEXT PRIMARY KEY,
		quantity     NUMERIC(20,5) NOT NULL DEFAULT 0,
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// Migrate crea el esquema si no existe. Idempotente.
func Migrate(ctx context.Context, q Querier) error {
	for i, stmt := range schema {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
