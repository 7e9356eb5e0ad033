package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/trade-ledger/internal/domain"
	"github.com/jhoicas/trade-ledger/internal/domain/entity"
	"github.com/jhoicas/trade-ledger/internal/domain/repository"
)

var (
	_ repository.InboundRepository    = (*InboundRepo)(nil)
	_ repository.OutboundRepository   = (*OutboundRepo)(nil)
	_ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)
)

// rowsAffectedOrNotFound ErrNotFound si la sentencia no tocó ninguna fila.
func rowsAffectedOrNotFound(n int64) error {
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ── Entradas ─────────────────────────────────────────────────────────────────

// InboundRepo tabla inbound_records (usable con pool o tx).
type InboundRepo struct {
	q Querier
}

// NewInboundRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInboundRepository(q Querier) *InboundRepo {
	return &InboundRepo{q: q}
}

const inboundColumns = `id, seq, product_key, quantity, unit_cost, amount, partner_code, partner_name, date, created_at, updated_at`

func scanInbound(row pgx.Row) (*entity.InboundRecord, error) {
	var r entity.InboundRecord
	err := row.Scan(&r.ID, &r.Seq, &r.ProductKey, &r.Quantity, &r.UnitCost, &r.Amount,
		&r.PartnerCode, &r.PartnerName, &r.Date, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Create inserta la entrada; seq lo asigna la secuencia de la tabla.
func (r *InboundRepo) Create(ctx context.Context, rec *entity.InboundRecord) error {
	query := `
		INSERT INTO inbound_records (id, product_key, quantity, unit_cost, amount, partner_code, partner_name, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query, rec.ID, rec.ProductKey, rec.Quantity, rec.UnitCost, rec.Amount,
		rec.PartnerCode, rec.PartnerName, rec.Date, rec.CreatedAt, rec.UpdatedAt,
	).Scan(&rec.Seq)
	if err != nil {
		return insertError("create inbound", err)
	}
	return nil
}

// Update reemplaza los campos editables; seq no cambia.
func (r *InboundRepo) Update(ctx context.Context, rec *entity.InboundRecord) error {
	query := `
		UPDATE inbound_records
		SET product_key = $2, quantity = $3, unit_cost = $4, amount = $5, partner_code = $6, partner_name = $7, date = $8, updated_at = $9
		WHERE id = $1
		RETURNING seq`
	err := r.q.QueryRow(ctx, query, rec.ID, rec.ProductKey, rec.Quantity, rec.UnitCost, rec.Amount,
		rec.PartnerCode, rec.PartnerName, rec.Date, rec.UpdatedAt,
	).Scan(&rec.Seq)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update inbound: %w", err)
	}
	return nil
}

// Delete borra la entrada.
func (r *InboundRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM inbound_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete inbound: %w", err)
	}
	return rowsAffectedOrNotFound(tag.RowsAffected())
}

// GetByID devuelve nil, nil si no existe.
func (r *InboundRepo) GetByID(ctx context.Context, id string) (*entity.InboundRecord, error) {
	rec, err := scanInbound(r.q.QueryRow(ctx, `SELECT `+inboundColumns+` FROM inbound_records WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inbound: %w", err)
	}
	return rec, nil
}

// ListOrdered todas las entradas por (date, seq).
func (r *InboundRepo) ListOrdered(ctx context.Context) ([]*entity.InboundRecord, error) {
	rows, err := r.q.Query(ctx, `SELECT `+inboundColumns+` FROM inbound_records ORDER BY date, seq`)
	if err != nil {
		return nil, fmt.Errorf("list inbound: %w", err)
	}
	defer rows.Close()
	var list []*entity.InboundRecord
	for rows.Next() {
		rec, err := scanInbound(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inbound: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

// ── Salidas ──────────────────────────────────────────────────────────────────

// OutboundRepo tabla outbound_records (usable con pool o tx).
type OutboundRepo struct {
	q Querier
}

// NewOutboundRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOutboundRepository(q Querier) *OutboundRepo {
	return &OutboundRepo{q: q}
}

const outboundColumns = `id, seq, product_key, quantity, unit_price, amount, partner_code, partner_name, date, created_at, updated_at`

func scanOutbound(row pgx.Row) (*entity.OutboundRecord, error) {
	var r entity.OutboundRecord
	err := row.Scan(&r.ID, &r.Seq, &r.ProductKey, &r.Quantity, &r.UnitPrice, &r.Amount,
		&r.PartnerCode, &r.PartnerName, &r.Date, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Create inserta la salida.
func (r *OutboundRepo) Create(ctx context.Context, rec *entity.OutboundRecord) error {
	query := `
		INSERT INTO outbound_records (id, product_key, quantity, unit_price, amount, partner_code, partner_name, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query, rec.ID, rec.ProductKey, rec.Quantity, rec.UnitPrice, rec.Amount,
		rec.PartnerCode, rec.PartnerName, rec.Date, rec.CreatedAt, rec.UpdatedAt,
	).Scan(&rec.Seq)
	if err != nil {
		return insertError("create outbound", err)
	}
	return nil
}

// Update reemplaza los campos editables; seq no cambia.
func (r *OutboundRepo) Update(ctx context.Context, rec *entity.OutboundRecord) error {
	query := `
		UPDATE outbound_records
		SET product_key = $2, quantity = $3, unit_price = $4, amount = $5, partner_code = $6, partner_name = $7, date = $8, updated_at = $9
		WHERE id = $1
		RETURNING seq`
	err := r.q.QueryRow(ctx, query, rec.ID, rec.ProductKey, rec.Quantity, rec.UnitPrice, rec.Amount,
		rec.PartnerCode, rec.PartnerName, rec.Date, rec.UpdatedAt,
	).Scan(&rec.Seq)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update outbound: %w", err)
	}
	return nil
}

// Delete borra la salida.
func (r *OutboundRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM outbound_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete outbound: %w", err)
	}
	return rowsAffectedOrNotFound(tag.RowsAffected())
}

// GetByID devuelve nil, nil si no existe.
func (r *OutboundRepo) GetByID(ctx context.Context, id string) (*entity.OutboundRecord, error) {
	rec, err := scanOutbound(r.q.QueryRow(ctx, `SELECT `+outboundColumns+` FROM outbound_records WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get outbound: %w", err)
	}
	return rec, nil
}

// ListOrdered salidas con date <= until (nil = todas) por (date, seq).
func (r *OutboundRepo) ListOrdered(ctx context.Context, until *time.Time) ([]*entity.OutboundRecord, error) {
	query := `SELECT ` + outboundColumns + ` FROM outbound_records`
	var args []any
	if until != nil {
		query += ` WHERE date <= $1`
		args = append(args, *until)
	}
	query += ` ORDER BY date, seq`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list outbound: %w", err)
	}
	defer rows.Close()
	var list []*entity.OutboundRecord
	for rows.Next() {
		rec, err := scanOutbound(rows)
		if err != nil {
			return nil, fmt.Errorf("scan outbound: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

// ── Ajustes ──────────────────────────────────────────────────────────────────

// AdjustmentRepo tabla stock_adjustments (usable con pool o tx).
type AdjustmentRepo struct {
	q Querier
}

// NewAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

const adjustmentColumns = `id, seq, product_key, quantity, reason, date, created_at, updated_at`

func scanAdjustment(row pgx.Row) (*entity.AdjustmentRecord, error) {
	var r entity.AdjustmentRecord
	if err := row.Scan(&r.ID, &r.Seq, &r.ProductKey, &r.Quantity, &r.Reason, &r.Date, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// Create inserta el ajuste.
func (r *AdjustmentRepo) Create(ctx context.Context, rec *entity.AdjustmentRecord) error {
	query := `
		INSERT INTO stock_adjustments (id, product_key, quantity, reason, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query, rec.ID, rec.ProductKey, rec.Quantity, rec.Reason, rec.Date, rec.CreatedAt, rec.UpdatedAt).Scan(&rec.Seq)
	if err != nil {
		return insertError("create adjustment", err)
	}
	return nil
}

// Update reemplaza los campos editables; seq no cambia.
func (r *AdjustmentRepo) Update(ctx context.Context, rec *entity.AdjustmentRecord) error {
	query := `
		UPDATE stock_adjustments
		SET product_key = $2, quantity = $3, reason = $4, date = $5, updated_at = $6
		WHERE id = $1
		RETURNING seq`
	err := r.q.QueryRow(ctx, query, rec.ID, rec.ProductKey, rec.Quantity, rec.Reason, rec.Date, rec.UpdatedAt).Scan(&rec.Seq)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update adjustment: %w", err)
	}
	return nil
}

// Delete borra el ajuste.
func (r *AdjustmentRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_adjustments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete adjustment: %w", err)
	}
	return rowsAffectedOrNotFound(tag.RowsAffected())
}

// GetByID devuelve nil, nil si no existe.
func (r *AdjustmentRepo) GetByID(ctx context.Context, id string) (*entity.AdjustmentRecord, error) {
	rec, err := scanAdjustment(r.q.QueryRow(ctx, `SELECT `+adjustmentColumns+` FROM stock_adjustments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get adjustment: %w", err)
	}
	return rec, nil
}

// ListOrdered todos los ajustes por (date, seq).
func (r *AdjustmentRepo) ListOrdered(ctx context.Context) ([]*entity.AdjustmentRecord, error) {
	rows, err := r.q.Query(ctx, `SELECT `+adjustmentColumns+` FROM stock_adjustments ORDER BY date, seq`)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	defer rows.Close()
	var list []*entity.AdjustmentRecord
	for rows.Next() {
		rec, err := scanAdjustment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}
