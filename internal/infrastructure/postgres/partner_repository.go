package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/trade-ledger/internal/domain/entity"
	"github.com/jhoicas/trade-ledger/internal/domain/repository"
)

var _ repository.PartnerRepository = (*PartnerRepo)(nil)

// PartnerRepo directorio de clientes/proveedores.
type PartnerRepo struct {
	q Querier
}

// NewPartnerRepository construye el adaptador.
func NewPartnerRepository(q Querier) *PartnerRepo {
	return &PartnerRepo{q: q}
}

// ListAll todos los partners ordenados por código.
func (r *PartnerRepo) ListAll(ctx context.Context) ([]*entity.Partner, error) {
	rows, err := r.q.Query(ctx, `SELECT id, code, short_name, name, created_at FROM partners ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	defer rows.Close()
	var list []*entity.Partner
	for rows.Next() {
		var p entity.Partner
		if err := rows.Scan(&p.ID, &p.Code, &p.ShortName, &p.Name, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan partner: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Upsert inserta o actualiza el partner por id.
func (r *PartnerRepo) Upsert(ctx context.Context, p *entity.Partner) error {
	query := `
		INSERT INTO partners (id, code, short_name, name, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id)
		DO UPDATE SET code = EXCLUDED.code, short_name = EXCLUDED.short_name, name = EXCLUDED.name`
	if _, err := r.q.Exec(ctx, query, p.ID, p.Code, p.ShortName, p.Name, p.CreatedAt); err != nil {
		return fmt.Errorf("upsert partner: %w", err)
	}
	return nil
}
