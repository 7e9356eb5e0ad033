package repository

import (
	"context"

	"github.com/jhoicas/trade-ledger/internal/domain/entity"
)

// PartnerRepository puerto de lectura del directorio de clientes/proveedores.
type PartnerRepository interface {
	ListAll(ctx context.Context) ([]*entity.Partner, error)
}
