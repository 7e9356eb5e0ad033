package trade

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/trade-ledger/internal/application/dto"
	"github.com/jhoicas/trade-ledger/internal/application/ledger"
	"github.com/jhoicas/trade-ledger/internal/domain"
	"github.com/jhoicas/trade-ledger/internal/domain/entity"
	"github.com/jhoicas/trade-ledger/pkg/numeric"
)

// UseCase altas, cambios y bajas de registros de entrada, salida y ajuste.
// Cada operación guarda el registro fuente y su aporte al ledger en la misma transacción:
// si el reconciliador falla, el registro fuente tampoco se persiste.
type UseCase struct {
	txRunner   ledger.TxRunner
	reconciler *ledger.Reconciler
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner ledger.TxRunner, reconciler *ledger.Reconciler) *UseCase {
	return &UseCase{txRunner: txRunner, reconciler: reconciler}
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dto.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, domain.ErrInvalidInput
	}
	return t, nil
}

// ── Entradas ─────────────────────────────────────────────────────────────────

func inboundFromRequest(id string, in dto.InboundRequest) (*entity.InboundRecord, error) {
	date, err := parseDate(in.Date)
	if err != nil {
		return nil, err
	}
	if in.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	return &entity.InboundRecord{
		ID:          id,
		ProductKey:  strings.TrimSpace(in.ProductKey),
		Quantity:    numeric.NullFromPtr(in.Quantity),
		UnitCost:    in.UnitCost,
		Amount:      numeric.NullFromPtr(in.Amount),
		PartnerCode: in.PartnerCode,
		PartnerName: in.PartnerName,
		Date:        date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// CreateInbound registra una entrada y su evento IN.
func (uc *UseCase) CreateInbound(ctx context.Context, in dto.InboundRequest) (*entity.InboundRecord, error) {
	rec, err := inboundFromRequest(uuid.New().String(), in)
	if err != nil {
		return nil, err
	}
	err = uc.txRunner.Run(ctx, func(repos ledger.Repos) error {
		if err := repos.Inbound.Create(ctx, rec); err != nil {
			return err
		}
		_, err := uc.reconciler.OnCreateInTx(ctx, repos, rec.StockSource())
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// UpdateInbound reemplaza la entrada y reaplica su aporte (revertir + crear).
func (uc *UseCase) UpdateInbound(ctx context.Context, id string, in dto.InboundRequest) (*entity.InboundRecord, error) {
	rec, err := inboundFromRequest(id, in)
	if err != nil {
		return nil, err
	}
	err = uc.txRunner.Run(ctx, func(repos ledger.Repos) error {
		old, err := repos.Inbound.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if old == nil {
			return domain.ErrNotFound
		}
		rec.CreatedAt = old.CreatedAt
		if err := repos.Inbound.Update(ctx, rec); err != nil {
			return err
		}
		return uc.reconciler.OnUpdateInTx(ctx, repos, old.StockSource(), rec.StockSource())
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// DeleteInbound borra la entrada y revierte su evento.
func (uc *UseCase) DeleteInbound(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(repos ledger.Repos) error {
		if err := repos.Inbound.Delete(ctx, id); err != nil {
			return err
		}
		return uc.reconciler.OnDeleteInTx(ctx, repos, id, entity.EventKindInbound)
	})
}

// ── Salidas ──────────────────────────────────────────────────────────────────

func outboundFromRequest(id string, in dto.OutboundRequest) (*entity.OutboundRecord, error) {
	date, err := parseDate(in.Date)
	if err != nil {
		return nil, err
	}
	if in.UnitPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	return &entity.OutboundRecord{
		ID:          id,
		ProductKey:  strings.TrimSpace(in.ProductKey),
		Quantity:    numeric.NullFromPtr(in.Quantity),
		UnitPrice:   in.UnitPrice,
		Amount:      numeric.NullFromPtr(in.Amount),
		PartnerCode: in.PartnerCode,
		PartnerName: in.PartnerName,
		Date:        date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// CreateOutbound registra una salida y su evento OUT (delta negativo).
func (uc *UseCase) CreateOutbound(ctx context.Context, in dto.OutboundRequest) (*entity.OutboundRecord, error) {
	rec, err := outboundFromRequest(uuid.New().String(), in)
	if err != nil {
		return nil, err
	}
	err = uc.txRunner.Run(ctx, func(repos ledger.Repos) error {
		if err := repos.Outbound.Create(ctx, rec); err != nil {
			return err
		}
		_, err := uc.reconciler.OnCreateInTx(ctx, repos, rec.StockSource())
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// UpdateOutbound reemplaza la salida y reaplica su aporte.
func (uc *UseCase) UpdateOutbound(ctx context.Context, id string, in dto.OutboundRequest) (*entity.OutboundRecord, error) {
	rec, err := outboundFromRequest(id, in)
	if err != nil {
		return nil, err
	}
	err = uc.txRunner.Run(ctx, func(repos ledger.Repos) error {
		old, err := repos.Outbound.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if old == nil {
			return domain.ErrNotFound
		}
		rec.CreatedAt = old.CreatedAt
		if err := repos.Outbound.Update(ctx, rec); err != nil {
			return err
		}
		return uc.reconciler.OnUpdateInTx(ctx, repos, old.StockSource(), rec.StockSource())
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// DeleteOutbound borra la salida y revierte su evento.
func (uc *UseCase) DeleteOutbound(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(repos ledger.Repos) error {
		if err := repos.Outbound.Delete(ctx, id); err != nil {
			return err
		}
		return uc.reconciler.OnDeleteInTx(ctx, repos, id, entity.EventKindOutbound)
	})
}

// ── Ajustes ──────────────────────────────────────────────────────────────────

func adjustmentFromRequest(id string, in dto.AdjustmentRequest) (*entity.AdjustmentRecord, error) {
	date, err := parseDate(in.Date)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &entity.AdjustmentRecord{
		ID:         id,
		ProductKey: strings.TrimSpace(in.ProductKey),
		Quantity:   numeric.NullFromPtr(in.Quantity),
		Reason:     in.Reason,
		Date:       date,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// CreateAdjustment registra un ajuste de stock con signo.
func (uc *UseCase) CreateAdjustment(ctx context.Context, in dto.AdjustmentRequest) (*entity.AdjustmentRecord, error) {
	rec, err := adjustmentFromRequest(uuid.New().String(), in)
	if err != nil {
		return nil, err
	}
	err = uc.txRunner.Run(ctx, func(repos ledger.Repos) error {
		if err := repos.Adjustments.Create(ctx, rec); err != nil {
			return err
		}
		_, err := uc.reconciler.OnCreateInTx(ctx, repos, rec.StockSource())
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// UpdateAdjustment reemplaza el ajuste y reaplica su aporte.
func (uc *UseCase) UpdateAdjustment(ctx context.Context, id string, in dto.AdjustmentRequest) (*entity.AdjustmentRecord, error) {
	rec, err := adjustmentFromRequest(id, in)
	if err != nil {
		return nil, err
	}
	err = uc.txRunner.Run(ctx, func(repos ledger.Repos) error {
		old, err := repos.Adjustments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if old == nil {
			return domain.ErrNotFound
		}
		rec.CreatedAt = old.CreatedAt
		if err := repos.Adjustments.Update(ctx, rec); err != nil {
			return err
		}
		return uc.reconciler.OnUpdateInTx(ctx, repos, old.StockSource(), rec.StockSource())
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// DeleteAdjustment borra el ajuste y revierte su evento.
func (uc *UseCase) DeleteAdjustment(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(repos ledger.Repos) error {
		if err := repos.Adjustments.Delete(ctx, id); err != nil {
			return err
		}
		return uc.reconciler.OnDeleteInTx(ctx, repos, id, entity.EventKindAdjustment)
	})
}
