package analysis

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/trade-ledger/internal/application/dto"
	"github.com/jhoicas/trade-ledger/internal/domain"
	"github.com/jhoicas/trade-ledger/internal/domain/entity"
	"github.com/jhoicas/trade-ledger/internal/domain/inventory"
	"github.com/jhoicas/trade-ledger/internal/domain/repository"
	"github.com/jhoicas/trade-ledger/pkg/logger"
	"github.com/jhoicas/trade-ledger/pkg/numeric"
)

// UseCase análisis de costo de ventas FIFO. Solo lectura; no toca el ledger de stock.
type UseCase struct {
	inbound   repository.InboundRepository
	outbound  repository.OutboundRepository
	partners  repository.PartnerRepository
	precision numeric.Precision
	log       *logger.Logger
}

// NewUseCase construye el caso de uso sobre repositorios atados al pool.
func NewUseCase(
	inbound repository.InboundRepository,
	outbound repository.OutboundRepository,
	partners repository.PartnerRepository,
	precision numeric.Precision,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		inbound:   inbound,
		outbound:  outbound,
		partners:  partners,
		precision: precision,
		log:       log.Component("analysis"),
	}
}

// ComputeCosts costo FIFO de cada salida con fecha en [start, end].
// Todas las entradas participan como lotes; las salidas anteriores a start consumen pero no se devuelven.
func (uc *UseCase) ComputeCosts(ctx context.Context, start, end time.Time) ([]entity.OutboundConsumption, error) {
	if start.After(end) {
		return nil, domain.ErrInvalidInput
	}
	batches, outbounds, err := uc.load(ctx, end)
	if err != nil {
		return nil, err
	}
	result := inventory.MatchFIFO(batches, outbounds, inventory.Window{Start: start, End: end}, uc.precision)
	uc.log.Debug().
		Time("start", start).Time("end", end).
		Int("batches", len(batches)).Int("outbounds", len(result)).
		Msg("costo FIFO calculado")
	return result, nil
}

// ValueInventory inventario remanente valorado a FIFO a la fecha asOf (entradas y salidas hasta asOf).
func (uc *UseCase) ValueInventory(ctx context.Context, asOf time.Time) ([]inventory.Valuation, error) {
	batches, outbounds, err := uc.load(ctx, asOf)
	if err != nil {
		return nil, err
	}
	eligible := batches[:0]
	for _, b := range batches {
		if !b.OccurredAt.After(asOf) {
			eligible = append(eligible, b)
		}
	}
	return inventory.ValueRemaining(eligible, outbounds, inventory.Window{Start: time.Time{}, End: asOf}, uc.precision), nil
}

func (uc *UseCase) load(ctx context.Context, until time.Time) ([]entity.InboundBatch, []*entity.OutboundRecord, error) {
	inbound, err := uc.inbound.ListOrdered(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list inbound: %w", err)
	}
	outbound, err := uc.outbound.ListOrdered(ctx, &until)
	if err != nil {
		return nil, nil, fmt.Errorf("list outbound: %w", err)
	}
	return inventory.BatchesFromInbound(inbound), outbound, nil
}

// partnerDirectory resuelve el cliente de una salida: primero por código exacto, luego por nombre corto.
type partnerDirectory struct {
	byCode  map[string]*entity.Partner
	byShort map[string]*entity.Partner
}

func newPartnerDirectory(partners []*entity.Partner) *partnerDirectory {
	d := &partnerDirectory{
		byCode:  make(map[string]*entity.Partner, len(partners)),
		byShort: make(map[string]*entity.Partner, len(partners)),
	}
	for _, p := range partners {
		if p.Code != "" {
			d.byCode[p.Code] = p
		}
		if p.ShortName != "" {
			if _, dup := d.byShort[p.ShortName]; !dup {
				d.byShort[p.ShortName] = p
			}
		}
	}
	return d
}

func (d *partnerDirectory) resolve(code, name string) *entity.Partner {
	if p, ok := d.byCode[strings.TrimSpace(code)]; ok {
		return p
	}
	return d.byShort[strings.TrimSpace(name)]
}

// SummarizeByCustomer agrega costo, venta y utilidad por cliente. Los registros sin cliente resoluble se excluyen.
// La agregación es float64 (presentación); los montos por registro ya vienen redondeados a moneda.
func (uc *UseCase) SummarizeByCustomer(ctx context.Context, rows []entity.OutboundConsumption) ([]dto.CustomerCostSummaryDTO, error) {
	partners, err := uc.partners.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	dir := newPartnerDirectory(partners)

	byID := make(map[string]*dto.CustomerCostSummaryDTO)
	skipped := 0
	for _, r := range rows {
		p := dir.resolve(r.PartnerCode, r.PartnerName)
		if p == nil {
			skipped++
			continue
		}
		s, ok := byID[p.ID]
		if !ok {
			s = &dto.CustomerCostSummaryDTO{PartnerID: p.ID, PartnerCode: p.Code, PartnerName: p.Name}
			byID[p.ID] = s
		}
		s.Records++
		s.Sale += numeric.ToFloat(r.SaleAmount, uc.precision.CurrencyPlaces)
		s.Cost += numeric.ToFloat(r.CostAmount, uc.precision.CurrencyPlaces)
	}
	if skipped > 0 {
		uc.log.Debug().Int("records", skipped).Msg("salidas sin cliente resoluble excluidas del resumen")
	}

	out := make([]dto.CustomerCostSummaryDTO, 0, len(byID))
	for _, s := range byID {
		s.Profit = s.Sale - s.Cost
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PartnerCode < out[j].PartnerCode })
	return out, nil
}

// SummarizeByProduct agrega cantidad, costo, venta y utilidad por producto.
func (uc *UseCase) SummarizeByProduct(rows []entity.OutboundConsumption) []dto.ProductCostSummaryDTO {
	byKey := make(map[string]*dto.ProductCostSummaryDTO)
	for _, r := range rows {
		s, ok := byKey[r.ProductKey]
		if !ok {
			s = &dto.ProductCostSummaryDTO{ProductKey: r.ProductKey}
			byKey[r.ProductKey] = s
		}
		s.Records++
		s.Quantity += numeric.ToFloat(r.Quantity, uc.precision.QuantityPlaces)
		s.Sale += numeric.ToFloat(r.SaleAmount, uc.precision.CurrencyPlaces)
		s.Cost += numeric.ToFloat(r.CostAmount, uc.precision.CurrencyPlaces)
	}
	out := make([]dto.ProductCostSummaryDTO, 0, len(byKey))
	for _, s := range byKey {
		s.Profit = s.Sale - s.Cost
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductKey < out[j].ProductKey })
	return out
}

// ToConsumptionDTO serializa el resultado FIFO por registro.
func ToConsumptionDTO(rows []entity.OutboundConsumption) []dto.ConsumptionDTO {
	out := make([]dto.ConsumptionDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ConsumptionDTO{
			OutboundID:        r.OutboundReference,
			ProductKey:        r.ProductKey,
			PartnerCode:       r.PartnerCode,
			PartnerName:       r.PartnerName,
			Date:              r.Date.Format(dto.DateLayout),
			Quantity:          r.Quantity,
			UncoveredQuantity: r.UncoveredQuantity,
			CostAmount:        r.CostAmount,
			SaleAmount:        r.SaleAmount,
			Profit:            r.Profit(),
		})
	}
	return out
}

// ToValuationDTO serializa la valuación; el costo promedio se omite (cero) si no hay cantidad.
func (uc *UseCase) ToValuationDTO(list []inventory.Valuation) []dto.ValuationDTO {
	p := uc.precision
	out := make([]dto.ValuationDTO, 0, len(list))
	for _, v := range list {
		item := dto.ValuationDTO{ProductKey: v.ProductKey, Quantity: v.Quantity, Value: p.Currency(v.Value)}
		if avg, err := v.AverageUnitCost(); err == nil {
			item.AverageUnitCost = p.Quantity(avg)
		}
		out = append(out, item)
	}
	return out
}
