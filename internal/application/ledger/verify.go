package ledger

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/trade-ledger/internal/domain"
	"github.com/jhoicas/trade-ledger/internal/domain/entity"
)

// Verify compara cada proyección con Σ quantity_delta de sus eventos.
// Si hay diferencias devuelve las filas y ErrConsistencyViolation: hay que ejecutar RebuildAll.
// Corre en exclusión con los escritores para leer ambos lados en el mismo estado.
func (s *Store) Verify(ctx context.Context) ([]entity.ProjectionDrift, error) {
	var drifts []entity.ProjectionDrift
	err := s.txRunner.RunExclusive(ctx, 0, func(repos Repos) error {
		sums, err := repos.Events.SumByProduct(ctx)
		if err != nil {
			return fmt.Errorf("%w: sum events: %w", domain.ErrTransactionFailure, err)
		}
		projections, err := repos.Projections.List(ctx, entity.ProjectionFilter{})
		if err != nil {
			return fmt.Errorf("%w: list projections: %w", domain.ErrTransactionFailure, err)
		}
		drifts = diffProjections(projections, sums)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(drifts) > 0 {
		s.log.Warn().Int("products", len(drifts)).Msg("drift entre proyección y ledger; se requiere RebuildAll")
		return drifts, domain.ErrConsistencyViolation
	}
	return nil, nil
}

func diffProjections(projections []*entity.StockProjection, sums map[string]decimal.Decimal) []entity.ProjectionDrift {
	var drifts []entity.ProjectionDrift
	seen := make(map[string]struct{}, len(projections))
	for _, p := range projections {
		seen[p.ProductKey] = struct{}{}
		sum, ok := sums[p.ProductKey]
		if !ok {
			sum = decimal.Zero
		}
		// Una fila sin eventos solo es válida en cero.
		if !p.Quantity.Equal(sum) {
			drifts = append(drifts, entity.ProjectionDrift{ProductKey: p.ProductKey, Projected: p.Quantity, Ledger: sum})
		}
	}
	for key, sum := range sums {
		if _, ok := seen[key]; !ok {
			drifts = append(drifts, entity.ProjectionDrift{ProductKey: key, Projected: decimal.Zero, Ledger: sum})
		}
	}
	sort.Slice(drifts, func(i, j int) bool { return drifts[i].ProductKey < drifts[j].ProductKey })
	return drifts
}
