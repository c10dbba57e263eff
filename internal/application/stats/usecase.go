// Package stats implementa el agregador de estadísticas del inventario. El
// snapshot completo se calcula dentro de una transacción de solo lectura
// (REPEATABLE READ): los conteos, el rollup por categoría y las transacciones
// recientes observan el mismo estado.
package stats

import (
	"context"

	"github.com/tu-usuario/solar-inventario/internal/application/dto"
	"github.com/tu-usuario/solar-inventario/internal/application/inventory"
	"github.com/tu-usuario/solar-inventario/internal/domain/repository"
)

// RecentTransactionsLimit cuántas transacciones recientes trae el dashboard.
const RecentTransactionsLimit = 10

type UseCase struct {
	txRunner inventory.TxRunner
}

func NewUseCase(txRunner inventory.TxRunner) *UseCase {
	return &UseCase{txRunner: txRunner}
}

// Compute arma el snapshot del dashboard.
func (uc *UseCase) Compute(ctx context.Context) (*dto.StatsResponse, error) {
	var resp *dto.StatsResponse
	err := uc.txRunner.RunStats(ctx, func(statsRepo repository.StatsRepository) error {
		totals, err := statsRepo.Totals(ctx)
		if err != nil {
			return err
		}
		rollup, err := statsRepo.CategoryRollup(ctx)
		if err != nil {
			return err
		}
		recent, err := statsRepo.RecentTransactions(ctx, RecentTransactionsLimit)
		if err != nil {
			return err
		}

		resp = &dto.StatsResponse{
			TotalItems:         totals.TotalItems,
			TotalValue:         totals.TotalValue,
			LowStockItems:      totals.LowStockItems,
			OutOfStockItems:    totals.OutOfStockItems,
			Categories:         make(map[string]dto.CategoryStatsDTO, len(rollup)),
			RecentTransactions: make([]dto.TransactionResponse, 0, len(recent)),
		}
		for _, c := range rollup {
			resp.Categories[c.Category] = dto.CategoryStatsDTO{
				Items:         c.Items,
				TotalQuantity: c.TotalQuantity,
			}
		}
		for _, tx := range recent {
			resp.RecentTransactions = append(resp.RecentTransactions, inventory.ToTransactionResponse(tx))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
