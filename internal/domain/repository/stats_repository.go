package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/solar-inventario/internal/domain/entity"
)

// ItemTotals son los agregados globales del catálogo.
type ItemTotals struct {
	TotalItems      int             // COUNT de ítems (SKUs)
	TotalValue      decimal.Decimal // Σ quantity × unit_price sobre ítems con precio
	LowStockItems   int             // COUNT donde 0 < quantity <= min_stock_level
	OutOfStockItems int             // COUNT donde status = out_of_stock
}

// CategoryCount es el rollup de una categoría presente en el catálogo.
type CategoryCount struct {
	Category      string
	Items         int
	TotalQuantity int
}

// StatsRepository define las consultas read-only del agregador de
// estadísticas. Las tres consultas de un cómputo deben ejecutarse sobre el
// mismo snapshot (transacción REPEATABLE READ del TxRunner) para no observar
// estado parcial.
type StatsRepository interface {
	Totals(ctx context.Context) (ItemTotals, error)
	CategoryRollup(ctx context.Context) ([]CategoryCount, error)
	RecentTransactions(ctx context.Context, limit int) ([]*entity.InventoryTransaction, error)
}
