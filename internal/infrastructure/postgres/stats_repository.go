package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/solar-inventario/internal/domain/entity"
	"github.com/tu-usuario/solar-inventario/internal/domain/repository"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo consultas read-only del agregador. Usar siempre dentro de
// TxRunner.RunStats para que las tres consultas vean el mismo snapshot.
type StatsRepo struct {
	q Querier
}

// NewStatsRepository construye el adaptador de estadísticas. Pasar pool o tx (Querier).
func NewStatsRepository(q Querier) *StatsRepo {
	return &StatsRepo{q: q}
}

// Totals conteos globales del catálogo: total de SKUs, valor del inventario y
// alertas de stock.
func (r *StatsRepo) Totals(ctx context.Context) (repository.ItemTotals, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(quantity * unit_price) FILTER (WHERE unit_price IS NOT NULL), 0),
			COUNT(*) FILTER (WHERE quantity > 0 AND quantity <= min_stock_level),
			COUNT(*) FILTER (WHERE status = $1)
		FROM inventory_items`
	var t repository.ItemTotals
	err := r.q.QueryRow(ctx, query, entity.StatusOutOfStock).Scan(
		&t.TotalItems, &t.TotalValue, &t.LowStockItems, &t.OutOfStockItems,
	)
	if err != nil {
		return repository.ItemTotals{}, fmt.Errorf("stats totals: %w", err)
	}
	return t, nil
}

// CategoryRollup conteo y unidades por categoría con ítems en catálogo.
func (r *StatsRepo) CategoryRollup(ctx context.Context) ([]repository.CategoryCount, error) {
	query := `
		SELECT category, COUNT(*), COALESCE(SUM(quantity), 0)
		FROM inventory_items
		GROUP BY category
		ORDER BY category ASC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("stats rollup: %w", err)
	}
	defer rows.Close()

	var out []repository.CategoryCount
	for rows.Next() {
		var c repository.CategoryCount
		if err := rows.Scan(&c.Category, &c.Items, &c.TotalQuantity); err != nil {
			return nil, fmt.Errorf("scan rollup: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("stats rollup rows: %w", err)
	}
	return out, nil
}

// RecentTransactions las últimas entradas del ledger, la más reciente primero.
func (r *StatsRepo) RecentTransactions(ctx context.Context, limit int) ([]*entity.InventoryTransaction, error) {
	query := `
		SELECT id, inventory_id, transaction_type, quantity, previous_quantity,
		       new_quantity, reference_type, reference_id, notes, unit_cost,
		       created_at, created_by
		FROM inventory_transactions
		ORDER BY created_at DESC, id DESC
		LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("recent transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]*entity.InventoryTransaction, 0, limit)
	for rows.Next() {
		var tx entity.InventoryTransaction
		if err := rows.Scan(
			&tx.ID, &tx.InventoryID, &tx.TransactionType, &tx.Quantity,
			&tx.PreviousQuantity, &tx.NewQuantity, &tx.ReferenceType,
			&tx.ReferenceID, &tx.Notes, &tx.UnitCost, &tx.CreatedAt, &tx.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan recent transaction: %w", err)
		}
		txs = append(txs, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recent transactions rows: %w", err)
	}
	return txs, nil
}
