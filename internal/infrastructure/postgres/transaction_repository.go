package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/solar-inventario/internal/domain"
	"github.com/tu-usuario/solar-inventario/internal/domain/entity"
	"github.com/tu-usuario/solar-inventario/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación del ledger sobre PostgreSQL. Solo inserta y
// lee: no hay UPDATE ni DELETE sobre inventory_transactions.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador del ledger. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create inserta la transacción y asigna su ID.
func (r *TransactionRepo) Create(ctx context.Context, tx *entity.InventoryTransaction) error {
	query := `
		INSERT INTO inventory_transactions (
			inventory_id, transaction_type, quantity, previous_quantity,
			new_quantity, reference_type, reference_id, notes, unit_cost,
			created_at, created_by
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		tx.InventoryID, tx.TransactionType, tx.Quantity, tx.PreviousQuantity,
		tx.NewQuantity, tx.ReferenceType, tx.ReferenceID, tx.Notes, tx.UnitCost,
		tx.CreatedAt, tx.CreatedBy,
	).Scan(&tx.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

// ListByItem devuelve la secuencia temporal del ledger de un ítem.
func (r *TransactionRepo) ListByItem(ctx context.Context, inventoryID int64, limit, offset int) ([]*entity.InventoryTransaction, error) {
	query := `
		SELECT id, inventory_id, transaction_type, quantity, previous_quantity,
		       new_quantity, reference_type, reference_id, notes, unit_cost,
		       created_at, created_by
		FROM inventory_transactions
		WHERE inventory_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, inventoryID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]*entity.InventoryTransaction, 0)
	for rows.Next() {
		var tx entity.InventoryTransaction
		if err := rows.Scan(
			&tx.ID, &tx.InventoryID, &tx.TransactionType, &tx.Quantity,
			&tx.PreviousQuantity, &tx.NewQuantity, &tx.ReferenceType,
			&tx.ReferenceID, &tx.Notes, &tx.UnitCost, &tx.CreatedAt, &tx.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions rows: %w", err)
	}
	return txs, nil
}

// CountByItem cuenta las transacciones de un ítem.
func (r *TransactionRepo) CountByItem(ctx context.Context, inventoryID int64) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM inventory_transactions WHERE inventory_id = $1`,
		inventoryID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}
