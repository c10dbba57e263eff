package repository

import (
	"context"

	"github.com/tu-usuario/solar-inventario/internal/domain/entity"
)

// TransactionRepository define el puerto del ledger. Solo existe inserción y
// lectura: el historial es permanente por diseño.
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.InventoryTransaction) error // asigna ID
	// ListByItem devuelve la secuencia temporal (created_at, id ASC) de un ítem.
	ListByItem(ctx context.Context, inventoryID int64, limit, offset int) ([]*entity.InventoryTransaction, error)
	CountByItem(ctx context.Context, inventoryID int64) (int, error)
}
