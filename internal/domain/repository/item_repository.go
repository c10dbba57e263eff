package repository

import (
	"context"

	"github.com/tu-usuario/solar-inventario/internal/domain/entity"
)

// ItemFilter es la configuración cerrada de filtros del listado de catálogo.
// Todos los campos se combinan con AND; los vacíos no filtran.
type ItemFilter struct {
	Category      string // igualdad sobre el enum
	Type          string // substring, case-insensitive
	Specification string // substring, case-insensitive
	Status        string // igualdad sobre el enum
	LowStockOnly  bool   // 0 < quantity <= min_stock_level
	Search        string // substring case-insensitive sobre type/description/part_number/supplier
}

// ItemRepository define el puerto de persistencia del catálogo (DIP).
// GetByID devuelve (nil, nil) cuando el ítem no existe.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error // asigna ID
	GetByID(ctx context.Context, id int64) (*entity.InventoryItem, error)
	// GetForUpdate bloquea la fila del ítem (SELECT FOR UPDATE); solo tiene
	// sentido dentro de una transacción del TxRunner.
	GetForUpdate(ctx context.Context, id int64) (*entity.InventoryItem, error)
	// GetByNature busca por la terna (category, type, specification), usada
	// para detectar duplicados en create y bulk.
	GetByNature(ctx context.Context, category, typ, specification string) (*entity.InventoryItem, error)
	Update(ctx context.Context, item *entity.InventoryItem) error
	Delete(ctx context.Context, id int64) error
	// List devuelve la página solicitada (orden id ASC, determinista) y el
	// total de filas que satisfacen el filtro.
	List(ctx context.Context, f ItemFilter, limit, offset int) ([]*entity.InventoryItem, int, error)
}
