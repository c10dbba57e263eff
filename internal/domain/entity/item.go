package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de componentes de bombeo solar.
const (
	CategoryMotor      = "motor"
	CategoryController = "controller"
	CategorySolarPanel = "solar_panel"
	CategoryBOS        = "bos" // balance of system
	CategoryStructure  = "structure"
	CategoryWire       = "wire"
	CategoryPipe       = "pipe"
)

// Estados de un ítem de inventario. out_of_stock se fuerza cuando quantity == 0.
const (
	StatusActive     = "active"
	StatusInactive   = "inactive"
	StatusOutOfStock = "out_of_stock"
)

// Categories lista las categorías válidas en orden estable.
var Categories = []string{
	CategoryMotor, CategoryController, CategorySolarPanel,
	CategoryBOS, CategoryStructure, CategoryWire, CategoryPipe,
}

// ValidCategory indica si la categoría pertenece al enum.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// ValidStatus indica si el estado pertenece al enum.
func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusInactive || s == StatusOutOfStock
}

// InventoryItem representa un SKU del catálogo: un componente físico
// (motor, controlador, panel, etc.) con su cantidad en bodega.
//
// Quantity, Status e IsLowStock son propiedad exclusiva del catálogo y solo
// cambian a través del ledger de transacciones.
type InventoryItem struct {
	ID            int64
	Category      string
	Type          string // 3hp, 5hp, 7.5hp, 520wp, 540wp...
	Specification string // cabeza de bomba: 30, 50, 70, 100
	Quantity      int
	MinStockLevel int
	UnitPrice     *decimal.Decimal
	Supplier      string
	PartNumber    string
	Description   string
	DocumentURL   string
	Location      string
	Status        string
	IsLowStock    bool // derivado, nunca asignable desde fuera
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CreatedBy     string
}

// RecomputeDerived recalcula Status e IsLowStock a partir de Quantity y
// MinStockLevel. Debe invocarse tras toda mutación de cantidad:
//
//	quantity == 0                      → status forzado a out_of_stock
//	quantity > 0 y venía out_of_stock  → vuelve a active
//	is_low_stock == (0 < quantity <= min_stock_level)
func (i *InventoryItem) RecomputeDerived() {
	switch {
	case i.Quantity == 0:
		i.Status = StatusOutOfStock
	case i.Status == StatusOutOfStock:
		i.Status = StatusActive
	}
	i.IsLowStock = i.Quantity > 0 && i.Quantity <= i.MinStockLevel
}
