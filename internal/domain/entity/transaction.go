package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción del ledger.
const (
	TxTypeIn         = "in"         // entrada
	TxTypeOut        = "out"        // salida
	TxTypeAdjustment = "adjustment" // corrección manual de stock
)

// Orígenes de referencia de una transacción.
const (
	RefInitialStock = "initial_stock"
	RefBulkUpload   = "bulk_upload"
	RefDispatch     = "dispatch"
	RefManual       = "manual_adjustment"
)

// ValidTxType indica si el tipo de transacción pertenece al enum.
func ValidTxType(t string) bool {
	return t == TxTypeIn || t == TxTypeOut || t == TxTypeAdjustment
}

// InventoryTransaction es una entrada inmutable del ledger: todo cambio de
// cantidad de un ítem queda registrado aquí. Quantity es siempre positivo;
// la dirección la implica el tipo (para adjustment, el signo de
// NewQuantity − PreviousQuantity).
//
// Invariante: NewQuantity debe coincidir con la cantidad del ítem en el
// instante del commit; la cantidad del catálogo siempre es reconstruible
// reproduciendo la secuencia de transacciones por orden de creación.
type InventoryTransaction struct {
	ID               int64
	InventoryID      int64
	TransactionType  string
	Quantity         int // magnitud, > 0
	PreviousQuantity int
	NewQuantity      int
	ReferenceType    string
	ReferenceID      string
	Notes            string
	UnitCost         *decimal.Decimal
	CreatedAt        time.Time
	CreatedBy        string
}
