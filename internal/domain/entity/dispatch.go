package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un despacho. Un despacho comprometido nace en "dispatched";
// no se edita después del commit.
const (
	DispatchStatusPending    = "pending"
	DispatchStatusDispatched = "dispatched"
	DispatchStatusDelivered  = "delivered"
	DispatchStatusInstalled  = "installed"
)

// FarmerDispatch es un evento de envío multi-línea a un agricultor
// beneficiario. La referencia al beneficiario es externa a este subsistema.
type FarmerDispatch struct {
	ID                  int64
	FarmerBeneficiaryID string
	DispatchDate        time.Time
	Status              string
	TotalValue          *decimal.Decimal // Σ total_cost de las líneas con costo
	Notes               string
	CreatedAt           time.Time
	CreatedBy           string
	Items               []*FarmerDispatchItem
}

// FarmerDispatchItem es una línea del despacho: qué ítem y cuánto se envió.
// TotalCost = Quantity × UnitCost cuando hay costo unitario.
type FarmerDispatchItem struct {
	ID          int64
	DispatchID  int64
	InventoryID int64
	Quantity    int
	UnitCost    *decimal.Decimal
	TotalCost   *decimal.Decimal
}
