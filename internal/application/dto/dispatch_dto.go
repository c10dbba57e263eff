package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DispatchLineRequest una línea del despacho.
type DispatchLineRequest struct {
	InventoryID int64            `json:"inventory_id" validate:"required,gt=0"`
	Quantity    int              `json:"quantity" validate:"required,gt=0"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"`
}

// CreateDispatchRequest body para POST /api/dispatches. Las líneas se aplican
// como una sola operación atómica: o todas decrementan stock o ninguna.
type CreateDispatchRequest struct {
	FarmerBeneficiaryID string                `json:"farmer_beneficiary_id" validate:"required,max=50"`
	Items               []DispatchLineRequest `json:"items" validate:"dive"`
	Notes               string                `json:"notes"`
}

// DispatchLineResponse una línea del despacho persistido.
type DispatchLineResponse struct {
	ID          int64            `json:"id"`
	InventoryID int64            `json:"inventory_id"`
	Quantity    int              `json:"quantity"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"`
	TotalCost   *decimal.Decimal `json:"total_cost,omitempty"`
}

// DispatchResponse salida de un despacho.
type DispatchResponse struct {
	ID                  int64                  `json:"id"`
	FarmerBeneficiaryID string                 `json:"farmer_beneficiary_id"`
	DispatchDate        time.Time              `json:"dispatch_date"`
	Status              string                 `json:"status"`
	TotalValue          *decimal.Decimal       `json:"total_value,omitempty"`
	Notes               string                 `json:"notes,omitempty"`
	Items               []DispatchLineResponse `json:"items"`
}
