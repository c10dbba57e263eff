package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest body para POST /api/inventory.
type CreateItemRequest struct {
	Category      string           `json:"category" validate:"required,oneof=motor controller solar_panel bos structure wire pipe"`
	Type          string           `json:"type" validate:"required,max=50"`
	Specification string           `json:"specification" validate:"omitempty,max=50"`
	Quantity      int              `json:"quantity" validate:"min=0"`
	MinStockLevel *int             `json:"min_stock_level,omitempty" validate:"omitempty,min=0"`
	UnitPrice     *decimal.Decimal `json:"unit_price,omitempty"`
	Supplier      string           `json:"supplier" validate:"omitempty,max=255"`
	PartNumber    string           `json:"part_number" validate:"omitempty,max=100"`
	Description   string           `json:"description"`
	DocumentURL   string           `json:"document_url"`
	Location      string           `json:"location" validate:"omitempty,max=100"`
	Status        string           `json:"status" validate:"omitempty,oneof=active inactive out_of_stock"`
}

// UpdateItemRequest body para PUT /api/inventory/:id. Semántica de merge:
// los campos nil no se tocan. Un cambio de Quantity genera además una
// transacción adjustment en el ledger.
type UpdateItemRequest struct {
	Category      *string          `json:"category,omitempty" validate:"omitempty,oneof=motor controller solar_panel bos structure wire pipe"`
	Type          *string          `json:"type,omitempty" validate:"omitempty,max=50"`
	Specification *string          `json:"specification,omitempty" validate:"omitempty,max=50"`
	Quantity      *int             `json:"quantity,omitempty" validate:"omitempty,min=0"`
	MinStockLevel *int             `json:"min_stock_level,omitempty" validate:"omitempty,min=0"`
	UnitPrice     *decimal.Decimal `json:"unit_price,omitempty"`
	Supplier      *string          `json:"supplier,omitempty" validate:"omitempty,max=255"`
	PartNumber    *string          `json:"part_number,omitempty" validate:"omitempty,max=100"`
	Description   *string          `json:"description,omitempty"`
	DocumentURL   *string          `json:"document_url,omitempty"`
	Location      *string          `json:"location,omitempty" validate:"omitempty,max=100"`
	Status        *string          `json:"status,omitempty" validate:"omitempty,oneof=active inactive out_of_stock"`
}

// ItemResponse salida de un ítem del catálogo.
type ItemResponse struct {
	ID            int64            `json:"id"`
	Category      string           `json:"category"`
	Type          string           `json:"type"`
	Specification string           `json:"specification,omitempty"`
	Quantity      int              `json:"quantity"`
	MinStockLevel int              `json:"min_stock_level"`
	UnitPrice     *decimal.Decimal `json:"unit_price,omitempty"`
	Supplier      string           `json:"supplier,omitempty"`
	PartNumber    string           `json:"part_number,omitempty"`
	Description   string           `json:"description,omitempty"`
	DocumentURL   string           `json:"document_url,omitempty"`
	Location      string           `json:"location,omitempty"`
	Status        string           `json:"status"`
	IsLowStock    bool             `json:"is_low_stock"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	CreatedBy     string           `json:"created_by,omitempty"`
}

// ListItemsResponse página de ítems + metadatos.
type ListItemsResponse struct {
	Items []ItemResponse `json:"items"`
	PageMeta
}

// RecordTransactionRequest body para POST /api/inventory/:id/transactions.
// Para in/out, Quantity es la magnitud (> 0). Para adjustment se indica la
// cantidad destino en NewQuantity. PreviousQuantity, si se envía, es la
// cantidad que el cliente leyó: si ya no coincide la llamada falla con
// CONCURRENT_MODIFICATION y debe reintentarse con datos frescos.
type RecordTransactionRequest struct {
	TransactionType  string           `json:"transaction_type" validate:"required,oneof=in out adjustment"`
	Quantity         int              `json:"quantity" validate:"omitempty,gt=0"`
	NewQuantity      *int             `json:"new_quantity,omitempty" validate:"omitempty,min=0"`
	PreviousQuantity *int             `json:"previous_quantity,omitempty" validate:"omitempty,min=0"`
	ReferenceType    string           `json:"reference_type" validate:"omitempty,max=50"`
	ReferenceID      string           `json:"reference_id" validate:"omitempty,max=50"`
	Notes            string           `json:"notes"`
	UnitCost         *decimal.Decimal `json:"unit_cost,omitempty"`
}

// TransactionResponse salida de una entrada del ledger.
type TransactionResponse struct {
	ID               int64            `json:"id"`
	InventoryID      int64            `json:"inventory_id"`
	TransactionType  string           `json:"transaction_type"`
	Quantity         int              `json:"quantity"`
	PreviousQuantity int              `json:"previous_quantity"`
	NewQuantity      int              `json:"new_quantity"`
	ReferenceType    string           `json:"reference_type,omitempty"`
	ReferenceID      string           `json:"reference_id,omitempty"`
	Notes            string           `json:"notes,omitempty"`
	UnitCost         *decimal.Decimal `json:"unit_cost,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	CreatedBy        string           `json:"created_by"`
}

// MotorSpecsResponse opciones de especificación de motores para los
// desplegables de la UI, por potencia (HP) y profundidad de cabeza en metros.
type MotorSpecsResponse struct {
	HP3  []string `json:"hp_3"`
	HP5  []string `json:"hp_5"`
	HP75 []string `json:"hp_7_5"`
}

// DefaultMotorSpecs catálogo estático de referencia del programa.
func DefaultMotorSpecs() MotorSpecsResponse {
	return MotorSpecsResponse{
		HP3:  []string{"30", "50", "70"},
		HP5:  []string{"30", "50", "70", "100"},
		HP75: []string{"30", "50", "70", "100"},
	}
}

// SolarPanelSpecsResponse tipos de panel soportados por el programa.
type SolarPanelSpecsResponse struct {
	Types []string `json:"types"`
}

// DefaultSolarPanelSpecs catálogo estático de referencia del programa.
func DefaultSolarPanelSpecs() SolarPanelSpecsResponse {
	return SolarPanelSpecsResponse{Types: []string{"520wp", "540wp"}}
}

// BulkCreateRequest body para POST /api/inventory/bulk.
type BulkCreateRequest struct {
	Items []CreateItemRequest `json:"items" validate:"dive"`
}

// BulkRowError error de una fila del bulk o del import CSV.
type BulkRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// BulkCreateResponse resultado por filas: las válidas se aplican aunque otras
// fallen (éxito parcial permitido).
type BulkCreateResponse struct {
	CreatedCount int            `json:"created_count"`
	UpdatedCount int            `json:"updated_count"`
	SkippedCount int            `json:"skipped_count"`
	Created      []string       `json:"created_items,omitempty"`
	Skipped      []BulkRowError `json:"skipped_items,omitempty"`
}

// ImportResponse resultado del import de archivo (mismas filas que bulk, más
// metadatos del archivo).
type ImportResponse struct {
	BulkCreateResponse
	FileName  string `json:"file_name"`
	TotalRows int    `json:"total_rows_processed"`
}
