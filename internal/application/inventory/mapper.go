package inventory

import (
	"github.com/tu-usuario/solar-inventario/internal/application/dto"
	"github.com/tu-usuario/solar-inventario/internal/domain/entity"
)

// ToItemResponse mapea la entidad de catálogo a su DTO de salida.
func ToItemResponse(item *entity.InventoryItem) dto.ItemResponse {
	return dto.ItemResponse{
		ID:            item.ID,
		Category:      item.Category,
		Type:          item.Type,
		Specification: item.Specification,
		Quantity:      item.Quantity,
		MinStockLevel: item.MinStockLevel,
		UnitPrice:     item.UnitPrice,
		Supplier:      item.Supplier,
		PartNumber:    item.PartNumber,
		Description:   item.Description,
		DocumentURL:   item.DocumentURL,
		Location:      item.Location,
		Status:        item.Status,
		IsLowStock:    item.IsLowStock,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
		CreatedBy:     item.CreatedBy,
	}
}

// ToTransactionResponse mapea una entrada del ledger a su DTO de salida.
func ToTransactionResponse(tx *entity.InventoryTransaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:               tx.ID,
		InventoryID:      tx.InventoryID,
		TransactionType:  tx.TransactionType,
		Quantity:         tx.Quantity,
		PreviousQuantity: tx.PreviousQuantity,
		NewQuantity:      tx.NewQuantity,
		ReferenceType:    tx.ReferenceType,
		ReferenceID:      tx.ReferenceID,
		Notes:            tx.Notes,
		UnitCost:         tx.UnitCost,
		CreatedAt:        tx.CreatedAt,
		CreatedBy:        tx.CreatedBy,
	}
}
