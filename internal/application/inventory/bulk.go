package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/solar-inventario/internal/application/dto"
	"github.com/tu-usuario/solar-inventario/internal/domain"
	"github.com/tu-usuario/solar-inventario/internal/domain/entity"
	"github.com/tu-usuario/solar-inventario/internal/domain/repository"
)

// BulkCreate procesa filas de forma independiente: cada fila corre en su
// propia transacción, de modo que una fila inválida no tumba el lote. Si la
// terna (category, type, specification) ya existe, la fila suma stock al ítem
// existente (transacción in con reference_type bulk_upload) en lugar de crear
// un duplicado.
func (uc *ItemUseCase) BulkCreate(ctx context.Context, rows []dto.CreateItemRequest, actor string) *dto.BulkCreateResponse {
	resp := &dto.BulkCreateResponse{}
	for i, row := range rows {
		label, updated, err := uc.applyBulkRow(ctx, row, actor)
		if err != nil {
			resp.SkippedCount++
			resp.Skipped = append(resp.Skipped, dto.BulkRowError{Row: i + 1, Message: err.Error()})
			continue
		}
		if updated {
			resp.UpdatedCount++
		} else {
			resp.CreatedCount++
		}
		resp.Created = append(resp.Created, label)
	}
	return resp
}

// applyBulkRow aplica una fila. Devuelve la etiqueta humana del ítem y si la
// fila terminó sumando stock a un ítem ya existente.
func (uc *ItemUseCase) applyBulkRow(ctx context.Context, row dto.CreateItemRequest, actor string) (string, bool, error) {
	if err := validateCreate(&row); err != nil {
		return "", false, err
	}

	now := time.Now()
	var label string
	var updated bool
	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		txRepo repository.TransactionRepository,
		_ repository.DispatchRepository,
	) error {
		existing, err := itemRepo.GetByNature(ctx, row.Category, row.Type, row.Specification)
		if err != nil {
			return err
		}
		if existing != nil {
			label = itemLabel(existing)
			updated = true
			if row.Quantity == 0 {
				return nil
			}
			// relee con bloqueo antes de mutar
			locked, err := itemRepo.GetForUpdate(ctx, existing.ID)
			if err != nil {
				return err
			}
			if locked == nil {
				// el ítem fue eliminado entre la búsqueda por terna y el bloqueo
				return domain.ErrConcurrentModification
			}
			previous := locked.Quantity
			locked.Quantity = previous + row.Quantity
			if row.UnitPrice != nil {
				locked.UnitPrice = row.UnitPrice
			}
			locked.UpdatedAt = now
			locked.RecomputeDerived()
			if err := itemRepo.Update(ctx, locked); err != nil {
				return err
			}
			return txRepo.Create(ctx, &entity.InventoryTransaction{
				InventoryID:      locked.ID,
				TransactionType:  entity.TxTypeIn,
				Quantity:         row.Quantity,
				PreviousQuantity: previous,
				NewQuantity:      locked.Quantity,
				ReferenceType:    entity.RefBulkUpload,
				Notes:            "carga masiva sobre ítem existente",
				UnitCost:         row.UnitPrice,
				CreatedAt:        now,
				CreatedBy:        actor,
			})
		}

		item := &entity.InventoryItem{
			Category:      row.Category,
			Type:          row.Type,
			Specification: row.Specification,
			Quantity:      row.Quantity,
			MinStockLevel: DefaultMinStockLevel,
			UnitPrice:     row.UnitPrice,
			Supplier:      row.Supplier,
			PartNumber:    row.PartNumber,
			Description:   row.Description,
			DocumentURL:   row.DocumentURL,
			Location:      row.Location,
			Status:        entity.StatusActive,
			CreatedAt:     now,
			UpdatedAt:     now,
			CreatedBy:     actor,
		}
		if row.MinStockLevel != nil {
			item.MinStockLevel = *row.MinStockLevel
		}
		if row.Status != "" {
			item.Status = row.Status
		}
		item.RecomputeDerived()
		if err := itemRepo.Create(ctx, item); err != nil {
			return err
		}
		label = itemLabel(item)
		if item.Quantity > 0 {
			return txRepo.Create(ctx, &entity.InventoryTransaction{
				InventoryID:      item.ID,
				TransactionType:  entity.TxTypeIn,
				Quantity:         item.Quantity,
				PreviousQuantity: 0,
				NewQuantity:      item.Quantity,
				ReferenceType:    entity.RefBulkUpload,
				Notes:            "carga masiva",
				UnitCost:         item.UnitPrice,
				CreatedAt:        now,
				CreatedBy:        actor,
			})
		}
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return label, updated, nil
}

func itemLabel(item *entity.InventoryItem) string {
	if item.Specification == "" {
		return fmt.Sprintf("%s %s", item.Category, item.Type)
	}
	return fmt.Sprintf("%s %s %s", item.Category, item.Type, item.Specification)
}
