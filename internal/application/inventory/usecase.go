package inventory

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/solar-inventario/internal/application/dto"
	"github.com/tu-usuario/solar-inventario/internal/domain"
	"github.com/tu-usuario/solar-inventario/internal/domain/entity"
	domaininv "github.com/tu-usuario/solar-inventario/internal/domain/inventory"
	"github.com/tu-usuario/solar-inventario/internal/domain/repository"
)

// DefaultMinStockLevel umbral de alerta cuando el request no lo indica.
const DefaultMinStockLevel = 10

// ItemUseCase implementa el catálogo y el ledger de transacciones. Toda
// mutación corre dentro del TxRunner con bloqueo de fila (SELECT FOR UPDATE)
// y deja su rastro en el ledger antes del commit.
type ItemUseCase struct {
	txRunner TxRunner
	itemRepo repository.ItemRepository        // lecturas fuera de tx
	txRepo   repository.TransactionRepository // lecturas fuera de tx
	pageSize int
}

// NewItemUseCase construye el caso de uso. pageSize es el tamaño de página
// fijado por el servidor (no lo controla el cliente).
func NewItemUseCase(txRunner TxRunner, itemRepo repository.ItemRepository, txRepo repository.TransactionRepository, pageSize int) *ItemUseCase {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &ItemUseCase{txRunner: txRunner, itemRepo: itemRepo, txRepo: txRepo, pageSize: pageSize}
}

// PageSize devuelve el tamaño de página del servidor.
func (uc *ItemUseCase) PageSize() int { return uc.pageSize }

// validateCreate revisa los rangos que el dominio exige antes de mutar nada.
func validateCreate(in *dto.CreateItemRequest) error {
	if !entity.ValidCategory(in.Category) {
		return domain.Validationf("category", "categoría desconocida %q", in.Category)
	}
	if strings.TrimSpace(in.Type) == "" {
		return domain.Validationf("type", "no puede estar vacío")
	}
	if in.Quantity < 0 {
		return domain.Validationf("quantity", "no puede ser negativo")
	}
	if in.MinStockLevel != nil && *in.MinStockLevel < 0 {
		return domain.Validationf("min_stock_level", "no puede ser negativo")
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return domain.Validationf("unit_price", "no puede ser negativo")
	}
	if in.Status != "" && !entity.ValidStatus(in.Status) {
		return domain.Validationf("status", "estado desconocido %q", in.Status)
	}
	return nil
}

// Create da de alta un SKU. Si entra con cantidad > 0 el stock inicial queda
// registrado en el ledger (reference_type initial_stock) dentro de la misma
// transacción. La terna (category, type, specification) debe ser única.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest, actor string) (*dto.ItemResponse, error) {
	if err := validateCreate(&in); err != nil {
		return nil, err
	}

	now := time.Now()
	item := &entity.InventoryItem{
		Category:      in.Category,
		Type:          in.Type,
		Specification: in.Specification,
		Quantity:      in.Quantity,
		MinStockLevel: DefaultMinStockLevel,
		UnitPrice:     in.UnitPrice,
		Supplier:      in.Supplier,
		PartNumber:    in.PartNumber,
		Description:   in.Description,
		DocumentURL:   in.DocumentURL,
		Location:      in.Location,
		Status:        entity.StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
		CreatedBy:     actor,
	}
	if in.MinStockLevel != nil {
		item.MinStockLevel = *in.MinStockLevel
	}
	if in.Status != "" {
		item.Status = in.Status
	}
	item.RecomputeDerived()

	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		txRepo repository.TransactionRepository,
		_ repository.DispatchRepository,
	) error {
		existing, err := itemRepo.GetByNature(ctx, item.Category, item.Type, item.Specification)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		if err := itemRepo.Create(ctx, item); err != nil {
			return err
		}
		if item.Quantity > 0 {
			return txRepo.Create(ctx, &entity.InventoryTransaction{
				InventoryID:      item.ID,
				TransactionType:  entity.TxTypeIn,
				Quantity:         item.Quantity,
				PreviousQuantity: 0,
				NewQuantity:      item.Quantity,
				ReferenceType:    entity.RefInitialStock,
				Notes:            "stock inicial",
				UnitCost:         item.UnitPrice,
				CreatedAt:        now,
				CreatedBy:        actor,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

// Update aplica un merge parcial sobre el ítem. Un cambio de cantidad por
// esta vía es una corrección de stock: queda registrado como transacción
// adjustment con delta = nueva − anterior. Los campos derivados se recalculan
// siempre; is_low_stock nunca es asignable directamente.
func (uc *ItemUseCase) Update(ctx context.Context, id int64, in dto.UpdateItemRequest, actor string) (*dto.ItemResponse, error) {
	if in.Quantity != nil && *in.Quantity < 0 {
		return nil, domain.Validationf("quantity", "no puede ser negativo")
	}
	if in.MinStockLevel != nil && *in.MinStockLevel < 0 {
		return nil, domain.Validationf("min_stock_level", "no puede ser negativo")
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return nil, domain.Validationf("unit_price", "no puede ser negativo")
	}
	if in.Category != nil && !entity.ValidCategory(*in.Category) {
		return nil, domain.Validationf("category", "categoría desconocida %q", *in.Category)
	}
	if in.Status != nil && !entity.ValidStatus(*in.Status) {
		return nil, domain.Validationf("status", "estado desconocido %q", *in.Status)
	}

	var updated *entity.InventoryItem
	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		txRepo repository.TransactionRepository,
		_ repository.DispatchRepository,
	) error {
		item, err := itemRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}

		previous := item.Quantity
		applyPartial(item, &in)

		now := time.Now()
		item.UpdatedAt = now
		item.RecomputeDerived()
		if err := itemRepo.Update(ctx, item); err != nil {
			return err
		}

		if delta := domaininv.AdjustmentDelta(previous, item.Quantity); delta != 0 {
			if err := txRepo.Create(ctx, &entity.InventoryTransaction{
				InventoryID:      item.ID,
				TransactionType:  entity.TxTypeAdjustment,
				Quantity:         delta,
				PreviousQuantity: previous,
				NewQuantity:      item.Quantity,
				ReferenceType:    entity.RefManual,
				Notes:            "corrección manual de stock",
				CreatedAt:        now,
				CreatedBy:        actor,
			}); err != nil {
				return err
			}
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := ToItemResponse(updated)
	return &resp, nil
}

func applyPartial(item *entity.InventoryItem, in *dto.UpdateItemRequest) {
	if in.Category != nil {
		item.Category = *in.Category
	}
	if in.Type != nil {
		item.Type = *in.Type
	}
	if in.Specification != nil {
		item.Specification = *in.Specification
	}
	if in.Quantity != nil {
		item.Quantity = *in.Quantity
	}
	if in.MinStockLevel != nil {
		item.MinStockLevel = *in.MinStockLevel
	}
	if in.UnitPrice != nil {
		item.UnitPrice = in.UnitPrice
	}
	if in.Supplier != nil {
		item.Supplier = *in.Supplier
	}
	if in.PartNumber != nil {
		item.PartNumber = *in.PartNumber
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.DocumentURL != nil {
		item.DocumentURL = *in.DocumentURL
	}
	if in.Location != nil {
		item.Location = *in.Location
	}
	if in.Status != nil {
		item.Status = *in.Status
	}
}

// Delete elimina un ítem sin historial. Con al menos una transacción en el
// ledger la eliminación se rechaza (integridad referencial con el historial).
func (uc *ItemUseCase) Delete(ctx context.Context, id int64) error {
	return uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		txRepo repository.TransactionRepository,
		_ repository.DispatchRepository,
	) error {
		item, err := itemRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		count, err := txRepo.CountByItem(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrConflict
		}
		return itemRepo.Delete(ctx, id)
	})
}

// Get devuelve un ítem por ID.
func (uc *ItemUseCase) Get(ctx context.Context, id int64) (*dto.ItemResponse, error) {
	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

// List devuelve la página solicitada del catálogo. Página 1-index; una página
// más allá del final devuelve items vacío. El orden (id ASC) es determinista:
// concatenar páginas sucesivas no duplica ni omite filas sin escrituras
// concurrentes.
func (uc *ItemUseCase) List(ctx context.Context, page int, f repository.ItemFilter) (*dto.ListItemsResponse, error) {
	if page < 1 {
		return nil, domain.Validationf("page", "debe ser >= 1")
	}
	if f.Category != "" && !entity.ValidCategory(f.Category) {
		return nil, domain.Validationf("category", "categoría desconocida %q", f.Category)
	}
	if f.Status != "" && !entity.ValidStatus(f.Status) {
		return nil, domain.Validationf("status", "estado desconocido %q", f.Status)
	}

	offset := (page - 1) * uc.pageSize
	items, total, err := uc.itemRepo.List(ctx, f, uc.pageSize, offset)
	if err != nil {
		return nil, err
	}
	resp := &dto.ListItemsResponse{
		Items: make([]dto.ItemResponse, 0, len(items)),
		PageMeta: dto.PageMeta{
			Page:       page,
			PageSize:   uc.pageSize,
			Total:      total,
			TotalPages: int(math.Ceil(float64(total) / float64(uc.pageSize))),
		},
	}
	for _, item := range items {
		resp.Items = append(resp.Items, ToItemResponse(item))
	}
	return resp, nil
}

// AppendInput entrada para registrar una transacción sobre un ítem.
// ExpectedPrevious, si viene, es la cantidad que el caller leyó: un
// desajuste con la cantidad bloqueada señala un lost update y aborta con
// ErrConcurrentModification (reintentar con datos frescos).
type AppendInput struct {
	InventoryID      int64
	TransactionType  string
	Quantity         int  // magnitud para in/out
	NewQuantity      *int // destino para adjustment
	ExpectedPrevious *int
	ReferenceType    string
	ReferenceID      string
	Notes            string
	UnitCost         *decimal.Decimal
	Actor            string
}

// Append es la única vía de mutación de cantidad: bloquea la fila del ítem,
// verifica previous_quantity, escribe la entrada inmutable del ledger y
// actualiza el catálogo a new_quantity en el mismo paso lógico.
func (uc *ItemUseCase) Append(ctx context.Context, in AppendInput) (*dto.TransactionResponse, error) {
	if !entity.ValidTxType(in.TransactionType) {
		return nil, domain.Validationf("transaction_type", "tipo desconocido %q", in.TransactionType)
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return nil, domain.Validationf("unit_cost", "no puede ser negativo")
	}
	if in.TransactionType == entity.TxTypeAdjustment {
		if in.NewQuantity == nil {
			return nil, domain.Validationf("new_quantity", "requerido para adjustment")
		}
		if *in.NewQuantity < 0 {
			return nil, domain.Validationf("new_quantity", "no puede ser negativo")
		}
	} else if in.Quantity <= 0 {
		return nil, domain.Validationf("quantity", "debe ser mayor que cero")
	}

	var rec *entity.InventoryTransaction
	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		txRepo repository.TransactionRepository,
		_ repository.DispatchRepository,
	) error {
		item, err := itemRepo.GetForUpdate(ctx, in.InventoryID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		previous := item.Quantity
		if in.ExpectedPrevious != nil && *in.ExpectedPrevious != previous {
			return domain.ErrConcurrentModification
		}

		var newQty, magnitude int
		switch in.TransactionType {
		case entity.TxTypeAdjustment:
			newQty = *in.NewQuantity
			magnitude = domaininv.AdjustmentDelta(previous, newQty)
			if magnitude == 0 {
				return domain.Validationf("new_quantity", "sin cambio respecto a la cantidad actual")
			}
		default:
			newQty, err = domaininv.NextQuantity(item.ID, previous, in.TransactionType, in.Quantity)
			if err != nil {
				return err
			}
			magnitude = in.Quantity
		}

		now := time.Now()
		item.Quantity = newQty
		item.UpdatedAt = now
		item.RecomputeDerived()
		if err := itemRepo.Update(ctx, item); err != nil {
			return err
		}

		rec = &entity.InventoryTransaction{
			InventoryID:      item.ID,
			TransactionType:  in.TransactionType,
			Quantity:         magnitude,
			PreviousQuantity: previous,
			NewQuantity:      newQty,
			ReferenceType:    in.ReferenceType,
			ReferenceID:      in.ReferenceID,
			Notes:            in.Notes,
			UnitCost:         in.UnitCost,
			CreatedAt:        now,
			CreatedBy:        in.Actor,
		}
		return txRepo.Create(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	resp := ToTransactionResponse(rec)
	return &resp, nil
}

// ListTransactions devuelve la secuencia temporal del ledger para un ítem
// (auditoría y verificación del invariante de reconstrucción).
func (uc *ItemUseCase) ListTransactions(ctx context.Context, inventoryID int64, limit, offset int) ([]dto.TransactionResponse, error) {
	item, err := uc.itemRepo.GetByID(ctx, inventoryID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if limit <= 0 {
		limit = uc.pageSize
	}
	if offset < 0 {
		offset = 0
	}
	txs, err := uc.txRepo.ListByItem(ctx, inventoryID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, ToTransactionResponse(tx))
	}
	return out, nil
}
