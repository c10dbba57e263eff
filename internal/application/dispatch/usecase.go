// Package dispatch implementa el motor de despachos a agricultores: el alta
// multi-línea atómica contra el stock y la consulta/remisión del despacho.
package dispatch

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/solar-inventario/internal/application/dto"
	"github.com/tu-usuario/solar-inventario/internal/application/inventory"
	"github.com/tu-usuario/solar-inventario/internal/domain"
	"github.com/tu-usuario/solar-inventario/internal/domain/entity"
	domaininv "github.com/tu-usuario/solar-inventario/internal/domain/inventory"
	"github.com/tu-usuario/solar-inventario/internal/domain/repository"
)

// UseCase crea y consulta despachos. El alta corre completa dentro de una
// transacción del TxRunner: las filas de los ítems afectados se bloquean en
// orden ascendente de ID (evita deadlocks entre despachos concurrentes) y si
// cualquier línea falla, ninguna descuenta stock.
type UseCase struct {
	txRunner     inventory.TxRunner
	dispatchRepo repository.DispatchRepository // lecturas fuera de tx
	itemRepo     repository.ItemRepository     // lecturas fuera de tx
	pdf          NotePDFGenerator
}

func NewUseCase(txRunner inventory.TxRunner, dispatchRepo repository.DispatchRepository, itemRepo repository.ItemRepository, pdf NotePDFGenerator) *UseCase {
	return &UseCase{txRunner: txRunner, dispatchRepo: dispatchRepo, itemRepo: itemRepo, pdf: pdf}
}

func validateDispatch(in *dto.CreateDispatchRequest) error {
	if strings.TrimSpace(in.FarmerBeneficiaryID) == "" {
		return domain.Validationf("farmer_beneficiary_id", "requerido")
	}
	for i, line := range in.Items {
		if line.InventoryID <= 0 {
			return domain.Validationf("items", "línea %d: inventory_id inválido", i+1)
		}
		if line.Quantity <= 0 {
			return domain.Validationf("items", "línea %d: quantity debe ser mayor que cero", i+1)
		}
		if line.UnitCost != nil && line.UnitCost.IsNegative() {
			return domain.Validationf("items", "línea %d: unit_cost no puede ser negativo", i+1)
		}
	}
	return nil
}

// totalValue suma quantity × unit_cost de las líneas con costo. Sin ninguna
// línea costeada devuelve nil: el total no se inventa.
func totalValue(lines []dto.DispatchLineRequest) *decimal.Decimal {
	var total decimal.Decimal
	costed := false
	for _, line := range lines {
		if line.UnitCost == nil {
			continue
		}
		costed = true
		total = total.Add(line.UnitCost.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	if !costed {
		return nil
	}
	return &total
}

// Create registra el despacho. Un despacho sin líneas persiste solo el
// encabezado y no toca stock. Cada línea descuenta stock y deja su salida en
// el ledger con reference_type dispatch y reference_id el ID del despacho.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateDispatchRequest, actor string) (*dto.DispatchResponse, error) {
	if err := validateDispatch(&in); err != nil {
		return nil, err
	}

	now := time.Now()
	header := &entity.FarmerDispatch{
		FarmerBeneficiaryID: in.FarmerBeneficiaryID,
		DispatchDate:        now,
		Status:              entity.DispatchStatusDispatched,
		TotalValue:          totalValue(in.Items),
		Notes:               in.Notes,
		CreatedAt:           now,
		CreatedBy:           actor,
	}

	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		txRepo repository.TransactionRepository,
		dispatchRepo repository.DispatchRepository,
	) error {
		if err := dispatchRepo.CreateHeader(ctx, header); err != nil {
			return err
		}
		if len(in.Items) == 0 {
			return nil
		}

		locked, err := lockItems(ctx, itemRepo, in.Items)
		if err != nil {
			return err
		}

		refID := itoa(header.ID)
		for _, line := range in.Items {
			item := locked[line.InventoryID]
			previous := item.Quantity
			newQty, err := domaininv.NextQuantity(item.ID, previous, entity.TxTypeOut, line.Quantity)
			if err != nil {
				return err
			}
			item.Quantity = newQty

			rec := &entity.FarmerDispatchItem{
				DispatchID:  header.ID,
				InventoryID: line.InventoryID,
				Quantity:    line.Quantity,
				UnitCost:    line.UnitCost,
			}
			if line.UnitCost != nil {
				tc := line.UnitCost.Mul(decimal.NewFromInt(int64(line.Quantity)))
				rec.TotalCost = &tc
			}
			if err := dispatchRepo.CreateItem(ctx, rec); err != nil {
				return err
			}
			header.Items = append(header.Items, rec)

			if err := txRepo.Create(ctx, &entity.InventoryTransaction{
				InventoryID:      item.ID,
				TransactionType:  entity.TxTypeOut,
				Quantity:         line.Quantity,
				PreviousQuantity: previous,
				NewQuantity:      newQty,
				ReferenceType:    entity.RefDispatch,
				ReferenceID:      refID,
				Notes:            "despacho a beneficiario " + in.FarmerBeneficiaryID,
				UnitCost:         line.UnitCost,
				CreatedAt:        now,
				CreatedBy:        actor,
			}); err != nil {
				return err
			}
		}

		for _, id := range sortedIDs(locked) {
			item := locked[id]
			item.UpdatedAt = now
			item.RecomputeDerived()
			if err := itemRepo.Update(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := toDispatchResponse(header)
	return &resp, nil
}

// lockItems bloquea las filas de los ítems distintos del despacho en orden
// ascendente de ID.
func lockItems(ctx context.Context, itemRepo repository.ItemRepository, lines []dto.DispatchLineRequest) (map[int64]*entity.InventoryItem, error) {
	distinct := map[int64]bool{}
	for _, line := range lines {
		distinct[line.InventoryID] = true
	}
	ids := make([]int64, 0, len(distinct))
	for id := range distinct {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	locked := make(map[int64]*entity.InventoryItem, len(ids))
	for _, id := range ids {
		item, err := itemRepo.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.ErrNotFound
		}
		locked[id] = item
	}
	return locked, nil
}

func sortedIDs(m map[int64]*entity.InventoryItem) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Get devuelve el despacho con sus líneas.
func (uc *UseCase) Get(ctx context.Context, id int64) (*dto.DispatchResponse, error) {
	d, err := uc.dispatchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	resp := toDispatchResponse(d)
	return &resp, nil
}

// ListByFarmer devuelve los despachos de un beneficiario, el más reciente
// primero.
func (uc *UseCase) ListByFarmer(ctx context.Context, farmerBeneficiaryID string, limit, offset int) ([]dto.DispatchResponse, error) {
	if strings.TrimSpace(farmerBeneficiaryID) == "" {
		return nil, domain.Validationf("farmer_beneficiary_id", "requerido")
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	dispatches, err := uc.dispatchRepo.ListByFarmer(ctx, farmerBeneficiaryID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DispatchResponse, 0, len(dispatches))
	for _, d := range dispatches {
		out = append(out, toDispatchResponse(d))
	}
	return out, nil
}

// DeliveryNotePDF genera la remisión en PDF del despacho.
func (uc *UseCase) DeliveryNotePDF(ctx context.Context, id int64) ([]byte, error) {
	d, err := uc.dispatchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	names := make(map[int64]string, len(d.Items))
	for _, line := range d.Items {
		if _, ok := names[line.InventoryID]; ok {
			continue
		}
		item, err := uc.itemRepo.GetByID(ctx, line.InventoryID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			names[line.InventoryID] = "ítem " + itoa(line.InventoryID)
			continue
		}
		label := item.Category + " " + item.Type
		if item.Specification != "" {
			label += " " + item.Specification
		}
		names[line.InventoryID] = label
	}
	return uc.pdf.DeliveryNote(d, names)
}

func toDispatchResponse(d *entity.FarmerDispatch) dto.DispatchResponse {
	resp := dto.DispatchResponse{
		ID:                  d.ID,
		FarmerBeneficiaryID: d.FarmerBeneficiaryID,
		DispatchDate:        d.DispatchDate,
		Status:              d.Status,
		TotalValue:          d.TotalValue,
		Notes:               d.Notes,
		Items:               make([]dto.DispatchLineResponse, 0, len(d.Items)),
	}
	for _, line := range d.Items {
		resp.Items = append(resp.Items, dto.DispatchLineResponse{
			ID:          line.ID,
			InventoryID: line.InventoryID,
			Quantity:    line.Quantity,
			UnitCost:    line.UnitCost,
			TotalCost:   line.TotalCost,
		})
	}
	return resp
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
