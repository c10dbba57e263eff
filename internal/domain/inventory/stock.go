// Package inventory contiene la lógica pura de stock (servicios de dominio):
// cálculo de la nueva cantidad según tipo de transacción y reconstrucción de
// la cantidad a partir del ledger.
package inventory

import (
	"github.com/tu-usuario/solar-inventario/internal/domain"
	"github.com/tu-usuario/solar-inventario/internal/domain/entity"
)

// NextQuantity calcula la cantidad resultante de aplicar una transacción de
// magnitud qty (> 0) sobre current:
//
//	in  → current + qty
//	out → current − qty (ErrInsufficientStock si qty > current)
//
// Para adjustment la cantidad destino viene dada por el caller; usar
// AdjustmentDelta.
func NextQuantity(itemID int64, current int, txType string, qty int) (int, error) {
	if qty <= 0 {
		return 0, domain.Validationf("quantity", "debe ser mayor que cero")
	}
	switch txType {
	case entity.TxTypeIn:
		return current + qty, nil
	case entity.TxTypeOut:
		if qty > current {
			return 0, &domain.InsufficientStockError{ItemID: itemID, Available: current, Requested: qty}
		}
		return current - qty, nil
	}
	return 0, domain.Validationf("transaction_type", "tipo desconocido %q", txType)
}

// AdjustmentDelta devuelve la magnitud |target − current| de un ajuste.
// Un delta cero no genera transacción.
func AdjustmentDelta(current, target int) int {
	d := target - current
	if d < 0 {
		return -d
	}
	return d
}

// Replay reproduce la secuencia de transacciones de un ítem (ordenada por
// creación) y devuelve la cantidad final. Verifica el encadenamiento
// previous→new de cada entrada; cualquier salto devuelve ErrConflict.
// Usado en auditoría para comprobar que el catálogo no derivó.
func Replay(txs []*entity.InventoryTransaction) (int, error) {
	qty := 0
	for _, tx := range txs {
		if tx.PreviousQuantity != qty {
			return 0, domain.ErrConflict
		}
		switch tx.TransactionType {
		case entity.TxTypeIn:
			qty = tx.PreviousQuantity + tx.Quantity
		case entity.TxTypeOut:
			qty = tx.PreviousQuantity - tx.Quantity
		case entity.TxTypeAdjustment:
			// la dirección del ajuste la da new_quantity; la magnitud debe coincidir
			if AdjustmentDelta(tx.PreviousQuantity, tx.NewQuantity) != tx.Quantity {
				return 0, domain.ErrConflict
			}
			qty = tx.NewQuantity
		default:
			return 0, domain.ErrConflict
		}
		if qty != tx.NewQuantity || qty < 0 {
			return 0, domain.ErrConflict
		}
	}
	return qty, nil
}
