package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/solar-inventario/internal/domain"
	"github.com/tu-usuario/solar-inventario/internal/domain/entity"
	"github.com/tu-usuario/solar-inventario/internal/domain/inventory"
)

func TestNextQuantity_Entrada(t *testing.T) {
	got, err := inventory.NextQuantity(1, 5, entity.TxTypeIn, 3)
	require.NoError(t, err)
	assert.Equal(t, 8, got)
}

func TestNextQuantity_SalidaConStock(t *testing.T) {
	got, err := inventory.NextQuantity(1, 5, entity.TxTypeOut, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

// Una salida mayor al stock disponible debe fallar identificando el ítem.
func TestNextQuantity_SalidaSinStock(t *testing.T) {
	_, err := inventory.NextQuantity(7, 5, entity.TxTypeOut, 6)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(7), insufficient.ItemID)
	assert.Equal(t, 5, insufficient.Available)
	assert.Equal(t, 6, insufficient.Requested)
}

func TestNextQuantity_CantidadInvalida(t *testing.T) {
	for _, qty := range []int{0, -3} {
		_, err := inventory.NextQuantity(1, 5, entity.TxTypeIn, qty)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestAdjustmentDelta(t *testing.T) {
	assert.Equal(t, 4, inventory.AdjustmentDelta(6, 10))
	assert.Equal(t, 4, inventory.AdjustmentDelta(10, 6))
	assert.Equal(t, 0, inventory.AdjustmentDelta(3, 3))
}

// Reproducir la secuencia de transacciones debe devolver exactamente la
// cantidad final del catálogo (sin deriva).
func TestReplay_ReconstruyeCantidadFinal(t *testing.T) {
	txs := []*entity.InventoryTransaction{
		{TransactionType: entity.TxTypeIn, Quantity: 10, PreviousQuantity: 0, NewQuantity: 10},
		{TransactionType: entity.TxTypeOut, Quantity: 4, PreviousQuantity: 10, NewQuantity: 6},
		{TransactionType: entity.TxTypeAdjustment, Quantity: 3, PreviousQuantity: 6, NewQuantity: 9},
		{TransactionType: entity.TxTypeOut, Quantity: 9, PreviousQuantity: 9, NewQuantity: 0},
	}
	got, err := inventory.Replay(txs)
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestReplay_DetectaSaltoEnCadena(t *testing.T) {
	txs := []*entity.InventoryTransaction{
		{TransactionType: entity.TxTypeIn, Quantity: 10, PreviousQuantity: 0, NewQuantity: 10},
		// previous_quantity no coincide con la cantidad acumulada
		{TransactionType: entity.TxTypeOut, Quantity: 2, PreviousQuantity: 9, NewQuantity: 7},
	}
	_, err := inventory.Replay(txs)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestReplay_DetectaMagnitudDeAjusteIncoherente(t *testing.T) {
	txs := []*entity.InventoryTransaction{
		{TransactionType: entity.TxTypeIn, Quantity: 5, PreviousQuantity: 0, NewQuantity: 5},
		{TransactionType: entity.TxTypeAdjustment, Quantity: 9, PreviousQuantity: 5, NewQuantity: 8},
	}
	_, err := inventory.Replay(txs)
	assert.ErrorIs(t, err, domain.ErrConflict)
}
