package stats

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/solar-inventario/internal/application/apptest"
	"github.com/tu-usuario/solar-inventario/internal/application/dto"
	"github.com/tu-usuario/solar-inventario/internal/application/inventory"
	"github.com/tu-usuario/solar-inventario/internal/domain/entity"
)

func intPtr(v int) *int { return &v }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCompute_ConteosYValorTotal(t *testing.T) {
	store := apptest.NewStore()
	items := inventory.NewItemUseCase(store, store.Items(), store.Transactions(), 50)
	uc := NewUseCase(store)

	// cantidades 0, 2 y 10 con umbral 5: un agotado, un low stock, un sano
	seeds := []dto.CreateItemRequest{
		{Category: entity.CategoryMotor, Type: "sumergible", Quantity: 0, MinStockLevel: intPtr(5), UnitPrice: decPtr("450.00")},
		{Category: entity.CategoryMotor, Type: "superficie", Quantity: 2, MinStockLevel: intPtr(5), UnitPrice: decPtr("300.00")},
		{Category: entity.CategorySolarPanel, Type: "monocristalino", Quantity: 10, MinStockLevel: intPtr(5), UnitPrice: decPtr("185.50")},
	}
	for _, req := range seeds {
		_, err := items.Create(context.Background(), req, "admin")
		require.NoError(t, err)
	}

	got, err := uc.Compute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, got.TotalItems) // SKUs, no unidades
	assert.Equal(t, 1, got.LowStockItems)
	assert.Equal(t, 1, got.OutOfStockItems)
	// 0×450 + 2×300 + 10×185.50
	assert.Equal(t, "2455", got.TotalValue.String())

	require.Len(t, got.Categories, 2)
	assert.Equal(t, dto.CategoryStatsDTO{Items: 2, TotalQuantity: 2}, got.Categories[entity.CategoryMotor])
	assert.Equal(t, dto.CategoryStatsDTO{Items: 1, TotalQuantity: 10}, got.Categories[entity.CategorySolarPanel])
	_, ok := got.Categories[entity.CategoryPipe]
	assert.False(t, ok, "categoría sin ítems no aparece")
}

func TestCompute_UmbralLowStockEsInclusivo(t *testing.T) {
	store := apptest.NewStore()
	items := inventory.NewItemUseCase(store, store.Items(), store.Transactions(), 50)
	uc := NewUseCase(store)

	// quantity == min_stock_level cuenta como low stock
	_, err := items.Create(context.Background(), dto.CreateItemRequest{
		Category: entity.CategoryWire, Type: "thw", Quantity: 5, MinStockLevel: intPtr(5),
	}, "admin")
	require.NoError(t, err)
	// quantity == min + 1 no cuenta
	_, err = items.Create(context.Background(), dto.CreateItemRequest{
		Category: entity.CategoryWire, Type: "fotovoltaico", Quantity: 6, MinStockLevel: intPtr(5),
	}, "admin")
	require.NoError(t, err)

	got, err := uc.Compute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, got.LowStockItems)
	assert.Equal(t, 0, got.OutOfStockItems)
}

func TestCompute_InventarioVacio(t *testing.T) {
	uc := NewUseCase(apptest.NewStore())

	got, err := uc.Compute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, got.TotalItems)
	assert.True(t, got.TotalValue.IsZero())
	assert.Empty(t, got.Categories)
	assert.Empty(t, got.RecentTransactions)
}

func TestCompute_TransaccionesRecientesLimitadas(t *testing.T) {
	store := apptest.NewStore()
	items := inventory.NewItemUseCase(store, store.Items(), store.Transactions(), 50)
	uc := NewUseCase(store)

	item, err := items.Create(context.Background(), dto.CreateItemRequest{
		Category: entity.CategoryBOS, Type: "breaker", Quantity: 100,
	}, "admin")
	require.NoError(t, err)
	for i := 0; i < 15; i++ {
		_, err := items.Append(context.Background(), inventory.AppendInput{
			InventoryID:     item.ID,
			TransactionType: entity.TxTypeOut,
			Quantity:        1,
			Actor:           "bodeguero",
		})
		require.NoError(t, err)
	}

	got, err := uc.Compute(context.Background())
	require.NoError(t, err)
	assert.Len(t, got.RecentTransactions, RecentTransactionsLimit)
	// la más reciente primero: la última salida dejó new_quantity = 85
	assert.Equal(t, 85, got.RecentTransactions[0].NewQuantity)
}
