package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tu-usuario/solar-inventario/internal/domain/entity"
)

// is_low_stock == (0 < quantity <= min_stock_level) y
// status == out_of_stock ⇔ quantity == 0, después de toda mutación.
func TestRecomputeDerived(t *testing.T) {
	cases := []struct {
		name       string
		qty, min   int
		statusIn   string
		wantStatus string
		wantLow    bool
	}{
		{"sin stock fuerza out_of_stock", 0, 5, entity.StatusActive, entity.StatusOutOfStock, false},
		{"sin stock no es low stock", 0, 1, entity.StatusActive, entity.StatusOutOfStock, false},
		{"en el umbral es low stock", 5, 5, entity.StatusActive, entity.StatusActive, true},
		{"bajo el umbral es low stock", 2, 5, entity.StatusActive, entity.StatusActive, true},
		{"sobre el umbral no es low stock", 10, 5, entity.StatusActive, entity.StatusActive, false},
		{"repone stock y vuelve a active", 3, 5, entity.StatusOutOfStock, entity.StatusActive, true},
		{"inactive se conserva con stock", 10, 5, entity.StatusInactive, entity.StatusInactive, false},
		{"inactive sin stock pasa a out_of_stock", 0, 5, entity.StatusInactive, entity.StatusOutOfStock, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item := &entity.InventoryItem{
				Quantity:      tc.qty,
				MinStockLevel: tc.min,
				Status:        tc.statusIn,
			}
			item.RecomputeDerived()
			assert.Equal(t, tc.wantStatus, item.Status)
			assert.Equal(t, tc.wantLow, item.IsLowStock)
		})
	}
}

func TestValidCategory(t *testing.T) {
	for _, c := range entity.Categories {
		assert.True(t, entity.ValidCategory(c))
	}
	assert.False(t, entity.ValidCategory("tractor"))
	assert.False(t, entity.ValidCategory(""))
}
