package repository

import (
	"context"

	"github.com/tu-usuario/solar-inventario/internal/domain/entity"
)

// DispatchRepository define el puerto de persistencia de despachos.
// Los despachos se crean una vez y no se editan después del commit.
type DispatchRepository interface {
	CreateHeader(ctx context.Context, d *entity.FarmerDispatch) error // asigna ID
	CreateItem(ctx context.Context, line *entity.FarmerDispatchItem) error
	// GetByID devuelve el despacho con sus líneas en orden; (nil, nil) si no existe.
	GetByID(ctx context.Context, id int64) (*entity.FarmerDispatch, error)
	ListByFarmer(ctx context.Context, farmerBeneficiaryID string, limit, offset int) ([]*entity.FarmerDispatch, error)
}
