package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/solar-inventario/internal/domain"
	"github.com/tu-usuario/solar-inventario/internal/domain/entity"
	"github.com/tu-usuario/solar-inventario/internal/domain/repository"
)

var _ repository.DispatchRepository = (*DispatchRepo)(nil)

// DispatchRepo implementación de DispatchRepository sobre PostgreSQL
// (usable con pool o tx).
type DispatchRepo struct {
	q Querier
}

// NewDispatchRepository construye el adaptador de despachos. Pasar pool o tx (Querier).
func NewDispatchRepository(q Querier) *DispatchRepo {
	return &DispatchRepo{q: q}
}

// CreateHeader inserta el encabezado del despacho y asigna su ID.
func (r *DispatchRepo) CreateHeader(ctx context.Context, d *entity.FarmerDispatch) error {
	query := `
		INSERT INTO farmer_dispatches (
			farmer_beneficiary_id, dispatch_date, status, total_value, notes,
			created_at, created_by
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		d.FarmerBeneficiaryID, d.DispatchDate, d.Status, d.TotalValue,
		d.Notes, d.CreatedAt, d.CreatedBy,
	).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("create dispatch header: %w", err)
	}
	return nil
}

// CreateItem inserta una línea del despacho y asigna su ID.
func (r *DispatchRepo) CreateItem(ctx context.Context, line *entity.FarmerDispatchItem) error {
	query := `
		INSERT INTO farmer_dispatch_items (
			dispatch_id, inventory_id, quantity, unit_cost, total_cost
		) VALUES ($1,$2,$3,$4,$5)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		line.DispatchID, line.InventoryID, line.Quantity, line.UnitCost, line.TotalCost,
	).Scan(&line.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("create dispatch item: %w", err)
	}
	return nil
}

const dispatchColumns = `id, farmer_beneficiary_id, dispatch_date, status, total_value,
	notes, created_at, created_by`

// GetByID devuelve el despacho con sus líneas en orden; (nil, nil) si no existe.
func (r *DispatchRepo) GetByID(ctx context.Context, id int64) (*entity.FarmerDispatch, error) {
	query := `SELECT ` + dispatchColumns + ` FROM farmer_dispatches WHERE id = $1`
	var d entity.FarmerDispatch
	err := r.q.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.FarmerBeneficiaryID, &d.DispatchDate, &d.Status,
		&d.TotalValue, &d.Notes, &d.CreatedAt, &d.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get dispatch: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, dispatch_id, inventory_id, quantity, unit_cost, total_cost
		FROM farmer_dispatch_items
		WHERE dispatch_id = $1
		ORDER BY id ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("get dispatch items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var line entity.FarmerDispatchItem
		if err := rows.Scan(
			&line.ID, &line.DispatchID, &line.InventoryID,
			&line.Quantity, &line.UnitCost, &line.TotalCost,
		); err != nil {
			return nil, fmt.Errorf("scan dispatch item: %w", err)
		}
		d.Items = append(d.Items, &line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get dispatch items rows: %w", err)
	}
	return &d, nil
}

// ListByFarmer devuelve los despachos de un beneficiario, el más reciente primero.
// Los encabezados vienen sin líneas; GetByID las trae.
func (r *DispatchRepo) ListByFarmer(ctx context.Context, farmerBeneficiaryID string, limit, offset int) ([]*entity.FarmerDispatch, error) {
	query := `SELECT ` + dispatchColumns + `
		FROM farmer_dispatches
		WHERE farmer_beneficiary_id = $1
		ORDER BY id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, farmerBeneficiaryID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list dispatches: %w", err)
	}
	defer rows.Close()

	dispatches := make([]*entity.FarmerDispatch, 0)
	for rows.Next() {
		var d entity.FarmerDispatch
		if err := rows.Scan(
			&d.ID, &d.FarmerBeneficiaryID, &d.DispatchDate, &d.Status,
			&d.TotalValue, &d.Notes, &d.CreatedAt, &d.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan dispatch: %w", err)
		}
		dispatches = append(dispatches, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list dispatches rows: %w", err)
	}
	return dispatches, nil
}
