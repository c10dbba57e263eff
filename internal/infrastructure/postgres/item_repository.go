package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/solar-inventario/internal/domain"
	"github.com/tu-usuario/solar-inventario/internal/domain/entity"
	"github.com/tu-usuario/solar-inventario/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, category, type, specification, quantity, min_stock_level,
	unit_price, supplier, part_number, description, document_url, location,
	status, is_low_stock, created_at, updated_at, created_by`

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador del catálogo. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create inserta el ítem y asigna su ID. Una violación del único sobre la
// terna (category, type, specification) se mapea a ErrDuplicate.
func (r *ItemRepo) Create(ctx context.Context, item *entity.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (
			category, type, specification, quantity, min_stock_level, unit_price,
			supplier, part_number, description, document_url, location,
			status, is_low_stock, created_at, updated_at, created_by
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		item.Category, item.Type, item.Specification, item.Quantity, item.MinStockLevel,
		item.UnitPrice, item.Supplier, item.PartNumber, item.Description,
		item.DocumentURL, item.Location, item.Status, item.IsLowStock,
		item.CreatedAt, item.UpdatedAt, item.CreatedBy,
	).Scan(&item.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

// GetByID obtiene un ítem por ID; (nil, nil) si no existe.
func (r *ItemRepo) GetByID(ctx context.Context, id int64) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get item")
}

// GetForUpdate obtiene el ítem y bloquea la fila (SELECT FOR UPDATE). Solo
// tiene sentido dentro de una transacción del TxRunner.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id int64) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get item for update")
}

// GetByNature busca por la terna (category, type, specification); (nil, nil) si no existe.
func (r *ItemRepo) GetByNature(ctx context.Context, category, typ, specification string) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + `
		FROM inventory_items
		WHERE category = $1 AND type = $2 AND specification = $3`
	return r.scanOne(r.q.QueryRow(ctx, query, category, typ, specification), "get item by nature")
}

// Update persiste todos los campos mutables del ítem.
func (r *ItemRepo) Update(ctx context.Context, item *entity.InventoryItem) error {
	query := `
		UPDATE inventory_items SET
			category = $2, type = $3, specification = $4, quantity = $5,
			min_stock_level = $6, unit_price = $7, supplier = $8, part_number = $9,
			description = $10, document_url = $11, location = $12,
			status = $13, is_low_stock = $14, updated_at = $15
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		item.ID, item.Category, item.Type, item.Specification, item.Quantity,
		item.MinStockLevel, item.UnitPrice, item.Supplier, item.PartNumber,
		item.Description, item.DocumentURL, item.Location,
		item.Status, item.IsLowStock, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el ítem. Una violación de FK (hay transacciones o líneas de
// despacho que lo referencian) se mapea a ErrConflict.
func (r *ItemRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve la página (orden id ASC) y el total de filas del filtro.
func (r *ItemRepo) List(ctx context.Context, f repository.ItemFilter, limit, offset int) ([]*entity.InventoryItem, int, error) {
	where, args := buildItemFilter(f)

	var total int
	countQuery := `SELECT COUNT(*) FROM inventory_items` + where
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	query := fmt.Sprintf(`SELECT `+itemColumns+`
		FROM inventory_items%s
		ORDER BY id ASC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	rows, err := r.q.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := make([]*entity.InventoryItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list items rows: %w", err)
	}
	return items, total, nil
}

// buildItemFilter arma la cláusula WHERE posicional a partir del filtro.
func buildItemFilter(f repository.ItemFilter) (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.Type != "" {
		add("type ILIKE $%d", "%"+f.Type+"%")
	}
	if f.Specification != "" {
		add("specification ILIKE $%d", "%"+f.Specification+"%")
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.LowStockOnly {
		conds = append(conds, "quantity > 0 AND quantity <= min_stock_level")
	}
	if f.Search != "" {
		add("(type ILIKE $%d", "%"+f.Search+"%")
		last := conds[len(conds)-1]
		n := len(args)
		conds[len(conds)-1] = fmt.Sprintf("%s OR description ILIKE $%d OR part_number ILIKE $%d OR supplier ILIKE $%d)", last, n, n, n)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*entity.InventoryItem, error) {
	var item entity.InventoryItem
	err := row.Scan(
		&item.ID, &item.Category, &item.Type, &item.Specification,
		&item.Quantity, &item.MinStockLevel, &item.UnitPrice,
		&item.Supplier, &item.PartNumber, &item.Description,
		&item.DocumentURL, &item.Location, &item.Status, &item.IsLowStock,
		&item.CreatedAt, &item.UpdatedAt, &item.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ItemRepo) scanOne(row pgx.Row, op string) (*entity.InventoryItem, error) {
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return item, nil
}
