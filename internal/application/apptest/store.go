// Package apptest provee una implementación en memoria de los puertos de
// persistencia para pruebas de casos de uso sin base de datos. Run serializa
// las transacciones con un mutex y restaura el estado previo si fn falla,
// imitando el commit/rollback del runner real.
package apptest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/solar-inventario/internal/domain/entity"
	"github.com/tu-usuario/solar-inventario/internal/domain/repository"
)

type tables struct {
	items          map[int64]*entity.InventoryItem
	nextItemID     int64
	txs            []*entity.InventoryTransaction
	nextTxID       int64
	dispatches     map[int64]*entity.FarmerDispatch
	lines          []*entity.FarmerDispatchItem
	nextDispatchID int64
	nextLineID     int64
}

// Store es el backend en memoria compartido por todos los fakes.
type Store struct {
	mu sync.Mutex
	t  tables
}

func NewStore() *Store {
	return &Store{t: tables{
		items:      map[int64]*entity.InventoryItem{},
		dispatches: map[int64]*entity.FarmerDispatch{},
	}}
}

// Run ejecuta fn bajo el mutex del store con semántica de rollback: si fn
// devuelve error, ninguna escritura queda visible.
func (s *Store) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	txRepo repository.TransactionRepository,
	dispatchRepo repository.DispatchRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.t.clone()
	err := fn(itemTable{&s.t}, txTable{&s.t}, dispatchTable{&s.t})
	if err != nil {
		s.t = snap
	}
	return err
}

// RunStats ejecuta fn sobre un snapshot consistente (el mutex garantiza que
// no hay escrituras entremedio, como la transacción REPEATABLE READ real).
func (s *Store) RunStats(ctx context.Context, fn func(statsRepo repository.StatsRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(statsTable{&s.t})
}

// Items devuelve una vista con locking propio para lecturas fuera de Run.
func (s *Store) Items() repository.ItemRepository { return lockedItems{s} }

// Transactions idem para el ledger.
func (s *Store) Transactions() repository.TransactionRepository { return lockedTxs{s} }

// Dispatches idem para despachos.
func (s *Store) Dispatches() repository.DispatchRepository { return lockedDispatches{s} }

func (t *tables) clone() tables {
	out := tables{
		items:          make(map[int64]*entity.InventoryItem, len(t.items)),
		nextItemID:     t.nextItemID,
		txs:            make([]*entity.InventoryTransaction, len(t.txs)),
		nextTxID:       t.nextTxID,
		dispatches:     make(map[int64]*entity.FarmerDispatch, len(t.dispatches)),
		lines:          make([]*entity.FarmerDispatchItem, len(t.lines)),
		nextDispatchID: t.nextDispatchID,
		nextLineID:     t.nextLineID,
	}
	for id, item := range t.items {
		out.items[id] = cloneItem(item)
	}
	for i, tx := range t.txs {
		out.txs[i] = cloneTx(tx)
	}
	for id, d := range t.dispatches {
		out.dispatches[id] = cloneDispatch(d)
	}
	for i, l := range t.lines {
		out.lines[i] = cloneLine(l)
	}
	return out
}

func cloneItem(item *entity.InventoryItem) *entity.InventoryItem {
	c := *item
	return &c
}

func cloneTx(tx *entity.InventoryTransaction) *entity.InventoryTransaction {
	c := *tx
	return &c
}

func cloneDispatch(d *entity.FarmerDispatch) *entity.FarmerDispatch {
	c := *d
	c.Items = nil
	return &c
}

func cloneLine(l *entity.FarmerDispatchItem) *entity.FarmerDispatchItem {
	c := *l
	return &c
}

// --- catálogo ---

type itemTable struct{ t *tables }

func (r itemTable) Create(_ context.Context, item *entity.InventoryItem) error {
	r.t.nextItemID++
	item.ID = r.t.nextItemID
	r.t.items[item.ID] = cloneItem(item)
	return nil
}

func (r itemTable) GetByID(_ context.Context, id int64) (*entity.InventoryItem, error) {
	item, ok := r.t.items[id]
	if !ok {
		return nil, nil
	}
	return cloneItem(item), nil
}

func (r itemTable) GetForUpdate(ctx context.Context, id int64) (*entity.InventoryItem, error) {
	return r.GetByID(ctx, id)
}

func (r itemTable) GetByNature(_ context.Context, category, typ, specification string) (*entity.InventoryItem, error) {
	for _, item := range r.t.items {
		if item.Category == category && item.Type == typ && item.Specification == specification {
			return cloneItem(item), nil
		}
	}
	return nil, nil
}

func (r itemTable) Update(_ context.Context, item *entity.InventoryItem) error {
	r.t.items[item.ID] = cloneItem(item)
	return nil
}

func (r itemTable) Delete(_ context.Context, id int64) error {
	delete(r.t.items, id)
	return nil
}

func (r itemTable) List(_ context.Context, f repository.ItemFilter, limit, offset int) ([]*entity.InventoryItem, int, error) {
	var matched []*entity.InventoryItem
	for _, item := range r.t.items {
		if matchesFilter(item, f) {
			matched = append(matched, cloneItem(item))
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	total := len(matched)
	if offset >= total {
		return []*entity.InventoryItem{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func matchesFilter(item *entity.InventoryItem, f repository.ItemFilter) bool {
	if f.Category != "" && item.Category != f.Category {
		return false
	}
	if f.Type != "" && !containsFold(item.Type, f.Type) {
		return false
	}
	if f.Specification != "" && !containsFold(item.Specification, f.Specification) {
		return false
	}
	if f.Status != "" && item.Status != f.Status {
		return false
	}
	if f.LowStockOnly && !(item.Quantity > 0 && item.Quantity <= item.MinStockLevel) {
		return false
	}
	if f.Search != "" {
		if !containsFold(item.Type, f.Search) &&
			!containsFold(item.Description, f.Search) &&
			!containsFold(item.PartNumber, f.Search) &&
			!containsFold(item.Supplier, f.Search) {
			return false
		}
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// --- ledger ---

type txTable struct{ t *tables }

func (r txTable) Create(_ context.Context, tx *entity.InventoryTransaction) error {
	r.t.nextTxID++
	tx.ID = r.t.nextTxID
	r.t.txs = append(r.t.txs, cloneTx(tx))
	return nil
}

func (r txTable) ListByItem(_ context.Context, inventoryID int64, limit, offset int) ([]*entity.InventoryTransaction, error) {
	var matched []*entity.InventoryTransaction
	for _, tx := range r.t.txs {
		if tx.InventoryID == inventoryID {
			matched = append(matched, cloneTx(tx))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	if offset >= len(matched) {
		return []*entity.InventoryTransaction{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (r txTable) CountByItem(_ context.Context, inventoryID int64) (int, error) {
	n := 0
	for _, tx := range r.t.txs {
		if tx.InventoryID == inventoryID {
			n++
		}
	}
	return n, nil
}

// --- despachos ---

type dispatchTable struct{ t *tables }

func (r dispatchTable) CreateHeader(_ context.Context, d *entity.FarmerDispatch) error {
	r.t.nextDispatchID++
	d.ID = r.t.nextDispatchID
	r.t.dispatches[d.ID] = cloneDispatch(d)
	return nil
}

func (r dispatchTable) CreateItem(_ context.Context, line *entity.FarmerDispatchItem) error {
	r.t.nextLineID++
	line.ID = r.t.nextLineID
	r.t.lines = append(r.t.lines, cloneLine(line))
	return nil
}

func (r dispatchTable) GetByID(_ context.Context, id int64) (*entity.FarmerDispatch, error) {
	d, ok := r.t.dispatches[id]
	if !ok {
		return nil, nil
	}
	out := cloneDispatch(d)
	for _, l := range r.t.lines {
		if l.DispatchID == id {
			out.Items = append(out.Items, cloneLine(l))
		}
	}
	sort.Slice(out.Items, func(i, j int) bool { return out.Items[i].ID < out.Items[j].ID })
	return out, nil
}

func (r dispatchTable) ListByFarmer(_ context.Context, farmerBeneficiaryID string, limit, offset int) ([]*entity.FarmerDispatch, error) {
	var matched []*entity.FarmerDispatch
	for _, d := range r.t.dispatches {
		if d.FarmerBeneficiaryID == farmerBeneficiaryID {
			matched = append(matched, cloneDispatch(d))
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	if offset >= len(matched) {
		return []*entity.FarmerDispatch{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

// --- estadísticas ---

type statsTable struct{ t *tables }

func (r statsTable) Totals(_ context.Context) (repository.ItemTotals, error) {
	out := repository.ItemTotals{TotalValue: decimal.Zero}
	for _, item := range r.t.items {
		out.TotalItems++
		if item.UnitPrice != nil {
			out.TotalValue = out.TotalValue.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		if item.Quantity > 0 && item.Quantity <= item.MinStockLevel {
			out.LowStockItems++
		}
		if item.Status == entity.StatusOutOfStock {
			out.OutOfStockItems++
		}
	}
	return out, nil
}

func (r statsTable) CategoryRollup(_ context.Context) ([]repository.CategoryCount, error) {
	byCat := map[string]*repository.CategoryCount{}
	for _, item := range r.t.items {
		c, ok := byCat[item.Category]
		if !ok {
			c = &repository.CategoryCount{Category: item.Category}
			byCat[item.Category] = c
		}
		c.Items++
		c.TotalQuantity += item.Quantity
	}
	var out []repository.CategoryCount
	for _, c := range byCat {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

func (r statsTable) RecentTransactions(_ context.Context, limit int) ([]*entity.InventoryTransaction, error) {
	matched := make([]*entity.InventoryTransaction, 0, len(r.t.txs))
	for _, tx := range r.t.txs {
		matched = append(matched, cloneTx(tx))
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

// --- vistas con locking para lecturas fuera de Run ---

type lockedItems struct{ s *Store }

func (r lockedItems) Create(ctx context.Context, item *entity.InventoryItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return itemTable{&r.s.t}.Create(ctx, item)
}

func (r lockedItems) GetByID(ctx context.Context, id int64) (*entity.InventoryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return itemTable{&r.s.t}.GetByID(ctx, id)
}

func (r lockedItems) GetForUpdate(ctx context.Context, id int64) (*entity.InventoryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return itemTable{&r.s.t}.GetForUpdate(ctx, id)
}

func (r lockedItems) GetByNature(ctx context.Context, category, typ, specification string) (*entity.InventoryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return itemTable{&r.s.t}.GetByNature(ctx, category, typ, specification)
}

func (r lockedItems) Update(ctx context.Context, item *entity.InventoryItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return itemTable{&r.s.t}.Update(ctx, item)
}

func (r lockedItems) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return itemTable{&r.s.t}.Delete(ctx, id)
}

func (r lockedItems) List(ctx context.Context, f repository.ItemFilter, limit, offset int) ([]*entity.InventoryItem, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return itemTable{&r.s.t}.List(ctx, f, limit, offset)
}

type lockedTxs struct{ s *Store }

func (r lockedTxs) Create(ctx context.Context, tx *entity.InventoryTransaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return txTable{&r.s.t}.Create(ctx, tx)
}

func (r lockedTxs) ListByItem(ctx context.Context, inventoryID int64, limit, offset int) ([]*entity.InventoryTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return txTable{&r.s.t}.ListByItem(ctx, inventoryID, limit, offset)
}

func (r lockedTxs) CountByItem(ctx context.Context, inventoryID int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return txTable{&r.s.t}.CountByItem(ctx, inventoryID)
}

type lockedDispatches struct{ s *Store }

func (r lockedDispatches) CreateHeader(ctx context.Context, d *entity.FarmerDispatch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return dispatchTable{&r.s.t}.CreateHeader(ctx, d)
}

func (r lockedDispatches) CreateItem(ctx context.Context, line *entity.FarmerDispatchItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return dispatchTable{&r.s.t}.CreateItem(ctx, line)
}

func (r lockedDispatches) GetByID(ctx context.Context, id int64) (*entity.FarmerDispatch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return dispatchTable{&r.s.t}.GetByID(ctx, id)
}

func (r lockedDispatches) ListByFarmer(ctx context.Context, farmerBeneficiaryID string, limit, offset int) ([]*entity.FarmerDispatch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return dispatchTable{&r.s.t}.ListByFarmer(ctx, farmerBeneficiaryID, limit, offset)
}

var (
	_ repository.ItemRepository        = itemTable{}
	_ repository.TransactionRepository = txTable{}
	_ repository.DispatchRepository    = dispatchTable{}
	_ repository.StatsRepository       = statsTable{}
	_ repository.ItemRepository        = lockedItems{}
	_ repository.TransactionRepository = lockedTxs{}
	_ repository.DispatchRepository    = lockedDispatches{}
)
