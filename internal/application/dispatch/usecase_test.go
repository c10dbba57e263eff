package dispatch

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/solar-inventario/internal/application/apptest"
	"github.com/tu-usuario/solar-inventario/internal/application/dto"
	"github.com/tu-usuario/solar-inventario/internal/application/inventory"
	"github.com/tu-usuario/solar-inventario/internal/domain"
	"github.com/tu-usuario/solar-inventario/internal/domain/entity"
)

type fakePDF struct {
	lastNames map[int64]string
}

func (f *fakePDF) DeliveryNote(_ *entity.FarmerDispatch, names map[int64]string) ([]byte, error) {
	f.lastNames = names
	return []byte("%PDF-fake"), nil
}

type fixture struct {
	uc    *UseCase
	items *inventory.ItemUseCase
	store *apptest.Store
	pdf   *fakePDF
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := apptest.NewStore()
	pdf := &fakePDF{}
	return &fixture{
		uc:    NewUseCase(store, store.Dispatches(), store.Items(), pdf),
		items: inventory.NewItemUseCase(store, store.Items(), store.Transactions(), 50),
		store: store,
		pdf:   pdf,
	}
}

func (f *fixture) seedItem(t *testing.T, category, typ string, qty int) int64 {
	t.Helper()
	item, err := f.items.Create(context.Background(), dto.CreateItemRequest{
		Category: category, Type: typ, Quantity: qty,
	}, "admin")
	require.NoError(t, err)
	return item.ID
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCreate_DescuentaStockYDejaRastroEnElLedger(t *testing.T) {
	f := newFixture(t)
	motorID := f.seedItem(t, entity.CategoryMotor, "sumergible", 10)
	panelID := f.seedItem(t, entity.CategorySolarPanel, "monocristalino", 40)

	resp, err := f.uc.Create(context.Background(), dto.CreateDispatchRequest{
		FarmerBeneficiaryID: "FARM-001",
		Items: []dto.DispatchLineRequest{
			{InventoryID: motorID, Quantity: 1, UnitCost: decPtr("450.00")},
			{InventoryID: panelID, Quantity: 8, UnitCost: decPtr("185.50")},
		},
		Notes: "instalación vereda El Carmen",
	}, "bodeguero")
	require.NoError(t, err)
	assert.Equal(t, entity.DispatchStatusDispatched, resp.Status)
	require.NotNil(t, resp.TotalValue)
	assert.Equal(t, "1934", resp.TotalValue.String()) // 450 + 8×185.50
	require.Len(t, resp.Items, 2)
	require.NotNil(t, resp.Items[1].TotalCost)
	assert.Equal(t, "1484", resp.Items[1].TotalCost.String())

	motor, err := f.items.Get(context.Background(), motorID)
	require.NoError(t, err)
	assert.Equal(t, 9, motor.Quantity)
	panel, err := f.items.Get(context.Background(), panelID)
	require.NoError(t, err)
	assert.Equal(t, 32, panel.Quantity)

	txs, err := f.items.ListTransactions(context.Background(), panelID, 10, 0)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	out := txs[1]
	assert.Equal(t, entity.TxTypeOut, out.TransactionType)
	assert.Equal(t, entity.RefDispatch, out.ReferenceType)
	assert.Equal(t, "1", out.ReferenceID)
	assert.Equal(t, 40, out.PreviousQuantity)
	assert.Equal(t, 32, out.NewQuantity)
}

func TestCreate_LineaInsuficienteRevierteTodo(t *testing.T) {
	f := newFixture(t)
	motorID := f.seedItem(t, entity.CategoryMotor, "sumergible", 10)
	panelID := f.seedItem(t, entity.CategorySolarPanel, "monocristalino", 3)

	_, err := f.uc.Create(context.Background(), dto.CreateDispatchRequest{
		FarmerBeneficiaryID: "FARM-002",
		Items: []dto.DispatchLineRequest{
			{InventoryID: motorID, Quantity: 2},
			{InventoryID: panelID, Quantity: 8}, // solo hay 3
		},
	}, "bodeguero")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var ise *domain.InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, panelID, ise.ItemID)

	// la primera línea tampoco descontó
	motor, err := f.items.Get(context.Background(), motorID)
	require.NoError(t, err)
	assert.Equal(t, 10, motor.Quantity)
	txs, err := f.items.ListTransactions(context.Background(), motorID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, txs, 1)

	// el encabezado tampoco quedó persistido
	dispatches, err := f.uc.ListByFarmer(context.Background(), "FARM-002", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, dispatches)
}

func TestCreate_LineasRepetidasDelMismoItemSeAcumulan(t *testing.T) {
	f := newFixture(t)
	wireID := f.seedItem(t, entity.CategoryWire, "fotovoltaico", 10)

	_, err := f.uc.Create(context.Background(), dto.CreateDispatchRequest{
		FarmerBeneficiaryID: "FARM-003",
		Items: []dto.DispatchLineRequest{
			{InventoryID: wireID, Quantity: 6},
			{InventoryID: wireID, Quantity: 6}, // acumulado 12 > 10
		},
	}, "bodeguero")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	wire, err := f.items.Get(context.Background(), wireID)
	require.NoError(t, err)
	assert.Equal(t, 10, wire.Quantity)
}

func TestCreate_SinLineasPersisteSoloEncabezado(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Create(context.Background(), dto.CreateDispatchRequest{
		FarmerBeneficiaryID: "FARM-004",
		Notes:               "pendiente de alistamiento",
	}, "bodeguero")
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.Nil(t, resp.TotalValue)

	got, err := f.uc.Get(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "FARM-004", got.FarmerBeneficiaryID)
	assert.Empty(t, got.Items)
}

func TestCreate_ItemInexistenteRechazado(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Create(context.Background(), dto.CreateDispatchRequest{
		FarmerBeneficiaryID: "FARM-005",
		Items:               []dto.DispatchLineRequest{{InventoryID: 999, Quantity: 1}},
	}, "bodeguero")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_AgotaStockYElItemQuedaAgotado(t *testing.T) {
	f := newFixture(t)
	pipeID := f.seedItem(t, entity.CategoryPipe, "hdpe", 5)

	_, err := f.uc.Create(context.Background(), dto.CreateDispatchRequest{
		FarmerBeneficiaryID: "FARM-006",
		Items:               []dto.DispatchLineRequest{{InventoryID: pipeID, Quantity: 5}},
	}, "bodeguero")
	require.NoError(t, err)

	pipe, err := f.items.Get(context.Background(), pipeID)
	require.NoError(t, err)
	assert.Equal(t, 0, pipe.Quantity)
	assert.Equal(t, entity.StatusOutOfStock, pipe.Status)
}

func TestListByFarmer_MasRecientePrimero(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		_, err := f.uc.Create(context.Background(), dto.CreateDispatchRequest{
			FarmerBeneficiaryID: "FARM-007",
		}, "bodeguero")
		require.NoError(t, err)
	}
	_, err := f.uc.Create(context.Background(), dto.CreateDispatchRequest{
		FarmerBeneficiaryID: "FARM-OTRO",
	}, "bodeguero")
	require.NoError(t, err)

	got, err := f.uc.ListByFarmer(context.Background(), "FARM-007", 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Greater(t, got[0].ID, got[1].ID)
	assert.Greater(t, got[1].ID, got[2].ID)
}

func TestDeliveryNotePDF_ResuelveEtiquetasDeItems(t *testing.T) {
	f := newFixture(t)
	motorID := f.seedItem(t, entity.CategoryMotor, "sumergible", 10)

	resp, err := f.uc.Create(context.Background(), dto.CreateDispatchRequest{
		FarmerBeneficiaryID: "FARM-008",
		Items:               []dto.DispatchLineRequest{{InventoryID: motorID, Quantity: 1}},
	}, "bodeguero")
	require.NoError(t, err)

	pdf, err := f.uc.DeliveryNotePDF(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, "motor sumergible", f.pdf.lastNames[motorID])

	_, err = f.uc.DeliveryNotePDF(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
