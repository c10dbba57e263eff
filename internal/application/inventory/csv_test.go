package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/solar-inventario/internal/application/apptest"
	"github.com/tu-usuario/solar-inventario/internal/application/dto"
	"github.com/tu-usuario/solar-inventario/internal/domain"
	"github.com/tu-usuario/solar-inventario/internal/domain/entity"
	"github.com/tu-usuario/solar-inventario/internal/domain/repository"
	"golang.org/x/text/encoding/charmap"
)

func TestBulkCreate_ExitoParcialYMergePorTerna(t *testing.T) {
	uc, _ := newTestUseCase(50)
	existente, err := uc.Create(context.Background(), dto.CreateItemRequest{
		Category: entity.CategoryMotor, Type: "sumergible", Specification: "1.5HP", Quantity: 4,
	}, "admin")
	require.NoError(t, err)

	resp := uc.BulkCreate(context.Background(), []dto.CreateItemRequest{
		{Category: entity.CategoryMotor, Type: "sumergible", Specification: "1.5HP", Quantity: 6}, // merge
		{Category: entity.CategoryPipe, Type: "hdpe", Specification: "2in", Quantity: 120},        // nuevo
		{Category: "bombas", Type: "x", Quantity: 1},                                              // categoría inválida
		{Category: entity.CategoryWire, Type: "fotovoltaico", Quantity: -3},                       // negativo
	}, "bodeguero")

	assert.Equal(t, 1, resp.CreatedCount)
	assert.Equal(t, 1, resp.UpdatedCount)
	assert.Equal(t, 2, resp.SkippedCount)
	require.Len(t, resp.Skipped, 2)
	assert.Equal(t, 3, resp.Skipped[0].Row)
	assert.Equal(t, 4, resp.Skipped[1].Row)

	got, err := uc.Get(context.Background(), existente.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Quantity)

	txs, err := uc.ListTransactions(context.Background(), existente.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, entity.RefBulkUpload, txs[1].ReferenceType)
	assert.Equal(t, 4, txs[1].PreviousQuantity)
	assert.Equal(t, 10, txs[1].NewQuantity)
}

func TestParseCSV_PlantillaValida(t *testing.T) {
	rows, rowErrs, err := ParseCSV(CSVTemplate())
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, rows, 7)
	assert.Equal(t, entity.CategoryMotor, rows[0].Category)
	assert.Equal(t, 10, rows[0].Quantity)
	require.NotNil(t, rows[0].MinStockLevel)
	assert.Equal(t, 5, *rows[0].MinStockLevel)
	require.NotNil(t, rows[0].UnitPrice)
	assert.Equal(t, "450", rows[0].UnitPrice.String())
}

func TestParseCSV_FilasInvalidasNoDetienenElResto(t *testing.T) {
	raw := []byte("category,type,quantity,unit_price\n" +
		"motor,sumergible,10,450.00\n" +
		"wire,thw,muchos,1.20\n" + // quantity no numérica
		"pipe,hdpe,120,caro\n" + // unit_price no numérico
		"\n" + // fila en blanco ignorada
		"bos,breaker,25,12.00\n")

	rows, rowErrs, err := ParseCSV(raw)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	require.Len(t, rowErrs, 2)
	assert.Equal(t, 3, rowErrs[0].Row)
	assert.Equal(t, 4, rowErrs[1].Row)
}

func TestParseCSV_EncabezadoIncompletoAborta(t *testing.T) {
	_, _, err := ParseCSV([]byte("category,type\nmotor,sumergible\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = ParseCSV([]byte(""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseCSV_Windows1252SeDecodifica(t *testing.T) {
	latin, err := charmap.Windows1252.NewEncoder().String(
		"category,type,quantity,description\nmotor,sumergible,3,motor pequeño\n")
	require.NoError(t, err)

	rows, rowErrs, err := ParseCSV([]byte(latin))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, rows, 1)
	assert.Equal(t, "motor pequeño", rows[0].Description)
}

func TestImportFile_AplicaFilasCSVYReportaTotales(t *testing.T) {
	uc, _ := newTestUseCase(50)
	raw := []byte("category,type,specification,quantity\n" +
		"motor,sumergible,1.5HP,10\n" +
		"motor,sumergible,1.5HP,5\n" + // merge con la fila anterior
		"solar_panel,monocristalino,450W,cuarenta\n")

	resp, err := uc.ImportFile(context.Background(), "carga.csv", raw, "bodeguero")
	require.NoError(t, err)
	assert.Equal(t, "carga.csv", resp.FileName)
	assert.Equal(t, 3, resp.TotalRows)
	assert.Equal(t, 1, resp.CreatedCount)
	assert.Equal(t, 1, resp.UpdatedCount)
	assert.Equal(t, 1, resp.SkippedCount)

	item, err := uc.itemRepo.GetByNature(context.Background(), entity.CategoryMotor, "sumergible", "1.5HP")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, 15, item.Quantity)
}

// vanishedItemRunner simula un borrado confirmado entre la búsqueda por terna
// y la relectura con bloqueo: GetByNature todavía ve el ítem, GetForUpdate ya no.
type vanishedItemRunner struct {
	*apptest.Store
	ghost *entity.InventoryItem
}

func (r vanishedItemRunner) Run(ctx context.Context, fn func(repository.ItemRepository, repository.TransactionRepository, repository.DispatchRepository) error) error {
	return r.Store.Run(ctx, func(items repository.ItemRepository, txs repository.TransactionRepository, ds repository.DispatchRepository) error {
		return fn(vanishedItems{items, r.ghost}, txs, ds)
	})
}

type vanishedItems struct {
	repository.ItemRepository
	ghost *entity.InventoryItem
}

func (r vanishedItems) GetByNature(context.Context, string, string, string) (*entity.InventoryItem, error) {
	return r.ghost, nil
}

func (r vanishedItems) GetForUpdate(context.Context, int64) (*entity.InventoryItem, error) {
	return nil, nil
}

func TestBulkCreate_ItemBorradoEntreBusquedaYBloqueo(t *testing.T) {
	store := apptest.NewStore()
	ghost := &entity.InventoryItem{ID: 99, Category: entity.CategoryMotor, Type: "sumergible", Quantity: 4}
	uc := NewItemUseCase(vanishedItemRunner{store, ghost}, store.Items(), store.Transactions(), 50)

	resp := uc.BulkCreate(context.Background(), []dto.CreateItemRequest{
		{Category: entity.CategoryMotor, Type: "sumergible", Quantity: 3},
	}, "bodeguero")

	assert.Equal(t, 0, resp.CreatedCount)
	assert.Equal(t, 0, resp.UpdatedCount)
	require.Len(t, resp.Skipped, 1)
	assert.Contains(t, resp.Skipped[0].Message, "concurrente")
}

func TestImportFile_RechazaExtensionDesconocida(t *testing.T) {
	uc, _ := newTestUseCase(50)
	raw := []byte("category,type,quantity\nmotor,sumergible,1\n")

	_, err := uc.ImportFile(context.Background(), "inventario.txt", raw, "bodeguero")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
