package inventory

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tu-usuario/solar-inventario/internal/domain/entity"
)

// buildXLSX arma un libro con la hoja de carga a partir de registros.
func buildXLSX(t *testing.T, records [][]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, record := range records {
		row := record
		require.NoError(t, f.SetSheetRow(sheet, "A"+strconv.Itoa(i+1), &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestXLSXTemplate_SeParseaASiMisma(t *testing.T) {
	raw, err := XLSXTemplate()
	require.NoError(t, err)

	rows, rowErrs, err := ParseXLSX(raw)
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, rows, 7) // una fila de ejemplo por categoría
	assert.Equal(t, entity.CategoryMotor, rows[0].Category)
	require.NotNil(t, rows[0].UnitPrice)
	assert.Equal(t, "450", rows[0].UnitPrice.String())
}

func TestParseXLSX_FilasInvalidasNoDetienenLasDemas(t *testing.T) {
	raw := buildXLSX(t, [][]string{
		{"category", "type", "quantity", "unit_price"},
		{"motor", "sumergible", "10", "450.00"},
		{"solar_panel", "monocristalino", "cuarenta", ""},
		{"wire", "fotovoltaico", "500", "1,20"}, // decimal con coma
	})

	rows, rowErrs, err := ParseXLSX(raw)
	require.NoError(t, err)
	require.Len(t, rowErrs, 1)
	assert.Equal(t, 3, rowErrs[0].Row)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[1].UnitPrice)
	assert.Equal(t, "1.2", rows[1].UnitPrice.String())
}

func TestParseXLSX_EncabezadoIncompletoAborta(t *testing.T) {
	raw := buildXLSX(t, [][]string{
		{"category", "type"}, // falta quantity
		{"motor", "sumergible"},
	})

	_, _, err := ParseXLSX(raw)
	require.Error(t, err)
}

func TestImportFile_AplicaFilasXLSX(t *testing.T) {
	uc, _ := newTestUseCase(50)
	raw := buildXLSX(t, [][]string{
		{"category", "type", "specification", "quantity"},
		{"motor", "sumergible", "1.5HP", "10"},
		{"motor", "sumergible", "1.5HP", "5"}, // merge con la fila anterior
	})

	resp, err := uc.ImportFile(context.Background(), "carga.xlsx", raw, "bodeguero")
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalRows)
	assert.Equal(t, 1, resp.CreatedCount)
	assert.Equal(t, 1, resp.UpdatedCount)

	item, err := uc.itemRepo.GetByNature(context.Background(), entity.CategoryMotor, "sumergible", "1.5HP")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, 15, item.Quantity)
}
