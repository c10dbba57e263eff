package inventory

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/tu-usuario/solar-inventario/internal/application/dto"
	"github.com/tu-usuario/solar-inventario/internal/domain"
)

const xlsxSheetName = "Inventario"

// XLSXTemplate genera la plantilla de carga en Excel con las mismas filas de
// ejemplo que la plantilla CSV.
func XLSXTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), xlsxSheetName); err != nil {
		return nil, fmt.Errorf("plantilla xlsx: %w", err)
	}
	for i, record := range templateRecords() {
		row := record
		if err := f.SetSheetRow(xlsxSheetName, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return nil, fmt.Errorf("plantilla xlsx: fila %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("plantilla xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseXLSX convierte la primera hoja del libro en filas de alta, con el mismo
// contrato que ParseCSV: errores estructurales abortan, errores de valor se
// reportan por fila.
func ParseXLSX(raw []byte) ([]dto.CreateItemRequest, []dto.BulkRowError, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, domain.Validationf("file", "XLSX malformado: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, nil, domain.Validationf("file", "libro sin hojas")
	}
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, domain.Validationf("file", "no se pudo leer la hoja %q: %v", sheet, err)
	}
	if len(records) == 0 {
		return nil, nil, domain.Validationf("file", "archivo vacío")
	}

	col, err := importColumnIndex(records[0])
	if err != nil {
		return nil, nil, err
	}

	var rows []dto.CreateItemRequest
	var rowErrs []dto.BulkRowError
	for i, record := range records[1:] {
		line := i + 2
		if isBlankRecord(record) {
			continue
		}
		row, rowErr := mapImportRecord(col, record, line)
		if rowErr != nil {
			rowErrs = append(rowErrs, *rowErr)
			continue
		}
		rows = append(rows, row)
	}
	return rows, rowErrs, nil
}
