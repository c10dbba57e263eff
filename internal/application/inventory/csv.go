package inventory

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/solar-inventario/internal/application/dto"
	"github.com/tu-usuario/solar-inventario/internal/domain"
	"golang.org/x/text/encoding/charmap"
)

// importHeader columnas esperadas del archivo de carga, en orden.
var importHeader = []string{
	"category", "type", "specification", "quantity", "min_stock_level",
	"unit_price", "supplier", "part_number", "description", "location",
}

// templateRecords encabezado más una fila de ejemplo por categoría; alimenta
// las plantillas CSV y Excel.
func templateRecords() [][]string {
	return [][]string{
		importHeader,
		{"motor", "sumergible", "1.5HP", "10", "5", "450.00", "Lorentz", "PS2-1800", "motor sumergible solar", "bodega A"},
		{"controller", "mppt", "60A", "8", "5", "320.00", "Victron", "SCC-60", "controlador de carga", "bodega A"},
		{"solar_panel", "monocristalino", "450W", "40", "20", "185.50", "Jinko", "JKM450", "panel 450W", "patio"},
		{"bos", "breaker", "32A", "25", "10", "12.00", "Schneider", "BRK-32", "protección DC", "bodega B"},
		{"structure", "riel", "4.2m", "60", "30", "28.00", "", "", "riel de aluminio", "patio"},
		{"wire", "fotovoltaico", "6mm", "500", "100", "1.20", "", "", "cable solar por metro", "bodega B"},
		{"pipe", "hdpe", "2in", "120", "50", "3.40", "", "", "tubería por metro", "patio"},
	}
}

// CSVTemplate devuelve la plantilla descargable con encabezado y una fila de
// ejemplo por categoría.
func CSVTemplate() []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, record := range templateRecords() {
		_ = w.Write(record)
	}
	w.Flush()
	return buf.Bytes()
}

// decodeCSVBytes normaliza el contenido a UTF-8. Los exports de Excel en
// Windows suelen venir en Windows-1252; si los bytes no son UTF-8 válido se
// reinterpretan con ese charset.
func decodeCSVBytes(raw []byte) ([]byte, error) {
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF}) // BOM
	if utf8.Valid(raw) {
		return raw, nil
	}
	return charmap.Windows1252.NewDecoder().Bytes(raw)
}

// importColumnIndex mapea el encabezado a índices de columna y exige las
// columnas mínimas.
func importColumnIndex(header []string) (map[string]int, error) {
	col := map[string]int{}
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"category", "type", "quantity"} {
		if _, ok := col[required]; !ok {
			return nil, domain.Validationf("file", "falta la columna %q", required)
		}
	}
	return col, nil
}

// mapImportRecord convierte un registro en una fila de alta. Los errores de
// valor se devuelven por fila con el número de línea del archivo.
func mapImportRecord(col map[string]int, record []string, line int) (dto.CreateItemRequest, *dto.BulkRowError) {
	field := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	row := dto.CreateItemRequest{
		Category:      strings.ToLower(field("category")),
		Type:          field("type"),
		Specification: field("specification"),
		Supplier:      field("supplier"),
		PartNumber:    field("part_number"),
		Description:   field("description"),
		Location:      field("location"),
	}

	qty, err := strconv.Atoi(field("quantity"))
	if err != nil {
		return row, &dto.BulkRowError{Row: line, Message: "quantity inválida: " + field("quantity")}
	}
	row.Quantity = qty

	if raw := field("min_stock_level"); raw != "" {
		min, err := strconv.Atoi(raw)
		if err != nil {
			return row, &dto.BulkRowError{Row: line, Message: "min_stock_level inválido: " + raw}
		}
		row.MinStockLevel = &min
	}
	if raw := field("unit_price"); raw != "" {
		price, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
		if err != nil {
			return row, &dto.BulkRowError{Row: line, Message: "unit_price inválido: " + raw}
		}
		row.UnitPrice = &price
	}
	return row, nil
}

// ParseCSV convierte el archivo en filas de alta. Los errores estructurales
// (encabezado ausente o desconocido, CSV malformado) abortan el parseo; los
// errores de valor se reportan por fila y no detienen las demás.
func ParseCSV(raw []byte) ([]dto.CreateItemRequest, []dto.BulkRowError, error) {
	decoded, err := decodeCSVBytes(raw)
	if err != nil {
		return nil, nil, domain.Validationf("file", "codificación no reconocida: %v", err)
	}

	r := csv.NewReader(bytes.NewReader(decoded))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil, domain.Validationf("file", "archivo vacío")
	}
	if err != nil {
		return nil, nil, domain.Validationf("file", "CSV malformado: %v", err)
	}
	col, err := importColumnIndex(header)
	if err != nil {
		return nil, nil, err
	}

	var rows []dto.CreateItemRequest
	var rowErrs []dto.BulkRowError
	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			rowErrs = append(rowErrs, dto.BulkRowError{Row: line, Message: "fila malformada: " + err.Error()})
			continue
		}
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

func isBlankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// ImportFile parsea el archivo (.csv o .xlsx según la extensión) y aplica las
// filas con la misma semántica de BulkCreate (éxito parcial, merge por terna).
// Los errores de fila del parseo se suman a los del alta.
func (uc *ItemUseCase) ImportFile(ctx context.Context, fileName string, raw []byte, actor string) (*dto.ImportResponse, error) {
	var (
		rows      []dto.CreateItemRequest
		parseErrs []dto.BulkRowError
		err       error
	)
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		rows, parseErrs, err = ParseCSV(raw)
	case ".xlsx":
		rows, parseErrs, err = ParseXLSX(raw)
	default:
		return nil, domain.Validationf("file", "se esperaba un archivo .csv o .xlsx, se recibió %q", fileName)
	}
	if err != nil {
		return nil, err
	}
	bulk := uc.BulkCreate(ctx, rows, actor)
	bulk.SkippedCount += len(parseErrs)
	bulk.Skipped = append(parseErrs, bulk.Skipped...)
	return &dto.ImportResponse{
		BulkCreateResponse: *bulk,
		FileName:           fileName,
		TotalRows:          len(rows) + len(parseErrs),
	}, nil
}
