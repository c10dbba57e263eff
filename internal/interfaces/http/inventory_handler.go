package http

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/solar-inventario/internal/application/dto"
	"github.com/tu-usuario/solar-inventario/internal/application/inventory"
	"github.com/tu-usuario/solar-inventario/internal/application/stats"
	"github.com/tu-usuario/solar-inventario/internal/domain/repository"
	"github.com/tu-usuario/solar-inventario/pkg/validator"
)

// InventoryHandler maneja las peticiones HTTP del catálogo y su ledger (protegido).
type InventoryHandler struct {
	items *inventory.ItemUseCase
	stats *stats.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(items *inventory.ItemUseCase, stats *stats.UseCase) *InventoryHandler {
	return &InventoryHandler{items: items, stats: stats}
}

// List godoc
// @Summary      Listar ítems del catálogo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        page           query  int     false  "Página (1-index)"
// @Param        category       query  string  false  "motor|controller|solar_panel|bos|structure|wire|pipe"
// @Param        type           query  string  false  "Substring sobre type"
// @Param        specification  query  string  false  "Substring sobre specification"
// @Param        status         query  string  false  "active|inactive|out_of_stock"
// @Param        low_stock      query  bool    false  "Solo ítems en alerta de stock"
// @Param        search         query  string  false  "Substring sobre type/description/part_number/supplier"
// @Success      200  {object}  dto.ListItemsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	filter := repository.ItemFilter{
		Category:      c.Query("category"),
		Type:          c.Query("type"),
		Specification: c.Query("specification"),
		Status:        c.Query("status"),
		LowStockOnly:  c.QueryBool("low_stock"),
		Search:        c.Query("search"),
	}
	out, err := h.items.List(c.Context(), page, filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear ítem
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "category, type, quantity, ..."
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory [post]
func (h *InventoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return respondValidation(c, errs[0].Field, errs[0].Error())
	}
	out, err := h.items.Create(c.Context(), in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener ítem
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID del ítem"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{id} [get]
func (h *InventoryHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return respondValidation(c, "id", "debe ser un entero positivo")
	}
	out, err := h.items.Get(c.Context(), int64(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar ítem (merge parcial)
// @Description  Un cambio de quantity queda registrado como transacción adjustment.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                    true  "ID del ítem"
// @Param        body  body  dto.UpdateItemRequest  true  "campos a actualizar"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/{id} [put]
func (h *InventoryHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return respondValidation(c, "id", "debe ser un entero positivo")
	}
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return respondValidation(c, errs[0].Field, errs[0].Error())
	}
	out, err := h.items.Update(c.Context(), int64(id), in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar ítem sin historial
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID del ítem"
// @Success      204  "sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/{id} [delete]
func (h *InventoryHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return respondValidation(c, "id", "debe ser un entero positivo")
	}
	if err := h.items.Delete(c.Context(), int64(id)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// BulkCreate godoc
// @Summary      Alta masiva de ítems
// @Description  Cada fila se procesa por separado: las válidas se aplican aunque otras fallen.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkCreateRequest  true  "items"
// @Success      200   {object}  dto.BulkCreateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/bulk [post]
func (h *InventoryHandler) BulkCreate(c *fiber.Ctx) error {
	var in dto.BulkCreateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Items) == 0 {
		return respondValidation(c, "items", "al menos una fila")
	}
	out := h.items.BulkCreate(c.Context(), in.Items, GetUserID(c))
	return c.JSON(out)
}

// Import godoc
// @Summary      Importar ítems desde archivo CSV o Excel
// @Tags         inventory
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Archivo .csv (UTF-8 o Windows-1252) o .xlsx"
// @Success      200   {object}  dto.ImportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/import [post]
func (h *InventoryHandler) Import(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return respondValidation(c, "file", "archivo requerido en el campo 'file'")
	}
	f, err := fileHeader.Open()
	if err != nil {
		return respondValidation(c, "file", "no se pudo abrir el archivo")
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return respondValidation(c, "file", "no se pudo leer el archivo")
	}
	out, err := h.items.ImportFile(c.Context(), fileHeader.Filename, raw, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Template godoc
// @Summary      Descargar plantilla CSV de carga
// @Tags         inventory
// @Security     Bearer
// @Produce      text/csv
// @Success      200  {string}  string
// @Router       /api/inventory/templates/csv [get]
func (h *InventoryHandler) Template(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="plantilla_inventario.csv"`)
	return c.Send(inventory.CSVTemplate())
}

// TemplateExcel godoc
// @Summary      Descargar plantilla Excel de carga
// @Tags         inventory
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {string}  string
// @Router       /api/inventory/templates/excel [get]
func (h *InventoryHandler) TemplateExcel(c *fiber.Ctx) error {
	raw, err := inventory.XLSXTemplate()
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="plantilla_inventario.xlsx"`)
	return c.Send(raw)
}

// SpecsMotors godoc
// @Summary      Opciones de especificación de motores para la UI
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MotorSpecsResponse
// @Router       /api/inventory/specs/motors [get]
func (h *InventoryHandler) SpecsMotors(c *fiber.Ctx) error {
	return c.JSON(dto.DefaultMotorSpecs())
}

// SpecsSolar godoc
// @Summary      Opciones de especificación de paneles solares para la UI
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SolarPanelSpecsResponse
// @Router       /api/inventory/specs/solar [get]
func (h *InventoryHandler) SpecsSolar(c *fiber.Ctx) error {
	return c.JSON(dto.DefaultSolarPanelSpecs())
}

// Stats godoc
// @Summary      Snapshot de estadísticas del inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StatsResponse
// @Router       /api/inventory/stats [get]
func (h *InventoryHandler) Stats(c *fiber.Ctx) error {
	out, err := h.stats.Compute(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListTransactions godoc
// @Summary      Historial de transacciones de un ítem
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   int  true   "ID del ítem"
// @Param        limit   query  int  false  "Máximo de filas"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}   dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{id}/transactions [get]
func (h *InventoryHandler) ListTransactions(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return respondValidation(c, "id", "debe ser un entero positivo")
	}
	out, err := h.items.ListTransactions(c.Context(), int64(id), c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RecordTransaction godoc
// @Summary      Registrar transacción sobre un ítem
// @Description  Única vía de mutación de stock: in/out con magnitud, adjustment con
//               cantidad destino. previous_quantity opcional como guardia optimista.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                           true  "ID del ítem"
// @Param        body  body  dto.RecordTransactionRequest  true  "transaction_type, quantity, ..."
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/{id}/transactions [post]
func (h *InventoryHandler) RecordTransaction(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return respondValidation(c, "id", "debe ser un entero positivo")
	}
	var in dto.RecordTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return respondValidation(c, errs[0].Field, errs[0].Error())
	}
	out, err := h.items.Append(c.Context(), inventory.AppendInput{
		InventoryID:      int64(id),
		TransactionType:  in.TransactionType,
		Quantity:         in.Quantity,
		NewQuantity:      in.NewQuantity,
		ExpectedPrevious: in.PreviousQuantity,
		ReferenceType:    in.ReferenceType,
		ReferenceID:      in.ReferenceID,
		Notes:            in.Notes,
		UnitCost:         in.UnitCost,
		Actor:            GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
