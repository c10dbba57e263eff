package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/solar-inventario/internal/application/dispatch"
	"github.com/tu-usuario/solar-inventario/internal/application/dto"
	"github.com/tu-usuario/solar-inventario/pkg/validator"
)

// DispatchHandler maneja las peticiones HTTP de despachos a beneficiarios (protegido).
type DispatchHandler struct {
	uc *dispatch.UseCase
}

// NewDispatchHandler construye el handler.
func NewDispatchHandler(uc *dispatch.UseCase) *DispatchHandler {
	return &DispatchHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar despacho a beneficiario
// @Description  Las líneas descuentan stock como una sola operación atómica; si una
//               falla por stock insuficiente, ninguna se aplica.
// @Tags         dispatches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDispatchRequest  true  "farmer_beneficiary_id, items"
// @Success      201   {object}  dto.DispatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/dispatches [post]
func (h *DispatchHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDispatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return respondValidation(c, errs[0].Field, errs[0].Error())
	}
	out, err := h.uc.Create(c.Context(), in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener despacho con sus líneas
// @Tags         dispatches
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID del despacho"
// @Success      200  {object}  dto.DispatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/dispatches/{id} [get]
func (h *DispatchHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return respondValidation(c, "id", "debe ser un entero positivo")
	}
	out, err := h.uc.Get(c.Context(), int64(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListByFarmer godoc
// @Summary      Listar despachos de un beneficiario
// @Tags         dispatches
// @Security     Bearer
// @Produce      json
// @Param        farmer_beneficiary_id  query  string  true   "Código del beneficiario"
// @Param        limit                  query  int     false  "Máximo de filas"
// @Param        offset                 query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.DispatchResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/dispatches [get]
func (h *DispatchHandler) ListByFarmer(c *fiber.Ctx) error {
	out, err := h.uc.ListByFarmer(c.Context(),
		c.Query("farmer_beneficiary_id"), c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeliveryNote godoc
// @Summary      Remisión (nota de entrega) del despacho en PDF
// @Tags         dispatches
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  int  true  "ID del despacho"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/dispatches/{id}/pdf [get]
func (h *DispatchHandler) DeliveryNote(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return respondValidation(c, "id", "debe ser un entero positivo")
	}
	pdf, err := h.uc.DeliveryNotePDF(c.Context(), int64(id))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="remision_%d.pdf"`, id))
	return c.Send(pdf)
}
