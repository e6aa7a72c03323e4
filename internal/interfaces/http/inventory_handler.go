package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// InventoryHandler maneja las peticiones HTTP del libro de movimientos (protegido).
type InventoryHandler struct {
	uc *inventory.LedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.LedgerUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RecordMovement godoc
// @Summary      Registrar movimiento de stock
// @Description  IN suma y OUT resta. Un OUT mayor al stock disponible se rechaza sin modificar nada.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "product_id, kind (IN|OUT), amount"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateStruct(&in); err != nil {
		return validationFailed(c, err)
	}
	amount, err := inventory.ParseAmount(in.Amount)
	if err != nil {
		return respondError(c, err)
	}
	mov, err := h.uc.RecordMovement(c.UserContext(), inventory.MovementInput{
		ProductID: in.ProductID,
		Kind:      in.Kind,
		Amount:    amount,
		UserID:    GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov, "", ""))
}

// List godoc
// @Summary      Historial de movimientos
// @Description  Todos los movimientos con código y nombre del producto, más reciente primero.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DataResponse[dto.MovementResponse]
// @Router       /api/movements [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	out := make([]dto.MovementResponse, 0)
	for v, err := range h.uc.Movements(c.UserContext()) {
		if err != nil {
			return respondError(c, err)
		}
		out = append(out, toMovementResponse(&v.Movement, v.ProductCode, v.ProductName))
	}
	return c.JSON(dto.DataResponse[dto.MovementResponse]{Data: out})
}

// ProductHistory godoc
// @Summary      Movimientos de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.DataResponse[dto.MovementResponse]
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/movements [get]
func (h *InventoryHandler) ProductHistory(c *fiber.Ctx) error {
	list, err := h.uc.ProductHistory(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMovementResponse(m, "", ""))
	}
	return c.JSON(dto.DataResponse[dto.MovementResponse]{Data: out})
}

func toMovementResponse(m *entity.Movement, code, name string) dto.MovementResponse {
	return dto.MovementResponse{
		ID:           m.ID,
		ProductID:    m.ProductID,
		ProductCode:  code,
		ProductName:  name,
		Kind:         m.Kind,
		Amount:       m.Amount,
		BalanceAfter: m.BalanceAfter,
		CreatedBy:    m.CreatedBy,
		CreatedAt:    m.CreatedAt,
	}
}
