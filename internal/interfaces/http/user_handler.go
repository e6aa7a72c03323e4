package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
)

// UserHandler administración de usuarios y bitácora de accesos (solo Admin).
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// List godoc
// @Summary      Listar usuarios
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DataResponse[dto.UserResponse]
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.DataResponse[dto.UserResponse]{Data: list})
}

// Create godoc
// @Summary      Crear usuario
// @Description  role: Admin, Manager o el nombre de un almacén (un encargado por almacén).
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "name, email, password, role"
// @Success      201   {object}  dto.CreatedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateStruct(&in); err != nil {
		return validationFailed(c, err)
	}
	id, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreatedResponse{Message: "Usuario creado", ID: id})
}

// Delete godoc
// @Summary      Eliminar usuario
// @Description  Requiere la clave maestra en admin_code. El administrador principal no se puede borrar.
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del usuario"
// @Param        body  body  dto.DeleteUserRequest  true  "admin_code"
// @Success      200   {object}  dto.MessageResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	var in dto.DeleteUserRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	if err := h.uc.Delete(c.UserContext(), c.Params("id"), in.AdminCode); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Usuario eliminado"})
}

// AccessLog godoc
// @Summary      Últimos accesos
// @Description  Las 10 entradas más recientes de la bitácora de login.
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DataResponse[dto.AccessLogResponse]
// @Router       /api/access-log [get]
func (h *UserHandler) AccessLog(c *fiber.Ctx) error {
	list, err := h.uc.AccessLog(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.DataResponse[dto.AccessLogResponse]{Data: list})
}
