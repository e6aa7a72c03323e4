package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
)

// errorStatus traduce un error de dominio a status HTTP y código de respuesta.
// El orden importa: ErrProductNotFound y ErrUserNotFound envuelven ErrNotFound.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return fiber.StatusBadRequest, "INVALID_AMOUNT"
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, "INVALID_CREDENTIALS"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrWrongMasterCode):
		return fiber.StatusForbidden, "WRONG_MASTER_CODE"
	case errors.Is(err, domain.ErrCannotDeletePrimaryAdmin):
		return fiber.StatusForbidden, "PRIMARY_ADMIN"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrProductNotFound):
		return fiber.StatusNotFound, "PRODUCT_NOT_FOUND"
	case errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, "USER_NOT_FOUND"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrDuplicateProduct):
		return fiber.StatusConflict, "DUPLICATE_PRODUCT"
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, "EMAIL_EXISTS"
	case errors.Is(err, domain.ErrRoleTaken):
		return fiber.StatusConflict, "ROLE_TAKEN"
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, "INSUFFICIENT_STOCK"
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// respondError escribe el error como dto.ErrorResponse. Los 500 no exponen el detalle interno;
// el middleware de logging los registra con c.Locals(localErr).
func respondError(c *fiber.Ctx, err error) error {
	status, code := errorStatus(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		c.Locals(localErr, err)
		msg = "error interno"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func validationFailed(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
}
