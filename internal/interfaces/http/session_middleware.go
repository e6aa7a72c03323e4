package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
)

// sessionVerifier es el contrato mínimo que necesita el middleware para verificar la sesión.
// Lo implementa *auth.AuthUseCase.
type sessionVerifier interface {
	VerifySession(ctx context.Context, userID, token string) bool
}

// SessionGate rechaza el request si la sesión del token ya no es la vigente del usuario
// (otro login la reemplazó o se cerró). Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 401 SESSION_REVOKED → la sesión fue reemplazada, cerrada o no existe.
func SessionGate(verifier sessionVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !verifier.VerifySession(c.UserContext(), GetUserID(c), GetSessionID(c)) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "SESSION_REVOKED",
				Message: "la sesión ya no es válida, inicie sesión nuevamente",
			})
		}
		return c.Next()
	}
}
