package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
)

// AuthHandler maneja login, verificación de sesión y logout.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login godoc
// @Summary      Iniciar sesión
// @Description  Reemplaza cualquier sesión previa del usuario y registra el acceso.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateStruct(&in); err != nil {
		// cualquier login fallido responde igual, sin revelar qué campo falló
		return respondError(c, domain.ErrInvalidCredentials)
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// VerifySession godoc
// @Summary      Verificar sesión vigente
// @Description  Devuelve valid=false si otro login reemplazó la sesión. Nunca responde error por sesión inválida.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.VerifySessionRequest  true  "user_id, session_token"
// @Success      200   {object}  dto.VerifySessionResponse
// @Router       /api/auth/verify-session [post]
func (h *AuthHandler) VerifySession(c *fiber.Ctx) error {
	var in dto.VerifySessionRequest
	if err := c.BodyParser(&in); err != nil {
		// cuerpo ilegible: el cliente debe cerrar sesión igual que con un token reemplazado
		return c.JSON(dto.VerifySessionResponse{Valid: false})
	}
	return c.JSON(dto.VerifySessionResponse{Valid: h.uc.VerifySession(c.UserContext(), in.UserID, in.SessionToken)})
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Produce      json
// @Security     Bearer
// @Success      200  {object}  dto.MessageResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.uc.Logout(c.UserContext(), GetUserID(c), GetSessionID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Sesión cerrada"})
}
