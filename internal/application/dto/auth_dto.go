package dto

// LoginRequest body de POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token de acceso (JWT) más el token de sesión que el cliente debe verificar periódicamente.
type LoginResponse struct {
	Token        string       `json:"token"`
	SessionToken string       `json:"session_token"`
	PollSeconds  int          `json:"poll_seconds"`
	User         UserResponse `json:"user"`
}

// VerifySessionRequest body de POST /api/auth/verify-session.
type VerifySessionRequest struct {
	UserID       string `json:"user_id"`
	SessionToken string `json:"session_token"`
}

// VerifySessionResponse resultado de la verificación.
type VerifySessionResponse struct {
	Valid bool `json:"valid"`
}
