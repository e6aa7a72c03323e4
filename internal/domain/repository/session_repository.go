package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// SessionRepository guarda una única sesión por usuario (clave: user id).
type SessionRepository interface {
	// Replace sobrescribe incondicionalmente la sesión del usuario.
	Replace(ctx context.Context, session *entity.Session) error
	// Get devuelve nil, nil si el usuario no tiene sesión.
	Get(ctx context.Context, userID string) (*entity.Session, error)
	// DeleteIfToken borra la sesión solo si token sigue siendo el vigente.
	DeleteIfToken(ctx context.Context, userID, token string) (deleted bool, err error)
	Delete(ctx context.Context, userID string) error
}
