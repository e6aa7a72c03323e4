package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo una fila por usuario en user_sessions.
type SessionRepo struct {
	db bun.IDB
}

func NewSessionRepository(db bun.IDB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Replace inserta o sobrescribe la sesión del usuario.
func (r *SessionRepo) Replace(ctx context.Context, s *entity.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_sessions (user_id, token, issued_at) VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET token = excluded.token, issued_at = excluded.issued_at`,
		s.UserID, s.Token, s.IssuedAt,
	)
	if err != nil {
		return fmt.Errorf("replace session: %w", err)
	}
	return nil
}

func (r *SessionRepo) Get(ctx context.Context, userID string) (*entity.Session, error) {
	var s entity.Session
	err := r.db.QueryRowContext(ctx, `SELECT user_id, token, issued_at FROM user_sessions WHERE user_id = ?`, userID).
		Scan(&s.UserID, &s.Token, &s.IssuedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &s, nil
}

func (r *SessionRepo) DeleteIfToken(ctx context.Context, userID, token string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE user_id = ? AND token = ?`, userID, token)
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete session rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *SessionRepo) Delete(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
