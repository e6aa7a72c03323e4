package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

type SessionRepo struct {
	q Querier
}

func NewSessionRepository(q Querier) *SessionRepo {
	return &SessionRepo{q: q}
}

// Replace upsert por user_id.
func (r *SessionRepo) Replace(ctx context.Context, s *entity.Session) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO user_sessions (user_id, token, issued_at) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET token = EXCLUDED.token, issued_at = EXCLUDED.issued_at`,
		s.UserID, s.Token, s.IssuedAt)
	if err != nil {
		return fmt.Errorf("replace session: %w", err)
	}
	return nil
}

func (r *SessionRepo) Get(ctx context.Context, userID string) (*entity.Session, error) {
	var s entity.Session
	err := r.q.QueryRow(ctx, `SELECT user_id, token, issued_at FROM user_sessions WHERE user_id = $1`, userID).
		Scan(&s.UserID, &s.Token, &s.IssuedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &s, nil
}

func (r *SessionRepo) DeleteIfToken(ctx context.Context, userID, token string) (bool, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM user_sessions WHERE user_id = $1 AND token = $2`, userID, token)
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *SessionRepo) Delete(ctx context.Context, userID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM user_sessions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
