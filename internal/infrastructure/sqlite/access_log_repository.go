package sqlite

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.AccessLogRepository = (*AccessLogRepo)(nil)

type AccessLogRepo struct {
	db bun.IDB
}

func NewAccessLogRepository(db bun.IDB) *AccessLogRepo {
	return &AccessLogRepo{db: db}
}

// Append anexa una entrada y rellena su ID.
func (r *AccessLogRepo) Append(ctx context.Context, e *entity.AccessLogEntry) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO access_log (user_name, role, created_at) VALUES (?, ?, ?) RETURNING id`,
		e.UserName, e.Role, e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("append access log: %w", err)
	}
	return nil
}

// Recent devuelve las últimas limit entradas, la más nueva primero.
func (r *AccessLogRepo) Recent(ctx context.Context, limit int) ([]*entity.AccessLogEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_name, role, created_at FROM access_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent access log: %w", err)
	}
	defer rows.Close()
	var list []*entity.AccessLogEntry
	for rows.Next() {
		var e entity.AccessLogEntry
		if err := rows.Scan(&e.ID, &e.UserName, &e.Role, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan access log: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
