package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.AccessLogRepository = (*AccessLogRepo)(nil)

type AccessLogRepo struct {
	q Querier
}

func NewAccessLogRepository(q Querier) *AccessLogRepo {
	return &AccessLogRepo{q: q}
}

func (r *AccessLogRepo) Append(ctx context.Context, e *entity.AccessLogEntry) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO access_log (user_name, role, created_at) VALUES ($1, $2, $3) RETURNING id`,
		e.UserName, e.Role, e.CreatedAt).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("append access log: %w", err)
	}
	return nil
}

func (r *AccessLogRepo) Recent(ctx context.Context, limit int) ([]*entity.AccessLogEntry, error) {
	rows, err := r.q.Query(ctx, `SELECT id, user_name, role, created_at FROM access_log ORDER BY id DESC LIMIT $1`, limit)
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
