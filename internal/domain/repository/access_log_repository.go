package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// AccessLogRepository bitácora de accesos (solo anexado).
type AccessLogRepository interface {
	Append(ctx context.Context, entry *entity.AccessLogEntry) error
	Recent(ctx context.Context, limit int) ([]*entity.AccessLogEntry, error)
}
