package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// WarehouseRepository define el puerto de lectura de almacenes (catálogo fijo sembrado por migración).
type WarehouseRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Warehouse, error)
	List(ctx context.Context) ([]*entity.Warehouse, error)
}
