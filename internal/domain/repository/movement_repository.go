package repository

import (
	"context"
	"iter"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// MovementRepository define el puerto del libro de movimientos (solo anexado).
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	// Stream recorre todos los movimientos, del más reciente al más antiguo.
	// Cada recorrido ejecuta una consulta nueva.
	Stream(ctx context.Context) iter.Seq2[*entity.MovementView, error]
	ListByProduct(ctx context.Context, productID string) ([]*entity.Movement, error)
	// DeleteByProduct solo se usa en la baja en cascada de un producto.
	DeleteByProduct(ctx context.Context, productID string) error
}
