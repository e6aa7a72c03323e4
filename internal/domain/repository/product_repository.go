package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	// Create devuelve *domain.DuplicateProductError si la terna (código, almacén, estado) ya existe.
	Create(ctx context.Context, product *entity.Product) error
	// InsertIfAbsent inserta el producto salvo conflicto de terna; inserted=false si se omitió.
	InsertIfAbsent(ctx context.Context, product *entity.Product) (inserted bool, err error)
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetView(ctx context.Context, id string) (*entity.ProductView, error)
	// Update reemplaza los campos editables; nunca toca Quantity.
	Update(ctx context.Context, product *entity.Product) error
	// ApplyDelta suma delta a la cantidad solo si el resultado es >= 0, en una única sentencia.
	// applied=false significa que la condición no se cumplió (o el producto no existe).
	ApplyDelta(ctx context.Context, id string, delta int64) (newQty int64, applied bool, err error)
	List(ctx context.Context) ([]*entity.ProductView, error)
	Delete(ctx context.Context, id string) (deleted bool, err error)
}
