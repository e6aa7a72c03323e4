package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `p.id, p.code, p.name, p.model, p.type, p.size, p.unit_value, p.warehouse_id, p.status, p.quantity, p.created_at, p.updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, code, name, model, type, size, unit_value, warehouse_id, status, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Code, p.Name, p.Model, p.Type, p.Size, p.UnitValue, p.WarehouseID, p.Status,
		p.Quantity, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateProductError{Code: p.Code, WarehouseID: p.WarehouseID, Status: p.Status}
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// InsertIfAbsent omite la fila si la terna ya existe.
func (r *ProductRepo) InsertIfAbsent(ctx context.Context, p *entity.Product) (bool, error) {
	query := `
		INSERT INTO products (id, code, name, model, type, size, unit_value, warehouse_id, status, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (code, warehouse_id, status) DO NOTHING`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.Code, p.Name, p.Model, p.Type, p.Size, p.UnitValue, p.WarehouseID, p.Status,
		p.Quantity, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert product if absent: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var p entity.Product
	err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = $1`, id), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

func (r *ProductRepo) GetView(ctx context.Context, id string) (*entity.ProductView, error) {
	query := `
		SELECT ` + productColumns + `, w.name
		FROM products p JOIN warehouses w ON w.id = p.warehouse_id
		WHERE p.id = $1`
	var v entity.ProductView
	if err := scanProduct(r.q.QueryRow(ctx, query, id), &v.Product, &v.WarehouseName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product view: %w", err)
	}
	return &v, nil
}

// Update actualiza los campos editables. No modifica quantity (se maneja vía movimientos).
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET code = $2, name = $3, model = $4, type = $5, size = $6, unit_value = $7, warehouse_id = $8, status = $9, updated_at = $10
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.Code, p.Name, p.Model, p.Type, p.Size, p.UnitValue, p.WarehouseID, p.Status, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateProductError{Code: p.Code, WarehouseID: p.WarehouseID, Status: p.Status}
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// ApplyDelta actualización condicional; la fila queda bloqueada hasta el fin de la tx.
func (r *ProductRepo) ApplyDelta(ctx context.Context, id string, delta int64) (int64, bool, error) {
	var qty int64
	err := r.q.QueryRow(ctx, `
		UPDATE products SET quantity = quantity + $2, updated_at = now()
		WHERE id = $1 AND quantity + $2 >= 0
		RETURNING quantity`, id, delta).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("apply stock delta: %w", err)
	}
	return qty, true, nil
}

func (r *ProductRepo) List(ctx context.Context) ([]*entity.ProductView, error) {
	query := `
		SELECT ` + productColumns + `, w.name
		FROM products p JOIN warehouses w ON w.id = p.warehouse_id
		ORDER BY p.code, p.warehouse_id, p.status`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductView
	for rows.Next() {
		var v entity.ProductView
		if err := scanProduct(rows, &v.Product, &v.WarehouseName); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}

// Delete elimina un producto por ID; los movimientos caen por ON DELETE CASCADE.
func (r *ProductRepo) Delete(ctx context.Context, id string) (bool, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

func scanProduct(row pgx.Row, p *entity.Product, extra ...any) error {
	dest := []any{&p.ID, &p.Code, &p.Name, &p.Model, &p.Type, &p.Size, &p.UnitValue, &p.WarehouseID,
		&p.Status, &p.Quantity, &p.CreatedAt, &p.UpdatedAt}
	return row.Scan(append(dest, extra...)...)
}
