package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `p.id, p.code, p.name, p.model, p.type, p.size, p.unit_value, p.warehouse_id, p.status, p.quantity, p.created_at, p.updated_at`

// ProductRepo implementación de ProductRepository sobre SQLite (db o tx).
type ProductRepo struct {
	db bun.IDB
}

// NewProductRepository construye el adaptador de productos.
func NewProductRepository(db bun.IDB) *ProductRepo {
	return &ProductRepo{db: db}
}

// Create inserta el producto; la terna repetida se traduce a *domain.DuplicateProductError.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (id, code, name, model, type, size, unit_value, warehouse_id, status, quantity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Code, p.Name, p.Model, p.Type, p.Size, p.UnitValue.String(), p.WarehouseID, p.Status,
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

// InsertIfAbsent usa ON CONFLICT DO NOTHING sobre la terna única.
func (r *ProductRepo) InsertIfAbsent(ctx context.Context, p *entity.Product) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO products (id, code, name, model, type, size, unit_value, warehouse_id, status, quantity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (code, warehouse_id, status) DO NOTHING`,
		p.ID, p.Code, p.Name, p.Model, p.Type, p.Size, p.UnitValue.String(), p.WarehouseID, p.Status,
		p.Quantity, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert product if absent: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert product rows affected: %w", err)
	}
	return n == 1, nil
}

// GetByID devuelve nil, nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = ?`, id)
	var p entity.Product
	if err := scanProduct(row, &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// GetView igual que GetByID pero con el nombre del almacén.
func (r *ProductRepo) GetView(ctx context.Context, id string) (*entity.ProductView, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`, w.name
		FROM products p JOIN warehouses w ON w.id = p.warehouse_id
		WHERE p.id = ?`, id)
	var v entity.ProductView
	if err := scanProduct(row, &v.Product, &v.WarehouseName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product view: %w", err)
	}
	return &v, nil
}

// Update reemplaza los campos editables. La cantidad no se toca.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products SET code = ?, name = ?, model = ?, type = ?, size = ?, unit_value = ?, warehouse_id = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		p.Code, p.Name, p.Model, p.Type, p.Size, p.UnitValue.String(), p.WarehouseID, p.Status, p.UpdatedAt, p.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateProductError{Code: p.Code, WarehouseID: p.WarehouseID, Status: p.Status}
		}
		return fmt.Errorf("update product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// ApplyDelta aplica delta en una sola sentencia condicionada a que el saldo no quede negativo.
func (r *ProductRepo) ApplyDelta(ctx context.Context, id string, delta int64) (int64, bool, error) {
	var qty int64
	err := r.db.QueryRowContext(ctx, `
		UPDATE products SET quantity = quantity + ?, updated_at = ?
		WHERE id = ? AND quantity + ? >= 0
		RETURNING quantity`,
		delta, time.Now().UTC(), id, delta,
	).Scan(&qty)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("apply stock delta: %w", err)
	}
	return qty, true, nil
}

// List devuelve todos los productos con su almacén, ordenados por código.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.ProductView, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+productColumns+`, w.name
		FROM products p JOIN warehouses w ON w.id = p.warehouse_id
		ORDER BY p.code, p.warehouse_id, p.status`)
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

// Delete elimina el producto; deleted=false si no existía.
func (r *ProductRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete product rows affected: %w", err)
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(s rowScanner, p *entity.Product, extra ...any) error {
	dest := []any{&p.ID, &p.Code, &p.Name, &p.Model, &p.Type, &p.Size, &p.UnitValue, &p.WarehouseID,
		&p.Status, &p.Quantity, &p.CreatedAt, &p.UpdatedAt}
	return s.Scan(append(dest, extra...)...)
}
