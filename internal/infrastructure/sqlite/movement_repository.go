package sqlite

import (
	"context"
	"fmt"
	"iter"

	"github.com/uptrace/bun"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo libro de movimientos sobre SQLite.
type MovementRepo struct {
	db bun.IDB
}

// NewMovementRepository construye el adaptador de movimientos.
func NewMovementRepository(db bun.IDB) *MovementRepo {
	return &MovementRepo{db: db}
}

// Create anexa un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO movements (id, product_id, kind, amount, balance_after, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.ProductID, m.Kind, m.Amount, m.BalanceAfter, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// Stream recorre el historial completo, más reciente primero. rowid desempata marcas de tiempo iguales.
func (r *MovementRepo) Stream(ctx context.Context) iter.Seq2[*entity.MovementView, error] {
	return func(yield func(*entity.MovementView, error) bool) {
		rows, err := r.db.QueryContext(ctx, `
			SELECT m.id, m.product_id, m.kind, m.amount, m.balance_after, m.created_by, m.created_at, p.code, p.name
			FROM movements m JOIN products p ON p.id = m.product_id
			ORDER BY m.created_at DESC, m.rowid DESC`)
		if err != nil {
			yield(nil, fmt.Errorf("list movements: %w", err))
			return
		}
		defer rows.Close()
		for rows.Next() {
			var v entity.MovementView
			if err := rows.Scan(&v.ID, &v.ProductID, &v.Kind, &v.Amount, &v.BalanceAfter, &v.CreatedBy,
				&v.CreatedAt, &v.ProductCode, &v.ProductName); err != nil {
				yield(nil, fmt.Errorf("scan movement: %w", err))
				return
			}
			if !yield(&v, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, fmt.Errorf("iterate movements: %w", err))
		}
	}
}

// ListByProduct historial de un producto, más reciente primero.
func (r *MovementRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.Movement, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, kind, amount, balance_after, created_by, created_at
		FROM movements WHERE product_id = ?
		ORDER BY created_at DESC, rowid DESC`, productID)
	if err != nil {
		return nil, fmt.Errorf("list product movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Kind, &m.Amount, &m.BalanceAfter, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// DeleteByProduct borra el historial de un producto (baja en cascada).
func (r *MovementRepo) DeleteByProduct(ctx context.Context, productID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM movements WHERE product_id = ?`, productID); err != nil {
		return fmt.Errorf("delete product movements: %w", err)
	}
	return nil
}
