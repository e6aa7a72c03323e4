package postgres

import (
	"context"
	"fmt"
	"iter"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo libro de movimientos sobre PostgreSQL.
type MovementRepo struct {
	q Querier
}

func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movements (id, product_id, kind, amount, balance_after, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.q.Exec(ctx, query, m.ID, m.ProductID, m.Kind, m.Amount, m.BalanceAfter, m.CreatedBy, m.CreatedAt); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// Stream historial completo, más reciente primero; seq desempata.
func (r *MovementRepo) Stream(ctx context.Context) iter.Seq2[*entity.MovementView, error] {
	return func(yield func(*entity.MovementView, error) bool) {
		rows, err := r.q.Query(ctx, `
			SELECT m.id, m.product_id, m.kind, m.amount, m.balance_after, m.created_by, m.created_at, p.code, p.name
			FROM movements m JOIN products p ON p.id = m.product_id
			ORDER BY m.created_at DESC, m.seq DESC`)
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

func (r *MovementRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, product_id, kind, amount, balance_after, created_by, created_at
		FROM movements WHERE product_id = $1
		ORDER BY created_at DESC, seq DESC`, productID)
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

func (r *MovementRepo) DeleteByProduct(ctx context.Context, productID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM movements WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete product movements: %w", err)
	}
	return nil
}
