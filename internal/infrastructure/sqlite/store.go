package sqlite

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

// Store expone los repositorios SQLite atados al escritor, al pool de lectura o a una tx.
type Store struct {
	db *DB
}

// NewStore construye el Store sobre un DB ya abierto.
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// Repos devuelve repositorios sobre el escritor, fuera de transacción.
// No usar dentro de Run: el escritor tiene una sola conexión.
func (s *Store) Repos() repository.Repos {
	return newRepos(s.db.W)
}

// ReadRepos devuelve repositorios sobre el pool de solo lectura.
func (s *Store) ReadRepos() repository.Repos {
	return newRepos(s.db.R)
}

// Run ejecuta fn en una transacción IMMEDIATE del escritor. Commit si fn devuelve nil.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, tx repository.Repos) error) error {
	return s.db.W.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, newRepos(tx))
	})
}

func newRepos(db bun.IDB) repository.Repos {
	return repository.Repos{
		Products:   NewProductRepository(db),
		Movements:  NewMovementRepository(db),
		Warehouses: NewWarehouseRepository(db),
		Users:      NewUserRepository(db),
		Sessions:   NewSessionRepository(db),
		AccessLog:  NewAccessLogRepository(db),
	}
}
