// Package backend abre el almacén relacional configurado (SQLite o PostgreSQL),
// aplica las migraciones y expone los repositorios para los casos de uso.
package backend

import (
	"context"
	"fmt"

	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/internal/infrastructure/postgres"
	"github.com/jhoicas/almacen-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/almacen-api/pkg/config"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// Backend agrupa el runner transaccional, los repos de lectura y el cierre del almacén.
type Backend struct {
	TxRunner repository.TxRunner
	Read     repository.Repos
	Driver   string
	close    func() error
}

// Close libera las conexiones.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Open conecta con el driver de cfg y aplica las migraciones pendientes.
func Open(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*Backend, error) {
	if log == nil {
		log = logger.Nop()
	}
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.OpenDB(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := sqlite.Migrate(ctx, db, log); err != nil {
			_ = db.Close()
			return nil, err
		}
		store := sqlite.NewStore(db)
		log.Info().Str("driver", cfg.Driver).Str("path", cfg.SQLitePath).Msg("almacén listo")
		return &Backend{TxRunner: store, Read: store.ReadRepos(), Driver: cfg.Driver, close: db.Close}, nil

	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Str("driver", cfg.Driver).Str("host", cfg.Host).Msg("almacén listo")
		return &Backend{
			TxRunner: postgres.NewTxRunner(pool),
			Read:     postgres.NewRepos(pool),
			Driver:   cfg.Driver,
			close:    func() error { pool.Close(); return nil },
		}, nil
	}
	return nil, fmt.Errorf("backend: driver desconocido %q", cfg.Driver)
}
