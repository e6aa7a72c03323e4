// Package sqlitetest abre bases SQLite migradas en directorios temporales para pruebas.
package sqlitetest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jhoicas/almacen-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// Open crea un archivo nuevo bajo t.TempDir(), aplica migraciones y registra el cierre.
func Open(t testing.TB) *sqlite.DB {
	t.Helper()
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "almacen-test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqlite.Migrate(context.Background(), db, logger.Nop()); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

// OpenStore igual que Open pero devuelve el Store listo para los casos de uso.
func OpenStore(t testing.TB) *sqlite.Store {
	t.Helper()
	return sqlite.NewStore(Open(t))
}
