package backend_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/infrastructure/backend"
	"github.com/jhoicas/almacen-api/pkg/config"
)

func TestOpen_SQLiteMigraYSiembraAlmacenes(t *testing.T) {
	ctx := context.Background()
	b, err := backend.Open(ctx, config.DBConfig{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "b.db")}, nil)
	require.NoError(t, err)
	defer b.Close()

	list, err := b.Read.Warehouses.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 4)
	assert.Equal(t, config.DriverSQLite, b.Driver)
}

func TestOpen_DriverDesconocido(t *testing.T) {
	_, err := backend.Open(context.Background(), config.DBConfig{Driver: "mysql"}, nil)
	assert.Error(t, err)
}
