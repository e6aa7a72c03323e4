package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/internal/infrastructure/backend"
	"github.com/jhoicas/almacen-api/pkg/config"
)

// useTempDB apunta la configuración del CLI a una base SQLite temporal.
func useTempDB(t *testing.T) config.DBConfig {
	t.Helper()
	path := filepath.Join(t.TempDir(), "invctl.db")
	t.Setenv("DB_DRIVER", config.DriverSQLite)
	t.Setenv("SQLITE_PATH", path)
	return config.DBConfig{Driver: config.DriverSQLite, SQLitePath: path}
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	return out.String()
}

func TestMovements_LimitaYMuestraRecientePrimero(t *testing.T) {
	ctx := context.Background()
	dbCfg := useTempDB(t)

	b, err := backend.Open(ctx, dbCfg, nil)
	require.NoError(t, err)
	now := time.Now().UTC()
	p := &entity.Product{
		ID: uuid.NewString(), Code: "LIN-01", Name: "Linterna", Type: "General",
		UnitValue: decimal.Zero, WarehouseID: entity.WarehouseAdministration,
		Status: entity.ProductStatusAvailable, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, b.TxRunner.Run(ctx, func(ctx context.Context, tx repository.Repos) error {
		return tx.Products.Create(ctx, p)
	}))
	ledger := inventory.NewLedgerUseCase(b.TxRunner, b.Read, nil, nil)
	for _, in := range []inventory.MovementInput{
		{ProductID: p.ID, Kind: "IN", Amount: 5},
		{ProductID: p.ID, Kind: "IN", Amount: 3},
		{ProductID: p.ID, Kind: "OUT", Amount: 2},
	} {
		_, err := ledger.RecordMovement(ctx, in)
		require.NoError(t, err)
	}
	require.NoError(t, b.Close())

	lines := strings.Split(strings.TrimSpace(run(t, "movements", "-n", "2")), "\n")
	require.Len(t, lines, 3, "encabezado más dos movimientos")
	assert.Contains(t, lines[0], "SALDO")

	first := strings.Fields(lines[1])
	assert.Equal(t, []string{"LIN-01", "Linterna", "OUT", "2", "6"}, first[len(first)-5:])
	second := strings.Fields(lines[2])
	assert.Equal(t, []string{"IN", "3", "8"}, second[len(second)-3:])

	all := strings.Split(strings.TrimSpace(run(t, "movements", "-n", "0")), "\n")
	assert.Len(t, all, 4)
}

func TestImportCSV_InsertaYOmiteDuplicados(t *testing.T) {
	useTempDB(t)
	file := filepath.Join(t.TempDir(), "planilla.csv")
	require.NoError(t, os.WriteFile(file, []byte("Código;Nombre;Almacén;Stock\nC-1;Linterna;Seguridad;4\nC-2;Mesa;Mobiliario;1\n"), 0o644))

	out := run(t, "import-csv", file)
	assert.Contains(t, out, "insertados=2 omitidos=0")

	out = run(t, "import-csv", file)
	assert.Contains(t, out, "insertados=0 omitidos=2")
}

func TestImportCSV_ArchivoInexistente(t *testing.T) {
	useTempDB(t)
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"import-csv", filepath.Join(t.TempDir(), "no-existe.csv")})
	err := rootCmd.ExecuteContext(context.Background())
	assert.ErrorContains(t, err, "abrir CSV")
}
