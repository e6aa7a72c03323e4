package postgres_test

import (
	"context"
	"math"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/infrastructure/postgres"
	"github.com/jhoicas/almacen-api/pkg/config"
)

// openTestPool conecta con ALMACEN_TEST_DB_DSN y aplica las migraciones. Sin DSN el test se omite.
func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("ALMACEN_TEST_DB_DSN")
	if dsn == "" {
		t.Skip("ALMACEN_TEST_DB_DSN is not set")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{Driver: config.DriverPostgres, DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.Migrate(ctx, pool))
	return pool
}

func newProduct(t *testing.T, pool *pgxpool.Pool) *entity.Product {
	t.Helper()
	now := time.Now().UTC()
	p := &entity.Product{
		ID: uuid.NewString(), Code: "PG-" + uuid.NewString()[:8], Name: "Carpa", Type: "General",
		UnitValue: decimal.RequireFromString("1500.50"), WarehouseID: entity.WarehouseAdministration,
		Status: entity.ProductStatusAvailable, CreatedAt: now, UpdatedAt: now,
	}
	repos := postgres.NewRepos(pool)
	require.NoError(t, repos.Products.Create(context.Background(), p))
	t.Cleanup(func() { _, _ = repos.Products.Delete(context.Background(), p.ID) })
	return p
}

func TestMigrate_Idempotente(t *testing.T) {
	ctx := context.Background()
	pool := openTestPool(t)
	require.NoError(t, postgres.Migrate(ctx, pool))

	list, err := postgres.NewRepos(pool).Warehouses.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 4)
}

func TestLedger_SobrePostgres(t *testing.T) {
	ctx := context.Background()
	pool := openTestPool(t)
	p := newProduct(t, pool)
	read := postgres.NewRepos(pool)
	uc := inventory.NewLedgerUseCase(postgres.NewTxRunner(pool), read, nil, nil)

	mov, err := uc.RecordMovement(ctx, inventory.MovementInput{ProductID: p.ID, Kind: "IN", Amount: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(10), mov.BalanceAfter)

	_, err = uc.RecordMovement(ctx, inventory.MovementInput{ProductID: p.ID, Kind: "OUT", Amount: 15})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	_, err = uc.RecordMovement(ctx, inventory.MovementInput{ProductID: p.ID, Kind: "IN", Amount: math.MaxInt64})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = uc.RecordMovement(ctx, inventory.MovementInput{ProductID: p.ID, Kind: "OUT", Amount: 4})
	require.NoError(t, err)

	got, err := read.Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), got.Quantity)
	assert.True(t, got.UnitValue.Equal(p.UnitValue))

	hist, err := uc.ProductHistory(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, entity.MovementKindOUT, hist[0].Kind)
	assert.Equal(t, int64(6), hist[0].BalanceAfter)

	var seen int
	for m, err := range uc.Movements(ctx) {
		require.NoError(t, err)
		if m.ProductID == p.ID {
			assert.Equal(t, p.Code, m.ProductCode)
			seen++
		}
	}
	assert.Equal(t, 2, seen)
}

func TestProductos_TernaDuplicada(t *testing.T) {
	ctx := context.Background()
	pool := openTestPool(t)
	p := newProduct(t, pool)
	repos := postgres.NewRepos(pool)

	dup := *p
	dup.ID = uuid.NewString()
	err := repos.Products.Create(ctx, &dup)
	assert.ErrorIs(t, err, domain.ErrDuplicateProduct)

	inserted, err := repos.Products.InsertIfAbsent(ctx, &dup)
	require.NoError(t, err)
	assert.False(t, inserted)
}

func TestSesiones_ReemplazoYBorradoCondicional(t *testing.T) {
	ctx := context.Background()
	pool := openTestPool(t)
	repos := postgres.NewRepos(pool)

	now := time.Now().UTC()
	u := &entity.User{
		ID: uuid.NewString(), Name: "Marta", Email: uuid.NewString()[:8] + "@loma.com", PasswordHash: "x",
		Role: entity.RoleManager, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repos.Users.Create(ctx, u))
	t.Cleanup(func() { _, _ = repos.Users.Delete(context.Background(), u.ID) })

	require.NoError(t, repos.Sessions.Replace(ctx, &entity.Session{UserID: u.ID, Token: "primera", IssuedAt: now}))
	require.NoError(t, repos.Sessions.Replace(ctx, &entity.Session{UserID: u.ID, Token: "segunda", IssuedAt: now}))

	s, err := repos.Sessions.Get(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "segunda", s.Token)

	deleted, err := repos.Sessions.DeleteIfToken(ctx, u.ID, "primera")
	require.NoError(t, err)
	assert.False(t, deleted, "un token viejo no cierra la sesión nueva")
	deleted, err = repos.Sessions.DeleteIfToken(ctx, u.ID, "segunda")
	require.NoError(t, err)
	assert.True(t, deleted)
}
