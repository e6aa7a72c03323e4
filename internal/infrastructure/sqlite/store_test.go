package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/almacen-api/internal/infrastructure/sqlite/sqlitetest"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

func newProduct(code string, warehouseID int64, status string) *entity.Product {
	now := time.Now().UTC()
	return &entity.Product{
		ID:          uuid.NewString(),
		Code:        code,
		Name:        "Silla " + code,
		Type:        "General",
		UnitValue:   decimal.RequireFromString("12.50"),
		WarehouseID: warehouseID,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestMigrate_SiembraAlmacenes(t *testing.T) {
	store := sqlitetest.OpenStore(t)

	list, err := store.ReadRepos().Warehouses.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, "Administración", list[0].Name)
	assert.Equal(t, "Eventos", list[3].Name)

	w, err := store.Repos().Warehouses.GetByID(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, w)
}

func TestMigrate_Idempotente(t *testing.T) {
	db := sqlitetest.Open(t)
	require.NoError(t, sqlite.Migrate(context.Background(), db, logger.Nop()))

	v, err := sqlite.Version(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}

func TestProductRepo_TernaDuplicada(t *testing.T) {
	ctx := context.Background()
	repos := sqlitetest.OpenStore(t).Repos()

	require.NoError(t, repos.Products.Create(ctx, newProduct("A1", 1, entity.ProductStatusAvailable)))
	// mismo código en otro estado es otra fila
	require.NoError(t, repos.Products.Create(ctx, newProduct("A1", 1, entity.ProductStatusDamaged)))

	err := repos.Products.Create(ctx, newProduct("A1", 1, entity.ProductStatusAvailable))
	var dup *domain.DuplicateProductError
	require.ErrorAs(t, err, &dup)
	assert.True(t, errors.Is(err, domain.ErrDuplicateProduct))
	assert.Equal(t, "A1", dup.Code)

	inserted, err := repos.Products.InsertIfAbsent(ctx, newProduct("A1", 1, entity.ProductStatusDamaged))
	require.NoError(t, err)
	assert.False(t, inserted)
	inserted, err = repos.Products.InsertIfAbsent(ctx, newProduct("A1", 2, entity.ProductStatusDamaged))
	require.NoError(t, err)
	assert.True(t, inserted)
}

func TestProductRepo_ApplyDeltaNoBajaDeCero(t *testing.T) {
	ctx := context.Background()
	repos := sqlitetest.OpenStore(t).Repos()
	p := newProduct("B1", 2, entity.ProductStatusAvailable)
	require.NoError(t, repos.Products.Create(ctx, p))

	qty, ok, err := repos.Products.ApplyDelta(ctx, p.ID, 5)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(5), qty)

	_, ok, err = repos.Products.ApplyDelta(ctx, p.ID, -6)
	require.NoError(t, err)
	assert.False(t, ok)

	qty, ok, err = repos.Products.ApplyDelta(ctx, p.ID, -5)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(0), qty)

	_, ok, err = repos.Products.ApplyDelta(ctx, uuid.NewString(), 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProductRepo_ValorDecimalExacto(t *testing.T) {
	ctx := context.Background()
	store := sqlitetest.OpenStore(t)
	p := newProduct("C1", 3, entity.ProductStatusInUse)
	p.UnitValue = decimal.RequireFromString("0.10")
	require.NoError(t, store.Repos().Products.Create(ctx, p))

	v, err := store.ReadRepos().Products.GetView(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.True(t, v.UnitValue.Equal(decimal.RequireFromString("0.1")))
	assert.Equal(t, "Seguridad y Mantenimiento", v.WarehouseName)
}

func TestMovementRepo_StreamOrdenYReinicio(t *testing.T) {
	ctx := context.Background()
	store := sqlitetest.OpenStore(t)
	repos := store.Repos()
	p := newProduct("D1", 4, entity.ProductStatusAvailable)
	require.NoError(t, repos.Products.Create(ctx, p))

	same := time.Now().UTC()
	for i := int64(1); i <= 3; i++ {
		require.NoError(t, repos.Movements.Create(ctx, &entity.Movement{
			ID: uuid.NewString(), ProductID: p.ID, Kind: entity.MovementKindIN,
			Amount: i, BalanceAfter: i, CreatedAt: same,
		}))
	}

	seq := store.ReadRepos().Movements.Stream(ctx)
	var amounts []int64
	for m, err := range seq {
		require.NoError(t, err)
		assert.Equal(t, "D1", m.ProductCode)
		amounts = append(amounts, m.Amount)
	}
	assert.Equal(t, []int64{3, 2, 1}, amounts, "empate de hora se resuelve por orden de inserción inverso")

	// segundo recorrido: consulta nueva, mismos datos
	n := 0
	for _, err := range seq {
		require.NoError(t, err)
		n++
	}
	assert.Equal(t, 3, n)

	// corte temprano
	n = 0
	for range seq {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestStore_RunRollback(t *testing.T) {
	ctx := context.Background()
	store := sqlitetest.OpenStore(t)
	p := newProduct("E1", 1, entity.ProductStatusAvailable)
	boom := errors.New("boom")

	err := store.Run(ctx, func(ctx context.Context, tx repository.Repos) error {
		if err := tx.Products.Create(ctx, p); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := store.ReadRepos().Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionRepo_ReplaceYDeleteIfToken(t *testing.T) {
	ctx := context.Background()
	repos := sqlitetest.OpenStore(t).Repos()
	now := time.Now().UTC()
	u := &entity.User{ID: uuid.NewString(), Name: "Ana", Email: "ana@x.com", PasswordHash: "h", Role: "Marketing", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repos.Users.Create(ctx, u))

	require.NoError(t, repos.Sessions.Replace(ctx, &entity.Session{UserID: u.ID, Token: "t1", IssuedAt: now}))
	require.NoError(t, repos.Sessions.Replace(ctx, &entity.Session{UserID: u.ID, Token: "t2", IssuedAt: now}))

	s, err := repos.Sessions.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "t2", s.Token)

	deleted, err := repos.Sessions.DeleteIfToken(ctx, u.ID, "t1")
	require.NoError(t, err)
	assert.False(t, deleted)

	// al borrar el usuario cae su sesión
	ok, err := repos.Users.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	s, err = repos.Sessions.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestUserRepo_EmailDuplicado(t *testing.T) {
	ctx := context.Background()
	repos := sqlitetest.OpenStore(t).Repos()
	now := time.Now().UTC()
	u := &entity.User{ID: uuid.NewString(), Name: "A", Email: "a@x.com", PasswordHash: "h", Role: entity.RoleAdmin, IsPrimary: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repos.Users.Create(ctx, u))

	u2 := *u
	u2.ID = uuid.NewString()
	assert.ErrorIs(t, repos.Users.Create(ctx, &u2), domain.ErrEmailAlreadyExists)

	got, err := repos.Users.GetByEmail(ctx, "A@X.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsPrimary)
}

func TestAccessLogRepo_Recent(t *testing.T) {
	ctx := context.Background()
	repos := sqlitetest.OpenStore(t).Repos()
	for _, name := range []string{"uno", "dos", "tres"} {
		require.NoError(t, repos.AccessLog.Append(ctx, &entity.AccessLogEntry{UserName: name, Role: entity.RoleAdmin, CreatedAt: time.Now().UTC()}))
	}
	list, err := repos.AccessLog.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "tres", list[0].UserName)
	assert.Equal(t, "dos", list[1].UserName)
}
