package usecase

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// AccessLogWindow cantidad de accesos que devuelve la bitácora.
const AccessLogWindow = 10

// PrimaryAdmin datos del administrador que se siembra con la base vacía.
type PrimaryAdmin struct {
	Name     string
	Email    string
	Password string
}

// UserUseCase aplica reglas de negocio para usuarios y la bitácora de accesos.
type UserUseCase struct {
	txRunner   repository.TxRunner
	read       repository.Repos
	masterCode string
	log        *logger.Logger
	now        func() time.Time
}

// NewUserUseCase construye el caso de uso. masterCode autoriza el borrado de usuarios.
func NewUserUseCase(txRunner repository.TxRunner, read repository.Repos, masterCode string, log *logger.Logger) *UserUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UserUseCase{
		txRunner:   txRunner,
		read:       read,
		masterCode: masterCode,
		log:        log.Named("users"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// List devuelve todos los usuarios sin credenciales.
func (uc *UserUseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.read.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, auth.ToUserResponse(u))
	}
	return out, nil
}

// Create da de alta un usuario. Un rol de almacén admite un único usuario (ErrRoleTaken).
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (string, error) {
	role := strings.TrimSpace(in.Role)
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	now := uc.now()
	user := &entity.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.txRunner.Run(ctx, func(ctx context.Context, tx repository.Repos) error {
		if entity.IsWarehouseRole(role) {
			ok, err := isWarehouseName(ctx, tx.Warehouses, role)
			if err != nil {
				return err
			}
			if !ok {
				return domain.ErrInvalidInput
			}
			holder, err := tx.Users.FindByRole(ctx, role)
			if err != nil {
				return err
			}
			if holder != nil {
				return domain.ErrRoleTaken
			}
		}
		return tx.Users.Create(ctx, user)
	})
	if err != nil {
		return "", err
	}
	uc.log.Info().Str("user_id", user.ID).Str("role", role).Msg("usuario creado")
	return user.ID, nil
}

// Delete borra un usuario. Orden de comprobación: clave maestra, administrador principal, existencia.
func (uc *UserUseCase) Delete(ctx context.Context, id, masterCode string) error {
	if uc.masterCode == "" || subtle.ConstantTimeCompare([]byte(masterCode), []byte(uc.masterCode)) != 1 {
		uc.log.Warn().Str("user_id", id).Msg("borrado de usuario con clave maestra incorrecta")
		return domain.ErrWrongMasterCode
	}
	return uc.txRunner.Run(ctx, func(ctx context.Context, tx repository.Repos) error {
		u, err := tx.Users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.ErrUserNotFound
		}
		if u.IsPrimary {
			return domain.ErrCannotDeletePrimaryAdmin
		}
		if err := tx.Sessions.Delete(ctx, id); err != nil {
			return err
		}
		deleted, err := tx.Users.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return domain.ErrUserNotFound
		}
		uc.log.Info().Str("user_id", id).Msg("usuario eliminado")
		return nil
	})
}

// EnsurePrimaryAdmin siembra el administrador principal si no hay usuarios. created=false si ya existían.
func (uc *UserUseCase) EnsurePrimaryAdmin(ctx context.Context, admin PrimaryAdmin) (bool, error) {
	if admin.Email == "" || admin.Password == "" {
		return false, domain.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	created := false
	err = uc.txRunner.Run(ctx, func(ctx context.Context, tx repository.Repos) error {
		n, err := tx.Users.Count(ctx)
		if err != nil || n > 0 {
			return err
		}
		now := uc.now()
		created = true
		return tx.Users.Create(ctx, &entity.User{
			ID:           uuid.NewString(),
			Name:         admin.Name,
			Email:        strings.ToLower(admin.Email),
			PasswordHash: string(hash),
			Role:         entity.RoleAdmin,
			IsPrimary:    true,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	})
	if err != nil {
		return false, err
	}
	if created {
		uc.log.Info().Str("email", admin.Email).Msg("administrador principal sembrado")
	}
	return created, nil
}

// AccessLog últimos accesos, el más reciente primero.
func (uc *UserUseCase) AccessLog(ctx context.Context) ([]dto.AccessLogResponse, error) {
	entries, err := uc.read.AccessLog.Recent(ctx, AccessLogWindow)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AccessLogResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.AccessLogResponse{ID: e.ID, UserName: e.UserName, Role: e.Role, CreatedAt: e.CreatedAt})
	}
	return out, nil
}

func isWarehouseName(ctx context.Context, repo repository.WarehouseRepository, name string) (bool, error) {
	list, err := repo.List(ctx)
	if err != nil {
		return false, err
	}
	for _, w := range list {
		if w.Name == name {
			return true, nil
		}
	}
	return false, nil
}
