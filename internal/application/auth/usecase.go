package auth

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/jwt"
	"github.com/jhoicas/almacen-api/pkg/logger"
	"github.com/jhoicas/almacen-api/pkg/metrics"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret      string
	ExpMinutes  int
	Issuer      string
	PollSeconds int // intervalo que el cliente usa para VerifySession
}

// AuthUseCase registro de sesiones: login, verificación y logout.
// Cada usuario tiene a lo sumo una sesión; un login nuevo reemplaza la anterior.
type AuthUseCase struct {
	txRunner repository.TxRunner
	read     repository.Repos
	jwtCfg   JWTConfig
	log      *logger.Logger
	metrics  *metrics.Inventory
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(txRunner repository.TxRunner, read repository.Repos, jwtCfg JWTConfig, log *logger.Logger, m *metrics.Inventory) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	if jwtCfg.PollSeconds <= 0 {
		jwtCfg.PollSeconds = 5
	}
	return &AuthUseCase{
		txRunner: txRunner,
		read:     read,
		jwtCfg:   jwtCfg,
		log:      log.Named("auth"),
		metrics:  m,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Login verifica email/password, reemplaza la sesión del usuario, anota el acceso y retorna tokens + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		uc.metrics.ObserveLogin(metrics.ResultRejected)
		return nil, domain.ErrInvalidCredentials
	}
	user, err := uc.read.Users.GetByEmail(ctx, email)
	if err != nil {
		uc.metrics.ObserveLogin(metrics.ResultError)
		return nil, err
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		uc.metrics.ObserveLogin(metrics.ResultRejected)
		uc.log.Info().Str("email", in.Email).Msg("login rechazado")
		return nil, domain.ErrInvalidCredentials
	}

	now := uc.now()
	session := &entity.Session{UserID: user.ID, Token: uuid.NewString(), IssuedAt: now}
	err = uc.txRunner.Run(ctx, func(ctx context.Context, tx repository.Repos) error {
		if err := tx.Sessions.Replace(ctx, session); err != nil {
			return err
		}
		return tx.AccessLog.Append(ctx, &entity.AccessLogEntry{UserName: user.Name, Role: user.Role, CreatedAt: now})
	})
	if err != nil {
		uc.metrics.ObserveLogin(metrics.ResultError)
		return nil, err
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, session.Token, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		uc.metrics.ObserveLogin(metrics.ResultError)
		return nil, err
	}
	uc.metrics.ObserveLogin(metrics.ResultOK)
	uc.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("sesión iniciada")

	return &dto.LoginResponse{
		Token:        token,
		SessionToken: session.Token,
		PollSeconds:  uc.jwtCfg.PollSeconds,
		User:         ToUserResponse(user),
	}, nil
}

// VerifySession indica si token es la sesión vigente de userID. Nunca devuelve error:
// usuario inexistente, token vacío o fallo de almacenamiento cuentan como inválido.
func (uc *AuthUseCase) VerifySession(ctx context.Context, userID, token string) bool {
	if userID == "" || token == "" {
		uc.metrics.ObserveSessionCheck(false)
		return false
	}
	s, err := uc.read.Sessions.Get(ctx, userID)
	if err != nil {
		uc.log.Warn().Err(err).Str("user_id", userID).Msg("verificar sesión")
		uc.metrics.ObserveSessionCheck(false)
		return false
	}
	valid := s != nil && subtle.ConstantTimeCompare([]byte(s.Token), []byte(token)) == 1
	uc.metrics.ObserveSessionCheck(valid)
	return valid
}

// Logout borra la sesión solo si token sigue siendo el vigente; una sesión más nueva no se toca.
func (uc *AuthUseCase) Logout(ctx context.Context, userID, token string) error {
	if userID == "" || token == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(ctx context.Context, tx repository.Repos) error {
		deleted, err := tx.Sessions.DeleteIfToken(ctx, userID, token)
		if err != nil {
			return err
		}
		if deleted {
			uc.log.Info().Str("user_id", userID).Msg("sesión cerrada")
		}
		return nil
	})
}

// ToUserResponse proyecta el usuario sin credenciales.
func ToUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		IsPrimary: u.IsPrimary,
		CreatedAt: u.CreatedAt,
	}
}
