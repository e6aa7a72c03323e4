package inventory

import (
	"context"
	"errors"
	"iter"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/logger"
	"github.com/jhoicas/almacen-api/pkg/metrics"
)

// MovementInput entrada para registrar un movimiento.
type MovementInput struct {
	ProductID string
	Kind      string // IN u OUT
	Amount    int64
	UserID    string
}

// LedgerUseCase libro de movimientos: único camino que modifica cantidades.
// Cada movimiento se aplica con una actualización condicional y se anexa en la misma transacción.
type LedgerUseCase struct {
	txRunner repository.TxRunner
	read     repository.Repos
	log      *logger.Logger
	metrics  *metrics.Inventory
	now      func() time.Time
}

// NewLedgerUseCase construye el caso de uso. read son repos fuera de transacción para consultas.
func NewLedgerUseCase(txRunner repository.TxRunner, read repository.Repos, log *logger.Logger, m *metrics.Inventory) *LedgerUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerUseCase{
		txRunner: txRunner,
		read:     read,
		log:      log.Named("ledger"),
		metrics:  m,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ParseAmount convierte la cantidad recibida en un entero positivo o devuelve ErrInvalidAmount.
func ParseAmount(d decimal.Decimal) (int64, error) {
	if !d.IsInteger() || !d.IsPositive() || d.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return 0, domain.ErrInvalidAmount
	}
	return d.IntPart(), nil
}

// RecordMovement valida la entrada y aplica el movimiento en una transacción.
// Un OUT que dejaría la cantidad negativa falla con ErrInsufficientStock sin mutar nada.
func (uc *LedgerUseCase) RecordMovement(ctx context.Context, in MovementInput) (*entity.Movement, error) {
	in.Kind = strings.ToUpper(strings.TrimSpace(in.Kind))
	if err := validateMovement(in); err != nil {
		uc.metrics.ObserveMovement(in.Kind, metrics.ResultRejected, in.Amount)
		return nil, err
	}

	var mov *entity.Movement
	err := uc.txRunner.Run(ctx, func(ctx context.Context, tx repository.Repos) error {
		m, err := ApplyMovement(ctx, tx, in, uc.now())
		mov = m
		return err
	})
	if err != nil {
		result := metrics.ResultRejected
		if !isRejection(err) {
			result = metrics.ResultError
			uc.log.Error().Err(err).Str("product_id", in.ProductID).Str("kind", in.Kind).Msg("registrar movimiento")
		} else {
			uc.log.Info().Err(err).Str("product_id", in.ProductID).Str("kind", in.Kind).Int64("amount", in.Amount).Msg("movimiento rechazado")
		}
		uc.metrics.ObserveMovement(in.Kind, result, in.Amount)
		return nil, err
	}

	uc.metrics.ObserveMovement(mov.Kind, metrics.ResultOK, mov.Amount)
	uc.log.Info().
		Str("product_id", mov.ProductID).
		Str("kind", mov.Kind).
		Int64("amount", mov.Amount).
		Int64("balance", mov.BalanceAfter).
		Str("user_id", mov.CreatedBy).
		Msg("movimiento registrado")
	return mov, nil
}

// ApplyMovement aplica el delta y anexa el movimiento usando repos ya atados a una transacción.
// Lo usan RecordMovement y la carga masiva (stock inicial).
func ApplyMovement(ctx context.Context, tx repository.Repos, in MovementInput, at time.Time) (*entity.Movement, error) {
	mov := &entity.Movement{
		ID:        uuid.NewString(),
		ProductID: in.ProductID,
		Kind:      in.Kind,
		Amount:    in.Amount,
		CreatedBy: in.UserID,
		CreatedAt: at,
	}
	if mov.Kind == entity.MovementKindIN {
		p, err := tx.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.ErrProductNotFound
		}
		if p.Quantity > math.MaxInt64-in.Amount {
			return nil, domain.ErrInvalidAmount
		}
	}
	qty, applied, err := tx.Products.ApplyDelta(ctx, in.ProductID, mov.Delta())
	if err != nil {
		return nil, err
	}
	if !applied {
		// condición no cumplida: o no existe o el saldo quedaría negativo
		p, err := tx.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.ErrInsufficientStock
	}
	mov.BalanceAfter = qty
	if err := tx.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// Movements historial completo, más reciente primero. Cada recorrido vuelve a consultar.
func (uc *LedgerUseCase) Movements(ctx context.Context) iter.Seq2[*entity.MovementView, error] {
	return uc.read.Movements.Stream(ctx)
}

// ProductHistory movimientos de un producto, más reciente primero.
func (uc *LedgerUseCase) ProductHistory(ctx context.Context, productID string) ([]*entity.Movement, error) {
	p, err := uc.read.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	return uc.read.Movements.ListByProduct(ctx, productID)
}

func validateMovement(in MovementInput) error {
	if strings.TrimSpace(in.ProductID) == "" {
		return domain.ErrInvalidInput
	}
	if in.Kind != entity.MovementKindIN && in.Kind != entity.MovementKindOUT {
		return domain.ErrInvalidInput
	}
	if in.Amount <= 0 {
		return domain.ErrInvalidAmount
	}
	return nil
}

// isRejection distingue rechazos de negocio de fallos del almacenamiento.
func isRejection(err error) bool {
	for _, target := range []error{domain.ErrInsufficientStock, domain.ErrNotFound, domain.ErrInvalidAmount, domain.ErrInvalidInput} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
