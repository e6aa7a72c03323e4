package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	ledger "github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/logger"
	"github.com/jhoicas/almacen-api/pkg/metrics"
)

// StockReportRenderer genera el documento del reporte de existencias.
type StockReportRenderer interface {
	RenderStockReport(ctx context.Context, rep inventory.StockReport) ([]byte, error)
}

// ProductUseCase aplica reglas de negocio para productos. La cantidad nunca se edita aquí:
// arranca en 0 y solo la cambia el libro de movimientos.
type ProductUseCase struct {
	txRunner repository.TxRunner
	read     repository.Repos
	renderer StockReportRenderer
	log      *logger.Logger
	metrics  *metrics.Inventory
	now      func() time.Time
}

// NewProductUseCase construye el caso de uso. renderer puede ser nil si no se expone el reporte.
func NewProductUseCase(txRunner repository.TxRunner, read repository.Repos, renderer StockReportRenderer, log *logger.Logger, m *metrics.Inventory) *ProductUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ProductUseCase{
		txRunner: txRunner,
		read:     read,
		renderer: renderer,
		log:      log.Named("products"),
		metrics:  m,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create crea un producto con cantidad 0 y devuelve su id.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.ProductRequest) (string, error) {
	now := uc.now()
	product := &entity.Product{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	if err := applyProductRequest(product, in); err != nil {
		return "", err
	}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, tx repository.Repos) error {
		if err := requireWarehouse(ctx, tx.Warehouses, product.WarehouseID); err != nil {
			return err
		}
		return tx.Products.Create(ctx, product)
	})
	if err != nil {
		return "", err
	}
	uc.log.Info().Str("product_id", product.ID).Str("code", product.Code).Msg("producto creado")
	return product.ID, nil
}

// Update reemplaza los campos editables. La cantidad se conserva.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.ProductRequest) error {
	return uc.txRunner.Run(ctx, func(ctx context.Context, tx repository.Repos) error {
		product, err := tx.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}
		if err := applyProductRequest(product, in); err != nil {
			return err
		}
		if err := requireWarehouse(ctx, tx.Warehouses, product.WarehouseID); err != nil {
			return err
		}
		product.UpdatedAt = uc.now()
		return tx.Products.Update(ctx, product)
	})
}

// Delete borra el producto junto con su historial de movimientos.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	err := uc.txRunner.Run(ctx, func(ctx context.Context, tx repository.Repos) error {
		if err := tx.Movements.DeleteByProduct(ctx, id); err != nil {
			return err
		}
		deleted, err := tx.Products.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return domain.ErrProductNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("product_id", id).Msg("producto eliminado")
	return nil
}

// Get obtiene un producto con el nombre de su almacén.
func (uc *ProductUseCase) Get(ctx context.Context, id string) (*dto.ProductResponse, error) {
	v, err := uc.read.Products.GetView(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrProductNotFound
	}
	out := toProductResponse(v)
	return &out, nil
}

// List devuelve todos los productos ordenados por código.
func (uc *ProductUseCase) List(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.read.Products.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, v := range list {
		out = append(out, toProductResponse(v))
	}
	return out, nil
}

// BulkImport inserta las filas en una sola transacción. Las filas cuya terna ya existe
// (en la base o antes en el mismo lote) y las incompletas se omiten. El stock inicial
// entra como movimiento IN para que la cantidad siga siendo la suma de movimientos.
func (uc *ProductUseCase) BulkImport(ctx context.Context, rows []dto.BulkProductRow, userID string) (*dto.ImportSummary, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no se enviaron datos válidos", domain.ErrInvalidInput)
	}
	var inserted, skipped int
	err := uc.txRunner.Run(ctx, func(ctx context.Context, tx repository.Repos) error {
		inserted, skipped = 0, 0
		now := uc.now()
		for _, row := range rows {
			product, qty, ok := productFromBulkRow(row, now)
			if !ok {
				skipped++
				continue
			}
			added, err := tx.Products.InsertIfAbsent(ctx, product)
			if err != nil {
				return err
			}
			if !added {
				skipped++
				continue
			}
			inserted++
			if qty > 0 {
				in := ledger.MovementInput{ProductID: product.ID, Kind: entity.MovementKindIN, Amount: qty, UserID: userID}
				if _, err := ledger.ApplyMovement(ctx, tx, in, now); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		uc.log.Error().Err(err).Int("rows", len(rows)).Msg("carga masiva revertida")
		return nil, err
	}

	uc.metrics.ObserveImport(inserted, skipped)
	uc.log.Info().Int("processed", len(rows)).Int("inserted", inserted).Int("skipped", skipped).Msg("carga masiva completada")
	return &dto.ImportSummary{
		Message:   fmt.Sprintf("Proceso completado. Se procesaron %d registros.", len(rows)),
		Processed: len(rows),
		Inserted:  inserted,
		Skipped:   skipped,
	}, nil
}

// StockReport genera el reporte de existencias con totales por almacén.
func (uc *ProductUseCase) StockReport(ctx context.Context) ([]byte, error) {
	if uc.renderer == nil {
		return nil, fmt.Errorf("reporte de existencias no configurado")
	}
	list, err := uc.read.Products.List(ctx)
	if err != nil {
		return nil, err
	}
	return uc.renderer.RenderStockReport(ctx, inventory.NewStockReport(list, uc.now()))
}

// productFromBulkRow aplica los valores por defecto de la planilla. ok=false si la fila se omite.
func productFromBulkRow(row dto.BulkProductRow, now time.Time) (*entity.Product, int64, bool) {
	code := strings.TrimSpace(row.Code)
	name := strings.TrimSpace(row.Name)
	status, validStatus := normalizeStatus(row.Status)
	if code == "" || name == "" || !validStatus {
		return nil, 0, false
	}
	if !row.Quantity.IsInteger() || row.Quantity.IsNegative() || row.UnitValue.IsNegative() {
		return nil, 0, false
	}
	typ := strings.TrimSpace(row.Type)
	if typ == "" {
		typ = "General"
	}
	return &entity.Product{
		ID:          uuid.NewString(),
		Code:        code,
		Name:        name,
		Model:       strings.TrimSpace(row.Model),
		Type:        typ,
		Size:        strings.TrimSpace(row.Size),
		UnitValue:   row.UnitValue,
		WarehouseID: inventory.ClassifyWarehouse(row.Warehouse),
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, row.Quantity.IntPart(), true
}

func applyProductRequest(p *entity.Product, in dto.ProductRequest) error {
	code := strings.TrimSpace(in.Code)
	name := strings.TrimSpace(in.Name)
	if code == "" || name == "" {
		return fmt.Errorf("%w: código y nombre son obligatorios", domain.ErrInvalidInput)
	}
	status, ok := normalizeStatus(in.Status)
	if !ok {
		return fmt.Errorf("%w: estado %q no admitido", domain.ErrInvalidInput, in.Status)
	}
	if in.UnitValue.IsNegative() {
		return fmt.Errorf("%w: el valor no puede ser negativo", domain.ErrInvalidInput)
	}
	p.Code = code
	p.Name = name
	p.Model = strings.TrimSpace(in.Model)
	p.Type = strings.TrimSpace(in.Type)
	p.Size = strings.TrimSpace(in.Size)
	p.UnitValue = in.UnitValue
	p.WarehouseID = in.WarehouseID
	p.Status = status
	return nil
}

// normalizeStatus devuelve el estado canónico; vacío equivale a Disponible.
func normalizeStatus(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return entity.ProductStatusAvailable, true
	}
	for _, st := range []string{entity.ProductStatusAvailable, entity.ProductStatusDamaged, entity.ProductStatusInUse} {
		if strings.EqualFold(s, st) {
			return st, true
		}
	}
	return "", false
}

func requireWarehouse(ctx context.Context, repo repository.WarehouseRepository, id int64) error {
	w, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if w == nil {
		return fmt.Errorf("%w: almacén %d no existe", domain.ErrInvalidInput, id)
	}
	return nil
}

func toProductResponse(v *entity.ProductView) dto.ProductResponse {
	return dto.ProductResponse{
		ID:            v.ID,
		Code:          v.Code,
		Name:          v.Name,
		Model:         v.Model,
		Type:          v.Type,
		Size:          v.Size,
		UnitValue:     v.UnitValue,
		WarehouseID:   v.WarehouseID,
		WarehouseName: v.WarehouseName,
		Status:        v.Status,
		Quantity:      v.Quantity,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}

// decimalOrZero interpreta un número de planilla; admite "$", espacios y coma decimal.
func decimalOrZero(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return decimal.Zero
	}
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		return decimal.Zero
	}
	return d
}
