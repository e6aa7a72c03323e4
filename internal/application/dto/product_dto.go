package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductRequest entrada para crear o reemplazar un producto. La cantidad no se acepta: solo cambia por movimientos.
type ProductRequest struct {
	Code        string          `json:"code" validate:"required,max=100"`
	Name        string          `json:"name" validate:"required,max=200"`
	Model       string          `json:"model" validate:"max=100"`
	Type        string          `json:"type" validate:"max=100"`
	Size        string          `json:"size" validate:"max=50"`
	UnitValue   decimal.Decimal `json:"unit_value"`
	WarehouseID int64           `json:"warehouse_id" validate:"required,min=1"`
	Status      string          `json:"status"`
}

// ProductResponse salida de un producto con el nombre de su almacén.
type ProductResponse struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Model         string          `json:"model"`
	Type          string          `json:"type"`
	Size          string          `json:"size"`
	UnitValue     decimal.Decimal `json:"unit_value"`
	WarehouseID   int64           `json:"warehouse_id"`
	WarehouseName string          `json:"warehouse_name"`
	Status        string          `json:"status"`
	Quantity      int64           `json:"quantity"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// BulkProductRow fila cruda de la carga masiva. Conserva las claves de la planilla del cliente.
// Almacen es texto libre y se clasifica de forma aproximada.
type BulkProductRow struct {
	Code      string          `json:"codigo"`
	Name      string          `json:"nombre"`
	Model     string          `json:"modelo"`
	Type      string          `json:"tipo"`
	Size      string          `json:"tamano"`
	UnitValue decimal.Decimal `json:"valor"`
	Quantity  decimal.Decimal `json:"cantidad"`
	Warehouse string          `json:"almacen"`
	Status    string          `json:"estado"`
}

// ImportSummary resultado de una carga masiva.
// Processed cuenta todas las filas recibidas; Inserted y Skipped el desenlace real.
type ImportSummary struct {
	Message   string `json:"message"`
	Processed int    `json:"processed"`
	Inserted  int    `json:"inserted"`
	Skipped   int    `json:"skipped"`
}
