package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados válidos de un producto. El mismo código puede existir en varios estados como filas distintas.
const (
	ProductStatusAvailable = "Disponible"
	ProductStatusDamaged   = "Averiado"
	ProductStatusInUse     = "En Uso"
)

// ValidProductStatus indica si s es uno de los estados admitidos.
func ValidProductStatus(s string) bool {
	switch s {
	case ProductStatusAvailable, ProductStatusDamaged, ProductStatusInUse:
		return true
	}
	return false
}

// Product representa un artículo del almacén.
// Quantity solo la modifica el libro de movimientos y nunca es negativa.
type Product struct {
	ID          string
	Code        string // único junto con WarehouseID y Status
	Name        string
	Model       string
	Type        string
	Size        string
	UnitValue   decimal.Decimal
	WarehouseID int64
	Status      string
	Quantity    int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductView producto con el nombre de su almacén (listados).
type ProductView struct {
	Product
	WarehouseName string
}
