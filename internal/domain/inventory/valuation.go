package inventory

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// WarehouseTotals resumen de existencias de un almacén.
type WarehouseTotals struct {
	WarehouseID   int64
	WarehouseName string
	Products      int
	Units         int64
	Value         decimal.Decimal // suma de Quantity * UnitValue
}

// StockReport foto de existencias: productos más totales por almacén y generales.
type StockReport struct {
	GeneratedAt time.Time
	Products    []*entity.ProductView
	Warehouses  []WarehouseTotals
	Units       int64
	Value       decimal.Decimal
}

// NewStockReport arma el reporte a partir del listado de productos.
func NewStockReport(products []*entity.ProductView, at time.Time) StockReport {
	rep := StockReport{GeneratedAt: at, Products: products, Warehouses: Valuation(products), Value: decimal.Zero}
	for _, w := range rep.Warehouses {
		rep.Units += w.Units
		rep.Value = rep.Value.Add(w.Value)
	}
	return rep
}

// Valuation agrupa productos por almacén y calcula unidades y valor.
// El orden del resultado sigue la primera aparición de cada almacén en products.
func Valuation(products []*entity.ProductView) []WarehouseTotals {
	index := make(map[int64]int)
	var out []WarehouseTotals
	for _, p := range products {
		i, ok := index[p.WarehouseID]
		if !ok {
			i = len(out)
			index[p.WarehouseID] = i
			out = append(out, WarehouseTotals{WarehouseID: p.WarehouseID, WarehouseName: p.WarehouseName, Value: decimal.Zero})
		}
		out[i].Products++
		out[i].Units += p.Quantity
		out[i].Value = out[i].Value.Add(p.UnitValue.Mul(decimal.NewFromInt(p.Quantity)))
	}
	return out
}
