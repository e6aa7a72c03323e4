package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementKindIN  = "IN"  // entrada
	MovementKindOUT = "OUT" // salida
)

// Movement registro inmutable de un cambio de stock. Solo se borra en cascada con su producto.
type Movement struct {
	ID           string
	ProductID    string
	Kind         string
	Amount       int64 // siempre positivo; Kind indica el sentido
	BalanceAfter int64 // cantidad del producto tras aplicar el movimiento
	CreatedBy    string
	CreatedAt    time.Time
}

// Delta devuelve el cambio con signo que el movimiento aplica a la cantidad.
func (m *Movement) Delta() int64 {
	if m.Kind == MovementKindOUT {
		return -m.Amount
	}
	return m.Amount
}

// MovementView movimiento con código y nombre del producto (historial).
type MovementView struct {
	Movement
	ProductCode string
	ProductName string
}
