package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordMovementRequest body para POST /api/movements.
// Amount se recibe como decimal para poder rechazar fracciones con InvalidAmount.
type RecordMovementRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Kind      string          `json:"kind" validate:"required"`
	Amount    decimal.Decimal `json:"amount"`
}

// MovementResponse movimiento con código y nombre del producto.
type MovementResponse struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"product_id"`
	ProductCode  string    `json:"product_code,omitempty"`
	ProductName  string    `json:"product_name,omitempty"`
	Kind         string    `json:"kind"`
	Amount       int64     `json:"amount"`
	BalanceAfter int64     `json:"balance_after"`
	CreatedBy    string    `json:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
