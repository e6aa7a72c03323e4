package repository

import "context"

// Repos agrupa los repositorios atados a una misma conexión o transacción.
type Repos struct {
	Products   ProductRepository
	Movements  MovementRepository
	Warehouses WarehouseRepository
	Users      UserRepository
	Sessions   SessionRepository
	AccessLog  AccessLogRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Commit si fn devuelve nil; Rollback en cualquier otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, tx Repos) error) error
}
