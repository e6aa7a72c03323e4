package entity

import "time"

// Roles globales. El resto de roles válidos son los nombres de almacén (encargado por almacén).
const (
	RoleAdmin   = "Admin"
	RoleManager = "Manager"
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // bcrypt
	Role         string
	IsPrimary    bool // administrador sembrado; no se puede borrar
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsWarehouseRole indica si el rol corresponde a un encargado de almacén (máximo uno por almacén).
func IsWarehouseRole(role string) bool {
	return role != RoleAdmin && role != RoleManager
}
