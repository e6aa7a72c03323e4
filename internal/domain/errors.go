package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound                 = errors.New("recurso no encontrado")
	ErrProductNotFound          = fmt.Errorf("producto no encontrado: %w", ErrNotFound)
	ErrUserNotFound             = fmt.Errorf("usuario no encontrado: %w", ErrNotFound)
	ErrEmailAlreadyExists       = errors.New("el email ya está registrado")
	ErrInvalidInput             = errors.New("entrada inválida")
	ErrInvalidAmount            = errors.New("la cantidad debe ser un entero positivo")
	ErrDuplicateProduct         = errors.New("ya existe este producto con ese estado")
	ErrInvalidCredentials       = errors.New("credenciales inválidas")
	ErrUnauthorized             = errors.New("no autorizado")
	ErrForbidden                = errors.New("acceso denegado")
	ErrInsufficientStock        = errors.New("stock insuficiente")
	ErrWrongMasterCode          = errors.New("clave maestra incorrecta")
	ErrCannotDeletePrimaryAdmin = errors.New("no se puede borrar al administrador principal")
	ErrRoleTaken                = errors.New("el almacén ya tiene un encargado asignado")
)

// DuplicateProductError identifica la terna (código, almacén, estado) que ya existe.
type DuplicateProductError struct {
	Code        string
	WarehouseID int64
	Status      string
}

func (e *DuplicateProductError) Error() string {
	return fmt.Sprintf("%s: código %q, almacén %d, estado %q", ErrDuplicateProduct, e.Code, e.WarehouseID, e.Status)
}

// Unwrap permite errors.Is(err, ErrDuplicateProduct).
func (e *DuplicateProductError) Unwrap() error { return ErrDuplicateProduct }
