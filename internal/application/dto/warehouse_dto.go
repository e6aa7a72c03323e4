package dto

// WarehouseResponse salida de un almacén.
type WarehouseResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
