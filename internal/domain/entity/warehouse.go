package entity

// IDs fijos de los almacenes sembrados por la migración inicial.
const (
	WarehouseAdministration int64 = 1
	WarehouseMarketing      int64 = 2
	WarehouseSecurity       int64 = 3
	WarehouseEvents         int64 = 4
)

// Warehouse almacén físico o área donde se guarda inventario.
type Warehouse struct {
	ID   int64
	Name string
}
