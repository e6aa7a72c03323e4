package inventory

import (
	"strings"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"golang.org/x/text/cases"
)

// warehouseKeywords fragmentos buscados en el nombre libre del almacén, en orden de prioridad.
var warehouseKeywords = []struct {
	fragment string
	id       int64
}{
	{"marketing", entity.WarehouseMarketing},
	{"seguridad", entity.WarehouseSecurity},
	{"eventos", entity.WarehouseEvents},
}

// ClassifyWarehouse asigna un texto libre (columna "Almacén" de la carga masiva) a uno de los
// almacenes fijos por coincidencia de subcadena sin distinguir mayúsculas.
// Es una heurística aproximada: cualquier texto sin coincidencia va a Administración.
func ClassifyWarehouse(name string) int64 {
	folded := cases.Fold().String(name) // Caser no es seguro entre goroutines
	for _, k := range warehouseKeywords {
		if strings.Contains(folded, k.fragment) {
			return k.id
		}
	}
	return entity.WarehouseAdministration
}
