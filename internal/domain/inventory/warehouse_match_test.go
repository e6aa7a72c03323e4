package inventory

import (
	"testing"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
)

func TestClassifyWarehouse(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"Marketing", entity.WarehouseMarketing},
		{"DEPTO. MARKETING DIGITAL", entity.WarehouseMarketing},
		{"Seguridad y Mantenimiento", entity.WarehouseSecurity},
		{"seguridad", entity.WarehouseSecurity},
		{"Eventos", entity.WarehouseEvents},
		{"Administración", entity.WarehouseAdministration},
		{"", entity.WarehouseAdministration},
		{"Bodega central", entity.WarehouseAdministration},
		// la primera coincidencia en orden de prioridad gana
		{"Eventos de marketing", entity.WarehouseMarketing},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyWarehouse(tc.in), "entrada %q", tc.in)
	}
}
