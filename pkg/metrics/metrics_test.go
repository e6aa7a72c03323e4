package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInventory_ObserveMovement(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewInventory(reg)

	m.ObserveMovement("in", ResultOK, 5)
	m.ObserveMovement("IN", ResultOK, 3)
	m.ObserveMovement("OUT", ResultRejected, 9)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.movements.WithLabelValues("IN", ResultOK)))
	assert.Equal(t, 8.0, testutil.ToFloat64(m.units.WithLabelValues("IN")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.movements.WithLabelValues("OUT", ResultRejected)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.units.WithLabelValues("OUT")))
}

func TestInventory_SessionAndImport(t *testing.T) {
	m := NewInventory(prometheus.NewRegistry())
	m.ObserveSessionCheck(true)
	m.ObserveSessionCheck(false)
	m.ObserveSessionCheck(false)
	m.ObserveImport(4, 2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionChecks.WithLabelValues("true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.sessionChecks.WithLabelValues("false")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.imported.WithLabelValues("inserted")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.imported.WithLabelValues("skipped")))
}

func TestInventory_NilSafe(t *testing.T) {
	var m *Inventory
	assert.NotPanics(t, func() {
		m.ObserveMovement("IN", ResultOK, 1)
		m.ObserveLogin(ResultOK)
		m.ObserveSessionCheck(true)
		m.ObserveImport(1, 1)
	})
	assert.NotPanics(t, func() {
		NewInventory(nil).ObserveLogin(ResultError)
	})
}
