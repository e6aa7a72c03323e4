// Package metrics define los colectores Prometheus del libro de movimientos y de las sesiones.
// Todos los métodos aceptan receptor nil para que los casos de uso funcionen sin métricas.
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Resultados usados como etiqueta "result".
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Inventory agrupa los contadores del almacén.
type Inventory struct {
	movements     *prometheus.CounterVec
	units         *prometheus.CounterVec
	logins        *prometheus.CounterVec
	sessionChecks *prometheus.CounterVec
	imported      *prometheus.CounterVec
}

// NewInventory registra los colectores en reg. Con reg nil devuelve un colector inerte.
func NewInventory(reg prometheus.Registerer) *Inventory {
	if reg == nil {
		return &Inventory{}
	}
	m := &Inventory{
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_movements_total",
			Help: "Movimientos de stock solicitados por tipo y resultado.",
		}, []string{"kind", "result"}),
		units: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_movement_units_total",
			Help: "Unidades movidas por tipo de movimiento aceptado.",
		}, []string{"kind"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Intentos de inicio de sesión por resultado.",
		}, []string{"result"}),
		sessionChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_session_checks_total",
			Help: "Verificaciones de sesión por validez.",
		}, []string{"valid"}),
		imported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_bulk_import_rows_total",
			Help: "Filas de carga masiva por desenlace.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.movements, m.units, m.logins, m.sessionChecks, m.imported)
	return m
}

// ObserveMovement cuenta un movimiento; amount solo se suma si result es ok.
func (m *Inventory) ObserveMovement(kind, result string, amount int64) {
	if m == nil || m.movements == nil {
		return
	}
	kind = normalizeLabel(kind)
	m.movements.WithLabelValues(kind, result).Inc()
	if result == ResultOK && amount > 0 {
		m.units.WithLabelValues(kind).Add(float64(amount))
	}
}

// ObserveLogin cuenta un intento de login.
func (m *Inventory) ObserveLogin(result string) {
	if m == nil || m.logins == nil {
		return
	}
	m.logins.WithLabelValues(result).Inc()
}

// ObserveSessionCheck cuenta una verificación de sesión.
func (m *Inventory) ObserveSessionCheck(valid bool) {
	if m == nil || m.sessionChecks == nil {
		return
	}
	label := "false"
	if valid {
		label = "true"
	}
	m.sessionChecks.WithLabelValues(label).Inc()
}

// ObserveImport suma filas insertadas y omitidas de una carga masiva.
func (m *Inventory) ObserveImport(inserted, skipped int) {
	if m == nil || m.imported == nil {
		return
	}
	m.imported.WithLabelValues("inserted").Add(float64(inserted))
	m.imported.WithLabelValues("skipped").Add(float64(skipped))
}

func normalizeLabel(v string) string {
	v = strings.ToUpper(strings.TrimSpace(v))
	if v == "" {
		return "UNKNOWN"
	}
	return v
}
