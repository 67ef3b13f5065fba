package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics counts placed orders and reservations.
type OrderMetrics struct {
	placed       *prometheus.CounterVec
	revenue      *prometheus.CounterVec
	statusChange *prometheus.CounterVec
	reservations *prometheus.CounterVec
}

// NewOrderMetrics registers the order counters on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	placed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders placed by order type.",
	}, []string{"order_type"})
	revenue := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_total_amount",
		Help: "Sum of placed order totals by order type.",
	}, []string{"order_type"})
	statusChange := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_changes_total",
		Help: "Order status transitions by target status.",
	}, []string{"status"})
	reservations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reservations_created_total",
		Help: "Reservations booked by table.",
	}, []string{"table"})
	reg.MustRegister(placed, revenue, statusChange, reservations)
	return &OrderMetrics{placed: placed, revenue: revenue, statusChange: statusChange, reservations: reservations}
}

// ObservePlaced records one placed order and its total.
func (m *OrderMetrics) ObservePlaced(orderType string, total float64) {
	if m == nil || m.placed == nil {
		return
	}
	label := normalizeLabel(orderType)
	m.placed.WithLabelValues(label).Inc()
	m.revenue.WithLabelValues(label).Add(total)
}

func (m *OrderMetrics) IncStatusChange(status string) {
	if m == nil || m.statusChange == nil {
		return
	}
	m.statusChange.WithLabelValues(normalizeLabel(status)).Inc()
}

func (m *OrderMetrics) IncReservation(table string) {
	if m == nil || m.reservations == nil {
		return
	}
	m.reservations.WithLabelValues(normalizeLabel(table)).Inc()
}
