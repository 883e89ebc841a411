package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for storefront activity.
type BusinessMetrics struct {
	// Cart
	CartOperations *prometheus.CounterVec
	CartQuantity   *prometheus.HistogramVec
	CartCleared    prometheus.Counter

	// Catalog
	ProductChanges *prometheus.CounterVec

	// Accounts
	Signups     prometheus.Counter
	Logins      *prometheus.CounterVec
	RoleChanges *prometheus.CounterVec

	// Events
	EventsPublished *prometheus.CounterVec
}

// NewBusinessMetrics creates business metrics registered on reg. A nil reg
// uses the default Prometheus registerer.
func NewBusinessMetrics(namespace string, reg prometheus.Registerer) *BusinessMetrics {
	if namespace == "" {
		namespace = "seshop"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &BusinessMetrics{
		// =======================================================================
		// Cart
		// =======================================================================
		CartOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cart_operations_total",
				Help:      "Total cart operations by outcome",
			},
			[]string{"operation", "result"}, // operation: add, increment, decrement, update, remove, clear
		),
		CartQuantity: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "business",
				Name:      "cart_line_quantity",
				Help:      "Quantity of a cart line after add or merge",
				Buckets:   []float64{1, 2, 3, 5, 10, 25, 50, 100},
			},
			[]string{"status"}, // status: created, merged
		),
		CartCleared: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "business",
				Name:      "cart_items_cleared_total",
				Help:      "Total cart lines deleted by clear-by-owner",
			},
		),

		// =======================================================================
		// Catalog
		// =======================================================================
		ProductChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "business",
				Name:      "product_changes_total",
				Help:      "Total catalog writes",
			},
			[]string{"action"}, // action: create, update, delete
		),

		// =======================================================================
		// Accounts
		// =======================================================================
		Signups: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "business",
				Name:      "signups_total",
				Help:      "Total user accounts created",
			},
		),
		Logins: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "business",
				Name:      "logins_total",
				Help:      "Total token requests by outcome",
			},
			[]string{"result"}, // result: success, failure
		),
		RoleChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "business",
				Name:      "role_changes_total",
				Help:      "Total role toggles by resulting role",
			},
			[]string{"role"},
		),

		// =======================================================================
		// Events
		// =======================================================================
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "events",
				Name:      "published_total",
				Help:      "Total domain events published by outcome",
			},
			[]string{"type", "result"},
		),
	}
}

// RecordCartOperation increments the cart operation counter. Safe on a nil receiver.
func (m *BusinessMetrics) RecordCartOperation(operation string, err error) {
	if m == nil {
		return
	}
	m.CartOperations.WithLabelValues(operation, resultLabel(err)).Inc()
}

// RecordCartQuantity observes a line quantity after add or merge.
func (m *BusinessMetrics) RecordCartQuantity(status string, quantity int) {
	if m == nil {
		return
	}
	m.CartQuantity.WithLabelValues(status).Observe(float64(quantity))
}

// RecordCartCleared adds n deleted lines.
func (m *BusinessMetrics) RecordCartCleared(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.CartCleared.Add(float64(n))
}

// RecordProductChange counts a catalog write.
func (m *BusinessMetrics) RecordProductChange(action string) {
	if m == nil {
		return
	}
	m.ProductChanges.WithLabelValues(action).Inc()
}

// RecordSignup counts a new account.
func (m *BusinessMetrics) RecordSignup() {
	if m == nil {
		return
	}
	m.Signups.Inc()
}

// RecordLogin counts a token request.
func (m *BusinessMetrics) RecordLogin(err error) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(resultLabel(err)).Inc()
}

// RecordRoleChange counts a role toggle.
func (m *BusinessMetrics) RecordRoleChange(role string) {
	if m == nil {
		return
	}
	m.RoleChanges.WithLabelValues(role).Inc()
}

// RecordEventPublished counts a publish attempt.
func (m *BusinessMetrics) RecordEventPublished(eventType string, err error) {
	if m == nil {
		return
	}
	m.EventsPublished.WithLabelValues(eventType, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
