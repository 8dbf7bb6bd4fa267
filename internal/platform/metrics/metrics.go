// Package metrics registers the Prometheus collectors for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	UsersCreated     prometheus.Counter
	Logins           *prometheus.CounterVec
	WishlistMutation *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		UsersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "igamedb_users_created_total",
			Help: "Total number of users created in the system",
		}),
		Logins: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "igamedb_logins_total",
			Help: "Total number of successful logins by method",
		}, []string{"method"}),
		WishlistMutation: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "igamedb_wishlist_mutations_total",
			Help: "Total number of wishlist add/remove operations",
		}, []string{"op"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "igamedb_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"route", "method", "status"}),
	}
}

// IncrementUsersCreated increments the users created counter by 1.
func (m *Metrics) IncrementUsersCreated() {
	if m != nil {
		m.UsersCreated.Inc()
	}
}

// IncrementLogins records a successful login via "google" or "password".
func (m *Metrics) IncrementLogins(method string) {
	if m != nil {
		m.Logins.WithLabelValues(method).Inc()
	}
}

// IncrementWishlist records a wishlist mutation ("add" or "remove").
func (m *Metrics) IncrementWishlist(op string) {
	if m != nil {
		m.WishlistMutation.WithLabelValues(op).Inc()
	}
}

// ObserveRequest records a request duration sample.
func (m *Metrics) ObserveRequest(route, method, status string, seconds float64) {
	if m != nil {
		m.RequestDuration.WithLabelValues(route, method, status).Observe(seconds)
	}
}
