package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes recorded for booking attempts.
const (
	OutcomeCreated  = "created"
	OutcomeConflict = "conflict"
	OutcomeRejected = "rejected"
	OutcomeBusy     = "busy"
	OutcomeError    = "error"
)

// Metrics holds the Prometheus collectors of the service. A nil *Metrics is valid and
// records nothing, so metrics can be switched off in config.
type Metrics struct {
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	bookings       *prometheus.CounterVec
	slotQueries    *prometheus.CounterVec
	dbOpen         prometheus.Gauge
	dbInUse        prometheus.Gauge
	dbIdle         prometheus.Gauge
	dbWaitDuration prometheus.Gauge
}

// New creates and registers all collectors under the given namespace.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_attempts_total",
			Help:      "Booking creation attempts by outcome.",
		}, []string{"outcome"}),
		slotQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slot_queries_total",
			Help:      "Availability queries by whether the day had any open window.",
		}, []string{"open"}),
		dbOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_open_connections",
			Help:      "Open database connections.",
		}),
		dbInUse: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_in_use_connections",
			Help:      "Database connections currently in use.",
		}),
		dbIdle: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_idle_connections",
			Help:      "Idle database connections.",
		}),
		dbWaitDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_wait_duration_seconds",
			Help:      "Total time blocked waiting for a new connection.",
		}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.bookings,
		m.slotQueries,
		m.dbOpen,
		m.dbInUse,
		m.dbIdle,
		m.dbWaitDuration,
	)

	return m
}

// ObserveHTTP records a finished HTTP request.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// BookingAttempt records the outcome of a booking creation.
func (m *Metrics) BookingAttempt(outcome string) {
	if m == nil {
		return
	}
	m.bookings.WithLabelValues(outcome).Inc()
}

// SlotQuery records an availability query.
func (m *Metrics) SlotQuery(open bool) {
	if m == nil {
		return
	}
	m.slotQueries.WithLabelValues(strconv.FormatBool(open)).Inc()
}

// CollectDBStats periodically copies sql.DBStats into gauges until stop is closed.
func (m *Metrics) CollectDBStats(db *sql.DB, interval time.Duration, stop <-chan struct{}) {
	if m == nil {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		m.recordDBStats(db.Stats())
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}

func (m *Metrics) recordDBStats(stats sql.DBStats) {
	m.dbOpen.Set(float64(stats.OpenConnections))
	m.dbInUse.Set(float64(stats.InUse))
	m.dbIdle.Set(float64(stats.Idle))
	m.dbWaitDuration.Set(stats.WaitDuration.Seconds())
}
