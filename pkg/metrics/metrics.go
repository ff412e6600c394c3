package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор Prometheus-метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration  *prometheus.HistogramVec
	DBOpenConns      *prometheus.GaugeVec
	DBInUseConns     *prometheus.GaugeVec
	DBIdleConns      *prometheus.GaugeVec
	DBWaitCountTotal *prometheus.GaugeVec

	PaymentOrdersTotal        *prometheus.CounterVec
	BookingsConfirmedTotal    *prometheus.CounterVec
	PaymentVerificationErrors *prometheus.CounterVec
	AvailabilityChecksTotal   *prometheus.CounterVec
}

// New создаёт и регистрирует метрики в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer позволяет подменить реестр (используется в тестах)
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		DBOpenConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Open connections in the pool",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBInUseConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Connections currently in use",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBIdleConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Idle connections in the pool",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBWaitCountTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{"db"}),

		PaymentOrdersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "payment_orders_total",
			Help:        "Payment orders created, by rental mode",
			ConstLabels: constLabels,
		}, []string{"mode"}),

		BookingsConfirmedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "bookings_confirmed_total",
			Help:        "Bookings confirmed after payment verification, by rental mode",
			ConstLabels: constLabels,
		}, []string{"mode"}),

		PaymentVerificationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "payment_verification_errors_total",
			Help:        "Failed payment verifications, by reason",
			ConstLabels: constLabels,
		}, []string{"reason"}),

		AvailabilityChecksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "availability_checks_total",
			Help:        "Availability checks, by verdict",
			ConstLabels: constLabels,
		}, []string{"available"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBOpenConns,
		m.DBInUseConns,
		m.DBIdleConns,
		m.DBWaitCountTotal,
		m.PaymentOrdersTotal,
		m.BookingsConfirmedTotal,
		m.PaymentVerificationErrors,
		m.AvailabilityChecksTotal,
	)

	return m
}

// IncPaymentOrder nil-safe инкремент
func (m *Metrics) IncPaymentOrder(mode string) {
	if m == nil {
		return
	}
	m.PaymentOrdersTotal.WithLabelValues(mode).Inc()
}

// IncBookingConfirmed nil-safe инкремент
func (m *Metrics) IncBookingConfirmed(mode string) {
	if m == nil {
		return
	}
	m.BookingsConfirmedTotal.WithLabelValues(mode).Inc()
}

// IncVerificationError nil-safe инкремент
func (m *Metrics) IncVerificationError(reason string) {
	if m == nil {
		return
	}
	m.PaymentVerificationErrors.WithLabelValues(reason).Inc()
}

// IncAvailabilityCheck nil-safe инкремент
func (m *Metrics) IncAvailabilityCheck(available bool) {
	if m == nil {
		return
	}
	label := "false"
	if available {
		label = "true"
	}
	m.AvailabilityChecksTotal.WithLabelValues(label).Inc()
}
