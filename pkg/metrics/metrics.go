package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus-метрик сервиса.
// Создаётся один раз в main и передаётся по ссылке (middleware, dbmetrics, sweeper).
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbConnsOpen     prometheus.Gauge
	dbConnsIdle     prometheus.Gauge

	holdsCreatedTotal   prometheus.Counter
	holdsCommittedTotal prometheus.Counter
	holdsReleasedTotal  prometheus.Counter
	holdsExpiredTotal   prometheus.Counter

	bookingsCancelledTotal prometheus.Counter

	hierarchyRepairsTotal *prometheus.CounterVec
}

// New регистрирует метрики в default registry
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		dbQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"operation"}),

		dbConnsOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_connections_open",
			Help:        "Number of open database connections",
			ConstLabels: constLabels,
		}),

		dbConnsIdle: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_connections_idle",
			Help:        "Number of idle database connections",
			ConstLabels: constLabels,
		}),

		holdsCreatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "soft_holds_created_total",
			Help:        "Total number of soft holds created",
			ConstLabels: constLabels,
		}),

		holdsCommittedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "soft_holds_committed_total",
			Help:        "Total number of soft holds committed into bookings",
			ConstLabels: constLabels,
		}),

		holdsReleasedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "soft_holds_released_total",
			Help:        "Total number of soft holds released explicitly",
			ConstLabels: constLabels,
		}),

		holdsExpiredTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "soft_holds_expired_total",
			Help:        "Total number of expired soft holds reclaimed by the sweeper",
			ConstLabels: constLabels,
		}),

		bookingsCancelledTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "bookings_cancelled_total",
			Help:        "Total number of confirmed bookings cancelled",
			ConstLabels: constLabels,
		}),

		hierarchyRepairsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "hierarchy_repairs_total",
			Help:        "Total number of catalog graph repairs by kind",
			ConstLabels: constLabels,
		}, []string{"kind"}),
	}
}

// IncHTTPRequest инкрементирует счётчик HTTP запросов
func (m *Metrics) IncHTTPRequest(method, path, status string) {
	m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
}

// ObserveHTTPDuration записывает длительность HTTP запроса
func (m *Metrics) ObserveHTTPDuration(method, path string, d time.Duration) {
	m.httpRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// ObserveDBQuery записывает длительность запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, d time.Duration) {
	m.dbQueryDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// SetDBConnections обновляет gauge'и connection pool
func (m *Metrics) SetDBConnections(open, idle int) {
	m.dbConnsOpen.Set(float64(open))
	m.dbConnsIdle.Set(float64(idle))
}

// IncHoldCreated инкрементирует счётчик созданных холдов
func (m *Metrics) IncHoldCreated() {
	m.holdsCreatedTotal.Inc()
}

// IncHoldCommitted инкрементирует счётчик закоммиченных холдов
func (m *Metrics) IncHoldCommitted() {
	m.holdsCommittedTotal.Inc()
}

// IncHoldReleased инкрементирует счётчик отпущенных холдов
func (m *Metrics) IncHoldReleased() {
	m.holdsReleasedTotal.Inc()
}

// AddHoldsExpired добавляет количество холдов, убранных sweeper'ом
func (m *Metrics) AddHoldsExpired(n int) {
	m.holdsExpiredTotal.Add(float64(n))
}

// IncBookingCancelled инкрементирует счётчик отменённых бронирований
func (m *Metrics) IncBookingCancelled() {
	m.bookingsCancelledTotal.Inc()
}

// IncHierarchyRepair инкрементирует счётчик починок графа каталога
func (m *Metrics) IncHierarchyRepair(kind string) {
	m.hierarchyRepairsTotal.WithLabelValues(kind).Inc()
}
