package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "propmanager_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "propmanager_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	entityOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "propmanager_entity_operations_total",
		Help: "Count of entity service operations by entity, action and result",
	}, []string{"entite", "action", "resultat"})

	tauxOccupation = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "propmanager_taux_occupation_percent",
		Help: "Share of rooms currently rented, in percent",
	})

	revenusMensuels = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "propmanager_revenus_mensuels_euros",
		Help: "Expected monthly revenue over rented rooms (rent plus charges)",
	})

	dashboardDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "propmanager_dashboard_duration_seconds",
		Help:    "Duration of dashboard aggregation requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"result"})

	workerRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "propmanager_worker_runs_total",
		Help: "Count of background worker iterations by worker and result",
	}, []string{"worker", "result"})

	loyersGeneres = promauto.NewCounter(prometheus.CounterOpts{
		Name: "propmanager_loyers_generes_total",
		Help: "Count of rent records generated by the rent worker",
	})

	incoherences = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "propmanager_incoherences",
		Help: "Number of data inconsistencies found by the last synchronization pass",
	})

	websocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "propmanager_websocket_clients",
		Help: "Number of connected activity feed clients",
	})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveEntityOp increments the operation counter for an entity service call.
func ObserveEntityOp(entite, action, resultat string) {
	entityOperations.WithLabelValues(entite, action, resultat).Inc()
}

// SetTauxOccupation sets the occupancy gauge (percent).
func SetTauxOccupation(percent float64) {
	tauxOccupation.Set(percent)
}

// SetRevenusMensuels sets the expected monthly revenue gauge.
func SetRevenusMensuels(euros float64) {
	revenusMensuels.Set(euros)
}

// ObserveDashboard records the duration of a dashboard aggregation.
func ObserveDashboard(result string, duration time.Duration) {
	dashboardDuration.WithLabelValues(result).Observe(duration.Seconds())
}

// ObserveWorkerRun increments the worker iteration counter.
func ObserveWorkerRun(worker, result string) {
	workerRuns.WithLabelValues(worker, result).Inc()
}

// AddLoyersGeneres records rent records created by the rent worker.
func AddLoyersGeneres(count int) {
	loyersGeneres.Add(float64(count))
}

// SetIncoherences sets the inconsistency gauge from the latest sync report.
func SetIncoherences(count int) {
	if count < 0 {
		count = 0
	}
	incoherences.Set(float64(count))
}

// IncWebsocketClients increments the connected client gauge.
func IncWebsocketClients() {
	websocketClients.Inc()
}

// DecWebsocketClients decrements the connected client gauge.
func DecWebsocketClients() {
	websocketClients.Dec()
}
