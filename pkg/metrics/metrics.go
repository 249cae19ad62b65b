package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector métricas Prometheus de la API sobre un registro propio.
type Collector struct {
	registry *prometheus.Registry

	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	ruleRejections *prometheus.CounterVec
	integrityFault prometheus.Counter
}

// NewCollector crea y registra las métricas bajo namespace. Incluye métricas de proceso y runtime Go.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP atendidas.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latencia de las peticiones HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ruleRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "business_rule_rejections_total",
			Help:      "Operaciones rechazadas por regla de negocio.",
		}, []string{"rule"}),
		integrityFault: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "category_integrity_faults_total",
			Help:      "Jerarquías de categorías corruptas detectadas (ciclos o niveles fuera de rango).",
		}),
	}
	c.registry.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.ruleRejections,
		c.integrityFault,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// ObserveRequest registra una petición terminada. route es el patrón de la ruta, no la URL.
func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RuleRejected cuenta un rechazo por la regla indicada (ej. CYCLICAL_REFERENCE).
func (c *Collector) RuleRejected(rule string) {
	c.ruleRejections.WithLabelValues(rule).Inc()
}

// IntegrityFault cuenta una jerarquía corrupta detectada.
func (c *Collector) IntegrityFault() {
	c.integrityFault.Inc()
}

// Registry registro subyacente (tests y exportadores externos).
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler handler net/http con el formato de exposición de Prometheus.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
