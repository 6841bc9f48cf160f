// Package metrics expone contadores Prometheus del servicio en /metrics.
package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jhoicas/sitetrack-api/internal/application/inventory"
	"github.com/jhoicas/sitetrack-api/internal/application/task"
)

var (
	_ inventory.MovementRecorder = (*Metrics)(nil)
	_ task.TransitionRecorder    = (*Metrics)(nil)
)

const namespace = "sitetrack"

// Metrics instrumentos del dominio y de HTTP registrados en un Registry propio.
type Metrics struct {
	Registry *prometheus.Registry

	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	stockMovements  *prometheus.CounterVec
	importRows      *prometheus.CounterVec
	taskTransitions *prometheus.CounterVec
}

// New crea el registry con los colectores de runtime y los instrumentos de la aplicación.
func New(env string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	env = strings.TrimSpace(env)
	if env == "" {
		env = "unknown"
	}
	constLabels := prometheus.Labels{"env": env}

	m := &Metrics{
		Registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "http_requests_total",
			Help:        "Peticiones HTTP por método, ruta y estado.",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "http_request_duration_seconds",
			Help:        "Latencia de las peticiones HTTP.",
			Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			ConstLabels: constLabels,
		}, []string{"method", "route"}),
		stockMovements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "stock_movements_total",
			Help:        "Movimientos del libro de inventario por acción (IN, OUT, TRANSFER).",
			ConstLabels: constLabels,
		}, []string{"action"}),
		importRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "product_import_rows_total",
			Help:        "Filas de importación de productos por resultado.",
			ConstLabels: constLabels,
		}, []string{"status"}),
		taskTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "task_transitions_total",
			Help:        "Transiciones de tareas aplicadas por acción.",
			ConstLabels: constLabels,
		}, []string{"action"}),
	}
	reg.MustRegister(m.httpRequests, m.httpDuration, m.stockMovements, m.importRows, m.taskTransitions)
	return m
}

func (m *Metrics) StockMovement(action string) {
	m.stockMovements.WithLabelValues(action).Inc()
}

func (m *Metrics) ImportRow(status string) {
	m.importRows.WithLabelValues(status).Inc()
}

func (m *Metrics) TaskTransition(action string) {
	m.taskTransitions.WithLabelValues(action).Inc()
}

// Middleware cuenta peticiones por ruta registrada (no por path) para acotar la cardinalidad.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else if status < fiber.StatusBadRequest {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}
