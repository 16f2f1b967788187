// Package metrics implementa ports.Metrics con Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/ports"
)

const namespace = "marketplace"

// Prometheus agrupa los colectores del motor de reservas y pedidos en un registro propio.
type Prometheus struct {
	registry *prometheus.Registry

	reservedUnits    *prometheus.CounterVec
	rejections       *prometheus.CounterVec
	cartEvents       *prometheus.CounterVec
	orderTransitions *prometheus.CounterVec
	acceptFailures   prometheus.Counter
	reclaimCarts     *prometheus.CounterVec
	reclaimDuration  prometheus.Histogram
	txRetries        prometheus.Counter
}

var _ ports.Metrics = (*Prometheus)(nil)

// New crea el registro con los colectores de proceso y Go incluidos.
func New() *Prometheus {
	m := &Prometheus{
		registry: prometheus.NewRegistry(),
		reservedUnits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "reservation", Name: "units_total",
			Help: "Unidades reservadas o liberadas, por operación.",
		}, []string{"op"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "reservation", Name: "rejections_total",
			Help: "Reservas rechazadas, por motivo.",
		}, []string{"reason"}),
		cartEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cart", Name: "events_total",
			Help: "Operaciones de carrito completadas.",
		}, []string{"event"}),
		orderTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "order", Name: "transitions_total",
			Help: "Transiciones de estado de pedidos, por estado destino.",
		}, []string{"status"}),
		acceptFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "order", Name: "accept_failures_total",
			Help: "Aceptaciones revertidas por fallo de infraestructura.",
		}),
		reclaimCarts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "reclaim", Name: "carts_total",
			Help: "Carritos procesados por el job de recuperación, por resultado.",
		}, []string{"result"}),
		reclaimDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "reclaim", Name: "sweep_duration_seconds",
			Help:    "Duración de cada barrido de carritos expirados.",
			Buckets: prometheus.DefBuckets,
		}),
		txRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "tx", Name: "retries_total",
			Help: "Transacciones reintentadas por conflicto de serialización o deadlock.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.reservedUnits, m.rejections, m.cartEvents, m.orderTransitions,
		m.acceptFailures, m.reclaimCarts, m.reclaimDuration, m.txRetries,
	)
	return m
}

// Registry expone el registro (tests y exportadores adicionales).
func (m *Prometheus) Registry() *prometheus.Registry { return m.registry }

// Handler sirve el formato de exposición de Prometheus.
func (m *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Prometheus) ReservationChanged(op string, quantity int) {
	if quantity < 0 {
		quantity = -quantity
	}
	m.reservedUnits.WithLabelValues(op).Add(float64(quantity))
}

func (m *Prometheus) ReservationRejected(reason string) {
	m.rejections.WithLabelValues(reason).Inc()
}

func (m *Prometheus) CartEvent(event string) {
	m.cartEvents.WithLabelValues(event).Inc()
}

func (m *Prometheus) OrderTransition(status string) {
	m.orderTransitions.WithLabelValues(status).Inc()
}

func (m *Prometheus) AcceptFailed() { m.acceptFailures.Inc() }

func (m *Prometheus) ReclaimRun(scanned, expired, failed int, elapsed time.Duration) {
	m.reclaimCarts.WithLabelValues("scanned").Add(float64(scanned))
	m.reclaimCarts.WithLabelValues("expired").Add(float64(expired))
	m.reclaimCarts.WithLabelValues("failed").Add(float64(failed))
	m.reclaimDuration.Observe(elapsed.Seconds())
}

func (m *Prometheus) TxRetry() { m.txRetries.Inc() }
