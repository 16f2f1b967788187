package ports

import "time"

// Metrics puerto de observabilidad del motor de reservas y pedidos.
type Metrics interface {
	ReservationChanged(op string, quantity int)
	ReservationRejected(reason string)
	CartEvent(event string)
	OrderTransition(status string)
	AcceptFailed()
	ReclaimRun(scanned, expired, failed int, elapsed time.Duration)
	TxRetry()
}

// NopMetrics implementación vacía para tests y para METRICS_ENABLED=false.
type NopMetrics struct{}

func (NopMetrics) ReservationChanged(string, int)          {}
func (NopMetrics) ReservationRejected(string)              {}
func (NopMetrics) CartEvent(string)                        {}
func (NopMetrics) OrderTransition(string)                  {}
func (NopMetrics) AcceptFailed()                           {}
func (NopMetrics) ReclaimRun(int, int, int, time.Duration) {}
func (NopMetrics) TxRetry()                                {}
