// Package metrics holds the Prometheus collectors for the scheduler.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the scheduler's collectors.
type Metrics struct {
	requests *prometheus.CounterVec
	dispatch *prometheus.CounterVec
	duration *prometheus.HistogramVec
	relay    *prometheus.CounterVec
}

// New creates the collectors and registers them on reg. Collectors already
// present on reg are reused.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.requests, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_requests_total",
		Help: "Requests handled, by selected response route",
	}, []string{"route"})); err != nil {
		return nil, err
	}

	if m.dispatch, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_sms_dispatch_total",
		Help: "SMS send attempts, by kind and outcome",
	}, []string{"kind", "outcome"})); err != nil {
		return nil, err
	}

	if m.duration, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scheduler_sms_dispatch_duration_seconds",
		Help:    "Time spent waiting on the SMS backend",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})); err != nil {
		return nil, err
	}

	if m.relay, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_relay_messages_total",
		Help: "Outbox records processed by the relay, by outcome",
	}, []string{"outcome"})); err != nil {
		return nil, err
	}

	return m, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		var zero T
		return zero, fmt.Errorf("register metric: %w", err)
	}
	return c, nil
}

// ObserveRoute counts a handled request.
func (m *Metrics) ObserveRoute(route string) {
	m.requests.WithLabelValues(route).Inc()
}

// ObserveDispatch records one SMS send attempt.
func (m *Metrics) ObserveDispatch(kind string, ok bool, elapsed time.Duration) {
	outcome := "sent"
	if !ok {
		outcome = "failed"
	}
	m.dispatch.WithLabelValues(kind, outcome).Inc()
	m.duration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// ObserveRelay counts one relayed outbox record.
func (m *Metrics) ObserveRelay(outcome string) {
	m.relay.WithLabelValues(outcome).Inc()
}
