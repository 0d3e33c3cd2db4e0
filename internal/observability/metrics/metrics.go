package metrics

import "github.com/prometheus/client_golang/prometheus"

// SchedulingMetrics exposes counters/histograms for availability resolution.
type SchedulingMetrics struct {
	slotRequests     *prometheus.CounterVec
	slotsReturned    prometheus.Histogram
	validationTotal  *prometheus.CounterVec
	providerFailures prometheus.Counter
	resolveLatency   prometheus.Histogram
}

func NewSchedulingMetrics(reg prometheus.Registerer) *SchedulingMetrics {
	m := &SchedulingMetrics{
		slotRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "detailing",
			Subsystem: "schedule",
			Name:      "slot_requests_total",
			Help:      "Total slot generation requests",
		}, []string{"outcome"}),
		slotsReturned: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "detailing",
			Subsystem: "schedule",
			Name:      "slots_returned",
			Help:      "Number of candidate slots returned per request",
			Buckets:   []float64{0, 1, 3, 5, 10, 20},
		}),
		validationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "detailing",
			Subsystem: "schedule",
			Name:      "validation_total",
			Help:      "Total appointment validation requests",
		}, []string{"result"}),
		providerFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "detailing",
			Subsystem: "schedule",
			Name:      "provider_failures_total",
			Help:      "External free/busy queries that failed or timed out",
		}),
		resolveLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "detailing",
			Subsystem: "schedule",
			Name:      "busy_resolve_latency_seconds",
			Help:      "Latency of busy-set aggregation",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.slotRequests, m.slotsReturned, m.validationTotal, m.providerFailures, m.resolveLatency)
	return m
}

func (m *SchedulingMetrics) ObserveSlotRequest(outcome string, slots int) {
	if m == nil {
		return
	}
	m.slotRequests.WithLabelValues(outcome).Inc()
	m.slotsReturned.Observe(float64(slots))
}

func (m *SchedulingMetrics) ObserveValidation(result string) {
	if m == nil {
		return
	}
	m.validationTotal.WithLabelValues(result).Inc()
}

func (m *SchedulingMetrics) ObserveProviderFailure() {
	if m == nil {
		return
	}
	m.providerFailures.Inc()
}

func (m *SchedulingMetrics) ObserveResolveLatency(seconds float64) {
	if m == nil {
		return
	}
	m.resolveLatency.Observe(seconds)
}
