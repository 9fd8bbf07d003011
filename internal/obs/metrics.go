package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics groups Prometheus collectors for HTTP observability.
type HTTPMetrics struct {
	ReqTotal *prometheus.CounterVec
	ReqDur   *prometheus.HistogramVec
	InFlight prometheus.Gauge
}

// NewHTTPMetrics registers and returns HTTP metrics collectors.
func NewHTTPMetrics(namespace string, reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &HTTPMetrics{
		ReqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled by the server.",
		}, []string{"method", "route", "status"}),
		ReqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency distribution in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}, []string{"method", "route"}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
	}
	registerOrReuse(reg, m.ReqTotal, func(c prometheus.Collector) {
		if v, ok := c.(*prometheus.CounterVec); ok {
			m.ReqTotal = v
		}
	})
	registerOrReuse(reg, m.ReqDur, func(c prometheus.Collector) {
		if v, ok := c.(*prometheus.HistogramVec); ok {
			m.ReqDur = v
		}
	})
	registerOrReuse(reg, m.InFlight, func(c prometheus.Collector) {
		if v, ok := c.(prometheus.Gauge); ok {
			m.InFlight = v
		}
	})
	return m
}

var (
	domainOnce sync.Once

	// VariantsGeneratedTotal counts variants produced by matrix regeneration.
	VariantsGeneratedTotal prometheus.Counter
	// VariantDedupDroppedTotal counts redundant variants dropped on read.
	VariantDedupDroppedTotal prometheus.Counter
	// QuotationsComputedTotal counts totals computations by surface.
	QuotationsComputedTotal *prometheus.CounterVec
	// LeadsConvertedTotal counts calculator leads turned into quotations.
	LeadsConvertedTotal prometheus.Counter
)

// MustRegisterDomainMetrics initialises the domain-specific collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		VariantsGeneratedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "variants_generated_total",
			Help:      "Number of variants produced by matrix regeneration.",
		})
		VariantDedupDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "variant_dedup_dropped_total",
			Help:      "Number of redundant variants dropped by deduplication.",
		})
		QuotationsComputedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotations_computed_total",
			Help:      "Number of quotation totals computations by surface.",
		}, []string{"surface"})
		LeadsConvertedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leads_converted_total",
			Help:      "Number of calculator leads converted into quotations.",
		})

		registerOrReuse(reg, VariantsGeneratedTotal, func(c prometheus.Collector) {
			if v, ok := c.(prometheus.Counter); ok {
				VariantsGeneratedTotal = v
			}
		})
		registerOrReuse(reg, VariantDedupDroppedTotal, func(c prometheus.Collector) {
			if v, ok := c.(prometheus.Counter); ok {
				VariantDedupDroppedTotal = v
			}
		})
		registerOrReuse(reg, QuotationsComputedTotal, func(c prometheus.Collector) {
			if v, ok := c.(*prometheus.CounterVec); ok {
				QuotationsComputedTotal = v
			}
		})
		registerOrReuse(reg, LeadsConvertedTotal, func(c prometheus.Collector) {
			if v, ok := c.(prometheus.Counter); ok {
				LeadsConvertedTotal = v
			}
		})
	})
}

// IncQuotationsComputed bumps the computation counter for one rendering or
// persistence surface. Safe before registration.
func IncQuotationsComputed(surface string) {
	if QuotationsComputedTotal != nil {
		QuotationsComputedTotal.WithLabelValues(surface).Inc()
	}
}

// IncLeadsConverted bumps the lead conversion counter. Safe before
// registration.
func IncLeadsConverted() {
	if LeadsConvertedTotal != nil {
		LeadsConvertedTotal.Inc()
	}
}

// AddVariantsGenerated records n generated variants. Safe before
// registration.
func AddVariantsGenerated(n int) {
	if VariantsGeneratedTotal != nil && n > 0 {
		VariantsGeneratedTotal.Add(float64(n))
	}
}

// AddVariantDedupDropped records n dropped duplicates. Safe before
// registration.
func AddVariantDedupDropped(n int) {
	if VariantDedupDroppedTotal != nil && n > 0 {
		VariantDedupDroppedTotal.Add(float64(n))
	}
}

func registerOrReuse(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register metric: %w", err))
	}
}
