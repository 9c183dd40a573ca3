package qdispatch

import (
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type timeWindow struct {
	duration time.Duration
	count    int
}

/*
Metrics tracks dispatch activity: calls per operation and variant, failures,
contract violations and call latency. The same counts are mirrored into
prometheus collectors so a host process can expose them.
*/
type Metrics struct {
	mu sync.RWMutex

	Calls              map[string]int64
	Failures           map[string]int64
	ContractViolations int64
	CallCount          int64
	TotalCallTime      time.Duration

	AverageCallLatency time.Duration
	P95CallLatency     time.Duration
	P99CallLatency     time.Duration
	SuccessRate        float64

	latencyWindows []timeWindow
	windowSize     int

	callsVec      *prometheus.CounterVec
	failuresVec   *prometheus.CounterVec
	violationsVec *prometheus.CounterVec
	latencyHist   *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		Calls:          make(map[string]int64),
		Failures:       make(map[string]int64),
		latencyWindows: make([]timeWindow, 0, 1000), // Store last 1000 measurements
		windowSize:     1000,
		callsVec: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "qdispatch",
			Name:      "calls_total",
			Help:      "Operation invocations by operation and variant.",
		}, []string{"operation", "variant"}),
		failuresVec: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "qdispatch",
			Name:      "failures_total",
			Help:      "Operation invocations that returned an error.",
		}, []string{"operation", "variant"}),
		violationsVec: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "qdispatch",
			Name:      "contract_violations_total",
			Help:      "Calls rejected because their operands broke the calling contract.",
		}, []string{"operation"}),
		latencyHist: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "qdispatch",
			Name:      "call_duration_seconds",
			Help:      "Time spent inside an operation body.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"operation"}),
	}
}

// Register adds the prometheus collectors to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.callsVec, m.failuresVec, m.violationsVec, m.latencyHist} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func metricKey(operation string, variant Variant) string {
	return operation + "/" + variant.String()
}

func (m *Metrics) recordCall(operation string, variant Variant, startTime time.Time, err error) {
	duration := time.Since(startTime)
	key := metricKey(operation, variant)

	m.callsVec.WithLabelValues(operation, variant.String()).Inc()
	m.latencyHist.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.failuresVec.WithLabelValues(operation, variant.String()).Inc()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls[key]++
	m.CallCount++
	m.TotalCallTime += duration
	if err != nil {
		m.Failures[key]++
	}

	var failed int64
	for _, n := range m.Failures {
		failed += n
	}
	m.SuccessRate = float64(m.CallCount-failed) / float64(m.CallCount)

	m.updateLatencyPercentiles(duration)
}

func (m *Metrics) recordContractViolation(operation string) {
	m.violationsVec.WithLabelValues(operation).Inc()

	m.mu.Lock()
	m.ContractViolations++
	m.mu.Unlock()
}

// updateLatencyPercentiles assumes the caller holds the lock.
func (m *Metrics) updateLatencyPercentiles(duration time.Duration) {
	m.AverageCallLatency = (m.AverageCallLatency*time.Duration(m.CallCount-1) + duration) / time.Duration(m.CallCount)

	m.latencyWindows = append(m.latencyWindows, timeWindow{
		duration: duration,
		count:    1,
	})

	if len(m.latencyWindows) > m.windowSize {
		m.latencyWindows = m.latencyWindows[1:]
	}

	sorted := make([]time.Duration, 0, len(m.latencyWindows))
	for _, w := range m.latencyWindows {
		for i := 0; i < w.count; i++ {
			sorted = append(sorted, w.duration)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	if len(sorted) > 0 {
		p95Index := min(int(float64(len(sorted))*0.95), len(sorted)-1)
		p99Index := min(int(float64(len(sorted))*0.99), len(sorted)-1)

		m.P95CallLatency = sorted[p95Index]
		m.P99CallLatency = sorted[p99Index]
	}
}

// CallsFor returns how often operation was invoked with variant.
func (m *Metrics) CallsFor(operation string, variant Variant) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Calls[metricKey(operation, variant)]
}

func (m *Metrics) ExportMetrics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"call_count":          m.CallCount,
		"contract_violations": m.ContractViolations,
		"success_rate":        m.SuccessRate,
		"avg_latency":         m.AverageCallLatency.Microseconds(),
		"p95_latency":         m.P95CallLatency.Microseconds(),
		"p99_latency":         m.P99CallLatency.Microseconds(),
	}
}
