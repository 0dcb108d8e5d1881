package observability

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics aggregates counters for the chat pipeline, broken down by the
// service that handled each request (chat, schedule, exam, websearch).
type Metrics struct {
	mu sync.Mutex

	requestTotal  atomic.Int64
	requestFailed atomic.Int64

	serviceMetrics map[string]*ServiceMetrics
}

// ServiceMetrics holds counters for one pipeline service.
type ServiceMetrics struct {
	requestCount  atomic.Int64
	totalDuration atomic.Int64 // milliseconds
	errorCount    atomic.Int64
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{serviceMetrics: make(map[string]*ServiceMetrics)}
}

var globalMetrics = NewMetrics()

// GlobalMetrics returns the process-wide metrics instance.
func GlobalMetrics() *Metrics {
	return globalMetrics
}

// RecordRequest records a handled request for a service.
func (m *Metrics) RecordRequest(service string) {
	m.requestTotal.Add(1)
	m.getServiceMetrics(service).requestCount.Add(1)
}

// RecordFailure records a failed request for a service.
func (m *Metrics) RecordFailure(service string) {
	m.requestFailed.Add(1)
	m.getServiceMetrics(service).errorCount.Add(1)
}

// RecordDuration records a request duration for a service.
func (m *Metrics) RecordDuration(service string, duration time.Duration) {
	m.getServiceMetrics(service).totalDuration.Add(duration.Milliseconds())
}

// GetRequestTotal returns the total number of requests.
func (m *Metrics) GetRequestTotal() int64 {
	return m.requestTotal.Load()
}

// GetRequestFailed returns the total number of failed requests.
func (m *Metrics) GetRequestFailed() int64 {
	return m.requestFailed.Load()
}

func (m *Metrics) getServiceMetrics(service string) *ServiceMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	sm, ok := m.serviceMetrics[service]
	if !ok {
		sm = &ServiceMetrics{}
		m.serviceMetrics[service] = sm
	}
	return sm
}

// GetAverageDuration returns the average duration in milliseconds for a service.
func (m *Metrics) GetAverageDuration(service string) int64 {
	sm := m.getServiceMetrics(service)
	count := sm.requestCount.Load()
	if count == 0 {
		return 0
	}
	return sm.totalDuration.Load() / count
}

// Reset resets all metrics (useful for testing).
func (m *Metrics) Reset() {
	m.requestTotal.Store(0)
	m.requestFailed.Store(0)

	m.mu.Lock()
	m.serviceMetrics = make(map[string]*ServiceMetrics)
	m.mu.Unlock()
}

// Snapshot returns a point-in-time copy of all counters.
func (m *Metrics) Snapshot() *MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	services := make(map[string]*ServiceMetricsSnapshot, len(m.serviceMetrics))
	for name, sm := range m.serviceMetrics {
		count := sm.requestCount.Load()
		snapshot := &ServiceMetricsSnapshot{
			RequestCount:  count,
			TotalDuration: sm.totalDuration.Load(),
			ErrorCount:    sm.errorCount.Load(),
		}
		if count > 0 {
			snapshot.AverageDuration = snapshot.TotalDuration / count
		}
		services[name] = snapshot
	}

	return &MetricsSnapshot{
		RequestTotal:  m.requestTotal.Load(),
		RequestFailed: m.requestFailed.Load(),
		Services:      services,
	}
}

// MetricsSnapshot represents a point-in-time snapshot of metrics.
type MetricsSnapshot struct {
	RequestTotal  int64
	RequestFailed int64
	Services      map[string]*ServiceMetricsSnapshot
}

// ServiceMetricsSnapshot represents counters for a single service.
type ServiceMetricsSnapshot struct {
	RequestCount    int64
	TotalDuration   int64
	ErrorCount      int64
	AverageDuration int64
}

// SuccessRate returns the success rate as a percentage (0-100).
func (s *MetricsSnapshot) SuccessRate() float64 {
	if s.RequestTotal == 0 {
		return 100.0
	}
	return float64(s.RequestTotal-s.RequestFailed) / float64(s.RequestTotal) * 100.0
}
