package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "whatsapp_relay"

type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Messaging Metrics
	MessagesSent      *prometheus.CounterVec
	MessagesReceived  *prometheus.CounterVec
	MessagesRejected  *prometheus.CounterVec
	StatusUpdates     *prometheus.CounterVec
	GatewayCalls      *prometheus.HistogramVec
	GatewayConnected  prometheus.Gauge
	ContactTransition *prometheus.CounterVec

	// Batch Metrics
	SyncContacts  *prometheus.CounterVec
	BulkMessages  *prometheus.CounterVec
	ScheduledRuns *prometheus.CounterVec

	// Database Metrics
	DBConnectionsInUse prometheus.Gauge
	DBConnectionsIdle  prometheus.Gauge

	// System Metrics
	ServiceUptime prometheus.Gauge
	Goroutines    prometheus.Gauge
	HeapAlloc     prometheus.Gauge

	// Validation Metrics
	ValidationErrors *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith registers every collector on reg.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests currently being served",
			},
		),

		MessagesSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "messages_sent_total",
				Help:      "Outbound messages by result",
			},
			[]string{"result"},
		),
		MessagesReceived: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "messages_received_total",
				Help:      "Inbound messages stored, by kind",
			},
			[]string{"kind"},
		),
		MessagesRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "messages_rejected_total",
				Help:      "Inbound payloads that produced no record, by reason",
			},
			[]string{"reason"},
		),
		StatusUpdates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "message_status_updates_total",
				Help:      "Delivery status callbacks by outcome",
			},
			[]string{"outcome"},
		),
		GatewayCalls: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "gateway_call_duration_seconds",
				Help:      "Duration of gateway calls in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"operation", "status"},
		),
		GatewayConnected: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "gateway_connected",
				Help:      "1 when the gateway reports a connected phone",
			},
		),
		ContactTransition: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "contact_status_transitions_total",
				Help:      "Contact status changes by target status",
			},
			[]string{"status"},
		),

		SyncContacts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "crm_sync_contacts_total",
				Help:      "CRM contacts processed by outcome",
			},
			[]string{"outcome"},
		),
		BulkMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bulk_messages_total",
				Help:      "Bulk send recipients by outcome",
			},
			[]string{"outcome"},
		),
		ScheduledRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scheduled_runs_total",
				Help:      "Scheduled task executions by kind and status",
			},
			[]string{"kind", "status"},
		),

		DBConnectionsInUse: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_connections_in_use",
				Help:      "Number of database connections currently in use",
			},
		),
		DBConnectionsIdle: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_connections_idle",
				Help:      "Number of idle database connections",
			},
		),

		ServiceUptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "service_uptime_seconds",
				Help:      "Service uptime in seconds",
			},
		),
		Goroutines: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "goroutines",
				Help:      "Number of goroutines currently running",
			},
		),
		HeapAlloc: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "heap_alloc_bytes",
				Help:      "Bytes of allocated heap objects",
			},
		),

		ValidationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_errors_total",
				Help:      "Total number of request validation errors",
			},
			[]string{"field", "tag"},
		),
	}
}

// --- Recording Methods ---

func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration.Seconds())
}

func (m *Metrics) RecordMessageSent(result string) {
	m.MessagesSent.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordMessageReceived(kind string) {
	m.MessagesReceived.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordMessageRejected(reason string) {
	m.MessagesRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) RecordStatusUpdate(outcome string) {
	m.StatusUpdates.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordGatewayCall(operation, status string, duration time.Duration) {
	m.GatewayCalls.WithLabelValues(operation, status).Observe(duration.Seconds())
}

func (m *Metrics) SetGatewayConnected(connected bool) {
	if connected {
		m.GatewayConnected.Set(1)
		return
	}
	m.GatewayConnected.Set(0)
}

func (m *Metrics) RecordContactTransition(status string) {
	m.ContactTransition.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordSyncContact(outcome string) {
	m.SyncContacts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordBulkMessage(outcome string) {
	m.BulkMessages.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordScheduledRun(kind, status string) {
	m.ScheduledRuns.WithLabelValues(kind, status).Inc()
}

func (m *Metrics) RecordValidationError(field, tag string) {
	m.ValidationErrors.WithLabelValues(field, tag).Inc()
}

func (m *Metrics) UpdateSystemMetrics(uptime time.Duration, memStats *runtime.MemStats) {
	m.ServiceUptime.Set(uptime.Seconds())
	m.Goroutines.Set(float64(runtime.NumGoroutine()))
	m.HeapAlloc.Set(float64(memStats.HeapAlloc))
}
