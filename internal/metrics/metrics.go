// Package metrics содержит метрики Prometheus сервиса онбординга.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tutora24"

// Исходы подачи анкеты.
const (
	OutcomeSubmitted   = "submitted"
	OutcomeValidation  = "validation_error"
	OutcomeCredential  = "credential_error"
	OutcomeProfile     = "profile_error"
	OutcomeAssociation = "association_error"
	OutcomeInFlight    = "in_flight"
)

// Metrics хранит счётчики сервиса на собственном реестре.
type Metrics struct {
	registry *prometheus.Registry

	applications    *prometheus.CounterVec
	compensations   *prometheus.CounterVec
	publishFailures prometheus.Counter
	reviewDecisions *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// New регистрирует метрики в reg. Если reg равен nil, создаётся новый реестр
// со стандартными метриками Go‑рантайма и процесса.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	auto := promauto.With(reg)

	return &Metrics{
		registry: reg,
		applications: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "onboarding",
			Name:      "applications_total",
			Help:      "Tutor applications by outcome",
		}, []string{"outcome"}),
		compensations: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "onboarding",
			Name:      "compensations_total",
			Help:      "Credential deletions after a failed profile insert",
		}, []string{"result"}),
		publishFailures: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "onboarding",
			Name:      "event_publish_failures_total",
			Help:      "Application events that could not be published",
		}),
		reviewDecisions: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "review",
			Name:      "decisions_total",
			Help:      "Review decisions by resulting status and result",
		}, []string{"status", "result"}),
		cacheLookups: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "directory",
			Name:      "cache_lookups_total",
			Help:      "Directory cache lookups by result",
		}, []string{"result"}),
		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status code",
		}, []string{"route", "method", "status_code"}),
		httpRequestDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

// Handler отдаёт метрики реестра в формате Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ApplicationOutcome учитывает результат подачи анкеты.
func (m *Metrics) ApplicationOutcome(outcome string) {
	m.applications.WithLabelValues(outcome).Inc()
}

// Compensation учитывает попытку удалить учётную запись после сбоя.
func (m *Metrics) Compensation(ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.compensations.WithLabelValues(result).Inc()
}

// PublishFailed учитывает неотправленное событие.
func (m *Metrics) PublishFailed() {
	m.publishFailures.Inc()
}

// ReviewDecision учитывает обработанное решение модерации.
func (m *Metrics) ReviewDecision(status string, applied bool) {
	result := "applied"
	if !applied {
		result = "dropped"
	}
	m.reviewDecisions.WithLabelValues(status, result).Inc()
}

// CacheLookup учитывает попадание или промах кэша каталога.
func (m *Metrics) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveHTTP учитывает завершённый HTTP‑запрос.
func (m *Metrics) ObserveHTTP(route, method string, status int, took time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(took.Seconds())
}
