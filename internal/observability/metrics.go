package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "baysawaar"

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"method", "route"},
	)

	enrollmentSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "enrollment",
			Name:      "submissions_total",
			Help:      "Enrollment submissions by type and outcome",
		},
		[]string{"type", "outcome"}, // created, invalid, conflict, storage_error, error
	)

	enrollmentTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "enrollment",
			Name:      "status_transitions_total",
			Help:      "Enrollment status changes by target status",
		},
		[]string{"status"},
	)

	attachmentUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "attachments",
			Name:      "uploads_total",
			Help:      "Attachment uploads by role and result",
		},
		[]string{"role", "result"}, // stored, rejected, failed, timeout
	)

	contactSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "contact",
			Name:      "submissions_total",
			Help:      "Contact submissions by category",
		},
		[]string{"category"},
	)

	emailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "email",
			Name:      "sent_total",
			Help:      "Transactional emails by template and result",
		},
		[]string{"template", "result"},
	)
)

// ObserveHTTPRequest records one served request.
func ObserveHTTPRequest(method, route string, status int, latency time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(latency.Seconds())
}

func RecordEnrollmentSubmission(enrollmentType, outcome string) {
	enrollmentSubmissions.WithLabelValues(enrollmentType, outcome).Inc()
}

func RecordEnrollmentTransition(status string) {
	enrollmentTransitions.WithLabelValues(status).Inc()
}

func RecordAttachmentUpload(role, result string) {
	attachmentUploads.WithLabelValues(role, result).Inc()
}

func RecordContactSubmission(category string) {
	contactSubmissions.WithLabelValues(category).Inc()
}

func RecordEmailSent(template, result string) {
	emailsSent.WithLabelValues(template, result).Inc()
}
