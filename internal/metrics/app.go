package metrics

import (
	"time"

	"github.com/factlens/factlens/internal/observability"
)

// Application-level metrics following Prometheus conventions
var (
	// Submission metrics
	SubmissionsTotal       = "app_submissions_total"
	SubmissionsRejected    = "app_submissions_rejected_total"
	SubmissionPayloadBytes = "app_submission_payload_bytes"

	// Verification pipeline metrics
	VerificationsTotal    = "app_verifications_total"
	VerificationDuration  = "app_verification_duration_ms"
	PipelineQueueDepth    = "app_pipeline_queue_depth"
	PipelineAwaitTimeouts = "app_pipeline_await_timeouts_total"

	// History metrics
	HistoryDeletesTotal = "app_history_deletes_total"
	HistoryClearsTotal  = "app_history_clears_total"

	// Health check metrics
	HealthCheckTotal    = "app_health_check_total"
	HealthCheckDuration = "app_health_check_duration_ms"

	// Server lifecycle metrics
	ServerStartTime = "app_server_start_time_seconds"
	ServerUptime    = "app_server_uptime_seconds"
)

// RecordSubmission records an accepted submission by content type.
func RecordSubmission(contentType string) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			SubmissionsTotal,
			1,
			map[string]string{
				"content_type": contentType,
			},
		)
	}
}

// RecordSubmissionRejected records a submission rejected during validation.
func RecordSubmissionRejected(contentType string, reason string) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			SubmissionsRejected,
			1,
			map[string]string{
				"content_type": contentType,
				"reason":       reason,
			},
		)
	}
}

// RecordVerification records a completed verification with its outcome
// status and how long the pipeline took to resolve it.
func RecordVerification(status string, duration time.Duration) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			VerificationsTotal,
			1,
			map[string]string{
				"verification_status": status,
			},
		)

		_ = observability.TelemetrySystem.Histogram(
			VerificationDuration,
			duration,
			map[string]string{
				"verification_status": status,
			},
		)
	}
}

// SetPipelineQueueDepth sets the current pending-request queue depth.
func SetPipelineQueueDepth(depth int64) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Gauge(
			PipelineQueueDepth,
			float64(depth),
			nil,
		)
	}
}

// RecordAwaitTimeout records a caller giving up on a pending result.
func RecordAwaitTimeout() {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			PipelineAwaitTimeouts,
			1,
			nil,
		)
	}
}

// RecordHistoryDelete records a single-result deletion.
func RecordHistoryDelete() {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			HistoryDeletesTotal,
			1,
			nil,
		)
	}
}

// RecordHistoryClear records a full history clear with how many rows it removed.
func RecordHistoryClear(removed int64) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			HistoryClearsTotal,
			float64(removed),
			nil,
		)
	}
}

// RecordHealthCheck records a health check execution
func RecordHealthCheck(checkName string, healthy bool, duration time.Duration) {
	status := "healthy"
	if !healthy {
		status = "unhealthy"
	}

	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			HealthCheckTotal,
			1,
			map[string]string{
				"check":  checkName,
				"status": status,
			},
		)

		_ = observability.TelemetrySystem.Histogram(
			HealthCheckDuration,
			duration,
			map[string]string{
				"check": checkName,
			},
		)
	}
}

// SetServerStartTime records the server start time (Unix timestamp)
func SetServerStartTime(timestamp int64) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Gauge(
			ServerStartTime,
			float64(timestamp),
			nil,
		)
	}
}

// SetServerUptime records the server uptime in seconds
func SetServerUptime(seconds int64) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Gauge(
			ServerUptime,
			float64(seconds),
			nil,
		)
	}
}
