package envsim

// MetricsRecorder is an interface for tracking simulator activity.
// RecordPayload counts one emitted payload with its period tag.
// RecordSinkError counts a failed delivery to the named sink.
// RecordDrift counts one hourly baseline drift application.
// RecordReading exports the latest synthesized value of a metric.
// UpdateTickPacing exports the pacing skew and next-tick delay of a device.
type MetricsRecorder interface {
	RecordPayload(deviceID, period string)
	RecordSinkError(deviceID, sink string)
	RecordDrift(deviceID string, effectiveDay bool)
	RecordReading(deviceID string, metric Metric, value float64)
	UpdateTickPacing(deviceID string, skew, delaySeconds float64)
}
