package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/nhahub/envsim"
)

var (
	simulatorInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "envsim_info",
		Help: "Simulator information",
	}, []string{"version", "timezone"})

	devicesConfigured = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "envsim_devices_configured",
		Help: "Number of configured devices",
	})

	payloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "envsim_payloads_total",
		Help: "Payloads emitted per device and period",
	}, []string{"device", "period"})

	sinkErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "envsim_sink_errors_total",
		Help: "Failed payload deliveries per device and sink",
	}, []string{"device", "sink"})

	driftTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "envsim_baseline_drift_total",
		Help: "Hourly baseline drift applications per device and mode",
	}, []string{"device", "mode"})

	readingGauges = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "envsim_reading_value",
		Help: "Latest synthesized reading per device and metric",
	}, []string{"device", "metric"})

	tickSkew = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "envsim_tick_skew",
		Help: "Tick pacing skew factor per device",
	}, []string{"device"})

	tickDelay = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "envsim_tick_delay_seconds",
		Help: "Next tick delay in seconds per device",
	}, []string{"device"})
)

// promRecorder implements envsim.MetricsRecorder on the Prometheus gauges
// and counters above.
type promRecorder struct{}

func (promRecorder) RecordPayload(deviceID, period string) {
	payloadsTotal.WithLabelValues(deviceID, period).Inc()
}

func (promRecorder) RecordSinkError(deviceID, sink string) {
	sinkErrorsTotal.WithLabelValues(deviceID, sink).Inc()
}

func (promRecorder) RecordDrift(deviceID string, effectiveDay bool) {
	mode := "night"
	if effectiveDay {
		mode = "day"
	}
	driftTotal.WithLabelValues(deviceID, mode).Inc()
}

func (promRecorder) RecordReading(deviceID string, metric envsim.Metric, value float64) {
	readingGauges.WithLabelValues(deviceID, string(metric)).Set(value)
}

func (promRecorder) UpdateTickPacing(deviceID string, skew, delaySeconds float64) {
	tickSkew.WithLabelValues(deviceID).Set(skew)
	tickDelay.WithLabelValues(deviceID).Set(delaySeconds)
}

// initMetrics initializes the metrics with static values
func initMetrics(version string, cfg *Config, registry *envsim.Registry) {
	simulatorInfo.WithLabelValues(version, cfg.Simulator.Timezone).Set(1)
	devicesConfigured.Set(float64(len(registry.Devices)))

	for _, reg := range registry.Devices {
		for _, m := range envsim.Metrics {
			readingGauges.WithLabelValues(reg.DeviceID, string(m)).Set(reg.Region.Baseline[m])
		}
	}
}
