// environmental sensor fleet simulator
package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/nhahub/envsim"
)

const appVersion = "dev"

func main() {
	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup logging
	setupLogging(cfg.Simulator.LogLevel)

	loc, err := time.LoadLocation(cfg.Simulator.Timezone)
	if err != nil {
		log.WithError(err).WithField("timezone", cfg.Simulator.Timezone).Fatal("Invalid timezone")
	}

	registry, err := envsim.LoadRegistry(cfg.Simulator.DevicesFile, cfg.Simulator.RegionsFile)
	if err != nil {
		log.WithError(err).Fatal("Failed to load device registry")
	}

	log.WithFields(log.Fields{
		"version":  appVersion,
		"devices":  len(registry.Devices),
		"interval": cfg.Interval().String(),
		"timezone": cfg.Simulator.Timezone,
	}).Info("Starting environmental sensor simulator")

	// Initialize metrics
	initMetrics(appVersion, cfg, registry)

	// Start metrics HTTP server
	go func() {
		metricsAddr := fmt.Sprintf(":%d", cfg.Simulator.MetricsPort)
		log.WithField("address", metricsAddr).Info("Starting metrics server")
		http.Handle("/metrics", promhttp.Handler())
		http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
			// dummy endpoint
			w.WriteHeader(http.StatusNoContent)
		})

		if err := http.ListenAndServe(metricsAddr, nil); err != nil {
			log.WithError(err).Fatal("Failed to start metrics server")
		}
	}()

	devices, err := buildFleet(cfg, registry, loc)
	if err != nil {
		log.WithError(err).Fatal("Failed to build fleet")
	}

	fleet := envsim.NewFleet(devices...)
	defer fleet.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fleet.Run(ctx)
	log.Info("Stopping simulator")
}

// buildFleet wires one device per registration: an MQTT sink when the remote
// endpoint is reachable, the daily JSONL log when local logging is enabled.
// A device whose broker connection fails runs local-only; the whole process
// only fails when a device would end up with no sink at all.
func buildFleet(cfg *Config, registry *envsim.Registry, loc *time.Location) ([]*envsim.Device, error) {
	offsets := cfg.Offsets()
	recorder := promRecorder{}

	devices := make([]*envsim.Device, 0, len(registry.Devices))
	for i, reg := range registry.Devices {
		var sinks []envsim.Sink

		remote, err := envsim.NewMQTTSink(reg.DeviceID, reg.ConnectionString, cfg.Timeout())
		if err != nil {
			log.WithFields(log.Fields{
				"device": reg.DeviceID,
			}).WithError(err).Warn("Cannot reach remote endpoint, running local-only")
		} else {
			log.WithField("device", reg.DeviceID).Info("Connected to remote endpoint")
			sinks = append(sinks, remote)
		}

		if cfg.Simulator.LocalLog {
			local, err := envsim.NewJSONLSink(cfg.Simulator.LogDir)
			if err != nil {
				return nil, err
			}
			sinks = append(sinks, local)
		}

		if len(sinks) == 0 {
			return nil, fmt.Errorf("device %q has no usable sink", reg.DeviceID)
		}

		devices = append(devices, envsim.NewDevice(envsim.DeviceOptions{
			ID:          reg.DeviceID,
			Region:      reg.Region,
			Sinks:       sinks,
			Interval:    cfg.Interval(),
			StartOffset: offsets[i%len(offsets)],
			Location:    loc,
			Logger:      log.StandardLogger(),
			Metrics:     recorder,
		}))
	}

	return devices, nil
}
