package envsim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	payloads []Payload
}

func (s *captureSink) Name() string             { return "capture" }
func (s *captureSink) Publish(p *Payload) error { s.payloads = append(s.payloads, *p); return nil }
func (s *captureSink) Close()                   {}

type failSink struct {
	calls int
}

func (s *failSink) Name() string           { return "fail" }
func (s *failSink) Publish(*Payload) error { s.calls++; return errors.New("endpoint unavailable") }
func (s *failSink) Close()                 {}

func testDevice(sinks ...Sink) *Device {
	return NewDevice(DeviceOptions{
		ID: "dev-01",
		Region: RegionProfile{
			Name:            "Test Region",
			Lat:             30.0444,
			Lon:             31.2357,
			ActivityEndHour: 22,
			Baseline:        testBaseline(),
		},
		Sinks:    sinks,
		Location: time.UTC,
	})
}

func TestTickEmitsToAllSinks(t *testing.T) {
	capture := &captureSink{}
	d := testDevice(capture)

	d.tick(time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC))

	require.Len(t, capture.payloads, 1)
	p := capture.payloads[0]
	assert.Equal(t, "dev-01", p.DeviceID)
	assert.Equal(t, "Test Region", p.Region)
	assert.Equal(t, "2026-08-31 14:00:00", p.Timestamp)
	assert.Equal(t, "day", p.Period)
	assert.Equal(t, 22, p.ActivityEndHour)
	assert.Equal(t, FormatReading(d.state.Current[MetricTemperature], MetricTemperature), p.Temperature)
}

func TestTickSinkFailureDoesNotStopLoop(t *testing.T) {
	failing := &failSink{}
	capture := &captureSink{}
	d := testDevice(failing, capture)

	d.tick(time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC))

	// The failing sink was tried, the healthy one still got the payload and
	// the state reflects what synthesis produced.
	assert.Equal(t, 1, failing.calls)
	require.Len(t, capture.payloads, 1)
	assert.Equal(t, FormatReading(d.state.Current[MetricCO2], MetricCO2), capture.payloads[0].CO2)

	// The next tick proceeds normally.
	d.tick(time.Date(2026, 8, 31, 14, 1, 30, 0, time.UTC))
	assert.Equal(t, 2, failing.calls)
	assert.Len(t, capture.payloads, 2)
}

func TestTickDriftsOncePerHour(t *testing.T) {
	capture := &captureSink{}
	d := testDevice(capture)

	d.tick(time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC))
	require.Equal(t, 14, d.state.lastDriftHour)

	baseline := make(map[Metric]float64)
	for m, v := range d.state.Baseline {
		baseline[m] = v
	}

	// Same hour: baseline must not move again.
	d.tick(time.Date(2026, 8, 31, 14, 45, 0, 0, time.UTC))
	assert.Equal(t, baseline, d.state.Baseline)

	d.tick(time.Date(2026, 8, 31, 15, 0, 0, 0, time.UTC))
	assert.Equal(t, 15, d.state.lastDriftHour)
}

func TestFleetRunStopsOnCancel(t *testing.T) {
	d := NewDevice(DeviceOptions{
		ID: "dev-01",
		Region: RegionProfile{
			Lat: 30, Lon: 31, ActivityEndHour: 22, Baseline: testBaseline(),
		},
		Sinks:       []Sink{&captureSink{}},
		StartOffset: time.Hour, // never reached
		Location:    time.UTC,
	})
	fleet := NewFleet(d)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		fleet.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("fleet did not stop after cancellation")
	}
}
