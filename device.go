package envsim

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultInterval is the default pause between tick starts of one device.
const DefaultInterval = 90 * time.Second

// DefaultStaggerOffsets is the default set of startup delays cycled across
// the fleet so devices do not all fire their first tick at the same instant.
var DefaultStaggerOffsets = []time.Duration{
	0,
	10 * time.Second,
	20 * time.Second,
	30 * time.Second,
	40 * time.Second,
	50 * time.Second,
	60 * time.Second,
	70 * time.Second,
}

// DeviceOptions configures a single simulated device.
type DeviceOptions struct {
	ID          string
	Region      RegionProfile
	Sinks       []Sink
	Interval    time.Duration // defaults to DefaultInterval
	StartOffset time.Duration
	Location    *time.Location // defaults to time.Local
	Rand        Rand           // defaults to the production source
	Logger      *log.Logger
	Metrics     MetricsRecorder
}

// Device runs the simulation loop for one registered sensor. It exclusively
// owns its SimState; devices never share mutable state, so no locking is
// needed anywhere in the loop.
type Device struct {
	id       string
	region   RegionProfile
	state    *SimState
	sinks    []Sink
	interval time.Duration
	offset   time.Duration
	loc      *time.Location
	rng      Rand
	logger   *log.Logger
	metrics  MetricsRecorder
}

// NewDevice creates a device with its state seeded from the region baseline.
func NewDevice(opts DeviceOptions) *Device {
	d := &Device{
		id:       opts.ID,
		region:   opts.Region,
		state:    NewSimState(opts.Region.Baseline),
		sinks:    opts.Sinks,
		interval: opts.Interval,
		offset:   opts.StartOffset,
		loc:      opts.Location,
		rng:      opts.Rand,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
	}
	if d.interval <= 0 {
		d.interval = DefaultInterval
	}
	if d.loc == nil {
		d.loc = time.Local
	}
	if d.rng == nil {
		d.rng = NewRand()
	}
	return d
}

// ID returns the device identity.
func (d *Device) ID() string { return d.id }

// log returns the logger or creates a default one
func (d *Device) log() *log.Logger {
	if d.logger == nil {
		d.logger = log.New()
	}
	return d.logger
}

// Run executes the device loop until ctx is cancelled: wait the stagger
// offset, then tick at the configured interval forever. A failing sink never
// stops the loop.
func (d *Device) Run(ctx context.Context) {
	d.log().WithFields(log.Fields{
		"device": d.id,
		"region": d.region.Name,
		"offset": d.offset.String(),
	}).Info("Device loop starting")

	select {
	case <-ctx.Done():
		return
	case <-time.After(d.offset):
	}

	d.tick(time.Now())

	ticker := newWallTicker(d.interval, d.offset, d.id, d.log(), d.metrics)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.log().WithField("device", d.id).Info("Device loop stopped")
			return
		case now := <-ticker.C:
			d.tick(now)
		}
	}
}

// tick performs one simulation step: classify the temporal regime, apply the
// hourly drift if due, synthesize readings, assemble the payload and hand it
// to every sink. Sink failures are independent of each other and of the
// simulation state.
func (d *Device) tick(now time.Time) {
	now = now.In(d.loc)
	sunriseAt, sunsetAt := SunTimes(now, d.region.Lat, d.region.Lon, d.loc)
	reg := ClassifyRegime(now, sunriseAt, sunsetAt, d.region.ActivityEndHour)

	if d.state.ApplyDriftIfDue(now, reg.EffectiveDay, d.rng) {
		d.log().WithFields(log.Fields{
			"device":        d.id,
			"effective_day": reg.EffectiveDay,
			"at":            now.Format(timestampLayout),
		}).Info("Hourly drift applied")
		if d.metrics != nil {
			d.metrics.RecordDrift(d.id, reg.EffectiveDay)
		}
	}

	d.state.Synthesize(reg, d.rng)

	p := BuildPayload(d.id, d.region.Name, now, sunriseAt, sunsetAt, reg,
		d.state.Current, d.region.ActivityEndHour)

	for _, s := range d.sinks {
		if err := s.Publish(&p); err != nil {
			d.log().WithFields(log.Fields{
				"device": d.id,
				"sink":   s.Name(),
			}).WithError(err).Error("Error delivering payload")
			if d.metrics != nil {
				d.metrics.RecordSinkError(d.id, s.Name())
			}
		}
	}

	if d.metrics != nil {
		d.metrics.RecordPayload(d.id, p.Period)
		for _, m := range Metrics {
			d.metrics.RecordReading(d.id, m, d.state.Current[m])
		}
	}

	d.log().WithFields(log.Fields{
		"device": d.id,
		"period": p.Period,
	}).Debug("Payload emitted")
}

// Close releases the device's sinks.
func (d *Device) Close() {
	for _, s := range d.sinks {
		s.Close()
	}
}

// Fleet owns one device loop per registered device and runs them
// concurrently. Devices are fully independent; the fleet only fans them out
// and waits for them.
type Fleet struct {
	devices []*Device
}

// NewFleet creates a fleet over the given devices.
func NewFleet(devices ...*Device) *Fleet {
	return &Fleet{devices: devices}
}

// Run starts every device loop and blocks until all of them have returned
// after ctx is cancelled.
func (f *Fleet) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, d := range f.devices {
		wg.Add(1)
		go func(d *Device) {
			defer wg.Done()
			d.Run(ctx)
		}(d)
	}
	wg.Wait()
}

// Close releases every device's sinks.
func (f *Fleet) Close() {
	for _, d := range f.devices {
		d.Close()
	}
}
