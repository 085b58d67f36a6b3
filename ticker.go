// adapted from https://github.com/golang/go/issues/19810#issuecomment-291170511
package envsim

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// skipLogInterval defines how often to log skipped tick statistics
const skipLogInterval = 30 * time.Second

// wallTicker fires on wall-clock instants aligned to the tick interval,
// shifted by the device's stagger offset. Ticks the consumer cannot keep up
// with are dropped, so a slow sink never backs up the schedule.
type wallTicker struct {
	C            <-chan time.Time
	align        time.Duration
	offset       time.Duration
	stop         chan bool
	c            chan time.Time
	skew         float64
	d            time.Duration
	last         time.Time
	skippedTicks int64
	lastLogTime  time.Time
	deviceID     string
	logger       *log.Logger
	metrics      MetricsRecorder
}

func newWallTicker(align, offset time.Duration, deviceID string, logger *log.Logger, metrics MetricsRecorder) *wallTicker {
	now := time.Now()
	w := &wallTicker{
		align:       align,
		offset:      offset,
		stop:        make(chan bool),
		c:           make(chan time.Time, 1),
		skew:        1.0,
		lastLogTime: now,
		deviceID:    deviceID,
		logger:      logger,
		metrics:     metrics,
	}
	w.C = w.c
	w.start()
	return w
}

func (w *wallTicker) start() {
	now := time.Now()
	d := time.Until(now.Add(-w.offset).Add(w.align * 4 / 3).Truncate(w.align).Add(w.offset))
	d = time.Duration(float64(d) / w.skew)
	w.d = d
	w.last = now

	if w.metrics != nil {
		w.metrics.UpdateTickPacing(w.deviceID, w.skew, d.Seconds())
	}

	time.AfterFunc(d, w.tick)
}

func (w *wallTicker) tick() {
	const α = 0.7
	now := time.Now()
	if now.After(w.last) {
		w.skew = w.skew*α + (float64(now.Sub(w.last))/float64(w.d))*(1-α)

		select {
		case <-w.stop:
			return
		case w.c <- now:
			// Tick sent successfully
		default:
			// Channel full, drop this tick
			w.skippedTicks++

			if now.Sub(w.lastLogTime) >= skipLogInterval {
				if w.skippedTicks > 0 && w.logger != nil {
					w.logger.WithFields(log.Fields{
						"device":        w.deviceID,
						"skipped_ticks": w.skippedTicks,
					}).Warnf("Dropped %d ticks in the last %v", w.skippedTicks, skipLogInterval)
				}
				w.skippedTicks = 0
				w.lastLogTime = now
			}
		}
	}
	w.start()
}

func (w *wallTicker) Stop() {
	close(w.stop)
}
