package envsim

import "time"

const (
	activityStartHour   = 6
	activityStartMinute = 30
)

// Regime captures the temporal flags that drive one simulation tick.
// Night follows the solar day; EffectiveDay follows the device's activity
// window and is computed independently of Night.
type Regime struct {
	Night            bool
	BeforeSunrise    bool
	AfterActivityEnd bool
	EffectiveDay     bool
}

// Quiet reports whether pollutant levels should trend downward: after the
// device's activity-end hour or before sunrise.
func (r Regime) Quiet() bool {
	return r.AfterActivityEnd || r.BeforeSunrise
}

// Period returns the payload period tag for the regime.
func (r Regime) Period() string {
	if r.Night {
		return "night"
	}
	return "day"
}

// ClassifyRegime derives the regime flags for now, given the solar events of
// the current date and the device's activity-end hour. All instants must be
// in the same location. The activity window starts at 06:30; an end hour of
// 0 means midnight of the next day, so the window never collapses to zero
// length.
func ClassifyRegime(now, sunriseAt, sunsetAt time.Time, activityEndHour int) Regime {
	activityStart := time.Date(now.Year(), now.Month(), now.Day(),
		activityStartHour, activityStartMinute, 0, 0, now.Location())
	activityEnd := time.Date(now.Year(), now.Month(), now.Day(),
		activityEndHour, 0, 0, 0, now.Location())
	if activityEndHour == 0 {
		activityEnd = activityEnd.AddDate(0, 0, 1)
	}

	beforeSunrise := now.Before(sunriseAt)
	afterSunset := !now.Before(sunsetAt)

	return Regime{
		Night:            afterSunset || beforeSunrise,
		BeforeSunrise:    beforeSunrise,
		AfterActivityEnd: !now.Before(activityEnd),
		EffectiveDay:     !now.Before(activityStart) && now.Before(activityEnd),
	}
}
