package envsim

import (
	"time"

	"github.com/nathan-osman/go-sunrise"
)

// SunTimes returns the sunrise and sunset instants for the calendar date of
// the given time at the given coordinates, converted into loc. It is a pure
// function of its arguments and is recomputed every tick so that the date
// rollover at midnight is picked up immediately.
func SunTimes(date time.Time, lat, lon float64, loc *time.Location) (sunriseAt, sunsetAt time.Time) {
	rise, set := sunrise.SunriseSunset(lat, lon, date.Year(), date.Month(), date.Day())
	return rise.In(loc), set.In(loc)
}
