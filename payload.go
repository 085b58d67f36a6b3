package envsim

import (
	"strconv"
	"time"
)

// timestampLayout renders local naive timestamps in the payload.
const timestampLayout = "2006-01-02 15:04:05"

// Payload is the JSON object emitted once per tick per device. The field set
// is a compatibility surface for downstream consumers; readings are strings
// carrying their unit.
type Payload struct {
	DeviceID        string `json:"deviceId"`
	Region          string `json:"region"`
	Timestamp       string `json:"timestamp"`
	Temperature     string `json:"temperature"`
	Humidity        string `json:"humidity"`
	CO2             string `json:"co2"`
	NO2             string `json:"no2"`
	PM25            string `json:"pm25"`
	PM10            string `json:"pm10"`
	Period          string `json:"period"`
	Sunset          string `json:"sunset"`
	Sunrise         string `json:"sunrise"`
	ActivityEndHour int    `json:"activity_end_hour"`
}

// FormatReading renders a rounded reading with its unit, e.g. "29.29 °C".
func FormatReading(v float64, m Metric) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + m.Unit()
}

// BuildPayload assembles the tick payload from the synthesized readings.
// All timestamps are rendered naive in the location of now.
func BuildPayload(deviceID, region string, now, sunriseAt, sunsetAt time.Time,
	reg Regime, current map[Metric]float64, activityEndHour int) Payload {
	return Payload{
		DeviceID:        deviceID,
		Region:          region,
		Timestamp:       now.Format(timestampLayout),
		Temperature:     FormatReading(current[MetricTemperature], MetricTemperature),
		Humidity:        FormatReading(current[MetricHumidity], MetricHumidity),
		CO2:             FormatReading(current[MetricCO2], MetricCO2),
		NO2:             FormatReading(current[MetricNO2], MetricNO2),
		PM25:            FormatReading(current[MetricPM25], MetricPM25),
		PM10:            FormatReading(current[MetricPM10], MetricPM10),
		Period:          reg.Period(),
		Sunset:          sunsetAt.Format(timestampLayout),
		Sunrise:         sunriseAt.Format(timestampLayout),
		ActivityEndHour: activityEndHour,
	}
}
