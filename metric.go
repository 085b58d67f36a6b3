package envsim

// Metric identifies one of the six environmental quantities a device reports.
type Metric string

const (
	MetricTemperature Metric = "temperature"
	MetricHumidity    Metric = "humidity"
	MetricCO2         Metric = "co2"
	MetricNO2         Metric = "no2"
	MetricPM25        Metric = "pm25"
	MetricPM10        Metric = "pm10"
)

// Metrics lists all reported metrics in payload order.
var Metrics = []Metric{
	MetricTemperature,
	MetricHumidity,
	MetricCO2,
	MetricNO2,
	MetricPM25,
	MetricPM10,
}

var units = map[Metric]string{
	MetricTemperature: "°C",
	MetricHumidity:    "%",
	MetricCO2:         "ppm",
	MetricNO2:         "µg/m³",
	MetricPM25:        "µg/m³",
	MetricPM10:        "µg/m³",
}

// Unit returns the display unit for the metric.
func (m Metric) Unit() string {
	return units[m]
}
