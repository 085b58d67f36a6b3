package envsim

import (
	"encoding/json"
	"fmt"
	"os"
)

const defaultActivityEndHour = 22

// DeviceEntry is one record of the device list file: the device identity and
// the credential used to reach the remote ingestion endpoint.
type DeviceEntry struct {
	DeviceID         string `json:"deviceId"`
	ConnectionString string `json:"connectionString"`
}

// RegionProfile is the resolved, immutable region binding of a device:
// display name, coordinates, activity-end hour and the baseline readings the
// simulation starts from.
type RegionProfile struct {
	Name            string
	Lat             float64
	Lon             float64
	ActivityEndHour int
	Baseline        map[Metric]float64
}

// Registration joins a device entry with its region profile.
type Registration struct {
	DeviceEntry
	Region RegionProfile
}

// Registry is the static device/region mapping loaded once at startup.
// Read-only after load; safe for concurrent reads.
type Registry struct {
	Devices []Registration
}

// regionRecord mirrors one entry of the regions file on disk.
type regionRecord struct {
	RegionName  string   `json:"region_name"`
	Lat         float64  `json:"lat"`
	Lon         float64  `json:"lon"`
	ActivityEnd *int     `json:"activity_end"`
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
	CO2         *float64 `json:"co2"`
	NO2         *float64 `json:"no2"`
	PM25        *float64 `json:"pm25"`
	PM10        *float64 `json:"pm10"`
}

func (r *regionRecord) baseline() (map[Metric]float64, error) {
	fields := map[Metric]*float64{
		MetricTemperature: r.Temperature,
		MetricHumidity:    r.Humidity,
		MetricCO2:         r.CO2,
		MetricNO2:         r.NO2,
		MetricPM25:        r.PM25,
		MetricPM10:        r.PM10,
	}
	baseline := make(map[Metric]float64, len(Metrics))
	for _, m := range Metrics {
		v := fields[m]
		if v == nil {
			return nil, fmt.Errorf("missing baseline %q", m)
		}
		baseline[m] = *v
	}
	return baseline, nil
}

// LoadRegistry reads the device list and the region map and joins them.
// Any missing or invalid entry is an error: the simulator must not start
// with incomplete data.
func LoadRegistry(devicesPath, regionsPath string) (*Registry, error) {
	var entries []DeviceEntry
	if err := readJSONFile(devicesPath, &entries); err != nil {
		return nil, fmt.Errorf("loading devices: %w", err)
	}

	var records map[string]regionRecord
	if err := readJSONFile(regionsPath, &records); err != nil {
		return nil, fmt.Errorf("loading regions: %w", err)
	}

	reg := &Registry{Devices: make([]Registration, 0, len(entries))}
	for i, e := range entries {
		if e.DeviceID == "" || e.ConnectionString == "" {
			return nil, fmt.Errorf("invalid device entry at index %d in %s", i, devicesPath)
		}
		rec, ok := records[e.DeviceID]
		if !ok {
			return nil, fmt.Errorf("device %q has no entry in %s", e.DeviceID, regionsPath)
		}

		baseline, err := rec.baseline()
		if err != nil {
			return nil, fmt.Errorf("region %q: %w", e.DeviceID, err)
		}

		profile := RegionProfile{
			Name:            rec.RegionName,
			Lat:             rec.Lat,
			Lon:             rec.Lon,
			ActivityEndHour: defaultActivityEndHour,
			Baseline:        baseline,
		}
		if profile.Name == "" {
			profile.Name = e.DeviceID
		}
		if rec.ActivityEnd != nil {
			if *rec.ActivityEnd < 0 || *rec.ActivityEnd > 23 {
				return nil, fmt.Errorf("region %q: activity_end %d out of range", e.DeviceID, *rec.ActivityEnd)
			}
			profile.ActivityEndHour = *rec.ActivityEnd
		}

		reg.Devices = append(reg.Devices, Registration{DeviceEntry: e, Region: profile})
	}

	return reg, nil
}

func readJSONFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
