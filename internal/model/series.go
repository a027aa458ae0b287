package model

import "time"

// SeriesKind identifies what a resource series measures.
type SeriesKind string

const (
	SeriesWindSpeed   SeriesKind = "wind_speed"
	SeriesTemperature SeriesKind = "temperature"
	SeriesEnergy      SeriesKind = "energy"
	SeriesPrice       SeriesKind = "price"
)

// SeriesInfo holds display name and unit for a series kind.
type SeriesInfo struct {
	Name string
	Unit string
}

// SeriesCatalog maps every known SeriesKind to its display name and unit.
var SeriesCatalog = map[SeriesKind]SeriesInfo{
	SeriesWindSpeed:   {Name: "Daily Mean Wind Speed", Unit: "m/s"},
	SeriesTemperature: {Name: "Daily Mean Temperature", Unit: "°C"},
	SeriesEnergy:      {Name: "Monthly Energy", Unit: "kWh"},
	SeriesPrice:       {Name: "Energy Price", Unit: "EUR/kWh"},
}

// Sample is a single timestamped value of a resource series.
type Sample struct {
	Timestamp time.Time  `json:"timestamp"`
	SeriesID  string     `json:"series_id"`
	Kind      SeriesKind `json:"kind"`
	Value     float64    `json:"value"`
	Unit      string     `json:"unit"`
}

// Series describes a named resource series loaded from an external source.
type Series struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Kind SeriesKind `json:"kind"`
	Unit string     `json:"unit"`
}

// TimeRange is an inclusive time window.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Values extracts the sample values in order.
func Values(samples []Sample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Value
	}
	return out
}
