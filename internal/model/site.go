package model

// SiteLocation is where the asset is built.
type SiteLocation struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
	AltitudeM float64 `json:"altitude_m,omitempty" yaml:"altitude_m"`
	Name      string  `json:"name,omitempty" yaml:"name"`
}

// Validate checks coordinate ranges.
func (s SiteLocation) Validate() error {
	if s.Latitude < -90 || s.Latitude > 90 {
		return Invalid("location.latitude", "%v outside [-90, 90]", s.Latitude)
	}
	if s.Longitude < -180 || s.Longitude > 180 {
		return Invalid("location.longitude", "%v outside [-180, 180]", s.Longitude)
	}
	return nil
}

// SouthernHemisphere reports whether seasons are inverted at this site.
func (s SiteLocation) SouthernHemisphere() bool {
	return s.Latitude < 0
}
