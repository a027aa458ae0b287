package numeric

import "math"

// Standard atmosphere constants.
const (
	SeaLevelDensity     = 1.225    // kg/m³
	SeaLevelTemperature = 288.15   // K
	SeaLevelPressure    = 101325.0 // Pa
	LapseRate           = 0.0065   // K/m
	GasConstantDryAir   = 287.05   // J/(kg·K)
	Gravity             = 9.80665  // m/s²
	kelvinOffset        = 273.15
)

// ShearPowerLaw moves a wind speed measured at hRef to hTarget using the
// Hellmann exponent alpha.
func ShearPowerLaw(vRef, hRef, hTarget, alpha float64) float64 {
	if hTarget <= 0 || hRef <= 0 {
		return vRef
	}
	return vRef * math.Pow(hTarget/hRef, alpha)
}

// ShearLogLaw moves a wind speed using the logarithmic profile for roughness length z0.
func ShearLogLaw(vRef, hRef, hTarget, z0 float64) float64 {
	if hTarget <= 0 || hRef <= z0 || z0 <= 0 || hTarget <= z0 {
		return vRef
	}
	return vRef * math.Log(hTarget/z0) / math.Log(hRef/z0)
}

// AirDensity estimates air density at altitude. Pressure follows the
// barometric formula for the standard atmosphere; tempC is the local air temperature.
func AirDensity(altitudeM, tempC float64) float64 {
	aloft := SeaLevelTemperature - LapseRate*altitudeM
	if aloft <= 0 {
		return SeaLevelDensity
	}
	t := tempC + kelvinOffset
	if t <= 0 {
		return SeaLevelDensity
	}
	exp := Gravity / (GasConstantDryAir * LapseRate)
	p := SeaLevelPressure * math.Pow(1-LapseRate*altitudeM/SeaLevelTemperature, exp)
	return p / (GasConstantDryAir * t)
}

// AirDensityFromPressure applies the ideal gas law to a measured pressure.
func AirDensityFromPressure(pressurePa, tempC float64) float64 {
	t := tempC + kelvinOffset
	if t <= 0 || pressurePa <= 0 {
		return SeaLevelDensity
	}
	return pressurePa / (GasConstantDryAir * t)
}
