// Package geo holds the coordinate value type and great-circle distance.
package geo

import (
	"math"
	"time"
)

// EarthRadiusMeters is the mean Earth radius used by Distance.
const EarthRadiusMeters = 6_371_000.0

// Coordinate is a GPS fix. AccuracyMeters and CapturedAt are optional and
// reported by the device; venue coordinates leave both nil.
type Coordinate struct {
	Latitude       float64
	Longitude      float64
	AccuracyMeters *float64
	CapturedAt     *time.Time
}

// At builds a coordinate without accuracy or capture time.
func At(lat, lon float64) Coordinate {
	return Coordinate{Latitude: lat, Longitude: lon}
}

// WithAccuracy returns a copy of c carrying the given horizontal accuracy.
func (c Coordinate) WithAccuracy(meters float64) Coordinate {
	c.AccuracyMeters = &meters
	return c
}

// WithCapturedAt returns a copy of c carrying the device capture time.
func (c Coordinate) WithCapturedAt(t time.Time) Coordinate {
	c.CapturedAt = &t
	return c
}

// InRange reports whether latitude and longitude are finite and within
// [-90, 90] and [-180, 180].
func (c Coordinate) InRange() bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// Distance returns the haversine distance between a and b in meters.
func Distance(a, b Coordinate) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	// rounding can push h a hair past 1 for antipodal points
	h = math.Min(1, math.Max(0, h))

	return 2 * EarthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
