package geo

import (
	"math"

	t "skycourier/internal/types"
)

type Config struct {
	EarthRadiusKM  float64
	CruiseSpeedKMH float64
}

func DefaultConfig() Config {
	return Config{
		EarthRadiusKM:  6371,
		CruiseSpeedKMH: 800,
	}
}

// Calculator derives great-circle distance and baseline travel time
// between two stops. Configuration is fixed at construction.
type Calculator struct {
	cfg Config
}

func NewCalculator(cfg Config) *Calculator {
	def := DefaultConfig()
	if cfg.EarthRadiusKM <= 0 {
		cfg.EarthRadiusKM = def.EarthRadiusKM
	}
	if cfg.CruiseSpeedKMH <= 0 {
		cfg.CruiseSpeedKMH = def.CruiseSpeedKMH
	}
	return &Calculator{cfg: cfg}
}

// Distance returns the haversine distance between two stops in km.
// Never negative; zero iff both stops share coordinates.
func (c *Calculator) Distance(origin, destination t.Stop) float64 {
	lat1 := origin.Latitude * math.Pi / 180
	lat2 := destination.Latitude * math.Pi / 180
	dLat := (destination.Latitude - origin.Latitude) * math.Pi / 180
	dLon := (destination.Longitude - origin.Longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return c.cfg.EarthRadiusKM * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Leg builds the geometric leg for a consecutive stop pair. Base
// duration assumes the configured cruising speed.
func (c *Calculator) Leg(seq int, origin, destination t.Stop) t.Leg {
	distance := c.Distance(origin, destination)
	return t.Leg{
		Origin:      origin,
		Destination: destination,
		Sequence:    seq,
		DistanceKM:  distance,
		BaseHours:   distance / c.cfg.CruiseSpeedKMH,
	}
}
