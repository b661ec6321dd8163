package types

import "fmt"

// Tier is the discrete weather risk classification for a leg.
type Tier string

const (
	TierLow    Tier = "LOW"
	TierMedium Tier = "MEDIUM"
	TierHigh   Tier = "HIGH"
)

// Severity orders tiers for worst-case comparison.
func (t Tier) Severity() int {
	switch t {
	case TierHigh:
		return 2
	case TierMedium:
		return 1
	default:
		return 0
	}
}

// Color is the display color the frontend expects for each tier.
func (t Tier) Color() string {
	switch t {
	case TierHigh:
		return "red"
	case TierMedium:
		return "yellow"
	default:
		return "green"
	}
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %v: %v", e.Field, e.Reason)
}

// Stop is one delivery stop on a route. Immutable once selected.
type Stop struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	ShortName string  `json:"shortName,omitempty"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

func (s Stop) Validate() error {
	if s.Latitude < -90 || s.Latitude > 90 {
		return ValidationError{Field: "lat", Reason: fmt.Sprintf("%v outside [-90,90]", s.Latitude)}
	}
	if s.Longitude < -180 || s.Longitude > 180 {
		return ValidationError{Field: "lng", Reason: fmt.Sprintf("%v outside [-180,180]", s.Longitude)}
	}
	return nil
}

// Observation is the destination-side weather forecast for one leg.
type Observation struct {
	PrecipProbability float64 `json:"precipitation_probability"`
	WindSpeedKMH      float64 `json:"wind_speed_kmh"`
	TemperatureC      float64 `json:"temperature_celsius"`
	WeatherCode       int     `json:"weather_code"`
	Condition         string  `json:"condition,omitempty"`
}

func (o Observation) Validate() error {
	if o.PrecipProbability < 0 || o.PrecipProbability > 100 {
		return ValidationError{Field: "precipitation_probability", Reason: fmt.Sprintf("%v outside [0,100]", o.PrecipProbability)}
	}
	if o.WindSpeedKMH < 0 {
		return ValidationError{Field: "wind_speed_kmh", Reason: fmt.Sprintf("%v is negative", o.WindSpeedKMH)}
	}
	return nil
}

// Assessment is the risk classification derived from one Observation.
type Assessment struct {
	Tier       Tier     `json:"risk_level"`
	Color      string   `json:"risk_color"`
	Multiplier float64  `json:"risk_multiplier"`
	Factors    []string `json:"risk_factors"`
}

// Leg is one origin->destination segment with derived geometry.
// Distance and base duration are always recomputable from the two stops.
type Leg struct {
	Origin      Stop    `json:"from"`
	Destination Stop    `json:"to"`
	Sequence    int     `json:"leg_number"`
	DistanceKM  float64 `json:"distance_km"`
	BaseHours   float64 `json:"base_eta_hours"`
}

// AnnotatedLeg is a Leg merged with its weather and risk assessment.
// AdjustedHours >= BaseHours always (multiplier >= 1.0).
type AnnotatedLeg struct {
	Leg
	Assessment
	Weather       Observation `json:"weather"`
	AdjustedHours float64     `json:"adjusted_eta_hours"`
	DelayHours    float64     `json:"delay_hours"`
}

// Summary is the route-level rollup. Computed fresh per request.
type Summary struct {
	TotalDistanceKM    float64 `json:"total_distance_km"`
	TotalBaseHours     float64 `json:"total_base_eta_hours"`
	TotalAdjustedHours float64 `json:"total_adjusted_eta_hours"`
	TotalDelayHours    float64 `json:"total_delay_hours"`
	HighRiskLegs       int     `json:"high_risk_legs"`
	MediumRiskLegs     int     `json:"medium_risk_legs"`
	LowRiskLegs        int     `json:"low_risk_legs"`
	OverallRisk        Tier    `json:"overall_risk"`
}
