package risk

import (
	"fmt"
	"math"

	t "skycourier/internal/types"
)

// CodeRange is an inclusive range of WMO weather condition codes.
type CodeRange struct {
	Lo, Hi int
}

type Config struct {
	SnowCodes        []CodeRange
	PrecipThreshold  float64
	WindThreshold    float64
	SnowMultiplier   float64
	PrecipMultiplier float64
	WindMultiplier   float64
}

func DefaultConfig() Config {
	return Config{
		SnowCodes:        []CodeRange{{Lo: 71, Hi: 77}, {Lo: 85, Hi: 86}},
		PrecipThreshold:  70,
		WindThreshold:    40,
		SnowMultiplier:   1.40,
		PrecipMultiplier: 1.30,
		WindMultiplier:   1.15,
	}
}

// Classifier maps a weather observation to a risk tier and ETA
// multiplier. Thresholds are fixed at construction, never read from
// ambient state.
type Classifier struct {
	cfg Config
}

func NewClassifier(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify evaluates every rule against the observation. Each matched
// rule records a factor; the tier is never downgraded by a later
// match and the multiplier is the max of matched rules, not a sum.
// Thresholds are strict: precip 70 and wind 40 exactly do not match.
func (c *Classifier) Classify(obs t.Observation) t.Assessment {
	a := t.Assessment{
		Tier:       t.TierLow,
		Multiplier: 1.0,
	}

	if c.isSnowCode(obs.WeatherCode) {
		a.Tier = t.TierHigh
		a.Multiplier = math.Max(a.Multiplier, c.cfg.SnowMultiplier)
		a.Factors = append(a.Factors, fmt.Sprintf("snow/ice conditions (code %d)", obs.WeatherCode))
	}

	if obs.PrecipProbability > c.cfg.PrecipThreshold {
		a.Tier = t.TierHigh
		a.Multiplier = math.Max(a.Multiplier, c.cfg.PrecipMultiplier)
		a.Factors = append(a.Factors, fmt.Sprintf("high precipitation (%v%%)", obs.PrecipProbability))
	}

	if obs.WindSpeedKMH > c.cfg.WindThreshold {
		if a.Tier != t.TierHigh {
			a.Tier = t.TierMedium
		}
		a.Multiplier = math.Max(a.Multiplier, c.cfg.WindMultiplier)
		a.Factors = append(a.Factors, fmt.Sprintf("high winds (%v km/h)", obs.WindSpeedKMH))
	}

	if len(a.Factors) == 0 {
		a.Factors = append(a.Factors, "clear conditions")
	}
	a.Color = a.Tier.Color()
	return a
}

func (c *Classifier) isSnowCode(code int) bool {
	for _, r := range c.cfg.SnowCodes {
		if code >= r.Lo && code <= r.Hi {
			return true
		}
	}
	return false
}
