package weather

import (
	"context"
	"math/rand"
	"strings"
	"sync"

	t "skycourier/internal/types"
)

type preset struct {
	temp      float64
	precip    float64
	wind      float64
	code      int
	condition string
}

// Typical conditions per city; jitter is applied on top of these.
var presets = map[string]preset{
	"New York":  {temp: 2, precip: 45, wind: 28, code: 3, condition: "Partly Cloudy"},
	"London":    {temp: 6, precip: 75, wind: 42, code: 61, condition: "Light Rain"},
	"Tokyo":     {temp: 12, precip: 20, wind: 18, code: 2, condition: "Clear"},
	"Dubai":     {temp: 28, precip: 5, wind: 22, code: 0, condition: "Clear Sky"},
	"Sydney":    {temp: 26, precip: 35, wind: 30, code: 3, condition: "Scattered Clouds"},
	"São Paulo": {temp: 24, precip: 65, wind: 15, code: 80, condition: "Rain Showers"},
	"Paris":     {temp: 8, precip: 55, wind: 25, code: 45, condition: "Foggy"},
	"Moscow":    {temp: -8, precip: 80, wind: 35, code: 73, condition: "Heavy Snow"},
	"Beijing":   {temp: 0, precip: 30, wind: 45, code: 71, condition: "Light Snow"},
	"Mumbai":    {temp: 30, precip: 10, wind: 12, code: 1, condition: "Mostly Clear"},
	"Cairo":     {temp: 22, precip: 2, wind: 20, code: 0, condition: "Clear Sky"},
	"Cape Town": {temp: 24, precip: 15, wind: 38, code: 2, condition: "Few Clouds"},
}

var fallbackCodes = []int{0, 1, 2, 3, 45, 61, 71, 73, 80}

// Synthetic generates plausible observations without any network
// dependency. A fixed seed yields a reproducible sequence.
type Synthetic struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewSynthetic(seed int64) *Synthetic {
	return &Synthetic{rng: rand.New(rand.NewSource(seed))}
}

func (s *Synthetic) Forecast(_ context.Context, stop t.Stop) (t.Observation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := presets[shortName(stop)]
	if !ok {
		p = preset{
			temp:      float64(s.rng.Intn(36) - 5),
			precip:    float64(s.rng.Intn(101)),
			wind:      float64(s.rng.Intn(56) + 5),
			code:      fallbackCodes[s.rng.Intn(len(fallbackCodes))],
			condition: "Unknown",
		}
	}

	obs := t.Observation{
		TemperatureC:      p.temp + float64(s.rng.Intn(7)-3),
		PrecipProbability: clamp(p.precip+float64(s.rng.Intn(21)-10), 0, 100),
		WindSpeedKMH:      clamp(p.wind+float64(s.rng.Intn(16)-5), 0, 999),
		WeatherCode:       p.code,
		Condition:         p.condition,
	}
	return obs, nil
}

func shortName(stop t.Stop) string {
	if stop.ShortName != "" {
		return stop.ShortName
	}
	name, _, _ := strings.Cut(stop.Name, ",")
	return strings.TrimSpace(name)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
