package engine

import (
	"errors"
	"math"
	"testing"

	"skycourier/internal/geo"
	"skycourier/internal/risk"
	t "skycourier/internal/types"
)

var (
	newYork = t.Stop{ID: "nyc", Name: "New York, NY, USA", Latitude: 40.7128, Longitude: -74.0060}
	london  = t.Stop{ID: "london", Name: "London, UK", Latitude: 51.5074, Longitude: -0.1278}
	tokyo   = t.Stop{ID: "tokyo", Name: "Tokyo, Japan", Latitude: 35.6762, Longitude: 139.6503}

	clearObs = t.Observation{PrecipProbability: 10, WindSpeedKMH: 15, TemperatureC: 10, WeatherCode: 0}
	snowObs  = t.Observation{PrecipProbability: 85, WindSpeedKMH: 48, TemperatureC: -5, WeatherCode: 75}
	windObs  = t.Observation{PrecipProbability: 20, WindSpeedKMH: 55, TemperatureC: 5, WeatherCode: 2}
)

var testCalc = geo.NewCalculator(geo.DefaultConfig())

func newTestEngine() *Engine {
	return New(testCalc, risk.NewClassifier(risk.DefaultConfig()))
}

func testLeg(seq int, a, b t.Stop) t.Leg {
	return testCalc.Leg(seq, a, b)
}

func TestMergeClearWeather(tt *testing.T) {
	e := newTestEngine()
	leg := testLeg(1, newYork, london)

	got, err := e.Merge(leg, clearObs)
	if err != nil {
		tt.Fatalf("unexpected error: %v", err)
	}
	if got.Tier != t.TierLow {
		tt.Fatalf("tier = %v, want LOW", got.Tier)
	}
	if got.Multiplier != 1.0 {
		tt.Fatalf("multiplier = %v, want 1.0", got.Multiplier)
	}
	if got.AdjustedHours != got.BaseHours {
		tt.Fatalf("adjusted = %v, base = %v; want equal under LOW", got.AdjustedHours, got.BaseHours)
	}
	if got.DelayHours != 0 {
		tt.Fatalf("delay = %v, want 0", got.DelayHours)
	}
}

func TestMergeHeavySnow(tt *testing.T) {
	e := newTestEngine()
	leg := testLeg(1, newYork, london)

	got, err := e.Merge(leg, snowObs)
	if err != nil {
		tt.Fatalf("unexpected error: %v", err)
	}
	if got.Tier != t.TierHigh {
		tt.Fatalf("tier = %v, want HIGH", got.Tier)
	}
	// Snow takes precedence over precipitation and wind.
	if got.Multiplier != 1.40 {
		tt.Fatalf("multiplier = %v, want 1.40", got.Multiplier)
	}
	if len(got.Factors) != 3 {
		tt.Fatalf("factors = %v, want all three triggering conditions", got.Factors)
	}
	if math.Abs(got.AdjustedHours-leg.BaseHours*1.40) > 1e-9 {
		tt.Fatalf("adjusted = %v, want %v", got.AdjustedHours, leg.BaseHours*1.40)
	}
	if math.Abs(got.DelayHours-(got.AdjustedHours-got.BaseHours)) > 1e-9 {
		tt.Fatalf("delay = %v, want adjusted-base", got.DelayHours)
	}
}

func TestMergeMonotonicity(tt *testing.T) {
	e := newTestEngine()
	leg := testLeg(1, newYork, tokyo)

	for _, obs := range []t.Observation{clearObs, snowObs, windObs,
		{PrecipProbability: 71}, {WindSpeedKMH: 40.01}, {WeatherCode: 86}} {
		got, err := e.Merge(leg, obs)
		if err != nil {
			tt.Fatalf("unexpected error: %v", err)
		}
		if got.AdjustedHours < got.BaseHours {
			tt.Fatalf("adjusted %v < base %v for %+v", got.AdjustedHours, got.BaseHours, obs)
		}
		if (got.AdjustedHours == got.BaseHours) != (got.Tier == t.TierLow) {
			tt.Fatalf("adjusted==base must hold iff tier LOW; tier=%v adjusted=%v base=%v",
				got.Tier, got.AdjustedHours, got.BaseHours)
		}
	}
}

func TestMergeInvalidObservation(tt *testing.T) {
	e := newTestEngine()
	leg := testLeg(1, newYork, london)

	_, err := e.Merge(leg, t.Observation{WindSpeedKMH: -1})
	var valErr t.ValidationError
	if !errors.As(err, &valErr) {
		tt.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestAggregateEmpty(tt *testing.T) {
	e := newTestEngine()
	_, err := e.Aggregate(nil)
	if !errors.Is(err, ErrEmptyRoute) {
		tt.Fatalf("expected ErrEmptyRoute, got %v", err)
	}
}

func TestAggregateSingleLeg(tt *testing.T) {
	e := newTestEngine()
	leg := testLeg(1, newYork, london)
	merged, err := e.Merge(leg, clearObs)
	if err != nil {
		tt.Fatalf("unexpected error: %v", err)
	}

	sum, err := e.Aggregate([]t.AnnotatedLeg{merged})
	if err != nil {
		tt.Fatalf("single-leg route must aggregate: %v", err)
	}
	if sum.LowRiskLegs != 1 || sum.OverallRisk != t.TierLow {
		tt.Fatalf("summary = %+v, want 1 LOW leg", sum)
	}
}

func TestAggregateTotalsAndCounts(tt *testing.T) {
	e := newTestEngine()
	legs := []t.AnnotatedLeg{
		mustMerge(tt, e, testLeg(1, newYork, london), clearObs),
		mustMerge(tt, e, testLeg(2, london, tokyo), windObs),
		mustMerge(tt, e, testLeg(3, tokyo, newYork), snowObs),
	}

	sum, err := e.Aggregate(legs)
	if err != nil {
		tt.Fatalf("unexpected error: %v", err)
	}
	if sum.LowRiskLegs != 1 || sum.MediumRiskLegs != 1 || sum.HighRiskLegs != 1 {
		tt.Fatalf("tier counts = %d/%d/%d, want 1/1/1",
			sum.LowRiskLegs, sum.MediumRiskLegs, sum.HighRiskLegs)
	}
	if sum.OverallRisk != t.TierHigh {
		tt.Fatalf("overall = %v, want HIGH", sum.OverallRisk)
	}

	var wantDistance, wantBase, wantAdjusted, wantDelay float64
	for _, leg := range legs {
		wantDistance += leg.DistanceKM
		wantBase += leg.BaseHours
		wantAdjusted += leg.AdjustedHours
		wantDelay += leg.DelayHours
	}
	if math.Abs(sum.TotalDistanceKM-wantDistance) > 1e-9 ||
		math.Abs(sum.TotalBaseHours-wantBase) > 1e-9 ||
		math.Abs(sum.TotalAdjustedHours-wantAdjusted) > 1e-9 ||
		math.Abs(sum.TotalDelayHours-wantDelay) > 1e-9 {
		tt.Fatalf("totals drifted: %+v", sum)
	}
}

func TestAggregateWorstCasePropagation(tt *testing.T) {
	e := newTestEngine()
	leg := testLeg(1, newYork, london)

	tests := []struct {
		name string
		obs  []t.Observation
		want t.Tier
	}{
		{"all low", []t.Observation{clearObs, clearObs}, t.TierLow},
		{"one medium", []t.Observation{clearObs, windObs}, t.TierMedium},
		{"one high among low", []t.Observation{clearObs, clearObs, snowObs}, t.TierHigh},
		{"high beats medium", []t.Observation{windObs, snowObs}, t.TierHigh},
	}
	for _, tc := range tests {
		tt.Run(tc.name, func(tt *testing.T) {
			var legs []t.AnnotatedLeg
			for _, obs := range tc.obs {
				legs = append(legs, mustMerge(tt, e, leg, obs))
			}
			sum, err := e.Aggregate(legs)
			if err != nil {
				tt.Fatalf("unexpected error: %v", err)
			}
			if sum.OverallRisk != tc.want {
				tt.Fatalf("overall = %v, want %v", sum.OverallRisk, tc.want)
			}
		})
	}
}

func TestPlanOneStop(tt *testing.T) {
	e := newTestEngine()
	_, _, err := e.Plan([]t.Stop{newYork}, nil)
	if !errors.Is(err, ErrEmptyRoute) {
		tt.Fatalf("expected ErrEmptyRoute, got %v", err)
	}
}

func TestPlanInvalidStop(tt *testing.T) {
	e := newTestEngine()
	bad := t.Stop{ID: "bad", Name: "Nowhere", Latitude: 91, Longitude: 0}
	_, _, err := e.Plan([]t.Stop{newYork, bad}, []t.Observation{clearObs})
	var valErr t.ValidationError
	if !errors.As(err, &valErr) {
		tt.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestPlanObservationCountMismatch(tt *testing.T) {
	e := newTestEngine()
	_, _, err := e.Plan([]t.Stop{newYork, london, tokyo}, []t.Observation{clearObs})
	var valErr t.ValidationError
	if !errors.As(err, &valErr) {
		tt.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestPlanSummationConsistency(tt *testing.T) {
	e := newTestEngine()
	sum, legs, err := e.Plan(
		[]t.Stop{newYork, london, tokyo},
		[]t.Observation{snowObs, windObs},
	)
	if err != nil {
		tt.Fatalf("unexpected error: %v", err)
	}
	if len(legs) != 2 {
		tt.Fatalf("legs = %d, want 2", len(legs))
	}

	var wantAdjusted float64
	for _, leg := range legs {
		wantAdjusted += leg.AdjustedHours
	}
	if math.Abs(sum.TotalAdjustedHours-wantAdjusted) > 1e-9 {
		tt.Fatalf("total adjusted = %v, want %v", sum.TotalAdjustedHours, wantAdjusted)
	}
	if math.Abs(sum.TotalDelayHours-(sum.TotalAdjustedHours-sum.TotalBaseHours)) > 1e-9 {
		tt.Fatalf("total delay = %v inconsistent with totals", sum.TotalDelayHours)
	}
}

func mustMerge(tt *testing.T, e *Engine, leg t.Leg, obs t.Observation) t.AnnotatedLeg {
	tt.Helper()
	merged, err := e.Merge(leg, obs)
	if err != nil {
		tt.Fatalf("merge: %v", err)
	}
	return merged
}
