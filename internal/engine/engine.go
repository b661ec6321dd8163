package engine

import (
	"errors"
	"fmt"

	"skycourier/internal/geo"
	"skycourier/internal/risk"
	t "skycourier/internal/types"
)

// ErrEmptyRoute is returned when a route has fewer than two stops.
var ErrEmptyRoute = errors.New("route requires at least two stops")

// Engine is the route-weather merge and risk-scoring pipeline. It is
// stateless and performs no I/O; concurrent use is safe.
type Engine struct {
	calc       *geo.Calculator
	classifier *risk.Classifier
}

func New(calc *geo.Calculator, classifier *risk.Classifier) *Engine {
	return &Engine{
		calc:       calc,
		classifier: classifier,
	}
}

// Merge combines one geometric leg with its destination-side
// observation. Pure: same inputs always produce the same output.
func (e *Engine) Merge(leg t.Leg, obs t.Observation) (t.AnnotatedLeg, error) {
	if err := obs.Validate(); err != nil {
		return t.AnnotatedLeg{}, err
	}
	assessment := e.classifier.Classify(obs)
	adjusted := leg.BaseHours * assessment.Multiplier
	return t.AnnotatedLeg{
		Leg:           leg,
		Assessment:    assessment,
		Weather:       obs,
		AdjustedHours: adjusted,
		DelayHours:    adjusted - leg.BaseHours,
	}, nil
}

// Aggregate folds annotated legs into a route summary. Sums are
// order-independent; overall risk is the worst tier among all legs,
// never an average. A single leg is the minimal valid route.
func (e *Engine) Aggregate(legs []t.AnnotatedLeg) (t.Summary, error) {
	if len(legs) == 0 {
		return t.Summary{}, ErrEmptyRoute
	}

	sum := t.Summary{OverallRisk: t.TierLow}
	for _, leg := range legs {
		sum.TotalDistanceKM += leg.DistanceKM
		sum.TotalBaseHours += leg.BaseHours
		sum.TotalAdjustedHours += leg.AdjustedHours
		sum.TotalDelayHours += leg.DelayHours

		switch leg.Tier {
		case t.TierHigh:
			sum.HighRiskLegs++
		case t.TierMedium:
			sum.MediumRiskLegs++
		default:
			sum.LowRiskLegs++
		}
		if leg.Tier.Severity() > sum.OverallRisk.Severity() {
			sum.OverallRisk = leg.Tier
		}
	}
	return sum, nil
}

// Plan runs the full pipeline over an ordered stop list and one
// observation per leg. Any malformed stop or observation rejects the
// whole request; no partial summary is produced.
func (e *Engine) Plan(stops []t.Stop, observations []t.Observation) (t.Summary, []t.AnnotatedLeg, error) {
	if len(stops) < 2 {
		return t.Summary{}, nil, ErrEmptyRoute
	}
	for _, stop := range stops {
		if err := stop.Validate(); err != nil {
			return t.Summary{}, nil, fmt.Errorf("stop %q: %w", stop.ID, err)
		}
	}
	if len(observations) != len(stops)-1 {
		return t.Summary{}, nil, t.ValidationError{
			Field:  "observations",
			Reason: fmt.Sprintf("expected %d, got %d", len(stops)-1, len(observations)),
		}
	}

	annotated := make([]t.AnnotatedLeg, 0, len(stops)-1)
	for i := 1; i < len(stops); i++ {
		leg := e.calc.Leg(i, stops[i-1], stops[i])
		merged, err := e.Merge(leg, observations[i-1])
		if err != nil {
			return t.Summary{}, nil, fmt.Errorf("leg %d: %w", i, err)
		}
		annotated = append(annotated, merged)
	}

	sum, err := e.Aggregate(annotated)
	if err != nil {
		return t.Summary{}, nil, err
	}
	return sum, annotated, nil
}
