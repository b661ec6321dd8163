package routing

import (
	"context"

	"skycourier/internal/geo"
	t "skycourier/internal/types"
)

// Provider builds the geometric leg for a consecutive stop pair.
type Provider interface {
	Leg(ctx context.Context, seq int, origin, destination t.Stop) (t.Leg, error)
}

// GreatCircle derives legs locally from the haversine calculator. It
// never fails: coordinates are validated before they reach it.
type GreatCircle struct {
	calc *geo.Calculator
}

func NewGreatCircle(calc *geo.Calculator) *GreatCircle {
	return &GreatCircle{calc: calc}
}

func (g *GreatCircle) Leg(_ context.Context, seq int, origin, destination t.Stop) (t.Leg, error) {
	return g.calc.Leg(seq, origin, destination), nil
}
