package weather

import (
	"context"
	"fmt"

	t "skycourier/internal/types"
)

// Provider supplies one destination-side forecast per leg. The engine
// is agnostic to whether observations are live or synthetic.
type Provider interface {
	Forecast(ctx context.Context, stop t.Stop) (t.Observation, error)
}

// UnavailableError marks a leg whose weather lookup failed. The
// service rejects the whole route on any occurrence rather than
// defaulting the leg to LOW risk.
type UnavailableError struct {
	Stop string
	Err  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("weather unavailable for %v: %v", e.Stop, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}
