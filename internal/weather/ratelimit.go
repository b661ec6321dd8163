package weather

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	t "skycourier/internal/types"
)

// RateLimited wraps a Provider with an upstream courtesy limit.
type RateLimited struct {
	provider Provider
	limiter  *rate.Limiter
}

// NewRateLimited allows rps requests per second with the given burst.
// Fractional rps is valid for slower than one request per second.
func NewRateLimited(provider Provider, rps float64, burst int) *RateLimited {
	return &RateLimited{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (r *RateLimited) Forecast(ctx context.Context, stop t.Stop) (t.Observation, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return t.Observation{}, fmt.Errorf("rate limit wait: %w", err)
	}
	return r.provider.Forecast(ctx, stop)
}
