package providers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

type BreakerConfig struct {
	Name             string
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// BreakerWeatherClient stops calling the weather API after repeated transport
// failures. Rejections surface as *TransportError.
type BreakerWeatherClient struct {
	cb    *gobreaker.CircuitBreaker
	inner WeatherClient
}

func NewBreakerWeatherClient(cfg BreakerConfig, inner WeatherClient) *BreakerWeatherClient {
	if cfg.Name == "" {
		cfg.Name = "openweather"
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
	}

	return &BreakerWeatherClient{
		cb:    gobreaker.NewCircuitBreaker(settings),
		inner: inner,
	}
}

func (b *BreakerWeatherClient) Units() Units {
	return b.inner.Units()
}

// State exposes the breaker state for logging and tests.
func (b *BreakerWeatherClient) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerWeatherClient) FetchCurrent(ctx context.Context, coord Coordinate) (WeatherReading, bool, error) {
	return guarded(b.cb, "current weather", func() (WeatherReading, bool, error) {
		return b.inner.FetchCurrent(ctx, coord)
	})
}

func (b *BreakerWeatherClient) FetchRadarOverlay(ctx context.Context, coord Coordinate) (OverlayReference, bool, error) {
	return guarded(b.cb, "radar overlay", func() (OverlayReference, bool, error) {
		return b.inner.FetchRadarOverlay(ctx, coord)
	})
}

// guarded runs fn through the breaker. Only transport failures count against
// it; not-found and invalid bodies mean the provider is up.
func guarded[T any](cb *gobreaker.CircuitBreaker, op string, fn func() (T, bool, error)) (T, bool, error) {
	var (
		value T
		found bool
		err   error
	)

	_, cbErr := cb.Execute(func() (interface{}, error) {
		value, found, err = fn()
		if _, ok := IsTransport(err); ok && !errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, nil
	})

	if errors.Is(cbErr, gobreaker.ErrOpenState) || errors.Is(cbErr, gobreaker.ErrTooManyRequests) {
		var zero T
		return zero, false, &TransportError{Op: op, Err: fmt.Errorf("%s circuit breaker: %w", cb.Name(), cbErr)}
	}

	return value, found, err
}
