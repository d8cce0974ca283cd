package auth

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"
)

// TimingConfig holds configuration for timing attack prevention
type TimingConfig struct {
	BaseDelayMs    int
	RandomDelayMs  int
	DelayOnSuccess bool
}

// TimingDelay pads login responses so an unknown account and a wrong
// password take about the same time.
type TimingDelay struct {
	config TimingConfig
}

func NewTimingDelay(config TimingConfig) *TimingDelay {
	return &TimingDelay{config: config}
}

func (td *TimingDelay) target() time.Duration {
	delay := time.Duration(td.config.BaseDelayMs) * time.Millisecond
	if td.config.RandomDelayMs > 0 {
		if n, err := rand.Int(rand.Reader, big.NewInt(int64(td.config.RandomDelayMs))); err == nil {
			delay += time.Duration(n.Int64()) * time.Millisecond
		}
	}
	return delay
}

// WaitFrom sleeps until at least the configured delay has elapsed since start.
// Successful attempts return immediately unless DelayOnSuccess is set. The
// wait ends early if ctx is cancelled.
func (td *TimingDelay) WaitFrom(ctx context.Context, start time.Time, success bool) {
	if td == nil || (success && !td.config.DelayOnSuccess) {
		return
	}

	remaining := td.target() - time.Since(start)
	if remaining <= 0 {
		return
	}

	timer := time.NewTimer(remaining)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
