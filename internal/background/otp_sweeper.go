package background

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// OTPStore clears one-time codes whose expiry has passed.
type OTPStore interface {
	ClearExpiredOTPs(ctx context.Context, now time.Time) (int64, error)
}

// OTPSweeper periodically wipes expired codes so they do not linger on user
// records after the login or registration attempt was abandoned.
type OTPSweeper struct {
	store    OTPStore
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewOTPSweeper(store OTPStore, logger *slog.Logger, interval time.Duration) *OTPSweeper {
	return &OTPSweeper{
		store:    store,
		logger:   logger,
		interval: interval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// Start runs a sweep immediately and then once per interval until ctx is
// cancelled or Stop is called.
func (s *OTPSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stopCh:
			s.logger.Info("otp sweeper stopped")
			return
		case <-ctx.Done():
			s.logger.Info("otp sweeper context cancelled")
			return
		}
	}
}

func (s *OTPSweeper) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cleared, err := s.store.ClearExpiredOTPs(sweepCtx, s.now())
	if err != nil {
		s.logger.Error("failed to clear expired otps", slog.Any("error", err))
		return
	}

	if cleared > 0 {
		s.logger.Info("expired otps cleared", slog.Int64("users", cleared))
	}
}

// Stop is safe to call more than once.
func (s *OTPSweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}
