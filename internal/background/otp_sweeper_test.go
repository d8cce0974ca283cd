package background

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockOTPStore struct {
	mu    sync.Mutex
	calls []time.Time
	err   error
}

func (m *mockOTPStore) ClearExpiredOTPs(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, now)
	return 2, m.err
}

func (m *mockOTPStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOTPSweeper_SweepsOnStartAndStops(t *testing.T) {
	store := &mockOTPStore{}
	sweeper := NewOTPSweeper(store, discardLogger(), time.Hour)
	fixed := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	sweeper.now = func() time.Time { return fixed }

	done := make(chan struct{})
	go func() {
		sweeper.Start(context.Background())
		close(done)
	}()

	require.Eventually(t, func() bool { return store.count() == 1 }, time.Second, 5*time.Millisecond)
	sweeper.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
	assert.Equal(t, fixed, store.calls[0])
}

func TestOTPSweeper_StopTwice(t *testing.T) {
	sweeper := NewOTPSweeper(&mockOTPStore{}, discardLogger(), time.Hour)

	assert.NotPanics(t, func() {
		sweeper.Stop()
		sweeper.Stop()
	})
}

func TestOTPSweeper_RepeatsOnInterval(t *testing.T) {
	store := &mockOTPStore{}
	sweeper := NewOTPSweeper(store, discardLogger(), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return store.count() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestOTPSweeper_StoreErrorKeepsRunning(t *testing.T) {
	store := &mockOTPStore{err: errors.New("connection refused")}
	sweeper := NewOTPSweeper(store, discardLogger(), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sweeper.Start(ctx)

	require.Eventually(t, func() bool { return store.count() >= 2 }, time.Second, 5*time.Millisecond)
}
