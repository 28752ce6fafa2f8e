package cleanup

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfshare/shelfshare-go/internal/infrastructure/observability/logging"
)

type countingPruner struct {
	calls atomic.Int64
	err   error
}

func (c *countingPruner) CleanupOldViews(retention time.Duration) (int, error) {
	c.calls.Add(1)
	return 3, c.err
}

func newTestLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToConsole: false,
		OutputToFile:    false,
		DefaultLevel:    slog.LevelError + 4,
		ChannelLevels:   map[logging.Channel]slog.Level{},
	})
	require.NoError(t, err)
	return logger
}

func TestWorkerSweepsOnInterval(t *testing.T) {
	pruner := &countingPruner{}
	worker := NewWorker(pruner, 10*time.Millisecond, time.Hour, newTestLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker.Start(ctx)

	assert.Eventually(t, func() bool {
		return pruner.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestWorkerStopsOnCancel(t *testing.T) {
	pruner := &countingPruner{}
	worker := NewWorker(pruner, 5*time.Millisecond, time.Hour, newTestLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	worker.Start(ctx)

	assert.Eventually(t, func() bool {
		return pruner.calls.Load() >= 1
	}, time.Second, time.Millisecond)

	cancel()
	time.Sleep(20 * time.Millisecond)
	after := pruner.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, pruner.calls.Load())
}

func TestWorkerSurvivesPrunerErrors(t *testing.T) {
	pruner := &countingPruner{err: errors.New("disk on fire")}
	worker := NewWorker(pruner, 5*time.Millisecond, time.Hour, newTestLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker.Start(ctx)

	assert.Eventually(t, func() bool {
		return pruner.calls.Load() >= 3
	}, time.Second, time.Millisecond)
}
