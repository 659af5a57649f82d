package system

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/artrainer/internal/core/observability/log"
)

type recorder struct {
	name  string
	calls *[]string
	err   error
	delta float64
}

func (r *recorder) Name() string { return r.name }
func (r *recorder) Update(dt float64) error {
	*r.calls = append(*r.calls, r.name)
	r.delta = dt
	return r.err
}

func TestLoopOrdersByPriorityThenRegistration(t *testing.T) {
	var calls []string
	l := NewLoop(time.Millisecond, log.NewNop())
	require.NoError(t, l.RegisterSystem(&recorder{name: "low", calls: &calls}, PriorityLow))
	require.NoError(t, l.RegisterSystem(&recorder{name: "high", calls: &calls}, PriorityHigh))
	require.NoError(t, l.RegisterSystem(&recorder{name: "low2", calls: &calls}, PriorityLow))

	assert.Equal(t, []string{"high", "low", "low2"}, l.GetExecutionOrder())
	require.NoError(t, l.Step(0.5))
	assert.Equal(t, []string{"high", "low", "low2"}, calls)
}

func TestLoopDuplicateName(t *testing.T) {
	var calls []string
	l := NewLoop(0, log.NewNop())
	require.NoError(t, l.RegisterSystem(&recorder{name: "a", calls: &calls}, PriorityNormal))
	assert.ErrorIs(t, l.RegisterSystem(&recorder{name: "a", calls: &calls}, PriorityHigh), ErrDuplicateSystem)
	assert.True(t, l.UnregisterSystem("a"))
	assert.False(t, l.UnregisterSystem("a"))
}

func TestLoopStepContinuesAfterError(t *testing.T) {
	var calls []string
	boom := errors.New("boom")
	l := NewLoop(0, log.NewNop())
	var failed []string
	l.OnSystemError(func(name string, err error) { failed = append(failed, name) })
	require.NoError(t, l.RegisterSystem(&recorder{name: "bad", calls: &calls, err: boom}, PriorityHigh))
	require.NoError(t, l.RegisterSystem(&recorder{name: "good", calls: &calls}, PriorityLow))

	err := l.Step(0.1)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"bad", "good"}, calls)
	assert.Equal(t, []string{"bad"}, failed)

	m := l.Metrics()
	assert.EqualValues(t, 1, m.Ticks)
	assert.EqualValues(t, 1, m.SystemErrorCount["bad"])
	sm, ok := l.SystemMetrics("good")
	require.True(t, ok)
	assert.EqualValues(t, 1, sm.ExecutionCount)
}

func TestLoopRunUntil(t *testing.T) {
	var calls []string
	r := &recorder{name: "r", calls: &calls}
	l := NewLoop(time.Millisecond, log.NewNop())
	require.NoError(t, l.RegisterSystem(r, PriorityNormal))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, l.RunUntil(ctx, func() bool { return len(calls) >= 3 }))
	assert.GreaterOrEqual(t, len(calls), 3)
	assert.Greater(t, r.delta, 0.0)
}

func TestLoopRunStopsOnCancel(t *testing.T) {
	l := NewLoop(time.Millisecond, log.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, l.Run(ctx), context.Canceled)
}
