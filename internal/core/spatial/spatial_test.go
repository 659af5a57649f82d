package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/artrainer/internal/core/events"
	"github.com/zeusync/artrainer/internal/core/events/bus"
	"github.com/zeusync/artrainer/internal/core/observability/log"
)

func TestTrackerPublishesScanDoneOnce(t *testing.T) {
	eb := bus.New()
	tr := NewTracker(eb, log.NewNop())
	done := 0
	_, err := eb.Subscribe(events.ScanDone, func(bus.Event) error { done++; return nil })
	require.NoError(t, err)

	require.NoError(t, tr.Start())
	assert.Equal(t, ScanScanning, tr.ScanState())

	// not ready yet: the click is ignored
	require.NoError(t, eb.Publish(bus.NewEvent(events.Click, events.SourceClicker, nil)))
	assert.Equal(t, ScanScanning, tr.ScanState())

	tr.SetReady(true)
	require.NoError(t, eb.Publish(bus.NewEvent(events.Click, events.SourceClicker, nil)))
	assert.Equal(t, ScanFinishing, tr.ScanState())

	require.NoError(t, tr.Update(0))
	assert.Equal(t, 0, done)

	tr.Complete()
	require.NoError(t, tr.Update(0))
	require.NoError(t, tr.Update(0))
	assert.Equal(t, ScanDone, tr.ScanState())
	assert.Equal(t, 1, done)
	// the finalising click listener is gone
	assert.EqualValues(t, 1, eb.GetMetrics().SubscribersActive)
}

func TestTrackerStartTwiceFails(t *testing.T) {
	tr := NewTracker(bus.New(), log.NewNop())
	require.NoError(t, tr.Start())
	assert.Error(t, tr.Start())
}

func TestTrackerDisallowed(t *testing.T) {
	tr := NewTracker(bus.New(), log.NewNop())
	tr.SetAllowed(false)
	require.NoError(t, tr.Start())
	tr.SetReady(true)
	assert.False(t, tr.RequestFinish())
	assert.False(t, tr.Allowed())
	assert.Equal(t, "scanning", tr.ScanState().String())
}
