package bus

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testObserver struct {
	deliveredCount int
	lastErr        error
}

func (o *testObserver) OnDelivered(_, _ string, handlers int, err error, _ time.Duration) {
	o.deliveredCount += handlers
	o.lastErr = err
}

func TestBasicPublishSubscribe(t *testing.T) {
	b := New()
	var got any
	_, err := b.Subscribe("click", func(e Event) error {
		got = e.Data()
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, b.Publish(NewEvent("click", "tester", 123)))
	assert.Equal(t, 123, got)
}

func TestDeliveryFollowsSubscriptionOrder(t *testing.T) {
	b := New()
	var order []int
	for i := 0; i < 5; i++ {
		_, err := b.Subscribe("ev", func(Event) error {
			order = append(order, i)
			return nil
		})
		require.NoError(t, err)
	}
	require.NoError(t, b.Publish(NewEvent("ev", "src", nil)))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestHandlerErrorsAreJoined(t *testing.T) {
	b := New()
	e1, e2 := errors.New("first"), errors.New("second")
	_, _ = b.Subscribe("x", func(Event) error { return e1 })
	_, _ = b.Subscribe("x", func(Event) error { return e2 })

	err := b.Publish(NewEvent("x", "src", nil))
	assert.ErrorIs(t, err, e1)
	assert.ErrorIs(t, err, e2)
	assert.EqualValues(t, 1, b.GetMetrics().Errors)
}

func TestTopicsIsolation(t *testing.T) {
	b := New()
	count1, count2 := 0, 0
	_, _ = b.SubscribeTopic("t1", "ev", func(Event) error { count1++; return nil })
	_, _ = b.SubscribeTopic("t2", "ev", func(Event) error { count2++; return nil })
	_ = b.PublishToTopic("t1", NewEvent("ev", "src", nil))
	assert.Equal(t, 1, count1)
	assert.Equal(t, 0, count2)
}

func TestCancelStopsDelivery(t *testing.T) {
	b := New()
	calls := 0
	sub, err := b.Subscribe("ev", func(Event) error { calls++; return nil })
	require.NoError(t, err)

	_ = b.Publish(NewEvent("ev", "src", nil))
	require.NoError(t, b.Unsubscribe(sub))
	require.NoError(t, sub.Cancel())
	_ = b.Publish(NewEvent("ev", "src", nil))

	assert.Equal(t, 1, calls)
	assert.False(t, sub.IsActive())
	assert.EqualValues(t, 0, b.GetMetrics().SubscribersActive)
}

func TestSubscribeDuringDelivery(t *testing.T) {
	b := New()
	late := 0
	_, _ = b.Subscribe("scan_done", func(Event) error {
		_, err := b.Subscribe("scan_done", func(Event) error { late++; return nil })
		return err
	})
	require.NoError(t, b.Publish(NewEvent("scan_done", "src", nil)))
	assert.Equal(t, 0, late)
	require.NoError(t, b.Publish(NewEvent("scan_done", "src", nil)))
	assert.Equal(t, 1, late)
}

func TestObserverSeesDeliveries(t *testing.T) {
	b := New()
	obs := &testObserver{}
	b.AddObserver(obs)
	_, _ = b.Subscribe("e", func(Event) error { return nil })
	_, _ = b.Subscribe("e", func(Event) error { return nil })
	_ = b.Publish(NewEvent("e", "s", nil))
	assert.Equal(t, 2, obs.deliveredCount)

	b.RemoveObserver(obs)
	_ = b.Publish(NewEvent("e", "s", nil))
	assert.Equal(t, 2, obs.deliveredCount)
	assert.EqualValues(t, 2, b.GetMetrics().Published)
}

func TestNilHandlerRejected(t *testing.T) {
	_, err := New().Subscribe("e", nil)
	assert.Error(t, err)
}
