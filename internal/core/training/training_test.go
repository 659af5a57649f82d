package training

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/artrainer/internal/core/collection"
	"github.com/zeusync/artrainer/internal/core/events"
	"github.com/zeusync/artrainer/internal/core/events/bus"
	"github.com/zeusync/artrainer/internal/core/models"
	"github.com/zeusync/artrainer/internal/core/observability/log"
	"github.com/zeusync/artrainer/internal/core/systems/physics"
)

// fakeScene spawns count targets straight into a real collection manager.
type fakeScene struct {
	manager  *collection.Manager
	requests []int
	pending  int
	deferred bool
}

func (s *fakeScene) ComposeScene(_ context.Context, n int) error {
	s.requests = append(s.requests, n)
	if s.deferred {
		s.pending = n
		return nil
	}
	for i := 0; i < n; i++ {
		if _, err := s.manager.SpawnTarget(physics.V(float64(i), 1, 0), physics.Identity); err != nil {
			return err
		}
	}
	return nil
}

func (s *fakeScene) Pending() int { return s.pending }

type forceLog struct {
	objs   []*models.SceneObject
	forces []physics.Vec3
}

func (f *forceLog) AddForce(obj *models.SceneObject, force physics.Vec3) {
	f.objs = append(f.objs, obj)
	f.forces = append(f.forces, force)
}

type fixedFocus struct{ obj *models.SceneObject }

func (f *fixedFocus) FocusedObject() *models.SceneObject { return f.obj }

type fixture struct {
	bus     bus.EventBus
	manager *collection.Manager
	scene   *fakeScene
	forces  *forceLog
	focus   *fixedFocus
	ctrl    *Controller
}

func newFixture(t *testing.T, count int) *fixture {
	t.Helper()
	m, err := collection.NewManager(collection.Config{
		TargetSize: physics.V(1, 2, 1),
		TargetName: "Target",
		Template: &models.Template{
			Name:  "Tree",
			Parts: []physics.Bounds{physics.NewBounds(physics.V(0, 0.5, 0), physics.V(0.5, 1, 0.5))},
		},
	}, log.NewNop())
	require.NoError(t, err)

	f := &fixture{
		bus:     bus.New(),
		manager: m,
		scene:   &fakeScene{manager: m},
		forces:  &forceLog{},
		focus:   &fixedFocus{},
	}
	f.ctrl = NewController(f.bus, f.scene, m, f.forces, f.focus, Config{TargetCount: count}, log.NewNop())
	require.NoError(t, f.ctrl.Start(context.Background()))
	return f
}

func (f *fixture) publish(t *testing.T, eventType string) {
	t.Helper()
	require.NoError(t, f.bus.Publish(bus.NewEvent(eventType, "test", nil)))
}

func TestScanDoneComposesAndLaunchesFirstTarget(t *testing.T) {
	f := newFixture(t, 3)
	f.publish(t, events.ScanDone)

	assert.Equal(t, []int{3}, f.scene.requests)
	assert.True(t, f.ctrl.Started())
	require.Len(t, f.forces.objs, 1)
	first := f.forces.objs[0]
	assert.Equal(t, "Target-1", first.Name())
	assert.True(t, first.IsActive())
	assert.Equal(t, DefaultLaunchForce, f.forces.forces[0])
	assert.Same(t, first, f.ctrl.Current())

	// a second scan_done does not compose again
	f.publish(t, events.ScanDone)
	assert.Len(t, f.scene.requests, 1)
}

func TestDefaultTargetCount(t *testing.T) {
	f := newFixture(t, 0)
	f.publish(t, events.ScanDone)
	assert.Equal(t, []int{DefaultTargetCount}, f.scene.requests)
}

func TestClickThenLandingScoresHit(t *testing.T) {
	f := newFixture(t, 2)
	f.publish(t, events.ScanDone)
	target := f.ctrl.Current()

	f.focus.obj = target
	f.publish(t, events.Click)
	assert.True(t, target.WasHit())
	outline, ok := target.Outline()
	require.True(t, ok)
	assert.Equal(t, models.ColorGreen, outline.Color)

	var landed []any
	_, err := f.bus.Subscribe(events.FloorCollision, func(e bus.Event) error {
		landed = append(landed, e.Data())
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, f.ctrl.OnTargetCollision(target))
	assert.Equal(t, models.StateResolvedHit, target.TargetState())
	assert.Equal(t, Score{Hits: 1}, f.ctrl.Score())
	assert.Equal(t, []any{target}, landed)

	// the collision advanced to the next target
	require.Len(t, f.forces.objs, 2)
	assert.Equal(t, "Target-2", f.ctrl.Current().Name())

	// later collisions of the same target are ignored
	require.NoError(t, f.ctrl.OnTargetCollision(target))
	assert.Equal(t, 1, f.ctrl.Score().Total())
}

func TestUnclickedLandingScoresMissAndFinishes(t *testing.T) {
	f := newFixture(t, 1)
	f.publish(t, events.ScanDone)
	target := f.ctrl.Current()

	// clicking at nothing changes nothing
	f.publish(t, events.Click)
	assert.False(t, target.WasHit())

	require.NoError(t, f.ctrl.OnTargetCollision(target))
	outline, _ := target.Outline()
	assert.Equal(t, models.ColorRed, outline.Color)
	assert.Equal(t, Score{Misses: 1}, f.ctrl.Score())
	assert.True(t, f.ctrl.Finished())
	assert.Nil(t, f.ctrl.Current())
}

func TestWaitsForPendingPlacements(t *testing.T) {
	f := newFixture(t, 1)
	f.scene.deferred = true
	f.publish(t, events.ScanDone)

	assert.Empty(t, f.forces.objs)
	assert.False(t, f.ctrl.Finished())
	require.NoError(t, f.ctrl.Update(0.016))
	assert.Empty(t, f.forces.objs)

	// the placement arrives on a later tick
	spawned, err := f.manager.SpawnTarget(physics.V(0, 1, 0), physics.Identity)
	require.NoError(t, err)
	f.scene.pending = 0
	require.NoError(t, f.ctrl.Update(0.016))
	require.Len(t, f.forces.objs, 1)
	assert.Same(t, spawned, f.forces.objs[0])
}

func TestStopDropsSubscriptions(t *testing.T) {
	f := newFixture(t, 1)
	f.publish(t, events.ScanDone)
	require.NoError(t, f.ctrl.Stop())
	assert.Zero(t, f.bus.GetMetrics().SubscribersActive)
}
