package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/artrainer/internal/core/collection"
	"github.com/zeusync/artrainer/internal/core/composer"
	"github.com/zeusync/artrainer/internal/core/events/bus"
	"github.com/zeusync/artrainer/internal/core/models"
	"github.com/zeusync/artrainer/internal/core/observability/log"
	"github.com/zeusync/artrainer/internal/core/spatial"
	"github.com/zeusync/artrainer/internal/core/system"
	"github.com/zeusync/artrainer/internal/core/systems/physics"
	"github.com/zeusync/artrainer/internal/core/training"
	"github.com/zeusync/artrainer/internal/solver/local"
)

const dt = 0.02

func TestWorldLaunchAndLand(t *testing.T) {
	w := NewWorld(0, physics.Zero, log.NewNop())
	obj := models.NewSceneObject("t")
	obj.SetActive(true)

	var landed []*models.SceneObject
	w.OnCollision(func(o *models.SceneObject) error {
		landed = append(landed, o)
		return nil
	})

	w.AddForce(obj, physics.V(0, 2, 0))
	require.Len(t, w.Airborne(), 1)

	ticks := 0
	for len(landed) == 0 && ticks < 1000 {
		require.NoError(t, w.Update(dt))
		ticks++
		if len(landed) == 0 {
			assert.Greater(t, obj.Position.Y, 0.0)
		}
	}
	require.Len(t, landed, 1)
	assert.Same(t, obj, landed[0])
	assert.Equal(t, 0.0, obj.Position.Y)
	assert.Empty(t, w.Airborne())
	// flight time is about 2v/g
	assert.InDelta(t, 2*2/9.81, float64(ticks)*dt, 3*dt)
}

func TestWorldSkipsInactiveBodies(t *testing.T) {
	w := NewWorld(0, physics.Zero, log.NewNop())
	obj := models.NewSceneObject("t")
	w.AddForce(obj, physics.V(0, 2, 0))
	require.NoError(t, w.Update(dt))
	assert.Equal(t, physics.Zero, obj.Position)
	assert.Empty(t, w.Airborne())
}

func TestGazeIgnoresInactive(t *testing.T) {
	var g Gaze
	obj := models.NewSceneObject("t")
	g.Look(obj)
	assert.Nil(t, g.FocusedObject())
	obj.SetActive(true)
	assert.Same(t, obj, g.FocusedObject())
	g.LookAway()
	assert.Nil(t, g.FocusedObject())
}

// TestHeadlessSession drives a whole session: scan, compose against the local solver,
// launch, click and land.
func TestHeadlessSession(t *testing.T) {
	logger := log.NewNop()
	eb := bus.New()
	ctx := context.Background()

	solver, err := local.New(local.DefaultRoom(), logger)
	require.NoError(t, err)
	manager, err := collection.NewManager(collection.Config{
		TargetSize: physics.V(1, 2, 1),
		TargetName: "Target",
		Template: &models.Template{
			Name:  "Tree",
			Parts: []physics.Bounds{physics.NewBounds(physics.V(0, 0.5, 0), physics.V(0.5, 1, 0.5))},
		},
	}, logger)
	require.NoError(t, err)

	tracker := spatial.NewTracker(eb, logger)
	comp := composer.New(solver, tracker, manager, composer.Config{}, logger)
	world := NewWorld(0, physics.Zero, logger)
	gaze := &Gaze{}
	ctrl := training.NewController(eb, comp, manager, world, gaze, training.Config{TargetCount: 3}, logger)
	world.OnCollision(ctrl.OnTargetCollision)
	require.NoError(t, ctrl.Start(ctx))

	loop := system.NewLoop(0, logger)
	require.NoError(t, loop.RegisterSystem(NewScanner(tracker, eb, 0.1), system.PriorityHighest))
	require.NoError(t, loop.RegisterSystem(tracker, system.PriorityHigh))
	require.NoError(t, loop.RegisterSystem(comp, system.PriorityNormal))
	require.NoError(t, loop.RegisterSystem(ctrl, system.PriorityNormal))
	require.NoError(t, loop.RegisterSystem(world, system.PriorityLow))
	require.NoError(t, loop.RegisterSystem(NewPlayer(world, gaze, eb, 0.1, []bool{true, false, true}, logger), system.PriorityLowest))

	for i := 0; i < 2000 && !ctrl.Finished(); i++ {
		require.NoError(t, loop.Step(dt))
	}

	require.True(t, ctrl.Finished())
	assert.Equal(t, spatial.ScanDone, tracker.ScanState())
	assert.Equal(t, training.Score{Hits: 2, Misses: 1}, ctrl.Score())
	assert.Equal(t, 0, comp.Pending())

	objs := manager.Root().Children()
	require.Len(t, objs, 3)
	states := make([]models.TargetState, len(objs))
	for i, o := range objs {
		states[i] = o.TargetState()
	}
	assert.Equal(t, []models.TargetState{models.StateResolvedHit, models.StateResolvedMiss, models.StateResolvedHit}, states)
}
