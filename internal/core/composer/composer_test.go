package composer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/artrainer/internal/core/collection"
	"github.com/zeusync/artrainer/internal/core/models"
	"github.com/zeusync/artrainer/internal/core/observability/log"
	"github.com/zeusync/artrainer/internal/core/placement"
	"github.com/zeusync/artrainer/internal/core/spatial"
	"github.com/zeusync/artrainer/internal/core/systems/physics"
)

type staticUnderstanding bool

func (s staticUnderstanding) Allowed() bool                { return bool(s) }
func (s staticUnderstanding) ScanState() spatial.ScanState { return spatial.ScanDone }

// fakeGateway answers each query from a script keyed by call order.
type fakeGateway struct {
	initErr  error
	inits    int
	queries  []placement.Query
	fail     map[int]bool
	errAt    map[int]error
	position func(i int) physics.Vec3
}

func (g *fakeGateway) Init(context.Context) error {
	g.inits++
	return g.initErr
}

func (g *fakeGateway) Place(_ context.Context, q placement.Query) (placement.Result, bool, error) {
	i := len(g.queries)
	g.queries = append(g.queries, q)
	if err := g.errAt[i]; err != nil {
		return placement.Result{}, false, err
	}
	if g.fail[i] {
		return placement.Result{}, false, nil
	}
	pos := physics.V(float64(i), q.Dimensions.Y/2, 0)
	if g.position != nil {
		pos = g.position(i)
	}
	return placement.Result{
		Query:      q.Name,
		Position:   pos,
		Normal:     physics.Up,
		ObjectType: q.ObjectType,
		Dimensions: q.Dimensions,
	}, true, nil
}

func newManager(t *testing.T) *collection.Manager {
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
	return m
}

func drain(t *testing.T, c *Composer) {
	t.Helper()
	for c.Pending() > 0 {
		require.NoError(t, c.Update(0.016))
	}
}

func TestComposeSceneDropsUnsatisfiableSlot(t *testing.T) {
	gw := &fakeGateway{fail: map[int]bool{1: true}}
	m := newManager(t)
	c := New(gw, staticUnderstanding(true), m, Config{}, log.NewNop())

	require.NoError(t, c.ComposeScene(context.Background(), 3))
	assert.Equal(t, 1, gw.inits)
	require.Len(t, gw.queries, 3)
	assert.Equal(t, "Target0", gw.queries[0].Name)
	assert.Equal(t, "Target2", gw.queries[2].Name)
	assert.Equal(t, 2, c.Pending())

	drain(t, c)
	assert.Equal(t, 2, m.Count())

	first, err := m.NextTarget()
	require.NoError(t, err)
	assert.Equal(t, physics.V(0, 0, 0), first.Position)
	second, err := m.NextTarget()
	require.NoError(t, err)
	assert.Equal(t, physics.V(2, 0, 0), second.Position)
}

func TestComposeSceneNotAllowedIsNoop(t *testing.T) {
	gw := &fakeGateway{}
	m := newManager(t)
	c := New(gw, staticUnderstanding(false), m, Config{}, log.NewNop())

	require.NoError(t, c.ComposeScene(context.Background(), 5))
	assert.Zero(t, gw.inits)
	assert.Empty(t, gw.queries)
	assert.Zero(t, c.Pending())
}

func TestComposeSceneZeroTargets(t *testing.T) {
	gw := &fakeGateway{}
	c := New(gw, staticUnderstanding(true), newManager(t), Config{}, log.NewNop())

	require.NoError(t, c.ComposeScene(context.Background(), 0))
	assert.Equal(t, 1, gw.inits)
	assert.Empty(t, gw.queries)
}

func TestComposeSceneNegativeCount(t *testing.T) {
	c := New(&fakeGateway{}, staticUnderstanding(true), newManager(t), Config{}, log.NewNop())
	assert.ErrorIs(t, c.ComposeScene(context.Background(), -1), ErrInvalidCount)
}

func TestComposeSceneInitFailure(t *testing.T) {
	boom := errors.New("boom")
	gw := &fakeGateway{initErr: boom}
	c := New(gw, staticUnderstanding(true), newManager(t), Config{}, log.NewNop())

	assert.ErrorIs(t, c.ComposeScene(context.Background(), 2), boom)
	assert.Empty(t, gw.queries)
}

func TestComposeSceneTransportErrorDropsSlot(t *testing.T) {
	gw := &fakeGateway{errAt: map[int]error{0: errors.New("reset")}}
	c := New(gw, staticUnderstanding(true), newManager(t), Config{}, log.NewNop())

	require.NoError(t, c.ComposeScene(context.Background(), 2))
	assert.Equal(t, 1, c.Pending())
}

func TestComposeSceneCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gw := &fakeGateway{}
	c := New(gw, staticUnderstanding(true), newManager(t), Config{}, log.NewNop())

	assert.ErrorIs(t, c.ComposeScene(ctx, 3), context.Canceled)
	assert.Empty(t, gw.queries)
}

func TestUpdateAppliesOneResultPerTick(t *testing.T) {
	gw := &fakeGateway{}
	m := newManager(t)
	c := New(gw, staticUnderstanding(true), m, Config{}, log.NewNop())
	require.NoError(t, c.ComposeScene(context.Background(), 3))

	require.NoError(t, c.Update(0.016))
	assert.Equal(t, 1, m.Count())
	assert.Equal(t, 2, c.Pending())

	drain(t, c)
	assert.Equal(t, 3, m.Count())
	// an empty queue is a quiet tick
	require.NoError(t, c.Update(0.016))
	assert.Equal(t, 3, m.Count())
}

func TestUpdateUsesMinDistance(t *testing.T) {
	gw := &fakeGateway{}
	c := New(gw, staticUnderstanding(true), newManager(t), Config{MinDistance: 0.5}, log.NewNop())
	require.NoError(t, c.ComposeScene(context.Background(), 1))
	require.Len(t, gw.queries, 1)
	assert.Equal(t, []placement.Rule{placement.AwayFromOtherObjects(0.5)}, gw.queries[0].Rules)
}

func TestUpdateUnknownObjectType(t *testing.T) {
	c := New(&fakeGateway{}, staticUnderstanding(true), newManager(t), Config{}, log.NewNop())
	c.results.Enqueue(placement.Result{Query: "x", ObjectType: placement.ObjectType(7)})
	assert.ErrorIs(t, c.Update(0), placement.ErrUnknownObjectType)
	assert.Zero(t, c.Pending())
}
