package placement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/artrainer/internal/core/systems/physics"
)

func TestBuildQueriesForTargets(t *testing.T) {
	size := physics.V(1, 2, 1)
	queries := BuildQueries(3, size, ObjectTarget, DefaultMinDistance)
	require.Len(t, queries, 3)

	for i, q := range queries {
		assert.Equal(t, ObjectTarget, q.ObjectType)
		assert.Equal(t, ShapeOnFloor, q.Definition.Shape)
		assert.Equal(t, physics.V(0.5, 1, 0.5), q.Definition.HalfDims)
		assert.Equal(t, size, q.Dimensions)
		assert.Equal(t, []Rule{AwayFromOtherObjects(0.1)}, q.Rules)
		assert.NotNil(t, q.Constraints)
		assert.Empty(t, q.Constraints)
		assert.Equal(t, "Target"+string(rune('0'+i)), q.Name)
		assert.NoError(t, q.Validate())
	}
}

func TestBuildQueriesZeroOrNegative(t *testing.T) {
	assert.Empty(t, BuildQueries(0, physics.One, ObjectTarget, 0.1))
	assert.NotNil(t, BuildQueries(-2, physics.One, ObjectTarget, 0.1))
}

func TestBuildQueriesUnknownTypeFallsBackToMidAir(t *testing.T) {
	q := BuildQueries(1, physics.One, ObjectType(42), 0.1)[0]
	assert.Equal(t, ShapeInMidAir, q.Definition.Shape)
	assert.NotNil(t, q.Rules)
	assert.Empty(t, q.Rules)
}

func TestQueryValidate(t *testing.T) {
	q := NewQuery("bad", OnFloor(physics.One), physics.V(1, -1, 1), ObjectTarget, nil, nil)
	assert.ErrorIs(t, q.Validate(), ErrInvalidQuery)

	q = Query{Name: "nil-lists", Definition: OnFloor(physics.One), Dimensions: physics.One}
	assert.ErrorIs(t, q.Validate(), ErrInvalidQuery)
}

func TestResultSpawnDispatch(t *testing.T) {
	r := Result{Position: physics.V(1, 1, 1), Normal: physics.V(0, 0, 1), ObjectType: ObjectTarget}
	s, err := r.Spawn()
	require.NoError(t, err)

	switch v := s.(type) {
	case TargetSpawn:
		assert.Equal(t, physics.V(1, 1, 1), v.Position)
		assert.True(t, v.Rotation.ApproxEqual(physics.Identity, 1e-9))
	default:
		t.Fatalf("unexpected spawn variant %T", s)
	}

	_, err = Result{ObjectType: ObjectType(9)}.Spawn()
	assert.ErrorIs(t, err, ErrUnknownObjectType)
}

func TestResultQueueIsFIFO(t *testing.T) {
	rq := NewResultQueue()
	for i := 0; i < 4; i++ {
		rq.Enqueue(Result{Query: string(rune('a' + i))})
	}
	assert.Equal(t, 4, rq.Len())
	assert.Len(t, rq.Snapshot(), 4)

	var got string
	for {
		r, ok := rq.Dequeue()
		if !ok {
			break
		}
		got += r.Query
	}
	assert.Equal(t, "abcd", got)
}
