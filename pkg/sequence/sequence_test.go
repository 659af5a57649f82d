package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFIFO(t *testing.T) {
	q := NewQueue[string]()
	_, ok := q.Dequeue()
	assert.False(t, ok)

	q.Enqueue("a")
	q.Enqueue("b")
	q.Enqueue("c")
	assert.Equal(t, 3, q.Len())
	assert.Equal(t, []string{"a", "b", "c"}, q.Values())

	for _, want := range []string{"a", "b", "c"} {
		got, ok := q.Dequeue()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
	assert.True(t, q.IsEmpty())
}

func TestQueueCompactionKeepsOrder(t *testing.T) {
	q := NewQueue[int]()
	next := 0
	for i := 0; i < 1000; i++ {
		q.Enqueue(i)
		if i%3 == 0 {
			v, ok := q.Dequeue()
			require.True(t, ok)
			assert.Equal(t, next, v)
			next++
		}
	}
	for !q.IsEmpty() {
		v, _ := q.Dequeue()
		assert.Equal(t, next, v)
		next++
	}
	assert.Equal(t, 1000, next)
}

func TestQueueClear(t *testing.T) {
	q := NewQueue[int]()
	q.Enqueue(1)
	q.Clear()
	assert.Equal(t, 0, q.Len())
	_, ok := q.Dequeue()
	assert.False(t, ok)
}

func TestPriorityQueueAscendingAndStable(t *testing.T) {
	pq := NewPriorityQueue[string]()
	pq.Enqueue("far", 3)
	pq.Enqueue("near-1", 1)
	pq.Enqueue("near-2", 1)
	pq.Enqueue("first", 0)

	var got []string
	for !pq.IsEmpty() {
		v, _ := pq.Dequeue()
		got = append(got, v)
	}
	assert.Equal(t, []string{"first", "near-1", "near-2", "far"}, got)
}
