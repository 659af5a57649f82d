package placement

import "github.com/zeusync/artrainer/pkg/sequence"

// ResultQueue buffers solver results between submission and the per-tick drain.
// Results leave in the order they arrived.
type ResultQueue struct {
	q *sequence.Queue[Result]
}

func NewResultQueue() *ResultQueue {
	return &ResultQueue{q: sequence.NewQueue[Result]()}
}

func (rq *ResultQueue) Enqueue(r Result) { rq.q.Enqueue(r) }

func (rq *ResultQueue) Dequeue() (Result, bool) { return rq.q.Dequeue() }

func (rq *ResultQueue) Len() int { return rq.q.Len() }

// Snapshot returns pending results in drain order.
func (rq *ResultQueue) Snapshot() []Result { return rq.q.Values() }
