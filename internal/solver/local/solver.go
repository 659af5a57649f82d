// Package local is an in-process placement solver over an axis-aligned room. It scans a
// regular grid of candidate boxes, rejects those that break a rule or overlap an earlier
// placement of the session, and ranks the rest by their constraint score.
package local

import (
	"context"
	"math"
	"sync"

	"github.com/google/uuid"

	"github.com/zeusync/artrainer/internal/core/observability/log"
	"github.com/zeusync/artrainer/internal/core/placement"
	"github.com/zeusync/artrainer/internal/core/systems/physics"
	"github.com/zeusync/artrainer/pkg/concurrent"
	"github.com/zeusync/artrainer/pkg/sequence"
)

type candidate struct {
	box    physics.Bounds
	normal physics.Vec3
}

// Solver implements placement.Gateway.
type Solver struct {
	mu      sync.Mutex
	room    Room
	session uuid.UUID
	placed  []physics.Bounds

	// reused between Place calls
	buf    []candidate
	ranked *sequence.PriorityQueue[candidate]

	logger log.Log
}

var _ placement.Gateway = (*Solver)(nil)

// Candidate grids at least this large are checked against the rules in parallel.
const parallelCandidates = 2048

func New(room Room, logger log.Log) (*Solver, error) {
	if err := room.Validate(); err != nil {
		return nil, err
	}
	return &Solver{
		room:   room,
		ranked: sequence.NewPriorityQueue[candidate](),
		logger: logger.Named("solver.local"),
	}, nil
}

// Init starts a fresh session and forgets every earlier placement.
func (s *Solver) Init(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = uuid.New()
	s.placed = s.placed[:0]
	s.logger.Debug("session started", log.String("session", s.session.String()))
	return nil
}

// Session returns the current session id, uuid.Nil before Init.
func (s *Solver) Session() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

func (s *Solver) Place(ctx context.Context, q placement.Query) (placement.Result, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == uuid.Nil {
		return placement.Result{}, false, placement.ErrSessionNotInitialized
	}
	if err := q.Validate(); err != nil {
		return placement.Result{}, false, err
	}
	if err := ctx.Err(); err != nil {
		return placement.Result{}, false, err
	}

	s.buf = s.candidates(s.buf[:0], q.Definition)
	workers := 1
	if len(s.buf) >= parallelCandidates {
		workers = 0
	}
	admitted := concurrent.Filter(s.buf, workers, func(c candidate) bool {
		return s.admissible(c.box, q.Rules)
	})
	for _, c := range admitted {
		s.ranked.Enqueue(c, s.score(c.box, q.Constraints))
	}
	best, ok := s.ranked.Dequeue()
	for !s.ranked.IsEmpty() {
		s.ranked.Dequeue()
	}
	if !ok {
		s.logger.Debug("no admissible location", log.String("query", q.Name))
		return placement.Result{}, false, nil
	}

	s.placed = append(s.placed, best.box)
	return placement.Result{
		Query:      q.Name,
		Position:   best.box.Center,
		Normal:     best.normal,
		ObjectType: q.ObjectType,
		Dimensions: q.Dimensions,
	}, true, nil
}

func (s *Solver) candidates(dst []candidate, def placement.Definition) []candidate {
	r, h, step := s.room, def.HalfDims, s.room.GridStep
	size := h.Scale(2)

	switch def.Shape {
	case placement.ShapeOnFloor, placement.ShapeOnCeiling:
		y, normal := r.FloorY+h.Y, physics.Up
		if def.Shape == placement.ShapeOnCeiling {
			y, normal = r.CeilingY-h.Y, physics.V(0, -1, 0)
		}
		for _, x := range steps(r.MinX+h.X, r.MaxX-h.X, step) {
			for _, z := range steps(r.MinZ+h.Z, r.MaxZ-h.Z, step) {
				dst = append(dst, candidate{physics.NewBounds(physics.V(x, y, z), size), normal})
			}
		}
	case placement.ShapeInMidAir:
		for _, y := range steps(r.FloorY+h.Y, r.CeilingY-h.Y, step) {
			for _, x := range steps(r.MinX+h.X, r.MaxX-h.X, step) {
				for _, z := range steps(r.MinZ+h.Z, r.MaxZ-h.Z, step) {
					dst = append(dst, candidate{physics.NewBounds(physics.V(x, y, z), size), physics.Forward})
				}
			}
		}
	case placement.ShapeOnWall:
		// depth (Z half extent) points out of the wall
		ys := steps(r.FloorY+h.Y, r.CeilingY-h.Y, step)
		xSize := physics.V(2*h.Z, 2*h.Y, 2*h.X)
		for _, y := range ys {
			for _, z := range steps(r.MinZ+h.X, r.MaxZ-h.X, step) {
				dst = append(dst,
					candidate{physics.NewBounds(physics.V(r.MinX+h.Z, y, z), xSize), physics.Right},
					candidate{physics.NewBounds(physics.V(r.MaxX-h.Z, y, z), xSize), physics.V(-1, 0, 0)},
				)
			}
			for _, x := range steps(r.MinX+h.X, r.MaxX-h.X, step) {
				dst = append(dst,
					candidate{physics.NewBounds(physics.V(x, y, r.MinZ+h.Z), size), physics.Forward},
					candidate{physics.NewBounds(physics.V(x, y, r.MaxZ-h.Z), size), physics.V(0, 0, -1)},
				)
			}
		}
	}
	return dst
}

func (s *Solver) admissible(box physics.Bounds, rules []placement.Rule) bool {
	for _, p := range s.placed {
		if box.Intersects(p) {
			return false
		}
	}
	for _, rule := range rules {
		switch rule.Kind {
		case placement.RuleAwayFromOtherObjects:
			for _, p := range s.placed {
				if box.Gap(p) < rule.Distance {
					return false
				}
			}
		case placement.RuleAwayFromPosition:
			if box.Gap(physics.NewBounds(rule.Position, physics.Zero)) < rule.Distance {
				return false
			}
		case placement.RuleAwayFromWalls:
			if s.room.wallGap(box) < rule.Distance {
				return false
			}
		}
	}
	return true
}

// score is lower for better candidates. A distance band contributes how far the candidate
// lies outside it; AwayFromOthers rewards separation from the closest earlier placement.
func (s *Solver) score(box physics.Bounds, constraints []placement.Constraint) float64 {
	var total float64
	for _, c := range constraints {
		switch c.Kind {
		case placement.ConstraintNearCenter:
			total += band(physics.Distance2(box.Center, s.room.Center()), c.MinDistance, c.MaxDistance)
		case placement.ConstraintNearPoint:
			total += band(box.Center.Distance(c.Position), c.MinDistance, c.MaxDistance)
		case placement.ConstraintAwayFromOtherObjects:
			nearest := math.Inf(1)
			for _, p := range s.placed {
				nearest = math.Min(nearest, box.Gap(p))
			}
			if !math.IsInf(nearest, 1) {
				total -= nearest
			}
		}
	}
	return total
}

func band(d, lo, hi float64) float64 {
	switch {
	case d < lo:
		return lo - d
	case hi > 0 && d > hi:
		return d - hi
	}
	return 0
}
