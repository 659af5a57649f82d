// Package engine is a headless stand-in for the rendering engine: it integrates gravity for
// launched targets, reports floor contact, and scripts the player's scanner, gaze and clicks.
package engine

import (
	"github.com/zeusync/artrainer/internal/core/models"
	"github.com/zeusync/artrainer/internal/core/observability/log"
	"github.com/zeusync/artrainer/internal/core/systems/physics"
)

// DefaultGravity is Y-up gravity.
var DefaultGravity = physics.V(0, -9.81, 0)

type body struct {
	obj      *models.SceneObject
	velocity physics.Vec3
	mass     float64
}

// CollisionFunc is called once per body when it lands on the floor.
type CollisionFunc func(obj *models.SceneObject) error

// World moves launched objects under gravity until they touch the floor plane. Object
// positions are pivots at the base of the object.
type World struct {
	Gravity physics.Vec3
	FloorY  float64

	bodies    []*body
	onCollide CollisionFunc
	logger    log.Log
}

func NewWorld(floorY float64, gravity physics.Vec3, logger log.Log) *World {
	if gravity == physics.Zero {
		gravity = DefaultGravity
	}
	return &World{Gravity: gravity, FloorY: floorY, logger: logger.Named("engine")}
}

func (w *World) OnCollision(fn CollisionFunc) { w.onCollide = fn }

// AddForce applies force as an impulse on a unit mass, registering the object as a dynamic
// body if needed.
func (w *World) AddForce(obj *models.SceneObject, force physics.Vec3) {
	b := w.find(obj)
	if b == nil {
		b = &body{obj: obj, mass: 1}
		w.bodies = append(w.bodies, b)
	}
	b.velocity = b.velocity.Add(force.Scale(1 / b.mass))
}

func (w *World) find(obj *models.SceneObject) *body {
	for _, b := range w.bodies {
		if b.obj == obj {
			return b
		}
	}
	return nil
}

// Airborne returns the objects currently in flight.
func (w *World) Airborne() []*models.SceneObject {
	out := make([]*models.SceneObject, 0, len(w.bodies))
	for _, b := range w.bodies {
		out = append(out, b.obj)
	}
	return out
}

func (w *World) Name() string { return "engine" }

// Update integrates every active body. A body that reaches the floor while falling is
// clamped, removed from the simulation and reported.
func (w *World) Update(dt float64) error {
	var landed []*models.SceneObject
	kept := w.bodies[:0]
	for _, b := range w.bodies {
		if !b.obj.IsActive() {
			continue
		}
		b.velocity = b.velocity.Add(w.Gravity.Scale(dt))
		b.obj.Position = b.obj.Position.Add(b.velocity.Scale(dt))
		if b.obj.Position.Y <= w.FloorY && b.velocity.Y <= 0 {
			b.obj.Position.Y = w.FloorY
			landed = append(landed, b.obj)
			continue
		}
		kept = append(kept, b)
	}
	clear(w.bodies[len(kept):])
	w.bodies = kept

	for _, obj := range landed {
		w.logger.Debug("floor contact", log.String("object", obj.Name()))
		if w.onCollide != nil {
			if err := w.onCollide(obj); err != nil {
				return err
			}
		}
	}
	return nil
}
