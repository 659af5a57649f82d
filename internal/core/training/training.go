// Package training runs a target-practice session: once the room scan is done it composes
// the scene, launches targets one after another and scores whether the player hit each one
// before it landed.
package training

import (
	"context"
	"errors"
	"fmt"

	"github.com/zeusync/artrainer/internal/core/collection"
	"github.com/zeusync/artrainer/internal/core/events"
	"github.com/zeusync/artrainer/internal/core/events/bus"
	"github.com/zeusync/artrainer/internal/core/models"
	"github.com/zeusync/artrainer/internal/core/observability/log"
	"github.com/zeusync/artrainer/internal/core/systems/physics"
)

// DefaultTargetCount is used when the configured count is zero.
const DefaultTargetCount = 10

// DefaultLaunchForce pushes a target straight up.
var DefaultLaunchForce = physics.V(0, 2, 0)

// Physics applies forces to scene objects.
type Physics interface {
	AddForce(obj *models.SceneObject, force physics.Vec3)
}

// Focus reports the object the player is looking at, nil when none.
type Focus interface {
	FocusedObject() *models.SceneObject
}

// Scene composes targets and reports how many placements are still waiting to spawn.
type Scene interface {
	ComposeScene(ctx context.Context, targetCount int) error
	Pending() int
}

// Targets hands out spawned targets in spawn order.
type Targets interface {
	NextTarget() (*models.SceneObject, error)
}

type Config struct {
	TargetCount int
	LaunchForce physics.Vec3
}

type Score struct {
	Hits   int
	Misses int
}

func (s Score) Total() int { return s.Hits + s.Misses }

// Controller is driven by bus events and by the tick loop. It must be used from the tick
// goroutine.
type Controller struct {
	bus     bus.EventBus
	scene   Scene
	targets Targets
	physics Physics
	focus   Focus
	cfg     Config
	logger  log.Log

	ctx      context.Context
	subs     []bus.Subscription
	started  bool
	waiting  bool
	finished bool
	current  *models.SceneObject
	score    Score
}

func NewController(eb bus.EventBus, scene Scene, targets Targets, phys Physics, focus Focus, cfg Config, logger log.Log) *Controller {
	if cfg.TargetCount <= 0 {
		cfg.TargetCount = DefaultTargetCount
	}
	if cfg.LaunchForce == physics.Zero {
		cfg.LaunchForce = DefaultLaunchForce
	}
	return &Controller{
		bus:     eb,
		scene:   scene,
		targets: targets,
		physics: phys,
		focus:   focus,
		cfg:     cfg,
		logger:  logger.Named("training"),
		ctx:     context.Background(),
	}
}

// Start waits for scan_done. ctx bounds the solver calls made while composing the scene.
func (c *Controller) Start(ctx context.Context) error {
	c.ctx = ctx
	return c.listen(events.ScanDone, c.onScanDone)
}

func (c *Controller) listen(eventType string, fn func(bus.Event) error) error {
	sub, err := c.bus.Subscribe(eventType, fn)
	if err != nil {
		return fmt.Errorf("training: subscribe %s: %w", eventType, err)
	}
	c.subs = append(c.subs, sub)
	return nil
}

// Stop drops every subscription.
func (c *Controller) Stop() error {
	var errs []error
	for _, sub := range c.subs {
		errs = append(errs, c.bus.Unsubscribe(sub))
	}
	c.subs = nil
	return errors.Join(errs...)
}

func (c *Controller) onScanDone(bus.Event) error {
	if c.started {
		return nil
	}
	if err := c.scene.ComposeScene(c.ctx, c.cfg.TargetCount); err != nil {
		return fmt.Errorf("training: compose scene: %w", err)
	}
	if err := c.listen(events.Click, c.onClick); err != nil {
		return err
	}
	if err := c.listen(events.FloorCollision, c.onFloorCollision); err != nil {
		return err
	}
	c.started = true
	c.logger.Info("training started", log.Int("targets", c.cfg.TargetCount))
	return c.AppearNextTarget()
}

func (c *Controller) onClick(bus.Event) error {
	focused := c.focus.FocusedObject()
	if focused == nil || !focused.HasTag(models.TagTarget) || focused.Resolved() {
		return nil
	}
	focused.MarkHit()
	models.ColorOutline(focused, models.ColorGreen)
	c.logger.Debug("target hit", log.String("target", focused.Name()))
	return nil
}

func (c *Controller) onFloorCollision(bus.Event) error {
	return c.AppearNextTarget()
}

// OnTargetCollision is the physics callback for a target touching geometry. The first
// collision resolves the target, colours its outline and announces floor_collision.
func (c *Controller) OnTargetCollision(obj *models.SceneObject) error {
	if !obj.Collide() {
		return nil
	}
	if obj.WasHit() {
		c.score.Hits++
		models.ColorOutline(obj, models.ColorGreen)
	} else {
		c.score.Misses++
		models.ColorOutline(obj, models.ColorRed)
	}
	c.logger.Debug("target landed",
		log.String("target", obj.Name()),
		log.String("state", obj.TargetState().String()))
	return c.bus.Publish(bus.NewEvent(events.FloorCollision, events.SourceTarget, obj))
}

// AppearNextTarget activates the next spawned target and launches it. When the registry is
// empty but placements are still spawning, the launch is retried on the next Update. When
// nothing is left the session finishes.
func (c *Controller) AppearNextTarget() error {
	target, err := c.targets.NextTarget()
	switch {
	case errors.Is(err, collection.ErrEmptyRegistry):
		if c.scene.Pending() > 0 {
			c.waiting = true
			return nil
		}
		c.finish()
		return nil
	case err != nil:
		return err
	}

	c.waiting = false
	c.current = target
	target.SetActive(true)
	c.physics.AddForce(target, c.cfg.LaunchForce)
	c.logger.Debug("target launched", log.String("target", target.Name()))
	return nil
}

func (c *Controller) finish() {
	if c.finished {
		return
	}
	c.finished = true
	c.waiting = false
	c.current = nil
	c.logger.Info("training finished",
		log.Int("hits", c.score.Hits),
		log.Int("misses", c.score.Misses))
}

func (c *Controller) Name() string { return "training" }

func (c *Controller) Update(float64) error {
	if c.started && c.waiting {
		return c.AppearNextTarget()
	}
	return nil
}

func (c *Controller) Started() bool                { return c.started }
func (c *Controller) Finished() bool               { return c.finished }
func (c *Controller) Score() Score                 { return c.score }
func (c *Controller) Current() *models.SceneObject { return c.current }
