// Package composer turns "place N targets" into solver queries and feeds the results into
// the scene one per tick.
package composer

import (
	"context"
	"errors"
	"fmt"

	"github.com/zeusync/artrainer/internal/core/models"
	"github.com/zeusync/artrainer/internal/core/observability/log"
	"github.com/zeusync/artrainer/internal/core/placement"
	"github.com/zeusync/artrainer/internal/core/spatial"
	"github.com/zeusync/artrainer/internal/core/systems/physics"
)

var ErrInvalidCount = errors.New("composer: target count must be non-negative")

// TargetSpawner is the collection manager operation targets are dispatched to.
type TargetSpawner interface {
	SpawnTarget(positionCenter physics.Vec3, rotation physics.Quat) (*models.SceneObject, error)
	TargetSize() physics.Vec3
}

type Config struct {
	// MinDistance is the away-from-other-objects rule distance.
	MinDistance float64
}

// Composer builds placement queries, submits them to the solver gateway, and drains the
// results into the scene at most one per Update. It runs on the tick goroutine.
type Composer struct {
	gateway       placement.Gateway
	understanding spatial.Understanding
	targets       TargetSpawner
	results       *placement.ResultQueue
	cfg           Config
	logger        log.Log
}

func New(gateway placement.Gateway, understanding spatial.Understanding, targets TargetSpawner, cfg Config, logger log.Log) *Composer {
	if cfg.MinDistance <= 0 {
		cfg.MinDistance = placement.DefaultMinDistance
	}
	return &Composer{
		gateway:       gateway,
		understanding: understanding,
		targets:       targets,
		results:       placement.NewResultQueue(),
		cfg:           cfg,
		logger:        logger.Named("composer"),
	}
}

// ComposeScene requests targetCount targets from a fresh solver session. It is a no-op
// while spatial understanding is not allowed. Slots the solver cannot satisfy are dropped,
// so fewer than targetCount results may be queued. Only a failed session start or a
// cancelled context is returned.
func (c *Composer) ComposeScene(ctx context.Context, targetCount int) error {
	if targetCount < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCount, targetCount)
	}
	if !c.understanding.Allowed() {
		c.logger.Debug("spatial understanding not allowed, skipping scene composition")
		return nil
	}
	if err := c.gateway.Init(ctx); err != nil {
		return fmt.Errorf("composer: init solver session: %w", err)
	}

	queries := placement.BuildQueries(targetCount, c.targets.TargetSize(), placement.ObjectTarget, c.cfg.MinDistance)
	placed := c.submit(ctx, queries)
	if err := ctx.Err(); err != nil {
		return err
	}

	c.logger.Info("scene composed",
		log.Int("requested", targetCount),
		log.Int("placed", placed),
		log.Int("pending", c.results.Len()))
	return nil
}

func (c *Composer) submit(ctx context.Context, queries []placement.Query) int {
	placed := 0
	for _, q := range queries {
		if ctx.Err() != nil {
			break
		}
		result, ok, err := c.gateway.Place(ctx, q)
		switch {
		case err != nil:
			c.logger.Warn("placement query failed", log.String("query", q.Name), log.Error(err))
		case !ok:
			c.logger.Debug("placement unsatisfiable", log.String("query", q.Name))
		default:
			c.results.Enqueue(result)
			placed++
		}
	}
	return placed
}

func (c *Composer) Name() string { return "composer" }

// Update applies at most one queued result.
func (c *Composer) Update(float64) error {
	result, ok := c.results.Dequeue()
	if !ok {
		return nil
	}
	spawn, err := result.Spawn()
	if err != nil {
		return err
	}
	switch s := spawn.(type) {
	case placement.TargetSpawn:
		if _, err := c.targets.SpawnTarget(s.Position, s.Rotation); err != nil {
			return fmt.Errorf("composer: spawn %s: %w", result.Query, err)
		}
	default:
		return fmt.Errorf("%w: %T", placement.ErrUnknownObjectType, spawn)
	}
	return nil
}

// Pending reports results waiting to be applied.
func (c *Composer) Pending() int { return c.results.Len() }
