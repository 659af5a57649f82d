// Package app wires the trainer components into runnable units.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/zeusync/artrainer/internal/config"
	"github.com/zeusync/artrainer/internal/core/collection"
	"github.com/zeusync/artrainer/internal/core/composer"
	"github.com/zeusync/artrainer/internal/core/events/bus"
	"github.com/zeusync/artrainer/internal/core/observability/log"
	"github.com/zeusync/artrainer/internal/core/spatial"
	"github.com/zeusync/artrainer/internal/core/system"
	"github.com/zeusync/artrainer/internal/core/training"
	"github.com/zeusync/artrainer/internal/engine"
	"github.com/zeusync/artrainer/internal/solver/remote"
)

var ErrSessionTimeout = errors.New("app: training session did not finish in time")

// App is a headless training session.
type App struct {
	Config     *config.Config
	Logger     log.Log
	Bus        bus.EventBus
	Tracker    *spatial.Tracker
	Collection *collection.Manager
	Composer   *composer.Composer
	World      *engine.World
	Training   *training.Controller
	Loop       *system.Loop
}

func New(cfg *config.Config, logger log.Log, eb bus.EventBus, tracker *spatial.Tracker, manager *collection.Manager, comp *composer.Composer, world *engine.World, ctrl *training.Controller, loop *system.Loop) *App {
	return &App{
		Config:     cfg,
		Logger:     logger,
		Bus:        eb,
		Tracker:    tracker,
		Collection: manager,
		Composer:   comp,
		World:      world,
		Training:   ctrl,
		Loop:       loop,
	}
}

// Run plays one session to the end and returns its score.
func (a *App) Run(ctx context.Context) (training.Score, error) {
	if limit := a.Config.Session.MaxDuration; limit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, limit)
		defer cancel()
	}
	if err := a.Training.Start(ctx); err != nil {
		return training.Score{}, err
	}
	defer func() {
		if err := a.Training.Stop(); err != nil {
			a.Logger.Warn("stopping training", log.Error(err))
		}
		a.Collection.ClearAll()
	}()

	err := a.Loop.RunUntil(ctx, a.Training.Finished)
	score := a.Training.Score()
	if errors.Is(err, context.DeadlineExceeded) {
		return score, fmt.Errorf("%w: %d targets resolved", ErrSessionTimeout, score.Total())
	}
	return score, err
}

// Solverd serves the local solver to remote clients.
type Solverd struct {
	Config *config.Config
	Logger log.Log
	Server *remote.Server
}

func NewSolverd(cfg *config.Config, logger log.Log, srv *remote.Server) *Solverd {
	return &Solverd{Config: cfg, Logger: logger, Server: srv}
}
