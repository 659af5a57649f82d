package app

import (
	"context"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/google/wire"

	"github.com/zeusync/artrainer/internal/config"
	"github.com/zeusync/artrainer/internal/core/collection"
	"github.com/zeusync/artrainer/internal/core/composer"
	"github.com/zeusync/artrainer/internal/core/events/bus"
	"github.com/zeusync/artrainer/internal/core/observability/log"
	"github.com/zeusync/artrainer/internal/core/placement"
	"github.com/zeusync/artrainer/internal/core/spatial"
	"github.com/zeusync/artrainer/internal/core/system"
	"github.com/zeusync/artrainer/internal/core/training"
	"github.com/zeusync/artrainer/internal/engine"
	"github.com/zeusync/artrainer/internal/solver/local"
	"github.com/zeusync/artrainer/internal/solver/remote"
)

// ProviderSet assembles a headless training session.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideBus,
	ProvideTracker,
	ProvideGateway,
	ProvideCollection,
	ProvideComposer,
	ProvideWorld,
	ProvideGaze,
	ProvideTraining,
	ProvideLoop,
	New,
)

// SolverdSet assembles the solver daemon.
var SolverdSet = wire.NewSet(
	ProvideLogger,
	ProvideSolverServer,
	NewSolverd,
)

func ProvideLogger(cfg *config.Config) (log.Log, func(), error) {
	logger, err := log.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("app: build logger: %w", err)
	}
	return logger, func() { _ = logger.Sync() }, nil
}

func ProvideBus() bus.EventBus { return bus.New() }

func ProvideTracker(eb bus.EventBus, logger log.Log) *spatial.Tracker {
	return spatial.NewTracker(eb, logger)
}

// ProvideGateway connects to the solver selected by solver.transport.
func ProvideGateway(ctx context.Context, cfg *config.Config, logger log.Log) (placement.Gateway, func(), error) {
	s := cfg.Solver
	var (
		gw     placement.Gateway
		closer io.Closer
		err    error
	)
	switch s.Transport {
	case config.TransportWebSocket:
		var ws *remote.WebSocketGateway
		ws, err = remote.DialWebSocket(ctx, websocketURL(s.Addr), s.Timeout, logger)
		gw, closer = ws, ws
	case config.TransportQUIC:
		host, _, splitErr := net.SplitHostPort(s.QUICAddr)
		if splitErr != nil {
			return nil, nil, fmt.Errorf("app: solver.quic_addr: %w", splitErr)
		}
		var q *remote.QUICGateway
		q, err = remote.DialQUIC(ctx, s.QUICAddr, remote.ClientTLS(host, s.InsecureSkipVerify), s.Timeout, logger)
		gw, closer = q, q
	default:
		gw, err = local.New(cfg.Room, logger)
	}
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {}
	if closer != nil {
		cleanup = func() {
			if err := closer.Close(); err != nil {
				logger.Warn("closing solver gateway", log.Error(err))
			}
		}
	}
	logger.Info("solver gateway ready", log.String("transport", string(s.Transport)))
	return gw, cleanup, nil
}

func websocketURL(addr string) string {
	if strings.HasPrefix(addr, "ws://") || strings.HasPrefix(addr, "wss://") {
		return addr
	}
	return "ws://" + addr + "/solver"
}

func ProvideCollection(cfg *config.Config, logger log.Log) (*collection.Manager, error) {
	return collection.NewManager(cfg.CollectionConfig(), logger)
}

func ProvideComposer(gw placement.Gateway, tracker *spatial.Tracker, manager *collection.Manager, cfg *config.Config, logger log.Log) *composer.Composer {
	return composer.New(gw, tracker, manager, composer.Config{MinDistance: cfg.Placement.MinDistance}, logger)
}

func ProvideWorld(cfg *config.Config, logger log.Log) *engine.World {
	return engine.NewWorld(cfg.Room.FloorY, cfg.Training.Gravity, logger)
}

func ProvideGaze() *engine.Gaze { return &engine.Gaze{} }

func ProvideTraining(eb bus.EventBus, comp *composer.Composer, manager *collection.Manager, world *engine.World, gaze *engine.Gaze, cfg *config.Config, logger log.Log) *training.Controller {
	ctrl := training.NewController(eb, comp, manager, world, gaze, cfg.TrainingConfig(), logger)
	world.OnCollision(ctrl.OnTargetCollision)
	return ctrl
}

// ProvideLoop registers the session systems. Order within a tick: scan, scene, physics,
// then the scripted player.
func ProvideLoop(cfg *config.Config, eb bus.EventBus, tracker *spatial.Tracker, comp *composer.Composer, ctrl *training.Controller, world *engine.World, gaze *engine.Gaze, logger log.Log) (*system.Loop, error) {
	script := cfg.Session
	loop := system.NewLoop(cfg.Loop.TickRate, logger)
	registrations := []struct {
		sys      system.System
		priority system.Priority
	}{
		{engine.NewScanner(tracker, eb, script.ScanDuration), system.PriorityHighest},
		{tracker, system.PriorityHigh},
		{comp, system.PriorityNormal},
		{ctrl, system.PriorityNormal},
		{world, system.PriorityLow},
		{engine.NewPlayer(world, gaze, eb, script.ReactionTime, script.Accuracy, logger), system.PriorityLowest},
	}
	for _, r := range registrations {
		if err := loop.RegisterSystem(r.sys, r.priority); err != nil {
			return nil, err
		}
	}
	return loop, nil
}

// ProvideSolverServer serves one local solver per connection.
func ProvideSolverServer(cfg *config.Config, logger log.Log) (*remote.Server, error) {
	if err := cfg.Room.Validate(); err != nil {
		return nil, err
	}
	room := cfg.Room
	factory := func() (placement.Gateway, error) { return local.New(room, logger) }
	return remote.NewServer(factory, logger), nil
}
