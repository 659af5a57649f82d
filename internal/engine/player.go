package engine

import (
	"github.com/zeusync/artrainer/internal/core/events"
	"github.com/zeusync/artrainer/internal/core/events/bus"
	"github.com/zeusync/artrainer/internal/core/models"
	"github.com/zeusync/artrainer/internal/core/observability/log"
)

// Gaze is the object under the player's cursor.
type Gaze struct {
	focused *models.SceneObject
}

func (g *Gaze) Look(obj *models.SceneObject) { g.focused = obj }
func (g *Gaze) LookAway()                    { g.focused = nil }

// FocusedObject returns the looked-at object while it is still live.
func (g *Gaze) FocusedObject() *models.SceneObject {
	if g.focused == nil || !g.focused.IsActive() {
		return nil
	}
	return g.focused
}

// Player is a scripted trainee. For every airborne target it waits ReactionTime seconds,
// then either looks at it and clicks or looks away, following Accuracy cyclically.
type Player struct {
	ReactionTime float64
	Accuracy     []bool

	world *World
	gaze  *Gaze
	bus   bus.EventBus

	tracking *models.SceneObject
	elapsed  float64
	acted    bool
	seen     int
	logger   log.Log
}

func NewPlayer(world *World, gaze *Gaze, eb bus.EventBus, reaction float64, accuracy []bool, logger log.Log) *Player {
	if len(accuracy) == 0 {
		accuracy = []bool{true}
	}
	return &Player{
		ReactionTime: reaction,
		Accuracy:     accuracy,
		world:        world,
		gaze:         gaze,
		bus:          eb,
		logger:       logger.Named("player"),
	}
}

func (p *Player) Name() string { return "player" }

func (p *Player) Update(dt float64) error {
	airborne := p.world.Airborne()
	if len(airborne) == 0 {
		p.tracking = nil
		p.gaze.LookAway()
		return nil
	}
	target := airborne[0]
	if target != p.tracking {
		p.tracking, p.elapsed, p.acted = target, 0, false
		p.seen++
	}
	p.elapsed += dt
	if p.acted || p.elapsed < p.ReactionTime {
		return nil
	}
	p.acted = true

	if !p.Accuracy[(p.seen-1)%len(p.Accuracy)] {
		p.gaze.LookAway()
		return nil
	}
	p.gaze.Look(target)
	p.logger.Debug("click", log.String("target", target.Name()))
	return p.bus.Publish(bus.NewEvent(events.Click, events.SourceClicker, nil))
}
