// Package collection owns the live placed objects of a training session.
package collection

import (
	"fmt"

	"github.com/zeusync/artrainer/internal/core/models"
	"github.com/zeusync/artrainer/internal/core/observability/log"
	"github.com/zeusync/artrainer/internal/core/systems/physics"
	"github.com/zeusync/artrainer/pkg/sequence"
)

// Config describes the target prefab and the size every instance is normalised to.
type Config struct {
	TargetSize physics.Vec3
	TargetName string
	Template   *models.Template
	ScaleMode  ScaleMode
}

// Manager spawns targets and keeps them in a first-in-first-out registry. It is the only
// component that destroys registered objects. Not safe for concurrent use: it is driven
// from the tick goroutine.
type Manager struct {
	cfg        Config
	root       *models.SceneObject
	normalizer *Normalizer
	registry   *sequence.Queue[*models.SceneObject]
	spawned    int
	logger     log.Log
}

func NewManager(cfg Config, logger log.Log) (*Manager, error) {
	if cfg.Template == nil {
		return nil, fmt.Errorf("%w: target template is required", ErrInvalidConfig)
	}
	if !cfg.TargetSize.NonNegative() {
		return nil, fmt.Errorf("%w: target size %+v", ErrInvalidConfig, cfg.TargetSize)
	}
	if cfg.ScaleMode != "" && !cfg.ScaleMode.Valid() {
		return nil, fmt.Errorf("%w: scale mode %q", ErrInvalidConfig, cfg.ScaleMode)
	}
	if cfg.TargetName == "" {
		cfg.TargetName = cfg.Template.Name
	}
	return &Manager{
		cfg:        cfg,
		root:       models.NewSceneObject("ObjectCollection"),
		normalizer: NewNormalizer(cfg.TargetSize, cfg.ScaleMode),
		registry:   sequence.NewQueue[*models.SceneObject](),
		logger:     logger.Named("collection"),
	}, nil
}

func (m *Manager) TargetSize() physics.Vec3       { return m.cfg.TargetSize }
func (m *Manager) Root() *models.SceneObject      { return m.root }
func (m *Manager) Normalizer() *Normalizer        { return m.normalizer }
func (m *Manager) Template() *models.Template     { return m.cfg.Template }
func (m *Manager) Count() int                     { return m.registry.Len() }
func (m *Manager) Objects() []*models.SceneObject { return m.registry.Values() }

// SpawnTarget instantiates a target whose base rests at positionCenter: the object is
// shifted down by half the target height. The target starts inactive with an outline
// and joins the back of the registry.
func (m *Manager) SpawnTarget(positionCenter physics.Vec3, rotation physics.Quat) (*models.SceneObject, error) {
	scale, err := m.normalizer.Rescale(m.cfg.Template)
	if err != nil {
		return nil, err
	}

	position := positionCenter.Sub(physics.V(0, m.cfg.TargetSize.Y*0.5, 0))
	obj := m.cfg.Template.Instantiate(position, rotation)
	m.spawned++
	obj.SetName(fmt.Sprintf("%s-%d", m.cfg.TargetName, m.spawned))
	obj.SetParent(m.root)
	obj.SetTag(models.TagTarget)
	obj.LocalScale = scale
	obj.SetActive(false)
	obj.AddComponent(models.NewOutline())
	m.registry.Enqueue(obj)

	m.logger.Debug("target spawned",
		log.String("name", obj.Name()),
		log.Any("position", position),
		log.Int("registered", m.registry.Len()))
	return obj, nil
}

// NextTarget removes and returns the oldest registered object.
func (m *Manager) NextTarget() (*models.SceneObject, error) {
	obj, ok := m.registry.Dequeue()
	if !ok {
		return nil, ErrEmptyRegistry
	}
	return obj, nil
}

// ClearAll destroys every registered object and every target already handed out by
// NextTarget, then empties the registry.
func (m *Manager) ClearAll() {
	n := 0
	for _, obj := range m.registry.Values() {
		obj.Destroy()
		n++
	}
	m.registry.Clear()
	for _, obj := range m.root.Children() {
		obj.Destroy()
		n++
	}
	m.logger.Debug("registry cleared", log.Int("destroyed", n))
}
