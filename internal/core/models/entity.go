package models

import (
	"slices"

	"github.com/google/uuid"

	"github.com/zeusync/artrainer/internal/core/systems/physics"
)

// SceneObject is a spawned, positioned instance owned by a collection manager.
type SceneObject struct {
	id         uuid.UUID
	name       string
	tag        string
	Position   physics.Vec3
	Rotation   physics.Quat
	LocalScale physics.Vec3

	active    bool
	destroyed bool
	parent    *SceneObject
	children  []*SceneObject

	components map[ComponentID]Component
	target     targetState
}

func NewSceneObject(name string) *SceneObject {
	return &SceneObject{
		id:         uuid.New(),
		name:       name,
		Rotation:   physics.Identity,
		LocalScale: physics.One,
		components: make(map[ComponentID]Component),
	}
}

func (o *SceneObject) ID() uuid.UUID          { return o.id }
func (o *SceneObject) Name() string           { return o.name }
func (o *SceneObject) SetName(name string)    { o.name = name }
func (o *SceneObject) Tag() string            { return o.tag }
func (o *SceneObject) SetTag(tag string)      { o.tag = tag }
func (o *SceneObject) HasTag(tag string) bool { return o.tag == tag }

func (o *SceneObject) IsActive() bool    { return o.active && !o.destroyed }
func (o *SceneObject) IsDestroyed() bool { return o.destroyed }

// SetActive toggles the object. Activating a spawned target advances its state.
func (o *SceneObject) SetActive(active bool) {
	if o.destroyed {
		return
	}
	o.active = active
	if active && o.target.state == StateSpawned {
		o.target.state = StateActivated
	}
}

func (o *SceneObject) Parent() *SceneObject { return o.parent }

// SetParent re-parents o; nil detaches it.
func (o *SceneObject) SetParent(p *SceneObject) {
	if o.parent != nil {
		o.parent.children = slices.DeleteFunc(o.parent.children, func(c *SceneObject) bool { return c == o })
	}
	o.parent = p
	if p != nil {
		p.children = append(p.children, o)
	}
}

func (o *SceneObject) Children() []*SceneObject { return slices.Clone(o.children) }

// Destroy deactivates o and its children and detaches it from its parent.
func (o *SceneObject) Destroy() {
	if o.destroyed {
		return
	}
	for _, c := range slices.Clone(o.children) {
		c.Destroy()
	}
	o.SetParent(nil)
	o.active = false
	o.destroyed = true
	o.target.state = StateDestroyed
}

func (o *SceneObject) AddComponent(c Component) {
	o.components[c.TypeID()] = c
}

func (o *SceneObject) GetComponent(id ComponentID) (Component, bool) {
	c, ok := o.components[id]
	return c, ok
}

func (o *SceneObject) HasComponent(id ComponentID) bool {
	_, ok := o.components[id]
	return ok
}

// Outline returns the attached outline capability, if any.
func (o *SceneObject) Outline() (*Outline, bool) {
	c, ok := o.components[ComponentOutline]
	if !ok {
		return nil, false
	}
	out, ok := c.(*Outline)
	return out, ok
}
