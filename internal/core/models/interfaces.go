package models

// ComponentID identifies a component type attached to a SceneObject.
type ComponentID uint32

const (
	ComponentOutline ComponentID = iota + 1
	ComponentBody
)

// Component is an opaque capability attached to a scene object.
type Component interface {
	TypeID() ComponentID
}

// Tags used on spawned objects.
const (
	TagTarget = "Target"
)
