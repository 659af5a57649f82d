package models

// TargetState is the lifecycle of a spawned target.
type TargetState uint8

const (
	StateSpawned TargetState = iota
	StateActivated
	StateCollided
	StateResolvedHit
	StateResolvedMiss
	StateDestroyed
)

func (s TargetState) String() string {
	switch s {
	case StateSpawned:
		return "spawned"
	case StateActivated:
		return "activated"
	case StateCollided:
		return "collided"
	case StateResolvedHit:
		return "hit"
	case StateResolvedMiss:
		return "miss"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

type targetState struct {
	state TargetState
	hit   bool
}

func (o *SceneObject) TargetState() TargetState { return o.target.state }

// MarkHit records that the player hit the target before it landed.
func (o *SceneObject) MarkHit() {
	if o.destroyed {
		return
	}
	o.target.hit = true
}

func (o *SceneObject) WasHit() bool { return o.target.hit }

// Collide registers a collision. Only the first collision after activation counts: it
// resolves the target to hit or miss and returns true. Later calls return false.
func (o *SceneObject) Collide() bool {
	if o.target.state != StateActivated {
		return false
	}
	o.target.state = StateCollided
	if o.target.hit {
		o.target.state = StateResolvedHit
	} else {
		o.target.state = StateResolvedMiss
	}
	return true
}

// Resolved reports whether the target finished its flight.
func (o *SceneObject) Resolved() bool {
	return o.target.state == StateResolvedHit || o.target.state == StateResolvedMiss
}
