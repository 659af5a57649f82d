package placement

import (
	"fmt"

	"github.com/zeusync/artrainer/internal/core/systems/physics"
)

// Spawn is the closed set of spawn requests a Result can turn into. Each variant carries
// what its object type needs; handlers switch over the concrete types.
type Spawn interface {
	isSpawn()
	ObjectType() ObjectType
}

// TargetSpawn places a practice target centred at Position.
type TargetSpawn struct {
	Position physics.Vec3
	Rotation physics.Quat
}

func (TargetSpawn) isSpawn()               {}
func (TargetSpawn) ObjectType() ObjectType { return ObjectTarget }

// Spawn converts the result to its typed variant.
func (r Result) Spawn() (Spawn, error) {
	switch r.ObjectType {
	case ObjectTarget:
		return TargetSpawn{Position: r.Position, Rotation: r.Rotation()}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownObjectType, r.ObjectType)
	}
}
