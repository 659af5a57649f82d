package local

import (
	"errors"
	"fmt"

	"github.com/zeusync/artrainer/internal/core/systems/physics"
)

var ErrInvalidRoom = errors.New("local: invalid room")

// Room is the axis-aligned playspace the solver searches. The floor is at FloorY and the
// walls are the four vertical planes at the X and Z limits.
type Room struct {
	FloorY   float64 `yaml:"floor_y" toml:"floor_y"`
	CeilingY float64 `yaml:"ceiling_y" toml:"ceiling_y"`
	MinX     float64 `yaml:"min_x" toml:"min_x"`
	MaxX     float64 `yaml:"max_x" toml:"max_x"`
	MinZ     float64 `yaml:"min_z" toml:"min_z"`
	MaxZ     float64 `yaml:"max_z" toml:"max_z"`
	GridStep float64 `yaml:"grid_step" toml:"grid_step"`
}

func DefaultRoom() Room {
	return Room{
		FloorY:   0,
		CeilingY: 3,
		MinX:     -3,
		MaxX:     3,
		MinZ:     -3,
		MaxZ:     3,
		GridStep: 0.25,
	}
}

func (r Room) Validate() error {
	switch {
	case r.GridStep <= 0:
		return fmt.Errorf("%w: grid_step must be positive", ErrInvalidRoom)
	case r.MaxX <= r.MinX || r.MaxZ <= r.MinZ:
		return fmt.Errorf("%w: empty floor rectangle", ErrInvalidRoom)
	case r.CeilingY <= r.FloorY:
		return fmt.Errorf("%w: ceiling must be above floor", ErrInvalidRoom)
	}
	return nil
}

func (r Room) Bounds() physics.Bounds {
	lo := physics.V(r.MinX, r.FloorY, r.MinZ)
	hi := physics.V(r.MaxX, r.CeilingY, r.MaxZ)
	return physics.NewBounds(lo.Add(hi).Scale(0.5), hi.Sub(lo))
}

// Center is the middle of the floor rectangle.
func (r Room) Center() physics.Vec3 {
	return physics.V((r.MinX+r.MaxX)/2, r.FloorY, (r.MinZ+r.MaxZ)/2)
}

// wallGap is the horizontal distance from b to the nearest wall.
func (r Room) wallGap(b physics.Bounds) float64 {
	bmin, bmax := b.Min(), b.Max()
	return min(bmin.X-r.MinX, r.MaxX-bmax.X, bmin.Z-r.MinZ, r.MaxZ-bmax.Z)
}

// steps lists grid coordinates in [lo, hi], empty when the range is inverted.
func steps(lo, hi, step float64) []float64 {
	if hi < lo-1e-9 {
		return nil
	}
	n := int((hi-lo)/step+1e-9) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
