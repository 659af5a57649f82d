package collection

import (
	"fmt"
	"math"

	"github.com/zeusync/artrainer/internal/core/models"
	"github.com/zeusync/artrainer/internal/core/systems/physics"
)

// ScaleMode selects how a template is fitted to the target size.
type ScaleMode string

const (
	// ScaleModeDriverAxis scales by the ratio on the axis that needs the most growth
	// (largest target-minus-bounds difference). Ties prefer X, then Y, then Z.
	ScaleModeDriverAxis ScaleMode = "driver_axis"
	// ScaleModeFit scales by the smallest per-axis ratio so no axis exceeds the target.
	ScaleModeFit ScaleMode = "fit"
)

func (m ScaleMode) Valid() bool {
	return m == ScaleModeDriverAxis || m == ScaleModeFit
}

// Normalizer computes and caches one uniform scale factor per template.
// It is owned by a single Manager and is not safe for concurrent use.
type Normalizer struct {
	target physics.Vec3
	mode   ScaleMode
	cache  map[uint64]float64
}

func NewNormalizer(target physics.Vec3, mode ScaleMode) *Normalizer {
	if mode == "" {
		mode = ScaleModeDriverAxis
	}
	return &Normalizer{target: target, mode: mode, cache: make(map[uint64]float64)}
}

// ScaleFactorFor returns the cached factor for t, computing it on first use or after
// Invalidate.
func (n *Normalizer) ScaleFactorFor(t *models.Template) (float64, error) {
	key := t.Fingerprint()
	if f := n.cache[key]; f != 0 {
		return f, nil
	}
	f, err := ComputeScaleFactor(n.target, t, n.mode)
	if err != nil {
		return 0, err
	}
	n.cache[key] = f
	return f, nil
}

// Invalidate zeroes the cached factor so the next request recomputes it.
func (n *Normalizer) Invalidate(t *models.Template) {
	n.cache[t.Fingerprint()] = 0
}

// Rescale returns t's local scale multiplied by its factor.
func (n *Normalizer) Rescale(t *models.Template) (physics.Vec3, error) {
	f, err := n.ScaleFactorFor(t)
	if err != nil {
		return physics.Zero, err
	}
	scale := t.LocalScale
	if scale == physics.Zero {
		scale = physics.One
	}
	return scale.Scale(f), nil
}

// ComputeScaleFactor fits t's combined part bounds to target.
func ComputeScaleFactor(target physics.Vec3, t *models.Template, mode ScaleMode) (float64, error) {
	bounds, ok := t.CombinedBounds()
	if !ok {
		return 0, fmt.Errorf("%w: %q has no renderable parts", ErrDegenerateTemplate, t.Name)
	}
	size := bounds.Size

	var ratio float64
	switch mode {
	case ScaleModeFit:
		ratio = math.Inf(1)
		for axis := 0; axis < 3; axis++ {
			if size.Axis(axis) == 0 {
				continue
			}
			ratio = math.Min(ratio, target.Axis(axis)/size.Axis(axis))
		}
	default:
		axis := DriverAxis(target.Sub(size))
		ratio = target.Axis(axis) / size.Axis(axis)
	}

	if math.IsNaN(ratio) || math.IsInf(ratio, 0) || ratio <= 0 {
		return 0, fmt.Errorf("%w: %q bounds %+v give scale %v", ErrDegenerateTemplate, t.Name, size, ratio)
	}
	return ratio, nil
}

// DriverAxis returns the index of the largest component of diff, preferring X over Y over Z.
func DriverAxis(diff physics.Vec3) int {
	axis := 0
	for i := 1; i < 3; i++ {
		if diff.Axis(i) > diff.Axis(axis) {
			axis = i
		}
	}
	return axis
}
