package models

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/artrainer/internal/core/systems/physics"
)

// Template is a prefab: a named set of renderable part bounds plus the local scale that
// instances start from.
type Template struct {
	Name       string           `yaml:"name" toml:"name"`
	LocalScale physics.Vec3     `yaml:"local_scale" toml:"local_scale"`
	Parts      []physics.Bounds `yaml:"parts" toml:"parts"`
}

// CombinedBounds merges every part, starting from the first part's bounds. The second
// return is false when the template has no parts.
func (t *Template) CombinedBounds() (physics.Bounds, bool) {
	if len(t.Parts) == 0 {
		return physics.Bounds{}, false
	}
	b := t.Parts[0]
	for _, p := range t.Parts[1:] {
		b = b.Encapsulate(p)
	}
	return b, true
}

// Fingerprint hashes the template's name, scale, and geometry. Two templates with the same
// fingerprint normalise to the same scale factor.
func (t *Template) Fingerprint() uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(t.Name)
	buf := make([]byte, 8)
	writeVec := func(v physics.Vec3) {
		for _, f := range []float64{v.X, v.Y, v.Z} {
			binary.LittleEndian.PutUint64(buf, math.Float64bits(f))
			_, _ = d.Write(buf)
		}
	}
	writeVec(t.LocalScale)
	for _, p := range t.Parts {
		writeVec(p.Center)
		writeVec(p.Size)
	}
	return d.Sum64()
}

// Instantiate creates an inactive instance at the given pose with the template's scale
// (unit scale when the template leaves it unset).
func (t *Template) Instantiate(position physics.Vec3, rotation physics.Quat) *SceneObject {
	obj := NewSceneObject(t.Name)
	obj.Position = position
	obj.Rotation = rotation
	if t.LocalScale != physics.Zero {
		obj.LocalScale = t.LocalScale
	}
	return obj
}
