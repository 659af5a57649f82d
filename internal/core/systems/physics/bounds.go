package physics

import "math"

// Bounds is an axis-aligned box described by center and full size.
type Bounds struct {
	Center Vec3 `json:"center" yaml:"center" toml:"center"`
	Size   Vec3 `json:"size" yaml:"size" toml:"size"`
}

func NewBounds(center, size Vec3) Bounds { return Bounds{Center: center, Size: size} }

func (b Bounds) Extents() Vec3 { return b.Size.Scale(0.5) }
func (b Bounds) Min() Vec3     { return b.Center.Sub(b.Extents()) }
func (b Bounds) Max() Vec3     { return b.Center.Add(b.Extents()) }

// IsEmpty reports a zero-extent box.
func (b Bounds) IsEmpty() bool { return b.Size == Zero }

// Encapsulate grows b to contain o.
func (b Bounds) Encapsulate(o Bounds) Bounds {
	bmin, bmax := b.Min(), b.Max()
	omin, omax := o.Min(), o.Max()
	lo := Vec3{math.Min(bmin.X, omin.X), math.Min(bmin.Y, omin.Y), math.Min(bmin.Z, omin.Z)}
	hi := Vec3{math.Max(bmax.X, omax.X), math.Max(bmax.Y, omax.Y), math.Max(bmax.Z, omax.Z)}
	return Bounds{Center: lo.Add(hi).Scale(0.5), Size: hi.Sub(lo)}
}

// Intersects reports whether the two boxes overlap with positive volume.
func (b Bounds) Intersects(o Bounds) bool {
	bmin, bmax := b.Min(), b.Max()
	omin, omax := o.Min(), o.Max()
	return bmin.X < omax.X && bmax.X > omin.X &&
		bmin.Y < omax.Y && bmax.Y > omin.Y &&
		bmin.Z < omax.Z && bmax.Z > omin.Z
}

// Contains reports whether o lies fully inside b.
func (b Bounds) Contains(o Bounds) bool {
	bmin, bmax := b.Min(), b.Max()
	omin, omax := o.Min(), o.Max()
	return omin.X >= bmin.X && omin.Y >= bmin.Y && omin.Z >= bmin.Z &&
		omax.X <= bmax.X && omax.Y <= bmax.Y && omax.Z <= bmax.Z
}

// Gap returns the separation between two boxes, 0 when they touch or overlap.
func (b Bounds) Gap(o Bounds) float64 {
	bmin, bmax := b.Min(), b.Max()
	omin, omax := o.Min(), o.Max()
	dx := math.Max(0, math.Max(omin.X-bmax.X, bmin.X-omax.X))
	dy := math.Max(0, math.Max(omin.Y-bmax.Y, bmin.Y-omax.Y))
	dz := math.Max(0, math.Max(omin.Z-bmax.Z, bmin.Z-omax.Z))
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
