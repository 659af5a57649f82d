package physics

import "math"

// Quat is a unit rotation quaternion.
type Quat struct{ X, Y, Z, W float64 }

var Identity = Quat{W: 1}

// parallelEps is the squared length below which look-rotation axes are treated as parallel.
const parallelEps = 1e-12

// LookRotation returns the rotation whose forward (+Z) axis points along forward and whose
// up (+Y) axis is as close to up as the geometry allows. When forward is parallel to up
// the right axis falls back to +X.
func LookRotation(forward, up Vec3) Quat {
	f := forward.Normalize()
	if f == Zero {
		return Identity
	}
	r := up.Cross(f)
	if r.Dot(r) < parallelEps {
		r = Right
	}
	r = r.Normalize()
	u := f.Cross(r)
	return fromBasis(r, u, f)
}

// fromBasis converts an orthonormal basis (matrix columns) into a quaternion.
func fromBasis(r, u, f Vec3) Quat {
	m00, m01, m02 := r.X, u.X, f.X
	m10, m11, m12 := r.Y, u.Y, f.Y
	m20, m21, m22 := r.Z, u.Z, f.Z

	trace := m00 + m11 + m22
	var q Quat
	switch {
	case trace > 0:
		s := math.Sqrt(trace+1) * 2
		q = Quat{W: 0.25 * s, X: (m21 - m12) / s, Y: (m02 - m20) / s, Z: (m10 - m01) / s}
	case m00 > m11 && m00 > m22:
		s := math.Sqrt(1+m00-m11-m22) * 2
		q = Quat{W: (m21 - m12) / s, X: 0.25 * s, Y: (m01 + m10) / s, Z: (m02 + m20) / s}
	case m11 > m22:
		s := math.Sqrt(1+m11-m00-m22) * 2
		q = Quat{W: (m02 - m20) / s, X: (m01 + m10) / s, Y: 0.25 * s, Z: (m12 + m21) / s}
	default:
		s := math.Sqrt(1+m22-m00-m11) * 2
		q = Quat{W: (m10 - m01) / s, X: (m02 + m20) / s, Y: (m12 + m21) / s, Z: 0.25 * s}
	}
	return q.Normalize()
}

func (q Quat) Normalize() Quat {
	l := math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if l == 0 {
		return Identity
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

func (q Quat) ApproxEqual(o Quat, eps float64) bool {
	// q and -q describe the same rotation
	d := math.Abs(q.X-o.X) + math.Abs(q.Y-o.Y) + math.Abs(q.Z-o.Z) + math.Abs(q.W-o.W)
	n := math.Abs(q.X+o.X) + math.Abs(q.Y+o.Y) + math.Abs(q.Z+o.Z) + math.Abs(q.W+o.W)
	return d <= eps || n <= eps
}
