package mesh

import (
	gomath "math"

	"github.com/Faultbox/meshforge/pkg/math"
)

// Surface functions for BuildSurfacePatch. Each is parameterized so that the
// patch normals face outward.

// PlaneSurface maps (x, y) onto the XY plane; normals face +Z.
func PlaneSurface() SurfaceFunc {
	return func(x, y float32) math.Vec3 {
		return math.Vec3{X: x, Y: y, Z: 0}
	}
}

// SphereSurface maps (longitude, latitude) in radians onto a sphere.
// Use x in [0, 2π] and y in [-π/2, π/2].
func SphereSurface(radius float32) SurfaceFunc {
	return func(lon, lat float32) math.Vec3 {
		cl := cos(lat)
		return math.Vec3{
			X: radius * cl * cos(lon),
			Y: radius * sin(lat),
			Z: -radius * cl * sin(lon),
		}
	}
}

// CylinderSurface maps (angle, height) onto an open cylinder around +Y.
func CylinderSurface(radius float32) SurfaceFunc {
	return func(angle, height float32) math.Vec3 {
		return math.Vec3{
			X: radius * cos(angle),
			Y: height,
			Z: -radius * sin(angle),
		}
	}
}

// TorusSurface maps (u, v) in radians onto a torus around +Y with the given
// ring and tube radii.
func TorusSurface(ring, tube float32) SurfaceFunc {
	return func(u, v float32) math.Vec3 {
		r := ring + tube*cos(v)
		return math.Vec3{
			X: r * cos(u),
			Y: tube * sin(v),
			Z: -r * sin(u),
		}
	}
}

func sin(f float32) float32 { return float32(gomath.Sin(float64(f))) }
func cos(f float32) float32 { return float32(gomath.Cos(float64(f))) }
