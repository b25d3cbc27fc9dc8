package scene

import "surface-engine/math"

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max math.Vec3
}

func (b AABB) Center() math.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b AABB) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Radius is the radius of the sphere enclosing the box.
func (b AABB) Radius() float32 {
	return b.Size().Length() * 0.5
}

// ComputeAABB returns the world-space AABB of mesh under worldMatrix by
// transforming the 8 corners of its cached local box.
func ComputeAABB(mesh *Mesh, worldMatrix math.Mat4) AABB {
	if !mesh.HasLocalAABB {
		return AABB{}
	}
	lo, hi := mesh.LocalAABB.Min, mesh.LocalAABB.Max
	var out AABB
	for i := 0; i < 8; i++ {
		corner := math.Vec3{X: lo.X, Y: lo.Y, Z: lo.Z}
		if i&1 != 0 {
			corner.X = hi.X
		}
		if i&2 != 0 {
			corner.Y = hi.Y
		}
		if i&4 != 0 {
			corner.Z = hi.Z
		}
		p := worldMatrix.TransformPoint(corner)
		if i == 0 {
			out = AABB{Min: p, Max: p}
			continue
		}
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}
