package editor

import (
	stdmath "math"

	"github.com/chewxy/math32"

	"surface-engine/math"
	"surface-engine/scene"
)

// Ray represents a ray in 3D space
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// HitResult stores the result of a ray intersection test
type HitResult struct {
	Hit      bool
	Distance float32
	Point    math.Vec3
	Normal   math.Vec3
	FaceIdx  int    // triangle index in the mesh
	Vertex   uint32 // the hit triangle's corner closest to Point
}

// ScreenToRay converts a screen-space mouse position to a world-space ray
// through the camera's view frustum.
func ScreenToRay(mouseX, mouseY, screenWidth, screenHeight float32, camera *scene.Camera) Ray {
	ndcX := (2.0*mouseX)/screenWidth - 1.0
	ndcY := 1.0 - (2.0*mouseY)/screenHeight // flip Y

	forward := camera.Target.Sub(camera.Position).Normalize()
	right := forward.Cross(camera.Up).Normalize()
	up := right.Cross(forward)

	tanHalf := math32.Tan(camera.FOV / 2)
	dir := forward.
		Add(right.Mul(ndcX * tanHalf * camera.AspectRatio)).
		Add(up.Mul(ndcY * tanHalf))

	return Ray{Origin: camera.Position, Direction: dir.Normalize()}
}

// RaycastNode tests a ray against the triangles of node's mesh. Line
// meshes never hit.
func RaycastNode(ray Ray, node *scene.Node) HitResult {
	if node == nil || node.Mesh == nil || node.Mesh.DrawMode != scene.DrawTriangles {
		return HitResult{}
	}
	world := node.GetWorldMatrix()

	// Broad phase: AABB test
	if _, hit := rayAABBIntersect(ray, scene.ComputeAABB(node.Mesh, world)); !hit {
		return HitResult{}
	}
	return rayMeshIntersect(ray, node.Mesh, world)
}

// rayAABBIntersect tests ray-AABB intersection
func rayAABBIntersect(ray Ray, aabb scene.AABB) (float32, bool) {
	invDir := math.Vec3{
		X: 1.0 / ray.Direction.X,
		Y: 1.0 / ray.Direction.Y,
		Z: 1.0 / ray.Direction.Z,
	}

	t1 := (aabb.Min.X - ray.Origin.X) * invDir.X
	t2 := (aabb.Max.X - ray.Origin.X) * invDir.X
	t3 := (aabb.Min.Y - ray.Origin.Y) * invDir.Y
	t4 := (aabb.Max.Y - ray.Origin.Y) * invDir.Y
	t5 := (aabb.Min.Z - ray.Origin.Z) * invDir.Z
	t6 := (aabb.Max.Z - ray.Origin.Z) * invDir.Z

	tmin := math32.Max(math32.Max(math32.Min(t1, t2), math32.Min(t3, t4)), math32.Min(t5, t6))
	tmax := math32.Min(math32.Min(math32.Max(t1, t2), math32.Max(t3, t4)), math32.Max(t5, t6))

	if tmax < 0 || tmin > tmax {
		return 0, false
	}

	return tmin, true
}

// rayMeshIntersect performs per-triangle intersection using Möller–Trumbore algorithm
func rayMeshIntersect(ray Ray, mesh *scene.Mesh, world math.Mat4) HitResult {
	closest := HitResult{Distance: float32(stdmath.MaxFloat32)}

	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		tri := [3]uint32{mesh.Indices[i], mesh.Indices[i+1], mesh.Indices[i+2]}
		v0 := world.TransformPoint(mesh.Vertices[tri[0]].Position)
		v1 := world.TransformPoint(mesh.Vertices[tri[1]].Position)
		v2 := world.TransformPoint(mesh.Vertices[tri[2]].Position)

		t, hit := mollerTrumbore(ray, v0, v1, v2)
		if !hit || t >= closest.Distance {
			continue
		}
		p := ray.Origin.Add(ray.Direction.Mul(t))
		closest.Hit = true
		closest.Distance = t
		closest.Point = p
		closest.Normal = v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
		closest.FaceIdx = i / 3

		best := float32(stdmath.MaxFloat32)
		for k, v := range [3]math.Vec3{v0, v1, v2} {
			if d := v.Sub(p).LengthSqr(); d < best {
				best = d
				closest.Vertex = tri[k]
			}
		}
	}

	if !closest.Hit {
		return HitResult{}
	}
	return closest
}

// mollerTrumbore implements the Möller–Trumbore ray-triangle intersection algorithm
func mollerTrumbore(ray Ray, v0, v1, v2 math.Vec3) (float32, bool) {
	const epsilon = 0.0000001

	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)
	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	if a > -epsilon && a < epsilon {
		return 0, false // parallel
	}

	f := 1.0 / a
	s := ray.Origin.Sub(v0)
	u := f * s.Dot(h)

	if u < 0.0 || u > 1.0 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)

	if v < 0.0 || u+v > 1.0 {
		return 0, false
	}

	t := f * edge2.Dot(q)
	return t, t > epsilon
}
