package scene

import "surface-engine/math"

// ComputeNormals sets smooth per-vertex normals on a triangle mesh by
// accumulating the area-weighted face normal of every triangle a vertex
// belongs to. Vertices that touch only degenerate triangles point up.
func ComputeNormals(m *Mesh) {
	if m.DrawMode != DrawTriangles {
		return
	}
	for i := range m.Vertices {
		m.Vertices[i].Normal = math.Vec3{}
	}

	// accum adds the face normal of one triangle to its three vertices.
	accum := func(i0, i1, i2 uint32) {
		p0 := m.Vertices[i0].Position
		e1 := m.Vertices[i1].Position.Sub(p0)
		e2 := m.Vertices[i2].Position.Sub(p0)
		n := e1.Cross(e2)

		m.Vertices[i0].Normal = m.Vertices[i0].Normal.Add(n)
		m.Vertices[i1].Normal = m.Vertices[i1].Normal.Add(n)
		m.Vertices[i2].Normal = m.Vertices[i2].Normal.Add(n)
	}

	for i := 0; i+2 < len(m.Indices); i += 3 {
		accum(m.Indices[i], m.Indices[i+1], m.Indices[i+2])
	}

	for i := range m.Vertices {
		n := m.Vertices[i].Normal
		if n.LengthSqr() < 1e-12 || !n.IsFinite() {
			m.Vertices[i].Normal = math.Vec3Up
			continue
		}
		m.Vertices[i].Normal = n.Normalize()
	}
}
