package scene

import "surface-engine/core"

// DrawMode controls the OpenGL primitive type used when rendering a mesh.
type DrawMode int

const (
	DrawTriangles DrawMode = iota // gl.TRIANGLES (default)
	DrawLines                     // gl.LINES, pairs of indices form line segments
)

func (d DrawMode) String() string {
	if d == DrawLines {
		return "lines"
	}
	return "triangles"
}

// Mesh holds CPU-side vertex/index data.
// GPU upload is managed by the renderer backend.
type Mesh struct {
	Name       string
	Vertices   []core.Vertex
	Indices    []uint32
	IndexCount uint32
	DrawMode   DrawMode // defaults to DrawTriangles

	// Cached local-space AABB (computed by CreateMeshFromData).
	LocalAABB    AABB
	HasLocalAABB bool

	// Material holds surface shading properties. If nil, DefaultMaterial() is used.
	Material *Material

	// Version is bumped whenever Vertices change in place. The backend
	// re-uploads the vertex buffer when it sees a newer version.
	Version uint64

	// GPUData is set by the renderer backend (e.g. *opengl.GPUMesh).
	// Do not access directly; use the renderer's API.
	GPUData interface{}
}

// CreateMeshFromData builds a Mesh and pre-computes its local-space AABB.
func CreateMeshFromData(name string, vertices []core.Vertex, indices []uint32) *Mesh {
	m := &Mesh{
		Name:       name,
		Vertices:   vertices,
		Indices:    indices,
		IndexCount: uint32(len(indices)),
	}
	m.RecomputeBounds()
	return m
}

// RecomputeBounds refreshes LocalAABB from the current vertex positions.
func (m *Mesh) RecomputeBounds() {
	if len(m.Vertices) == 0 {
		m.LocalAABB = AABB{}
		m.HasLocalAABB = false
		return
	}
	m.LocalAABB = computeLocalAABB(m.Vertices)
	m.HasLocalAABB = true
}

// MarkDirty records an in-place vertex edit.
func (m *Mesh) MarkDirty() {
	m.Version++
}

// computeLocalAABB returns the tight AABB of the given vertex positions.
func computeLocalAABB(vertices []core.Vertex) AABB {
	lo := vertices[0].Position
	hi := vertices[0].Position
	for _, v := range vertices[1:] {
		lo = lo.Min(v.Position)
		hi = hi.Max(v.Position)
	}
	return AABB{Min: lo, Max: hi}
}

// LineCount is the number of segments of a DrawLines mesh.
func (m *Mesh) LineCount() int {
	if m.DrawMode != DrawLines {
		return 0
	}
	return len(m.Indices) / 2
}

// TriangleCount is the number of triangles of a DrawTriangles mesh.
func (m *Mesh) TriangleCount() int {
	if m.DrawMode != DrawTriangles {
		return 0
	}
	return len(m.Indices) / 3
}
