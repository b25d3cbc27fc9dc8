package scene

import (
	"surface-engine/core"
	"surface-engine/math"
)

// CreateBoundsWireframe builds the 12 edges of box as a GL_LINES mesh. The
// viewer uses it to outline the extent of the current surface.
func CreateBoundsWireframe(box AABB, c core.Color) *Mesh {
	var vertices []core.Vertex
	var indices []uint32

	addLine := func(a, b math.Vec3) {
		base := uint32(len(vertices))
		vertices = append(vertices,
			core.Vertex{Position: a, Normal: math.Vec3Up, Color: c},
			core.Vertex{Position: b, Normal: math.Vec3Up, Color: c},
		)
		indices = append(indices, base, base+1)
	}

	lo, hi := box.Min, box.Max
	corner := func(x, y, z bool) math.Vec3 {
		p := lo
		if x {
			p.X = hi.X
		}
		if y {
			p.Y = hi.Y
		}
		if z {
			p.Z = hi.Z
		}
		return p
	}

	for _, y := range []bool{false, true} {
		addLine(corner(false, y, false), corner(true, y, false))
		addLine(corner(true, y, false), corner(true, y, true))
		addLine(corner(true, y, true), corner(false, y, true))
		addLine(corner(false, y, true), corner(false, y, false))
	}
	for _, x := range []bool{false, true} {
		for _, z := range []bool{false, true} {
			addLine(corner(x, false, z), corner(x, true, z))
		}
	}

	m := CreateMeshFromData("Bounds", vertices, indices)
	m.DrawMode = DrawLines
	m.Material = NewUnlitMaterial("BoundsMaterial")
	return m
}
