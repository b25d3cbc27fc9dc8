package scene

import "surface-engine/core"

// Material describes how a mesh is shaded. Vertex colors always drive the
// base color; Albedo tints them.
type Material struct {
	Name   string
	Albedo core.Color
	Unlit  bool // skip lighting, output the raw vertex color

	// Wireframe draws a triangle mesh with polygon mode LINE.
	Wireframe bool
	// DoubleSided disables back-face culling.
	DoubleSided bool

	Shininess float32
}

// DefaultMaterial returns a lit, double-sided white material.
func DefaultMaterial() *Material {
	return &Material{
		Name:        "Default",
		Albedo:      core.ColorWhite,
		DoubleSided: true,
		Shininess:   32,
	}
}

// NewUnlitMaterial is used for line meshes, which carry no normals.
func NewUnlitMaterial(name string) *Material {
	m := DefaultMaterial()
	m.Name = name
	m.Unlit = true
	return m
}
