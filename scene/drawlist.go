package scene

import "surface-engine/math"

// DrawItem is one visible mesh with the matrices needed to draw it.
type DrawItem struct {
	Mesh  *Mesh
	Model math.Mat4
	MVP   math.Mat4
}

// DrawList returns the visible meshes in traversal order. It returns nil
// when the scene has no camera.
func (s *Scene) DrawList() []DrawItem {
	if s.Camera == nil {
		return nil
	}
	vp := s.Camera.GetViewProjectionMatrix()

	nodes := s.GetVisibleNodes()
	items := make([]DrawItem, 0, len(nodes))
	for _, node := range nodes {
		model := node.GetWorldMatrix()
		items = append(items, DrawItem{
			Mesh:  node.Mesh,
			Model: model,
			MVP:   model.Mul(vp),
		})
	}
	return items
}
