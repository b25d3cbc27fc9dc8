package scene

import (
	"surface-engine/core"
	"surface-engine/math"
)

// Scene manages the displayed nodes, the orbit camera and a single point
// light.
type Scene struct {
	Root       *Node
	Camera     *OrbitCamera
	Light      Light
	Ambient    core.Color
	Background core.Color
}

// Light is a point light.
type Light struct {
	Position  math.Vec3
	Color     core.Color
	Intensity float32
}

func NewScene() *Scene {
	return &Scene{
		Root: NewNode("Root"),
		Light: Light{
			Position:  math.Vec3{X: 10, Y: 10, Z: 10},
			Color:     core.ColorWhite,
			Intensity: 1,
		},
		Ambient:    core.Color{R: 0.25, G: 0.25, B: 0.25, A: 1},
		Background: core.Color{R: 0x11 / 255.0, G: 0x11 / 255.0, B: 0x11 / 255.0, A: 1},
	}
}

func (s *Scene) SetCamera(camera *OrbitCamera) {
	s.Camera = camera
}

func (s *Scene) AddNode(node *Node) {
	s.Root.AddChild(node)
}

func (s *Scene) RemoveNode(node *Node) {
	s.Root.RemoveChild(node)
}

// Contains reports whether node is currently attached anywhere below Root.
func (s *Scene) Contains(node *Node) bool {
	found := false
	s.Root.Traverse(func(n *Node) {
		if n == node {
			found = true
		}
	})
	return found
}

// GetVisibleNodes returns all nodes with meshes that are visible
func (s *Scene) GetVisibleNodes() []*Node {
	var visible []*Node

	s.Root.Traverse(func(node *Node) {
		if node.Visible && node.Mesh != nil {
			visible = append(visible, node)
		}
	})

	return visible
}
