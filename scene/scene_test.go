package scene

import (
	stdmath "math"
	"testing"

	"surface-engine/core"
	"surface-engine/math"
)

func approx(a, b float32) bool {
	return stdmath.Abs(float64(a-b)) < 1e-4
}

func quad() *Mesh {
	vertices := []core.Vertex{
		{Position: math.Vec3{X: 0, Y: 0, Z: 0}},
		{Position: math.Vec3{X: 0, Y: 0, Z: 1}},
		{Position: math.Vec3{X: 1, Y: 0, Z: 0}},
		{Position: math.Vec3{X: 1, Y: 0, Z: 1}},
	}
	// (a,b,d) and (a,d,c) over a=0 b=1 c=2 d=3
	return CreateMeshFromData("quad", vertices, []uint32{0, 1, 3, 0, 3, 2})
}

func TestComputeNormalsFlatQuad(t *testing.T) {
	m := quad()
	ComputeNormals(m)
	for i, v := range m.Vertices {
		if !approx(v.Normal.X, 0) || !approx(v.Normal.Y, 1) || !approx(v.Normal.Z, 0) {
			t.Errorf("vertex %d normal = %+v, want +Y", i, v.Normal)
		}
	}
}

func TestComputeNormalsDegenerate(t *testing.T) {
	vertices := make([]core.Vertex, 3)
	m := CreateMeshFromData("point", vertices, []uint32{0, 1, 2})
	ComputeNormals(m)
	for i, v := range m.Vertices {
		if v.Normal != math.Vec3Up {
			t.Errorf("vertex %d normal = %+v, want up", i, v.Normal)
		}
	}
}

func TestComputeNormalsSkipsLines(t *testing.T) {
	m := quad()
	m.DrawMode = DrawLines
	ComputeNormals(m)
	if m.Vertices[0].Normal != (math.Vec3{}) {
		t.Errorf("line mesh normals were touched")
	}
}

func TestMeshBoundsAndCounts(t *testing.T) {
	m := quad()
	if !m.HasLocalAABB {
		t.Fatal("expected a cached AABB")
	}
	if m.LocalAABB.Min != (math.Vec3{}) || m.LocalAABB.Max != (math.Vec3{X: 1, Z: 1}) {
		t.Errorf("AABB = %+v", m.LocalAABB)
	}
	if m.TriangleCount() != 2 || m.LineCount() != 0 {
		t.Errorf("counts = %d triangles, %d lines", m.TriangleCount(), m.LineCount())
	}

	m.Vertices[3].Position.Y = 5
	m.RecomputeBounds()
	if m.LocalAABB.Max.Y != 5 {
		t.Errorf("bounds not refreshed: %+v", m.LocalAABB)
	}

	v := m.Version
	m.MarkDirty()
	if m.Version != v+1 {
		t.Errorf("version = %d, want %d", m.Version, v+1)
	}
}

func TestComputeAABBTranslated(t *testing.T) {
	m := quad()
	box := ComputeAABB(m, math.Mat4Translation(math.Vec3{X: 2, Y: 3, Z: 4}))
	if !approx(box.Min.X, 2) || !approx(box.Min.Y, 3) || !approx(box.Max.Z, 5) {
		t.Errorf("box = %+v", box)
	}
	c := box.Center()
	if !approx(c.X, 2.5) || !approx(c.Z, 4.5) {
		t.Errorf("center = %+v", c)
	}
}

func TestSceneAddRemove(t *testing.T) {
	s := NewScene()
	a := NewMeshNode("a", quad())
	b := NewMeshNode("b", quad())
	s.AddNode(a)
	s.AddNode(b)

	if got := len(s.GetVisibleNodes()); got != 2 {
		t.Fatalf("visible nodes = %d, want 2", got)
	}
	s.RemoveNode(a)
	if s.Contains(a) || !s.Contains(b) {
		t.Errorf("contains a=%v b=%v after removing a", s.Contains(a), s.Contains(b))
	}
	if a.Parent != nil {
		t.Errorf("removed node still has a parent")
	}
	if s.Root.RemoveChild(a) {
		t.Errorf("removing twice should report false")
	}
}

func TestNodeRotateCarriesOrientation(t *testing.T) {
	n := NewNode("n")
	n.Rotate(math.Vec3Up, 0.5)
	n.Rotate(math.Vec3Up, 0.25)

	other := NewNode("other")
	other.SetRotation(n.Transform.Rotation)

	p := math.Vec3{X: 1}
	got := other.GetWorldMatrix().TransformPoint(p)
	want := math.QuaternionFromAxisAngle(math.Vec3Up, 0.75).RotateVector(p)
	if !approx(got.X, want.X) || !approx(got.Z, want.Z) {
		t.Errorf("rotated point = %+v, want %+v", got, want)
	}
}

func TestOrbitCamera(t *testing.T) {
	c := NewOrbitCamera(math.Vec3Zero, 20, 45*stdmath.Pi/180, 16.0/9.0)
	if !approx(c.Position.Length(), 20) {
		t.Errorf("distance = %f, want 20", c.Position.Length())
	}
	if !approx(c.Position.Y, 20*float32(stdmath.Sin(stdmath.Pi/6))) {
		t.Errorf("height = %f", c.Position.Y)
	}

	c.Orbit(0, 10)
	if c.Pitch != maxPitch {
		t.Errorf("pitch = %f, want clamp to %f", c.Pitch, float32(maxPitch))
	}
	c.Zoom(-100)
	if c.Distance != minDistance {
		t.Errorf("distance = %f, want clamp to %f", c.Distance, float32(minDistance))
	}
}

func TestOrbitCameraFrame(t *testing.T) {
	c := NewOrbitCamera(math.Vec3Zero, 20, 1, 1)
	c.Frame(AABB{Min: math.Vec3{X: 1, Y: 1, Z: 1}, Max: math.Vec3{X: 3, Y: 3, Z: 3}})
	if c.Target != (math.Vec3{X: 2, Y: 2, Z: 2}) {
		t.Errorf("target = %+v", c.Target)
	}
	if d := c.Position.Sub(c.Target).Length(); !approx(d, c.Distance) {
		t.Errorf("camera is %f from target, want %f", d, c.Distance)
	}
}

func TestCreateBoundsWireframe(t *testing.T) {
	m := CreateBoundsWireframe(AABB{Max: math.Vec3One}, core.ColorWhite)
	if m.DrawMode != DrawLines {
		t.Fatalf("draw mode = %v", m.DrawMode)
	}
	if m.LineCount() != 12 || len(m.Vertices) != 24 {
		t.Errorf("lines = %d, vertices = %d", m.LineCount(), len(m.Vertices))
	}
	if m.Material == nil || !m.Material.Unlit {
		t.Errorf("bounds should be unlit")
	}
}

func TestDrawList(t *testing.T) {
	s := NewScene()
	if s.DrawList() != nil {
		t.Fatal("draw list without a camera should be nil")
	}
	cam := NewOrbitCamera(math.Vec3Zero, 10, 0.8, 1.5)
	s.SetCamera(cam)

	box := CreateBoundsWireframe(AABB{Max: math.Vec3{X: 1, Y: 1, Z: 1}}, core.ColorWhite)
	node := NewMeshNode("box", box)
	node.SetPosition(math.Vec3{X: 2})
	s.AddNode(node)

	hidden := NewMeshNode("hidden", box)
	hidden.Visible = false
	s.AddNode(hidden)

	items := s.DrawList()
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	want := node.GetWorldMatrix().Mul(cam.GetViewMatrix()).Mul(cam.GetProjectionMatrix())
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if !approx(items[0].MVP[i][j], want[i][j]) {
				t.Fatalf("MVP[%d][%d] = %v, want %v", i, j, items[0].MVP[i][j], want[i][j])
			}
		}
	}
	if items[0].Model[3][0] != 2 {
		t.Errorf("model translation x = %v, want 2", items[0].Model[3][0])
	}
}
