// Package renderer drives the OpenGL backend from a scene and frees the GPU
// buffers of meshes that left it.
package renderer

import (
	"errors"
	"fmt"
	"log/slog"

	"surface-engine/core"
	"surface-engine/internal/opengl"
	"surface-engine/scene"
)

var ErrNoCamera = errors.New("renderer: no scene or camera")

// FrameStats are the counts of the last rendered frame.
type FrameStats struct {
	Objects   int
	Vertices  int
	Triangles int
	Lines     int
	Released  int
}

// RenderEngine is the high-level renderer that drives the OpenGL backend.
type RenderEngine struct {
	gl     *opengl.Renderer
	window *core.Window
	Scene  *scene.Scene

	last FrameStats
	log  *slog.Logger
}

func NewRenderEngine(window *core.Window, logger *slog.Logger) (*RenderEngine, error) {
	glRenderer, err := opengl.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenGL renderer: %w", err)
	}

	fbw, fbh := window.GetFramebufferSize()
	glRenderer.SetViewport(fbw, fbh)

	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("render engine initialized", "backend", "opengl", "version", glRenderer.Version())
	return &RenderEngine{
		gl:     glRenderer,
		window: window,
		log:    logger,
	}, nil
}

func (re *RenderEngine) SetScene(s *scene.Scene) {
	re.Scene = s
}

func statsOf(draws []scene.DrawItem) FrameStats {
	var st FrameStats
	for _, d := range draws {
		st.Objects++
		st.Vertices += len(d.Mesh.Vertices)
		st.Triangles += d.Mesh.TriangleCount()
		st.Lines += d.Mesh.LineCount()
	}
	return st
}

func (re *RenderEngine) Render() error {
	if re.Scene == nil || re.Scene.Camera == nil {
		return ErrNoCamera
	}
	s := re.Scene

	re.gl.BeginFrame(s.Background, opengl.Lighting{
		LightPos:       s.Light.Position,
		LightColor:     s.Light.Color,
		LightIntensity: s.Light.Intensity,
		Ambient:        s.Ambient,
		CameraPos:      s.Camera.Position,
	})

	draws := s.DrawList()
	live := make(map[*scene.Mesh]bool, len(draws))
	for _, d := range draws {
		re.gl.DrawMesh(d.Mesh, d.Model, d.MVP)
		live[d.Mesh] = true
	}

	st := statsOf(draws)
	// Regeneration replaces meshes; the old buffers go once they are no longer drawn.
	st.Released = re.gl.ReleaseUnused(func(m *scene.Mesh) bool { return live[m] })
	if st.Released > 0 {
		re.log.Debug("released gpu meshes", "count", st.Released)
	}
	re.last = st
	return nil
}

// Present swaps buffers. Call after Render().
func (re *RenderEngine) Present() {
	re.window.SwapBuffers()
}

func (re *RenderEngine) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	re.gl.SetViewport(width, height)
	if re.Scene != nil && re.Scene.Camera != nil {
		re.Scene.Camera.UpdateAspectRatio(float32(width), float32(height))
	}
}

func (re *RenderEngine) Destroy() {
	re.gl.Destroy()
}

// DrawStats returns counts from the last Render call
func (re *RenderEngine) DrawStats() FrameStats {
	return re.last
}
