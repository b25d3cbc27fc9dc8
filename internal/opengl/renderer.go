package opengl

import (
	"fmt"
	"strings"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"surface-engine/core"
	"surface-engine/math"
	"surface-engine/scene"
)

// GPUMesh holds the OpenGL buffer objects for an uploaded mesh.
type GPUMesh struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32
	// Version is the mesh version last copied into VBO.
	Version uint64
}

// Lighting is the per-frame light setup shared by every lit draw.
type Lighting struct {
	LightPos       math.Vec3
	LightColor     core.Color
	LightIntensity float32
	Ambient        core.Color
	CameraPos      math.Vec3
}

// Renderer is the OpenGL rendering backend.
type Renderer struct {
	program uint32

	mvpLoc   int32
	modelLoc int32

	lightPosLoc       int32
	lightColorLoc     int32
	lightIntensityLoc int32
	ambientLoc        int32
	cameraPosLoc      int32

	albedoLoc    int32
	shininessLoc int32
	unlitLoc     int32

	gpuMeshes map[*scene.Mesh]*GPUMesh
}

// vertex shader: MVP transform, world-space position and normal to fragment
const vertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec2 inUV;
layout(location = 3) in vec4 inColor;

uniform mat4 mvp;
uniform mat4 model;

out vec4 fragColor;
out vec3 fragNormal;
out vec3 fragWorldPos;

void main() {
    vec4 world   = model * vec4(inPosition, 1.0);
    gl_Position  = mvp * vec4(inPosition, 1.0);
    fragWorldPos = world.xyz;
    fragNormal   = mat3(model) * inNormal;
    fragColor    = inColor;
}
` + "\x00"

// fragment shader: Blinn-Phong with one point light. Back faces use the
// flipped normal so open surfaces shade from both sides.
const fragSrc = `
#version 410 core
in vec4 fragColor;
in vec3 fragNormal;
in vec3 fragWorldPos;

uniform vec3  lightPos;
uniform vec3  lightColor;
uniform float lightIntensity;
uniform vec3  ambient;
uniform vec3  cameraPos;
uniform vec4  albedo;
uniform float shininess;
uniform bool  unlit;

out vec4 outColor;

void main() {
    vec4 base = fragColor * albedo;
    if (unlit) {
        outColor = base;
        return;
    }

    vec3 N = normalize(fragNormal);
    if (!gl_FrontFacing) {
        N = -N;
    }
    vec3 L = normalize(lightPos - fragWorldPos);
    vec3 V = normalize(cameraPos - fragWorldPos);
    vec3 H = normalize(L + V);

    float diff = max(dot(N, L), 0.0);
    float spec = diff > 0.0 ? pow(max(dot(N, H), 0.0), shininess) : 0.0;

    vec3 light = lightColor * lightIntensity;
    vec3 rgb   = base.rgb * (ambient + diff * light) + 0.3 * spec * light;
    outColor = vec4(rgb, base.a);
}
` + "\x00"

// NewRenderer initialises OpenGL.
// Must be called after the GLFW window context is made current.
func NewRenderer() (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	prog, err := newProgram(vertSrc, fragSrc)
	if err != nil {
		return nil, fmt.Errorf("shader compile: %w", err)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.MULTISAMPLE)

	uniform := func(name string) int32 {
		return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
	}
	r := &Renderer{
		program:           prog,
		mvpLoc:            uniform("mvp"),
		modelLoc:          uniform("model"),
		lightPosLoc:       uniform("lightPos"),
		lightColorLoc:     uniform("lightColor"),
		lightIntensityLoc: uniform("lightIntensity"),
		ambientLoc:        uniform("ambient"),
		cameraPosLoc:      uniform("cameraPos"),
		albedoLoc:         uniform("albedo"),
		shininessLoc:      uniform("shininess"),
		unlitLoc:          uniform("unlit"),
		gpuMeshes:         make(map[*scene.Mesh]*GPUMesh),
	}
	return r, nil
}

// Version reports the driver's GL version string.
func (r *Renderer) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

// SetViewport resizes the OpenGL viewport.
func (r *Renderer) SetViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// BeginFrame clears the framebuffer and loads the frame's lighting.
func (r *Renderer) BeginFrame(clear core.Color, l Lighting) {
	gl.ClearColor(clear.R, clear.G, clear.B, clear.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.UseProgram(r.program)
	gl.Uniform3f(r.lightPosLoc, l.LightPos.X, l.LightPos.Y, l.LightPos.Z)
	gl.Uniform3f(r.lightColorLoc, l.LightColor.R, l.LightColor.G, l.LightColor.B)
	gl.Uniform1f(r.lightIntensityLoc, l.LightIntensity)
	gl.Uniform3f(r.ambientLoc, l.Ambient.R, l.Ambient.G, l.Ambient.B)
	gl.Uniform3f(r.cameraPosLoc, l.CameraPos.X, l.CameraPos.Y, l.CameraPos.Z)
}

// DrawMesh uploads mesh data on first use, refreshes the vertex buffer when
// the mesh version moved, then issues a draw call.
func (r *Renderer) DrawMesh(mesh *scene.Mesh, model, mvp math.Mat4) {
	gpu := r.ensureUploaded(mesh)
	if gpu == nil {
		return
	}
	if gpu.Version != mesh.Version {
		r.refresh(mesh, gpu)
	}

	mat := mesh.Material
	if mat == nil {
		mat = scene.DefaultMaterial()
	}

	gl.UseProgram(r.program)
	// Row-vector matrices read as column-major are already transposed for GLSL.
	gl.UniformMatrix4fv(r.mvpLoc, 1, false, (*float32)(unsafe.Pointer(&mvp[0][0])))
	gl.UniformMatrix4fv(r.modelLoc, 1, false, (*float32)(unsafe.Pointer(&model[0][0])))
	gl.Uniform4f(r.albedoLoc, mat.Albedo.R, mat.Albedo.G, mat.Albedo.B, mat.Albedo.A)
	gl.Uniform1f(r.shininessLoc, mat.Shininess)
	gl.Uniform1i(r.unlitLoc, boolToInt32(mat.Unlit))

	if mat.DoubleSided {
		gl.Disable(gl.CULL_FACE)
	} else {
		gl.Enable(gl.CULL_FACE)
	}

	gl.BindVertexArray(gpu.VAO)
	switch {
	case mesh.DrawMode == scene.DrawLines:
		gl.DrawElements(gl.LINES, gpu.IndexCount, gl.UNSIGNED_INT, nil)
	case mat.Wireframe:
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		gl.DrawElements(gl.TRIANGLES, gpu.IndexCount, gl.UNSIGNED_INT, nil)
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	default:
		gl.DrawElements(gl.TRIANGLES, gpu.IndexCount, gl.UNSIGNED_INT, nil)
	}
	gl.BindVertexArray(0)
}

// ReleaseMesh frees GPU buffers for the given mesh.
func (r *Renderer) ReleaseMesh(mesh *scene.Mesh) {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		gl.DeleteVertexArrays(1, &gpu.VAO)
		gl.DeleteBuffers(1, &gpu.VBO)
		gl.DeleteBuffers(1, &gpu.EBO)
		delete(r.gpuMeshes, mesh)
		mesh.GPUData = nil
	}
}

// ReleaseUnused frees every uploaded mesh for which keep reports false.
func (r *Renderer) ReleaseUnused(keep func(*scene.Mesh) bool) int {
	released := 0
	for mesh := range r.gpuMeshes {
		if !keep(mesh) {
			r.ReleaseMesh(mesh)
			released++
		}
	}
	return released
}

// Destroy releases all GPU resources.
func (r *Renderer) Destroy() {
	for mesh := range r.gpuMeshes {
		r.ReleaseMesh(mesh)
	}
	gl.DeleteProgram(r.program)
}

// ensureUploaded uploads vertex/index data if not already done.
func (r *Renderer) ensureUploaded(mesh *scene.Mesh) *GPUMesh {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		return gpu
	}
	if len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		return nil
	}

	stride := int32(unsafe.Sizeof(core.Vertex{}))

	gpu := &GPUMesh{
		IndexCount: int32(len(mesh.Indices)),
		Version:    mesh.Version,
	}

	gl.GenVertexArrays(1, &gpu.VAO)
	gl.GenBuffers(1, &gpu.VBO)
	gl.BindVertexArray(gpu.VAO)

	// Animated surfaces rewrite their colors every frame.
	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER,
		len(mesh.Vertices)*int(stride),
		gl.Ptr(mesh.Vertices),
		gl.DYNAMIC_DRAW)

	var v core.Vertex
	posOff := int(unsafe.Offsetof(v.Position))
	normOff := int(unsafe.Offsetof(v.Normal))
	uvOff := int(unsafe.Offsetof(v.UV))
	colorOff := int(unsafe.Offsetof(v.Color))

	// location 0: Position (vec3)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(posOff))

	// location 1: Normal (vec3)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(normOff))

	// location 2: UV (vec2)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(uvOff))

	// location 3: Color (vec4 RGBA float32)
	gl.EnableVertexAttribArray(3)
	gl.VertexAttribPointer(3, 4, gl.FLOAT, false, stride, gl.PtrOffset(colorOff))

	gl.GenBuffers(1, &gpu.EBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER,
		len(mesh.Indices)*4,
		gl.Ptr(mesh.Indices),
		gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	r.gpuMeshes[mesh] = gpu
	mesh.GPUData = gpu
	return gpu
}

// refresh copies the vertex array into the existing buffer. Topology never
// changes in place, so the size matches the original upload.
func (r *Renderer) refresh(mesh *scene.Mesh, gpu *GPUMesh) {
	stride := int(unsafe.Sizeof(core.Vertex{}))
	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(mesh.Vertices)*stride, gl.Ptr(mesh.Vertices))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gpu.Version = mesh.Version
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// ── shader helpers ────────────────────────────────────────────────────────────

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("link failed: %v", log)
	}

	gl.DeleteShader(vert)
	gl.DeleteShader(frag)
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}
