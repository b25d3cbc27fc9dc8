// Package editor turns keyboard and mouse input into surface edits, camera
// moves and undoable history entries.
package editor

import (
	"fmt"
	"log/slog"
	"time"

	"surface-engine/core"
	"surface-engine/presets"
	"surface-engine/scene"
	"surface-engine/surface"
	"surface-engine/textures"
)

// Themes is the cycle used by the theme key.
var Themes = []string{"#3fa7d6", "#e4572e", "#29bf12", "#ffc914", "#a259ff", "#f5f5f5"}

var watchedKeys = []int{
	core.KeyEscape, core.KeyTab, core.KeyLeft, core.KeyRight,
	core.Key1, core.Key2, core.Key3, core.Key4, core.Key5, core.Key6,
	core.KeyEqual, core.KeyMinus, core.KeyLeftBracket, core.KeyRightBracket,
	core.KeyComma, core.KeyPeriod,
	core.KeyT, core.KeyD, core.KeyM, core.KeyR, core.KeyC, core.KeyV,
	core.KeyB, core.KeyF, core.KeyZ, core.KeyY, core.KeyS,
}

const (
	segmentStep   = 10
	halfWidthStep = 0.5
	morphStep     = 0.1
	orbitSpeed    = 0.01
	zoomSpeed     = 0.5
)

// Editor is the top-level input state machine
type Editor struct {
	Controller *surface.Controller
	History    *History
	Input      *InputManager
	Scene      *scene.Scene
	Presets    *presets.Library
	// PresetsPath is where Ctrl+S writes user presets; empty disables saving.
	PresetsPath string

	StatusText    string
	QuitRequested bool

	presetIndex int
	themeIndex  int
	showBounds  bool
	bounds      *scene.Node
	boundsOwner *scene.Node
	log         *slog.Logger
}

// NewEditor initializes a new editor instance. s must have a camera.
func NewEditor(source InputSource, s *scene.Scene, ctrl *surface.Controller, lib *presets.Library, logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Editor{
		Controller:  ctrl,
		History:     NewHistory(100),
		Input:       NewInputManager(source, watchedKeys...),
		Scene:       s,
		Presets:     lib,
		StatusText:  "Ready",
		presetIndex: -1,
		log:         logger,
	}
}

// Update processes one frame of input for a viewport of the given size
func (e *Editor) Update(width, height int) {
	e.Input.Update()

	e.handleShortcuts()
	e.handleCameraControls()
	e.handleProbe(width, height)
	e.syncBounds()

	e.Input.EndFrame()
}

// Edit applies change through the undo history. Failures leave the surface
// as it was and are reported in the status line.
func (e *Editor) Edit(desc string, change func() error) error {
	if err := e.History.Do(NewParamsCommand(e.Controller, desc, change)); err != nil {
		e.setStatus("Error: %v", err)
		return err
	}
	e.setStatus("%s", desc)
	return nil
}

func (e *Editor) setStatus(format string, args ...any) {
	e.StatusText = fmt.Sprintf(format, args...)
	e.log.Info("editor", "status", e.StatusText)
}

func (e *Editor) handleShortcuts() {
	in := e.Input
	ctrl := e.Controller
	p := ctrl.Params()

	if in.IsKeyPressed(core.KeyEscape) {
		e.QuitRequested = true
	}

	// Undo: Ctrl+Z, Redo: Ctrl+Shift+Z or Ctrl+Y
	switch {
	case in.IsShiftShortcut(core.KeyZ) || in.IsShortcut(core.KeyY):
		e.redo()
	case in.IsShortcut(core.KeyZ):
		e.undo()
	}

	if in.IsShortcut(core.KeyS) {
		e.savePreset()
	}

	if in.IsKeyPressed(core.KeyRight) {
		e.cyclePreset(1)
	}
	if in.IsKeyPressed(core.KeyLeft) {
		e.cyclePreset(-1)
	}

	for i, key := range []int{core.Key1, core.Key2, core.Key3, core.Key4, core.Key5, core.Key6} {
		if in.IsKeyPressed(key) {
			style := textures.Style(i)
			e.Edit("Style: "+style.String(), func() error { return ctrl.SetStyle(style) })
		}
	}

	if in.IsKeyPressed(core.KeyEqual) {
		e.Edit(fmt.Sprintf("Segments: %d", p.Segments+segmentStep), func() error {
			return ctrl.SetSegments(p.Segments + segmentStep)
		})
	}
	if in.IsKeyPressed(core.KeyMinus) {
		e.Edit(fmt.Sprintf("Segments: %d", p.Segments-segmentStep), func() error {
			return ctrl.SetSegments(p.Segments - segmentStep)
		})
	}
	if in.IsKeyPressed(core.KeyRightBracket) {
		e.Edit(fmt.Sprintf("Half-width: %g", p.HalfWidth+halfWidthStep), func() error {
			return ctrl.SetHalfWidth(p.HalfWidth + halfWidthStep)
		})
	}
	if in.IsKeyPressed(core.KeyLeftBracket) {
		e.Edit(fmt.Sprintf("Half-width: %g", p.HalfWidth-halfWidthStep), func() error {
			return ctrl.SetHalfWidth(p.HalfWidth - halfWidthStep)
		})
	}
	if in.IsKeyPressed(core.KeyPeriod) {
		m := min(1, p.Morph+morphStep)
		e.Edit(fmt.Sprintf("Morph: %.1f", m), func() error { return ctrl.SetMorph(m) })
	}
	if in.IsKeyPressed(core.KeyComma) {
		m := max(0, p.Morph-morphStep)
		e.Edit(fmt.Sprintf("Morph: %.1f", m), func() error { return ctrl.SetMorph(m) })
	}

	if in.IsKeyPressed(core.KeyTab) {
		next := surface.Parametric
		if p.Mode == surface.Parametric {
			next = surface.Grid
		}
		e.Edit("Mode: "+next.String(), func() error { return ctrl.SetMode(next) })
	}
	if in.IsKeyPressed(core.KeyC) && !in.CtrlDown {
		e.themeIndex = (e.themeIndex + 1) % len(Themes)
		theme := Themes[e.themeIndex]
		e.Edit("Theme: "+theme, func() error { return ctrl.SetTheme(theme) })
	}
	if in.IsKeyPressed(core.KeyV) {
		on := !p.Variation
		e.Edit(fmt.Sprintf("Variation: %t", on), func() error { return ctrl.SetVariation(on) })
	}

	anim := ctrl.Animation()
	toggled := ""
	switch {
	case in.IsKeyPressed(core.KeyT):
		anim.Time = !anim.Time
		toggled = fmt.Sprintf("Time animation: %t", anim.Time)
	case in.IsKeyPressed(core.KeyD):
		anim.Drift = !anim.Drift
		toggled = fmt.Sprintf("Drift: %t", anim.Drift)
	case in.IsKeyPressed(core.KeyM):
		anim.Morph = !anim.Morph
		toggled = fmt.Sprintf("Morph animation: %t", anim.Morph)
	case in.IsKeyPressed(core.KeyR) && !in.CtrlDown:
		anim.Rotate = !anim.Rotate
		toggled = fmt.Sprintf("Rotation: %t", anim.Rotate)
	}
	if toggled != "" {
		ctrl.SetAnimation(anim)
		e.setStatus("%s", toggled)
	}

	if in.IsKeyPressed(core.KeyB) {
		e.showBounds = !e.showBounds
		e.setStatus("Bounds: %t", e.showBounds)
	}
	if in.IsKeyPressed(core.KeyF) {
		e.Frame()
	}
}

func (e *Editor) undo() {
	ok, err := e.History.Undo()
	switch {
	case err != nil:
		e.setStatus("Undo failed: %v", err)
	case ok:
		e.setStatus("Undo")
	}
}

func (e *Editor) redo() {
	ok, err := e.History.Redo()
	switch {
	case err != nil:
		e.setStatus("Redo failed: %v", err)
	case ok:
		e.setStatus("Redo")
	}
}

func (e *Editor) cyclePreset(dir int) {
	if e.Presets == nil {
		return
	}
	names := e.Presets.Names()
	if len(names) == 0 {
		return
	}
	if e.presetIndex < 0 && dir < 0 {
		e.presetIndex = 0
	}
	e.presetIndex = ((e.presetIndex+dir)%len(names) + len(names)) % len(names)
	p, _ := e.Presets.Get(names[e.presetIndex])
	e.Edit("Preset: "+p.Name, func() error { return e.Controller.ApplyPreset(p) })
}

// savePreset stores the current formulas as a user preset.
func (e *Editor) savePreset() {
	if e.Presets == nil || e.PresetsPath == "" {
		e.setStatus("No presets file configured")
		return
	}
	name := "saved " + time.Now().Format("2006-01-02 15:04:05")
	if err := e.Presets.Add(surface.ToPreset(name, e.Controller.Params())); err != nil {
		e.setStatus("Error: %v", err)
		return
	}
	if err := e.Presets.SaveUser(e.PresetsPath); err != nil {
		e.setStatus("Error: %v", err)
		return
	}
	e.setStatus("Saved preset %q", name)
}

func (e *Editor) handleCameraControls() {
	cam := e.Scene.Camera
	if cam == nil {
		return
	}
	if e.Input.ScrollDelta != 0 {
		cam.Zoom(-float32(e.Input.ScrollDelta) * zoomSpeed)
	}
	if e.Input.IsMouseDown(MouseLeft) || e.Input.IsMouseDown(MouseMiddle) {
		dx := float32(e.Input.MouseDeltaX) * orbitSpeed
		dy := float32(e.Input.MouseDeltaY) * orbitSpeed
		cam.Orbit(-dx, dy)
	}
}

// handleProbe reports the sample under the cursor on right click.
func (e *Editor) handleProbe(width, height int) {
	cam := e.Scene.Camera
	if cam == nil || width <= 0 || height <= 0 || !e.Input.IsMousePressed(MouseRight) {
		return
	}
	ray := ScreenToRay(float32(e.Input.MouseX), float32(e.Input.MouseY), float32(width), float32(height), &cam.Camera)
	hit := RaycastNode(ray, e.Controller.Node())
	if !hit.Hit {
		e.setStatus("Probe: no surface under cursor")
		return
	}
	s := e.Controller.Samples()
	k := int(hit.Vertex)
	if k >= s.Len() {
		return
	}
	i, j := k/s.SegmentsV, k%s.SegmentsV
	e.setStatus("Probe (%d,%d): z=%.4g", i, j, s.Scalars[k])
}

// syncBounds keeps the bounding box attached to whichever node is current.
func (e *Editor) syncBounds() {
	node := e.Controller.Node()
	if !e.showBounds || node == nil {
		if e.bounds != nil && e.boundsOwner != nil {
			e.boundsOwner.RemoveChild(e.bounds)
		}
		e.bounds, e.boundsOwner = nil, nil
		return
	}
	if e.boundsOwner == node {
		return
	}
	if e.bounds != nil && e.boundsOwner != nil {
		e.boundsOwner.RemoveChild(e.bounds)
	}
	e.bounds = scene.NewMeshNode("bounds", scene.CreateBoundsWireframe(node.Mesh.LocalAABB, core.ColorWhite))
	e.boundsOwner = node
	node.AddChild(e.bounds)
}

// Frame points the camera at the current surface.
func (e *Editor) Frame() {
	node := e.Controller.Node()
	if node == nil || e.Scene.Camera == nil {
		return
	}
	e.Scene.Camera.Frame(scene.ComputeAABB(node.Mesh, node.GetWorldMatrix()))
	e.setStatus("Framed")
}

// Title summarizes the current surface for the window title bar.
func (e *Editor) Title() string {
	st := e.Controller.Stats()
	return fmt.Sprintf("Surfacer | %s | %s | %d vertices | %s | %s",
		st.Mode, st.Style, st.Vertices, st.LastBuild.Round(time.Microsecond), e.StatusText)
}
