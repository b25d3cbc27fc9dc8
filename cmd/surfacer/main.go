package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/chewxy/math32"

	"surface-engine/colors"
	"surface-engine/config"
	"surface-engine/core"
	"surface-engine/editor"
	"surface-engine/math"
	"surface-engine/presets"
	"surface-engine/renderer"
	"surface-engine/scene"
	"surface-engine/surface"
	"surface-engine/textures"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Build the surface without a window, log stats and exit")
	ticks := flag.Int("ticks", 0, "Headless: animation ticks to run after the first build")
	seed := flag.Uint64("seed", 0, "RNG seed for color variation (0 = time-based)")
	exprFlag := flag.String("expr", "", "Grid formula z = f(x, y, t); overrides the config")
	styleFlag := flag.String("style", "", "Rendering style; overrides the config")
	segments := flag.Int("segments", 0, "Samples per axis (0 = use config)")
	presetFlag := flag.String("preset", "", "Start from a named preset")
	presetsPath := flag.String("presets", "", "User presets file (empty = use config)")
	writeConfig := flag.String("write-config", "", "Write the effective config to this path and exit")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *presetsPath != "" {
		cfg.Presets.File = *presetsPath
	}
	if *segments > 0 {
		cfg.Surface.Segments = *segments
	}
	if *exprFlag != "" {
		cfg.Surface.Mode = surface.Grid.String()
		cfg.Surface.Expressions = []string{*exprFlag}
	}
	if *styleFlag != "" {
		st, err := textures.ParseStyle(*styleFlag)
		if err != nil {
			slog.Error("invalid style flag", "error", err)
			os.Exit(2)
		}
		cfg.Surface.Style = st
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		slog.Error("invalid log config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	if *writeConfig != "" {
		if err := cfg.WriteYAML(*writeConfig); err != nil {
			slog.Error("failed to write config", "error", err)
			os.Exit(1)
		}
		slog.Info("config written", "path", *writeConfig)
		return
	}

	lib, err := presets.Load(cfg.Presets.File)
	if err != nil {
		slog.Error("failed to load presets", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = uint64(time.Now().UnixNano())
	}

	s := scene.NewScene()
	ctrl := surface.New(s,
		surface.WithLogger(logger),
		surface.WithRand(rand.New(rand.NewPCG(rngSeed, rngSeed))),
		surface.WithParams(cfg.Surface.Params()),
		surface.WithAnimation(cfg.Animation.Animation()),
	)

	if *presetFlag != "" {
		p, ok := lib.Get(*presetFlag)
		if !ok {
			slog.Error("unknown preset", "name", *presetFlag, "available", lib.Names())
			os.Exit(2)
		}
		err = ctrl.ApplyPreset(p)
	} else {
		err = ctrl.Regenerate()
	}
	if err != nil {
		slog.Error("failed to build surface", "error", err)
		os.Exit(1)
	}

	if *headless {
		runHeadless(ctrl, *ticks, rngSeed)
		return
	}
	if err := run(cfg, s, ctrl, lib); err != nil {
		slog.Error("viewer failed", "error", err)
		os.Exit(1)
	}
}

func newLogger(lc config.LogConfig) (*slog.Logger, error) {
	level, err := lc.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if lc.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts)), nil
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts)), nil
}

func runHeadless(ctrl *surface.Controller, ticks int, seed uint64) {
	slog.Info("starting headless build", "seed", seed, "ticks", ticks)
	for range ticks {
		ctrl.Tick()
	}
	logStats(ctrl)
}

func logStats(ctrl *surface.Controller) {
	st := ctrl.Stats()
	slog.Info("surface",
		"mode", st.Mode.String(),
		"style", st.Style.String(),
		"vertices", st.Vertices,
		"indices", st.Indices,
		"z_min", st.ZMin,
		"z_max", st.ZMax,
		"build", st.LastBuild,
		"regenerations", st.Regenerations,
	)
}

func run(cfg *config.Config, s *scene.Scene, ctrl *surface.Controller, lib *presets.Library) error {
	windowConfig := core.DefaultWindowConfig()
	windowConfig.Width = cfg.Window.Width
	windowConfig.Height = cfg.Window.Height
	windowConfig.Title = cfg.Window.Title
	windowConfig.VSync = cfg.Window.VSync

	window, err := core.NewWindow(windowConfig)
	if err != nil {
		return err
	}
	defer window.Destroy()

	renderEngine, err := renderer.NewRenderEngine(window, slog.Default())
	if err != nil {
		return err
	}
	defer renderEngine.Destroy()

	cam := scene.NewOrbitCamera(
		math.Vec3Zero,
		cfg.Camera.Distance,
		degToRad(cfg.Camera.FOV),
		float32(window.Width)/float32(window.Height),
	)
	cam.Yaw = degToRad(cfg.Camera.Yaw)
	cam.Pitch = degToRad(cfg.Camera.Pitch)
	cam.UpdatePosition()
	s.SetCamera(cam)
	s.Background = colors.ParseTheme(colors.NewPalette(cfg.Surface.Theme).Background)
	renderEngine.SetScene(s)

	ed := editor.NewEditor(window, s, ctrl, lib, slog.Default())
	ed.PresetsPath = cfg.Presets.File

	printControls()
	lines := readLines(os.Stdin)

	fbw, fbh := window.GetFramebufferSize()
	renderEngine.Resize(fbw, fbh)
	lastTitle := time.Time{}

	for !window.ShouldClose() && !ed.QuitRequested {
		window.PollEvents()

		for _, line := range drain(lines) {
			out, err := ed.Exec(line)
			switch {
			case err != nil:
				fmt.Println("error:", err)
			case out != "":
				fmt.Println(out)
			}
		}

		ed.Update(window.Width, window.Height)
		ctrl.Tick()

		if w, h := window.GetFramebufferSize(); w != fbw || h != fbh {
			fbw, fbh = w, h
			renderEngine.Resize(fbw, fbh)
		}
		if err := renderEngine.Render(); err != nil {
			return err
		}
		renderEngine.Present()

		if now := time.Now(); now.Sub(lastTitle) > 250*time.Millisecond {
			window.SetTitle(ed.Title())
			lastTitle = now
		}
	}
	logStats(ctrl)
	return nil
}

func degToRad(d float32) float32 {
	return d * math32.Pi / 180
}

func printControls() {
	fmt.Println("=== Surfacer ===")
	fmt.Println("  Left drag    - orbit camera")
	fmt.Println("  Scroll       - zoom")
	fmt.Println("  Right click  - probe the sample under the cursor")
	fmt.Println("  Left/Right   - previous/next preset")
	fmt.Println("  1-6          - style")
	fmt.Println("  +/-          - segments")
	fmt.Println("  [ ]          - half-width")
	fmt.Println("  , .          - morph")
	fmt.Println("  Tab          - grid/parametric")
	fmt.Println("  T D M R      - toggle time, drift, morph and rotation animation")
	fmt.Println("  C V          - cycle theme, toggle color variation")
	fmt.Println("  B F          - bounds box, frame surface")
	fmt.Println("  Ctrl+Z/Y     - undo/redo")
	fmt.Println("  Ctrl+S       - save current surface as a user preset")
	fmt.Println("  Esc          - quit")
	fmt.Println("Type a formula or 'help' on stdin for the console.")
}
