package editor

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"surface-engine/presets"
	"surface-engine/sampler"
	"surface-engine/surface"
	"surface-engine/textures"
)

// ErrUsage is returned for a console line that does not parse.
var ErrUsage = errors.New("editor: bad command")

// ConsoleHelp lists the console commands.
const ConsoleHelp = `commands:
  <expr>                    grid surface z = f(x, y, t)
  z <expr>[; <expr>]        grid surface, a second formula enables morphing
  xyz <fx>; <fy>; <fz>      parametric surface of (u, v)
  u <min> <max>             parametric u range (numbers or formulas like 2*pi)
  v <min> <max>             parametric v range
  mode grid|parametric
  style <name>              ` + "rainbow, wire_detailed, wire_gradient, wire_glitch, animated_rainbow, plain_color" + `
  segments <n>  width <w>  morph <m>  theme <#hex>  variation on|off
  preset <name>  presets  save <name>  delete <name>
  undo  redo  frame  stats  help`

type consoleCmd func(e *Editor, arg string) (string, error)

var consoleCmds map[string]consoleCmd

func init() {
	consoleCmds = map[string]consoleCmd{
		"help":      func(*Editor, string) (string, error) { return ConsoleHelp, nil },
		"z":         (*Editor).execGrid,
		"xyz":       (*Editor).execParametric,
		"u":         func(e *Editor, arg string) (string, error) { return e.execRange(arg, true) },
		"v":         func(e *Editor, arg string) (string, error) { return e.execRange(arg, false) },
		"mode":      (*Editor).execMode,
		"style":     (*Editor).execStyle,
		"segments":  (*Editor).execSegments,
		"width":     (*Editor).execWidth,
		"morph":     (*Editor).execMorph,
		"theme":     (*Editor).execTheme,
		"variation": (*Editor).execVariation,
		"preset":    (*Editor).execPreset,
		"presets":   (*Editor).execPresets,
		"save":      (*Editor).execSave,
		"delete":    (*Editor).execDelete,
		"undo":      func(e *Editor, _ string) (string, error) { e.undo(); return e.StatusText, nil },
		"redo":      func(e *Editor, _ string) (string, error) { e.redo(); return e.StatusText, nil },
		"frame":     func(e *Editor, _ string) (string, error) { e.Frame(); return e.StatusText, nil },
		"stats":     (*Editor).execStats,
	}
}

// Exec runs one console line. A line that does not start with a known
// command is taken as a grid formula.
func (e *Editor) Exec(line string) (string, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", nil
	}
	name, arg, _ := strings.Cut(line, " ")
	if cmd, ok := consoleCmds[strings.ToLower(name)]; ok {
		return cmd(e, strings.TrimSpace(arg))
	}
	return e.execGrid(line)
}

func (e *Editor) edit(desc string, change func() error) (string, error) {
	if err := e.Edit(desc, change); err != nil {
		return "", err
	}
	return desc, nil
}

func splitFormulas(arg string) []string {
	parts := strings.Split(arg, ";")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func (e *Editor) execGrid(arg string) (string, error) {
	exprs := splitFormulas(arg)
	if len(exprs) > 2 || exprs[0] == "" {
		return "", fmt.Errorf("%w: z takes one or two formulas separated by ';'", ErrUsage)
	}
	return e.edit("z = "+strings.Join(exprs, " -> "), func() error {
		return e.Controller.SetExpressions(exprs...)
	})
}

func (e *Editor) execParametric(arg string) (string, error) {
	f := splitFormulas(arg)
	if len(f) != 3 {
		return "", fmt.Errorf("%w: xyz takes three formulas separated by ';'", ErrUsage)
	}
	p := e.Controller.Params()
	return e.edit("xyz = "+strings.Join(f, ", "), func() error {
		return e.Controller.SetParametric(f[0], f[1], f[2], p.U, p.V)
	})
}

func (e *Editor) execRange(arg string, isU bool) (string, error) {
	fields := strings.Fields(arg)
	if len(fields) != 2 {
		return "", fmt.Errorf("%w: a range is two bounds", ErrUsage)
	}
	lo, err := presets.ParseBound(fields[0])
	if err != nil {
		return "", err
	}
	hi, err := presets.ParseBound(fields[1])
	if err != nil {
		return "", err
	}
	r := sampler.Range{Min: lo.Value, Max: hi.Value}
	p := e.Controller.Params()
	name := "v"
	u, v := p.U, r
	if isU {
		name = "u"
		u, v = r, p.V
	}
	return e.edit(fmt.Sprintf("%s in [%g, %g]", name, r.Min, r.Max), func() error {
		return e.Controller.SetRanges(u, v)
	})
}

func (e *Editor) execMode(arg string) (string, error) {
	m, err := surface.ParseMode(arg)
	if err != nil {
		return "", err
	}
	return e.edit("Mode: "+m.String(), func() error { return e.Controller.SetMode(m) })
}

func (e *Editor) execStyle(arg string) (string, error) {
	s, err := textures.ParseStyle(arg)
	if err != nil {
		return "", err
	}
	return e.edit("Style: "+s.String(), func() error { return e.Controller.SetStyle(s) })
}

func (e *Editor) execSegments(arg string) (string, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return "", fmt.Errorf("%w: segments: %w", ErrUsage, err)
	}
	return e.edit(fmt.Sprintf("Segments: %d", n), func() error { return e.Controller.SetSegments(n) })
}

func (e *Editor) execWidth(arg string) (string, error) {
	w, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return "", fmt.Errorf("%w: width: %w", ErrUsage, err)
	}
	return e.edit(fmt.Sprintf("Half-width: %g", w), func() error { return e.Controller.SetHalfWidth(w) })
}

func (e *Editor) execMorph(arg string) (string, error) {
	m, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return "", fmt.Errorf("%w: morph: %w", ErrUsage, err)
	}
	return e.edit(fmt.Sprintf("Morph: %g", m), func() error { return e.Controller.SetMorph(m) })
}

func (e *Editor) execTheme(arg string) (string, error) {
	return e.edit("Theme: "+arg, func() error { return e.Controller.SetTheme(arg) })
}

func (e *Editor) execVariation(arg string) (string, error) {
	var on bool
	switch strings.ToLower(arg) {
	case "on", "true", "1":
		on = true
	case "off", "false", "0":
	default:
		return "", fmt.Errorf("%w: variation on|off", ErrUsage)
	}
	return e.edit(fmt.Sprintf("Variation: %t", on), func() error { return e.Controller.SetVariation(on) })
}

func (e *Editor) execPreset(arg string) (string, error) {
	if e.Presets == nil {
		return "", fmt.Errorf("%w: %q", presets.ErrNotFound, arg)
	}
	p, ok := e.Presets.Get(arg)
	if !ok {
		return "", fmt.Errorf("%w: %q", presets.ErrNotFound, arg)
	}
	return e.edit("Preset: "+p.Name, func() error { return e.Controller.ApplyPreset(p) })
}

func (e *Editor) execPresets(string) (string, error) {
	if e.Presets == nil {
		return "", nil
	}
	names := e.Presets.Names()
	sort.Strings(names)
	return strings.Join(names, "\n"), nil
}

func (e *Editor) execSave(arg string) (string, error) {
	if arg == "" {
		return "", fmt.Errorf("%w: save needs a name", ErrUsage)
	}
	if e.Presets == nil || e.PresetsPath == "" {
		return "", errors.New("editor: no presets file configured")
	}
	if err := e.Presets.Add(surface.ToPreset(arg, e.Controller.Params())); err != nil {
		return "", err
	}
	if err := e.Presets.SaveUser(e.PresetsPath); err != nil {
		return "", err
	}
	return fmt.Sprintf("Saved preset %q", arg), nil
}

func (e *Editor) execDelete(arg string) (string, error) {
	if e.Presets == nil || e.PresetsPath == "" {
		return "", errors.New("editor: no presets file configured")
	}
	if err := e.Presets.Remove(arg); err != nil {
		return "", err
	}
	if err := e.Presets.SaveUser(e.PresetsPath); err != nil {
		return "", err
	}
	return fmt.Sprintf("Deleted preset %q", arg), nil
}

func (e *Editor) execStats(string) (string, error) {
	st := e.Controller.Stats()
	return fmt.Sprintf("mode=%s style=%s vertices=%d indices=%d z=[%.4g, %.4g] build=%s regenerations=%d",
		st.Mode, st.Style, st.Vertices, st.Indices, st.ZMin, st.ZMax, st.LastBuild, st.Regenerations), nil
}
