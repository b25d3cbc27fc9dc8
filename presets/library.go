package presets

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var builtinYAML []byte

type file struct {
	Presets []Preset `yaml:"presets"`
}

// Library holds the built-in presets and the user's own. User presets
// shadow built-ins with the same name.
type Library struct {
	builtin []Preset
	user    []Preset
}

// Load reads the built-in presets and, when userPath names an existing
// file, the user presets stored there. A missing user file is not an error.
func Load(userPath string) (*Library, error) {
	l := &Library{}
	builtin, err := decode(builtinYAML)
	if err != nil {
		return nil, fmt.Errorf("parsing built-in presets: %w", err)
	}
	l.builtin = builtin

	if userPath == "" {
		return l, nil
	}
	if err := l.LoadFile(userPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return l, nil
}

// LoadFile adds every preset in path to the user set.
func (l *Library) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading presets file: %w", err)
	}
	presets, err := decode(data)
	if err != nil {
		return fmt.Errorf("parsing presets file %s: %w", path, err)
	}
	for _, p := range presets {
		l.put(p)
	}
	return nil
}

func decode(data []byte) ([]Preset, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	for _, p := range f.Presets {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}
	return f.Presets, nil
}

// Add validates p and stores it as a user preset, replacing any user preset
// of the same name.
func (l *Library) Add(p Preset) error {
	if err := p.Validate(); err != nil {
		return err
	}
	l.put(p)
	return nil
}

func (l *Library) put(p Preset) {
	if i := indexOf(l.user, p.Name); i >= 0 {
		l.user[i] = p
		return
	}
	l.user = append(l.user, p)
}

// Remove deletes a user preset. Built-ins cannot be removed.
func (l *Library) Remove(name string) error {
	if i := indexOf(l.user, name); i >= 0 {
		l.user = slices.Delete(l.user, i, i+1)
		return nil
	}
	if indexOf(l.builtin, name) >= 0 {
		return fmt.Errorf("%w: %q", ErrBuiltin, name)
	}
	return fmt.Errorf("%w: %q", ErrNotFound, name)
}

func (l *Library) Get(name string) (Preset, bool) {
	if i := indexOf(l.user, name); i >= 0 {
		return l.user[i], true
	}
	if i := indexOf(l.builtin, name); i >= 0 {
		return l.builtin[i], true
	}
	return Preset{}, false
}

// Names lists built-in presets first, then user presets, without duplicates.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.builtin)+len(l.user))
	for _, p := range l.builtin {
		names = append(names, p.Name)
	}
	for _, p := range l.user {
		if !slices.Contains(names, p.Name) {
			names = append(names, p.Name)
		}
	}
	return names
}

// User returns a copy of the user presets.
func (l *Library) User() []Preset {
	return slices.Clone(l.user)
}

// SaveUser writes the user presets to path.
func (l *Library) SaveUser(path string) error {
	data, err := yaml.Marshal(file{Presets: l.user})
	if err != nil {
		return fmt.Errorf("marshaling presets: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing presets file: %w", err)
	}
	return nil
}

func indexOf(ps []Preset, name string) int {
	return slices.IndexFunc(ps, func(p Preset) bool { return p.Name == name })
}
