package presets

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestBuiltinsLoadAndValidate(t *testing.T) {
	l, err := Load("")
	require.NoError(t, err)

	names := l.Names()
	require.NotEmpty(t, names)
	assert.Contains(t, names, "ripple")
	assert.Contains(t, names, "torus")

	torus, ok := l.Get("torus")
	require.True(t, ok)
	assert.True(t, torus.Parametric())
	assert.InDelta(t, 2*math.Pi, torus.UMax.Value, 1e-12)
	assert.Equal(t, "2*pi", torus.UMax.Expr)

	morph, ok := l.Get("ripple to saddle")
	require.True(t, ok)
	assert.False(t, morph.Parametric())
	assert.Len(t, morph.Expressions, 2)
}

func TestBoundYAML(t *testing.T) {
	var p struct {
		A Bound `yaml:"a"`
		B Bound `yaml:"b"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("a: -1.5\nb: tau/4\n"), &p))
	assert.Equal(t, Num(-1.5), p.A)
	assert.InDelta(t, math.Pi/2, p.B.Value, 1e-12)
	assert.Equal(t, "tau/4", p.B.String())

	out, err := yaml.Marshal(p)
	require.NoError(t, err)
	assert.Equal(t, "a: -1.5\nb: tau/4\n", string(out))

	err = yaml.Unmarshal([]byte("a: x+1\n"), &p)
	assert.ErrorIs(t, err, ErrInvalid)

	err = yaml.Unmarshal([]byte("a: [1, 2]\n"), &p)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	good := []Preset{
		{Name: "one", Expressions: []string{"x"}},
		{Name: "two", Expressions: []string{"x", "y*t"}},
		{Name: "para", X: "u", Y: "v", Z: "u*v", UMax: Num(1), VMax: Num(1)},
	}
	for _, p := range good {
		assert.NoError(t, p.Validate(), p.Name)
	}

	bad := []Preset{
		{Expressions: []string{"x"}},
		{Name: "none"},
		{Name: "three", Expressions: []string{"x", "y", "t"}},
		{Name: "broken", Expressions: []string{"x +"}},
		{Name: "wrong var", Expressions: []string{"u"}},
		{Name: "partial", X: "u", Y: "v", UMax: Num(1), VMax: Num(1)},
		{Name: "flat", X: "u", Y: "v", Z: "0", UMax: Num(1)},
		{Name: "mixed", Expressions: []string{"x"}, X: "u", Y: "v", Z: "0", UMax: Num(1), VMax: Num(1)},
	}
	for _, p := range bad {
		assert.ErrorIs(t, p.Validate(), ErrInvalid, p.Name)
	}
}

func TestUserPresetsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")

	l, err := Load(path)
	require.NoError(t, err, "a missing user file is fine")

	require.NoError(t, l.Add(Preset{Name: "mine", Expressions: []string{"x*y"}}))
	bound, err := ParseBound("pi")
	require.NoError(t, err)
	require.NoError(t, l.Add(Preset{Name: "tube", X: "cos(u)", Y: "sin(u)", Z: "v", UMax: bound, VMin: Num(-2), VMax: Num(2)}))
	require.NoError(t, l.SaveUser(path))

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, l.User(), again.User())

	tube, ok := again.Get("tube")
	require.True(t, ok)
	assert.Equal(t, "pi", tube.UMax.Expr)
	assert.True(t, tube.UMin.IsZero())
}

func TestAddReplacesAndShadows(t *testing.T) {
	l, err := Load("")
	require.NoError(t, err)
	n := len(l.Names())

	require.NoError(t, l.Add(Preset{Name: "ripple", Expressions: []string{"0"}}))
	require.NoError(t, l.Add(Preset{Name: "ripple", Expressions: []string{"1"}}))
	assert.Len(t, l.Names(), n)
	assert.Len(t, l.User(), 1)

	got, _ := l.Get("ripple")
	assert.Equal(t, []string{"1"}, got.Expressions)

	assert.ErrorIs(t, l.Add(Preset{Name: "bad"}), ErrInvalid)
}

func TestRemove(t *testing.T) {
	l, err := Load("")
	require.NoError(t, err)
	require.NoError(t, l.Add(Preset{Name: "mine", Expressions: []string{"x"}}))

	require.NoError(t, l.Remove("mine"))
	_, ok := l.Get("mine")
	assert.False(t, ok)

	assert.ErrorIs(t, l.Remove("torus"), ErrBuiltin)
	assert.ErrorIs(t, l.Remove("nope"), ErrNotFound)
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("presets:\n  - name: x\n    expressions: [\"sin(\"]\n"), 0o644))
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalid)
}
