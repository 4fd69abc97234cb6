package theme

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrent_IsHomekey(t *testing.T) {
	th := Current()
	require.Equal(t, "homekey", th.Name)
	require.Same(t, th, Current())
	require.Same(t, th.S(), th.S(), "styles are built once")
}

func TestPalette_AllColorsAreHex(t *testing.T) {
	th := NewHomekey()
	for name, c := range map[string]string{
		"Primary": th.Primary, "Secondary": th.Secondary, "Accent": th.Accent,
		"BgBase": th.BgBase, "BgSurface0": th.BgSurface0, "FgBase": th.FgBase,
		"FgMuted": th.FgMuted, "Success": th.Success, "Error": th.Error,
	} {
		assert.Regexp(t, `^#[0-9a-f]{6}$`, c, name)
	}
}

func TestBlend(t *testing.T) {
	tests := []struct {
		pos  float64
		want string
	}{
		{0, "#000000"},
		{1, "#ffffff"},
		{0.5, "#7f7f7f"},
		{-3, "#000000"},
		{7, "#ffffff"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Blend("#000000", "#ffffff", tt.pos), "pos %v", tt.pos)
	}
}

func TestGradient(t *testing.T) {
	assert.Nil(t, Gradient("#000000", "#ffffff", 0))
	assert.Equal(t, []string{"#102030"}, Gradient("#102030", "#ffffff", 1))

	g := Gradient("#000000", "#ffffff", 3)
	require.Len(t, g, 3)
	assert.Equal(t, "#000000", g[0])
	assert.Equal(t, "#ffffff", g[2])
}

func TestParseHex(t *testing.T) {
	r, g, b := ParseHex("#f97316")
	assert.Equal(t, []uint8{0xf9, 0x73, 0x16}, []uint8{r, g, b})

	r, g, b = ParseHex("nope")
	assert.Equal(t, []uint8{0, 0, 0}, []uint8{r, g, b})
}

func TestApplyGradient(t *testing.T) {
	out := ApplyGradient("homekey", "#000000", "#ffffff")
	assert.Equal(t, "homekey", ansi.Strip(out))
	assert.Empty(t, ApplyGradient("", "#000000", "#ffffff"))
}
