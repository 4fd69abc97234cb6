package theme

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

// Blend mixes two #RRGGBB colors. pos is clamped to [0, 1]; 0 yields from.
func Blend(from, to string, pos float64) string {
	pos = max(0, min(1, pos))
	r1, g1, b1 := ParseHex(from)
	r2, g2, b2 := ParseHex(to)
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a)*(1-pos) + float64(b)*pos)
	}
	return fmt.Sprintf("#%02x%02x%02x", mix(r1, r2), mix(g1, g2), mix(b1, b2))
}

// Gradient returns n colors stepping evenly from one color to another.
func Gradient(from, to string, n int) []string {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []string{from}
	}
	out := make([]string, n)
	for i := range out {
		out[i] = Blend(from, to, float64(i)/float64(n-1))
	}
	return out
}

// ParseHex extracts RGB values from "#RRGGBB". Malformed input yields black.
func ParseHex(hex string) (r, g, b uint8) {
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) == 6 {
		_, _ = fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b)
	}
	return r, g, b
}

// ApplyGradient colors each rune of text along a gradient.
func ApplyGradient(text, from, to string) string {
	runes := []rune(text)
	colors := Gradient(from, to, len(runes))
	var b strings.Builder
	for i, r := range runes {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(colors[i])).Render(string(r)))
	}
	return b.String()
}
