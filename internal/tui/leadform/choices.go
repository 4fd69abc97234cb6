package leadform

import (
	"strings"

	"github.com/homekey-labs/homekey/internal/tui/theme"
)

// choiceGroup is a single-select row of options. selected is -1 until the
// user picks something.
type choiceGroup struct {
	label    string
	options  []string
	selected int
}

func newChoiceGroup(label string, options ...string) *choiceGroup {
	return &choiceGroup{label: label, options: options, selected: -1}
}

// Value returns the chosen option, or "".
func (g *choiceGroup) Value() string {
	if g.selected < 0 {
		return ""
	}
	return g.options[g.selected]
}

// Chosen reports whether an option is selected.
func (g *choiceGroup) Chosen() bool {
	return g.selected >= 0
}

// move shifts the selection, starting from the first or last option when
// nothing is chosen yet.
func (g *choiceGroup) move(delta int) {
	if g.selected < 0 {
		if delta < 0 {
			g.selected = len(g.options) - 1
		} else {
			g.selected = 0
		}
		return
	}
	g.selected = max(0, min(g.selected+delta, len(g.options)-1))
}

// pick selects by 1-based number key. Out of range numbers are ignored.
func (g *choiceGroup) pick(key string) bool {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return false
	}
	i := int(key[0] - '1')
	if i >= len(g.options) {
		return false
	}
	g.selected = i
	return true
}

func (g *choiceGroup) reset() {
	g.selected = -1
}

func (g *choiceGroup) view(active bool) string {
	s := theme.Current().S()

	var b strings.Builder
	label := s.Description.Render("  " + g.label)
	if active {
		label = s.Label.Render("▸ " + g.label)
	}
	b.WriteString(label)
	b.WriteString("\n   ")
	for i, opt := range g.options {
		if i > 0 {
			b.WriteString("  ")
		}
		if i == g.selected {
			b.WriteString(s.ChoiceSel.Render("(•) " + opt))
		} else {
			b.WriteString(s.Choice.Render("( ) " + opt))
		}
	}
	return b.String()
}
