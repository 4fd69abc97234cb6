package address

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/homekey-labs/homekey/internal/geocode"
	"github.com/homekey-labs/homekey/internal/tui/theme"
)

// CandidateSelectedMsg is emitted when the user picks a suggestion.
type CandidateSelectedMsg struct {
	Candidate geocode.Candidate
}

// Field is a text input with a suggestion list fed by a Lookup.
type Field struct {
	input     textinput.Model
	lookup    *Lookup
	highlight int
	selected  *geocode.Candidate
	width     int
}

// NewField creates an address field driven by lookup.
func NewField(lookup *Lookup) *Field {
	t := theme.Current()
	input := textinput.New()
	input.Placeholder = "Start typing your street address..."
	input.Prompt = "⌂ "
	input.SetStyles(textinput.Styles{
		Focused: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBright)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.Primary)),
		},
		Blurred: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.BgOverlay)),
		},
		Cursor: textinput.CursorStyle{
			Color: lipgloss.Color(t.Primary),
			Shape: tea.CursorBar,
			Blink: true,
		},
	})
	input.SetWidth(60)

	return &Field{
		input:  input,
		lookup: lookup,
		width:  64,
	}
}

// Value returns the text in the input.
func (f *Field) Value() string { return f.input.Value() }

// Selected returns the picked candidate, if any. Editing the text after a
// pick clears it.
func (f *Field) Selected() (geocode.Candidate, bool) {
	if f.selected == nil {
		return geocode.Candidate{}, false
	}
	return *f.selected, true
}

// Lookup exposes the underlying autocomplete state.
func (f *Field) Lookup() *Lookup { return f.lookup }

// Reset empties the field.
func (f *Field) Reset() {
	f.input.SetValue("")
	f.selected = nil
	f.highlight = 0
	f.lookup.SetQuery("")
	f.lookup.ClearResults()
}

// Focus focuses the text input.
func (f *Field) Focus() tea.Cmd { return f.input.Focus() }

// Blur blurs the text input and closes the suggestion list.
func (f *Field) Blur() {
	f.input.Blur()
	f.lookup.ClearResults()
}

// SetSize sets the field width.
func (f *Field) SetSize(width, _ int) {
	f.width = width
	f.input.SetWidth(max(width-4, 10))
}

// CapturesKey claims navigation keys while suggestions are showing.
func (f *Field) CapturesKey(msg tea.KeyPressMsg) bool {
	if len(f.lookup.Results()) == 0 {
		return false
	}
	switch msg.String() {
	case "enter", "esc", "up", "down":
		return true
	}
	return false
}

// Update handles typing, suggestion navigation and lookup messages.
func (f *Field) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case debounceMsg, resultsMsg:
		applied := f.lookup.applied
		cmd := f.lookup.Update(msg)
		if f.lookup.applied != applied {
			f.highlight = 0
		}
		return cmd

	case tea.KeyPressMsg:
		results := f.lookup.Results()
		switch msg.String() {
		case "up":
			if len(results) > 0 {
				f.highlight = (f.highlight - 1 + len(results)) % len(results)
				return nil
			}
		case "down":
			if len(results) > 0 {
				f.highlight = (f.highlight + 1) % len(results)
				return nil
			}
		case "enter":
			if len(results) > 0 {
				return f.pick(results[f.highlight])
			}
			return nil
		case "esc":
			if len(results) > 0 {
				f.lookup.ClearResults()
				return nil
			}
		}

		before := f.input.Value()
		var cmd tea.Cmd
		f.input, cmd = f.input.Update(msg)
		if f.input.Value() == before {
			return cmd
		}
		f.selected = nil
		f.highlight = 0
		return tea.Batch(cmd, f.lookup.SetQuery(f.input.Value()))
	}

	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd
}

// Select fills the field with c as if the user had picked it.
func (f *Field) Select(c geocode.Candidate) tea.Cmd {
	return f.pick(c)
}

func (f *Field) pick(c geocode.Candidate) tea.Cmd {
	f.selected = &c
	f.highlight = 0
	f.input.SetValue(c.Label())
	f.input.CursorEnd()
	f.lookup.ClearResults()
	return func() tea.Msg { return CandidateSelectedMsg{Candidate: c} }
}

// View renders the input, a loading line and the suggestion list.
func (f *Field) View() string {
	s := theme.Current().S()

	var b strings.Builder
	b.WriteString(f.input.View())

	switch {
	case f.lookup.Loading():
		b.WriteString("\n")
		b.WriteString(s.Muted.Render("  Searching addresses..."))
	case len(f.lookup.Results()) > 0:
		for i, c := range f.lookup.Results() {
			b.WriteString("\n")
			label := truncate(c.Label(), max(f.width-6, 10))
			if i == f.highlight {
				b.WriteString(s.SuggestionSel.Render("▸ " + label))
			} else {
				b.WriteString(s.Suggestion.Render("  " + label))
			}
		}
	case f.selected != nil:
		b.WriteString("\n")
		b.WriteString(s.Success.Render("  ✓ Address confirmed"))
	}
	return b.String()
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
