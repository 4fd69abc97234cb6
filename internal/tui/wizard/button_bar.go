package wizard

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/homekey-labs/homekey/internal/tui/theme"
)

// ButtonState represents the visual state of a button.
type ButtonState int

const (
	ButtonNormal   ButtonState = iota // Normal state (enabled)
	ButtonDisabled                    // Disabled state (grayed out)
	ButtonFocused                     // Focused/highlighted state
)

// Button represents a single button in the button bar.
type Button struct {
	Label string
	State ButtonState
}

// ButtonBar lays out a row of buttons, centered in its width.
type ButtonBar struct {
	buttons []Button
	width   int
}

// NewButtonBar creates a new button bar with the given buttons.
func NewButtonBar(buttons []Button) *ButtonBar {
	return &ButtonBar{
		buttons: buttons,
		width:   60,
	}
}

// SetWidth updates the width for the button bar.
func (b *ButtonBar) SetWidth(width int) {
	b.width = width
}

// Buttons returns the buttons in display order.
func (b *ButtonBar) Buttons() []Button {
	return b.buttons
}

// Render renders the button bar with proper spacing and styling.
func (b *ButtonBar) Render() string {
	if len(b.buttons) == 0 {
		return ""
	}

	s := theme.Current().S()
	rendered := make([]string, 0, len(b.buttons))
	for _, btn := range b.buttons {
		var style lipgloss.Style
		switch btn.State {
		case ButtonDisabled:
			style = s.ButtonDisabled
		case ButtonFocused:
			style = s.ButtonFocused
		default:
			style = s.Button
		}
		rendered = append(rendered, style.MarginLeft(1).MarginRight(1).Render(btn.Label))
	}

	row := strings.Join(rendered, "")
	if lipgloss.Width(row) >= b.width {
		return row
	}
	return lipgloss.Place(b.width, 1, lipgloss.Center, lipgloss.Center, row)
}
