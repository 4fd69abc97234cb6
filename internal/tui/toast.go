package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/homekey-labs/homekey/internal/tui/theme"
)

// ToastDuration is how long a toast stays on screen.
const ToastDuration = 4 * time.Second

// ToastKind picks the toast colors.
type ToastKind int

const (
	ToastInfo ToastKind = iota
	ToastSuccess
	ToastError
)

// ToastDismissMsg is sent when a toast should be dismissed. Seq identifies
// the toast it was scheduled for so a newer toast is not cut short.
type ToastDismissMsg struct {
	Seq int
}

// ShowToastMsg asks the app to show a toast.
type ShowToastMsg struct {
	Text string
	Kind ToastKind
}

// Toast is a small notification drawn in the bottom-right corner that
// auto-dismisses.
type Toast struct {
	message string
	kind    ToastKind
	visible bool
	seq     int
}

// NewToast creates a new Toast component.
func NewToast() *Toast {
	return &Toast{}
}

// Show displays msg and returns the command that dismisses it.
func (t *Toast) Show(msg string, kind ToastKind) tea.Cmd {
	t.seq++
	t.message = msg
	t.kind = kind
	t.visible = true
	seq := t.seq
	return tea.Tick(ToastDuration, func(time.Time) tea.Msg {
		return ToastDismissMsg{Seq: seq}
	})
}

// Update handles dismissal.
func (t *Toast) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(ToastDismissMsg); ok && msg.Seq == t.seq {
		t.visible = false
		t.message = ""
	}
	return nil
}

// View renders the toast box no wider than maxWidth, or "" when hidden.
func (t *Toast) View(maxWidth int) string {
	if !t.visible || t.message == "" {
		return ""
	}

	th := theme.Current()
	bg := th.Info
	switch t.kind {
	case ToastSuccess:
		bg = th.Success
	case ToastError:
		bg = th.Error
	}

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(th.BgBase)).
		Background(lipgloss.Color(bg)).
		Padding(0, 1).
		Bold(true)

	out := style.Render(t.message)
	if maxWidth > 4 && lipgloss.Width(out) > maxWidth {
		out = style.Width(maxWidth).Render(t.message)
	}
	return out
}

// IsVisible returns whether the toast is currently visible.
func (t *Toast) IsVisible() bool {
	return t.visible
}

// Message returns the current toast message (empty if not visible).
func (t *Toast) Message() string {
	if !t.visible {
		return ""
	}
	return t.message
}
