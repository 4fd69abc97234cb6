// Package sections renders the kiosk's marketing pages: the hero, how it
// works, trust badges, the FAQ accordion and the startup splash.
package sections

import (
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/glamour/v2"
	"charm.land/lipgloss/v2"
	"github.com/gosimple/slug"
	"github.com/homekey-labs/homekey/internal/content"
	"github.com/homekey-labs/homekey/internal/logger"
)

// Section is a page the app shell can host in a tab.
type Section interface {
	SetContent(c *content.Content)
	SetSize(width, height int)
	SetCompact(compact bool)
	Update(msg tea.Msg) tea.Cmd
	View() string
}

// Anchor returns the stable identifier for a section title,
// e.g. "How It Works" -> "how-it-works".
func Anchor(title string) string {
	return slug.Make(title)
}

// page is a scrollable body shared by the static sections.
type page struct {
	viewport viewport.Model
	width    int
	height   int
	compact  bool
}

func newPage() page {
	vp := viewport.New(
		viewport.WithWidth(80),
		viewport.WithHeight(20),
	)
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3
	return page{viewport: vp, width: 80, height: 20}
}

func (p *page) setSize(width, height int) {
	p.width = max(width, 1)
	p.height = max(height, 1)
	p.viewport.SetWidth(p.width)
	p.viewport.SetHeight(p.height)
}

func (p *page) setBody(body string) {
	p.viewport.SetContent(body)
}

func (p *page) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return cmd
}

func (p *page) view() string {
	return p.viewport.View()
}

// renderMarkdown renders markdown with glamour, capped at 100 columns.
// Falls back to wrapped plain text if rendering fails.
func renderMarkdown(md string, width int) string {
	width = min(max(width, 20), 100)

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		logger.Debug("glamour renderer unavailable: %v", err)
		return wrap(md, width)
	}

	rendered, err := r.Render(md)
	if err != nil {
		logger.Debug("markdown render failed: %v", err)
		return wrap(md, width)
	}

	// glamour pads with blank lines on both ends
	return strings.Trim(rendered, "\n")
}

// wrap word-wraps plain text to width.
func wrap(text string, width int) string {
	return lipgloss.NewStyle().Width(max(width, 1)).Render(text)
}
