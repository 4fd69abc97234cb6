package sections

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/homekey-labs/homekey/internal/content"
	"github.com/homekey-labs/homekey/internal/tui/theme"
)

// Trust shows the badges that answer "why should I sell to you".
type Trust struct {
	page
	content *content.Content
}

// NewTrust creates the "Why Us" page.
func NewTrust(c *content.Content) *Trust {
	t := &Trust{page: newPage(), content: c}
	t.render()
	return t
}

func (t *Trust) SetContent(c *content.Content) {
	t.content = c
	t.render()
}

func (t *Trust) SetSize(width, height int) {
	t.setSize(width, height)
	t.render()
}

func (t *Trust) SetCompact(compact bool) {
	t.compact = compact
	t.render()
}

func (t *Trust) Update(msg tea.Msg) tea.Cmd {
	return t.update(msg)
}

func (t *Trust) View() string {
	return t.view()
}

func (t *Trust) render() {
	s := theme.Current().S()
	c := t.content

	var b strings.Builder
	b.WriteString(s.SectionTitle.Render(c.R("Why Homeowners Choose {{company}}")))
	b.WriteString("\n\n")

	for _, badge := range c.Badges {
		b.WriteString(s.Badge.Render("✓ " + c.R(badge.Label)))
		b.WriteString("\n")
		if badge.Detail != "" {
			b.WriteString(s.CardBody.Render(wrap(c.R(badge.Detail), max(t.width-2, 10))))
			b.WriteString("\n")
		}
		if !t.compact {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(s.SectionSubtitle.Render(c.R("Questions? Call {{phone}}. A real person answers.")))
	b.WriteString("\n")

	t.setBody(b.String())
}
