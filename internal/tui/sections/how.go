package sections

import (
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/homekey-labs/homekey/internal/content"
	"github.com/homekey-labs/homekey/internal/tui/theme"
)

// HowItWorks lists the numbered steps of selling to us.
type HowItWorks struct {
	page
	content *content.Content
}

// NewHowItWorks creates the steps page.
func NewHowItWorks(c *content.Content) *HowItWorks {
	h := &HowItWorks{page: newPage(), content: c}
	h.render()
	return h
}

func (h *HowItWorks) SetContent(c *content.Content) {
	h.content = c
	h.render()
}

func (h *HowItWorks) SetSize(width, height int) {
	h.setSize(width, height)
	h.render()
}

func (h *HowItWorks) SetCompact(compact bool) {
	h.compact = compact
	h.render()
}

func (h *HowItWorks) Update(msg tea.Msg) tea.Cmd {
	return h.update(msg)
}

func (h *HowItWorks) View() string {
	return h.view()
}

func (h *HowItWorks) render() {
	s := theme.Current().S()
	c := h.content

	var b strings.Builder
	b.WriteString(s.SectionTitle.Render("How It Works"))
	b.WriteString("\n")
	b.WriteString(s.SectionSubtitle.Render(c.R("Three steps from address to cash with {{company}}.")))
	b.WriteString("\n\n")

	indent := 4
	if h.compact {
		indent = 2
	}
	bodyWidth := max(h.width-indent, 10)
	pad := strings.Repeat(" ", indent)

	for i, step := range c.Steps {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(s.StepNumber.Render(strconv.Itoa(i + 1)))
		b.WriteString(" ")
		b.WriteString(s.CardTitle.Render(c.R(step.Title)))
		b.WriteString("\n")
		for _, line := range strings.Split(wrap(c.R(step.Body), bodyWidth), "\n") {
			b.WriteString(pad)
			b.WriteString(s.CardBody.Render(line))
			b.WriteString("\n")
		}
	}

	h.setBody(b.String())
}
