package sections

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/homekey-labs/homekey/internal/content"
	"github.com/homekey-labs/homekey/internal/tui/theme"
)

// Hero is the landing page: headline, call to action, about copy and the
// value proposition cards.
type Hero struct {
	page
	content *content.Content
	ctaKey  string
}

// NewHero creates the landing page. ctaKey is the key that opens the lead
// form, shown in the call to action.
func NewHero(c *content.Content, ctaKey string) *Hero {
	h := &Hero{page: newPage(), content: c, ctaKey: ctaKey}
	h.render()
	return h
}

// SetContent swaps the copy and re-renders.
func (h *Hero) SetContent(c *content.Content) {
	h.content = c
	h.render()
}

// SetSize sets the body dimensions.
func (h *Hero) SetSize(width, height int) {
	h.setSize(width, height)
	h.render()
}

// SetCompact switches the cards to a single column.
func (h *Hero) SetCompact(compact bool) {
	h.compact = compact
	h.render()
}

// Update scrolls the page.
func (h *Hero) Update(msg tea.Msg) tea.Cmd {
	return h.update(msg)
}

// View renders the visible part of the page.
func (h *Hero) View() string {
	return h.view()
}

func (h *Hero) render() {
	s := theme.Current().S()
	c := h.content
	w := h.width

	var b strings.Builder
	b.WriteString(s.SectionTitle.Render(wrap(c.R(c.Hero.Headline), w)))
	b.WriteString("\n")
	if sub := c.R(c.Hero.Subheadline); sub != "" {
		b.WriteString(s.SectionSubtitle.Render(wrap(sub, w)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(s.ButtonFocused.Render("Get My Cash Offer →"))
	b.WriteString("  ")
	b.WriteString(s.HintBar(h.ctaKey, "start", "call", c.Phone))
	b.WriteString("\n")

	if about := c.R(c.Hero.About); about != "" {
		b.WriteString("\n")
		b.WriteString(renderMarkdown(about, w))
		b.WriteString("\n")
	}

	if len(c.ValueProps) > 0 {
		b.WriteString("\n")
		b.WriteString(renderCards(c, c.ValueProps, w, h.compact))
	}

	h.setBody(b.String())
}

// renderCards lays cards out two per row, or one per row when compact.
func renderCards(c *content.Content, cards []content.Card, width int, compact bool) string {
	s := theme.Current().S()

	cols := 2
	if compact || width < 60 {
		cols = 1
	}
	// border and padding take 4 columns per card
	cardWidth := max(width/cols-4, 10)

	rendered := make([]string, len(cards))
	for i, card := range cards {
		body := s.CardTitle.Render(c.R(card.Title)) + "\n" + s.CardBody.Render(wrap(c.R(card.Body), cardWidth))
		rendered[i] = s.Card.Width(cardWidth + 4).Render(body)
	}

	rows := make([]string, 0, (len(rendered)+cols-1)/cols)
	for i := 0; i < len(rendered); i += cols {
		end := min(i+cols, len(rendered))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
