package sections

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/homekey-labs/homekey/internal/content"
	"github.com/homekey-labs/homekey/internal/tui/theme"
)

// FAQ is an accordion: one question is highlighted, at most one is open.
type FAQ struct {
	content  *content.Content
	selected int
	open     int // -1 when every item is closed
	offset   int // first visible line
	width    int
	height   int
	compact  bool
	answers  map[int]string
}

// NewFAQ creates the accordion with every item closed.
func NewFAQ(c *content.Content) *FAQ {
	return &FAQ{
		content: c,
		open:    -1,
		width:   80,
		height:  20,
		answers: make(map[int]string),
	}
}

// SetContent swaps the copy. Selection is kept when still in range.
func (f *FAQ) SetContent(c *content.Content) {
	f.content = c
	f.answers = make(map[int]string)
	if f.selected >= len(c.FAQ) {
		f.selected = max(len(c.FAQ)-1, 0)
	}
	if f.open >= len(c.FAQ) {
		f.open = -1
	}
}

func (f *FAQ) SetSize(width, height int) {
	if width != f.width {
		f.answers = make(map[int]string)
	}
	f.width = max(width, 1)
	f.height = max(height, 1)
}

func (f *FAQ) SetCompact(compact bool) {
	f.compact = compact
}

// Selected returns the highlighted item index.
func (f *FAQ) Selected() int {
	return f.selected
}

// Open returns the expanded item index, or -1.
func (f *FAQ) Open() int {
	return f.open
}

// Update handles navigation and toggling.
func (f *FAQ) Update(msg tea.Msg) tea.Cmd {
	n := len(f.content.FAQ)
	if n == 0 {
		return nil
	}

	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "up", "k":
		if f.selected > 0 {
			f.selected--
		}
	case "down", "j":
		if f.selected < n-1 {
			f.selected++
		}
	case "home":
		f.selected = 0
	case "end":
		f.selected = n - 1
	case "enter", "space":
		if f.open == f.selected {
			f.open = -1
		} else {
			f.open = f.selected
		}
	}
	return nil
}

// View renders the accordion, scrolled so the selection stays visible.
func (f *FAQ) View() string {
	s := theme.Current().S()
	c := f.content

	lines := []string{
		s.SectionTitle.Render("Frequently Asked Questions"),
		"",
	}
	if len(c.FAQ) == 0 {
		lines = append(lines, s.Muted.Render(c.R("No questions yet. Call {{phone}}.")))
		return strings.Join(lines, "\n")
	}

	selectedLine := 0
	for i, item := range c.FAQ {
		marker := "▸ "
		if i == f.open {
			marker = "▾ "
		}
		style := s.FAQQuestion
		if i == f.selected {
			style = s.FAQSelected
			selectedLine = len(lines)
		}
		lines = append(lines, style.Render(marker+c.R(item.Question)))

		if i == f.open {
			lines = append(lines, strings.Split(f.answer(i), "\n")...)
			if !f.compact {
				lines = append(lines, "")
			}
		}
	}
	lines = append(lines, "", s.HintBar("↑↓", "select", "enter", "open/close"))

	// Keep the selected question and the start of its answer on screen.
	if selectedLine < f.offset {
		f.offset = selectedLine
	}
	if selectedLine >= f.offset+f.height {
		f.offset = selectedLine - f.height + 1
	}
	f.offset = max(0, min(f.offset, len(lines)-f.height))

	end := min(f.offset+f.height, len(lines))
	return strings.Join(lines[f.offset:end], "\n")
}

// answer renders and caches the markdown answer for item i.
func (f *FAQ) answer(i int) string {
	if a, ok := f.answers[i]; ok {
		return a
	}
	a := renderMarkdown(f.content.R(f.content.FAQ[i].Answer), f.width-2)
	f.answers[i] = a
	return a
}
