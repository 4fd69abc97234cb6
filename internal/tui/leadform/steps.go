package leadform

import (
	"errors"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/homekey-labs/homekey/internal/lead"
	"github.com/homekey-labs/homekey/internal/tui/theme"
)

// Option lists offered by the details and timeline steps.
var (
	BedroomOptions   = []string{"1", "2", "3", "4", "5+"}
	BathroomOptions  = []string{"1", "1.5", "2", "2.5", "3+"}
	ConditionOptions = []string{"Move-in ready", "Needs minor repairs", "Needs major repairs", "Teardown"}
	TimelineOptions  = []string{"ASAP", "Within 30 days", "Within 90 days", "Just exploring"}
)

func newInput(placeholder string, width int) textinput.Model {
	t := theme.Current()
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = "› "
	in.SetStyles(textinput.Styles{
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
	in.SetWidth(width)
	return in
}

// detailsStep collects bedrooms, bathrooms and condition.
type detailsStep struct {
	groups []*choiceGroup
	row    int
}

func newDetailsStep() *detailsStep {
	return &detailsStep{groups: []*choiceGroup{
		newChoiceGroup("Bedrooms", BedroomOptions...),
		newChoiceGroup("Bathrooms", BathroomOptions...),
		newChoiceGroup("Condition", ConditionOptions...),
	}}
}

func (d *detailsStep) Valid() bool {
	for _, g := range d.groups {
		if !g.Chosen() {
			return false
		}
	}
	return true
}

func (d *detailsStep) Property() lead.Property {
	return lead.Property{
		Bedrooms:  d.groups[0].Value(),
		Bathrooms: d.groups[1].Value(),
		Condition: d.groups[2].Value(),
	}
}

func (d *detailsStep) reset() {
	for _, g := range d.groups {
		g.reset()
	}
	d.row = 0
}

func (d *detailsStep) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}
	d.row = handleChoiceKeys(key.String(), d.groups, d.row)
	return nil
}

func (d *detailsStep) View() string {
	views := make([]string, len(d.groups))
	for i, g := range d.groups {
		views[i] = g.view(i == d.row)
	}
	return strings.Join(views, "\n\n") + "\n\n" +
		theme.Current().S().HintBar("↑↓", "row", "←→", "choose", "1-5", "pick")
}

// handleChoiceKeys applies a navigation key to a stack of groups and returns
// the new active row. Picking an option on a row moves to the next row.
func handleChoiceKeys(key string, groups []*choiceGroup, row int) int {
	switch key {
	case "up", "k":
		return max(row-1, 0)
	case "down", "j":
		return min(row+1, len(groups)-1)
	case "left", "h":
		groups[row].move(-1)
	case "right", "l":
		groups[row].move(1)
	default:
		if groups[row].pick(key) && row < len(groups)-1 {
			return row + 1
		}
	}
	return row
}

// timelineStep asks how soon the seller wants to close and why.
type timelineStep struct {
	timeline *choiceGroup
	reason   textinput.Model
	row      int // 0 timeline, 1 reason
	focused  bool
}

func newTimelineStep() *timelineStep {
	return &timelineStep{
		timeline: newChoiceGroup("How soon do you want to sell?", TimelineOptions...),
		reason:   newInput("Relocating, inherited, downsizing... (optional)", 56),
	}
}

func (t *timelineStep) Valid() bool {
	return t.timeline.Chosen()
}

func (t *timelineStep) Focus() tea.Cmd {
	t.focused = true
	if t.row == 1 {
		return t.reason.Focus()
	}
	return nil
}

func (t *timelineStep) Blur() {
	t.focused = false
	t.reason.Blur()
}

func (t *timelineStep) SetSize(width, _ int) {
	t.reason.SetWidth(max(width-6, 10))
}

func (t *timelineStep) reset() {
	t.timeline.reset()
	t.reason.SetValue("")
	t.reason.Blur()
	t.row = 0
}

func (t *timelineStep) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		if t.row == 1 {
			var cmd tea.Cmd
			t.reason, cmd = t.reason.Update(msg)
			return cmd
		}
		return nil
	}

	switch key.String() {
	case "up":
		if t.row == 1 {
			t.row = 0
			t.reason.Blur()
		}
		return nil
	case "down":
		if t.row == 0 {
			t.row = 1
			return t.reason.Focus()
		}
		return nil
	}

	if t.row == 0 {
		switch key.String() {
		case "left", "h":
			t.timeline.move(-1)
		case "right", "l":
			t.timeline.move(1)
		default:
			if t.timeline.pick(key.String()) {
				t.row = 1
				return t.reason.Focus()
			}
		}
		return nil
	}

	var cmd tea.Cmd
	t.reason, cmd = t.reason.Update(msg)
	return cmd
}

func (t *timelineStep) View() string {
	s := theme.Current().S()

	var b strings.Builder
	b.WriteString(t.timeline.view(t.row == 0))
	b.WriteString("\n\n")
	label := s.Description.Render("  What's prompting the sale?")
	if t.row == 1 {
		label = s.Label.Render("▸ What's prompting the sale?")
	}
	b.WriteString(label)
	b.WriteString("\n   ")
	b.WriteString(t.reason.View())
	b.WriteString("\n\n")
	b.WriteString(s.HintBar("↑↓", "row", "←→", "choose", "1-4", "pick"))
	return b.String()
}

// Contact field indexes.
const (
	fieldFirst = iota
	fieldLast
	fieldPhone
	fieldEmail
	fieldCount
)

// contactStep collects the seller's name, phone and email.
type contactStep struct {
	inputs  [fieldCount]textinput.Model
	touched [fieldCount]bool
	active  int
}

func newContactStep() *contactStep {
	c := &contactStep{}
	c.inputs[fieldFirst] = newInput("First name", 40)
	c.inputs[fieldLast] = newInput("Last name (optional)", 40)
	c.inputs[fieldPhone] = newInput("(555) 555-5555", 40)
	c.inputs[fieldEmail] = newInput("you@example.com", 40)
	c.inputs[fieldPhone].CharLimit = 20
	return c
}

var contactLabels = [fieldCount]string{"First name", "Last name", "Phone", "Email"}

// fieldError returns the message for field i, or "".
func (c *contactStep) fieldError(i int) string {
	value := strings.TrimSpace(c.inputs[i].Value())
	switch i {
	case fieldFirst:
		if value == "" {
			return "First name is required"
		}
	case fieldPhone:
		if err := lead.ValidatePhone(value); err != nil {
			return "Enter a 10-digit US phone number"
		}
	case fieldEmail:
		if err := lead.ValidateEmail(value); errors.Is(err, lead.ErrInvalid) {
			return "Enter an email like name@example.com"
		}
	}
	return ""
}

func (c *contactStep) Valid() bool {
	for i := range c.inputs {
		if c.fieldError(i) != "" {
			return false
		}
	}
	return true
}

func (c *contactStep) Contact() lead.Contact {
	return lead.Contact{
		FirstName: strings.TrimSpace(c.inputs[fieldFirst].Value()),
		LastName:  strings.TrimSpace(c.inputs[fieldLast].Value()),
		Phone:     strings.TrimSpace(c.inputs[fieldPhone].Value()),
		Email:     strings.TrimSpace(c.inputs[fieldEmail].Value()),
	}
}

func (c *contactStep) Focus() tea.Cmd {
	return c.inputs[c.active].Focus()
}

func (c *contactStep) Blur() {
	for i := range c.inputs {
		c.inputs[i].Blur()
	}
}

func (c *contactStep) SetSize(width, _ int) {
	for i := range c.inputs {
		c.inputs[i].SetWidth(min(max(width-16, 10), 48))
	}
}

// CapturesKey claims enter on every field but the last, so enter moves down
// the form before it submits. On the last field an invalid form keeps enter
// to reveal every error.
func (c *contactStep) CapturesKey(msg tea.KeyPressMsg) bool {
	if msg.String() != "enter" {
		return false
	}
	return c.active < fieldCount-1 || !c.Valid()
}

func (c *contactStep) reset() {
	for i := range c.inputs {
		c.inputs[i].SetValue("")
		c.inputs[i].Blur()
		c.touched[i] = false
	}
	c.active = fieldFirst
}

func (c *contactStep) touchAll() {
	for i := range c.touched {
		c.touched[i] = true
	}
}

func (c *contactStep) moveTo(i int) tea.Cmd {
	if i < 0 || i >= fieldCount || i == c.active {
		return nil
	}
	c.touched[c.active] = true
	c.inputs[c.active].Blur()
	c.active = i
	return c.inputs[i].Focus()
}

func (c *contactStep) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "up":
			return c.moveTo(c.active - 1)
		case "down":
			return c.moveTo(c.active + 1)
		case "enter":
			if c.active == fieldCount-1 {
				c.touchAll()
				return nil
			}
			return c.moveTo(c.active + 1)
		}
	}

	var cmd tea.Cmd
	c.inputs[c.active], cmd = c.inputs[c.active].Update(msg)
	return cmd
}

func (c *contactStep) View() string {
	s := theme.Current().S()

	var b strings.Builder
	for i := range c.inputs {
		if i > 0 {
			b.WriteString("\n")
		}
		label := s.Description.Render(padRight("  "+contactLabels[i], 13))
		if i == c.active {
			label = s.Label.Render(padRight("▸ "+contactLabels[i], 13))
		}
		b.WriteString(label)
		b.WriteString(c.inputs[i].View())

		// Errors wait until the user has left the field once.
		if c.touched[i] {
			if msg := c.fieldError(i); msg != "" {
				b.WriteString("\n")
				b.WriteString(s.FieldError.Render(strings.Repeat(" ", 13) + msg))
			}
		}
	}
	b.WriteString("\n\n")
	b.WriteString(s.HintBar("↑↓", "field", "enter", "next field"))
	return b.String()
}

func padRight(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
