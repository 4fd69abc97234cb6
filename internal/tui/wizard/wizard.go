// Package wizard implements a linear multi-step form. The wizard owns the
// step cursor; the hosting page owns the steps, the completion work and the
// submitting/submitted flags.
package wizard

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/homekey-labs/homekey/internal/tui/theme"
)

// DefaultCompleteLabel is the forward label on the last step.
const DefaultCompleteLabel = "Get My Offer"

const (
	nextLabel  = "Next →"
	backLabel  = "← Back"
	resetLabel = "Start Over"
)

// Body is the renderable content of a step.
type Body interface {
	Update(msg tea.Msg) tea.Cmd
	View() string
}

// Focusable bodies are focused when their step becomes active.
type Focusable interface {
	Focus() tea.Cmd
	Blur()
}

// Sizable bodies receive the space left after the wizard chrome.
type Sizable interface {
	SetSize(width, height int)
}

// KeyCapturer bodies can claim enter and esc for themselves, for example
// while a suggestion list is open.
type KeyCapturer interface {
	CapturesKey(msg tea.KeyPressMsg) bool
}

// Step is one page of the wizard. A nil Valid means the step is always valid.
type Step struct {
	ID          string
	Title       string
	Description string
	Body        Body
	Valid       func() bool
}

// Status is the wizard's position in its state machine.
type Status int

const (
	StatusViewing Status = iota
	StatusSubmitting
	StatusSubmitted
)

func (s Status) String() string {
	switch s {
	case StatusSubmitting:
		return "submitting"
	case StatusSubmitted:
		return "submitted"
	default:
		return "viewing"
	}
}

// Options configures a wizard.
type Options struct {
	Steps []Step

	// OnComplete runs every time the user advances past the last step.
	OnComplete func() tea.Cmd
	// OnReset runs when the user starts over from the success view. When nil
	// the success view has no reset button.
	OnReset func() tea.Cmd

	CompleteLabel  string
	SuccessTitle   string
	SuccessMessage string
}

// StepChangedMsg is emitted after the cursor moves.
type StepChangedMsg struct {
	Index int
	ID    string
}

// CancelledMsg is emitted when the user backs out of the first step.
type CancelledMsg struct{}

type focusArea int

const (
	focusBody focusArea = iota
	focusButtons
)

// Model is the Bubble Tea model for a step wizard.
type Model struct {
	steps      []Step
	index      int
	submitting bool
	submitted  bool

	onComplete     func() tea.Cmd
	onReset        func() tea.Cmd
	completeLabel  string
	successTitle   string
	successMessage string

	focus       focusArea
	buttonFocus int
	spinner     spinner.Model
	width       int
	height      int
}

// New creates a wizard positioned on the first step. It panics when given no
// steps, since there is nothing to show.
func New(opts Options) *Model {
	if len(opts.Steps) == 0 {
		panic("wizard: at least one step is required")
	}
	if opts.CompleteLabel == "" {
		opts.CompleteLabel = DefaultCompleteLabel
	}
	if opts.SuccessTitle == "" {
		opts.SuccessTitle = "Thank you!"
	}

	t := theme.Current()
	return &Model{
		steps:          opts.Steps,
		onComplete:     opts.OnComplete,
		onReset:        opts.OnReset,
		completeLabel:  opts.CompleteLabel,
		successTitle:   opts.SuccessTitle,
		successMessage: opts.SuccessMessage,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(t.BgBase))),
		),
		width:  80,
		height: 24,
	}
}

// Init focuses the first step.
func (m *Model) Init() tea.Cmd {
	return m.focusBody()
}

// Index returns the cursor position.
func (m *Model) Index() int { return m.index }

// StepCount returns the number of steps.
func (m *Model) StepCount() int { return len(m.steps) }

// Current returns the active step.
func (m *Model) Current() Step { return m.steps[m.index] }

// Status reports where the wizard is in its state machine.
func (m *Model) Status() Status {
	switch {
	case m.submitted:
		return StatusSubmitted
	case m.submitting:
		return StatusSubmitting
	default:
		return StatusViewing
	}
}

// IsLast reports whether the cursor is on the final step.
func (m *Model) IsLast() bool { return m.index == len(m.steps)-1 }

// CanAdvance reports whether the forward control is enabled.
func (m *Model) CanAdvance() bool {
	if m.submitting || m.submitted {
		return false
	}
	valid := m.steps[m.index].Valid
	return valid == nil || valid()
}

// ForwardLabel is the text of the forward control.
func (m *Model) ForwardLabel() string {
	if m.IsLast() {
		return m.completeLabel
	}
	return nextLabel
}

// SetSuccess replaces the copy shown after submission.
func (m *Model) SetSuccess(title, message string) {
	if title != "" {
		m.successTitle = title
	}
	m.successMessage = message
}

// SetSize sets the space available to the wizard.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.sizeBody()
}

// Advance moves to the next step, or invokes the completion callback on the
// last step. It does nothing while the current step is invalid or a
// submission is in progress or finished.
func (m *Model) Advance() tea.Cmd {
	if !m.CanAdvance() {
		return nil
	}
	if m.IsLast() {
		if m.onComplete == nil {
			return nil
		}
		return m.onComplete()
	}
	return m.moveTo(m.index + 1)
}

// Retreat moves to the previous step. It does nothing on the first step or
// once a submission has started.
func (m *Model) Retreat() tea.Cmd {
	if m.submitting || m.submitted || m.index == 0 {
		return nil
	}
	return m.moveTo(m.index - 1)
}

// Reset returns to the first step after a submission. The caller clears the
// submitted flag through SetStatus, usually from the reset callback.
func (m *Model) Reset() tea.Cmd {
	if !m.submitted {
		return nil
	}
	var cmds []tea.Cmd
	if m.onReset != nil {
		cmds = append(cmds, m.onReset())
	}
	cmds = append(cmds, m.moveTo(0))
	return tea.Batch(cmds...)
}

// SetStatus applies the caller-owned submission flags. Starting a submission
// starts the spinner.
func (m *Model) SetStatus(submitting, submitted bool) tea.Cmd {
	wasSubmitting := m.submitting
	m.submitting = submitting
	m.submitted = submitted
	m.buttonFocus = 0

	if submitting && !wasSubmitting {
		return m.spinner.Tick
	}
	if !submitted && !submitting && m.focus == focusBody {
		return m.focusBody()
	}
	return nil
}

func (m *Model) moveTo(index int) tea.Cmd {
	if body, ok := m.steps[m.index].Body.(Focusable); ok {
		body.Blur()
	}
	m.index = index
	m.focus = focusBody
	m.buttonFocus = 0
	m.sizeBody()

	id := m.steps[index].ID
	return tea.Batch(
		m.focusBody(),
		func() tea.Msg { return StepChangedMsg{Index: index, ID: id} },
	)
}

func (m *Model) focusBody() tea.Cmd {
	if body, ok := m.steps[m.index].Body.(Focusable); ok {
		return body.Focus()
	}
	return nil
}

func (m *Model) blurBody() {
	if body, ok := m.steps[m.index].Body.(Focusable); ok {
		body.Blur()
	}
}

// chromeHeight is the number of rows the wizard draws around the body.
const chromeHeight = 9

func (m *Model) sizeBody() {
	if body, ok := m.steps[m.index].Body.(Sizable); ok {
		body.SetSize(max(m.width, 20), max(m.height-chromeHeight, 3))
	}
}

// Update handles messages for the wizard and its active step.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.submitting {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	if m.submitted {
		return nil
	}
	if body := m.steps[m.index].Body; body != nil {
		return body.Update(msg)
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if m.submitted {
		switch msg.String() {
		case "r", "enter":
			if m.onReset != nil {
				return m.Reset()
			}
		}
		return nil
	}

	switch msg.String() {
	case "ctrl+n":
		return m.Advance()
	case "ctrl+p":
		return m.Retreat()
	case "tab", "shift+tab":
		return m.toggleFocus()
	}
	if m.submitting {
		return nil
	}

	if m.focus == focusButtons {
		return m.handleButtonKey(msg)
	}

	body := m.steps[m.index].Body
	if capturer, ok := body.(KeyCapturer); ok && capturer.CapturesKey(msg) {
		return body.Update(msg)
	}

	switch msg.String() {
	case "enter":
		return m.Advance()
	case "esc":
		if m.index == 0 {
			return func() tea.Msg { return CancelledMsg{} }
		}
		return m.Retreat()
	}

	if body != nil {
		return body.Update(msg)
	}
	return nil
}

func (m *Model) toggleFocus() tea.Cmd {
	if m.focus == focusBody {
		m.focus = focusButtons
		m.blurBody()
		// Land on the forward control.
		m.buttonFocus = len(m.navButtons()) - 1
		return nil
	}
	m.focus = focusBody
	return m.focusBody()
}

func (m *Model) handleButtonKey(msg tea.KeyPressMsg) tea.Cmd {
	buttons := m.navButtons()
	switch msg.String() {
	case "left", "h":
		if m.buttonFocus > 0 {
			m.buttonFocus--
		}
	case "right", "l":
		if m.buttonFocus < len(buttons)-1 {
			m.buttonFocus++
		}
	case "enter", "space":
		if m.buttonFocus == len(buttons)-1 {
			return m.Advance()
		}
		return m.Retreat()
	case "esc":
		m.focus = focusBody
		return m.focusBody()
	}
	return nil
}

// navButtons lists the visible controls. Back is hidden on the first step.
func (m *Model) navButtons() []Button {
	var buttons []Button
	if m.index > 0 {
		state := ButtonNormal
		if m.submitting {
			state = ButtonDisabled
		}
		buttons = append(buttons, Button{Label: backLabel, State: state})
	}

	label := m.ForwardLabel()
	state := ButtonNormal
	switch {
	case m.submitting:
		label = m.spinner.View() + " Submitting..."
		state = ButtonDisabled
	case !m.CanAdvance():
		state = ButtonDisabled
	}
	buttons = append(buttons, Button{Label: label, State: state})

	if m.focus == focusButtons && m.buttonFocus < len(buttons) && buttons[m.buttonFocus].State != ButtonDisabled {
		buttons[m.buttonFocus].State = ButtonFocused
	}
	return buttons
}

func stepLabel(index, count int) string {
	return fmt.Sprintf("Step %d of %d", index+1, count)
}

// View renders the active step, or the success view after submission.
func (m *Model) View() string {
	if m.submitted {
		return m.viewSuccess()
	}

	s := theme.Current().S()
	step := m.steps[m.index]

	var b strings.Builder
	b.WriteString(renderProgress(m.index, len(m.steps), m.width))
	b.WriteString("\n\n")
	b.WriteString(s.SectionTitle.Render(step.Title))
	if step.Description != "" {
		b.WriteString("\n")
		b.WriteString(s.Description.Render(step.Description))
	}
	b.WriteString("\n\n")
	if step.Body != nil {
		b.WriteString(step.Body.View())
	}
	b.WriteString("\n\n")

	bar := NewButtonBar(m.navButtons())
	bar.SetWidth(m.width)
	b.WriteString(bar.Render())
	b.WriteString("\n")
	b.WriteString(m.hints())
	return b.String()
}

func (m *Model) hints() string {
	if m.submitting {
		return renderHintBar("ctrl+c", "quit")
	}
	pairs := []string{"enter", strings.ToLower(strings.TrimSuffix(m.ForwardLabel(), " →")), "tab", "buttons"}
	if m.index > 0 {
		pairs = append(pairs, "esc", "back")
	}
	return renderHintBar(pairs...)
}

func (m *Model) viewSuccess() string {
	s := theme.Current().S()

	var b strings.Builder
	b.WriteString(s.Success.Render("✓ " + m.successTitle))
	if m.successMessage != "" {
		b.WriteString("\n\n")
		b.WriteString(s.CardBody.Width(max(m.width-4, 20)).Render(m.successMessage))
	}
	if m.onReset != nil {
		bar := NewButtonBar([]Button{{Label: resetLabel, State: ButtonFocused}})
		bar.SetWidth(m.width)
		b.WriteString("\n\n")
		b.WriteString(bar.Render())
		b.WriteString("\n")
		b.WriteString(renderHintBar("r", "start over"))
	}
	return b.String()
}
