// Package leadform hosts the "Get My Offer" wizard: it owns the step bodies,
// the submitting and submitted flags, and the call into the lead store.
package leadform

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/homekey-labs/homekey/internal/content"
	"github.com/homekey-labs/homekey/internal/geocode"
	"github.com/homekey-labs/homekey/internal/lead"
	"github.com/homekey-labs/homekey/internal/logger"
	"github.com/homekey-labs/homekey/internal/tui/address"
	"github.com/homekey-labs/homekey/internal/tui/wizard"
)

// Step IDs.
const (
	StepProperty = "property"
	StepDetails  = "details"
	StepTimeline = "timeline"
	StepContact  = "contact"
)

// DefaultSubmitTimeout bounds one call to the store.
const DefaultSubmitTimeout = 15 * time.Second

// minManualAddress is the shortest typed address accepted without picking a
// suggestion.
const minManualAddress = 6

// Submitter stores a finished lead.
type Submitter interface {
	Submit(ctx context.Context, l lead.Lead) (*lead.Lead, error)
}

// Options configures a Form.
type Options struct {
	Submitter Submitter
	Searcher  geocode.Searcher
	Lookup    address.Options
	Content   *content.Content
	Timeout   time.Duration
}

// SubmittedMsg is emitted once a lead has been stored.
type SubmittedMsg struct {
	Lead *lead.Lead
}

// SubmitFailedMsg is emitted when the store rejects or fails a lead.
type SubmitFailedMsg struct {
	Err error
}

// Form is the lead capture page.
type Form struct {
	wizard   *wizard.Model
	address  *address.Field
	details  *detailsStep
	timeline *timelineStep
	contact  *contactStep

	submitter Submitter
	content   *content.Content
	timeout   time.Duration
	last      *lead.Lead
}

// New builds the four-step form.
func New(opts Options) *Form {
	if opts.Content == nil {
		opts.Content = content.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultSubmitTimeout
	}

	f := &Form{
		address:   address.NewField(address.New(opts.Searcher, opts.Lookup)),
		details:   newDetailsStep(),
		timeline:  newTimelineStep(),
		contact:   newContactStep(),
		submitter: opts.Submitter,
		content:   opts.Content,
		timeout:   opts.Timeout,
	}

	f.wizard = wizard.New(wizard.Options{
		Steps: []wizard.Step{
			{
				ID:          StepProperty,
				Title:       "Where is the property?",
				Description: "Start typing and pick your address from the list.",
				Body:        f.address,
				Valid:       f.addressValid,
			},
			{
				ID:          StepDetails,
				Title:       "Tell us about the house",
				Description: "Rough answers are fine.",
				Body:        f.details,
				Valid:       f.details.Valid,
			},
			{
				ID:          StepTimeline,
				Title:       "What's your timeline?",
				Description: "We can close in days or wait until you're ready.",
				Body:        f.timeline,
				Valid:       f.timeline.Valid,
			},
			{
				ID:          StepContact,
				Title:       "Where should we send your offer?",
				Description: "We never share your information.",
				Body:        f.contact,
				Valid:       f.contact.Valid,
			},
		},
		OnComplete:    f.submit,
		OnReset:       f.reset,
		CompleteLabel: wizard.DefaultCompleteLabel,
	})
	return f
}

// Init focuses the first step.
func (f *Form) Init() tea.Cmd {
	return f.wizard.Init()
}

// Wizard exposes the step cursor and status.
func (f *Form) Wizard() *wizard.Model {
	return f.wizard
}

// LastLead returns the most recently stored lead, if any.
func (f *Form) LastLead() *lead.Lead {
	return f.last
}

// SetContent swaps the copy used for the success view.
func (f *Form) SetContent(c *content.Content) {
	f.content = c
	if f.last != nil {
		f.applySuccess(f.last)
	}
}

func (f *Form) SetSize(width, height int) {
	f.wizard.SetSize(width, height)
}

// SetCompact is a no-op; the wizard already flows to the width it gets.
func (f *Form) SetCompact(bool) {}

// Editing reports whether keystrokes are text entry, so the app shell must
// leave plain keys alone.
func (f *Form) Editing() bool {
	if f.wizard.Status() != wizard.StatusViewing {
		return false
	}
	switch f.wizard.Current().ID {
	case StepProperty, StepContact:
		return true
	case StepTimeline:
		return f.timeline.row == 1
	}
	return false
}

// Lead assembles the lead from the current answers.
func (f *Form) Lead() lead.Lead {
	l := lead.Lead{
		Property: f.details.Property(),
		Timeline: f.timeline.timeline.Value(),
		Reason:   strings.TrimSpace(f.timeline.reason.Value()),
		Contact:  f.contact.Contact(),
	}

	if c, ok := f.address.Selected(); ok {
		lat, lon, _ := c.Coordinates()
		l.Address = lead.Address{
			Line:     c.Street(),
			City:     c.City(),
			State:    c.State(),
			Postcode: c.Postcode(),
			Lat:      lat,
			Lon:      lon,
			PlaceID:  c.PlaceID,
		}
	} else {
		l.Address = lead.Address{Line: strings.TrimSpace(f.address.Value())}
	}
	return l
}

func (f *Form) addressValid() bool {
	if _, ok := f.address.Selected(); ok {
		return true
	}
	return len([]rune(strings.TrimSpace(f.address.Value()))) >= minManualAddress
}

// Update routes submission results to the wizard flags and everything else
// to the wizard.
func (f *Form) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case SubmittedMsg:
		f.last = msg.Lead
		f.applySuccess(msg.Lead)
		return f.wizard.SetStatus(false, true)

	case SubmitFailedMsg:
		return f.wizard.SetStatus(false, false)
	}
	return f.wizard.Update(msg)
}

func (f *Form) View() string {
	return f.wizard.View()
}

func (f *Form) applySuccess(l *lead.Lead) {
	vars := f.content.Vars(l.Contact.FirstName)
	f.wizard.SetSuccess(
		content.Render(f.content.Success.Title, vars),
		content.Render(f.content.Success.Message, vars),
	)
}

// submit starts the store call. The wizard only calls it from a valid last
// step while idle, so one press gives one submission.
func (f *Form) submit() tea.Cmd {
	if f.submitter == nil {
		logger.Warn("Lead form has no store; dropping submission")
		return nil
	}

	l := f.Lead()
	submitter := f.submitter
	timeout := f.timeout

	spin := f.wizard.SetStatus(true, false)
	return tea.Batch(spin, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		stored, err := submitter.Submit(ctx, l)
		if err != nil {
			logger.Error("Lead submission failed: %v", err)
			return SubmitFailedMsg{Err: err}
		}
		return SubmittedMsg{Lead: stored}
	})
}

// reset clears every answer for the next seller.
func (f *Form) reset() tea.Cmd {
	f.address.Reset()
	f.details.reset()
	f.timeline.reset()
	f.contact.reset()
	f.last = nil
	return f.wizard.SetStatus(false, false)
}
