package theme

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// Styles contains all pre-built lipgloss styles for the TUI.
type Styles struct {
	// Chrome
	HeaderTitle lipgloss.Style
	HeaderPhone lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	Footer      lipgloss.Style
	Hint        lipgloss.Style

	// Sections
	SectionTitle    lipgloss.Style
	SectionSubtitle lipgloss.Style
	Card            lipgloss.Style
	CardTitle       lipgloss.Style
	CardBody        lipgloss.Style
	StepNumber      lipgloss.Style
	Badge           lipgloss.Style
	FAQQuestion     lipgloss.Style
	FAQSelected     lipgloss.Style

	// Forms
	Label         lipgloss.Style
	Description   lipgloss.Style
	Progress      lipgloss.Style
	FieldError    lipgloss.Style
	Suggestion    lipgloss.Style
	SuggestionSel lipgloss.Style
	Choice        lipgloss.Style
	ChoiceSel     lipgloss.Style

	// Buttons
	Button         lipgloss.Style
	ButtonFocused  lipgloss.Style
	ButtonDisabled lipgloss.Style

	// Status
	Success lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
}

func (t *Theme) buildStyles() *Styles {
	fg := lipgloss.Color(t.FgBase)
	muted := lipgloss.Color(t.FgMuted)
	primary := lipgloss.Color(t.Primary)

	return &Styles{
		HeaderTitle: lipgloss.NewStyle().Foreground(primary).Bold(true),
		HeaderPhone: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)),
		TabActive: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.BgBase)).
			Background(primary).
			Bold(true).
			Padding(0, 1),
		TabInactive: lipgloss.NewStyle().Foreground(muted).Padding(0, 1),
		Footer:      lipgloss.NewStyle().Foreground(muted),
		Hint:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)),

		SectionTitle:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBright)).Bold(true),
		SectionSubtitle: lipgloss.NewStyle().Foreground(muted),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.BgSurface1)).
			Padding(0, 1),
		CardTitle:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Secondary)).Bold(true),
		CardBody:    lipgloss.NewStyle().Foreground(fg),
		StepNumber:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.BgBase)).Background(lipgloss.Color(t.Secondary)).Bold(true).Padding(0, 1),
		Badge:       lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)).Bold(true),
		FAQQuestion: lipgloss.NewStyle().Foreground(fg),
		FAQSelected: lipgloss.NewStyle().Foreground(primary).Bold(true),

		Label:         lipgloss.NewStyle().Foreground(fg).Bold(true),
		Description:   lipgloss.NewStyle().Foreground(muted),
		Progress:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.Secondary)),
		FieldError:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Error)),
		Suggestion:    lipgloss.NewStyle().Foreground(fg).PaddingLeft(2),
		SuggestionSel: lipgloss.NewStyle().Foreground(primary).Bold(true).PaddingLeft(2),
		Choice:        lipgloss.NewStyle().Foreground(fg),
		ChoiceSel:     lipgloss.NewStyle().Foreground(primary).Bold(true),

		Button: lipgloss.NewStyle().
			Foreground(fg).
			Background(lipgloss.Color(t.BgSurface1)).
			Padding(0, 2),
		ButtonFocused: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.BgBase)).
			Background(primary).
			Bold(true).
			Padding(0, 2),
		ButtonDisabled: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.BgOverlay)).
			Background(lipgloss.Color(t.BgSurface0)).
			Padding(0, 2),

		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Error)),
		Muted:   lipgloss.NewStyle().Foreground(muted),
	}
}

// HintBar renders key-description pairs as "enter next • esc back".
// An odd number of arguments renders nothing.
func (s *Styles) HintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		parts = append(parts, s.Label.Render(pairs[i])+" "+s.Hint.Render(pairs[i+1]))
	}
	return strings.Join(parts, " "+s.Muted.Render("•")+" ")
}
