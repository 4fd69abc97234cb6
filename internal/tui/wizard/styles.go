package wizard

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/homekey-labs/homekey/internal/tui/theme"
)

const (
	progressBarWidth = 24
	progressFilled   = "━"
	progressEmpty    = "─"
)

// renderProgress renders "Step i of n" followed by a segmented bar.
func renderProgress(index, count, width int) string {
	s := theme.Current().S()
	label := s.Progress.Render(stepLabel(index, count))

	barWidth := min(progressBarWidth, max(width-lipgloss.Width(label)-2, 0))
	if barWidth == 0 || count == 0 {
		return label
	}
	filled := barWidth * (index + 1) / count
	bar := s.Progress.Render(strings.Repeat(progressFilled, filled)) +
		s.Muted.Render(strings.Repeat(progressEmpty, barWidth-filled))
	return label + "  " + bar
}

// renderHintBar renders a hint bar with the given key-description pairs.
func renderHintBar(pairs ...string) string {
	return theme.Current().S().HintBar(pairs...)
}
