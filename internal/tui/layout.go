package tui

import uv "github.com/charmbracelet/ultraviolet"

// Layout breakpoints and dimensions
const (
	// CompactWidthBreakpoint is the minimum width for desktop mode
	CompactWidthBreakpoint = 100
	// HeaderHeight is the height of the header in rows
	HeaderHeight = 1
	// FooterHeight is the height of the footer in rows
	FooterHeight = 1
	// tabGap is the blank row between the tabs and the body
	tabGap = 1
)

// LayoutMode represents the layout mode based on terminal size
type LayoutMode int

const (
	// LayoutDesktop puts the tabs on one row
	LayoutDesktop LayoutMode = iota
	// LayoutCompact stacks the tabs vertically
	LayoutCompact
)

// Layout defines the rectangular regions for all UI components
type Layout struct {
	Mode   LayoutMode
	Area   uv.Rectangle
	Header uv.Rectangle
	Tabs   uv.Rectangle
	Body   uv.Rectangle
	Footer uv.Rectangle
}

// IsCompact returns true if the layout is in compact mode
func (l Layout) IsCompact() bool {
	return l.Mode == LayoutCompact
}

// CalculateLayout computes the layout rectangles for a terminal of the given
// size showing tabCount tabs.
func CalculateLayout(width, height, tabCount int) Layout {
	mode := LayoutDesktop
	if width < CompactWidthBreakpoint {
		mode = LayoutCompact
	}
	width = max(width, 0)
	height = max(height, 0)

	area := uv.Rectangle{
		Max: uv.Position{X: width, Y: height},
	}

	tabsHeight := 1
	if mode == LayoutCompact {
		tabsHeight = max(tabCount, 1)
	}
	tabsHeight += tabGap

	// header | tabs | body | footer, giving the body whatever is left
	header, rest := uv.SplitVertical(area, uv.Fixed(min(HeaderHeight, area.Dy())))
	tabs, rest := uv.SplitVertical(rest, uv.Fixed(min(tabsHeight, rest.Dy())))
	body, footer := uv.SplitVertical(rest, uv.Fixed(max(rest.Dy()-FooterHeight, 0)))
	tabs.Max.Y -= min(tabGap, tabs.Dy())

	return Layout{
		Mode:   mode,
		Area:   area,
		Header: header,
		Tabs:   tabs,
		Body:   body,
		Footer: footer,
	}
}
