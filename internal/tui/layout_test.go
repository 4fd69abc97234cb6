package tui

import (
	"testing"
)

// TestCalculateLayout_Desktop tests layout at 120x40 (standard terminal size)
func TestCalculateLayout_Desktop(t *testing.T) {
	layout := CalculateLayout(120, 40, 5)

	if layout.Mode != LayoutDesktop {
		t.Fatalf("Expected LayoutDesktop at 120x40, got %v", layout.Mode)
	}
	if layout.Header.Min.Y != 0 || layout.Header.Dy() != HeaderHeight {
		t.Errorf("Header mismatch: %v", layout.Header)
	}
	if layout.Tabs.Min.Y != 1 || layout.Tabs.Dy() != 1 {
		t.Errorf("Desktop tabs should be a single row at y=1, got %v", layout.Tabs)
	}
	if layout.Body.Min.Y != 3 || layout.Body.Max.Y != 39 {
		t.Errorf("Body should span rows 3-38 after the tab gap, got %v", layout.Body)
	}
	if layout.Footer.Min.Y != 39 || layout.Footer.Dy() != FooterHeight {
		t.Errorf("Footer should be the last row, got %v", layout.Footer)
	}
	if layout.Body.Dx() != 120 {
		t.Errorf("Body width mismatch: got %d, want 120", layout.Body.Dx())
	}
}

// TestCalculateLayout_CompactStacksTabs tests that narrow terminals stack the tabs
func TestCalculateLayout_CompactStacksTabs(t *testing.T) {
	layout := CalculateLayout(80, 24, 5)

	if !layout.IsCompact() {
		t.Fatalf("Expected compact layout at 80 columns")
	}
	if layout.Tabs.Dy() != 5 {
		t.Errorf("Compact tabs should take one row each: got %d rows", layout.Tabs.Dy())
	}
	if layout.Body.Min.Y != 7 {
		t.Errorf("Body should start below the stacked tabs and gap, got y=%d", layout.Body.Min.Y)
	}
	if layout.Footer.Max.Y != 24 {
		t.Errorf("Footer should end at the last row, got %v", layout.Footer)
	}
}

// TestCalculateLayout_Breakpoint checks the exact compact threshold
func TestCalculateLayout_Breakpoint(t *testing.T) {
	if CalculateLayout(CompactWidthBreakpoint-1, 40, 5).Mode != LayoutCompact {
		t.Errorf("width %d should be compact", CompactWidthBreakpoint-1)
	}
	if CalculateLayout(CompactWidthBreakpoint, 40, 5).Mode != LayoutDesktop {
		t.Errorf("width %d should be desktop", CompactWidthBreakpoint)
	}
}

// TestCalculateLayout_Tiny ensures no rectangle goes negative
func TestCalculateLayout_Tiny(t *testing.T) {
	for _, size := range [][2]int{{0, 0}, {10, 2}, {40, 5}} {
		layout := CalculateLayout(size[0], size[1], 5)
		for name, r := range map[string]struct{ dx, dy int }{
			"header": {layout.Header.Dx(), layout.Header.Dy()},
			"tabs":   {layout.Tabs.Dx(), layout.Tabs.Dy()},
			"body":   {layout.Body.Dx(), layout.Body.Dy()},
			"footer": {layout.Footer.Dx(), layout.Footer.Dy()},
		} {
			if r.dx < 0 || r.dy < 0 {
				t.Errorf("%dx%d: %s has negative size %dx%d", size[0], size[1], name, r.dx, r.dy)
			}
		}
	}
}
