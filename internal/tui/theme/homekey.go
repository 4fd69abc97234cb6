package theme

// NewHomekey creates the default palette: deep navy surfaces with a warm
// orange call-to-action color.
func NewHomekey() *Theme {
	return &Theme{
		Name:   "homekey",
		IsDark: true,

		Primary:   "#f97316", // Orange
		Secondary: "#38bdf8", // Sky
		Accent:    "#facc15", // Gold

		BgBase:     "#0f172a",
		BgMantle:   "#0b1222",
		BgSurface0: "#1e293b",
		BgSurface1: "#334155",
		BgOverlay:  "#475569",

		FgMuted:  "#94a3b8",
		FgSubtle: "#cbd5e1",
		FgBase:   "#e2e8f0",
		FgBright: "#f8fafc",

		Success: "#22c55e",
		Warning: "#eab308",
		Error:   "#ef4444",
		Info:    "#3b82f6",
	}
}
