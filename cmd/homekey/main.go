package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/homekey-labs/homekey/internal/logger"
	"github.com/homekey-labs/homekey/internal/tui/theme"
	"github.com/spf13/cobra"
)

const (
	logoText1 = "█ █ █▀█ █▀▄▀█ █▀▀ █▄▀ █▀▀ █▄█"
	logoText2 = "█▀█ █▄█ █ ▀ █ ██▄ █ █ ██▄  █ "
)

// Version set via ldflags during build
var version = "dev"

// rootFlags are shared by every command.
var rootFlags struct {
	dataDir string
}

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "homekey",
	Short: "Lead capture kiosk for home buyers",
	RunE:  runKiosk,
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.Current()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Accent)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Accent)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	rootCmd.Long = renderLogo() + `

homekey runs a full-screen "we buy houses" kiosk in the terminal. Visitors
read about the offer, look up their address and request a cash offer in a
four-step form. Leads are kept in an embedded NATS JetStream event log and
can be handed to shell hooks, listed from the CLI or served over MCP.`

	rootCmd.PersistentFlags().StringVar(&rootFlags.dataDir, "data-dir", "", "Data directory for leads and UI state (default: from config, .homekey)")

	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(leadsCmd)
	rootCmd.AddCommand(mcpCmd)
}
