package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "charm.land/bubbletea/v2"
	"github.com/homekey-labs/homekey/internal/config"
	"github.com/homekey-labs/homekey/internal/content"
	"github.com/homekey-labs/homekey/internal/geocode"
	"github.com/homekey-labs/homekey/internal/hooks"
	"github.com/homekey-labs/homekey/internal/logger"
	"github.com/homekey-labs/homekey/internal/mcpserver"
	"github.com/homekey-labs/homekey/internal/tui"
	"github.com/spf13/cobra"
)

var runFlags struct {
	content      string
	alwaysSplash bool
	noWatch      bool
	mcp          bool
}

func init() {
	rootCmd.Flags().StringVarP(&runFlags.content, "content", "c", "", "YAML file with page copy overrides (default: from config)")
	rootCmd.Flags().BoolVar(&runFlags.alwaysSplash, "splash", false, "Show the splash screen even if it was seen before")
	rootCmd.Flags().BoolVar(&runFlags.noWatch, "no-watch", false, "Do not reload the content file when it changes")
	rootCmd.Flags().BoolVar(&runFlags.mcp, "mcp", false, "Also serve the MCP tools over HTTP while the kiosk runs")
}

// newGeocoder builds the geocoding client from config.
func newGeocoder(cfg *config.Config) (*geocode.Client, error) {
	client, err := geocode.NewClient(geocode.Options{
		BaseURL:       cfg.Geocoder.BaseURL,
		UserAgent:     cfg.Geocoder.UserAgent,
		CountryCodes:  cfg.Geocoder.CountryCodes,
		Limit:         cfg.Geocoder.Limit,
		Timeout:       cfg.Geocoder.Timeout,
		RatePerSecond: cfg.Geocoder.RatePerSecond,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create geocoder: %w", err)
	}
	return client, nil
}

func runKiosk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if runFlags.content != "" {
		cfg.ContentFile = runFlags.content
	}
	if runFlags.alwaysSplash {
		cfg.Splash.Always = true
	}

	searcher, err := newGeocoder(cfg)
	if err != nil {
		return err
	}

	c, err := content.Load(cfg.ContentFile)
	if err != nil {
		return err
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	hookCfg, err := hooks.LoadConfig(workDir)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := serveLeads(ctx, cfg.DataDir)
	if err != nil {
		return err
	}
	defer backend.Close()

	opts := tui.Options{
		Config:   cfg,
		Content:  c,
		Store:    backend.Store,
		Searcher: searcher,
		Hooks:    hookCfg,
		WorkDir:  workDir,
	}

	if cfg.ContentFile != "" && !runFlags.noWatch {
		watcher, err := content.NewWatcher(cfg.ContentFile)
		if err != nil {
			logger.Warn("Content hot reload disabled: %v", err)
		} else {
			defer func() { _ = watcher.Stop() }()
			opts.Updates = watcher
		}
	}

	if runFlags.mcp {
		srv := mcpserver.New(searcher, backend.Store, version)
		if _, err := srv.Start(ctx); err != nil {
			return err
		}
		defer func() { _ = srv.Stop() }()
		logger.Info("MCP server listening at %s", srv.URL())
	}

	logger.Info("Starting kiosk for %s (data dir %s)", cfg.CompanyName, cfg.DataDir)
	p := tea.NewProgram(tui.NewApp(opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("kiosk exited: %w", err)
	}
	return nil
}
