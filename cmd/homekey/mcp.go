package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/homekey-labs/homekey/internal/mcpserver"
	"github.com/spf13/cobra"
)

var mcpFlags struct {
	http bool
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve address search and leads over MCP",
	Long: `Serve the search_address, list_leads and get_lead tools over the Model
Context Protocol. Uses stdio by default; --http serves streamable HTTP on a
random loopback port until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().BoolVar(&mcpFlags.http, "http", false, "Serve streamable HTTP instead of stdio")
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	searcher, err := newGeocoder(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := openLeads(ctx, cfg.DataDir)
	if err != nil {
		return err
	}
	defer backend.Close()

	srv := mcpserver.New(searcher, backend.Store, version)
	if !mcpFlags.http {
		return srv.ServeStdio()
	}

	if _, err := srv.Start(ctx); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening at %s\n", srv.URL())
	<-ctx.Done()
	return srv.Stop()
}
