package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/homekey-labs/homekey/internal/geocode"
	"github.com/spf13/cobra"
)

var lookupFlags struct {
	json bool
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <address>",
	Short: "Search the geocoder for an address",
	Long: `Run one address search against the configured geocoder and print the
candidates in the order the service returned them. Useful for checking the
geocoder settings before opening the kiosk.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().BoolVar(&lookupFlags.json, "json", false, "Print the raw candidate records as JSON")
}

func runLookup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newGeocoder(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Geocoder.Timeout+cfg.Lookup.Debounce)
	defer cancel()

	query := strings.Join(args, " ")
	candidates, err := client.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	if lookupFlags.json {
		return printJSON(cmd.OutOrStdout(), candidates)
	}
	printCandidates(cmd.OutOrStdout(), query, candidates)
	return nil
}

func printCandidates(w io.Writer, query string, candidates []geocode.Candidate) {
	if len(candidates) == 0 {
		fmt.Fprintf(w, "No matches for %q\n", query)
		return
	}
	for i, c := range candidates {
		fmt.Fprintf(w, "%d. %s\n", i+1, c.Label())
		if lat, lon, ok := c.Coordinates(); ok {
			fmt.Fprintf(w, "   %.5f, %.5f\n", lat, lon)
		}
	}
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
