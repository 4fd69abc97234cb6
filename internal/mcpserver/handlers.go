package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/homekey-labs/homekey/internal/geocode"
	"github.com/homekey-labs/homekey/internal/lead"
	"github.com/mark3labs/mcp-go/mcp"
)

// addressResult is the search_address payload for one candidate.
type addressResult struct {
	Label    string  `json:"label"`
	Display  string  `json:"display_name"`
	Street   string  `json:"street,omitempty"`
	City     string  `json:"city,omitempty"`
	State    string  `json:"state,omitempty"`
	Postcode string  `json:"postcode,omitempty"`
	Lat      float64 `json:"lat,omitempty"`
	Lon      float64 `json:"lon,omitempty"`
	PlaceID  int64   `json:"place_id,omitempty"`
}

// handleSearchAddress runs a geocoder search.
func (s *Server) handleSearchAddress(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return mcp.NewToolResultError("no arguments provided"), nil
	}

	query, ok := args["query"].(string)
	if !ok || strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError("missing or empty 'query' parameter"), nil
	}

	candidates, err := s.searcher.Search(ctx, query)
	if err != nil {
		if errors.Is(err, geocode.ErrCircuitOpen) {
			return mcp.NewToolResultError("address search is temporarily unavailable, try again shortly"), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("address search failed: %v", err)), nil
	}

	results := make([]addressResult, 0, len(candidates))
	for _, c := range candidates {
		lat, lon, _ := c.Coordinates()
		results = append(results, addressResult{
			Label:    c.Label(),
			Display:  c.DisplayName,
			Street:   c.Street(),
			City:     c.City(),
			State:    c.State(),
			Postcode: c.Postcode(),
			Lat:      lat,
			Lon:      lon,
			PlaceID:  c.PlaceID,
		})
	}
	return jsonResult(results)
}

// handleListLeads lists leads, optionally filtered by status.
func (s *Server) handleListLeads(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	status := ""
	if v, ok := args["status"].(string); ok {
		status = v
	}
	if status != "" && !lead.ValidStatus(status) {
		return mcp.NewToolResultError(fmt.Sprintf("unknown status %q (want one of %s)", status, strings.Join(lead.Statuses, ", "))), nil
	}

	// JSON numbers come as float64
	var limit float64
	if v, ok := args["limit"]; ok {
		n, ok := v.(float64)
		if !ok || n < 0 || n != math.Trunc(n) {
			return mcp.NewToolResultError("'limit' must be a non-negative integer"), nil
		}
		limit = n
	}

	leads, err := s.leads.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list leads: %v", err)), nil
	}
	maxLeads := len(leads)
	if limit > 0 && limit < float64(len(leads)) {
		maxLeads = int(limit)
	}

	out := make([]*lead.Lead, 0, len(leads))
	for _, l := range leads {
		if status != "" && l.Status != status {
			continue
		}
		out = append(out, l)
		if len(out) == maxLeads {
			break
		}
	}
	return jsonResult(out)
}

// handleGetLead returns one lead.
func (s *Server) handleGetLead(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	id, ok := args["id"].(string)
	if !ok || id == "" {
		return mcp.NewToolResultError("missing or invalid 'id' parameter"), nil
	}

	l, err := s.leads.Get(ctx, id)
	if err != nil {
		if errors.Is(err, lead.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("lead %s not found", id)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to load lead: %v", err)), nil
	}
	return jsonResult(l)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
