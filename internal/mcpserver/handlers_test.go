package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/homekey-labs/homekey/internal/geocode"
	"github.com/homekey-labs/homekey/internal/lead"
	"github.com/homekey-labs/homekey/internal/nats"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	candidates []geocode.Candidate
	err        error
	queries    []string
}

func (f *fakeSearcher) Search(_ context.Context, query string) ([]geocode.Candidate, error) {
	f.queries = append(f.queries, query)
	return f.candidates, f.err
}

// setupTestServer creates a server backed by an embedded lead store.
func setupTestServer(t *testing.T, searcher geocode.Searcher) (*Server, *lead.Store) {
	t.Helper()
	ctx := context.Background()

	ns, err := nats.StartEmbeddedNATS(t.TempDir(), false)
	require.NoError(t, err)
	nc, err := nats.ConnectInProcess(ns)
	require.NoError(t, err)
	t.Cleanup(func() { _ = nats.Shutdown(nc, ns) })

	js, err := nats.CreateJetStream(nc)
	require.NoError(t, err)
	stream, err := nats.SetupStream(ctx, js)
	require.NoError(t, err)

	store := lead.NewStore(js, stream)
	return New(searcher, store, "test"), store
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

// extractText extracts text from CallToolResult.Content[0]
func extractText(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	if textContent, ok := result.Content[0].(mcp.TextContent); ok {
		return textContent.Text
	}
	return ""
}

func submit(t *testing.T, store *lead.Store, first string) *lead.Lead {
	t.Helper()
	l, err := store.Submit(context.Background(), lead.Lead{
		Address: lead.Address{Line: "12 Oak Ave"},
		Contact: lead.Contact{FirstName: first, Phone: "5550104663", Email: first + "@example.com"},
	})
	require.NoError(t, err)
	return l
}

func TestHandleSearchAddress(t *testing.T) {
	candidates, err := geocode.ParseCandidates([]byte(`[
		{"place_id": 7, "display_name": "12, Oak Avenue, Springfield, Illinois, 62701, United States",
		 "lat": "39.8", "lon": "-89.6",
		 "address": {"house_number": "12", "road": "Oak Avenue", "city": "Springfield", "state": "Illinois", "postcode": "62701"}}
	]`))
	require.NoError(t, err)
	searcher := &fakeSearcher{candidates: candidates}
	srv, _ := setupTestServer(t, searcher)

	result := call(t, srv.handleSearchAddress, ToolSearchAddress, map[string]any{"query": "12 oak"})
	require.False(t, result.IsError, extractText(result))

	var got []addressResult
	require.NoError(t, json.Unmarshal([]byte(extractText(result)), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Springfield", got[0].City)
	assert.Equal(t, "62701", got[0].Postcode)
	assert.InDelta(t, 39.8, got[0].Lat, 0.0001)
	assert.Equal(t, int64(7), got[0].PlaceID)
	assert.Equal(t, []string{"12 oak"}, searcher.queries)
}

func TestHandleSearchAddress_Errors(t *testing.T) {
	t.Run("missing query", func(t *testing.T) {
		srv, _ := setupTestServer(t, &fakeSearcher{})
		result := call(t, srv.handleSearchAddress, ToolSearchAddress, map[string]any{"query": "  "})
		assert.True(t, result.IsError)
		assert.Contains(t, extractText(result), "query")
	})

	t.Run("breaker open", func(t *testing.T) {
		srv, _ := setupTestServer(t, &fakeSearcher{err: fmt.Errorf("search: %w", geocode.ErrCircuitOpen)})
		result := call(t, srv.handleSearchAddress, ToolSearchAddress, map[string]any{"query": "12 oak"})
		assert.True(t, result.IsError)
		assert.Contains(t, extractText(result), "temporarily unavailable")
	})

	t.Run("upstream failure", func(t *testing.T) {
		srv, _ := setupTestServer(t, &fakeSearcher{err: errors.New("status 503")})
		result := call(t, srv.handleSearchAddress, ToolSearchAddress, map[string]any{"query": "12 oak"})
		assert.True(t, result.IsError)
		assert.Contains(t, extractText(result), "status 503")
	})
}

func TestHandleListLeads(t *testing.T) {
	srv, store := setupTestServer(t, nil)
	ctx := context.Background()

	first := submit(t, store, "ann")
	second := submit(t, store, "bob")
	_, err := store.SetStatus(ctx, first.ID, lead.StatusContacted, "")
	require.NoError(t, err)

	result := call(t, srv.handleListLeads, ToolListLeads, map[string]any{})
	require.False(t, result.IsError, extractText(result))
	var all []lead.Lead
	require.NoError(t, json.Unmarshal([]byte(extractText(result)), &all))
	require.Len(t, all, 2)

	result = call(t, srv.handleListLeads, ToolListLeads, map[string]any{"status": lead.StatusContacted})
	var contacted []lead.Lead
	require.NoError(t, json.Unmarshal([]byte(extractText(result)), &contacted))
	require.Len(t, contacted, 1)
	assert.Equal(t, first.ID, contacted[0].ID)

	result = call(t, srv.handleListLeads, ToolListLeads, map[string]any{"status": lead.StatusNew, "limit": float64(1)})
	var limited []lead.Lead
	require.NoError(t, json.Unmarshal([]byte(extractText(result)), &limited))
	require.Len(t, limited, 1)
	assert.Equal(t, second.ID, limited[0].ID)
}

func TestHandleListLeads_InvalidArgs(t *testing.T) {
	srv, _ := setupTestServer(t, nil)

	result := call(t, srv.handleListLeads, ToolListLeads, map[string]any{"status": "archived"})
	assert.True(t, result.IsError)
	assert.Contains(t, extractText(result), "unknown status")

	for _, limit := range []any{"ten", float64(-1), 1.5} {
		result = call(t, srv.handleListLeads, ToolListLeads, map[string]any{"limit": limit})
		assert.True(t, result.IsError, "limit %v", limit)
	}
}

func TestHandleListLeads_HugeLimitReturnsAll(t *testing.T) {
	srv, store := setupTestServer(t, nil)
	submit(t, store, "ann")
	submit(t, store, "bob")

	for _, limit := range []float64{1e19, math.MaxFloat64} {
		result := call(t, srv.handleListLeads, ToolListLeads, map[string]any{"limit": limit})
		require.False(t, result.IsError, extractText(result))
		var all []lead.Lead
		require.NoError(t, json.Unmarshal([]byte(extractText(result)), &all))
		assert.Len(t, all, 2, "limit %v", limit)
	}
}

func TestHandleGetLead(t *testing.T) {
	srv, store := setupTestServer(t, nil)
	l := submit(t, store, "cat")

	result := call(t, srv.handleGetLead, ToolGetLead, map[string]any{"id": l.ID})
	require.False(t, result.IsError, extractText(result))
	var got lead.Lead
	require.NoError(t, json.Unmarshal([]byte(extractText(result)), &got))
	assert.Equal(t, "cat@example.com", got.Contact.Email)

	result = call(t, srv.handleGetLead, ToolGetLead, map[string]any{"id": "nope"})
	assert.True(t, result.IsError)
	assert.Contains(t, extractText(result), "not found")

	result = call(t, srv.handleGetLead, ToolGetLead, map[string]any{})
	assert.True(t, result.IsError)
}

func TestServer_StartStop(t *testing.T) {
	srv, _ := setupTestServer(t, &fakeSearcher{})

	port, err := srv.Start(context.Background())
	require.NoError(t, err)
	assert.Positive(t, port)
	assert.Equal(t, fmt.Sprintf("http://127.0.0.1:%d/mcp", port), srv.URL())

	_, err = srv.Start(context.Background())
	require.Error(t, err, "second start fails")

	require.NoError(t, srv.Stop())
	require.NoError(t, srv.Stop(), "stop is idempotent")
}
