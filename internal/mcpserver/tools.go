package mcpserver

import (
	"github.com/homekey-labs/homekey/internal/lead"
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool names.
const (
	ToolSearchAddress = "search_address"
	ToolListLeads     = "list_leads"
	ToolGetLead       = "get_lead"
)

func (s *Server) registerTools() {
	if s.searcher != nil {
		s.mcpServer.AddTool(
			mcp.NewTool(ToolSearchAddress,
				mcp.WithDescription("Search for a street address and return matching candidates with coordinates"),
				mcp.WithString("query", mcp.Required(),
					mcp.Description("Free-form address text, e.g. \"123 Main St Springfield\""),
				),
			),
			s.handleSearchAddress,
		)
	}

	if s.leads != nil {
		s.mcpServer.AddTool(
			mcp.NewTool(ToolListLeads,
				mcp.WithDescription("List captured seller leads, newest first"),
				mcp.WithString("status",
					mcp.Description("Only return leads with this status"),
					mcp.Enum(lead.Statuses...),
				),
				mcp.WithNumber("limit",
					mcp.Description("Maximum number of leads to return (default: all)"),
				),
			),
			s.handleListLeads,
		)

		s.mcpServer.AddTool(
			mcp.NewTool(ToolGetLead,
				mcp.WithDescription("Get one lead with its status history"),
				mcp.WithString("id", mcp.Required(),
					mcp.Description("Lead ID"),
				),
			),
			s.handleGetLead,
		)
	}
}
