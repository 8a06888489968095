// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes read-only portfolio tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/portfolioservice"
)

// DocumentFormatURI names the document format resource.
const DocumentFormatURI = "folio://document-format"

// Server wraps the MCP server with portfolio tools.
type Server struct {
	mcp *server.MCPServer
	svc *portfolioservice.Service
}

// New creates a new MCP server with all portfolio tools registered.
func New(svc *portfolioservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Folio",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	locale := mcp.WithString("locale", mcp.Description("Optional locale, e.g. es (empty for the default document)"))

	s.mcp.AddTool(mcp.NewTool("get_portfolio",
		mcp.WithDescription("Return the whole portfolio document as JSON."),
		locale,
	), s.getPortfolio)

	s.mcp.AddTool(mcp.NewTool("list_skills",
		mcp.WithDescription("List skills. Set group to \"category\" to get them grouped by category."),
		locale,
		mcp.WithString("group", mcp.Description("Optional grouping: category")),
	), s.listSkills)

	s.mcp.AddTool(mcp.NewTool("list_projects",
		mcp.WithDescription("List portfolio projects with their tech stack and metrics."),
		locale,
	), s.listProjects)

	s.mcp.AddTool(mcp.NewTool("list_experience",
		mcp.WithDescription("List work experience entries, most recent first as stored."),
		locale,
	), s.listExperience)

	s.mcp.AddResource(
		mcp.NewResource(DocumentFormatURI, "Portfolio Document Format",
			mcp.WithResourceDescription("Shape of the portfolio JSON document and its collections."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readDocumentFormat,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func optionalString(req mcp.CallToolRequest, key string) string {
	if v, err := req.RequireString(key); err == nil {
		return v
	}
	return ""
}

func jsonResult(v any, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getPortfolio(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Portfolio(ctx, optionalString(req, "locale")))
}

func (s *Server) listSkills(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	skills, err := s.svc.Skills(ctx, optionalString(req, "locale"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	switch optionalString(req, "group") {
	case "":
		return jsonResult(skills, nil)
	case "category":
		return jsonResult(models.SkillsByCategory(skills), nil)
	default:
		return mcp.NewToolResultError(`group must be "category"`), nil
	}
}

func (s *Server) listProjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Projects(ctx, optionalString(req, "locale")))
}

func (s *Server) listExperience(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Experience(ctx, optionalString(req, "locale")))
}

func (s *Server) readDocumentFormat(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      DocumentFormatURI,
			MIMEType: "text/markdown",
			Text:     DocumentFormat,
		},
	}, nil
}
