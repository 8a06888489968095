package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/portfolioservice"
	"github.com/starford/folio/internal/testutil"
)

func testServer(t *testing.T) (*Server, *portfolioservice.Service) {
	t.Helper()
	_, catalog := testutil.TestCatalog(t, []string{"es"})
	svc := portfolioservice.New(catalog)
	return New(svc, "test"), svc
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct call helper, so dispatch to the handlers.
	var result *mcp.CallToolResult
	var err error
	switch name {
	case "get_portfolio":
		result, err = srv.getPortfolio(ctx, req)
	case "list_skills":
		result, err = srv.listSkills(ctx, req)
	case "list_projects":
		result, err = srv.listProjects(ctx, req)
	case "list_experience":
		result, err = srv.listExperience(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}
	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestGetPortfolio(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "get_portfolio", map[string]any{})
	if r.IsError {
		t.Fatalf("error result: %s", resultText(r))
	}
	var doc models.Document
	if err := json.Unmarshal([]byte(resultText(r)), &doc); err != nil {
		t.Fatal(err)
	}
	if doc.PersonalInfo.Name != "Alex Johnson" {
		t.Errorf("name = %q", doc.PersonalInfo.Name)
	}
}

func TestListSkillsGrouped(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "list_skills", map[string]any{"group": "category"})
	var grouped map[string][]models.Skill
	if err := json.Unmarshal([]byte(resultText(r)), &grouped); err != nil {
		t.Fatal(err)
	}
	if len(grouped["Languages & Runtime"]) != 1 {
		t.Errorf("grouped = %v", grouped)
	}

	r = callTool(t, srv, "list_skills", map[string]any{"group": "name"})
	if !r.IsError {
		t.Error("expected error for unknown grouping")
	}
}

func TestListProjectsAndExperience(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "list_projects", map[string]any{"locale": "es"})
	if !strings.Contains(resultText(r), "E-commerce API Platform") {
		t.Errorf("projects = %s", resultText(r))
	}
	r = callTool(t, srv, "list_experience", map[string]any{})
	if !strings.Contains(resultText(r), "TechCorp Inc.") {
		t.Errorf("experience = %s", resultText(r))
	}
}

func TestUnknownLocale(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "list_projects", map[string]any{"locale": "fr"})
	if !r.IsError || !strings.Contains(resultText(r), "unknown locale") {
		t.Errorf("result = %+v", r)
	}
}

func TestDocumentFormatResource(t *testing.T) {
	srv, _ := testServer(t)
	contents, err := srv.readDocumentFormat(context.Background(), mcp.ReadResourceRequest{})
	if err != nil || len(contents) != 1 {
		t.Fatalf("contents = %v, err = %v", contents, err)
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok || !strings.Contains(tc.Text, "personalInfo") {
		t.Errorf("resource = %+v", contents[0])
	}
}
