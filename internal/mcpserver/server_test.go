package mcpserver

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/othala/internal/libservice"
	"github.com/starford/othala/internal/testutil"
)

func testServer(t *testing.T) (*Server, *libservice.Service, string) {
	t.Helper()

	libDir, store := testutil.TestLibrary(t)
	db := testutil.TestDB(t)

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	svc := libservice.NewService(store, db, logger)
	return New(svc), svc, libDir
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so we invoke the
	// handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_library":
		result, err = srv.searchLibrary(ctx, req)
	case "recent_files":
		result, err = srv.recentFiles(ctx, req)
	case "inspect_document":
		result, err = srv.inspectDocument(ctx, req)
	case "rebuild_library":
		result, err = srv.rebuildLibrary(ctx, req)
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

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRebuildAndSearch(t *testing.T) {
	srv, _, libDir := testServer(t)
	writeDoc(t, libDir, "report.ssce", `{"frontMatter":{"title":"Quarterly Report","modified":"2024-03-01"}}`)

	r := callTool(t, srv, "rebuild_library", map[string]interface{}{"path": libDir})
	if resultText(r) != "processed 1 documents" {
		t.Errorf("rebuild result = %q", resultText(r))
	}

	r = callTool(t, srv, "search_library", map[string]interface{}{"query": "quart"})
	text := resultText(r)
	if !strings.Contains(text, "Quarterly Report") {
		t.Errorf("search result missing document: %q", text)
	}
}

func TestSearchBlankQuery(t *testing.T) {
	srv, _, libDir := testServer(t)
	writeDoc(t, libDir, "a.ssce", `{"frontMatter":{"modified":"2024-01-01"}}`)
	writeDoc(t, libDir, "b.ssce", `{"frontMatter":{"modified":"2024-02-01"}}`)
	_ = callTool(t, srv, "rebuild_library", map[string]interface{}{"path": libDir})

	r := callTool(t, srv, "search_library", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "a.ssce") || !strings.Contains(text, "b.ssce") {
		t.Errorf("blank query should list everything: %q", text)
	}
}

func TestRecentFiles(t *testing.T) {
	srv, svc, libDir := testServer(t)
	doc := writeDoc(t, libDir, "opened.ssce", `{}`)
	writeDoc(t, libDir, "untouched.ssce", `{}`)

	// Fresh documents carry no modified date, so only a touch makes
	// one recent.
	_ = callTool(t, srv, "rebuild_library", map[string]interface{}{"path": libDir})
	if err := svc.TouchLastOpened(context.Background(), doc, "2024-06-01T10:00:00"); err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "recent_files", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "opened.ssce") {
		t.Errorf("recent missing touched document: %q", text)
	}
	if strings.Contains(text, "untouched.ssce") {
		t.Errorf("recent includes never-opened document: %q", text)
	}
}

func TestInspectDocument(t *testing.T) {
	srv, _, libDir := testServer(t)
	doc := writeDoc(t, libDir, "meta.ssce", `{"frontMatter":{"title":"Inspect Me"},"snapshots":[{}]}`)

	r := callTool(t, srv, "inspect_document", map[string]interface{}{"path": doc})
	text := resultText(r)
	if !strings.Contains(text, "Inspect Me") {
		t.Errorf("inspect result = %q", text)
	}
	if !strings.Contains(text, `"snapshot_count": 1`) {
		t.Errorf("inspect missing snapshot count: %q", text)
	}
}

func TestInspectMissingPathArg(t *testing.T) {
	srv, _, _ := testServer(t)
	r := callTool(t, srv, "inspect_document", map[string]interface{}{})
	if !r.IsError {
		t.Error("expected error when path argument missing")
	}
}

func TestRebuildMissingRoot(t *testing.T) {
	srv, _, libDir := testServer(t)
	r := callTool(t, srv, "rebuild_library", map[string]interface{}{"path": filepath.Join(libDir, "nope")})
	if !r.IsError {
		t.Error("expected error for missing library root")
	}
}
