package tools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ljbatista/shelfmate/internal/config"
	"github.com/ljbatista/shelfmate/internal/library"
	"github.com/ljbatista/shelfmate/internal/render"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Test helpers ---

// setupLibrary wires a full library over a temp data directory, documents
// included, so tool tests exercise the same stack the server runs.
func setupLibrary(t *testing.T) (*library.Library, config.Paths) {
	t.Helper()
	paths := config.Paths{DataDir: t.TempDir()}
	store := library.NewFileStore(paths.DataDir)
	lib := library.New(store, render.NewDocs(paths))
	return lib, paths
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// isErrorResult checks if the result is a tool error.
func isErrorResult(result *mcp.CallToolResult) bool {
	return result != nil && result.IsError
}

// getResultText extracts the text content from a CallToolResult.
func getResultText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// decodePayload unmarshals a JSON tool result.
func decodePayload(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal([]byte(getResultText(result)), &payload); err != nil {
		t.Fatalf("decoding result %q: %v", getResultText(result), err)
	}
	return payload
}

func saveTestProfile(t *testing.T, lib *library.Library, paths config.Paths) {
	t.Helper()
	tool := NewSaveProfileTool(lib, paths)
	result, err := tool.Handle(context.Background(), callRequest(map[string]any{
		"name": "Lena",
		"domains": []any{
			map[string]any{"id": "classic_lit", "name": "Classic Literature", "purpose": "Read the greats", "target_books": float64(6)},
			map[string]any{"id": "neuroscience", "name": "Neuroscience", "target_books": float64(4)},
		},
		"preferences": map[string]any{"pacing": "slow_deep"},
		"context":     map[string]any{"avoidances": []any{"war stories"}},
	}))
	if err != nil || isErrorResult(result) {
		t.Fatalf("save_profile setup failed: err=%v result=%s", err, getResultText(result))
	}
}

func logTestBook(t *testing.T, lib *library.Library, paths config.Paths, title, author, domain string, rating int) {
	t.Helper()
	tool := NewLogBookTool(lib, paths)
	args := map[string]any{"title": title, "author": author, "domain": domain}
	if rating > 0 {
		args["rating"] = float64(rating)
	}
	result, err := tool.Handle(context.Background(), callRequest(args))
	if err != nil || isErrorResult(result) {
		t.Fatalf("log_book setup failed: err=%v result=%s", err, getResultText(result))
	}
}

// --- Interview tools ---

func TestStartInterviewTool(t *testing.T) {
	tool := NewStartInterviewTool()
	result, err := tool.Handle(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	text := getResultText(result)
	if text == "" || strings.Contains(text, "not found") {
		t.Errorf("expected interview prompt, got %q", text)
	}
}

func TestSaveProfileTool(t *testing.T) {
	lib, paths := setupLibrary(t)
	saveTestProfile(t, lib, paths)

	// Entity and document both exist after a save.
	if _, err := os.Stat(filepath.Join(paths.DataDir, "profile.json")); err != nil {
		t.Errorf("profile.json not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(paths.DataDir, "profile.md")); err != nil {
		t.Errorf("profile.md not written: %v", err)
	}

	getTool := NewGetProfileTool(lib)
	result, err := getTool.Handle(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("get_profile: %v", err)
	}
	payload := decodePayload(t, result)
	identity := payload["identity"].(map[string]any)
	if identity["name"] != "Lena" {
		t.Errorf("profile payload = %v", payload)
	}
}

func TestSaveProfileToolValidation(t *testing.T) {
	lib, paths := setupLibrary(t)
	tool := NewSaveProfileTool(lib, paths)

	result, err := tool.Handle(context.Background(), callRequest(map[string]any{
		"name":    "",
		"domains": []any{map[string]any{"id": "x"}},
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !isErrorResult(result) {
		t.Error("missing name should be a tool error")
	}
}

func TestGetProfileToolWithoutProfile(t *testing.T) {
	lib, _ := setupLibrary(t)
	tool := NewGetProfileTool(lib)

	result, err := tool.Handle(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if isErrorResult(result) {
		t.Fatal("missing profile must be a soft error, not a protocol error")
	}
	payload := decodePayload(t, result)
	if !strings.Contains(payload["error"].(string), "No profile found") {
		t.Errorf("payload = %v", payload)
	}
}

// --- Context tools ---

func TestExtractContextTool(t *testing.T) {
	lib, paths := setupLibrary(t)

	tool := NewExtractContextTool(lib)
	result, err := tool.Handle(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if _, hasErr := decodePayload(t, result)["error"]; !hasErr {
		t.Error("expected soft error without profile")
	}

	saveTestProfile(t, lib, paths)
	result, err = tool.Handle(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	payload := decodePayload(t, result)
	if payload["prompt"] == "" || payload["profile"] == nil {
		t.Errorf("payload = %v", payload)
	}
}

func TestUpdateLatentFeaturesTool(t *testing.T) {
	lib, paths := setupLibrary(t)
	saveTestProfile(t, lib, paths)

	tool := NewUpdateLatentFeaturesTool(lib)
	result, err := tool.Handle(context.Background(), callRequest(map[string]any{
		"features": map[string]any{"reader_archetype": "completionist"},
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	payload := decodePayload(t, result)
	if payload["status"] != "updated" {
		t.Errorf("payload = %v", payload)
	}
	features := payload["features"].(map[string]any)
	if features["reader_archetype"] != "completionist" {
		t.Errorf("features = %v", features)
	}
}

// --- Syllabus tools ---

func TestBuildBookstackToolUnknownDomain(t *testing.T) {
	lib, paths := setupLibrary(t)
	saveTestProfile(t, lib, paths)

	tool := NewBuildBookstackTool(lib)
	result, err := tool.Handle(context.Background(), callRequest(map[string]any{"domain": "cooking"}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	payload := decodePayload(t, result)
	if !strings.Contains(payload["error"].(string), "'cooking' not found") {
		t.Errorf("payload = %v", payload)
	}
	available := payload["available_domains"].([]any)
	if len(available) != 2 || available[0] != "classic_lit" {
		t.Errorf("available_domains = %v", available)
	}
}

func TestBuildBookstackToolContext(t *testing.T) {
	lib, paths := setupLibrary(t)
	saveTestProfile(t, lib, paths)
	logTestBook(t, lib, paths, "Anna Karenina", "Leo Tolstoy", "classic_lit", 5)

	tool := NewBuildBookstackTool(lib)
	result, err := tool.Handle(context.Background(), callRequest(map[string]any{"domain": "classic_lit"}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	payload := decodePayload(t, result)
	if payload["domain"] != "classic_lit" || payload["prompt"] == "" {
		t.Errorf("payload = %v", payload)
	}
	history := payload["reading_history"].(map[string]any)
	if history["total_books"] != float64(1) {
		t.Errorf("reading_history = %v", history)
	}
}

func TestSaveBookstackAndNextBook(t *testing.T) {
	lib, paths := setupLibrary(t)
	saveTestProfile(t, lib, paths)

	saveTool := NewSaveBookstackTool(lib, paths)
	result, err := saveTool.Handle(context.Background(), callRequest(map[string]any{
		"domain": "classic_lit",
		"books": []any{
			map[string]any{"title": "Anna Karenina", "author": "Leo Tolstoy", "difficulty": "challenging"},
			map[string]any{"title": "War and Peace", "author": "Leo Tolstoy", "difficulty": "challenging"},
		},
		"description": "Russian starter pack",
	}))
	if err != nil || isErrorResult(result) {
		t.Fatalf("save_bookstack: err=%v result=%s", err, getResultText(result))
	}
	payload := decodePayload(t, result)
	if payload["book_count"] != float64(2) {
		t.Errorf("payload = %v", payload)
	}
	if _, err := os.Stat(filepath.Join(paths.StacksDir(), "classic_lit.md")); err != nil {
		t.Errorf("stack document not written: %v", err)
	}

	logTestBook(t, lib, paths, "Anna Karenina", "Leo Tolstoy", "classic_lit", 5)

	nextTool := NewGetNextBookTool(lib)
	result, err = nextTool.Handle(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("get_next_book: %v", err)
	}
	payload = decodePayload(t, result)
	book := payload["book"].(map[string]any)
	if book["title"] != "War and Peace" {
		t.Errorf("next book = %v", payload)
	}
}

func TestGetNextBookToolNoStacks(t *testing.T) {
	lib, _ := setupLibrary(t)
	tool := NewGetNextBookTool(lib)

	result, err := tool.Handle(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	payload := decodePayload(t, result)
	if !strings.Contains(payload["message"].(string), "No bookstacks yet") {
		t.Errorf("payload = %v", payload)
	}
}

func TestAddBookToStackTool(t *testing.T) {
	lib, paths := setupLibrary(t)
	saveTestProfile(t, lib, paths)

	tool := NewAddBookToStackTool(lib)
	result, err := tool.Handle(context.Background(), callRequest(map[string]any{
		"domain": "neuroscience",
		"title":  "Behave",
		"author": "Robert Sapolsky",
	}))
	if err != nil || isErrorResult(result) {
		t.Fatalf("add_book_to_stack: err=%v result=%s", err, getResultText(result))
	}
	payload := decodePayload(t, result)
	if payload["position"] != float64(1) || payload["total_in_stack"] != float64(1) {
		t.Errorf("payload = %v", payload)
	}

	result, err = tool.Handle(context.Background(), callRequest(map[string]any{"domain": "x", "title": "", "author": "y"}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !isErrorResult(result) {
		t.Error("missing title should be a tool error")
	}
}

// --- Reflection tools ---

func TestStartReflectionToolUnknownTitle(t *testing.T) {
	lib, _ := setupLibrary(t)
	tool := NewStartReflectionTool(lib)

	result, err := tool.Handle(context.Background(), callRequest(map[string]any{"title": "Nothing"}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	payload := decodePayload(t, result)
	if !strings.Contains(payload["error"].(string), "not found in reading log") {
		t.Errorf("payload = %v", payload)
	}
	if !strings.Contains(payload["suggestion"].(string), "log_book") {
		t.Errorf("payload = %v", payload)
	}
}

func TestReflectionFlow(t *testing.T) {
	lib, paths := setupLibrary(t)
	saveTestProfile(t, lib, paths)
	logTestBook(t, lib, paths, "Anna Karenina", "Leo Tolstoy", "classic_lit", 5)

	startTool := NewStartReflectionTool(lib)
	result, err := startTool.Handle(context.Background(), callRequest(map[string]any{"title": "anna karenina"}))
	if err != nil {
		t.Fatalf("start_reflection: %v", err)
	}
	payload := decodePayload(t, result)
	book := payload["book"].(map[string]any)
	if book["title"] != "Anna Karenina" {
		t.Errorf("book = %v", book)
	}
	goal := payload["domain_goal"].(map[string]any)
	if goal["id"] != "classic_lit" {
		t.Errorf("domain_goal = %v", goal)
	}

	saveTool := NewSaveReflectionTool(lib, paths)
	result, err = saveTool.Handle(context.Background(), callRequest(map[string]any{
		"title":         "Anna Karenina",
		"key_takeaway":  "happiness is not a performance",
		"next_appetite": "more_like_this",
	}))
	if err != nil || isErrorResult(result) {
		t.Fatalf("save_reflection: err=%v result=%s", err, getResultText(result))
	}
	payload = decodePayload(t, result)
	if payload["key_takeaway"] != "happiness is not a performance" {
		t.Errorf("payload = %v", payload)
	}

	doc, err := os.ReadFile(filepath.Join(paths.ProgressDir(), "anna-karenina.md"))
	if err != nil {
		t.Fatalf("reflection document: %v", err)
	}
	if !strings.Contains(string(doc), "happiness is not a performance") {
		t.Error("reflection document not refreshed")
	}
}

func TestGetReadingLogTool(t *testing.T) {
	lib, paths := setupLibrary(t)

	tool := NewGetReadingLogTool(lib)
	result, err := tool.Handle(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	payload := decodePayload(t, result)
	if !strings.Contains(payload["message"].(string), "No books logged yet") {
		t.Errorf("payload = %v", payload)
	}

	saveTestProfile(t, lib, paths)
	for _, title := range []string{"A", "B", "C"} {
		logTestBook(t, lib, paths, title, "Author X", "classic_lit", 4)
	}

	result, err = tool.Handle(context.Background(), callRequest(map[string]any{"limit": float64(2)}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	payload = decodePayload(t, result)
	if payload["total_books"] != float64(3) {
		t.Errorf("total_books = %v", payload["total_books"])
	}
	entries := payload["entries"].([]any)
	if len(entries) != 2 {
		t.Errorf("entries = %d, want last 2", len(entries))
	}
	last := entries[1].(map[string]any)
	if last["title"] != "C" {
		t.Errorf("last entry = %v", last)
	}
}

func TestGetProgressTool(t *testing.T) {
	lib, paths := setupLibrary(t)

	tool := NewGetProgressTool(lib, paths)
	result, err := tool.Handle(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if _, hasErr := decodePayload(t, result)["error"]; !hasErr {
		t.Error("expected soft error without profile")
	}

	saveTestProfile(t, lib, paths)
	logTestBook(t, lib, paths, "Anna Karenina", "Leo Tolstoy", "classic_lit", 5)

	result, err = tool.Handle(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	payload := decodePayload(t, result)
	if payload["total_books"] != float64(1) || payload["total_target"] != float64(10) {
		t.Errorf("payload = %v", payload)
	}
	if !strings.Contains(payload["message"].(string), "1 books across 2 domains") {
		t.Errorf("message = %v", payload["message"])
	}
	if _, err := os.Stat(filepath.Join(paths.ProgressDir(), "_current.md")); err != nil {
		t.Errorf("progress document not written: %v", err)
	}

	// period is accepted and summarizes the full history regardless.
	result, err = tool.Handle(context.Background(), callRequest(map[string]any{"period": "month"}))
	if err != nil || isErrorResult(result) {
		t.Fatalf("get_progress with period: err=%v result=%s", err, getResultText(result))
	}
	if payload := decodePayload(t, result); payload["total_books"] != float64(1) {
		t.Errorf("payload with period = %v", payload)
	}
}

// --- Pattern and author tools ---

func TestAnalyzePatternsToolGuard(t *testing.T) {
	lib, paths := setupLibrary(t)
	saveTestProfile(t, lib, paths)
	logTestBook(t, lib, paths, "Anna Karenina", "Leo Tolstoy", "classic_lit", 5)

	tool := NewAnalyzePatternsTool(lib, paths)
	result, err := tool.Handle(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	payload := decodePayload(t, result)
	if payload["books_logged"] != float64(1) {
		t.Errorf("payload = %v", payload)
	}

	logTestBook(t, lib, paths, "War and Peace", "Leo Tolstoy", "classic_lit", 5)
	result, err = tool.Handle(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	payload = decodePayload(t, result)
	if payload["status"] != "analyzed" {
		t.Errorf("payload = %v", payload)
	}
	if _, err := os.Stat(filepath.Join(paths.ProgressDir(), "_insights.md")); err != nil {
		t.Errorf("insights document not written: %v", err)
	}
}

func TestGetAuthorProfileTool(t *testing.T) {
	lib, paths := setupLibrary(t)

	tool := NewGetAuthorProfileTool(lib, paths)
	result, err := tool.Handle(context.Background(), callRequest(map[string]any{"author": "Leo Tolstoy"}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	payload := decodePayload(t, result)
	if payload["found"] != false {
		t.Errorf("payload = %v", payload)
	}

	saveTestProfile(t, lib, paths)
	logTestBook(t, lib, paths, "Anna Karenina", "Leo Tolstoy", "classic_lit", 5)

	result, err = tool.Handle(context.Background(), callRequest(map[string]any{"author": "Leo Tolstoy"}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	payload = decodePayload(t, result)
	if payload["found"] != true {
		t.Fatalf("payload = %v", payload)
	}
	author := payload["author"].(map[string]any)
	if author["total_books"] != float64(1) {
		t.Errorf("author = %v", author)
	}
}

func TestUpdateAuthorNotesTool(t *testing.T) {
	lib, paths := setupLibrary(t)
	saveTestProfile(t, lib, paths)
	logTestBook(t, lib, paths, "Anna Karenina", "Leo Tolstoy", "classic_lit", 5)

	tool := NewUpdateAuthorNotesTool(lib, paths)
	result, err := tool.Handle(context.Background(), callRequest(map[string]any{
		"author":      "Leo Tolstoy",
		"style_notes": map[string]any{"prose": "sweeping"},
		"your_notes":  "my favorite Russian",
	}))
	if err != nil || isErrorResult(result) {
		t.Fatalf("update_author_notes: err=%v result=%s", err, getResultText(result))
	}
	payload := decodePayload(t, result)
	if payload["your_notes"] != "my favorite Russian" {
		t.Errorf("payload = %v", payload)
	}

	result, err = tool.Handle(context.Background(), callRequest(map[string]any{"author": "Nobody"}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	payload = decodePayload(t, result)
	if !strings.Contains(payload["error"].(string), "not found") {
		t.Errorf("payload = %v", payload)
	}
}

func TestGetFavoriteAuthorsTool(t *testing.T) {
	lib, paths := setupLibrary(t)

	tool := NewGetFavoriteAuthorsTool(lib, paths)
	result, err := tool.Handle(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	payload := decodePayload(t, result)
	if !strings.Contains(payload["message"].(string), "No authors tracked yet") {
		t.Errorf("payload = %v", payload)
	}

	saveTestProfile(t, lib, paths)
	logTestBook(t, lib, paths, "Anna Karenina", "Leo Tolstoy", "classic_lit", 5)
	logTestBook(t, lib, paths, "Behave", "Robert Sapolsky", "neuroscience", 3)

	result, err = tool.Handle(context.Background(), callRequest(map[string]any{"limit": float64(1)}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	payload = decodePayload(t, result)
	if payload["total_authors"] != float64(2) {
		t.Errorf("payload = %v", payload)
	}
	top := payload["top_authors"].([]any)
	if len(top) != 1 {
		t.Fatalf("top_authors = %v", top)
	}
	if top[0].(map[string]any)["name"] != "Leo Tolstoy" {
		t.Errorf("top author = %v", top[0])
	}
}

// --- Connection tools ---

func TestAddBookConnectionTool(t *testing.T) {
	lib, _ := setupLibrary(t)
	tool := NewAddBookConnectionTool(lib)

	result, err := tool.Handle(context.Background(), callRequest(map[string]any{
		"from_book":    "Dune",
		"to_book":      "Hyperion",
		"relationship": "similar_theme",
		"reason":       "epic scope",
	}))
	if err != nil || isErrorResult(result) {
		t.Fatalf("add_book_connection: err=%v result=%s", err, getResultText(result))
	}
	payload := decodePayload(t, result)
	if payload["status"] != "added" || payload["total_connections"] != float64(1) {
		t.Errorf("payload = %v", payload)
	}

	result, err = tool.Handle(context.Background(), callRequest(map[string]any{
		"from_book":    "Dune",
		"to_book":      "Hyperion",
		"relationship": "next_step",
		"reason":       "read after",
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	payload = decodePayload(t, result)
	if payload["status"] != "updated" {
		t.Errorf("re-adding same pair should update: %v", payload)
	}
}

func TestGetSimilarBooksTool(t *testing.T) {
	lib, _ := setupLibrary(t)
	tool := NewGetSimilarBooksTool(lib)

	result, err := tool.Handle(context.Background(), callRequest(map[string]any{"title": "Dune"}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	payload := decodePayload(t, result)
	if !strings.Contains(payload["message"].(string), "No book connections recorded yet") {
		t.Errorf("payload = %v", payload)
	}

	addTool := NewAddBookConnectionTool(lib)
	if _, err := addTool.Handle(context.Background(), callRequest(map[string]any{
		"from_book":    "Dune",
		"to_book":      "Hyperion",
		"relationship": "similar_theme",
		"reason":       "epic scope",
	})); err != nil {
		t.Fatalf("add_book_connection: %v", err)
	}

	result, err = tool.Handle(context.Background(), callRequest(map[string]any{"title": "dune"}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	payload = decodePayload(t, result)
	if payload["total"] != float64(1) {
		t.Fatalf("payload = %v", payload)
	}
	hit := payload["connected_books"].([]any)[0].(map[string]any)
	if hit["book"] != "Hyperion" || hit["direction"] != "leads_to" {
		t.Errorf("hit = %v", hit)
	}

	result, err = tool.Handle(context.Background(), callRequest(map[string]any{"title": "Solaris"}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	payload = decodePayload(t, result)
	if !strings.Contains(payload["message"].(string), "No connections found for 'Solaris'") {
		t.Errorf("payload = %v", payload)
	}
}
