package tools

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ljbatista/shelfmate/internal/config"
	"github.com/ljbatista/shelfmate/internal/library"
	"github.com/mark3labs/mcp-go/mcp"
)

// AnalyzePatternsTool handles the analyze_reading_patterns MCP tool.
type AnalyzePatternsTool struct {
	lib   *library.Library
	paths config.Paths
}

// NewAnalyzePatternsTool creates an AnalyzePatternsTool with its dependencies.
func NewAnalyzePatternsTool(lib *library.Library, paths config.Paths) *AnalyzePatternsTool {
	return &AnalyzePatternsTool{lib: lib, paths: paths}
}

// Definition returns the MCP tool definition for registration.
func (t *AnalyzePatternsTool) Definition() mcp.Tool {
	return mcp.NewTool("analyze_reading_patterns",
		mcp.WithDescription(
			"Analyze your reading history to identify patterns. "+
				"Examines completed books to find themes you gravitate toward, "+
				"difficulty levels that work best, reading pace insights, and "+
				"author preferences. Results are saved and used for smarter "+
				"recommendations.",
		),
	)
}

// Handle processes the analyze_reading_patterns tool call.
func (t *AnalyzePatternsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := t.lib.AnalyzePatterns()
	if err != nil {
		return nil, fmt.Errorf("analyzing patterns: %w", err)
	}

	if !result.Analyzed {
		return jsonResult(map[string]any{
			"message":      fmt.Sprintf("Need at least %d books logged to analyze patterns.", library.MinEntriesForAnalysis),
			"books_logged": result.EntryCount,
			"suggestion":   "Log more books with log_book to enable pattern analysis",
		})
	}

	return jsonResult(map[string]any{
		"status":     "analyzed",
		"message":    fmt.Sprintf("Analyzed %d books across %d domains", result.EntryCount, result.DomainCount),
		"patterns":   result.Patterns.Patterns,
		"file":       filepath.Join(t.paths.ProgressDir(), "_insights.md"),
		"suggestion": "These patterns will now inform your book recommendations",
	})
}

// GetAuthorProfileTool handles the get_author_profile MCP tool.
type GetAuthorProfileTool struct {
	lib   *library.Library
	paths config.Paths
}

// NewGetAuthorProfileTool creates a GetAuthorProfileTool with its dependencies.
func NewGetAuthorProfileTool(lib *library.Library, paths config.Paths) *GetAuthorProfileTool {
	return &GetAuthorProfileTool{lib: lib, paths: paths}
}

// Definition returns the MCP tool definition for registration.
func (t *GetAuthorProfileTool) Definition() mcp.Tool {
	return mcp.NewTool("get_author_profile",
		mcp.WithDescription(
			"Get the profile for an author: books read, ratings, and notes.",
		),
		mcp.WithString("author",
			mcp.Required(),
			mcp.Description("Author name (e.g., 'Leo Tolstoy')"),
		),
	)
}

// Handle processes the get_author_profile tool call.
func (t *GetAuthorProfileTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	author := req.GetString("author", "")

	slug, entry, err := t.lib.AuthorByName(author)
	if errors.Is(err, library.ErrAuthorNotFound) {
		return jsonResult(map[string]any{
			"found":      false,
			"message":    fmt.Sprintf("No books logged from %s yet", author),
			"suggestion": fmt.Sprintf("Log a book by %s with log_book to create their profile", author),
		})
	}
	if err != nil {
		return nil, fmt.Errorf("loading author: %w", err)
	}

	return jsonResult(map[string]any{
		"found":  true,
		"author": entry,
		"file":   filepath.Join(t.paths.AuthorsDir(), slug+".md"),
	})
}

// UpdateAuthorNotesTool handles the update_author_notes MCP tool.
type UpdateAuthorNotesTool struct {
	lib   *library.Library
	paths config.Paths
}

// NewUpdateAuthorNotesTool creates an UpdateAuthorNotesTool with its
// dependencies.
func NewUpdateAuthorNotesTool(lib *library.Library, paths config.Paths) *UpdateAuthorNotesTool {
	return &UpdateAuthorNotesTool{lib: lib, paths: paths}
}

// Definition returns the MCP tool definition for registration.
func (t *UpdateAuthorNotesTool) Definition() mcp.Tool {
	return mcp.NewTool("update_author_notes",
		mcp.WithDescription(
			"Update notes about an author's style and your impressions. "+
				"List-valued style notes merge with existing values; scalars overwrite.",
		),
		mcp.WithString("author",
			mcp.Required(),
			mcp.Description("Author name"),
		),
		mcp.WithObject("style_notes",
			mcp.Description("Style observations, keys like: prose (writing style), "+
				"themes (list of common themes), strengths (what they do well), "+
				"comparable_to (similar authors)"),
		),
		mcp.WithString("your_notes",
			mcp.Description("Your personal notes about this author"),
		),
	)
}

// Handle processes the update_author_notes tool call.
func (t *UpdateAuthorNotesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	author := req.GetString("author", "")

	slug, entry, err := t.lib.UpdateAuthorNotes(author, objectArg(req, "style_notes"), req.GetString("your_notes", ""))
	if errors.Is(err, library.ErrAuthorNotFound) {
		return softError(
			fmt.Sprintf("Author '%s' not found", author),
			"Log a book by this author first",
		)
	}
	if err != nil {
		return nil, fmt.Errorf("updating author notes: %w", err)
	}

	return jsonResult(map[string]any{
		"status":      "updated",
		"author":      author,
		"style_notes": entry.StyleNotes,
		"your_notes":  entry.YourNotes,
		"file":        filepath.Join(t.paths.AuthorsDir(), slug+".md"),
	})
}

// GetFavoriteAuthorsTool handles the get_favorite_authors MCP tool.
type GetFavoriteAuthorsTool struct {
	lib   *library.Library
	paths config.Paths
}

// NewGetFavoriteAuthorsTool creates a GetFavoriteAuthorsTool with its
// dependencies.
func NewGetFavoriteAuthorsTool(lib *library.Library, paths config.Paths) *GetFavoriteAuthorsTool {
	return &GetFavoriteAuthorsTool{lib: lib, paths: paths}
}

// Definition returns the MCP tool definition for registration.
func (t *GetFavoriteAuthorsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_favorite_authors",
		mcp.WithDescription("Get your favorite authors ranked by affinity."),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of authors to return (default 10)"),
		),
	)
}

// Handle processes the get_favorite_authors tool call.
func (t *GetFavoriteAuthorsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	top, total, err := t.lib.FavoriteAuthors(intArg(req, "limit", 10))
	if err != nil {
		return nil, fmt.Errorf("ranking authors: %w", err)
	}

	if total == 0 {
		return jsonResult(map[string]any{
			"message":    "No authors tracked yet",
			"suggestion": "Log books with log_book to start building author profiles",
		})
	}

	return jsonResult(map[string]any{
		"total_authors": total,
		"top_authors":   top,
		"file":          filepath.Join(t.paths.AuthorsDir(), "_index.md"),
	})
}
