package tools

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ljbatista/shelfmate/internal/config"
	"github.com/ljbatista/shelfmate/internal/guidance"
	"github.com/ljbatista/shelfmate/internal/library"
	"github.com/mark3labs/mcp-go/mcp"
)

// LogBookTool handles the log_book MCP tool (quick mode logging).
type LogBookTool struct {
	lib   *library.Library
	paths config.Paths
}

// NewLogBookTool creates a LogBookTool with its dependencies.
func NewLogBookTool(lib *library.Library, paths config.Paths) *LogBookTool {
	return &LogBookTool{lib: lib, paths: paths}
}

// Definition returns the MCP tool definition for registration.
func (t *LogBookTool) Definition() mcp.Tool {
	return mcp.NewTool("log_book",
		mcp.WithDescription(
			"Log a completed book (quick mode). "+
				"Also updates the author's profile with the new book and rating.",
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Book title"),
		),
		mcp.WithString("author",
			mcp.Required(),
			mcp.Description("Author name"),
		),
		mcp.WithString("domain",
			mcp.Required(),
			mcp.Description("Which domain this book belongs to"),
		),
		mcp.WithNumber("rating",
			mcp.Description("Optional 1-5 rating"),
		),
		mcp.WithString("quick_note",
			mcp.Description("Optional brief note"),
		),
	)
}

// Handle processes the log_book tool call.
func (t *LogBookTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entry, err := t.lib.LogBook(
		req.GetString("title", ""),
		req.GetString("author", ""),
		req.GetString("domain", ""),
		intArg(req, "rating", 0),
		req.GetString("quick_note", ""),
	)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"status":     "logged",
		"message":    fmt.Sprintf("'%s' by %s logged!", entry.Title, entry.Author),
		"file":       filepath.Join(t.paths.ProgressDir(), library.Slugify(entry.Title)+".md"),
		"suggestion": "Want to do a quick reflection or deep dive? Say 'reflect on [title]'",
	})
}

// StartReflectionTool handles the start_reflection MCP tool.
// It returns the reflection prompt plus the book's log entry and the
// reader's context; the conversation itself is the host's job.
type StartReflectionTool struct {
	lib *library.Library
}

// NewStartReflectionTool creates a StartReflectionTool with its dependencies.
func NewStartReflectionTool(lib *library.Library) *StartReflectionTool {
	return &StartReflectionTool{lib: lib}
}

// Definition returns the MCP tool definition for registration.
func (t *StartReflectionTool) Definition() mcp.Tool {
	return mcp.NewTool("start_reflection",
		mcp.WithDescription("Start a deep reflection session for a book."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Title of a logged book"),
		),
	)
}

// Handle processes the start_reflection tool call.
func (t *StartReflectionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")

	entry, err := t.lib.FindEntry(title)
	if errors.Is(err, library.ErrEntryNotFound) {
		return softError(
			fmt.Sprintf("'%s' not found in reading log", title),
			"Log the book first with log_book, then reflect",
		)
	}
	if err != nil {
		return nil, fmt.Errorf("finding log entry: %w", err)
	}

	// The domain goal and user context are optional enrichment — a
	// missing profile doesn't block a reflection.
	var domainGoal any
	userContext := map[string]any{}
	if profile, perr := t.lib.Profile(); perr == nil {
		if d, found := profile.DomainByID(entry.Domain); found {
			domainGoal = d
		}
		userContext = profile.Context
	}

	return jsonResult(map[string]any{
		"instruction":  fmt.Sprintf("Guide a reflection session for '%s'", title),
		"prompt":       guidance.Load("reflection"),
		"book":         entry,
		"domain_goal":  domainGoal,
		"user_context": userContext,
	})
}

// SaveReflectionTool handles the save_reflection MCP tool.
type SaveReflectionTool struct {
	lib   *library.Library
	paths config.Paths
}

// NewSaveReflectionTool creates a SaveReflectionTool with its dependencies.
func NewSaveReflectionTool(lib *library.Library, paths config.Paths) *SaveReflectionTool {
	return &SaveReflectionTool{lib: lib, paths: paths}
}

// Definition returns the MCP tool definition for registration.
func (t *SaveReflectionTool) Definition() mcp.Tool {
	return mcp.NewTool("save_reflection",
		mcp.WithDescription(
			"Save a deep reflection for a book. "+
				"Overwrites any previous reflection for that book.",
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Book title"),
		),
		mcp.WithString("key_takeaway",
			mcp.Required(),
			mcp.Description("One sentence distillation"),
		),
		mcp.WithArray("craft_lessons",
			mcp.Description("What you learned about writing/craft"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithArray("personal_insights",
			mcp.Description("How this connects to your life"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithArray("favorite_quotes",
			mcp.Description("Memorable passages"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithString("next_appetite",
			mcp.Description("What they want after this book"),
			mcp.Enum("more_like_this", "ready_for_challenge", "palette_cleanser"),
		),
	)
}

// Handle processes the save_reflection tool call.
func (t *SaveReflectionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")

	entry, err := t.lib.SaveReflection(
		title,
		req.GetString("key_takeaway", ""),
		stringListArg(req, "craft_lessons"),
		stringListArg(req, "personal_insights"),
		stringListArg(req, "favorite_quotes"),
		req.GetString("next_appetite", ""),
	)
	if errors.Is(err, library.ErrEntryNotFound) {
		return softError(fmt.Sprintf("'%s' not found in reading log", title), "")
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"status":        "saved",
		"message":       fmt.Sprintf("Reflection saved for '%s'", entry.Title),
		"file":          filepath.Join(t.paths.ProgressDir(), library.Slugify(entry.Title)+".md"),
		"key_takeaway":  entry.Reflection.KeyTakeaway,
		"next_appetite": entry.Reflection.NextAppetite,
	})
}

// GetReadingLogTool handles the get_reading_log MCP tool.
type GetReadingLogTool struct {
	lib *library.Library
}

// NewGetReadingLogTool creates a GetReadingLogTool with its dependencies.
func NewGetReadingLogTool(lib *library.Library) *GetReadingLogTool {
	return &GetReadingLogTool{lib: lib}
}

// Definition returns the MCP tool definition for registration.
func (t *GetReadingLogTool) Definition() mcp.Tool {
	return mcp.NewTool("get_reading_log",
		mcp.WithDescription("Get reading log entries."),
		mcp.WithNumber("limit",
			mcp.Description("Optional cap: return only the most recent N entries"),
		),
	)
}

// Handle processes the get_reading_log tool call.
func (t *GetReadingLogTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log, err := t.lib.Log()
	if err != nil {
		return nil, fmt.Errorf("loading reading log: %w", err)
	}

	if len(log.Entries) == 0 {
		return jsonResult(map[string]any{
			"message": "No books logged yet. Use log_book to start tracking.",
		})
	}

	entries, err := t.lib.RecentEntries(intArg(req, "limit", 0))
	if err != nil {
		return nil, fmt.Errorf("loading reading log: %w", err)
	}

	return jsonResult(map[string]any{
		"total_books": len(log.Entries),
		"entries":     entries,
	})
}

// GetProgressTool handles the get_progress MCP tool.
type GetProgressTool struct {
	lib   *library.Library
	paths config.Paths
}

// NewGetProgressTool creates a GetProgressTool with its dependencies.
func NewGetProgressTool(lib *library.Library, paths config.Paths) *GetProgressTool {
	return &GetProgressTool{lib: lib, paths: paths}
}

// Definition returns the MCP tool definition for registration.
func (t *GetProgressTool) Definition() mcp.Tool {
	return mcp.NewTool("get_progress",
		mcp.WithDescription(
			"Get reading progress summary across all domains. "+
				"Also refreshes the progress document.",
		),
		mcp.WithString("period",
			mcp.Description("Time period to summarize, defaults to 'all'"),
		),
	)
}

// Handle processes the get_progress tool call.
func (t *GetProgressTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// period is part of the exposed schema but no narrower window is
	// implemented yet; every call summarizes the full history.
	_ = req.GetString("period", "all")

	report, err := t.lib.Progress()
	if errors.Is(err, library.ErrNoProfile) {
		return softError("No profile found. Run start_interview first.", "")
	}
	if err != nil {
		return nil, fmt.Errorf("computing progress: %w", err)
	}

	return jsonResult(map[string]any{
		"total_books":  report.TotalBooks,
		"total_target": report.TotalTarget,
		"by_domain":    report.ByDomain,
		"recent":       report.Recent,
		"message":      fmt.Sprintf("You've read %d books across %d domains", report.TotalBooks, len(report.ByDomain)),
		"file":         filepath.Join(t.paths.ProgressDir(), "_current.md"),
	})
}
