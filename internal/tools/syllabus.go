package tools

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/ljbatista/shelfmate/internal/config"
	"github.com/ljbatista/shelfmate/internal/guidance"
	"github.com/ljbatista/shelfmate/internal/library"
	"github.com/mark3labs/mcp-go/mcp"
)

// BuildBookstackTool handles the build_bookstack MCP tool.
// It gathers everything the host needs to recommend books — the prompt,
// the domain goal, and the full reading history — without recommending
// anything itself.
type BuildBookstackTool struct {
	lib *library.Library
}

// NewBuildBookstackTool creates a BuildBookstackTool with its dependencies.
func NewBuildBookstackTool(lib *library.Library) *BuildBookstackTool {
	return &BuildBookstackTool{lib: lib}
}

// Definition returns the MCP tool definition for registration.
func (t *BuildBookstackTool) Definition() mcp.Tool {
	return mcp.NewTool("build_bookstack",
		mcp.WithDescription(
			"Build a curated reading stack for a specific domain. "+
				"Returns the syllabus builder prompt with user context. "+
				"After generating recommendations, call save_bookstack to persist them.",
		),
		mcp.WithString("domain",
			mcp.Required(),
			mcp.Description("The domain ID to build a stack for (e.g., 'classic_lit')"),
		),
	)
}

// Handle processes the build_bookstack tool call.
func (t *BuildBookstackTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	domain := req.GetString("domain", "")

	profile, err := t.lib.Profile()
	if errors.Is(err, library.ErrNoProfile) {
		return softError("No profile found. Run start_interview first.", "")
	}
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}

	goal, found := profile.DomainByID(domain)
	if !found {
		return jsonResult(map[string]any{
			"error":             fmt.Sprintf("Domain '%s' not found in profile", domain),
			"available_domains": profile.DomainIDs(),
		})
	}

	history, err := t.lib.HistoryForSyllabus()
	if err != nil {
		return nil, fmt.Errorf("gathering reading history: %w", err)
	}

	return jsonResult(map[string]any{
		"instruction":     fmt.Sprintf("Create a curated book stack for the '%s' domain", domain),
		"prompt":          guidance.Load("syllabus_builder"),
		"domain":          domain,
		"goal":            goal,
		"preferences":     profile.Preferences,
		"context":         profile.Context,
		"latent_features": profile.LatentFeatures,
		"reading_history": history,
	})
}

// SaveBookstackTool handles the save_bookstack MCP tool.
type SaveBookstackTool struct {
	lib   *library.Library
	paths config.Paths
}

// NewSaveBookstackTool creates a SaveBookstackTool with its dependencies.
func NewSaveBookstackTool(lib *library.Library, paths config.Paths) *SaveBookstackTool {
	return &SaveBookstackTool{lib: lib, paths: paths}
}

// Definition returns the MCP tool definition for registration.
func (t *SaveBookstackTool) Definition() mcp.Tool {
	return mcp.NewTool("save_bookstack",
		mcp.WithDescription(
			"Save a curated book stack for a domain. "+
				"Replaces the domain's existing stack entirely — never merges.",
		),
		mcp.WithString("domain",
			mcp.Required(),
			mcp.Description("The domain ID this stack belongs to"),
		),
		mcp.WithArray("books",
			mcp.Required(),
			mcp.Description("Ordered book recommendations. Each book should have: "+
				"title, author, why (personal reason it's in the stack), "+
				"difficulty (light | moderate | challenging), time_estimate, craft_focus"),
			mcp.Items(map[string]any{"type": "object"}),
		),
		mcp.WithString("description",
			mcp.Description("Optional description of what this stack will achieve"),
		),
	)
}

// Handle processes the save_bookstack tool call.
func (t *SaveBookstackTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	domain := req.GetString("domain", "")

	var books []library.Book
	for _, raw := range listArg(req, "books") {
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		books = append(books, library.Book{
			Title:        getString(m, "title"),
			Author:       getString(m, "author"),
			Why:          getString(m, "why"),
			Difficulty:   getString(m, "difficulty"),
			TimeEstimate: getString(m, "time_estimate"),
			CraftFocus:   getString(m, "craft_focus"),
		})
	}

	stack, err := t.lib.SaveBookstack(domain, books, req.GetString("description", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	titles := make([]string, 0, len(stack.Books))
	for _, b := range stack.Books {
		titles = append(titles, b.Title)
	}

	return jsonResult(map[string]any{
		"status":     "saved",
		"domain":     domain,
		"book_count": len(stack.Books),
		"titles":     titles,
		"file":       filepath.Join(t.paths.StacksDir(), domain+".md"),
	})
}

// GetBookstacksTool handles the get_bookstacks MCP tool.
type GetBookstacksTool struct {
	lib *library.Library
}

// NewGetBookstacksTool creates a GetBookstacksTool with its dependencies.
func NewGetBookstacksTool(lib *library.Library) *GetBookstacksTool {
	return &GetBookstacksTool{lib: lib}
}

// Definition returns the MCP tool definition for registration.
func (t *GetBookstacksTool) Definition() mcp.Tool {
	return mcp.NewTool("get_bookstacks",
		mcp.WithDescription("Get all book stacks, or a specific domain's stack."),
		mcp.WithString("domain",
			mcp.Description("Optional domain ID to fetch one stack"),
		),
	)
}

// Handle processes the get_bookstacks tool call.
func (t *GetBookstacksTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stacks, err := t.lib.Bookstacks()
	if err != nil {
		return nil, fmt.Errorf("loading bookstacks: %w", err)
	}

	if len(stacks.Stacks) == 0 {
		return jsonResult(map[string]any{
			"message": "No bookstacks yet. Use build_bookstack to create some.",
		})
	}

	if domain := req.GetString("domain", ""); domain != "" {
		stack, ok := stacks.Stacks[domain]
		if !ok {
			available := make([]string, 0, len(stacks.Stacks))
			for id := range stacks.Stacks {
				available = append(available, id)
			}
			sort.Strings(available)
			return jsonResult(map[string]any{
				"error":     fmt.Sprintf("No stack found for '%s'", domain),
				"available": available,
			})
		}
		return jsonResult(map[string]any{domain: stack})
	}

	return jsonResult(stacks)
}

// GetNextBookTool handles the get_next_book MCP tool.
type GetNextBookTool struct {
	lib *library.Library
}

// NewGetNextBookTool creates a GetNextBookTool with its dependencies.
func NewGetNextBookTool(lib *library.Library) *GetNextBookTool {
	return &GetNextBookTool{lib: lib}
}

// Definition returns the MCP tool definition for registration.
func (t *GetNextBookTool) Definition() mcp.Tool {
	return mcp.NewTool("get_next_book",
		mcp.WithDescription(
			"Get the next recommended book to read: the first stacked book "+
				"not already in the reading log.",
		),
		mcp.WithString("domain",
			mcp.Description("Optional domain ID to narrow the search"),
		),
	)
}

// Handle processes the get_next_book tool call.
func (t *GetNextBookTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stacks, err := t.lib.Bookstacks()
	if err != nil {
		return nil, fmt.Errorf("loading bookstacks: %w", err)
	}
	if len(stacks.Stacks) == 0 {
		return jsonResult(map[string]any{
			"message": "No bookstacks yet. Use build_bookstack first.",
		})
	}

	domain, book, ok, err := t.lib.NextBook(req.GetString("domain", ""))
	if err != nil {
		return nil, fmt.Errorf("finding next book: %w", err)
	}
	if !ok {
		return jsonResult(map[string]any{
			"message":    "All books in stacks completed! Time to refresh recommendations.",
			"suggestion": "Use build_bookstack to add more books",
		})
	}

	return jsonResult(map[string]any{
		"domain":  domain,
		"book":    book,
		"message": fmt.Sprintf("Next up in %s", domain),
	})
}

// AddBookToStackTool handles the add_book_to_stack MCP tool.
type AddBookToStackTool struct {
	lib *library.Library
}

// NewAddBookToStackTool creates an AddBookToStackTool with its dependencies.
func NewAddBookToStackTool(lib *library.Library) *AddBookToStackTool {
	return &AddBookToStackTool{lib: lib}
}

// Definition returns the MCP tool definition for registration.
func (t *AddBookToStackTool) Definition() mcp.Tool {
	return mcp.NewTool("add_book_to_stack",
		mcp.WithDescription(
			"Manually add a book to an existing stack. "+
				"Creates the stack if the domain has none yet.",
		),
		mcp.WithString("domain",
			mcp.Required(),
			mcp.Description("The domain ID of the stack"),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Book title"),
		),
		mcp.WithString("author",
			mcp.Required(),
			mcp.Description("Author name"),
		),
		mcp.WithString("why",
			mcp.Description("Why this book belongs in the stack"),
		),
		mcp.WithString("difficulty",
			mcp.Description("Difficulty level, defaults to moderate"),
			mcp.Enum("light", "moderate", "challenging"),
		),
	)
}

// Handle processes the add_book_to_stack tool call.
func (t *AddBookToStackTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	book, total, err := t.lib.AddBookToStack(
		req.GetString("domain", ""),
		req.GetString("title", ""),
		req.GetString("author", ""),
		req.GetString("why", ""),
		req.GetString("difficulty", ""),
	)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"status":         "added",
		"domain":         req.GetString("domain", ""),
		"book":           book.Title,
		"position":       book.Position,
		"total_in_stack": total,
	})
}
