package tools

import (
	"context"
	"fmt"

	"github.com/ljbatista/shelfmate/internal/library"
	"github.com/mark3labs/mcp-go/mcp"
)

// AddBookConnectionTool handles the add_book_connection MCP tool.
type AddBookConnectionTool struct {
	lib *library.Library
}

// NewAddBookConnectionTool creates an AddBookConnectionTool with its
// dependencies.
func NewAddBookConnectionTool(lib *library.Library) *AddBookConnectionTool {
	return &AddBookConnectionTool{lib: lib}
}

// Definition returns the MCP tool definition for registration.
func (t *AddBookConnectionTool) Definition() mcp.Tool {
	return mcp.NewTool("add_book_connection",
		mcp.WithDescription(
			"Add a connection between two books for future recommendations. "+
				"Re-adding the same (from, to) pair updates the existing connection.",
		),
		mcp.WithString("from_book",
			mcp.Required(),
			mcp.Description("Title of the first book"),
		),
		mcp.WithString("to_book",
			mcp.Required(),
			mcp.Description("Title of the second book"),
		),
		mcp.WithString("relationship",
			mcp.Required(),
			mcp.Description("Type of connection: similar_theme (similar themes or topics), "+
				"complements (different angles on same topic), "+
				"next_step (natural progression from first to second), "+
				"contrast (interesting contrast/counterpoint)"),
			mcp.Enum(library.RelSimilarTheme, library.RelComplements, library.RelNextStep, library.RelContrast),
		),
		mcp.WithString("reason",
			mcp.Required(),
			mcp.Description("Why these books are connected"),
		),
		mcp.WithString("strength",
			mcp.Description("Connection strength, defaults to moderate"),
			mcp.Enum("strong", "moderate", "weak"),
		),
	)
}

// Handle processes the add_book_connection tool call.
func (t *AddBookConnectionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from := req.GetString("from_book", "")
	to := req.GetString("to_book", "")

	conn, updated, total, err := t.lib.AddConnection(
		from, to,
		req.GetString("relationship", ""),
		req.GetString("reason", ""),
		req.GetString("strength", ""),
	)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if updated {
		return jsonResult(map[string]any{
			"status":  "updated",
			"message": fmt.Sprintf("Updated connection: %s → %s", from, to),
		})
	}

	return jsonResult(map[string]any{
		"status":            "added",
		"message":           fmt.Sprintf("Connected: %s → %s (%s)", from, to, conn.Relationship),
		"connection":        conn,
		"total_connections": total,
	})
}

// GetSimilarBooksTool handles the get_similar_books MCP tool.
type GetSimilarBooksTool struct {
	lib *library.Library
}

// NewGetSimilarBooksTool creates a GetSimilarBooksTool with its
// dependencies.
func NewGetSimilarBooksTool(lib *library.Library) *GetSimilarBooksTool {
	return &GetSimilarBooksTool{lib: lib}
}

// Definition returns the MCP tool definition for registration.
func (t *GetSimilarBooksTool) Definition() mcp.Tool {
	return mcp.NewTool("get_similar_books",
		mcp.WithDescription(
			"Find books connected to one you've read, in either direction, "+
				"annotated with whether each hit is already in a stack.",
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Title of a book you've read"),
		),
	)
}

// Handle processes the get_similar_books tool call.
func (t *GetSimilarBooksTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")

	conns, err := t.lib.Connections()
	if err != nil {
		return nil, fmt.Errorf("loading connections: %w", err)
	}
	if len(conns.Connections) == 0 {
		return jsonResult(map[string]any{
			"message":    "No book connections recorded yet",
			"suggestion": "Use add_book_connection to link related books",
		})
	}

	related, _, err := t.lib.SimilarBooks(title)
	if err != nil {
		return nil, fmt.Errorf("finding similar books: %w", err)
	}
	if len(related) == 0 {
		return jsonResult(map[string]any{
			"message":    fmt.Sprintf("No connections found for '%s'", title),
			"suggestion": "Use add_book_connection to link this to related books",
		})
	}

	return jsonResult(map[string]any{
		"book":            title,
		"connected_books": related,
		"total":           len(related),
	})
}
