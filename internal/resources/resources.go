// Package resources implements the MCP read-only resource handlers.
//
// Resources expose entity state for context without side effects — no
// document rendering, no mutation. They use URI-based addressing
// (profile://..., bookstacks://..., log://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ljbatista/shelfmate/internal/library"
	"github.com/mark3labs/mcp-go/mcp"
)

// recentLogLimit caps the log://recent resource.
const recentLogLimit = 10

// Handler serves the reading companion's resource endpoints.
type Handler struct {
	lib *library.Library
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(lib *library.Library) *Handler {
	return &Handler{lib: lib}
}

// ProfileResource returns the MCP resource definition for the profile.
func (h *Handler) ProfileResource() mcp.Resource {
	return mcp.NewResource(
		"profile://current",
		"Current Reading Profile",
		mcp.WithResourceDescription("The user's reading profile: identity, domains, preferences, and latent features"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleProfile returns the current profile as JSON, or a placeholder
// message when no profile exists yet.
func (h *Handler) HandleProfile(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	profile, err := h.lib.Profile()
	if errors.Is(err, library.ErrNoProfile) {
		return messageResource(req.Params.URI, "No profile yet. Run start_interview to create one.")
	}
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	return jsonResource(req.Params.URI, profile)
}

// StacksResource returns the MCP resource definition for all bookstacks.
func (h *Handler) StacksResource() mcp.Resource {
	return mcp.NewResource(
		"bookstacks://all",
		"All Bookstacks",
		mcp.WithResourceDescription("All curated reading stacks across domains"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleStacks returns all bookstacks as JSON.
func (h *Handler) HandleStacks(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	stacks, err := h.lib.Bookstacks()
	if err != nil {
		return nil, fmt.Errorf("loading bookstacks: %w", err)
	}
	if len(stacks.Stacks) == 0 {
		return messageResource(req.Params.URI, "No bookstacks yet. Use build_bookstack to create some.")
	}
	return jsonResource(req.Params.URI, stacks)
}

// RecentLogResource returns the MCP resource definition for recent log
// entries.
func (h *Handler) RecentLogResource() mcp.Resource {
	return mcp.NewResource(
		"log://recent",
		"Recent Reading Log",
		mcp.WithResourceDescription(fmt.Sprintf("The last %d reading log entries", recentLogLimit)),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleRecentLog returns the most recent log entries as JSON.
func (h *Handler) HandleRecentLog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	entries, err := h.lib.RecentEntries(recentLogLimit)
	if err != nil {
		return nil, fmt.Errorf("loading reading log: %w", err)
	}
	if len(entries) == 0 {
		return messageResource(req.Params.URI, "No books logged yet.")
	}
	return jsonResource(req.Params.URI, entries)
}

// jsonResource wraps a payload as pretty-printed JSON resource contents.
func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling resource: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// messageResource wraps a placeholder message in the same JSON shape so
// consumers never need a separate error path.
func messageResource(uri, message string) ([]mcp.ResourceContents, error) {
	return jsonResource(uri, map[string]any{"message": message})
}
