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

// StartInterviewTool handles the start_interview MCP tool.
// It returns the interview prompt that guides the profile conversation.
type StartInterviewTool struct{}

// NewStartInterviewTool creates a StartInterviewTool.
func NewStartInterviewTool() *StartInterviewTool {
	return &StartInterviewTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *StartInterviewTool) Definition() mcp.Tool {
	return mcp.NewTool("start_interview",
		mcp.WithDescription(
			"Begin the reading goal interview. "+
				"Returns the interview prompt to guide the conversation. "+
				"Use this when the user says 'interview me' or 'set up my profile'.",
		),
	)
}

// Handle processes the start_interview tool call.
func (t *StartInterviewTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(guidance.Load("interviewer")), nil
}

// SaveProfileTool handles the save_profile MCP tool.
type SaveProfileTool struct {
	lib   *library.Library
	paths config.Paths
}

// NewSaveProfileTool creates a SaveProfileTool with its dependencies.
func NewSaveProfileTool(lib *library.Library, paths config.Paths) *SaveProfileTool {
	return &SaveProfileTool{lib: lib, paths: paths}
}

// Definition returns the MCP tool definition for registration.
func (t *SaveProfileTool) Definition() mcp.Tool {
	return mcp.NewTool("save_profile",
		mcp.WithDescription(
			"Save the user's reading profile after the interview. "+
				"Replaces any existing profile entirely, including previously "+
				"extracted latent features.",
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("User's name"),
		),
		mcp.WithArray("domains",
			mcp.Required(),
			mcp.Description("Reading domains with goals. Each domain needs: "+
				"id (short identifier like 'classic_lit'), name (display name), "+
				"purpose (why they want to read in this area), "+
				"target_books (number of books they aim to read)"),
			mcp.Items(map[string]any{"type": "object"}),
		),
		mcp.WithObject("preferences",
			mcp.Description("Reading preferences: pacing (slow_deep | steady | fast_volume), "+
				"challenge_tolerance (low | medium | high), parallel_books (number)"),
		),
		mcp.WithObject("context",
			mcp.Description("Current context: mood (current reading mood), "+
				"avoidances (list of things to avoid)"),
		),
	)
}

// Handle processes the save_profile tool call.
func (t *SaveProfileTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")

	var domains []library.Domain
	for _, raw := range listArg(req, "domains") {
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		domains = append(domains, library.Domain{
			ID:          getString(m, "id"),
			Name:        getString(m, "name"),
			Purpose:     getString(m, "purpose"),
			TargetBooks: getInt(m, "target_books"),
			Why:         getString(m, "why"),
		})
	}

	profile, err := t.lib.SaveProfile(name, domains, objectArg(req, "preferences"), objectArg(req, "context"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	domainNames := make([]string, 0, len(profile.Goals.Domains))
	for _, d := range profile.Goals.Domains {
		if d.Name != "" {
			domainNames = append(domainNames, d.Name)
		} else {
			domainNames = append(domainNames, d.ID)
		}
	}

	return jsonResult(map[string]any{
		"status":  "saved",
		"message": fmt.Sprintf("Profile created for %s", name),
		"domains": domainNames,
		"files_created": []string{
			filepath.Join(t.paths.DataDir, "profile.json"),
			filepath.Join(t.paths.DataDir, "profile.md"),
		},
		"next_step": "Run extract_context to analyze deeper patterns, then build_bookstack for recommendations",
	})
}

// GetProfileTool handles the get_profile MCP tool.
type GetProfileTool struct {
	lib *library.Library
}

// NewGetProfileTool creates a GetProfileTool with its dependencies.
func NewGetProfileTool(lib *library.Library) *GetProfileTool {
	return &GetProfileTool{lib: lib}
}

// Definition returns the MCP tool definition for registration.
func (t *GetProfileTool) Definition() mcp.Tool {
	return mcp.NewTool("get_profile",
		mcp.WithDescription("Retrieve the current user profile."),
	)
}

// Handle processes the get_profile tool call.
func (t *GetProfileTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	profile, err := t.lib.Profile()
	if errors.Is(err, library.ErrNoProfile) {
		return softError("No profile found. Run start_interview first.", "")
	}
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	return jsonResult(profile)
}
