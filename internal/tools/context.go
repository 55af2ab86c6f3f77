package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/ljbatista/shelfmate/internal/guidance"
	"github.com/ljbatista/shelfmate/internal/library"
	"github.com/mark3labs/mcp-go/mcp"
)

// ExtractContextTool handles the extract_context MCP tool.
// It hands the host the context-builder prompt plus the current profile;
// the analysis itself happens in the conversation, not here.
type ExtractContextTool struct {
	lib *library.Library
}

// NewExtractContextTool creates an ExtractContextTool with its dependencies.
func NewExtractContextTool(lib *library.Library) *ExtractContextTool {
	return &ExtractContextTool{lib: lib}
}

// Definition returns the MCP tool definition for registration.
func (t *ExtractContextTool) Definition() mcp.Tool {
	return mcp.NewTool("extract_context",
		mcp.WithDescription(
			"Analyze the profile to extract latent features. "+
				"Returns the context builder prompt along with the current profile. "+
				"After analysis, call update_latent_features with the results.",
		),
	)
}

// Handle processes the extract_context tool call.
func (t *ExtractContextTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	profile, err := t.lib.Profile()
	if errors.Is(err, library.ErrNoProfile) {
		return softError("No profile found. Run start_interview first.", "")
	}
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}

	return jsonResult(map[string]any{
		"instruction": "Analyze this profile and identify latent features",
		"prompt":      guidance.Load("context_builder"),
		"profile":     profile,
	})
}

// UpdateLatentFeaturesTool handles the update_latent_features MCP tool.
type UpdateLatentFeaturesTool struct {
	lib *library.Library
}

// NewUpdateLatentFeaturesTool creates an UpdateLatentFeaturesTool with its
// dependencies.
func NewUpdateLatentFeaturesTool(lib *library.Library) *UpdateLatentFeaturesTool {
	return &UpdateLatentFeaturesTool{lib: lib}
}

// Definition returns the MCP tool definition for registration.
func (t *UpdateLatentFeaturesTool) Definition() mcp.Tool {
	return mcp.NewTool("update_latent_features",
		mcp.WithDescription(
			"Update the profile with extracted latent features. "+
				"Replaces the whole latent_features mapping.",
		),
		mcp.WithObject("features",
			mcp.Required(),
			mcp.Description("Latent features extracted from analysis"),
		),
	)
}

// Handle processes the update_latent_features tool call.
func (t *UpdateLatentFeaturesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	features := objectArg(req, "features")
	if features == nil {
		features = map[string]any{}
	}

	profile, err := t.lib.UpdateLatentFeatures(features)
	if errors.Is(err, library.ErrNoProfile) {
		return softError("No profile found. Run start_interview first.", "")
	}
	if err != nil {
		return nil, fmt.Errorf("updating latent features: %w", err)
	}

	return jsonResult(map[string]any{
		"status":   "updated",
		"message":  "Latent features saved to profile",
		"features": profile.LatentFeatures,
	})
}
