// Package prompts implements the MCP prompt handlers.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// StartPrompt handles the reading-start MCP prompt.
// It guides the AI through onboarding: interview, context extraction,
// and the first bookstack.
type StartPrompt struct{}

// NewStartPrompt creates a StartPrompt.
func NewStartPrompt() *StartPrompt {
	return &StartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("reading-start",
		mcp.WithPromptDescription(
			"Set up your reading companion from scratch. "+
				"Runs the goal interview, extracts deeper context, and builds "+
				"your first curated bookstack.",
		),
		mcp.WithArgument("focus",
			mcp.ArgumentDescription("Optional reading area to start with (e.g., 'classic literature')"),
		),
	)
}

// Handle processes the reading-start prompt request.
func (p *StartPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	focus := ""
	if args := req.Params.Arguments; args != nil {
		focus = args["focus"]
	}

	focusLine := ""
	if focus != "" {
		focusLine = fmt.Sprintf("I'm especially interested in %s — make sure that becomes one of my domains.\n\n", focus)
	}

	return &mcp.GetPromptResult{
		Description: "Set up the reading companion",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"I want to set up my reading companion.\n\n" +
						focusLine +
						"Please:\n" +
						"1. Run `start_interview` and conduct the reading goal interview with me\n" +
						"2. When you have enough, run `save_profile` with what you learned\n" +
						"3. Run `extract_context`, analyze the conversation, and run `update_latent_features` with the results\n" +
						"4. Pick my most important domain, run `build_bookstack` for it, and propose a stack\n" +
						"5. Once I approve the stack, run `save_bookstack` to persist it",
				),
			},
		},
	}, nil
}
