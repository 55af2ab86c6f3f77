package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// StatusPrompt handles the reading-status MCP prompt.
// It asks the AI to assemble a reading check-in from the data layer.
type StatusPrompt struct{}

// NewStatusPrompt creates a StatusPrompt.
func NewStatusPrompt() *StatusPrompt {
	return &StatusPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StatusPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("reading-status",
		mcp.WithPromptDescription(
			"Get a check-in on your reading: progress against goals, "+
				"what's next in each stack, and any patterns worth knowing.",
		),
	)
}

// Handle processes the reading-status prompt request.
func (p *StatusPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Reading check-in",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Give me a check-in on my reading.\n\n" +
						"Please:\n" +
						"1. Run `get_progress` and summarize how I'm doing against my domain goals\n" +
						"2. Run `get_next_book` and tell me what's up next\n" +
						"3. If I've logged enough books, run `analyze_reading_patterns` and mention anything interesting\n" +
						"4. Keep it short — a few sentences per section, no lists of raw data",
				),
			},
		},
	}, nil
}
