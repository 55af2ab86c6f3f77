// Package server wires all MCP components and creates the server instance.
//
// This is the composition root (DIP): it creates concrete implementations
// and injects them into the tools/prompts/resources that depend on
// abstractions. No business logic lives here — only wiring.
package server

import (
	"fmt"

	"github.com/ljbatista/shelfmate/internal/config"
	"github.com/ljbatista/shelfmate/internal/library"
	"github.com/ljbatista/shelfmate/internal/prompts"
	"github.com/ljbatista/shelfmate/internal/render"
	"github.com/ljbatista/shelfmate/internal/resources"
	"github.com/ljbatista/shelfmate/internal/tools"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
func New() (*server.MCPServer, error) {
	// --- Create shared dependencies ---

	paths, err := config.Resolve()
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}
	if err := paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("provisioning data directory: %w", err)
	}

	store := library.NewFileStore(paths.DataDir)
	docs := render.NewDocs(paths)
	lib := library.New(store, docs)

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"shelfmate",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register interview tools ---

	startInterview := tools.NewStartInterviewTool()
	s.AddTool(startInterview.Definition(), startInterview.Handle)

	saveProfile := tools.NewSaveProfileTool(lib, paths)
	s.AddTool(saveProfile.Definition(), saveProfile.Handle)

	getProfile := tools.NewGetProfileTool(lib)
	s.AddTool(getProfile.Definition(), getProfile.Handle)

	// --- Register context tools ---

	extractContext := tools.NewExtractContextTool(lib)
	s.AddTool(extractContext.Definition(), extractContext.Handle)

	updateLatent := tools.NewUpdateLatentFeaturesTool(lib)
	s.AddTool(updateLatent.Definition(), updateLatent.Handle)

	// --- Register syllabus tools ---

	buildStack := tools.NewBuildBookstackTool(lib)
	s.AddTool(buildStack.Definition(), buildStack.Handle)

	saveStack := tools.NewSaveBookstackTool(lib, paths)
	s.AddTool(saveStack.Definition(), saveStack.Handle)

	getStacks := tools.NewGetBookstacksTool(lib)
	s.AddTool(getStacks.Definition(), getStacks.Handle)

	nextBook := tools.NewGetNextBookTool(lib)
	s.AddTool(nextBook.Definition(), nextBook.Handle)

	addBook := tools.NewAddBookToStackTool(lib)
	s.AddTool(addBook.Definition(), addBook.Handle)

	// --- Register reflection tools ---

	logBook := tools.NewLogBookTool(lib, paths)
	s.AddTool(logBook.Definition(), logBook.Handle)

	startReflection := tools.NewStartReflectionTool(lib)
	s.AddTool(startReflection.Definition(), startReflection.Handle)

	saveReflection := tools.NewSaveReflectionTool(lib, paths)
	s.AddTool(saveReflection.Definition(), saveReflection.Handle)

	getLog := tools.NewGetReadingLogTool(lib)
	s.AddTool(getLog.Definition(), getLog.Handle)

	getProgress := tools.NewGetProgressTool(lib, paths)
	s.AddTool(getProgress.Definition(), getProgress.Handle)

	// --- Register pattern and author tools ---

	analyze := tools.NewAnalyzePatternsTool(lib, paths)
	s.AddTool(analyze.Definition(), analyze.Handle)

	authorProfile := tools.NewGetAuthorProfileTool(lib, paths)
	s.AddTool(authorProfile.Definition(), authorProfile.Handle)

	authorNotes := tools.NewUpdateAuthorNotesTool(lib, paths)
	s.AddTool(authorNotes.Definition(), authorNotes.Handle)

	favoriteAuthors := tools.NewGetFavoriteAuthorsTool(lib, paths)
	s.AddTool(favoriteAuthors.Definition(), favoriteAuthors.Handle)

	// --- Register connection tools ---

	addConnection := tools.NewAddBookConnectionTool(lib)
	s.AddTool(addConnection.Definition(), addConnection.Handle)

	similarBooks := tools.NewGetSimilarBooksTool(lib)
	s.AddTool(similarBooks.Definition(), similarBooks.Handle)

	// --- Register prompts ---

	startPrompt := prompts.NewStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	statusPrompt := prompts.NewStatusPrompt()
	s.AddPrompt(statusPrompt.Definition(), statusPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(lib)
	s.AddResource(resourceHandler.ProfileResource(), resourceHandler.HandleProfile)
	s.AddResource(resourceHandler.StacksResource(), resourceHandler.HandleStacks)
	s.AddResource(resourceHandler.RecentLogResource(), resourceHandler.HandleRecentLog)

	return s, nil
}

// serverInstructions returns the system instructions that tell the AI
// how to use the reading companion effectively.
func serverInstructions() string {
	return `You have access to Shelfmate, a personal reading companion MCP server.

## What Shelfmate Is

Shelfmate is a DATA LAYER, not a recommender. It stores the user's
reading profile, curated bookstacks, reading log, author profiles, book
connections, and analyzed patterns — and keeps a set of human-readable
markdown documents in sync with every change. YOU do the thinking
(interviewing, recommending, reflecting); the tools store what you
produce and hand back context.

## Workflow Stages

1. INTERVIEW — call start_interview, run the conversation, then
   save_profile with what you learned. Saving again replaces the whole
   profile, latent features included.
2. CONTEXT — call extract_context, analyze the conversation for latent
   features (energy patterns, abandonment triggers, real vs aspirational
   taste), then update_latent_features.
3. SYLLABUS — call build_bookstack for a domain; it returns the prompt
   plus the user's full reading history. Generate an ordered stack
   yourself and persist it with save_bookstack. Use add_book_to_stack for
   one-off additions and get_next_book when the user asks what to read.
4. REFLECTION — log finished books with log_book (this also updates the
   author's profile). Offer a reflection: start_reflection returns the
   guide plus the log entry; save_reflection persists the outcome.
5. PATTERNS — after a few books, run analyze_reading_patterns. Use
   get_author_profile, update_author_notes, get_favorite_authors, and the
   connection tools (add_book_connection, get_similar_books) to build the
   web of taste over time.

## Important Rules

- NEVER call a save tool with placeholder content — generate real
  content from the conversation first.
- Tools that need a profile return an "error" + "suggestion" payload
  when none exists. Relay the suggestion; don't treat it as a failure.
- Ratings are 1-5. Omit the rating rather than guessing one.
- When logging a book, use the exact title the user gave — lookups by
  title are how reflections and connections find it later.
- Domains are the ids from the profile (e.g. "classic_lit"). Check
  get_profile if unsure which domains exist.

## Resources

- profile://current — the reading profile
- bookstacks://all — every saved stack
- log://recent — the last 10 logged books

## Slash Prompts

- reading-start — full onboarding (interview → context → first stack)
- reading-status — progress check-in across goals and stacks`
}
