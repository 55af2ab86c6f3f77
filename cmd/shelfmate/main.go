// Shelfmate: Personal Reading Companion MCP Server
//
// An MCP server that gives any AI assistant a persistent data layer for
// reading life: profile, curated bookstacks, reading log, author
// profiles, book connections, and pattern analysis — with markdown
// documents kept in sync alongside the data.
//
// Usage:
//
//	shelfmate serve    # Start MCP server (stdio transport)
package main

import (
	"fmt"
	"os"

	shelfserver "github.com/ljbatista/shelfmate/internal/server"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("shelfmate v%s\n", shelfserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	s, err := shelfserver.New()
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	return server.ServeStdio(s)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Shelfmate v%s — Personal Reading Companion MCP Server

Usage:
  shelfmate serve    Start the MCP server (stdio transport)

Configuration:
  Data lives in ~/shelfmate-data by default. Override with the
  SHELFMATE_DATA environment variable or the data_dir key in
  ~/.config/shelfmate/config.yaml.

  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "shelfmate": {
        "command": "shelfmate",
        "args": ["serve"]
      }
    }
  }
`, shelfserver.Version)
}
