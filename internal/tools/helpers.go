// Package tools implements the MCP tool handlers for the reading
// companion.
//
// Design principles:
// - SRP: each file = one workflow stage (interview, context, syllabus, ...)
// - DIP: tools depend on *library.Library for all state; no tool touches
//   storage or markdown directly
//
// Error convention: structural argument problems (missing required
// fields) come back as protocol tool errors; domain preconditions that
// the conversation can recover from (no profile yet, unknown title) come
// back as JSON payloads with "error" and "suggestion" keys, so the host
// can relay the remediation instead of aborting.
package tools

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// jsonResult marshals a payload as the tool's text result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// softError builds the soft error payload for recoverable domain
// preconditions. The call itself succeeds; the payload tells the host
// what to do instead.
func softError(message, suggestion string) (*mcp.CallToolResult, error) {
	payload := map[string]any{"error": message}
	if suggestion != "" {
		payload["suggestion"] = suggestion
	}
	return jsonResult(payload)
}

// intArg reads an integer argument. JSON numbers arrive as float64.
func intArg(req mcp.CallToolRequest, key string, def int) int {
	if v, ok := req.GetArguments()[key].(float64); ok {
		return int(v)
	}
	return def
}

// listArg reads an array argument, nil when absent or mistyped.
func listArg(req mcp.CallToolRequest, key string) []any {
	v, _ := req.GetArguments()[key].([]any)
	return v
}

// objectArg reads an object argument, nil when absent or mistyped.
func objectArg(req mcp.CallToolRequest, key string) map[string]any {
	v, _ := req.GetArguments()[key].(map[string]any)
	return v
}

// stringListArg reads an array-of-strings argument, skipping non-string
// members.
func stringListArg(req mcp.CallToolRequest, key string) []string {
	var out []string
	for _, v := range listArg(req, key) {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// getString reads a string field from a decoded JSON object.
func getString(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// getInt reads an integer field from a decoded JSON object.
func getInt(m map[string]any, key string) int {
	if v, ok := m[key].(float64); ok {
		return int(v)
	}
	return 0
}
