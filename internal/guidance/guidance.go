// Package guidance serves the conversational prompt templates bundled
// with the binary.
//
// The templates are opaque text blobs keyed by name — the data layer
// never interprets them, it only hands them to the hosting agent. A
// missing name yields a placeholder string rather than an error; callers
// treat the placeholder as a soft miss, never as real guidance.
package guidance

import (
	"embed"
	"fmt"
)

//go:embed templates/*.md
var templates embed.FS

// Load returns the named prompt template, or a "not found" placeholder.
func Load(name string) string {
	data, err := templates.ReadFile("templates/" + name + ".md")
	if err != nil {
		return fmt.Sprintf("Prompt '%s' not found", name)
	}
	return string(data)
}
