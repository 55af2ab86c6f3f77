package render

import (
	"fmt"
	"strings"

	"github.com/ljbatista/shelfmate/internal/library"
)

// Profile renders the reader profile document.
func Profile(p *library.Profile) string {
	name := p.Identity.Name
	if name == "" {
		name = "Reader"
	}

	lines := []string{
		"# My Reading Profile",
		"",
		fmt.Sprintf("**Name**: %s", name),
		fmt.Sprintf("**Created**: %s", datePart(p.CreatedAt)),
		"",
		"---",
		"",
		"## Reading Domains",
		"",
	}

	for _, d := range p.Goals.Domains {
		displayName := d.Name
		if displayName == "" {
			displayName = d.ID
		}
		purpose := d.Purpose
		if purpose == "" {
			purpose = "Not specified"
		}
		lines = append(lines,
			fmt.Sprintf("### %s", displayName),
			fmt.Sprintf("- **Purpose**: %s", purpose),
			fmt.Sprintf("- **Target**: %d books", d.TargetBooks),
		)
		if d.Why != "" {
			lines = append(lines, fmt.Sprintf("- **Why**: %s", d.Why))
		}
		lines = append(lines, "")
	}

	lines = append(lines,
		"---",
		"",
		"## Preferences",
		"",
		fmt.Sprintf("- **Pacing**: %s", stringField(p.Preferences, "pacing", "Not set")),
		fmt.Sprintf("- **Challenge tolerance**: %s", stringField(p.Preferences, "challenge_tolerance", "Not set")),
		fmt.Sprintf("- **Parallel books**: %s", numberField(p.Preferences, "parallel_books", "1")),
		"",
	)

	if avoidances := p.Avoidances(); len(avoidances) > 0 {
		lines = append(lines, "## Avoidances", "")
		for _, item := range avoidances {
			lines = append(lines, fmt.Sprintf("- %s", item))
		}
		lines = append(lines, "")
	}

	if len(p.LatentFeatures) > 0 {
		lines = append(lines,
			"---",
			"",
			"## Reader Profile (Extracted)",
			"",
			fmt.Sprintf("- **Exploration score**: %s", anyField(p.LatentFeatures, "exploration_score", "N/A")),
			fmt.Sprintf("- **Style**: %s", anyField(p.LatentFeatures, "depth_vs_breadth", "N/A")),
			fmt.Sprintf("- **Archetype**: %s", anyField(p.LatentFeatures, "reader_archetype", "N/A")),
			"",
		)
		if notes := stringField(p.LatentFeatures, "notes", ""); notes != "" {
			lines = append(lines, fmt.Sprintf("**Notes**: %s", notes), "")
		}
	}

	return strings.Join(lines, "\n")
}

// stringField reads a string key from an open record with a fallback.
func stringField(m map[string]any, key, fallback string) string {
	if s, ok := m[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

// numberField reads a numeric key from an open record. JSON numbers
// arrive as float64; whole values render without a decimal part.
func numberField(m map[string]any, key, fallback string) string {
	v, ok := m[key]
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case float64:
		if n == float64(int64(n)) {
			return fmt.Sprintf("%d", int64(n))
		}
		return fmt.Sprintf("%g", n)
	case int:
		return fmt.Sprintf("%d", n)
	default:
		return fallback
	}
}

// anyField renders an arbitrary open-record value with a fallback.
func anyField(m map[string]any, key, fallback string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return fallback
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
