package render

import (
	"fmt"
	"strings"

	"github.com/ljbatista/shelfmate/internal/library"
)

// nextAppetiteLabels maps the appetite enum to display text. Unrecognized
// values render as-is.
var nextAppetiteLabels = map[string]string{
	"more_like_this":      "Ready for more like this",
	"ready_for_challenge": "Ready for a challenge",
	"palette_cleanser":    "Need something different",
}

// Reflection renders a book's reflection document. Entries without a
// reflection get a placeholder inviting one.
func Reflection(entry *library.LogEntry) string {
	lines := []string{
		fmt.Sprintf("# %s", entry.Title),
		"",
		fmt.Sprintf("**Author**: %s", entry.Author),
		fmt.Sprintf("**Domain**: %s", library.DisplayName(entry.Domain)),
		fmt.Sprintf("**Finished**: %s", datePart(entry.FinishedAt)),
	}

	if entry.Rating > 0 {
		lines = append(lines, fmt.Sprintf("**Rating**: %s", stars(entry.Rating)))
	}

	lines = append(lines, "", "---", "")

	r := entry.Reflection
	if r == nil {
		lines = append(lines,
			"*No reflection added yet. Use 'reflect on [title]' to add one.*",
			"",
		)
		return strings.Join(lines, "\n")
	}

	if r.KeyTakeaway != "" {
		lines = append(lines, "## Key Takeaway", "", r.KeyTakeaway, "")
	}

	if len(r.CraftLessons) > 0 {
		lines = append(lines, "## Craft Lessons", "")
		for _, lesson := range r.CraftLessons {
			lines = append(lines, fmt.Sprintf("- %s", lesson))
		}
		lines = append(lines, "")
	}

	if len(r.PersonalInsights) > 0 {
		lines = append(lines, "## Personal Insights", "")
		for _, insight := range r.PersonalInsights {
			lines = append(lines, fmt.Sprintf("- %s", insight))
		}
		lines = append(lines, "")
	}

	if len(r.FavoriteQuotes) > 0 {
		lines = append(lines, "## Favorite Quotes", "")
		for _, quote := range r.FavoriteQuotes {
			lines = append(lines, fmt.Sprintf("> %s", quote), "")
		}
	}

	if r.NextAppetite != "" {
		label, ok := nextAppetiteLabels[r.NextAppetite]
		if !ok {
			label = r.NextAppetite
		}
		lines = append(lines, "## What's Next", "", label, "")
	}

	return strings.Join(lines, "\n")
}

// ReflectionsIndex renders the reflections index grouped by domain, in
// first-logged domain order.
func ReflectionsIndex(log *library.ReadingLog) string {
	lines := []string{
		"# My Book Reflections",
		"",
		fmt.Sprintf("Total books read: %d", len(log.Entries)),
		"",
		"---",
		"",
	}

	var domainOrder []string
	byDomain := make(map[string][]*library.LogEntry)
	for _, entry := range log.Entries {
		domain := entry.Domain
		if domain == "" {
			domain = "other"
		}
		if _, ok := byDomain[domain]; !ok {
			domainOrder = append(domainOrder, domain)
		}
		byDomain[domain] = append(byDomain[domain], entry)
	}

	for _, domain := range domainOrder {
		lines = append(lines, fmt.Sprintf("## %s", library.DisplayName(domain)), "")
		for _, entry := range byDomain[domain] {
			ratingStr := ""
			if entry.Rating > 0 {
				ratingStr = " " + stars(entry.Rating)
			}
			mark := "○"
			if entry.Reflection != nil {
				mark = "✓"
			}
			lines = append(lines, fmt.Sprintf("- [%s](%s.md)%s %s", entry.Title, library.Slugify(entry.Title), ratingStr, mark))
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
