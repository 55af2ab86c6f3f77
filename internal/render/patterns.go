package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ljbatista/shelfmate/internal/library"
)

// Patterns renders the reading-insights snapshot.
func Patterns(p *library.Patterns) string {
	lines := []string{
		"# Your Reading Patterns",
		"",
		fmt.Sprintf("*Last analyzed: %s*", datePart(p.AnalyzedAt)),
		"",
		"---",
		"",
	}

	set := p.Patterns

	if len(set.ThemesLoved) > 0 {
		lines = append(lines, "## Themes You Love", "")
		top := set.ThemesLoved
		if len(top) > 5 {
			top = top[:5]
		}
		for _, theme := range top {
			lines = append(lines, fmt.Sprintf("- **%s** (%d books, avg ⭐%s)", theme.Theme, theme.Frequency, formatRating(theme.AvgRating)))
		}
		lines = append(lines, "")
	}

	lines = append(lines,
		"## Your Sweet Spot",
		"",
		fmt.Sprintf("- **Preferred difficulty**: %s", library.DisplayName(set.DifficultySweetSpot.Preferred)),
	)
	if byDiff := set.DifficultySweetSpot.SuccessRateByDifficulty; len(byDiff) > 0 {
		lines = append(lines, "", "### Success by Difficulty")
		levels := make([]string, 0, len(byDiff))
		for level := range byDiff {
			levels = append(levels, level)
		}
		sort.Strings(levels)
		for _, level := range levels {
			stats := byDiff[level]
			lines = append(lines, fmt.Sprintf("- %s %s: %d books, avg ⭐%s",
				difficultyGlyph(level), library.DisplayName(level), stats.Completed, formatRating(stats.AvgRating)))
		}
	}
	lines = append(lines, "")

	lines = append(lines,
		"## Pacing",
		"",
		fmt.Sprintf("- **Books logged**: %d", set.PacingInsights.TotalBooks),
		fmt.Sprintf("- **With reflections**: %d", set.PacingInsights.BooksWithReflections),
		"",
	)

	prefs := set.AuthorPreferences
	if prefs.TotalAuthors > 0 {
		lines = append(lines, "## Author Patterns", "")
		if len(prefs.RepeatAuthors) > 0 {
			repeat := prefs.RepeatAuthors
			if len(repeat) > 5 {
				repeat = repeat[:5]
			}
			lines = append(lines, fmt.Sprintf("- **Repeat authors**: %s", strings.Join(repeat, ", ")))
		}
		if len(prefs.HighAffinity) > 0 {
			high := prefs.HighAffinity
			if len(high) > 5 {
				high = high[:5]
			}
			lines = append(lines, fmt.Sprintf("- **High affinity**: %s", strings.Join(high, ", ")))
		}
		lines = append(lines, "")
	}

	if len(set.ThemesAvoided) > 0 {
		lines = append(lines, "## Avoiding", "")
		for _, theme := range set.ThemesAvoided {
			line := fmt.Sprintf("- %s", theme.Theme)
			if theme.Reason != "" {
				line += fmt.Sprintf(" (%s)", theme.Reason)
			}
			lines = append(lines, line)
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
