package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ljbatista/shelfmate/internal/library"
)

// Author renders an author's document, joining each book back to its log
// entry for dates and ratings.
func Author(a *library.AuthorProfile, log *library.ReadingLog) string {
	lines := []string{
		fmt.Sprintf("# %s", a.Name),
		"",
		fmt.Sprintf("**Books Read**: %d", len(a.BooksRead)),
	}

	if a.AverageRating != nil {
		full := int(*a.AverageRating)
		half := ""
		if *a.AverageRating-float64(full) >= 0.5 {
			half = "½"
		}
		lines = append(lines, fmt.Sprintf("**Average Rating**: %s%s", stars(full), half))
	}

	lines = append(lines,
		fmt.Sprintf("**Affinity**: %s", library.DisplayName(a.Affinity)),
		"",
		"---",
		"",
	)

	if len(a.BooksRead) > 0 {
		lines = append(lines, "## Books You've Read", "")
		for _, title := range a.BooksRead {
			entry := entryByTitle(log, title)
			if entry == nil {
				lines = append(lines, fmt.Sprintf("- %s", title))
				continue
			}
			ratingStr := ""
			if entry.Rating > 0 {
				ratingStr = " - " + stars(entry.Rating)
			}
			lines = append(lines, fmt.Sprintf("- **%s** (%s)%s", title, monthPart(entry.FinishedAt), ratingStr))
		}
		lines = append(lines, "")
	}

	if len(a.StyleNotes) > 0 {
		lines = append(lines, "## Style Notes", "")
		if prose := styleNoteText(a.StyleNotes, "prose"); prose != "" {
			lines = append(lines, fmt.Sprintf("- **Prose**: %s", prose))
		}
		if themes := styleNoteList(a.StyleNotes, "themes"); themes != "" {
			lines = append(lines, fmt.Sprintf("- **Themes**: %s", themes))
		}
		if strengths := styleNoteList(a.StyleNotes, "strengths"); strengths != "" {
			lines = append(lines, fmt.Sprintf("- **Strengths**: %s", strengths))
		}
		if similar := styleNoteList(a.StyleNotes, "comparable_to"); similar != "" {
			lines = append(lines, fmt.Sprintf("- **Similar to**: %s", similar))
		}
		lines = append(lines, "")
	}

	if a.YourNotes != "" {
		lines = append(lines, "## Your Notes", "", a.YourNotes, "")
	}

	return strings.Join(lines, "\n")
}

// AuthorsIndex renders the authors index grouped by affinity tier. Within
// a tier authors sort by book count descending, not by rating — that
// ordering belongs to the favorite-authors view.
func AuthorsIndex(all *library.Authors) string {
	lines := []string{
		"# Authors You've Read",
		"",
		fmt.Sprintf("Total authors: %d", len(all.Authors)),
		"",
		"---",
		"",
	}

	currentAffinity := ""
	for _, slug := range indexOrder(all) {
		a := all.Authors[slug]
		affinity := a.Affinity
		if affinity == "" {
			affinity = library.AffinityUnknown
		}
		if affinity != currentAffinity {
			currentAffinity = affinity
			lines = append(lines,
				fmt.Sprintf("## %s %s Affinity", affinityGlyph(affinity), library.DisplayName(affinity)),
				"",
			)
		}

		ratingStr := ""
		if a.AverageRating != nil {
			ratingStr = fmt.Sprintf(" (avg ⭐%s)", formatRating(*a.AverageRating))
		}
		lines = append(lines, fmt.Sprintf("- [%s](%s.md) - %d books%s", a.Name, slug, a.TotalBooks, ratingStr))
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

// indexOrder sorts author slugs for the index: affinity tier, then book
// count descending, with a name tie-break for determinism.
func indexOrder(all *library.Authors) []string {
	slugs := make([]string, 0, len(all.Authors))
	for slug := range all.Authors {
		slugs = append(slugs, slug)
	}
	sort.Slice(slugs, func(i, j int) bool {
		a, b := all.Authors[slugs[i]], all.Authors[slugs[j]]
		if ra, rb := library.AffinityRank(a.Affinity), library.AffinityRank(b.Affinity); ra != rb {
			return ra < rb
		}
		if a.TotalBooks != b.TotalBooks {
			return a.TotalBooks > b.TotalBooks
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
	return slugs
}

func entryByTitle(log *library.ReadingLog, title string) *library.LogEntry {
	for _, e := range log.Entries {
		if e.Title == title {
			return e
		}
	}
	return nil
}

// styleNoteText reads a scalar style note.
func styleNoteText(notes map[string]any, key string) string {
	s, _ := notes[key].(string)
	return s
}

// styleNoteList joins a list-valued style note with commas.
func styleNoteList(notes map[string]any, key string) string {
	raw, ok := notes[key].([]any)
	if !ok {
		return ""
	}
	var parts []string
	for _, v := range raw {
		if s, ok := v.(string); ok {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// formatRating renders an average rating to one decimal place
// (4.0 → "4.0", 4.5 → "4.5").
func formatRating(avg float64) string {
	return fmt.Sprintf("%.1f", avg)
}
