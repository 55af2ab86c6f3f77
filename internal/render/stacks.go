package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ljbatista/shelfmate/internal/library"
)

// Stack renders one domain's reading stack document.
func Stack(domainName string, stack *library.Stack) string {
	lines := []string{
		fmt.Sprintf("# %s Reading Stack", domainName),
		"",
		fmt.Sprintf("*Generated: %s*", datePart(stack.GeneratedAt)),
		"",
	}

	if stack.Description != "" {
		lines = append(lines, stack.Description, "")
	}

	lines = append(lines,
		"---",
		"",
		fmt.Sprintf("## Books (%d total)", len(stack.Books)),
		"",
	)

	for i, book := range stack.Books {
		difficulty := book.Difficulty
		if difficulty == "" {
			difficulty = "moderate"
		}
		lines = append(lines,
			fmt.Sprintf("### %d. %s", i+1, book.Title),
			fmt.Sprintf("**%s** %s %s", book.Author, difficultyGlyph(difficulty), difficulty),
			"",
		)
		if book.Why != "" {
			lines = append(lines, fmt.Sprintf("> %s", book.Why), "")
		}
		if book.TimeEstimate != "" {
			lines = append(lines, fmt.Sprintf("- **Time**: %s", book.TimeEstimate))
		}
		if book.CraftFocus != "" {
			lines = append(lines, fmt.Sprintf("- **Focus**: %s", book.CraftFocus))
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

// StacksIndex renders the index document summarizing every stack.
// Domains are listed in sorted key order for stable output.
func StacksIndex(all *library.Bookstacks) string {
	lines := []string{
		"# My Reading Stacks",
		"",
		"Overview of all curated book stacks.",
		"",
		"---",
		"",
	}

	domains := make([]string, 0, len(all.Stacks))
	for id := range all.Stacks {
		domains = append(domains, id)
	}
	sort.Strings(domains)

	for _, id := range domains {
		stack := all.Stacks[id]
		lines = append(lines,
			fmt.Sprintf("## [%s](%s.md)", library.DisplayName(id), id),
			fmt.Sprintf("- **Books**: %d", len(stack.Books)),
		)
		if stack.Description != "" {
			lines = append(lines, fmt.Sprintf("- %s", stack.Description))
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
