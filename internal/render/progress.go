package render

import (
	"fmt"
	"strings"

	"github.com/ljbatista/shelfmate/internal/library"
)

// Progress renders the current-progress snapshot. now is the "last
// updated" stamp supplied by the caller, so output is a pure function of
// the arguments. A nil profile renders the overview without domain
// breakdowns.
func Progress(log *library.ReadingLog, p *library.Profile, now string) string {
	lines := []string{
		"# Reading Progress",
		"",
		fmt.Sprintf("*Last updated: %s*", minutePart(now)),
		"",
		"## Overview",
		"",
		fmt.Sprintf("**Total books read**: %d", len(log.Entries)),
		"",
		"---",
		"",
		"## By Domain",
		"",
	}

	var domains []library.Domain
	if p != nil {
		domains = p.Goals.Domains
	}

	for _, d := range domains {
		name := d.Name
		if name == "" {
			name = d.ID
		}

		var domainEntries []*library.LogEntry
		for _, e := range log.Entries {
			if e.Domain == d.ID {
				domainEntries = append(domainEntries, e)
			}
		}
		completed := len(domainEntries)

		status := fmt.Sprintf("%d books", completed)
		if d.TargetBooks > 0 {
			pct := completed * 100 / d.TargetBooks
			if pct > 100 {
				pct = 100
			}
			filled := pct / 10
			bar := strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
			status = fmt.Sprintf("[%s] %d/%d", bar, completed, d.TargetBooks)
		}

		lines = append(lines, fmt.Sprintf("### %s", name), status, "")

		if len(domainEntries) > 0 {
			start := 0
			if len(domainEntries) > 3 {
				start = len(domainEntries) - 3
			}
			for _, e := range domainEntries[start:] {
				lines = append(lines, fmt.Sprintf("- %s", e.Title))
			}
			lines = append(lines, "")
		}
	}

	if len(log.Entries) > 0 {
		lines = append(lines, "---", "", "## Recent Activity", "")
		start := 0
		if len(log.Entries) > 5 {
			start = len(log.Entries) - 5
		}
		for _, e := range log.Entries[start:] {
			lines = append(lines, fmt.Sprintf("- **%s**: %s", datePart(e.FinishedAt), e.Title))
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
