// Package render generates the human-readable markdown documents derived
// from entity state.
//
// Every renderer is a pure function from entity state to a document
// string: rendering the same state twice produces byte-identical output.
// The Docs type implements library.DocSync and is the only thing here
// with side effects — it writes the rendered documents (and the index
// documents aggregating each collection) to the configured layout.
package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ljbatista/shelfmate/internal/config"
	"github.com/ljbatista/shelfmate/internal/library"
)

// Docs writes derived documents under the configured data layout.
type Docs struct {
	paths config.Paths
}

// NewDocs creates a document syncer over the given layout.
func NewDocs(paths config.Paths) *Docs {
	return &Docs{paths: paths}
}

// SyncProfile rewrites profile.md.
func (d *Docs) SyncProfile(p *library.Profile) error {
	return d.write(filepath.Join(d.paths.DataDir, "profile.md"), Profile(p))
}

// SyncStack rewrites the stack document and the bookstacks index.
func (d *Docs) SyncStack(domainID, domainName string, stack *library.Stack, all *library.Bookstacks) error {
	if err := d.write(filepath.Join(d.paths.StacksDir(), domainID+".md"), Stack(domainName, stack)); err != nil {
		return err
	}
	return d.write(filepath.Join(d.paths.StacksDir(), "_index.md"), StacksIndex(all))
}

// SyncReflection rewrites the book's reflection document and the
// reflections index.
func (d *Docs) SyncReflection(entry *library.LogEntry, log *library.ReadingLog) error {
	slug := library.Slugify(entry.Title)
	if err := d.write(filepath.Join(d.paths.ProgressDir(), slug+".md"), Reflection(entry)); err != nil {
		return err
	}
	return d.write(filepath.Join(d.paths.ProgressDir(), "_index.md"), ReflectionsIndex(log))
}

// SyncProgress rewrites the current-progress snapshot.
func (d *Docs) SyncProgress(log *library.ReadingLog, p *library.Profile, now string) error {
	return d.write(filepath.Join(d.paths.ProgressDir(), "_current.md"), Progress(log, p, now))
}

// SyncAuthor rewrites the author document and the authors index.
func (d *Docs) SyncAuthor(slug string, a *library.AuthorProfile, log *library.ReadingLog, all *library.Authors) error {
	if err := d.SyncAuthorDoc(slug, a, log); err != nil {
		return err
	}
	return d.write(filepath.Join(d.paths.AuthorsDir(), "_index.md"), AuthorsIndex(all))
}

// SyncAuthorDoc rewrites the author document only.
func (d *Docs) SyncAuthorDoc(slug string, a *library.AuthorProfile, log *library.ReadingLog) error {
	return d.write(filepath.Join(d.paths.AuthorsDir(), slug+".md"), Author(a, log))
}

// SyncPatterns rewrites the insights snapshot.
func (d *Docs) SyncPatterns(p *library.Patterns) error {
	return d.write(filepath.Join(d.paths.ProgressDir(), "_insights.md"), Patterns(p))
}

// write persists one document, provisioning the directory tree first so
// callers never need a separate setup step.
func (d *Docs) write(path, content string) error {
	if err := d.paths.EnsureDirs(); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// datePart trims an RFC3339 timestamp to its date.
func datePart(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}

// minutePart renders an RFC3339 timestamp as "YYYY-MM-DD HH:MM".
func minutePart(ts string) string {
	if len(ts) >= 16 {
		return ts[:10] + " " + ts[11:16]
	}
	return ts
}

// monthPart trims an RFC3339 timestamp to YYYY-MM.
func monthPart(ts string) string {
	if len(ts) >= 7 {
		return ts[:7]
	}
	return ts
}

// stars renders a 1-5 rating as repeated stars.
func stars(rating int) string {
	out := ""
	for i := 0; i < rating; i++ {
		out += "⭐"
	}
	return out
}

// difficultyGlyph maps a difficulty level to its glyph. Unrecognized
// values get the neutral glyph — rendering never fails on bad enums.
func difficultyGlyph(difficulty string) string {
	switch difficulty {
	case "light":
		return "🟢"
	case "moderate":
		return "🟡"
	case "challenging":
		return "🔴"
	default:
		return "⚪"
	}
}

// affinityGlyph maps an affinity tier to its glyph, neutral on anything
// unrecognized.
func affinityGlyph(affinity string) string {
	switch affinity {
	case library.AffinityHigh:
		return "💚"
	case library.AffinityMedium:
		return "💛"
	case library.AffinityLow:
		return "🔶"
	default:
		return "⚪"
	}
}
