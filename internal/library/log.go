package library

import (
	"fmt"
	"strings"
)

// Progress status thresholds (fixed, see ProgressReport).
const (
	StatusNotStarted = "not_started"
	StatusCompleted  = "completed"
	StatusOnTrack    = "on_track"
	StatusBehind     = "behind"
)

// DomainProgress summarizes completion for one profile domain.
type DomainProgress struct {
	Name      string   `json:"name"`
	Target    int      `json:"target"`
	Completed int      `json:"completed"`
	Status    string   `json:"status"`
	Titles    []string `json:"titles"`
}

// ProgressReport aggregates reading progress across all profile domains.
type ProgressReport struct {
	TotalBooks  int                       `json:"total_books"`
	TotalTarget int                       `json:"total_target"`
	ByDomain    map[string]DomainProgress `json:"by_domain"`
	Recent      []*LogEntry               `json:"recent"`
}

// LogBook appends a completed book to the reading log and cascades into
// the author aggregate. Ordering is deliberate: the log is persisted (and
// its documents rendered) before the author update, so an interruption
// mid-cascade leaves the log entry present and the author aggregate
// stale — recoverable via RebuildAuthors, never by rollback.
//
// rating is 0 for unrated, otherwise 1-5 (stored as given; validation is
// shallow).
func (l *Library) LogBook(title, author, domain string, rating int, quickNote string) (*LogEntry, error) {
	if title == "" || author == "" || domain == "" {
		return nil, fmt.Errorf("title, author and domain are required")
	}

	log, err := l.loadLog()
	if err != nil {
		return nil, err
	}

	entry := &LogEntry{
		ID:         "log_" + nowID(),
		Title:      title,
		Author:     author,
		Domain:     domain,
		FinishedAt: nowStamp(),
		Rating:     rating,
		QuickNote:  quickNote,
		Reflection: nil,
	}
	log.Entries = append(log.Entries, entry)

	if err := l.saveEntity("reading_log", log); err != nil {
		return nil, err
	}
	if err := l.syncLogDocs(entry, log); err != nil {
		return nil, err
	}

	if err := l.updateAuthorOnLog(author, title, rating, entry.FinishedAt, log); err != nil {
		return nil, err
	}
	return entry, nil
}

// FindEntry returns the first log entry whose title matches
// case-insensitively. With duplicate titles only the earliest logged
// instance is reachable — first-match semantics are deliberate.
func (l *Library) FindEntry(title string) (*LogEntry, error) {
	log, err := l.loadLog()
	if err != nil {
		return nil, err
	}
	entry, _ := findEntry(log, title)
	if entry == nil {
		return nil, ErrEntryNotFound
	}
	return entry, nil
}

// SaveReflection overwrites the reflection sub-record of the first log
// entry matching title (case-insensitive) and re-renders the reflection
// document and progress snapshot. Returns ErrEntryNotFound when the book
// was never logged.
func (l *Library) SaveReflection(title, keyTakeaway string, craftLessons, personalInsights, favoriteQuotes []string, nextAppetite string) (*LogEntry, error) {
	if keyTakeaway == "" {
		return nil, fmt.Errorf("key_takeaway is required")
	}

	log, err := l.loadLog()
	if err != nil {
		return nil, err
	}

	entry, _ := findEntry(log, title)
	if entry == nil {
		return nil, ErrEntryNotFound
	}

	entry.Reflection = &Reflection{
		KeyTakeaway:      keyTakeaway,
		CraftLessons:     orEmpty(craftLessons),
		PersonalInsights: orEmpty(personalInsights),
		FavoriteQuotes:   orEmpty(favoriteQuotes),
		NextAppetite:     nextAppetite,
		ReflectedAt:      nowStamp(),
	}

	if err := l.saveEntity("reading_log", log); err != nil {
		return nil, err
	}
	if err := l.syncLogDocs(entry, log); err != nil {
		return nil, err
	}
	return entry, nil
}

// Log returns the reading log (well-formed even when empty).
func (l *Library) Log() (*ReadingLog, error) {
	return l.loadLog()
}

// RecentEntries returns the last n log entries in chronological order.
func (l *Library) RecentEntries(n int) ([]*LogEntry, error) {
	log, err := l.loadLog()
	if err != nil {
		return nil, err
	}
	if n > 0 && len(log.Entries) > n {
		return log.Entries[len(log.Entries)-n:], nil
	}
	return log.Entries, nil
}

// Progress computes per-domain completion against profile targets and
// always re-renders the progress snapshot, so reading progress keeps
// _current.md fresh too. Status thresholds are fixed: completed when
// done ≥ target (target > 0), on_track at ≥ 50% of target, behind
// otherwise, not_started at zero.
func (l *Library) Progress() (*ProgressReport, error) {
	profile, err := l.requireProfile()
	if err != nil {
		return nil, err
	}
	log, err := l.loadLog()
	if err != nil {
		return nil, err
	}

	report := &ProgressReport{
		TotalBooks: len(log.Entries),
		ByDomain:   make(map[string]DomainProgress, len(profile.Goals.Domains)),
		Recent:     lastEntries(log.Entries, 3),
	}

	for _, d := range profile.Goals.Domains {
		var titles []string
		for _, e := range log.Entries {
			if e.Domain == d.ID {
				titles = append(titles, e.Title)
			}
		}
		completed := len(titles)

		status := StatusBehind
		switch {
		case completed == 0:
			status = StatusNotStarted
		case d.TargetBooks > 0 && completed >= d.TargetBooks:
			status = StatusCompleted
		case d.TargetBooks > 0 && float64(completed) >= float64(d.TargetBooks)*0.5:
			status = StatusOnTrack
		}

		name := d.Name
		if name == "" {
			name = d.ID
		}
		report.ByDomain[d.ID] = DomainProgress{
			Name:      name,
			Target:    d.TargetBooks,
			Completed: completed,
			Status:    status,
			Titles:    orEmpty(titles),
		}
		report.TotalTarget += d.TargetBooks
	}

	if err := l.docs.SyncProgress(log, profile, nowStamp()); err != nil {
		return nil, fmt.Errorf("rendering progress: %w", err)
	}
	return report, nil
}

// RebuildAuthors recomputes the whole authors entity by replaying the
// reading log. This is the documented recovery path for a cascade that
// was interrupted between the log write and the author update; nothing
// calls it automatically.
func (l *Library) RebuildAuthors() (*Authors, error) {
	log, err := l.loadLog()
	if err != nil {
		return nil, err
	}

	authors := &Authors{Version: Version, Authors: make(map[string]*AuthorProfile)}
	if err := l.saveEntity("authors", authors); err != nil {
		return nil, err
	}
	for _, e := range log.Entries {
		if err := l.updateAuthorOnLog(e.Author, e.Title, e.Rating, e.FinishedAt, log); err != nil {
			return nil, err
		}
	}
	return l.loadAuthors()
}

// syncLogDocs re-renders the documents affected by a log mutation: the
// book's reflection document, the reflections index, and the progress
// snapshot.
func (l *Library) syncLogDocs(entry *LogEntry, log *ReadingLog) error {
	if err := l.docs.SyncReflection(entry, log); err != nil {
		return fmt.Errorf("rendering reflection for %q: %w", entry.Title, err)
	}
	profile, _, err := l.loadProfile()
	if err != nil {
		return err
	}
	if err := l.docs.SyncProgress(log, profile, nowStamp()); err != nil {
		return fmt.Errorf("rendering progress: %w", err)
	}
	return nil
}

func findEntry(log *ReadingLog, title string) (*LogEntry, int) {
	want := strings.ToLower(title)
	for i, e := range log.Entries {
		if strings.ToLower(e.Title) == want {
			return e, i
		}
	}
	return nil, -1
}

func lastEntries(entries []*LogEntry, n int) []*LogEntry {
	if len(entries) > n {
		return entries[len(entries)-n:]
	}
	return entries
}

// orEmpty keeps persisted lists as [] rather than null.
func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
