package library

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Sentinel errors for missing preconditions. Tool handlers translate these
// into soft error payloads with remediation hints — they never surface as
// protocol faults.
var (
	ErrNoProfile      = errors.New("no profile found")
	ErrEntryNotFound  = errors.New("title not found in reading log")
	ErrAuthorNotFound = errors.New("author not found")
)

// DocSync regenerates derived documents after a mutation. Implemented by
// the render package; abstracted here so mutators stay independent of
// document formatting (DIP).
//
// Every method is expected to rewrite both the entity's own document and
// any index document whose aggregate the mutation affects — index
// staleness is not tolerated.
type DocSync interface {
	// SyncProfile rewrites profile.md.
	SyncProfile(p *Profile) error
	// SyncStack rewrites stacks/<domain>.md and stacks/_index.md.
	SyncStack(domainID, domainName string, stack *Stack, all *Bookstacks) error
	// SyncReflection rewrites progress/<book-slug>.md and progress/_index.md.
	SyncReflection(entry *LogEntry, log *ReadingLog) error
	// SyncProgress rewrites progress/_current.md. now is the render stamp.
	SyncProgress(log *ReadingLog, p *Profile, now string) error
	// SyncAuthor rewrites authors/<slug>.md and authors/_index.md.
	SyncAuthor(slug string, a *AuthorProfile, log *ReadingLog, all *Authors) error
	// SyncAuthorDoc rewrites authors/<slug>.md only (membership unchanged).
	SyncAuthorDoc(slug string, a *AuthorProfile, log *ReadingLog) error
	// SyncPatterns rewrites progress/_insights.md.
	SyncPatterns(p *Patterns) error
}

// Library owns all entity records and applies validated mutations.
// It is the only writer of entity files; renderers only read.
//
// Known limitation: access is read-whole/mutate/write-whole with no
// locking. Concurrent mutations to the same entity key are unsupported
// and last-write-wins at whole-record granularity. The deployment model
// is a single user behind a single synchronous MCP session.
type Library struct {
	store Store
	docs  DocSync
}

// New creates a Library over the given entity store and document syncer.
func New(store Store, docs DocSync) *Library {
	return &Library{store: store, docs: docs}
}

// --- load-or-default per entity ---
//
// Missing storage is not an error: each loader returns a well-formed empty
// record so mutators never probe for shape.

func (l *Library) loadProfile() (*Profile, bool, error) {
	var p Profile
	ok, err := l.store.Load("profile", &p)
	if err != nil {
		return nil, false, err
	}
	return &p, ok, nil
}

func (l *Library) loadBookstacks() (*Bookstacks, error) {
	var b Bookstacks
	if _, err := l.store.Load("bookstacks", &b); err != nil {
		return nil, err
	}
	if b.Version == "" {
		b.Version = Version
	}
	if b.Stacks == nil {
		b.Stacks = make(map[string]*Stack)
	}
	return &b, nil
}

func (l *Library) loadLog() (*ReadingLog, error) {
	var log ReadingLog
	if _, err := l.store.Load("reading_log", &log); err != nil {
		return nil, err
	}
	if log.Version == "" {
		log.Version = Version
	}
	if log.Entries == nil {
		log.Entries = []*LogEntry{}
	}
	return &log, nil
}

func (l *Library) loadAuthors() (*Authors, error) {
	var a Authors
	if _, err := l.store.Load("authors", &a); err != nil {
		return nil, err
	}
	if a.Version == "" {
		a.Version = Version
	}
	if a.Authors == nil {
		a.Authors = make(map[string]*AuthorProfile)
	}
	return &a, nil
}

func (l *Library) loadConnections() (*Connections, error) {
	var c Connections
	if _, err := l.store.Load("connections", &c); err != nil {
		return nil, err
	}
	if c.Version == "" {
		c.Version = Version
	}
	if c.Connections == nil {
		c.Connections = []*Connection{}
	}
	if c.Clusters == nil {
		c.Clusters = []any{}
	}
	return &c, nil
}

func (l *Library) loadPatterns() (*Patterns, bool, error) {
	var p Patterns
	ok, err := l.store.Load("patterns", &p)
	if err != nil {
		return nil, false, err
	}
	return &p, ok, nil
}

// requireProfile loads the profile or returns ErrNoProfile.
func (l *Library) requireProfile() (*Profile, error) {
	p, ok, err := l.loadProfile()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoProfile
	}
	return p, nil
}

// orderedStackDomains returns stack domain ids deterministically: profile
// domain order first, then any remaining stack keys sorted lexically. The
// entity is a JSON object, so persisted key order is not recoverable.
func orderedStackDomains(stacks *Bookstacks, profile *Profile) []string {
	var order []string
	seen := make(map[string]bool)
	if profile != nil {
		for _, d := range profile.Goals.Domains {
			if _, ok := stacks.Stacks[d.ID]; ok && !seen[d.ID] {
				order = append(order, d.ID)
				seen[d.ID] = true
			}
		}
	}
	var rest []string
	for id := range stacks.Stacks {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

// DisplayName turns a domain id into a human-readable title
// ("classic_lit" → "Classic Lit"). Used wherever no display name is on
// record.
func DisplayName(domainID string) string {
	words := strings.Fields(strings.ReplaceAll(domainID, "_", " "))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func (l *Library) saveEntity(key string, v any) error {
	if err := l.store.Save(key, v); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}
