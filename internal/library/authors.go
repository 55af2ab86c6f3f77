package library

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// AuthorSummary is a ranked row for the favorite-authors view.
type AuthorSummary struct {
	Name          string   `json:"name"`
	BooksRead     int      `json:"books_read"`
	AverageRating *float64 `json:"average_rating"`
	Affinity      string   `json:"affinity"`
	LastRead      string   `json:"last_read,omitempty"`
}

// updateAuthorOnLog is the author half of the log cascade. It creates the
// author record if unseen, appends the title to books_read only when it is
// not already a member, appends a rating (if any) and recomputes
// average_rating and affinity from the full ratings list, and maintains
// first_read/last_read. Each call is idempotent in membership but
// cumulative in ratings: logging the same title twice with a rating keeps
// one books_read entry and two ratings.
func (l *Library) updateAuthorOnLog(author, title string, rating int, finishedAt string, log *ReadingLog) error {
	authors, err := l.loadAuthors()
	if err != nil {
		return err
	}

	slug := Slugify(author)
	entry, ok := authors.Authors[slug]
	if !ok {
		entry = &AuthorProfile{
			Name:       author,
			BooksRead:  []string{},
			Ratings:    []int{},
			FirstRead:  finishedAt,
			LastRead:   finishedAt,
			Affinity:   AffinityUnknown,
			StyleNotes: map[string]any{},
		}
		authors.Authors[slug] = entry
	}

	member := false
	for _, t := range entry.BooksRead {
		if t == title {
			member = true
			break
		}
	}
	if !member {
		entry.BooksRead = append(entry.BooksRead, title)
	}
	entry.TotalBooks = len(entry.BooksRead)

	if rating > 0 {
		entry.Ratings = append(entry.Ratings, rating)
		recomputeAffinity(entry)
	}

	if finishedAt != "" {
		entry.LastRead = finishedAt
		if entry.FirstRead == "" {
			entry.FirstRead = finishedAt
		}
	}

	if err := l.saveEntity("authors", authors); err != nil {
		return err
	}
	if err := l.docs.SyncAuthor(slug, entry, log, authors); err != nil {
		return fmt.Errorf("rendering author %s: %w", slug, err)
	}
	return nil
}

// recomputeAffinity rederives average_rating (rounded to 1 decimal) and
// affinity from the full ratings list. Never incremental — drift is not
// possible.
func recomputeAffinity(a *AuthorProfile) {
	if len(a.Ratings) == 0 {
		a.AverageRating = nil
		a.Affinity = AffinityUnknown
		return
	}
	sum := 0
	for _, r := range a.Ratings {
		sum += r
	}
	avg := math.Round(float64(sum)/float64(len(a.Ratings))*10) / 10
	a.AverageRating = &avg

	switch {
	case avg >= 4.5:
		a.Affinity = AffinityHigh
	case avg >= 3.5:
		a.Affinity = AffinityMedium
	default:
		a.Affinity = AffinityLow
	}
}

// AuthorByName looks up an author profile by name (joined on the slug).
func (l *Library) AuthorByName(name string) (string, *AuthorProfile, error) {
	authors, err := l.loadAuthors()
	if err != nil {
		return "", nil, err
	}
	slug := Slugify(name)
	entry, ok := authors.Authors[slug]
	if !ok {
		return slug, nil, ErrAuthorNotFound
	}
	return slug, entry, nil
}

// UpdateAuthorNotes merges style notes and replaces personal notes for an
// existing author, then re-renders the author document. List-valued style
// note keys merge as sets (existing order kept, new values appended);
// scalar keys overwrite.
func (l *Library) UpdateAuthorNotes(name string, styleNotes map[string]any, yourNotes string) (string, *AuthorProfile, error) {
	authors, err := l.loadAuthors()
	if err != nil {
		return "", nil, err
	}
	slug := Slugify(name)
	entry, ok := authors.Authors[slug]
	if !ok {
		return slug, nil, ErrAuthorNotFound
	}

	if entry.StyleNotes == nil {
		entry.StyleNotes = map[string]any{}
	}
	for key, value := range styleNotes {
		incoming, inOK := value.([]any)
		existing, exOK := entry.StyleNotes[key].([]any)
		if inOK && exOK {
			entry.StyleNotes[key] = mergeSet(existing, incoming)
			continue
		}
		entry.StyleNotes[key] = value
	}
	if yourNotes != "" {
		entry.YourNotes = yourNotes
	}

	if err := l.saveEntity("authors", authors); err != nil {
		return "", nil, err
	}
	log, err := l.loadLog()
	if err != nil {
		return "", nil, err
	}
	if err := l.docs.SyncAuthorDoc(slug, entry, log); err != nil {
		return "", nil, fmt.Errorf("rendering author %s: %w", slug, err)
	}
	return slug, entry, nil
}

// FavoriteAuthors returns up to limit authors ranked by affinity tier,
// then average rating descending, then book count descending, with a name
// tie-break for determinism.
func (l *Library) FavoriteAuthors(limit int) ([]AuthorSummary, int, error) {
	authors, err := l.loadAuthors()
	if err != nil {
		return nil, 0, err
	}

	ranked := RankedAuthors(authors)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]AuthorSummary, 0, len(ranked))
	for _, slug := range ranked {
		a := authors.Authors[slug]
		s := AuthorSummary{
			Name:          a.Name,
			BooksRead:     a.TotalBooks,
			AverageRating: a.AverageRating,
			Affinity:      a.Affinity,
		}
		if len(a.LastRead) >= 10 {
			s.LastRead = a.LastRead[:10]
		}
		out = append(out, s)
	}
	return out, len(authors.Authors), nil
}

// mergeSet unions two JSON lists, keeping existing order and appending
// unseen values. Only string members are deduplicated by value; anything
// else is appended as-is.
func mergeSet(existing, incoming []any) []any {
	seen := make(map[string]bool, len(existing))
	for _, v := range existing {
		if s, ok := v.(string); ok {
			seen[s] = true
		}
	}
	out := existing
	for _, v := range incoming {
		if s, ok := v.(string); ok {
			if seen[s] {
				continue
			}
			seen[s] = true
		}
		out = append(out, v)
	}
	return out
}

// AffinityRank orders affinity tiers for sorting (high first).
func AffinityRank(affinity string) int {
	switch affinity {
	case AffinityHigh:
		return 0
	case AffinityMedium:
		return 1
	case AffinityLow:
		return 2
	default:
		return 3
	}
}

// RankedAuthors returns author slugs sorted by affinity tier, average
// rating desc, book count desc, then name.
func RankedAuthors(authors *Authors) []string {
	slugs := make([]string, 0, len(authors.Authors))
	for slug := range authors.Authors {
		slugs = append(slugs, slug)
	}
	sort.Slice(slugs, func(i, j int) bool {
		a, b := authors.Authors[slugs[i]], authors.Authors[slugs[j]]
		if ra, rb := AffinityRank(a.Affinity), AffinityRank(b.Affinity); ra != rb {
			return ra < rb
		}
		if va, vb := ratingOrZero(a), ratingOrZero(b); va != vb {
			return va > vb
		}
		if a.TotalBooks != b.TotalBooks {
			return a.TotalBooks > b.TotalBooks
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
	return slugs
}

func ratingOrZero(a *AuthorProfile) float64 {
	if a.AverageRating == nil {
		return 0
	}
	return *a.AverageRating
}
