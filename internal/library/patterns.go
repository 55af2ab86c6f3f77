package library

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// MinEntriesForAnalysis is how many logged books pattern analysis needs
// before it produces anything.
const MinEntriesForAnalysis = 2

// AnalysisResult is the outcome of a pattern analysis run. When Analyzed
// is false, the snapshot was not recomputed (and the prior patterns
// entity, if any, is untouched) — EntryCount says how many books exist so
// callers can phrase guidance.
type AnalysisResult struct {
	Analyzed    bool
	EntryCount  int
	DomainCount int
	Patterns    *Patterns
}

// HistoryBook is one reading-log row in the syllabus context.
type HistoryBook struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	Domain        string `json:"domain"`
	Rating        int    `json:"rating,omitempty"`
	HadReflection bool   `json:"had_reflection"`
}

// FavoriteAuthor is a high-affinity author row in the syllabus context.
type FavoriteAuthor struct {
	Name   string   `json:"name"`
	Books  int      `json:"books"`
	Rating *float64 `json:"rating"`
}

// HistoryContext is the full reading-history payload handed to the
// external recommender when building a stack. Patterns come from the last
// analysis snapshot and may be stale until analyze runs again; everything
// else is read live from the source entities.
type HistoryContext struct {
	BooksRead       []HistoryBook    `json:"books_read"`
	TotalBooks      int              `json:"total_books"`
	FavoriteAuthors []FavoriteAuthor `json:"favorite_authors"`
	Patterns        PatternSet       `json:"patterns"`
	ThemesLoved     []Theme          `json:"themes_loved"`
	ThemesAvoided   []AvoidedTheme   `json:"themes_avoided"`
	Connections     []*Connection    `json:"connections"`
	Clusters        []any            `json:"clusters"`
}

// AnalyzePatterns recomputes the analytics snapshot from the reading log,
// authors, and profile, persists it (overwriting any prior snapshot), and
// re-renders the insights document. With fewer than two logged books it
// returns guidance instead: nothing is persisted and the prior snapshot
// stays whatever it was. Nothing else ever invalidates the snapshot.
func (l *Library) AnalyzePatterns() (*AnalysisResult, error) {
	log, err := l.loadLog()
	if err != nil {
		return nil, err
	}
	if len(log.Entries) < MinEntriesForAnalysis {
		return &AnalysisResult{EntryCount: len(log.Entries)}, nil
	}

	authors, err := l.loadAuthors()
	if err != nil {
		return nil, err
	}
	profile, _, err := l.loadProfile()
	if err != nil {
		return nil, err
	}
	stacks, err := l.loadBookstacks()
	if err != nil {
		return nil, err
	}

	themesLoved, domainCount := lovedThemes(log)

	var avoided []AvoidedTheme
	for _, a := range profile.Avoidances() {
		avoided = append(avoided, AvoidedTheme{Theme: a, Reason: "stated avoidance"})
	}

	var repeat, high []string
	for _, slug := range RankedAuthors(authors) {
		a := authors.Authors[slug]
		if a.TotalBooks >= 2 {
			repeat = append(repeat, a.Name)
		}
		if a.Affinity == AffinityHigh {
			high = append(high, a.Name)
		}
	}

	withReflections := 0
	for _, e := range log.Entries {
		if e.Reflection != nil {
			withReflections++
		}
	}

	patterns := &Patterns{
		Version:    Version,
		AnalyzedAt: nowStamp(),
		Patterns: PatternSet{
			ThemesLoved:         themesLoved,
			ThemesAvoided:       orEmptyThemes(avoided),
			DifficultySweetSpot: difficultySweetSpot(log, stacks),
			PacingInsights: PacingInsights{
				TotalBooks:           len(log.Entries),
				BooksWithReflections: withReflections,
			},
			AuthorPreferences: AuthorPreferences{
				RepeatAuthors: orEmpty(repeat),
				HighAffinity:  orEmpty(high),
				TotalAuthors:  len(authors.Authors),
			},
		},
	}

	if err := l.saveEntity("patterns", patterns); err != nil {
		return nil, err
	}
	if err := l.docs.SyncPatterns(patterns); err != nil {
		return nil, fmt.Errorf("rendering patterns: %w", err)
	}

	return &AnalysisResult{
		Analyzed:    true,
		EntryCount:  len(log.Entries),
		DomainCount: domainCount,
		Patterns:    patterns,
	}, nil
}

// HistoryForSyllabus gathers the recommendation context: live log,
// author, and connection data plus the cached patterns snapshot.
func (l *Library) HistoryForSyllabus() (*HistoryContext, error) {
	log, err := l.loadLog()
	if err != nil {
		return nil, err
	}
	authors, err := l.loadAuthors()
	if err != nil {
		return nil, err
	}
	patterns, _, err := l.loadPatterns()
	if err != nil {
		return nil, err
	}
	conns, err := l.loadConnections()
	if err != nil {
		return nil, err
	}
	profile, _, err := l.loadProfile()
	if err != nil {
		return nil, err
	}

	ctx := &HistoryContext{
		BooksRead:       []HistoryBook{},
		TotalBooks:      len(log.Entries),
		FavoriteAuthors: []FavoriteAuthor{},
		Patterns:        patterns.Patterns,
		ThemesLoved:     patterns.Patterns.ThemesLoved,
		ThemesAvoided:   []AvoidedTheme{},
		Connections:     conns.Connections,
		Clusters:        conns.Clusters,
	}

	for _, e := range log.Entries {
		ctx.BooksRead = append(ctx.BooksRead, HistoryBook{
			Title:         e.Title,
			Author:        e.Author,
			Domain:        e.Domain,
			Rating:        e.Rating,
			HadReflection: e.Reflection != nil,
		})
	}

	for _, slug := range RankedAuthors(authors) {
		a := authors.Authors[slug]
		if a.Affinity != AffinityHigh {
			continue
		}
		ctx.FavoriteAuthors = append(ctx.FavoriteAuthors, FavoriteAuthor{
			Name:   a.Name,
			Books:  a.TotalBooks,
			Rating: a.AverageRating,
		})
	}

	for _, a := range profile.Avoidances() {
		ctx.ThemesAvoided = append(ctx.ThemesAvoided, AvoidedTheme{Theme: a, Reason: "stated avoidance"})
	}

	return ctx, nil
}

// lovedThemes groups ratings by domain and computes per-domain averages,
// sorted by average desc, then frequency desc, then theme name. Unrated
// entries don't contribute.
func lovedThemes(log *ReadingLog) ([]Theme, int) {
	byDomain := make(map[string][]int)
	for _, e := range log.Entries {
		if e.Rating == 0 {
			continue
		}
		domain := e.Domain
		if domain == "" {
			domain = "other"
		}
		byDomain[domain] = append(byDomain[domain], e.Rating)
	}

	themes := make([]Theme, 0, len(byDomain))
	for domain, ratings := range byDomain {
		sum := 0
		for _, r := range ratings {
			sum += r
		}
		themes = append(themes, Theme{
			Theme:     DisplayName(domain),
			Frequency: len(ratings),
			AvgRating: math.Round(float64(sum)/float64(len(ratings))*10) / 10,
		})
	}

	sort.Slice(themes, func(i, j int) bool {
		if themes[i].AvgRating != themes[j].AvgRating {
			return themes[i].AvgRating > themes[j].AvgRating
		}
		if themes[i].Frequency != themes[j].Frequency {
			return themes[i].Frequency > themes[j].Frequency
		}
		return themes[i].Theme < themes[j].Theme
	})
	return themes, len(byDomain)
}

// difficultySweetSpot cross-references logged titles against stacked
// books (the log itself doesn't carry difficulty) and aggregates
// completions and ratings per difficulty level. Preferred is the level
// with the most completions, defaulting to moderate.
func difficultySweetSpot(log *ReadingLog, stacks *Bookstacks) DifficultySweetSpot {
	difficultyOf := make(map[string]string)
	for _, stack := range stacks.Stacks {
		for _, book := range stack.Books {
			key := strings.ToLower(book.Title)
			if _, ok := difficultyOf[key]; !ok && book.Difficulty != "" {
				difficultyOf[key] = book.Difficulty
			}
		}
	}

	completed := make(map[string]int)
	ratingSum := make(map[string]int)
	ratingCount := make(map[string]int)
	for _, e := range log.Entries {
		level, ok := difficultyOf[strings.ToLower(e.Title)]
		if !ok {
			continue
		}
		completed[level]++
		if e.Rating > 0 {
			ratingSum[level] += e.Rating
			ratingCount[level]++
		}
	}

	spot := DifficultySweetSpot{
		Preferred:               "moderate",
		SuccessRateByDifficulty: make(map[string]DifficultyStats, len(completed)),
	}
	levels := make([]string, 0, len(completed))
	for level := range completed {
		levels = append(levels, level)
	}
	sort.Strings(levels)
	best := 0
	for _, level := range levels {
		count := completed[level]
		stats := DifficultyStats{Completed: count}
		if ratingCount[level] > 0 {
			stats.AvgRating = math.Round(float64(ratingSum[level])/float64(ratingCount[level])*10) / 10
		}
		spot.SuccessRateByDifficulty[level] = stats
		if count > best {
			best = count
			spot.Preferred = level
		}
	}
	return spot
}

func orEmptyThemes(themes []AvoidedTheme) []AvoidedTheme {
	if themes == nil {
		return []AvoidedTheme{}
	}
	return themes
}
