package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ljbatista/shelfmate/internal/config"
	"github.com/ljbatista/shelfmate/internal/library"
)

func avg(v float64) *float64 { return &v }

func testProfile() *library.Profile {
	return &library.Profile{
		Version:   library.Version,
		CreatedAt: "2025-03-01T10:00:00Z",
		UpdatedAt: "2025-03-01T10:00:00Z",
		Identity:  library.Identity{Name: "Lena"},
		Goals: library.Goals{Domains: []library.Domain{
			{ID: "classic_lit", Name: "Classic Literature", Purpose: "Read the greats", TargetBooks: 6, Why: "always wanted to"},
			{ID: "neuroscience", Name: "Neuroscience", TargetBooks: 4},
		}},
		Preferences: map[string]any{
			"pacing":         "slow_deep",
			"parallel_books": float64(2),
		},
		Context: map[string]any{
			"avoidances": []any{"war stories"},
		},
		LatentFeatures: map[string]any{},
	}
}

func TestProfileRender(t *testing.T) {
	doc := Profile(testProfile())

	for _, want := range []string{
		"# My Reading Profile",
		"**Name**: Lena",
		"**Created**: 2025-03-01",
		"### Classic Literature",
		"- **Purpose**: Read the greats",
		"- **Target**: 6 books",
		"- **Why**: always wanted to",
		"- **Pacing**: slow_deep",
		"- **Parallel books**: 2",
		"## Avoidances",
		"- war stories",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("profile document missing %q", want)
		}
	}

	// No latent features, no extracted section.
	if strings.Contains(doc, "Reader Profile (Extracted)") {
		t.Error("extracted section should be absent without latent features")
	}
}

func TestProfileRenderLatentFeatures(t *testing.T) {
	p := testProfile()
	p.LatentFeatures = map[string]any{
		"reader_archetype": "completionist",
		"notes":            "finishes what she starts",
	}
	doc := Profile(p)

	if !strings.Contains(doc, "**Archetype**: completionist") {
		t.Error("archetype missing")
	}
	if !strings.Contains(doc, "**Notes**: finishes what she starts") {
		t.Error("notes missing")
	}
	if !strings.Contains(doc, "**Exploration score**: N/A") {
		t.Error("missing features should render as N/A")
	}
}

func TestRenderDeterministic(t *testing.T) {
	p := testProfile()
	if Profile(p) != Profile(p) {
		t.Error("profile render not deterministic")
	}

	stacks := &library.Bookstacks{Version: library.Version, Stacks: map[string]*library.Stack{
		"b_domain": {GeneratedAt: "2025-03-01T10:00:00Z", Books: []library.Book{{Title: "X", Author: "Y"}}},
		"a_domain": {GeneratedAt: "2025-03-01T10:00:00Z"},
		"c_domain": {GeneratedAt: "2025-03-01T10:00:00Z"},
	}}
	first := StacksIndex(stacks)
	for i := 0; i < 10; i++ {
		if StacksIndex(stacks) != first {
			t.Fatal("stacks index render not deterministic across map iterations")
		}
	}
	a := strings.Index(first, "A Domain")
	b := strings.Index(first, "B Domain")
	c := strings.Index(first, "C Domain")
	if !(a >= 0 && a < b && b < c) {
		t.Errorf("index not in sorted domain order: %d %d %d", a, b, c)
	}
}

func TestStackRender(t *testing.T) {
	stack := &library.Stack{
		GeneratedAt: "2025-03-01T10:00:00Z",
		Description: "A gentle on-ramp to the Russians.",
		Books: []library.Book{
			{Title: "Anna Karenina", Author: "Leo Tolstoy", Why: "the place to start", Difficulty: "challenging", TimeEstimate: "4 weeks"},
			{Title: "First Love", Author: "Ivan Turgenev"},
		},
	}
	doc := Stack("Classic Literature", stack)

	for _, want := range []string{
		"# Classic Literature Reading Stack",
		"*Generated: 2025-03-01*",
		"A gentle on-ramp to the Russians.",
		"## Books (2 total)",
		"### 1. Anna Karenina",
		"**Leo Tolstoy** 🔴 challenging",
		"> the place to start",
		"- **Time**: 4 weeks",
		"### 2. First Love",
		"**Ivan Turgenev** 🟡 moderate",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("stack document missing %q", want)
		}
	}
}

func TestReflectionRender(t *testing.T) {
	entry := &library.LogEntry{
		ID: "log_20250301_100000", Title: "Dune", Author: "Frank Herbert",
		Domain: "scifi", FinishedAt: "2025-03-01T10:00:00Z", Rating: 4,
	}

	doc := Reflection(entry)
	if !strings.Contains(doc, "*No reflection added yet. Use 'reflect on [title]' to add one.*") {
		t.Error("expected placeholder for missing reflection")
	}
	if !strings.Contains(doc, "**Rating**: ⭐⭐⭐⭐") {
		t.Error("rating stars missing")
	}

	entry.Reflection = &library.Reflection{
		KeyTakeaway:    "spice is power",
		CraftLessons:   []string{"worldbuilding through appendices"},
		FavoriteQuotes: []string{"Fear is the mind-killer."},
		NextAppetite:   "ready_for_challenge",
		ReflectedAt:    "2025-03-02T10:00:00Z",
	}
	doc = Reflection(entry)
	for _, want := range []string{
		"## Key Takeaway",
		"spice is power",
		"- worldbuilding through appendices",
		"> Fear is the mind-killer.",
		"Ready for a challenge",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("reflection document missing %q", want)
		}
	}
}

func TestReflectionsIndexMarks(t *testing.T) {
	log := &library.ReadingLog{Version: library.Version, Entries: []*library.LogEntry{
		{Title: "Dune", Domain: "scifi", Reflection: &library.Reflection{KeyTakeaway: "x"}},
		{Title: "Hyperion", Domain: "scifi"},
	}}
	doc := ReflectionsIndex(log)

	if !strings.Contains(doc, "Total books read: 2") {
		t.Error("total missing")
	}
	if !strings.Contains(doc, "[Dune](dune.md) ✓") {
		t.Errorf("reflected entry should carry the done mark:\n%s", doc)
	}
	if !strings.Contains(doc, "[Hyperion](hyperion.md) ○") {
		t.Error("unreflected entry should carry the open mark")
	}
}

func TestProgressRender(t *testing.T) {
	log := &library.ReadingLog{Version: library.Version, Entries: []*library.LogEntry{
		{Title: "A", Domain: "classic_lit", FinishedAt: "2025-03-01T10:00:00Z"},
		{Title: "B", Domain: "classic_lit", FinishedAt: "2025-03-02T10:00:00Z"},
		{Title: "C", Domain: "classic_lit", FinishedAt: "2025-03-03T10:00:00Z"},
	}}
	doc := Progress(log, testProfile(), "2025-03-04T09:30:00Z")

	for _, want := range []string{
		"*Last updated: 2025-03-04 09:30*",
		"**Total books read**: 3",
		"### Classic Literature",
		"[█████░░░░░] 3/6",
		"### Neuroscience",
		"[░░░░░░░░░░] 0/4",
		"## Recent Activity",
		"- **2025-03-03**: C",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("progress document missing %q", want)
		}
	}
}

func TestProgressRenderNilProfile(t *testing.T) {
	log := &library.ReadingLog{Version: library.Version, Entries: []*library.LogEntry{}}
	doc := Progress(log, nil, "2025-03-04T09:30:00Z")
	if !strings.Contains(doc, "**Total books read**: 0") {
		t.Error("overview missing without profile")
	}
}

func TestAuthorRender(t *testing.T) {
	a := &library.AuthorProfile{
		Name:          "Leo Tolstoy",
		BooksRead:     []string{"Anna Karenina"},
		TotalBooks:    1,
		Ratings:       []int{5, 4},
		AverageRating: avg(4.5),
		Affinity:      library.AffinityHigh,
		StyleNotes: map[string]any{
			"prose":  "sweeping",
			"themes": []any{"family", "faith"},
		},
		YourNotes: "my favorite Russian",
	}
	log := &library.ReadingLog{Version: library.Version, Entries: []*library.LogEntry{
		{Title: "Anna Karenina", FinishedAt: "2025-03-01T10:00:00Z", Rating: 5},
	}}

	doc := Author(a, log)
	for _, want := range []string{
		"# Leo Tolstoy",
		"**Books Read**: 1",
		"**Average Rating**: ⭐⭐⭐⭐½",
		"**Affinity**: High",
		"- **Anna Karenina** (2025-03) - ⭐⭐⭐⭐⭐",
		"- **Prose**: sweeping",
		"- **Themes**: family, faith",
		"## Your Notes",
		"my favorite Russian",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("author document missing %q", want)
		}
	}
}

func TestAuthorsIndexGrouping(t *testing.T) {
	all := &library.Authors{Version: library.Version, Authors: map[string]*library.AuthorProfile{
		"leo-tolstoy": {Name: "Leo Tolstoy", TotalBooks: 2, AverageRating: avg(5), Affinity: library.AffinityHigh},
		"dan-brown":   {Name: "Dan Brown", TotalBooks: 1, AverageRating: avg(2), Affinity: library.AffinityLow},
	}}
	doc := AuthorsIndex(all)

	if !strings.Contains(doc, "Total authors: 2") {
		t.Error("total missing")
	}
	if !strings.Contains(doc, "## 💚 High Affinity") || !strings.Contains(doc, "## 🔶 Low Affinity") {
		t.Errorf("affinity group headers missing:\n%s", doc)
	}
	if !strings.Contains(doc, "[Leo Tolstoy](leo-tolstoy.md) - 2 books (avg ⭐5.0)") {
		t.Errorf("author row missing:\n%s", doc)
	}
	high := strings.Index(doc, "High Affinity")
	low := strings.Index(doc, "Low Affinity")
	if high > low {
		t.Error("high affinity group should come first")
	}
}

func TestAuthorsIndexOrdersByBookCountWithinTier(t *testing.T) {
	// Within a tier, book count wins even when the smaller shelf has the
	// higher average rating.
	all := &library.Authors{Version: library.Version, Authors: map[string]*library.AuthorProfile{
		"ann-patchett": {Name: "Ann Patchett", TotalBooks: 2, AverageRating: avg(3.6), Affinity: library.AffinityMedium},
		"ted-chiang":   {Name: "Ted Chiang", TotalBooks: 1, AverageRating: avg(4.4), Affinity: library.AffinityMedium},
	}}
	doc := AuthorsIndex(all)

	patchett := strings.Index(doc, "[Ann Patchett](ann-patchett.md)")
	chiang := strings.Index(doc, "[Ted Chiang](ted-chiang.md)")
	if patchett < 0 || chiang < 0 {
		t.Fatalf("author rows missing:\n%s", doc)
	}
	if patchett > chiang {
		t.Errorf("2-book author should rank above 1-book author in the index:\n%s", doc)
	}
}

func TestPatternsRender(t *testing.T) {
	p := &library.Patterns{
		Version:    library.Version,
		AnalyzedAt: "2025-03-04T09:30:00Z",
		Patterns: library.PatternSet{
			ThemesLoved: []library.Theme{
				{Theme: "Classic Lit", Frequency: 2, AvgRating: 5},
			},
			ThemesAvoided: []library.AvoidedTheme{
				{Theme: "true crime", Reason: "stated avoidance"},
			},
			DifficultySweetSpot: library.DifficultySweetSpot{
				Preferred: "challenging",
				SuccessRateByDifficulty: map[string]library.DifficultyStats{
					"challenging": {Completed: 2, AvgRating: 5},
				},
			},
			PacingInsights: library.PacingInsights{TotalBooks: 3, BooksWithReflections: 1},
			AuthorPreferences: library.AuthorPreferences{
				RepeatAuthors: []string{"Leo Tolstoy"},
				HighAffinity:  []string{"Leo Tolstoy"},
				TotalAuthors:  2,
			},
		},
	}
	doc := Patterns(p)

	for _, want := range []string{
		"# Your Reading Patterns",
		"*Last analyzed: 2025-03-04*",
		"- **Classic Lit** (2 books, avg ⭐5.0)",
		"- **Preferred difficulty**: Challenging",
		"- 🔴 Challenging: 2 books, avg ⭐5.0",
		"- **Books logged**: 3",
		"- **With reflections**: 1",
		"- **Repeat authors**: Leo Tolstoy",
		"- true crime (stated avoidance)",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("patterns document missing %q", want)
		}
	}
}

func TestDocsSyncWritesLayout(t *testing.T) {
	paths := config.Paths{DataDir: t.TempDir()}
	docs := NewDocs(paths)

	if err := docs.SyncProfile(testProfile()); err != nil {
		t.Fatalf("SyncProfile: %v", err)
	}

	stack := &library.Stack{GeneratedAt: "2025-03-01T10:00:00Z", Books: []library.Book{{Title: "X", Author: "Y"}}}
	all := &library.Bookstacks{Version: library.Version, Stacks: map[string]*library.Stack{"classic_lit": stack}}
	if err := docs.SyncStack("classic_lit", "Classic Literature", stack, all); err != nil {
		t.Fatalf("SyncStack: %v", err)
	}

	entry := &library.LogEntry{Title: "Anna Karenina", Author: "Leo Tolstoy", Domain: "classic_lit", FinishedAt: "2025-03-01T10:00:00Z"}
	log := &library.ReadingLog{Version: library.Version, Entries: []*library.LogEntry{entry}}
	if err := docs.SyncReflection(entry, log); err != nil {
		t.Fatalf("SyncReflection: %v", err)
	}
	if err := docs.SyncProgress(log, testProfile(), "2025-03-01T10:00:00Z"); err != nil {
		t.Fatalf("SyncProgress: %v", err)
	}

	for _, rel := range []string{
		"profile.md",
		filepath.Join("stacks", "classic_lit.md"),
		filepath.Join("stacks", "_index.md"),
		filepath.Join("progress", "anna-karenina.md"),
		filepath.Join("progress", "_index.md"),
		filepath.Join("progress", "_current.md"),
	} {
		if _, err := os.Stat(filepath.Join(paths.DataDir, rel)); err != nil {
			t.Errorf("expected document %s: %v", rel, err)
		}
	}
}
