// Package library is the document store and derived-view engine for the
// reading companion.
//
// Each entity (profile, bookstacks, reading log, authors, connections,
// patterns) is an independently persisted JSON record owned by exactly one
// mutator. Every successful mutation re-renders the derived markdown
// documents it affects — including collection indexes — before returning,
// so documents never drift from their source entity.
//
// This package follows the same design principles as the rest of the repo:
// - SRP: types, store, and one mutator family per file
// - DIP: Store and DocSync are interfaces; the server injects concretions
package library

// Version is the entity schema version tag. It is written on every record
// but never checked — forward compatibility is out of scope.
const Version = "1.0"

// --- Profile ---

// Identity holds who the reader is.
type Identity struct {
	Name string `json:"name"`
}

// Domain is a user-declared topic/goal area for reading.
type Domain struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Purpose     string `json:"purpose,omitempty"`
	TargetBooks int    `json:"target_books"`
	Why         string `json:"why,omitempty"`
}

// Goals groups the reader's domains in priority order.
type Goals struct {
	Domains []Domain `json:"domains"`
}

// Profile is the singleton reader profile.
//
// Preferences, context, and latent_features are open records: they carry a
// documented shape (pacing, challenge_tolerance, parallel_books; mood,
// avoidances; analysis output) but extra fields are accepted and preserved
// as-is. Validation stays shallow by design.
type Profile struct {
	Version        string         `json:"version"`
	CreatedAt      string         `json:"created_at"`
	UpdatedAt      string         `json:"updated_at"`
	Identity       Identity       `json:"identity"`
	Goals          Goals          `json:"goals"`
	Preferences    map[string]any `json:"preferences"`
	Context        map[string]any `json:"context"`
	LatentFeatures map[string]any `json:"latent_features"`
}

// DomainByID returns the profile domain with the given id.
func (p *Profile) DomainByID(id string) (Domain, bool) {
	for _, d := range p.Goals.Domains {
		if d.ID == id {
			return d, true
		}
	}
	return Domain{}, false
}

// DomainIDs returns the profile's domain ids in goal order.
func (p *Profile) DomainIDs() []string {
	ids := make([]string, 0, len(p.Goals.Domains))
	for _, d := range p.Goals.Domains {
		ids = append(ids, d.ID)
	}
	return ids
}

// Avoidances returns the stated avoidance strings from the profile context.
func (p *Profile) Avoidances() []string {
	raw, ok := p.Context["avoidances"].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// --- Bookstacks ---

// Book is a single recommendation inside a stack. Position and AddedAt are
// only set for manually added books.
type Book struct {
	Title        string `json:"title"`
	Author       string `json:"author"`
	Why          string `json:"why,omitempty"`
	Difficulty   string `json:"difficulty,omitempty"`
	TimeEstimate string `json:"time_estimate,omitempty"`
	CraftFocus   string `json:"craft_focus,omitempty"`
	Position     int    `json:"position,omitempty"`
	AddedAt      string `json:"added_at,omitempty"`
}

// Stack is an ordered, curated list of recommendations for one domain.
// Book order is insertion order and doubles as priority order.
type Stack struct {
	GeneratedAt string `json:"generated_at"`
	Description string `json:"description,omitempty"`
	Books       []Book `json:"books"`
}

// Bookstacks is the singleton mapping from domain id to Stack.
type Bookstacks struct {
	Version string            `json:"version"`
	Stacks  map[string]*Stack `json:"stacks"`
}

// --- Reading log ---

// Reflection is the deep-dive record attached to a log entry once the
// reader reflects on a finished book.
type Reflection struct {
	KeyTakeaway      string   `json:"key_takeaway"`
	CraftLessons     []string `json:"craft_lessons"`
	PersonalInsights []string `json:"personal_insights"`
	FavoriteQuotes   []string `json:"favorite_quotes"`
	NextAppetite     string   `json:"next_appetite,omitempty"`
	ReflectedAt      string   `json:"reflected_at"`
}

// LogEntry is one finished book. Rating is 0 when unrated (valid ratings
// are 1-5). Reflection is nil until a reflection is saved.
type LogEntry struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Author     string      `json:"author"`
	Domain     string      `json:"domain"`
	FinishedAt string      `json:"finished_at"`
	Rating     int         `json:"rating,omitempty"`
	QuickNote  string      `json:"quick_note,omitempty"`
	Reflection *Reflection `json:"reflection"`
}

// ReadingLog is the singleton chronological append-order log.
type ReadingLog struct {
	Version string      `json:"version"`
	Entries []*LogEntry `json:"entries"`
}

// --- Authors ---

// Affinity tiers derived from average rating.
const (
	AffinityHigh    = "high"
	AffinityMedium  = "medium"
	AffinityLow     = "low"
	AffinityUnknown = "unknown"
)

// AuthorProfile aggregates everything read by one author.
//
// Invariants: TotalBooks always equals len(BooksRead); AverageRating is
// always recomputed from the full Ratings list and is nil iff Ratings is
// empty. StyleNotes is an open record; list-valued keys merge as sets.
type AuthorProfile struct {
	Name          string         `json:"name"`
	BooksRead     []string       `json:"books_read"`
	TotalBooks    int            `json:"total_books"`
	Ratings       []int          `json:"ratings"`
	AverageRating *float64       `json:"average_rating"`
	FirstRead     string         `json:"first_read,omitempty"`
	LastRead      string         `json:"last_read,omitempty"`
	Affinity      string         `json:"affinity"`
	StyleNotes    map[string]any `json:"style_notes"`
	YourNotes     string         `json:"your_notes"`
}

// Authors is the singleton mapping from author slug to AuthorProfile.
type Authors struct {
	Version string                    `json:"version"`
	Authors map[string]*AuthorProfile `json:"authors"`
}

// --- Connections ---

// Relationship kinds between two books.
const (
	RelSimilarTheme = "similar_theme"
	RelComplements  = "complements"
	RelNextStep     = "next_step"
	RelContrast     = "contrast"
)

// Connection links two books directionally. At most one connection exists
// per ordered (from, to) pair — re-adding the pair updates in place.
type Connection struct {
	From         string `json:"from"`
	To           string `json:"to"`
	Relationship string `json:"relationship"`
	Reason       string `json:"reason"`
	Strength     string `json:"strength"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}

// Connections is the singleton connection list. Clusters is reserved: no
// mutator populates it, it is persisted and surfaced as always empty.
type Connections struct {
	Version     string        `json:"version"`
	Connections []*Connection `json:"connections"`
	Clusters    []any         `json:"clusters"`
}

// --- Patterns ---

// Theme is a per-domain rating aggregate.
type Theme struct {
	Theme     string  `json:"theme"`
	Frequency int     `json:"frequency"`
	AvgRating float64 `json:"avg_rating"`
}

// AvoidedTheme mirrors a stated avoidance from the profile.
type AvoidedTheme struct {
	Theme  string `json:"theme"`
	Reason string `json:"reason"`
}

// DifficultyStats aggregates outcomes for one difficulty level.
type DifficultyStats struct {
	Completed int     `json:"completed"`
	AvgRating float64 `json:"avg_rating"`
}

// DifficultySweetSpot captures which difficulty works best.
type DifficultySweetSpot struct {
	Preferred               string                     `json:"preferred"`
	SuccessRateByDifficulty map[string]DifficultyStats `json:"success_rate_by_difficulty"`
}

// PacingInsights captures volume-level reading behavior.
type PacingInsights struct {
	TotalBooks           int `json:"total_books"`
	BooksWithReflections int `json:"books_with_reflections"`
}

// AuthorPreferences captures author-level patterns.
type AuthorPreferences struct {
	RepeatAuthors []string `json:"repeat_authors"`
	HighAffinity  []string `json:"high_affinity"`
	TotalAuthors  int      `json:"total_authors"`
}

// PatternSet groups all derived analytics.
type PatternSet struct {
	ThemesLoved         []Theme             `json:"themes_loved"`
	ThemesAvoided       []AvoidedTheme      `json:"themes_avoided"`
	DifficultySweetSpot DifficultySweetSpot `json:"difficulty_sweet_spot"`
	PacingInsights      PacingInsights      `json:"pacing_insights"`
	AuthorPreferences   AuthorPreferences   `json:"author_preferences"`
}

// Patterns is the singleton analytics snapshot. It is a cache: it reflects
// the reading log, authors, and profile as of AnalyzedAt, and nothing
// invalidates it automatically. Consumers that need live data recompute
// from the source entities.
type Patterns struct {
	Version    string     `json:"version"`
	AnalyzedAt string     `json:"analyzed_at"`
	Patterns   PatternSet `json:"patterns"`
}
