package library

import (
	"fmt"
	"strings"
)

// SaveBookstack replaces the entire stack for a domain (full overwrite,
// never a merge) and re-renders that stack's document plus the bookstacks
// index. The domain does not have to exist in the profile — the stack's
// display name just falls back to the id.
func (l *Library) SaveBookstack(domainID string, books []Book, description string) (*Stack, error) {
	if domainID == "" {
		return nil, fmt.Errorf("domain is required")
	}

	stacks, err := l.loadBookstacks()
	if err != nil {
		return nil, err
	}

	stack := &Stack{
		GeneratedAt: nowStamp(),
		Description: description,
		Books:       books,
	}
	if stack.Books == nil {
		stack.Books = []Book{}
	}
	stacks.Stacks[domainID] = stack

	if err := l.saveEntity("bookstacks", stacks); err != nil {
		return nil, err
	}
	if err := l.syncStackDocs(domainID, stack, stacks); err != nil {
		return nil, err
	}
	return stack, nil
}

// AddBookToStack appends one book to an existing stack, creating the
// stack container lazily if the domain has none yet. This is the only
// stack mutation that appends rather than replaces. Position is the
// 1-based post-append length.
func (l *Library) AddBookToStack(domainID, title, author, why, difficulty string) (Book, int, error) {
	if domainID == "" || title == "" || author == "" {
		return Book{}, 0, fmt.Errorf("domain, title and author are required")
	}
	if why == "" {
		why = "Manually added"
	}
	if difficulty == "" {
		difficulty = "moderate"
	}

	stacks, err := l.loadBookstacks()
	if err != nil {
		return Book{}, 0, err
	}

	stack, ok := stacks.Stacks[domainID]
	if !ok {
		stack = &Stack{GeneratedAt: nowStamp(), Books: []Book{}}
		stacks.Stacks[domainID] = stack
	}

	book := Book{
		Title:      title,
		Author:     author,
		Why:        why,
		Difficulty: difficulty,
		Position:   len(stack.Books) + 1,
		AddedAt:    nowStamp(),
	}
	stack.Books = append(stack.Books, book)

	if err := l.saveEntity("bookstacks", stacks); err != nil {
		return Book{}, 0, err
	}
	if err := l.syncStackDocs(domainID, stack, stacks); err != nil {
		return Book{}, 0, err
	}
	return book, len(stack.Books), nil
}

// Bookstacks returns the full bookstacks entity (well-formed even when
// nothing has been saved yet).
func (l *Library) Bookstacks() (*Bookstacks, error) {
	return l.loadBookstacks()
}

// NextBook scans stacks for the first book whose title is not already in
// the reading log (case-insensitive). Domains are scanned in profile goal
// order then sorted key order, books in stack position order, so the
// result is deterministic. domainID narrows the scan to one domain; empty
// scans everything. ok is false when every stacked book is completed.
func (l *Library) NextBook(domainID string) (string, Book, bool, error) {
	stacks, err := l.loadBookstacks()
	if err != nil {
		return "", Book{}, false, err
	}
	log, err := l.loadLog()
	if err != nil {
		return "", Book{}, false, err
	}
	profile, _, err := l.loadProfile()
	if err != nil {
		return "", Book{}, false, err
	}

	completed := make(map[string]bool, len(log.Entries))
	for _, e := range log.Entries {
		completed[strings.ToLower(e.Title)] = true
	}

	for _, id := range orderedStackDomains(stacks, profile) {
		if domainID != "" && id != domainID {
			continue
		}
		for _, book := range stacks.Stacks[id].Books {
			if !completed[strings.ToLower(book.Title)] {
				return id, book, true, nil
			}
		}
	}
	return "", Book{}, false, nil
}

// syncStackDocs re-renders a stack document and the bookstacks index
// after any membership change.
func (l *Library) syncStackDocs(domainID string, stack *Stack, all *Bookstacks) error {
	name := DisplayName(domainID)
	if profile, ok, err := l.loadProfile(); err != nil {
		return err
	} else if ok {
		if d, found := profile.DomainByID(domainID); found && d.Name != "" {
			name = d.Name
		}
	}
	if err := l.docs.SyncStack(domainID, name, stack, all); err != nil {
		return fmt.Errorf("rendering stack %s: %w", domainID, err)
	}
	return nil
}
