package library

import (
	"fmt"
	"strings"
)

// Relation directions for similar-book lookups.
const (
	DirectionLeadsTo   = "leads_to"
	DirectionLeadsFrom = "leads_from"
)

// RelatedBook is one hit from a similar-books lookup, annotated with
// whether the related title sits in any saved stack.
type RelatedBook struct {
	Book         string `json:"book"`
	Relationship string `json:"relationship"`
	Reason       string `json:"reason"`
	Direction    string `json:"direction"`
	InStack      bool   `json:"in_stack"`
}

// AddConnection upserts a connection keyed by the exact ordered
// (from, to) pair — case-sensitive and directional. A match updates
// relationship, reason, strength and updated_at in place; otherwise a new
// record is appended with created_at. Returns the record and whether it
// was an update.
func (l *Library) AddConnection(from, to, relationship, reason, strength string) (*Connection, bool, int, error) {
	if from == "" || to == "" {
		return nil, false, 0, fmt.Errorf("from_book and to_book are required")
	}
	if strength == "" {
		strength = "moderate"
	}

	conns, err := l.loadConnections()
	if err != nil {
		return nil, false, 0, err
	}

	for _, c := range conns.Connections {
		if c.From == from && c.To == to {
			c.Relationship = relationship
			c.Reason = reason
			c.Strength = strength
			c.UpdatedAt = nowStamp()
			if err := l.saveEntity("connections", conns); err != nil {
				return nil, false, 0, err
			}
			return c, true, len(conns.Connections), nil
		}
	}

	conn := &Connection{
		From:         from,
		To:           to,
		Relationship: relationship,
		Reason:       reason,
		Strength:     strength,
		CreatedAt:    nowStamp(),
	}
	conns.Connections = append(conns.Connections, conn)

	if err := l.saveEntity("connections", conns); err != nil {
		return nil, false, 0, err
	}
	return conn, false, len(conns.Connections), nil
}

// SimilarBooks finds connections touching title (case-insensitive, both
// directions) and annotates each related title with stack membership.
func (l *Library) SimilarBooks(title string) ([]RelatedBook, int, error) {
	conns, err := l.loadConnections()
	if err != nil {
		return nil, 0, err
	}
	stacks, err := l.loadBookstacks()
	if err != nil {
		return nil, 0, err
	}

	stacked := make(map[string]bool)
	for _, stack := range stacks.Stacks {
		for _, book := range stack.Books {
			stacked[strings.ToLower(book.Title)] = true
		}
	}

	want := strings.ToLower(title)
	var related []RelatedBook
	for _, c := range conns.Connections {
		switch {
		case strings.ToLower(c.From) == want:
			related = append(related, RelatedBook{
				Book:         c.To,
				Relationship: c.Relationship,
				Reason:       c.Reason,
				Direction:    DirectionLeadsTo,
				InStack:      stacked[strings.ToLower(c.To)],
			})
		case strings.ToLower(c.To) == want:
			related = append(related, RelatedBook{
				Book:         c.From,
				Relationship: c.Relationship,
				Reason:       c.Reason,
				Direction:    DirectionLeadsFrom,
				InStack:      stacked[strings.ToLower(c.From)],
			})
		}
	}
	return related, len(conns.Connections), nil
}

// Connections returns the full connections entity (well-formed when
// nothing is saved yet).
func (l *Library) Connections() (*Connections, error) {
	return l.loadConnections()
}
