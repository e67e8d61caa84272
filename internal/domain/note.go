package domain

import (
	"strings"
	"time"
)

// Sentinel author values applied when a note arrives without identity.
const (
	UnknownAuthor      = "unknown"
	UnknownAuthorEmail = "unknown@example.com"
)

// Note is a free-text annotation on a ticket. Notes are append-only: a
// ticket's note list grows in insertion order and entries are never
// edited or removed.
type Note struct {
	Text         string    `json:"text"`
	AddedBy      string    `json:"addedBy"`
	AddedByEmail string    `json:"addedByEmail"`
	AddedAt      time.Time `json:"addedAt"`
}

// NewNote builds a note with trimmed text, defaulted author identity and
// the append timestamp. Callers must reject empty text beforehand.
func NewNote(text, addedBy, addedByEmail string, now time.Time) Note {
	if strings.TrimSpace(addedBy) == "" {
		addedBy = UnknownAuthor
	}
	if strings.TrimSpace(addedByEmail) == "" {
		addedByEmail = UnknownAuthorEmail
	}
	return Note{
		Text:         text,
		AddedBy:      addedBy,
		AddedByEmail: addedByEmail,
		AddedAt:      now,
	}
}
