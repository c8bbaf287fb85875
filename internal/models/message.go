package models

import "time"

// Message author labels. A nil UserID means narrator authorship.
const (
	AuthorPlayer   = "player"
	AuthorNarrator = "narrator"
)

// Message is one entry of an adventure's canonical transcript.
// Append-only, ordered by creation time.
type Message struct {
	ID          int64     `db:"id" json:"id"`
	AdventureID int64     `db:"adventure_id" json:"adventureId"`
	UserID      *int64    `db:"user_id" json:"userId,omitempty"`
	Author      string    `db:"author" json:"author"`
	Text        string    `db:"text" json:"text"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
