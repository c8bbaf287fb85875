package models

import "time"

// TurnSession is the append-only record of one processed turn: the
// narration produced, the player actions that led to it, the exact
// prompt submitted and the raw provider response. Rows are never
// mutated after creation.
type TurnSession struct {
	ID            int64     `db:"id" json:"id"`
	AdventureID   int64     `db:"adventure_id" json:"adventureId"`
	Narration     string    `db:"narration" json:"narration"`
	PlayerActions []string  `db:"player_actions" json:"playerActions"`
	Prompt        string    `db:"prompt" json:"-"`
	RawResponse   string    `db:"raw_response" json:"-"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}
