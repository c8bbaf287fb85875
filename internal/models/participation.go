package models

// Participation roles.
const (
	RolePlayer = "player"
	RoleMaster = "master"
)

// Participation links a user (and optionally one of their characters) to
// an adventure. At most one row exists per (user, adventure) pair; the
// character binding is chosen later, so it is nullable.
type Participation struct {
	ID          int64  `db:"id" json:"id"`
	UserID      int64  `db:"user_id" json:"userId"`
	AdventureID int64  `db:"adventure_id" json:"adventureId"`
	CharacterID *int64 `db:"character_id" json:"characterId,omitempty"`
	Role        string `db:"role" json:"role"`
}
