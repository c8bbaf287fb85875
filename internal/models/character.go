package models

import "time"

// Primary attribute keys. Attribute maps may carry extra named values,
// but the point budget is enforced over these three.
const (
	AttrStrength     = "forca"
	AttrDexterity    = "destreza"
	AttrIntelligence = "inteligencia"
)

// Attribute budget: each primary attribute is clamped into
// [AttributeMin, AttributeMax] and their sum may not exceed
// AttributePointBudget.
const (
	AttributeMin         = 1
	AttributeMax         = 99
	AttributePointBudget = 200
)

// Character is a player-owned character sheet.
type Character struct {
	ID            int64          `db:"id" json:"id"`
	UserID        int64          `db:"user_id" json:"userId"`
	Name          string         `db:"name" json:"name"`
	Class         string         `db:"class" json:"class"`
	Race          string         `db:"race" json:"race"`
	Attributes    map[string]int `db:"attributes" json:"attributes"`
	XP            int            `db:"xp" json:"xp"`
	Level         int            `db:"level" json:"level"`
	Description   string         `db:"description" json:"description"`
	ActiveInScene bool           `db:"active_in_scene" json:"activeInScene"`
	CreatedAt     time.Time      `db:"created_at" json:"createdAt"`
}

// ClampAttribute forces a primary attribute value into the legal range.
func ClampAttribute(v int) int {
	if v < AttributeMin {
		return AttributeMin
	}
	if v > AttributeMax {
		return AttributeMax
	}
	return v
}
