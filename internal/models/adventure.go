package models

import (
	"encoding/json"
	"time"
)

// Adventure lifecycle statuses.
const (
	StatusPreparing  = "preparing"
	StatusInProgress = "in_progress"
	StatusConcluded  = "concluded"
)

// Adventure is a shared narrative session users join and play turns in.
// The latest narration is not stored here: it is a projection of the
// newest TurnSession row, so the append-only log stays authoritative.
type Adventure struct {
	ID          int64           `db:"id" json:"id"`
	CreatorID   int64           `db:"creator_id" json:"creatorId"`
	Title       string          `db:"title" json:"title"`
	Description string          `db:"description" json:"description"`
	Setting     string          `db:"setting" json:"setting"`
	Rules       RollRules       `db:"rules" json:"rules"`
	Status      string          `db:"status" json:"status"`
	Summary     string          `db:"summary" json:"summary"`
	Metadata    json.RawMessage `db:"metadata" json:"metadata,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
}

// Roll outcome labels. Kept in the table language the dice widgets send.
const (
	OutcomeCriticalFailure = "falha crítica"
	OutcomeFailure         = "falha"
	OutcomeSuccess         = "sucesso normal"
	OutcomeCriticalSuccess = "sucesso crítico"
)

// RollRules holds the four ordered d100 thresholds that classify a roll.
type RollRules struct {
	CriticalFailureMax int `json:"critical_failure_max"`
	FailureMax         int `json:"failure_max"`
	SuccessMax         int `json:"success_max"`
	CriticalSuccessMin int `json:"critical_success_min"`
}

// DefaultRollRules returns the thresholds used when an adventure defines
// none of its own.
func DefaultRollRules() RollRules {
	return RollRules{
		CriticalFailureMax: 10,
		FailureMax:         50,
		SuccessMax:         90,
		CriticalSuccessMin: 91,
	}
}

// Normalized resolves the rules to four usable ordered thresholds,
// falling back to the defaults when fields are absent or the stored
// ordering is broken.
func (r RollRules) Normalized() RollRules {
	d := DefaultRollRules()
	if r.CriticalFailureMax <= 0 {
		r.CriticalFailureMax = d.CriticalFailureMax
	}
	if r.FailureMax <= 0 {
		r.FailureMax = d.FailureMax
	}
	if r.SuccessMax <= 0 {
		r.SuccessMax = d.SuccessMax
	}
	if r.CriticalSuccessMin <= 0 {
		r.CriticalSuccessMin = d.CriticalSuccessMin
	}
	if r.CriticalFailureMax >= r.FailureMax || r.FailureMax >= r.SuccessMax || r.SuccessMax >= r.CriticalSuccessMin {
		return d
	}
	return r
}

// Outcome classifies a roll value against the thresholds.
func (r RollRules) Outcome(value int) string {
	n := r.Normalized()
	switch {
	case value <= n.CriticalFailureMax:
		return OutcomeCriticalFailure
	case value <= n.FailureMax:
		return OutcomeFailure
	case value <= n.SuccessMax:
		return OutcomeSuccess
	default:
		return OutcomeCriticalSuccess
	}
}
