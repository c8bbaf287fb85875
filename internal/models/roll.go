package models

// RollResult is one dice-roll annotation attached to a turn submission.
// The field names follow the wire format the dice widgets already send;
// every field is optional and the prompt renderer falls back per-field.
type RollResult struct {
	CharacterID *int64 `json:"personagem_id,omitempty"`
	Kind        string `json:"tipo,omitempty"`
	Value       *int   `json:"valor,omitempty"`
	Outcome     string `json:"resultado,omitempty"`
}
