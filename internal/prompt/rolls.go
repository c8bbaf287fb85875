package prompt

import (
	"encoding/json"
	"strings"

	"adventure-server/internal/models"
)

// ParseRolls normalizes the roll payload a turn submission may carry.
// Three wire shapes are accepted: a JSON list, repeated form fields each
// holding one JSON fragment, and a single form field holding a JSON
// encoded list or object. Anything unparseable degrades to an empty
// roll list; a bad dice widget never fails the turn.
//
// Rolls arriving without an outcome get one computed from the
// adventure's thresholds.
func ParseRolls(raw []string, rules models.RollRules) []models.RollResult {
	var rolls []models.RollResult
	for _, fragment := range raw {
		fragment = strings.TrimSpace(fragment)
		if fragment == "" {
			continue
		}
		rolls = append(rolls, parseFragment(fragment)...)
	}

	for i := range rolls {
		if rolls[i].Outcome == "" && rolls[i].Value != nil {
			rolls[i].Outcome = rules.Outcome(*rolls[i].Value)
		}
	}
	return rolls
}

// parseFragment decodes one JSON fragment as either a list of rolls or
// a single roll object. Parse failures yield nothing.
func parseFragment(fragment string) []models.RollResult {
	var list []models.RollResult
	if err := json.Unmarshal([]byte(fragment), &list); err == nil {
		return list
	}
	var single models.RollResult
	if err := json.Unmarshal([]byte(fragment), &single); err == nil {
		return []models.RollResult{single}
	}
	return nil
}
