// Package prompt assembles the narration prompt for a turn. Assembly is
// a pure function of the adventure state handed in; it performs no I/O.
package prompt

import (
	"fmt"
	"sort"
	"strings"

	"adventure-server/internal/models"
)

// Input carries everything the assembler may include in a prompt.
// Empty optional fields drop their section entirely.
type Input struct {
	Summary          string
	LastTurn         string
	Context          string
	CharacterName    string
	ActionText       string
	Rolls            []models.RollResult
	ActiveCharacters []*models.Character
}

// Assemble renders the ordered prompt sections separated by blank
// lines. Only the action section is mandatory; the rest are omitted
// when their source data is empty.
func Assemble(in Input) string {
	var sections []string

	if s := strings.TrimSpace(in.Summary); s != "" {
		sections = append(sections, "Summary so far:\n"+s)
	}
	if s := strings.TrimSpace(in.LastTurn); s != "" {
		sections = append(sections, "Last turn:\n"+s)
	}
	if s := strings.TrimSpace(in.Context); s != "" {
		sections = append(sections, "Additional context:\n"+s)
	}

	sections = append(sections, fmt.Sprintf("Action of %s:\n%s", in.CharacterName, in.ActionText))

	if len(in.Rolls) > 0 {
		lines := make([]string, 0, len(in.Rolls)+1)
		lines = append(lines, "Dice rolls this round:")
		for _, roll := range in.Rolls {
			lines = append(lines, formatRollLine(roll))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if len(in.ActiveCharacters) > 0 {
		lines := make([]string, 0, len(in.ActiveCharacters)+1)
		lines = append(lines, "Active characters in scene:")
		for _, character := range in.ActiveCharacters {
			lines = append(lines, formatCharacterLine(character))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	return strings.Join(sections, "\n\n")
}

// formatRollLine renders one roll with fallbacks for absent fields, so
// a sparse roll record never breaks the prompt.
func formatRollLine(roll models.RollResult) string {
	id := "?"
	if roll.CharacterID != nil {
		id = fmt.Sprintf("%d", *roll.CharacterID)
	}
	kind := roll.Kind
	if kind == "" {
		kind = "rolagem"
	}
	value := "?"
	if roll.Value != nil {
		value = fmt.Sprintf("%d", *roll.Value)
	}
	outcome := roll.Outcome
	if outcome == "" {
		outcome = "sem resultado"
	}
	return fmt.Sprintf("- Personagem %s | %s => %s (%s)", id, kind, value, outcome)
}

// formatCharacterLine renders one active character with its attribute
// pairs in key order, so the same roster always produces the same line.
func formatCharacterLine(character *models.Character) string {
	keys := make([]string, 0, len(character.Attributes))
	for key := range character.Attributes {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, fmt.Sprintf("%s: %d", key, character.Attributes[key]))
	}

	line := fmt.Sprintf("- %s (%s)", character.Name, character.Class)
	if len(pairs) > 0 {
		line += " | " + strings.Join(pairs, ", ")
	}
	if desc := strings.TrimSpace(character.Description); desc != "" {
		line += " | " + desc
	}
	return line
}
