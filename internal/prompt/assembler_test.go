package prompt

import (
	"strings"
	"testing"

	"adventure-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func TestAssemble_OnlyActionSection(t *testing.T) {
	got := Assemble(Input{
		CharacterName: "Aria",
		ActionText:    "open the door",
	})

	assert.Equal(t, "Action of Aria:\nopen the door", got)
	assert.NotContains(t, got, "Summary so far")
	assert.NotContains(t, got, "Last turn")
	assert.NotContains(t, got, "Additional context")
	assert.NotContains(t, got, "Dice rolls")
	assert.NotContains(t, got, "Active characters")
}

func TestAssemble_SectionOrder(t *testing.T) {
	got := Assemble(Input{
		Summary:       "The party reached the gate.",
		LastTurn:      "A guard blocked the way.",
		Context:       "It is raining.",
		CharacterName: "Aria",
		ActionText:    "bribe the guard",
		Rolls: []models.RollResult{
			{CharacterID: int64Ptr(3), Kind: "Destreza", Value: intPtr(72), Outcome: "sucesso normal"},
		},
		ActiveCharacters: []*models.Character{
			{Name: "Aria", Class: "Rogue", Attributes: map[string]int{"forca": 40, "destreza": 70}, Description: "quick hands"},
		},
	})

	sections := strings.Split(got, "\n\n")
	require.Len(t, sections, 6)
	assert.True(t, strings.HasPrefix(sections[0], "Summary so far:"))
	assert.True(t, strings.HasPrefix(sections[1], "Last turn:"))
	assert.True(t, strings.HasPrefix(sections[2], "Additional context:"))
	assert.Equal(t, "Action of Aria:\nbribe the guard", sections[3])
	assert.True(t, strings.HasPrefix(sections[4], "Dice rolls this round:"))
	assert.True(t, strings.HasPrefix(sections[5], "Active characters in scene:"))
}

func TestAssemble_RollLineFormat(t *testing.T) {
	got := Assemble(Input{
		CharacterName: "Aria",
		ActionText:    "strike",
		Rolls: []models.RollResult{
			{CharacterID: int64Ptr(3), Kind: "Destreza", Value: intPtr(72), Outcome: "sucesso normal"},
		},
	})

	assert.Contains(t, got, "- Personagem 3 | Destreza => 72 (sucesso normal)")
}

func TestAssemble_RollLineFallbacks(t *testing.T) {
	got := Assemble(Input{
		CharacterName: "Aria",
		ActionText:    "strike",
		Rolls:         []models.RollResult{{}},
	})

	assert.Contains(t, got, "- Personagem ? | rolagem => ? (sem resultado)")
}

func TestAssemble_ActiveCharacterLine(t *testing.T) {
	got := Assemble(Input{
		CharacterName: "Aria",
		ActionText:    "wait",
		ActiveCharacters: []*models.Character{
			{
				Name:        "Borin",
				Class:       "Warrior",
				Attributes:  map[string]int{"forca": 80, "destreza": 40, "inteligencia": 30},
				Description: "a scarred veteran",
			},
		},
	})

	// Attribute pairs come out in key order regardless of map iteration.
	assert.Contains(t, got, "- Borin (Warrior) | destreza: 40, forca: 80, inteligencia: 30 | a scarred veteran")
}

func TestAssemble_BlankSectionsOmitted(t *testing.T) {
	got := Assemble(Input{
		Summary:       "   ",
		LastTurn:      "\n",
		CharacterName: "Aria",
		ActionText:    "look around",
	})

	assert.Equal(t, "Action of Aria:\nlook around", got)
}
