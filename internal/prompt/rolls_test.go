package prompt

import (
	"strconv"
	"testing"

	"adventure-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRolls(t *testing.T) {
	rules := models.DefaultRollRules()

	tests := []struct {
		name string
		raw  []string
		want int
	}{
		{
			name: "json list",
			raw:  []string{`[{"personagem_id": 3, "tipo": "Destreza", "valor": 72, "resultado": "sucesso normal"}]`},
			want: 1,
		},
		{
			name: "repeated fragments",
			raw: []string{
				`{"personagem_id": 1, "tipo": "Força", "valor": 20}`,
				`{"personagem_id": 2, "tipo": "Destreza", "valor": 95}`,
			},
			want: 2,
		},
		{
			name: "single object",
			raw:  []string{`{"personagem_id": 7, "valor": 50}`},
			want: 1,
		},
		{
			name: "garbage degrades to empty",
			raw:  []string{`not json at all`},
			want: 0,
		},
		{
			name: "empty input",
			raw:  nil,
			want: 0,
		},
		{
			name: "blank fragments skipped",
			raw:  []string{"", "  "},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRolls(tt.raw, rules)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestParseRolls_KeepsProvidedOutcome(t *testing.T) {
	rolls := ParseRolls([]string{`[{"personagem_id": 3, "tipo": "Destreza", "valor": 5, "resultado": "sucesso normal"}]`}, models.DefaultRollRules())
	require.Len(t, rolls, 1)
	assert.Equal(t, "sucesso normal", rolls[0].Outcome)
}

func TestParseRolls_ComputesMissingOutcome(t *testing.T) {
	rules := models.DefaultRollRules()

	tests := []struct {
		value   int
		outcome string
	}{
		{value: 5, outcome: models.OutcomeCriticalFailure},
		{value: 10, outcome: models.OutcomeCriticalFailure},
		{value: 11, outcome: models.OutcomeFailure},
		{value: 50, outcome: models.OutcomeFailure},
		{value: 72, outcome: models.OutcomeSuccess},
		{value: 90, outcome: models.OutcomeSuccess},
		{value: 91, outcome: models.OutcomeCriticalSuccess},
		{value: 100, outcome: models.OutcomeCriticalSuccess},
	}

	for _, tt := range tests {
		rolls := ParseRolls([]string{`{"personagem_id": 1, "valor": ` + strconv.Itoa(tt.value) + `}`}, rules)
		require.Len(t, rolls, 1)
		assert.Equal(t, tt.outcome, rolls[0].Outcome, "value %d", tt.value)
	}
}

func TestParseRolls_NoValueNoOutcome(t *testing.T) {
	rolls := ParseRolls([]string{`{"personagem_id": 1, "tipo": "Sorte"}`}, models.DefaultRollRules())
	require.Len(t, rolls, 1)
	assert.Empty(t, rolls[0].Outcome)
}
