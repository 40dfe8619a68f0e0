package payment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetInstructions(t *testing.T) {
	t.Run("ReturnsTemplateForKnownMethod", func(t *testing.T) {
		instructions := GetInstructions(MethodBankTransfer)
		assert.NotEmpty(t, instructions)

		found := false
		for _, instr := range instructions {
			if strings.Contains(instr, "{{reference}}") {
				found = true
				break
			}
		}
		assert.True(t, found, "bank transfer instructions carry the reference")
	})

	t.Run("ReturnsDefaultForUnknown", func(t *testing.T) {
		instructions := GetInstructions("UNKNOWN_METHOD")
		assert.Len(t, instructions, 1)
	})
}

func TestInjectVariables(t *testing.T) {
	t.Run("ReplacesPlaceholders", func(t *testing.T) {
		template := []string{"Chuyển {{amount}} với nội dung {{reference}}."}
		vars := InstructionVars{
			"amount":    "100.000đ",
			"reference": "ORD-1",
		}

		result := InjectVariables(template, vars)

		assert.Equal(t, []string{"Chuyển 100.000đ với nội dung ORD-1."}, result)
	})

	t.Run("LeavesMissingVariables", func(t *testing.T) {
		result := InjectVariables([]string{"Pay {{amount}}"}, InstructionVars{})
		assert.Equal(t, "Pay {{amount}}", result[0])
	})
}

func TestFormatAmount(t *testing.T) {
	tests := map[int64]string{
		0:        "0đ",
		999:      "999đ",
		1000:     "1.000đ",
		1250000:  "1.250.000đ",
		-45000:   "-45.000đ",
		12345678: "12.345.678đ",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatAmount(in), "amount %d", in)
	}
}
