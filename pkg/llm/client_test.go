package llm

import (
	"strings"
	"testing"
)

func TestNormalizeAnswer(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain answer unchanged",
			input: "Acme Corp",
			want:  "Acme Corp",
		},
		{
			name:  "trims whitespace",
			input: "  Acme Corp \n",
			want:  "Acme Corp",
		},
		{
			name:  "strips quotes",
			input: `"Acme Corp"`,
			want:  "Acme Corp",
		},
		{
			name:  "strips trailing period",
			input: "Acme Corp.",
			want:  "Acme Corp",
		},
		{
			name:  "sentinel preserved",
			input: ` "N/A" `,
			want:  "N/A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeAnswer(tt.input)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIdentifyUserPrompt(t *testing.T) {
	prompt := identifyUserPrompt("Acme Corp beats earnings", []string{"Acme Corp", "Globex Corporation"})

	if !strings.Contains(prompt, `"Acme Corp beats earnings"`) {
		t.Errorf("prompt missing headline: %q", prompt)
	}
	if !strings.Contains(prompt, "Acme Corp, Globex Corporation") {
		t.Errorf("prompt missing company list: %q", prompt)
	}
}

func TestSynthesizeUserPrompt(t *testing.T) {
	prompt := synthesizeUserPrompt("Acme Corp beats earnings", "The stock closed at $50.00.")

	if !strings.Contains(prompt, "Primary Source") {
		t.Errorf("prompt missing primary source label: %q", prompt)
	}
	if !strings.Contains(prompt, "The stock closed at $50.00.") {
		t.Errorf("prompt missing market context: %q", prompt)
	}
}
