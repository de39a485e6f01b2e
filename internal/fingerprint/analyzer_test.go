package fingerprint

import "testing"

func TestAnalyzer_Identify(t *testing.T) {
	a := NewAnalyzer()

	tests := []struct {
		name        string
		text        string
		probability float64
		want        string
	}{
		{"below minimum", "Let us delve into this comprehensive topic.", 29.99, ""},
		{"gpt", "Let us delve into this topic.", 30, "GPT-4 / GPT-4o"},
		{"gpt indonesian", "Mari menyelami lanskap pendidikan modern.", 60, "GPT-4 / GPT-4o"},
		{"claude needs two", "Actually, this is fine.", 60, GenericFamily},
		{"claude", "Actually, I understand that this matters.", 60, "Claude (Anthropic)"},
		{"gemini", "Here are three reasons.", 40, "Gemini (Google)"},
		{"case insensitive", "IN SUMMARY, the plan works.", 40, "Gemini (Google)"},
		{"no match low", "Kami pergi ke pasar.", 45, ""},
		{"no match generic", "Kami pergi ke pasar.", 50, GenericFamily},
		{"whole words", "The fosterling embarked later.", 40, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Identify(tt.text, tt.probability); got != tt.want {
				t.Errorf("Identify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAnalyzer_HighestCountWins(t *testing.T) {
	a := NewAnalyzer()

	// One GPT phrase, two Gemini phrases
	text := "Here are the key takeaway points of this comprehensive plan."
	if got := a.Identify(text, 90); got != "Gemini (Google)" {
		t.Errorf("Expected Gemini to win on match count, got %q", got)
	}
}

func TestAnalyzer_TiesBrokenByDeclarationOrder(t *testing.T) {
	a := NewAnalyzerWith([]Signature{
		{Family: "first", Phrases: []string{"alpha"}, Threshold: 1},
		{Family: "second", Phrases: []string{"beta"}, Threshold: 1},
	})

	if got := a.Identify("beta and alpha", 80); got != "first" {
		t.Errorf("Expected first declared family on a tie, got %q", got)
	}
	if names := a.Families(); len(names) != 2 || names[0] != "first" {
		t.Errorf("Expected families in declaration order, got %v", names)
	}
}

func TestAnalyzer_NoSignatures(t *testing.T) {
	a := NewAnalyzerWith(nil)

	if got := a.Identify("delve", 100); got != GenericFamily {
		t.Errorf("Expected generic family without signatures, got %q", got)
	}
}
