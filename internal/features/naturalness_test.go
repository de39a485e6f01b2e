package features

import (
	"math"
	"strings"
	"testing"
)

func TestNaturalness_Bonus(t *testing.T) {
	n := NewNaturalness(DefaultLexicon())

	tests := []struct {
		name string
		text string
		want float64
	}{
		{"empty", "", 0},
		{"plain", "Hasil penelitian menunjukkan peningkatan.", 0},
		{"formal clamps at zero", "Oleh karena itu, hasil ini sangat komprehensif.", 0},
		{"informal with lowercase start", "gue udah capek banget sama tugas ini", LowercaseBonus + 4*InformalBonus},
		{"repeated markers count each time", "gitu gitu gitu", LowercaseBonus + 3*InformalBonus},
		{"run-on", strings.Repeat("Kata ", 25), RunOnBonus},
		{"run-on with lowercase", strings.Repeat("kata ", 25), RunOnBonus + LowercaseBonus},
		{"informal offset by formal", "Jadi gitu, oleh karena itu kita pulang.", InformalBonus - FormalPenalty},
		{"longest marker wins", "wkwkwk lucu sekali.", LowercaseBonus + InformalBonus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Bonus(tt.text); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Bonus(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestNaturalness_LengthNormalization(t *testing.T) {
	n := NewNaturalness(DefaultLexicon())

	text := "gue " + strings.Repeat("kata ", 499)
	want := (RunOnBonus + LowercaseBonus + InformalBonus) * 250 / 501

	if got := n.Bonus(text); math.Abs(got-want) > 1e-9 {
		t.Errorf("Bonus() = %v, want %v", got, want)
	}
}

func TestNaturalness_WholeWordsOnly(t *testing.T) {
	n := NewNaturalness(DefaultLexicon())

	// "gagal" contains "ga", "lokasi" contains "lo"
	if got := n.Bonus("Percobaan gagal di lokasi itu."); got != 0 {
		t.Errorf("Expected no bonus for partial matches, got %v", got)
	}
}

func TestNaturalness_EmptyLexicon(t *testing.T) {
	n := NewNaturalness(Lexicon{})

	if got := n.Bonus("gue udah capek"); got != LowercaseBonus {
		t.Errorf("Expected only the lowercase bonus, got %v", got)
	}
}
