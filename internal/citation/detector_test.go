package citation

import (
	"regexp"
	"strings"
	"testing"
)

func TestDetector_Match(t *testing.T) {
	d := NewDetector()

	tests := []struct {
		name     string
		text     string
		category string
	}{
		{"header", "DAFTAR PUSTAKA", "headers"},
		{"standalone section header", "Abstrak:", "headers"},
		{"url", "Tersedia di https://example.com/artikel", "url"},
		{"email", "Hubungi penulis di penulis@kampus.ac.id untuk data.", "email"},
		{"journal metadata", "Jurnal Pendidikan, Vol. 5, No. 2, hlm. 10-20.", "journal_metadata"},
		{"legal", "Pasal 28E ayat (3) UUD 1945 menjamin kebebasan berserikat.", "legal"},
		{"statute", "Hal ini diatur dalam UU Nomor 11 Tahun 2008 tentang ITE.", "legal"},
		{"direct quote", `Ia berkata, "pendidikan adalah senjata paling ampuh untuk mengubah dunia" kepada mahasiswa.`, "direct_quote"},
		{"parenthetical", "Hal ini sejalan dengan temuan sebelumnya (Santoso dkk., 2019, hlm. 45).", "parenthetical"},
		{"parenthetical english", "This was reported earlier (Smith & Jones, 2020).", "parenthetical"},
		{"narrative", "Sugiyono (2017) mendefinisikan populasi sebagai wilayah generalisasi.", "narrative"},
		{"bracketed", "Metode ini telah banyak digunakan [1, 2, 5] dalam penelitian.", "bracketed"},
		{"bibliography", "Smith, J. (2020). Judul buku yang panjang.", "bib_style"},
		{"bibliography single name", "Sugiyono. (2017). Metode penelitian pendidikan.", "bib_style"},
		{"footnote", "Ibid., hlm. 23.", "footnote"},
		{"statistics", "Hasil uji menunjukkan nilai signifikan p < 0,05 pada kelompok perlakuan.", "statistics"},
		{"f statistic", "Analisis varians menghasilkan F(2, 45) = 3.21 untuk faktor utama.", "statistics"},
		{"title case run", "Metode Penelitian Kuantitatif Kualitatif Dan Pengembangan Pendidikan", "title_case_run"},
		{"intro phrase", "Menurut para ahli, penelitian kuantitatif berlandaskan positivisme.", "intro_phrase"},
		{"english intro phrase", "According to the survey, most students study at night.", "intro_phrase"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := d.Match(tt.text)
			if !ok {
				t.Fatalf("Expected %q to be a citation", tt.text)
			}
			if got != tt.category {
				t.Errorf("Expected category %q, got %q", tt.category, got)
			}
			if !d.IsCitation(tt.text) {
				t.Error("Expected IsCitation to agree with Match")
			}
		})
	}
}

func TestDetector_PlainProse(t *testing.T) {
	d := NewDetector()

	prose := []string{
		"Teknologi kecerdasan buatan berkembang sangat pesat dalam beberapa tahun terakhir.",
		"Saya pergi ke pasar kemarin sore bersama adik.",
		"Berbagai faktor memengaruhi hasil belajar siswa di sekolah.",
		"Penelitian ini menggunakan metode penelitian kualitatif deskriptif.",
	}

	for _, text := range prose {
		if category, ok := d.Match(text); ok {
			t.Errorf("Expected %q not to be a citation, matched %q", text, category)
		}
	}
}

func TestDetector_IntroPhraseOnlyOnShortSegments(t *testing.T) {
	d := NewDetector()

	long := "Menurut saya " + strings.Repeat("kata ", IntroPhraseMaxWords)
	if d.IsCitation(long) {
		t.Errorf("Expected long segment opening with a reporting phrase not to be a citation")
	}

	mid := "Data dikumpulkan menurut jadwal yang sudah ditentukan sebelumnya."
	if d.IsCitation(mid) {
		t.Errorf("Expected reporting phrase mid-sentence not to be a citation")
	}
}

func TestDetector_PriorityOrder(t *testing.T) {
	d := NewDetector()

	got, ok := d.Match("Menurut https://example.com data naik.")
	if !ok || got != "url" {
		t.Errorf("Expected hard exclusion to win, got %q (ok=%v)", got, ok)
	}

	got, _ = d.Match(`Sugiyono (2017) menulis "populasi adalah wilayah generalisasi yang terdiri atas objek".`)
	if got != "direct_quote" {
		t.Errorf("Expected direct_quote before narrative, got %q", got)
	}
}

func TestDetector_Register(t *testing.T) {
	d := NewDetector()
	before := d.Categories()

	d.Register(Category{
		Name:    "isbn",
		Tier:    TierHard,
		Pattern: regexp.MustCompile(`(?i)\bisbn\b`),
	})
	d.Register(Category{
		Name:    "laporan",
		Tier:    TierHeuristic,
		Pattern: regexp.MustCompile(`(?i)^laporan\b`),
	})

	after := d.Categories()
	if len(after) != len(before)+2 {
		t.Fatalf("Expected %d categories, got %d", len(before)+2, len(after))
	}

	// Existing categories keep their relative order
	var existing []string
	for _, name := range after {
		if name != "isbn" && name != "laporan" {
			existing = append(existing, name)
		}
	}
	if strings.Join(existing, ",") != strings.Join(before, ",") {
		t.Errorf("Expected existing order %v, got %v", before, existing)
	}

	if index(after, "isbn") != index(after, "legal")+1 {
		t.Errorf("Expected isbn right after the last hard category, got %v", after)
	}
	if after[len(after)-1] != "laporan" {
		t.Errorf("Expected laporan last, got %v", after)
	}

	if got, _ := d.Match("ISBN 978-602-123"); got != "isbn" {
		t.Errorf("Expected registered category to match, got %q", got)
	}
}

func index(list []string, name string) int {
	for i, v := range list {
		if v == name {
			return i
		}
	}
	return -1
}
