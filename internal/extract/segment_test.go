package extract

import (
	"reflect"
	"strings"
	"testing"
)

func TestSegment_SplitsOnTerminalPunctuation(t *testing.T) {
	text := "Ini kalimat pertama. Ini kalimat kedua! Apakah ini yang ketiga? Ya."

	got := Segment(text)
	want := []string{"Ini kalimat pertama.", "Ini kalimat kedua!", "Apakah ini yang ketiga?"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Segment() = %q, want %q", got, want)
	}
}

func TestSegment_RequiresUppercaseAfterTerminator(t *testing.T) {
	text := "Nilainya naik 2.5 persen. lalu turun lagi. Kemudian stabil."

	got := Segment(text)
	want := []string{"Nilainya naik 2.5 persen. lalu turun lagi.", "Kemudian stabil."}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Segment() = %q, want %q", got, want)
	}
}

func TestSegment_QuotedSpansAreAtomic(t *testing.T) {
	text := `Dia berkata “Saya tidak setuju. Sama sekali tidak.” lalu pergi begitu saja.`

	got := Segment(text)
	want := []string{"Dia berkata", "“Saya tidak setuju. Sama sekali tidak.”", "lalu pergi begitu saja."}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Segment() = %q, want %q", got, want)
	}
}

func TestSegment_StraightQuotes(t *testing.T) {
	text := `Penulis menulis "ini adalah kutipan yang panjang sekali" dalam bukunya.`

	got := Segment(text)
	if len(got) != 3 {
		t.Fatalf("Expected 3 segments, got %d: %q", len(got), got)
	}
	if got[1] != `"ini adalah kutipan yang panjang sekali"` {
		t.Errorf("Expected quoted span as its own segment, got %q", got[1])
	}
}

func TestSegment_SplitsParagraphs(t *testing.T) {
	text := "DAFTAR PUSTAKA\n\nSmith, J. (2020). Judul buku."

	got := Segment(text)
	want := []string{"DAFTAR PUSTAKA", "Smith, J. (2020).", "Judul buku."}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Segment() = %q, want %q", got, want)
	}
}

func TestSegment_DropsShortSegments(t *testing.T) {
	text := "Oke. Ini adalah kalimat yang cukup panjang. Ya. Hmm!"

	got := Segment(text)
	for _, s := range got {
		if len([]rune(s)) <= MinSegmentChars {
			t.Errorf("Segment too short: %q", s)
		}
	}
	if len(got) != 1 {
		t.Errorf("Expected 1 segment, got %d: %q", len(got), got)
	}
}

func TestSegment_FallsBackToWholeText(t *testing.T) {
	got := Segment("Ya.")
	if len(got) != 1 || got[0] != "Ya." {
		t.Errorf("Expected whole text as single segment, got %q", got)
	}
}

func TestSegment_Empty(t *testing.T) {
	if got := Segment(""); len(got) != 0 {
		t.Errorf("Expected no segments for empty text, got %q", got)
	}
}

func TestSegment_PreservesOrder(t *testing.T) {
	var parts []string
	for _, w := range []string{"Satu", "Dua", "Tiga", "Empat", "Lima"} {
		parts = append(parts, w+" adalah kalimat nomor urut.")
	}

	got := Segment(strings.Join(parts, " "))
	if !reflect.DeepEqual(got, parts) {
		t.Errorf("Segment() = %q, want %q", got, parts)
	}
}
