package ingest

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func buildDOCX(t *testing.T, bodyXML string) []byte {
	t.Helper()
	var b bytes.Buffer
	zw := zip.NewWriter(&b)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := f.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>` + bodyXML)); err != nil {
		t.Fatalf("write xml: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return b.Bytes()
}

func TestParseFile_DOCX(t *testing.T) {
	raw := buildDOCX(t, `<w:document><w:body>`+
		`<w:p><w:r><w:t>Bab 1</w:t></w:r></w:p>`+
		`<w:p><w:r><w:t xml:space="preserve">Saya pergi </w:t></w:r><w:r><w:t>ke pasar.</w:t></w:r></w:p>`+
		`</w:body></w:document>`)

	got, err := ParseFile("esai.docx", raw)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}

	want := "Bab 1\n\nSaya pergi ke pasar."
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestParseFile_DOCXMissingDocument(t *testing.T) {
	var b bytes.Buffer
	zw := zip.NewWriter(&b)
	_, _ = zw.Create("word/styles.xml")
	_ = zw.Close()

	if _, err := ParseFile("kosong.docx", b.Bytes()); err == nil {
		t.Error("Expected error for docx without document.xml")
	}
}

func TestParseFile_Text(t *testing.T) {
	got, err := ParseFile("catatan.TXT", []byte("Halo dunia.\n\nParagraf kedua."))
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if got != "Halo dunia.\n\nParagraf kedua." {
		t.Errorf("Unexpected text: %q", got)
	}
}

func TestParseFile_Markdown(t *testing.T) {
	md := "# Judul\n\nIni **tebal** dan [tautan](https://example.com).\n\n- butir satu\n> kutipan"

	got, err := ParseFile("esai.md", []byte(md))
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}

	for _, unwanted := range []string{"#", "**", "](", "- ", "> "} {
		if strings.Contains(got, unwanted) {
			t.Errorf("Expected %q to be stripped from %q", unwanted, got)
		}
	}
	for _, wanted := range []string{"Judul", "tebal", "tautan", "butir satu", "kutipan"} {
		if !strings.Contains(got, wanted) {
			t.Errorf("Expected %q in %q", wanted, got)
		}
	}
}

func TestParseFile_HTML(t *testing.T) {
	page := `<html><head><script>var x = 1;</script></head><body><nav>Menu</nav><p>Paragraf pertama.</p><p>Paragraf kedua.</p></body></html>`

	got, err := ParseFile("halaman.html", []byte(page))
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if got != "Paragraf pertama.\n\nParagraf kedua." {
		t.Errorf("Unexpected text: %q", got)
	}
}

func TestParseFile_Unsupported(t *testing.T) {
	_, err := ParseFile("gambar.png", []byte{0x89, 'P', 'N', 'G'})
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("Expected ErrUnsupported, got %v", err)
	}
}

func TestParseFile_Empty(t *testing.T) {
	_, err := ParseFile("kosong.txt", []byte("  \n\n "))
	if !errors.Is(err, ErrNoText) {
		t.Errorf("Expected ErrNoText, got %v", err)
	}
}

func TestParseFile_InvalidPDF(t *testing.T) {
	if _, err := ParseFile("rusak.pdf", []byte("not a pdf")); err == nil {
		t.Error("Expected error for invalid PDF")
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "esai.txt")
	if err := os.WriteFile(path, []byte("Isi berkas."), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if got != "Isi berkas." {
		t.Errorf("Unexpected text: %q", got)
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Error("Expected error for missing file")
	}
}
