package extract

import (
	"strings"
	"testing"
)

func TestVisibleText_SkipInvisibleElements(t *testing.T) {
	doc := `
	<html>
	<head>
		<script>var x = "script content";</script>
		<style>body { color: red; }</style>
	</head>
	<body>
		<p>Visible paragraph text.</p>
		<noscript>Noscript content</noscript>
		<iframe src="example.com">Iframe content</iframe>
		<p>Another visible paragraph.</p>
	</body>
	</html>
	`

	text, err := VisibleText(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !strings.Contains(text, "Visible paragraph") {
		t.Error("Expected to extract visible paragraph text")
	}
	if !strings.Contains(text, "Another visible paragraph") {
		t.Error("Expected to extract second visible paragraph")
	}

	for _, hidden := range []string{"script content", "color: red", "Noscript content", "Iframe content"} {
		if strings.Contains(text, hidden) {
			t.Errorf("Should not extract %q", hidden)
		}
	}
}

func TestVisibleText_BlocksBecomeParagraphs(t *testing.T) {
	doc := `<html><body><h1>Judul</h1><p>Paragraf pertama.</p><p>Paragraf kedua.</p></body></html>`

	text, err := VisibleText(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := "Judul\n\nParagraf pertama.\n\nParagraf kedua."
	if text != want {
		t.Errorf("VisibleText() = %q, want %q", text, want)
	}
}
