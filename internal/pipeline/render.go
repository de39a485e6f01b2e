package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/aksara/internal/model"
)

const segmentPreviewRunes = 80

// Renderer writes reports as JSON, Markdown or a console summary
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// WriteJSON encodes the report as indented JSON
func (r *Renderer) WriteJSON(w io.Writer, report *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// RenderJSON writes the report as JSON to path
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	return writeFile(path, func(w io.Writer) error {
		return r.WriteJSON(w, report)
	})
}

// RenderMarkdown writes the Markdown report to path
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, r.Markdown(report))
		return err
	})
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return write(f)
}

// Markdown renders the report as a Markdown document
func (r *Renderer) Markdown(report *model.Report) string {
	var b strings.Builder
	res := report.Result

	b.WriteString("# Aksara Authenticity Report\n\n")
	fmt.Fprintf(&b, "- **Subject:** %s\n", report.Subject)
	if report.Source != "" {
		fmt.Fprintf(&b, "- **Source:** %s\n", report.Source)
	}
	if report.ID != "" {
		fmt.Fprintf(&b, "- **Scan ID:** `%s`\n", report.ID)
	}
	fmt.Fprintf(&b, "- **Scanned:** %s\n", report.ScannedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "- **Words:** %d\n", report.Words)
	if report.Digest != "" {
		fmt.Fprintf(&b, "- **SHA-256:** `%s`\n", report.Digest)
	}
	fmt.Fprintf(&b, "- **Oracle:** %s\n\n", report.Oracle)

	if res == nil {
		b.WriteString("_No result._\n")
		return b.String()
	}

	b.WriteString("## Verdict\n\n")
	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| AI probability | **%.2f%%** |\n", res.Probability)
	fmt.Fprintf(&b, "| Status | %s |\n", res.Status)
	if res.AISource != "" {
		fmt.Fprintf(&b, "| Likely source | %s |\n", res.AISource)
	}
	fmt.Fprintf(&b, "| Tokens | %d |\n", res.TokenCount)
	fmt.Fprintf(&b, "| Citations | %.2f%% of segments |\n\n", res.CitationPercentage)

	if report.CertificateEligible() {
		fmt.Fprintf(&b, "**Certificate:** eligible (probability at or below %.0f%%)\n\n", model.CertificateThreshold)
	} else {
		fmt.Fprintf(&b, "**Certificate:** not eligible (probability above %.0f%%)\n\n", model.CertificateThreshold)
	}

	if res.PartiallyAnalyzed {
		b.WriteString("> Long document: only the head, middle and tail segments were scored.\n\n")
	}

	b.WriteString("## Ensemble Opinions\n\n")
	b.WriteString("| Opinion | Score |\n|---|---|\n")
	fmt.Fprintf(&b, "| Semantic | %.2f |\n", res.Opinions.Semantic)
	fmt.Fprintf(&b, "| Perplexity | %.2f |\n", res.Opinions.Perplexity)
	fmt.Fprintf(&b, "| Burstiness | %.2f |\n", res.Opinions.Burstiness)
	fmt.Fprintf(&b, "| Humanity bonus | -%.2f |\n\n", res.HumanityBonus)

	c := res.Counts
	b.WriteString("## Segment Breakdown\n\n")
	b.WriteString("| AI | Paraphrase | Mixed | Human | Citation | Foreign | Skipped | Noise |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %d | %d | %d | %d | %d |\n\n",
		c.AI, c.Paraphrase, c.Mixed, c.Human, c.Citation, c.Foreign, c.Skipped, c.Noise)

	if len(res.Segments) > 0 {
		b.WriteString("## Segments\n\n")
		b.WriteString("| # | Score | Language | Flags | Text |\n|---|---|---|---|---|\n")
		for _, seg := range res.Segments {
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n",
				seg.Index+1, segmentScore(seg), seg.Language, segmentFlags(seg), tableCell(seg.Text))
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		b.WriteString("_Generated by Aksara. Scores are statistical estimates of machine authorship, not proof. ")
		b.WriteString("The analysed text is not retained._\n")
	}

	return b.String()
}

func segmentScore(seg model.Segment) string {
	switch {
	case seg.Excluded():
		return "n/a"
	case seg.Skipped:
		return "skipped"
	default:
		return fmt.Sprintf("%.2f", seg.Score)
	}
}

func segmentFlags(seg model.Segment) string {
	var flags []string
	if seg.IsCitation {
		flags = append(flags, "citation")
	}
	if seg.Noise {
		flags = append(flags, "noise")
	}
	return strings.Join(flags, ", ")
}

// tableCell shortens text and escapes it for a Markdown table
func tableCell(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) > segmentPreviewRunes {
		text = string([]rune(text)[:segmentPreviewRunes]) + "..."
	}
	return strings.ReplaceAll(text, "|", `\|`)
}

// RenderSummary prints a short console summary
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	res := report.Result
	if res == nil {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	fmt.Fprintf(w, "  %s\n", report.Subject)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  AI probability:  %.2f%%\n", res.Probability)
	fmt.Fprintf(w, "  Status:          %s\n", res.Status)
	fmt.Fprintf(w, "  Opinions:        semantic %.2f, perplexity %.2f, burstiness %.2f\n",
		res.Opinions.Semantic, res.Opinions.Perplexity, res.Opinions.Burstiness)
	fmt.Fprintf(w, "  Humanity bonus:  %.2f\n", res.HumanityBonus)
	fmt.Fprintf(w, "  Segments:        %d ai, %d paraphrase, %d mixed, %d human\n",
		res.Counts.AI, res.Counts.Paraphrase, res.Counts.Mixed, res.Counts.Human)
	if res.AISource != "" {
		fmt.Fprintf(w, "  Likely source:   %s\n", res.AISource)
	}
	if res.PartiallyAnalyzed {
		fmt.Fprintln(w, "  Sampling:        hybrid (head, middle, tail)")
	}
	if report.CertificateEligible() {
		fmt.Fprintln(w, "  Certificate:     eligible")
	}
	if report.ID != "" {
		fmt.Fprintf(w, "  Scan ID:         %s\n", report.ID)
	}
	fmt.Fprintln(w)
}
