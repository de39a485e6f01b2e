package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/aksara/internal/model"
	"github.com/ppiankov/aksara/internal/pipeline"
	"github.com/ppiankov/aksara/internal/store"
)

var (
	outJSON        string
	outMD          string
	analyzeURL     string
	forceFull      bool
	saveReport     bool
	analyzeTimeout time.Duration
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [file|-]",
	Short: "Estimate the AI probability of a document",
	Long: `Analyze reads a document and reports how likely it was generated by a
language model.

Supported inputs: .txt, .md, .pdf, .docx, .html, standard input ("-"),
or a web page with --url.

Example:
  aksara analyze esai.docx
  aksara analyze skripsi.pdf --full --md laporan.md
  cat naskah.txt | aksara analyze - --json hasil.json
  aksara analyze --url https://example.com/artikel --save`,
	Args: func(cmd *cobra.Command, args []string) error {
		if analyzeURL != "" {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeURL, "url", "", "analyze a web page instead of a file")
	analyzeCmd.Flags().BoolVar(&forceFull, "full", false, "score every segment instead of sampling long documents")
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path")
	analyzeCmd.Flags().BoolVar(&saveReport, "save", false, "persist the result to the scan store")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 5*time.Minute, "overall analysis timeout")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), analyzeTimeout)
	defer cancel()

	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return fmt.Errorf("init pipeline: %w", err)
	}
	defer func() { _ = p.Close() }()

	if saveReport {
		s, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer s.Close()
		p.SetStore(s)
	}

	report, err := analyzeInput(ctx, p, cmd.InOrStdin(), args)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	logger.Debug("report ready", zap.String("subject", report.Subject), zap.String("id", report.ID))

	if err := p.RenderReport(cmd.OutOrStdout(), report, outJSON, outMD); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return nil
}

// analyzeInput dispatches on --url, "-" or a file path
func analyzeInput(ctx context.Context, p *pipeline.Pipeline, stdin io.Reader, args []string) (*model.Report, error) {
	if analyzeURL != "" {
		return p.AnalyzeURL(ctx, analyzeURL, forceFull)
	}

	if args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return p.AnalyzeText(ctx, "stdin", pipeline.SourceText, string(data), forceFull)
	}

	if _, err := os.Stat(args[0]); err != nil {
		return nil, err
	}
	return p.AnalyzeFile(ctx, args[0], forceFull)
}
