package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/aksara/internal/metrics"
	"github.com/ppiankov/aksara/internal/pipeline"
	"github.com/ppiankov/aksara/internal/server"
	"github.com/ppiankov/aksara/internal/store"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve exposes analysis over HTTP:

  POST   /api/v1/analyze            {"text": "...", "force_full_scan": false}
  POST   /api/v1/analyze-file       multipart field "file"
  GET    /api/v1/scans?limit=N
  GET    /api/v1/scans/:id
  GET    /api/v1/scans/:id/report   Markdown report
  DELETE /api/v1/scans
  GET    /health
  GET    /metrics

Every analysis is stored without its text. Segment details are purged
after store.segment_grace and records expire after store.history_retention.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default: server.addr)")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	s, err := store.Open(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer s.Close()

	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return fmt.Errorf("init pipeline: %w", err)
	}
	defer func() { _ = p.Close() }()

	recorder := metrics.NewRecorder()
	p.SetStore(s)
	p.SetObserver(recorder)

	if !p.Engine().Oracle().IsAvailable(cmd.Context()) {
		logger.Warn("oracle is not reachable, analyses will fail until it is",
			zap.String("provider", cfg.Oracle.Provider),
			zap.String("base_url", cfg.Oracle.BaseURL))
	}

	janitor := store.NewJanitor(s, cfg.Store.SegmentGrace, cfg.Store.HistoryRetention, logger)
	go janitor.Run(cmd.Context(), cfg.Store.JanitorInterval)

	srv := server.New(cfg.Server, p, s, p.Renderer(), recorder, logger)
	return srv.Listen(cmd.Context(), cfg.Server.Addr)
}
