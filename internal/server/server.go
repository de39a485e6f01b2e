package server

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/ppiankov/aksara/internal/ingest"
	"github.com/ppiankov/aksara/internal/metrics"
	"github.com/ppiankov/aksara/internal/model"
	"github.com/ppiankov/aksara/internal/pipeline"
	"github.com/ppiankov/aksara/internal/store"
)

const defaultListLimit = 10

// Analyzer runs analyses for the API
type Analyzer interface {
	AnalyzeText(ctx context.Context, subject, source, text string, forceFull bool) (*model.Report, error)
	AnalyzeDocument(ctx context.Context, name string, raw []byte, forceFull bool) (*model.Report, error)
}

// History reads and clears persisted scans
type History interface {
	Get(ctx context.Context, id string) (*model.Report, error)
	List(ctx context.Context, limit int) ([]*model.Report, error)
	Clear(ctx context.Context) (int64, error)
}

// Server exposes the engine over HTTP
type Server struct {
	app      *fiber.App
	cfg      model.ServerConfig
	analyzer Analyzer
	history  History
	renderer *pipeline.Renderer
	recorder *metrics.Recorder // nil disables /metrics
	logger   *zap.Logger
}

// AnalyzeRequest is the body of POST /api/v1/analyze
type AnalyzeRequest struct {
	Text          string `json:"text"`
	ForceFullScan bool   `json:"force_full_scan"`
}

// New creates the server and registers its routes
func New(cfg model.ServerConfig, analyzer Analyzer, history History, renderer *pipeline.Renderer, recorder *metrics.Recorder, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		cfg:      cfg,
		analyzer: analyzer,
		history:  history,
		renderer: renderer,
		recorder: recorder,
		logger:   log,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "aksara",
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		BodyLimit:             cfg.BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})

	s.app.Use(recover.New())
	s.app.Use(logger.New())
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))
	if recorder != nil {
		s.app.Use(recorder.Middleware())
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/health", s.health)
	if s.recorder != nil {
		s.app.Get("/metrics", s.recorder.Handler())
	}

	api := s.app.Group("/api/v1")
	api.Post("/analyze", s.analyzeText)
	api.Post("/analyze-file", s.analyzeFile)
	api.Get("/scans", s.listScans)
	api.Get("/scans/:id", s.getScan)
	api.Get("/scans/:id/report", s.getReport)
	api.Delete("/scans", s.clearScans)
}

// App returns the underlying fiber app
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves until ctx is done, then shuts down gracefully
func (s *Server) Listen(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("address", addr))
		errCh <- s.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("server shutting down")
		return s.app.ShutdownWithTimeout(10 * time.Second)
	}
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// scanContext bounds one analysis by the configured scan timeout
func (s *Server) scanContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	ctx := c.UserContext()
	if s.cfg.ScanTimeout > 0 {
		return context.WithTimeout(ctx, s.cfg.ScanTimeout)
	}
	return context.WithCancel(ctx)
}

func (s *Server) analyzeText(c *fiber.Ctx) error {
	var req AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "text is required")
	}

	ctx, cancel := s.scanContext(c)
	defer cancel()

	report, err := s.analyzer.AnalyzeText(ctx, "api", pipeline.SourceText, req.Text, req.ForceFullScan)
	if err != nil {
		return err
	}
	return c.JSON(report)
}

func (s *Server) analyzeFile(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "multipart field \"file\" is required")
	}

	f, err := header.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cannot read upload")
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cannot read upload")
	}

	forceFull := c.FormValue("force_full_scan") == "true"

	ctx, cancel := s.scanContext(c)
	defer cancel()

	report, err := s.analyzer.AnalyzeDocument(ctx, filepath.Base(header.Filename), raw, forceFull)
	if err != nil {
		return err
	}
	return c.JSON(report)
}

func (s *Server) listScans(c *fiber.Ctx) error {
	if s.history == nil {
		return fiber.NewError(fiber.StatusNotImplemented, "history is disabled")
	}

	limit := c.QueryInt("limit", defaultListLimit)
	reports, err := s.history.List(c.UserContext(), limit)
	if err != nil {
		return err
	}
	if reports == nil {
		reports = []*model.Report{}
	}
	return c.JSON(reports)
}

func (s *Server) getScan(c *fiber.Ctx) error {
	if s.history == nil {
		return fiber.NewError(fiber.StatusNotImplemented, "history is disabled")
	}

	report, err := s.history.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(report)
}

func (s *Server) getReport(c *fiber.Ctx) error {
	if s.history == nil {
		return fiber.NewError(fiber.StatusNotImplemented, "history is disabled")
	}

	report, err := s.history.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/markdown; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="aksara-`+report.ID+`.md"`)
	return c.SendString(s.renderer.Markdown(report))
}

func (s *Server) clearScans(c *fiber.Ctx) error {
	if s.history == nil {
		return fiber.NewError(fiber.StatusNotImplemented, "history is disabled")
	}

	n, err := s.history.Clear(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"deleted_count": n})
}

// errorHandler maps domain errors to status codes
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal error"

	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code, message = fe.Code, fe.Message
	case errors.Is(err, store.ErrNotFound):
		code, message = fiber.StatusNotFound, "scan not found"
	case errors.Is(err, ingest.ErrUnsupported):
		code, message = fiber.StatusUnsupportedMediaType, err.Error()
	case errors.Is(err, ingest.ErrNoText):
		code, message = fiber.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		code, message = fiber.StatusGatewayTimeout, "analysis timed out"
	case errors.Is(err, pipeline.ErrScoringUnavailable):
		code, message = fiber.StatusServiceUnavailable, "scoring unavailable"
	}

	if code >= fiber.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err))
	}

	return c.Status(code).JSON(fiber.Map{"error": message})
}
