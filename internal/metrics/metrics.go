package metrics

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ppiankov/aksara/internal/model"
)

// Recorder exports scan outcomes as Prometheus metrics. It satisfies the
// engine's observer interface.
type Recorder struct {
	registry *prometheus.Registry

	scans       *prometheus.CounterVec
	duration    prometheus.Histogram
	probability prometheus.Histogram
	opinions    *prometheus.HistogramVec
	segments    *prometheus.CounterVec
	tokens      prometheus.Histogram
	partial     prometheus.Counter
	sources     *prometheus.CounterVec
	requests    *prometheus.CounterVec
}

// NewRecorder creates a recorder with its own registry, including the
// standard process and Go runtime collectors
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		scans: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aksara_scans_total",
				Help: "Total number of analyses by outcome status",
			},
			[]string{"status"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "aksara_scan_duration_seconds",
				Help:    "Analysis duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
			},
		),
		probability: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "aksara_ai_probability",
				Help:    "Final AI probability per analysis",
				Buckets: []float64{10, 20, 30, 40, 45, 50, 60, 75, 90, 100},
			},
		),
		opinions: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aksara_opinion_score",
				Help:    "Individual ensemble opinions per analysis",
				Buckets: []float64{10, 25, 50, 75, 90, 100},
			},
			[]string{"opinion"},
		),
		segments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aksara_segments_total",
				Help: "Annotated segments by bucket",
			},
			[]string{"bucket"},
		),
		tokens: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "aksara_document_tokens",
				Help:    "Oracle token count per document",
				Buckets: prometheus.ExponentialBuckets(64, 2, 10),
			},
		),
		partial: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "aksara_partial_scans_total",
				Help: "Analyses that used hybrid sampling",
			},
		),
		sources: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aksara_fingerprint_total",
				Help: "Advisory attributions by model family",
			},
			[]string{"family"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aksara_http_requests_total",
				Help: "API requests by route and status code",
			},
			[]string{"route", "code"},
		),
	}

	r.registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
		r.scans,
		r.duration,
		r.probability,
		r.opinions,
		r.segments,
		r.tokens,
		r.partial,
		r.sources,
		r.requests,
	)

	return r
}

// ScanCompleted records a successful analysis
func (r *Recorder) ScanCompleted(result *model.ScanResult, elapsed time.Duration) {
	r.scans.WithLabelValues(string(result.Status)).Inc()
	r.duration.Observe(elapsed.Seconds())
	r.probability.Observe(result.Probability)
	r.tokens.Observe(float64(result.TokenCount))

	for _, name := range []model.OpinionName{model.OpinionSemantic, model.OpinionPerplexity, model.OpinionBurstiness} {
		r.opinions.WithLabelValues(string(name)).Observe(result.Opinions.Get(name))
	}

	c := result.Counts
	for bucket, n := range map[string]int{
		"ai":         c.AI,
		"paraphrase": c.Paraphrase,
		"mixed":      c.Mixed,
		"human":      c.Human,
		"citation":   c.Citation,
		"foreign":    c.Foreign,
		"skipped":    c.Skipped,
		"noise":      c.Noise,
	} {
		if n > 0 {
			r.segments.WithLabelValues(bucket).Add(float64(n))
		}
	}

	if result.PartiallyAnalyzed {
		r.partial.Inc()
	}
	if result.AISource != "" {
		r.sources.WithLabelValues(result.AISource).Inc()
	}
}

// ScanFailed records an analysis that produced no result
func (r *Recorder) ScanFailed(error) {
	r.scans.WithLabelValues("failed").Inc()
}

// Middleware counts API requests by matched route. Handler errors are
// resolved through the app's error handler first so the recorded status is
// the one sent to the client.
func (r *Recorder) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		code := c.Response().StatusCode()
		r.requests.WithLabelValues(c.Route().Path, statusLabel(code)).Inc()

		return nil
	}
}

func statusLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// Registry returns the recorder's registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
}
