package model

import "time"

// Config is the complete aksara configuration
type Config struct {
	Engine       EngineConfig       `yaml:"engine" mapstructure:"engine"`
	LangID       LangIDConfig       `yaml:"langid" mapstructure:"langid"`
	Oracle       OracleConfig       `yaml:"oracle" mapstructure:"oracle"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Store        StoreConfig        `yaml:"store" mapstructure:"store"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Logging      LoggingConfig      `yaml:"logging" mapstructure:"logging"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// EngineConfig holds the tuned constants of the scoring engine
type EngineConfig struct {
	TargetBaseline    float64 `yaml:"target_baseline" mapstructure:"target_baseline"`         // Loss typical of formal/generated prose
	HybridFactor      int     `yaml:"hybrid_factor" mapstructure:"hybrid_factor"`             // Sample when tokens > factor * context limit
	HeadSegments      int     `yaml:"head_segments" mapstructure:"head_segments"`
	MiddleSegments    int     `yaml:"middle_segments" mapstructure:"middle_segments"`
	TailSegments      int     `yaml:"tail_segments" mapstructure:"tail_segments"`
	FullScanLimit     int     `yaml:"full_scan_limit" mapstructure:"full_scan_limit"`         // Segments scored without sampling
	AnnotateLimit     int     `yaml:"annotate_limit" mapstructure:"annotate_limit"`           // Segments reported at all
	GlobalSampleChars int     `yaml:"global_sample_chars" mapstructure:"global_sample_chars"` // Prefix sent for the document-level loss
	BatchSize         int     `yaml:"batch_size" mapstructure:"batch_size"`
	AIThreshold       float64 `yaml:"ai_threshold" mapstructure:"ai_threshold"`
	ParaThreshold     float64 `yaml:"paraphrase_threshold" mapstructure:"paraphrase_threshold"`
	MixedThreshold    float64 `yaml:"mixed_threshold" mapstructure:"mixed_threshold"`
	Fingerprint       bool    `yaml:"fingerprint" mapstructure:"fingerprint"`
}

// LangIDConfig configures per-segment language identification
type LangIDConfig struct {
	Target        string   `yaml:"target" mapstructure:"target"`                 // ISO 639-1 code of the scored language
	Aliases       []string `yaml:"aliases" mapstructure:"aliases"`               // Codes that count as the target
	Candidates    []string `yaml:"candidates" mapstructure:"candidates"`         // Detection whitelist (empty = all)
	MinConfidence float64  `yaml:"min_confidence" mapstructure:"min_confidence"` // Below this the segment counts as target
}

// OracleConfig selects and configures the language-model oracle
type OracleConfig struct {
	Provider     string        `yaml:"provider" mapstructure:"provider"` // http, openai, static
	BaseURL      string        `yaml:"base_url" mapstructure:"base_url"`
	Model        string        `yaml:"model" mapstructure:"model"`
	APIKey       string        `yaml:"api_key,omitempty" mapstructure:"api_key"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	ContextLimit int           `yaml:"context_limit" mapstructure:"context_limit"`
	StaticLoss   float64       `yaml:"static_loss" mapstructure:"static_loss"` // Loss reported by the static provider
	Workers      int           `yaml:"workers" mapstructure:"workers"`         // Parallel sub-batches (1 = sequential)
}

// CacheConfig configures caching of oracle results
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
	Directory string        `yaml:"directory" mapstructure:"directory"`
	RedisAddr string        `yaml:"redis_addr" mapstructure:"redis_addr"` // Shared cache instead of disk when set
	RedisDB   int           `yaml:"redis_db" mapstructure:"redis_db"`
}

// StoreConfig configures scan persistence and retention
type StoreConfig struct {
	Path             string        `yaml:"path" mapstructure:"path"`
	SegmentGrace     time.Duration `yaml:"segment_grace" mapstructure:"segment_grace"`         // Segment details kept this long
	HistoryRetention time.Duration `yaml:"history_retention" mapstructure:"history_retention"` // Records deleted after this
	JanitorInterval  time.Duration `yaml:"janitor_interval" mapstructure:"janitor_interval"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr         string        `yaml:"addr" mapstructure:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	ScanTimeout  time.Duration `yaml:"scan_timeout" mapstructure:"scan_timeout"`
	BodyLimit    int           `yaml:"body_limit" mapstructure:"body_limit"`
}

// HTTPConfig configures URL ingestion
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// LoggingConfig configures the structured logger
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json or console
	Output string `yaml:"output" mapstructure:"output"` // stderr, stdout or a file path
}

// ConcurrencyConfig configures batch processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig limits calls to remote oracles
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"` // 0 disables limiting
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// OutputConfig configures report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns the reference configuration
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			TargetBaseline:    1.94,
			HybridFactor:      4,
			HeadSegments:      20,
			MiddleSegments:    20,
			TailSegments:      20,
			FullScanLimit:     100,
			AnnotateLimit:     150,
			GlobalSampleChars: 1500,
			BatchSize:         24,
			AIThreshold:       75,
			ParaThreshold:     50,
			MixedThreshold:    25,
			Fingerprint:       true,
		},
		LangID: LangIDConfig{
			Target:        "id",
			Aliases:       []string{"ms"},
			Candidates:    []string{"id", "en", "jv", "nl"},
			MinConfidence: 0.5,
		},
		Oracle: OracleConfig{
			Provider:     "http",
			BaseURL:      "http://localhost:8088",
			Model:        "indolem/indobert-base-uncased",
			Timeout:      60 * time.Second,
			ContextLimit: 512,
			StaticLoss:   2.5,
			Workers:      1,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,
			Directory: ".aksara-cache",
		},
		Store: StoreConfig{
			Path:             "aksara.db",
			SegmentGrace:     time.Hour,
			HistoryRetention: 7 * 24 * time.Hour,
			JanitorInterval:  10 * time.Minute,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 5 * time.Minute,
			ScanTimeout:  4 * time.Minute,
			BodyLimit:    20 * 1024 * 1024,
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "Aksara/0.1 (+https://github.com/ppiankov/aksara)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 0,
			BurstSize:         5,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
