package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/ppiankov/aksara/internal/model"
)

func newTestViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	if err := setDefaults(v, model.DefaultConfig()); err != nil {
		t.Fatalf("setDefaults failed: %v", err)
	}
	v.SetEnvPrefix("AKSARA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func TestDecodeConfig_Defaults(t *testing.T) {
	cfg, err := decodeConfig(newTestViper(t))
	if err != nil {
		t.Fatalf("decodeConfig failed: %v", err)
	}

	want := model.DefaultConfig()
	if cfg.Engine.TargetBaseline != want.Engine.TargetBaseline {
		t.Errorf("Expected baseline %v, got %v", want.Engine.TargetBaseline, cfg.Engine.TargetBaseline)
	}
	if cfg.Cache.MemoryTTL != 30*time.Minute {
		t.Errorf("Expected memory TTL 30m, got %v", cfg.Cache.MemoryTTL)
	}
	if len(cfg.LangID.Candidates) != len(want.LangID.Candidates) {
		t.Errorf("Expected %d candidates, got %v", len(want.LangID.Candidates), cfg.LangID.Candidates)
	}
}

func TestDecodeConfig_EnvOverrides(t *testing.T) {
	t.Setenv("AKSARA_ORACLE_BASE_URL", "http://scorer:9000")
	t.Setenv("AKSARA_ORACLE_API_KEY", "secret")
	t.Setenv("AKSARA_STORE_SEGMENT_GRACE", "2h")
	t.Setenv("AKSARA_ENGINE_BATCH_SIZE", "8")

	cfg, err := decodeConfig(newTestViper(t))
	if err != nil {
		t.Fatalf("decodeConfig failed: %v", err)
	}

	if cfg.Oracle.BaseURL != "http://scorer:9000" {
		t.Errorf("Expected base URL override, got %s", cfg.Oracle.BaseURL)
	}
	if cfg.Oracle.APIKey != "secret" {
		t.Errorf("Expected api key from environment, got %q", cfg.Oracle.APIKey)
	}
	if cfg.Store.SegmentGrace != 2*time.Hour {
		t.Errorf("Expected grace 2h, got %v", cfg.Store.SegmentGrace)
	}
	if cfg.Engine.BatchSize != 8 {
		t.Errorf("Expected batch size 8, got %d", cfg.Engine.BatchSize)
	}
}

func TestDecodeConfig_OpenAIKeyFallback(t *testing.T) {
	t.Setenv("AKSARA_ORACLE_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := decodeConfig(newTestViper(t))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Oracle.APIKey != "sk-test" {
		t.Errorf("Expected OPENAI_API_KEY fallback, got %q", cfg.Oracle.APIKey)
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.yaml")

	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("writeDefaultConfig failed: %v", err)
	}
	if err := writeDefaultConfig(path); err == nil {
		t.Error("Expected refusal to overwrite an existing file")
	}

	v := newTestViper(t)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("Generated config is not readable: %v", err)
	}

	cfg, err := decodeConfig(v)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Store.HistoryRetention != 7*24*time.Hour {
		t.Errorf("Expected retention 168h, got %v", cfg.Store.HistoryRetention)
	}
	if cfg.Oracle.Provider != "http" {
		t.Errorf("Expected provider http, got %s", cfg.Oracle.Provider)
	}
}

func TestEncodeDefaultConfig(t *testing.T) {
	var buf bytes.Buffer
	if err := encodeDefaultConfig(&buf); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"# Aksara Configuration File", "target_baseline: 1.94", "segment_grace: 1h0m0s"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("Expected %q in generated config", want)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"esai akhir.docx", "esai-akhir"},
		{"a/b:c*d?.txt", "a_b_c_d"},
		{"", "report"},
		{"...", "report"},
		{strings.Repeat("é", 120), strings.Repeat("é", 100)},
	}

	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestUniqueSlug(t *testing.T) {
	used := map[string]int{}
	got := []string{uniqueSlug("a", used), uniqueSlug("a", used), uniqueSlug("b", used)}
	want := []string{"a", "a-2", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected %s, got %s", want[i], got[i])
		}
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)
	if !strings.Contains(out.String(), Version) {
		t.Errorf("Expected version %s, got %q", Version, out.String())
	}
}
