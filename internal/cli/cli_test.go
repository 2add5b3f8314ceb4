package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/quotex/internal/classify"
	"github.com/ppiankov/quotex/internal/model"
	"github.com/ppiankov/quotex/internal/store"
	"github.com/spf13/viper"
)

func TestLoadConfig_Defaults(t *testing.T) {
	v := viper.New()
	if err := configure(v, "", t.TempDir()); err != nil {
		t.Fatalf("configure failed: %v", err)
	}

	cfg, err := loadConfig(v)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	want := model.DefaultConfig()
	if cfg.Classifier.Iterations != want.Classifier.Iterations {
		t.Errorf("expected %d iterations, got %d", want.Classifier.Iterations, cfg.Classifier.Iterations)
	}
	if cfg.HTTP.Timeout != want.HTTP.Timeout {
		t.Errorf("expected timeout %v, got %v", want.HTTP.Timeout, cfg.HTTP.Timeout)
	}
	if cfg.Site.BaseURL != want.Site.BaseURL {
		t.Errorf("expected base URL %s, got %s", want.Site.BaseURL, cfg.Site.BaseURL)
	}
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `classifier:
  iterations: 25
  extra_features: [first_word]
coref:
  provider: http
  timeout: 5s
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("QUOTEX_DATABASE_PATH", "/tmp/env.db")
	t.Setenv("QUOTEX_COREF_API_KEY", "secret")

	v := viper.New()
	if err := configure(v, path, ""); err != nil {
		t.Fatalf("configure failed: %v", err)
	}
	cfg, err := loadConfig(v)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	if cfg.Classifier.Iterations != 25 {
		t.Errorf("expected file value 25, got %d", cfg.Classifier.Iterations)
	}
	if len(cfg.Classifier.ExtraFeatures) != 1 || cfg.Classifier.ExtraFeatures[0] != "first_word" {
		t.Errorf("unexpected extra features %v", cfg.Classifier.ExtraFeatures)
	}
	if cfg.Coref.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.Coref.Timeout)
	}
	if cfg.Database.Path != "/tmp/env.db" {
		t.Errorf("expected env database path, got %s", cfg.Database.Path)
	}
	if cfg.Coref.APIKey != "secret" {
		t.Errorf("expected env API key, got %q", cfg.Coref.APIKey)
	}
	if cfg.Coref.Submitter != "quotex" {
		t.Errorf("expected default submitter to survive, got %q", cfg.Coref.Submitter)
	}
}

func TestLoadConfig_ProviderKeyFallback(t *testing.T) {
	tests := []struct {
		provider string
		env      string
	}{
		{"openai", "OPENAI_API_KEY"},
		{"anthropic", "ANTHROPIC_API_KEY"},
		{"claude", "ANTHROPIC_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			t.Setenv("QUOTEX_COREF_PROVIDER", tt.provider)
			t.Setenv(tt.env, "sk-test")

			v := viper.New()
			if err := configure(v, "", t.TempDir()); err != nil {
				t.Fatal(err)
			}
			cfg, err := loadConfig(v)
			if err != nil {
				t.Fatal(err)
			}
			if cfg.Coref.APIKey != "sk-test" {
				t.Errorf("expected %s fallback, got %q", tt.env, cfg.Coref.APIKey)
			}
		})
	}
}

func TestLoadConfig_NoFallbackForOllama(t *testing.T) {
	t.Setenv("QUOTEX_COREF_PROVIDER", "ollama")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")

	v := viper.New()
	if err := configure(v, "", t.TempDir()); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(v)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Coref.APIKey != "" {
		t.Errorf("expected no key for ollama, got %q", cfg.Coref.APIKey)
	}
}

func TestConfigure_MissingExplicitFile(t *testing.T) {
	v := viper.New()
	if err := configure(v, filepath.Join(t.TempDir(), "missing.yaml"), ""); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".quotex", "config.yaml")
	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("writeDefaultConfig failed: %v", err)
	}

	v := viper.New()
	if err := configure(v, path, ""); err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	cfg, err := loadConfig(v)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cache.DiskTTL != model.DefaultConfig().Cache.DiskTTL {
		t.Errorf("unexpected disk TTL %v", cfg.Cache.DiskTTL)
	}

	if err := writeDefaultConfig(path); err == nil {
		t.Error("expected refusal to overwrite existing config")
	}
}

func TestRenderQuotes(t *testing.T) {
	quote := true
	quotes := []store.Quote{
		{
			Story: model.Story{ID: 1, Title: "Budget vote", URL: "/news/budget"},
			Paragraph: model.Paragraph{
				Text:    `"We are ready," said Jane Doe.`,
				Quote:   &quote,
				Sources: []model.Source{{Name: "Jane Doe"}},
			},
		},
		{
			Story:     model.Story{ID: 1, Title: "Budget vote", URL: "/news/budget"},
			Paragraph: model.Paragraph{Text: `"Later," he said.`, Quote: &quote},
		},
	}

	var buf bytes.Buffer
	renderQuotes(&buf, quotes, "http://example.com")
	out := buf.String()

	for _, want := range []string{"Budget vote", "http://example.com/news/budget", "We are ready", "Jane Doe", "Later"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "Budget vote") != 1 {
		t.Errorf("expected story header once:\n%s", out)
	}

	buf.Reset()
	renderQuotes(&buf, nil, "")
	if !strings.Contains(buf.String(), "No quotes found") {
		t.Errorf("unexpected empty output %q", buf.String())
	}
}

func TestEvaluateCmd_ListsMisclassifiedByDefault(t *testing.T) {
	t.Cleanup(func() { hideErrors = false })

	report := &model.EvaluationReport{
		TrainSize:      4,
		TruePositives:  2,
		FalsePositives: 1,
		TrueNegatives:  1,
		Misclassified: []model.Misclassification{
			{ParagraphID: 7, Text: "The mayor left early.", Truth: false, Guess: true},
		},
	}

	tests := []struct {
		name     string
		args     []string
		wantList bool
	}{
		{"default", nil, true},
		{"hidden", []string{"--hide-errors"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hideErrors = false
			if err := evaluateCmd.ParseFlags(tt.args); err != nil {
				t.Fatalf("parse flags: %v", err)
			}

			var buf bytes.Buffer
			classify.RenderReport(&buf, report, !hideErrors)
			if got := strings.Contains(buf.String(), "paragraph 7"); got != tt.wantList {
				t.Errorf("misclassified listed = %v, want %v:\n%s", got, tt.wantList, buf.String())
			}
		})
	}
}
