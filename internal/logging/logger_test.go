package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    log.Level
		wantErr bool
	}{
		{"", log.InfoLevel, false},
		{"debug", log.DebugLevel, false},
		{"WARN", log.WarnLevel, false},
		{" error ", log.ErrorLevel, false},
		{"loud", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("hidden message")
	logger.Warn("provider failed", "story", 7)

	out := buf.String()
	if strings.Contains(out, "hidden message") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(out, "provider failed") || !strings.Contains(out, "story=7") {
		t.Errorf("expected warn message with key/value pair, got %q", out)
	}
}

func TestOrDiscard(t *testing.T) {
	if OrDiscard(nil) == nil {
		t.Fatal("expected a discarding logger")
	}
	l := Discard()
	if OrDiscard(l) != l {
		t.Error("expected the given logger back")
	}
}
