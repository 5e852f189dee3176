package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/changetree/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Name != DefaultName {
		t.Errorf("Name = %q, want %q", cfg.Name, DefaultName)
	}
	if cfg.Serve.Port != DefaultPort {
		t.Errorf("Serve.Port = %d, want %d", cfg.Serve.Port, DefaultPort)
	}
	if cfg.Serve.Host != DefaultHost {
		t.Errorf("Serve.Host = %q, want %q", cfg.Serve.Host, DefaultHost)
	}
	if cfg.Serve.MetricsPath != DefaultMetricsPath {
		t.Errorf("Serve.MetricsPath = %q, want %q", cfg.Serve.MetricsPath, DefaultMetricsPath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	// Test loading non-existent config
	_, err := Load(tmpDir)
	var ce *errors.CodedError
	if !stderrors.As(err, &ce) || ce.Code != "E100" {
		t.Errorf("Load() error = %v, want E100", err)
	}

	configJSON := `{
  "name": "Cart",
  "debug": true,
  "serve": {
    "port": 8080,
    "host": "0.0.0.0"
  },
  "journal": {
    "path": "s3://bucket/events",
    "s3": {
      "region": "eu-west-1"
    }
  }
}
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Name != "Cart" {
		t.Errorf("Name = %q, want %q", cfg.Name, "Cart")
	}
	if !cfg.Debug {
		t.Error("Debug = false, want true")
	}
	if cfg.Serve.Port != 8080 {
		t.Errorf("Serve.Port = %d, want 8080", cfg.Serve.Port)
	}
	if cfg.Address() != "0.0.0.0:8080" {
		t.Errorf("Address() = %q, want %q", cfg.Address(), "0.0.0.0:8080")
	}
	if cfg.Journal.Path != "s3://bucket/events" {
		t.Errorf("Journal.Path = %q", cfg.Journal.Path)
	}
	if cfg.Journal.S3.Region != "eu-west-1" {
		t.Errorf("Journal.S3.Region = %q, want eu-west-1", cfg.Journal.S3.Region)
	}

	// Defaults fill what the file leaves out.
	if cfg.Serve.EventsPath != DefaultEventsPath {
		t.Errorf("Serve.EventsPath = %q, want %q", cfg.Serve.EventsPath, DefaultEventsPath)
	}
	if cfg.ShutdownTimeout() != 5*time.Second {
		t.Errorf("ShutdownTimeout() = %v, want 5s", cfg.ShutdownTimeout())
	}
	if cfg.Path() != filepath.Join(tmpDir, ConfigFileName) {
		t.Errorf("Path() = %q", cfg.Path())
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(t.TempDir())
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if cfg.Serve.Port != DefaultPort {
		t.Errorf("Serve.Port = %d, want %d", cfg.Serve.Port, DefaultPort)
	}
	if cfg.Path() != "" {
		t.Errorf("Path() = %q, want empty", cfg.Path())
	}
}

func TestLoadFile_SyntaxError(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	content := "{\n  \"name\": \"Cart\",\n  \"serve\": {\"port\": 1,}\n}\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(path)
	var ce *errors.CodedError
	if !stderrors.As(err, &ce) {
		t.Fatalf("LoadFile() error = %v, want *CodedError", err)
	}
	if ce.Code != "E101" {
		t.Errorf("Code = %q, want E101", ce.Code)
	}
	if ce.Location == nil || ce.Location.Line != 3 {
		t.Errorf("Location = %v, want line 3", ce.Location)
	}
}

func TestLoadFile_TypeError(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte(`{"serve": {"port": "high"}}`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(path)
	var ce *errors.CodedError
	if !stderrors.As(err, &ce) || ce.Code != "E101" {
		t.Fatalf("LoadFile() error = %v, want E101", err)
	}
	if !strings.Contains(ce.Suggestion, "port") {
		t.Errorf("Suggestion = %q, want the field name", ce.Suggestion)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"negative port", func(c *Config) { c.Serve.Port = -1 }, false},
		{"port too large", func(c *Config) { c.Serve.Port = 70000 }, false},
		{"relative metrics path", func(c *Config) { c.Serve.MetricsPath = "metrics" }, false},
		{"same endpoints", func(c *Config) { c.Serve.EventsPath = c.Serve.MetricsPath }, false},
		{"bad timeout", func(c *Config) { c.Serve.ShutdownTimeout = "soon" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() error = %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestSaveTo(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ConfigFileName)

	cfg := New()
	cfg.Name = "Invoice"
	cfg.Journal.Path = "events.jsonl"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}
	if !Exists(tmpDir) {
		t.Fatal("Exists() = false after SaveTo")
	}

	loaded, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Name != "Invoice" || loaded.Journal.Path != "events.jsonl" {
		t.Errorf("loaded = %+v", loaded)
	}

	loaded.Serve.Port = 9000
	if err := loaded.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	again, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if again.Serve.Port != 9000 {
		t.Errorf("Serve.Port = %d, want 9000", again.Serve.Port)
	}
}

func TestSave_NoPath(t *testing.T) {
	if err := New().Save(); err == nil {
		t.Error("Save() without a path should fail")
	}
}
