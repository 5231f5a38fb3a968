package config

import (
	"os"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP:      HTTPConfig{Port: 8080},
		Database:  DatabaseConfig{Addrs: []string{"localhost:6379"}},
		Embedding: EmbeddingConfig{APIKey: "test-key", Model: "mistral-embed", Dimensions: 1024},
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_MissingAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database.addrs")
	}
}

func TestValidate_BadPort(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		cfg := validConfig()
		cfg.HTTP.Port = port
		cfg.ApplyDefaults()
		if err := cfg.Validate(); err == nil {
			t.Errorf("expected error for port %d", port)
		}
	}
}

func TestValidate_TopKOrdering(t *testing.T) {
	cfg := validConfig()
	cfg.Index.DefaultTopK = 50
	cfg.Index.MaxTopK = 10
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when default_top_k exceeds max_top_k")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	if cfg.Storage.KeyPrefix != "docpipe:" {
		t.Errorf("key prefix: got %q, want %q", cfg.Storage.KeyPrefix, "docpipe:")
	}
	if cfg.Storage.StrictWrites {
		t.Error("strict_writes should default to false")
	}
	if cfg.Fetch.TimeoutSec != 30 {
		t.Errorf("fetch timeout: got %d, want 30", cfg.Fetch.TimeoutSec)
	}
	if cfg.OCR.Model != "mistral-ocr-latest" {
		t.Errorf("ocr model: got %q", cfg.OCR.Model)
	}
	if cfg.Index.DefaultTopK != 5 || cfg.Index.MaxTopK != 100 {
		t.Errorf("top_k defaults: got %d/%d", cfg.Index.DefaultTopK, cfg.Index.MaxTopK)
	}
}

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("DOCPIPE_TEST_VAR", "sekret")
	defer os.Unsetenv("DOCPIPE_TEST_VAR")

	got := string(expandEnvVars([]byte("key: ${DOCPIPE_TEST_VAR}")))
	if got != "key: sekret" {
		t.Errorf("got %q", got)
	}

	got = string(expandEnvVars([]byte("key: ${DOCPIPE_UNSET_VAR:-fallback}")))
	if got != "key: fallback" {
		t.Errorf("default expansion: got %q", got)
	}
}
