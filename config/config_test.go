package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ANTHROPIC_API_KEY", "AGENT_MODEL", "LLM_TEMPERATURE",
		"SERPAPI_API_KEY", "AGENT_VERBOSE", "AGENT_MAX_ITERATIONS", "STATIC_DIR",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, expected 8080", cfg.Port)
	}
	if cfg.Model != "claude-sonnet-4-20250514" {
		t.Errorf("Model = %q, expected claude-sonnet-4-20250514", cfg.Model)
	}
	if cfg.Temperature != 0.0 {
		t.Errorf("Temperature = %v, expected 0.0", cfg.Temperature)
	}
	if cfg.MaxIterations != 10 {
		t.Errorf("MaxIterations = %d, expected 10", cfg.MaxIterations)
	}
	if cfg.Verbose {
		t.Error("Verbose should default to false")
	}
	if cfg.StaticDir != "web/static" {
		t.Errorf("StaticDir = %q, expected web/static", cfg.StaticDir)
	}
	if cfg.HasSearchCapability() {
		t.Error("HasSearchCapability should be false without SERPAPI_API_KEY")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ANTHROPIC_API_KEY", "test-key")
	t.Setenv("AGENT_MODEL", "claude-3-5-haiku-latest")
	t.Setenv("LLM_TEMPERATURE", "0.7")
	t.Setenv("SERPAPI_API_KEY", "serp-key")
	t.Setenv("AGENT_VERBOSE", "true")
	t.Setenv("AGENT_MAX_ITERATIONS", "5")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, expected 9090", cfg.Port)
	}
	if cfg.AnthropicAPIKey != "test-key" {
		t.Errorf("AnthropicAPIKey = %q, expected test-key", cfg.AnthropicAPIKey)
	}
	if cfg.Model != "claude-3-5-haiku-latest" {
		t.Errorf("Model = %q, expected claude-3-5-haiku-latest", cfg.Model)
	}
	if cfg.Temperature != 0.7 {
		t.Errorf("Temperature = %v, expected 0.7", cfg.Temperature)
	}
	if !cfg.Verbose {
		t.Error("Verbose should be true")
	}
	if cfg.MaxIterations != 5 {
		t.Errorf("MaxIterations = %d, expected 5", cfg.MaxIterations)
	}
	if !cfg.HasSearchCapability() {
		t.Error("HasSearchCapability should be true with SERPAPI_API_KEY set")
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("LLM_TEMPERATURE", "warm")
	t.Setenv("AGENT_VERBOSE", "definitely")
	t.Setenv("AGENT_MAX_ITERATIONS", "many")

	cfg := Load()

	if cfg.Temperature != 0.0 {
		t.Errorf("Temperature = %v, expected fallback 0.0", cfg.Temperature)
	}
	if cfg.Verbose {
		t.Error("Verbose should fall back to false")
	}
	if cfg.MaxIterations != 10 {
		t.Errorf("MaxIterations = %d, expected fallback 10", cfg.MaxIterations)
	}
}
