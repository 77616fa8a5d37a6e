package config

import (
	"os"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
		OpenAI:   OpenAIConfig{APIKey: "test-key"},
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingDatabaseAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_MissingAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.OpenAI.APIKey = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestValidate_FinalCountExceedsCandidates(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()
	cfg.Pipeline.FinalCount = 20
	cfg.Pipeline.CandidateCount = 12

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when final_count exceeds candidate_count")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("read timeout: got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.OpenAI.ChatModel != "gpt-4o-mini" {
		t.Errorf("chat model: got %q", cfg.OpenAI.ChatModel)
	}
	if cfg.OpenAI.EmbeddingModel != "text-embedding-3-large" {
		t.Errorf("embedding model: got %q", cfg.OpenAI.EmbeddingModel)
	}
	if cfg.OpenAI.TranscriptionModel != "whisper-1" {
		t.Errorf("transcription model: got %q", cfg.OpenAI.TranscriptionModel)
	}
	if cfg.Pipeline.CandidateCount != 12 || cfg.Pipeline.FinalCount != 5 || cfg.Pipeline.MaxPerSource != 2 {
		t.Errorf("pipeline counts: %+v", cfg.Pipeline)
	}
	if cfg.Pipeline.StateWeight != 0.15 || cfg.Pipeline.VirtueWeight != 0.10 ||
		cfg.Pipeline.ThemeWeight != 0.05 || cfg.Pipeline.SourceBonus != 0.20 ||
		cfg.Pipeline.WeightScale != 0.02 {
		t.Errorf("pipeline weights: %+v", cfg.Pipeline)
	}
	if cfg.Pipeline.FavoredSource != "Gurbani" {
		t.Errorf("favored source: got %q", cfg.Pipeline.FavoredSource)
	}
	if cfg.RateLimit.Requests != 20 || cfg.RateLimit.WindowSec != 60 {
		t.Errorf("rate limit: %+v", cfg.RateLimit)
	}
	if cfg.Cache.EmbeddingTTLHours != 168 {
		t.Errorf("cache ttl: got %d", cfg.Cache.EmbeddingTTLHours)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.ReadTimeoutSec = 5
	cfg.Pipeline.StateWeight = 0.3
	cfg.Pipeline.FavoredSource = "Bhagat Bani"
	cfg.RateLimit.Requests = 5
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 5 {
		t.Errorf("read timeout overridden: got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Pipeline.StateWeight != 0.3 {
		t.Errorf("state weight overridden: got %v", cfg.Pipeline.StateWeight)
	}
	if cfg.Pipeline.FavoredSource != "Bhagat Bani" {
		t.Errorf("favored source overridden: got %q", cfg.Pipeline.FavoredSource)
	}
	if cfg.RateLimit.Requests != 5 {
		t.Errorf("rate limit overridden: got %d", cfg.RateLimit.Requests)
	}
}

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("ALIGN_TEST_KEY", "sk-abc")
	defer os.Unsetenv("ALIGN_TEST_KEY")

	in := []byte("api_key: ${ALIGN_TEST_KEY}\nbase_url: ${ALIGN_TEST_URL:-https://api.openai.com/v1}\n")
	out := string(expandEnvVars(in))

	if out != "api_key: sk-abc\nbase_url: https://api.openai.com/v1\n" {
		t.Errorf("unexpected expansion:\n%s", out)
	}
}
