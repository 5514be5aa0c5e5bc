package config

import (
	"os"
	"testing"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	os.Setenv("HTTP_ADDRESS", "")
	os.Setenv("DATA_DIR", "")
	os.Setenv("DHENU_MODEL_ID", "")
	os.Setenv("DHENU_BASE_URL", "")
	os.Setenv("SARVAM_BASE_URL", "")
	// keys are fatal when absent, so the test must provide them
	os.Setenv("DHENU_API_KEY", "test-dhenu")
	os.Setenv("SARVAM_API_KEY", "test-sarvam")
	cfg := Load()
	if cfg.HTTPAddress == "" {
		t.Fatalf("expected default http address")
	}
	if cfg.DataDir == "" {
		t.Fatalf("expected default data dir")
	}
	if cfg.DhenuModelID == "" {
		t.Fatalf("expected default dhenu model id")
	}
	if cfg.DhenuBaseURL == "" || cfg.SarvamBaseURL == "" {
		t.Fatalf("expected default base urls")
	}
}
