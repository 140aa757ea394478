package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Suggest.Type != "none" {
		t.Errorf("expected default suggest type 'none', got %s", cfg.Suggest.Type)
	}

	if cfg.Health.Port <= 0 {
		t.Error("health port should be positive")
	}

	if cfg.Sheet.ReadRange == "" {
		t.Error("read range should have a default")
	}
}

func TestEnvFallbacks(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token-from-env")
	t.Setenv("SHEET_URL", "https://docs.google.com/spreadsheets/d/1AbC-deF_123/edit#gid=0")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("PORT", "9090")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Telegram.Token != "token-from-env" {
		t.Errorf("expected token from BOT_TOKEN, got %q", cfg.Telegram.Token)
	}
	if cfg.Sheet.SpreadsheetID != "1AbC-deF_123" {
		t.Errorf("expected spreadsheet ID from SHEET_URL, got %q", cfg.Sheet.SpreadsheetID)
	}
	if cfg.Suggest.APIKey != "sk-test" {
		t.Errorf("expected API key from OPENAI_API_KEY, got %q", cfg.Suggest.APIKey)
	}
	if cfg.Health.Port != 9090 {
		t.Errorf("expected port from PORT, got %d", cfg.Health.Port)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error without token and sheet")
	}

	cfg.Telegram.Token = "token"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error without sheet")
	}

	cfg.Sheet.SpreadsheetID = "sheet-id"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestSpreadsheetIDFromURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "full URL",
			input:    "https://docs.google.com/spreadsheets/d/1AbC-deF_123/edit#gid=0",
			expected: "1AbC-deF_123",
		},
		{
			name:     "bare ID passes through",
			input:    "1AbC-deF_123",
			expected: "1AbC-deF_123",
		},
		{
			name:     "bare ID with whitespace",
			input:    "  1AbC-deF_123 ",
			expected: "1AbC-deF_123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SpreadsheetIDFromURL(tt.input); got != tt.expected {
				t.Errorf("SpreadsheetIDFromURL(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMaterializeCredentials(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "storagebot-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	credFile := filepath.Join(tmpDir, "service_account.json")
	t.Setenv("GOOGLE_CREDENTIALS_JSON", `{"type":"service_account"}`)

	cfg := DefaultConfig()
	cfg.Sheet.CredentialsFile = credFile

	if err := cfg.MaterializeCredentials(); err != nil {
		t.Fatalf("failed to materialize credentials: %v", err)
	}

	data, err := os.ReadFile(credFile)
	if err != nil {
		t.Fatalf("credentials file not written: %v", err)
	}
	if string(data) != `{"type":"service_account"}` {
		t.Errorf("unexpected file contents: %s", data)
	}

	// An existing file is never overwritten.
	t.Setenv("GOOGLE_CREDENTIALS_JSON", `{"overwritten":true}`)
	if err := cfg.MaterializeCredentials(); err != nil {
		t.Fatalf("materialize failed on existing file: %v", err)
	}
	data, _ = os.ReadFile(credFile)
	if string(data) != `{"type":"service_account"}` {
		t.Error("existing credentials file was overwritten")
	}
}

func TestMaterializeCredentialsNoEnv(t *testing.T) {
	t.Setenv("GOOGLE_CREDENTIALS_JSON", "")

	cfg := DefaultConfig()
	cfg.Sheet.CredentialsFile = "/nonexistent/creds.json"
	if err := cfg.MaterializeCredentials(); err != nil {
		t.Errorf("expected no-op without env var, got %v", err)
	}
}
