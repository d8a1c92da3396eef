//go:build !integration

package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"snapppay-gateway/internal/config"
)

const validYAML = `
log:
  level: debug
database:
  url: postgres://localhost/payments
redis:
  url: localhost:6379
payment:
  snapppay:
    base_url: https://fms-gateway.example
    client_id: cid
    client_secret: csecret
    username: merchant
    password: secret
    callback_url: https://shop.example/api/v1/payment/callback
    currency: IRT
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig(writeConfig(t, validYAML), false)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("default format = %q, want json", cfg.Log.Format)
	}
	if cfg.API.Port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.API.Port)
	}
	if cfg.API.CallbackPath == "" {
		t.Error("expected a default callback path")
	}
	if cfg.Payment.SnappPay.Currency != "IRT" {
		t.Errorf("currency = %q", cfg.Payment.SnappPay.Currency)
	}
}

func TestLoadConfig_MissingRequiredFields(t *testing.T) {
	cases := []struct {
		name, drop, wantErr string
	}{
		{"database", "url: postgres://localhost/payments", "database.url"},
		{"client id", "client_id: cid", "client_id"},
		{"client secret", "client_secret: csecret", "client_secret"},
		{"username", "username: merchant", "username"},
		{"password", "password: secret", "password"},
		{"callback", "callback_url: https://shop.example/api/v1/payment/callback", "callback_url"},
		{"base url", "base_url: https://fms-gateway.example", "base_url"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			content := strings.Replace(validYAML, tc.drop, "", 1)
			_, err := config.LoadConfig(writeConfig(t, content), false)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q should mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestLoadConfig_InvalidCurrency(t *testing.T) {
	content := strings.Replace(validYAML, "currency: IRT", "currency: USD", 1)
	_, err := config.LoadConfig(writeConfig(t, content), false)
	if err == nil || !strings.Contains(err.Error(), "currency") {
		t.Fatalf("expected a currency error, got %v", err)
	}
}

func TestLoadConfig_FileMissing(t *testing.T) {
	if _, err := config.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), false); err == nil {
		t.Fatal("expected an error")
	}
}
