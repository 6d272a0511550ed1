package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func clearEnv() {
	for _, key := range []string{
		"DB_SERVER", "DB_DATABASE", "DB_TABLE", "DB_TIMEOUT", "DB_LOGIN_TIMEOUT",
		"DB_TRUSTED_CONNECTION", "EXCEL_FILE", "EXCEL_SHEET", "EXCEL_SKIPROWS",
		"LOG_LEVEL", "LOG_FORMAT",
	} {
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Server != "." {
		t.Errorf("Database.Server = %q, want %q", cfg.Database.Server, ".")
	}
	if cfg.Database.Database != "" {
		t.Errorf("Database.Database = %q, want empty", cfg.Database.Database)
	}
	if cfg.Database.Table != "Items" {
		t.Errorf("Database.Table = %q, want %q", cfg.Database.Table, "Items")
	}
	if cfg.Database.LoginTimeout != 15*time.Second {
		t.Errorf("Database.LoginTimeout = %v, want %v", cfg.Database.LoginTimeout, 15*time.Second)
	}
	if !cfg.Database.TrustedConnection {
		t.Error("Database.TrustedConnection = false, want true")
	}
	if cfg.Excel.SheetIndex != 0 {
		t.Errorf("Excel.SheetIndex = %d, want 0", cfg.Excel.SheetIndex)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	clearEnv()
	os.Setenv("DB_SERVER", "sql01")
	os.Setenv("DB_DATABASE", "InvoicePro")
	os.Setenv("DB_TABLE", "Goods")
	os.Setenv("EXCEL_SKIPROWS", "2")
	os.Setenv("LOG_LEVEL", "debug")
	defer clearEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Server != "sql01" {
		t.Errorf("Database.Server = %q, want %q", cfg.Database.Server, "sql01")
	}
	if cfg.Database.Database != "InvoicePro" {
		t.Errorf("Database.Database = %q, want %q", cfg.Database.Database, "InvoicePro")
	}
	if cfg.Database.Table != "Goods" {
		t.Errorf("Database.Table = %q, want %q", cfg.Database.Table, "Goods")
	}
	if cfg.Excel.SkipRows != 2 {
		t.Errorf("Excel.SkipRows = %d, want 2", cfg.Excel.SkipRows)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_TimeoutForms(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"15", 15 * time.Second}, // legacy bare seconds
		{"30s", 30 * time.Second},
		{"1m", time.Minute},
	}

	for _, tt := range tests {
		clearEnv()
		os.Setenv("DB_TIMEOUT", tt.value)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() with DB_TIMEOUT=%q error = %v", tt.value, err)
		}
		if cfg.Database.LoginTimeout != tt.want {
			t.Errorf("DB_TIMEOUT=%q: LoginTimeout = %v, want %v", tt.value, cfg.Database.LoginTimeout, tt.want)
		}
	}
	clearEnv()
}

func TestLoad_AltEnvVar(t *testing.T) {
	clearEnv()
	os.Setenv("DB_LOGIN_TIMEOUT", "45s")
	defer clearEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.LoginTimeout != 45*time.Second {
		t.Errorf("Database.LoginTimeout = %v, want %v", cfg.Database.LoginTimeout, 45*time.Second)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"negative sheet index", "EXCEL_SHEET", "-1"},
		{"negative skip rows", "EXCEL_SKIPROWS", "-3"},
		{"bad timeout", "DB_TIMEOUT", "soon"},
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"bad log format", "LOG_FORMAT", "xml"},
		{"bad bool", "DB_TRUSTED_CONNECTION", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv()
			os.Setenv(tt.key, tt.value)
			defer clearEnv()

			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%q expected error", tt.key, tt.value)
			}
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Server = ""
	cfg.Database.Table = ""
	cfg.Database.LoginTimeout = 0
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "text"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	for _, want := range []string{"DB_SERVER", "DB_TABLE", "DB_TIMEOUT"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error missing %q: %v", want, err)
		}
	}
}

func TestString_MasksNothingSensitive(t *testing.T) {
	clearEnv()
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.String() == "" {
		t.Error("String() returned empty")
	}
}
