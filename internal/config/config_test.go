package config

import (
	"strings"
	"testing"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("ORIGIN_URL", "https://example.com/feed/offers.php")
	t.Setenv("SUPABASE_HOST", "db.example.com")
	t.Setenv("SUPABASE_USER", "app")
	t.Setenv("SUPABASE_PASSWORD", "s3cret")
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("ORIGIN_URL", "")
	t.Setenv("SUPABASE_HOST", "")
	t.Setenv("SUPABASE_USER", "")
	t.Setenv("SUPABASE_PASSWORD", "")

	_, err := Load()
	if err == nil {
		t.Fatal("esperava erro com variáveis obrigatórias ausentes")
	}
	if !strings.Contains(err.Error(), "ORIGIN_URL") {
		t.Errorf("o erro devia listar as variáveis ausentes: %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("SUPABASE_PORT", "")
	t.Setenv("SUPABASE_DB_NAME", "")
	t.Setenv("OFFERS_TABLE_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPort != 6543 {
		t.Errorf("DBPort = %d, want 6543", cfg.DBPort)
	}
	if cfg.DBName != "postgres" {
		t.Errorf("DBName = %q, want postgres", cfg.DBName)
	}
	if cfg.FreshMinutes != 90 || cfg.StaleMinutes != 1440 {
		t.Errorf("umbrales = %d/%d, want 90/1440", cfg.FreshMinutes, cfg.StaleMinutes)
	}
}

func TestDatabaseURL(t *testing.T) {
	setRequired(t)
	t.Setenv("SUPABASE_PASSWORD", "p@ss/word")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	dsn := cfg.DatabaseURL()
	if !strings.HasPrefix(dsn, "postgres://app:") {
		t.Errorf("dsn = %q", dsn)
	}
	if strings.Contains(dsn, "p@ss/word") {
		t.Error("a senha devia estar escapada na URL")
	}
	if !strings.Contains(dsn, "sslmode=require") {
		t.Error("a conexão exige TLS")
	}
	if !strings.Contains(dsn, "db.example.com:6543/postgres") {
		t.Errorf("dsn = %q", dsn)
	}
}

func TestLoadBadPortFallsBack(t *testing.T) {
	setRequired(t)
	t.Setenv("SUPABASE_PORT", "no-numérico")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPort != 6543 {
		t.Errorf("DBPort = %d, want fallback 6543", cfg.DBPort)
	}
}
