package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	OriginURL string

	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string

	TableName   string
	MetricsPort string
	ReadmePath  string

	// Umbrales de frescura del badge (minutos desde el último created_at)
	FreshMinutes int
	StaleMinutes int
}

func Load() (*Config, error) {
	// Carrega .env.local da raiz do projeto; depois tenta .env no diretório atual
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	cfg := &Config{
		OriginURL:    os.Getenv("ORIGIN_URL"),
		DBHost:       os.Getenv("SUPABASE_HOST"),
		DBPort:       getEnvInt("SUPABASE_PORT", 6543),
		DBName:       getEnv("SUPABASE_DB_NAME", "postgres"),
		DBUser:       os.Getenv("SUPABASE_USER"),
		DBPassword:   os.Getenv("SUPABASE_PASSWORD"),
		TableName:    os.Getenv("OFFERS_TABLE_NAME"),
		MetricsPort:  getEnv("METRICS_PORT", "9090"),
		ReadmePath:   getEnv("README_PATH", "README.md"),
		FreshMinutes: getEnvInt("FRESH_MINUTES", 90),
		StaleMinutes: getEnvInt("STALE_MINUTES", 1440),
	}

	var missing []string
	if cfg.OriginURL == "" {
		missing = append(missing, "ORIGIN_URL")
	}
	if cfg.DBHost == "" {
		missing = append(missing, "SUPABASE_HOST")
	}
	if cfg.DBUser == "" {
		missing = append(missing, "SUPABASE_USER")
	}
	if cfg.DBPassword == "" {
		missing = append(missing, "SUPABASE_PASSWORD")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("variáveis de ambiente obrigatórias não definidas: %v", missing)
	}

	return cfg, nil
}

// DatabaseURL monta a URL de conexão. O pooler do Supabase (porta 6543) exige TLS.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=require&connect_timeout=15",
		url.QueryEscape(c.DBUser),
		url.QueryEscape(c.DBPassword),
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getEnvInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return d
	}
	return i
}
