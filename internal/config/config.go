package config

import (
	"os"
	"time"
)

type Config struct {
	Port        string
	Environment string
	// Supabase project settings; the database URL points at the pooled
	// postgres endpoint, the JWKS URL is derived from the project URL.
	SupabaseURL   string
	SupabaseDBURL string
	JWKSURL       string
	// Public base URL blob refs (logos, banners) are resolved against.
	StoragePublicURL string
	CORSOrigins      string
	TablePrefix      string
	// Quiet period before a rename or content edit is persisted.
	DebounceDelay time.Duration
	Debug         bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	supabaseURL := getEnv("SUPABASE_URL", "")

	return &Config{
		Port:             getEnv("PORT", "8080"),
		Environment:      env,
		SupabaseURL:      supabaseURL,
		SupabaseDBURL:    getEnv("SUPABASE_DB_URL", ""),
		JWKSURL:          supabaseURL + "/auth/v1/.well-known/jwks.json",
		StoragePublicURL: getEnv("STORAGE_PUBLIC_URL", supabaseURL+"/storage/v1/object/public"),
		CORSOrigins:      getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:      getTablePrefix(env),
		DebounceDelay:    getDuration("DEBOUNCE_DELAY", DefaultDebounceDelay),
		Debug:            getEnv("DEBUG", defaultDebug(env)) == "true",
	}
}

func defaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
