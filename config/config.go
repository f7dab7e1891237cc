package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"LrcFM/model"

	"github.com/joho/godotenv"
)

// Config stores the application configuration.
type Config struct {
	LogLevel string
	LogPath  string // empty disables file output

	// Sources is the ordered list of lyric sources; the order doubles as
	// the selection priority during auto fetch.
	Sources []model.Source

	MinScore      float64       // candidate score threshold, 0-100
	SearchTimeout time.Duration // phase-1 overall search timeout
	HTTPTimeout   time.Duration // per-request timeout inside providers
	Workers       int           // worker pool size

	NeteaseAPIURL string // NeteaseCloudMusicApi base URL
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvFloat gets an environment variable as float64 or returns a default value.
func getEnvFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return fallback
}

// parseSources parses a comma separated source list, dropping unknown codes.
func parseSources(raw string) []model.Source {
	var sources []model.Source
	for _, part := range strings.Split(raw, ",") {
		if src, ok := model.ParseSource(part); ok {
			sources = append(sources, src)
		}
	}
	return sources
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env, relying on existing environment variables and defaults.")
	}

	sources := parseSources(getEnv("LYRIC_SOURCES", "kw,ne"))
	if len(sources) == 0 {
		sources = []model.Source{model.SourceKuwo, model.SourceNetease}
	}

	return &Config{
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogPath:       getEnv("LOG_PATH", ""),
		Sources:       sources,
		MinScore:      getEnvFloat("MIN_SCORE", 55),
		SearchTimeout: time.Duration(getEnvInt("SEARCH_TIMEOUT_SECONDS", 30)) * time.Second,
		HTTPTimeout:   time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 15)) * time.Second,
		Workers:       getEnvInt("WORKERS", 10),
		NeteaseAPIURL: getEnv("NETEASE_API_URL", "http://localhost:3000"),
	}
}
