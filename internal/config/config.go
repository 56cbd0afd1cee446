package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Ingestion settings
	SourcesConfigPath string
	TTL               time.Duration
	RefreshInterval   time.Duration
	TopKPerSource     int
	FetchConcurrency  int
	SourceTimeout     time.Duration

	// Cache settings
	CacheCapacity int

	// Search settings
	SearchTopK int

	// Enrichment settings
	EmbedServiceURL   string
	EmbedDimension    int
	EnrichConcurrency int
	EnrichItemTimeout time.Duration
	SummarySentences  int

	// Gemini settings (optional; lead-sentence summarizer is used when unset)
	GeminiAPIKey      string
	MaxGeminiRequests int // daily budget, 0 = unlimited

	// Notification settings (optional)
	TelegramToken  string
	TelegramChatID string

	// App settings
	Port  string
	Debug bool
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		SourcesConfigPath: "configs/sources.yaml",
		TTL:               24 * time.Hour,
		RefreshInterval:   3 * time.Minute,
		TopKPerSource:     5,
		FetchConcurrency:  8,
		SourceTimeout:     10 * time.Second,
		CacheCapacity:     100,
		SearchTopK:        50,
		EmbedServiceURL:   "http://localhost:8081",
		EmbedDimension:    384,
		EnrichConcurrency: 4,
		EnrichItemTimeout: 60 * time.Second,
		SummarySentences:  2,
		Port:              "8080",
	}

	if path := os.Getenv("SOURCES_CONFIG_PATH"); path != "" {
		cfg.SourcesConfigPath = path
	}
	cfg.TTL = time.Duration(getEnvIntOrDefault("NEWS_TTL_HOURS", 24)) * time.Hour
	cfg.RefreshInterval = time.Duration(getEnvIntOrDefault("REFRESH_INTERVAL_MINUTES", 3)) * time.Minute
	cfg.TopKPerSource = getEnvIntOrDefault("TOP_K_PER_SOURCE", cfg.TopKPerSource)
	cfg.FetchConcurrency = getEnvIntOrDefault("FETCH_CONCURRENCY", cfg.FetchConcurrency)
	cfg.SourceTimeout = time.Duration(getEnvIntOrDefault("SOURCE_TIMEOUT_SECONDS", 10)) * time.Second
	cfg.CacheCapacity = getEnvIntOrDefault("CACHE_CAPACITY", cfg.CacheCapacity)
	cfg.SearchTopK = getEnvIntOrDefault("SEARCH_TOP_K", cfg.SearchTopK)

	cfg.EmbedServiceURL = getEnvOrDefault("EMBED_SERVICE_URL", cfg.EmbedServiceURL)
	cfg.EmbedDimension = getEnvIntOrDefault("EMBED_DIMENSION", cfg.EmbedDimension)
	cfg.EnrichConcurrency = getEnvIntOrDefault("ENRICH_CONCURRENCY", cfg.EnrichConcurrency)
	cfg.EnrichItemTimeout = time.Duration(getEnvIntOrDefault("ENRICH_ITEM_TIMEOUT_SECONDS", 60)) * time.Second
	cfg.SummarySentences = getEnvIntOrDefault("SUMMARY_SENTENCES", cfg.SummarySentences)

	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.MaxGeminiRequests = getEnvIntOrDefault("MAX_GEMINI_REQUESTS", 50)

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	cfg.TelegramChatID = os.Getenv("TELEGRAM_CHAT_ID")

	cfg.Port = getEnvOrDefault("PORT", cfg.Port)
	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.TTL <= 0 {
		return fmt.Errorf("NEWS_TTL_HOURS must be positive, got %v", c.TTL)
	}
	if c.CacheCapacity <= 0 {
		return fmt.Errorf("CACHE_CAPACITY must be positive, got %d", c.CacheCapacity)
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("REFRESH_INTERVAL_MINUTES must be positive, got %v", c.RefreshInterval)
	}
	if c.TopKPerSource <= 0 {
		return fmt.Errorf("TOP_K_PER_SOURCE must be positive, got %d", c.TopKPerSource)
	}
	if c.SearchTopK <= 0 {
		return fmt.Errorf("SEARCH_TOP_K must be positive, got %d", c.SearchTopK)
	}
	if c.SourceTimeout <= 0 {
		return fmt.Errorf("SOURCE_TIMEOUT_SECONDS must be positive, got %v", c.SourceTimeout)
	}
	if c.FetchConcurrency <= 0 || c.EnrichConcurrency <= 0 {
		return fmt.Errorf("concurrency settings must be positive")
	}
	if c.EnrichItemTimeout <= 0 {
		return fmt.Errorf("ENRICH_ITEM_TIMEOUT_SECONDS must be positive, got %v", c.EnrichItemTimeout)
	}
	if c.EmbedDimension <= 0 {
		return fmt.Errorf("EMBED_DIMENSION must be positive, got %d", c.EmbedDimension)
	}
	if c.EmbedServiceURL == "" {
		return fmt.Errorf("EMBED_SERVICE_URL is required")
	}
	if (c.TelegramToken == "") != (c.TelegramChatID == "") {
		return fmt.Errorf("TELEGRAM_TOKEN and TELEGRAM_CHAT_ID must be set together")
	}
	return nil
}
