package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"leadscrape/internal/leads"
)

// Config holds all runtime configuration for a scrape. Command line flags
// override whatever Load returns.
type Config struct {
	Site          string
	Target        int
	MaxExpansions int
	OutDir        string
	ProxyURL      string
	DatabaseURL   string
	PhonePattern  string
	BlockDomains  []string

	// Timing
	NavTimeout   time.Duration
	Deadline     time.Duration
	ExpandSettle time.Duration
	ExpandPixels int
	Timing       leads.Timing
}

// Default returns a Config populated from the environment with sensible
// fallbacks.
func Default() Config {
	timing := leads.DefaultTiming()
	return Config{
		Site:          getEnv("LEADS_SITE", "gmaps"),
		Target:        getEnvInt("LEADS_TARGET", 60),
		MaxExpansions: getEnvInt("LEADS_MAX_SCROLLS", 30),
		OutDir:        getEnv("LEADS_OUT_DIR", "scraped_data"),
		ProxyURL:      getEnv("LEADS_PROXY", ""),
		DatabaseURL:   getEnv("LEADS_DB_DSN", ""),
		PhonePattern:  getEnv("LEADS_PHONE_PATTERN", leads.DefaultPhonePattern),
		BlockDomains:  getEnvList("LEADS_BLOCKED_DOMAINS"),

		NavTimeout:   getEnvDuration("LEADS_NAV_TIMEOUT", 60*time.Second),
		Deadline:     getEnvDuration("LEADS_DEADLINE", 0),
		ExpandSettle: getEnvDuration("LEADS_SCROLL_SETTLE", 3*time.Second),
		ExpandPixels: getEnvInt("LEADS_SCROLL_PIXELS", 1000),
		Timing: leads.Timing{
			QueryTimeout:   getEnvDuration("LEADS_QUERY_TIMEOUT", timing.QueryTimeout),
			WebsiteWait:    getEnvDuration("LEADS_WEBSITE_WAIT", timing.WebsiteWait),
			ActivateSettle: getEnvDuration("LEADS_HOVER_SETTLE", timing.ActivateSettle),
			RetrySettle:    timing.RetrySettle,
		},
	}
}

// Load reads a .env file from the working directory when one exists and
// then builds the Default config.
func Load() Config {
	_ = godotenv.Load()
	return Default()
}

func getEnv(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// getEnvList splits a comma-separated variable, dropping blank entries.
func getEnvList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}
