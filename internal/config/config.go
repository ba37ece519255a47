package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port           string
	AllowedOrigins []string
	TLSCert        string
	TLSKey         string

	OpenTDBBaseURL string
	HTTPTimeout    time.Duration
	CategoryTTL    time.Duration

	RateLimitPerMin int
	SessionTTL      time.Duration
}

func FromEnv() Config {
	return Config{
		Port:            getenv("PORT", "8080"),
		AllowedOrigins:  splitCSV(getenv("ALLOWED_ORIGINS", "http://localhost:5173,https://localhost:5173")),
		TLSCert:         os.Getenv("TLS_CERT"),
		TLSKey:          os.Getenv("TLS_KEY"),
		OpenTDBBaseURL:  getenv("OPENTDB_BASE_URL", "https://opentdb.com"),
		HTTPTimeout:     durationDefault(os.Getenv("HTTP_TIMEOUT"), 8*time.Second),
		CategoryTTL:     durationDefault(os.Getenv("CATEGORY_TTL"), 6*time.Hour),
		RateLimitPerMin: atoiDefault(os.Getenv("RATE_LIMIT_PER_MIN"), 60),
		SessionTTL:      durationDefault(os.Getenv("SESSION_TTL"), 24*time.Hour),
	}
}

func (c Config) TLS() bool { return c.TLSCert != "" && c.TLSKey != "" }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoiDefault(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil || i <= 0 {
		return def
	}
	return i
}

func durationDefault(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
