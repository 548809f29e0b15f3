package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the scraper service
type Config struct {
	Server  ServerConfig
	Fetch   FetchConfig
	Render  RenderConfig
	Scraper ScraperConfig
}

type ServerConfig struct {
	Addr string
}

type FetchConfig struct {
	// User agent for plain HTTP fetches
	UserAgent string
	Timeout   time.Duration
	// Maximum response body size in bytes
	MaxBodyBytes int64
}

type RenderConfig struct {
	// User agent presented by the headless browser
	UserAgent string
	// Hard cap on a whole rendered session
	NavTimeout time.Duration
	// Fixed wait after navigation before looking for content
	InitialWait time.Duration
	// Bounded wait for ContentSelector to appear; falls back silently
	SelectorWait    time.Duration
	ContentSelector string
	// Wait after the selector phase for late dynamic content
	SettleWait time.Duration
	// Waits around the scroll-down / scroll-up cycle
	ScrollDownWait time.Duration
	ScrollUpWait   time.Duration
	Headless       bool
}

type ScraperConfig struct {
	// Raw candidates collected per requested job, so relevance filtering
	// has enough material before truncation
	PoolFactor int
	// Concurrent detail-page fetches during enrichment (1 = sequential)
	DetailConcurrency int
}

// Load creates a Config from environment variables with defaults.
// A .env file in the working directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Addr: getEnv("SERVER_ADDR", ":8080"),
		},
		Fetch: FetchConfig{
			UserAgent:    getEnv("FETCH_USER_AGENT", "Mozilla/5.0 (compatible; JobScraper/1.0; +http://example.com/bot)"),
			Timeout:      getEnvSeconds("FETCH_TIMEOUT_SECONDS", 20),
			MaxBodyBytes: int64(getEnvInt("FETCH_MAX_BODY_BYTES", 5*1024*1024)),
		},
		Render: RenderConfig{
			UserAgent:       getEnv("RENDER_USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
			NavTimeout:      getEnvSeconds("RENDER_NAV_TIMEOUT_SECONDS", 90),
			InitialWait:     getEnvSeconds("RENDER_INITIAL_WAIT_SECONDS", 15),
			SelectorWait:    getEnvSeconds("RENDER_SELECTOR_WAIT_SECONDS", 20),
			ContentSelector: getEnv("RENDER_CONTENT_SELECTOR", "a[href*='/job/']"),
			SettleWait:      getEnvSeconds("RENDER_SETTLE_WAIT_SECONDS", 5),
			ScrollDownWait:  getEnvSeconds("RENDER_SCROLL_DOWN_WAIT_SECONDS", 2),
			ScrollUpWait:    getEnvSeconds("RENDER_SCROLL_UP_WAIT_SECONDS", 1),
			Headless:        getEnvBool("RENDER_HEADLESS", true),
		},
		Scraper: ScraperConfig{
			PoolFactor:        getEnvInt("SCRAPER_POOL_FACTOR", 3),
			DetailConcurrency: getEnvInt("SCRAPER_DETAIL_CONCURRENCY", 1),
		},
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvSeconds(key string, defaultVal int) time.Duration {
	return time.Duration(getEnvInt(key, defaultVal)) * time.Second
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
