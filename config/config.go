package config

import (
	"fmt"
	"net/url"
	"runtime"
	"time"
)

// Modes for persisting results.
const (
	ModePopulate = "populate"
	ModeUpdate   = "update"
)

// Fetcher types.
const (
	FetcherHTTP    = "http"
	FetcherBrowser = "browser"
)

// DefaultDedupeMaxSize bounds the per-search item URL cache.
const DefaultDedupeMaxSize = 10000

// Config holds scraper configuration.
type Config struct {
	SearchURLs       []string      `mapstructure:"search_urls"`
	MaxPages         int           `mapstructure:"max_pages"`
	Parallelism      int           `mapstructure:"parallelism"`
	Delay            time.Duration `mapstructure:"delay"`
	RandomDelay      time.Duration `mapstructure:"random_delay"`
	Timeout          time.Duration `mapstructure:"timeout"`
	UserAgent        string        `mapstructure:"user_agent"`
	RespectRobotsTxt bool          `mapstructure:"respect_robots_txt"`
	FetcherType      string        `mapstructure:"fetcher_type"`
	DedupeMaxSize    int           `mapstructure:"dedupe_max_size"`
	BatchSize        int           `mapstructure:"batch_size"`
	Mode             string        `mapstructure:"mode"`
	OutputFile       string        `mapstructure:"output_file"`
	OutputFormat     string        `mapstructure:"output_format"` // csv, json, dual, postgres or mongo
	PostgresDSN      string        `mapstructure:"postgres_dsn"`
	MongoURI         string        `mapstructure:"mongo_uri"`
	MongoDatabase    string        `mapstructure:"mongo_database"`
	MongoCollection  string        `mapstructure:"mongo_collection"`
	MetricsAddr      string        `mapstructure:"metrics_addr"`
	Verbose          bool          `mapstructure:"verbose"`
}

// DefaultConfig returns conservative defaults.
func DefaultConfig() *Config {
	return &Config{
		SearchURLs:       []string{"https://bws.com.au/search?searchTerm="},
		MaxPages:         50,
		Parallelism:      max(runtime.NumCPU(), 2),
		Delay:            0,
		RandomDelay:      0,
		Timeout:          20 * time.Second,
		UserAgent:        "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36",
		RespectRobotsTxt: false,
		FetcherType:      FetcherHTTP,
		DedupeMaxSize:    DefaultDedupeMaxSize,
		BatchSize:        64,
		Mode:             ModePopulate,
		OutputFile:       "output/drinks.csv",
		OutputFormat:     "csv",
		MongoDatabase:    "drinks",
		MongoCollection:  "products",
		Verbose:          false,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if len(c.SearchURLs) == 0 {
		return fmt.Errorf("at least one search URL is required")
	}
	for _, raw := range c.SearchURLs {
		parsed, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid search URL %q: %w", raw, err)
		}
		if parsed.Host == "" {
			return fmt.Errorf("search URL %q must include a host", raw)
		}
	}

	if c.MaxPages <= 0 {
		return fmt.Errorf("max pages must be positive")
	}
	if c.Parallelism <= 1 {
		return fmt.Errorf("parallelism must be greater than one, got %d", c.Parallelism)
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay cannot be negative")
	}
	if c.RandomDelay < 0 {
		return fmt.Errorf("random delay cannot be negative")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.FetcherType != FetcherHTTP && c.FetcherType != FetcherBrowser {
		return fmt.Errorf("fetcher type must be http or browser")
	}
	if c.DedupeMaxSize <= 0 {
		return fmt.Errorf("dedupe max size must be positive")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}
	if c.Mode != ModePopulate && c.Mode != ModeUpdate {
		return fmt.Errorf("mode must be populate or update")
	}

	switch c.OutputFormat {
	case "csv", "json", "dual":
		if c.OutputFile == "" {
			return fmt.Errorf("output file cannot be empty")
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("postgres output requires a DSN")
		}
	case "mongo":
		if c.MongoURI == "" || c.MongoDatabase == "" || c.MongoCollection == "" {
			return fmt.Errorf("mongo output requires uri, database and collection")
		}
	default:
		return fmt.Errorf("output format must be csv, json, dual, postgres, or mongo")
	}

	return nil
}
