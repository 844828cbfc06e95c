package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/AdwitiyaKhare/trendboard-ai/pkg/domain"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// summarizer providers
const (
	ProviderHuggingFace = "huggingface"
	ProviderOpenAI      = "openai"
)

// DefaultFeeds are ingested when the configuration does not list any feed
var DefaultFeeds = []Feed{
	{URL: "https://www.cnbc.com/id/10001147/device/rss/rss.html"},
	{URL: "https://feeds.a.dj.com/rss/RSSMarketsMain.xml"},
}

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen      string        `yaml:"listen" json:"listen" jsonschema:"default=:5000,description=HTTP server listen address"`
		Timeout     time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=5m,description=HTTP server read/write timeout"`
		FrontendURL string        `yaml:"frontend_url" json:"frontend_url" jsonschema:"description=Dashboard origin allowed by CORS"`
		BaseURL     string        `yaml:"base_url" json:"base_url" jsonschema:"default=http://localhost:5000,description=Public URL used in the generated RSS feed"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Store StoreConfig `yaml:"store" json:"store" jsonschema:"description=Article store configuration"`

	Feeds []Feed `yaml:"feeds" json:"feeds" jsonschema:"description=Feeds to ingest"`

	Fetch FetchConfig `yaml:"fetch" json:"fetch" jsonschema:"description=Feed fetching settings"`

	Summarizer SummarizerConfig `yaml:"summarizer" json:"summarizer" jsonschema:"description=Summarization API settings"`

	Extraction ExtractionConfig `yaml:"extraction" json:"extraction" jsonschema:"description=Full text extraction for items without content"`

	Schedule ScheduleConfig `yaml:"schedule" json:"schedule" jsonschema:"description=Periodic ingestion"`

	Redis RedisConfig `yaml:"redis" json:"redis" jsonschema:"description=Optional redis lock shared by several instances"`
}

// Feed is a configured feed source
type Feed struct {
	URL  string `yaml:"url" json:"url" jsonschema:"required,description=Feed URL"`
	Name string `yaml:"name" json:"name" jsonschema:"description=Display name (defaults to the feed title)"`
}

// StoreConfig holds article store settings
type StoreConfig struct {
	DSN             string        `yaml:"dsn" json:"dsn" jsonschema:"default=file:trendboard.db?cache=shared&mode=rwc,description=SQLite file DSN or postgres:// URL"`
	MaxOpenConns    int           `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
	MaxIdleConns    int           `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=1h,description=Connection maximum lifetime"`
}

// FetchConfig holds feed fetching settings
type FetchConfig struct {
	Timeout         time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=15s,description=Timeout per feed"`
	UserAgent       string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Mozilla/5.0 (compatible; Trendboard/1.0),description=User agent for feed requests"`
	MaxContentChars int           `yaml:"max_content_chars" json:"max_content_chars" jsonschema:"default=3000,description=Item content is truncated to this many characters before sanitizing"`
}

// SummarizerConfig holds summarization API settings
type SummarizerConfig struct {
	Provider  string        `yaml:"provider" json:"provider" jsonschema:"default=huggingface,enum=huggingface,enum=openai,description=Summarization backend"`
	Endpoint  string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=Model URL (huggingface) or API base URL (openai)"`
	APIToken  string        `yaml:"api_token" json:"api_token" jsonschema:"description=API token (summarization is disabled without it)"`
	Model     string        `yaml:"model" json:"model" jsonschema:"description=Model name for the openai provider"`
	MinLength int           `yaml:"min_length" json:"min_length" jsonschema:"default=50,description=Minimum summary length"`
	MaxLength int           `yaml:"max_length" json:"max_length" jsonschema:"default=200,description=Maximum summary length"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=60s,description=Timeout per summarization call"`
	Prompt    string        `yaml:"prompt" json:"prompt" jsonschema:"description=Instruction for the openai provider (optional)"`
}

// ExtractionConfig holds full text extraction settings
type ExtractionConfig struct {
	Enabled bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Extract page text when a feed item has no content"`
	Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Extraction timeout per article"`
}

// ScheduleConfig holds periodic ingestion settings
type ScheduleConfig struct {
	Cron       string `yaml:"cron" json:"cron" jsonschema:"description=Cron expression for periodic ingestion (empty disables it)"`
	RunOnStart bool   `yaml:"run_on_start" json:"run_on_start" jsonschema:"default=false,description=Run one ingestion right after start"`
}

// RedisConfig holds the optional distributed lock settings
type RedisConfig struct {
	Addr     string        `yaml:"addr" json:"addr" jsonschema:"description=Redis address (empty disables the lock)"`
	Password string        `yaml:"password" json:"password" jsonschema:"description=Redis password"`
	DB       int           `yaml:"db" json:"db" jsonschema:"default=0,description=Redis database"`
	LockTTL  time.Duration `yaml:"lock_ttl" json:"lock_ttl" jsonschema:"default=30m,description=Ingestion lock expiration"`
}

// Load reads configuration from a YAML file, an empty path means defaults only
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		// expand environment variables
		expanded := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// SetDefaults fills unset fields with default values
func (c *Config) SetDefaults() {
	// server
	if c.Server.Listen == "" {
		c.Server.Listen = ":5000"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 5 * time.Minute // ingestion runs inside the request
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = "http://localhost:5000"
	}

	// store
	if c.Store.DSN == "" {
		c.Store.DSN = "file:trendboard.db?cache=shared&mode=rwc"
	}
	if c.Store.MaxOpenConns == 0 {
		c.Store.MaxOpenConns = 10
	}
	if c.Store.MaxIdleConns == 0 {
		c.Store.MaxIdleConns = 5
	}
	if c.Store.ConnMaxLifetime == 0 {
		c.Store.ConnMaxLifetime = time.Hour
	}

	// feeds
	if len(c.Feeds) == 0 {
		c.Feeds = append([]Feed(nil), DefaultFeeds...)
	}

	// fetch
	if c.Fetch.Timeout == 0 {
		c.Fetch.Timeout = 15 * time.Second
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = "Mozilla/5.0 (compatible; Trendboard/1.0)"
	}
	if c.Fetch.MaxContentChars == 0 {
		c.Fetch.MaxContentChars = 3000
	}

	// summarizer
	if c.Summarizer.Provider == "" {
		c.Summarizer.Provider = ProviderHuggingFace
	}
	if c.Summarizer.Endpoint == "" && c.Summarizer.Provider == ProviderHuggingFace {
		c.Summarizer.Endpoint = "https://api-inference.huggingface.co/models/philschmid/bart-large-cnn-samsum"
	}
	if c.Summarizer.Model == "" && c.Summarizer.Provider == ProviderOpenAI {
		c.Summarizer.Model = "gpt-4o-mini"
	}
	if c.Summarizer.MinLength == 0 {
		c.Summarizer.MinLength = 50
	}
	if c.Summarizer.MaxLength == 0 {
		c.Summarizer.MaxLength = 200
	}
	if c.Summarizer.Timeout == 0 {
		c.Summarizer.Timeout = 60 * time.Second
	}

	// extraction
	if c.Extraction.Timeout == 0 {
		c.Extraction.Timeout = 30 * time.Second
	}

	// redis
	if c.Redis.LockTTL == 0 {
		c.Redis.LockTTL = 30 * time.Minute
	}
}

// Validate checks configuration for correctness
func (c *Config) Validate() error {
	if c.Store.DSN == "" {
		return fmt.Errorf("store.dsn is required")
	}

	for i, f := range c.Feeds {
		if strings.TrimSpace(f.URL) == "" {
			return fmt.Errorf("feeds[%d].url is required", i)
		}
	}

	switch c.Summarizer.Provider {
	case ProviderHuggingFace, ProviderOpenAI:
	default:
		return fmt.Errorf("summarizer.provider must be %q or %q, got %q", ProviderHuggingFace, ProviderOpenAI, c.Summarizer.Provider)
	}
	if c.Summarizer.MinLength < 0 || c.Summarizer.MaxLength < c.Summarizer.MinLength {
		return fmt.Errorf("summarizer.max_length must be at least summarizer.min_length")
	}

	if c.Fetch.Timeout < time.Second {
		return fmt.Errorf("fetch.timeout must be at least 1 second")
	}
	if c.Fetch.MaxContentChars < 1 {
		return fmt.Errorf("fetch.max_content_chars must be positive")
	}

	if c.Server.Timeout < time.Second {
		return fmt.Errorf("server.timeout must be at least 1 second")
	}

	return nil
}

// FeedSources returns configured feeds as ingestion sources
func (c *Config) FeedSources() []domain.FeedSource {
	res := make([]domain.FeedSource, 0, len(c.Feeds))
	for _, f := range c.Feeds {
		res = append(res, domain.FeedSource{URL: strings.TrimSpace(f.URL), Name: f.Name})
	}
	return res
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetFrontendURL returns the dashboard origin allowed by CORS
func (c *Config) GetFrontendURL() string {
	return c.Server.FrontendURL
}

// GetBaseURL returns the public URL of the service
func (c *Config) GetBaseURL() string {
	return c.Server.BaseURL
}
