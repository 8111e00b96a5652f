package config

import (
	"time"

	"stock-news-briefer/internal/briefer/errs"
	"stock-news-briefer/pkg/config"
)

const (
	ProviderSerpAPI   = "serpapi"
	ProviderGoogleRSS = "googlerss"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
)

// Search holds the configuration for the news search backend.
type Search struct {
	Provider           string        `mapstructure:"provider"`
	BaseURL            string        `mapstructure:"base_url"`
	APIKey             string        `mapstructure:"api_key"`
	MaxResults         int           `mapstructure:"max_results"`
	Timeout            time.Duration `mapstructure:"timeout"`
	BlacklistedDomains []string      `mapstructure:"blacklisted_domains"`
}

// Fetcher holds the configuration for per-article content extraction.
type Fetcher struct {
	UserAgent     string        `mapstructure:"user_agent"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxConcurrent int           `mapstructure:"max_concurrent"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
}

// OpenAI holds the configuration for an OpenAI-compatible completion API.
type OpenAI struct {
	BaseURL             string  `mapstructure:"base_url"`
	APIKey              string  `mapstructure:"api_key"`
	Model               string  `mapstructure:"model"`
	Temperature         float64 `mapstructure:"temperature"`
	MaxTokens           int     `mapstructure:"max_tokens"`
	MaxRequestPerMinute int     `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int     `mapstructure:"max_token_per_minute"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	BaseURL             string `mapstructure:"base_url"`
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// AI holds configuration for AI providers.
type AI struct {
	Provider string `mapstructure:"provider"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Watch holds configuration for scheduled brief generation.
type Watch struct {
	Cron    string   `mapstructure:"cron"`
	Symbols []string `mapstructure:"symbols"`
}

// Config holds the full configuration for the briefer.
type Config struct {
	App      config.App    `mapstructure:"app"`
	Logger   config.Logger `mapstructure:"logger"`
	Search   Search        `mapstructure:"search"`
	Fetcher  Fetcher       `mapstructure:"fetcher"`
	AI       AI            `mapstructure:"ai"`
	OpenAI   OpenAI        `mapstructure:"openai"`
	Gemini   Gemini        `mapstructure:"gemini"`
	API      config.API    `mapstructure:"api"`
	Watch    Watch         `mapstructure:"watch"`
	Telegram Telegram      `mapstructure:"telegram"`
}

// Load loads the briefer configuration from the given path and applies
// defaults.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Logger.Encoding == "" {
		c.Logger.Encoding = "json"
	}
	if c.Search.Provider == "" {
		c.Search.Provider = ProviderSerpAPI
	}
	if c.Search.BaseURL == "" {
		c.Search.BaseURL = "https://serpapi.com"
	}
	if c.Search.MaxResults <= 0 || c.Search.MaxResults > 5 {
		c.Search.MaxResults = 5
	}
	if c.Search.Timeout <= 0 {
		c.Search.Timeout = 30 * time.Second
	}
	if c.Fetcher.UserAgent == "" {
		c.Fetcher.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	}
	if c.Fetcher.Timeout <= 0 {
		c.Fetcher.Timeout = 30 * time.Second
	}
	if c.Fetcher.MaxConcurrent <= 0 {
		c.Fetcher.MaxConcurrent = 3
	}
	if c.Fetcher.CacheTTL <= 0 {
		c.Fetcher.CacheTTL = 5 * time.Minute
	}
	if c.AI.Provider == "" {
		c.AI.Provider = ProviderOpenAI
	}
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = "https://api.openai.com/v1/chat/completions"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
	if c.OpenAI.Temperature <= 0 {
		c.OpenAI.Temperature = 0.7
	}
	if c.OpenAI.MaxTokens <= 0 {
		c.OpenAI.MaxTokens = 1500
	}
	if c.OpenAI.MaxRequestPerMinute <= 0 {
		c.OpenAI.MaxRequestPerMinute = 10
	}
	if c.OpenAI.MaxTokenPerMinute <= 0 {
		c.OpenAI.MaxTokenPerMinute = 100000
	}
	if c.Gemini.BaseURL == "" {
		c.Gemini.BaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.0-flash"
	}
	if c.Gemini.MaxRequestPerMinute <= 0 {
		c.Gemini.MaxRequestPerMinute = 10
	}
	if c.Gemini.MaxTokenPerMinute <= 0 {
		c.Gemini.MaxTokenPerMinute = 100000
	}
	if c.API.Port <= 0 {
		c.API.Port = 8080
	}
}

// Validate checks that every credential the selected providers need is
// present. It runs before any network call is made.
func (c *Config) Validate() error {
	if c.Search.Provider == ProviderSerpAPI && c.Search.APIKey == "" {
		return &errs.ConfigError{Field: "search.api_key (SEARCH_API_KEY)"}
	}
	switch c.AI.Provider {
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return &errs.ConfigError{Field: "openai.api_key (OPENAI_API_KEY)"}
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return &errs.ConfigError{Field: "gemini.api_key (GEMINI_API_KEY)"}
		}
	default:
		return &errs.ConfigError{Field: "ai.provider"}
	}
	return nil
}

// ValidateWatch checks the extra settings watch mode requires.
func (c *Config) ValidateWatch() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Watch.Cron == "" {
		return &errs.ConfigError{Field: "watch.cron"}
	}
	if len(c.Watch.Symbols) == 0 {
		return &errs.ConfigError{Field: "watch.symbols"}
	}
	if c.Telegram.BotToken == "" {
		return &errs.ConfigError{Field: "telegram.bot_token (TELEGRAM_BOT_TOKEN)"}
	}
	if c.Telegram.ChatID == 0 {
		return &errs.ConfigError{Field: "telegram.chat_id (TELEGRAM_CHAT_ID)"}
	}
	return nil
}
