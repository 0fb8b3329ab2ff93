// Package store loads and validates the YAML run configuration.
package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"momentum-scout/internal/types"
)

type Config struct {
	RunID      string `yaml:"run_id"`
	AnalysisID string `yaml:"analysis_id"`
	DataDir    string `yaml:"data_dir"`

	Market struct {
		Source   string `yaml:"source"` // STATIC or KITE
		Exchange string `yaml:"exchange"`
	} `yaml:"market"`

	Screen struct {
		Strategy    string `yaml:"strategy"`
		HistoryDays int    `yaml:"history_days"`
		SleepMillis int    `yaml:"sleep_millis"`
	} `yaml:"screen"`

	News struct {
		QueryPrefix      string `yaml:"query_prefix"`
		QuerySuffix      string `yaml:"query_suffix"`
		LookbackDays     int    `yaml:"lookback_days"`
		CacheExpiryHours int    `yaml:"cache_expiry_hours"`
		TimeoutSeconds   int    `yaml:"timeout_seconds"`
	} `yaml:"news"`

	Filters []types.FilterConfig `yaml:"news_filters"`

	LLM struct {
		Provider    string  `yaml:"provider"`
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float64 `yaml:"temperature"`
		MaxRetries  int     `yaml:"max_retries"`
	} `yaml:"llm"`

	Analyst struct {
		ConvictionThreshold float64 `yaml:"conviction_threshold"`
		SentimentThreshold  float64 `yaml:"sentiment_threshold"`
		TopN                int     `yaml:"top_n"`
	} `yaml:"analyst"`

	Log struct {
		RetentionDays int `yaml:"retention_days"`
	} `yaml:"log"`
}

func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("data_dir cannot be empty")
	}
	if c.Market.Source != "STATIC" && c.Market.Source != "KITE" {
		return fmt.Errorf("invalid market.source '%s': must be 'STATIC' or 'KITE'", c.Market.Source)
	}
	if c.Screen.Strategy == "" {
		return errors.New("screen.strategy cannot be empty")
	}
	if c.Screen.HistoryDays < 1 {
		return fmt.Errorf("screen.history_days must be positive, got %d", c.Screen.HistoryDays)
	}
	if c.LLM.Provider != "openai" && c.LLM.Provider != "claude" {
		return fmt.Errorf("invalid llm.provider '%s': must be 'openai' or 'claude'", c.LLM.Provider)
	}
	if c.LLM.MaxRetries < 1 {
		return fmt.Errorf("llm.max_retries must be at least 1, got %d", c.LLM.MaxRetries)
	}
	if c.Analyst.TopN < 1 {
		return fmt.Errorf("analyst.top_n must be positive, got %d", c.Analyst.TopN)
	}
	if c.Analyst.SentimentThreshold < -1 || c.Analyst.SentimentThreshold > 1 {
		return fmt.Errorf("analyst.sentiment_threshold must be in [-1,1], got %v", c.Analyst.SentimentThreshold)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.Market.Source == "" {
		c.Market.Source = "STATIC"
	}
	if c.Market.Exchange == "" {
		c.Market.Exchange = "NSE"
	}
	if c.Screen.HistoryDays == 0 {
		c.Screen.HistoryDays = 730
	}
	if c.News.LookbackDays == 0 {
		c.News.LookbackDays = 3
	}
	if c.News.CacheExpiryHours == 0 {
		c.News.CacheExpiryHours = 24
	}
	if c.News.TimeoutSeconds == 0 {
		c.News.TimeoutSeconds = 20
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 2048
	}
	if c.LLM.MaxRetries == 0 {
		c.LLM.MaxRetries = 3
	}
	if c.Analyst.ConvictionThreshold == 0 {
		c.Analyst.ConvictionThreshold = 5
	}
	if c.Analyst.SentimentThreshold == 0 {
		c.Analyst.SentimentThreshold = 0.1
	}
	if c.Analyst.TopN == 0 {
		c.Analyst.TopN = 5
	}
	if c.Log.RetentionDays == 0 {
		c.Log.RetentionDays = 30
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}
