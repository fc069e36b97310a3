package store

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	ProviderGemini   = "GEMINI"
	ProviderOpenAI   = "OPENAI"
	ProviderDeepSeek = "DEEPSEEK"
	ProviderNoop     = "NOOP"
)

type Config struct {
	Server struct {
		Addr          string `yaml:"addr"`
		SessionCookie string `yaml:"session_cookie"`
		Title         string `yaml:"title"`
	} `yaml:"server"`
	LLM struct {
		Provider    string  `yaml:"provider"`
		Model       string  `yaml:"model"`
		BaseURL     string  `yaml:"base_url"`
		APIKeyEnv   string  `yaml:"api_key_env"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float32 `yaml:"temperature"`
		System      string  `yaml:"system"`
	} `yaml:"llm"`
	Exchange struct {
		BaseURL        string `yaml:"base_url"`
		TickerPath     string `yaml:"ticker_path"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"exchange"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":3000"
	}
	if c.Server.SessionCookie == "" {
		c.Server.SessionCookie = "volume_chat_session"
	}
	if c.Server.Title == "" {
		c.Server.Title = "Chat with me or ask about the volume of common crypto currency"
	}

	c.LLM.Provider = strings.ToUpper(strings.TrimSpace(c.LLM.Provider))
	if c.LLM.Provider == "" {
		c.LLM.Provider = ProviderGemini
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.7
	}
	switch c.LLM.Provider {
	case ProviderGemini:
		if c.LLM.Model == "" {
			c.LLM.Model = "gemini-2.5-flash"
		}
		if c.LLM.BaseURL == "" {
			c.LLM.BaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
		}
		if c.LLM.APIKeyEnv == "" {
			c.LLM.APIKeyEnv = "GOOGLE_GENERATIVE_AI_API_KEY"
		}
	case ProviderOpenAI:
		if c.LLM.Model == "" {
			c.LLM.Model = "gpt-4o-mini"
		}
		if c.LLM.APIKeyEnv == "" {
			c.LLM.APIKeyEnv = "OPENAI_API_KEY"
		}
	case ProviderDeepSeek:
		if c.LLM.Model == "" {
			c.LLM.Model = "deepseek-chat"
		}
		if c.LLM.APIKeyEnv == "" {
			c.LLM.APIKeyEnv = "DEEPSEEK_API_KEY"
		}
	}

	if c.Exchange.BaseURL == "" {
		c.Exchange.BaseURL = "https://api.binance.com"
	}
	if c.Exchange.TickerPath == "" {
		c.Exchange.TickerPath = "/api/v3/ticker/tradingDay"
	}
}

func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderDeepSeek, ProviderNoop:
	default:
		return fmt.Errorf("invalid llm.provider '%s': must be GEMINI, OPENAI, DEEPSEEK or NOOP", c.LLM.Provider)
	}
	if c.LLM.Provider != ProviderNoop && c.LLM.Model == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0-2, got %.2f", c.LLM.Temperature)
	}
	if c.LLM.MaxTokens < 0 {
		return fmt.Errorf("llm.max_tokens cannot be negative, got %d", c.LLM.MaxTokens)
	}
	if !strings.HasPrefix(c.Exchange.TickerPath, "/") {
		return fmt.Errorf("exchange.ticker_path must start with '/', got '%s'", c.Exchange.TickerPath)
	}
	if c.Exchange.TimeoutSeconds < 0 {
		return fmt.Errorf("exchange.timeout_seconds cannot be negative, got %d", c.Exchange.TimeoutSeconds)
	}
	return nil
}

// APIKey resolves the provider credential from the environment.
func (c *Config) APIKey() string {
	if c.LLM.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.LLM.APIKeyEnv)
}

// LoadConfig reads path into a Config. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	var c Config

	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
