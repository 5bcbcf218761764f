package model

import "time"

// Config is the complete staycheck configuration
type Config struct {
	LLM        LLMConfig        `yaml:"llm" mapstructure:"llm"`
	Hotels     HotelsConfig     `yaml:"hotels" mapstructure:"hotels"`
	Validation ValidationConfig `yaml:"validation" mapstructure:"validation"`
	Correction CorrectionConfig `yaml:"correction" mapstructure:"correction"`
	Session    SessionConfig    `yaml:"session" mapstructure:"session"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Logging    LoggingConfig    `yaml:"logging" mapstructure:"logging"`
	HTTP       HTTPConfig       `yaml:"http" mapstructure:"http"`
}

// LLMConfig configures the language-model client
type LLMConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama
	Model       string  `yaml:"model" mapstructure:"model"`
	APIKey      string  `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL     string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout     int     `yaml:"timeout" mapstructure:"timeout"` // seconds, per call
	MaxRetries  int     `yaml:"max_retries" mapstructure:"max_retries"`
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
}

// HotelsConfig configures the hotel-data client
type HotelsConfig struct {
	Provider   string  `yaml:"provider" mapstructure:"provider"` // serpapi, simulated
	APIKey     string  `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL    string  `yaml:"base_url" mapstructure:"base_url"`
	Timeout    int     `yaml:"timeout" mapstructure:"timeout"` // seconds, per call
	MaxRetries int     `yaml:"max_retries" mapstructure:"max_retries"`
	MaxResults int     `yaml:"max_results" mapstructure:"max_results"`
	Currency   string  `yaml:"currency" mapstructure:"currency"`
	Adults     int     `yaml:"adults" mapstructure:"adults"`
	RateLimit  float64 `yaml:"rate_limit" mapstructure:"rate_limit"` // requests per second
}

// ValidationConfig holds every checker threshold
type ValidationConfig struct {
	PriceTolerance       float64 `yaml:"price_tolerance" mapstructure:"price_tolerance"`
	RatingTolerance      float64 `yaml:"rating_tolerance" mapstructure:"rating_tolerance"`
	MinPlausiblePrice    float64 `yaml:"min_plausible_price" mapstructure:"min_plausible_price"`
	MaxPlausiblePrice    float64 `yaml:"max_plausible_price" mapstructure:"max_plausible_price"`
	MaxRatingDecimals    int     `yaml:"max_rating_decimals" mapstructure:"max_rating_decimals"`
	UniformValueMinCount int     `yaml:"uniform_value_min_count" mapstructure:"uniform_value_min_count"`
	ListingOnlyMinHotels int     `yaml:"listing_only_min_hotels" mapstructure:"listing_only_min_hotels"`
}

// CorrectionConfig configures the self-correction loop
type CorrectionConfig struct {
	MaxAttempts  int `yaml:"max_attempts" mapstructure:"max_attempts"`
	HistoryLimit int `yaml:"history_limit" mapstructure:"history_limit"` // Messages sent to the model
}

// SessionConfig configures conversation history storage for the transports
type SessionConfig struct {
	Backend   string        `yaml:"backend" mapstructure:"backend"` // memory, disk, layered, redis
	TTL       time.Duration `yaml:"ttl" mapstructure:"ttl"`
	Dir       string        `yaml:"dir,omitempty" mapstructure:"dir"`
	RedisAddr string        `yaml:"redis_addr,omitempty" mapstructure:"redis_addr"`
	RedisPass string        `yaml:"redis_password,omitempty" mapstructure:"redis_password"`
	RedisDB   int           `yaml:"redis_db" mapstructure:"redis_db"`
}

// ServerConfig configures the HTTP transport
type ServerConfig struct {
	Addr    string `yaml:"addr" mapstructure:"addr"`
	Metrics bool   `yaml:"metrics" mapstructure:"metrics"`
}

// LoggingConfig configures zap
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json, console
}

// HTTPConfig holds outbound proxy settings
type HTTPConfig struct {
	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// Named verification tolerances
const (
	DefaultPriceTolerance  = 0.0 // Prices must match exactly
	DefaultRatingTolerance = 0.1 // Ratings may differ by one tenth
	DefaultMaxAttempts     = 3
	DefaultHistoryLimit    = 10
)

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		LLM: LLMConfig{
			Provider:    "openai",
			Timeout:     30,
			MaxRetries:  2,
			MaxTokens:   1500,
			Temperature: 0.2,
		},
		Hotels: HotelsConfig{
			Provider:   "serpapi",
			BaseURL:    "https://serpapi.com/search.json",
			Timeout:    15,
			MaxRetries: 2,
			MaxResults: 5,
			Currency:   "USD",
			Adults:     2,
			RateLimit:  2,
		},
		Validation: ValidationConfig{
			PriceTolerance:       DefaultPriceTolerance,
			RatingTolerance:      DefaultRatingTolerance,
			MinPlausiblePrice:    10,
			MaxPlausiblePrice:    5000,
			MaxRatingDecimals:    1,
			UniformValueMinCount: 3,
			ListingOnlyMinHotels: 3,
		},
		Correction: CorrectionConfig{
			MaxAttempts:  DefaultMaxAttempts,
			HistoryLimit: DefaultHistoryLimit,
		},
		Session: SessionConfig{
			Backend: "memory",
			TTL:     2 * time.Hour,
		},
		Server: ServerConfig{
			Addr:    ":8080",
			Metrics: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
