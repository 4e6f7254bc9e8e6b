package model

import "time"

// Config is the complete veritas configuration
type Config struct {
	HTTP         HTTPConfig        `yaml:"http" mapstructure:"http"`
	Cache        CacheConfig       `yaml:"cache" mapstructure:"cache"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Demo         DemoConfig        `yaml:"demo" mapstructure:"demo"`
	Thresholds   ThresholdsConfig  `yaml:"thresholds" mapstructure:"thresholds"`
	Remote       RemoteConfig      `yaml:"remote" mapstructure:"remote"`
	Media        MediaConfig       `yaml:"media" mapstructure:"media"`
	LLM          LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output       OutputConfig      `yaml:"output" mapstructure:"output"`
}

// HTTPConfig controls article fetching
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
}

// CacheConfig controls the in-memory page cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// RateLimitConfig controls per-host request pacing
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// DemoConfig tunes the randomized generator
type DemoConfig struct {
	FakeThreshold float64       `yaml:"fake_threshold" mapstructure:"fake_threshold"` // draw() > this marks a result fake
	TextDelay     time.Duration `yaml:"text_delay" mapstructure:"text_delay"`
	MediaDelay    time.Duration `yaml:"media_delay" mapstructure:"media_delay"`
	Seed          int64         `yaml:"seed,omitempty" mapstructure:"seed"` // 0 means time-seeded
}

// ThresholdsConfig holds the verdict policy for each result kind.
// The two kinds are intentionally configured separately.
type ThresholdsConfig struct {
	Text  TextThresholds  `yaml:"text" mapstructure:"text"`
	Media MediaThresholds `yaml:"media" mapstructure:"media"`
}

// TextThresholds maps credibility to a verdict.
// score >= Authentic is authentic, score >= Suspicious is suspicious, else fake.
type TextThresholds struct {
	Authentic  float64 `yaml:"authentic" mapstructure:"authentic"`
	Suspicious float64 `yaml:"suspicious" mapstructure:"suspicious"`
}

// MediaThresholds maps manipulation to a verdict.
// score >= Manipulated is fake, score >= Suspicious is suspicious, else authentic.
type MediaThresholds struct {
	Manipulated float64 `yaml:"manipulated" mapstructure:"manipulated"`
	Suspicious  float64 `yaml:"suspicious" mapstructure:"suspicious"`
}

// RemoteConfig points at the video analysis service
type RemoteConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
}

// MediaConfig limits uploads
type MediaConfig struct {
	MaxBytes int64 `yaml:"max_bytes" mapstructure:"max_bytes"`
}

// LLMConfig configures the optional LLM text backend
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai or empty
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ConcurrencyConfig controls the batch worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
	Format  string `yaml:"format" mapstructure:"format"` // text, html, json
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "Veritas/0.1 (+https://github.com/ppiankov/veritas)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     15 * time.Minute,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
		Demo: DemoConfig{
			FakeThreshold: 0.7,
			TextDelay:     2 * time.Second,
			MediaDelay:    3 * time.Second,
		},
		Thresholds: ThresholdsConfig{
			Text: TextThresholds{
				Authentic:  0.5,
				Suspicious: 0.5,
			},
			Media: MediaThresholds{
				Manipulated: 0.6,
				Suspicious:  0.6,
			},
		},
		Remote: RemoteConfig{
			Enabled:  true,
			Endpoint: "http://localhost:5000/analyze-video",
		},
		Media: MediaConfig{
			MaxBytes: 100 * 1024 * 1024,
		},
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 800,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}
