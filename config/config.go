package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Images    ImagesConfig    `mapstructure:"images"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	LogLevel  string          `mapstructure:"log_level"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

// DBConfig holds PostgreSQL connection settings
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	URL      string `mapstructure:"url"`
}

// JWTConfig holds token signing settings
type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

// LLMConfig holds settings for the hosted language model.
type LLMConfig struct {
	APIURL            string        `mapstructure:"api_url"`
	APIKey            string        `mapstructure:"api_key"`
	Model             string        `mapstructure:"model"`
	MaxTokens         int           `mapstructure:"max_tokens"`
	Temperature       float64       `mapstructure:"temperature"`
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxRetries        int           `mapstructure:"max_retries"`
	InitialRetryDelay time.Duration `mapstructure:"initial_retry_delay"`
}

// ImagesConfig holds recipe image generation settings. Image generation is
// optional and disabled when no API key is configured.
type ImagesConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIURL  string `mapstructure:"api_url"`
	APIKey  string `mapstructure:"api_key"`
}

// EmbeddingConfig holds settings for the embedding memoization cache.
type EmbeddingConfig struct {
	CacheSize int `mapstructure:"cache_size"`
}

// RateLimitConfig holds per-user rate limiting settings for the generation
// endpoint.
type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Limit   int           `mapstructure:"limit"`
	Window  time.Duration `mapstructure:"window"`
}

// LoadConfig reads configuration from the environment, with an optional
// .env file for local development.
func LoadConfig() (*Config, error) {
	// .env is optional; real deployments use environment variables
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvs(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.name", "flavorforge")
	v.SetDefault("db.ssl_mode", "disable")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.ttl", 7*24*time.Hour)

	v.SetDefault("llm.api_url", "https://api.deepseek.com/v1/chat/completions")
	v.SetDefault("llm.model", "deepseek-chat")
	v.SetDefault("llm.max_tokens", 2048)
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.timeout", 10*time.Second)
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.initial_retry_delay", time.Second)

	v.SetDefault("images.enabled", false)
	v.SetDefault("images.api_url", "https://api.openai.com/v1/images/generations")

	v.SetDefault("embedding.cache_size", 1000)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.limit", 10)
	v.SetDefault("rate_limit.window", time.Minute)

	v.SetDefault("log_level", "info")
}

func bindEnvs(v *viper.Viper) {
	_ = v.BindEnv("server.host", "SERVER_HOST")
	_ = v.BindEnv("server.port", "SERVER_PORT")
	_ = v.BindEnv("db.host", "DB_HOST")
	_ = v.BindEnv("db.port", "DB_PORT")
	_ = v.BindEnv("db.user", "DB_USER")
	_ = v.BindEnv("db.password", "DB_PASSWORD")
	_ = v.BindEnv("db.name", "DB_NAME")
	_ = v.BindEnv("db.ssl_mode", "DB_SSL_MODE")
	_ = v.BindEnv("redis.host", "REDIS_HOST")
	_ = v.BindEnv("redis.port", "REDIS_PORT")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("redis.url", "REDIS_URL")
	_ = v.BindEnv("jwt.secret", "JWT_SECRET")
	_ = v.BindEnv("llm.api_url", "LLM_API_URL")
	_ = v.BindEnv("llm.api_key", "LLM_API_KEY")
	_ = v.BindEnv("llm.model", "LLM_MODEL")
	_ = v.BindEnv("llm.max_tokens", "LLM_MAX_TOKENS")
	_ = v.BindEnv("llm.temperature", "LLM_TEMPERATURE")
	_ = v.BindEnv("llm.timeout", "LLM_TIMEOUT")
	_ = v.BindEnv("llm.max_retries", "LLM_MAX_RETRIES")
	_ = v.BindEnv("images.enabled", "IMAGES_ENABLED")
	_ = v.BindEnv("images.api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("embedding.cache_size", "EMBEDDING_CACHE_SIZE")
	_ = v.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	_ = v.BindEnv("rate_limit.limit", "RATE_LIMIT_REQUESTS")
	_ = v.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
}

func validateConfig(cfg *Config) error {
	if cfg.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.LLM.MaxRetries < 0 {
		return fmt.Errorf("LLM_MAX_RETRIES must not be negative")
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 1 {
		return fmt.Errorf("llm temperature must be between 0 and 1, got %v", cfg.LLM.Temperature)
	}
	if cfg.Embedding.CacheSize <= 0 {
		return fmt.Errorf("embedding cache size must be positive, got %d", cfg.Embedding.CacheSize)
	}
	return nil
}
