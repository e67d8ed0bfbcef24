package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment string           `mapstructure:"environment"`
	LogLevel    string           `mapstructure:"log_level"`
	Server      ServerConfig     `mapstructure:"server"`
	Redis       RedisConfig      `mapstructure:"redis"`
	Remote      RemoteConfig     `mapstructure:"remote"`
	Projection  ProjectionConfig `mapstructure:"projection"`
	Cache       CacheConfig      `mapstructure:"cache"`
}

type ServerConfig struct {
	Port            int      `mapstructure:"port"`
	Host            string   `mapstructure:"host"`
	ReadTimeout     int      `mapstructure:"read_timeout"`
	WriteTimeout    int      `mapstructure:"write_timeout"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	RateLimitPerMin int      `mapstructure:"rate_limit_per_min"`
	AdminAPIKeys    []string `mapstructure:"admin_api_keys"`
}

// RedisConfig is optional; an empty host keeps the payload cache in memory
type RedisConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	MaxRetries int    `mapstructure:"max_retries"`
	PoolSize   int    `mapstructure:"pool_size"`
}

// RemoteConfig points at the basket analytics API. Baskets maps a catalog
// identity to its remote path; identities not listed are local only.
type RemoteConfig struct {
	BaseURL        string            `mapstructure:"base_url"`
	Timeout        int               `mapstructure:"timeout"` // seconds
	FetchTimeout   int               `mapstructure:"fetch_timeout"`
	RateLimitRPS   float64           `mapstructure:"rate_limit_rps"`
	RateLimitBurst int               `mapstructure:"rate_limit_burst"`
	MaxRetries     int               `mapstructure:"max_retries"`
	RetryBackoffMs int               `mapstructure:"retry_backoff_ms"`
	BreakerTimeout int               `mapstructure:"breaker_timeout"` // seconds open before half-open
	Baskets        map[string]string `mapstructure:"baskets"`
}

type ProjectionConfig struct {
	Benchmark3Y         float64 `mapstructure:"benchmark_3y"`
	Benchmark5Y         float64 `mapstructure:"benchmark_5y"`
	Benchmark10Y        float64 `mapstructure:"benchmark_10y"`
	TenYearHaircut      float64 `mapstructure:"ten_year_haircut"`
	MinComparisonAmount float64 `mapstructure:"min_comparison_amount"`
	DefaultAmount       float64 `mapstructure:"default_amount"`
	DefaultHorizon      int     `mapstructure:"default_horizon"`
	CompareConcurrency  int     `mapstructure:"compare_concurrency"`
}

type CacheConfig struct {
	TTL            int    `mapstructure:"ttl"` // seconds
	WarmSchedule   string `mapstructure:"warm_schedule"`
	WarmOnStart    bool   `mapstructure:"warm_on_start"`
	SessionIdleTTL int    `mapstructure:"session_idle_ttl"` // seconds
	SweepSchedule  string `mapstructure:"sweep_schedule"`
}

// Addr returns the host:port the HTTP server listens on
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Duration converts a seconds field into a time.Duration
func Duration(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	overrideFromEnv(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.rate_limit_per_min", 120)

	// Redis defaults
	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.pool_size", 10)

	// Remote basket API defaults
	v.SetDefault("remote.base_url", "http://localhost:5000/api")
	v.SetDefault("remote.timeout", 10)
	v.SetDefault("remote.fetch_timeout", 15)
	v.SetDefault("remote.rate_limit_rps", 20)
	v.SetDefault("remote.rate_limit_burst", 10)
	v.SetDefault("remote.max_retries", 3)
	v.SetDefault("remote.retry_backoff_ms", 200)
	v.SetDefault("remote.breaker_timeout", 30)
	v.SetDefault("remote.baskets", map[string]string{
		"great-india":        "great-india",
		"raising-india":      "raising-india",
		"every-common-india": "every-common-india",
	})

	// Projection defaults
	v.SetDefault("projection.benchmark_3y", 11.5)
	v.SetDefault("projection.benchmark_5y", 12.2)
	v.SetDefault("projection.benchmark_10y", 13.5)
	v.SetDefault("projection.ten_year_haircut", 0.95)
	v.SetDefault("projection.min_comparison_amount", 1000)
	v.SetDefault("projection.default_amount", 100000)
	v.SetDefault("projection.default_horizon", 5)
	v.SetDefault("projection.compare_concurrency", 4)

	// Cache defaults
	v.SetDefault("cache.ttl", 900)
	v.SetDefault("cache.warm_schedule", "0 */10 * * * *")
	v.SetDefault("cache.warm_on_start", true)
	v.SetDefault("cache.session_idle_ttl", 1800)
	v.SetDefault("cache.sweep_schedule", "0 */5 * * * *")
}

func overrideFromEnv(v *viper.Viper) {
	// Server
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			v.Set("server.port", p)
		}
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		v.Set("server.allowed_origins", splitList(origins))
	}
	if keys := os.Getenv("ADMIN_API_KEYS"); keys != "" {
		v.Set("server.admin_api_keys", splitList(keys))
	}

	// Redis
	if redisHost := os.Getenv("REDIS_HOST"); redisHost != "" {
		v.Set("redis.host", redisHost)
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		v.Set("redis.password", redisPassword)
	}

	// Remote basket API
	if baseURL := os.Getenv("BASKET_API_URL"); baseURL != "" {
		v.Set("remote.base_url", baseURL)
	}
	// BASKET_API_BASKETS=great-india=great-india,raising-india=raising
	if baskets := os.Getenv("BASKET_API_BASKETS"); baskets != "" {
		paths := make(map[string]string)
		for _, pair := range splitList(baskets) {
			identity, path, ok := strings.Cut(pair, "=")
			if !ok {
				identity, path = pair, pair
			}
			paths[strings.TrimSpace(identity)] = strings.TrimSpace(path)
		}
		v.Set("remote.baskets", paths)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func validate(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("server port %d is out of range", config.Server.Port)
	}

	if len(config.Remote.Baskets) > 0 && strings.TrimSpace(config.Remote.BaseURL) == "" {
		return fmt.Errorf("remote base URL is required when remote baskets are configured")
	}

	switch config.Projection.DefaultHorizon {
	case 3, 5, 10:
	default:
		return fmt.Errorf("default horizon must be 3, 5 or 10, got %d", config.Projection.DefaultHorizon)
	}

	if config.Projection.TenYearHaircut <= 0 || config.Projection.TenYearHaircut > 1 {
		return fmt.Errorf("ten-year haircut must be in (0, 1], got %v", config.Projection.TenYearHaircut)
	}

	if config.Projection.MinComparisonAmount < 0 {
		return fmt.Errorf("minimum comparison amount cannot be negative")
	}

	return nil
}
