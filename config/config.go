package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends
const (
	BackendMongoDB = "mongodb"
	BackendMemory  = "memory"
)

// Config holds all configuration for the cvedex service
type Config struct {
	Storage struct {
		// Backend selects the vulnerability index: "mongodb" (default) or
		// "memory" to serve a fixture file
		Backend     string `mapstructure:"backend"`
		FixturePath string `mapstructure:"fixture_path"`
	} `mapstructure:"storage"`

	MongoDB struct {
		URI         string        `mapstructure:"uri"`
		Database    string        `mapstructure:"database"`
		MaxPoolSize uint64        `mapstructure:"max_pool_size"`
		Timeout     time.Duration `mapstructure:"timeout"`
	} `mapstructure:"mongodb"`

	API struct {
		Port           int      `mapstructure:"port"`
		AllowedOrigins []string `mapstructure:"allowed_origins"`
		TrustProxy     bool     `mapstructure:"trust_proxy"`
		RateLimit      struct {
			RequestsPerSecond int `mapstructure:"requests_per_second"`
			Burst             int `mapstructure:"burst"`
		} `mapstructure:"rate_limit"`
	} `mapstructure:"api"`

	Cache struct {
		LookupSize int           `mapstructure:"lookup_size"`
		LookupTTL  time.Duration `mapstructure:"lookup_ttl"`
	} `mapstructure:"cache"`

	Redis struct {
		Enabled  bool          `mapstructure:"enabled"`
		Addr     string        `mapstructure:"addr"`
		Password string        `mapstructure:"password"`
		DB       int           `mapstructure:"db"`
		PoolSize int           `mapstructure:"pool_size"`
		TTL      time.Duration `mapstructure:"ttl"`
	} `mapstructure:"redis"`

	Logging struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"` // console or json
	} `mapstructure:"logging"`

	Search struct {
		DefaultLimit int `mapstructure:"default_limit"`
		MaxLimit     int `mapstructure:"max_limit"`
	} `mapstructure:"search"`
}

func setDefaults() {
	viper.SetDefault("storage.backend", BackendMongoDB)
	viper.SetDefault("storage.fixture_path", "./data/fixture.yaml")
	viper.SetDefault("mongodb.uri", "mongodb://localhost:27017")
	viper.SetDefault("mongodb.database", "cve_database")
	viper.SetDefault("mongodb.max_pool_size", 10)
	viper.SetDefault("mongodb.timeout", 10*time.Second)
	viper.SetDefault("api.port", 5000)
	viper.SetDefault("api.allowed_origins", []string{"http://localhost:3000"})
	viper.SetDefault("api.trust_proxy", false)
	viper.SetDefault("api.rate_limit.requests_per_second", 50)
	viper.SetDefault("api.rate_limit.burst", 100)
	viper.SetDefault("cache.lookup_size", 1024)
	viper.SetDefault("cache.lookup_ttl", 5*time.Minute)
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("redis.ttl", 5*time.Minute)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")
	viper.SetDefault("search.default_limit", 20)
	viper.SetDefault("search.max_limit", 100)
}

func loadFromEnv() {
	viper.SetEnvPrefix("CVEDEX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Short names commonly set by container platforms
	_ = viper.BindEnv("mongodb.uri", "CVEDEX_MONGODB_URI", "MONGODB_URI")
	_ = viper.BindEnv("api.port", "CVEDEX_API_PORT", "PORT")
}

// LoadConfig reads config.yaml from . or ./config, then applies CVEDEX_*
// environment overrides on top of the defaults.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()
	loadFromEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func validateConfig(config *Config) error {
	switch config.Storage.Backend {
	case BackendMongoDB:
		if !strings.HasPrefix(config.MongoDB.URI, "mongodb://") && !strings.HasPrefix(config.MongoDB.URI, "mongodb+srv://") {
			return fmt.Errorf("invalid MongoDB URI: must start with mongodb:// or mongodb+srv://")
		}
		parsed, err := url.Parse(config.MongoDB.URI)
		if err != nil {
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
		if parsed.Host == "" {
			return fmt.Errorf("invalid MongoDB URI: missing host")
		}
		if config.MongoDB.Database == "" {
			return fmt.Errorf("MongoDB database cannot be empty")
		}
		if config.MongoDB.Timeout <= 0 {
			return fmt.Errorf("MongoDB timeout must be positive")
		}
	case BackendMemory:
		if config.Storage.FixturePath == "" {
			return fmt.Errorf("storage.fixture_path is required for the memory backend")
		}
		if _, err := os.Stat(config.Storage.FixturePath); err != nil {
			return fmt.Errorf("fixture file not accessible: %w", err)
		}
	default:
		return fmt.Errorf("invalid storage backend %q (must be %s or %s)", config.Storage.Backend, BackendMongoDB, BackendMemory)
	}

	if config.API.Port < 1 || config.API.Port > 65535 {
		return fmt.Errorf("invalid API port: %d (must be 1-65535)", config.API.Port)
	}
	if config.API.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("api.rate_limit.requests_per_second must be positive")
	}
	if config.API.RateLimit.Burst <= 0 {
		return fmt.Errorf("api.rate_limit.burst must be positive")
	}

	if config.Cache.LookupSize < 0 {
		return fmt.Errorf("cache.lookup_size cannot be negative")
	}

	if config.Redis.Enabled {
		if config.Redis.Addr == "" {
			return fmt.Errorf("redis.addr is required when redis is enabled")
		}
		if config.Redis.TTL <= 0 {
			return fmt.Errorf("redis.ttl must be positive")
		}
	}

	switch config.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid logging format %q (must be console or json)", config.Logging.Format)
	}

	if config.Search.DefaultLimit < 1 || config.Search.MaxLimit < config.Search.DefaultLimit {
		return fmt.Errorf("invalid search limits: default %d, max %d", config.Search.DefaultLimit, config.Search.MaxLimit)
	}
	return nil
}
