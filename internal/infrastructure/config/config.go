package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the full application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Dataset   DatasetConfig   `mapstructure:"dataset"`
	Images    ImagesConfig    `mapstructure:"images"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	LogLevel  string          `mapstructure:"log_level"`
}

// AppConfig describes the running application.
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatasetConfig points at the CSV source file.
type DatasetConfig struct {
	Path string `mapstructure:"path"`
}

// ImagesConfig holds the image suggestion settings: cache file locations,
// entry lifetimes and the credentials of the three photo search providers.
// A missing credential silently disables that provider.
type ImagesConfig struct {
	CachePath       string        `mapstructure:"cache_path"`
	SeedCachePath   string        `mapstructure:"seed_cache_path"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
	EmptyCacheTTL   time.Duration `mapstructure:"empty_cache_ttl"`
	ProviderTimeout time.Duration `mapstructure:"provider_timeout"`
	UnsplashKey     string        `mapstructure:"unsplash_key"`
	PexelsKey       string        `mapstructure:"pexels_key"`
	PixabayKey      string        `mapstructure:"pixabay_key"`
}

// RateLimitConfig holds the request rate limit settings.
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig reads the .env file, environment variables and defaults into
// a validated Config.
func LoadConfig() (*Config, error) {
	// .env is optional; environment variables alone are fine
	_ = godotenv.Load()

	setDefaults()

	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.BindEnv("dataset.path", "DATASET_PATH")
	viper.BindEnv("images.cache_path", "IMAGE_CACHE_PATH")
	viper.BindEnv("images.seed_cache_path", "IMAGE_CACHE_SEED_PATH")
	viper.BindEnv("images.cache_ttl", "IMAGE_CACHE_TTL")
	viper.BindEnv("images.empty_cache_ttl", "IMAGE_CACHE_EMPTY_TTL")
	viper.BindEnv("images.provider_timeout", "IMAGE_PROVIDER_TIMEOUT")
	viper.BindEnv("images.unsplash_key", "UNSPLASH_ACCESS_KEY")
	viper.BindEnv("images.pexels_key", "PEXELS_API_KEY")
	viper.BindEnv("images.pixabay_key", "PIXABAY_API_KEY")
	viper.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	viper.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	viper.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	viper.BindEnv("log_level", "LOG_LEVEL")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// logger is not initialized yet at this point
	fmt.Println("Loading configuration",
		"dataset:", viper.GetString("dataset.path"),
		"unsplash_key:", maskAPIKey(viper.GetString("images.unsplash_key")),
		"pexels_key:", maskAPIKey(viper.GetString("images.pexels_key")),
		"pixabay_key:", maskAPIKey(viper.GetString("images.pixabay_key")),
	)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// maskAPIKey keeps only the first and last 4 characters of a credential.
func maskAPIKey(key string) string {
	if key == "" {
		return "(unset)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func setDefaults() {
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.name", "smoothie-catalog")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	viper.SetDefault("dataset.path", "data/smoothies.csv")

	viper.SetDefault("images.cache_path", "data/image-cache.json")
	viper.SetDefault("images.seed_cache_path", "data/image-cache.seed.json")
	viper.SetDefault("images.cache_ttl", "336h") // 14 days
	viper.SetDefault("images.empty_cache_ttl", "1h")
	viper.SetDefault("images.provider_timeout", "8s")

	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests", 100)
	viper.SetDefault("rate_limit.window", "1m")

	viper.SetDefault("log_level", "info")
}

func validateConfig(config *Config) error {
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}
	if config.Dataset.Path == "" {
		return fmt.Errorf("dataset path is required")
	}
	if config.Images.CachePath == "" {
		return fmt.Errorf("image cache path is required")
	}
	if config.Images.CacheTTL <= 0 {
		return fmt.Errorf("invalid image cache ttl")
	}
	if config.Images.EmptyCacheTTL <= 0 {
		return fmt.Errorf("invalid empty image cache ttl")
	}
	if config.Images.ProviderTimeout <= 0 {
		return fmt.Errorf("invalid provider timeout")
	}
	if config.RateLimit.Enabled {
		if config.RateLimit.Requests <= 0 {
			return fmt.Errorf("invalid rate limit requests")
		}
		if config.RateLimit.Window <= 0 {
			return fmt.Errorf("invalid rate limit window")
		}
	}
	return nil
}
