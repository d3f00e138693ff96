package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log        Logger           `mapstructure:"logger"`
	DB         Database         `mapstructure:"database"`
	API        API              `mapstructure:"api"`
	Cache      Cache            `mapstructure:"cache"`
	Tasks      Tasks            `mapstructure:"tasks"`
	Generation GenerationConfig `mapstructure:"generation"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	Telegram   TelegramConfig   `mapstructure:"telegram"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port int `mapstructure:"port"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

// Tasks controls the in-process task registry and its periodic eviction.
type Tasks struct {
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	MaxAge          time.Duration `mapstructure:"max_age"`
}

// GenerationConfig holds accounting knobs shared by every resource type.
type GenerationConfig struct {
	CostCredits      int           `mapstructure:"cost_credits"`
	Timeout          time.Duration `mapstructure:"timeout"`
	AlertRetention   time.Duration `mapstructure:"alert_retention"`
	LimitCacheExpiry time.Duration `mapstructure:"limit_cache_expiry"`
}

type GeminiConfig struct {
	APIKey              string        `mapstructure:"api_key"`
	TextModel           string        `mapstructure:"text_model"`
	ImageModel          string        `mapstructure:"image_model"`
	ImageBaseURL        string        `mapstructure:"image_base_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int           `mapstructure:"max_token_per_minute"`
}

type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
	Enabled  bool   `mapstructure:"enabled"`
}

func Load() (*Config, error) {
	// .env is optional, deployments configure through the environment.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	setDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("api.port", 8080)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")
	viper.SetDefault("cache.default_expiration", 5*time.Minute)
	viper.SetDefault("cache.cleanup_interval", 10*time.Minute)
	viper.SetDefault("tasks.cleanup_interval", 10*time.Minute)
	viper.SetDefault("tasks.max_age", time.Hour)
	viper.SetDefault("generation.cost_credits", 1)
	viper.SetDefault("generation.timeout", 3*time.Minute)
	viper.SetDefault("generation.alert_retention", 30*24*time.Hour)
	viper.SetDefault("generation.limit_cache_expiry", 5*time.Minute)
	viper.SetDefault("gemini.text_model", "gemini-2.0-flash")
	viper.SetDefault("gemini.image_model", "imagen-3.0-generate-002")
	viper.SetDefault("gemini.timeout", 2*time.Minute)
	viper.SetDefault("gemini.max_request_per_minute", 15)
	viper.SetDefault("gemini.max_token_per_minute", 1000000)
}
