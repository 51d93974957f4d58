package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log       Logger       `mapstructure:"logger"`
	DB        Database     `mapstructure:"database"`
	API       API          `mapstructure:"api"`
	Cache     Cache        `mapstructure:"cache"`
	Scheduler Scheduler    `mapstructure:"scheduler"`
	Resolver  Resolver     `mapstructure:"resolver"`
	Finnhub   Finnhub      `mapstructure:"finnhub"`
	Yahoo     YahooFinance `mapstructure:"yahoo_finance"`
	Gemini    Gemini       `mapstructure:"gemini"`
	Alert     AlertWebhook `mapstructure:"alert"`
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
	Port           int     `mapstructure:"port"`
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

type Cache struct {
	QuoteTTL        time.Duration `mapstructure:"quote_ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

type Scheduler struct {
	RefreshCron    string        `mapstructure:"refresh_cron"`
	MaxConcurrency int           `mapstructure:"max_concurrency"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

type Resolver struct {
	ProviderTimeout time.Duration `mapstructure:"provider_timeout"`
	BatchSize       int           `mapstructure:"batch_size"`
	BatchDelay      time.Duration `mapstructure:"batch_delay"`
}

type Finnhub struct {
	APIKey              string        `mapstructure:"api_key"`
	BaseURL             string        `mapstructure:"base_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

type YahooFinance struct {
	BaseURL             string        `mapstructure:"base_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

type Gemini struct {
	APIKey              string        `mapstructure:"api_key"`
	BaseURL             string        `mapstructure:"base_url"`
	BaseModel           string        `mapstructure:"base_model"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int           `mapstructure:"max_token_per_minute"`
}

type AlertWebhook struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

func Load() (*Config, error) {
	// .env is optional, deployment platforms inject env vars directly
	_ = godotenv.Load()

	viper.SetConfigType("yaml")
	viper.SetConfigName("config")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")

	viper.SetDefault("api.port", 8080)
	viper.SetDefault("api.rate_limit_rps", 10)
	viper.SetDefault("api.rate_limit_burst", 30)

	viper.SetDefault("cache.quote_ttl", 90*time.Second)
	viper.SetDefault("cache.cleanup_interval", 5*time.Minute)

	viper.SetDefault("scheduler.refresh_cron", "*/15 * * * *")
	viper.SetDefault("scheduler.max_concurrency", 5)
	viper.SetDefault("scheduler.timeout", 5*time.Minute)

	viper.SetDefault("resolver.provider_timeout", 5*time.Second)
	viper.SetDefault("resolver.batch_size", 5)
	viper.SetDefault("resolver.batch_delay", 500*time.Millisecond)

	viper.SetDefault("finnhub.base_url", "https://finnhub.io/api/v1")
	viper.SetDefault("finnhub.timeout", 5*time.Second)
	viper.SetDefault("finnhub.max_request_per_minute", 60)

	viper.SetDefault("yahoo_finance.base_url", "https://query1.finance.yahoo.com/v8/finance/chart")
	viper.SetDefault("yahoo_finance.timeout", 5*time.Second)
	viper.SetDefault("yahoo_finance.max_request_per_minute", 30)

	viper.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta/models")
	viper.SetDefault("gemini.base_model", "gemini-2.0-flash")
	viper.SetDefault("gemini.timeout", 10*time.Second)
	viper.SetDefault("gemini.max_request_per_minute", 15)
	viper.SetDefault("gemini.max_token_per_minute", 1000000)

	viper.SetDefault("alert.timeout", 5*time.Second)
}
