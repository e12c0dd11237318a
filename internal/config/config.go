package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Quota      QuotaConfig      `mapstructure:"quota"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Generation GenerationConfig `mapstructure:"generation"`
	Stripe     StripeConfig     `mapstructure:"stripe"`
	Auth       AuthConfig       `mapstructure:"auth"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"` // postgres | sqlite
	URL          string `mapstructure:"url"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type QuotaConfig struct {
	Store string `mapstructure:"store"` // database | redis | memory
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	BaseURL     string  `mapstructure:"base_url"`
	Temperature float32 `mapstructure:"temperature"`
}

type GenerationConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	RatePerSecond float64       `mapstructure:"rate_per_second"`
	Burst         int           `mapstructure:"burst"`
}

type StripeConfig struct {
	SecretKey     string       `mapstructure:"secret_key"`
	WebhookSecret string       `mapstructure:"webhook_secret"`
	SiteURL       string       `mapstructure:"site_url"`
	Prices        StripePrices `mapstructure:"prices"`
}

type StripePrices struct {
	ProMonth     string `mapstructure:"pro_month"`
	ProYear      string `mapstructure:"pro_year"`
	PremiumMonth string `mapstructure:"premium_month"`
	PremiumYear  string `mapstructure:"premium_year"`
}

type AuthConfig struct {
	JWTSecret     string `mapstructure:"jwt_secret"`
	Disabled      bool   `mapstructure:"disabled"`
	DemoAccountID string `mapstructure:"demo_account_id"`
}

type RateLimitConfig struct {
	Generate string `mapstructure:"generate"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// legacyEnv binds the flat variable names the service has always read.
var legacyEnv = map[string]string{
	"server.port":                 "PORT",
	"database.url":                "POSTGRES_URL",
	"gemini.api_key":              "GEMINI_API_KEY",
	"gemini.model":                "GEMINI_MODEL",
	"openai.api_key":              "OPENAI_API_KEY",
	"openai.model":                "OPENAI_MODEL",
	"auth.jwt_secret":             "JWT_SECRET",
	"stripe.secret_key":           "STRIPE_SECRET_KEY",
	"stripe.webhook_secret":       "STRIPE_WEBHOOK_SECRET",
	"stripe.site_url":             "CLIENT_URL",
	"stripe.prices.pro_month":     "STRIPE_PRICE_PRO_MONTH",
	"stripe.prices.pro_year":      "STRIPE_PRICE_PRO_YEAR",
	"stripe.prices.premium_month": "STRIPE_PRICE_PREMIUM_MONTH",
	"stripe.prices.premium_year":  "STRIPE_PRICE_PREMIUM_YEAR",
}

// Load reads .env (if present), then config/app.yaml (if present), then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key, env := range legacyEnv {
		if err := v.BindEnv(key, strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every key, including empty ones; Unmarshal only consults the
// environment for keys viper already knows about.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "4000")
	v.SetDefault("server.mode", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 10)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("quota.store", "database")

	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.temperature", 0.4)

	v.SetDefault("generation.timeout", "30s")
	v.SetDefault("generation.rate_per_second", 5)
	v.SetDefault("generation.burst", 10)

	v.SetDefault("stripe.site_url", "http://localhost:5173")

	v.SetDefault("auth.disabled", false)
	v.SetDefault("auth.demo_account_id", "demo-user")

	v.SetDefault("rate_limit.generate", "30-M")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

func (c *Config) IsProduction() bool {
	return c.Server.Mode == "production"
}
