package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configurations.
type Config struct {
	Server struct {
		Address       string `mapstructure:"address"`
		CORSOrigins   string `mapstructure:"cors_origins"`
		RateLimitMax  int    `mapstructure:"rate_limit_max"`
		RateLimitSecs int    `mapstructure:"rate_limit_window"`
	} `mapstructure:"server"`
	Storage struct {
		Driver string `mapstructure:"driver"` // memory, mysql or mongodb
	} `mapstructure:"storage"`
	Database struct {
		Driver   string `mapstructure:"driver"`
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	MongoDB struct {
		URI        string `mapstructure:"uri"`
		Database   string `mapstructure:"database"`
		Collection string `mapstructure:"collection"`
	} `mapstructure:"mongodb"`
	Kafka struct {
		Brokers     []string `mapstructure:"brokers"`
		QuoteTopic  string   `mapstructure:"quote_topic"`
		StatusTopic string   `mapstructure:"status_topic"`
		GroupID     string   `mapstructure:"group_id"`
		Enabled     bool     `mapstructure:"enabled"`
	} `mapstructure:"kafka"`
	Log struct {
		Level      string `mapstructure:"level"`
		Format     string `mapstructure:"format"`
		Output     string `mapstructure:"output"` // stdout, file or both
		Path       string `mapstructure:"path"`
		MaxSizeMB  int    `mapstructure:"max_size_mb"`
		MaxBackups int    `mapstructure:"max_backups"`
		MaxAgeDays int    `mapstructure:"max_age_days"`
	} `mapstructure:"log"`
	Auth struct {
		JWTSecret string        `mapstructure:"jwt_secret"`
		TokenTTL  time.Duration `mapstructure:"token_ttl"`
	} `mapstructure:"auth"`
	Payment struct {
		MerchantID     string        `mapstructure:"merchant_id"`
		MerchantKey    string        `mapstructure:"merchant_key"`
		MerchantSalt   string        `mapstructure:"merchant_salt"`
		TokenURL       string        `mapstructure:"token_url"`
		IframeURL      string        `mapstructure:"iframe_url"`
		OkURL          string        `mapstructure:"ok_url"`
		FailURL        string        `mapstructure:"fail_url"`
		Currency       string        `mapstructure:"currency"`
		TestMode       bool          `mapstructure:"test_mode"`
		MaxInstallment int           `mapstructure:"max_installment"`
		TimeoutLimit   int           `mapstructure:"timeout_limit"` // minutes, sent to the provider
		RequestTimeout time.Duration `mapstructure:"request_timeout"`
	} `mapstructure:"payment"`
	Mail struct {
		Host           string `mapstructure:"host"`
		Port           int    `mapstructure:"port"`
		Username       string `mapstructure:"username"`
		Password       string `mapstructure:"password"`
		From           string `mapstructure:"from"`
		QuoteRecipient string `mapstructure:"quote_recipient"`
	} `mapstructure:"mail"`
	Checkout struct {
		ExpireAfter   time.Duration `mapstructure:"expire_after"`
		SweepSchedule string        `mapstructure:"sweep_schedule"`
	} `mapstructure:"checkout"`
}

// LoadConfig reads configuration from config.yml, an optional .env file and CATALOG_* variables.
func LoadConfig() (*Config, error) {
	// .env is optional; a missing file is not an error
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath("./config")
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("CATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":3000")
	v.SetDefault("server.cors_origins", "*")
	v.SetDefault("server.rate_limit_max", 100)
	v.SetDefault("server.rate_limit_window", 60)

	v.SetDefault("storage.driver", "memory")

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", "3306")
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "catalog_db")

	v.SetDefault("mongodb.uri", "mongodb://localhost:27017")
	v.SetDefault("mongodb.database", "catalog")
	v.SetDefault("mongodb.collection", "state_records")

	v.SetDefault("kafka.brokers", []string{"127.0.0.1:9092"})
	v.SetDefault("kafka.quote_topic", "quote-topic")
	v.SetDefault("kafka.status_topic", "order-status-topic")
	v.SetDefault("kafka.group_id", "quote-notifier")
	v.SetDefault("kafka.enabled", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.path", "logs")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)

	v.SetDefault("auth.jwt_secret", "change-me")
	v.SetDefault("auth.token_ttl", 24*time.Hour)

	v.SetDefault("payment.token_url", "https://www.paytr.com/odeme/api/get-token")
	v.SetDefault("payment.iframe_url", "https://www.paytr.com/odeme/guvenli/")
	v.SetDefault("payment.ok_url", "http://localhost:5173/payment/success")
	v.SetDefault("payment.fail_url", "http://localhost:5173/payment/error")
	v.SetDefault("payment.currency", "TL")
	v.SetDefault("payment.test_mode", true)
	v.SetDefault("payment.max_installment", 12)
	v.SetDefault("payment.timeout_limit", 30)
	v.SetDefault("payment.request_timeout", 15*time.Second)

	v.SetDefault("mail.host", "localhost")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.from", "catalog@example.com")
	v.SetDefault("mail.quote_recipient", "sales@example.com")

	v.SetDefault("checkout.expire_after", 30*time.Minute)
	v.SetDefault("checkout.sweep_schedule", "@every 1m")
}

// Validate checks values that cannot be defaulted sensibly.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "memory", "mysql", "mongodb":
	default:
		return fmt.Errorf("unsupported storage driver %q", c.Storage.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret must not be empty")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers must be set when kafka is enabled")
	}
	return nil
}
