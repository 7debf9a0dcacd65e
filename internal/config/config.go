package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ServiceConfig holds all configuration for the booking backend.
type ServiceConfig struct {
	Port    string
	AppEnv  string
	DB      DatabaseConfig
	JWT     JWTConfig
	Kafka   KafkaConfig
	Redis   RedisConfig
	Payment PaymentConfig
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns the keyword/value connection string for the database.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// DatabaseURL returns the URL form used by the migration runner.
func (d DatabaseConfig) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

// JWTConfig holds token verification settings.
type JWTConfig struct {
	Secret string
}

// KafkaConfig holds broker addresses and consumer settings. Publish-side
// topic names are part of the event contract and live with the payload
// types in the events package.
type KafkaConfig struct {
	Brokers      []string
	PaymentTopic string
	GroupPrefix  string
}

// RedisConfig holds cache connection settings.
type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	CatalogTTLSecs int
}

// PaymentConfig holds checkout provider settings.
type PaymentConfig struct {
	ProviderURL   string
	APIKey        string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
}

// Load reads configuration from the environment with the STAYEASE_ prefix,
// falling back to defaults suitable for local development.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("STAYEASE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", ":8080")
	v.SetDefault("app_env", "development")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "stayease")
	v.SetDefault("db.password", "stayease")
	v.SetDefault("db.name", "stayease")
	v.SetDefault("db.ssl_mode", "disable")

	v.SetDefault("jwt.secret", "")

	v.SetDefault("kafka.brokers", "localhost:9092")
	v.SetDefault("kafka.payment_topic", "payment.events")
	v.SetDefault("kafka.group_prefix", "stayease-")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.catalog_ttl_seconds", 300)

	v.SetDefault("payment.provider_url", "http://localhost:9090")
	v.SetDefault("payment.api_key", "")
	v.SetDefault("payment.webhook_secret", "")
	v.SetDefault("payment.success_url", "http://localhost:5173/payment/success")
	v.SetDefault("payment.cancel_url", "http://localhost:5173/payment/failure")

	cfg := &ServiceConfig{
		Port:   v.GetString("port"),
		AppEnv: v.GetString("app_env"),
		DB: DatabaseConfig{
			Host:     v.GetString("db.host"),
			Port:     v.GetInt("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			DBName:   v.GetString("db.name"),
			SSLMode:  v.GetString("db.ssl_mode"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("jwt.secret"),
		},
		Kafka: KafkaConfig{
			Brokers:      strings.Split(v.GetString("kafka.brokers"), ","),
			PaymentTopic: v.GetString("kafka.payment_topic"),
			GroupPrefix:  v.GetString("kafka.group_prefix"),
		},
		Redis: RedisConfig{
			Addr:           v.GetString("redis.addr"),
			Password:       v.GetString("redis.password"),
			DB:             v.GetInt("redis.db"),
			CatalogTTLSecs: v.GetInt("redis.catalog_ttl_seconds"),
		},
		Payment: PaymentConfig{
			ProviderURL:   v.GetString("payment.provider_url"),
			APIKey:        v.GetString("payment.api_key"),
			WebhookSecret: v.GetString("payment.webhook_secret"),
			SuccessURL:    v.GetString("payment.success_url"),
			CancelURL:     v.GetString("payment.cancel_url"),
		},
	}

	if cfg.AppEnv != "development" && cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("STAYEASE_JWT_SECRET is required outside development")
	}

	return cfg, nil
}
