package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Gateway  GatewayConfig  `yaml:"gateway"`
	Storage  StorageConfig  `yaml:"storage"`
	Mail     MailConfig     `yaml:"mail"`
	Payment  PaymentConfig  `yaml:"payment"`
	Tracing  TracingConfig  `yaml:"tracing"`
	Log      LogConfig      `yaml:"log"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
	Migrate  bool   `yaml:"migrate"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	PaymentEventsTopic string   `yaml:"payment_events_topic"`
	GroupID            string   `yaml:"group_id"`
}

type GatewayConfig struct {
	BaseURL         string `yaml:"base_url"`
	StoreID         string `yaml:"store_id"`
	StorePassword   string `yaml:"store_password"`
	Currency        string `yaml:"currency"`
	CallbackBaseURL string `yaml:"callback_base_url"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
	MaxFailures     int    `yaml:"max_failures"`
	ResetSeconds    int    `yaml:"reset_seconds"`
}

func (g GatewayConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

func (g GatewayConfig) ResetTimeout() time.Duration {
	return time.Duration(g.ResetSeconds) * time.Second
}

type StorageConfig struct {
	CloudName string `yaml:"cloud_name"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
}

type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type PaymentConfig struct {
	SuccessRedirectURL     string `yaml:"success_redirect_url"`
	FailRedirectURL        string `yaml:"fail_redirect_url"`
	CancelRedirectURL      string `yaml:"cancel_redirect_url"`
	CallbackLockTTLSeconds int    `yaml:"callback_lock_ttl_seconds"`
	InvoiceCacheTTLSeconds int    `yaml:"invoice_cache_ttl_seconds"`
}

func (p PaymentConfig) CallbackLockTTL() time.Duration {
	return time.Duration(p.CallbackLockTTLSeconds) * time.Second
}

func (p PaymentConfig) InvoiceCacheTTL() time.Duration {
	return time.Duration(p.InvoiceCacheTTLSeconds) * time.Second
}

type TracingConfig struct {
	ServiceName       string `yaml:"service_name"`
	CollectorEndpoint string `yaml:"collector_endpoint"`
}

type LogConfig struct {
	Development bool `yaml:"development"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.Gateway.Currency == "" {
		c.Gateway.Currency = "BDT"
	}
	if c.Gateway.TimeoutSeconds == 0 {
		c.Gateway.TimeoutSeconds = 15
	}
	if c.Gateway.MaxFailures == 0 {
		c.Gateway.MaxFailures = 5
	}
	if c.Gateway.ResetSeconds == 0 {
		c.Gateway.ResetSeconds = 30
	}
	if c.Kafka.PaymentEventsTopic == "" {
		c.Kafka.PaymentEventsTopic = "payment_events"
	}
	if c.Payment.CallbackLockTTLSeconds == 0 {
		c.Payment.CallbackLockTTLSeconds = 60
	}
	if c.Payment.InvoiceCacheTTLSeconds == 0 {
		c.Payment.InvoiceCacheTTLSeconds = 3600
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "tour-payment"
	}
}
