package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP          HTTPConfig          `yaml:"http"`
	Database      DatabaseConfig      `yaml:"database"`
	Redis         RedisConfig         `yaml:"redis"`
	Kafka         KafkaConfig         `yaml:"kafka"`
	Auth          AuthConfig          `yaml:"auth"`
	Payments      PaymentsConfig      `yaml:"payments"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Booking       BookingConfig       `yaml:"booking"`
	Worker        WorkerConfig        `yaml:"worker"`
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
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

type PaymentsConfig struct {
	Currency       string        `yaml:"currency"`
	TimeoutSeconds int           `yaml:"timeout_seconds"`
	Stripe         StripeConfig  `yaml:"stripe"`
	PayPal         PayPalConfig  `yaml:"paypal"`
	PayTabs        PayTabsConfig `yaml:"paytabs"`
}

type StripeConfig struct {
	SecretKey string `yaml:"secret_key"`
	BaseURL   string `yaml:"base_url"`
}

type PayPalConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	BaseURL      string `yaml:"base_url"`
	ReturnURL    string `yaml:"return_url"`
	CancelURL    string `yaml:"cancel_url"`
}

type PayTabsConfig struct {
	MerchantID  string `yaml:"merchant_id"`
	SecretKey   string `yaml:"secret_key"`
	BaseURL     string `yaml:"base_url"`
	ReturnURL   string `yaml:"return_url"`
	CallbackURL string `yaml:"callback_url"`
}

type NotificationsConfig struct {
	SMTP SMTPConfig `yaml:"smtp"`
	SMS  SMSConfig  `yaml:"sms"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type SMSConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
	BaseURL    string `yaml:"base_url"`
}

type BookingConfig struct {
	PackagesCacheTTLSeconds int `yaml:"packages_cache_ttl_seconds"`
}

type WorkerConfig struct {
	ReminderSweepMinutes   int `yaml:"reminder_sweep_minutes"`
	ReminderWindowHours    int `yaml:"reminder_window_hours"`
	CompletionSweepMinutes int `yaml:"completion_sweep_minutes"`
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

	// Secrets come from the environment when present so config.yaml can be
	// committed without credentials.
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("STRIPE_SECRET_KEY"); v != "" {
		cfg.Payments.Stripe.SecretKey = v
	}
	if v := os.Getenv("PAYPAL_CLIENT_SECRET"); v != "" {
		cfg.Payments.PayPal.ClientSecret = v
	}
	if v := os.Getenv("PAYTABS_SECRET_KEY"); v != "" {
		cfg.Payments.PayTabs.SecretKey = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		cfg.Notifications.SMTP.Password = v
	}
	if v := os.Getenv("TWILIO_AUTH_TOKEN"); v != "" {
		cfg.Notifications.SMS.AuthToken = v
	}

	return &cfg, nil
}
