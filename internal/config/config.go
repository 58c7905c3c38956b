package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	Database Database `envPrefix:"DB_"`
	PayTR    PayTR    `envPrefix:"PAYTR_"`
	Auth     Auth     `envPrefix:"JWT_"`
	Order    Order    `envPrefix:"ORDER_"`
	Worker   Worker
	Kafka    Kafka `envPrefix:"KAFKA_"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

type Database struct {
	// sqlite, mysql or postgres
	Driver         string `env:"DRIVER" envDefault:"sqlite"`
	URL            string `env:"URL" envDefault:"storefront.db"`
	MigrationsPath string `env:"MIGRATIONS_PATH"`
	SeedProducts   bool   `env:"SEED_PRODUCTS" envDefault:"false"`
}

type PayTR struct {
	BaseApiURL     string `env:"BASE_API_URL" envDefault:"https://www.paytr.com"`
	MerchantID     string `env:"MERCHANT_ID"`
	MerchantKey    string `env:"MERCHANT_KEY"`
	MerchantSalt   string `env:"MERCHANT_SALT"`
	TestMode       bool   `env:"TEST_MODE" envDefault:"true"`
	MaxInstallment int    `env:"MAX_INSTALLMENT" envDefault:"0"`
	NoInstallment  bool   `env:"NO_INSTALLMENT" envDefault:"true"`
	OkURL          string `env:"OK_URL"`
	FailURL        string `env:"FAIL_URL"`
}

type Auth struct {
	Secret string `env:"SECRET"`
	Issuer string `env:"ISSUER" envDefault:"storefront"`
}

type Order struct {
	// one TTL for every checkout path; also sent to the gateway as timeout_limit
	TTL      time.Duration `env:"TTL" envDefault:"30m"`
	Currency string        `env:"CURRENCY" envDefault:"TL"`
}

type Worker struct {
	ExpirySweepInterval time.Duration `env:"EXPIRY_SWEEP_INTERVAL" envDefault:"15s"`
	OutboxRelayInterval time.Duration `env:"OUTBOX_RELAY_INTERVAL" envDefault:"5s"`
	OutboxBatchSize     int           `env:"OUTBOX_BATCH_SIZE" envDefault:"100"`
}

type Kafka struct {
	Brokers []string `env:"BROKERS" envSeparator:","`
	Topic   string   `env:"TOPIC" envDefault:"order-events"`
}

// ResolveReturnURLs fills the gateway return pages from BASE_URL when they
// are not set explicitly.
func (c *Config) ResolveReturnURLs() {
	base := strings.TrimRight(c.BaseURL, "/")
	if c.PayTR.OkURL == "" {
		c.PayTR.OkURL = base + "/payment/success"
	}
	if c.PayTR.FailURL == "" {
		c.PayTR.FailURL = base + "/payment/failed"
	}
}

// Validate reports settings the service cannot start without.
func (c *Config) Validate() error {
	var missing []string
	if c.Auth.Secret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.PayTR.MerchantID == "" {
		missing = append(missing, "PAYTR_MERCHANT_ID")
	}
	if c.PayTR.MerchantKey == "" {
		missing = append(missing, "PAYTR_MERCHANT_KEY")
	}
	if c.PayTR.MerchantSalt == "" {
		missing = append(missing, "PAYTR_MERCHANT_SALT")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}

	// the gateway takes timeout_limit in whole minutes
	if c.Order.TTL < time.Minute {
		return errors.New("ORDER_TTL must be at least 1m")
	}

	return nil
}
