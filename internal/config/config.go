package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"craft-store.db"`

	Auth     Auth     `envPrefix:"AUTH_"`
	Paypal   Paypal   `envPrefix:"PAYPAL_"`
	Paystack Paystack `envPrefix:"PAYSTACK_"`
	Yoco     Yoco     `envPrefix:"YOCO_"`
}

type Paypal struct {
	BaseApiURL   string `env:"BASE_API_URL" envDefault:"https://api-m.sandbox.paypal.com"`
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	WebhookID    string `env:"WEBHOOK_ID"`
}

// Paystack webhooks stay disabled until the secret key is configured.
type Paystack struct {
	SecretKey string `env:"SECRET_KEY"`
}

// Yoco webhooks stay disabled until the webhook secret is configured.
type Yoco struct {
	WebhookSecret string `env:"WEBHOOK_SECRET"`
}

type Auth struct {
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
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
