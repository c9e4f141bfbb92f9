package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// DB
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	// HTTP
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	// JWT
	JWTSecret    string        `envconfig:"JWT_SECRET" required:"true"`
	JWTAccessTTL time.Duration `envconfig:"JWT_ACCESS_TTL" default:"24h"`
	// Payment gateway
	PaystackSecretKey string        `envconfig:"PAYSTACK_SECRET_KEY" required:"true"`
	PaystackBaseURL   string        `envconfig:"PAYSTACK_BASE_URL" default:"https://api.paystack.co"`
	GatewayTimeout    time.Duration `envconfig:"GATEWAY_TIMEOUT" default:"15s"`
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	return &c, nil
}
