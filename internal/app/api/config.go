package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
)

// Config carries environment-driven settings for the API and worker processes.
type Config struct {
	Port              string
	Environment       string
	PostgresDSN       string
	TxMaxRetries      int
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	KafkaBrokers      []string
	KafkaTopic        string
	SellerIDs         string
}

// LoadConfig loads an optional .env file, reads environment variables,
// applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		Environment:       envDefault("ENVIRONMENT", "production"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TxMaxRetries:      3,
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		KafkaBrokers:      splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:        envDefault("KAFKA_TOPIC", "order-events"),
		SellerIDs:         strings.TrimSpace(os.Getenv("SELLER_IDS")),
	}
	if raw := strings.TrimSpace(os.Getenv("TX_MAX_RETRIES")); raw != "" {
		retries, err := strconv.Atoi(raw)
		if err != nil || retries < 0 {
			return Config{}, fmt.Errorf("TX_MAX_RETRIES must be a non-negative integer")
		}
		cfg.TxMaxRetries = retries
	}
	return cfg, nil
}

// IsDevelopment reports whether internal error detail may reach clients.
func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
