package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Sampel65/youshop-go/internal/catalog"
)

// Store backends selectable via STORE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	Port string

	// StoreBackend selects the persistence adapter: memory, postgres, redis.
	StoreBackend string
	DatabaseDSN  string
	RedisAddr    string

	// RabbitURL enables the AMQP push notifier when set; empty means pushes
	// are dropped.
	RabbitURL string

	CatalogURL     string
	CatalogTimeout time.Duration

	// ShippingCost is the flat rate added to the cart total at checkout.
	ShippingCost float64
}

func Load() Config {
	return Config{
		Port: getenv("PORT", "8080"),

		StoreBackend: strings.ToLower(getenv("STORE_BACKEND", BackendMemory)),
		DatabaseDSN:  getenv("SHOP_DB_DSN", ""),
		RedisAddr:    getenv("REDIS_ADDR", "localhost:6379"),

		RabbitURL: getenv("RABBITMQ_URL", ""),

		CatalogURL:     getenv("CATALOG_URL", catalog.DefaultBaseURL),
		CatalogTimeout: parseDuration(getenv("CATALOG_TIMEOUT", "10s"), 10*time.Second),

		ShippingCost: parseFloat(getenv("SHIPPING_COST", "8.00"), 8.00),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func parseFloat(v string, def float64) float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return def
	}
	return f
}
