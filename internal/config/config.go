package config

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/corray333/backend-labs/portal/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// MustInit loads .env (optional), reads config.yaml and installs the default logger.
func MustInit() {
	if err := godotenv.Load("./.env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic("error while loading .env file: " + err.Error())
	}

	SetDefaults()
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/etc/portal-svc")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		panic("error while reading config file: " + err.Error())
	}
	SetupLogger()
}

// SetDefaults registers the values used when config.yaml omits a key.
func SetDefaults() {
	viper.SetDefault("server.http.port", "8080")
	viper.SetDefault("search.debounce_ms", 300)
	viper.SetDefault("search.customer_limit", 10)
	viper.SetDefault("search.product_limit", 50)
	viper.SetDefault("submission.timeout_seconds", 30)
	viper.SetDefault("history.key", "ginza_order_history")
	viper.SetDefault("history.storage", "redis")
	viper.SetDefault("portal.order_prefix", "GINZA")
	viper.SetDefault("portal.timezone", "Asia/Kolkata")
	viper.SetDefault("rabbitmq.outbox.poll_interval_seconds", 5)
	viper.SetDefault("rabbitmq.outbox.batch_size", 100)
	viper.SetDefault("tracing.jaeger_endpoint", "http://jaeger:14268/api/traces")
	viper.SetDefault("postgres.migrations_path", "./migrations")
}

func SetupLogger() {
	handler := logger.NewHandler(nil)
	log := slog.New(handler)
	slog.SetDefault(log)
}
